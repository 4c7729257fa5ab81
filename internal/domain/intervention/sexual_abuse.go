package intervention

import "time"

// AbuseKind is stored as a small integer.
type AbuseKind int

const (
	AbuseNone       AbuseKind = 0
	AbuseSimple     AbuseKind = 1
	AbuseAggravated AbuseKind = 2
)

// DeriveAbuseKind folds the two input booleans into one kind.
// Aggravated wins when both are set.
func DeriveAbuseKind(simple, aggravated bool) AbuseKind {
	switch {
	case aggravated:
		return AbuseAggravated
	case simple:
		return AbuseSimple
	default:
		return AbuseNone
	}
}

type SexualAbuse struct {
	ID        uint               `gorm:"primaryKey;autoIncrement" json:"id"`
	CaseID    uint               `gorm:"column:case_id;not null;uniqueIndex" json:"caseId"`
	Kind      AbuseKind          `gorm:"column:kind;not null" json:"abuseKind"`
	Detail    *SexualAbuseDetail `gorm:"foreignKey:SexualAbuseID" json:"detail,omitempty"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (SexualAbuse) TableName() string { return "sexual_abuse" }

type SexualAbuseDetail struct {
	ID               uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	SexualAbuseID    uint   `gorm:"column:sexual_abuse_id;not null;uniqueIndex" json:"sexualAbuseId"`
	KitApplied       bool   `gorm:"column:kit_applied;not null" json:"kitApplied"`
	RelationToVictim int    `gorm:"column:relation_to_victim" json:"relationToVictim"`
	RelationOther    string `gorm:"column:relation_other" json:"relationOther"`
	PlaceKind        int    `gorm:"column:place_kind" json:"placeKind"`
	PlaceOther       string `gorm:"column:place_other" json:"placeOther"`
}

func (SexualAbuseDetail) TableName() string { return "sexual_abuse_detail" }
