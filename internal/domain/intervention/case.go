package intervention

import "time"

type CaseStatus string

const (
	StatusActive   CaseStatus = "active"
	StatusClosed   CaseStatus = "closed"
	StatusArchived CaseStatus = "archived"
	StatusDeleted  CaseStatus = "deleted"
)

// Case is the aggregate root of one victim-assistance intervention.
// Owned sub-entities are has-one relations keyed by case_id; they are
// loaded only through the read projection.
type Case struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string     `gorm:"column:code;not null;uniqueIndex" json:"code"`
	Date        time.Time  `gorm:"column:date;not null" json:"date"`
	Coordinator *string    `gorm:"column:coordinator" json:"coordinator,omitempty"`
	Operator    *string    `gorm:"column:operator" json:"operator,omitempty"`
	Summary     string     `gorm:"column:summary;type:text" json:"summary"`
	Status      CaseStatus `gorm:"column:status;not null;index" json:"status"`
	Deleted     bool       `gorm:"column:deleted;not null;index" json:"deleted"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	Referral              *Referral              `gorm:"foreignKey:CaseID" json:"referral,omitempty"`
	CriminalEvent         *CriminalEvent         `gorm:"foreignKey:CaseID" json:"criminalEvent,omitempty"`
	PrimaryResponseAction *PrimaryResponseAction `gorm:"foreignKey:CaseID" json:"primaryResponseAction,omitempty"`
	SexualAbuse           *SexualAbuse           `gorm:"foreignKey:CaseID" json:"sexualAbuse,omitempty"`
	Victim                *Victim                `gorm:"foreignKey:CaseID" json:"victim,omitempty"`
	InterventionTypes     *InterventionTypeFlags `gorm:"foreignKey:CaseID" json:"interventionTypes,omitempty"`
	FollowUp              *FollowUp              `gorm:"foreignKey:CaseID" json:"followUp,omitempty"`
}

func (Case) TableName() string { return "intervention_case" }

// IsTerminal reports whether the case accepts no further mutation.
func (c *Case) IsTerminal() bool {
	return c != nil && (c.Deleted || c.Status == StatusDeleted)
}

// PrimaryResponseAction records what the first responder did.
type PrimaryResponseAction struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CaseID       uint      `gorm:"column:case_id;not null;uniqueIndex" json:"caseId"`
	ActionsTaken string    `gorm:"column:actions_taken;type:text" json:"actionsTaken"`
	AuditUserID  uint      `gorm:"column:audit_user_id;not null" json:"auditUserId"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (PrimaryResponseAction) TableName() string { return "primary_response_action" }
