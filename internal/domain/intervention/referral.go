package intervention

import "time"

type Referral struct {
	ID           uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	CaseID       uint            `gorm:"column:case_id;not null;uniqueIndex" json:"caseId"`
	ReasonID     uint            `gorm:"column:reason_id;not null;index" json:"reasonCode"`
	Reason       *ReferralReason `gorm:"foreignKey:ReasonID" json:"reason,omitempty"`
	ReferrerName string          `gorm:"column:referrer_name" json:"referrerName"`
	ReferredAt   time.Time       `gorm:"column:referred_at;not null" json:"referralTimestamp"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Referral) TableName() string { return "referral" }
