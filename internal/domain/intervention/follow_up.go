package intervention

import "time"

type FollowUp struct {
	ID        uint               `gorm:"primaryKey;autoIncrement" json:"id"`
	CaseID    uint               `gorm:"column:case_id;not null;uniqueIndex" json:"caseId"`
	Occurred  bool               `gorm:"column:occurred;not null" json:"occurred"`
	Types     *FollowUpTypeFlags `gorm:"foreignKey:FollowUpID" json:"typeFlags,omitempty"`
	Detail    *FollowUpDetail    `gorm:"foreignKey:FollowUpID" json:"detail,omitempty"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (FollowUp) TableName() string { return "follow_up" }

type FollowUpTypeFlags struct {
	ID         uint `gorm:"primaryKey;autoIncrement" json:"id"`
	FollowUpID uint `gorm:"column:follow_up_id;not null;uniqueIndex" json:"followUpId"`

	LegalAdvice            bool `gorm:"column:legal_advice;not null" json:"legalAdvice"`
	PsychologicalTreatment bool `gorm:"column:psychological_treatment;not null" json:"psychologicalTreatment"`
	LegalFollowUp          bool `gorm:"column:legal_follow_up;not null" json:"legalFollowUp"`
	CaseArchived           bool `gorm:"column:case_archived;not null" json:"caseArchived"`
}

func (FollowUpTypeFlags) TableName() string { return "follow_up_type_flags" }

type FollowUpDetail struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	FollowUpID uint   `gorm:"column:follow_up_id;not null;uniqueIndex" json:"followUpId"`
	Detail     string `gorm:"column:detail;type:text" json:"detail"`
}

func (FollowUpDetail) TableName() string { return "follow_up_detail" }
