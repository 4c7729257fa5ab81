package intervention

import (
	"time"

	"gorm.io/datatypes"
)

type CaseEventKind string

const (
	CaseEventCreated       CaseEventKind = "created"
	CaseEventPatched       CaseEventKind = "patched"
	CaseEventStatusChanged CaseEventKind = "status_changed"
)

// CaseEvent is an append-only trail of writes applied to a case.
type CaseEvent struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CaseID    uint           `gorm:"column:case_id;not null;index" json:"caseId"`
	Kind      CaseEventKind  `gorm:"column:kind;not null" json:"kind"`
	ActorID   uint           `gorm:"column:actor_id;not null" json:"actorId"`
	Payload   datatypes.JSON `gorm:"column:payload" json:"payload"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime;index" json:"createdAt"`
}

func (CaseEvent) TableName() string { return "case_event" }
