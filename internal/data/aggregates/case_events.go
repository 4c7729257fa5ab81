package aggregates

import (
	"encoding/json"

	"gorm.io/datatypes"

	types "github.com/yungbote/intervention-backend/internal/domain"
	"github.com/yungbote/intervention-backend/internal/platform/dbctx"
)

func (a *CaseAggregate) appendEvent(dbc dbctx.Context, caseID uint, kind types.CaseEventKind, actorID uint, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return a.deps.Repos.Events.Create(dbc, &types.CaseEvent{
		CaseID:  caseID,
		Kind:    kind,
		ActorID: actorID,
		Payload: datatypes.JSON(raw),
	})
}
