package aggregates

import (
	"context"
	"fmt"

	types "github.com/yungbote/intervention-backend/internal/domain"
	domainagg "github.com/yungbote/intervention-backend/internal/domain/aggregates"
	"github.com/yungbote/intervention-backend/internal/platform/dbctx"
)

type transitionRule struct {
	from    []types.CaseStatus
	to      types.CaseStatus
	deleted bool
}

// Deleted is terminal: only a repeated delete is accepted from it.
var transitionRules = map[domainagg.Transition]transitionRule{
	domainagg.TransitionClose: {
		from: []types.CaseStatus{types.CaseStatusActive, types.CaseStatusClosed},
		to:   types.CaseStatusClosed,
	},
	domainagg.TransitionArchive: {
		from: []types.CaseStatus{types.CaseStatusActive, types.CaseStatusArchived},
		to:   types.CaseStatusArchived,
	},
	domainagg.TransitionDelete: {
		from:    []types.CaseStatus{types.CaseStatusActive, types.CaseStatusClosed, types.CaseStatusArchived, types.CaseStatusDeleted},
		to:      types.CaseStatusDeleted,
		deleted: true,
	},
	domainagg.TransitionReactivate: {
		from: []types.CaseStatus{types.CaseStatusActive, types.CaseStatusClosed, types.CaseStatusArchived},
		to:   types.CaseStatusActive,
	},
}

func statusStrings(in []types.CaseStatus) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, string(s))
	}
	return out
}

// Transition applies a lifecycle change as one guarded row update outside
// the aggregate transaction. Re-applying the current state is a no-op.
func (a *CaseAggregate) Transition(ctx context.Context, in domainagg.TransitionInput) (*types.Case, error) {
	rule, ok := transitionRules[in.Transition]
	if !ok {
		return nil, failBeforeWrite(a.deps.Base, opCaseTransition, ValidationError(fmt.Sprintf("unknown transition %q", in.Transition)))
	}
	if in.CaseID == 0 {
		return nil, failBeforeWrite(a.deps.Base, opCaseTransition, ValidationError("case id is required"))
	}

	var out *types.Case
	var from types.CaseStatus
	changed := false
	err := executeDirect(ctx, a.deps.Base, opCaseTransition, func(dbc dbctx.Context) error {
		current, err := a.deps.Repos.Cases.GetByID(dbc, in.CaseID)
		if err != nil {
			return err
		}
		if current == nil {
			return domainagg.NewError(domainagg.CodeNotFound, opCaseTransition, fmt.Sprintf("case %d not found", in.CaseID), nil)
		}
		from = current.Status
		if current.Status == rule.to && current.Deleted == rule.deleted {
			out = current
			return nil
		}
		if current.IsTerminal() && !rule.deleted {
			return InvariantError(fmt.Sprintf("case %d is deleted", in.CaseID))
		}
		allowed := statusStrings(rule.from)
		if err := RequireStatusAllowed(string(current.Status), allowed...); err != nil {
			return err
		}

		updates := map[string]any{
			"status":     string(rule.to),
			"updated_at": a.deps.Now().UTC(),
		}
		if rule.deleted {
			updates["deleted"] = true
		}
		ok, err := a.deps.Base.CASGuard.UpdateByStatus(dbc, types.Case{}.TableName(), current.ID, allowed, updates)
		if err != nil {
			return err
		}
		if err := RequireCASSuccess(ok, "case status changed concurrently"); err != nil {
			return err
		}
		changed = true

		out, err = a.deps.Repos.Cases.GetByID(dbc, current.ID)
		if err != nil {
			return err
		}
		if out == nil {
			return domainagg.NewError(domainagg.CodeNotFound, opCaseTransition, fmt.Sprintf("case %d vanished during transition", current.ID), nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		payload := map[string]any{"from": from, "to": rule.to, "transition": in.Transition}
		if err := a.appendEvent(dbctx.Context{Ctx: ctx}, out.ID, types.CaseEventStatusChanged, in.ActorID, payload); err != nil {
			a.deps.Base.Log.Warn("case status event not recorded", "case_id", out.ID, "error", err)
		}
		a.deps.Base.Log.Info("case status changed",
			"case_id", out.ID,
			"from", from,
			"to", rule.to,
			"actor_id", in.ActorID,
		)
	}
	return out, nil
}
