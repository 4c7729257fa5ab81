package ctxutil

import "context"

type actorKey struct{}

// Actor identifies the operator on whose behalf a request runs.
type Actor struct {
	UserID uint
}

func WithActor(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

func GetActor(ctx context.Context) *Actor {
	if ctx == nil {
		return nil
	}
	if a, ok := ctx.Value(actorKey{}).(*Actor); ok {
		return a
	}
	return nil
}

// ActorID returns the acting user id or fallback when none is attached.
func ActorID(ctx context.Context, fallback uint) uint {
	if a := GetActor(ctx); a != nil && a.UserID != 0 {
		return a.UserID
	}
	return fallback
}

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
