package middleware

import "context"

type contextKey string

const (
	ctxActor          contextKey = "actor"
	ctxWorkingGroupID contextKey = "working_group_id"
)

func ActorFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxActor).(string); ok {
		return v
	}
	return ""
}

func WorkingGroupIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxWorkingGroupID).(string); ok {
		return v
	}
	return ""
}

// WithActor injects the acting identity into the context.
func WithActor(ctx context.Context, actor string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActor, actor)
}

// WithWorkingGroupID injects the working group identifier into the context for downstream handlers.
func WithWorkingGroupID(ctx context.Context, workingGroupID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxWorkingGroupID, workingGroupID)
}
