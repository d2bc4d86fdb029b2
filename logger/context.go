package logger

import "context"

type contextKey string

// ContextWithRequestID stores the request id picked up by WithContext.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey(FieldRequestID), id)
}

// ContextWithUserID stores the authenticated subject picked up by WithContext.
func ContextWithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey(FieldUserID), id)
}

// ContextWithTurnID stores the speech turn id picked up by WithContext.
func ContextWithTurnID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey(FieldTurnID), id)
}

// RequestIDFromContext returns the request id stored in ctx, if any.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey(FieldRequestID)).(string)
	return id
}
