package middleware

import "context"

type contextKey string

const (
	ctxRequestID   contextKey = "request_id"
	ctxSessionUser contextKey = "session_user"
)

// SessionUser is the authenticated operator attached to a request.
type SessionUser struct {
	ID          uint
	Username    string
	IsSuperuser bool
}

// WithRequestID injects the request identifier into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRequestID, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRequestID).(string); ok {
		return v
	}
	return ""
}

// WithSessionUser injects the authenticated operator into the context.
func WithSessionUser(ctx context.Context, user SessionUser) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSessionUser, user)
}

func SessionUserFromContext(ctx context.Context) (SessionUser, bool) {
	if ctx == nil {
		return SessionUser{}, false
	}
	user, ok := ctx.Value(ctxSessionUser).(SessionUser)
	return user, ok
}
