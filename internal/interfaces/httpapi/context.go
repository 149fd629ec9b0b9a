package httpapi

import "context"

// Principal is the caller identity forwarded by the club's auth gateway.
// Authentication happens upstream; this layer only reads the trusted headers.
type Principal struct {
	UserID string
	Name   string
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == "admin"
}

type contextKey string

const principalContextKey contextKey = "club_principal"

func withPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

func principalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(Principal)
	return p, ok
}
