package domain

import "context"

// contextKey is a private type so context values cannot collide with keys
// from other packages.
type contextKey string

const userContextKey contextKey = "authenticated_user"

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the authenticated user, or nil if none is set.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey).(*User)
	return user
}
