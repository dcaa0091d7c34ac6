// Package userctx carries the identity of the logged in user through request
// contexts so lower layers (audit logging, repositories) need not depend on
// the authenticator.
package userctx

import "context"

type contextKey struct{}

// Identity is the request's logged in user as seen by logging and auditing
type Identity struct {
	ID       string // session identifier, see models.User.SessionID
	Username string
	Provider string
}

// WithIdentity returns a copy of ctx carrying id
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity added by WithIdentity
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

// GetUsername returns the identity's username, or "anonymous"
func GetUsername(ctx context.Context) string {
	if id, ok := FromContext(ctx); ok && id.Username != "" {
		return id.Username
	}
	return "anonymous"
}

// GetUserID returns the identity's ID, or "" when nobody is logged in
func GetUserID(ctx context.Context) string {
	id, _ := FromContext(ctx)
	return id.ID
}
