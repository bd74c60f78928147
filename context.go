package goGuard

import "context"

type roleContextKey struct{}

// WithRole attaches the acting principal's role to ctx. Identity is resolved
// by the caller; goGuard only compares the role it is given.
func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleContextKey{}, role)
}

// RoleFromContext returns the role attached with WithRole.
func RoleFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}

	role, _ := ctx.Value(roleContextKey{}).(string)
	if role == "" {
		return "", false
	}
	return role, true
}
