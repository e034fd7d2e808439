package auth

import "context"

type contextKey int

const (
	contextKeyTenant contextKey = iota
	contextKeyRole
	contextKeySubject
)

// WithIdentity attaches the authenticated caller to the context. Every
// downstream query is scoped by the tenant id stored here.
func WithIdentity(ctx context.Context, tenantID string, role Role, subject string) context.Context {
	ctx = context.WithValue(ctx, contextKeyTenant, tenantID)
	ctx = context.WithValue(ctx, contextKeyRole, role)
	return context.WithValue(ctx, contextKeySubject, subject)
}

// TenantIDFromContext returns the caller's tenant id, or "".
func TenantIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	tenantID, _ := ctx.Value(contextKeyTenant).(string)
	return tenantID
}

// RoleFromContext returns the caller's role, or "".
func RoleFromContext(ctx context.Context) Role {
	if ctx == nil {
		return ""
	}
	role, _ := ctx.Value(contextKeyRole).(Role)
	return role
}

// SubjectFromContext returns the caller's subject claim, or "".
func SubjectFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	subject, _ := ctx.Value(contextKeySubject).(string)
	return subject
}
