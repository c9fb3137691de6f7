// Package identity carries the authenticated user through request context.
package identity

import "context"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the authenticated principal extracted from a verified token.
type User struct {
	ID    string
	Email string
	Name  string
	Role  string
}

// Admin reports whether the user carries the admin role.
func (u User) Admin() bool { return u.Role == RoleAdmin }

type ctxKey string

const userKey ctxKey = "laundry.user"

// WithUser stores the user in context.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// FromContext extracts the user if present.
func FromContext(ctx context.Context) (User, bool) {
	val := ctx.Value(userKey)
	if val == nil {
		return User{}, false
	}
	u, ok := val.(User)
	return u, ok && u.ID != ""
}
