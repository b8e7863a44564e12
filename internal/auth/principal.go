package auth

import (
	"context"
	"errors"
)

var (
	ErrUnauthenticated = errors.New("not authorized to access this route")
	ErrForbidden       = errors.New("insufficient role for this route")
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	default:
		return false
	}
}

// Principal is the authenticated actor attached to a request.
type Principal struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// Authorize fails closed: a nil principal is unauthenticated, any role other
// than the required one is forbidden.
func Authorize(p *Principal, required Role) error {
	if p == nil || p.ID == "" {
		return ErrUnauthenticated
	}
	if !p.Role.Valid() || p.Role != required {
		return ErrForbidden
	}
	return nil
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) *Principal {
	if v := ctx.Value(principalKey{}); v != nil {
		if p, ok := v.(*Principal); ok {
			return p
		}
	}
	return nil
}
