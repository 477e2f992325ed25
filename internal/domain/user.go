package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// User identifies an actor performing ledger operations. Identity is
// consumed from the auth layer; user management lives elsewhere.
type User struct {
	ID        string
	Username  string
	CreatedAt time.Time
}

type userContextKey struct{}

// ContextWithUser returns a context carrying the acting user.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext extracts the acting user from the context, if present.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*User)
	return user, ok
}
