package board

import (
	"context"

	"github.com/goliatone/go-router"
)

// LocalsUserKey is the router Locals key holding the resolved *User
const LocalsUserKey = "board.user"

var userCtxKey = &contextKey{"user"}

type contextKey struct {
	name string
}

// WithContext sets the User in the given context
func WithContext(r context.Context, user *User) context.Context {
	return context.WithValue(r, userCtxKey, user)
}

// FromContext finds the user from the context.
func FromContext(ctx context.Context) (*User, bool) {
	raw, ok := ctx.Value(userCtxKey).(*User)
	return raw, ok && raw != nil
}

// SetRouterUser stores user on the request, both in Locals and in the
// standard context handed to downstream code.
func SetRouterUser(ctx router.Context, user *User) {
	if user == nil {
		return
	}
	ctx.Locals(LocalsUserKey, user)
	ctx.SetContext(WithContext(ctx.Context(), user))
}

// GetRouterUser returns the user resolved by RequireUser or OptionalUser
func GetRouterUser(ctx router.Context) (*User, bool) {
	user, ok := ctx.Locals(LocalsUserKey).(*User)
	return user, ok && user != nil
}
