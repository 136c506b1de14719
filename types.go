package board

import (
	"context"
	"time"
)

// Logger is the structured logger used across the package. Arguments
// after the message are key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetTokenTTL() time.Duration
	GetIssuer() string
	GetContextKey() string
	GetTokenLookup() string
	GetAuthScheme() string
	GetSecureCookie() bool
}

// UserFinder is the store collaborator of the identity resolver. It must
// return an error matching ErrIdentityNotFound when no user has the handle.
type UserFinder interface {
	FindUserByHandle(ctx context.Context, handle string) (*User, error)
}
