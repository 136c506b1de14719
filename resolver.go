package board

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

const reasonUnknownSubject DecodeFailure = "unknown_subject"

// IdentityResolver turns a raw credential into the live account it names.
// Every call reads the store; nothing is cached.
type IdentityResolver struct {
	tokens *TokenService
	users  UserFinder
	logger Logger
}

// NewIdentityResolver returns a resolver over the given codec and store
func NewIdentityResolver(tokens *TokenService, users UserFinder, logger Logger) *IdentityResolver {
	return &IdentityResolver{
		tokens: tokens,
		users:  users,
		logger: normalizeLogger(logger),
	}
}

// ResolveRequired returns the active user named by raw or rejects with
// ErrUnauthenticated (no usable credential or unknown user) or
// ErrAccountDisabled (known but inactive user).
func (r *IdentityResolver) ResolveRequired(ctx context.Context, raw string) (*User, error) {
	user, reason, err := r.lookup(ctx, raw)
	if err != nil {
		return nil, err
	}

	if user == nil {
		r.logger.Debug("identity resolution rejected", "reason", reason)
		return nil, ErrUnauthenticated
	}

	if !user.IsActive {
		r.logger.Info("identity resolution blocked inactive account", "user_id", user.ID)
		return nil, ErrAccountDisabled
	}

	return user, nil
}

// ResolveOptional returns the user named by raw or nil on any failure,
// store errors included. Active status is not checked here.
func (r *IdentityResolver) ResolveOptional(ctx context.Context, raw string) *User {
	user, reason, err := r.lookup(ctx, raw)
	if err != nil {
		r.logger.Warn("optional identity resolution failed", "error", err)
		return nil
	}
	if user == nil && reason != DecodeEmpty {
		r.logger.Debug("optional identity resolution ignored credential", "reason", reason)
	}
	return user
}

// lookup returns a nil user with a reason for every "no identity" outcome
// and an error only for context or store failures.
func (r *IdentityResolver) lookup(ctx context.Context, raw string) (*User, DecodeFailure, error) {
	if raw == "" {
		return nil, DecodeEmpty, nil
	}

	claims, reason := r.tokens.Inspect(raw)
	if reason != DecodeOK {
		return nil, reason, nil
	}

	subject := claims.Subject()
	if subject == "" {
		return nil, DecodeClaims, nil
	}

	select {
	case <-ctx.Done():
		return nil, DecodeOK, goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during identity resolution")
	default:
	}

	user, err := r.users.FindUserByHandle(ctx, subject)
	if err != nil {
		if goerrors.Is(err, ErrIdentityNotFound) || goerrors.IsNotFound(err) {
			return nil, reasonUnknownSubject, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, DecodeOK, goerrors.Wrap(ctxErr, goerrors.CategoryOperation, "context cancelled during identity resolution")
		}
		r.logger.Error("identity lookup failed", "error", err)
		return nil, DecodeOK, goerrors.Wrap(err, ErrIdentityLookup.Category, ErrIdentityLookup.Message).
			WithTextCode(ErrIdentityLookup.TextCode).
			WithCode(ErrIdentityLookup.Code)
	}

	if user == nil {
		return nil, reasonUnknownSubject, nil
	}

	return user, DecodeOK, nil
}
