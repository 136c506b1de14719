package board

import (
	"context"
	"strconv"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// ClaimsDecorator may enrich the metadata of a token before it is signed.
// The subject is fixed; changing it fails the issuance.
type ClaimsDecorator interface {
	Decorate(ctx context.Context, user *User, claims *JWTClaims) error
}

// ClaimsDecoratorFunc adapts a function to the ClaimsDecorator interface.
type ClaimsDecoratorFunc func(ctx context.Context, user *User, claims *JWTClaims) error

// Decorate implements ClaimsDecorator.
func (f ClaimsDecoratorFunc) Decorate(ctx context.Context, user *User, claims *JWTClaims) error {
	if f == nil {
		return nil
	}
	return f(ctx, user, claims)
}

var ErrImmutableClaimMutation = goerrors.New("claims decorator changed the token subject", goerrors.CategoryInternal).
	WithTextCode("IMMUTABLE_CLAIM_MUTATION").
	WithCode(goerrors.CodeInternal)

// Auther drives password login and registration on top of the token
// codec and the identity resolver.
type Auther struct {
	repo            RepositoryManager
	registrar       *RegisterUserHandler
	tokens          *TokenService
	resolver        *IdentityResolver
	logger          Logger
	activitySink    ActivitySink
	claimsDecorator ClaimsDecorator
}

// NewAuthenticator returns a new Auther
func NewAuthenticator(repo RepositoryManager, tokens *TokenService) *Auther {
	logger := defLogger{}
	return &Auther{
		repo:         repo,
		registrar:    NewRegisterUserHandler(repo),
		tokens:       tokens,
		resolver:     NewIdentityResolver(tokens, repo.Users(), logger),
		logger:       logger,
		activitySink: noopActivitySink{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = normalizeLogger(logger)
	s.resolver = NewIdentityResolver(s.tokens, s.repo.Users(), s.logger)
	return s
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// WithClaimsDecorator configures a ClaimsDecorator for enriching JWTs.
func (s *Auther) WithClaimsDecorator(decorator ClaimsDecorator) *Auther {
	s.claimsDecorator = decorator
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() *TokenService {
	return s.tokens
}

// Resolver returns the identity resolver bound to the user store
func (s *Auther) Resolver() *IdentityResolver {
	return s.resolver
}

// Login checks the password before the account status, so a disabled
// account is only revealed to someone who knows its password. No token is
// issued on any failure.
func (s *Auther) Login(ctx context.Context, username, password string) (string, *User, error) {
	username = strings.TrimSpace(username)

	user, err := s.repo.Users().GetByUsername(ctx, username)
	if err != nil {
		if !goerrors.Is(err, ErrIdentityNotFound) {
			s.logger.Error("login user lookup failed", "error", err)
			return "", nil, err
		}
		burnPasswordCheck(password)
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, ActorRef{Type: "unknown"}, "", map[string]any{
			"username": username,
			"reason":   "unknown_user",
		})
		return "", nil, ErrInvalidCredentials
	}

	if !VerifyPassword(password, user.PasswordHash) {
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, actorFromUser(user), userID(user), map[string]any{
			"username": username,
			"reason":   "bad_password",
		})
		return "", nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		s.logger.Warn("login blocked for inactive account", "user_id", user.ID)
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, actorFromUser(user), userID(user), map[string]any{
			"username": username,
			"reason":   "inactive",
		})
		return "", nil, ErrAccountDisabled
	}

	token, err := s.issue(ctx, user)
	if err != nil {
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, actorFromUser(user), userID(user), map[string]any{
			"username": username,
			"error":    err.Error(),
		})
		return "", nil, err
	}

	s.emitAuthEvent(ctx, ActivityEventLoginSuccess, actorFromUser(user), userID(user), map[string]any{
		"username": username,
	})

	return token, user, nil
}

// Register creates the account and signs it in
func (s *Auther) Register(ctx context.Context, msg RegisterUserMessage) (string, *User, error) {
	user, err := s.registrar.Register(ctx, msg)
	if err != nil {
		s.logger.Info("registration rejected", "error", err)
		return "", nil, err
	}

	s.emitAuthEvent(ctx, ActivityEventRegister, actorFromUser(user), userID(user), map[string]any{
		"username": user.Username,
	})

	token, err := s.issue(ctx, user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// Deactivate soft deletes the account. Existing tokens stop resolving
// through ResolveRequired on the next request.
func (s *Auther) Deactivate(ctx context.Context, actor, user *User) error {
	if err := s.repo.Users().Deactivate(ctx, user.ID); err != nil {
		return err
	}
	user.IsActive = false

	s.emitAuthEvent(ctx, ActivityEventUserDeactivated, actorFromUser(actor), userID(user), nil)
	return nil
}

// ResolveRequired see IdentityResolver.ResolveRequired
func (s *Auther) ResolveRequired(ctx context.Context, raw string) (*User, error) {
	return s.resolver.ResolveRequired(ctx, raw)
}

// ResolveOptional see IdentityResolver.ResolveOptional
func (s *Auther) ResolveOptional(ctx context.Context, raw string) *User {
	return s.resolver.ResolveOptional(ctx, raw)
}

func (s *Auther) issue(ctx context.Context, user *User) (string, error) {
	claims := NewClaims(user.Username)

	if s.claimsDecorator != nil {
		if err := s.claimsDecorator.Decorate(ctx, user, claims); err != nil {
			s.logger.Error("claims decorator failed", "error", err)
			return "", err
		}
		if claims.Subject() != user.Username {
			return "", ErrImmutableClaimMutation
		}
	}

	return s.tokens.Encode(claims, s.tokens.TTL())
}

func (s *Auther) emitAuthEvent(ctx context.Context, eventType ActivityEventType, actor ActorRef, userID string, metadata map[string]any) {
	sink := normalizeActivitySink(s.activitySink)
	event := ActivityEvent{
		EventType:  eventType,
		Actor:      actor,
		UserID:     userID,
		Metadata:   metadata,
		OccurredAt: time.Now(),
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if err := sink.Record(ctx, event); err != nil {
		s.logger.Warn("activity sink record error", "error", err)
	}
}

func userID(user *User) string {
	if user == nil {
		return ""
	}
	return strconv.FormatInt(user.ID, 10)
}
