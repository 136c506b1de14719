package board

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// DefaultTokenTTL is the lifetime of an access token when none is configured
const DefaultTokenTTL = 1440 * time.Minute

// DefaultSigningMethod is used when TokenConfig.Algorithm is empty
const DefaultSigningMethod = "HS256"

// TokenConfig is the immutable token configuration built once at start up
type TokenConfig struct {
	Secret    []byte
	Algorithm string
	TTL       time.Duration
	Issuer    string
}

// TokenConfigFromConfig builds a TokenConfig out of the application Config
func TokenConfigFromConfig(cfg Config) TokenConfig {
	return TokenConfig{
		Secret:    []byte(cfg.GetSigningKey()),
		Algorithm: cfg.GetSigningMethod(),
		TTL:       cfg.GetTokenTTL(),
		Issuer:    cfg.GetIssuer(),
	}
}

// DecodeFailure describes why a token did not yield claims. It is meant
// for diagnostics only; authorization decisions treat every failure alike.
type DecodeFailure string

const (
	DecodeOK        DecodeFailure = ""
	DecodeEmpty     DecodeFailure = "empty"
	DecodeMalformed DecodeFailure = "malformed"
	DecodeSignature DecodeFailure = "signature"
	DecodeAlgorithm DecodeFailure = "algorithm"
	DecodeExpired   DecodeFailure = "expired"
	DecodeClaims    DecodeFailure = "claims"
)

var errUnexpectedSigningMethod = errors.New("unexpected signing method")

// TokenService signs and verifies identity claims. It is safe for
// concurrent use and never changes after construction.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	issuer string
	logger Logger
	now    func() time.Time
}

// NewTokenService creates a new TokenService instance
func NewTokenService(cfg TokenConfig, logger Logger) (*TokenService, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrMissingSecret
	}

	alg := cfg.Algorithm
	if alg == "" {
		alg = DefaultSigningMethod
	}

	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, ErrUnsupportedAlgorithm.Clone().WithMetadata(map[string]any{"algorithm": alg})
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	if logger == nil {
		logger = defLogger{}
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	return &TokenService{
		secret: secret,
		method: method,
		ttl:    ttl,
		issuer: cfg.Issuer,
		logger: logger,
		now:    time.Now,
	}, nil
}

// TTL returns the default token lifetime
func (ts *TokenService) TTL() time.Duration {
	return ts.ttl
}

// Algorithm returns the name of the signing algorithm
func (ts *TokenService) Algorithm() string {
	return ts.method.Alg()
}

// EncodeSubject issues a token for subject using the default lifetime
func (ts *TokenService) EncodeSubject(subject string) (string, error) {
	return ts.Encode(NewClaims(subject), ts.ttl)
}

// Encode signs a copy of claims that expires ttl from now. The caller's
// claims are never modified. A negative ttl yields an already expired token.
func (ts *TokenService) Encode(claims *JWTClaims, ttl time.Duration) (string, error) {
	if claims == nil || claims.Subject() == "" {
		return "", ErrMissingSubject
	}

	out := claims.clone()
	now := ts.now()
	out.RegisteredClaims.IssuedAt = jwt.NewNumericDate(now)
	out.RegisteredClaims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	if out.Issuer == "" {
		out.Issuer = ts.issuer
	}
	ensureTokenID(&out.RegisteredClaims)

	signed, err := jwt.NewWithClaims(ts.method, out).SignedString(ts.secret)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign JWT")
	}

	return signed, nil
}

// Decode verifies signature, algorithm and expiry. Any failure yields
// ok == false with no further detail.
func (ts *TokenService) Decode(token string) (*JWTClaims, bool) {
	claims, failure := ts.Inspect(token)
	return claims, failure == DecodeOK
}

// Inspect behaves like Decode but reports why a token was rejected.
// The reason must only be used for logging.
func (ts *TokenService) Inspect(token string) (*JWTClaims, DecodeFailure) {
	if token == "" {
		return nil, DecodeEmpty
	}

	opts := []jwt.ParserOption{
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ts.now),
	}
	if ts.issuer != "" {
		opts = append(opts, jwt.WithIssuer(ts.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok || t.Method.Alg() != ts.method.Alg() {
			return nil, fmt.Errorf("%w: %v", errUnexpectedSigningMethod, t.Header["alg"])
		}
		return ts.secret, nil
	}, opts...)

	if err != nil {
		return nil, classifyParseError(err)
	}

	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return nil, DecodeClaims
	}

	return claims, DecodeOK
}

func classifyParseError(err error) DecodeFailure {
	switch {
	case errors.Is(err, errUnexpectedSigningMethod):
		return DecodeAlgorithm
	case errors.Is(err, jwt.ErrTokenMalformed):
		return DecodeMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return DecodeSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return DecodeExpired
	default:
		return DecodeClaims
	}
}
