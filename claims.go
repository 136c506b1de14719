package board

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTClaims is the identity claim carried by access tokens. The subject
// is the user handle (username). Nothing else in the token is trusted for
// authorization, the account is re-read on every request.
type JWTClaims struct {
	jwt.RegisteredClaims
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewClaims returns claims for the given user handle
func NewClaims(subject string) *JWTClaims {
	return &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: subject,
		},
	}
}

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// TokenID returns the jti claim
func (c *JWTClaims) TokenID() string {
	return c.RegisteredClaims.ID
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt == nil {
		return time.Time{}
	}
	return c.RegisteredClaims.IssuedAt.Time
}

// AddMetadata will append information to the metadata claim
func (c *JWTClaims) AddMetadata(key string, val any) *JWTClaims {
	if c.Metadata == nil {
		c.Metadata = make(map[string]any)
	}
	c.Metadata[key] = val
	return c
}

func (c *JWTClaims) clone() *JWTClaims {
	out := &JWTClaims{RegisteredClaims: c.RegisteredClaims}
	if len(c.RegisteredClaims.Audience) > 0 {
		out.RegisteredClaims.Audience = append(jwt.ClaimStrings(nil), c.RegisteredClaims.Audience...)
	}
	if len(c.Metadata) > 0 {
		out.Metadata = make(map[string]any, len(c.Metadata))
		for k, v := range c.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims == nil || claims.ID != "" {
		return
	}
	claims.ID = uuid.NewString()
}
