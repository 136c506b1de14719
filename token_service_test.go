package board_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenService(t *testing.T) {
	t.Run("Empty secret is rejected", func(t *testing.T) {
		ts, err := board.NewTokenService(board.TokenConfig{}, nil)
		assert.Nil(t, ts)
		assert.ErrorIs(t, err, board.ErrMissingSecret)
	})

	t.Run("Non HMAC algorithm is rejected", func(t *testing.T) {
		for _, alg := range []string{"RS256", "ES256", "none", "bogus"} {
			ts, err := board.NewTokenService(board.TokenConfig{Secret: []byte("k"), Algorithm: alg}, nil)
			assert.Nil(t, ts, alg)
			assert.Error(t, err, alg)
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		ts, err := board.NewTokenService(board.TokenConfig{Secret: []byte("k")}, nil)
		require.NoError(t, err)
		assert.Equal(t, "HS256", ts.Algorithm())
		assert.Equal(t, board.DefaultTokenTTL, ts.TTL())
		assert.Equal(t, 24*time.Hour, ts.TTL())
	})

	t.Run("Secret is copied", func(t *testing.T) {
		secret := []byte("mutable-secret")
		ts, err := board.NewTokenService(board.TokenConfig{Secret: secret}, nil)
		require.NoError(t, err)

		token, err := ts.EncodeSubject("alice")
		require.NoError(t, err)

		copy(secret, "XXXXXXXXXXXXXX")

		_, ok := ts.Decode(token)
		assert.True(t, ok)
	})
}

func TestTokenService_EncodeDecode(t *testing.T) {
	ts := newTokenService(t, testSecret)

	t.Run("Round trip keeps the subject", func(t *testing.T) {
		token, err := ts.Encode(board.NewClaims("alice"), time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 2, strings.Count(token, "."))

		claims, ok := ts.Decode(token)
		require.True(t, ok)
		assert.Equal(t, "alice", claims.Subject())
		assert.NotEmpty(t, claims.TokenID())
		assert.WithinDuration(t, time.Now().Add(time.Minute), claims.Expires(), 2*time.Second)
		assert.WithinDuration(t, time.Now(), claims.IssuedAt(), 2*time.Second)
	})

	t.Run("Metadata survives", func(t *testing.T) {
		claims := board.NewClaims("alice").AddMetadata("nickname", "Al")
		token, err := ts.Encode(claims, time.Minute)
		require.NoError(t, err)

		decoded, ok := ts.Decode(token)
		require.True(t, ok)
		assert.Equal(t, "Al", decoded.Metadata["nickname"])
	})

	t.Run("Caller claims are not modified", func(t *testing.T) {
		claims := board.NewClaims("alice")
		_, err := ts.Encode(claims, time.Minute)
		require.NoError(t, err)
		assert.Nil(t, claims.ExpiresAt)
		assert.Empty(t, claims.TokenID())
	})

	t.Run("Each token gets its own id", func(t *testing.T) {
		a, err := ts.EncodeSubject("alice")
		require.NoError(t, err)
		b, err := ts.EncodeSubject("alice")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("Missing subject", func(t *testing.T) {
		_, err := ts.Encode(board.NewClaims(""), time.Minute)
		assert.ErrorIs(t, err, board.ErrMissingSubject)

		_, err = ts.Encode(nil, time.Minute)
		assert.ErrorIs(t, err, board.ErrMissingSubject)
	})
}

func TestTokenService_DecodeFailures(t *testing.T) {
	ts := newTokenService(t, testSecret)

	expired, err := ts.Encode(board.NewClaims("alice"), -time.Second)
	require.NoError(t, err)

	otherSecret, err := newTokenService(t, "another-secret").EncodeSubject("alice")
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	valid, err := ts.EncodeSubject("alice")
	require.NoError(t, err)
	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	tests := []struct {
		name   string
		token  string
		reason board.DecodeFailure
	}{
		{"Empty token", "", board.DecodeEmpty},
		{"Expired token", expired, board.DecodeExpired},
		{"Wrong secret", otherSecret, board.DecodeSignature},
		{"Tampered signature", tampered, board.DecodeSignature},
		{"Malformed token", "not.a.jwt", board.DecodeMalformed},
		{"Garbage", "garbage", board.DecodeMalformed},
		{"Different HMAC algorithm", hs512, board.DecodeAlgorithm},
		{"Unsigned token", unsigned, board.DecodeAlgorithm},
		{"Missing expiry", noExpiry, board.DecodeClaims},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, ok := ts.Decode(tt.token)
			assert.False(t, ok)
			assert.Nil(t, claims)

			_, reason := ts.Inspect(tt.token)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestTokenService_Issuer(t *testing.T) {
	issuing, err := board.NewTokenService(board.TokenConfig{Secret: []byte(testSecret), Issuer: "board"}, nil)
	require.NoError(t, err)

	token, err := issuing.EncodeSubject("alice")
	require.NoError(t, err)

	claims, ok := issuing.Decode(token)
	require.True(t, ok)
	assert.Equal(t, "board", claims.Issuer)

	strict, err := board.NewTokenService(board.TokenConfig{Secret: []byte(testSecret), Issuer: "elsewhere"}, nil)
	require.NoError(t, err)

	_, ok = strict.Decode(token)
	assert.False(t, ok)
}
