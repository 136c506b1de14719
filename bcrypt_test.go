package board_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{
			name:     "Valid password",
			password: "secret1",
		},
		{
			name:     "Exactly 72 bytes",
			password: strings.Repeat("a", 72),
		},
		{
			name:     "Empty password",
			password: "",
			wantErr:  board.ErrNoEmptyString,
		},
		{
			name:     "73 bytes is too long",
			password: strings.Repeat("a", 73),
			wantErr:  board.ErrInputTooLong,
		},
		{
			name:     "Multibyte characters count as bytes",
			password: strings.Repeat("é", 37),
			wantErr:  board.ErrInputTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := board.HashPassword(tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, hash)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.NotEqual(t, tt.password, hash)
			assert.True(t, board.VerifyPassword(tt.password, hash))
		})
	}
}

func TestHashPasswordTooLongIsInputTooLongKind(t *testing.T) {
	_, err := board.HashPassword(strings.Repeat("x", 100))
	assert.Equal(t, board.KindInputTooLong, board.KindOf(err))
}

func TestHashPasswordUsesFreshSalt(t *testing.T) {
	first, err := board.HashPassword("secret1")
	require.NoError(t, err)

	second, err := board.HashPassword("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, board.VerifyPassword("secret1", first))
	assert.True(t, board.VerifyPassword("secret1", second))
}

func TestVerifyPassword(t *testing.T) {
	hash, err := board.HashPassword("secret1")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{"Matching password", "secret1", hash, true},
		{"Wrong password", "secret2", hash, false},
		{"Empty password", "", hash, false},
		{"Empty hash", "secret1", "", false},
		{"Malformed hash", "secret1", "not-a-bcrypt-hash", false},
		{"Too long password", strings.Repeat("a", 80), hash, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, board.VerifyPassword(tt.password, tt.hash))
		})
	}
}

func TestComparePasswordAndHash(t *testing.T) {
	hash, err := board.HashPassword("testPassword123!")
	require.NoError(t, err)

	t.Run("Matching password", func(t *testing.T) {
		assert.NoError(t, board.ComparePasswordAndHash("testPassword123!", hash))
	})

	t.Run("Mismatch maps to ErrMismatchedHashAndPassword", func(t *testing.T) {
		err := board.ComparePasswordAndHash("wrong", hash)
		assert.ErrorIs(t, err, board.ErrMismatchedHashAndPassword)
	})

	t.Run("Malformed hash is an error", func(t *testing.T) {
		assert.Error(t, board.ComparePasswordAndHash("wrong", "garbage"))
	})
}
