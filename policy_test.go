package board_test

import (
	"testing"

	"github.com/goliatone/go-board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAdmin(t *testing.T) {
	admin := &board.User{ID: 1, IsActive: true, IsAdmin: true}
	member := &board.User{ID: 2, IsActive: true}

	got, err := board.RequireAdmin(admin)
	require.NoError(t, err)
	assert.Same(t, admin, got)

	got, err = board.RequireAdmin(member)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, board.ErrForbidden)
	assert.Equal(t, board.KindForbidden, board.KindOf(err))

	_, err = board.RequireAdmin(nil)
	assert.ErrorIs(t, err, board.ErrUnauthenticated)
}

func TestRequireOwner(t *testing.T) {
	author := &board.User{ID: 7}
	admin := &board.User{ID: 1, IsAdmin: true}

	assert.NoError(t, board.RequireOwner(author, 7))
	assert.ErrorIs(t, board.RequireOwner(author, 8), board.ErrForbidden)
	assert.ErrorIs(t, board.RequireOwner(admin, 7), board.ErrForbidden, "admin flag does not grant ownership")
	assert.ErrorIs(t, board.RequireOwner(nil, 7), board.ErrUnauthenticated)
}

func TestRequireOwnerOrAdmin(t *testing.T) {
	tests := []struct {
		name     string
		user     *board.User
		authorID int64
		wantErr  error
	}{
		{"Owner, not admin", &board.User{ID: 3}, 3, nil},
		{"Owner and admin", &board.User{ID: 3, IsAdmin: true}, 3, nil},
		{"Admin, not owner", &board.User{ID: 1, IsAdmin: true}, 3, nil},
		{"Neither", &board.User{ID: 4}, 3, board.ErrForbidden},
		{"No user", nil, 3, board.ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := board.RequireOwnerOrAdmin(tt.user, tt.authorID)
			assert.Equal(t, tt.wantErr == nil, board.CanModify(tt.user, tt.authorID))
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRequireActive(t *testing.T) {
	_, err := board.RequireActive(&board.User{ID: 1, IsActive: false})
	assert.ErrorIs(t, err, board.ErrAccountDisabled)

	_, err = board.RequireActive(nil)
	assert.ErrorIs(t, err, board.ErrUnauthenticated)

	user := &board.User{ID: 1, IsActive: true}
	got, err := board.RequireActive(user)
	require.NoError(t, err)
	assert.Same(t, user, got)

	got, err = board.RequirePresent(user)
	require.NoError(t, err)
	assert.Same(t, user, got)
}
