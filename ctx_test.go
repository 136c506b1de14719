package board_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-board"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextUser(t *testing.T) {
	_, ok := board.FromContext(context.Background())
	assert.False(t, ok)

	user := &board.User{ID: 3, Username: "carol"}
	got, ok := board.FromContext(board.WithContext(context.Background(), user))
	require.True(t, ok)
	assert.Same(t, user, got)

	_, ok = board.FromContext(board.WithContext(context.Background(), nil))
	assert.False(t, ok)
}

func TestRouterUser(t *testing.T) {
	user := &board.User{ID: 3, Username: "carol"}

	srv := board.NewHTTPServer(board.ServerOptions{Logger: nopLogger{}})
	srv.Router().Get("/", func(ctx router.Context) error {
		_, ok := board.GetRouterUser(ctx)
		assert.False(t, ok)

		board.SetRouterUser(ctx, nil)
		_, ok = board.GetRouterUser(ctx)
		assert.False(t, ok)

		board.SetRouterUser(ctx, user)

		fromLocals, ok := board.GetRouterUser(ctx)
		assert.True(t, ok)
		assert.Same(t, user, fromLocals)

		fromCtx, ok := board.FromContext(ctx.Context())
		assert.True(t, ok)
		assert.Same(t, user, fromCtx)

		return ctx.SendString("ok")
	})

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
