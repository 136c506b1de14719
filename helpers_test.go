package board_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/goliatone/go-board"
	"github.com/goliatone/go-board/migrations"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

const testSecret = "test-signing-secret"

type testConfig struct {
	secret string
}

func (c testConfig) GetSigningKey() string      { return c.secret }
func (c testConfig) GetSigningMethod() string   { return "HS256" }
func (c testConfig) GetTokenTTL() time.Duration { return 1440 * time.Minute }
func (c testConfig) GetIssuer() string          { return "" }
func (c testConfig) GetContextKey() string      { return "access_token" }
func (c testConfig) GetTokenLookup() string     { return "cookie:access_token,header:Authorization" }
func (c testConfig) GetAuthScheme() string      { return "Bearer" }
func (c testConfig) GetSecureCookie() bool      { return false }

func newTokenService(t *testing.T, secret string) *board.TokenService {
	t.Helper()
	ts, err := board.NewTokenService(board.TokenConfig{
		Secret:    []byte(secret),
		Algorithm: "HS256",
		TTL:       time.Hour,
	}, nopLogger{})
	require.NoError(t, err)
	return ts
}

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := board.OpenDB(dsn, false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = migrations.Migrate(context.Background(), db)
	require.NoError(t, err)

	return db
}

type fixture struct {
	db     *bun.DB
	repo   board.RepositoryManager
	tokens *board.TokenService
	auther *board.Auther
	sink   *recordingSink
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := newTestDB(t)
	repo := board.NewRepositoryManager(db)
	tokens := newTokenService(t, testSecret)
	sink := &recordingSink{}

	auther := board.NewAuthenticator(repo, tokens).
		WithLogger(nopLogger{}).
		WithActivitySink(sink)

	return &fixture{
		db:     db,
		repo:   repo,
		tokens: tokens,
		auther: auther,
		sink:   sink,
	}
}

func (f *fixture) register(t *testing.T, username, password string) (*board.User, string) {
	t.Helper()
	token, user, err := f.auther.Register(context.Background(), board.RegisterUserMessage{
		Username: username,
		Email:    username + "@example.com",
		Password: password,
	})
	require.NoError(t, err)
	return user, token
}

func (f *fixture) promote(t *testing.T, user *board.User) {
	t.Helper()
	require.NoError(t, f.repo.Users().SetAdmin(context.Background(), user.ID, true))
	user.IsAdmin = true
}
