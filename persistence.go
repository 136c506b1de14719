package board

import (
	"database/sql"
	"strings"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	persistence "github.com/goliatone/go-persistence-bun"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/schema"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var registerModels sync.Once

// PersistenceConfig describes the database handed to go-persistence-bun
type PersistenceConfig struct {
	DSN         string
	Debug       bool
	PingTimeout time.Duration
}

// GetDebug enables the bun query logger
func (c PersistenceConfig) GetDebug() bool {
	return c.Debug
}

// GetDriver is derived from the DSN
func (c PersistenceConfig) GetDriver() string {
	if isPostgresDSN(c.DSN) {
		return DriverPostgres
	}
	return DriverSQLite
}

func (c PersistenceConfig) GetServer() string {
	return c.DSN
}

func (c PersistenceConfig) GetDSN() string {
	return c.DSN
}

func (c PersistenceConfig) GetPingTimeout() time.Duration {
	if c.PingTimeout <= 0 {
		return 5 * time.Second
	}
	return c.PingTimeout
}

func (c PersistenceConfig) GetOtelIdentifier() string {
	return "go-board"
}

// NewPersistenceClient opens the database for cfg. postgres:// and
// postgresql:// DSNs use pgx, anything else is handed to sqlite.
func NewPersistenceClient(cfg PersistenceConfig) (*persistence.Client, error) {
	registerModels.Do(func() {
		persistence.RegisterModel((*User)(nil))
		persistence.RegisterModel((*Post)(nil))
		persistence.RegisterModel((*Comment)(nil))
	})

	var (
		sqldb   *sql.DB
		dialect schema.Dialect
		err     error
	)

	if cfg.GetDriver() == DriverPostgres {
		sqldb, err = sql.Open("pgx", cfg.DSN)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open postgres database")
		}
		dialect = pgdialect.New()
	} else {
		sqldb, err = sql.Open(sqliteshim.ShimName, cfg.DSN)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open sqlite database")
		}
		// sqlite allows a single writer and in memory databases are per connection
		sqldb.SetMaxOpenConns(1)
		dialect = sqlitedialect.New()
	}

	client, err := persistence.New(cfg, sqldb, dialect)
	if err != nil {
		_ = sqldb.Close()
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create persistence client")
	}

	return client, nil
}

// OpenDB is NewPersistenceClient for callers that only need the bun handle
func OpenDB(dsn string, debug bool) (*bun.DB, error) {
	client, err := NewPersistenceClient(PersistenceConfig{DSN: dsn, Debug: debug})
	if err != nil {
		return nil, err
	}
	return client.DB(), nil
}

func isPostgresDSN(dsn string) bool {
	dsn = strings.ToLower(strings.TrimSpace(dsn))
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
