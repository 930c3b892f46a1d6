// Package dbtest opens migrated databases for repository and query tests.
package dbtest

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"marketplace/internal/adapters/out/postgres"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func config() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	}
}

// OpenSQLite returns a private in-memory SQLite database with all tables migrated.
// Row locks are no-ops on SQLite; use the PostgreSQL suites for lock behavior.
func OpenSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), config())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, postgres.Migrate(db))
	return db
}

// Postgres is a disposable PostgreSQL container with the schema migrated.
type Postgres struct {
	Container *tcpostgres.PostgresContainer
	DB        *gorm.DB
}

// StartPostgres runs postgres:15-alpine through testcontainers.
func StartPostgres(ctx context.Context) (*Postgres, error) {
	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, err
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(gorm_postgres.Open(dsn), config())
	if err != nil {
		return nil, err
	}
	if err = postgres.Migrate(db); err != nil {
		return nil, err
	}

	return &Postgres{Container: container, DB: db}, nil
}

// Truncate empties every table.
func (p *Postgres) Truncate() error {
	return p.DB.Exec("TRUNCATE TABLE " + strings.Join(postgres.Tables(), ", ") + " CASCADE").Error
}

func (p *Postgres) Terminate(ctx context.Context) error {
	return p.Container.Terminate(ctx)
}
