package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

// Open connects to the metadata database identified by dsn, runs schema
// migrations, and returns the connection together with the matching KV
// repository. A postgres:// or postgresql:// DSN selects the pgx-backed
// store; anything else is treated as a sqlite file path.
func Open(ctx context.Context, dsn string) (*sql.DB, Repository, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := RunMigrations(ctx, db, "postgres"); err != nil {
			db.Close()
			return nil, nil, err
		}
		return db, NewPostgresRepository(db), nil
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := RunMigrations(ctx, db, "sqlite3"); err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, NewSQLiteRepository(db), nil
}

// RunMigrations applies the embedded goose migrations for the given
// dialect ("sqlite3" or "postgres").
func RunMigrations(ctx context.Context, db *sql.DB, dialect string) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	dir := "migrations/sqlite"
	if dialect == "postgres" {
		dir = "migrations/postgres"
	}

	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
