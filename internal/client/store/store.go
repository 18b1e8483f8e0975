// Package store opens the local SQLite database of the client and applies
// the embedded goose migrations.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/FRANCK359/smart-search-ai/internal/client/migrations"
	"github.com/FRANCK359/smart-search-ai/internal/client/repositories/metadata"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// FileName is the database file inside the configured data directory.
const FileName = "portal.db"

type Store struct {
	DB       *sql.DB
	Metadata metadata.Repository
}

// gooseUp is a seam for testing.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
	return goose.UpContext(ctx, db, dir)
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := gooseUp(ctx, db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Open opens (creating if needed) the database at dsn and migrates it.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dsn, err)
	}
	// SQLite serializes writers; one connection also keeps :memory: coherent.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		DB:       db,
		Metadata: metadata.NewSQLiteRepository(db),
	}, nil
}

// Tokens returns the token persistence used by the session.
func (s *Store) Tokens() *metadata.TokenStore {
	return metadata.NewTokenStore(s.DB)
}

// Forget removes every locally stored key.
func (s *Store) Forget(ctx context.Context) error {
	return s.Metadata.Clear(ctx)
}

func (s *Store) Close() error {
	return s.DB.Close()
}
