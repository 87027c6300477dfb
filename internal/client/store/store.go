// Package store bootstraps the client's local SQLite database: it opens
// the file, applies the embedded goose migrations, and hands out the
// repositories built on top.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/scalehub/internal/client/migrations"
	"github.com/dmitrijs2005/scalehub/internal/client/repositories/metadata"
)

// Repositories groups everything backed by the local database.
type Repositories struct {
	Metadata metadata.Repository
	DB       *sql.DB
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}

// RunMigrations applies the embedded migrations to db. Safe to run
// repeatedly; goose skips versions already applied.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the local database at dsn,
// migrates it, and returns the repositories.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Repositories{
		Metadata: metadata.NewSQLiteRepository(db),
		DB:       db,
	}, nil
}
