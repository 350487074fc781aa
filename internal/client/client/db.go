package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/glucosync/internal/client/migrations"
	"github.com/dmitrijs2005/glucosync/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/glucosync/internal/client/repositories/readings"
	"github.com/dmitrijs2005/glucosync/internal/dbx"
	"github.com/dmitrijs2005/glucosync/internal/filex"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Repositories groups the local stores opened over one database.
type Repositories struct {
	DB       *sql.DB
	Readings *readings.SQLiteRepository
	Metadata *metadata.SQLiteRepository
}

// RunMigrations applies the embedded schema. It is safe to call repeatedly.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.Migrations)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// InitDatabase opens the SQLite file at path, migrates it and returns the
// repositories bound to it.
func InitDatabase(ctx context.Context, path string) (*Repositories, error) {
	if err := filex.EnsureParentDir(path); err != nil {
		return nil, err
	}

	db, err := dbx.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		DB:       db,
		Readings: readings.NewSQLiteRepository(db),
		Metadata: metadata.NewSQLiteRepository(db),
	}, nil
}

// Close releases the underlying database.
func (r *Repositories) Close() error {
	return r.DB.Close()
}
