package client

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/glucosync/internal/client/models"
	"github.com/dmitrijs2005/glucosync/internal/dbx"
	"github.com/dmitrijs2005/glucosync/internal/glucose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestInitDatabase_CreatesSchema(t *testing.T) {
	ctx := context.Background()

	repos, err := InitDatabase(ctx, filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	for _, table := range []string{"goose_db_version", "readings", "metadata"} {
		assert.True(t, tableExists(t, repos.DB, table), table)
	}
}

func TestInitDatabase_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "nested", "app.db")

	repos, err := InitDatabase(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	assert.FileExists(t, path)
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()

	db, err := dbx.OpenSQLite(ctx, filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))
}

func TestInitDatabase_DataSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "app.db")

	repos, err := InitDatabase(ctx, path)
	require.NoError(t, err)
	require.NoError(t, repos.Readings.InsertOrReplace(ctx, models.Reading{
		ID: "r1", Value: 5.5, Unit: glucose.UnitMmolL, Name: "Pat", Source: "manual",
		Timestamp: 1_700_000_000_000, ProfileID: models.DefaultProfileID,
	}))
	require.NoError(t, repos.Close())

	repos, err = InitDatabase(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	n, err := repos.Readings.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
