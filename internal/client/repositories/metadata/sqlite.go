package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/glucosync/internal/common"
	"github.com/dmitrijs2005/glucosync/internal/dbx"
)

type SQLiteRepository struct {
	db        *sql.DB
	namespace string
}

// NewSQLiteRepository returns a repository bound to the preferences
// namespace. Use In to switch namespaces.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, namespace: NamespacePreferences}
}

// In returns a view of the same table scoped to namespace.
func (r *SQLiteRepository) In(namespace string) *SQLiteRepository {
	return &SQLiteRepository{db: r.db, namespace: namespace}
}

func (r *SQLiteRepository) wrap(format string, err error, args ...any) error {
	return fmt.Errorf("failed to "+format+": %w: %w", append(args, common.ErrLocalStorage, err)...)
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM metadata WHERE namespace = ? AND key = ?`, r.namespace, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, r.wrap("get metadata[%s/%s]", err, r.namespace, key)
	}
	return value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	if err := set(ctx, r.db, r.namespace, key, value); err != nil {
		return r.wrap("set metadata[%s/%s]", err, r.namespace, key)
	}
	return nil
}

func (r *SQLiteRepository) SetMany(ctx context.Context, values map[string][]byte) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for k, v := range values {
			if err := set(ctx, tx, r.namespace, k, v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return r.wrap("set metadata[%s]", err, r.namespace)
	}
	return nil
}

func set(ctx context.Context, db dbx.DBTX, namespace, key string, value []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO metadata (namespace, key, value) VALUES (?, ?, ?)
		ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value
	`, namespace, key, value)
	return err
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM metadata WHERE namespace = ? AND key = ?`, r.namespace, key)
	if err != nil {
		return r.wrap("delete metadata[%s/%s]", err, r.namespace, key)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) (map[string][]byte, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM metadata WHERE namespace = ?`, r.namespace)
	if err != nil {
		return nil, r.wrap("list metadata[%s]", err, r.namespace)
	}
	defer rows.Close()

	result := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, r.wrap("scan metadata row", err)
		}
		result[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, r.wrap("iterate metadata rows", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM metadata WHERE namespace = ?`, r.namespace); err != nil {
		return r.wrap("clear metadata[%s]", err, r.namespace)
	}
	return nil
}
