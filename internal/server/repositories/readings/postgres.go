package readings

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/glucosync/internal/dbx"
	"github.com/dmitrijs2005/glucosync/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, reading *models.Reading) (*models.Reading, error) {
	if reading.ID == "" {
		reading.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO readings (id, name, reading, units, comment, snack_pass, source)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		reading.ID, reading.Name, reading.Value, reading.Units, reading.Comment, reading.SnackPass, reading.Source,
	).Scan(&reading.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return reading, nil
}

func (r *PostgresRepository) ListByName(ctx context.Context, name string) ([]models.Reading, error) {
	query :=
		`SELECT id, name, reading, units, comment, snack_pass, source, created_at FROM readings
		 WHERE $1 = '' OR name = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Reading
	for rows.Next() {
		var m models.Reading
		if err := rows.Scan(&m.ID, &m.Name, &m.Value, &m.Units, &m.Comment, &m.SnackPass, &m.Source, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
