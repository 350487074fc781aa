// Package readings persists remotely submitted glucose readings.
package readings

import (
	"context"

	"github.com/dmitrijs2005/glucosync/internal/server/models"
)

type Repository interface {
	// Create stores r. An empty ID is replaced with a fresh UUID; the stored
	// record, including its creation time, is returned.
	Create(ctx context.Context, r *models.Reading) (*models.Reading, error)
	// ListByName returns readings for name, newest first. An empty name
	// lists every reading.
	ListByName(ctx context.Context, name string) ([]models.Reading, error)
}
