package readings

import (
	"context"
	"iter"

	"github.com/dmitrijs2005/glucosync/internal/client/models"
)

// Repository is the local store contract consumed by the engine.
type Repository interface {
	All(ctx context.Context) iter.Seq2[models.Reading, error]
	ByOwner(ctx context.Context, name string) iter.Seq2[models.Reading, error]
	ByID(ctx context.Context, id string) (*models.Reading, error)

	// InsertOrReplace overwrites any existing reading with the same id.
	InsertOrReplace(ctx context.Context, r models.Reading) error
	// InsertOrReplaceMany does the same for a batch, atomically.
	InsertOrReplaceMany(ctx context.Context, rs []models.Reading) error

	Update(ctx context.Context, r models.Reading) error
	Delete(ctx context.Context, r models.Reading) error
	DeleteAll(ctx context.Context) error

	Unsynced(ctx context.Context) ([]models.Reading, error)
	// MarkSynced flips synced to true without touching other columns.
	MarkSynced(ctx context.Context, id string) error

	Count(ctx context.Context) (int, error)
}

// Collect drains seq into a slice, stopping at the first error.
func Collect(seq iter.Seq2[models.Reading, error]) ([]models.Reading, error) {
	var out []models.Reading
	for r, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
