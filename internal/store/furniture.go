package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/palace-api/internal/domain"
)

// FurnitureStore defines the interface for furniture data persistence.
type FurnitureStore interface {
	// CreateMultiple saves all items and assigns their IDs in place, in order.
	// IMPORTANT: run it on a store bound to a transaction; otherwise a failure
	// part-way through leaves the earlier items behind.
	//
	// Usage example:
	//   err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//       return furnitureStore.WithTx(tx).CreateMultiple(ctx, items)
	//   })
	CreateMultiple(ctx context.Context, furniture []*domain.Furniture) error

	// GetByID retrieves a furniture item by its ID.
	// Returns ErrFurnitureNotFound if it does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Furniture, error)

	// GetByIDs retrieves the furniture items with the given IDs, ordered by ID.
	// Missing IDs are left out of the result rather than reported as errors.
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Furniture, error)

	// ListByPalace returns the furniture of a palace ordered by ID.
	ListByPalace(ctx context.Context, palaceID int64) ([]*domain.Furniture, error)

	// WithTx returns a new FurnitureStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) FurnitureStore
}
