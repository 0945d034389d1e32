package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/palace-api/internal/domain"
)

// PalaceStore defines the interface for palace data persistence.
type PalaceStore interface {
	// Create saves a new palace and sets its ID.
	// Returns ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, palace *domain.Palace) error

	// GetByID retrieves a palace by its ID.
	// Returns ErrPalaceNotFound if the palace does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Palace, error)

	// ListByUser returns the palaces owned by userID, oldest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Palace, error)

	// LockForLayout takes a transaction-scoped advisory lock on the palace
	// layout. It blocks until concurrent layout writers for the same palace
	// have finished and MUST be called on a store bound to a transaction.
	LockForLayout(ctx context.Context, id int64) error

	// UpdateLayout replaces the stored layout blob.
	// Returns ErrPalaceNotFound if the palace does not exist.
	UpdateLayout(ctx context.Context, id int64, layout string) error

	// Delete removes a palace together with its furniture and flashcards.
	// Returns ErrPalaceNotFound if the palace does not exist.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a new PalaceStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) PalaceStore
}
