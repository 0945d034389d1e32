package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/palace-api/internal/domain"
)

// FlashcardScope narrows a due-card query. Nil fields do not filter.
type FlashcardScope struct {
	PalaceID    *int64
	FurnitureID *int64
}

// DueFlashcard is a flashcard together with the palace its furniture belongs to.
type DueFlashcard struct {
	*domain.Flashcard
	PalaceID int64
}

// FlashcardStore defines the interface for flashcard data persistence.
type FlashcardStore interface {
	// Create saves a new flashcard and sets its ID.
	// Returns ErrSlotTaken if the slot is already used on the furniture.
	// Returns ErrInvalidEntity if the furniture does not exist.
	Create(ctx context.Context, card *domain.Flashcard) error

	// GetByID retrieves a flashcard by its ID.
	// Returns ErrFlashcardNotFound if it does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Flashcard, error)

	// GetForUpdate retrieves a flashcard and locks its row until the
	// surrounding transaction ends. MUST be called on a store bound to a transaction.
	// Returns ErrFlashcardNotFound if it does not exist.
	GetForUpdate(ctx context.Context, id int64) (*domain.Flashcard, error)

	// UpdateReviewState stores a new review state for the flashcard.
	// Returns ErrFlashcardNotFound if it does not exist.
	UpdateReviewState(ctx context.Context, id int64, state domain.ReviewState, updatedAt time.Time) error

	// ListByFurniture returns the flashcards on a piece of furniture, slotted
	// cards first by slot, then the rest by ID.
	ListByFurniture(ctx context.Context, furnitureID int64) ([]*domain.Flashcard, error)

	// ListDue returns at most limit of userID's flashcards within scope whose
	// next review is at or before now, earliest first. Callers own the final
	// queue ordering.
	ListDue(ctx context.Context, userID uuid.UUID, scope FlashcardScope, now time.Time, limit int) ([]DueFlashcard, error)

	// WithTx returns a new FlashcardStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) FlashcardStore
}
