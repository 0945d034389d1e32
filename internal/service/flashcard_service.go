package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/palace-api/internal/domain"
	"github.com/phrazzld/palace-api/internal/platform/logger"
	"github.com/phrazzld/palace-api/internal/store"
)

// NewFlashcardInput holds the user-supplied fields of a new flashcard.
type NewFlashcardInput struct {
	Front     string
	Back      string
	IconName  *string
	SlotIndex *int
}

// FlashcardService provides flashcard creation and retrieval.
type FlashcardService interface {
	// CreateFlashcard attaches a new card with a default review state to a
	// piece of furniture owned by userID. Returns store.ErrSlotTaken when the
	// slot is already used on that furniture.
	CreateFlashcard(ctx context.Context, userID uuid.UUID, furnitureID int64, input NewFlashcardInput) (*domain.Flashcard, error)

	// GetFlashcard returns a flashcard owned by userID.
	GetFlashcard(ctx context.Context, userID uuid.UUID, flashcardID int64) (*domain.Flashcard, error)

	// ListFlashcards returns the flashcards on a piece of furniture owned by userID.
	ListFlashcards(ctx context.Context, userID uuid.UUID, furnitureID int64) ([]*domain.Flashcard, error)
}

type flashcardServiceImpl struct {
	flashcardStore store.FlashcardStore
	furnitureStore store.FurnitureStore
	clock          func() time.Time
	logger         *slog.Logger
}

// NewFlashcardService creates a new FlashcardService
func NewFlashcardService(
	flashcardStore store.FlashcardStore,
	furnitureStore store.FurnitureStore,
	logger *slog.Logger,
) (FlashcardService, error) {
	if flashcardStore == nil {
		return nil, domain.NewValidationError("flashcardStore", "cannot be nil", domain.ErrValidation)
	}
	if furnitureStore == nil {
		return nil, domain.NewValidationError("furnitureStore", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &flashcardServiceImpl{
		flashcardStore: flashcardStore,
		furnitureStore: furnitureStore,
		clock:          func() time.Time { return time.Now().UTC() },
		logger:         logger.With(slog.String("component", "flashcard_service")),
	}, nil
}

func (s *flashcardServiceImpl) CreateFlashcard(
	ctx context.Context,
	userID uuid.UUID,
	furnitureID int64,
	input NewFlashcardInput,
) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := domain.NewFlashcard(userID, furnitureID, input.Front, input.Back, input.IconName, input.SlotIndex, s.clock())
	if err != nil {
		return nil, asValidationError(err)
	}

	if err := s.ownedFurniture(ctx, userID, furnitureID); err != nil {
		return nil, NewServiceError("flashcard", "create_flashcard", "failed to load furniture", err)
	}

	if err := s.flashcardStore.Create(ctx, card); err != nil {
		return nil, NewServiceError("flashcard", "create_flashcard", "failed to save flashcard", err)
	}

	log.Info("flashcard created",
		slog.Int64("flashcard_id", card.ID),
		slog.Int64("furniture_id", furnitureID))
	return card, nil
}

func (s *flashcardServiceImpl) GetFlashcard(
	ctx context.Context,
	userID uuid.UUID,
	flashcardID int64,
) (*domain.Flashcard, error) {
	card, err := s.flashcardStore.GetByID(ctx, flashcardID)
	if err != nil {
		return nil, NewServiceError("flashcard", "get_flashcard", "failed to load flashcard", err)
	}
	if card.UserID != userID {
		return nil, ErrNotOwned
	}
	return card, nil
}

func (s *flashcardServiceImpl) ListFlashcards(
	ctx context.Context,
	userID uuid.UUID,
	furnitureID int64,
) ([]*domain.Flashcard, error) {
	if err := s.ownedFurniture(ctx, userID, furnitureID); err != nil {
		return nil, NewServiceError("flashcard", "list_flashcards", "failed to load furniture", err)
	}
	cards, err := s.flashcardStore.ListByFurniture(ctx, furnitureID)
	if err != nil {
		return nil, NewServiceError("flashcard", "list_flashcards", "failed to list flashcards", err)
	}
	return cards, nil
}

func (s *flashcardServiceImpl) ownedFurniture(ctx context.Context, userID uuid.UUID, furnitureID int64) error {
	furniture, err := s.furnitureStore.GetByID(ctx, furnitureID)
	if err != nil {
		return err
	}
	if furniture.UserID != userID {
		logger.FromContextOrDefault(ctx, s.logger).Warn("furniture access denied",
			slog.Int64("furniture_id", furnitureID),
			slog.String("user_id", userID.String()))
		return ErrNotOwned
	}
	return nil
}
