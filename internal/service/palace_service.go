package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/palace-api/internal/domain"
	"github.com/phrazzld/palace-api/internal/domain/layout"
	"github.com/phrazzld/palace-api/internal/platform/logger"
	"github.com/phrazzld/palace-api/internal/store"
	"github.com/sethvargo/go-retry"
)

// layoutConflictRetries is the number of extra attempts a layout write gets
// after a serialization failure or deadlock.
const layoutConflictRetries = 1

// PalaceService manages palaces, their floor plans and their furniture.
type PalaceService interface {
	// CreatePalace creates a palace for userID. When grid is not nil it is
	// compiled in the same transaction, creating furniture for named cells.
	CreatePalace(ctx context.Context, userID uuid.UUID, name string, grid layout.Grid) (*domain.Palace, *layout.Result, error)

	// GetPalace returns a palace owned by userID.
	GetPalace(ctx context.Context, userID uuid.UUID, palaceID int64) (*domain.Palace, error)

	// ListPalaces returns the palaces owned by userID.
	ListPalaces(ctx context.Context, userID uuid.UUID) ([]*domain.Palace, error)

	// DeletePalace removes a palace owned by userID with all its furniture
	// and flashcards.
	DeletePalace(ctx context.Context, userID uuid.UUID, palaceID int64) error

	// SaveLayout compiles grid and stores the resolved layout atomically.
	// Concurrent saves for the same palace are serialized. Furniture IDs
	// already on the grid must belong to the palace, otherwise ErrNotOwned
	// is returned.
	SaveLayout(ctx context.Context, userID uuid.UUID, palaceID int64, grid layout.Grid) (*layout.Result, error)

	// CreateFurniture adds a piece of furniture that is not placed on the layout.
	CreateFurniture(ctx context.Context, userID uuid.UUID, palaceID int64, name, description string) (*domain.Furniture, error)

	// ListFurniture returns the furniture of a palace owned by userID.
	ListFurniture(ctx context.Context, userID uuid.UUID, palaceID int64) ([]*domain.Furniture, error)

	// GetFurniture returns a piece of furniture owned by userID.
	GetFurniture(ctx context.Context, userID uuid.UUID, furnitureID int64) (*domain.Furniture, error)
}

type palaceServiceImpl struct {
	db             *sql.DB
	palaceStore    store.PalaceStore
	furnitureStore store.FurnitureStore
	retryBase      time.Duration
	logger         *slog.Logger
}

// NewPalaceService creates a new PalaceService. retryBase is the initial
// backoff before a layout write is retried after a conflict.
func NewPalaceService(
	db *sql.DB,
	palaceStore store.PalaceStore,
	furnitureStore store.FurnitureStore,
	retryBase time.Duration,
	logger *slog.Logger,
) (PalaceService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if palaceStore == nil {
		return nil, domain.NewValidationError("palaceStore", "cannot be nil", domain.ErrValidation)
	}
	if furnitureStore == nil {
		return nil, domain.NewValidationError("furnitureStore", "cannot be nil", domain.ErrValidation)
	}
	if retryBase <= 0 {
		return nil, domain.NewValidationError("retryBase", "must be positive", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &palaceServiceImpl{
		db:             db,
		palaceStore:    palaceStore,
		furnitureStore: furnitureStore,
		retryBase:      retryBase,
		logger:         logger.With(slog.String("component", "palace_service")),
	}, nil
}

func (s *palaceServiceImpl) CreatePalace(
	ctx context.Context,
	userID uuid.UUID,
	name string,
	grid layout.Grid,
) (*domain.Palace, *layout.Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	palace, err := domain.NewPalace(userID, name)
	if err != nil {
		return nil, nil, asValidationError(err)
	}
	if err := grid.Validate(); err != nil {
		return nil, nil, asValidationError(err)
	}

	result := &layout.Result{Created: []*domain.Furniture{}}
	err = s.withConflictRetry(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txPalaces := s.palaceStore.WithTx(tx)
		if err := txPalaces.Create(ctx, palace); err != nil {
			return err
		}
		if grid == nil {
			return nil
		}

		compiled, err := s.compileAndStore(ctx, tx, txPalaces, userID, palace.ID, grid)
		if err != nil {
			return err
		}
		palace.Layout, err = compiled.Grid.Encode()
		if err != nil {
			return err
		}
		result = compiled
		return nil
	})
	if err != nil {
		log.Error("failed to create palace", slog.String("error", err.Error()))
		return nil, nil, NewServiceError("palace", "create_palace", "failed to create palace", asValidationError(err))
	}

	log.Info("palace created",
		slog.Int64("palace_id", palace.ID),
		slog.Int("furniture_created", len(result.Created)))
	return palace, result, nil
}

func (s *palaceServiceImpl) GetPalace(ctx context.Context, userID uuid.UUID, palaceID int64) (*domain.Palace, error) {
	palace, err := s.ownedPalace(ctx, userID, palaceID)
	if err != nil {
		return nil, NewServiceError("palace", "get_palace", "failed to load palace", err)
	}
	return palace, nil
}

func (s *palaceServiceImpl) ListPalaces(ctx context.Context, userID uuid.UUID) ([]*domain.Palace, error) {
	palaces, err := s.palaceStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewServiceError("palace", "list_palaces", "failed to list palaces", err)
	}
	return palaces, nil
}

func (s *palaceServiceImpl) DeletePalace(ctx context.Context, userID uuid.UUID, palaceID int64) error {
	if _, err := s.ownedPalace(ctx, userID, palaceID); err != nil {
		return NewServiceError("palace", "delete_palace", "failed to load palace", err)
	}
	if err := s.palaceStore.Delete(ctx, palaceID); err != nil {
		return NewServiceError("palace", "delete_palace", "failed to delete palace", err)
	}
	return nil
}

func (s *palaceServiceImpl) SaveLayout(
	ctx context.Context,
	userID uuid.UUID,
	palaceID int64,
	grid layout.Grid,
) (*layout.Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := grid.Validate(); err != nil {
		return nil, asValidationError(err)
	}
	if _, err := s.ownedPalace(ctx, userID, palaceID); err != nil {
		return nil, NewServiceError("palace", "save_layout", "failed to load palace", err)
	}

	var result *layout.Result
	err := s.withConflictRetry(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txPalaces := s.palaceStore.WithTx(tx)
		if err := txPalaces.LockForLayout(ctx, palaceID); err != nil {
			return err
		}
		compiled, err := s.compileAndStore(ctx, tx, txPalaces, userID, palaceID, grid)
		if err != nil {
			return err
		}
		result = compiled
		return nil
	})
	if err != nil {
		log.Error("failed to save layout",
			slog.String("error", err.Error()),
			slog.Int64("palace_id", palaceID))
		return nil, NewServiceError("palace", "save_layout", "failed to save layout", asValidationError(err))
	}

	log.Info("layout saved",
		slog.Int64("palace_id", palaceID),
		slog.Int("cells", result.Grid.Cells()),
		slog.Int("furniture_created", len(result.Created)))
	return result, nil
}

func (s *palaceServiceImpl) CreateFurniture(
	ctx context.Context,
	userID uuid.UUID,
	palaceID int64,
	name, description string,
) (*domain.Furniture, error) {
	item, err := domain.NewFurniture(userID, palaceID, name, description)
	if err != nil {
		return nil, asValidationError(err)
	}
	if _, err := s.ownedPalace(ctx, userID, palaceID); err != nil {
		return nil, NewServiceError("palace", "create_furniture", "failed to load palace", err)
	}
	if err := s.furnitureStore.CreateMultiple(ctx, []*domain.Furniture{item}); err != nil {
		return nil, NewServiceError("palace", "create_furniture", "failed to save furniture", err)
	}
	return item, nil
}

func (s *palaceServiceImpl) ListFurniture(
	ctx context.Context,
	userID uuid.UUID,
	palaceID int64,
) ([]*domain.Furniture, error) {
	if _, err := s.ownedPalace(ctx, userID, palaceID); err != nil {
		return nil, NewServiceError("palace", "list_furniture", "failed to load palace", err)
	}
	items, err := s.furnitureStore.ListByPalace(ctx, palaceID)
	if err != nil {
		return nil, NewServiceError("palace", "list_furniture", "failed to list furniture", err)
	}
	return items, nil
}

func (s *palaceServiceImpl) GetFurniture(
	ctx context.Context,
	userID uuid.UUID,
	furnitureID int64,
) (*domain.Furniture, error) {
	item, err := s.furnitureStore.GetByID(ctx, furnitureID)
	if err != nil {
		return nil, NewServiceError("palace", "get_furniture", "failed to load furniture", err)
	}
	if item.UserID != userID {
		logger.FromContextOrDefault(ctx, s.logger).Warn("furniture access denied",
			slog.Int64("furniture_id", furnitureID),
			slog.String("user_id", userID.String()))
		return nil, ErrNotOwned
	}
	return item, nil
}

// compileAndStore resolves grid with a furniture store bound to tx and
// writes the resolved layout through txPalaces.
func (s *palaceServiceImpl) compileAndStore(
	ctx context.Context,
	tx *sql.Tx,
	txPalaces store.PalaceStore,
	userID uuid.UUID,
	palaceID int64,
	grid layout.Grid,
) (*layout.Result, error) {
	txFurniture := s.furnitureStore.WithTx(tx)
	if err := s.checkPlacedFurniture(ctx, txFurniture, userID, palaceID, grid.FurnitureIDs()); err != nil {
		return nil, err
	}

	result, err := layout.Compile(ctx, grid, userID, palaceID, txFurniture)
	if err != nil {
		return nil, err
	}
	encoded, err := result.Grid.Encode()
	if err != nil {
		return nil, err
	}
	if err := txPalaces.UpdateLayout(ctx, palaceID, encoded); err != nil {
		return nil, err
	}
	return result, nil
}

// checkPlacedFurniture verifies that every furniture ID already placed on a
// layout exists and belongs to palaceID of userID.
func (s *palaceServiceImpl) checkPlacedFurniture(
	ctx context.Context,
	furniture store.FurnitureStore,
	userID uuid.UUID,
	palaceID int64,
	ids []int64,
) error {
	if len(ids) == 0 {
		return nil
	}
	items, err := furniture.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}

	byID := make(map[int64]*domain.Furniture, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	for _, id := range ids {
		item, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: id %d", store.ErrFurnitureNotFound, id)
		}
		if item.UserID != userID || item.PalaceID != palaceID {
			logger.FromContextOrDefault(ctx, s.logger).Warn("layout references foreign furniture",
				slog.Int64("palace_id", palaceID),
				slog.Int64("furniture_id", id),
				slog.String("user_id", userID.String()))
			return ErrNotOwned
		}
	}
	return nil
}

// withConflictRetry runs fn in a transaction, retrying the whole transaction
// when it fails with store.ErrConflict.
func (s *palaceServiceImpl) withConflictRetry(ctx context.Context, fn store.TxFn) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	backoff := retry.WithMaxRetries(layoutConflictRetries, retry.NewExponential(s.retryBase))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := store.RunInTransaction(ctx, s.db, fn)
		if errors.Is(err, store.ErrConflict) {
			log.Warn("transaction conflict, retrying", slog.String("error", err.Error()))
			return retry.RetryableError(err)
		}
		return err
	})
}

func (s *palaceServiceImpl) ownedPalace(ctx context.Context, userID uuid.UUID, palaceID int64) (*domain.Palace, error) {
	palace, err := s.palaceStore.GetByID(ctx, palaceID)
	if err != nil {
		return nil, err
	}
	if palace.UserID != userID {
		logger.FromContextOrDefault(ctx, s.logger).Warn("palace access denied",
			slog.Int64("palace_id", palaceID),
			slog.String("user_id", userID.String()))
		return nil, ErrNotOwned
	}
	return palace, nil
}
