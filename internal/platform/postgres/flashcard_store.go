package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/palace-api/internal/domain"
	"github.com/phrazzld/palace-api/internal/platform/logger"
	"github.com/phrazzld/palace-api/internal/store"
)

const flashcardsSlotConstraint = "flashcards_furniture_slot_key"

// PostgresFlashcardStore implements the store.FlashcardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresFlashcardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFlashcardStore creates a new PostgreSQL implementation of the FlashcardStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresFlashcardStore(db store.DBTX, logger *slog.Logger) *PostgresFlashcardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFlashcardStore{
		db:     db,
		logger: logger.With(slog.String("component", "flashcard_store")),
	}
}

// Ensure PostgresFlashcardStore implements store.FlashcardStore interface
var _ store.FlashcardStore = (*PostgresFlashcardStore)(nil)

// WithTx implements store.FlashcardStore.WithTx
func (s *PostgresFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return &PostgresFlashcardStore{db: tx, logger: s.logger}
}

// Create implements store.FlashcardStore.Create
func (s *PostgresFlashcardStore) Create(ctx context.Context, card *domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("flashcard validation failed during create", slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO flashcards (
			user_id, furniture_id, front, back, icon_name, slot_index,
			repetition, interval_days, ease_factor, next_review, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		card.UserID,
		card.FurnitureID,
		card.Front,
		card.Back,
		card.IconName,
		card.SlotIndex,
		card.Repetition,
		card.Interval,
		card.EaseFactor,
		card.NextReview,
		card.CreatedAt,
		card.UpdatedAt,
	).Scan(&card.ID)
	if err != nil {
		log.Error("failed to create flashcard",
			slog.String("error", err.Error()),
			slog.Int64("furniture_id", card.FurnitureID))
		return MapUniqueViolation(err, flashcardsSlotConstraint, store.ErrSlotTaken)
	}

	log.Info("flashcard created successfully",
		slog.Int64("flashcard_id", card.ID),
		slog.Int64("furniture_id", card.FurnitureID))
	return nil
}

const selectFlashcardColumns = `
	SELECT f.id, f.user_id, f.furniture_id, f.front, f.back, f.icon_name, f.slot_index,
		f.repetition, f.interval_days, f.ease_factor, f.next_review, f.created_at, f.updated_at
	FROM flashcards f`

// GetByID implements store.FlashcardStore.GetByID
func (s *PostgresFlashcardStore) GetByID(ctx context.Context, id int64) (*domain.Flashcard, error) {
	return s.getOne(ctx, selectFlashcardColumns+` WHERE f.id = $1`, id)
}

// GetForUpdate implements store.FlashcardStore.GetForUpdate
func (s *PostgresFlashcardStore) GetForUpdate(ctx context.Context, id int64) (*domain.Flashcard, error) {
	return s.getOne(ctx, selectFlashcardColumns+` WHERE f.id = $1 FOR UPDATE`, id)
}

func (s *PostgresFlashcardStore) getOne(ctx context.Context, query string, id int64) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := scanFlashcard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("flashcard not found", slog.Int64("flashcard_id", id))
			return nil, store.ErrFlashcardNotFound
		}
		log.Error("failed to get flashcard",
			slog.String("error", err.Error()),
			slog.Int64("flashcard_id", id))
		return nil, MapError(err)
	}
	return card, nil
}

// UpdateReviewState implements store.FlashcardStore.UpdateReviewState
func (s *PostgresFlashcardStore) UpdateReviewState(
	ctx context.Context,
	id int64,
	state domain.ReviewState,
	updatedAt time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		log.Warn("review state validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("flashcard_id", id))
		return err
	}

	query := `
		UPDATE flashcards
		SET repetition = $1, interval_days = $2, ease_factor = $3, next_review = $4, updated_at = $5
		WHERE id = $6
	`
	result, err := s.db.ExecContext(ctx, query,
		state.Repetition,
		state.Interval,
		state.EaseFactor,
		state.NextReview,
		updatedAt,
		id,
	)
	if err != nil {
		log.Error("failed to update review state",
			slog.String("error", err.Error()),
			slog.Int64("flashcard_id", id))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrFlashcardNotFound); err != nil {
		return err
	}

	log.Debug("review state updated",
		slog.Int64("flashcard_id", id),
		slog.Int("interval", state.Interval),
		slog.Time("next_review", state.NextReview))
	return nil
}

// ListByFurniture implements store.FlashcardStore.ListByFurniture
func (s *PostgresFlashcardStore) ListByFurniture(ctx context.Context, furnitureID int64) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx,
		selectFlashcardColumns+` WHERE f.furniture_id = $1 ORDER BY f.slot_index NULLS LAST, f.id`,
		furnitureID)
	if err != nil {
		log.Error("failed to list flashcards",
			slog.String("error", err.Error()),
			slog.Int64("furniture_id", furnitureID))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	cards := []*domain.Flashcard{}
	for rows.Next() {
		card, err := scanFlashcard(rows)
		if err != nil {
			return nil, MapError(err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return cards, nil
}

// ListDue implements store.FlashcardStore.ListDue
func (s *PostgresFlashcardStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	scope store.FlashcardScope,
	now time.Time,
	limit int,
) ([]store.DueFlashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT f.id, f.user_id, f.furniture_id, f.front, f.back, f.icon_name, f.slot_index,
			f.repetition, f.interval_days, f.ease_factor, f.next_review, f.created_at, f.updated_at,
			fu.palace_id
		FROM flashcards f
		JOIN furniture fu ON fu.id = f.furniture_id
		WHERE f.user_id = $1
			AND f.next_review <= $2
			AND ($3::BIGINT IS NULL OR fu.palace_id = $3)
			AND ($4::BIGINT IS NULL OR f.furniture_id = $4)
		ORDER BY f.next_review, f.id
		LIMIT $5
	`
	rows, err := s.db.QueryContext(ctx, query, userID, now, scope.PalaceID, scope.FurnitureID, limit)
	if err != nil {
		log.Error("failed to list due flashcards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	due := []store.DueFlashcard{}
	for rows.Next() {
		var palaceID int64
		card, err := scanFlashcard(rows, &palaceID)
		if err != nil {
			return nil, MapError(err)
		}
		due = append(due, store.DueFlashcard{Flashcard: card, PalaceID: palaceID})
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	log.Debug("due flashcards listed",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(due)))
	return due, nil
}

// scanFlashcard scans the flashcard columns followed by any extra destinations.
func scanFlashcard(row rowScanner, extra ...any) (*domain.Flashcard, error) {
	var card domain.Flashcard
	var iconName sql.NullString
	var slotIndex sql.NullInt32

	dest := []any{
		&card.ID,
		&card.UserID,
		&card.FurnitureID,
		&card.Front,
		&card.Back,
		&iconName,
		&slotIndex,
		&card.Repetition,
		&card.Interval,
		&card.EaseFactor,
		&card.NextReview,
		&card.CreatedAt,
		&card.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	if iconName.Valid {
		card.IconName = &iconName.String
	}
	if slotIndex.Valid {
		slot := int(slotIndex.Int32)
		card.SlotIndex = &slot
	}
	return &card, nil
}
