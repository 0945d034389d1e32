package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/palace-api/internal/domain"
	"github.com/phrazzld/palace-api/internal/domain/srs"
	"github.com/phrazzld/palace-api/internal/platform/logger"
	"github.com/phrazzld/palace-api/internal/store"
)

// QueueRequest selects the due flashcards of one user.
type QueueRequest struct {
	// PalaceID and FurnitureID narrow the queue when set.
	PalaceID    *int64
	FurnitureID *int64
	// At replaces the current time when set.
	At *time.Time
	// Limit caps the number of returned cards. Zero means the service default.
	Limit int
}

// ReviewService schedules flashcards and serves review queues.
type ReviewService interface {
	// SubmitGrade records a review of a flashcard owned by userID and
	// returns the card with its new review state.
	SubmitGrade(ctx context.Context, userID uuid.UUID, flashcardID int64, grade domain.Grade) (*domain.Flashcard, error)

	// DueQueue returns the due flashcards of userID, earliest first.
	DueQueue(ctx context.Context, userID uuid.UUID, req QueueRequest) ([]*domain.Flashcard, error)
}

type reviewServiceImpl struct {
	db             *sql.DB
	flashcardStore store.FlashcardStore
	scheduler      srs.Service
	queueLimit     int
	clock          func() time.Time
	logger         *slog.Logger
}

// NewReviewService creates a new ReviewService. queueLimit is both the
// default and the maximum queue length.
func NewReviewService(
	db *sql.DB,
	flashcardStore store.FlashcardStore,
	scheduler srs.Service,
	queueLimit int,
	logger *slog.Logger,
) (ReviewService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if flashcardStore == nil {
		return nil, domain.NewValidationError("flashcardStore", "cannot be nil", domain.ErrValidation)
	}
	if scheduler == nil {
		return nil, domain.NewValidationError("scheduler", "cannot be nil", domain.ErrValidation)
	}
	if queueLimit <= 0 {
		return nil, domain.NewValidationError("queueLimit", "must be positive", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &reviewServiceImpl{
		db:             db,
		flashcardStore: flashcardStore,
		scheduler:      scheduler,
		queueLimit:     queueLimit,
		clock:          func() time.Time { return time.Now().UTC() },
		logger:         logger.With(slog.String("component", "review_service")),
	}, nil
}

func (s *reviewServiceImpl) SubmitGrade(
	ctx context.Context,
	userID uuid.UUID,
	flashcardID int64,
	grade domain.Grade,
) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !grade.Valid() {
		return nil, asValidationError(domain.ErrInvalidGrade)
	}

	now := s.clock()
	var updated *domain.Flashcard

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txCards := s.flashcardStore.WithTx(tx)

		card, err := txCards.GetForUpdate(ctx, flashcardID)
		if err != nil {
			return err
		}
		if card.UserID != userID {
			log.Warn("flashcard access denied",
				slog.Int64("flashcard_id", flashcardID),
				slog.String("user_id", userID.String()))
			return ErrNotOwned
		}

		next, err := s.scheduler.ComputeNextState(card.ReviewState, grade, now)
		if err != nil {
			return err
		}
		if err := txCards.UpdateReviewState(ctx, flashcardID, next, now); err != nil {
			return err
		}

		updated = card.WithReviewState(next, now)
		return nil
	})
	if err != nil {
		log.Error("failed to submit grade",
			slog.String("error", err.Error()),
			slog.Int64("flashcard_id", flashcardID))
		return nil, NewServiceError("review", "submit_grade", "failed to record review", err)
	}

	log.Info("review recorded",
		slog.Int64("flashcard_id", flashcardID),
		slog.Int("grade", int(grade)),
		slog.Int("interval", updated.Interval),
		slog.Time("next_review", updated.NextReview))
	return updated, nil
}

func (s *reviewServiceImpl) DueQueue(
	ctx context.Context,
	userID uuid.UUID,
	req QueueRequest,
) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if req.Limit < 0 {
		return nil, domain.NewValidationError("limit", "must not be negative", domain.ErrValidation)
	}
	limit := req.Limit
	if limit == 0 || limit > s.queueLimit {
		limit = s.queueLimit
	}

	now := s.clock()
	if req.At != nil {
		now = *req.At
	}

	due, err := s.flashcardStore.ListDue(ctx, userID, store.FlashcardScope{
		PalaceID:    req.PalaceID,
		FurnitureID: req.FurnitureID,
	}, now, limit)
	if err != nil {
		return nil, NewServiceError("review", "due_queue", "failed to load due flashcards", err)
	}

	candidates := make([]srs.Candidate, len(due))
	byID := make(map[int64]*domain.Flashcard, len(due))
	for i, d := range due {
		candidates[i] = srs.Candidate{
			ID:          d.ID,
			PalaceID:    d.PalaceID,
			FurnitureID: d.FurnitureID,
			NextReview:  d.NextReview,
		}
		byID[d.ID] = d.Flashcard
	}

	ids := srs.SelectDue(candidates, now, &srs.Scope{PalaceID: req.PalaceID, FurnitureID: req.FurnitureID})
	if len(ids) > limit {
		ids = ids[:limit]
	}

	queue := make([]*domain.Flashcard, len(ids))
	for i, id := range ids {
		queue[i] = byID[id]
	}

	log.Debug("review queue built",
		slog.Int("candidates", len(due)),
		slog.Int("returned", len(queue)))
	return queue, nil
}
