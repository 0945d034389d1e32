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

// PostgresPalaceStore implements the store.PalaceStore interface
// using a PostgreSQL database as the storage backend.
type PostgresPalaceStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPalaceStore creates a new PostgreSQL implementation of the PalaceStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresPalaceStore(db store.DBTX, logger *slog.Logger) *PostgresPalaceStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPalaceStore{
		db:     db,
		logger: logger.With(slog.String("component", "palace_store")),
	}
}

// Ensure PostgresPalaceStore implements store.PalaceStore interface
var _ store.PalaceStore = (*PostgresPalaceStore)(nil)

// WithTx implements store.PalaceStore.WithTx
func (s *PostgresPalaceStore) WithTx(tx *sql.Tx) store.PalaceStore {
	return &PostgresPalaceStore{db: tx, logger: s.logger}
}

// Create implements store.PalaceStore.Create
func (s *PostgresPalaceStore) Create(ctx context.Context, palace *domain.Palace) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := palace.Validate(); err != nil {
		log.Warn("palace validation failed during create", slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO palaces (user_id, name, layout, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		palace.UserID,
		palace.Name,
		nullableString(palace.Layout),
		palace.CreatedAt,
		palace.UpdatedAt,
	).Scan(&palace.ID)
	if err != nil {
		log.Error("failed to create palace",
			slog.String("error", err.Error()),
			slog.String("user_id", palace.UserID.String()))
		return MapError(err)
	}

	log.Info("palace created successfully",
		slog.Int64("palace_id", palace.ID),
		slog.String("user_id", palace.UserID.String()))
	return nil
}

const selectPalaceColumns = `SELECT id, user_id, name, layout, created_at, updated_at FROM palaces`

// GetByID implements store.PalaceStore.GetByID
func (s *PostgresPalaceStore) GetByID(ctx context.Context, id int64) (*domain.Palace, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	palace, err := scanPalace(s.db.QueryRowContext(ctx, selectPalaceColumns+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("palace not found", slog.Int64("palace_id", id))
			return nil, store.ErrPalaceNotFound
		}
		log.Error("failed to get palace",
			slog.String("error", err.Error()),
			slog.Int64("palace_id", id))
		return nil, MapError(err)
	}
	return palace, nil
}

// ListByUser implements store.PalaceStore.ListByUser
func (s *PostgresPalaceStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Palace, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, selectPalaceColumns+` WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		log.Error("failed to list palaces",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	palaces := []*domain.Palace{}
	for rows.Next() {
		palace, err := scanPalace(rows)
		if err != nil {
			return nil, MapError(err)
		}
		palaces = append(palaces, palace)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return palaces, nil
}

// LockForLayout implements store.PalaceStore.LockForLayout.
// The lock is released when the transaction commits or rolls back.
func (s *PostgresPalaceStore) LockForLayout(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.db.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, id); err != nil {
		log.Error("failed to lock palace layout",
			slog.String("error", err.Error()),
			slog.Int64("palace_id", id))
		return MapError(err)
	}
	log.Debug("palace layout locked", slog.Int64("palace_id", id))
	return nil
}

// UpdateLayout implements store.PalaceStore.UpdateLayout
func (s *PostgresPalaceStore) UpdateLayout(ctx context.Context, id int64, layout string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`UPDATE palaces SET layout = $1, updated_at = $2 WHERE id = $3`,
		nullableString(layout),
		time.Now().UTC(),
		id,
	)
	if err != nil {
		log.Error("failed to update palace layout",
			slog.String("error", err.Error()),
			slog.Int64("palace_id", id))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrPalaceNotFound); err != nil {
		return err
	}

	log.Debug("palace layout updated", slog.Int64("palace_id", id))
	return nil
}

// Delete implements store.PalaceStore.Delete. Furniture and flashcards go
// with the palace through ON DELETE CASCADE.
func (s *PostgresPalaceStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM palaces WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete palace",
			slog.String("error", err.Error()),
			slog.Int64("palace_id", id))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrPalaceNotFound); err != nil {
		return err
	}

	log.Info("palace deleted", slog.Int64("palace_id", id))
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPalace(row rowScanner) (*domain.Palace, error) {
	var palace domain.Palace
	var layout sql.NullString
	if err := row.Scan(
		&palace.ID,
		&palace.UserID,
		&palace.Name,
		&layout,
		&palace.CreatedAt,
		&palace.UpdatedAt,
	); err != nil {
		return nil, err
	}
	palace.Layout = layout.String
	return &palace, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
