package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/phrazzld/palace-api/internal/domain"
	"github.com/phrazzld/palace-api/internal/platform/logger"
	"github.com/phrazzld/palace-api/internal/store"
)

// PostgresFurnitureStore implements the store.FurnitureStore interface
// using a PostgreSQL database as the storage backend.
type PostgresFurnitureStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFurnitureStore creates a new PostgreSQL implementation of the FurnitureStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresFurnitureStore(db store.DBTX, logger *slog.Logger) *PostgresFurnitureStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFurnitureStore{
		db:     db,
		logger: logger.With(slog.String("component", "furniture_store")),
	}
}

// Ensure PostgresFurnitureStore implements store.FurnitureStore interface
var _ store.FurnitureStore = (*PostgresFurnitureStore)(nil)

// WithTx implements store.FurnitureStore.WithTx
func (s *PostgresFurnitureStore) WithTx(tx *sql.Tx) store.FurnitureStore {
	return &PostgresFurnitureStore{db: tx, logger: s.logger}
}

// CreateMultiple implements store.FurnitureStore.CreateMultiple.
// Items are inserted one statement at a time in slice order so that IDs
// follow the order of the slice.
func (s *PostgresFurnitureStore) CreateMultiple(ctx context.Context, furniture []*domain.Furniture) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for i, item := range furniture {
		if err := item.Validate(); err != nil {
			log.Warn("furniture validation failed during create",
				slog.String("error", err.Error()),
				slog.Int("index", i))
			return err
		}
	}

	query := `
		INSERT INTO furniture (user_id, palace_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	for _, item := range furniture {
		err := s.db.QueryRowContext(ctx, query,
			item.UserID,
			item.PalaceID,
			item.Name,
			item.Description,
			item.CreatedAt,
			item.UpdatedAt,
		).Scan(&item.ID)
		if err != nil {
			log.Error("failed to create furniture",
				slog.String("error", err.Error()),
				slog.Int64("palace_id", item.PalaceID))
			return MapError(err)
		}
	}

	log.Info("furniture created successfully", slog.Int("count", len(furniture)))
	return nil
}

const selectFurnitureColumns = `SELECT id, user_id, palace_id, name, description, created_at, updated_at FROM furniture`

// GetByID implements store.FurnitureStore.GetByID
func (s *PostgresFurnitureStore) GetByID(ctx context.Context, id int64) (*domain.Furniture, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := scanFurniture(s.db.QueryRowContext(ctx, selectFurnitureColumns+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("furniture not found", slog.Int64("furniture_id", id))
			return nil, store.ErrFurnitureNotFound
		}
		log.Error("failed to get furniture",
			slog.String("error", err.Error()),
			slog.Int64("furniture_id", id))
		return nil, MapError(err)
	}
	return item, nil
}

// GetByIDs implements store.FurnitureStore.GetByIDs
func (s *PostgresFurnitureStore) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Furniture, error) {
	if len(ids) == 0 {
		return []*domain.Furniture{}, nil
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "$" + strconv.Itoa(i+1)
		args[i] = id
	}
	query := selectFurnitureColumns + ` WHERE id IN (` + strings.Join(placeholders, ", ") + `) ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to get furniture batch",
			slog.String("error", err.Error()),
			slog.Int("count", len(ids)))
		return nil, MapError(err)
	}
	return collectFurniture(rows)
}

// ListByPalace implements store.FurnitureStore.ListByPalace
func (s *PostgresFurnitureStore) ListByPalace(ctx context.Context, palaceID int64) ([]*domain.Furniture, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, selectFurnitureColumns+` WHERE palace_id = $1 ORDER BY id`, palaceID)
	if err != nil {
		log.Error("failed to list furniture",
			slog.String("error", err.Error()),
			slog.Int64("palace_id", palaceID))
		return nil, MapError(err)
	}
	return collectFurniture(rows)
}

func collectFurniture(rows *sql.Rows) ([]*domain.Furniture, error) {
	defer func() { _ = rows.Close() }()

	items := []*domain.Furniture{}
	for rows.Next() {
		item, err := scanFurniture(rows)
		if err != nil {
			return nil, MapError(err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return items, nil
}

func scanFurniture(row rowScanner) (*domain.Furniture, error) {
	var item domain.Furniture
	if err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.PalaceID,
		&item.Name,
		&item.Description,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
