package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/palace-api/internal/domain"
	"github.com/phrazzld/palace-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var palaceColumns = []string{"id", "user_id", "name", "layout", "created_at", "updated_at"}

func TestPostgresPalaceStore_Create(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("assigns id", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresPalaceStore(db, nil)

		palace, err := domain.NewPalace(userID, "Home")
		require.NoError(t, err)

		mock.ExpectQuery("INSERT INTO palaces").
			WithArgs(userID, "Home", nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(12)))

		require.NoError(t, s.Create(ctx, palace))
		assert.Equal(t, int64(12), palace.ID)
	})

	t.Run("unknown owner", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresPalaceStore(db, nil)

		palace, err := domain.NewPalace(userID, "Home")
		require.NoError(t, err)

		mock.ExpectQuery("INSERT INTO palaces").
			WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "palaces_user_id_fkey"})

		assert.ErrorIs(t, s.Create(ctx, palace), store.ErrInvalidEntity)
	})
}

func TestPostgresPalaceStore_GetByID(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now().UTC()

	t.Run("with layout", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresPalaceStore(db, nil)

		mock.ExpectQuery("SELECT (.+) FROM palaces WHERE id = \\$1").
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows(palaceColumns).AddRow(int64(3), userID.String(), "Home", `[["0_"]]`, now, now))

		palace, err := s.GetByID(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, userID, palace.UserID)
		assert.Equal(t, `[["0_"]]`, palace.Layout)
	})

	t.Run("null layout", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresPalaceStore(db, nil)

		mock.ExpectQuery("SELECT (.+) FROM palaces").
			WillReturnRows(sqlmock.NewRows(palaceColumns).AddRow(int64(3), userID.String(), "Home", nil, now, now))

		palace, err := s.GetByID(ctx, 3)
		require.NoError(t, err)
		assert.Empty(t, palace.Layout)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresPalaceStore(db, nil)

		mock.ExpectQuery("SELECT (.+) FROM palaces").WillReturnError(sql.ErrNoRows)

		_, err := s.GetByID(ctx, 3)
		assert.ErrorIs(t, err, store.ErrPalaceNotFound)
	})
}

func TestPostgresPalaceStore_ListByUser(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresPalaceStore(db, nil)
	userID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM palaces WHERE user_id = \\$1 ORDER BY id").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(palaceColumns).
			AddRow(int64(1), userID.String(), "A", nil, now, now).
			AddRow(int64(2), userID.String(), "B", `[]`, now, now))

	palaces, err := s.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, palaces, 2)
	assert.Equal(t, "B", palaces[1].Name)
}

func TestPostgresPalaceStore_LockForLayout(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresPalaceStore(db, nil)

	mock.ExpectExec("SELECT pg_advisory_xact_lock\\(\\$1\\)").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, s.LockForLayout(context.Background(), 5))

	mock.ExpectExec("SELECT pg_advisory_xact_lock").
		WillReturnError(&pgconn.PgError{Code: deadlockDetectedCode})
	assert.ErrorIs(t, s.LockForLayout(context.Background(), 5), store.ErrConflict)
}

func TestPostgresPalaceStore_UpdateLayout(t *testing.T) {
	ctx := context.Background()

	t.Run("updated", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresPalaceStore(db, nil)

		mock.ExpectExec("UPDATE palaces SET layout = \\$1").
			WithArgs(`[["1_4_"]]`, sqlmock.AnyArg(), int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.UpdateLayout(ctx, 9, `[["1_4_"]]`))
	})

	t.Run("missing palace", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresPalaceStore(db, nil)

		mock.ExpectExec("UPDATE palaces").WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, s.UpdateLayout(ctx, 9, `[]`), store.ErrPalaceNotFound)
	})

	t.Run("serialization failure", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresPalaceStore(db, nil)

		mock.ExpectExec("UPDATE palaces").WillReturnError(&pgconn.PgError{Code: serializationFailureCode})

		err := s.UpdateLayout(ctx, 9, `[]`)
		assert.ErrorIs(t, err, store.ErrConflict)
		assert.False(t, errors.Is(err, store.ErrNotFound))
	})
}

func TestPostgresPalaceStore_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresPalaceStore(db, nil)

		mock.ExpectExec("DELETE FROM palaces WHERE id = \\$1").
			WithArgs(int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.Delete(ctx, 9))
	})

	t.Run("missing palace", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresPalaceStore(db, nil)

		mock.ExpectExec("DELETE FROM palaces").WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, s.Delete(ctx, 9), store.ErrPalaceNotFound)
	})
}
