package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/palace-api/internal/domain"
	"github.com/phrazzld/palace-api/internal/service/auth"
	"github.com/phrazzld/palace-api/internal/store"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserStore mocks store.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) WithTx(*sql.Tx) store.UserStore {
	return m
}

// MockPalaceStore mocks store.PalaceStore. WithTx returns the mock itself.
type MockPalaceStore struct {
	mock.Mock
}

func (m *MockPalaceStore) Create(ctx context.Context, palace *domain.Palace) error {
	return m.Called(ctx, palace).Error(0)
}

func (m *MockPalaceStore) GetByID(ctx context.Context, id int64) (*domain.Palace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Palace), args.Error(1)
}

func (m *MockPalaceStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Palace, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Palace), args.Error(1)
}

func (m *MockPalaceStore) LockForLayout(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPalaceStore) UpdateLayout(ctx context.Context, id int64, layout string) error {
	return m.Called(ctx, id, layout).Error(0)
}

func (m *MockPalaceStore) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPalaceStore) WithTx(*sql.Tx) store.PalaceStore {
	return m
}

// MockFurnitureStore mocks store.FurnitureStore. CreateMultiple assigns
// sequential IDs starting at NextID unless the call is set up to fail.
type MockFurnitureStore struct {
	mock.Mock
	NextID int64
}

func (m *MockFurnitureStore) CreateMultiple(ctx context.Context, furniture []*domain.Furniture) error {
	if err := m.Called(ctx, furniture).Error(0); err != nil {
		return err
	}
	for _, item := range furniture {
		m.NextID++
		item.ID = m.NextID
	}
	return nil
}

func (m *MockFurnitureStore) GetByID(ctx context.Context, id int64) (*domain.Furniture, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Furniture), args.Error(1)
}

func (m *MockFurnitureStore) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Furniture, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Furniture), args.Error(1)
}

func (m *MockFurnitureStore) ListByPalace(ctx context.Context, palaceID int64) ([]*domain.Furniture, error) {
	args := m.Called(ctx, palaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Furniture), args.Error(1)
}

func (m *MockFurnitureStore) WithTx(*sql.Tx) store.FurnitureStore {
	return m
}

// MockFlashcardStore mocks store.FlashcardStore. WithTx returns the mock itself.
type MockFlashcardStore struct {
	mock.Mock
}

func (m *MockFlashcardStore) Create(ctx context.Context, card *domain.Flashcard) error {
	return m.Called(ctx, card).Error(0)
}

func (m *MockFlashcardStore) GetByID(ctx context.Context, id int64) (*domain.Flashcard, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flashcard), args.Error(1)
}

func (m *MockFlashcardStore) GetForUpdate(ctx context.Context, id int64) (*domain.Flashcard, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flashcard), args.Error(1)
}

func (m *MockFlashcardStore) UpdateReviewState(
	ctx context.Context,
	id int64,
	state domain.ReviewState,
	updatedAt time.Time,
) error {
	return m.Called(ctx, id, state, updatedAt).Error(0)
}

func (m *MockFlashcardStore) ListByFurniture(ctx context.Context, furnitureID int64) ([]*domain.Flashcard, error) {
	args := m.Called(ctx, furnitureID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Flashcard), args.Error(1)
}

func (m *MockFlashcardStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	scope store.FlashcardScope,
	now time.Time,
	limit int,
) ([]store.DueFlashcard, error) {
	args := m.Called(ctx, userID, scope, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.DueFlashcard), args.Error(1)
}

func (m *MockFlashcardStore) WithTx(*sql.Tx) store.FlashcardStore {
	return m
}

var errHashFailed = errors.New("hash failed")

// mockPasswords "hashes" by prefixing and accepts exactly one password.
type mockPasswords struct {
	password string
	hashErr  error
}

func (p mockPasswords) Hash(password string) (string, error) {
	if p.hashErr != nil {
		return "", p.hashErr
	}
	return "hashed:" + password, nil
}

func (p mockPasswords) Compare(_, password string) error {
	if password != p.password {
		return auth.ErrInvalidCredentials
	}
	return nil
}

// newMockDB returns a sqlmock database that checks its expectations when the test ends.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }
