package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/palace-api/internal/api/shared"
	"github.com/phrazzld/palace-api/internal/domain"
	"github.com/phrazzld/palace-api/internal/domain/layout"
	"github.com/phrazzld/palace-api/internal/service"
	"github.com/phrazzld/palace-api/internal/service/auth"
	"github.com/stretchr/testify/mock"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	args := m.Called(ctx, email, name, password)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

type MockPalaceService struct {
	mock.Mock
}

func (m *MockPalaceService) CreatePalace(
	ctx context.Context,
	userID uuid.UUID,
	name string,
	grid layout.Grid,
) (*domain.Palace, *layout.Result, error) {
	args := m.Called(ctx, userID, name, grid)
	palace, _ := args.Get(0).(*domain.Palace)
	result, _ := args.Get(1).(*layout.Result)
	return palace, result, args.Error(2)
}

func (m *MockPalaceService) GetPalace(ctx context.Context, userID uuid.UUID, palaceID int64) (*domain.Palace, error) {
	args := m.Called(ctx, userID, palaceID)
	palace, _ := args.Get(0).(*domain.Palace)
	return palace, args.Error(1)
}

func (m *MockPalaceService) ListPalaces(ctx context.Context, userID uuid.UUID) ([]*domain.Palace, error) {
	args := m.Called(ctx, userID)
	palaces, _ := args.Get(0).([]*domain.Palace)
	return palaces, args.Error(1)
}

func (m *MockPalaceService) DeletePalace(ctx context.Context, userID uuid.UUID, palaceID int64) error {
	return m.Called(ctx, userID, palaceID).Error(0)
}

func (m *MockPalaceService) SaveLayout(
	ctx context.Context,
	userID uuid.UUID,
	palaceID int64,
	grid layout.Grid,
) (*layout.Result, error) {
	args := m.Called(ctx, userID, palaceID, grid)
	result, _ := args.Get(0).(*layout.Result)
	return result, args.Error(1)
}

func (m *MockPalaceService) CreateFurniture(
	ctx context.Context,
	userID uuid.UUID,
	palaceID int64,
	name, description string,
) (*domain.Furniture, error) {
	args := m.Called(ctx, userID, palaceID, name, description)
	item, _ := args.Get(0).(*domain.Furniture)
	return item, args.Error(1)
}

func (m *MockPalaceService) ListFurniture(ctx context.Context, userID uuid.UUID, palaceID int64) ([]*domain.Furniture, error) {
	args := m.Called(ctx, userID, palaceID)
	items, _ := args.Get(0).([]*domain.Furniture)
	return items, args.Error(1)
}

func (m *MockPalaceService) GetFurniture(ctx context.Context, userID uuid.UUID, furnitureID int64) (*domain.Furniture, error) {
	args := m.Called(ctx, userID, furnitureID)
	item, _ := args.Get(0).(*domain.Furniture)
	return item, args.Error(1)
}

type MockFlashcardService struct {
	mock.Mock
}

func (m *MockFlashcardService) CreateFlashcard(
	ctx context.Context,
	userID uuid.UUID,
	furnitureID int64,
	input service.NewFlashcardInput,
) (*domain.Flashcard, error) {
	args := m.Called(ctx, userID, furnitureID, input)
	card, _ := args.Get(0).(*domain.Flashcard)
	return card, args.Error(1)
}

func (m *MockFlashcardService) GetFlashcard(ctx context.Context, userID uuid.UUID, flashcardID int64) (*domain.Flashcard, error) {
	args := m.Called(ctx, userID, flashcardID)
	card, _ := args.Get(0).(*domain.Flashcard)
	return card, args.Error(1)
}

func (m *MockFlashcardService) ListFlashcards(ctx context.Context, userID uuid.UUID, furnitureID int64) ([]*domain.Flashcard, error) {
	args := m.Called(ctx, userID, furnitureID)
	cards, _ := args.Get(0).([]*domain.Flashcard)
	return cards, args.Error(1)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) SubmitGrade(
	ctx context.Context,
	userID uuid.UUID,
	flashcardID int64,
	grade domain.Grade,
) (*domain.Flashcard, error) {
	args := m.Called(ctx, userID, flashcardID, grade)
	card, _ := args.Get(0).(*domain.Flashcard)
	return card, args.Error(1)
}

func (m *MockReviewService) DueQueue(ctx context.Context, userID uuid.UUID, req service.QueueRequest) ([]*domain.Flashcard, error) {
	args := m.Called(ctx, userID, req)
	cards, _ := args.Get(0).([]*domain.Flashcard)
	return cards, args.Error(1)
}

type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	args := m.Called(ctx, tokenString)
	claims, _ := args.Get(0).(*auth.Claims)
	return claims, args.Error(1)
}

// serveRoute mounts handler at pattern on a fresh chi router and sends one
// request to target. A nil userID leaves the request unauthenticated.
func serveRoute(
	handler http.HandlerFunc,
	method, pattern, target, body string,
	userID *uuid.UUID,
) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.MethodFunc(method, pattern, handler)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != nil {
		req = req.WithContext(shared.WithUserID(req.Context(), *userID))
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func int64Ptr(i int64) *int64 { return &i }
