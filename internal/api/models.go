package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/palace-api/internal/domain"
	"github.com/phrazzld/palace-api/internal/domain/layout"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Name     string `json:"name"     validate:"required,max=30"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	AccessToken string    `json:"token"`
}

// CreatePalaceRequest defines the payload for creating a palace. Layout is
// an optional grid of cell tokens.
type CreatePalaceRequest struct {
	Name   string          `json:"name"   validate:"required,max=100"`
	Layout json.RawMessage `json:"layout,omitempty"`
}

// SaveLayoutRequest defines the payload for replacing a palace layout.
type SaveLayoutRequest struct {
	Layout json.RawMessage `json:"layout"`
}

// PalaceResponse is a palace with its decoded layout.
type PalaceResponse struct {
	ID               int64       `json:"id"`
	Name             string      `json:"name"`
	Layout           layout.Grid `json:"layout"`
	CreatedFurniture []int64     `json:"created_furniture,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// LayoutResponse is the outcome of saving a layout.
type LayoutResponse struct {
	Layout           layout.Grid `json:"layout"`
	CreatedFurniture []int64     `json:"created_furniture"`
}

// CreateFurnitureRequest defines the payload for adding furniture explicitly.
type CreateFurnitureRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

// FurnitureResponse is one piece of furniture.
type FurnitureResponse struct {
	ID          int64     `json:"id"`
	PalaceID    int64     `json:"palace_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateFlashcardRequest defines the payload for attaching a flashcard to furniture.
type CreateFlashcardRequest struct {
	Front     string  `json:"front"      validate:"required"`
	Back      string  `json:"back"       validate:"required"`
	IconName  *string `json:"icon_name,omitempty"`
	SlotIndex *int    `json:"slot_index,omitempty"`
}

// SubmitGradeRequest defines the payload for recording a review.
type SubmitGradeRequest struct {
	Grade *int `json:"grade" validate:"required"`
}

// ReviewStateResponse is the scheduling state of a flashcard.
type ReviewStateResponse struct {
	Repetition int       `json:"repetition"`
	Interval   int       `json:"interval"`
	EaseFactor float64   `json:"ease_factor"`
	NextReview time.Time `json:"next_review"`
}

// FlashcardResponse is a flashcard with its review state.
type FlashcardResponse struct {
	ID          int64               `json:"id"`
	FurnitureID int64               `json:"furniture_id"`
	Front       string              `json:"front"`
	Back        string              `json:"back"`
	IconName    *string             `json:"icon_name,omitempty"`
	SlotIndex   *int                `json:"slot_index,omitempty"`
	ReviewState ReviewStateResponse `json:"review_state"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// QueueResponse lists due flashcards, earliest first.
type QueueResponse struct {
	Flashcards []FlashcardResponse `json:"flashcards"`
}

func palaceToResponse(palace *domain.Palace) (PalaceResponse, error) {
	grid, err := layout.DecodeGrid([]byte(palace.Layout))
	if err != nil {
		return PalaceResponse{}, err
	}
	if grid == nil {
		grid = layout.Grid{}
	}
	return PalaceResponse{
		ID:        palace.ID,
		Name:      palace.Name,
		Layout:    grid,
		CreatedAt: palace.CreatedAt,
		UpdatedAt: palace.UpdatedAt,
	}, nil
}

func furnitureToResponse(item *domain.Furniture) FurnitureResponse {
	return FurnitureResponse{
		ID:          item.ID,
		PalaceID:    item.PalaceID,
		Name:        item.Name,
		Description: item.Description,
		CreatedAt:   item.CreatedAt,
	}
}

func flashcardToResponse(card *domain.Flashcard) FlashcardResponse {
	return FlashcardResponse{
		ID:          card.ID,
		FurnitureID: card.FurnitureID,
		Front:       card.Front,
		Back:        card.Back,
		IconName:    card.IconName,
		SlotIndex:   card.SlotIndex,
		ReviewState: ReviewStateResponse{
			Repetition: card.Repetition,
			Interval:   card.Interval,
			EaseFactor: card.EaseFactor,
			NextReview: card.NextReview,
		},
		CreatedAt: card.CreatedAt,
		UpdatedAt: card.UpdatedAt,
	}
}
