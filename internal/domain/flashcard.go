package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Flashcard-specific validation errors
var (
	ErrFlashcardUserIDEmpty      = errors.New("flashcard user ID cannot be empty")
	ErrFlashcardFurnitureIDEmpty = errors.New("flashcard furniture ID cannot be empty")
	ErrFlashcardFrontEmpty       = errors.New("flashcard front cannot be empty")
	ErrFlashcardBackEmpty        = errors.New("flashcard back cannot be empty")
	ErrInvalidSlotIndex          = errors.New("slot index must be between 0 and 8")
)

// MaxSlotIndex is the highest slot a flashcard can occupy on a piece of furniture.
const MaxSlotIndex = 8

// Flashcard is a question/answer pair attached to a piece of furniture,
// together with its spaced repetition state.
type Flashcard struct {
	ID          int64     `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	FurnitureID int64     `json:"furniture_id"`
	Front       string    `json:"front"`
	Back        string    `json:"back"`
	IconName    *string   `json:"icon_name,omitempty"`
	SlotIndex   *int      `json:"slot_index,omitempty"`
	ReviewState
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewFlashcard creates an unsaved flashcard with a fresh review state,
// due for review at now.
func NewFlashcard(
	userID uuid.UUID,
	furnitureID int64,
	front, back string,
	iconName *string,
	slotIndex *int,
	now time.Time,
) (*Flashcard, error) {
	card := &Flashcard{
		UserID:      userID,
		FurnitureID: furnitureID,
		Front:       strings.TrimSpace(front),
		Back:        strings.TrimSpace(back),
		IconName:    iconName,
		SlotIndex:   slotIndex,
		ReviewState: NewReviewState(now),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Flashcard has valid data, including its review state.
func (c *Flashcard) Validate() error {
	if c.UserID == uuid.Nil {
		return ErrFlashcardUserIDEmpty
	}
	if c.FurnitureID <= 0 {
		return ErrFlashcardFurnitureIDEmpty
	}
	if c.Front == "" {
		return ErrFlashcardFrontEmpty
	}
	if c.Back == "" {
		return ErrFlashcardBackEmpty
	}
	if c.SlotIndex != nil && (*c.SlotIndex < 0 || *c.SlotIndex > MaxSlotIndex) {
		return ErrInvalidSlotIndex
	}
	return c.ReviewState.Validate()
}

// WithReviewState returns a copy of the card carrying state, stamped at now.
func (c *Flashcard) WithReviewState(state ReviewState, now time.Time) *Flashcard {
	updated := *c
	updated.ReviewState = state
	updated.UpdatedAt = now
	return &updated
}
