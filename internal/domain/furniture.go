package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Furniture validation errors.
var (
	ErrFurnitureUserIDEmpty   = errors.New("furniture user ID cannot be empty")
	ErrFurniturePalaceIDEmpty = errors.New("furniture palace ID cannot be empty")
	ErrFurnitureNameEmpty     = errors.New("furniture name cannot be empty")
	ErrFurnitureNameTooLong   = errors.New("furniture name must be at most 100 characters long")
)

// maxFurnitureNameLength applies to names given through NewFurniture.
const maxFurnitureNameLength = 100

// Furniture is a piece of furniture placed in a palace. Flashcards hang off it.
// The ID is assigned by the store and is what layout tokens refer to.
type Furniture struct {
	ID          int64     `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	PalaceID    int64     `json:"palace_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewFurniture creates an unsaved furniture item owned by userID in palaceID.
func NewFurniture(userID uuid.UUID, palaceID int64, name, description string) (*Furniture, error) {
	now := time.Now().UTC()
	furniture := &Furniture{
		UserID:      userID,
		PalaceID:    palaceID,
		Name:        strings.TrimSpace(name),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := furniture.Validate(); err != nil {
		return nil, err
	}
	if len(furniture.Name) > maxFurnitureNameLength {
		return nil, ErrFurnitureNameTooLong
	}

	return furniture, nil
}

// NewPlacedFurniture creates an unsaved furniture item named by a layout
// cell. The name is kept verbatim: any payload the cell grammar accepts is a
// valid name, so only empty names are rejected.
func NewPlacedFurniture(userID uuid.UUID, palaceID int64, name string) (*Furniture, error) {
	now := time.Now().UTC()
	furniture := &Furniture{
		UserID:    userID,
		PalaceID:  palaceID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := furniture.Validate(); err != nil {
		return nil, err
	}

	return furniture, nil
}

// Validate checks if the Furniture has valid data.
func (f *Furniture) Validate() error {
	if f.UserID == uuid.Nil {
		return ErrFurnitureUserIDEmpty
	}
	if f.PalaceID <= 0 {
		return ErrFurniturePalaceIDEmpty
	}
	if f.Name == "" {
		return ErrFurnitureNameEmpty
	}
	return nil
}
