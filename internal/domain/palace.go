package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Palace validation errors.
var (
	ErrPalaceUserIDEmpty = errors.New("palace user ID cannot be empty")
	ErrPalaceNameEmpty   = errors.New("palace name cannot be empty")
	ErrPalaceNameTooLong = errors.New("palace name must be at most 100 characters long")
)

const maxPalaceNameLength = 100

// Palace is a user's memory palace. Its floor plan is stored as the
// JSON-encoded resolved layout grid; an empty Layout means no plan yet.
type Palace struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Layout    string    `json:"layout,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPalace creates an unsaved palace owned by userID.
func NewPalace(userID uuid.UUID, name string) (*Palace, error) {
	now := time.Now().UTC()
	palace := &Palace{
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := palace.Validate(); err != nil {
		return nil, err
	}

	return palace, nil
}

// Validate checks if the Palace has valid data.
func (p *Palace) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrPalaceUserIDEmpty
	}
	if p.Name == "" {
		return ErrPalaceNameEmpty
	}
	if len(p.Name) > maxPalaceNameLength {
		return ErrPalaceNameTooLong
	}
	return nil
}
