// Package seed applies palace templates to user accounts: a palace with its
// layout, the furniture named in the layout, and decks of flashcards.
package seed

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/phrazzld/palace-api/internal/domain/layout"
	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yaml
var templatesFS embed.FS

const defaultTemplate = "templates/default.yaml"

// ErrInvalidTemplate is returned when a template fails to parse or validate.
var ErrInvalidTemplate = errors.New("invalid palace template")

// Template describes a palace to create for a user.
type Template struct {
	Name   string      `yaml:"name"`
	Layout layout.Grid `yaml:"layout"`
	// Furniture lists decks of cards. A deck whose name matches a named
	// layout cell is attached to the furniture created for that cell;
	// otherwise the furniture is created explicitly.
	Furniture []Deck `yaml:"furniture"`
}

// Deck is a piece of furniture and the cards placed on it.
type Deck struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Cards       []Card `yaml:"cards"`
}

// Card is one flashcard of a deck.
type Card struct {
	Front string  `yaml:"front"`
	Back  string  `yaml:"back"`
	Icon  *string `yaml:"icon,omitempty"`
	Slot  *int    `yaml:"slot,omitempty"`
}

// CardCount returns the number of cards across all decks.
func (t *Template) CardCount() int {
	n := 0
	for _, deck := range t.Furniture {
		n += len(deck.Cards)
	}
	return n
}

// Validate checks the template before anything is written.
func (t *Template) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidTemplate)
	}
	if err := t.Layout.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}

	seen := make(map[string]struct{}, len(t.Furniture))
	for i, deck := range t.Furniture {
		if strings.TrimSpace(deck.Name) == "" {
			return fmt.Errorf("%w: furniture %d has no name", ErrInvalidTemplate, i)
		}
		if _, dup := seen[deck.Name]; dup {
			return fmt.Errorf("%w: furniture %q listed twice", ErrInvalidTemplate, deck.Name)
		}
		seen[deck.Name] = struct{}{}

		for j, card := range deck.Cards {
			if strings.TrimSpace(card.Front) == "" || strings.TrimSpace(card.Back) == "" {
				return fmt.Errorf("%w: card %d of %q needs a front and a back", ErrInvalidTemplate, j, deck.Name)
			}
		}
	}
	return nil
}

// Parse decodes and validates a YAML template. Unknown keys are rejected.
func Parse(data []byte) (*Template, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var t Template
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Load reads a template from path, or the built-in default when path is empty.
func Load(path string) (*Template, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", path, err)
	}
	return Parse(data)
}

// Default returns the built-in starter palace.
func Default() (*Template, error) {
	data, err := templatesFS.ReadFile(defaultTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded template: %w", err)
	}
	return Parse(data)
}
