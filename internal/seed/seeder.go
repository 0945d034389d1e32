package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/palace-api/internal/domain/layout"
	"github.com/phrazzld/palace-api/internal/platform/logger"
	"github.com/phrazzld/palace-api/internal/service"
)

// ErrAlreadySeeded is returned when the user already owns a palace with the
// template's name.
var ErrAlreadySeeded = errors.New("palace already exists for user")

// Report summarizes what a seed run created.
type Report struct {
	PalaceID          int64
	FurnitureCreated  int
	FlashcardsCreated int
}

// Seeder applies templates through the regular services, so seeded data
// passes the same validation and ownership rules as API traffic.
type Seeder struct {
	users      service.UserService
	palaces    service.PalaceService
	flashcards service.FlashcardService
	logger     *slog.Logger
}

// NewSeeder creates a Seeder.
func NewSeeder(
	users service.UserService,
	palaces service.PalaceService,
	flashcards service.FlashcardService,
	logger *slog.Logger,
) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		users:      users,
		palaces:    palaces,
		flashcards: flashcards,
		logger:     logger.With(slog.String("component", "seeder")),
	}
}

// Apply creates the palace described by tpl for the user registered with
// email. It refuses to run twice for the same palace name. When a deck fails
// to apply, the new palace is deleted again before the error is returned.
func (s *Seeder) Apply(ctx context.Context, email string, tpl *Template) (*Report, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	existing, err := s.palaces.ListPalaces(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list palaces: %w", err)
	}
	for _, p := range existing {
		if p.Name == tpl.Name {
			return nil, fmt.Errorf("%w: %q (id %d)", ErrAlreadySeeded, p.Name, p.ID)
		}
	}

	palace, result, err := s.palaces.CreatePalace(ctx, user.ID, tpl.Name, tpl.Layout)
	if err != nil {
		return nil, fmt.Errorf("failed to create palace: %w", err)
	}

	report, err := s.fill(ctx, user.ID, palace.ID, result, tpl)
	if err != nil {
		return nil, s.removePartial(ctx, user.ID, palace.ID, err)
	}

	log.Info("palace seeded",
		slog.Int64("palace_id", report.PalaceID),
		slog.Int("furniture_created", report.FurnitureCreated),
		slog.Int("flashcards_created", report.FlashcardsCreated))
	return report, nil
}

// fill attaches the template decks to the freshly created palace.
func (s *Seeder) fill(
	ctx context.Context,
	userID uuid.UUID,
	palaceID int64,
	result *layout.Result,
	tpl *Template,
) (*Report, error) {
	report := &Report{PalaceID: palaceID, FurnitureCreated: len(result.Created)}

	// First furniture created for a name wins when a layout repeats it.
	byName := make(map[string]int64, len(result.Created))
	for _, item := range result.Created {
		if _, ok := byName[item.Name]; !ok {
			byName[item.Name] = item.ID
		}
	}

	for _, deck := range tpl.Furniture {
		furnitureID, ok := byName[deck.Name]
		if !ok {
			item, err := s.palaces.CreateFurniture(ctx, userID, palaceID, deck.Name, deck.Description)
			if err != nil {
				return nil, fmt.Errorf("failed to create furniture %q: %w", deck.Name, err)
			}
			furnitureID = item.ID
			report.FurnitureCreated++
		}

		for _, card := range deck.Cards {
			_, err := s.flashcards.CreateFlashcard(ctx, userID, furnitureID, service.NewFlashcardInput{
				Front:     card.Front,
				Back:      card.Back,
				IconName:  card.Icon,
				SlotIndex: card.Slot,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to create flashcard on %q: %w", deck.Name, err)
			}
			report.FlashcardsCreated++
		}
	}
	return report, nil
}

// removePartial deletes a palace whose seeding failed part-way, so the run
// can be repeated. cause is returned, joined with any cleanup failure.
func (s *Seeder) removePartial(ctx context.Context, userID uuid.UUID, palaceID int64, cause error) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.palaces.DeletePalace(context.WithoutCancel(ctx), userID, palaceID); err != nil {
		log.Error("failed to remove partially seeded palace",
			slog.Int64("palace_id", palaceID),
			slog.String("error", err.Error()))
		return errors.Join(cause, fmt.Errorf("failed to remove palace %d: %w", palaceID, err))
	}

	log.Warn("partially seeded palace removed",
		slog.Int64("palace_id", palaceID),
		slog.String("cause", cause.Error()))
	return cause
}
