package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/palace-api/internal/api/shared"
	"github.com/phrazzld/palace-api/internal/domain"
	"github.com/phrazzld/palace-api/internal/platform/logger"
	"github.com/phrazzld/palace-api/internal/service"
)

// FlashcardHandler serves flashcards and their reviews.
type FlashcardHandler struct {
	flashcardService service.FlashcardService
	reviewService    service.ReviewService
	logger           *slog.Logger
}

// NewFlashcardHandler creates a new FlashcardHandler.
func NewFlashcardHandler(
	flashcardService service.FlashcardService,
	reviewService service.ReviewService,
	logger *slog.Logger,
) *FlashcardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FlashcardHandler{
		flashcardService: flashcardService,
		reviewService:    reviewService,
		logger:           logger.With(slog.String("component", "flashcard_handler")),
	}
}

// CreateFlashcard handles POST /furniture/{id}/flashcards.
func (h *FlashcardHandler) CreateFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, furnitureID, ok := handleUserIDAndPathID(w, r, "id")
	if !ok {
		return
	}

	var req CreateFlashcardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.flashcardService.CreateFlashcard(r.Context(), userID, furnitureID, service.NewFlashcardInput{
		Front:     req.Front,
		Back:      req.Back,
		IconName:  req.IconName,
		SlotIndex: req.SlotIndex,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, flashcardToResponse(card))
}

// GetFlashcard handles GET /flashcards/{id}.
func (h *FlashcardHandler) GetFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, flashcardID, ok := handleUserIDAndPathID(w, r, "id")
	if !ok {
		return
	}

	card, err := h.flashcardService.GetFlashcard(r.Context(), userID, flashcardID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, flashcardToResponse(card))
}

// ListFlashcards handles GET /furniture/{id}/flashcards.
func (h *FlashcardHandler) ListFlashcards(w http.ResponseWriter, r *http.Request) {
	userID, furnitureID, ok := handleUserIDAndPathID(w, r, "id")
	if !ok {
		return
	}

	cards, err := h.flashcardService.ListFlashcards(r.Context(), userID, furnitureID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	resp := make([]FlashcardResponse, len(cards))
	for i, card := range cards {
		resp[i] = flashcardToResponse(card)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// SubmitGrade handles POST /flashcards/{id}/review.
func (h *FlashcardHandler) SubmitGrade(w http.ResponseWriter, r *http.Request) {
	userID, flashcardID, ok := handleUserIDAndPathID(w, r, "id")
	if !ok {
		return
	}

	var req SubmitGradeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.reviewService.SubmitGrade(r.Context(), userID, flashcardID, domain.Grade(*req.Grade))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	logger.FromContextOrDefault(r.Context(), h.logger).Debug("grade submitted",
		slog.Int64("flashcard_id", flashcardID),
		slog.Int("grade", *req.Grade))
	shared.RespondWithJSON(w, r, http.StatusOK, flashcardToResponse(card))
}

// ReviewQueue handles GET /review/queue.
func (h *FlashcardHandler) ReviewQueue(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req service.QueueRequest
	var err error
	if req.PalaceID, err = getQueryID(r, "palace_id"); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if req.FurnitureID, err = getQueryID(r, "furniture_id"); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if req.At, err = getQueryTime(r, "at"); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if req.Limit, err = getQueryInt(r, "limit"); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	cards, err := h.reviewService.DueQueue(r.Context(), userID, req)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	resp := QueueResponse{Flashcards: make([]FlashcardResponse, len(cards))}
	for i, card := range cards {
		resp.Flashcards[i] = flashcardToResponse(card)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
