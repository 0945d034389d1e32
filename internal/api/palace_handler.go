package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/palace-api/internal/api/shared"
	"github.com/phrazzld/palace-api/internal/domain"
	"github.com/phrazzld/palace-api/internal/domain/layout"
	"github.com/phrazzld/palace-api/internal/platform/logger"
	"github.com/phrazzld/palace-api/internal/service"
)

// PalaceHandler serves palaces, their layouts and their furniture.
type PalaceHandler struct {
	palaceService service.PalaceService
	logger        *slog.Logger
}

// NewPalaceHandler creates a new PalaceHandler.
func NewPalaceHandler(palaceService service.PalaceService, logger *slog.Logger) *PalaceHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PalaceHandler{
		palaceService: palaceService,
		logger:        logger.With(slog.String("component", "palace_handler")),
	}
}

// decodeLayout parses a submitted layout. The second result is false after
// an error response has been written.
func decodeLayout(w http.ResponseWriter, r *http.Request, raw []byte) (layout.Grid, bool) {
	grid, err := layout.DecodeGrid(raw)
	if err != nil {
		HandleAPIError(w, r, domain.NewValidationError("layout", "must be a JSON array of rows", err))
		return nil, false
	}
	return grid, true
}

// CreatePalace handles POST /palaces.
func (h *PalaceHandler) CreatePalace(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreatePalaceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	grid, ok := decodeLayout(w, r, req.Layout)
	if !ok {
		return
	}

	palace, result, err := h.palaceService.CreatePalace(r.Context(), userID, req.Name, grid)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	resp, err := palaceToResponse(palace)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	resp.CreatedFurniture = result.CreatedIDs()
	shared.RespondWithJSON(w, r, http.StatusCreated, resp)
}

// ListPalaces handles GET /palaces.
func (h *PalaceHandler) ListPalaces(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	palaces, err := h.palaceService.ListPalaces(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	resp := make([]PalaceResponse, 0, len(palaces))
	for _, palace := range palaces {
		item, err := palaceToResponse(palace)
		if err != nil {
			HandleAPIError(w, r, err)
			return
		}
		resp = append(resp, item)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetPalace handles GET /palaces/{id}.
func (h *PalaceHandler) GetPalace(w http.ResponseWriter, r *http.Request) {
	userID, palaceID, ok := handleUserIDAndPathID(w, r, "id")
	if !ok {
		return
	}

	palace, err := h.palaceService.GetPalace(r.Context(), userID, palaceID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	resp, err := palaceToResponse(palace)
	if err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Error("stored layout is not decodable",
			slog.Int64("palace_id", palaceID))
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// DeletePalace handles DELETE /palaces/{id}.
func (h *PalaceHandler) DeletePalace(w http.ResponseWriter, r *http.Request) {
	userID, palaceID, ok := handleUserIDAndPathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.palaceService.DeletePalace(r.Context(), userID, palaceID); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SaveLayout handles PUT /palaces/{id}/layout.
func (h *PalaceHandler) SaveLayout(w http.ResponseWriter, r *http.Request) {
	userID, palaceID, ok := handleUserIDAndPathID(w, r, "id")
	if !ok {
		return
	}

	var req SaveLayoutRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if len(req.Layout) == 0 {
		HandleAPIError(w, r, domain.NewValidationError("layout", "is required", domain.ErrValidation))
		return
	}
	grid, ok := decodeLayout(w, r, req.Layout)
	if !ok {
		return
	}
	if grid == nil {
		grid = layout.Grid{}
	}

	result, err := h.palaceService.SaveLayout(r.Context(), userID, palaceID, grid)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LayoutResponse{
		Layout:           result.Grid,
		CreatedFurniture: result.CreatedIDs(),
	})
}

// CreateFurniture handles POST /palaces/{id}/furniture.
func (h *PalaceHandler) CreateFurniture(w http.ResponseWriter, r *http.Request) {
	userID, palaceID, ok := handleUserIDAndPathID(w, r, "id")
	if !ok {
		return
	}

	var req CreateFurnitureRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.palaceService.CreateFurniture(r.Context(), userID, palaceID, req.Name, req.Description)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, furnitureToResponse(item))
}

// ListFurniture handles GET /palaces/{id}/furniture.
func (h *PalaceHandler) ListFurniture(w http.ResponseWriter, r *http.Request) {
	userID, palaceID, ok := handleUserIDAndPathID(w, r, "id")
	if !ok {
		return
	}

	items, err := h.palaceService.ListFurniture(r.Context(), userID, palaceID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	resp := make([]FurnitureResponse, len(items))
	for i, item := range items {
		resp[i] = furnitureToResponse(item)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetFurniture handles GET /furniture/{id}.
func (h *PalaceHandler) GetFurniture(w http.ResponseWriter, r *http.Request) {
	userID, furnitureID, ok := handleUserIDAndPathID(w, r, "id")
	if !ok {
		return
	}

	item, err := h.palaceService.GetFurniture(r.Context(), userID, furnitureID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, furnitureToResponse(item))
}
