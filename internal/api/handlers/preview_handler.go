// Package handlers contains HTTP handlers for the API.
package handlers

import (
	"encoding/json"
	"net/http"

	"norelock.dev/drumline/backend/internal/models"
	"norelock.dev/drumline/backend/internal/services/preview"
	"norelock.dev/drumline/backend/internal/utils"
)

// StatusClientClosedRequest is nginx's non-standard status for a client that
// closed the connection before the response was ready.
const StatusClientClosedRequest = 499

// PreviewHandler handles HTTP requests related to song preview resolution.
type PreviewHandler struct {
	resolver *preview.Resolver
	logger   *utils.Logger
}

// NewPreviewHandler creates a new preview handler.
func NewPreviewHandler(resolver *preview.Resolver, logger *utils.Logger) *PreviewHandler {
	return &PreviewHandler{
		resolver: resolver,
		logger:   logger.Named("preview_handler"),
	}
}

// Resolve handles requests to resolve a song's preview audio. The body is a
// song record; the response carries the URL of the first candidate that was
// verified reachable.
func (h *PreviewHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var song models.Song
	if err := json.NewDecoder(r.Body).Decode(&song); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := utils.Validate(&song); err != nil {
		utils.RespondWithValidationError(w, err)
		return
	}

	handle, err := h.resolver.ResolvePreview(r.Context(), &song)
	if err != nil {
		if utils.IsCancellation(err) {
			// The client gave up; not a server failure.
			h.logger.Debug("Preview resolution cancelled", "song", song.ID)
			utils.RespondWithError(w, StatusClientClosedRequest, "Request cancelled")
			return
		}
		h.logger.Error("Failed to resolve preview", err, "song", song.ID)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to resolve preview")
		return
	}

	if handle == nil {
		utils.RespondWithError(w, http.StatusNotFound, "No preview available")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, models.SongPreviewResponse{
		URL:      handle.URL(),
		Resident: handle.Resident(),
	})
}

// ClearCache handles requests to drop every settled availability outcome.
func (h *PreviewHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	cleared := h.resolver.ClearCache()
	h.logger.Info("Preview cache cleared", "entries", cleared)

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"cleared": cleared,
	})
}
