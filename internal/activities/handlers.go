package activities

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/fdg312/recipe-hub/internal/userctx"
)

// Handler handles HTTP requests for the activity feed.
type Handler struct {
	service *Service
}

// NewHandler creates a new activities handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleList handles GET /v1/activities?limit=&offset=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerUserID := "default"
	if userID, ok := userctx.GetUserID(ctx); ok {
		ownerUserID = userID
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	entries, err := h.service.List(ctx, ownerUserID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list activities")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(ListActivitiesResponse{Activities: entries})
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
