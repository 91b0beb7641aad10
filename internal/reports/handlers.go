package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/fdg312/recipe-hub/internal/userctx"
)

// Handler handles HTTP requests for week plan export.
type Handler struct {
	generator *Generator
}

// NewHandler creates a new reports handler.
func NewHandler(generator *Generator) *Handler {
	return &Handler{generator: generator}
}

// HandleExportWeek handles GET /v1/planner/week/export?week=&year=
func (h *Handler) HandleExportWeek(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerUserID := "default"
	if userID, ok := userctx.GetUserID(ctx); ok {
		ownerUserID = userID
	}

	week, err := strconv.Atoi(r.URL.Query().Get("week"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "week must be an integer")
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "year must be an integer")
		return
	}

	data, err := h.generator.GenerateWeekPDF(ctx, ownerUserID, week, year)
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			writeError(w, http.StatusNotFound, "plan_not_found", "Week plan not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to export week plan")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=week-%d-%d.pdf", week, year))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
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
