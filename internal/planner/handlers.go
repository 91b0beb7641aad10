package planner

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/fdg312/recipe-hub/internal/userctx"
)

// Handler handles HTTP requests for the weekly planner.
type Handler struct {
	service *Service
}

// NewHandler creates a new planner handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleGetWeek handles GET /v1/planner/week?week=&year=
func (h *Handler) HandleGetWeek(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := requestUserID(r)

	week, year, ok := parseWeekYear(w, r)
	if !ok {
		return
	}

	plan, err := h.service.GetOrCreate(ctx, ownerUserID, week, year)
	if err != nil {
		writeServiceError(w, err, "Failed to get week plan")
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// HandleUpsertMeal handles POST /v1/planner/week/meals
func (h *Handler) HandleUpsertMeal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := requestUserID(r)

	var req UpsertMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	plan, err := h.service.UpsertMeal(ctx, ownerUserID, req)
	if err != nil {
		writeServiceError(w, err, "Failed to save meal")
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// HandleDeleteMeal handles DELETE /v1/planner/week/meals?week=&year=&day_of_week=&meal_slot=
func (h *Handler) HandleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := requestUserID(r)

	week, year, ok := parseWeekYear(w, r)
	if !ok {
		return
	}

	dayOfWeek, err := strconv.Atoi(r.URL.Query().Get("day_of_week"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "day_of_week must be an integer")
		return
	}

	mealSlot, err := strconv.Atoi(r.URL.Query().Get("meal_slot"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "meal_slot must be an integer")
		return
	}

	plan, err := h.service.DeleteMeal(ctx, ownerUserID, week, year, dayOfWeek, mealSlot)
	if err != nil {
		writeServiceError(w, err, "Failed to delete meal")
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// HandleHistory handles GET /v1/planner/history
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := requestUserID(r)

	plans, err := h.service.History(ctx, ownerUserID)
	if err != nil {
		writeServiceError(w, err, "Failed to get planner history")
		return
	}

	writeJSON(w, http.StatusOK, HistoryResponse{Plans: plans})
}

func parseWeekYear(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	week, err := strconv.Atoi(r.URL.Query().Get("week"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "week must be an integer")
		return 0, 0, false
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "year must be an integer")
		return 0, 0, false
	}

	return week, year, true
}

func requestUserID(r *http.Request) string {
	if userID, ok := userctx.GetUserID(r.Context()); ok {
		return userID
	}
	return "default"
}

func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, ErrPlanNotFound) {
		writeError(w, http.StatusNotFound, "plan_not_found", "Week plan not found")
		return
	}
	errMsg := err.Error()
	if strings.HasPrefix(errMsg, "validation failed: ") {
		writeError(w, http.StatusBadRequest, "invalid_request", strings.TrimPrefix(errMsg, "validation failed: "))
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", fallback)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
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
