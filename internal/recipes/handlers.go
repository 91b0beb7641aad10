package recipes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/fdg312/recipe-hub/internal/userctx"
)

// Handler handles HTTP requests for recipes.
type Handler struct {
	service *Service
}

// NewHandler creates a new recipes handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleCreate handles POST /v1/recipes
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := requestUserID(r)

	var req CreateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	recipe, err := h.service.Create(ctx, ownerUserID, req)
	if err != nil {
		writeServiceError(w, err, "Failed to create recipe")
		return
	}

	writeJSON(w, http.StatusCreated, recipe)
}

// HandleGet handles GET /v1/recipes/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := requestUserID(r)

	recipe, err := h.service.Get(ctx, ownerUserID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, "Failed to get recipe")
		return
	}

	writeJSON(w, http.StatusOK, recipe)
}

// HandleList handles GET /v1/recipes?limit=&offset=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := requestUserID(r)

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	recipes, err := h.service.List(ctx, ownerUserID, limit, offset)
	if err != nil {
		writeServiceError(w, err, "Failed to list recipes")
		return
	}

	writeJSON(w, http.StatusOK, ListRecipesResponse{Recipes: recipes})
}

// HandleDelete handles DELETE /v1/recipes/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := requestUserID(r)

	if err := h.service.Delete(ctx, ownerUserID, r.PathValue("id")); err != nil {
		writeServiceError(w, err, "Failed to delete recipe")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func requestUserID(r *http.Request) string {
	if userID, ok := userctx.GetUserID(r.Context()); ok {
		return userID
	}
	return "default"
}

func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, ErrRecipeNotFound) {
		writeError(w, http.StatusNotFound, "recipe_not_found", "Recipe not found")
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
