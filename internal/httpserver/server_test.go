package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fdg312/recipe-hub/internal/config"
	"github.com/fdg312/recipe-hub/internal/planner"
	"github.com/google/uuid"
)

func TestHealthz(t *testing.T) {
	cfg := &config.Config{Port: 8080}
	srv := New(cfg)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status=ok, got %s", resp["status"])
	}
}

func TestHealthzMethodNotAllowed(t *testing.T) {
	cfg := &config.Config{Port: 8080}
	srv := New(cfg)

	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestPlannerFlow(t *testing.T) {
	cfg := &config.Config{Port: 8080, ActivitiesPageSize: 50}
	srv := New(cfg)

	// Fresh week plan
	req := httptest.NewRequest(http.MethodGet, "/v1/planner/week?week=12&year=2025", nil)
	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("get week: expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}

	var plan planner.WeekPlanDTO
	if err := json.NewDecoder(w.Body).Decode(&plan); err != nil {
		t.Fatalf("failed to decode week plan: %v", err)
	}
	if len(plan.Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(plan.Days))
	}

	// Plan a meal
	recipeID := uuid.New().String()
	body, _ := json.Marshal(planner.UpsertMealRequest{
		Week: 12, Year: 2025, DayOfWeek: 2, MealSlot: 1, RecipeID: &recipeID,
	})
	req = httptest.NewRequest(http.MethodPost, "/v1/planner/week/meals", bytes.NewReader(body))
	w = httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("upsert meal: expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}
	if err := json.NewDecoder(w.Body).Decode(&plan); err != nil {
		t.Fatalf("failed to decode week plan: %v", err)
	}
	if len(plan.Days[2].Meals) != 1 {
		t.Fatalf("expected 1 meal on day 2, got %d", len(plan.Days[2].Meals))
	}

	// Activity feed has the entry
	req = httptest.NewRequest(http.MethodGet, "/v1/activities", nil)
	w = httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("activities: expected status 200, got %d", w.Code)
	}
	var feed struct {
		Activities []struct {
			Kind string `json:"kind"`
		} `json:"activities"`
	}
	if err := json.NewDecoder(w.Body).Decode(&feed); err != nil {
		t.Fatalf("failed to decode activities: %v", err)
	}
	if len(feed.Activities) != 1 || feed.Activities[0].Kind != "meal_planned" {
		t.Fatalf("expected one meal_planned activity, got %+v", feed.Activities)
	}

	// Clear the slot
	req = httptest.NewRequest(http.MethodDelete, "/v1/planner/week/meals?week=12&year=2025&day_of_week=2&meal_slot=1", nil)
	w = httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("delete meal: expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}
	if err := json.NewDecoder(w.Body).Decode(&plan); err != nil {
		t.Fatalf("failed to decode week plan: %v", err)
	}
	if len(plan.Days[2].Meals) != 0 {
		t.Fatalf("expected empty slot after delete, got %d meals", len(plan.Days[2].Meals))
	}
}
