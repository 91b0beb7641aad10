package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/fdg312/recipe-hub/internal/storage"
	"github.com/fdg312/recipe-hub/internal/userctx"
	"github.com/google/uuid"
)

type mockWeekPlansRepo struct {
	plans []*storage.WeekPlan
}

func (m *mockWeekPlansRepo) GetWeekPlan(ctx context.Context, ownerUserID string, week, year int) (storage.WeekPlan, bool, error) {
	for _, p := range m.plans {
		if p.OwnerUserID == ownerUserID && p.Week == week && p.Year == year {
			return *p, true, nil
		}
	}
	return storage.WeekPlan{}, false, nil
}

func (m *mockWeekPlansRepo) CreateWeekPlan(ctx context.Context, ownerUserID string, week, year int) (storage.WeekPlan, error) {
	if existing, found, _ := m.GetWeekPlan(ctx, ownerUserID, week, year); found {
		return existing, nil
	}

	plan := &storage.WeekPlan{
		ID:          uuid.New(),
		OwnerUserID: ownerUserID,
		Week:        week,
		Year:        year,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	for dayOfWeek := 0; dayOfWeek < 7; dayOfWeek++ {
		plan.Days = append(plan.Days, storage.DayPlan{
			ID:         uuid.New(),
			WeekPlanID: plan.ID,
			DayOfWeek:  dayOfWeek,
			Meals:      []storage.MealAssignment{},
		})
	}
	m.plans = append(m.plans, plan)

	return *plan, nil
}

func (m *mockWeekPlansRepo) UpsertMeal(ctx context.Context, dayPlanID uuid.UUID, mealSlot int, recipeID *uuid.UUID, freeNote *string) (storage.MealAssignment, error) {
	for _, p := range m.plans {
		for i := range p.Days {
			if p.Days[i].ID != dayPlanID {
				continue
			}
			for j := range p.Days[i].Meals {
				if p.Days[i].Meals[j].MealSlot == mealSlot {
					p.Days[i].Meals[j].RecipeID = recipeID
					p.Days[i].Meals[j].FreeNote = freeNote
					p.Days[i].Meals[j].UpdatedAt = time.Now()
					return p.Days[i].Meals[j], nil
				}
			}
			meal := storage.MealAssignment{
				ID:        uuid.New(),
				DayPlanID: dayPlanID,
				MealSlot:  mealSlot,
				RecipeID:  recipeID,
				FreeNote:  freeNote,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}
			p.Days[i].Meals = append(p.Days[i].Meals, meal)
			return meal, nil
		}
	}
	return storage.MealAssignment{}, nil
}

func (m *mockWeekPlansRepo) DeleteMeal(ctx context.Context, dayPlanID uuid.UUID, mealSlot int) (bool, error) {
	for _, p := range m.plans {
		for i := range p.Days {
			if p.Days[i].ID != dayPlanID {
				continue
			}
			for j := range p.Days[i].Meals {
				if p.Days[i].Meals[j].MealSlot == mealSlot {
					p.Days[i].Meals = append(p.Days[i].Meals[:j], p.Days[i].Meals[j+1:]...)
					return true, nil
				}
			}
			return false, nil
		}
	}
	return false, nil
}

func (m *mockWeekPlansRepo) ListWeekPlans(ctx context.Context, ownerUserID string) ([]storage.WeekPlan, error) {
	plans := []storage.WeekPlan{}
	for _, p := range m.plans {
		if p.OwnerUserID == ownerUserID {
			plans = append(plans, *p)
		}
	}
	sort.Slice(plans, func(i, j int) bool {
		if plans[i].Year != plans[j].Year {
			return plans[i].Year > plans[j].Year
		}
		return plans[i].Week > plans[j].Week
	})
	return plans, nil
}

type mockActivityRecorder struct {
	records []string
}

func (m *mockActivityRecorder) Record(ctx context.Context, ownerUserID, kind, description string) error {
	m.records = append(m.records, kind+": "+description)
	return nil
}

func newTestHandler() (*Handler, *mockWeekPlansRepo, *mockActivityRecorder) {
	repo := &mockWeekPlansRepo{}
	recorder := &mockActivityRecorder{}
	service := NewService(repo, recorder)
	return NewHandler(service), repo, recorder
}

func withUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(userctx.WithUserID(req.Context(), userID))
}

func TestHandleGetWeek_CreatesEmptyPlan(t *testing.T) {
	handler, _, _ := newTestHandler()

	req := withUser(httptest.NewRequest(http.MethodGet, "/v1/planner/week?week=12&year=2025", nil), "user-7")
	w := httptest.NewRecorder()
	handler.HandleGetWeek(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}

	var plan WeekPlanDTO
	if err := json.NewDecoder(w.Body).Decode(&plan); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if plan.UserID != "user-7" || plan.Week != 12 || plan.Year != 2025 {
		t.Errorf("unexpected plan identity: %s %d/%d", plan.UserID, plan.Week, plan.Year)
	}
	if len(plan.Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(plan.Days))
	}
	for i, day := range plan.Days {
		if day.DayOfWeek != i {
			t.Errorf("day %d: expected day_of_week %d, got %d", i, i, day.DayOfWeek)
		}
		if len(day.Meals) != 0 {
			t.Errorf("day %d: expected empty meals, got %d", i, len(day.Meals))
		}
	}
}

func TestHandleGetWeek_Idempotent(t *testing.T) {
	handler, _, _ := newTestHandler()

	var ids []string
	for i := 0; i < 2; i++ {
		req := withUser(httptest.NewRequest(http.MethodGet, "/v1/planner/week?week=12&year=2025", nil), "user-7")
		w := httptest.NewRecorder()
		handler.HandleGetWeek(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("call %d: expected status 200, got %d", i, w.Code)
		}
		var plan WeekPlanDTO
		if err := json.NewDecoder(w.Body).Decode(&plan); err != nil {
			t.Fatalf("call %d: failed to decode response: %v", i, err)
		}
		ids = append(ids, plan.ID)
	}

	if ids[0] != ids[1] {
		t.Errorf("expected same plan id on repeated calls, got %s and %s", ids[0], ids[1])
	}
}

func TestHandleGetWeek_InvalidWeek(t *testing.T) {
	handler, _, _ := newTestHandler()

	req := withUser(httptest.NewRequest(http.MethodGet, "/v1/planner/week?week=54&year=2025", nil), "user-7")
	w := httptest.NewRecorder()
	handler.HandleGetWeek(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for week 54, got %d", w.Code)
	}
}

func TestHandleUpsertMeal_LastWriteWins(t *testing.T) {
	handler, _, recorder := newTestHandler()

	recipeID := uuid.New().String()
	first := UpsertMealRequest{Week: 12, Year: 2025, DayOfWeek: 2, MealSlot: 1, RecipeID: &recipeID}
	body, _ := json.Marshal(first)
	req := withUser(httptest.NewRequest(http.MethodPost, "/v1/planner/week/meals", bytes.NewReader(body)), "user-7")
	w := httptest.NewRecorder()
	handler.HandleUpsertMeal(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("first upsert: expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}

	note := "leftovers from Tuesday"
	second := UpsertMealRequest{Week: 12, Year: 2025, DayOfWeek: 2, MealSlot: 1, FreeNote: &note}
	body, _ = json.Marshal(second)
	req = withUser(httptest.NewRequest(http.MethodPost, "/v1/planner/week/meals", bytes.NewReader(body)), "user-7")
	w = httptest.NewRecorder()
	handler.HandleUpsertMeal(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("second upsert: expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}

	var plan WeekPlanDTO
	if err := json.NewDecoder(w.Body).Decode(&plan); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	meals := plan.Days[2].Meals
	if len(meals) != 1 {
		t.Fatalf("expected 1 meal in slot, got %d", len(meals))
	}
	if meals[0].RecipeID != nil {
		t.Errorf("expected recipe_id cleared by replacement, got %v", *meals[0].RecipeID)
	}
	if meals[0].FreeNote == nil || *meals[0].FreeNote != note {
		t.Errorf("expected free_note %q, got %v", note, meals[0].FreeNote)
	}

	if len(recorder.records) != 2 {
		t.Fatalf("expected 2 activity records, got %d", len(recorder.records))
	}
	if recorder.records[0] != "meal_planned: Planned lunch for Wednesday, week 12/2025" {
		t.Errorf("unexpected first activity: %s", recorder.records[0])
	}
	if recorder.records[1] != "meal_changed: Changed lunch for Wednesday, week 12/2025" {
		t.Errorf("unexpected second activity: %s", recorder.records[1])
	}
}

func TestHandleUpsertMeal_RequiresContent(t *testing.T) {
	handler, _, _ := newTestHandler()

	body, _ := json.Marshal(UpsertMealRequest{Week: 12, Year: 2025, DayOfWeek: 2, MealSlot: 1})
	req := withUser(httptest.NewRequest(http.MethodPost, "/v1/planner/week/meals", bytes.NewReader(body)), "user-7")
	w := httptest.NewRecorder()
	handler.HandleUpsertMeal(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 without recipe_id or free_note, got %d", w.Code)
	}
}

func TestHandleDeleteMeal_MissingPlan(t *testing.T) {
	handler, _, _ := newTestHandler()

	req := withUser(httptest.NewRequest(http.MethodDelete, "/v1/planner/week/meals?week=12&year=2025&day_of_week=2&meal_slot=1", nil), "user-7")
	w := httptest.NewRecorder()
	handler.HandleDeleteMeal(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for missing plan, got %d. Body: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Error.Code != "plan_not_found" {
		t.Errorf("expected error code plan_not_found, got %s", resp.Error.Code)
	}
}

func TestHandleDeleteMeal_EmptySlotNoOp(t *testing.T) {
	handler, repo, recorder := newTestHandler()

	if _, err := repo.CreateWeekPlan(context.Background(), "user-7", 12, 2025); err != nil {
		t.Fatalf("failed to seed plan: %v", err)
	}

	req := withUser(httptest.NewRequest(http.MethodDelete, "/v1/planner/week/meals?week=12&year=2025&day_of_week=2&meal_slot=1", nil), "user-7")
	w := httptest.NewRecorder()
	handler.HandleDeleteMeal(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 for empty slot delete, got %d. Body: %s", w.Code, w.Body.String())
	}
	if len(recorder.records) != 0 {
		t.Errorf("expected no activity for empty slot delete, got %v", recorder.records)
	}
}

func TestHandleDeleteMeal_ClearsSlot(t *testing.T) {
	handler, _, recorder := newTestHandler()

	note := "soup"
	body, _ := json.Marshal(UpsertMealRequest{Week: 12, Year: 2025, DayOfWeek: 4, MealSlot: 2, FreeNote: &note})
	req := withUser(httptest.NewRequest(http.MethodPost, "/v1/planner/week/meals", bytes.NewReader(body)), "user-7")
	w := httptest.NewRecorder()
	handler.HandleUpsertMeal(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("upsert failed: %d", w.Code)
	}

	req = withUser(httptest.NewRequest(http.MethodDelete, "/v1/planner/week/meals?week=12&year=2025&day_of_week=4&meal_slot=2", nil), "user-7")
	w = httptest.NewRecorder()
	handler.HandleDeleteMeal(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}

	var plan WeekPlanDTO
	if err := json.NewDecoder(w.Body).Decode(&plan); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(plan.Days[4].Meals) != 0 {
		t.Errorf("expected empty slot after delete, got %d meals", len(plan.Days[4].Meals))
	}

	last := recorder.records[len(recorder.records)-1]
	if last != "meal_cleared: Cleared dinner for Friday, week 12/2025" {
		t.Errorf("unexpected activity: %s", last)
	}
}

func TestHandleHistory_Ordering(t *testing.T) {
	handler, repo, _ := newTestHandler()

	ctx := context.Background()
	for _, w := range []struct{ week, year int }{{5, 2024}, {12, 2025}, {3, 2025}} {
		if _, err := repo.CreateWeekPlan(ctx, "user-7", w.week, w.year); err != nil {
			t.Fatalf("failed to seed plan %d/%d: %v", w.week, w.year, err)
		}
	}
	if _, err := repo.CreateWeekPlan(ctx, "someone-else", 1, 2025); err != nil {
		t.Fatalf("failed to seed foreign plan: %v", err)
	}

	req := withUser(httptest.NewRequest(http.MethodGet, "/v1/planner/history", nil), "user-7")
	w := httptest.NewRecorder()
	handler.HandleHistory(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp HistoryResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Plans) != 3 {
		t.Fatalf("expected 3 plans, got %d", len(resp.Plans))
	}
	want := []struct{ week, year int }{{12, 2025}, {3, 2025}, {5, 2024}}
	for i, p := range want {
		if resp.Plans[i].Week != p.week || resp.Plans[i].Year != p.year {
			t.Errorf("plan %d: expected %d/%d, got %d/%d", i, p.week, p.year, resp.Plans[i].Week, resp.Plans[i].Year)
		}
	}
}
