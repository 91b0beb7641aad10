package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestCreateWeekPlanSevenDays(t *testing.T) {
	store := newWeekPlansStorage()

	plan, err := store.CreateWeekPlan(context.Background(), "user-1", 12, 2025)
	if err != nil {
		t.Fatalf("CreateWeekPlan failed: %v", err)
	}

	if len(plan.Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(plan.Days))
	}
	for i, day := range plan.Days {
		if day.DayOfWeek != i {
			t.Errorf("day %d: expected dayOfWeek %d, got %d", i, i, day.DayOfWeek)
		}
		if len(day.Meals) != 0 {
			t.Errorf("day %d: expected no meals, got %d", i, len(day.Meals))
		}
	}
}

func TestCreateWeekPlanIdempotent(t *testing.T) {
	store := newWeekPlansStorage()

	first, err := store.CreateWeekPlan(context.Background(), "user-1", 12, 2025)
	if err != nil {
		t.Fatalf("first CreateWeekPlan failed: %v", err)
	}

	second, err := store.CreateWeekPlan(context.Background(), "user-1", 12, 2025)
	if err != nil {
		t.Fatalf("second CreateWeekPlan failed: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("expected same plan id, got %s and %s", first.ID, second.ID)
	}
}

func TestUpsertMealReplacesSlot(t *testing.T) {
	store := newWeekPlansStorage()
	ctx := context.Background()

	plan, err := store.CreateWeekPlan(ctx, "user-1", 12, 2025)
	if err != nil {
		t.Fatalf("CreateWeekPlan failed: %v", err)
	}

	dayID := plan.Days[2].ID
	recipeID := uuid.New()

	first, err := store.UpsertMeal(ctx, dayID, 1, &recipeID, nil)
	if err != nil {
		t.Fatalf("first UpsertMeal failed: %v", err)
	}
	if first.RecipeID == nil || *first.RecipeID != recipeID {
		t.Errorf("expected recipe id %s, got %v", recipeID, first.RecipeID)
	}

	note := "leftovers"
	second, err := store.UpsertMeal(ctx, dayID, 1, nil, &note)
	if err != nil {
		t.Fatalf("second UpsertMeal failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected replacement to keep assignment id %s, got %s", first.ID, second.ID)
	}
	if second.RecipeID != nil {
		t.Errorf("expected recipe id cleared, got %v", second.RecipeID)
	}
	if second.FreeNote == nil || *second.FreeNote != note {
		t.Errorf("expected free note %q, got %v", note, second.FreeNote)
	}

	got, found, err := store.GetWeekPlan(ctx, "user-1", 12, 2025)
	if err != nil || !found {
		t.Fatalf("GetWeekPlan failed: found=%v err=%v", found, err)
	}
	if len(got.Days[2].Meals) != 1 {
		t.Fatalf("expected one meal in slot, got %d", len(got.Days[2].Meals))
	}
}

func TestDeleteMealEmptySlot(t *testing.T) {
	store := newWeekPlansStorage()
	ctx := context.Background()

	plan, err := store.CreateWeekPlan(ctx, "user-1", 12, 2025)
	if err != nil {
		t.Fatalf("CreateWeekPlan failed: %v", err)
	}

	deleted, err := store.DeleteMeal(ctx, plan.Days[0].ID, 0)
	if err != nil {
		t.Fatalf("DeleteMeal failed: %v", err)
	}
	if deleted {
		t.Error("expected no deletion for empty slot")
	}
}

func TestListWeekPlansOrdering(t *testing.T) {
	store := newWeekPlansStorage()
	ctx := context.Background()

	weeks := []struct{ week, year int }{
		{5, 2024},
		{12, 2025},
		{3, 2025},
		{50, 2024},
	}
	for _, w := range weeks {
		if _, err := store.CreateWeekPlan(ctx, "user-1", w.week, w.year); err != nil {
			t.Fatalf("CreateWeekPlan %d/%d failed: %v", w.week, w.year, err)
		}
	}
	if _, err := store.CreateWeekPlan(ctx, "user-2", 1, 2025); err != nil {
		t.Fatalf("CreateWeekPlan for other user failed: %v", err)
	}

	plans, err := store.ListWeekPlans(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListWeekPlans failed: %v", err)
	}

	if len(plans) != 4 {
		t.Fatalf("expected 4 plans, got %d", len(plans))
	}

	want := []struct{ week, year int }{
		{12, 2025},
		{3, 2025},
		{50, 2024},
		{5, 2024},
	}
	for i, w := range want {
		if plans[i].Week != w.week || plans[i].Year != w.year {
			t.Errorf("plan %d: expected %d/%d, got %d/%d", i, w.week, w.year, plans[i].Week, plans[i].Year)
		}
	}
}
