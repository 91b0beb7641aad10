package planner

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/fdg312/recipe-hub/internal/storage"
	"github.com/google/uuid"
)

// ErrPlanNotFound is returned when an operation targets a week plan that does not exist.
var ErrPlanNotFound = errors.New("week plan not found")

// ActivityRecorder records user-facing activity entries.
type ActivityRecorder interface {
	Record(ctx context.Context, ownerUserID, kind, description string) error
}

// Service handles weekly planner business logic.
type Service struct {
	storage  storage.WeekPlansStorage
	activity ActivityRecorder
}

// NewService creates a new planner service.
func NewService(storage storage.WeekPlansStorage, activity ActivityRecorder) *Service {
	return &Service{storage: storage, activity: activity}
}

// GetOrCreate returns the week plan for (week, year), creating an empty one if needed.
func (s *Service) GetOrCreate(ctx context.Context, ownerUserID string, week, year int) (WeekPlanDTO, error) {
	if err := validateWeekYear(week, year); err != nil {
		return WeekPlanDTO{}, fmt.Errorf("validation failed: %w", err)
	}

	plan, found, err := s.storage.GetWeekPlan(ctx, ownerUserID, week, year)
	if err != nil {
		return WeekPlanDTO{}, err
	}
	if !found {
		plan, err = s.storage.CreateWeekPlan(ctx, ownerUserID, week, year)
		if err != nil {
			return WeekPlanDTO{}, err
		}
	}

	return toWeekPlanDTO(plan), nil
}

// UpsertMeal sets or replaces the meal assignment in one slot of one day.
// The week plan is created lazily when it does not exist yet.
func (s *Service) UpsertMeal(ctx context.Context, ownerUserID string, req UpsertMealRequest) (WeekPlanDTO, error) {
	if err := req.Validate(); err != nil {
		return WeekPlanDTO{}, fmt.Errorf("validation failed: %w", err)
	}

	plan, found, err := s.storage.GetWeekPlan(ctx, ownerUserID, req.Week, req.Year)
	if err != nil {
		return WeekPlanDTO{}, err
	}
	if !found {
		plan, err = s.storage.CreateWeekPlan(ctx, ownerUserID, req.Week, req.Year)
		if err != nil {
			return WeekPlanDTO{}, err
		}
	}

	day, err := findDay(plan, req.DayOfWeek)
	if err != nil {
		return WeekPlanDTO{}, err
	}

	existed := slotOccupied(day, req.MealSlot)

	var recipeID *uuid.UUID
	if req.RecipeID != nil {
		id, err := uuid.Parse(*req.RecipeID)
		if err != nil {
			return WeekPlanDTO{}, fmt.Errorf("validation failed: recipe_id must be a valid UUID")
		}
		recipeID = &id
	}

	if _, err := s.storage.UpsertMeal(ctx, day.ID, req.MealSlot, recipeID, req.FreeNote); err != nil {
		return WeekPlanDTO{}, err
	}

	updated, found, err := s.storage.GetWeekPlan(ctx, ownerUserID, req.Week, req.Year)
	if err != nil {
		return WeekPlanDTO{}, err
	}
	if !found {
		return WeekPlanDTO{}, fmt.Errorf("week plan disappeared after upsert for %s %d/%d", ownerUserID, req.Week, req.Year)
	}

	kind := "meal_planned"
	verb := "Planned"
	if existed {
		kind = "meal_changed"
		verb = "Changed"
	}
	s.recordActivity(ctx, ownerUserID, kind, fmt.Sprintf("%s %s for %s, week %d/%d",
		verb, SlotName(req.MealSlot), DayName(req.DayOfWeek), req.Week, req.Year))

	return toWeekPlanDTO(updated), nil
}

// DeleteMeal clears one slot of one day. Deleting from an empty slot is a no-op.
// Returns ErrPlanNotFound when the week plan does not exist.
func (s *Service) DeleteMeal(ctx context.Context, ownerUserID string, week, year, dayOfWeek, mealSlot int) (WeekPlanDTO, error) {
	if err := validateWeekYear(week, year); err != nil {
		return WeekPlanDTO{}, fmt.Errorf("validation failed: %w", err)
	}
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return WeekPlanDTO{}, fmt.Errorf("validation failed: day_of_week must be 0-6")
	}
	if mealSlot < 0 || mealSlot > 2 {
		return WeekPlanDTO{}, fmt.Errorf("validation failed: meal_slot must be 0-2")
	}

	plan, found, err := s.storage.GetWeekPlan(ctx, ownerUserID, week, year)
	if err != nil {
		return WeekPlanDTO{}, err
	}
	if !found {
		return WeekPlanDTO{}, ErrPlanNotFound
	}

	day, err := findDay(plan, dayOfWeek)
	if err != nil {
		return WeekPlanDTO{}, err
	}

	deleted, err := s.storage.DeleteMeal(ctx, day.ID, mealSlot)
	if err != nil {
		return WeekPlanDTO{}, err
	}

	if deleted {
		updated, found, err := s.storage.GetWeekPlan(ctx, ownerUserID, week, year)
		if err != nil {
			return WeekPlanDTO{}, err
		}
		if !found {
			return WeekPlanDTO{}, fmt.Errorf("week plan disappeared after delete for %s %d/%d", ownerUserID, week, year)
		}
		plan = updated

		s.recordActivity(ctx, ownerUserID, "meal_cleared", fmt.Sprintf("Cleared %s for %s, week %d/%d",
			SlotName(mealSlot), DayName(dayOfWeek), week, year))
	}

	return toWeekPlanDTO(plan), nil
}

// History returns all week plans of the user, newest (year, week) first.
func (s *Service) History(ctx context.Context, ownerUserID string) ([]WeekPlanDTO, error) {
	plans, err := s.storage.ListWeekPlans(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}

	dtos := make([]WeekPlanDTO, len(plans))
	for i, plan := range plans {
		dtos[i] = toWeekPlanDTO(plan)
	}

	return dtos, nil
}

func (s *Service) recordActivity(ctx context.Context, ownerUserID, kind, description string) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Record(ctx, ownerUserID, kind, description); err != nil {
		log.Printf("WARN: failed to record activity %s for user %s: %v", kind, ownerUserID, err)
	}
}

func findDay(plan storage.WeekPlan, dayOfWeek int) (storage.DayPlan, error) {
	for _, day := range plan.Days {
		if day.DayOfWeek == dayOfWeek {
			return day, nil
		}
	}
	return storage.DayPlan{}, fmt.Errorf("week plan %s has no day %d", plan.ID, dayOfWeek)
}

func slotOccupied(day storage.DayPlan, mealSlot int) bool {
	for _, meal := range day.Meals {
		if meal.MealSlot == mealSlot {
			return true
		}
	}
	return false
}

func toWeekPlanDTO(plan storage.WeekPlan) WeekPlanDTO {
	days := make([]DayDTO, len(plan.Days))
	for i, day := range plan.Days {
		meals := make([]MealDTO, len(day.Meals))
		for j, meal := range day.Meals {
			var recipeID *string
			if meal.RecipeID != nil {
				id := meal.RecipeID.String()
				recipeID = &id
			}
			meals[j] = MealDTO{
				ID:        meal.ID.String(),
				MealSlot:  meal.MealSlot,
				RecipeID:  recipeID,
				FreeNote:  meal.FreeNote,
				CreatedAt: meal.CreatedAt,
				UpdatedAt: meal.UpdatedAt,
			}
		}
		days[i] = DayDTO{
			ID:        day.ID.String(),
			DayOfWeek: day.DayOfWeek,
			Meals:     meals,
		}
	}

	return WeekPlanDTO{
		ID:        plan.ID.String(),
		UserID:    plan.OwnerUserID,
		Week:      plan.Week,
		Year:      plan.Year,
		Days:      days,
		CreatedAt: plan.CreatedAt,
		UpdatedAt: plan.UpdatedAt,
	}
}
