package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/recipe-hub/internal/storage"
	"github.com/google/uuid"
)

type weekPlanKey struct {
	ownerUserID string
	week        int
	year        int
}

type weekPlansStorage struct {
	mu    sync.RWMutex
	plans map[weekPlanKey]*storage.WeekPlan
	days  map[uuid.UUID]weekPlanKey // day plan id -> владелец
}

func newWeekPlansStorage() *weekPlansStorage {
	return &weekPlansStorage{
		plans: make(map[weekPlanKey]*storage.WeekPlan),
		days:  make(map[uuid.UUID]weekPlanKey),
	}
}

func (s *weekPlansStorage) GetWeekPlan(ctx context.Context, ownerUserID string, week, year int) (storage.WeekPlan, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.plans[weekPlanKey{ownerUserID, week, year}]
	if !ok {
		return storage.WeekPlan{}, false, nil
	}

	return copyPlan(plan), true, nil
}

func (s *weekPlansStorage) CreateWeekPlan(ctx context.Context, ownerUserID string, week, year int) (storage.WeekPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := weekPlanKey{ownerUserID, week, year}
	if existing, ok := s.plans[key]; ok {
		// Аналог ON CONFLICT DO NOTHING: возвращаем победителя гонки
		return copyPlan(existing), nil
	}

	now := time.Now().UTC()
	plan := &storage.WeekPlan{
		ID:          uuid.New(),
		OwnerUserID: ownerUserID,
		Week:        week,
		Year:        year,
		Days:        make([]storage.DayPlan, 0, 7),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for dayOfWeek := 0; dayOfWeek < 7; dayOfWeek++ {
		day := storage.DayPlan{
			ID:         uuid.New(),
			WeekPlanID: plan.ID,
			DayOfWeek:  dayOfWeek,
			Meals:      []storage.MealAssignment{},
		}
		plan.Days = append(plan.Days, day)
		s.days[day.ID] = key
	}

	s.plans[key] = plan

	return copyPlan(plan), nil
}

func (s *weekPlansStorage) UpsertMeal(ctx context.Context, dayPlanID uuid.UUID, mealSlot int, recipeID *uuid.UUID, freeNote *string) (storage.MealAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day, err := s.findDay(dayPlanID)
	if err != nil {
		return storage.MealAssignment{}, err
	}

	now := time.Now().UTC()
	for i := range day.Meals {
		if day.Meals[i].MealSlot == mealSlot {
			day.Meals[i].RecipeID = copyUUID(recipeID)
			day.Meals[i].FreeNote = copyString(freeNote)
			day.Meals[i].UpdatedAt = now
			return day.Meals[i], nil
		}
	}

	meal := storage.MealAssignment{
		ID:        uuid.New(),
		DayPlanID: dayPlanID,
		MealSlot:  mealSlot,
		RecipeID:  copyUUID(recipeID),
		FreeNote:  copyString(freeNote),
		CreatedAt: now,
		UpdatedAt: now,
	}
	day.Meals = append(day.Meals, meal)
	sort.Slice(day.Meals, func(i, j int) bool { return day.Meals[i].MealSlot < day.Meals[j].MealSlot })

	return meal, nil
}

func (s *weekPlansStorage) DeleteMeal(ctx context.Context, dayPlanID uuid.UUID, mealSlot int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day, err := s.findDay(dayPlanID)
	if err != nil {
		return false, err
	}

	for i := range day.Meals {
		if day.Meals[i].MealSlot == mealSlot {
			day.Meals = append(day.Meals[:i], day.Meals[i+1:]...)
			return true, nil
		}
	}

	return false, nil
}

func (s *weekPlansStorage) ListWeekPlans(ctx context.Context, ownerUserID string) ([]storage.WeekPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plans := []storage.WeekPlan{}
	for key, plan := range s.plans {
		if key.ownerUserID == ownerUserID {
			plans = append(plans, copyPlan(plan))
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

// findDay возвращает указатель на день внутри хранимого плана (вызывать под mu)
func (s *weekPlansStorage) findDay(dayPlanID uuid.UUID) (*storage.DayPlan, error) {
	key, ok := s.days[dayPlanID]
	if !ok {
		return nil, fmt.Errorf("day plan %s: %w", dayPlanID, ErrNotFound)
	}

	plan := s.plans[key]
	for i := range plan.Days {
		if plan.Days[i].ID == dayPlanID {
			plan.UpdatedAt = time.Now().UTC()
			return &plan.Days[i], nil
		}
	}

	return nil, fmt.Errorf("day plan %s: %w", dayPlanID, ErrNotFound)
}

func copyPlan(plan *storage.WeekPlan) storage.WeekPlan {
	out := *plan
	out.Days = make([]storage.DayPlan, len(plan.Days))
	for i, day := range plan.Days {
		copied := day
		copied.Meals = make([]storage.MealAssignment, len(day.Meals))
		for j, meal := range day.Meals {
			m := meal
			m.RecipeID = copyUUID(meal.RecipeID)
			m.FreeNote = copyString(meal.FreeNote)
			copied.Meals[j] = m
		}
		out.Days[i] = copied
	}
	return out
}

func copyUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
