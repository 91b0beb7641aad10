package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fdg312/recipe-hub/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type weekPlansStorage struct {
	pool *pgxpool.Pool
}

func newWeekPlansStorage(pool *pgxpool.Pool) *weekPlansStorage {
	return &weekPlansStorage{pool: pool}
}

func (s *weekPlansStorage) GetWeekPlan(ctx context.Context, ownerUserID string, week, year int) (storage.WeekPlan, bool, error) {
	const planQuery = `
		SELECT id, owner_user_id, week, year, created_at, updated_at
		FROM week_plans
		WHERE owner_user_id = $1 AND week = $2 AND year = $3
	`

	var plan storage.WeekPlan
	err := s.pool.QueryRow(ctx, planQuery, ownerUserID, week, year).Scan(
		&plan.ID,
		&plan.OwnerUserID,
		&plan.Week,
		&plan.Year,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.WeekPlan{}, false, nil
	}
	if err != nil {
		return storage.WeekPlan{}, false, fmt.Errorf("failed to get week plan: %w", err)
	}

	if err := s.loadDays(ctx, []*storage.WeekPlan{&plan}); err != nil {
		return storage.WeekPlan{}, false, err
	}

	return plan, true, nil
}

func (s *weekPlansStorage) CreateWeekPlan(ctx context.Context, ownerUserID string, week, year int) (storage.WeekPlan, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return storage.WeekPlan{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	const planQuery = `
		INSERT INTO week_plans (id, owner_user_id, week, year, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (owner_user_id, week, year) DO NOTHING
		RETURNING id, owner_user_id, week, year, created_at, updated_at
	`

	now := time.Now().UTC()
	var plan storage.WeekPlan
	err = tx.QueryRow(ctx, planQuery, uuid.New(), ownerUserID, week, year, now).Scan(
		&plan.ID,
		&plan.OwnerUserID,
		&plan.Week,
		&plan.Year,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		// Конкурентный вызов успел первым; его план и дни уже закоммичены.
		plan, found, err := s.GetWeekPlan(ctx, ownerUserID, week, year)
		if err != nil {
			return storage.WeekPlan{}, err
		}
		if !found {
			return storage.WeekPlan{}, fmt.Errorf("week plan conflict for %s %d/%d but plan not found", ownerUserID, week, year)
		}
		return plan, nil
	}
	if err != nil {
		return storage.WeekPlan{}, fmt.Errorf("failed to insert week plan: %w", err)
	}

	const dayQuery = `
		INSERT INTO day_plans (id, week_plan_id, day_of_week)
		VALUES ($1, $2, $3)
		RETURNING id, week_plan_id, day_of_week
	`

	plan.Days = make([]storage.DayPlan, 0, 7)
	for dayOfWeek := 0; dayOfWeek < 7; dayOfWeek++ {
		var day storage.DayPlan
		err := tx.QueryRow(ctx, dayQuery, uuid.New(), plan.ID, dayOfWeek).Scan(
			&day.ID,
			&day.WeekPlanID,
			&day.DayOfWeek,
		)
		if err != nil {
			return storage.WeekPlan{}, fmt.Errorf("failed to insert day plan: %w", err)
		}
		day.Meals = []storage.MealAssignment{}
		plan.Days = append(plan.Days, day)
	}

	if err := tx.Commit(ctx); err != nil {
		return storage.WeekPlan{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return plan, nil
}

func (s *weekPlansStorage) UpsertMeal(ctx context.Context, dayPlanID uuid.UUID, mealSlot int, recipeID *uuid.UUID, freeNote *string) (storage.MealAssignment, error) {
	const query = `
		INSERT INTO meal_assignments (id, day_plan_id, meal_slot, recipe_id, free_note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (day_plan_id, meal_slot)
		DO UPDATE SET
			recipe_id = EXCLUDED.recipe_id,
			free_note = EXCLUDED.free_note,
			updated_at = EXCLUDED.updated_at
		RETURNING id, day_plan_id, meal_slot, recipe_id, free_note, created_at, updated_at
	`

	now := time.Now().UTC()
	var meal storage.MealAssignment
	err := s.pool.QueryRow(ctx, query, uuid.New(), dayPlanID, mealSlot, recipeID, freeNote, now).Scan(
		&meal.ID,
		&meal.DayPlanID,
		&meal.MealSlot,
		&meal.RecipeID,
		&meal.FreeNote,
		&meal.CreatedAt,
		&meal.UpdatedAt,
	)
	if err != nil {
		return storage.MealAssignment{}, fmt.Errorf("failed to upsert meal assignment: %w", err)
	}

	return meal, nil
}

func (s *weekPlansStorage) DeleteMeal(ctx context.Context, dayPlanID uuid.UUID, mealSlot int) (bool, error) {
	const query = `
		DELETE FROM meal_assignments
		WHERE day_plan_id = $1 AND meal_slot = $2
	`

	result, err := s.pool.Exec(ctx, query, dayPlanID, mealSlot)
	if err != nil {
		return false, fmt.Errorf("failed to delete meal assignment: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (s *weekPlansStorage) ListWeekPlans(ctx context.Context, ownerUserID string) ([]storage.WeekPlan, error) {
	const query = `
		SELECT id, owner_user_id, week, year, created_at, updated_at
		FROM week_plans
		WHERE owner_user_id = $1
		ORDER BY year DESC, week DESC
	`

	rows, err := s.pool.Query(ctx, query, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list week plans: %w", err)
	}
	defer rows.Close()

	plans := []storage.WeekPlan{}
	for rows.Next() {
		var plan storage.WeekPlan
		err := rows.Scan(
			&plan.ID,
			&plan.OwnerUserID,
			&plan.Week,
			&plan.Year,
			&plan.CreatedAt,
			&plan.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan week plan: %w", err)
		}
		plans = append(plans, plan)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating week plans: %w", rows.Err())
	}

	refs := make([]*storage.WeekPlan, len(plans))
	for i := range plans {
		refs[i] = &plans[i]
	}
	if err := s.loadDays(ctx, refs); err != nil {
		return nil, err
	}

	return plans, nil
}

// loadDays загружает дни и приёмы пищи для переданных планов
func (s *weekPlansStorage) loadDays(ctx context.Context, plans []*storage.WeekPlan) error {
	if len(plans) == 0 {
		return nil
	}

	planIDs := make([]uuid.UUID, len(plans))
	byPlanID := make(map[uuid.UUID]*storage.WeekPlan, len(plans))
	for i, plan := range plans {
		planIDs[i] = plan.ID
		byPlanID[plan.ID] = plan
		plan.Days = nil
	}

	const daysQuery = `
		SELECT id, week_plan_id, day_of_week
		FROM day_plans
		WHERE week_plan_id = ANY($1)
		ORDER BY day_of_week
	`

	rows, err := s.pool.Query(ctx, daysQuery, planIDs)
	if err != nil {
		return fmt.Errorf("failed to get day plans: %w", err)
	}
	defer rows.Close()

	dayIndex := make(map[uuid.UUID]int) // day id -> index within its plan
	for rows.Next() {
		var day storage.DayPlan
		if err := rows.Scan(&day.ID, &day.WeekPlanID, &day.DayOfWeek); err != nil {
			return fmt.Errorf("failed to scan day plan: %w", err)
		}
		day.Meals = []storage.MealAssignment{}
		plan := byPlanID[day.WeekPlanID]
		plan.Days = append(plan.Days, day)
		dayIndex[day.ID] = len(plan.Days) - 1
	}
	if rows.Err() != nil {
		return fmt.Errorf("error iterating day plans: %w", rows.Err())
	}

	const mealsQuery = `
		SELECT m.id, m.day_plan_id, m.meal_slot, m.recipe_id, m.free_note, m.created_at, m.updated_at
		FROM meal_assignments m
		INNER JOIN day_plans d ON d.id = m.day_plan_id
		WHERE d.week_plan_id = ANY($1)
		ORDER BY m.meal_slot
	`

	mealRows, err := s.pool.Query(ctx, mealsQuery, planIDs)
	if err != nil {
		return fmt.Errorf("failed to get meal assignments: %w", err)
	}
	defer mealRows.Close()

	dayOwner := make(map[uuid.UUID]uuid.UUID) // day id -> plan id
	for _, plan := range plans {
		for _, day := range plan.Days {
			dayOwner[day.ID] = plan.ID
		}
	}

	for mealRows.Next() {
		var meal storage.MealAssignment
		err := mealRows.Scan(
			&meal.ID,
			&meal.DayPlanID,
			&meal.MealSlot,
			&meal.RecipeID,
			&meal.FreeNote,
			&meal.CreatedAt,
			&meal.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to scan meal assignment: %w", err)
		}
		plan := byPlanID[dayOwner[meal.DayPlanID]]
		idx := dayIndex[meal.DayPlanID]
		plan.Days[idx].Meals = append(plan.Days[idx].Meals, meal)
	}
	if mealRows.Err() != nil {
		return fmt.Errorf("error iterating meal assignments: %w", mealRows.Err())
	}

	return nil
}
