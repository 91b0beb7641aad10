package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Storage — общий интерфейс хранилища (Memory или Postgres)
type Storage interface {
	// Close закрывает соединение (для Postgres)
	Close() error
}

// WeekPlan — недельный план питания пользователя, корневой агрегат планировщика.
// Всегда содержит ровно 7 дней (day_of_week 0..6, 0 = понедельник).
type WeekPlan struct {
	ID          uuid.UUID
	OwnerUserID string
	Week        int // 1..53
	Year        int
	Days        []DayPlan // отсортированы по DayOfWeek
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DayPlan — один день недельного плана
type DayPlan struct {
	ID         uuid.UUID
	WeekPlanID uuid.UUID
	DayOfWeek  int // 0 = понедельник .. 6 = воскресенье
	Meals      []MealAssignment
}

// MealAssignment — рецепт или заметка на один приём пищи.
// RecipeID — мягкая ссылка: существование рецепта не проверяется, каскада нет.
type MealAssignment struct {
	ID        uuid.UUID
	DayPlanID uuid.UUID
	MealSlot  int // 0 = завтрак, 1 = обед, 2 = ужин
	RecipeID  *uuid.UUID
	FreeNote  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WeekPlansStorage — интерфейс для работы с недельными планами
type WeekPlansStorage interface {
	// GetWeekPlan возвращает план с полным деревом дней/приёмов пищи,
	// found=false если плана нет (отсутствие — нормальный исход, не ошибка)
	GetWeekPlan(ctx context.Context, ownerUserID string, week, year int) (WeekPlan, bool, error)

	// CreateWeekPlan создаёт план вместе с 7 днями в одной транзакции.
	// При конфликте unique(owner_user_id, week, year) возвращает существующий план.
	CreateWeekPlan(ctx context.Context, ownerUserID string, week, year int) (WeekPlan, error)

	// UpsertMeal вставляет/заменяет приём пищи по unique(day_plan_id, meal_slot)
	UpsertMeal(ctx context.Context, dayPlanID uuid.UUID, mealSlot int, recipeID *uuid.UUID, freeNote *string) (MealAssignment, error)

	// DeleteMeal удаляет приём пищи; removed=false если слот был пуст (не ошибка)
	DeleteMeal(ctx context.Context, dayPlanID uuid.UUID, mealSlot int) (bool, error)

	// ListWeekPlans возвращает все планы пользователя с полными деревьями,
	// отсортированные по (year, week) по убыванию
	ListWeekPlans(ctx context.Context, ownerUserID string) ([]WeekPlan, error)
}

// Recipe — рецепт с ингредиентами и шагами
type Recipe struct {
	ID          uuid.UUID
	OwnerUserID string
	Title       string
	Description string
	Servings    int
	Ingredients []RecipeIngredient
	Steps       []RecipeStep
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecipeIngredient — ингредиент рецепта
type RecipeIngredient struct {
	ID       uuid.UUID
	RecipeID uuid.UUID
	Position int
	Name     string
	Quantity string // свободный текст: "200 g", "2 tbsp"
}

// RecipeStep — шаг приготовления
type RecipeStep struct {
	ID          uuid.UUID
	RecipeID    uuid.UUID
	Position    int
	Instruction string
}

// RecipesStorage — интерфейс для работы с рецептами
type RecipesStorage interface {
	// CreateRecipe создаёт рецепт вместе с ингредиентами и шагами
	CreateRecipe(ctx context.Context, recipe *Recipe) error

	// GetRecipe возвращает рецепт с ингредиентами и шагами
	GetRecipe(ctx context.Context, id uuid.UUID) (*Recipe, error)

	// ListRecipes возвращает рецепты пользователя (без ингредиентов/шагов)
	ListRecipes(ctx context.Context, ownerUserID string, limit, offset int) ([]Recipe, error)

	// DeleteRecipe удаляет рецепт и его дочерние записи
	DeleteRecipe(ctx context.Context, id uuid.UUID) error
}

// Activity — запись журнала действий пользователя
type Activity struct {
	ID          uuid.UUID
	OwnerUserID string
	Kind        string // meal_planned, meal_changed, meal_cleared, recipe_created, recipe_deleted
	Description string
	CreatedAt   time.Time
}

// ActivitiesStorage — интерфейс для журнала действий
type ActivitiesStorage interface {
	// CreateActivity добавляет запись в журнал
	CreateActivity(ctx context.Context, activity *Activity) error

	// ListActivities возвращает записи пользователя, новые первыми
	ListActivities(ctx context.Context, ownerUserID string, limit, offset int) ([]Activity, error)
}
