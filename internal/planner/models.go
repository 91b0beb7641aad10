package planner

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type WeekPlanDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Week      int       `json:"week"`
	Year      int       `json:"year"`
	Days      []DayDTO  `json:"days"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DayDTO struct {
	ID        string    `json:"id"`
	DayOfWeek int       `json:"day_of_week"`
	Meals     []MealDTO `json:"meals"`
}

type MealDTO struct {
	ID        string    `json:"id"`
	MealSlot  int       `json:"meal_slot"`
	RecipeID  *string   `json:"recipe_id,omitempty"`
	FreeNote  *string   `json:"free_note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UpsertMealRequest struct {
	Week      int     `json:"week"`
	Year      int     `json:"year"`
	DayOfWeek int     `json:"day_of_week"`
	MealSlot  int     `json:"meal_slot"`
	RecipeID  *string `json:"recipe_id"`
	FreeNote  *string `json:"free_note"`
}

type HistoryResponse struct {
	Plans []WeekPlanDTO `json:"plans"`
}

func (r *UpsertMealRequest) Validate() error {
	if err := validateWeekYear(r.Week, r.Year); err != nil {
		return err
	}
	if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
		return fmt.Errorf("day_of_week must be 0-6")
	}
	if r.MealSlot < 0 || r.MealSlot > 2 {
		return fmt.Errorf("meal_slot must be 0-2")
	}
	if r.RecipeID == nil && r.FreeNote == nil {
		return fmt.Errorf("either recipe_id or free_note is required")
	}
	if r.RecipeID != nil {
		if _, err := uuid.Parse(*r.RecipeID); err != nil {
			return fmt.Errorf("recipe_id must be a valid UUID")
		}
	}
	if r.FreeNote != nil && len(*r.FreeNote) > 500 {
		return fmt.Errorf("free_note cannot exceed 500 characters")
	}
	return nil
}

func validateWeekYear(week, year int) error {
	if week < 1 || week > 53 {
		return fmt.Errorf("week must be 1-53")
	}
	if year < 1000 || year > 9999 {
		return fmt.Errorf("year must be a four-digit year")
	}
	return nil
}

var dayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var slotNames = [3]string{"breakfast", "lunch", "dinner"}

// DayName returns the English weekday name for a 0-based day index (0 = Monday).
func DayName(dayOfWeek int) string {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return fmt.Sprintf("day %d", dayOfWeek)
	}
	return dayNames[dayOfWeek]
}

// SlotName returns the meal slot label (0 = breakfast, 1 = lunch, 2 = dinner).
func SlotName(mealSlot int) string {
	if mealSlot < 0 || mealSlot > 2 {
		return fmt.Sprintf("slot %d", mealSlot)
	}
	return slotNames[mealSlot]
}
