package reports

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/recipe-hub/internal/planner"
	"github.com/fdg312/recipe-hub/internal/storage"
	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
)

// ErrPlanNotFound is returned when the requested week plan does not exist.
var ErrPlanNotFound = errors.New("week plan not found")

// RecipesStorage interface for generator
type RecipesStorage interface {
	GetRecipe(ctx context.Context, id uuid.UUID) (*storage.Recipe, error)
}

// Generator renders a week plan as a PDF document.
type Generator struct {
	weekPlans storage.WeekPlansStorage
	recipes   RecipesStorage
}

// NewGenerator creates a new report generator.
func NewGenerator(weekPlans storage.WeekPlansStorage, recipes RecipesStorage) *Generator {
	return &Generator{weekPlans: weekPlans, recipes: recipes}
}

// GenerateWeekPDF renders the week plan for (week, year) as a PDF.
// Returns ErrPlanNotFound when the plan does not exist; export never creates one.
func (g *Generator) GenerateWeekPDF(ctx context.Context, ownerUserID string, week, year int) ([]byte, error) {
	plan, found, err := g.weekPlans.GetWeekPlan(ctx, ownerUserID, week, year)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrPlanNotFound
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Meal plan for week %d/%d", week, year))
	pdf.Ln(12)

	for _, day := range plan.Days {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, planner.DayName(day.DayOfWeek))
		pdf.Ln(7)

		pdf.SetFont("Helvetica", "", 10)
		if len(day.Meals) == 0 {
			pdf.Cell(0, 6, "  no meals planned")
			pdf.Ln(6)
			continue
		}

		for _, meal := range day.Meals {
			label := fmt.Sprintf("  %s: %s", planner.SlotName(meal.MealSlot), g.mealText(ctx, meal))
			pdf.Cell(0, 6, label)
			pdf.Ln(5)
		}
		pdf.Ln(2)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}

func (g *Generator) mealText(ctx context.Context, meal storage.MealAssignment) string {
	if meal.RecipeID != nil {
		recipe, err := g.recipes.GetRecipe(ctx, *meal.RecipeID)
		if err != nil {
			// Рецепт мог быть удалён после планирования
			return fmt.Sprintf("recipe %s", meal.RecipeID)
		}
		return recipe.Title
	}
	if meal.FreeNote != nil {
		return *meal.FreeNote
	}
	return ""
}
