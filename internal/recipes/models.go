package recipes

import (
	"fmt"
	"time"
)

type RecipeDTO struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Servings    int             `json:"servings"`
	Ingredients []IngredientDTO `json:"ingredients"`
	Steps       []StepDTO       `json:"steps"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type IngredientDTO struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

type StepDTO struct {
	Position    int    `json:"position"`
	Instruction string `json:"instruction"`
}

type CreateRecipeRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Servings    int               `json:"servings"`
	Ingredients []IngredientInput `json:"ingredients"`
	Steps       []string          `json:"steps"`
}

type IngredientInput struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

type ListRecipesResponse struct {
	Recipes []RecipeDTO `json:"recipes"`
}

func (r *CreateRecipeRequest) Validate() error {
	if len(r.Title) < 1 || len(r.Title) > 200 {
		return fmt.Errorf("title must be between 1 and 200 characters")
	}
	if len(r.Description) > 2000 {
		return fmt.Errorf("description cannot exceed 2000 characters")
	}
	if r.Servings < 0 || r.Servings > 100 {
		return fmt.Errorf("servings must be 0-100")
	}
	if len(r.Ingredients) > 100 {
		return fmt.Errorf("ingredients cannot exceed 100")
	}
	for i, ing := range r.Ingredients {
		if len(ing.Name) < 1 || len(ing.Name) > 200 {
			return fmt.Errorf("ingredient[%d]: name must be 1-200 chars", i)
		}
		if len(ing.Quantity) > 100 {
			return fmt.Errorf("ingredient[%d]: quantity cannot exceed 100 chars", i)
		}
	}
	if len(r.Steps) > 50 {
		return fmt.Errorf("steps cannot exceed 50")
	}
	for i, step := range r.Steps {
		if len(step) < 1 || len(step) > 2000 {
			return fmt.Errorf("step[%d]: instruction must be 1-2000 chars", i)
		}
	}
	return nil
}
