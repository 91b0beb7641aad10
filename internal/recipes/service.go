package recipes

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/fdg312/recipe-hub/internal/storage"
	"github.com/google/uuid"
)

// ErrRecipeNotFound is returned when a recipe does not exist or belongs to another user.
var ErrRecipeNotFound = errors.New("recipe not found")

// ActivityRecorder records user-facing activity entries.
type ActivityRecorder interface {
	Record(ctx context.Context, ownerUserID, kind, description string) error
}

// Service handles recipes business logic.
type Service struct {
	storage  storage.RecipesStorage
	activity ActivityRecorder
}

// NewService creates a new recipes service.
func NewService(storage storage.RecipesStorage, activity ActivityRecorder) *Service {
	return &Service{storage: storage, activity: activity}
}

// Create stores a new recipe owned by the user.
func (s *Service) Create(ctx context.Context, ownerUserID string, req CreateRecipeRequest) (RecipeDTO, error) {
	if err := req.Validate(); err != nil {
		return RecipeDTO{}, fmt.Errorf("validation failed: %w", err)
	}

	recipe := storage.Recipe{
		OwnerUserID: ownerUserID,
		Title:       req.Title,
		Description: req.Description,
		Servings:    req.Servings,
	}
	for _, ing := range req.Ingredients {
		recipe.Ingredients = append(recipe.Ingredients, storage.RecipeIngredient{
			Name:     ing.Name,
			Quantity: ing.Quantity,
		})
	}
	for _, step := range req.Steps {
		recipe.Steps = append(recipe.Steps, storage.RecipeStep{
			Instruction: step,
		})
	}

	if err := s.storage.CreateRecipe(ctx, &recipe); err != nil {
		return RecipeDTO{}, err
	}

	s.recordActivity(ctx, ownerUserID, "recipe_created", fmt.Sprintf("Created recipe %q", recipe.Title))

	return toRecipeDTO(recipe), nil
}

// Get returns one recipe owned by the user.
func (s *Service) Get(ctx context.Context, ownerUserID string, id string) (RecipeDTO, error) {
	recipeID, err := uuid.Parse(id)
	if err != nil {
		return RecipeDTO{}, fmt.Errorf("validation failed: id must be a valid UUID")
	}

	recipe, err := s.storage.GetRecipe(ctx, recipeID)
	if err != nil {
		return RecipeDTO{}, ErrRecipeNotFound
	}

	// Чужие рецепты не раскрываем
	if recipe.OwnerUserID != ownerUserID {
		return RecipeDTO{}, ErrRecipeNotFound
	}

	return toRecipeDTO(*recipe), nil
}

// List returns the user's recipes, newest first.
func (s *Service) List(ctx context.Context, ownerUserID string, limit, offset int) ([]RecipeDTO, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	recipes, err := s.storage.ListRecipes(ctx, ownerUserID, limit, offset)
	if err != nil {
		return nil, err
	}

	dtos := make([]RecipeDTO, len(recipes))
	for i, recipe := range recipes {
		dtos[i] = toRecipeDTO(recipe)
	}

	return dtos, nil
}

// Delete removes one recipe owned by the user. Meal assignments keep
// referencing the deleted recipe id; the planner treats those as dangling.
func (s *Service) Delete(ctx context.Context, ownerUserID string, id string) error {
	recipeID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("validation failed: id must be a valid UUID")
	}

	recipe, err := s.storage.GetRecipe(ctx, recipeID)
	if err != nil {
		return ErrRecipeNotFound
	}
	if recipe.OwnerUserID != ownerUserID {
		return ErrRecipeNotFound
	}

	if err := s.storage.DeleteRecipe(ctx, recipeID); err != nil {
		return err
	}

	s.recordActivity(ctx, ownerUserID, "recipe_deleted", fmt.Sprintf("Deleted recipe %q", recipe.Title))

	return nil
}

func (s *Service) recordActivity(ctx context.Context, ownerUserID, kind, description string) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Record(ctx, ownerUserID, kind, description); err != nil {
		log.Printf("WARN: failed to record activity %s for user %s: %v", kind, ownerUserID, err)
	}
}

func toRecipeDTO(recipe storage.Recipe) RecipeDTO {
	ingredients := make([]IngredientDTO, len(recipe.Ingredients))
	for i, ing := range recipe.Ingredients {
		ingredients[i] = IngredientDTO{
			Position: ing.Position,
			Name:     ing.Name,
			Quantity: ing.Quantity,
		}
	}

	steps := make([]StepDTO, len(recipe.Steps))
	for i, step := range recipe.Steps {
		steps[i] = StepDTO{
			Position:    step.Position,
			Instruction: step.Instruction,
		}
	}

	return RecipeDTO{
		ID:          recipe.ID.String(),
		UserID:      recipe.OwnerUserID,
		Title:       recipe.Title,
		Description: recipe.Description,
		Servings:    recipe.Servings,
		Ingredients: ingredients,
		Steps:       steps,
		CreatedAt:   recipe.CreatedAt,
		UpdatedAt:   recipe.UpdatedAt,
	}
}
