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

type recipesStorage struct {
	pool *pgxpool.Pool
}

func newRecipesStorage(pool *pgxpool.Pool) *recipesStorage {
	return &recipesStorage{pool: pool}
}

func (s *recipesStorage) CreateRecipe(ctx context.Context, recipe *storage.Recipe) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if recipe.ID == uuid.Nil {
		recipe.ID = uuid.New()
	}

	now := time.Now().UTC()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now

	const recipeQuery = `
		INSERT INTO recipes (id, owner_user_id, title, description, servings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = tx.Exec(ctx, recipeQuery,
		recipe.ID,
		recipe.OwnerUserID,
		recipe.Title,
		recipe.Description,
		recipe.Servings,
		recipe.CreatedAt,
		recipe.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert recipe: %w", err)
	}

	const ingredientQuery = `
		INSERT INTO recipe_ingredients (id, recipe_id, position, name, quantity)
		VALUES ($1, $2, $3, $4, $5)
	`

	for i := range recipe.Ingredients {
		ing := &recipe.Ingredients[i]
		if ing.ID == uuid.Nil {
			ing.ID = uuid.New()
		}
		ing.RecipeID = recipe.ID
		ing.Position = i
		if _, err := tx.Exec(ctx, ingredientQuery, ing.ID, ing.RecipeID, ing.Position, ing.Name, ing.Quantity); err != nil {
			return fmt.Errorf("failed to insert recipe ingredient: %w", err)
		}
	}

	const stepQuery = `
		INSERT INTO recipe_steps (id, recipe_id, position, instruction)
		VALUES ($1, $2, $3, $4)
	`

	for i := range recipe.Steps {
		step := &recipe.Steps[i]
		if step.ID == uuid.Nil {
			step.ID = uuid.New()
		}
		step.RecipeID = recipe.ID
		step.Position = i
		if _, err := tx.Exec(ctx, stepQuery, step.ID, step.RecipeID, step.Position, step.Instruction); err != nil {
			return fmt.Errorf("failed to insert recipe step: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *recipesStorage) GetRecipe(ctx context.Context, id uuid.UUID) (*storage.Recipe, error) {
	const recipeQuery = `
		SELECT id, owner_user_id, title, description, servings, created_at, updated_at
		FROM recipes
		WHERE id = $1
	`

	var recipe storage.Recipe
	err := s.pool.QueryRow(ctx, recipeQuery, id).Scan(
		&recipe.ID,
		&recipe.OwnerUserID,
		&recipe.Title,
		&recipe.Description,
		&recipe.Servings,
		&recipe.CreatedAt,
		&recipe.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	const ingredientsQuery = `
		SELECT id, recipe_id, position, name, quantity
		FROM recipe_ingredients
		WHERE recipe_id = $1
		ORDER BY position
	`

	rows, err := s.pool.Query(ctx, ingredientsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe ingredients: %w", err)
	}
	defer rows.Close()

	recipe.Ingredients = []storage.RecipeIngredient{}
	for rows.Next() {
		var ing storage.RecipeIngredient
		if err := rows.Scan(&ing.ID, &ing.RecipeID, &ing.Position, &ing.Name, &ing.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan recipe ingredient: %w", err)
		}
		recipe.Ingredients = append(recipe.Ingredients, ing)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating recipe ingredients: %w", rows.Err())
	}

	const stepsQuery = `
		SELECT id, recipe_id, position, instruction
		FROM recipe_steps
		WHERE recipe_id = $1
		ORDER BY position
	`

	stepRows, err := s.pool.Query(ctx, stepsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe steps: %w", err)
	}
	defer stepRows.Close()

	recipe.Steps = []storage.RecipeStep{}
	for stepRows.Next() {
		var step storage.RecipeStep
		if err := stepRows.Scan(&step.ID, &step.RecipeID, &step.Position, &step.Instruction); err != nil {
			return nil, fmt.Errorf("failed to scan recipe step: %w", err)
		}
		recipe.Steps = append(recipe.Steps, step)
	}
	if stepRows.Err() != nil {
		return nil, fmt.Errorf("error iterating recipe steps: %w", stepRows.Err())
	}

	return &recipe, nil
}

func (s *recipesStorage) ListRecipes(ctx context.Context, ownerUserID string, limit, offset int) ([]storage.Recipe, error) {
	const query = `
		SELECT id, owner_user_id, title, description, servings, created_at, updated_at
		FROM recipes
		WHERE owner_user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.pool.Query(ctx, query, ownerUserID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	recipes := []storage.Recipe{}
	for rows.Next() {
		var recipe storage.Recipe
		err := rows.Scan(
			&recipe.ID,
			&recipe.OwnerUserID,
			&recipe.Title,
			&recipe.Description,
			&recipe.Servings,
			&recipe.CreatedAt,
			&recipe.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}

	return recipes, rows.Err()
}

func (s *recipesStorage) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	// Ингредиенты и шаги удаляются каскадом по FK
	const query = `DELETE FROM recipes WHERE id = $1`

	result, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
