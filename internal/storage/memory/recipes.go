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

type recipesStorage struct {
	mu      sync.RWMutex
	recipes map[uuid.UUID]*storage.Recipe
}

func newRecipesStorage() *recipesStorage {
	return &recipesStorage{
		recipes: make(map[uuid.UUID]*storage.Recipe),
	}
}

func (s *recipesStorage) CreateRecipe(ctx context.Context, recipe *storage.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if recipe.ID == uuid.Nil {
		recipe.ID = uuid.New()
	}

	now := time.Now().UTC()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now

	for i := range recipe.Ingredients {
		if recipe.Ingredients[i].ID == uuid.Nil {
			recipe.Ingredients[i].ID = uuid.New()
		}
		recipe.Ingredients[i].RecipeID = recipe.ID
		recipe.Ingredients[i].Position = i
	}
	for i := range recipe.Steps {
		if recipe.Steps[i].ID == uuid.Nil {
			recipe.Steps[i].ID = uuid.New()
		}
		recipe.Steps[i].RecipeID = recipe.ID
		recipe.Steps[i].Position = i
	}

	stored := copyRecipe(recipe)
	s.recipes[recipe.ID] = &stored

	return nil
}

func (s *recipesStorage) GetRecipe(ctx context.Context, id uuid.UUID) (*storage.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recipe, ok := s.recipes[id]
	if !ok {
		return nil, fmt.Errorf("recipe %s: %w", id, ErrNotFound)
	}

	out := copyRecipe(recipe)
	return &out, nil
}

func (s *recipesStorage) ListRecipes(ctx context.Context, ownerUserID string, limit, offset int) ([]storage.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := []storage.Recipe{}
	for _, recipe := range s.recipes {
		if recipe.OwnerUserID == ownerUserID {
			all = append(all, copyRecipe(recipe))
		}
	}

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID.String() > all[j].ID.String()
	})

	if offset >= len(all) {
		return []storage.Recipe{}, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}

	return all, nil
}

func (s *recipesStorage) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[id]; !ok {
		return fmt.Errorf("recipe %s: %w", id, ErrNotFound)
	}

	delete(s.recipes, id)
	return nil
}

func copyRecipe(recipe *storage.Recipe) storage.Recipe {
	out := *recipe
	out.Ingredients = make([]storage.RecipeIngredient, len(recipe.Ingredients))
	copy(out.Ingredients, recipe.Ingredients)
	out.Steps = make([]storage.RecipeStep, len(recipe.Steps))
	copy(out.Steps, recipe.Steps)
	return out
}
