package recipes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fdg312/recipe-hub/internal/storage"
	"github.com/fdg312/recipe-hub/internal/userctx"
	"github.com/google/uuid"
)

type mockRecipesRepo struct {
	recipes map[uuid.UUID]storage.Recipe
}

func newMockRecipesRepo() *mockRecipesRepo {
	return &mockRecipesRepo{recipes: make(map[uuid.UUID]storage.Recipe)}
}

func (m *mockRecipesRepo) CreateRecipe(ctx context.Context, recipe *storage.Recipe) error {
	recipe.ID = uuid.New()
	recipe.CreatedAt = time.Now()
	recipe.UpdatedAt = recipe.CreatedAt
	for i := range recipe.Ingredients {
		recipe.Ingredients[i].Position = i
	}
	for i := range recipe.Steps {
		recipe.Steps[i].Position = i
	}
	m.recipes[recipe.ID] = *recipe
	return nil
}

func (m *mockRecipesRepo) GetRecipe(ctx context.Context, id uuid.UUID) (*storage.Recipe, error) {
	recipe, ok := m.recipes[id]
	if !ok {
		return nil, fmt.Errorf("recipe not found")
	}
	return &recipe, nil
}

func (m *mockRecipesRepo) ListRecipes(ctx context.Context, ownerUserID string, limit, offset int) ([]storage.Recipe, error) {
	result := []storage.Recipe{}
	for _, recipe := range m.recipes {
		if recipe.OwnerUserID == ownerUserID {
			result = append(result, recipe)
		}
	}
	return result, nil
}

func (m *mockRecipesRepo) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.recipes[id]; !ok {
		return fmt.Errorf("recipe not found")
	}
	delete(m.recipes, id)
	return nil
}

func withUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(userctx.WithUserID(req.Context(), userID))
}

func TestHandleCreate_Success(t *testing.T) {
	repo := newMockRecipesRepo()
	handler := NewHandler(NewService(repo, nil))

	reqBody := CreateRecipeRequest{
		Title:       "Borscht",
		Description: "Classic beet soup",
		Servings:    4,
		Ingredients: []IngredientInput{
			{Name: "Beets", Quantity: "3"},
			{Name: "Cabbage", Quantity: "300 g"},
		},
		Steps: []string{"Chop vegetables", "Simmer for an hour"},
	}

	body, _ := json.Marshal(reqBody)
	req := withUser(httptest.NewRequest(http.MethodPost, "/v1/recipes", bytes.NewReader(body)), "user1")
	w := httptest.NewRecorder()
	handler.HandleCreate(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d. Body: %s", w.Code, w.Body.String())
	}

	var recipe RecipeDTO
	if err := json.NewDecoder(w.Body).Decode(&recipe); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if recipe.Title != "Borscht" {
		t.Errorf("expected title 'Borscht', got %q", recipe.Title)
	}
	if len(recipe.Ingredients) != 2 {
		t.Errorf("expected 2 ingredients, got %d", len(recipe.Ingredients))
	}
	if len(recipe.Steps) != 2 {
		t.Errorf("expected 2 steps, got %d", len(recipe.Steps))
	}
	if recipe.Steps[1].Position != 1 {
		t.Errorf("expected step positions assigned in order, got %d", recipe.Steps[1].Position)
	}
}

func TestHandleCreate_EmptyTitle(t *testing.T) {
	repo := newMockRecipesRepo()
	handler := NewHandler(NewService(repo, nil))

	body, _ := json.Marshal(CreateRecipeRequest{Title: ""})
	req := withUser(httptest.NewRequest(http.MethodPost, "/v1/recipes", bytes.NewReader(body)), "user1")
	w := httptest.NewRecorder()
	handler.HandleCreate(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for empty title, got %d", w.Code)
	}
}

func TestHandleGet_OtherUsersRecipeHidden(t *testing.T) {
	repo := newMockRecipesRepo()
	service := NewService(repo, nil)
	handler := NewHandler(service)

	created, err := service.Create(context.Background(), "owner", CreateRecipeRequest{Title: "Secret pie"})
	if err != nil {
		t.Fatalf("failed to seed recipe: %v", err)
	}

	req := withUser(httptest.NewRequest(http.MethodGet, "/v1/recipes/"+created.ID, nil), "intruder")
	req.SetPathValue("id", created.ID)
	w := httptest.NewRecorder()
	handler.HandleGet(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for foreign recipe, got %d", w.Code)
	}
}

func TestHandleDelete_Success(t *testing.T) {
	repo := newMockRecipesRepo()
	service := NewService(repo, nil)
	handler := NewHandler(service)

	created, err := service.Create(context.Background(), "user1", CreateRecipeRequest{Title: "Pancakes"})
	if err != nil {
		t.Fatalf("failed to seed recipe: %v", err)
	}

	req := withUser(httptest.NewRequest(http.MethodDelete, "/v1/recipes/"+created.ID, nil), "user1")
	req.SetPathValue("id", created.ID)
	w := httptest.NewRecorder()
	handler.HandleDelete(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", w.Code)
	}

	req = withUser(httptest.NewRequest(http.MethodGet, "/v1/recipes/"+created.ID, nil), "user1")
	req.SetPathValue("id", created.ID)
	w = httptest.NewRecorder()
	handler.HandleGet(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 after delete, got %d", w.Code)
	}
}

func TestHandleGet_InvalidID(t *testing.T) {
	repo := newMockRecipesRepo()
	handler := NewHandler(NewService(repo, nil))

	req := withUser(httptest.NewRequest(http.MethodGet, "/v1/recipes/not-a-uuid", nil), "user1")
	req.SetPathValue("id", "not-a-uuid")
	w := httptest.NewRecorder()
	handler.HandleGet(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for malformed id, got %d", w.Code)
	}
}
