package memory

import (
	"errors"

	"github.com/fdg312/recipe-hub/internal/storage"
)

var (
	ErrNotFound = errors.New("not found")
)

// MemoryStorage — in-memory реализация хранилищ, используется без DATABASE_URL
type MemoryStorage struct {
	weekPlans  *weekPlansStorage
	recipes    *recipesStorage
	activities *activitiesStorage
}

// New создаёт новый MemoryStorage
func New() *MemoryStorage {
	return &MemoryStorage{
		weekPlans:  newWeekPlansStorage(),
		recipes:    newRecipesStorage(),
		activities: newActivitiesStorage(),
	}
}

// GetWeekPlansStorage returns the week plans storage.
func (m *MemoryStorage) GetWeekPlansStorage() storage.WeekPlansStorage {
	return m.weekPlans
}

// GetRecipesStorage returns the recipes storage.
func (m *MemoryStorage) GetRecipesStorage() storage.RecipesStorage {
	return m.recipes
}

// GetActivitiesStorage returns the activities storage.
func (m *MemoryStorage) GetActivitiesStorage() storage.ActivitiesStorage {
	return m.activities
}

func (m *MemoryStorage) Close() error {
	// no-op для memory
	return nil
}
