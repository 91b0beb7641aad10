package postgres

import (
	"context"
	"errors"

	"github.com/fdg312/recipe-hub/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("not found")
)

// PostgresStorage — Postgres реализация хранилищ приложения
type PostgresStorage struct {
	pool       *pgxpool.Pool
	weekPlans  *weekPlansStorage
	recipes    *recipesStorage
	activities *activitiesStorage
}

// New создаёт PostgresStorage и проверяет соединение
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return &PostgresStorage{
		pool:       pool,
		weekPlans:  newWeekPlansStorage(pool),
		recipes:    newRecipesStorage(pool),
		activities: newActivitiesStorage(pool),
	}, nil
}

// GetWeekPlansStorage returns the week plans storage.
func (p *PostgresStorage) GetWeekPlansStorage() storage.WeekPlansStorage {
	return p.weekPlans
}

// GetRecipesStorage returns the recipes storage.
func (p *PostgresStorage) GetRecipesStorage() storage.RecipesStorage {
	return p.recipes
}

// GetActivitiesStorage returns the activities storage.
func (p *PostgresStorage) GetActivitiesStorage() storage.ActivitiesStorage {
	return p.activities
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}
