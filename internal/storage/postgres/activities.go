package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/fdg312/recipe-hub/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type activitiesStorage struct {
	pool *pgxpool.Pool
}

func newActivitiesStorage(pool *pgxpool.Pool) *activitiesStorage {
	return &activitiesStorage{pool: pool}
}

func (s *activitiesStorage) CreateActivity(ctx context.Context, activity *storage.Activity) error {
	if activity.ID == uuid.Nil {
		activity.ID = uuid.New()
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now().UTC()
	}

	const query = `
		INSERT INTO activities (id, owner_user_id, kind, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query,
		activity.ID,
		activity.OwnerUserID,
		activity.Kind,
		activity.Description,
		activity.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}

	return nil
}

func (s *activitiesStorage) ListActivities(ctx context.Context, ownerUserID string, limit, offset int) ([]storage.Activity, error) {
	const query = `
		SELECT id, owner_user_id, kind, description, created_at
		FROM activities
		WHERE owner_user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.pool.Query(ctx, query, ownerUserID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	activities := []storage.Activity{}
	for rows.Next() {
		var activity storage.Activity
		err := rows.Scan(
			&activity.ID,
			&activity.OwnerUserID,
			&activity.Kind,
			&activity.Description,
			&activity.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, activity)
	}

	return activities, rows.Err()
}
