package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fdg312/recipe-hub/internal/storage"
	"github.com/google/uuid"
)

type activitiesStorage struct {
	mu         sync.RWMutex
	activities []storage.Activity
}

func newActivitiesStorage() *activitiesStorage {
	return &activitiesStorage{
		activities: []storage.Activity{},
	}
}

func (s *activitiesStorage) CreateActivity(ctx context.Context, activity *storage.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if activity.ID == uuid.Nil {
		activity.ID = uuid.New()
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now().UTC()
	}

	s.activities = append(s.activities, *activity)
	return nil
}

func (s *activitiesStorage) ListActivities(ctx context.Context, ownerUserID string, limit, offset int) ([]storage.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Новые записи добавляются в конец, отдаём в обратном порядке
	matched := []storage.Activity{}
	for i := len(s.activities) - 1; i >= 0; i-- {
		if s.activities[i].OwnerUserID == ownerUserID {
			matched = append(matched, s.activities[i])
		}
	}

	if offset >= len(matched) {
		return []storage.Activity{}, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}

	return matched, nil
}
