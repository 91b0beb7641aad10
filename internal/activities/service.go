package activities

import (
	"context"

	"github.com/fdg312/recipe-hub/internal/storage"
)

// Service handles the activity feed.
type Service struct {
	storage         storage.ActivitiesStorage
	defaultPageSize int
}

// NewService creates a new activities service.
func NewService(storage storage.ActivitiesStorage, defaultPageSize int) *Service {
	if defaultPageSize < 1 {
		defaultPageSize = 50
	}
	return &Service{storage: storage, defaultPageSize: defaultPageSize}
}

// Record appends one activity entry for the user.
func (s *Service) Record(ctx context.Context, ownerUserID, kind, description string) error {
	activity := storage.Activity{
		OwnerUserID: ownerUserID,
		Kind:        kind,
		Description: description,
	}
	return s.storage.CreateActivity(ctx, &activity)
}

// List returns the user's activity entries, newest first.
func (s *Service) List(ctx context.Context, ownerUserID string, limit, offset int) ([]ActivityDTO, error) {
	if limit < 1 || limit > 200 {
		limit = s.defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := s.storage.ListActivities(ctx, ownerUserID, limit, offset)
	if err != nil {
		return nil, err
	}

	dtos := make([]ActivityDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = ActivityDTO{
			ID:          entry.ID.String(),
			Kind:        entry.Kind,
			Description: entry.Description,
			CreatedAt:   entry.CreatedAt,
		}
	}

	return dtos, nil
}
