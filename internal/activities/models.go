package activities

import "time"

type ActivityDTO struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type ListActivitiesResponse struct {
	Activities []ActivityDTO `json:"activities"`
}
