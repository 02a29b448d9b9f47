package workouts

import (
	"errors"
	"time"
)

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNameRequired      = errors.New("workout name required")
	ErrStartedAtRequired = errors.New("workout start time required")
	ErrInvalidWorkoutID  = errors.New("invalid workout id")
	ErrWorkoutNotFound   = errors.New("workout not found")
	ErrInvalidSetCount   = errors.New("invalid set count")
)

type Workout struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Name        string     `json:"name"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

type CreateParams struct {
	Name      string    `json:"name"`
	StartedAt time.Time `json:"startedAt"`
}

type UpdateParams struct {
	WorkoutID string    `json:"-"`
	Name      string    `json:"name"`
	StartedAt time.Time `json:"startedAt"`
}
