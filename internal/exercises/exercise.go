package exercises

import (
	"errors"
	"time"
)

var (
	ErrExerciseExists          = errors.New("exercise already exists")
	ErrExerciseNotFound        = errors.New("exercise not found")
	ErrExerciseNameRequired    = errors.New("exercise name required")
	ErrWorkoutNotFound         = errors.New("workout not found")
	ErrWorkoutExerciseNotFound = errors.New("workout exercise not found")
	ErrInvalidReps             = errors.New("reps must be positive")
	ErrInvalidKilos            = errors.New("kilos must not be negative")
)

type Exercise struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// WorkoutExercise links an exercise to a workout at a position.
type WorkoutExercise struct {
	ID         string `json:"id"`
	WorkoutID  string `json:"workoutId"`
	ExerciseID string `json:"exerciseId"`
	Order      int    `json:"order"`
}

type Set struct {
	ID                string    `json:"id"`
	WorkoutExerciseID string    `json:"workoutExerciseId"`
	Reps              int       `json:"reps"`
	Kilos             int       `json:"kilos"`
	CreatedAt         time.Time `json:"createdAt"`
}

type AddSetParams struct {
	WorkoutID         string `json:"-"`
	WorkoutExerciseID string `json:"-"`
	Reps              int    `json:"reps"`
	Kilos             int    `json:"kilos"`
}

func (p AddSetParams) Validate() error {
	if p.Reps <= 0 {
		return ErrInvalidReps
	}
	if p.Kilos < 0 {
		return ErrInvalidKilos
	}
	return nil
}
