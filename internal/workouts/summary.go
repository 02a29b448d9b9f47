package workouts

import "time"

// SummaryRow is one (workout, exercise association) row of the day query.
// Exercise fields are nil for a workout without exercises; an empty name is
// treated the same way.
type SummaryRow struct {
	WorkoutID         string
	WorkoutName       string
	StartedAt         time.Time
	CompletedAt       *time.Time
	ExerciseName      *string
	ExerciseOrder     *int
	WorkoutExerciseID *string
	SetCount          int64
}

type ExerciseSummary struct {
	Name     string `json:"name"`
	SetCount int    `json:"setCount"`
}

type Summary struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	StartedAt   time.Time         `json:"startedAt"`
	CompletedAt *time.Time        `json:"completedAt"`
	Exercises   []ExerciseSummary `json:"exercises"`
}

// Summarize groups rows by workout id in first-seen order. Rows are expected
// in query order, so workouts come out by start time and exercises by order.
func Summarize(rows []SummaryRow) []Summary {
	summaries := make([]Summary, 0)
	index := make(map[string]int)

	for _, row := range rows {
		i, seen := index[row.WorkoutID]
		if !seen {
			i = len(summaries)
			index[row.WorkoutID] = i
			summaries = append(summaries, Summary{
				ID:          row.WorkoutID,
				Name:        row.WorkoutName,
				StartedAt:   row.StartedAt,
				CompletedAt: row.CompletedAt,
				Exercises:   make([]ExerciseSummary, 0),
			})
		}

		if row.ExerciseName == nil || *row.ExerciseName == "" {
			continue
		}
		summaries[i].Exercises = append(summaries[i].Exercises, ExerciseSummary{
			Name:     *row.ExerciseName,
			SetCount: int(row.SetCount),
		})
	}

	return summaries
}
