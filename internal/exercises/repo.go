package exercises

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/pkg"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) AddExercise(ctx context.Context, name string) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrExerciseNameRequired
	}

	exercise := Exercise{
		ID:   uuid.NewString(),
		Name: name,
	}
	span.SetAttributes(attribute.String("exercise.id", exercise.ID))

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO exercises (id, name) VALUES ($1, $2) RETURNING created_at;`,
		exercise.ID, exercise.Name,
	).Scan(&exercise.CreatedAt)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrExerciseExists
		}
		return nil, fmt.Errorf("insert exercise: %w", err)
	}

	return &exercise, nil
}

func (r *Repo) ListExercises(ctx context.Context) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT id, name, created_at FROM exercises ORDER BY name ASC;`)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer rows.Close()

	exercises := make([]Exercise, 0)
	for rows.Next() {
		var e Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		exercises = append(exercises, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return exercises, nil
}

// AddToWorkout appends the exercise to the user's workout, after its current last one.
func (r *Repo) AddToWorkout(ctx context.Context, userID, workoutID, exerciseID string) (_ *WorkoutExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.addToWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("workout.id", workoutID),
		attribute.String("exercise.id", exerciseID),
	)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// lock the workout row so concurrent appends get distinct orders
	var ownerID string
	err = tx.QueryRow(
		ctx,
		`SELECT user_id FROM workouts WHERE id = $1 AND user_id = $2 FOR UPDATE;`,
		workoutID, userID,
	).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("select workout: %w", err)
	}

	we := WorkoutExercise{
		ID:         uuid.NewString(),
		WorkoutID:  workoutID,
		ExerciseID: exerciseID,
	}
	err = tx.QueryRow(
		ctx,
		`INSERT INTO workout_exercises (id, workout_id, exercise_id, "order")
			SELECT $1, $2, $3, COALESCE(MAX(we."order") + 1, 0)
			FROM workout_exercises we WHERE we.workout_id = $2
		RETURNING "order";`,
		we.ID, workoutID, exerciseID,
	).Scan(&we.Order)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrExerciseNotFound
		}
		return nil, fmt.Errorf("insert workout exercise: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	span.SetAttributes(attribute.Int("order", we.Order))
	return &we, nil
}

// AddSet logs a set for a workout exercise owned by the user.
func (r *Repo) AddSet(ctx context.Context, userID string, params AddSetParams) (_ *Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.addSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout_exercise.id", params.WorkoutExerciseID))

	if err := params.Validate(); err != nil {
		return nil, err
	}

	set := Set{
		ID:                uuid.NewString(),
		WorkoutExerciseID: params.WorkoutExerciseID,
		Reps:              params.Reps,
		Kilos:             params.Kilos,
	}
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO sets (id, workout_exercise_id, reps, kilos)
			SELECT $1, we.id, $2, $3
			FROM workout_exercises we
				JOIN workouts w ON w.id = we.workout_id
			WHERE we.id = $4 AND we.workout_id = $5 AND w.user_id = $6
		RETURNING created_at;`,
		set.ID, params.Reps, params.Kilos, params.WorkoutExerciseID, params.WorkoutID, userID,
	).Scan(&set.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWorkoutExerciseNotFound
		}
		return nil, fmt.Errorf("insert set: %w", err)
	}

	return &set, nil
}
