package workouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/liftlog/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

const summaryRowsQuery = `
	SELECT
		w.id, w.name, w.started_at, w.completed_at,
		e.name, we."order", we.id,
		COUNT(s.id)
	FROM workouts w
		LEFT JOIN workout_exercises we ON we.workout_id = w.id
		LEFT JOIN exercises e ON e.id = we.exercise_id
		LEFT JOIN sets s ON s.workout_exercise_id = we.id
	WHERE w.user_id = $1
		AND w.started_at >= $2
		AND w.started_at < $3
	GROUP BY w.id, w.name, w.started_at, w.completed_at, e.name, we."order", we.id
	ORDER BY w.started_at ASC, w.id ASC, we."order" ASC, e.name ASC;`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// SummaryRows returns one row per (workout, exercise association) for the user's
// workouts started in [from, to), with the association's set count.
func (r *Repo) SummaryRows(ctx context.Context, userID string, from, to time.Time) (_ []SummaryRow, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.summaryRows")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("from", from.Format(time.RFC3339)),
		attribute.String("to", to.Format(time.RFC3339)),
	)

	rows, err := r.db.Query(ctx, summaryRowsQuery, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query summary rows: %w", err)
	}
	defer rows.Close()

	var summaryRows []SummaryRow
	for rows.Next() {
		var row SummaryRow
		if err := rows.Scan(
			&row.WorkoutID,
			&row.WorkoutName,
			&row.StartedAt,
			&row.CompletedAt,
			&row.ExerciseName,
			&row.ExerciseOrder,
			&row.WorkoutExerciseID,
			&row.SetCount,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if row.SetCount < 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidSetCount, row.SetCount)
		}
		summaryRows = append(summaryRows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	span.SetAttributes(attribute.Int("rows", len(summaryRows)))
	return summaryRows, nil
}

func (r *Repo) Add(ctx context.Context, userID string, params CreateParams) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	workout := Workout{
		ID:     uuid.NewString(),
		UserID: userID,
	}
	span.SetAttributes(attribute.String("workout.id", workout.ID))

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO workouts (id, user_id, name, started_at)
			VALUES ($1, $2, $3, $4)
		RETURNING name, started_at, completed_at;`,
		workout.ID, userID, params.Name, params.StartedAt,
	).Scan(&workout.Name, &workout.StartedAt, &workout.CompletedAt)
	if err != nil {
		return nil, fmt.Errorf("insert workout: %w", err)
	}

	return &workout, nil
}

func (r *Repo) Update(ctx context.Context, userID string, params UpdateParams) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", params.WorkoutID))

	workout := Workout{
		ID:     params.WorkoutID,
		UserID: userID,
	}
	err = r.db.QueryRow(
		ctx,
		`UPDATE workouts SET name = $1, started_at = $2
			WHERE id = $3 AND user_id = $4
		RETURNING name, started_at, completed_at;`,
		params.Name, params.StartedAt, params.WorkoutID, userID,
	).Scan(&workout.Name, &workout.StartedAt, &workout.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("update workout: %w", err)
	}

	return &workout, nil
}

func (r *Repo) Get(ctx context.Context, userID, workoutID string) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", workoutID))

	workout := Workout{
		ID:     workoutID,
		UserID: userID,
	}
	err = r.db.QueryRow(
		ctx,
		`SELECT name, started_at, completed_at FROM workouts WHERE id = $1 AND user_id = $2;`,
		workoutID, userID,
	).Scan(&workout.Name, &workout.StartedAt, &workout.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("select workout: %w", err)
	}

	return &workout, nil
}

func (r *Repo) SetCompleted(ctx context.Context, userID, workoutID string, completedAt time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.setCompleted")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", workoutID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE workouts SET completed_at = $1 WHERE id = $2 AND user_id = $3;`,
		completedAt, workoutID, userID,
	)
	if err != nil {
		return fmt.Errorf("complete workout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, userID, workoutID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", workoutID))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM workouts WHERE id = $1 AND user_id = $2;`,
		workoutID, userID,
	)
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}
