package workouts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/liftlog/internal/telemetry/metrics"
	"github.com/2beens/liftlog/internal/telemetry/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=workouts

type workoutsRepo interface {
	SummaryRows(ctx context.Context, userID string, from, to time.Time) ([]SummaryRow, error)
	Add(ctx context.Context, userID string, params CreateParams) (*Workout, error)
	Update(ctx context.Context, userID string, params UpdateParams) (*Workout, error)
	Get(ctx context.Context, userID, workoutID string) (*Workout, error)
	SetCompleted(ctx context.Context, userID, workoutID string, completedAt time.Time) error
	Delete(ctx context.Context, userID, workoutID string) error
}

type Service struct {
	repo           workoutsRepo
	loc            *time.Location
	metricsManager *metrics.Manager
	now            func() time.Time
}

func NewService(repo workoutsRepo, loc *time.Location, metricsManager *metrics.Manager) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		repo:           repo,
		loc:            loc,
		metricsManager: metricsManager,
		now:            time.Now,
	}
}

// WorkoutsByDate returns the user's workouts started on the calendar day of date,
// ordered by start time, each with its exercises in order and their set counts.
func (s *Service) WorkoutsByDate(ctx context.Context, userID string, date time.Time) (_ []Summary, err error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}

	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.byDate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	from, to := DayRange(date, s.loc)
	span.SetAttributes(attribute.String("day", from.Format(time.DateOnly)))

	rows, err := s.repo.SummaryRows(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get summary rows: %w", err)
	}

	summaries := Summarize(rows)
	span.SetAttributes(attribute.Int("workouts", len(summaries)))
	return summaries, nil
}

func (s *Service) Create(ctx context.Context, userID string, params CreateParams) (*Workout, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}

	params.Name = strings.TrimSpace(params.Name)
	if err := validate(params.Name, params.StartedAt); err != nil {
		return nil, err
	}

	workout, err := s.repo.Add(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	if s.metricsManager != nil {
		s.metricsManager.CounterWorkoutsCreated.Inc()
	}
	return workout, nil
}

func (s *Service) Update(ctx context.Context, userID string, params UpdateParams) (*Workout, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if err := validateID(params.WorkoutID); err != nil {
		return nil, err
	}

	params.Name = strings.TrimSpace(params.Name)
	if err := validate(params.Name, params.StartedAt); err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, userID, params)
}

func (s *Service) Get(ctx context.Context, userID, workoutID string) (*Workout, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if err := validateID(workoutID); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID, workoutID)
}

// Complete marks the workout as finished. A zero completedAt means now.
func (s *Service) Complete(ctx context.Context, userID, workoutID string, completedAt time.Time) error {
	if userID == "" {
		return ErrUnauthorized
	}
	if err := validateID(workoutID); err != nil {
		return err
	}
	if completedAt.IsZero() {
		completedAt = s.now()
	}
	return s.repo.SetCompleted(ctx, userID, workoutID, completedAt)
}

func (s *Service) Delete(ctx context.Context, userID, workoutID string) error {
	if userID == "" {
		return ErrUnauthorized
	}
	if err := validateID(workoutID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, userID, workoutID)
}

func validate(name string, startedAt time.Time) error {
	if name == "" {
		return ErrNameRequired
	}
	if startedAt.IsZero() {
		return ErrStartedAtRequired
	}
	return nil
}

func validateID(workoutID string) error {
	if _, err := uuid.Parse(workoutID); err != nil {
		return ErrInvalidWorkoutID
	}
	return nil
}
