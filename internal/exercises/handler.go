package exercises

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/liftlog/internal/auth"
	"github.com/2beens/liftlog/internal/telemetry/metrics"
	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=exercises_test

type exerciseCatalog interface {
	List(ctx context.Context) ([]Exercise, error)
	Add(ctx context.Context, name string) (*Exercise, error)
}

type workoutExercisesRepo interface {
	AddToWorkout(ctx context.Context, userID, workoutID, exerciseID string) (*WorkoutExercise, error)
	AddSet(ctx context.Context, userID string, params AddSetParams) (*Set, error)
}

type newExerciseRequest struct {
	Name string `json:"name"`
}

type addToWorkoutRequest struct {
	ExerciseID string `json:"exerciseId"`
}

type ListResponse struct {
	Exercises []Exercise `json:"exercises"`
	Total     int        `json:"total"`
}

type Handler struct {
	catalog        exerciseCatalog
	repo           workoutExercisesRepo
	metricsManager *metrics.Manager
}

func NewHandler(
	catalog exerciseCatalog,
	repo workoutExercisesRepo,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		catalog:        catalog,
		repo:           repo,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/exercises", handler.HandleList).Methods("GET", "OPTIONS").Name("list-exercises")
	r.HandleFunc("/exercises", handler.HandleNew).Methods("POST", "OPTIONS").Name("new-exercise")
	r.HandleFunc("/workouts/{id}/exercises", handler.HandleAddToWorkout).Methods("POST", "OPTIONS").Name("add-workout-exercise")
	r.HandleFunc("/workouts/{id}/exercises/{weid}/sets", handler.HandleAddSet).Methods("POST", "OPTIONS").Name("add-set")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.list")
	defer span.End()

	exercises, err := handler.catalog.List(ctx)
	if err != nil {
		handleError(w, "list exercises", err)
		return
	}

	pkg.WriteJSON(w, ListResponse{
		Exercises: exercises,
		Total:     len(exercises),
	}, http.StatusOK)
}

func (handler *Handler) HandleNew(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.new")
	defer span.End()

	var req newExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("new exercise, unmarshal json params: %s", err)
		http.Error(w, "error, invalid request body", http.StatusBadRequest)
		return
	}

	exercise, err := handler.catalog.Add(ctx, req.Name)
	if err != nil {
		handleError(w, "add exercise", err)
		return
	}

	log.Debugf("new exercise added: %s [%s]", exercise.Name, exercise.ID)
	pkg.WriteJSON(w, exercise, http.StatusCreated)
}

func (handler *Handler) HandleAddToWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.addToWorkout")
	defer span.End()

	var req addToWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ExerciseID == "" {
		http.Error(w, "error, invalid request body", http.StatusBadRequest)
		return
	}

	userID := auth.UserIDFromContext(ctx)
	if userID == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	we, err := handler.repo.AddToWorkout(ctx, userID, mux.Vars(r)["id"], req.ExerciseID)
	if err != nil {
		handleError(w, "add exercise to workout", err)
		return
	}

	pkg.WriteJSON(w, we, http.StatusCreated)
}

func (handler *Handler) HandleAddSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.addSet")
	defer span.End()

	var params AddSetParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "error, invalid request body", http.StatusBadRequest)
		return
	}
	vars := mux.Vars(r)
	params.WorkoutID = vars["id"]
	params.WorkoutExerciseID = vars["weid"]

	userID := auth.UserIDFromContext(ctx)
	if userID == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	set, err := handler.repo.AddSet(ctx, userID, params)
	if err != nil {
		handleError(w, "add set", err)
		return
	}

	if handler.metricsManager != nil {
		handler.metricsManager.CounterSetsLogged.Inc()
	}

	pkg.WriteJSON(w, set, http.StatusCreated)
}

func handleError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrExerciseNameRequired),
		errors.Is(err, ErrInvalidReps),
		errors.Is(err, ErrInvalidKilos):
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrExerciseExists):
		http.Error(w, "error, exercise already exists", http.StatusConflict)
	case errors.Is(err, ErrExerciseNotFound),
		errors.Is(err, ErrWorkoutNotFound),
		errors.Is(err, ErrWorkoutExerciseNotFound):
		http.Error(w, "error, "+err.Error(), http.StatusNotFound)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, "error, "+op+" failed", http.StatusInternalServerError)
	}
}
