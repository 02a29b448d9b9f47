package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/2beens/liftlog/internal/auth"
	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=workouts_test

type workoutsService interface {
	WorkoutsByDate(ctx context.Context, userID string, date time.Time) ([]Summary, error)
	Create(ctx context.Context, userID string, params CreateParams) (*Workout, error)
	Update(ctx context.Context, userID string, params UpdateParams) (*Workout, error)
	Get(ctx context.Context, userID, workoutID string) (*Workout, error)
	Complete(ctx context.Context, userID, workoutID string, completedAt time.Time) error
	Delete(ctx context.Context, userID, workoutID string) error
}

type ListResponse struct {
	Workouts []Summary `json:"workouts"`
	Total    int       `json:"total"`
}

type DeleteResponse struct {
	DeletedID string `json:"deletedId"`
}

type completeRequest struct {
	CompletedAt time.Time `json:"completedAt"`
}

type Handler struct {
	service workoutsService
	loc     *time.Location
}

func NewHandler(service workoutsService, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		service: service,
		loc:     loc,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/workouts", handler.HandleList).Methods("GET", "OPTIONS").Name("list-workouts")
	r.HandleFunc("/workouts", handler.HandleCreate).Methods("POST", "OPTIONS").Name("new-workout")
	r.HandleFunc("/workouts/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-workout")
	r.HandleFunc("/workouts/{id}", handler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-workout")
	r.HandleFunc("/workouts/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-workout")
	r.HandleFunc("/workouts/{id}/complete", handler.HandleComplete).Methods("POST", "OPTIONS").Name("complete-workout")
}

// HandleList serves GET /workouts?date=YYYY-MM-DD; no date means today.
func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	date := time.Now().In(handler.loc)
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := ParseDay(dateStr, handler.loc)
		if err != nil {
			http.Error(w, "error, invalid date, use YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		date = parsed
	}

	summaries, err := handler.service.WorkoutsByDate(ctx, auth.UserIDFromContext(ctx), date)
	if err != nil {
		handleServiceError(w, "list workouts", err)
		return
	}

	pkg.WriteJSON(w, ListResponse{
		Workouts: summaries,
		Total:    len(summaries),
	}, http.StatusOK)
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.new")
	defer span.End()

	var params CreateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Tracef("new workout, unmarshal json params: %s", err)
		http.Error(w, "error, invalid request body", http.StatusBadRequest)
		return
	}

	workout, err := handler.service.Create(ctx, auth.UserIDFromContext(ctx), params)
	if err != nil {
		handleServiceError(w, "create workout", err)
		return
	}

	log.Debugf("new workout added: %s", workout.ID)
	pkg.WriteJSON(w, workout, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	workout, err := handler.service.Get(ctx, auth.UserIDFromContext(ctx), mux.Vars(r)["id"])
	if err != nil {
		handleServiceError(w, "get workout", err)
		return
	}

	pkg.WriteJSON(w, workout, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.update")
	defer span.End()

	var params UpdateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Tracef("update workout, unmarshal json params: %s", err)
		http.Error(w, "error, invalid request body", http.StatusBadRequest)
		return
	}
	params.WorkoutID = mux.Vars(r)["id"]

	workout, err := handler.service.Update(ctx, auth.UserIDFromContext(ctx), params)
	if err != nil {
		handleServiceError(w, "update workout", err)
		return
	}

	pkg.WriteJSON(w, workout, http.StatusOK)
}

func (handler *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.complete")
	defer span.End()

	// body is optional
	var req completeRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "error, invalid request body", http.StatusBadRequest)
			return
		}
	}

	userID := auth.UserIDFromContext(ctx)
	workoutID := mux.Vars(r)["id"]
	if err := handler.service.Complete(ctx, userID, workoutID, req.CompletedAt); err != nil {
		handleServiceError(w, "complete workout", err)
		return
	}

	workout, err := handler.service.Get(ctx, userID, workoutID)
	if err != nil {
		handleServiceError(w, "get completed workout", err)
		return
	}

	pkg.WriteJSON(w, workout, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	workoutID := mux.Vars(r)["id"]
	if err := handler.service.Delete(ctx, auth.UserIDFromContext(ctx), workoutID); err != nil {
		handleServiceError(w, "delete workout", err)
		return
	}

	pkg.WriteJSON(w, DeleteResponse{DeletedID: workoutID}, http.StatusOK)
}

func handleServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		http.Error(w, "no can do", http.StatusUnauthorized)
	case errors.Is(err, ErrNameRequired),
		errors.Is(err, ErrStartedAtRequired),
		errors.Is(err, ErrInvalidWorkoutID):
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrWorkoutNotFound):
		http.Error(w, "error, workout not found", http.StatusNotFound)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, "error, "+op+" failed", http.StatusInternalServerError)
	}
}
