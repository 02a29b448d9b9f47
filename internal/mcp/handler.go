package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/2beens/liftlog/internal/workouts"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type workoutsService interface {
	WorkoutsByDate(ctx context.Context, userID string, date time.Time) ([]workouts.Summary, error)
	Get(ctx context.Context, userID, workoutID string) (*workouts.Workout, error)
}

// Handler serves tool calls on behalf of a single user.
type Handler struct {
	service workoutsService
	userID  string
	loc     *time.Location
}

func NewHandler(service workoutsService, userID string, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		service: service,
		userID:  userID,
		loc:     loc,
	}
}

// WorkoutsByDateInput is the input for get_workouts_by_date.
type WorkoutsByDateInput struct {
	Date string `json:"date,omitempty" jsonschema:"Day to list (YYYY-MM-DD); empty means today"`
}

// GetWorkoutsByDateTool returns the MCP tool handler for get_workouts_by_date.
func (h *Handler) GetWorkoutsByDateTool() func(context.Context, *mcp.CallToolRequest, WorkoutsByDateInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in WorkoutsByDateInput) (*mcp.CallToolResult, any, error) {
		date := time.Now().In(h.loc)
		if in.Date != "" {
			parsed, err := workouts.ParseDay(in.Date, h.loc)
			if err != nil {
				return errorResult("Invalid date: use YYYY-MM-DD"), nil, nil
			}
			date = parsed
		}

		summaries, err := h.service.WorkoutsByDate(ctx, h.userID, date)
		if err != nil {
			return errorResult("Error fetching workouts: " + err.Error()), nil, nil
		}
		return jsonResult(summaries), nil, nil
	}
}

// WorkoutInput is the input for get_workout.
type WorkoutInput struct {
	ID string `json:"id" jsonschema:"Workout id"`
}

// GetWorkoutTool returns the MCP tool handler for get_workout.
func (h *Handler) GetWorkoutTool() func(context.Context, *mcp.CallToolRequest, WorkoutInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in WorkoutInput) (*mcp.CallToolResult, any, error) {
		workout, err := h.service.Get(ctx, h.userID, in.ID)
		if err != nil {
			if errors.Is(err, workouts.ErrWorkoutNotFound) {
				return errorResult("Workout not found: " + in.ID), nil, nil
			}
			return errorResult("Error fetching workout: " + err.Error()), nil, nil
		}
		return jsonResult(workout), nil, nil
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
