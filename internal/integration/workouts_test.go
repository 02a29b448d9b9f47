//go:build integration_test || all_tests

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/2beens/liftlog/internal/exercises"
	"github.com/2beens/liftlog/internal/workouts"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) doJSON(method, path, token string, body, out any) int {
	t := s.T()
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, serverEndpoint+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "test")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (s *IntegrationTestSuite) login(u testUser) string {
	var resp struct {
		Token string `json:"token"`
	}
	status := s.doJSON(http.MethodPost, "/a/login", "", map[string]string{
		"username": u.Username,
		"password": u.Password,
	}, &resp)
	require.Equal(s.T(), http.StatusOK, status)
	require.NotEmpty(s.T(), resp.Token)
	return resp.Token
}

func (s *IntegrationTestSuite) TestLogin_WrongPassword() {
	status := s.doJSON(http.MethodPost, "/a/login", "", map[string]string{
		"username": userAna.Username,
		"password": "nope",
	}, nil)
	assert.Equal(s.T(), http.StatusUnauthorized, status)
}

func (s *IntegrationTestSuite) TestLogout() {
	t := s.T()
	token := s.login(userAna)

	assert.Equal(t, http.StatusOK, s.doJSON(http.MethodGet, "/a/logout", token, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, s.doJSON(http.MethodGet, "/workouts", token, nil, nil))
}

func (s *IntegrationTestSuite) TestWorkoutsByDate_FullFlow() {
	t := s.T()
	anaToken := s.login(userAna)
	bobToken := s.login(userBob)

	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	var legDay workouts.Workout
	require.Equal(t, http.StatusCreated, s.doJSON(http.MethodPost, "/workouts", anaToken, workouts.CreateParams{
		Name:      "Leg Day",
		StartedAt: day.Add(18 * time.Hour),
	}, &legDay))

	var morningRun workouts.Workout
	require.Equal(t, http.StatusCreated, s.doJSON(http.MethodPost, "/workouts", anaToken, workouts.CreateParams{
		Name:      "Morning Mobility",
		StartedAt: day.Add(7 * time.Hour),
	}, &morningRun))

	// next day, must not show up
	require.Equal(t, http.StatusCreated, s.doJSON(http.MethodPost, "/workouts", anaToken, workouts.CreateParams{
		Name:      "Midnight",
		StartedAt: day.Add(24 * time.Hour),
	}, nil))

	// bob's workout on the same day
	require.Equal(t, http.StatusCreated, s.doJSON(http.MethodPost, "/workouts", bobToken, workouts.CreateParams{
		Name:      "Bob Push",
		StartedAt: day.Add(10 * time.Hour),
	}, nil))

	var squat, lunge exercises.Exercise
	suffix := gofakeit.LetterN(6)
	require.Equal(t, http.StatusCreated, s.doJSON(http.MethodPost, "/exercises", anaToken,
		map[string]string{"name": "Squat " + suffix}, &squat))
	require.Equal(t, http.StatusCreated, s.doJSON(http.MethodPost, "/exercises", anaToken,
		map[string]string{"name": "Lunge " + suffix}, &lunge))

	var weSquat, weLunge exercises.WorkoutExercise
	require.Equal(t, http.StatusCreated, s.doJSON(http.MethodPost, "/workouts/"+legDay.ID+"/exercises", anaToken,
		map[string]string{"exerciseId": squat.ID}, &weSquat))
	require.Equal(t, http.StatusCreated, s.doJSON(http.MethodPost, "/workouts/"+legDay.ID+"/exercises", anaToken,
		map[string]string{"exerciseId": lunge.ID}, &weLunge))
	assert.Equal(t, 0, weSquat.Order)
	assert.Equal(t, 1, weLunge.Order)

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusCreated, s.doJSON(http.MethodPost,
			"/workouts/"+legDay.ID+"/exercises/"+weSquat.ID+"/sets", anaToken,
			map[string]int{"reps": 5, "kilos": 100 + i*10}, nil))
	}

	// bob cannot log sets into ana's workout
	assert.Equal(t, http.StatusNotFound, s.doJSON(http.MethodPost,
		"/workouts/"+legDay.ID+"/exercises/"+weSquat.ID+"/sets", bobToken,
		map[string]int{"reps": 5, "kilos": 100}, nil))

	var list workouts.ListResponse
	require.Equal(t, http.StatusOK, s.doJSON(http.MethodGet, "/workouts?date=2024-03-05", anaToken, nil, &list))
	require.Equal(t, 2, list.Total)

	assert.Equal(t, morningRun.ID, list.Workouts[0].ID)
	assert.Empty(t, list.Workouts[0].Exercises)
	assert.NotNil(t, list.Workouts[0].Exercises)

	assert.Equal(t, legDay.ID, list.Workouts[1].ID)
	assert.Equal(t, []workouts.ExerciseSummary{
		{Name: squat.Name, SetCount: 3},
		{Name: lunge.Name, SetCount: 0},
	}, list.Workouts[1].Exercises)

	var empty workouts.ListResponse
	require.Equal(t, http.StatusOK, s.doJSON(http.MethodGet, "/workouts?date=2024-03-04", anaToken, nil, &empty))
	assert.Equal(t, 0, empty.Total)
	assert.NotNil(t, empty.Workouts)

	// complete then delete
	var completed workouts.Workout
	require.Equal(t, http.StatusOK, s.doJSON(http.MethodPost, "/workouts/"+legDay.ID+"/complete", anaToken, nil, &completed))
	assert.NotNil(t, completed.CompletedAt)
	assert.Equal(t, http.StatusNotFound, s.doJSON(http.MethodDelete, "/workouts/"+legDay.ID, bobToken, nil, nil))
	assert.Equal(t, http.StatusOK, s.doJSON(http.MethodDelete, "/workouts/"+legDay.ID, anaToken, nil, nil))
	assert.Equal(t, http.StatusNotFound, s.doJSON(http.MethodGet, "/workouts/"+legDay.ID, anaToken, nil, nil))
}

type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (b *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.token)
	return b.base.RoundTrip(req)
}

func (s *IntegrationTestSuite) TestMCP_GetWorkoutsByDate() {
	t := s.T()
	token := s.login(userBob)

	require.Equal(t, http.StatusCreated, s.doJSON(http.MethodPost, "/workouts", token, workouts.CreateParams{
		Name:      "Bob Pull",
		StartedAt: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
	}, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := mcp.NewClient(&mcp.Implementation{Name: "integration-test", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{
		Endpoint: serverEndpoint + "/mcp",
		HTTPClient: &http.Client{
			Transport: &bearerTransport{token: token, base: http.DefaultTransport},
		},
	}, nil)
	require.NoError(t, err)
	defer session.Close()

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_workouts_by_date",
		Arguments: map[string]any{"date": "2024-06-01"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	var summaries []workouts.Summary
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].(*mcp.TextContent).Text), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "Bob Pull", summaries[0].Name)
}
