package mcp

import (
	"net/http"
	"time"

	"github.com/2beens/liftlog/internal/auth"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

const (
	serverName    = "liftlog-workouts"
	serverVersion = "1.0.0"
)

// NewServer builds an MCP server whose tools act as the given user.
func NewServer(service workoutsService, userID string, loc *time.Location) *mcp.Server {
	h := NewHandler(service, userID, loc)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_workouts_by_date",
		Description: "Returns the caller's workouts started on the given day (YYYY-MM-DD), oldest first, each with its exercises in order and the number of sets logged per exercise.",
	}, h.GetWorkoutsByDateTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_workout",
		Description: "Returns a single workout of the caller by id: name, start time and completion time if completed.",
	}, h.GetWorkoutTool())

	return s
}

// NewHTTPHandler serves MCP over streamable HTTP. Requests must carry an
// identity set by the auth middleware.
func NewHTTPHandler(service workoutsService, loc *time.Location) http.Handler {
	mcpHandler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		userID := auth.UserIDFromContext(r.Context())
		log.Tracef("mcp request for user [%s]", userID)
		return NewServer(service, userID, loc)
	}, &mcp.StreamableHTTPOptions{
		Stateless: true,
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.UserIDFromContext(r.Context()) == "" {
			http.Error(w, "no can do", http.StatusUnauthorized)
			return
		}
		mcpHandler.ServeHTTP(w, r)
	})
}
