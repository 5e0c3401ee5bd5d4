// handler.go - Shared dependencies of every HTTP handler and the error reply helper

package handlers

import (
	"context"  // Request contexts
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework

	"go-discovery-backend/apperrors"     // Error kinds
	"go-discovery-backend/database"      // Repositories
	"go-discovery-backend/discovery"     // Generation pipeline
	"go-discovery-backend/knowledgebase" // Workspace type
	"go-discovery-backend/logger"        // Structured logging
	"go-discovery-backend/middleware"    // Token manager
	"go-discovery-backend/mqtt"          // Event topics
)

// KnowledgeBase is the part of the knowledge base client the API exposes directly.
type KnowledgeBase interface {
	ListWorkspaces(ctx context.Context) []knowledgebase.Workspace
	Chat(ctx context.Context, workspace, message, mode string) (string, error)
}

// Handler holds what the route handlers need. Construct it with New.
type Handler struct {
	repos        *database.Repositories
	tokens       *middleware.TokenManager
	orchestrator *discovery.Orchestrator
	kb           KnowledgeBase
	events       mqtt.Publisher
	log          *logger.Logger
}

type Deps struct {
	Repos        *database.Repositories
	Tokens       *middleware.TokenManager
	Orchestrator *discovery.Orchestrator
	KB           KnowledgeBase
	Events       mqtt.Publisher // optional
	Log          *logger.Logger
}

func New(d Deps) *Handler {
	events := d.Events // Optional publisher
	if events == nil {
		events = mqtt.Noop{} // Drop events when none is wired
	}
	return &Handler{
		repos:        d.Repos,
		tokens:       d.Tokens,
		orchestrator: d.Orchestrator,
		kb:           d.KB,
		events:       events,
		log:          d.Log.With("component", "http"),
	}
}

// respondError writes {"error": message} with the status mapped from err.
// 500-class errors are logged with their cause and hidden from the caller.
func (h *Handler) respondError(c *gin.Context, op string, err error) {
	status := apperrors.HTTPStatus(err) // Map error kind to status
	if status >= http.StatusInternalServerError {
		h.log.Error(op+" failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": apperrors.PublicMessage(err)}) // Error response
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message}) // Validation error response
}

// publish sends an event; failures are logged and never fail the request.
func (h *Handler) publish(topic string, payload any) {
	if err := h.events.Publish(topic, payload); err != nil {
		h.log.Warn("publish event failed", "topic", topic, "error", err)
	}
}
