// knowledgebase.go - Workspace listing and free-form knowledge base search

package handlers

import (
	"net/http" // HTTP status codes
	"strings"  // Blank message check

	"github.com/gin-gonic/gin" // Gin web framework

	"go-discovery-backend/discovery" // Generation pipeline
)

type ChatInput struct { // Struct for search input
	Message string `json:"message" binding:"required"`
	Mode    string `json:"mode"` // "query" or "chat"; empty uses the configured mode
}

// ListWorkspaces never fails; an unreachable service yields an empty list.
func (h *Handler) ListWorkspaces(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"workspaces": h.kb.ListWorkspaces(c.Request.Context())})
}

// Chat sends a message straight to a workspace. Failures are reported with
// the same readable messages generation uses, as 502.
func (h *Handler) Chat(c *gin.Context) {
	var input ChatInput
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Message) == "" { // Parse JSON input
		badRequest(c, "Message is required")
		return
	}
	if input.Mode != "" && input.Mode != "query" && input.Mode != "chat" {
		badRequest(c, "Mode must be query or chat")
		return
	}

	slug := c.Param("slug")                                                       // Workspace from the path
	reply, err := h.kb.Chat(c.Request.Context(), slug, input.Message, input.Mode) // Ask the knowledge base
	if err != nil {
		class, text := discovery.Classify(err) // Readable failure
		h.log.Error("knowledge base search failed", "workspace", slug, "class", class, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": text})
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": reply}) // Return the reply
}
