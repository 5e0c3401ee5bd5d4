// discovery.go - Saved discovery results, their export, and answer generation

package handlers

import (
	"context"  // Detached generation context
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"strconv"  // Paging parameters

	"github.com/gin-gonic/gin" // Gin web framework

	"go-discovery-backend/apperrors" // Error kinds
	"go-discovery-backend/discovery" // Generation pipeline
	"go-discovery-backend/models"    // Domain types
	"go-discovery-backend/mqtt"      // Event topics
)

// GenerateInput is the session a generation request runs against.
type GenerateInput struct { // Struct for generation input
	ProductID    string            `json:"productId" binding:"required"`
	CustomerName string            `json:"customerName"`
	ProjectName  string            `json:"projectName"`
	Answers      map[string]string `json:"answers"`
}

func (in GenerateInput) request() discovery.Request {
	return discovery.Request{CustomerName: in.CustomerName, ProjectName: in.ProjectName, Answers: in.Answers}
}

func (h *Handler) CreateResult(c *gin.Context) { // Handler for saving a result
	var input models.NewDiscoveryResult
	if err := c.ShouldBindJSON(&input); err != nil { // Parse JSON input
		badRequest(c, "Missing required fields")
		return
	}
	id, err := h.repos.Results.Create(input) // Validate and append
	if err != nil {
		h.respondError(c, "create result", err)
		return
	}

	h.publish(mqtt.TopicResultCreated, gin.H{
		"id":            id,
		"product_id":    input.ProductID,
		"customer_name": input.CustomerName,
		"project_name":  input.ProjectName,
	})
	c.JSON(http.StatusOK, gin.H{"id": id, "message": "Discovery result saved successfully"})
}

// ListResults pages through results, newest first. Unparseable paging
// values fall back to the defaults.
func (h *Handler) ListResults(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))   // Zero when absent
	offset, _ := strconv.Atoi(c.Query("offset")) // Zero when absent
	c.JSON(http.StatusOK, gin.H{"results": h.repos.Results.List(limit, offset)})
}

func (h *Handler) GetResult(c *gin.Context) { // Handler for one result
	result, err := h.repos.Results.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, "get result", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

func (h *Handler) DeleteResult(c *gin.Context) { // Handler for deleting a result
	id := c.Param("id")
	deleted, err := h.repos.Results.Delete(id) // False when already gone
	if err != nil {
		h.respondError(c, "delete result", err)
		return
	}
	if !deleted {
		h.respondError(c, "delete result", apperrors.NotFound("Discovery result not found"))
		return
	}
	h.publish(mqtt.TopicResultDeleted, gin.H{"id": id}) // Notify subscribers
	c.JSON(http.StatusOK, gin.H{"message": "Discovery result deleted successfully"})
}

// ExportResult serves the result joined with its product's questions as a JSON download.
func (h *Handler) ExportResult(c *gin.Context) {
	result, err := h.repos.Results.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, "export result", err)
		return
	}

	// The product may have been deleted since; export what the result holds
	product, err := h.repos.Products.Get(result.ProductID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		h.respondError(c, "export result", err)
		return
	}

	exp := discovery.BuildExport(*result, product) // Join answers with questions
	c.Header("Content-Disposition", `attachment; filename="`+exp.Filename()+`"`)
	c.IndentedJSON(http.StatusOK, exp)
}

// Generate runs a bulk pass over every answered question of the product.
func (h *Handler) Generate(c *gin.Context) {
	var input GenerateInput
	if err := c.ShouldBindJSON(&input); err != nil { // Parse JSON input
		badRequest(c, "Product is required")
		return
	}
	product, err := h.repos.Products.Get(input.ProductID)
	if err != nil {
		h.respondError(c, "generate", err)
		return
	}

	// The pass runs to completion even if the client goes away
	ctx := context.WithoutCancel(c.Request.Context())
	batch := h.orchestrator.GenerateAll(ctx, input.request(), *product, nil)
	c.JSON(http.StatusOK, gin.H{
		"results":          batch.Outcomes,
		"statuses":         batch.Statuses,
		"showResults":      batch.ResultsAvailable,
		"generatedAnswers": batch.GeneratedAnswers(),
	})
}

// GenerateQuestion generates the answer for one question of the product.
func (h *Handler) GenerateQuestion(c *gin.Context) {
	var input GenerateInput
	if err := c.ShouldBindJSON(&input); err != nil { // Parse JSON input
		badRequest(c, "Product is required")
		return
	}
	product, err := h.repos.Products.Get(input.ProductID)
	if err != nil {
		h.respondError(c, "generate question", err)
		return
	}

	questionID := c.Param("questionId")    // Question from the path
	var question *models.DiscoveryQuestion // Declare question variable
	for i := range product.Questions {
		if product.Questions[i].ID == questionID { // Match by id
			question = &product.Questions[i]
			break
		}
	}
	if question == nil {
		h.respondError(c, "generate question", apperrors.NotFound("Question not found"))
		return
	}

	outcome, err := h.orchestrator.GenerateOne(context.WithoutCancel(c.Request.Context()), input.request(), *question)
	if err != nil {
		h.respondError(c, "generate question", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"questionId":      questionID,
		"result":          outcome,
		"status":          outcome.Status(),
		"generatedAnswer": outcome.Display(),
	})
}
