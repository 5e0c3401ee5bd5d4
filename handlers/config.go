// config.go - Category mappings, products with their questions, and prompt templates

package handlers

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework

	"go-discovery-backend/models" // Domain types
)

type MappingInput struct { // Struct for mapping input
	Category      string `json:"category" binding:"required"`
	WorkspaceName string `json:"workspaceName" binding:"required"`
}

type ProductInput struct { // Struct for product input, questions in display order
	Name      string                 `json:"name" binding:"required"`
	Questions []models.QuestionInput `json:"questions" binding:"dive"`
}

type PromptsInput struct { // Struct for the prompts document
	Prompts *models.PromptSettings `json:"prompts"`
}

func (h *Handler) ListMappings(c *gin.Context) { // Handler for listing mappings
	c.JSON(http.StatusOK, gin.H{"mappings": h.repos.Mappings.List()})
}

// CreateMapping replaces any existing mapping for the category.
func (h *Handler) CreateMapping(c *gin.Context) {
	var input MappingInput
	if err := c.ShouldBindJSON(&input); err != nil { // Parse JSON input
		badRequest(c, "Category and workspace name are required")
		return
	}
	mapping, err := h.repos.Mappings.Upsert(input.Category, input.WorkspaceName) // Replace or insert
	if err != nil {
		h.respondError(c, "create mapping", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mapping": mapping})
}

func (h *Handler) UpdateMapping(c *gin.Context) { // Handler for changing a mapping's workspace
	var input struct {
		WorkspaceName string `json:"workspaceName" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil { // Parse JSON input
		badRequest(c, "Workspace name is required")
		return
	}
	category := c.Param("category") // Category from the path
	if err := h.repos.Mappings.Update(category, input.WorkspaceName); err != nil {
		h.respondError(c, "update mapping", err)
		return
	}
	mapping, _ := h.repos.Mappings.Find(category) // Reload the updated mapping
	c.JSON(http.StatusOK, gin.H{"mapping": mapping})
}

func (h *Handler) DeleteMapping(c *gin.Context) { // Handler for removing a mapping
	if err := h.repos.Mappings.Delete(c.Param("category")); err != nil { // Remove mapping
		h.respondError(c, "delete mapping", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category mapping deleted successfully"})
}

func (h *Handler) ListProducts(c *gin.Context) { // Handler for listing products
	c.JSON(http.StatusOK, gin.H{"products": h.repos.Products.List()})
}

func (h *Handler) GetProduct(c *gin.Context) { // Handler for one product
	product, err := h.repos.Products.Get(c.Param("productId")) // Product with ordered questions
	if err != nil {
		h.respondError(c, "get product", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (h *Handler) CreateProduct(c *gin.Context) { // Handler for creating a product
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil { // Parse JSON input
		badRequest(c, productInputError(input))
		return
	}
	product, err := h.repos.Products.Create(input.Name, input.Questions) // Save product and questions
	if err != nil {
		h.respondError(c, "create product", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// UpdateProduct renames the product and replaces its whole question set.
func (h *Handler) UpdateProduct(c *gin.Context) {
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil { // Parse JSON input
		badRequest(c, productInputError(input))
		return
	}
	product, err := h.repos.Products.Update(c.Param("productId"), input.Name, input.Questions) // Rename and replace questions
	if err != nil {
		h.respondError(c, "update product", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (h *Handler) DeleteProduct(c *gin.Context) { // Handler for deleting a product and its questions
	if err := h.repos.Products.Delete(c.Param("productId")); err != nil { // Cascades to questions
		h.respondError(c, "delete product", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func productInputError(input ProductInput) string {
	if input.Name == "" { // Name missing
		return "Product name is required"
	}
	return "Each question needs a question and a category"
}

func (h *Handler) GetPrompts(c *gin.Context) { // Handler for the prompt templates
	c.JSON(http.StatusOK, gin.H{"prompts": h.repos.Prompts.Get()})
}

// UpdatePrompts stores the templates; blank ones fall back to the defaults on read.
func (h *Handler) UpdatePrompts(c *gin.Context) {
	var input PromptsInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Prompts == nil { // Parse JSON input
		badRequest(c, "Prompts object is required")
		return
	}
	prompts, err := h.repos.Prompts.Put(*input.Prompts) // Replace the document
	if err != nil {
		h.respondError(c, "update prompts", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prompts": prompts})
}
