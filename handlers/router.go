// router.go - Route table of the API

package handlers

import (
	"net/http" // HTTP status codes
	"time"     // Health timestamp

	"github.com/gin-gonic/gin" // Gin web framework

	"go-discovery-backend/config"     // CORS settings
	"go-discovery-backend/middleware" // Auth, CORS and logging
)

// NewRouter wires every route. Everything except health and login needs a
// bearer token; admin routes additionally need role=admin.
func NewRouter(h *Handler, cors config.CORSConfig) *gin.Engine {
	r := gin.New() // Bare engine, middleware below
	r.Use(gin.Recovery(), middleware.RequestLogger(h.log), middleware.CORS(cors))

	auth := middleware.AuthMiddleware(h.tokens) // Bearer token required
	admin := middleware.AdminMiddleware()       // role=admin required

	api := r.Group("/api") // Everything lives under /api
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})

	// Auth and user administration
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/login", h.Login) // Public
		authRoutes.POST("/change-password", auth, h.ChangePassword)

		users := authRoutes.Group("/users", auth, admin) // Admin only
		users.POST("", h.CreateUser)
		users.GET("", h.ListUsers)
		users.POST("/:userId/reset-password", h.ResetPassword)
		users.DELETE("/:userId", h.DeleteUser)
	}

	// Category mappings, products and prompts
	cfg := api.Group("/config", auth)
	{
		cfg.GET("/category-mappings", h.ListMappings)
		cfg.POST("/category-mappings", admin, h.CreateMapping)
		cfg.PUT("/category-mappings/:category", admin, h.UpdateMapping)
		cfg.DELETE("/category-mappings/:category", admin, h.DeleteMapping)

		cfg.GET("/products", h.ListProducts)
		cfg.GET("/products/:productId", h.GetProduct)
		cfg.POST("/products", admin, h.CreateProduct)
		cfg.PUT("/products/:productId", admin, h.UpdateProduct)
		cfg.DELETE("/products/:productId", admin, h.DeleteProduct)

		cfg.GET("/prompts", h.GetPrompts)
		cfg.PUT("/prompts", admin, h.UpdatePrompts)
	}

	disc := api.Group("/discovery", auth)
	{
		disc.POST("/results", h.CreateResult)
		disc.GET("/results", h.ListResults)
		disc.GET("/results/:id", h.GetResult)
		disc.DELETE("/results/:id", h.DeleteResult)
		disc.GET("/results/:id/export", h.ExportResult)

		disc.POST("/generate", h.Generate)
		disc.POST("/generate/:questionId", h.GenerateQuestion)
	}

	kb := api.Group("/knowledgebase", auth)
	{
		kb.GET("/workspaces", h.ListWorkspaces)
		kb.POST("/workspaces/:slug/chat", h.Chat)
	}

	return r // Return the configured router
}
