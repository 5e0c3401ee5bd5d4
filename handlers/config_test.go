package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-discovery-backend/models"
)

func TestCategoryMappingRoutes(t *testing.T) {
	env := setupTestEnv(t)
	_, adminToken := env.createUser(t, "admin", "admin", models.RoleAdmin)
	_, userToken := env.createUser(t, "alice", "pw", models.RoleUser)

	w := env.do(http.MethodPost, "/api/config/category-mappings", adminToken, MappingInput{Category: "Cloud Sizing"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Category and workspace name are required", decode(t, w)["error"])

	w = env.do(http.MethodPost, "/api/config/category-mappings", adminToken, MappingInput{Category: "Cloud Sizing", WorkspaceName: "old-ws"})
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(http.MethodPost, "/api/config/category-mappings", adminToken, MappingInput{Category: "Cloud Sizing", WorkspaceName: "aws-ws"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/config/category-mappings", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	mappings := decode(t, w)["mappings"].([]any)
	require.Len(t, mappings, 1)
	assert.Equal(t, "aws-ws", mappings[0].(map[string]any)["workspace_name"])

	w = env.do(http.MethodPut, "/api/config/category-mappings/Cloud%20Sizing", adminToken, map[string]string{"workspaceName": "new-ws"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "new-ws", decode(t, w)["mapping"].(map[string]any)["workspace_name"])

	w = env.do(http.MethodDelete, "/api/config/category-mappings/Cloud%20Sizing", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.do(http.MethodDelete, "/api/config/category-mappings/Cloud%20Sizing", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductRoutes(t *testing.T) {
	env := setupTestEnv(t)
	_, adminToken := env.createUser(t, "admin", "admin", models.RoleAdmin)
	_, userToken := env.createUser(t, "alice", "pw", models.RoleUser)

	w := env.do(http.MethodPost, "/api/config/products", adminToken, ProductInput{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Product name is required", decode(t, w)["error"])

	w = env.do(http.MethodPost, "/api/config/products", adminToken, ProductInput{
		Name:      "AWS Storage",
		Questions: []models.QuestionInput{{Question: "How much data?"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/api/config/products", adminToken, ProductInput{
		Name: "AWS Storage",
		Questions: []models.QuestionInput{
			{Question: "How much data?", Category: "Cloud Sizing"},
			{Question: "Which regions?", Category: "Cloud General"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	product := decode(t, w)["product"].(map[string]any)
	id := product["id"].(string)
	assert.Nil(t, product["updated_at"])
	assert.Len(t, product["questions"], 2)

	w = env.do(http.MethodGet, "/api/config/products/"+id, userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	questions := decode(t, w)["product"].(map[string]any)["questions"].([]any)
	assert.Equal(t, "Which regions?", questions[1].(map[string]any)["question"])
	assert.EqualValues(t, 1, questions[1].(map[string]any)["question_order"])

	w = env.do(http.MethodPut, "/api/config/products/"+id, adminToken, ProductInput{Name: "AWS Storage v2"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode(t, w)["product"].(map[string]any)
	assert.Equal(t, "AWS Storage v2", updated["name"])
	assert.NotNil(t, updated["updated_at"])
	assert.Empty(t, updated["questions"])

	w = env.do(http.MethodGet, "/api/config/products", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["products"], 1)

	w = env.do(http.MethodDelete, "/api/config/products/"+id, adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.do(http.MethodGet, "/api/config/products/"+id, userToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Product not found", decode(t, w)["error"])
}

func TestPromptRoutes(t *testing.T) {
	env := setupTestEnv(t)
	_, adminToken := env.createUser(t, "admin", "admin", models.RoleAdmin)

	w := env.do(http.MethodGet, "/api/config/prompts", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.DefaultSizingPrompt, decode(t, w)["prompts"].(map[string]any)["sizing"])

	w = env.do(http.MethodPut, "/api/config/prompts", adminToken, map[string]string{"general": "flat"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Prompts object is required", decode(t, w)["error"])

	w = env.do(http.MethodPut, "/api/config/prompts", adminToken, PromptsInput{Prompts: &models.PromptSettings{Matrix: "custom matrix"}})
	require.Equal(t, http.StatusOK, w.Code)
	prompts := decode(t, w)["prompts"].(map[string]any)
	assert.Equal(t, "custom matrix", prompts["matrix"])
	assert.Equal(t, models.DefaultGeneralPrompt, prompts["general"])
}
