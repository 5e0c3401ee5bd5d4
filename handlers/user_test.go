// user_test.go - Tests for login, password changes and the shared test harness
// Run with: go test ./...

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-discovery-backend/config"
	"go-discovery-backend/database"
	"go-discovery-backend/discovery"
	"go-discovery-backend/knowledgebase"
	"go-discovery-backend/logger"
	"go-discovery-backend/middleware"
	"go-discovery-backend/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeKB echoes "OK:"+message unless err is set.
type fakeKB struct {
	workspaces []knowledgebase.Workspace
	err        error
	messages   []string
}

func (f *fakeKB) SendMessage(ctx context.Context, workspace, message string) (string, error) {
	return f.Chat(ctx, workspace, message, "")
}

func (f *fakeKB) Chat(ctx context.Context, workspace, message, _ string) (string, error) {
	f.messages = append(f.messages, message)
	if err := ctx.Err(); err != nil {
		return "", err // Like a real HTTP call on a dead context
	}
	if f.err != nil {
		return "", f.err
	}
	return "OK:" + message, nil
}

func (f *fakeKB) ListWorkspaces(context.Context) []knowledgebase.Workspace {
	if f.workspaces == nil {
		return []knowledgebase.Workspace{}
	}
	return f.workspaces
}

type recordingEvents struct{ topics []string }

func (r *recordingEvents) Publish(topic string, _ any) error {
	r.topics = append(r.topics, topic)
	return nil
}

type testEnv struct {
	router *gin.Engine
	repos  *database.Repositories
	tokens *middleware.TokenManager
	kb     *fakeKB
	events *recordingEvents
}

// setupTestEnv builds the full router over a fresh file store in a temp dir.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := database.NewFileStore(t.TempDir(), logger.Nop())
	require.NoError(t, err)

	env := &testEnv{
		repos:  database.NewRepositories(store),
		tokens: middleware.NewTokenManager("test-secret", time.Hour),
		kb:     &fakeKB{},
		events: &recordingEvents{},
	}
	resolver := discovery.NewResolver(env.repos.Mappings, env.repos.Prompts)
	orchestrator := discovery.NewOrchestrator(resolver, env.kb, env.events, logger.Nop())
	h := New(Deps{
		Repos:        env.repos,
		Tokens:       env.tokens,
		Orchestrator: orchestrator,
		KB:           env.kb,
		Events:       env.events,
		Log:          logger.Nop(),
	})
	env.router = NewRouter(h, config.CORSConfig{AllowAll: true})
	return env
}

// createUser stores a user and returns it with a valid token.
func (e *testEnv) createUser(t *testing.T, username, password, role string) (models.PublicUser, string) {
	t.Helper()
	user, err := e.repos.Users.Create(username, password, role)
	require.NoError(t, err)
	token, err := e.tokens.Generate(&models.User{ID: user.ID, Username: user.Username, Role: user.Role})
	require.NoError(t, err)
	return user, token
}

// do sends a JSON request; body may be nil.
func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	return e.doContext(context.Background(), method, path, token, body)
}

// doContext is do with the request bound to ctx.
func (e *testEnv) doContext(ctx context.Context, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequestWithContext(ctx, method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	env := setupTestEnv(t)
	w := env.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestLogin(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "alice", "s3cret", models.RoleUser)

	// --- Successful login returns a usable token and the public user ---
	w := env.do(http.MethodPost, "/api/auth/login", "", LoginInput{Username: "alice", Password: "s3cret"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, "user", user["role"])
	assert.NotContains(t, user, "password_hash")

	claims, err := env.tokens.Parse(body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, user["id"], claims.UserID)

	// --- Wrong password and unknown user look the same ---
	w = env.do(http.MethodPost, "/api/auth/login", "", LoginInput{Username: "alice", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", decode(t, w)["error"])

	w = env.do(http.MethodPost, "/api/auth/login", "", LoginInput{Username: "nobody", Password: "s3cret"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", decode(t, w)["error"])

	// --- Missing fields ---
	w = env.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Username and password are required", decode(t, w)["error"])
}

func TestChangePassword(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createUser(t, "alice", "old", models.RoleUser)

	w := env.do(http.MethodPost, "/api/auth/change-password", "", ChangePasswordInput{CurrentPassword: "old", NewPassword: "new"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodPost, "/api/auth/change-password", token, ChangePasswordInput{CurrentPassword: "wrong", NewPassword: "new"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Current password is incorrect", decode(t, w)["error"])

	w = env.do(http.MethodPost, "/api/auth/change-password", token, map[string]string{"currentPassword": "old"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/api/auth/change-password", token, ChangePasswordInput{CurrentPassword: "old", NewPassword: "new"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPost, "/api/auth/login", "", LoginInput{Username: "alice", Password: "old"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = env.do(http.MethodPost, "/api/auth/login", "", LoginInput{Username: "alice", Password: "new"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChangePasswordForDeletedUser(t *testing.T) {
	env := setupTestEnv(t)
	user, token := env.createUser(t, "alice", "old", models.RoleUser)
	require.NoError(t, env.repos.Users.Delete(user.ID))

	w := env.do(http.MethodPost, "/api/auth/change-password", token, ChangePasswordInput{CurrentPassword: "old", NewPassword: "new"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decode(t, w)["error"])
}

func TestKnowledgeBaseRoutes(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createUser(t, "alice", "pw", models.RoleUser)
	env.kb.workspaces = []knowledgebase.Workspace{{Slug: "aws-ws", Name: "AWS"}}

	w := env.do(http.MethodGet, "/api/knowledgebase/workspaces", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"workspaces":[{"slug":"aws-ws","name":"AWS"}]}`, w.Body.String())

	w = env.do(http.MethodPost, "/api/knowledgebase/workspaces/aws-ws/chat", token, ChatInput{Message: "tiering?"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK:tiering?", decode(t, w)["response"])

	w = env.do(http.MethodPost, "/api/knowledgebase/workspaces/aws-ws/chat", token, ChatInput{Message: "x", Mode: "shout"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	env.kb.err = &knowledgebase.NetworkError{BaseURL: "http://kb", Err: errors.New("refused")}
	w = env.do(http.MethodPost, "/api/knowledgebase/workspaces/aws-ws/chat", token, ChatInput{Message: "x"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, decode(t, w)["error"], "Unable to reach the knowledge base service")
}
