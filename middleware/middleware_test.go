package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"go-discovery-backend/config"
	"go-discovery-backend/logger"
	"go-discovery-backend/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	admin = &models.User{ID: "user-1", Username: "admin", Role: models.RoleAdmin}
	alice = &models.User{ID: "user-2", Username: "alice", Role: models.RoleUser}
)

func setupRouter(tokens *TokenManager) *gin.Engine {
	r := gin.New()
	authed := r.Group("/", AuthMiddleware(tokens))
	authed.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  CurrentUserID(c),
			"username": c.GetString(ContextUsername),
		})
	})
	authed.GET("/admin", AdminMiddleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func serve(r http.Handler, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenManager("secret", 7*24*time.Hour)

	signed, err := tokens.Generate(alice)
	require.NoError(t, err)

	claims, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-2", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenRejectsWrongSecretAndExpiry(t *testing.T) {
	signed, err := NewTokenManager("other", time.Hour).Generate(alice)
	require.NoError(t, err)
	_, err = NewTokenManager("secret", time.Hour).Parse(signed)
	assert.Error(t, err)

	expired, err := NewTokenManager("secret", -time.Minute).Generate(alice)
	require.NoError(t, err)
	_, err = NewTokenManager("secret", time.Hour).Parse(expired)
	assert.Error(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "x"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = NewTokenManager("secret", time.Hour).Parse(none)
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour)
	r := setupRouter(tokens)

	assert.Equal(t, http.StatusUnauthorized, serve(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "/me", "garbage").Code)

	signed, err := tokens.Generate(alice)
	require.NoError(t, err)
	w := serve(r, "/me", signed)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"user-2","username":"alice"}`, w.Body.String())
}

func TestAdminMiddleware(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour)
	r := setupRouter(tokens)

	userToken, err := tokens.Generate(alice)
	require.NoError(t, err)
	adminToken, err := tokens.Generate(admin)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, serve(r, "/admin", "").Code)
	assert.Equal(t, http.StatusForbidden, serve(r, "/admin", userToken).Code)
	assert.Equal(t, http.StatusNoContent, serve(r, "/admin", adminToken).Code)
}

func TestCORSAllowAllEchoesOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORS(config.CORSConfig{AllowAll: true}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://example.test")
	r.ServeHTTP(w, req)

	assert.Equal(t, "http://example.test", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSRestrictedList(t *testing.T) {
	r := gin.New()
	r.Use(CORS(config.CORSConfig{AllowedOrigins: "http://localhost:5173"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.test")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequestLoggerLevels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	serve(r, "/ok", "")
	serve(r, "/boom", "")
	serve(r, "/missing", "")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
	assert.Equal(t, zap.WarnLevel, entries[2].Level)
	assert.Equal(t, "/missing", entries[2].ContextMap()["path"])
}
