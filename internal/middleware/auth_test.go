package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/auth"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/config"
)

func testRouter(cfg *config.Config, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(cfg, roles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":   c.MustGet(ContextUserID),
			"role": c.MustGet(ContextUserRole),
		})
	})
	return r
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("x-auth-token", token)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestAuthMiddleware_NoToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	rr := doRequest(testRouter(cfg), "")

	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "No token, authorization denied", body["message"])
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	rr := doRequest(testRouter(cfg), "garbage")

	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Empty(t, body["code"])
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	token, err := auth.Issue(1, auth.RoleStudio, cfg.JWTSecret, -time.Minute)
	require.NoError(t, err)

	rr := doRequest(testRouter(cfg), token)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "TOKEN_EXPIRED", body["code"])
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	token, err := auth.Issue(1, auth.RoleStudio, "other-secret", time.Hour)
	require.NoError(t, err)

	rr := doRequest(testRouter(cfg), token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthMiddleware_RoleNotAllowed(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	token, err := auth.Issue(1, auth.RoleMusician, cfg.JWTSecret, time.Hour)
	require.NoError(t, err)

	rr := doRequest(testRouter(cfg, auth.RoleStudio), token)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestAuthMiddleware_Valid(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	token, err := auth.Issue(9, auth.RoleStudio, cfg.JWTSecret, time.Hour)
	require.NoError(t, err)

	rr := doRequest(testRouter(cfg, auth.RoleStudio), token)
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, float64(9), body["id"])
	assert.Equal(t, auth.RoleStudio, body["role"])
}
