package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/ledger_assistant/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSettings = utils.TokenSettings{Secret: "middleware-secret", Issuer: "ledger-assistant", Expiry: time.Hour}

func newRouter(t *testing.T, handlers ...gin.HandlerFunc) (*gin.Engine, *bytes.Buffer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	var logs bytes.Buffer
	r := gin.New()
	r.Use(StructuredLoggingMiddleware(slog.New(slog.NewJSONHandler(&logs, nil))))
	r.GET("/", append(handlers, func(c *gin.Context) {
		subject, _ := GetSubjectFromContext(c)
		GetLoggerFromCtx(c.Request.Context()).Info("handled")
		c.String(http.StatusOK, subject)
	})...)
	return r, &logs
}

func get(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	r, logs := newRouter(t, AuthMiddleware(testSettings))
	token, _, err := utils.GenerateJWT("alice", testSettings, time.Now())
	require.NoError(t, err)

	rec := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Contains(t, logs.String(), `"subject":"alice"`)

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Token "+token).Code)

	other := testSettings
	other.Secret = "someone-else"
	forged, _, err := utils.GenerateJWT("mallory", other, time.Now())
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer "+forged).Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	r, _ := newRouter(t, AuthMiddleware(testSettings))
	token, _, err := utils.GenerateJWT("alice", testSettings, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	rec := get(r, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "expired")
}

func TestRateLimit(t *testing.T) {
	l, err := NewMemoryLimiter("2-M")
	require.NoError(t, err)
	r, _ := newRouter(t, RateLimit(l))

	first := get(r, "")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusOK, get(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "").Code)
}

func TestNewMemoryLimiter_InvalidRate(t *testing.T) {
	_, err := NewMemoryLimiter("lots")
	assert.Error(t, err)
}

func TestGetLoggerFromCtx_Default(t *testing.T) {
	assert.Same(t, slog.Default(), GetLoggerFromCtx(context.Background()))
}
