package middleware_test

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-candidate-scout/internal/delivery/http/middleware"
	"go-candidate-scout/internal/domain"
	"go-candidate-scout/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func scopeEcho(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())
	r.Use(mw...)
	r.GET("/scope", func(c *gin.Context) {
		c.String(http.StatusOK, domain.ScopeFromContext(c.Request.Context()))
	})
	return r
}

func signed(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareDisabled(t *testing.T) {
	r := scopeEcho(middleware.AuthMiddleware("", nil))

	w := get(r, "/scope", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.DefaultScope, w.Body.String())
}

func TestAuthMiddleware(t *testing.T) {
	r := scopeEcho(middleware.AuthMiddleware(testSecret, nil))
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantScope  string
	}{
		{
			name:       "valid token scopes by subject",
			token:      signed(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "recruiter-1", "exp": time.Now().Add(time.Hour).Unix()}),
			wantStatus: http.StatusOK,
			wantScope:  "recruiter-1",
		},
		{
			name:       "missing token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong secret",
			token:      signed(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "recruiter-1"}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired",
			token:      signed(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "recruiter-1", "exp": time.Now().Add(-time.Hour).Unix()}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "RS256 without jwks",
			token:      signed(t, jwt.SigningMethodRS256, rsaKey, jwt.MapClaims{"sub": "recruiter-1"}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "no subject",
			token:      signed(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}),
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, "/scope", tt.token)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantScope != "" {
				assert.Equal(t, tt.wantScope, w.Body.String())
			}
		})
	}
}

func TestRequestIDReusesHeader(t *testing.T) {
	r := scopeEcho()

	req := httptest.NewRequest(http.MethodGet, "/scope", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))

	w = get(r, "/scope", "")
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}

func TestRateLimitInMemory(t *testing.T) {
	cfg := middleware.CandidateRateLimitConfig(2, time.Minute)
	cfg.KeyPrefix = "rl:test:" + t.Name() + ":"
	r := scopeEcho(middleware.RateLimitMiddleware(cfg))

	assert.Equal(t, http.StatusOK, get(r, "/scope", "").Code)
	w := get(r, "/scope", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = get(r, "/scope", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.GET("/app", func(c *gin.Context) { c.Error(apperror.NotFound("Candidate not saved")) })
	r.GET("/raw", func(c *gin.Context) { c.Error(assert.AnError) })

	w := get(r, "/app", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Candidate not saved")

	w = get(r, "/raw", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}
