package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"whatsapp_dashboard/internal/mocks"
	"whatsapp_dashboard/internal/models"
	"whatsapp_dashboard/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authRouter(auth services.AuthService) *gin.Engine {
	r := gin.New()
	r.GET("/me", Auth(auth), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"owner": Owner(c), "token": Token(c)})
	})
	return r
}

func TestAuthSetsOwner(t *testing.T) {
	auth := new(mocks.AuthServiceMock)
	auth.On("Authenticate", mock.Anything, "tok").
		Return(&models.Session{Token: "tok", UserID: "7", ClientID: "client_7"}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	authRouter(auth).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"owner":{"user_id":"7","client_id":"client_7"},"token":"tok"}`, w.Body.String())
	auth.AssertExpectations(t)
}

func TestAuthRejects(t *testing.T) {
	auth := new(mocks.AuthServiceMock)
	auth.On("Authenticate", mock.Anything, "expired").Return(nil, services.ErrUnauthenticated)
	auth.On("Authenticate", mock.Anything, "down").Return(nil, errors.New("dial tcp: refused"))

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"unknown session", "Bearer expired", http.StatusUnauthorized},
		{"store down", "Bearer down", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			authRouter(auth).ServeHTTP(w, req)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer  abc "))
	assert.Empty(t, BearerToken("abc"))
	assert.Empty(t, BearerToken(""))
}

func TestRateLimit(t *testing.T) {
	counter := new(mocks.RedisMock)
	key := "ratelimit:login:192.0.2.1"
	counter.On("Hit", mock.Anything, key, time.Minute).Return(int64(2), nil).Once()
	counter.On("Hit", mock.Anything, key, time.Minute).Return(int64(3), nil).Once()
	counter.On("Hit", mock.Anything, key, time.Minute).Return(int64(0), errors.New("redis down")).Once()

	r := gin.New()
	r.POST("/login", RateLimit(counter, "login", 2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	do := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		return w
	}

	w := do()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = do()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusNoContent, do().Code)
	counter.AssertExpectations(t)
}
