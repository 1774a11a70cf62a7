package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Nazarious-ucu/weather-dashboard/internal/middleware"
)

func newRouter(cfg middleware.CORSConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.CORS(cfg))
	r.GET("/api/weather", func(c *gin.Context) {
		c.JSON(http.StatusOK, []string{})
	})
	return r
}

func TestCORS(t *testing.T) {
	cases := []struct {
		name       string
		cfg        middleware.CORSConfig
		method     string
		origin     string
		wantCode   int
		wantOrigin string
		wantVary   string
	}{
		{
			name:       "wildcard",
			cfg:        middleware.DefaultCORSConfig(),
			method:     http.MethodGet,
			origin:     "https://example.com",
			wantCode:   http.StatusOK,
			wantOrigin: "*",
		},
		{
			name:       "preflight",
			cfg:        middleware.DefaultCORSConfig(),
			method:     http.MethodOptions,
			origin:     "https://example.com",
			wantCode:   http.StatusNoContent,
			wantOrigin: "*",
		},
		{
			name:       "specific origin allowed",
			cfg:        middleware.CORSConfig{AllowedOrigins: []string{"https://example.com"}},
			method:     http.MethodGet,
			origin:     "https://example.com",
			wantCode:   http.StatusOK,
			wantOrigin: "https://example.com",
			wantVary:   "Origin",
		},
		{
			name:       "wildcard among listed origins",
			cfg:        middleware.CORSConfig{AllowedOrigins: []string{"https://example.com", "*"}},
			method:     http.MethodGet,
			origin:     "https://other.example",
			wantCode:   http.StatusOK,
			wantOrigin: "*",
		},
		{
			name:     "preflight from origin not allowed",
			cfg:      middleware.CORSConfig{AllowedOrigins: []string{"https://example.com"}},
			method:   http.MethodOptions,
			origin:   "https://evil.example",
			wantCode: http.StatusNoContent,
		},
		{
			name:     "origin not allowed",
			cfg:      middleware.CORSConfig{AllowedOrigins: []string{"https://example.com"}},
			method:   http.MethodGet,
			origin:   "https://evil.example",
			wantCode: http.StatusOK,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/api/weather", nil)
			req.Header.Set("Origin", tc.origin)
			rec := httptest.NewRecorder()

			newRouter(tc.cfg).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Equal(t, tc.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tc.wantVary, rec.Header().Get("Vary"))
		})
	}
}
