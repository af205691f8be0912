package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	t.Run("generates uuid", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/test", "")
		id := w.Header().Get("X-Request-ID")
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("propagates header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Request-ID", "req-42")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
		assert.Equal(t, "req-42", w.Body.String())
	})
}

func TestRequestLogger_DifferentStatusCodes(t *testing.T) {
	router := gin.New()
	router.Use(RequestID(), RequestLogger(), RequestTracker())
	router.GET("/200", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{}) })
	router.GET("/400", func(c *gin.Context) { c.JSON(http.StatusBadRequest, gin.H{}) })
	router.GET("/500", func(c *gin.Context) { c.JSON(http.StatusInternalServerError, gin.H{}) })

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"OK", "/200", http.StatusOK},
		{"Bad Request", "/400", http.StatusBadRequest},
		{"Internal Server Error", "/500", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRequestTiming_SetsStartTime(t *testing.T) {
	router := gin.New()
	router.Use(RequestTiming())

	var startTime time.Time
	router.GET("/test", func(c *gin.Context) {
		startTime = c.MustGet(StartTimeKey).(time.Time)
		c.Status(http.StatusOK)
	})

	w := serve(router, http.MethodGet, "/test", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, startTime.IsZero())
}

func TestRequestTiming_UnmatchedRoute(t *testing.T) {
	router := gin.New()
	router.Use(RequestTiming())

	w := serve(router, http.MethodGet, "/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
