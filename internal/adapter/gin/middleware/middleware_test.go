package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"user-crud-service/pkg/logger"
	"user-crud-service/pkg/ratelimit"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr:       mr.Addr(),
		MaxRetries: -1,
	})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client, mr
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	return r
}

func doGet(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "10.0.0.1:1234"
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestID())
	var seen string
	r.GET("/ping", func(c *gin.Context) {
		seen = logger.GetRequestID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	t.Run("generated", func(t *testing.T) {
		w := doGet(r, "/ping")
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, w.Header().Get(logger.RequestIDHeader))
	})

	t.Run("propagated", func(t *testing.T) {
		const id = "0b3f6c1e-7a52-4c3d-9a39-2f5d8c1b7e44"
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(logger.RequestIDHeader, id)
		r.ServeHTTP(w, req)

		assert.Equal(t, id, seen)
		assert.Equal(t, id, w.Header().Get(logger.RequestIDHeader))
	})

	t.Run("non-uuid replaced", func(t *testing.T) {
		forged := strings.Repeat("x", 2048)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(logger.RequestIDHeader, forged)
		r.ServeHTTP(w, req)

		assert.NotEqual(t, forged, seen)
		_, err := uuid.Parse(seen)
		assert.NoError(t, err)
		assert.Equal(t, seen, w.Header().Get(logger.RequestIDHeader))
	})
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := newEngine(RequestID(), Logger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/broken", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	doGet(r, "/ok?x=1")
	doGet(r, "/missing")
	doGet(r, "/broken")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "/ok?x=1", entries[0].ContextMap()["path"])
	assert.NotEmpty(t, entries[0].ContextMap()["request_id"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	r := newEngine(Recovery(zap.New(core)))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := doGet(r, "/panic")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"internal server error"}`, w.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("panic recovered in http handler").Len())
}

func TestRateLimiter_Redis(t *testing.T) {
	client, mr := setupTestRedis(t)
	limiter := ratelimit.New(client, ratelimit.Config{
		RequestsPerSecond: 1,
		BurstCapacity:     2,
		Enabled:           true,
	}, zaptest.NewLogger(t))

	r := newEngine(RateLimiter(limiter, zaptest.NewLogger(t)))
	r.GET("/users", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, doGet(r, "/users").Code)
	assert.Equal(t, http.StatusOK, doGet(r, "/users").Code)

	w := doGet(r, "/users")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"rate limit exceeded"}`, w.Body.String())

	assert.True(t, mr.Exists("ratelimit:tb:GET:10.0.0.1"))
}

func TestRateLimiter_InProcess(t *testing.T) {
	limiter := ratelimit.New(nil, ratelimit.Config{
		RequestsPerSecond: 1,
		BurstCapacity:     1,
		Enabled:           true,
	}, zaptest.NewLogger(t))

	r := newEngine(RateLimiter(limiter, zaptest.NewLogger(t)))
	r.GET("/users", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, doGet(r, "/users").Code)
	assert.Equal(t, http.StatusTooManyRequests, doGet(r, "/users").Code)
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := ratelimit.New(nil, ratelimit.Config{
		RequestsPerSecond: 1,
		BurstCapacity:     1,
		Enabled:           false,
	}, zaptest.NewLogger(t))

	for _, l := range []*ratelimit.Limiter{limiter, nil} {
		r := newEngine(RateLimiter(l, zaptest.NewLogger(t)))
		r.GET("/users", func(c *gin.Context) { c.Status(http.StatusOK) })

		for i := 0; i < 3; i++ {
			assert.Equal(t, http.StatusOK, doGet(r, "/users").Code)
		}
	}
}
