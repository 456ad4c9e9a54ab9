package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pageza/afrocuisto-cms/backend/internal/logger"
)

func limitedRouter(rl *RateLimiter) *gin.Engine {
	r := gin.New()
	r.POST("/save", rl.RateLimitMiddleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRateLimiterWithoutRedisAllowsAll(t *testing.T) {
	r := limitedRouter(NewRateLimiter(nil, RateLimitConfig{Window: time.Minute, Limit: 1}, logger.NewNop()))
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/save", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	}

	var nilLimiter *RateLimiter
	rr := httptest.NewRecorder()
	limitedRouter(nilLimiter).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/save", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRateLimiterRedis(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })

	r := limitedRouter(NewRateLimiter(client, RateLimitConfig{Window: time.Minute, Limit: 2}, logger.NewNop()))
	codes := []int{}
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/save", nil))
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
