package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(set *limiterSet) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rateLimit(set))
	router.Any("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func request(router *gin.Engine, method, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/test", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// fakeClock is advanced by hand.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestRateLimit_AllowsNormalTraffic(t *testing.T) {
	router := newRouter(newLimiterSet(10, 5, time.Now))

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, request(router, http.MethodGet, "10.0.0.1:1234").Code, "request %d", i)
	}
}

func TestRateLimit_RejectsExcessiveTraffic(t *testing.T) {
	router := newRouter(newLimiterSet(1, 2, time.Now))

	for i := 0; i < 2; i++ {
		request(router, http.MethodGet, "10.0.0.1:1234")
	}

	w := request(router, http.MethodGet, "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, w.Body.String())
}

func TestRateLimit_PerClientIsolation(t *testing.T) {
	router := newRouter(newLimiterSet(1, 1, time.Now))

	assert.Equal(t, http.StatusOK, request(router, http.MethodGet, "10.0.0.1:1234").Code, "client a first request")
	assert.Equal(t, http.StatusTooManyRequests, request(router, http.MethodGet, "10.0.0.1:5678").Code, "client a second request")
	assert.Equal(t, http.StatusOK, request(router, http.MethodGet, "10.0.0.2:1234").Code, "client b first request")
}

func TestRateLimit_PreflightNotLimited(t *testing.T) {
	router := newRouter(newLimiterSet(1, 1, time.Now))

	request(router, http.MethodGet, "10.0.0.1:1234")
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, request(router, http.MethodOptions, "10.0.0.1:1234").Code, "preflight %d", i)
	}
}

func TestRateLimit_PublicConstructor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimit(1, 1))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, request(router, http.MethodGet, "10.0.0.1:1").Code)
	assert.Equal(t, http.StatusTooManyRequests, request(router, http.MethodGet, "10.0.0.1:1").Code)
}

func TestLimiterSet_EvictsIdleClients(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	set := newLimiterSet(1, 1, clock.now)

	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		require.True(t, set.allow(ip))
	}
	require.Equal(t, 3, set.size())

	// One client stays active while the others go quiet.
	clock.t = clock.t.Add(2 * time.Minute)
	set.allow("10.0.0.1")

	clock.t = clock.t.Add(2 * time.Minute)
	set.allow("10.0.0.9")

	assert.Equal(t, 2, set.size(), "only the active and the new client remain")
}

func TestLimiterSet_EvictedClientStartsWithFullBucket(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	set := newLimiterSet(0.001, 1, clock.now)

	require.True(t, set.allow("10.0.0.1"))
	require.False(t, set.allow("10.0.0.1"))

	clock.t = clock.t.Add(clientIdleTTL + sweepInterval)
	assert.True(t, set.allow("10.0.0.1"))
}

func TestLimiterSet_NoSweepBeforeInterval(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	set := newLimiterSet(1, 1, clock.now)

	set.allow("10.0.0.1")
	clock.t = clock.t.Add(30 * time.Second)
	set.allow("10.0.0.2")

	assert.Equal(t, 2, set.size())
}
