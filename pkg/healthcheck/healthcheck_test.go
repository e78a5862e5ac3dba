package healthcheck

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingChecker struct {
	status Status
	calls  atomic.Int32
}

func (c *countingChecker) Check(context.Context) Check {
	c.calls.Add(1)
	return Check{Status: c.status, LastChecked: time.Now()}
}

func TestHealthCheck_Check_NoCheckers(t *testing.T) {
	hc := New("1.0.0", zap.NewNop())

	response := hc.Check(context.Background())

	assert.Equal(t, StatusHealthy, response.Status)
	assert.Equal(t, "1.0.0", response.Version)
	assert.Empty(t, response.Checks)
}

func TestHealthCheck_Check_AggregatesWorstStatus(t *testing.T) {
	cases := map[string]struct {
		statuses []Status
		want     Status
	}{
		"AllHealthy":      {statuses: []Status{StatusHealthy, StatusHealthy}, want: StatusHealthy},
		"OneDegraded":     {statuses: []Status{StatusHealthy, StatusDegraded}, want: StatusDegraded},
		"UnhealthyWins":   {statuses: []Status{StatusDegraded, StatusUnhealthy}, want: StatusUnhealthy},
		"SingleUnhealthy": {statuses: []Status{StatusUnhealthy}, want: StatusUnhealthy},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			hc := New("1.0.0", zap.NewNop())
			for i, s := range tc.statuses {
				hc.Register(string(rune('a'+i)), &countingChecker{status: s})
			}

			response := hc.Check(context.Background())

			assert.Equal(t, tc.want, response.Status)
			require.Len(t, response.Checks, len(tc.statuses))
			assert.Equal(t, "a", response.Checks[0].Name)
		})
	}
}

func TestHealthCheck_Check_UsesCache(t *testing.T) {
	hc := New("1.0.0", zap.NewNop())
	checker := &countingChecker{status: StatusHealthy}
	hc.Register("db", checker)

	hc.Check(context.Background())
	hc.Check(context.Background())
	assert.Equal(t, int32(1), checker.calls.Load())

	hc.SetCacheTTL(0)
	hc.Check(context.Background())
	assert.Equal(t, int32(2), checker.calls.Load())
}

func TestPingChecker(t *testing.T) {
	ok := NewPingChecker(func(context.Context) error { return nil }).Check(context.Background())
	assert.Equal(t, StatusHealthy, ok.Status)

	failed := NewPingChecker(func(context.Context) error { return errors.New("connection refused") }).Check(context.Background())
	assert.Equal(t, StatusUnhealthy, failed.Status)
	assert.Equal(t, "connection refused", failed.Message)
}

func TestHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Liveness_ShouldReportAlive", func(t *testing.T) {
		r := gin.New()
		r.GET("/alive", New("1.0.0", zap.NewNop()).LivenessHandler())

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/alive", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, AliveMessage, rec.Body.String())
	})

	t.Run("Readiness_UnhealthyShouldBe503", func(t *testing.T) {
		hc := New("1.0.0", zap.NewNop())
		hc.Register("database", NewPingChecker(func(context.Context) error { return errors.New("down") }))
		r := gin.New()
		r.GET("/ready", hc.ReadinessHandler())

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "unhealthy", body["status"])
	})

	t.Run("Readiness_DegradedShouldBe200", func(t *testing.T) {
		hc := New("1.0.0", zap.NewNop())
		hc.Register("cache", &countingChecker{status: StatusDegraded})
		r := gin.New()
		r.GET("/ready", hc.ReadinessHandler())

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
