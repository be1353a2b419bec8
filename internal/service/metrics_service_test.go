package service

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsSnapshotAggregates(t *testing.T) {
	m := NewMetricsService()

	m.ObserveUpdate("message", nil, 10*time.Millisecond)
	m.ObserveUpdate("callback", errors.New("boom"), 10*time.Millisecond)
	m.ObserveRemoteCall(http.MethodGet, "/api/group", http.StatusOK, 20*time.Millisecond)
	m.ObserveRemoteCall(http.MethodGet, "/api/group", http.StatusBadGateway, 40*time.Millisecond)
	m.RecordCacheLookup("groups", true)
	m.RecordCacheLookup("groups", true)
	m.RecordCacheLookup("groups", true)
	m.RecordCacheLookup("groups", false)

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.UpdatesHandled)
	assert.Equal(t, uint64(1), snap.UpdatesFailed)
	assert.Equal(t, uint64(2), snap.RemoteCalls)
	assert.Equal(t, uint64(1), snap.RemoteFailures)
	assert.InDelta(t, 30.0, snap.AverageRemoteDurationMs, 0.001)
	assert.InDelta(t, 0.75, snap.CacheHitRatio, 0.001)
}

func TestMetricsHandlerExposesCollectors(t *testing.T) {
	m := NewMetricsService()
	m.ObserveUpdate("message", nil, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bot_updates_total")
}

func TestMetricsNilSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveUpdate("message", nil, time.Millisecond)
	m.RecordCacheLookup("groups", true)
	assert.Zero(t, m.Snapshot().UpdatesHandled)
}
