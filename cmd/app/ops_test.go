package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gemtrader/pkg/metrics"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestOpsRouter_Health(t *testing.T) {
	tests := []struct {
		name       string
		db         pinger
		wantCode   int
		wantStatus string
	}{
		{"memory backend", nil, http.StatusOK, "healthy"},
		{"database up", stubPinger{}, http.StatusOK, "healthy"},
		{"database down", stubPinger{err: errors.New("refused")}, http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newOpsRouter(tt.db, "test", metrics.New())
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body["status"])
			assert.Equal(t, "test", body["storage"])
		})
	}
}

func TestOpsRouter_Metrics(t *testing.T) {
	m := metrics.New()
	m.TradesTotal.WithLabelValues("BUY", "ok").Inc()

	rec := httptest.NewRecorder()
	newOpsRouter(nil, "memory", m).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `gemtrader_trades_total{result="ok",side="BUY"} 1`))
}
