package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

type fakeBroker struct{ healthy bool }

func (b fakeBroker) Healthy() bool { return b.healthy }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name   string
		db     Pinger
		broker BrokerStatus
		status int
		state  string
		deps   map[string]string
	}{
		{"all healthy", fakePinger{}, fakeBroker{healthy: true}, http.StatusOK, "healthy",
			map[string]string{"database": "healthy", "rabbitmq": "healthy"}},
		{"database down", fakePinger{err: errors.New("connection refused")}, fakeBroker{healthy: true}, http.StatusServiceUnavailable, "degraded",
			map[string]string{"database": "unhealthy: connection refused", "rabbitmq": "healthy"}},
		{"broker closed", fakePinger{}, fakeBroker{healthy: false}, http.StatusServiceUnavailable, "degraded",
			map[string]string{"database": "healthy", "rabbitmq": "unhealthy: conexão fechada"}},
		{"broker not configured", fakePinger{}, nil, http.StatusOK, "healthy",
			map[string]string{"database": "healthy", "rabbitmq": "not configured"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.db, tt.broker)
			w := httptest.NewRecorder()
			h.Handle(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.status, w.Code)
			var body HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.state, body.Status)
			assert.Equal(t, tt.deps, body.Dependencies)
		})
	}
}
