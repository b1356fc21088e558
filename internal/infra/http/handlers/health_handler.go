package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

const healthCheckTimeout = 2 * time.Second

var errBrokerClosed = errors.New("conexão fechada")

// Pinger é satisfeito por *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// BrokerStatus é satisfeito por *queue.RabbitMQ.
type BrokerStatus interface {
	Healthy() bool
}

type dependencyCheck struct {
	name  string
	check func(ctx context.Context) error
}

type HealthHandler struct {
	checks  []dependencyCheck
	started time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

// NewHealthHandler verifica o banco e o broker; dependência nil aparece
// como "not configured" e não degrada o serviço.
func NewHealthHandler(db Pinger, broker BrokerStatus) *HealthHandler {
	h := &HealthHandler{started: time.Now()}
	if db != nil {
		h.checks = append(h.checks, dependencyCheck{"database", db.PingContext})
	} else {
		h.checks = append(h.checks, dependencyCheck{name: "database"})
	}
	if broker != nil {
		h.checks = append(h.checks, dependencyCheck{"rabbitmq", func(context.Context) error {
			if !broker.Healthy() {
				return errBrokerClosed
			}
			return nil
		}})
	} else {
		h.checks = append(h.checks, dependencyCheck{name: "rabbitmq"})
	}
	return h
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:       "healthy",
		Uptime:       time.Since(h.started).Round(time.Second).String(),
		Dependencies: make(map[string]string, len(h.checks)),
	}
	for _, c := range h.checks {
		if c.check == nil {
			resp.Dependencies[c.name] = "not configured"
			continue
		}
		if err := c.check(ctx); err != nil {
			resp.Dependencies[c.name] = "unhealthy: " + err.Error()
			resp.Status = "degraded"
			continue
		}
		resp.Dependencies[c.name] = "healthy"
	}

	code := http.StatusOK
	if resp.Status == "degraded" {
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(resp)
}
