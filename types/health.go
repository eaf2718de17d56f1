package types

import "net/http"

// HealthStatus is the state of one component or of the whole board.
type HealthStatus string

// DEGRADED means submissions still work but peers may not see invalidations and
// rate limiting is off.
const (
	HealthStatusUp       HealthStatus = "UP"
	HealthStatusDown     HealthStatus = "DOWN"
	HealthStatusDegraded HealthStatus = "DEGRADED"
)

// Component names reported by the health endpoints.
const (
	ComponentCommentsStore = "comments_store"
	ComponentFeedbackStore = "feedback_store"
	ComponentRedis         = "redis"
)

// HTTPStatus maps a status to the code health endpoints respond with. Only a
// board that cannot read its record logs is unavailable.
func (s HealthStatus) HTTPStatus() int {
	if s == HealthStatusDown {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

type HealthComponent struct {
	Status  HealthStatus `json:"status"`
	Details string       `json:"details,omitempty"`
}

// HealthCheck is the body of the readiness and detailed health endpoints.
type HealthCheck struct {
	Status     HealthStatus               `json:"status"`
	Components map[string]HealthComponent `json:"components"`
	Version    string                     `json:"version"`
	Timestamp  string                     `json:"timestamp"`
	Uptime     string                     `json:"uptime"`
}

// DownComponents returns the names of the components reporting DOWN.
func (h HealthCheck) DownComponents() []string {
	var down []string
	for name, c := range h.Components {
		if c.Status == HealthStatusDown {
			down = append(down, name)
		}
	}
	return down
}
