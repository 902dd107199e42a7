package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

var startTime = time.Now()

// HealthChecker tracks liveness of the watch loop for the health endpoint.
type HealthChecker struct {
	mu        sync.RWMutex
	lastCheck time.Time
	lastPrice float64
	errors    []string
}

// HealthStatus is the JSON body served by the health endpoint.
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	LastCheck time.Time `json:"last_check"`
	LastPrice float64   `json:"last_price"`
	Uptime    string    `json:"uptime"`
	Errors    []string  `json:"errors,omitempty"`
}

// NewHealthChecker creates an empty health checker.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		errors: make([]string, 0),
	}
}

// MarkCheck records a successful poll cycle.
func (h *HealthChecker) MarkCheck(price float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastCheck = time.Now()
	h.lastPrice = price
	h.errors = h.errors[:0]
}

// MarkError records a poll failure.
func (h *HealthChecker) MarkError(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, msg)
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	code := http.StatusOK
	if h.lastCheck.IsZero() || time.Since(h.lastCheck) > time.Hour {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	if len(h.errors) > 0 {
		status = "unhealthy"
		code = http.StatusInternalServerError
	}

	health := HealthStatus{
		Status:    status,
		Timestamp: time.Now(),
		LastCheck: h.lastCheck,
		LastPrice: h.lastPrice,
		Uptime:    time.Since(startTime).String(),
		Errors:    h.errors,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(health)
}
