// Package healthcheck provides dependency health aggregation. Checks
// run concurrently with their own deadlines so one slow dependency
// cannot stall the rest.
package healthcheck

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status represents the health status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// Check represents a single dependency check result
type Check struct {
	Name        string        `json:"name"`
	Status      Status        `json:"status"`
	Message     string        `json:"message,omitempty"`
	LastChecked time.Time     `json:"last_checked"`
	Duration    time.Duration `json:"duration_ms"`

	// Critical marks checks whose failure makes the whole service
	// unhealthy rather than degraded.
	Critical bool `json:"-"`
}

// Response represents the aggregated health check response
type Response struct {
	Status        Status        `json:"status"`
	Version       string        `json:"version"`
	Timestamp     time.Time     `json:"timestamp"`
	Checks        []Check       `json:"checks"`
	TotalDuration time.Duration `json:"total_duration_ms"`
}

// Checker defines the interface for health checks
type Checker interface {
	Check(ctx context.Context) Check
}

// CheckerFunc adapts a function to the Checker interface
type CheckerFunc func(ctx context.Context) Check

// Check implements Checker
func (f CheckerFunc) Check(ctx context.Context) Check { return f(ctx) }

// HealthCheck manages registered checkers
type HealthCheck struct {
	version  string
	logger   *zap.Logger
	mu       sync.RWMutex
	checkers map[string]Checker
}

// New creates a new health check instance
func New(version string, logger *zap.Logger) *HealthCheck {
	return &HealthCheck{
		version:  version,
		logger:   logger.Named("healthcheck"),
		checkers: make(map[string]Checker),
	}
}

// Register registers a health checker
func (h *HealthCheck) Register(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
}

// Check runs all registered checkers concurrently and aggregates their
// results. Any critical failure yields unhealthy; a non-critical
// failure yields degraded.
func (h *HealthCheck) Check(ctx context.Context) Response {
	h.mu.RLock()
	checkers := make(map[string]Checker, len(h.checkers))
	for name, c := range h.checkers {
		checkers[name] = c
	}
	h.mu.RUnlock()

	started := time.Now()
	results := make(chan Check, len(checkers))

	var wg sync.WaitGroup
	for name, checker := range checkers {
		wg.Add(1)
		go func(name string, checker Checker) {
			defer wg.Done()

			checkStart := time.Now()
			check := checker.Check(ctx)
			check.Name = name
			check.LastChecked = checkStart
			check.Duration = time.Since(checkStart)
			results <- check
		}(name, checker)
	}
	wg.Wait()
	close(results)

	response := Response{
		Status:    StatusHealthy,
		Version:   h.version,
		Timestamp: started,
	}
	for check := range results {
		response.Checks = append(response.Checks, check)

		if check.Status == StatusHealthy {
			continue
		}
		if check.Critical {
			response.Status = StatusUnhealthy
		} else if response.Status == StatusHealthy {
			response.Status = StatusDegraded
		}
		h.logger.Warn("Dependency check failed",
			zap.String("check", check.Name),
			zap.String("status", string(check.Status)),
			zap.String("message", check.Message))
	}
	response.TotalDuration = time.Since(started)

	return response
}
