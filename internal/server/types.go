package server

import (
	"time"

	"github.com/nward/commutetrack/internal/tracker"
)

// RunResponse is the body returned by a successful GET /run.
type RunResponse struct {
	Message string          `json:"message"`
	Report  *tracker.Report `json:"report"`
}

// RouteStatus describes a configured route and its run state.
type RouteStatus struct {
	Name            string     `json:"name"`
	Origin          string     `json:"origin"`
	Destination     string     `json:"destination"`
	IntervalMinutes float64    `json:"interval_minutes"`
	LastRun         *time.Time `json:"last_run,omitempty"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}
