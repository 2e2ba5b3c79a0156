package server

import (
	"encoding/json"
	"net/http"
)

const version = "v0.1.0"

// handleRun executes one tracker pass and reports the outcome. Per-route
// skips and failures are part of a successful invocation; only a pass that
// could not complete maps to a server error.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	report, err := s.runner.Run(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "tracker pass failed", err)
		return
	}

	s.writeJSON(w, http.StatusOK, RunResponse{
		Message: "commute tracker executed successfully",
		Report:  report,
	})
}

// handleHealth returns the health status of the server.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: version,
		Uptime:  s.uptime(),
	})
}

// handleListRoutes returns the configured routes with their last-run state.
func (s *Server) handleListRoutes(w http.ResponseWriter, r *http.Request) {
	statuses := make([]RouteStatus, 0, len(s.routes))
	for _, route := range s.routes {
		status := RouteStatus{
			Name:            route.Name,
			Origin:          route.Origin,
			Destination:     route.Destination,
			IntervalMinutes: route.IntervalMinutes,
		}

		last, ok, err := s.store.LastRun(route.Name)
		if err != nil {
			s.logger.Warn("could not read last run", "route", route.Name, "error", err)
		} else if ok {
			t := last
			status.LastRun = &t
		}

		statuses = append(statuses, status)
	}

	s.writeJSON(w, http.StatusOK, statuses)
}

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, message string, err error) {
	response := ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}

	if err != nil {
		response.Message = message + ": " + err.Error()
		s.logger.Error("API error", "status", status, "message", message, "error", err)
	}

	s.writeJSON(w, status, response)
}
