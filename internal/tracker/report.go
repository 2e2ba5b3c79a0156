package tracker

import "time"

// Report summarizes one tracker pass for the CLI and HTTP boundaries.
type Report struct {
	PassID     string        `json:"pass_id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Duration   time.Duration `json:"-"`
	Results    []RouteResult `json:"results"`
}

// RouteResult is the outcome of one route within a pass.
type RouteResult struct {
	Route    string `json:"route"`
	Decision string `json:"decision"`
	Records  int    `json:"records_appended"`
	Error    string `json:"error,omitempty"`
}

// Finish stamps the end of the pass.
func (r *Report) Finish(at time.Time) {
	r.FinishedAt = at
	r.Duration = at.Sub(r.StartedAt)
}

// RecordsAppended returns the total records appended across all routes.
func (r *Report) RecordsAppended() int {
	total := 0
	for _, res := range r.Results {
		total += res.Records
	}
	return total
}

// FailedRoutes returns the number of routes that hit an error this pass.
func (r *Report) FailedRoutes() int {
	failed := 0
	for _, res := range r.Results {
		if res.Error != "" {
			failed++
		}
	}
	return failed
}
