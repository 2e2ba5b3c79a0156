// Package tracker orchestrates one logging pass over all configured routes:
// gate evaluation, directions fetch, record normalization, durable append,
// and the run-state commit.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nward/commutetrack/internal/config"
	"github.com/nward/commutetrack/internal/directions"
	"github.com/nward/commutetrack/internal/gate"
	"github.com/nward/commutetrack/internal/record"
	"github.com/nward/commutetrack/internal/store"
)

// DirectionsFetcher is the provider dependency of the tracker.
type DirectionsFetcher interface {
	FetchAlternatives(ctx context.Context, origin, destination string) ([]directions.Alternative, error)
}

// Tracker runs sequential passes over the configured routes. One pass
// processes every route exactly once; cross-invocation state lives entirely
// in the store.
type Tracker struct {
	routes []config.Route
	client DirectionsFetcher
	store  store.Store
	loc    *time.Location
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Tracker. loc is the fixed timezone all timestamps are
// recorded and compared in.
func New(routes []config.Route, client DirectionsFetcher, st store.Store, loc *time.Location, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		routes: routes,
		client: client,
		store:  st,
		loc:    loc,
		logger: logger,
		now:    time.Now,
	}
}

// Run executes one pass: for each route in order, evaluate the gate, fetch
// and normalize alternatives on a run decision, append the records, then
// commit the route's last-run timestamp. Failures inside one route never
// prevent subsequent routes from being attempted. The returned error is
// non-nil only when the pass was cut short by context cancellation.
func (t *Tracker) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		PassID:    uuid.New().String(),
		StartedAt: t.now().In(t.loc),
	}

	t.logger.Info("starting tracker pass", "pass_id", report.PassID, "routes", len(t.routes))

	for i := range t.routes {
		select {
		case <-ctx.Done():
			report.Finish(t.now().In(t.loc))
			return report, ctx.Err()
		default:
		}
		report.Results = append(report.Results, t.processRoute(ctx, &t.routes[i]))
	}

	report.Finish(t.now().In(t.loc))
	t.logger.Info("tracker pass completed",
		"pass_id", report.PassID,
		"records_appended", report.RecordsAppended(),
		"failed_routes", report.FailedRoutes(),
		"duration_ms", report.Duration.Milliseconds())

	return report, nil
}

// processRoute runs the full pipeline for a single route. now is taken once,
// truncated to the minute, and used for the gate, every record, and the
// run-state commit.
func (t *Tracker) processRoute(ctx context.Context, route *config.Route) RouteResult {
	now := t.now().In(t.loc).Truncate(time.Minute)
	result := RouteResult{Route: route.Name}

	lastRun, hasLastRun, err := t.store.LastRun(route.Name)
	if err != nil {
		// Data-quality problem, not fatal: treat the route as never logged.
		t.logger.Warn("could not read last run, treating as absent",
			"route", route.Name, "error", err)
		hasLastRun = false
	}

	decision := gate.Evaluate(now, route.Rule(), lastRun, hasLastRun)
	result.Decision = decision.String()
	if decision != gate.Run {
		t.logger.Debug("skipping route",
			"route", route.Name,
			"decision", decision.String(),
			"last_run", lastRun)
		return result
	}

	alts, err := t.client.FetchAlternatives(ctx, route.Origin, route.Destination)
	if err != nil {
		// Transient provider error: no data this cycle, run state untouched.
		t.logger.Warn("directions fetch failed", "route", route.Name, "error", err)
		result.Error = fmt.Sprintf("fetch failed: %v", err)
		return result
	}
	if len(alts) == 0 {
		t.logger.Warn("no routes found", "route", route.Name)
		return result
	}

	recs := make([]record.CommuteRecord, 0, len(alts))
	for _, alt := range alts {
		recs = append(recs, record.Normalize(alt, now))
	}

	if err := t.store.AppendRecords(route.Name, recs); err != nil {
		// Run state stays at its pre-run value so the next invocation
		// re-evaluates this route as eligible.
		t.logger.Error("failed to append records", "route", route.Name, "error", err)
		result.Error = fmt.Sprintf("append failed: %v", err)
		return result
	}
	result.Records = len(recs)

	if err := t.store.SetLastRun(route.Name, now); err != nil {
		// Records are durable; at worst the next pass logs this route again
		// before the interval elapses.
		t.logger.Warn("failed to update last run", "route", route.Name, "error", err)
		result.Error = fmt.Sprintf("last-run update failed: %v", err)
		return result
	}

	t.logger.Info("route logged",
		"route", route.Name,
		"alternatives", len(recs),
		"timestamp", now)
	return result
}
