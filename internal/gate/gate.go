// Package gate decides, per configured route, whether a fresh directions
// query is due. The decision is a pure function of the clock, the route's
// scheduling rule, and the last successful run; no I/O happens here, so
// no network call is made unless every check passes.
package gate

import "time"

// Decision is the outcome of evaluating a route's scheduling rule.
type Decision int

const (
	// Run means the route is due for a fresh query.
	Run Decision = iota
	// SkipDay means today is not one of the route's active days.
	SkipDay
	// SkipWindow means the current time of day is outside the route's window.
	SkipWindow
	// SkipInterval means the route was logged too recently.
	SkipInterval
)

func (d Decision) String() string {
	switch d {
	case Run:
		return "run"
	case SkipDay:
		return "skip-day"
	case SkipWindow:
		return "skip-window"
	case SkipInterval:
		return "skip-interval"
	default:
		return "unknown"
	}
}

// Rule captures the scheduling configuration of a single route.
type Rule struct {
	// ActiveDays restricts runs to the listed weekdays. Empty means every day.
	ActiveDays []time.Weekday

	// Window restricts runs to an inclusive time-of-day range. Nil means
	// no restriction.
	Window *Window

	// IntervalMinutes is the minimum spacing between successful runs.
	IntervalMinutes float64
}

// Window is an inclusive time-of-day range.
type Window struct {
	Start Clock
	End   Clock
}

// Contains reports whether the given instant's time of day falls inside the
// window. Both bounds are inclusive.
func (w Window) Contains(t time.Time) bool {
	m := t.Hour()*60 + t.Minute()
	return m >= w.Start.minutes() && m <= w.End.minutes()
}

// Evaluate applies a route's scheduling rule at the given instant.
// Checks run in order of cost: day filter, time window, interval cooldown.
// The first failing check wins. now and lastRun must be in the same
// location; hasLastRun is false when the route has never been logged.
func Evaluate(now time.Time, rule Rule, lastRun time.Time, hasLastRun bool) Decision {
	if len(rule.ActiveDays) > 0 && !containsDay(rule.ActiveDays, now.Weekday()) {
		return SkipDay
	}
	if rule.Window != nil && !rule.Window.Contains(now) {
		return SkipWindow
	}
	if hasLastRun && now.Sub(lastRun).Minutes() < rule.IntervalMinutes {
		return SkipInterval
	}
	return Run
}

func containsDay(days []time.Weekday, d time.Weekday) bool {
	for _, day := range days {
		if day == d {
			return true
		}
	}
	return false
}
