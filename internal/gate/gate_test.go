package gate

import (
	"testing"
	"time"
)

// 2024-01-02 was a Tuesday.
func tuesdayAt(hour, minute int) time.Time {
	return time.Date(2024, 1, 2, hour, minute, 0, 0, time.UTC)
}

func window(startH, startM, endH, endM int) *Window {
	return &Window{
		Start: Clock{Hour: startH, Minute: startM},
		End:   Clock{Hour: endH, Minute: endM},
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		rule       Rule
		lastRun    time.Time
		hasLastRun bool
		want       Decision
	}{
		{
			name: "no restrictions, no prior run",
			now:  tuesdayAt(8, 0),
			rule: Rule{IntervalMinutes: 15},
			want: Run,
		},
		{
			name: "day not active skips regardless of window and interval",
			now:  tuesdayAt(8, 0),
			rule: Rule{
				ActiveDays:      []time.Weekday{time.Monday, time.Wednesday},
				Window:          window(7, 0, 9, 30),
				IntervalMinutes: 15,
			},
			lastRun:    tuesdayAt(7, 55), // would also trip the interval check
			hasLastRun: true,
			want:       SkipDay,
		},
		{
			name: "inside window with day allowed and interval elapsed",
			now:  tuesdayAt(8, 0),
			rule: Rule{
				ActiveDays:      []time.Weekday{time.Tuesday},
				Window:          window(7, 0, 9, 30),
				IntervalMinutes: 15,
			},
			lastRun:    tuesdayAt(7, 40),
			hasLastRun: true,
			want:       Run,
		},
		{
			name: "before window start",
			now:  tuesdayAt(6, 59),
			rule: Rule{Window: window(7, 0, 9, 30), IntervalMinutes: 15},
			want: SkipWindow,
		},
		{
			name: "window start boundary is inclusive",
			now:  tuesdayAt(7, 0),
			rule: Rule{Window: window(7, 0, 9, 30), IntervalMinutes: 15},
			want: Run,
		},
		{
			name: "window end boundary is inclusive",
			now:  tuesdayAt(9, 30),
			rule: Rule{Window: window(7, 0, 9, 30), IntervalMinutes: 15},
			want: Run,
		},
		{
			name: "after window end",
			now:  tuesdayAt(9, 31),
			rule: Rule{Window: window(7, 0, 9, 30), IntervalMinutes: 15},
			want: SkipWindow,
		},
		{
			name:       "last run too recent",
			now:        tuesdayAt(8, 0),
			rule:       Rule{IntervalMinutes: 15},
			lastRun:    tuesdayAt(7, 55),
			hasLastRun: true,
			want:       SkipInterval,
		},
		{
			name:       "interval exactly elapsed runs",
			now:        tuesdayAt(8, 0),
			rule:       Rule{IntervalMinutes: 15},
			lastRun:    tuesdayAt(7, 45),
			hasLastRun: true,
			want:       Run,
		},
		{
			name:       "fractional interval",
			now:        tuesdayAt(8, 0),
			rule:       Rule{IntervalMinutes: 0.5},
			lastRun:    tuesdayAt(8, 0).Add(-20 * time.Second),
			hasLastRun: true,
			want:       SkipInterval,
		},
		{
			name: "empty active days means every day",
			now:  tuesdayAt(8, 0),
			rule: Rule{ActiveDays: nil, IntervalMinutes: 15},
			want: Run,
		},
		{
			name: "window check precedes interval check",
			now:  tuesdayAt(6, 0),
			rule: Rule{
				Window:          window(7, 0, 9, 30),
				IntervalMinutes: 15,
			},
			lastRun:    tuesdayAt(5, 58),
			hasLastRun: true,
			want:       SkipWindow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.now, tt.rule, tt.lastRun, tt.hasLastRun)
			if got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecisionString(t *testing.T) {
	tests := []struct {
		decision Decision
		want     string
	}{
		{Run, "run"},
		{SkipDay, "skip-day"},
		{SkipWindow, "skip-window"},
		{SkipInterval, "skip-interval"},
		{Decision(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.decision.String(); got != tt.want {
			t.Errorf("Decision(%d).String() = %q, want %q", tt.decision, got, tt.want)
		}
	}
}

func TestWindowContains(t *testing.T) {
	w := window(7, 0, 9, 30)

	if !w.Contains(tuesdayAt(8, 15)) {
		t.Error("expected 08:15 inside 07:00-09:30")
	}
	if w.Contains(tuesdayAt(10, 0)) {
		t.Error("expected 10:00 outside 07:00-09:30")
	}
	// Seconds within the end minute still count as inside.
	endish := time.Date(2024, 1, 2, 9, 30, 45, 0, time.UTC)
	if !w.Contains(endish) {
		t.Error("expected 09:30:45 inside 07:00-09:30")
	}
}
