package tracker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/nward/commutetrack/internal/config"
	"github.com/nward/commutetrack/internal/directions"
	"github.com/nward/commutetrack/internal/record"
)

var testLoc = time.FixedZone("CST", -6*60*60)

// fakeFetcher returns canned alternatives and records what it was asked for.
type fakeFetcher struct {
	alts  []directions.Alternative
	err   error
	calls int

	origin      string
	destination string
}

func (f *fakeFetcher) FetchAlternatives(_ context.Context, origin, destination string) ([]directions.Alternative, error) {
	f.calls++
	f.origin = origin
	f.destination = destination
	return f.alts, f.err
}

// fakeStore is an in-memory Store with injectable failures.
type fakeStore struct {
	lastRuns map[string]time.Time
	appended map[string][]record.CommuteRecord

	lastRunErr      error
	appendErr       error
	setLastRunErr   error
	setLastRunCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		lastRuns: make(map[string]time.Time),
		appended: make(map[string][]record.CommuteRecord),
	}
}

func (s *fakeStore) AppendRecords(routeName string, recs []record.CommuteRecord) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.appended[routeName] = append(s.appended[routeName], recs...)
	return nil
}

func (s *fakeStore) LastRun(routeName string) (time.Time, bool, error) {
	if s.lastRunErr != nil {
		return time.Time{}, false, s.lastRunErr
	}
	t, ok := s.lastRuns[routeName]
	return t, ok, nil
}

func (s *fakeStore) SetLastRun(routeName string, t time.Time) error {
	s.setLastRunCalls++
	if s.setLastRunErr != nil {
		return s.setLastRunErr
	}
	s.lastRuns[routeName] = t
	return nil
}

func (s *fakeStore) Close() error { return nil }

func testRoute() config.Route {
	return config.Route{
		Name:            "Home→Work",
		Origin:          "1600 Amphitheatre Pkwy",
		Destination:     "1 Infinite Loop",
		IntervalMinutes: 15,
	}
}

func testAlternatives() []directions.Alternative {
	return []directions.Alternative{
		{
			Summary:                "I-90",
			DurationSeconds:        1800,
			TrafficDurationSeconds: 2100,
			DistanceMeters:         16093,
			Steps:                  []string{"Turn left", "Merge onto I-90"},
		},
		{
			Summary:         "US-20",
			DurationSeconds: 2400,
			DistanceMeters:  19312,
			Steps:           []string{"Head north"},
		},
	}
}

// newTestTracker builds a tracker with a pinned clock. The pinned instant is
// 30s past the minute so truncation is observable.
func newTestTracker(routes []config.Route, f *fakeFetcher, s *fakeStore) (*Tracker, time.Time) {
	tr := New(routes, f, s, testLoc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	at := time.Date(2024, 1, 2, 8, 0, 30, 0, testLoc)
	tr.now = func() time.Time { return at }
	return tr, at.Truncate(time.Minute)
}

func TestRun_FirstRunLogsAndCommitsState(t *testing.T) {
	fetcher := &fakeFetcher{alts: testAlternatives()}
	st := newFakeStore()
	tr, wantNow := newTestTracker([]config.Route{testRoute()}, fetcher, st)

	report, err := tr.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(report.Results) != 1 {
		t.Fatalf("got %d results, want 1", len(report.Results))
	}

	res := report.Results[0]
	if res.Decision != "run" || res.Records != 2 || res.Error != "" {
		t.Errorf("result = %+v, want run with 2 records and no error", res)
	}
	if fetcher.origin != "1600 Amphitheatre Pkwy" || fetcher.destination != "1 Infinite Loop" {
		t.Errorf("fetched (%q, %q), want the route's endpoints", fetcher.origin, fetcher.destination)
	}

	recs := st.appended["Home→Work"]
	if len(recs) != 2 {
		t.Fatalf("got %d appended records, want 2", len(recs))
	}
	first := recs[0]
	if !first.Timestamp.Equal(wantNow) {
		t.Errorf("record timestamp = %v, want minute-truncated %v", first.Timestamp, wantNow)
	}
	if first.Day != "Tuesday" || first.RouteLabel != "I-90" {
		t.Errorf("record = %+v, want Tuesday via I-90", first)
	}
	if first.DurationMinutes != 35.0 {
		t.Errorf("duration = %v, want 35.0 from the traffic estimate", first.DurationMinutes)
	}
	if first.DistanceMiles != 10.0 {
		t.Errorf("distance = %v, want 10.0", first.DistanceMiles)
	}
	if first.Directions != "Turn left → Merge onto I-90" {
		t.Errorf("directions = %q", first.Directions)
	}

	got, ok := st.lastRuns["Home→Work"]
	if !ok || !got.Equal(wantNow) {
		t.Errorf("last run = %v (present %v), want %v", got, ok, wantNow)
	}
	if report.RecordsAppended() != 2 {
		t.Errorf("RecordsAppended() = %d, want 2", report.RecordsAppended())
	}
}

func TestRun_SkipsWithinInterval(t *testing.T) {
	fetcher := &fakeFetcher{alts: testAlternatives()}
	st := newFakeStore()
	tr, wantNow := newTestTracker([]config.Route{testRoute()}, fetcher, st)

	prev := wantNow.Add(-5 * time.Minute)
	st.lastRuns["Home→Work"] = prev

	report, err := tr.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	res := report.Results[0]
	if res.Decision != "skip-interval" || res.Records != 0 {
		t.Errorf("result = %+v, want a skip-interval with no records", res)
	}
	if fetcher.calls != 0 {
		t.Errorf("fetcher called %d times on a skip", fetcher.calls)
	}
	if got := st.lastRuns["Home→Work"]; !got.Equal(prev) {
		t.Errorf("last run changed to %v on a skip", got)
	}
}

func TestRun_FetchErrorLeavesStateUntouched(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	st := newFakeStore()
	tr, _ := newTestTracker([]config.Route{testRoute()}, fetcher, st)

	report, err := tr.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	res := report.Results[0]
	if res.Error == "" || res.Records != 0 {
		t.Errorf("result = %+v, want a fetch error with no records", res)
	}
	if len(st.appended) != 0 || st.setLastRunCalls != 0 {
		t.Error("store was written despite the fetch failing")
	}
	if report.FailedRoutes() != 1 {
		t.Errorf("FailedRoutes() = %d, want 1", report.FailedRoutes())
	}
}

func TestRun_NoAlternativesLeavesStateUntouched(t *testing.T) {
	fetcher := &fakeFetcher{}
	st := newFakeStore()
	tr, _ := newTestTracker([]config.Route{testRoute()}, fetcher, st)

	report, err := tr.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	res := report.Results[0]
	if res.Decision != "run" || res.Records != 0 || res.Error != "" {
		t.Errorf("result = %+v, want a clean zero-record run", res)
	}
	if len(st.appended) != 0 || st.setLastRunCalls != 0 {
		t.Error("store was written despite there being no data")
	}
}

func TestRun_AppendFailureSkipsStateCommit(t *testing.T) {
	fetcher := &fakeFetcher{alts: testAlternatives()}
	st := newFakeStore()
	st.appendErr = errors.New("disk full")
	tr, _ := newTestTracker([]config.Route{testRoute()}, fetcher, st)

	report, err := tr.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	res := report.Results[0]
	if res.Error == "" || res.Records != 0 {
		t.Errorf("result = %+v, want an append error with no records counted", res)
	}
	if st.setLastRunCalls != 0 {
		t.Error("last run committed despite the append failing")
	}
}

func TestRun_LastRunReadErrorTreatedAsAbsent(t *testing.T) {
	fetcher := &fakeFetcher{alts: testAlternatives()}
	st := newFakeStore()
	st.lastRunErr = errors.New("corrupt row")
	tr, wantNow := newTestTracker([]config.Route{testRoute()}, fetcher, st)

	report, err := tr.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	res := report.Results[0]
	if res.Decision != "run" || res.Records != 2 {
		t.Errorf("result = %+v, want the route treated as never logged", res)
	}
	if st.setLastRunCalls != 1 {
		t.Errorf("SetLastRun called %d times, want 1", st.setLastRunCalls)
	}
	if got := st.lastRuns["Home→Work"]; !got.Equal(wantNow) {
		t.Errorf("last run = %v, want %v", got, wantNow)
	}
}

func TestRun_RouteFailureDoesNotStopThePass(t *testing.T) {
	fetcher := &fakeFetcher{alts: testAlternatives()}
	st := newFakeStore()
	st.lastRuns["Home→Work"] = time.Date(2024, 1, 2, 7, 58, 0, 0, testLoc)

	second := testRoute()
	second.Name = "Work→Home"
	second.Origin, second.Destination = second.Destination, second.Origin

	tr, _ := newTestTracker([]config.Route{testRoute(), second}, fetcher, st)

	report, err := tr.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(report.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(report.Results))
	}
	if report.Results[0].Decision != "skip-interval" {
		t.Errorf("first route decision = %q, want skip-interval", report.Results[0].Decision)
	}
	if report.Results[1].Records != 2 {
		t.Errorf("second route records = %d, want 2", report.Results[1].Records)
	}
}

func TestRun_CancelledContextCutsThePassShort(t *testing.T) {
	fetcher := &fakeFetcher{alts: testAlternatives()}
	st := newFakeStore()
	tr, _ := newTestTracker([]config.Route{testRoute()}, fetcher, st)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := tr.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if report == nil || len(report.Results) != 0 {
		t.Errorf("report = %+v, want an empty cut-short report", report)
	}
	if fetcher.calls != 0 {
		t.Errorf("fetcher called %d times after cancellation", fetcher.calls)
	}
}
