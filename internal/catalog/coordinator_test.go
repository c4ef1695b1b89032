package catalog

import (
	"context"
	"sync"
	"testing"
	"time"

	"course-store/internal/domain"
)

// delaySearcher answers each key with a configurable delay, so tests can
// force out-of-order response arrival.
type delaySearcher struct {
	mu     sync.Mutex
	delays map[string]time.Duration
}

func (d *delaySearcher) Search(ctx context.Context, q Query) (SearchResult, error) {
	d.mu.Lock()
	delay := d.delays[q.GradeID]
	d.mu.Unlock()

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return SearchResult{}, ctx.Err()
	}
	return SearchResult{Courses: []domain.Course{{ID: "course-for-" + q.GradeID}}}, nil
}

type resultSink struct {
	mu      sync.Mutex
	results []Result
}

func (s *resultSink) take(r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
}

func (s *resultSink) snapshot() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Result(nil), s.results...)
}

func key(gradeID string) Key {
	return Key{Category: "Maths", GradeID: gradeID, DurationID: "all", Currency: "INR"}
}

// Scenario: K1 issued, then K2; K1's response arrives after K2's. Only K2
// may reach the sink.
func TestStaleResponseDiscarded(t *testing.T) {
	searcher := &delaySearcher{delays: map[string]time.Duration{
		"k1": 150 * time.Millisecond,
		"k2": 10 * time.Millisecond,
	}}
	sink := &resultSink{}

	c := NewCoordinator(context.Background(), searcher, sink.take)
	c.SetDebounce(time.Millisecond)

	c.RequestNow(key("k1"))
	time.Sleep(30 * time.Millisecond) // let k1 get in flight
	c.RequestNow(key("k2"))

	time.Sleep(300 * time.Millisecond)

	got := sink.snapshot()
	if len(got) != 1 {
		t.Fatalf("sink received %d results, want 1: %+v", len(got), got)
	}
	if got[0].Key.GradeID != "k2" {
		t.Errorf("delivered key = %q, want k2", got[0].Key.GradeID)
	}
}

// Several requests inside the debounce window collapse into one fetch for
// the last key.
func TestDebounceCoalesces(t *testing.T) {
	searcher := &delaySearcher{delays: map[string]time.Duration{}}
	sink := &resultSink{}

	c := NewCoordinator(context.Background(), searcher, sink.take)
	c.SetDebounce(50 * time.Millisecond)

	c.Request(key("a"))
	c.Request(key("b"))
	c.Request(key("c"))

	time.Sleep(200 * time.Millisecond)

	got := sink.snapshot()
	if len(got) != 1 {
		t.Fatalf("sink received %d results, want 1: %+v", len(got), got)
	}
	if got[0].Key.GradeID != "c" {
		t.Errorf("delivered key = %q, want the last requested", got[0].Key.GradeID)
	}
}

func TestRequestWithoutCurrencyIgnored(t *testing.T) {
	sink := &resultSink{}
	c := NewCoordinator(context.Background(), &delaySearcher{delays: map[string]time.Duration{}}, sink.take)
	c.SetDebounce(time.Millisecond)

	c.Request(Key{Category: "Maths"})
	c.RequestNow(Key{Category: "Maths"})
	time.Sleep(50 * time.Millisecond)

	if got := sink.snapshot(); len(got) != 0 {
		t.Fatalf("fetch fired without a currency: %+v", got)
	}
}

func TestCancelAllOrphansInFlight(t *testing.T) {
	searcher := &delaySearcher{delays: map[string]time.Duration{"slow": 80 * time.Millisecond}}
	sink := &resultSink{}

	c := NewCoordinator(context.Background(), searcher, sink.take)
	c.RequestNow(key("slow"))
	time.Sleep(20 * time.Millisecond)
	c.CancelAll() // category changed / navigated away

	time.Sleep(150 * time.Millisecond)
	if got := sink.snapshot(); len(got) != 0 {
		t.Fatalf("canceled fetch still delivered: %+v", got)
	}
}
