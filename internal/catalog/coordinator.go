package catalog

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// ErrStale marks a response discarded by the sequence check. Logged, never
// surfaced to the view.
var ErrStale = errors.New("catalog: stale response discarded")

// Key identifies one fetch request. Two debounced requests race when the
// filters change quickly; only the response for the latest key may land.
type Key struct {
	Category   string
	GradeID    string
	DurationID string
	Currency   string
	Page       int
}

// Result is delivered to the coordinator's sink once per non-stale fetch.
type Result struct {
	Key  Key
	Data SearchResult
	Err  error
}

// DefaultDebounce is the quiescence window applied between a filter change
// and the fetch it triggers, so several filters changing together fire one
// request.
const DefaultDebounce = 250 * time.Millisecond

// Coordinator issues parameterized fetches and guarantees ordering: each
// request is stamped with a monotonically increasing sequence number, and a
// response is dropped unless its stamp is still the latest issued. A fetch
// started for key A can therefore never overwrite state requested under a
// later key B, whatever order the responses arrive in.
type Coordinator struct {
	client   Searcher
	sink     func(Result)
	debounce time.Duration

	mu      sync.Mutex
	pending *Key
	timer   *time.Timer
	seq     uint64 // stamp of the latest issued fetch
	ctx     context.Context

	// sinkMu serializes the staleness check with the sink call, so a
	// descheduled older fetch can never deliver after a newer one.
	sinkMu sync.Mutex
}

// NewCoordinator wires a coordinator to its client and result sink. The
// sink is called from fetch goroutines; the page session serializes behind
// its own lock.
func NewCoordinator(ctx context.Context, client Searcher, sink func(Result)) *Coordinator {
	return &Coordinator{
		client:   client,
		sink:     sink,
		debounce: DefaultDebounce,
		ctx:      ctx,
	}
}

// SetDebounce overrides the quiescence window (tests use ~0).
func (c *Coordinator) SetDebounce(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.debounce = d
}

// Request schedules a fetch for key after the debounce window. A request
// arriving inside the window replaces the pending key and restarts the
// timer. Keys without a currency are rejected: no catalog fetch is issued
// until currency detection has produced a code.
func (c *Coordinator) Request(key Key) {
	if key.Currency == "" {
		log.Printf("catalog: request without currency ignored (category=%q)", key.Category)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending = &key
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, c.fire)
}

// RequestNow bypasses the debounce window; used for the blocking initial
// load at page entry.
func (c *Coordinator) RequestNow(key Key) {
	if key.Currency == "" {
		log.Printf("catalog: request without currency ignored (category=%q)", key.Category)
		return
	}

	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.pending = &key
	c.mu.Unlock()
	c.fire()
}

func (c *Coordinator) fire() {
	c.mu.Lock()
	if c.pending == nil {
		c.mu.Unlock()
		return
	}
	key := *c.pending
	c.pending = nil
	c.seq++
	stamp := c.seq
	c.mu.Unlock()

	go c.fetch(key, stamp)
}

func (c *Coordinator) fetch(key Key, stamp uint64) {
	res, err := c.client.Search(c.ctx, Query{
		Category:   key.Category,
		GradeID:    key.GradeID,
		DurationID: key.DurationID,
		Page:       key.Page,
		Currency:   key.Currency,
	})

	c.sinkMu.Lock()
	defer c.sinkMu.Unlock()

	c.mu.Lock()
	stale := stamp != c.seq
	c.mu.Unlock()
	if stale {
		log.Printf("catalog: %v (key=%+v)", ErrStale, key)
		return
	}

	c.sink(Result{Key: key, Data: res, Err: err})
}

// CancelAll invalidates every outstanding request, pending or in flight.
// Used when the category changes or the visitor navigates away.
func (c *Coordinator) CancelAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = nil
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.seq++ // orphan any fetch still in flight
}
