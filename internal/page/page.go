// Package page owns one category page visit: it drives currency detection,
// catalog fetching, filtering, selection, and price resolution into a single
// consistent view, and exposes the callback surface the presentation layer
// uses.
package page

import (
	"context"
	"log"
	"sync"
	"time"

	"course-store/internal/catalog"
	"course-store/internal/currency"
	"course-store/internal/domain"
	"course-store/internal/filter"
	"course-store/internal/price"
	"course-store/internal/selection"
)

// View is the read-only snapshot the presentation layer renders from.
type View struct {
	ActiveCourse    *domain.Course
	ActivePrice     string
	Quote           price.Quote
	GradeOptions    []filter.GradeOption
	DurationOptions []filter.DurationOption
	Courses         []domain.Course // current filtered list
	NoMatch         bool            // filters produced an empty set; valid state, not an error
	Loading         bool
	Err             error // retryable fetch failure; last-known-good list is preserved
	Currency        currency.State
}

// Session is the engine behind one category view. All methods are safe for
// concurrent use; internally everything serializes behind one lock, matching
// the single-owner model the derivation rules assume.
type Session struct {
	category string
	resolver *currency.Resolver
	engine   *filter.Engine
	query    *QueryState

	mu       sync.Mutex
	coord    *catalog.Coordinator
	currency currency.State
	filters  domain.FilterCriteria
	enroll   domain.EnrollmentType
	courses  []domain.Course // raw list, last known good
	filtered []domain.Course
	sel      *selection.Machine
	loading  bool
	err      error
	closed   bool

	firstLoad chan struct{}
	firstOnce sync.Once
}

// NewSession builds a session for one category. query seeds currency
// detection and carries the deep-link course id; it is also where user
// selections are written back.
func NewSession(category string, client catalog.Searcher, resolver *currency.Resolver, engine *filter.Engine, query *QueryState) *Session {
	if query == nil {
		query = NewQueryState(nil)
	}
	s := &Session{
		category:  category,
		resolver:  resolver,
		engine:    engine,
		query:     query,
		filters:   domain.DefaultFilters(),
		enroll:    domain.EnrollIndividual,
		sel:       selection.NewMachine(),
		firstLoad: make(chan struct{}),
	}
	s.coord = catalog.NewCoordinator(context.Background(), client, s.onResult)
	return s
}

// Debounce overrides the filter-change quiescence window.
func (s *Session) Debounce(d time.Duration) {
	s.coord.SetDebounce(d)
}

// SelectionState exposes the tagged selection for diagnostics and tests.
func (s *Session) SelectionState() selection.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.State()
}

// Start runs the blocking page-entry sequence: currency detection first
// (price tiers depend on it, so no catalog fetch may precede it), then the
// initial fetch without debounce.
func (s *Session) Start(ctx context.Context) {
	st := s.resolver.Detect(ctx, s.query.Values())

	s.mu.Lock()
	s.currency = st
	s.loading = true
	key := s.key()
	s.mu.Unlock()

	s.coord.RequestNow(key)
}

// WaitFirstLoad blocks until the initial fetch has landed (or failed), or
// the context ends. CLI drivers use it; a UI would just re-render on change.
func (s *Session) WaitFirstLoad(ctx context.Context) error {
	select {
	case <-s.firstLoad:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close invalidates all outstanding fetches; their results are discarded.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.coord.CancelAll()
}

// must be called with s.mu held
func (s *Session) key() catalog.Key {
	return catalog.Key{
		Category:   s.category,
		GradeID:    s.filters.GradeID,
		DurationID: s.filters.DurationID,
		Currency:   s.currency.Code,
	}
}

// onResult is the coordinator sink. Stale responses never reach it; a
// failed fetch keeps the last-known-good list and marks the view retryable.
func (s *Session) onResult(r catalog.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || r.Key.Category != s.category {
		return
	}

	defer s.firstOnce.Do(func() { close(s.firstLoad) })

	s.loading = false
	if r.Err != nil {
		log.Printf("page: fetch failed, keeping last-known-good list: %v", r.Err)
		s.err = r.Err
		return
	}

	s.err = nil
	s.courses = r.Data.Courses
	s.reapply()

	// deep link applies after the auto-selection pass, so a valid url id
	// beats the default but never a live user pick
	if id := s.query.Get("course"); id != "" {
		s.sel.ApplyURL(id)
	}
}

// reapply recomputes the filtered list and reconciles the selection.
// Caller holds s.mu.
func (s *Session) reapply() {
	s.filtered = s.engine.Apply(s.courses, s.filters)
	s.sel.ApplyList(s.filtered)
}

// SelectCourse records an explicit user choice and writes it to the URL so
// the selection survives reload and sharing. Reselecting is a no-op.
func (s *Session) SelectCourse(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, changed := s.sel.Select(id); changed {
		s.query.Set("course", id)
	}
}

// SetGradeFilter changes the grade axis. The selection clears before the
// list recomputes so a course invalid for the new grade is never exposed,
// then the debounced re-fetch refreshes the list from the catalog.
func (s *Session) SetGradeFilter(gradeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.filters.GradeID == gradeID {
		return
	}
	s.sel.Clear()
	s.filters.GradeID = gradeID
	s.reapply()
	s.requestLocked()
}

// SetDurationFilter changes the duration axis and schedules a re-fetch.
func (s *Session) SetDurationFilter(durationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.filters.DurationID == durationID {
		return
	}
	s.filters.DurationID = durationID
	s.reapply()
	s.requestLocked()
}

// SetEnrollmentType switches individual/batch pricing for the view.
func (s *Session) SetEnrollmentType(t domain.EnrollmentType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enroll = t
}

// caller holds s.mu
func (s *Session) requestLocked() {
	if s.currency.Code == "" {
		return // page entry not finished; Start will issue the first fetch
	}
	s.loading = true
	s.coord.Request(s.key())
}

// EnrichActive merges a full-details record over the active course by id
// (last write wins) and re-derives the view.
func (s *Session) EnrichActive(full domain.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.courses {
		if s.courses[i].ID == full.ID {
			s.courses[i] = domain.MergeCourse(s.courses[i], full)
		}
	}
	s.reapply()
}

// View snapshots the current state for rendering.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		GradeOptions:    s.engine.GradeOptions(s.courses),
		DurationOptions: s.engine.DurationOptions(s.courses),
		Courses:         append([]domain.Course(nil), s.filtered...),
		NoMatch:         len(s.filtered) == 0 && !s.loading && s.err == nil,
		Loading:         s.loading,
		Err:             s.err,
		Currency:        s.currency,
	}

	st := s.sel.State()
	if st.Kind == selection.Empty {
		return v
	}
	for i := range s.filtered {
		if s.filtered[i].ID == st.CourseID {
			c := s.filtered[i]
			v.ActiveCourse = &c
			v.Quote = price.Resolve(c, s.currency.Code, s.enroll)
			v.ActivePrice = v.Quote.Display()
			break
		}
	}
	return v
}
