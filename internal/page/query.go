package page

import (
	"net/url"
	"sync"
)

// QueryState stands in for the page URL's query string: the "course" param
// reflects the current selection for deep-linking, the "currency" param can
// seed detection. In a browser this would be the location bar; here it is an
// owned url.Values the embedder can read back.
type QueryState struct {
	mu   sync.Mutex
	vals url.Values
}

func NewQueryState(vals url.Values) *QueryState {
	if vals == nil {
		vals = url.Values{}
	}
	return &QueryState{vals: vals}
}

// ParseQueryState builds state from a raw query string; bad input yields an
// empty state.
func ParseQueryState(raw string) *QueryState {
	vals, err := url.ParseQuery(raw)
	if err != nil {
		vals = url.Values{}
	}
	return NewQueryState(vals)
}

func (q *QueryState) Get(key string) string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.vals.Get(key)
}

func (q *QueryState) Set(key, value string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.vals.Set(key, value)
}

// Values returns a copy safe to hand to the currency resolver.
func (q *QueryState) Values() url.Values {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := url.Values{}
	for k, vs := range q.vals {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// Encode renders the query string, e.g. for logging the sharable link.
func (q *QueryState) Encode() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.vals.Encode()
}
