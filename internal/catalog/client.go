// Package catalog talks to the course-search service and coordinates
// fetches for the category page: debounced, sequence-stamped, stale
// responses discarded.
package catalog

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"course-store/internal/domain"
	"course-store/internal/httpx"
)

// Query parameterizes one search call. Currency must be set; price tiers in
// the response depend on it.
type Query struct {
	Category   string
	GradeID    string
	DurationID string
	Page       int
	Currency   string
}

// SearchResult is one page of canonical courses plus pagination metadata.
// Dropped counts records discarded for missing identity.
type SearchResult struct {
	Courses []domain.Course
	Total   int
	Page    int
	Pages   int
	Dropped int
}

// Searcher is the client seam the coordinator and tests depend on.
type Searcher interface {
	Search(ctx context.Context, q Query) (SearchResult, error)
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
	Retry   httpx.RetryConfig
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		Retry:   httpx.DefaultRetryConfig(),
	}
}

// Search fetches one result page. Records without identity are dropped and
// counted, never fatal.
func (c *Client) Search(ctx context.Context, q Query) (SearchResult, error) {
	u, err := url.Parse(c.BaseURL + "/courses/search")
	if err != nil {
		return SearchResult{}, fmt.Errorf("catalog: invalid base url: %w", err)
	}

	params := u.Query()
	params.Set("category", q.Category)
	params.Set("currency", q.Currency)
	if q.GradeID != "" && q.GradeID != domain.FilterAll {
		params.Set("grade", q.GradeID)
	}
	if q.DurationID != "" && q.DurationID != domain.FilterAll {
		params.Set("duration", q.DurationID)
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	u.RawQuery = params.Encode()

	var resp searchResponse
	err = httpx.DoJSON(ctx, c.HTTP, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}, &resp, c.Retry)
	if err != nil {
		return SearchResult{}, fmt.Errorf("catalog search category=%q: %w", q.Category, err)
	}

	out := SearchResult{Total: resp.Count, Page: resp.Page, Pages: resp.Pages}
	out.Courses = make([]domain.Course, 0, len(resp.Results))
	for _, r := range resp.Results {
		course, ok := r.toDomain()
		if !ok {
			out.Dropped++
			continue
		}
		out.Courses = append(out.Courses, course)
	}
	if out.Dropped > 0 {
		log.Printf("catalog: dropped %d record(s) without identity (category=%q)", out.Dropped, q.Category)
	}
	return out, nil
}

// FetchCourse retrieves full details for one course. The page merges the
// result by id over the listed record (see domain.MergeCourse).
func (c *Client) FetchCourse(ctx context.Context, id, currencyCode string) (domain.Course, error) {
	u, err := url.Parse(c.BaseURL + "/courses/" + url.PathEscape(id))
	if err != nil {
		return domain.Course{}, fmt.Errorf("catalog: invalid base url: %w", err)
	}
	params := u.Query()
	params.Set("currency", currencyCode)
	u.RawQuery = params.Encode()

	var raw rawCourse
	err = httpx.DoJSON(ctx, c.HTTP, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}, &raw, c.Retry)
	if err != nil {
		return domain.Course{}, fmt.Errorf("catalog fetch course %q: %w", id, err)
	}

	course, ok := raw.toDomain()
	if !ok {
		return domain.Course{}, fmt.Errorf("catalog fetch course %q: record has no identity", id)
	}
	return course, nil
}
