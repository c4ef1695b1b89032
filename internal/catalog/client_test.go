package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"course-store/internal/httpx"
)

const searchPage = `{
	"count": 3,
	"page": 1,
	"total_pages": 1,
	"results": [
		{
			"id": 101,
			"title": "Algebra Basics",
			"category_name": "Maths",
			"grade": "Grade 5-6",
			"duration": "3 Months",
			"class_type": "Blended",
			"course_fee": "499",
			"prices": [
				{"currency": "INR", "individual_price": 1000, "batch_price": 700,
				 "early_bird_discount": 10, "is_active": true}
			]
		},
		{
			"course_id": "c-202",
			"course_name": "Chess for Kids",
			"category_name": "Chess",
			"course_grade": "All ages",
			"course_duration": 45,
			"is_free": true
		},
		{
			"title": "No Identity",
			"category_name": "Maths"
		}
	]
}`

func testClient(srv *httptest.Server) *Client {
	c := New(srv.URL)
	c.HTTP = srv.Client()
	c.Retry = httpx.RetryConfig{MaxAttempts: 1, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}
	return c
}

func TestSearchDecodesDuckTypedRecords(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"category": r.URL.Query().Get("category"),
			"grade":    r.URL.Query().Get("grade"),
			"currency": r.URL.Query().Get("currency"),
			"duration": r.URL.Query().Get("duration"),
		}
		w.Write([]byte(searchPage))
	}))
	defer srv.Close()

	res, err := testClient(srv).Search(context.Background(), Query{
		Category: "Maths",
		GradeID:  "grade5-6",
		Currency: "INR",
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if gotQuery["category"] != "Maths" || gotQuery["grade"] != "grade5-6" || gotQuery["currency"] != "INR" {
		t.Errorf("query params = %v", gotQuery)
	}
	if gotQuery["duration"] != "" {
		t.Errorf("the all-durations axis must not be sent, got %q", gotQuery["duration"])
	}

	if len(res.Courses) != 2 || res.Dropped != 1 {
		t.Fatalf("courses=%d dropped=%d, want 2 kept and 1 dropped", len(res.Courses), res.Dropped)
	}
	if res.Total != 3 {
		t.Errorf("total = %d", res.Total)
	}

	first := res.Courses[0]
	if first.ID != "101" {
		t.Errorf("numeric id = %q, want normalized string 101", first.ID)
	}
	if !first.IsBlended {
		t.Error("class_type=Blended must mark the course blended")
	}
	if first.LegacyFee != 499 {
		t.Errorf("string course_fee = %v, want 499", first.LegacyFee)
	}
	if len(first.PriceTiers) != 1 || first.PriceTiers[0].Individual != 1000 {
		t.Errorf("tiers = %+v", first.PriceTiers)
	}

	second := res.Courses[1]
	if second.ID != "c-202" || second.Title != "Chess for Kids" {
		t.Errorf("aliased fields not picked up: %+v", second)
	}
	if second.DurationRaw != "45" {
		t.Errorf("numeric duration = %q, want 45", second.DurationRaw)
	}
	if !second.IsFree {
		t.Error("is_free flag lost")
	}
}

func TestSearchEmptyResultSet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count":0,"results":[]}`))
	}))
	defer srv.Close()

	res, err := testClient(srv).Search(context.Background(), Query{Category: "Maths", Currency: "USD"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Courses) != 0 || res.Total != 0 {
		t.Errorf("result = %+v, want empty", res)
	}
}

func TestFetchCourse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/courses/101" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"id":"101","title":"Algebra Basics (Full)","course_type":"Blended"}`))
	}))
	defer srv.Close()

	c, err := testClient(srv).FetchCourse(context.Background(), "101", "INR")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if c.Title != "Algebra Basics (Full)" || !c.IsBlended {
		t.Errorf("course = %+v", c)
	}
}
