package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
)

func getReq(url string) func(context.Context) (*http.Request, error) {
	return func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	}
}

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{MaxAttempts: attempts, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestDoRetriesThenSucceeds(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`ok`))
	}))
	defer srv.Close()

	body, err := Do(context.Background(), srv.Client(), getReq(srv.URL), fastRetry(5))
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("body = %q", body)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoNoRetryOn4xx(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`missing`))
	}))
	defer srv.Close()

	_, err := Do(context.Background(), srv.Client(), getReq(srv.URL), fastRetry(5))
	var herr *HTTPError
	if !errors.As(err, &herr) {
		t.Fatalf("err = %v, want HTTPError", err)
	}
	if herr.StatusCode != 404 {
		t.Errorf("status = %d", herr.StatusCode)
	}
	if calls != 1 {
		t.Errorf("calls = %d, 4xx must not be retried", calls)
	}
}

func TestDoDecodesBrotli(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "br")
		bw := brotli.NewWriter(w)
		bw.Write([]byte(`{"msg":"compressed"}`))
		bw.Close()
	}))
	defer srv.Close()

	var out struct {
		Msg string `json:"msg"`
	}
	err := DoJSON(context.Background(), srv.Client(), getReq(srv.URL), &out, fastRetry(1))
	if err != nil {
		t.Fatalf("DoJSON: %v", err)
	}
	if out.Msg != "compressed" {
		t.Errorf("msg = %q", out.Msg)
	}
}

func TestDoJSONParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	var out map[string]any
	if err := DoJSON(context.Background(), srv.Client(), getReq(srv.URL), &out, fastRetry(1)); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestRetryableStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504, 599} {
		if !retryableStatus(code) {
			t.Errorf("status %d should be retryable", code)
		}
	}
	for _, code := range []int{200, 400, 401, 403, 404, 422} {
		if retryableStatus(code) {
			t.Errorf("status %d should not be retryable", code)
		}
	}
}

func TestRetryableNetErr(t *testing.T) {
	if retryableNetErr(context.Canceled) {
		t.Error("canceled context must not be retried")
	}
	if !retryableNetErr(context.DeadlineExceeded) {
		t.Error("deadline exceeded should be retried")
	}
	if !retryableNetErr(errors.New("read: connection reset by peer")) {
		t.Error("connection reset should be retried")
	}
	if retryableNetErr(errors.New("certificate invalid")) {
		t.Error("non-transient error must not be retried")
	}
}

func TestRetryAfterHeader(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}

	resp.Header.Set("Retry-After", "2")
	if d := retryAfter(resp); d != 2*time.Second {
		t.Errorf("seconds form = %v", d)
	}

	resp.Header.Set("Retry-After", "bogus")
	if d := retryAfter(resp); d != 0 {
		t.Errorf("invalid form = %v, want 0", d)
	}

	resp.Header.Del("Retry-After")
	if d := retryAfter(resp); d != 0 {
		t.Errorf("missing header = %v, want 0", d)
	}
}
