package currency

import (
	"context"
	"net/http"
	"time"

	"course-store/internal/httpx"
)

// GeoClient resolves the visitor's currency from a geo-IP endpoint that
// returns {"currency": "INR", ...}.
type GeoClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewGeoClient(baseURL string) *GeoClient {
	return &GeoClient{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: geoTimeout},
	}
}

func (g *GeoClient) LookupCurrency(ctx context.Context) (string, error) {
	var out struct {
		Currency string `json:"currency"`
	}
	// a single attempt: the chain has cheaper fallbacks, retrying here
	// would stall page entry
	cfg := httpx.RetryConfig{MaxAttempts: 1, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}
	err := httpx.DoJSON(ctx, g.HTTP, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL, nil)
	}, &out, cfg)
	if err != nil {
		return "", err
	}
	return out.Currency, nil
}
