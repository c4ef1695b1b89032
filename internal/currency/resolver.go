// Package currency detects the visitor's currency through an ordered
// fallback chain and converts/formats amounts against a static rate table.
package currency

import (
	"context"
	"log"
	"net/url"
	"strings"
	"time"
)

// Source identifies which step of the detection chain produced the code.
// Listed in priority order, highest first.
type Source string

const (
	SourceCache    Source = "cache"
	SourceURL      Source = "url"
	SourceGeo      Source = "geo"
	SourceTimezone Source = "timezone"
	SourceLanguage Source = "language"
	SourceDefault  Source = "default"
)

// State is the detected currency for one page visit. Once Code is set it is
// never cleared; detection runs once and the winning source sticks.
type State struct {
	Code       string
	Source     Source
	DetectedAt time.Time
}

// GeoLookup is the geo-IP collaborator. Failure and timeout are ordinary
// outcomes, never fatal.
type GeoLookup interface {
	LookupCurrency(ctx context.Context) (string, error)
}

// CacheStore is the persistence the resolver needs (see cachestore).
type CacheStore interface {
	Get(key string) (value string, storedAt time.Time, ok bool, err error)
	Put(key, value string, at time.Time) error
}

const (
	cacheKey   = "visitor_currency"
	cacheTTL   = 24 * time.Hour
	geoTimeout = 2 * time.Second
)

// Resolver walks the detection chain. Zero-value collaborators are allowed:
// a nil cache skips steps 1's read and all persists, a nil geo skips step 3.
type Resolver struct {
	Cache CacheStore
	Geo   GeoLookup

	// Timezone and Locale describe the visitor's runtime ("Asia/Kolkata",
	// "hi-IN"). Empty values simply fail their steps.
	Timezone string
	Locale   string

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func (r *Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Detect resolves the visitor currency. query carries the incoming URL
// parameters (the "currency" param can seed detection). The chain
// short-circuits at the first success and always terminates with a valid
// code, USD at worst.
func (r *Resolver) Detect(ctx context.Context, query url.Values) State {
	now := r.now()

	// 1. fresh cache entry
	if r.Cache != nil {
		if code, at, ok, err := r.Cache.Get(cacheKey); err == nil && ok {
			if now.Sub(at) < cacheTTL && Supported(code) {
				return State{Code: code, Source: SourceCache, DetectedAt: now}
			}
		} else if err != nil {
			log.Printf("currency: cache read failed: %v", err)
		}
	}

	// 2. explicit URL parameter
	if code := strings.ToUpper(strings.TrimSpace(query.Get("currency"))); code != "" && Supported(code) {
		r.persist(code, now)
		return State{Code: code, Source: SourceURL, DetectedAt: now}
	}

	// 3. geo-IP, bounded by a short timeout
	if r.Geo != nil {
		geoCtx, cancel := context.WithTimeout(ctx, geoTimeout)
		code, err := r.Geo.LookupCurrency(geoCtx)
		cancel()
		if err == nil {
			code = strings.ToUpper(strings.TrimSpace(code))
			if Supported(code) {
				r.persist(code, now)
				return State{Code: code, Source: SourceGeo, DetectedAt: now}
			}
		} else {
			log.Printf("currency: geo lookup failed: %v", err)
		}
	}

	// 4. timezone heuristics
	if code := fromTimezone(r.Timezone); code != "" {
		return State{Code: code, Source: SourceTimezone, DetectedAt: now}
	}

	// 5. locale heuristics
	if code := fromLocale(r.Locale); code != "" {
		return State{Code: code, Source: SourceLanguage, DetectedAt: now}
	}

	// 6. default
	return State{Code: "USD", Source: SourceDefault, DetectedAt: now}
}

func (r *Resolver) persist(code string, at time.Time) {
	if r.Cache == nil {
		return
	}
	if err := r.Cache.Put(cacheKey, code, at); err != nil {
		log.Printf("currency: cache write failed: %v", err)
	}
}

func fromTimezone(tz string) string {
	tz = strings.TrimSpace(tz)
	switch {
	case tz == "":
		return ""
	case strings.Contains(tz, "Calcutta"), strings.Contains(tz, "Kolkata"), strings.Contains(tz, "India"):
		return "INR"
	case strings.HasPrefix(tz, "Europe/"):
		return "EUR"
	case strings.Contains(tz, "Tokyo"), strings.Contains(tz, "Japan"):
		return "JPY"
	}
	return ""
}

func fromLocale(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	switch {
	case tag == "":
		return ""
	case strings.Contains(tag, "hi"), strings.Contains(tag, "in"):
		return "INR"
	case strings.Contains(tag, "ja"):
		return "JPY"
	case strings.Contains(tag, "zh"):
		return "CNY"
	}
	return ""
}
