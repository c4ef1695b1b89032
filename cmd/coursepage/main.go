// coursepage runs one category page visit from the terminal: detect the
// visitor currency, fetch the catalog, apply filters, and print the
// resolved view with the active course and its price.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"course-store/internal/cachestore"
	"course-store/internal/catalog"
	"course-store/internal/config"
	"course-store/internal/currency"
	"course-store/internal/domain"
	"course-store/internal/filter"
	"course-store/internal/page"
)

func main() {
	var (
		category   = flag.String("category", "Maths", "catalog category to browse")
		gradeID    = flag.String("grade", domain.FilterAll, "grade bucket id or 'all'")
		durationID = flag.String("duration", domain.FilterAll, "duration bucket (short|medium|long) or 'all'")
		courseID   = flag.String("course", "", "deep-link course id (the url 'course' param)")
		currParam  = flag.String("currency", "", "currency code override (the url 'currency' param)")
		enroll     = flag.String("enroll", "individual", "enrollment type: individual|batch")
		timezone   = flag.String("tz", os.Getenv("TZ"), "visitor timezone for currency fallback")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg := config.Load()

	cache, err := cachestore.Open(cfg.CachePath)
	if err != nil {
		log.Fatalf("open currency cache: %v", err)
	}
	defer cache.Close()

	resolver := &currency.Resolver{
		Cache:    cache,
		Geo:      currency.NewGeoClient(cfg.GeoIPURL),
		Timezone: *timezone,
		Locale:   os.Getenv("LANG"),
	}

	query := page.NewQueryState(nil)
	if *courseID != "" {
		query.Set("course", *courseID)
	}
	if *currParam != "" {
		query.Set("currency", *currParam)
	}

	engine := filter.NewEngine(cfg.GradelessList()...)
	session := page.NewSession(*category, catalog.New(cfg.CatalogBaseURL), resolver, engine, query)
	defer session.Close()

	session.Start(ctx)
	if err := session.WaitFirstLoad(ctx); err != nil {
		log.Fatalf("initial load: %v", err)
	}

	if *gradeID != domain.FilterAll {
		session.SetGradeFilter(*gradeID)
	}
	if *durationID != domain.FilterAll {
		session.SetDurationFilter(*durationID)
	}
	if *enroll == "batch" {
		session.SetEnrollmentType(domain.EnrollBatch)
	}

	// let a debounced re-fetch land before printing
	time.Sleep(2 * catalog.DefaultDebounce)

	render(session.View(), query)
}

func render(v page.View, query *page.QueryState) {
	fmt.Printf("currency: %s\n", v.Currency)

	if v.Err != nil {
		fmt.Printf("fetch error (showing last known good): %v\n", v.Err)
	}
	if v.NoMatch {
		fmt.Println("no courses match the current filters")
	}

	fmt.Printf("grades: ")
	for _, o := range v.GradeOptions {
		fmt.Printf("%s ", o.ID)
	}
	fmt.Printf("\ndurations: ")
	for _, o := range v.DurationOptions {
		fmt.Printf("%s ", o.ID)
	}
	fmt.Println()

	for _, c := range v.Courses {
		marker := " "
		if v.ActiveCourse != nil && c.ID == v.ActiveCourse.ID {
			marker = "*"
		}
		fmt.Printf("%s %-12s %-32s %-12s %s\n", marker, c.ID, c.Title, c.GradeRaw, c.DurationRaw)
	}

	if v.ActiveCourse != nil {
		fmt.Printf("\nactive: %s (%s)\nprice: %s\n", v.ActiveCourse.Title, v.ActiveCourse.ID, v.ActivePrice)
		fmt.Printf("share link query: ?%s\n", query.Encode())
	}
}
