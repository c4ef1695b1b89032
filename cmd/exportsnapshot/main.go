// exportsnapshot writes the resolved catalog view for a category to CSV
// (optionally brotli-compressed) and can push it to the reporting drop over
// SFTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"course-store/internal/catalog"
	"course-store/internal/config"
	"course-store/internal/domain"
	"course-store/internal/export"
	"course-store/internal/sftpclient"
)

func main() {
	var (
		category = flag.String("category", "Maths", "catalog category to export")
		currCode = flag.String("currency", "USD", "currency to resolve prices in")
		enroll   = flag.String("enroll", "individual", "enrollment type: individual|batch")
		outPath  = flag.String("out", "", "output path (default catalog-<category>-<ts>.csv[.br])")
		compress = flag.Bool("br", false, "brotli-compress the snapshot")
		upload   = flag.Bool("sftp", false, "upload the snapshot to the reporting drop")
		maxPages = flag.Int("max-pages", 0, "page fetch limit (0 = all)")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	cfg := config.Load()
	client := catalog.New(cfg.CatalogBaseURL)

	courses, err := fetchAll(ctx, client, *category, *currCode, *maxPages)
	if err != nil {
		log.Fatalf("fetch catalog: %v", err)
	}
	log.Printf("fetched %d course(s) for %q", len(courses), *category)

	enrollType := domain.EnrollIndividual
	if *enroll == "batch" {
		enrollType = domain.EnrollBatch
	}
	rows := export.BuildRows(courses, *currCode, enrollType)

	name := sftpclient.SnapshotName(*category, time.Now(), *compress)
	path := *outPath
	if path == "" {
		path = name
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal(err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("create %s: %v", path, err)
	}
	if *compress {
		err = export.WriteCSVBrotli(f, rows)
	} else {
		err = export.WriteCSV(f, rows)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Fatalf("write snapshot: %v", err)
	}
	fmt.Printf("wrote %s (%d rows)\n", path, len(rows))

	if *upload {
		if err := sftpclient.UploadFile(ctx, cfg.SFTP, path, name); err != nil {
			log.Fatalf("upload: %v", err)
		}
		fmt.Printf("uploaded %s to %s\n", name, cfg.SFTP.Host)
	}
}

func fetchAll(ctx context.Context, client *catalog.Client, category, currencyCode string, maxPages int) ([]domain.Course, error) {
	var all []domain.Course
	for pg := 1; ; pg++ {
		if maxPages > 0 && pg > maxPages {
			break
		}
		res, err := client.Search(ctx, catalog.Query{Category: category, Currency: currencyCode, Page: pg})
		if err != nil {
			// keep what we have; a partial snapshot beats losing the run
			return all, err
		}
		all = append(all, res.Courses...)
		if res.Pages == 0 || pg >= res.Pages || len(res.Courses) == 0 {
			break
		}
	}
	return all, nil
}
