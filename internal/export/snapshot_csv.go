// Package export writes resolved-catalog snapshots for the reporting drop:
// the category's courses with their canonical buckets and the price the
// engine would display.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/andybalholm/brotli"

	"course-store/internal/domain"
	"course-store/internal/duration"
	"course-store/internal/filter"
	"course-store/internal/grade"
	"course-store/internal/price"
)

// Keep header order EXACT; the reporting side matches columns by position.
var snapshotHeader = []string{
	"COURSE_ID",
	"TITLE",
	"CATEGORY",
	"GRADE_RAW",
	"GRADE_BUCKET",
	"DURATION_RAW",
	"DURATION_DAYS",
	"DURATION_BUCKET",
	"DURATION_LABEL",
	"BLENDED",
	"PRICE",
	"CURRENCY",
	"DISPLAY_PRICE",
}

// Row is one resolved course line.
type Row struct {
	Course domain.Course
	Quote  price.Quote
}

// BuildRows resolves every course at the given currency and enrollment type.
func BuildRows(courses []domain.Course, currencyCode string, enroll domain.EnrollmentType) []Row {
	rows := make([]Row, 0, len(courses))
	for _, c := range courses {
		rows = append(rows, Row{Course: c, Quote: price.Resolve(c, currencyCode, enroll)})
	}
	return rows
}

// WriteCSV writes the snapshot. CRLF to match the reporting templates.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(snapshotHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(toRecord(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVBrotli writes the snapshot brotli-compressed for the drop.
func WriteCSVBrotli(w io.Writer, rows []Row) error {
	bw := brotli.NewWriter(w)
	if err := WriteCSV(bw, rows); err != nil {
		return err
	}
	return bw.Close()
}

func toRecord(r Row) []string {
	c := r.Course

	bucket := ""
	if b, ok := grade.Classify(c.GradeRaw); ok {
		bucket = string(b)
	}

	days := duration.Parse(c.DurationRaw)

	blended := ""
	if c.IsBlended {
		blended = "yes"
	}

	return []string{
		c.ID,
		c.Title,
		c.CategoryName,
		c.GradeRaw,
		bucket,
		c.DurationRaw,
		strconv.Itoa(days),
		filter.DurationBucketOf(days),
		duration.Format(days),
		blended,
		strconv.FormatFloat(r.Quote.Amount, 'f', -1, 64),
		r.Quote.Currency,
		r.Quote.Display(),
	}
}
