// Package filter combines the grade and duration axes into a single
// predicate over courses and derives the selectable filter options from a
// course set.
package filter

import (
	"course-store/internal/domain"
	"course-store/internal/duration"
	"course-store/internal/grade"
)

// Duration buckets. Boundaries are heuristic and were inherited from the
// enrollment page: two near-duplicate tables existed there, this is the more
// complete one.
const (
	DurationShort  = "short"  // <= 7 days
	DurationMedium = "medium" // 8..30 days
	DurationLong   = "long"   // > 30 days
)

// DurationBucketOf maps a day count to its filter bucket id.
func DurationBucketOf(days int) string {
	switch {
	case days <= 7:
		return DurationShort
	case days <= 30:
		return DurationMedium
	default:
		return DurationLong
	}
}

// GradeOption is one entry of the grade dropdown.
type GradeOption struct {
	ID    string
	Label string
}

// DurationOption is one entry of the duration dropdown. Label keeps the
// first-seen raw text for that bucket.
type DurationOption struct {
	ID    string
	Label string
}

// Engine evaluates filter criteria against courses. Categories listed as
// grade-less have no grade axis at all; for them the grade predicate is
// forced to true whatever the criteria say.
type Engine struct {
	gradeless map[string]bool
}

// NewEngine builds an engine; gradelessCategories is the category-level
// policy list, not data-driven.
func NewEngine(gradelessCategories ...string) *Engine {
	m := make(map[string]bool, len(gradelessCategories))
	for _, c := range gradelessCategories {
		m[c] = true
	}
	return &Engine{gradeless: m}
}

// Matches reports whether the course passes both filter axes. "all" on an
// axis always passes it.
func (e *Engine) Matches(c domain.Course, fc domain.FilterCriteria) bool {
	return e.matchesGrade(c, fc.GradeID) && matchesDuration(c, fc.DurationID)
}

func (e *Engine) matchesGrade(c domain.Course, gradeID string) bool {
	if gradeID == domain.FilterAll || e.gradeless[c.CategoryName] {
		return true
	}
	b, ok := grade.Classify(c.GradeRaw)
	if !ok {
		return false
	}
	return string(b) == gradeID
}

func matchesDuration(c domain.Course, durationID string) bool {
	if durationID == domain.FilterAll {
		return true
	}
	return DurationBucketOf(duration.Parse(c.DurationRaw)) == durationID
}

// Apply returns the courses matching the criteria, in input order.
func (e *Engine) Apply(courses []domain.Course, fc domain.FilterCriteria) []domain.Course {
	out := make([]domain.Course, 0, len(courses))
	for _, c := range courses {
		if e.Matches(c, fc) {
			out = append(out, c)
		}
	}
	return out
}

// GradeOptions derives the grade dropdown from a course set, deduplicated by
// bucket id in school order. Courses whose grade text does not classify are
// excluded from the aggregation.
func (e *Engine) GradeOptions(courses []domain.Course) []GradeOption {
	seen := map[grade.Bucket]bool{}
	for _, c := range courses {
		if e.gradeless[c.CategoryName] {
			continue
		}
		if b, ok := grade.Classify(c.GradeRaw); ok {
			seen[b] = true
		}
	}

	var out []GradeOption
	for _, b := range grade.All() {
		if seen[b] {
			out = append(out, GradeOption{ID: string(b), Label: b.Label()})
		}
	}
	return out
}

// DurationOptions derives the duration dropdown, one entry per bucket,
// keeping the first-seen raw label, in short/medium/long order.
func (e *Engine) DurationOptions(courses []domain.Course) []DurationOption {
	first := map[string]string{}
	for _, c := range courses {
		id := DurationBucketOf(duration.Parse(c.DurationRaw))
		if _, ok := first[id]; !ok {
			label := c.DurationRaw
			if label == "" {
				label = duration.Format(duration.Parse(c.DurationRaw))
			}
			first[id] = label
		}
	}

	var out []DurationOption
	for _, id := range []string{DurationShort, DurationMedium, DurationLong} {
		if label, ok := first[id]; ok {
			out = append(out, DurationOption{ID: id, Label: label})
		}
	}
	return out
}
