package domain

import "strings"

// Course is the canonical representation of a catalog course inside this
// service. The catalog client maps raw search records into this model; once
// built it is immutable and only ever replaced wholesale on re-fetch, or
// enriched by id via MergeCourse.
type Course struct {
	ID           string
	Title        string
	CategoryName string

	// GradeRaw and DurationRaw keep the catalog's free text; classification
	// into canonical buckets happens in the grade and duration packages.
	GradeRaw    string
	DurationRaw string

	PriceTiers []PriceTier
	IsFree     bool
	IsBlended  bool

	// LegacyFee is the catalog's flat course_fee field. Price resolution
	// falls back to it when a course carries no tiers at all.
	LegacyFee float64
}

// PriceTier is a per-currency pricing record. At most one tier per currency
// should be active; when the catalog sends several, the first encountered
// wins (see price.ActiveTier).
type PriceTier struct {
	Currency             string
	Individual           float64
	Batch                float64
	EarlyBirdDiscountPct float64
	GroupDiscountPct     float64
	IsActive             bool
	MinBatchSize         int
	MaxBatchSize         int
}

// EnrollmentType selects between individual and batch pricing.
type EnrollmentType string

const (
	EnrollIndividual EnrollmentType = "individual"
	EnrollBatch      EnrollmentType = "batch"
)

// FilterCriteria is the user's current filter choice. "all" on either axis
// means no restriction.
type FilterCriteria struct {
	GradeID    string
	DurationID string
}

const FilterAll = "all"

func DefaultFilters() FilterCriteria {
	return FilterCriteria{GradeID: FilterAll, DurationID: FilterAll}
}

// Valid reports whether the record carries the identity the engine requires.
// Records without an id are dropped at the fetch boundary rather than
// failing the whole page.
func (c Course) Valid() bool {
	return strings.TrimSpace(c.ID) != ""
}

// MergeCourse overlays the non-empty fields of full onto base. It backs the
// secondary "full details" fetch: same id, last write wins per field.
func MergeCourse(base, full Course) Course {
	if full.ID != base.ID {
		return base
	}
	out := base
	if strings.TrimSpace(full.Title) != "" {
		out.Title = full.Title
	}
	if strings.TrimSpace(full.CategoryName) != "" {
		out.CategoryName = full.CategoryName
	}
	if strings.TrimSpace(full.GradeRaw) != "" {
		out.GradeRaw = full.GradeRaw
	}
	if strings.TrimSpace(full.DurationRaw) != "" {
		out.DurationRaw = full.DurationRaw
	}
	if len(full.PriceTiers) > 0 {
		out.PriceTiers = full.PriceTiers
	}
	if full.LegacyFee > 0 {
		out.LegacyFee = full.LegacyFee
	}
	out.IsFree = base.IsFree || full.IsFree
	out.IsBlended = base.IsBlended || full.IsBlended
	return out
}
