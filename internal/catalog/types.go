package catalog

import (
	"encoding/json"
	"strconv"
	"strings"

	"course-store/internal/domain"
)

// The search endpoint is duck-typed: ids arrive as strings or numbers,
// grades under two names, the blended signal under three. These wire types
// absorb that at the boundary so the domain model stays clean.

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		*f = ""
		return nil
	}
	*f = flexString(n.String())
	return nil
}

// flexFloat accepts a JSON number or numeric string.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	s := strings.Trim(string(b), `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

type rawTier struct {
	Currency             string    `json:"currency"`
	Individual           flexFloat `json:"individual_price"`
	Batch                flexFloat `json:"batch_price"`
	EarlyBirdDiscountPct flexFloat `json:"early_bird_discount"`
	GroupDiscountPct     flexFloat `json:"group_discount"`
	IsActive             bool      `json:"is_active"`
	MinBatchSize         int       `json:"min_batch_size"`
	MaxBatchSize         int       `json:"max_batch_size"`
}

type rawCourse struct {
	ID       flexString `json:"id"`
	CourseID flexString `json:"course_id"`

	Title      string `json:"title"`
	CourseName string `json:"course_name"`

	CategoryName string `json:"category_name"`

	Grade       string `json:"grade"`
	CourseGrade string `json:"course_grade"`

	Duration       flexString `json:"duration"`
	CourseDuration flexString `json:"course_duration"`

	// any of these saying "Blended" marks the course blended
	ClassType      string `json:"class_type"`
	CourseType     string `json:"course_type"`
	DeliveryFormat string `json:"delivery_format"`

	IsFree    bool      `json:"is_free"`
	CourseFee flexFloat `json:"course_fee"`

	Prices []rawTier `json:"prices"`
}

type searchResponse struct {
	Results []rawCourse `json:"results"`
	Count   int         `json:"count"`
	Page    int         `json:"page"`
	Pages   int         `json:"total_pages"`
}

// toDomain builds the canonical course. ok=false means the record has no
// identity and must be dropped, not propagated as an error.
func (r rawCourse) toDomain() (domain.Course, bool) {
	id := firstNonEmpty(string(r.ID), string(r.CourseID))
	if id == "" {
		return domain.Course{}, false
	}

	tiers := make([]domain.PriceTier, 0, len(r.Prices))
	for _, t := range r.Prices {
		tiers = append(tiers, domain.PriceTier{
			Currency:             strings.ToUpper(strings.TrimSpace(t.Currency)),
			Individual:           float64(t.Individual),
			Batch:                float64(t.Batch),
			EarlyBirdDiscountPct: float64(t.EarlyBirdDiscountPct),
			GroupDiscountPct:     float64(t.GroupDiscountPct),
			IsActive:             t.IsActive,
			MinBatchSize:         t.MinBatchSize,
			MaxBatchSize:         t.MaxBatchSize,
		})
	}

	return domain.Course{
		ID:           id,
		Title:        firstNonEmpty(r.Title, r.CourseName),
		CategoryName: strings.TrimSpace(r.CategoryName),
		GradeRaw:     firstNonEmpty(r.Grade, r.CourseGrade),
		DurationRaw:  firstNonEmpty(string(r.Duration), string(r.CourseDuration)),
		PriceTiers:   tiers,
		IsFree:       r.IsFree,
		IsBlended:    isBlended(r.ClassType, r.CourseType, r.DeliveryFormat),
		LegacyFee:    float64(r.CourseFee),
	}, true
}

func isBlended(signals ...string) bool {
	for _, s := range signals {
		if strings.EqualFold(strings.TrimSpace(s), "blended") {
			return true
		}
	}
	return false
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v != "" {
			return v
		}
	}
	return ""
}
