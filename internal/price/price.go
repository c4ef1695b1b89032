// Package price computes the final displayed price for a course: tier
// choice, the blended-course enrollment override, discounts, and the
// free-course short circuit.
package price

import (
	"course-store/internal/currency"
	"course-store/internal/domain"
)

// ActiveTier picks the tier used for pricing: a tier in the visitor's
// currency that is active, else any active tier, else the first tier.
// ok=false means the course has no tiers at all.
//
// Several tiers can be marked active for the same currency; the catalog
// never defined a tie-break beyond order, so the first encountered wins.
func ActiveTier(c domain.Course, code string) (domain.PriceTier, bool) {
	for _, t := range c.PriceTiers {
		if t.IsActive && t.Currency == code {
			return t, true
		}
	}
	for _, t := range c.PriceTiers {
		if t.IsActive {
			return t, true
		}
	}
	if len(c.PriceTiers) > 0 {
		return c.PriceTiers[0], true
	}
	return domain.PriceTier{}, false
}

// IsFreeCourse reports whether the course is free. Any one signal suffices:
// the flag, a zero legacy fee, or every tier priced at zero on both axes.
func IsFreeCourse(c domain.Course) bool {
	if c.IsFree {
		return true
	}
	if c.LegacyFee == 0 && len(c.PriceTiers) == 0 {
		return true
	}
	if len(c.PriceTiers) == 0 {
		return false
	}
	for _, t := range c.PriceTiers {
		if t.Individual != 0 || t.Batch != 0 {
			return false
		}
	}
	return true
}

// FinalPrice applies the enrollment type and discount to a tier. Blended
// courses are never sold at batch pricing: the enrollment type is forced to
// individual, discount included. Never negative.
func FinalPrice(t domain.PriceTier, enroll domain.EnrollmentType, blended bool) float64 {
	if blended {
		enroll = domain.EnrollIndividual
	}

	base := t.Individual
	pct := t.EarlyBirdDiscountPct
	if enroll == domain.EnrollBatch {
		base = t.Batch
		pct = t.GroupDiscountPct
	}

	final := base - base*pct/100
	if final < 0 {
		return 0
	}
	return final
}

// Quote is one resolved price ready for display.
type Quote struct {
	Amount    float64
	Currency  string
	Free      bool
	LegacyFee bool // true when no tier existed and the flat fee was used
}

// Resolve prices a course for the visitor: free short circuit, tier
// resolution, legacy-fee degradation when no tier exists.
func Resolve(c domain.Course, code string, enroll domain.EnrollmentType) Quote {
	if IsFreeCourse(c) {
		return Quote{Amount: 0, Currency: code, Free: true}
	}

	tier, ok := ActiveTier(c, code)
	if !ok {
		return Quote{Amount: c.LegacyFee, Currency: code, LegacyFee: true}
	}

	return Quote{
		Amount:   FinalPrice(tier, enroll, c.IsBlended),
		Currency: tier.Currency,
	}
}

// Display renders a quote with the currency formatting rules.
func (q Quote) Display() string {
	return currency.Format(q.Amount, q.Currency)
}
