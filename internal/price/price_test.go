package price

import (
	"testing"

	"course-store/internal/domain"
)

func TestActiveTierPreference(t *testing.T) {
	inr := domain.PriceTier{Currency: "INR", Individual: 1000, IsActive: true}
	usd := domain.PriceTier{Currency: "USD", Individual: 20, IsActive: true}
	eurInactive := domain.PriceTier{Currency: "EUR", Individual: 18}

	c := domain.Course{ID: "c1", PriceTiers: []domain.PriceTier{eurInactive, usd, inr}}

	// visitor currency + active wins
	if got, ok := ActiveTier(c, "INR"); !ok || got.Currency != "INR" {
		t.Errorf("INR visitor: got %v ok=%v", got, ok)
	}
	// no tier in visitor currency: first active wins
	if got, ok := ActiveTier(c, "GBP"); !ok || got.Currency != "USD" {
		t.Errorf("GBP visitor: got %v ok=%v", got, ok)
	}
	// nothing active: first tier wins
	c2 := domain.Course{ID: "c2", PriceTiers: []domain.PriceTier{eurInactive, {Currency: "USD", Individual: 20}}}
	if got, ok := ActiveTier(c2, "INR"); !ok || got.Currency != "EUR" {
		t.Errorf("no active: got %v ok=%v", got, ok)
	}
	// no tiers at all
	if _, ok := ActiveTier(domain.Course{ID: "c3"}, "USD"); ok {
		t.Error("expected ok=false for tierless course")
	}
}

func TestActiveTierFirstActiveWinsOnDuplicates(t *testing.T) {
	c := domain.Course{ID: "c1", PriceTiers: []domain.PriceTier{
		{Currency: "INR", Individual: 1000, IsActive: true},
		{Currency: "INR", Individual: 1500, IsActive: true},
	}}
	got, _ := ActiveTier(c, "INR")
	if got.Individual != 1000 {
		t.Errorf("got %v, first encountered active tier must win", got.Individual)
	}
}

func TestFinalPrice(t *testing.T) {
	tier := domain.PriceTier{
		Currency:             "INR",
		Individual:           1000,
		Batch:                700,
		EarlyBirdDiscountPct: 10,
		GroupDiscountPct:     20,
		IsActive:             true,
	}

	if got := FinalPrice(tier, domain.EnrollIndividual, false); got != 900 {
		t.Errorf("individual = %v, want 900", got)
	}
	if got := FinalPrice(tier, domain.EnrollBatch, false); got != 560 {
		t.Errorf("batch = %v, want 560", got)
	}

	// over-100% discount clamps at zero
	tier.EarlyBirdDiscountPct = 150
	if got := FinalPrice(tier, domain.EnrollIndividual, false); got != 0 {
		t.Errorf("clamped = %v, want 0", got)
	}
}

// Blended courses are never sold at batch pricing: both enrollment types
// must produce the individual price.
func TestFinalPriceBlendedOverride(t *testing.T) {
	tier := domain.PriceTier{
		Individual:           1000,
		Batch:                700,
		EarlyBirdDiscountPct: 10,
		GroupDiscountPct:     50,
	}

	ind := FinalPrice(tier, domain.EnrollIndividual, true)
	batch := FinalPrice(tier, domain.EnrollBatch, true)
	if ind != batch {
		t.Errorf("blended: individual=%v batch=%v, must be equal", ind, batch)
	}
	if ind != 900 {
		t.Errorf("blended price = %v, want 900 (early-bird branch)", ind)
	}
}

func TestIsFreeCourse(t *testing.T) {
	priced := []domain.PriceTier{{Currency: "USD", Individual: 20, IsActive: true}}
	zeroed := []domain.PriceTier{{Currency: "USD"}, {Currency: "INR"}}

	cases := []struct {
		name string
		c    domain.Course
		want bool
	}{
		{"flag set", domain.Course{ID: "a", IsFree: true, PriceTiers: priced}, true},
		{"all tiers zero", domain.Course{ID: "b", LegacyFee: 50, PriceTiers: zeroed}, true},
		{"no tiers, zero fee", domain.Course{ID: "c"}, true},
		{"no tiers, flat fee", domain.Course{ID: "d", LegacyFee: 50}, false},
		{"priced", domain.Course{ID: "e", PriceTiers: priced}, false},
	}
	for _, tc := range cases {
		if got := IsFreeCourse(tc.c); got != tc.want {
			t.Errorf("%s: IsFreeCourse = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestResolve(t *testing.T) {
	c := domain.Course{ID: "c1", PriceTiers: []domain.PriceTier{
		{Currency: "INR", Individual: 1000, Batch: 700, EarlyBirdDiscountPct: 10, IsActive: true},
	}}

	q := Resolve(c, "INR", domain.EnrollIndividual)
	if q.Amount != 900 || q.Currency != "INR" || q.Free {
		t.Errorf("quote = %+v", q)
	}
	if q.Display() != "₹900" {
		t.Errorf("display = %q", q.Display())
	}

	// free short circuit
	q = Resolve(domain.Course{ID: "f", IsFree: true}, "USD", domain.EnrollBatch)
	if !q.Free || q.Display() != "Free" {
		t.Errorf("free quote = %+v display=%q", q, q.Display())
	}

	// tierless course degrades to the flat legacy fee
	q = Resolve(domain.Course{ID: "l", LegacyFee: 49}, "USD", domain.EnrollIndividual)
	if !q.LegacyFee || q.Amount != 49 {
		t.Errorf("legacy quote = %+v", q)
	}
}
