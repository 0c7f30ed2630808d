package planner

import (
	"math"
	"testing"

	"event-orchestrator/internal/vendor"
)

func weddingRequirements() EventRequirements {
	return EventRequirements{
		EventType: "wedding", Attendees: 200, Date: "2026-03-15",
		Budget: 500000, Location: "Lahore",
		Preferences: []string{"traditional", "mehndi"},
	}
}

func TestDeriveKeywords(t *testing.T) {
	t.Run("WeddingExpansion", func(t *testing.T) {
		keywords := DeriveKeywords(weddingRequirements())

		want := map[string]bool{"wedding": true, "traditional": true, "mehndi": true,
			"baraat": true, "walima": true, "venue": true, "catering": true, "photography": true}
		if len(keywords) != len(want) {
			t.Fatalf("Expected %d keywords, got %d: %v", len(want), len(keywords), keywords)
		}
		for _, k := range keywords {
			if !want[k] {
				t.Errorf("Unexpected keyword %q", k)
			}
		}
	})

	t.Run("Deduplicated", func(t *testing.T) {
		req := EventRequirements{EventType: "Birthday", Preferences: []string{"party", "PARTY", "cake"}}
		keywords := DeriveKeywords(req)
		seen := map[string]int{}
		for _, k := range keywords {
			seen[k]++
			if seen[k] > 1 {
				t.Errorf("Keyword %q appears more than once", k)
			}
		}
	})

	t.Run("StableOrder", func(t *testing.T) {
		a := DeriveKeywords(weddingRequirements())
		b := DeriveKeywords(weddingRequirements())
		if len(a) != len(b) {
			t.Fatal("Keyword derivation is not deterministic")
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("Keyword order differs at %d: %q vs %q", i, a[i], b[i])
			}
		}
	})
}

func TestScoreVendor(t *testing.T) {
	req := weddingRequirements()
	keywords := DeriveKeywords(req)

	t.Run("Bounded", func(t *testing.T) {
		for _, v := range vendor.Samples() {
			score := ScoreVendor(v, req, keywords)
			if score < 0 || score > 1 {
				t.Errorf("Score out of bounds for %s: %f", v.VendorID, score)
			}
		}
	})

	t.Run("PerfectVendorCapsAtOne", func(t *testing.T) {
		v := vendor.VendorProfile{
			VendorID: "perfect", Name: "Perfect Weddings", Category: "venue",
			Description:  "wedding mehndi baraat walima venue catering photography traditional",
			ServiceAreas: []string{"all"}, PriceMin: 100, PriceMax: 200,
			Rating: 5.0, Available: true,
			Keywords: keywords,
		}
		score := ScoreVendor(v, req, keywords)
		if math.Abs(score-1.0) > 1e-9 {
			t.Errorf("Expected score 1.0 for a perfect vendor, got %f", score)
		}
	})

	t.Run("UnavailableVendorLosesBonus", func(t *testing.T) {
		v := lahoreVenue()
		available := ScoreVendor(v, req, keywords)
		v.Available = false
		unavailable := ScoreVendor(v, req, keywords)
		if math.Abs((available-unavailable)-0.1) > 1e-9 {
			t.Errorf("Expected availability to be worth exactly 0.1, got %f", available-unavailable)
		}
	})

	t.Run("UnsetBudgetHalfPriceCredit", func(t *testing.T) {
		r := req
		r.Budget = 0
		v := lahoreVenue()
		v.Keywords = nil
		v.Description = ""
		v.Name = "x"
		v.Category = "x"
		// rating 4.8/5*0.3 + price 0.1 + availability 0.1
		want := 0.3*(4.8/5.0) + 0.1 + 0.1
		got := ScoreVendor(v, r, keywords)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("Expected %f with unset budget, got %f", want, got)
		}
	})

	t.Run("OveragePenaltyDecaysToZero", func(t *testing.T) {
		v := lahoreVenue()
		v.Keywords = nil
		v.Description = ""
		v.Name = "x"
		v.Category = "x"

		r := req
		// avg price 500000 == budget: full credit
		r.Budget = 500000
		full := ScoreVendor(v, r, keywords)

		// avg price double the budget: price credit gone entirely
		r.Budget = 250000
		zero := ScoreVendor(v, r, keywords)

		if math.Abs((full-zero)-0.2) > 1e-9 {
			t.Errorf("Expected price credit to span 0.2, got %f", full-zero)
		}

		// Halfway overage: half the price credit remains.
		r.Budget = 500000.0 / 1.5
		half := ScoreVendor(v, r, keywords)
		wantHalf := zero + 0.1
		if math.Abs(half-wantHalf) > 1e-6 {
			t.Errorf("Expected linear decay midpoint %f, got %f", wantHalf, half)
		}
	})

	t.Run("KeywordMatchesInTextAndSet", func(t *testing.T) {
		// "venue" appears in category, "wedding" in keywords: 2 of 8 match.
		v := vendor.VendorProfile{
			VendorID: "kw", Name: "x", Category: "venue", Description: "",
			Keywords: []string{"WEDDING"}, Rating: 0, Available: false,
			PriceMin: 1, PriceMax: 1,
		}
		got := ScoreVendor(v, req, keywords)
		want := 0.4*(2.0/8.0) + 0.2 // keyword share + full price credit
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("Expected %f, got %f", want, got)
		}
	})
}
