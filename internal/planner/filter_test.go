package planner

import (
	"testing"

	"event-orchestrator/internal/vendor"
)

func lahoreVenue() vendor.VendorProfile {
	return vendor.VendorProfile{
		VendorID: "venue_001", Name: "Royal Marquee Lahore", Category: "venue",
		ServiceAreas: []string{"Lahore"}, PriceMin: 200000, PriceMax: 800000,
		Rating: 4.8, Available: true,
	}
}

func TestMatchesFilters(t *testing.T) {
	req := EventRequirements{EventType: "wedding", Attendees: 200, Date: "2026-03-15", Budget: 500000, Location: "Lahore"}

	t.Run("Eligible", func(t *testing.T) {
		if !MatchesFilters(lahoreVenue(), req) {
			t.Error("Expected an available, in-budget, local vendor to pass")
		}
	})

	t.Run("Unavailable", func(t *testing.T) {
		v := lahoreVenue()
		v.Available = false
		if MatchesFilters(v, req) {
			t.Error("Expected unavailable vendor to be excluded")
		}
	})

	t.Run("MinPriceOverBudget", func(t *testing.T) {
		v := lahoreVenue()
		v.PriceMin = 600000
		if MatchesFilters(v, req) {
			t.Error("Expected vendor with price_min above budget to be excluded")
		}
	})

	t.Run("WrongLocation", func(t *testing.T) {
		r := req
		r.Location = "Karachi"
		if MatchesFilters(lahoreVenue(), r) {
			t.Error("Expected Lahore-only vendor to be excluded for Karachi")
		}
	})

	t.Run("LocationCaseInsensitive", func(t *testing.T) {
		r := req
		r.Location = "LAHORE"
		if !MatchesFilters(lahoreVenue(), r) {
			t.Error("Expected location match to ignore case")
		}
	})

	t.Run("WildcardArea", func(t *testing.T) {
		v := lahoreVenue()
		v.ServiceAreas = []string{"all"}
		r := req
		r.Location = "Peshawar"
		if !MatchesFilters(v, r) {
			t.Error("Expected wildcard service area to match any location")
		}
	})

	t.Run("NoLocationRequested", func(t *testing.T) {
		r := req
		r.Location = ""
		if !MatchesFilters(lahoreVenue(), r) {
			t.Error("Expected vendors to pass when no location is requested")
		}
	})

	t.Run("Monotonicity", func(t *testing.T) {
		// A vendor failing at budget B must also fail at any lower budget.
		v := lahoreVenue()
		v.PriceMin = 300000
		r := req
		r.Budget = 250000
		if MatchesFilters(v, r) {
			t.Fatal("Expected failure at budget 250000")
		}
		for _, budget := range []float64{200000, 100000, 1} {
			r.Budget = budget
			if MatchesFilters(v, r) {
				t.Errorf("Expected failure to persist at lower budget %.0f", budget)
			}
		}
	})
}
