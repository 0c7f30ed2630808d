package planner

import (
	"event-orchestrator/internal/vendor"
)

// MatchesFilters applies the hard eligibility checks for a vendor against the
// requirements. Pure predicate with no side effects: unavailable vendors,
// vendors whose minimum price exceeds the budget, and vendors not serving the
// requested location are excluded before scoring.
func MatchesFilters(v vendor.VendorProfile, req EventRequirements) bool {
	if !v.Available {
		return false
	}
	if req.Budget > 0 && v.PriceMin > req.Budget {
		return false
	}
	if req.Location != "" && !v.ServesLocation(req.Location) {
		return false
	}
	return true
}
