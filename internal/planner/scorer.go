package planner

import (
	"strings"

	"event-orchestrator/internal/vendor"
)

// Sub-score weights. A perfect vendor sums to 1.0.
const (
	keywordWeight      = 0.4
	ratingWeight       = 0.3
	priceWeight        = 0.2
	availabilityWeight = 0.1
)

// ScoreVendor computes a match score in [0, 1] for a vendor given the
// requirements and a derived keyword set:
//
//	keyword overlap 40%, rating 30%, price fit 20%, availability 10%.
//
// Deterministic and side-effect free; degenerate inputs score low rather
// than erroring.
func ScoreVendor(v vendor.VendorProfile, req EventRequirements, keywords []string) float64 {
	return keywordScore(v, keywords) + ratingScore(v) + priceScore(v, req) + availabilityScore(v)
}

func keywordScore(v vendor.VendorProfile, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}

	vendorKeywords := make(map[string]struct{}, len(v.Keywords))
	for _, k := range v.Keywords {
		vendorKeywords[strings.ToLower(k)] = struct{}{}
	}
	vendorText := strings.ToLower(v.Description + " " + v.Category + " " + v.Name)

	matches := 0
	for _, keyword := range keywords {
		if _, ok := vendorKeywords[keyword]; ok {
			matches++
			continue
		}
		if strings.Contains(vendorText, keyword) {
			matches++
		}
	}

	ratio := float64(matches) / float64(len(keywords))
	if ratio > 1.0 {
		ratio = 1.0
	}
	return keywordWeight * ratio
}

func ratingScore(v vendor.VendorProfile) float64 {
	return ratingWeight * (v.Rating / 5.0)
}

func priceScore(v vendor.VendorProfile, req EventRequirements) float64 {
	if req.Budget <= 0 {
		// Unknown fit: half credit.
		return priceWeight / 2
	}

	avgPrice := v.AveragePrice()
	if avgPrice <= req.Budget {
		return priceWeight
	}

	// Linear overage penalty. The score reaches zero once the overage
	// equals the budget itself.
	penalized := priceWeight * (1 - (avgPrice-req.Budget)/req.Budget)
	if penalized < 0 {
		return 0
	}
	return penalized
}

func availabilityScore(v vendor.VendorProfile) float64 {
	if v.Available {
		return availabilityWeight
	}
	return 0
}
