package planner

import (
	"context"
	"fmt"
	"log"
	"sort"

	"event-orchestrator/internal/vendor"
)

// RankedVendor pairs a vendor profile with its match score.
type RankedVendor struct {
	Vendor vendor.VendorProfile
	Score  float64
}

// Selection converts a ranked vendor into a VendorSelection costed at the
// vendor's average price.
func (r RankedVendor) Selection() VendorSelection {
	return VendorSelection{
		VendorID:  r.Vendor.VendorID,
		ServiceID: fmt.Sprintf("%s_default", r.Vendor.Category),
		Cost:      r.Vendor.AveragePrice(),
		Reason:    fmt.Sprintf("%.0f%% match - %s", r.Score*100, r.Vendor.Name),
	}
}

// Discovery searches a vendor source and ranks the results against event
// requirements using keyword matching and scoring.
type Discovery struct {
	source vendor.Source
}

// NewDiscovery creates a Discovery over the given vendor source.
func NewDiscovery(source vendor.Source) *Discovery {
	return &Discovery{source: source}
}

// Search returns the topK vendors matching the requirements, best first.
// When the source fails or returns nothing, the built-in sample set is used
// so planning can still proceed.
func (d *Discovery) Search(ctx context.Context, req EventRequirements, topK int) []RankedVendor {
	vendors, err := d.source.Search(ctx, vendor.SearchParams{
		EventType: req.EventType,
		Location:  req.Location,
		Budget:    req.Budget,
		Limit:     topK * 2,
	})
	if err != nil {
		log.Printf("Vendor catalog search failed: %v, using samples", err)
		vendors = vendor.Samples()
	}
	if len(vendors) == 0 {
		vendors = vendor.Samples()
	}

	keywords := DeriveKeywords(req)

	var ranked []RankedVendor
	for _, v := range vendors {
		if !MatchesFilters(v, req) {
			continue
		}
		ranked = append(ranked, RankedVendor{
			Vendor: v,
			Score:  ScoreVendor(v, req, keywords),
		})
	}

	// Stable sort keeps input order on score ties, so identical pools
	// always rank identically.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if topK > 0 && len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}
