package planner

import (
	"fmt"

	"event-orchestrator/internal/vendor"
)

// Optimizer selects at most one (vendor, service) pair per required category
// under a shared depleting budget.
//
// The allocation is greedy and non-backtracking: each category is visited in
// order and committed to its locally best affordable candidate, with no
// reconsideration of earlier choices. The result is always feasible (total
// never exceeds the original budget) but not necessarily globally optimal.
type Optimizer struct {
	policy CategoryPolicy
}

// NewOptimizer creates an Optimizer with the given category policy.
// A nil policy falls back to the default mapping.
func NewOptimizer(policy CategoryPolicy) *Optimizer {
	if policy == nil {
		policy = DefaultCategoryPolicy()
	}
	return &Optimizer{policy: policy}
}

// OptimizeSchedule picks the best-value vendor service per required category.
// Categories with no affordable candidate are silently skipped; an empty
// result is a valid outcome, not an error.
func (o *Optimizer) OptimizeSchedule(req EventRequirements, available []vendor.VendorProfile) []VendorSelection {
	return o.allocate(req, available, o.policy.CategoriesFor(req.EventType))
}

func (o *Optimizer) allocate(req EventRequirements, available []vendor.VendorProfile, categories []string) []VendorSelection {
	remainingBudget := req.Budget

	// Partition candidates by category, preserving input order within each
	// bucket: ties are broken by first-encountered, so enumeration order
	// must stay reproducible.
	byCategory := make(map[string][]vendor.VendorProfile)
	for _, v := range available {
		cat := v.Category
		if cat == "" {
			cat = "other"
		}
		byCategory[cat] = append(byCategory[cat], v)
	}

	var selected []VendorSelection
	for _, category := range categories {
		candidates := byCategory[category]
		if len(candidates) == 0 {
			continue
		}

		var best *VendorSelection
		bestScore := -1.0

		for _, v := range candidates {
			for _, service := range v.PricedServices() {
				if service.Price > remainingBudget {
					continue
				}

				// A zero-price service scores zero rather than winning
				// on an infinite rating/price ratio.
				score := 0.0
				if service.Price > 0 {
					score = v.Rating / service.Price
				}

				if score > bestScore {
					bestScore = score
					best = &VendorSelection{
						VendorID:  v.VendorID,
						ServiceID: service.ID,
						Cost:      service.Price,
						Reason:    fmt.Sprintf("Best value for %s", category),
					}
				}
			}
		}

		if best != nil {
			selected = append(selected, *best)
			remainingBudget -= best.Cost
		}
	}

	return selected
}
