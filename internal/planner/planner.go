package planner

import (
	"context"
	"fmt"
	"log"

	"event-orchestrator/internal/vendor"
)

// PortalSource lists vendors from the vendor portal API.
type PortalSource interface {
	ListVendors(filters map[string]string) ([]vendor.VendorProfile, error)
}

// topVendorCount is how many discovery results seed the candidate pool.
const topVendorCount = 5

// minPoolSize below which portal and manual vendors supplement discovery.
const minPoolSize = 3

// Planner orchestrates a planning run: discover and rank vendors, supplement
// thin pools from the portal and manual lists, allocate under budget, and
// produce a schedule.
type Planner struct {
	discovery *Discovery
	portal    PortalSource
	manual    *vendor.ManualVendors
	optimizer *Optimizer
}

// NewPlanner creates a Planner. portal and manual may be nil, in which case
// thin pools are not supplemented.
func NewPlanner(discovery *Discovery, portal PortalSource, manual *vendor.ManualVendors, optimizer *Optimizer) *Planner {
	return &Planner{
		discovery: discovery,
		portal:    portal,
		manual:    manual,
		optimizer: optimizer,
	}
}

// PlanEvent runs the full planning pipeline for validated requirements.
func (p *Planner) PlanEvent(ctx context.Context, req EventRequirements) (*EventPlan, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid requirements: %w", err)
	}

	log.Printf("Planning event: %s for %d people, budget PKR %.0f, location %q",
		req.EventType, req.Attendees, req.Budget, req.Location)

	ranked := p.discovery.Search(ctx, req, topVendorCount)

	pool := make([]vendor.VendorProfile, 0, len(ranked))
	for _, r := range ranked {
		pool = append(pool, r.Vendor)
	}

	if len(pool) < minPoolSize {
		pool = append(pool, p.supplementPool(req)...)
	}
	pool = dedupeVendors(pool)

	selections := p.optimizer.OptimizeSchedule(req, pool)

	schedule := FormatSchedule(BuildSchedule(req, VendorByCategory(selections, pool)))

	plan := NewEventPlan(req, selections, schedule)
	log.Printf("Plan created with %d vendors, total cost PKR %.0f", len(selections), plan.TotalCost)
	return plan, nil
}

// Discover exposes ranked vendor search for callers that want candidates
// without a full plan.
func (p *Planner) Discover(ctx context.Context, req EventRequirements, topK int) []RankedVendor {
	return p.discovery.Search(ctx, req, topK)
}

// supplementPool pulls additional candidates from the portal and the manual
// vendor list. Retrieval failures are logged and ignored; planning proceeds
// with whatever is available.
func (p *Planner) supplementPool(req EventRequirements) []vendor.VendorProfile {
	var extra []vendor.VendorProfile

	if p.portal != nil {
		portalVendors, err := p.portal.ListVendors(map[string]string{"query": req.EventType})
		if err != nil {
			log.Printf("Portal vendor search failed: %v", err)
		} else {
			extra = append(extra, portalVendors...)
		}
	}

	if p.manual != nil {
		extra = append(extra, p.manual.Search(req.EventType, "")...)
	}

	return extra
}

func dedupeVendors(vendors []vendor.VendorProfile) []vendor.VendorProfile {
	seen := make(map[string]struct{}, len(vendors))
	out := vendors[:0]
	for _, v := range vendors {
		if _, ok := seen[v.VendorID]; ok {
			continue
		}
		seen[v.VendorID] = struct{}{}
		out = append(out, v)
	}
	return out
}
