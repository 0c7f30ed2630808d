// Package planner implements event planning: vendor discovery (filter, score,
// rank), budget-constrained greedy allocation, and schedule generation.
package planner

import (
	"fmt"
	"time"

	"event-orchestrator/internal/vendor"
)

// EventRequirements captures a structured event request. Built once per user
// request from extracted intent and never mutated afterwards.
type EventRequirements struct {
	EventType   string   `json:"event_type"`
	Attendees   int      `json:"attendees"`
	Date        string   `json:"date"` // YYYY-MM-DD
	Budget      float64  `json:"budget"`
	Location    string   `json:"location,omitempty"`
	Preferences []string `json:"preferences,omitempty"`
}

// Validate rejects malformed requirements before they reach the allocator.
func (r EventRequirements) Validate() error {
	if r.EventType == "" {
		return fmt.Errorf("event_type is required")
	}
	if r.Attendees <= 0 {
		return fmt.Errorf("attendees must be positive, got %d", r.Attendees)
	}
	if r.Budget < 0 {
		return fmt.Errorf("budget must not be negative, got %.2f", r.Budget)
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", r.Date)
	}
	return nil
}

// VendorSelection is one chosen (vendor, service) pair with its cost and a
// human-readable justification.
type VendorSelection struct {
	VendorID  string  `json:"vendor_id"`
	ServiceID string  `json:"service_id"`
	Cost      float64 `json:"cost"`
	Reason    string  `json:"reason"`
}

// EventPlan aggregates a planning run: the originating requirements, the
// selected vendors, their summed cost, and a time-labeled schedule.
// The plan exclusively owns its selections and requirements snapshot.
type EventPlan struct {
	EventDetails    EventRequirements `json:"event_details"`
	SelectedVendors []VendorSelection `json:"selected_vendors"`
	TotalCost       float64           `json:"total_cost"`
	Schedule        []string          `json:"schedule"`
}

// NewEventPlan assembles a plan, computing total cost from the selections so
// the total_cost invariant holds at creation time.
func NewEventPlan(req EventRequirements, selections []VendorSelection, schedule []string) *EventPlan {
	var total float64
	for _, s := range selections {
		total += s.Cost
	}
	return &EventPlan{
		EventDetails:    req,
		SelectedVendors: selections,
		TotalCost:       total,
		Schedule:        schedule,
	}
}

// VendorByCategory maps each selection back to its vendor's category using
// the candidate pool the selections were drawn from.
func VendorByCategory(selections []VendorSelection, pool []vendor.VendorProfile) map[string]string {
	byID := make(map[string]string, len(pool))
	for _, v := range pool {
		byID[v.VendorID] = v.Category
	}
	out := make(map[string]string, len(selections))
	for _, s := range selections {
		if cat, ok := byID[s.VendorID]; ok {
			out[cat] = s.VendorID
		}
	}
	return out
}
