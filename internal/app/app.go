// Package app wires the orchestrator's components together and exposes the
// conversation-level operations: process a planning request, approve or
// reject it, book vendors, and import vendors from URLs.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"event-orchestrator/internal/approval"
	"event-orchestrator/internal/clipper"
	"event-orchestrator/internal/config"
	"event-orchestrator/internal/database"
	"event-orchestrator/internal/intent"
	"event-orchestrator/internal/metrics"
	"event-orchestrator/internal/planner"
	"event-orchestrator/internal/shared"
	"event-orchestrator/internal/vendor"
)

// Portal is the slice of the vendor portal API the app depends on.
type Portal interface {
	ListVendors(filters map[string]string) ([]vendor.VendorProfile, error)
	GetVendorDetails(vendorID string) (*vendor.VendorProfile, error)
	CreateBooking(req vendor.BookingRequest) (*vendor.Booking, error)
}

// App holds the application's dependencies.
type App struct {
	cfg           *config.Config
	extractor     *intent.Extractor
	eventPlanner  *planner.Planner
	portal        Portal
	manual        *vendor.ManualVendors
	vendorClipper *clipper.Clipper
	approvals     *approval.Store
	plans         *planner.PlanRepository
	metricsStore  *metrics.Store
	db            *database.DB
}

// NewApp creates and initializes a new App instance.
func NewApp(
	cfg *config.Config,
	extractor *intent.Extractor,
	eventPlanner *planner.Planner,
	portal Portal,
	manual *vendor.ManualVendors,
	vendorClipper *clipper.Clipper,
	approvals *approval.Store,
	plans *planner.PlanRepository,
	metricsStore *metrics.Store,
	db *database.DB,
) *App {
	return &App{
		cfg:           cfg,
		extractor:     extractor,
		eventPlanner:  eventPlanner,
		portal:        portal,
		manual:        manual,
		vendorClipper: vendorClipper,
		approvals:     approvals,
		plans:         plans,
		metricsStore:  metricsStore,
		db:            db,
	}
}

// PlanResult is the outcome of processing a planning request: the generated
// plan plus the approval request gating it.
type PlanResult struct {
	Plan       *planner.EventPlan
	RequestID  string
	Level      string
	LimitCheck approval.LimitCheck
}

// ProcessRequest runs the full pipeline for a user message: extract intent,
// plan the event, persist the plan, and open an approval request.
func (a *App) ProcessRequest(ctx context.Context, userID, message string) (*PlanResult, error) {
	extracted, err := a.extractor.Extract(ctx, message)
	a.recordMeta(ctx, extracted.Meta)
	if err != nil {
		return nil, fmt.Errorf("could not understand the request: %w", err)
	}

	plan, err := a.eventPlanner.PlanEvent(ctx, extracted.Requirements)
	if err != nil {
		return nil, fmt.Errorf("planning failed: %w", err)
	}

	planData, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize plan: %w", err)
	}
	if _, err := a.plans.Save(ctx, userID, planData); err != nil {
		log.Printf("Failed to persist plan for %s: %v", userID, err)
	}

	req := approval.NewRequest(
		userID,
		plan.EventDetails.EventType,
		plan.TotalCost,
		len(plan.SelectedVendors),
		userID,
		planData,
	)
	if err := a.approvals.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create approval request: %w", err)
	}

	return &PlanResult{
		Plan:       plan,
		RequestID:  req.RequestID,
		Level:      req.Level,
		LimitCheck: approval.CheckLimits(plan.TotalCost, "coordinator"),
	}, nil
}

// BookingResult summarizes the bookings made after an approval.
type BookingResult struct {
	Decision *approval.Decision
	Bookings []vendor.Booking
	Failures []string
}

// Approve records an approval decision and books every vendor in the plan.
// Individual booking failures are collected rather than aborting the rest.
func (a *App) Approve(ctx context.Context, requestID, approvedBy string) (*BookingResult, error) {
	req, err := a.approvals.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}

	decision, err := a.approvals.Decide(ctx, requestID, true, approvedBy, "")
	if err != nil {
		return nil, err
	}

	var plan planner.EventPlan
	if err := json.Unmarshal(req.PlanData, &plan); err != nil {
		return nil, fmt.Errorf("failed to load approved plan: %w", err)
	}

	result := &BookingResult{Decision: decision}
	for _, selection := range plan.SelectedVendors {
		booking, err := a.portal.CreateBooking(vendor.BookingRequest{
			VendorID:    selection.VendorID,
			ServiceID:   selection.ServiceID,
			EventDate:   plan.EventDetails.Date,
			ClientName:  req.UserID,
			ClientEmail: fmt.Sprintf("%s@events.local", req.UserID),
			GuestCount:  plan.EventDetails.Attendees,
			Notes:       selection.Reason,
			EventName:   fmt.Sprintf("%s on %s", plan.EventDetails.EventType, plan.EventDetails.Date),
		})
		if err != nil {
			log.Printf("Booking failed for %s/%s: %v", selection.VendorID, selection.ServiceID, err)
			result.Failures = append(result.Failures, fmt.Sprintf("%s: %v", selection.VendorID, err))
			continue
		}
		result.Bookings = append(result.Bookings, *booking)
	}
	return result, nil
}

// Reject records a rejection decision for a pending request.
func (a *App) Reject(ctx context.Context, requestID, rejectedBy, notes string) (*approval.Decision, error) {
	return a.approvals.Decide(ctx, requestID, false, rejectedBy, notes)
}

// PendingApproval returns the user's most recent pending request, or nil.
func (a *App) PendingApproval(ctx context.Context, userID string) (*approval.Request, error) {
	return a.approvals.PendingForUser(ctx, userID)
}

// PendingRequests lists all pending approval requests, newest first.
func (a *App) PendingRequests(ctx context.Context, limit int) ([]approval.Request, error) {
	return a.approvals.ListByStatus(ctx, approval.StatusPending, limit)
}

// Availability reports whether a vendor can serve the given date, with
// fallback dates offered when it cannot.
type Availability struct {
	VendorID         string   `json:"vendor_id"`
	Available        bool     `json:"available"`
	AlternativeDates []string `json:"alternative_dates,omitempty"`
}

// CheckAvailability checks a vendor's availability for a date. Unavailable
// vendors get alternatives one day, one week, and two weeks out.
func (a *App) CheckAvailability(vendorID, eventDate string) (*Availability, error) {
	base, err := time.Parse("2006-01-02", eventDate)
	if err != nil {
		return nil, fmt.Errorf("invalid event date %q: expected YYYY-MM-DD", eventDate)
	}

	available := true
	details, err := a.portal.GetVendorDetails(vendorID)
	switch {
	case err == nil:
		available = details.Available
	case a.manual != nil && a.manual.GetDetails(vendorID) != nil:
		available = a.manual.GetDetails(vendorID).Available
	default:
		return nil, fmt.Errorf("vendor %s not found: %w", vendorID, err)
	}

	result := &Availability{VendorID: vendorID, Available: available}
	if !available {
		for _, days := range []int{1, 7, 14} {
			result.AlternativeDates = append(result.AlternativeDates, base.AddDate(0, 0, days).Format("2006-01-02"))
		}
	}
	return result, nil
}

// ClipVendor imports a vendor listing from a URL into the manual vendor list.
func (a *App) ClipVendor(ctx context.Context, url string) (*vendor.VendorProfile, error) {
	return a.vendorClipper.ClipURL(ctx, url)
}

// DailyUsage returns token usage per day for the last N days.
func (a *App) DailyUsage(ctx context.Context, days int) ([]metrics.DailyUsage, error) {
	return a.metricsStore.GetDailyUsage(ctx, days)
}

// CleanupMetrics removes metrics older than the given number of days.
func (a *App) CleanupMetrics(ctx context.Context, olderThanDays int) (int64, error) {
	return a.metricsStore.Cleanup(ctx, olderThanDays)
}

// Close releases the app's database resources.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func (a *App) recordMeta(ctx context.Context, meta shared.AgentMeta) {
	if a.metricsStore == nil {
		return
	}
	if err := a.metricsStore.RecordMeta(ctx, meta); err != nil {
		log.Printf("Failed to record metrics for %s: %v", meta.AgentName, err)
	}
}
