// Package approval implements the human approval gate between a generated
// event plan and vendor booking: budget-tiered approver levels, role limits,
// and a persisted request/decision trail.
package approval

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Request statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Approver levels, ordered by authority.
const (
	LevelManager   = "manager"
	LevelDirector  = "director"
	LevelExecutive = "executive"
)

// Cost thresholds selecting the required approver level, in PKR.
const (
	managerCeiling  = 100000
	directorCeiling = 500000
)

// roleLimits is the maximum budget each role may approve on its own, in PKR.
var roleLimits = map[string]float64{
	"coordinator":  50000,
	LevelManager:   200000,
	LevelDirector:  1000000,
	LevelExecutive: math.Inf(1),
}

// Request is a pending or decided approval request for an event plan.
type Request struct {
	RequestID   string    `json:"request_id"`
	UserID      string    `json:"user_id"`
	EventType   string    `json:"event_type"`
	TotalCost   float64   `json:"total_cost"`
	VendorCount int       `json:"vendor_count"`
	Requester   string    `json:"requester"`
	PlanData    []byte    `json:"-"`
	Status      string    `json:"status"`
	Level       string    `json:"approver_level"`
	RequestedAt time.Time `json:"requested_at"`
}

// Decision records the outcome of an approval request.
type Decision struct {
	RequestID string    `json:"request_id"`
	Approved  bool      `json:"approved"`
	DecidedBy string    `json:"decision_by"`
	DecidedAt time.Time `json:"decided_at"`
	Notes     string    `json:"notes,omitempty"`
}

// LimitCheck is the result of checking a budget against a requester's
// approval authority.
type LimitCheck struct {
	CanApprove     bool
	RequiresHigher bool
	ApproverLevel  string
	Reason         string
}

// RequiredLevel returns the approver level a plan of the given total cost
// needs.
func RequiredLevel(totalCost float64) string {
	switch {
	case totalCost < managerCeiling:
		return LevelManager
	case totalCost < directorCeiling:
		return LevelDirector
	default:
		return LevelExecutive
	}
}

// CheckLimits determines whether a requester role can approve a budget on its
// own authority, and if not, which level must sign off. Unknown roles have a
// zero limit.
func CheckLimits(budget float64, requesterRole string) LimitCheck {
	limit, ok := roleLimits[requesterRole]
	if !ok {
		limit = 0
	}

	if budget <= limit {
		return LimitCheck{
			CanApprove:    true,
			ApproverLevel: requesterRole,
			Reason:        fmt.Sprintf("Budget within %s approval limit (PKR %.0f)", requesterRole, limit),
		}
	}

	for _, level := range []string{LevelManager, LevelDirector, LevelExecutive} {
		if budget <= roleLimits[level] {
			return LimitCheck{
				RequiresHigher: true,
				ApproverLevel:  level,
				Reason:         fmt.Sprintf("Budget PKR %.0f exceeds %s limit. Requires %s approval.", budget, requesterRole, level),
			}
		}
	}

	return LimitCheck{
		RequiresHigher: true,
		ApproverLevel:  LevelExecutive,
		Reason:         fmt.Sprintf("Budget PKR %.0f requires executive approval", budget),
	}
}

// NewRequest builds a pending approval request for a plan.
func NewRequest(userID, eventType string, totalCost float64, vendorCount int, requester string, planData []byte) Request {
	return Request{
		RequestID:   fmt.Sprintf("APPROVAL_%s", uuid.NewString()),
		UserID:      userID,
		EventType:   eventType,
		TotalCost:   totalCost,
		VendorCount: vendorCount,
		Requester:   requester,
		PlanData:    planData,
		Status:      StatusPending,
		Level:       RequiredLevel(totalCost),
		RequestedAt: time.Now().UTC(),
	}
}
