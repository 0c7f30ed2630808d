package approval

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ErrNotFound is returned when an approval request does not exist.
var ErrNotFound = fmt.Errorf("approval request not found")

// Store is a database-backed repository for approval requests and decisions.
type Store struct {
	db *sql.DB
}

// NewStore creates a new Store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create persists a new approval request.
func (s *Store) Create(ctx context.Context, req Request) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO approval_requests
		 (request_id, user_id, event_type, total_cost, vendor_count, requester, plan_data, status, approver_level, requested_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.RequestID, req.UserID, req.EventType, req.TotalCost, req.VendorCount,
		req.Requester, req.PlanData, req.Status, req.Level, req.RequestedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert approval request: %w", err)
	}
	return nil
}

// Get retrieves an approval request by ID.
func (s *Store) Get(ctx context.Context, requestID string) (*Request, error) {
	var req Request
	err := s.db.QueryRowContext(ctx,
		`SELECT request_id, user_id, event_type, total_cost, vendor_count, requester, plan_data, status, approver_level, requested_at
		 FROM approval_requests WHERE request_id = ?`,
		requestID,
	).Scan(&req.RequestID, &req.UserID, &req.EventType, &req.TotalCost, &req.VendorCount,
		&req.Requester, &req.PlanData, &req.Status, &req.Level, &req.RequestedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get approval request: %w", err)
	}
	return &req, nil
}

// Decide records a decision on a pending request and flips its status.
// Deciding a request that is not pending fails.
func (s *Store) Decide(ctx context.Context, requestID string, approved bool, decidedBy, notes string) (*Decision, error) {
	status := StatusRejected
	if approved {
		status = StatusApproved
	}
	decidedAt := time.Now().UTC()

	result, err := s.db.ExecContext(ctx,
		`UPDATE approval_requests
		 SET status = ?, decided_by = ?, decided_at = ?, notes = ?
		 WHERE request_id = ? AND status = ?`,
		status, decidedBy, decidedAt, notes, requestID, StatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record decision: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check decision update: %w", err)
	}
	if affected == 0 {
		existing, err := s.Get(ctx, requestID)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("request %s is already %s", requestID, existing.Status)
	}

	return &Decision{
		RequestID: requestID,
		Approved:  approved,
		DecidedBy: decidedBy,
		DecidedAt: decidedAt,
		Notes:     notes,
	}, nil
}

// ListByStatus retrieves requests with the given status, newest first.
// An empty status lists everything.
func (s *Store) ListByStatus(ctx context.Context, status string, limit int) ([]Request, error) {
	query := `SELECT request_id, user_id, event_type, total_cost, vendor_count, requester, plan_data, status, approver_level, requested_at
		 FROM approval_requests`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY requested_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list approval requests: %w", err)
	}
	defer rows.Close()

	var requests []Request
	for rows.Next() {
		var req Request
		if err := rows.Scan(&req.RequestID, &req.UserID, &req.EventType, &req.TotalCost, &req.VendorCount,
			&req.Requester, &req.PlanData, &req.Status, &req.Level, &req.RequestedAt); err != nil {
			return nil, fmt.Errorf("failed to scan approval request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// PendingForUser returns the user's most recent pending request, or nil.
func (s *Store) PendingForUser(ctx context.Context, userID string) (*Request, error) {
	var req Request
	err := s.db.QueryRowContext(ctx,
		`SELECT request_id, user_id, event_type, total_cost, vendor_count, requester, plan_data, status, approver_level, requested_at
		 FROM approval_requests
		 WHERE user_id = ? AND status = ?
		 ORDER BY requested_at DESC LIMIT 1`,
		userID, StatusPending,
	).Scan(&req.RequestID, &req.UserID, &req.EventType, &req.TotalCost, &req.VendorCount,
		&req.Requester, &req.PlanData, &req.Status, &req.Level, &req.RequestedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find pending request: %w", err)
	}
	return &req, nil
}
