package planner

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// StoredPlan is a persisted event plan.
type StoredPlan struct {
	ID        int64
	UserID    string
	PlanData  []byte // Raw JSON of the event plan
	CreatedAt time.Time
}

// PlanRepository is a database-backed repository for event plans.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(db *sql.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// Save inserts a new event plan and returns its row ID.
func (r *PlanRepository) Save(ctx context.Context, userID string, planData []byte) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO event_plans (user_id, plan_data, created_at) VALUES (?, ?, ?)`,
		userID, planData, time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert event plan: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read plan ID: %w", err)
	}
	return id, nil
}

// Get retrieves a stored plan by ID, or nil when absent.
func (r *PlanRepository) Get(ctx context.Context, id int64) (*StoredPlan, error) {
	var p StoredPlan
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, plan_data, created_at FROM event_plans WHERE id = ?`,
		id,
	).Scan(&p.ID, &p.UserID, &p.PlanData, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get event plan: %w", err)
	}
	return &p, nil
}

// ListRecentByUserID retrieves the N most recent plans for a given user.
func (r *PlanRepository) ListRecentByUserID(ctx context.Context, userID string, limit int) ([]StoredPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, plan_data, created_at
		 FROM event_plans
		 WHERE user_id = ?
		 ORDER BY created_at DESC
		 LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list event plans for user %s: %w", userID, err)
	}
	defer rows.Close()

	var plans []StoredPlan
	for rows.Next() {
		var p StoredPlan
		if err := rows.Scan(&p.ID, &p.UserID, &p.PlanData, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}
