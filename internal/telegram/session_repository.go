package telegram

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

// sessionTTL bounds how long a chat session stays actionable.
const sessionTTL = 24 * time.Hour

// Session represents an active user session, e.g. a plan awaiting an
// approve/reject reply.
type Session struct {
	UserID    string
	State     string
	Context   SessionContextData
	UpdatedAt time.Time
}

// SessionContextData holds structured data stored in the payload JSON field.
type SessionContextData struct {
	RequestID       string `json:"request_id"`
	OriginalRequest string `json:"original_request"`
}

// SessionRepository provides access to session persistence operations.
// Sessions are keyed by user, one active session per user.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository instance.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Set creates or replaces the user's session.
func (sr *SessionRepository) Set(ctx context.Context, userID, state string, data SessionContextData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	_, err = sr.db.ExecContext(ctx,
		`INSERT INTO sessions (user_id, state, payload, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET state = excluded.state, payload = excluded.payload, updated_at = excluded.updated_at`,
		userID, state, payload, time.Now().UTC(),
	)
	return err
}

// GetActive retrieves the user's session if it has not expired, or nil.
func (sr *SessionRepository) GetActive(ctx context.Context, userID string) (*Session, error) {
	var (
		s       Session
		payload []byte
	)
	err := sr.db.QueryRowContext(ctx,
		`SELECT user_id, state, payload, updated_at FROM sessions WHERE user_id = ?`,
		userID,
	).Scan(&s.UserID, &s.State, &payload, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if time.Since(s.UpdatedAt) > sessionTTL {
		_ = sr.Delete(ctx, userID)
		return nil, nil
	}

	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &s.Context); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// Delete removes the user's session.
func (sr *SessionRepository) Delete(ctx context.Context, userID string) error {
	_, err := sr.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID)
	return err
}

// CleanupExpired removes all expired sessions.
func (sr *SessionRepository) CleanupExpired(ctx context.Context) error {
	threshold := time.Now().UTC().Add(-sessionTTL)
	_, err := sr.db.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at < ?`, threshold)
	return err
}
