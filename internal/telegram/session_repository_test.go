package telegram

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"event-orchestrator/internal/database"
)

func testSessions(t *testing.T) *SessionRepository {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSessionRepository(db.SQL)
}

func TestSessionRoundTrip(t *testing.T) {
	sr := testSessions(t)
	ctx := context.Background()

	data := SessionContextData{RequestID: "APPROVAL_abc", OriginalRequest: "plan my wedding"}
	if err := sr.Set(ctx, "42", stateAwaitingApproval, data); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	session, err := sr.GetActive(ctx, "42")
	if err != nil {
		t.Fatalf("GetActive failed: %v", err)
	}
	if session == nil {
		t.Fatal("Expected an active session")
	}
	if session.State != stateAwaitingApproval || session.Context.RequestID != "APPROVAL_abc" {
		t.Errorf("Unexpected session: %+v", session)
	}
}

func TestSessionReplacedOnSet(t *testing.T) {
	sr := testSessions(t)
	ctx := context.Background()

	if err := sr.Set(ctx, "42", stateAwaitingApproval, SessionContextData{RequestID: "APPROVAL_first"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := sr.Set(ctx, "42", stateAwaitingApproval, SessionContextData{RequestID: "APPROVAL_second"}); err != nil {
		t.Fatalf("Second Set failed: %v", err)
	}

	session, err := sr.GetActive(ctx, "42")
	if err != nil {
		t.Fatalf("GetActive failed: %v", err)
	}
	if session.Context.RequestID != "APPROVAL_second" {
		t.Errorf("Expected most recent session, got %+v", session)
	}
}

func TestSessionDelete(t *testing.T) {
	sr := testSessions(t)
	ctx := context.Background()

	if err := sr.Set(ctx, "42", stateAwaitingApproval, SessionContextData{}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := sr.Delete(ctx, "42"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	session, err := sr.GetActive(ctx, "42")
	if err != nil {
		t.Fatalf("GetActive failed: %v", err)
	}
	if session != nil {
		t.Errorf("Expected no session after delete, got %+v", session)
	}
}

func TestSessionMissingUser(t *testing.T) {
	sr := testSessions(t)
	session, err := sr.GetActive(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetActive failed: %v", err)
	}
	if session != nil {
		t.Errorf("Expected nil for unknown user, got %+v", session)
	}
}

func TestSessionCleanupExpired(t *testing.T) {
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	sr := NewSessionRepository(db.SQL)
	ctx := context.Background()

	if err := sr.Set(ctx, "fresh", stateAwaitingApproval, SessionContextData{}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := sr.Set(ctx, "stale", stateAwaitingApproval, SessionContextData{}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := db.SQL.ExecContext(ctx,
		`UPDATE sessions SET updated_at = ? WHERE user_id = ?`,
		time.Now().UTC().Add(-2*sessionTTL), "stale",
	); err != nil {
		t.Fatalf("Failed to backdate session: %v", err)
	}

	if err := sr.CleanupExpired(ctx); err != nil {
		t.Fatalf("CleanupExpired failed: %v", err)
	}

	var count int
	if err := db.SQL.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&count); err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected only the fresh session to remain, got %d rows", count)
	}

	session, err := sr.GetActive(ctx, "fresh")
	if err != nil || session == nil {
		t.Fatalf("Expected the fresh session to survive, got %+v (%v)", session, err)
	}
}
