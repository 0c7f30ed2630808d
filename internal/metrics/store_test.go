package metrics

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"event-orchestrator/internal/database"
	"event-orchestrator/internal/shared"
)

func testMetricsStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db.SQL)
}

func TestRecordAndDailyUsage(t *testing.T) {
	store := testMetricsStore(t)
	ctx := context.Background()

	meta := shared.AgentMeta{
		AgentName: "IntentExtractor",
		Usage:     shared.TokenUsage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150, Model: "gemini-2.0-flash"},
		Latency:   250 * time.Millisecond,
	}
	if err := store.RecordMeta(ctx, meta); err != nil {
		t.Fatalf("RecordMeta failed: %v", err)
	}
	if err := store.RecordMeta(ctx, meta); err != nil {
		t.Fatalf("RecordMeta failed: %v", err)
	}

	usage, err := store.GetDailyUsage(ctx, 7)
	if err != nil {
		t.Fatalf("GetDailyUsage failed: %v", err)
	}
	if len(usage) != 1 {
		t.Fatalf("Expected 1 day of usage, got %d", len(usage))
	}
	if usage[0].TotalPrompt != 200 || usage[0].TotalCompletion != 100 || usage[0].TotalExecution != 2 {
		t.Errorf("Unexpected usage: %+v", usage[0])
	}
}

func TestRecordMetaSkipsEmptyUsage(t *testing.T) {
	store := testMetricsStore(t)
	ctx := context.Background()

	if err := store.RecordMeta(ctx, shared.AgentMeta{AgentName: "Planner"}); err != nil {
		t.Fatalf("RecordMeta failed: %v", err)
	}

	usage, err := store.GetDailyUsage(ctx, 7)
	if err != nil {
		t.Fatalf("GetDailyUsage failed: %v", err)
	}
	if len(usage) != 0 {
		t.Errorf("Expected no recorded usage, got %+v", usage)
	}
}

func TestCleanup(t *testing.T) {
	store := testMetricsStore(t)
	ctx := context.Background()

	old := ExecutionMetric{AgentName: "IntentExtractor", PromptTokens: 10, Timestamp: time.Now().AddDate(0, 0, -40).UTC()}
	recent := ExecutionMetric{AgentName: "IntentExtractor", PromptTokens: 10, Timestamp: time.Now().UTC()}
	for _, m := range []ExecutionMetric{old, recent} {
		if err := store.Record(ctx, m); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	deleted, err := store.Cleanup(ctx, 30)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 deleted row, got %d", deleted)
	}
}
