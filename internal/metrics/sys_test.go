package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCollectSysHealth(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "orchestrator.db")
	if err := os.WriteFile(dbPath, make([]byte, 2048), 0o644); err != nil {
		t.Fatalf("Failed to write test database file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "orchestrator.db-wal"), make([]byte, 1024), 0o644); err != nil {
		t.Fatalf("Failed to write sidecar file: %v", err)
	}

	health := CollectSysHealth(dbPath)

	if health.DatabaseSize != "2.0 KB" {
		t.Errorf("Expected database size '2.0 KB', got '%s'", health.DatabaseSize)
	}
	if health.DataDirSize != "3.0 KB" {
		t.Errorf("Expected data dir size '3.0 KB', got '%s'", health.DataDirSize)
	}
	if health.Goroutines < 1 {
		t.Errorf("Expected at least one goroutine, got %d", health.Goroutines)
	}
	if health.SysMB == 0 {
		t.Error("Expected a nonzero Sys memory reading")
	}
}

func TestCollectSysHealthMissingDatabase(t *testing.T) {
	health := CollectSysHealth(filepath.Join(t.TempDir(), "missing.db"))
	if health.DatabaseSize != "0 B" {
		t.Errorf("Expected '0 B' for a missing database, got '%s'", health.DatabaseSize)
	}
}

func TestHumanBytes(t *testing.T) {
	cases := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tc := range cases {
		if got := humanBytes(tc.size); got != tc.want {
			t.Errorf("humanBytes(%d) = '%s', want '%s'", tc.size, got, tc.want)
		}
	}
	if !strings.HasSuffix(humanBytes(3*1024*1024*1024), "GB") {
		t.Error("Expected a GB suffix for multi-gigabyte sizes")
	}
}
