package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/agencia-rdp/simulator/net"
)

func TestRecordAndListRuns(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "runs.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	started := time.Now().Add(-time.Second)
	finished := time.Now()

	var fires [net.Transitions]int
	fires[11] = 186

	rec := RecordFromReport("0xabc", started, finished, "fast", "prioritized", 11, 186, fires, 1302, 26)
	id, err := s.RecordRun(ctx, rec)
	if err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a non-zero row id")
	}

	runs, err := s.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	got := runs[0]
	if got.ExitFires != 186 || got.AlphaProfile != "fast" || got.PolicyName != "prioritized" {
		t.Errorf("unexpected run record: %+v", got)
	}
}

func TestListRunsOrdersNewestFirst(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "runs.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	var fires [net.Transitions]int

	for _, target := range []int{10, 20, 30} {
		fires[11] = target
		rec := RecordFromReport("0xabc", time.Now(), time.Now(), "none", "balanced", 11, target, fires, target*7, target/5)
		if _, err := s.RecordRun(ctx, rec); err != nil {
			t.Fatalf("RecordRun failed: %v", err)
		}
	}

	runs, err := s.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].ExitFires != 30 || runs[1].ExitFires != 20 {
		t.Errorf("expected newest-first order, got %d then %d", runs[0].ExitFires, runs[1].ExitFires)
	}
}
