// ABOUTME: Tests for the pending-update queue lifecycle
// ABOUTME: Covers apply, dismiss and the missing-target edge case

package hierarchy

import (
	"testing"

	"github.com/nainya/prdstore/pkg/blob"
	"github.com/nainya/prdstore/pkg/prd"
)

func seedPending(t *testing.T, s *Store) *prd.PRD {
	t.Helper()

	root := mustSubmit(t, s, prd.Candidate{
		Title:   "Platform",
		Content: basicContent,
		Origin:  prd.ManualOrigin("manual"),
	}).PRD

	result := mustSubmit(t, s, prd.Candidate{
		Title:   "Platform",
		Content: grownContent,
		Origin:  prd.ManualOrigin("manual"),
	})
	if result.Outcome != OutcomePending {
		t.Fatalf("Expected pending, got %s", result.Outcome)
	}
	return root
}

func TestApplyPendingUpdate(t *testing.T) {
	s := newTestStore()
	root := seedPending(t, s)

	applied, err := s.ApplyPendingUpdate(root.ID)
	if err != nil {
		t.Fatalf("Failed to apply: %v", err)
	}
	if applied == nil {
		t.Fatal("Expected a new version")
	}
	if applied.Version != 2 {
		t.Errorf("Expected version 2, got %d", applied.Version)
	}
	if applied.Content != grownContent {
		t.Error("Expected queued content applied")
	}
	last := applied.VersionHistory[len(applied.VersionHistory)-1]
	if last.Description != "Applied pending update: content_addition" {
		t.Errorf("Unexpected change description '%s'", last.Description)
	}
	if len(s.PendingUpdates()) != 0 {
		t.Errorf("Expected queue drained, got %d", len(s.PendingUpdates()))
	}

	old, _ := s.Get(root.ID)
	if old.IsLatestVersion {
		t.Error("Expected old version's latest flag cleared")
	}
}

func TestApplyPendingUpdateNoQueueEntry(t *testing.T) {
	s := newTestStore()
	root := mustSubmit(t, s, prd.Candidate{
		Title:   "Platform",
		Content: basicContent,
		Origin:  prd.ManualOrigin("manual"),
	}).PRD

	applied, err := s.ApplyPendingUpdate(root.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if applied != nil {
		t.Error("Expected nil when nothing is queued")
	}
}

func TestApplyPendingUpdateMissingTarget(t *testing.T) {
	s := newTestStore()
	root := seedPending(t, s)

	if _, err := s.Delete(root.ID); err != nil {
		t.Fatalf("Failed to delete target: %v", err)
	}

	applied, err := s.ApplyPendingUpdate(root.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if applied != nil {
		t.Error("Expected nil for a deleted target")
	}
	if len(s.PendingUpdates()) != 1 {
		t.Errorf("Expected queue untouched, got %d entries", len(s.PendingUpdates()))
	}
}

func TestDismissPendingUpdate(t *testing.T) {
	s := newTestStore()
	root := seedPending(t, s)

	dismissed, err := s.DismissPendingUpdate(root.ID)
	if err != nil {
		t.Fatalf("Failed to dismiss: %v", err)
	}
	if !dismissed {
		t.Error("Expected dismissal to report success")
	}
	if len(s.PendingUpdates()) != 0 {
		t.Errorf("Expected queue drained, got %d", len(s.PendingUpdates()))
	}

	// The document itself stays at version 1
	doc, _ := s.Get(root.ID)
	if doc.Version != 1 || !doc.IsLatestVersion {
		t.Error("Expected document unchanged by dismissal")
	}
}

func TestDismissPendingUpdateNothingQueued(t *testing.T) {
	s := newTestStore()
	dismissed, err := s.DismissPendingUpdate("missing")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if dismissed {
		t.Error("Expected dismissal of empty queue to report false")
	}
}

func TestPendingUpdateFor(t *testing.T) {
	s := newTestStore()
	root := seedPending(t, s)

	pending, ok := s.PendingUpdateFor(root.ID)
	if !ok {
		t.Fatal("Expected queued update")
	}
	if pending.Kind != PendingContentAddition {
		t.Errorf("Expected content_addition kind, got '%s'", pending.Kind)
	}
	if pending.Similarity <= 0 {
		t.Errorf("Expected recorded similarity, got %f", pending.Similarity)
	}
	if pending.ID == "" {
		t.Error("Expected a generated pending id")
	}
}

func TestMalformedPendingBlobDegradesToEmpty(t *testing.T) {
	blobs := blob.NewMemStore()
	if err := blobs.Set("pending_prd_updates", "[broken"); err != nil {
		t.Fatalf("Failed to seed blob: %v", err)
	}

	s := New(blobs)
	if len(s.PendingUpdates()) != 0 {
		t.Error("Expected malformed queue to read as empty")
	}
}
