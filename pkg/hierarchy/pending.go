// ABOUTME: Pending-update queue for changes that need human confirmation
// ABOUTME: One queued update per target; apply creates a version, dismiss drops it

package hierarchy

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nainya/prdstore/pkg/prd"
)

// PendingKind classifies a queued update.
type PendingKind string

// PendingContentAddition is the only kind currently produced: new content
// that likely extends an existing document.
const PendingContentAddition PendingKind = "content_addition"

// PendingUpdate is a detected update waiting for user confirmation.
type PendingUpdate struct {
	ID         string      `json:"id"`
	TargetID   string      `json:"targetId"`
	Content    string      `json:"content"`
	Origin     prd.Origin  `json:"origin"`
	DetectedAt time.Time   `json:"detectedAt"`
	Kind       PendingKind `json:"kind"`
	Similarity float64     `json:"similarity"`
}

// PendingUpdates returns the queue, most recent first. Read failures degrade
// to an empty queue.
func (s *Store) PendingUpdates() []*PendingUpdate {
	raw, ok, err := s.blobs.Get(pendingKey)
	if err != nil {
		s.log.Error("failed to read pending update queue").Err(err).Send()
		return nil
	}
	if !ok {
		return nil
	}

	var queue []*PendingUpdate
	if err := json.Unmarshal([]byte(raw), &queue); err != nil {
		s.log.Error("malformed pending update blob").Err(err).Send()
		return nil
	}
	return queue
}

// PendingUpdateFor returns the queued update targeting the given document.
func (s *Store) PendingUpdateFor(targetID string) (*PendingUpdate, bool) {
	for _, p := range s.PendingUpdates() {
		if p.TargetID == targetID {
			return p, true
		}
	}
	return nil, false
}

// enqueuePending queues an update, replacing any earlier update for the same
// target. The queue holds at most one update per document.
func (s *Store) enqueuePending(p *PendingUpdate) error {
	if p.ID == "" {
		p.ID = fmt.Sprintf("pending_%d", time.Now().UnixNano())
	}

	queue := s.PendingUpdates()
	kept := make([]*PendingUpdate, 0, len(queue)+1)
	kept = append(kept, p)
	for _, existing := range queue {
		if existing.TargetID != p.TargetID {
			kept = append(kept, existing)
		}
	}
	return s.savePending(kept)
}

// ApplyPendingUpdate confirms the queued update for targetID, creating a new
// version of the target. If the target document no longer exists, the update
// stays queued and nil is returned.
func (s *Store) ApplyPendingUpdate(targetID string) (*prd.PRD, error) {
	pending, ok := s.PendingUpdateFor(targetID)
	if !ok {
		return nil, nil
	}

	all := s.loadCollection()
	target := findByID(all, targetID)
	if target == nil {
		s.log.StoreLogger("apply_pending").Warn("pending update target missing").Str("id", targetID).Send()
		return nil, nil
	}

	description := fmt.Sprintf("Applied pending update: %s", pending.Kind)
	version := prd.NewVersion(target, pending.Content, description)
	target.IsLatestVersion = false
	target.NextVersionID = version.ID
	all = append([]*prd.PRD{version}, all...)

	if err := s.persist(all); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.VersionsCreatedTotal.Inc()
	}
	if err := s.removePending(targetID); err != nil {
		return nil, err
	}
	return version, nil
}

// DismissPendingUpdate drops the queued update for targetID without applying
// it. Returns false if nothing was queued.
func (s *Store) DismissPendingUpdate(targetID string) (bool, error) {
	if _, ok := s.PendingUpdateFor(targetID); !ok {
		return false, nil
	}
	if err := s.removePending(targetID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) removePending(targetID string) error {
	queue := s.PendingUpdates()
	kept := make([]*PendingUpdate, 0, len(queue))
	for _, p := range queue {
		if p.TargetID != targetID {
			kept = append(kept, p)
		}
	}
	return s.savePending(kept)
}

func (s *Store) savePending(queue []*PendingUpdate) error {
	raw, err := json.Marshal(queue)
	if err != nil {
		return fmt.Errorf("encode pending queue: %w", err)
	}
	if err := s.blobs.Set(pendingKey, string(raw)); err != nil {
		return fmt.Errorf("persist pending queue: %w", err)
	}
	if s.metrics != nil {
		s.metrics.PendingUpdatesTotal.Set(float64(len(queue)))
	}
	return nil
}
