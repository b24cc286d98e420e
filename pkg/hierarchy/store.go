// ABOUTME: Stateful PRD hierarchy store with update reconciliation
// ABOUTME: Decides create-vs-version-vs-pending and maintains lineage

package hierarchy

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/nainya/prdstore/internal/logger"
	"github.com/nainya/prdstore/internal/metrics"
	"github.com/nainya/prdstore/pkg/blob"
	"github.com/nainya/prdstore/pkg/prd"
	"github.com/nainya/prdstore/pkg/similarity"
)

// Blob keys for the three persistence namespaces.
const (
	collectionKey = "enhanced_prds"
	indexKey      = "prd_hierarchy_index"
	pendingKey    = "pending_prd_updates"
)

// Outcome names the branch Submit took for a candidate.
type Outcome string

const (
	OutcomeCreated   Outcome = "created"   // new root document
	OutcomeVersioned Outcome = "versioned" // auto-merged into a new version
	OutcomePending   Outcome = "pending"   // update queued for confirmation
	OutcomeDuplicate Outcome = "duplicate" // pure duplicate, nothing changed
)

// SubmitResult reports what Submit did with a candidate.
type SubmitResult struct {
	PRD     *prd.PRD
	Outcome Outcome

	// Pending is set when Outcome is OutcomePending.
	Pending *PendingUpdate
}

// Thresholds are the reconciliation policy knobs. Zero values are replaced by
// DefaultThresholds.
type Thresholds struct {
	TitleMatch          float64
	StrongContent       float64
	ModerateContent     float64
	TrustedContent      float64
	MinUpdateSimilarity float64
	AutoMergeGrowth     int
	ManualGrowth        int
}

// DefaultThresholds returns the standard policy.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TitleMatch:          similarity.TitleMatch,
		StrongContent:       similarity.StrongContent,
		ModerateContent:     similarity.ModerateContent,
		TrustedContent:      similarity.TrustedContent,
		MinUpdateSimilarity: similarity.MinUpdateSimilarity,
		AutoMergeGrowth:     similarity.AutoMergeGrowth,
		ManualGrowth:        similarity.ManualGrowth,
	}
}

// Store owns the document collection, the derived hierarchy index and the
// pending-update queue. All operations are synchronous read-modify-write
// passes over the persisted collection; there is no locking, so the store is
// meant for a single logical writer.
type Store struct {
	blobs      blob.Store
	log        *logger.Logger
	metrics    *metrics.Metrics
	thresholds Thresholds
}

// Option configures a Store.
type Option func(*Store)

// WithLogger injects a logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithThresholds overrides the reconciliation policy.
func WithThresholds(t Thresholds) Option {
	return func(s *Store) { s.thresholds = t }
}

// New creates a hierarchy store over the given blob store.
func New(blobs blob.Store, opts ...Option) *Store {
	s := &Store{
		blobs:      blobs,
		thresholds: DefaultThresholds(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.GetGlobalLogger()
	}
	return s
}

// Submit reconciles a candidate against the collection: it becomes a new
// root, an automatic new version of the best match, a queued pending update,
// or is recognized as a pure duplicate.
func (s *Store) Submit(c prd.Candidate) (*SubmitResult, error) {
	start := time.Now()
	all := s.loadCollection()

	// First document from the project-planning flow bootstraps the
	// collection without heuristic matching.
	if len(all) == 0 && c.Origin.Bootstrap {
		root := prd.NewRoot(c)
		if err := s.persist([]*prd.PRD{root}); err != nil {
			return nil, err
		}
		s.finishSubmit(OutcomeCreated, root, 0, start, 1)
		return &SubmitResult{PRD: root, Outcome: OutcomeCreated}, nil
	}

	match, best := s.findPotentialMatch(all, c)

	if match != nil && best > s.thresholds.MinUpdateSimilarity {
		// A byte-identical candidate is never meaningfully new, even when
		// its content happens to contain feature-intent phrasing.
		if c.Content == match.Content {
			s.finishSubmit(OutcomeDuplicate, match, best, start, len(all))
			return &SubmitResult{PRD: match, Outcome: OutcomeDuplicate}, nil
		}

		growth := len(c.Content) - len(match.Content)
		limit := s.thresholds.ManualGrowth
		if c.Origin.AutoMerge {
			limit = s.thresholds.AutoMergeGrowth
		}
		meaningfullyNew := growth > limit ||
			similarity.HasNewFeatureSignal(match.Content, c.Content) ||
			similarity.HasAddFeatureIntent(c.Content, c.Origin.Enhancement)

		if !meaningfullyNew {
			s.finishSubmit(OutcomeDuplicate, match, best, start, len(all))
			return &SubmitResult{PRD: match, Outcome: OutcomeDuplicate}, nil
		}

		if c.Origin.AutoMerge {
			direction := "added"
			if growth < 0 {
				direction = "removed"
				growth = -growth
			}
			description := fmt.Sprintf("AI-generated feature addition (%d chars %s)", growth, direction)

			version := prd.NewVersion(match, c.Content, description)
			match.IsLatestVersion = false
			match.NextVersionID = version.ID
			all = append([]*prd.PRD{version}, all...)
			if err := s.persist(all); err != nil {
				return nil, err
			}
			if s.metrics != nil {
				s.metrics.VersionsCreatedTotal.Inc()
			}
			s.finishSubmit(OutcomeVersioned, version, best, start, len(all))
			return &SubmitResult{PRD: version, Outcome: OutcomeVersioned}, nil
		}

		pending := &PendingUpdate{
			TargetID:   match.ID,
			Content:    c.Content,
			Origin:     c.Origin,
			DetectedAt: time.Now(),
			Kind:       PendingContentAddition,
			Similarity: best,
		}
		if err := s.enqueuePending(pending); err != nil {
			return nil, err
		}
		annotated := *match
		annotated.HasPendingUpdate = true
		s.finishSubmit(OutcomePending, match, best, start, len(all))
		return &SubmitResult{PRD: &annotated, Outcome: OutcomePending, Pending: pending}, nil
	}

	root := prd.NewRoot(c)
	all = append([]*prd.PRD{root}, all...)
	if err := s.persist(all); err != nil {
		return nil, err
	}
	s.finishSubmit(OutcomeCreated, root, best, start, len(all))
	return &SubmitResult{PRD: root, Outcome: OutcomeCreated}, nil
}

// findPotentialMatch scans the latest documents for the best update target.
func (s *Store) findPotentialMatch(all []*prd.PRD, c prd.Candidate) (*prd.PRD, float64) {
	var match *prd.PRD
	best := 0.0

	for _, doc := range all {
		if !doc.IsLatestVersion {
			continue
		}

		titleScore := similarity.Title(doc.Title, c.Title)
		contentScore := similarity.Content(doc.Content, c.Content)
		titleMatch := doc.Title == c.Title || titleScore > s.thresholds.TitleMatch

		potential := titleMatch ||
			(titleScore > s.thresholds.TitleMatch && contentScore > s.thresholds.ModerateContent) ||
			contentScore > s.thresholds.StrongContent ||
			(c.Origin.AutoMerge && contentScore > s.thresholds.TrustedContent)

		if potential && contentScore > best {
			best = contentScore
			match = doc
		}
	}

	return match, best
}

// CreateVersion creates a new version of the document with id baseID,
// bypassing similarity matching. Used when a user explicitly edits and
// re-saves a document.
func (s *Store) CreateVersion(baseID, newContent, changeDescription string) (*prd.PRD, error) {
	start := time.Now()
	all := s.loadCollection()

	base := findByID(all, baseID)
	if base == nil {
		s.log.StoreLogger("create_version").Warn("base document not found").Str("id", baseID).Send()
		return nil, fmt.Errorf("document not found: %s", baseID)
	}

	version := prd.NewVersion(base, newContent, changeDescription)
	base.IsLatestVersion = false
	base.NextVersionID = version.ID
	all = append([]*prd.PRD{version}, all...)

	if err := s.persist(all); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.VersionsCreatedTotal.Inc()
	}
	s.logOperation("create_version", start, len(all), nil)
	return version, nil
}

// CreateSubPRD branches selectedFeatures of the parent into a new
// sub-document and records it on the parent.
func (s *Store) CreateSubPRD(parentID string, selectedFeatures []string, title string) (*prd.PRD, error) {
	start := time.Now()
	all := s.loadCollection()

	parent := findByID(all, parentID)
	if parent == nil {
		s.log.StoreLogger("create_sub_prd").Warn("parent document not found").Str("id", parentID).Send()
		return nil, fmt.Errorf("document not found: %s", parentID)
	}

	sub := prd.NewSubPRD(parent, selectedFeatures, title)
	parent.HasSubPRDs = true
	parent.ChildIDs = append(parent.ChildIDs, sub.ID)
	parent.SubPRDs = append(parent.SubPRDs, prd.SubPRDInfo{
		ID:           sub.ID,
		Title:        title,
		BaseFeatures: selectedFeatures,
		CreatedAt:    sub.CreatedAt,
		Reason:       prd.ReasonFeatureSpecialization,
	})
	all = append([]*prd.PRD{sub}, all...)

	if err := s.persist(all); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.SubPRDsCreatedTotal.Inc()
	}
	s.logOperation("create_sub_prd", start, len(all), nil)
	return sub, nil
}

// Delete removes the document and every descendant reachable via parent
// edges. Other members of the document's version chain are unaffected.
// Returns false if the document does not exist.
func (s *Store) Delete(id string) (bool, error) {
	start := time.Now()
	all := s.loadCollection()

	if findByID(all, id) == nil {
		return false, nil
	}

	doomed := map[string]struct{}{id: {}}
	frontier := []string{id}
	for len(frontier) > 0 {
		parentID := frontier[0]
		frontier = frontier[1:]
		for _, doc := range all {
			if doc.ParentID != parentID {
				continue
			}
			if _, seen := doomed[doc.ID]; seen {
				continue
			}
			doomed[doc.ID] = struct{}{}
			frontier = append(frontier, doc.ID)
		}
	}

	kept := make([]*prd.PRD, 0, len(all))
	for _, doc := range all {
		if _, gone := doomed[doc.ID]; !gone {
			kept = append(kept, doc)
		}
	}

	if err := s.persist(kept); err != nil {
		return false, err
	}
	if s.metrics != nil {
		s.metrics.DeletesTotal.Inc()
	}
	s.logOperation("delete", start, len(kept), nil)
	return true, nil
}

// All returns the full collection, most recent first. Persistence failures
// and malformed blobs degrade to an empty collection.
func (s *Store) All() []*prd.PRD {
	return s.loadCollection()
}

// Get returns the document with the given id.
func (s *Store) Get(id string) (*prd.PRD, bool) {
	doc := findByID(s.loadCollection(), id)
	return doc, doc != nil
}

// Latest returns the current head of the version chain containing doc.
func (s *Store) Latest(doc *prd.PRD) *prd.PRD {
	key := chainKey(doc)
	for _, other := range s.loadCollection() {
		if other.IsLatestVersion && chainKey(other) == key {
			return other
		}
	}
	return nil
}

// Stats summarizes the collection.
type Stats struct {
	TotalDocuments int       `json:"totalDocuments"`
	Roots          int       `json:"roots"`
	Versions       int       `json:"versions"`
	SubPRDs        int       `json:"subPrds"`
	TotalSizeBytes int64     `json:"totalSizeBytes"`
	Trees          int       `json:"trees"`
	Oldest         time.Time `json:"oldest,omitzero"`
	Newest         time.Time `json:"newest,omitzero"`
}

// CollectionStats computes summary statistics over the collection.
func (s *Store) CollectionStats() Stats {
	all := s.loadCollection()

	var st Stats
	st.TotalDocuments = len(all)
	for _, doc := range all {
		switch doc.Type {
		case prd.TypeRoot:
			st.Roots++
		case prd.TypeVersion:
			st.Versions++
		case prd.TypeSubPRD:
			st.SubPRDs++
		}
		st.TotalSizeBytes += int64(doc.SizeBytes)
	}
	st.Trees = st.Roots
	if len(all) > 0 {
		// Collection is most-recent-first.
		st.Newest = all[0].CreatedAt
		st.Oldest = all[len(all)-1].CreatedAt
	}
	return st
}

// Clear drops the collection, the index and the pending queue.
func (s *Store) Clear() error {
	for _, key := range []string{collectionKey, indexKey, pendingKey} {
		if err := s.blobs.Delete(key); err != nil {
			return fmt.Errorf("clear %s: %w", key, err)
		}
	}
	return nil
}

// loadCollection reads the persisted collection. Errors are logged and
// degrade to an empty collection rather than failing the operation.
func (s *Store) loadCollection() []*prd.PRD {
	raw, ok, err := s.blobs.Get(collectionKey)
	if err != nil {
		s.log.Error("failed to read document collection").Err(err).Send()
		return nil
	}
	if !ok {
		return nil
	}

	var all []*prd.PRD
	if err := json.Unmarshal([]byte(raw), &all); err != nil {
		s.log.Error("malformed document collection blob").Err(err).Send()
		return nil
	}
	return all
}

// persist writes the collection and rebuilds the derived index.
func (s *Store) persist(all []*prd.PRD) error {
	raw, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	if err := s.blobs.Set(collectionKey, string(raw)); err != nil {
		return fmt.Errorf("persist collection: %w", err)
	}
	s.rebuildIndex(all)
	return nil
}

func (s *Store) finishSubmit(outcome Outcome, doc *prd.PRD, score float64, start time.Time, count int) {
	s.log.LogSubmitDecision(string(outcome), doc.ID, score)
	if s.metrics != nil {
		s.metrics.RecordSubmit(string(outcome))
		s.metrics.SimilarityScore.Observe(score)
		s.metrics.RecordStoreOperation("submit", "success", time.Since(start))
		s.updateCollectionMetrics()
	}
	s.log.LogStoreOperation("submit", time.Since(start), count, nil)
}

func (s *Store) logOperation(operation string, start time.Time, count int, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	if s.metrics != nil {
		s.metrics.RecordStoreOperation(operation, status, time.Since(start))
		s.updateCollectionMetrics()
	}
	s.log.LogStoreOperation(operation, time.Since(start), count, err)
}

func (s *Store) updateCollectionMetrics() {
	st := s.CollectionStats()
	s.metrics.UpdateCollectionStats(st.TotalDocuments, st.Roots, len(s.PendingUpdates()), st.TotalSizeBytes)
}

func findByID(all []*prd.PRD, id string) *prd.PRD {
	for _, doc := range all {
		if doc.ID == id {
			return doc
		}
	}
	return nil
}

func sortByVersionAsc(docs []*prd.PRD) {
	sort.Slice(docs, func(i, j int) bool { return docs[i].Version < docs[j].Version })
}
