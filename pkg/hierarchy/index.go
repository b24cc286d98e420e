// ABOUTME: Derived hierarchy index rebuilt from the collection on every write
// ABOUTME: Maps roots, parent->children edges and version chains for fast lookup

package hierarchy

import (
	"encoding/json"
	"sort"

	"github.com/nainya/prdstore/pkg/prd"
)

// VersionRef is one member of a version chain in the index.
type VersionRef struct {
	ID       string `json:"id"`
	Version  int    `json:"version"`
	IsLatest bool   `json:"isLatest"`
}

// Index is the derived navigation structure over the collection. It is
// rebuilt from scratch after every mutation and persisted alongside the
// collection; it never holds information the collection does not.
type Index struct {
	// Roots lists the IDs of all tree roots.
	Roots []string `json:"roots"`

	// ByParent maps a document ID to its direct children's IDs.
	ByParent map[string][]string `json:"byParent"`

	// ByRoot maps a root ID to every document ID in that tree.
	ByRoot map[string][]string `json:"byRoot"`

	// Versions maps a version-chain key (the chain's RootID plus title)
	// to its members, oldest first.
	Versions map[string][]VersionRef `json:"versions"`
}

// buildIndex derives the index from the collection.
func buildIndex(all []*prd.PRD) *Index {
	idx := &Index{
		Roots:    []string{},
		ByParent: map[string][]string{},
		ByRoot:   map[string][]string{},
		Versions: map[string][]VersionRef{},
	}

	for _, doc := range all {
		if doc.ParentID == "" && doc.IsLatestVersion {
			idx.Roots = append(idx.Roots, doc.ID)
		}
		if doc.ParentID != "" {
			idx.ByParent[doc.ParentID] = append(idx.ByParent[doc.ParentID], doc.ID)
		}
		idx.ByRoot[doc.RootID] = append(idx.ByRoot[doc.RootID], doc.ID)

		key := chainKey(doc)
		idx.Versions[key] = append(idx.Versions[key], VersionRef{
			ID:       doc.ID,
			Version:  doc.Version,
			IsLatest: doc.IsLatestVersion,
		})
	}

	for _, refs := range idx.Versions {
		sort.Slice(refs, func(i, j int) bool { return refs[i].Version < refs[j].Version })
	}
	return idx
}

// chainKey identifies a version chain. Versions of one document share a
// RootID and title; sibling sub-documents under the same root do not.
func chainKey(doc *prd.PRD) string {
	return doc.RootID + "\x00" + doc.Title
}

// rebuildIndex derives and persists the index. Index persistence failures
// are logged but do not fail the triggering mutation: the index is always
// recomputable from the collection.
func (s *Store) rebuildIndex(all []*prd.PRD) {
	idx := buildIndex(all)
	raw, err := json.Marshal(idx)
	if err != nil {
		s.log.Error("failed to encode hierarchy index").Err(err).Send()
		return
	}
	if err := s.blobs.Set(indexKey, string(raw)); err != nil {
		s.log.Error("failed to persist hierarchy index").Err(err).Send()
	}
}

// LoadIndex returns the persisted index, rebuilding it from the collection
// when missing or malformed.
func (s *Store) LoadIndex() *Index {
	raw, ok, err := s.blobs.Get(indexKey)
	if err == nil && ok {
		var idx Index
		if err := json.Unmarshal([]byte(raw), &idx); err == nil {
			return &idx
		}
		s.log.Warn("malformed hierarchy index blob, rebuilding").Send()
	}
	all := s.loadCollection()
	s.rebuildIndex(all)
	return buildIndex(all)
}
