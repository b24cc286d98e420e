// ABOUTME: Factory functions constructing PRDs with correct lineage fields
// ABOUTME: Root, version and sub-document creation plus feature diffing

package prd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

func newID() string {
	return uuid.NewString()
}

// NewRoot constructs a version-1 root document from a candidate.
func NewRoot(c Candidate) *PRD {
	id := newID()
	now := time.Now()

	return &PRD{
		ID:        id,
		Title:     c.Title,
		Content:   c.Content,
		Version:   1,
		Origin:    c.Origin,
		SizeBytes: len(c.Content),
		CreatedAt: now,
		UpdatedAt: now,

		ChildIDs:      []string{},
		RootID:        id,
		Depth:         0,
		HierarchyPath: "root",

		IsLatestVersion: true,
		VersionHistory: []VersionChange{{
			ID:          newID(),
			Timestamp:   now,
			Type:        ChangeVersionCreate,
			Description: "Initial PRD creation",
			Details:     map[string]any{"version": 1},
			Author:      "system",
		}},

		Features:         ExtractFeatures(c.Content),
		FeatureChanges:   []FeatureChange{},
		SelectedFeatures: []string{},

		Type:               TypeRoot,
		RelationshipReason: ReasonFeatureAddition,
		SubPRDs:            []SubPRDInfo{},
	}
}

// NewVersion constructs the successor of parent with newContent. The returned
// document is the new latest version; flipping parent.IsLatestVersion and
// setting parent.NextVersionID are the caller's responsibility, since those
// are mutations on a different entity.
func NewVersion(parent *PRD, newContent, changeDescription string) *PRD {
	now := time.Now()
	newFeatures := ExtractFeatures(newContent)
	added, removed, changes := CompareFeatures(parent.Features, newFeatures)

	history := append(copySlice(parent.VersionHistory), VersionChange{
		ID:          newID(),
		Timestamp:   now,
		Type:        ChangeVersionCreate,
		Description: changeDescription,
		Details: map[string]any{
			"version":         parent.Version + 1,
			"previousVersion": parent.Version,
			"featuresAdded":   len(added),
			"featuresRemoved": len(removed),
		},
		Author: "user",
	})

	return &PRD{
		ID:        newID(),
		Title:     parent.Title,
		Content:   newContent,
		Version:   parent.Version + 1,
		Origin:    parent.Origin,
		SizeBytes: len(newContent),
		CreatedAt: parent.CreatedAt,
		UpdatedAt: now,

		ParentID:      parent.ParentID,
		ChildIDs:      copySlice(parent.ChildIDs),
		RootID:        parent.RootID,
		Depth:         parent.Depth,
		HierarchyPath: parent.HierarchyPath,

		PreviousVersionID: parent.ID,
		IsLatestVersion:   true,
		VersionHistory:    history,

		Features:         newFeatures,
		FeatureChanges:   append(copySlice(parent.FeatureChanges), changes...),
		SelectedFeatures: copySlice(parent.SelectedFeatures),

		Type:               TypeVersion,
		RelationshipReason: ReasonContentEnhancement,
		HasSubPRDs:         parent.HasSubPRDs,
		SubPRDs:            copySlice(parent.SubPRDs),
	}
}

// NewSubPRD constructs a sub-document of parent focused on selectedFeatures.
// The caller records the child on the parent (ChildIDs, HasSubPRDs, SubPRDs).
func NewSubPRD(parent *PRD, selectedFeatures []string, title string) *PRD {
	now := time.Now()
	content := ExtractRelevantContent(parent.Content, selectedFeatures)

	features := make([]Feature, 0, len(selectedFeatures))
	for i, name := range selectedFeatures {
		features = append(features, Feature{
			ID:          fmt.Sprintf("feature_%d", i+1),
			Title:       name,
			Description: truncate(name, 50),
		})
	}

	return &PRD{
		ID:        newID(),
		Title:     title,
		Content:   content,
		Version:   1,
		Origin:    SubPRDOrigin(),
		SizeBytes: len(content),
		CreatedAt: now,
		UpdatedAt: now,

		ParentID:      parent.ID,
		ChildIDs:      []string{},
		RootID:        parent.RootID,
		Depth:         parent.Depth + 1,
		HierarchyPath: parent.HierarchyPath + "/" + strconv.Itoa(len(parent.ChildIDs)+1),

		IsLatestVersion: true,
		VersionHistory: []VersionChange{{
			ID:          newID(),
			Timestamp:   now,
			Type:        ChangeSubPRDCreate,
			Description: fmt.Sprintf("Sub-PRD created from %d selected features", len(selectedFeatures)),
			Details: map[string]any{
				"parentId":         parent.ID,
				"selectedFeatures": selectedFeatures,
				"baseVersion":      parent.Version,
			},
			Author: "user",
		}},

		Features:         features,
		FeatureChanges:   []FeatureChange{},
		SelectedFeatures: []string{},

		Type:               TypeSubPRD,
		RelationshipReason: ReasonFeatureSpecialization,
		SubPRDs:            []SubPRDInfo{},
	}
}

// CompareFeatures diffs two feature lists by title membership. Feature IDs are
// not stable across extractions, so titles are the only meaningful identity.
func CompareFeatures(oldFeatures, newFeatures []Feature) (added, removed []Feature, changes []FeatureChange) {
	now := time.Now()

	oldTitles := make(map[string]struct{}, len(oldFeatures))
	for _, f := range oldFeatures {
		oldTitles[f.Title] = struct{}{}
	}
	newTitles := make(map[string]struct{}, len(newFeatures))
	for _, f := range newFeatures {
		newTitles[f.Title] = struct{}{}
	}

	for _, f := range newFeatures {
		if _, ok := oldTitles[f.Title]; !ok {
			added = append(added, f)
			changes = append(changes, FeatureChange{
				FeatureID:   newID(),
				FeatureName: f.Title,
				Action:      "added",
				Timestamp:   now,
				Description: "Feature added: " + f.Title,
			})
		}
	}
	for _, f := range oldFeatures {
		if _, ok := newTitles[f.Title]; !ok {
			removed = append(removed, f)
			changes = append(changes, FeatureChange{
				FeatureID:   newID(),
				FeatureName: f.Title,
				Action:      "removed",
				Timestamp:   now,
				Description: "Feature removed: " + f.Title,
			})
		}
	}

	return added, removed, changes
}

func copySlice[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}

func truncate(s string, limit int) string {
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
