// ABOUTME: PRD data model for hierarchical, versioned product documents
// ABOUTME: Defines the PRD entity, its enums, origins and change records

package prd

import (
	"strings"
	"time"
)

// Type classifies how a PRD relates to the rest of its tree.
type Type string

const (
	TypeRoot          Type = "root"           // original document (version 1)
	TypeVersion       Type = "version"        // new version of an existing document
	TypeSubPRD        Type = "sub_prd"        // sub-document branched from parent features
	TypeFeatureBranch Type = "feature_branch" // branch focused on specific features
)

// ChangeType labels entries in a PRD's version history.
type ChangeType string

const (
	ChangeContentUpdate ChangeType = "content_update"
	ChangeFeatureAdd    ChangeType = "feature_add"
	ChangeFeatureRemove ChangeType = "feature_remove"
	ChangeFeatureModify ChangeType = "feature_modify"
	ChangeSubPRDCreate  ChangeType = "sub_prd_create"
	ChangeVersionCreate ChangeType = "version_create"
)

// RelationshipReason records why a PRD was created relative to its lineage.
type RelationshipReason string

const (
	ReasonFeatureAddition       RelationshipReason = "feature_addition"
	ReasonContentEnhancement    RelationshipReason = "content_enhancement"
	ReasonFeatureSpecialization RelationshipReason = "feature_specialization"
	ReasonUserCustomization     RelationshipReason = "user_customization"
	ReasonAutomaticUpdate       RelationshipReason = "automatic_update"
)

// Origin identifies where a candidate document came from and what the
// reconciliation policy may do with it. Capabilities are decided once, at the
// point of candidate construction, so the store never re-derives them from
// tag strings.
type Origin struct {
	// Tag is the free-text origin label kept for display and history.
	Tag string `json:"tag"`

	// AutoMerge marks origins trusted enough to auto-version a matching
	// document without human confirmation.
	AutoMerge bool `json:"autoMerge,omitempty"`

	// Enhancement marks origins that by themselves signal feature-addition
	// intent.
	Enhancement bool `json:"enhancement,omitempty"`

	// Bootstrap marks the primary project-planning flow, whose first
	// submission on an empty collection skips similarity matching.
	Bootstrap bool `json:"bootstrap,omitempty"`
}

// PlannerOrigin is the primary project-planning flow.
func PlannerOrigin() Origin {
	return Origin{Tag: "ProjectPlanner", Bootstrap: true}
}

// GeneratorOrigin is an AI content-generation node; its output is trusted to
// auto-merge into a matching document. It does not carry the enhancement
// signal: an identical resubmission from a generator is a duplicate, not an
// implicit feature request.
func GeneratorOrigin() Origin {
	return Origin{Tag: "ContentNode", AutoMerge: true}
}

// SubPRDOrigin is feature branching into a sub-document.
func SubPRDOrigin() Origin {
	return Origin{Tag: "sub_prd_creation"}
}

// ManualOrigin is any user-driven source. Tags mentioning enhancements or
// features carry the enhancement signal, mirroring how such sources were
// historically labelled.
func ManualOrigin(tag string) Origin {
	if tag == "" {
		tag = "manual"
	}
	lower := strings.ToLower(tag)
	return Origin{
		Tag:         tag,
		Enhancement: strings.Contains(lower, "enhancement") || strings.Contains(lower, "feature"),
	}
}

// Candidate is a document produced by the canvas that should become, or
// update, a PRD.
type Candidate struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Origin  Origin `json:"origin"`
}

// VersionChange is one entry in a PRD's append-only version history.
type VersionChange struct {
	ID          string         `json:"id"`
	Timestamp   time.Time      `json:"timestamp"`
	Type        ChangeType     `json:"type"`
	Description string         `json:"description"`
	Details     map[string]any `json:"details,omitempty"`
	Author      string         `json:"author"`
}

// Feature is a descriptor extracted from document content. IDs are sequential
// within one extraction pass and carry no identity across re-extraction;
// features are compared by title.
type Feature struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// FeatureChange is one entry in a PRD's append-only feature change log.
type FeatureChange struct {
	FeatureID   string    `json:"featureId"`
	FeatureName string    `json:"featureName"`
	Action      string    `json:"action"` // "added" or "removed"
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
}

// SubPRDInfo is the denormalized summary of a direct sub-document kept on its
// parent for fast display.
type SubPRDInfo struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	BaseFeatures []string           `json:"baseFeatures"`
	CreatedAt    time.Time          `json:"createdAt"`
	Reason       RelationshipReason `json:"reason"`
}

// PRD is a versioned document in a hierarchy tree.
type PRD struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Version   int       `json:"version"`
	Origin    Origin    `json:"origin"`
	SizeBytes int       `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Hierarchy. ParentID is empty for roots; RootID equals ID for roots.
	ParentID      string   `json:"parentId,omitempty"`
	ChildIDs      []string `json:"childIds"`
	RootID        string   `json:"rootId"`
	Depth         int      `json:"depth"`
	HierarchyPath string   `json:"hierarchyPath"`

	// Version chain. Exactly one member of a chain has IsLatestVersion set.
	PreviousVersionID string          `json:"previousVersionId,omitempty"`
	NextVersionID     string          `json:"nextVersionId,omitempty"`
	IsLatestVersion   bool            `json:"isLatestVersion"`
	VersionHistory    []VersionChange `json:"versionHistory"`

	// Features.
	Features         []Feature       `json:"features"`
	FeatureChanges   []FeatureChange `json:"featureChanges"`
	SelectedFeatures []string        `json:"selectedFeatures"`

	// Classification.
	Type               Type               `json:"type"`
	RelationshipReason RelationshipReason `json:"relationshipReason"`
	HasSubPRDs         bool               `json:"hasSubPRDs"`
	SubPRDs            []SubPRDInfo       `json:"subPRDs"`

	// HasPendingUpdate annotates a returned document when an update for it
	// was queued instead of applied. It is not persisted state.
	HasPendingUpdate bool `json:"hasPendingUpdate,omitempty"`
}

// IsRoot reports whether the document heads its own tree.
func (p *PRD) IsRoot() bool {
	return p.Type == TypeRoot
}
