// ABOUTME: Tree and version-chain views assembled from the flat collection
// ABOUTME: Nodes are chain heads; children reattach to their parent's head

package hierarchy

import (
	"sort"

	"github.com/nainya/prdstore/pkg/prd"
)

// TreeNode is one display node in a hierarchy tree: the latest version of a
// document chain, its children and its chain members.
type TreeNode struct {
	*prd.PRD

	Children []*TreeNode  `json:"children"`
	Versions []VersionRef `json:"versions"`

	// TotalDescendants counts every node below this one, not just direct
	// children.
	TotalDescendants int `json:"totalDescendants"`
}

// Hierarchy assembles the forest of trees from the collection. Each node is
// the latest version of its chain; a child created from a superseded parent
// version is attached to the parent chain's current head. Nodes with a queued
// pending update carry the HasPendingUpdate annotation.
func (s *Store) Hierarchy() []*TreeNode {
	all := s.loadCollection()

	byID := make(map[string]*prd.PRD, len(all))
	for _, doc := range all {
		byID[doc.ID] = doc
	}

	pendingTargets := map[string]struct{}{}
	for _, p := range s.PendingUpdates() {
		pendingTargets[p.TargetID] = struct{}{}
	}

	chains := map[string][]VersionRef{}
	for _, doc := range all {
		key := chainKey(doc)
		chains[key] = append(chains[key], VersionRef{
			ID:       doc.ID,
			Version:  doc.Version,
			IsLatest: doc.IsLatestVersion,
		})
	}
	for _, refs := range chains {
		sort.Slice(refs, func(i, j int) bool { return refs[i].Version < refs[j].Version })
	}

	nodes := map[string]*TreeNode{}
	var heads []*prd.PRD
	for _, doc := range all {
		if !doc.IsLatestVersion {
			continue
		}
		if _, queued := pendingTargets[doc.ID]; queued {
			doc.HasPendingUpdate = true
		}
		nodes[doc.ID] = &TreeNode{
			PRD:      doc,
			Children: []*TreeNode{},
			Versions: chains[chainKey(doc)],
		}
		heads = append(heads, doc)
	}

	var roots []*TreeNode
	for _, doc := range heads {
		node := nodes[doc.ID]
		if doc.ParentID == "" {
			roots = append(roots, node)
			continue
		}
		parent := byID[doc.ParentID]
		if parent == nil {
			// Dangling edge; surface the node as a root rather than
			// dropping it.
			roots = append(roots, node)
			continue
		}
		head := s.chainHead(parent, byID)
		if parentNode, ok := nodes[head.ID]; ok {
			parentNode.Children = append(parentNode.Children, node)
		} else {
			roots = append(roots, node)
		}
	}

	for _, root := range roots {
		countDescendants(root)
	}

	// Collection is most-recent-first, so walking it gave newest roots
	// first; present oldest first for stable tree ordering.
	reverse(roots)
	return roots
}

// chainHead follows NextVersionID links to the current latest version.
func (s *Store) chainHead(doc *prd.PRD, byID map[string]*prd.PRD) *prd.PRD {
	for doc.NextVersionID != "" {
		next := byID[doc.NextVersionID]
		if next == nil {
			break
		}
		doc = next
	}
	return doc
}

func countDescendants(node *TreeNode) int {
	total := 0
	for _, child := range node.Children {
		total += 1 + countDescendants(child)
	}
	node.TotalDescendants = total
	return total
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// VersionChain returns every version of the chain containing id, oldest
// first. Returns nil if the document does not exist.
func (s *Store) VersionChain(id string) []*prd.PRD {
	all := s.loadCollection()
	doc := findByID(all, id)
	if doc == nil {
		return nil
	}

	key := chainKey(doc)
	var chain []*prd.PRD
	for _, other := range all {
		if chainKey(other) == key {
			chain = append(chain, other)
		}
	}
	sortByVersionAsc(chain)
	return chain
}
