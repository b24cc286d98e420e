// ABOUTME: Parses the three-section planning reply (nodes, connections, PRD)
// ABOUTME: Malformed or missing mindmap sections degrade; the PRD always survives

package planner

import (
	"encoding/json"
	"regexp"
	"strings"
)

// MindmapNode is one canvas node proposed by the planner.
type MindmapNode struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

// Position is a canvas coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData is the payload of a mindmap node.
type NodeData struct {
	Title      string        `json:"title"`
	Content    string        `json:"content,omitempty"`
	ModuleType string        `json:"moduleType,omitempty"`
	Features   []NodeFeature `json:"features,omitempty"`
}

// NodeFeature is one feature listed on a feature-card node.
type NodeFeature struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
}

// Connection is a directed edge between two mindmap nodes.
type Connection struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Sections is the parsed planning reply.
type Sections struct {
	Nodes       []MindmapNode
	Connections []Connection
	PRD         string
}

var (
	nodesRe       = regexp.MustCompile(`(?is)=== MINDMAP_NODES ===\s*(.*?)\s*=== CONNECTIONS ===`)
	connectionsRe = regexp.MustCompile(`(?is)=== CONNECTIONS ===\s*(.*?)\s*=== PRD ===`)
	prdRe         = regexp.MustCompile(`(?is)=== PRD ===\s*(.*)$`)
)

// ParseSections splits a planning reply into its three sections. The mindmap
// sections are dropped when absent or unparseable; the PRD section falls back
// to the entire reply so a plan is never lost to formatting drift.
func ParseSections(reply string) Sections {
	var out Sections

	if m := nodesRe.FindStringSubmatch(reply); m != nil {
		var nodes []MindmapNode
		if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), &nodes); err == nil {
			out.Nodes = nodes
		}
	}
	if m := connectionsRe.FindStringSubmatch(reply); m != nil {
		var conns []Connection
		if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), &conns); err == nil {
			out.Connections = conns
		}
	}
	if m := prdRe.FindStringSubmatch(reply); m != nil {
		out.PRD = strings.TrimSpace(m[1])
	} else {
		out.PRD = strings.TrimSpace(reply)
	}
	return out
}
