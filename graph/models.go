package graph

import (
	"time"
)

// Graph is a node-link rendering of a genealogy for visualization tools
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
	Meta  Meta   `json:"meta"`
}

// Node represents an individual in the graph
type Node struct {
	ID       string                 `json:"id"`
	Type     string                 `json:"type"`            // NodeTypeRoot or NodeTypeAncestor
	Label    string                 `json:"label"`           // Display label
	Group    int                    `json:"group,omitempty"` // For coloring by sex
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Link points from a child to one of its parents
type Link struct {
	Source string  `json:"source"` // Child node ID
	Target string  `json:"target"` // Parent node ID
	Type   string  `json:"type"`   // LinkTypeFather or LinkTypeMother
	Weight float64 `json:"value"`  // D3 uses "value"
	Label  string  `json:"label,omitempty"`
}

// Meta contains metadata about the graph
type Meta struct {
	GeneratedAt       time.Time              `json:"generated_at"`
	Stats             Stats                  `json:"stats"`
	Config            map[string]string      `json:"config"`
	NodeTypes         []NodeTypeInfo         `json:"node_types"`
	RelationshipTypes []RelationshipTypeInfo `json:"relationship_types"`
}

// NodeTypeInfo describes a node type and its visual configuration
type NodeTypeInfo struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
	Count int    `json:"count,omitempty"`
}

// RelationshipTypeInfo describes a link type and its visual configuration
type RelationshipTypeInfo struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
	Count int    `json:"count,omitempty"`
}

// Stats provides graph statistics
type Stats struct {
	TotalNodes int `json:"total_nodes,omitempty"`
	TotalEdges int `json:"total_edges,omitempty"`
}
