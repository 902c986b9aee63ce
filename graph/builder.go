// Package graph renders a genealogy as nodes and parent links for
// force-directed visualization.
package graph

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/ancestry/genealogy"
	"github.com/teranos/ancestry/logger"
)

// Builder converts genealogies to graphs
type Builder struct {
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewBuilder creates a graph builder
func NewBuilder(l *zap.SugaredLogger) *Builder {
	return &Builder{
		logger: logger.OrComponent(l, "graph.builder"),
		now:    time.Now,
	}
}

func nodeID(id genealogy.ID) string {
	return strconv.FormatInt(int64(id), 10)
}

// label reads like "12 (M, b. 1950)"; unknown parts are left out.
func label(id genealogy.ID, rec genealogy.Record) string {
	var parts []string
	if rec.Sex != "" {
		parts = append(parts, string(rec.Sex))
	}
	if y, ok := rec.BirthYear.Get(); ok {
		parts = append(parts, fmt.Sprintf("b. %d", y))
	}
	if len(parts) == 0 {
		return nodeID(id)
	}
	return fmt.Sprintf("%d (%s)", id, strings.Join(parts, ", "))
}

func group(sex genealogy.Sex) int {
	switch sex {
	case genealogy.SexMale:
		return groupMale
	case genealogy.SexFemale:
		return groupFemale
	default:
		return groupUnknown
	}
}

// Build returns the graph of g. Roots that are members become NodeTypeRoot
// nodes; a link is drawn only when both child and parent are members.
// Nodes and links are sorted for consistent output across runs.
func (b *Builder) Build(g *genealogy.Genealogy, roots []genealogy.ID, config map[string]string) *Graph {
	graph := &Graph{
		Nodes: []Node{},
		Links: []Link{},
		Meta: Meta{
			GeneratedAt: b.now(),
			Config:      config,
		},
	}
	if graph.Meta.Config == nil {
		graph.Meta.Config = map[string]string{}
	}

	isRoot := genealogy.NewIDSet(roots...)

	ids := g.IDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		rec, _ := g.Get(id)

		nodeType := NodeTypeAncestor
		if isRoot.Contains(id) {
			nodeType = NodeTypeRoot
		}
		node := Node{
			ID:       nodeID(id),
			Type:     nodeType,
			Label:    label(id, rec),
			Group:    group(rec.Sex),
			Metadata: map[string]interface{}{},
		}
		if rec.Sex != "" {
			node.Metadata["sex"] = string(rec.Sex)
		}
		if y, ok := rec.BirthYear.Get(); ok {
			node.Metadata["birth_year"] = y
		}
		if p, ok := rec.BirthPlace.Get(); ok {
			node.Metadata["birth_place"] = p
		}
		graph.Nodes = append(graph.Nodes, node)

		for _, parent := range []struct {
			id       genealogy.ID
			linkType string
		}{{rec.Father, LinkTypeFather}, {rec.Mother, LinkTypeMother}} {
			if parent.id == genealogy.NoParent || !g.Contains(parent.id) {
				continue
			}
			graph.Links = append(graph.Links, Link{
				Source: nodeID(id),
				Target: nodeID(parent.id),
				Type:   parent.linkType,
				Weight: defaultLinkWeight,
				Label:  parent.linkType,
			})
		}
	}

	graph.Meta.Stats.TotalNodes = len(graph.Nodes)
	graph.Meta.Stats.TotalEdges = len(graph.Links)
	graph.Meta.NodeTypes = collectNodeTypeInfo(graph.Nodes)
	graph.Meta.RelationshipTypes = collectRelationshipTypeInfo(graph.Links)

	b.logger.Debugw("Graph built",
		"nodes", graph.Meta.Stats.TotalNodes,
		"links", graph.Meta.Stats.TotalEdges,
	)
	return graph
}

// collectNodeTypeInfo returns the node types present in nodes with counts
func collectNodeTypeInfo(nodes []Node) []NodeTypeInfo {
	counts := make(map[string]int)
	for _, n := range nodes {
		counts[n.Type]++
	}

	out := []NodeTypeInfo{}
	for _, info := range nodeTypes {
		if counts[info.Type] == 0 {
			continue
		}
		info.Count = counts[info.Type]
		out = append(out, info)
	}
	return out
}

// collectRelationshipTypeInfo returns the link types present in links with counts
func collectRelationshipTypeInfo(links []Link) []RelationshipTypeInfo {
	counts := make(map[string]int)
	for _, l := range links {
		counts[l.Type]++
	}

	out := []RelationshipTypeInfo{}
	for _, info := range relationshipTypes {
		if counts[info.Type] == 0 {
			continue
		}
		info.Count = counts[info.Type]
		out = append(out, info)
	}
	return out
}
