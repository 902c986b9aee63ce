package genealogy

// Genealogy is the merged, deduplicated ancestor set of one or more roots.
//
// Members are kept in insertion order. An identifier is inserted at most
// once. Build returns a Genealogy that is no longer modified.
type Genealogy struct {
	records map[ID]Record
	order   []ID
	// expandedAt is the shallowest generation at which each member's
	// parents were queued.
	expandedAt map[ID]int
}

// NewGenealogy returns an empty accumulator for Expand.
func NewGenealogy() *Genealogy {
	return &Genealogy{
		records:    make(map[ID]Record),
		expandedAt: make(map[ID]int),
	}
}

// insert adds id if absent and records the generation it is expanded at.
func (g *Genealogy) insert(id ID, rec Record, depth int) {
	if _, exists := g.records[id]; !exists {
		g.records[id] = rec
		g.order = append(g.order, id)
	}
	g.expandedAt[id] = depth
}

// Get returns the record for id, or false if id is not a member.
func (g *Genealogy) Get(id ID) (Record, bool) {
	rec, ok := g.records[id]
	return rec, ok
}

// Contains reports whether id is a member.
func (g *Genealogy) Contains(id ID) bool {
	_, ok := g.records[id]
	return ok
}

// Len returns the number of members.
func (g *Genealogy) Len() int {
	return len(g.order)
}

// IDs returns member identifiers in insertion order.
func (g *Genealogy) IDs() []ID {
	out := make([]ID, len(g.order))
	copy(out, g.order)
	return out
}

// Members returns the set of member identifiers.
func (g *Genealogy) Members() *IDSet {
	return NewIDSet(g.order...)
}

// Records returns a copy of the member records keyed by identifier.
func (g *Genealogy) Records() map[ID]Record {
	out := make(map[ID]Record, len(g.records))
	for id, rec := range g.records {
		out[id] = rec
	}
	return out
}

// Rows returns members as export rows in insertion order.
func (g *Genealogy) Rows() []Row {
	out := make([]Row, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, Row{ID: id, Record: g.records[id]})
	}
	return out
}
