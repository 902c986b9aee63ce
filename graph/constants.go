package graph

// Node types
const (
	NodeTypeRoot     = "root"
	NodeTypeAncestor = "ancestor"
)

// Link types
const (
	LinkTypeFather = "father"
	LinkTypeMother = "mother"
)

// Node groups by recorded sex
const (
	groupUnknown = iota
	groupMale
	groupFemale
)

const defaultLinkWeight = 1.0

var nodeTypes = []NodeTypeInfo{
	{Type: NodeTypeRoot, Label: "Root", Color: "#e74c3c"},
	{Type: NodeTypeAncestor, Label: "Ancestor", Color: "#3498db"},
}

var relationshipTypes = []RelationshipTypeInfo{
	{Type: LinkTypeFather, Label: "Father", Color: "#2c3e50"},
	{Type: LinkTypeMother, Label: "Mother", Color: "#8e44ad"},
}
