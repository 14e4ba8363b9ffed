package ir

// ClientEdgeKind is the classification of a client edge
type ClientEdgeKind int

const (
	// ClientEdgeToClientObject targets a type resolvable entirely from client data
	ClientEdgeToClientObject ClientEdgeKind = iota
	// ClientEdgeToServer targets a server type and needs an additional query
	ClientEdgeToServer
)

func (k ClientEdgeKind) String() string {
	switch k {
	case ClientEdgeToServer:
		return "to-server"
	default:
		return "to-client-object"
	}
}

// ResolverInfo describes the client resolver backing a client edge.
type ResolverInfo struct {
	ImportPath string `json:"importPath"`
	// ImportName is the named export; empty means the module's default export.
	ImportName string `json:"importName,omitempty"`
}

// ClientEdgeMetadata is attached to a field once it is classified as a client edge.
type ClientEdgeMetadata struct {
	// EdgeID is unique within the document the edge was found in.
	EdgeID     string         `json:"edgeId"`
	TargetType string         `json:"targetType"`
	Kind       ClientEdgeKind `json:"-"`
	// Depth is the number of enclosing to-server edges.
	Depth int `json:"depth"`
	// Acknowledged is true when the field carries @waterfall.
	Acknowledged bool `json:"acknowledged,omitempty"`
	// QueryName names the synthetic query split from a to-server edge.
	QueryName string        `json:"queryName,omitempty"`
	Resolver  *ResolverInfo `json:"resolver,omitempty"`
}

// IsToServer reports whether the edge requires a server round trip.
func (m *ClientEdgeMetadata) IsToServer() bool {
	return m != nil && m.Kind == ClientEdgeToServer
}

// DependencyClassification tags how a module is reached from a 3D field
type DependencyClassification int

const (
	// DependencyDirect is declared on the field's own selections
	DependencyDirect DependencyClassification = iota
	// DependencyTransitive is reachable only through a fragment spread
	DependencyTransitive
)

func (c DependencyClassification) String() string {
	if c == DependencyTransitive {
		return "transitive"
	}
	return "direct"
}

// ModuleDependency is a module loaded at runtime for a data-driven field.
type ModuleDependency struct {
	Module         string
	Classification DependencyClassification
}
