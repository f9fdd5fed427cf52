// Package ir holds the intermediate representation that source models are
// parsed into before lowering: a flat DAG of operator nodes connected by
// named values, plus the topological sorter that fixes lowering order.
package ir

// SourceGraph is the capability set a source model adapter must expose for
// IR construction. Nodes are returned in declaration order.
type SourceGraph interface {
	Nodes() []SourceNode
	GraphInputs() []string
	GraphOutputs() []string
	Initializers() []string
}

// SourceNode is one operator occurrence in a source model.
type SourceNode interface {
	// ID uniquely identifies the node within its graph.
	ID() string
	// OpType is the operator tag converters dispatch on.
	OpType() string
	// NodeInputs returns consumed value names in positional order.
	NodeInputs() []string
	// NodeOutputs returns produced value names in positional order.
	NodeOutputs() []string
	// Raw returns the adapter-specific payload (attributes, trained
	// parameters) the operator's converter knows how to read.
	Raw() any
}

// Node is one IR operator node. Input and output name slices are copies made
// at build time; nothing aliases the source model.
type Node struct {
	ID      string
	OpType  string
	Raw     any
	Inputs  []string
	Outputs []string
}

// Graph is a built IR graph: nodes in declaration order plus the producer
// index. A Graph is immutable once Build returns it.
type Graph struct {
	nodes        []*Node
	producers    map[string]*Node
	inputs       []string
	outputs      []string
	initializers map[string]struct{}
}

// Nodes returns the nodes in declaration order.
func (g *Graph) Nodes() []*Node {
	return g.nodes
}

// Inputs returns the declared graph input names.
func (g *Graph) Inputs() []string {
	return g.inputs
}

// Outputs returns the declared graph output names.
func (g *Graph) Outputs() []string {
	return g.outputs
}

// Producer returns the node producing the named value, if any.
func (g *Graph) Producer(name string) (*Node, bool) {
	n, ok := g.producers[name]
	return n, ok
}

// IsInitializer reports whether name refers to an embedded constant.
func (g *Graph) IsInitializer(name string) bool {
	_, ok := g.initializers[name]
	return ok
}
