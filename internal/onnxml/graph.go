package onnxml

import (
	"errors"
	"fmt"

	"github.com/jshuadvd/hummingbird/internal/ir"
)

// opTypePrefix namespaces wire-level operator tags in the converter
// registry, keeping them apart from fitted-estimator tags.
const opTypePrefix = "ONNXML"

// TensorType declares a model input for conversion callers: its value name,
// wire element type and shape. Dims follow the value-info convention where
// -1 marks a symbolic dimension.
type TensorType struct {
	Name     string
	ElemType int32
	Dims     []int64
}

// Graph adapts a parsed model's GraphProto to the IR builder's source-graph
// view. Node payloads are converter-facing Node values detached from the
// wire structs.
type Graph struct {
	proto   *GraphProto
	nodes   []ir.SourceNode
	inputs  []string
	outputs []string
	inits   []string
}

// NewGraph wraps a parsed model.
func NewGraph(model *ModelProto) (*Graph, error) {
	if model == nil || model.Graph == nil {
		return nil, errors.New("model has no graph")
	}
	gp := model.Graph

	g := &Graph{proto: gp}
	g.nodes = make([]ir.SourceNode, 0, len(gp.Nodes))
	for i := range gp.Nodes {
		g.nodes = append(g.nodes, newSourceNode(&gp.Nodes[i], i))
	}
	for i := range gp.Inputs {
		g.inputs = append(g.inputs, gp.Inputs[i].Name)
	}
	for i := range gp.Outputs {
		g.outputs = append(g.outputs, gp.Outputs[i].Name)
	}
	for i := range gp.Initializers {
		g.inits = append(g.inits, gp.Initializers[i].Name)
	}
	return g, nil
}

// Nodes returns the operator nodes in declaration order.
func (g *Graph) Nodes() []ir.SourceNode { return g.nodes }

// GraphInputs returns the declared input names, initializers included.
func (g *Graph) GraphInputs() []string { return g.inputs }

// GraphOutputs returns the declared output names.
func (g *Graph) GraphOutputs() []string { return g.outputs }

// Initializers returns the weight-tensor names.
func (g *Graph) Initializers() []string { return g.inits }

// ResolvedInputs returns the graph inputs that are real model inputs, i.e.
// not shadowed by an initializer of the same name.
func (g *Graph) ResolvedInputs() []string {
	shadow := make(map[string]struct{}, len(g.inits))
	for _, name := range g.inits {
		shadow[name] = struct{}{}
	}
	var resolved []string
	for _, name := range g.inputs {
		if _, ok := shadow[name]; !ok {
			resolved = append(resolved, name)
		}
	}
	return resolved
}

// FilterOutputs restricts the declared graph outputs to the named subset,
// preserving declaration order. Names the graph does not declare are an
// error.
func (g *Graph) FilterOutputs(names []string) error {
	if len(names) == 0 {
		return nil
	}
	declared := make(map[string]struct{}, len(g.outputs))
	for _, name := range g.outputs {
		declared[name] = struct{}{}
	}
	requested := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := declared[name]; !ok {
			return fmt.Errorf("output %q not declared by the graph", name)
		}
		requested[name] = struct{}{}
	}

	kept := make([]string, 0, len(requested))
	for _, name := range g.outputs {
		if _, ok := requested[name]; ok {
			kept = append(kept, name)
		}
	}
	g.outputs = kept
	return nil
}

// InputType returns the declared element type and dimensions of a graph
// input. Symbolic dimensions come back as -1; absent type info as ok=false.
func (g *Graph) InputType(name string) (elemType int32, dims []int64, ok bool) {
	for i := range g.proto.Inputs {
		vi := &g.proto.Inputs[i]
		if vi.Name != name {
			continue
		}
		if vi.Type == nil || vi.Type.TensorType == nil {
			return 0, nil, false
		}
		tt := vi.Type.TensorType
		if tt.Shape != nil {
			dims = make([]int64, 0, len(tt.Shape.Dims))
			for _, d := range tt.Shape.Dims {
				if d.DimParam != "" {
					dims = append(dims, -1)
					continue
				}
				dims = append(dims, d.DimValue)
			}
		}
		return tt.ElemType, dims, true
	}
	return 0, nil, false
}

// sourceNode is the ir.SourceNode view of one NodeProto.
type sourceNode struct {
	id      string
	proto   *NodeProto
	payload *Node
}

func newSourceNode(p *NodeProto, index int) *sourceNode {
	id := p.Name
	if id == "" {
		id = fmt.Sprintf("%s_%d", p.OpType, index)
	}
	return &sourceNode{id: id, proto: p, payload: operatorNode(p)}
}

func (n *sourceNode) ID() string            { return n.id }
func (n *sourceNode) OpType() string        { return opTypePrefix + n.proto.OpType }
func (n *sourceNode) NodeInputs() []string  { return n.proto.Inputs }
func (n *sourceNode) NodeOutputs() []string { return n.proto.Outputs }
func (n *sourceNode) Raw() any              { return n.payload }

// operatorNode builds the converter-facing attribute view of a node.
func operatorNode(p *NodeProto) *Node {
	n := &Node{
		Name:    p.Name,
		OpType:  p.OpType,
		Inputs:  p.Inputs,
		Outputs: p.Outputs,
		Domain:  p.Domain,
	}
	n.Attributes = make([]Attribute, 0, len(p.Attributes))
	for _, a := range p.Attributes {
		n.Attributes = append(n.Attributes, Attribute{
			Name:    a.Name,
			Type:    a.Type,
			F:       a.F,
			I:       a.I,
			S:       a.S,
			Floats:  a.Floats,
			Ints:    a.Ints,
			Strings: a.Strings,
		})
	}
	return n
}
