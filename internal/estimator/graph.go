package estimator

import (
	"fmt"

	"github.com/jshuadvd/hummingbird/internal/ir"
)

// graphInput is the value name feeding the first stage.
const graphInput = "input"

// Graph presents a fitted estimator (or pipeline) as a lowering source.
// Pipelines arrive pre-unrolled: each stage becomes one node whose output
// value feeds the next stage, so the IR never nests.
type Graph struct {
	nodes []stageNode
}

type stageNode struct {
	id      string
	op      string
	raw     any
	inputs  []string
	outputs []string
}

func (n stageNode) ID() string            { return n.id }
func (n stageNode) OpType() string        { return n.op }
func (n stageNode) NodeInputs() []string  { return n.inputs }
func (n stageNode) NodeOutputs() []string { return n.outputs }
func (n stageNode) Raw() any              { return n.raw }

// NewGraph unrolls model into a flat stage chain with deterministic value
// names: the graph input is "input", stage i's output is "variable" with a
// numeric suffix for i > 0, and the last stage's output is the graph output.
func NewGraph(model Estimator) (*Graph, error) {
	var stages []Estimator
	if p, ok := model.(*Pipeline); ok {
		stages = p.flatten()
	} else {
		stages = []Estimator{model}
	}
	if len(stages) == 0 {
		return nil, fmt.Errorf("pipeline has no stages")
	}

	g := &Graph{nodes: make([]stageNode, 0, len(stages))}
	current := graphInput
	for i, st := range stages {
		out := "variable"
		if i > 0 {
			out = fmt.Sprintf("variable%d", i)
		}
		g.nodes = append(g.nodes, stageNode{
			id:      fmt.Sprintf("%s_%d", st.OpType(), i),
			op:      st.OpType(),
			raw:     st,
			inputs:  []string{current},
			outputs: []string{out},
		})
		current = out
	}

	return g, nil
}

// Nodes returns the stages in pipeline order.
func (g *Graph) Nodes() []ir.SourceNode {
	out := make([]ir.SourceNode, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = n
	}
	return out
}

// GraphInputs returns the single model input name.
func (g *Graph) GraphInputs() []string {
	return []string{graphInput}
}

// GraphOutputs returns the final stage's output name.
func (g *Graph) GraphOutputs() []string {
	return []string{g.nodes[len(g.nodes)-1].outputs[0]}
}

// Initializers returns nil; fitted parameters travel inside the stage
// payloads, not as named graph constants.
func (g *Graph) Initializers() []string {
	return nil
}
