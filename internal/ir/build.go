package ir

import "fmt"

// Build walks the source graph in declaration order and constructs the IR.
//
// Every node input must resolve to a declared graph input, an initializer,
// or some node's output. Resolution is checked after the full walk, so a
// node may consume a value produced later in declaration order; the sorter
// establishes executable order afterwards. Unused initializers are legal.
func Build(src SourceGraph) (*Graph, error) {
	srcNodes := src.Nodes()

	g := &Graph{
		nodes:        make([]*Node, 0, len(srcNodes)),
		producers:    make(map[string]*Node, len(srcNodes)),
		inputs:       append([]string(nil), src.GraphInputs()...),
		outputs:      append([]string(nil), src.GraphOutputs()...),
		initializers: make(map[string]struct{}),
	}

	for _, name := range src.Initializers() {
		g.initializers[name] = struct{}{}
	}

	available := make(map[string]struct{}, len(g.inputs)+len(g.initializers))
	for _, name := range g.inputs {
		available[name] = struct{}{}
	}
	for name := range g.initializers {
		available[name] = struct{}{}
	}

	seenIDs := make(map[string]struct{}, len(srcNodes))
	for _, sn := range srcNodes {
		node := &Node{
			ID:      sn.ID(),
			OpType:  sn.OpType(),
			Raw:     sn.Raw(),
			Inputs:  append([]string(nil), sn.NodeInputs()...),
			Outputs: append([]string(nil), sn.NodeOutputs()...),
		}

		if _, dup := seenIDs[node.ID]; dup {
			return nil, fmt.Errorf("node %q declared twice: %w", node.ID, ErrDuplicateProducer)
		}
		seenIDs[node.ID] = struct{}{}

		for _, out := range node.Outputs {
			if out == "" {
				continue
			}
			if _, taken := available[out]; taken {
				return nil, fmt.Errorf("node %q output %q: %w", node.ID, out, ErrDuplicateProducer)
			}
			if prev, taken := g.producers[out]; taken {
				return nil, fmt.Errorf("node %q and node %q both produce %q: %w",
					prev.ID, node.ID, out, ErrDuplicateProducer)
			}
			g.producers[out] = node
		}

		g.nodes = append(g.nodes, node)
	}

	for _, node := range g.nodes {
		for _, in := range node.Inputs {
			if in == "" {
				// Omitted optional input.
				continue
			}
			if _, ok := available[in]; ok {
				continue
			}
			if _, ok := g.producers[in]; ok {
				continue
			}
			return nil, fmt.Errorf("node %q consumes %q: %w", node.ID, in, ErrDanglingReference)
		}
	}

	return g, nil
}
