package ir

import "fmt"

// Sort returns the graph's nodes in a topological order that is stable with
// respect to declaration order: each pass scans not-yet-emitted nodes in
// declaration order and emits every node whose inputs are all satisfied, so
// independent nodes keep their relative declaration positions and repeated
// runs over the same graph produce identical output.
//
// Graph inputs and initializers are satisfied from the start. If a pass
// emits nothing while nodes remain, the remainder forms at least one cycle
// and Sort fails with ErrCyclicGraph.
func Sort(g *Graph) ([]*Node, error) {
	ready := make(map[string]struct{})
	for _, name := range g.inputs {
		ready[name] = struct{}{}
	}
	for name := range g.initializers {
		ready[name] = struct{}{}
	}

	ordered := make([]*Node, 0, len(g.nodes))
	emitted := make([]bool, len(g.nodes))
	remaining := len(g.nodes)

	for remaining > 0 {
		progressed := false

		for i, node := range g.nodes {
			if emitted[i] {
				continue
			}
			if !inputsSatisfied(node, ready) {
				continue
			}

			ordered = append(ordered, node)
			emitted[i] = true
			remaining--
			progressed = true
			for _, out := range node.Outputs {
				if out != "" {
					ready[out] = struct{}{}
				}
			}
		}

		if !progressed {
			for i, node := range g.nodes {
				if !emitted[i] {
					return nil, fmt.Errorf("node %q cannot be scheduled: %w", node.ID, ErrCyclicGraph)
				}
			}
		}
	}

	return ordered, nil
}

// inputsSatisfied relies on Build having resolved every input name: a name
// missing from ready can only be the output of a not-yet-emitted node.
func inputsSatisfied(node *Node, ready map[string]struct{}) bool {
	for _, in := range node.Inputs {
		if in == "" {
			continue
		}
		if _, ok := ready[in]; !ok {
			return false
		}
	}
	return true
}
