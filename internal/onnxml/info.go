package onnxml

import "sort"

// Info is a display summary of a parsed model.
type Info struct {
	IRVersion       int64
	ProducerName    string
	ProducerVersion string
	GraphName       string
	OpsetVersion    int64 // default ai.onnx domain, 0 when absent
	MLOpsetVersion  int64 // ai.onnx.ml domain, 0 when absent
	NumNodes        int
	NumInitializers int
	OpTypes         []string // distinct, sorted
	Inputs          []string
	Outputs         []string
}

// Summarize collects the model facts the inspect command prints.
func Summarize(m *ModelProto) Info {
	info := Info{
		IRVersion:       m.IRVersion,
		ProducerName:    m.ProducerName,
		ProducerVersion: m.ProducerVersion,
	}
	for _, opset := range m.OpsetImport {
		switch opset.Domain {
		case DomainONNX:
			info.OpsetVersion = opset.Version
		case DomainML:
			info.MLOpsetVersion = opset.Version
		}
	}
	if m.Graph == nil {
		return info
	}

	info.GraphName = m.Graph.Name
	info.NumNodes = len(m.Graph.Nodes)
	info.NumInitializers = len(m.Graph.Initializers)

	seen := make(map[string]struct{})
	for i := range m.Graph.Nodes {
		op := m.Graph.Nodes[i].OpType
		if _, ok := seen[op]; ok {
			continue
		}
		seen[op] = struct{}{}
		info.OpTypes = append(info.OpTypes, op)
	}
	sort.Strings(info.OpTypes)

	for i := range m.Graph.Inputs {
		info.Inputs = append(info.Inputs, m.Graph.Inputs[i].Name)
	}
	for i := range m.Graph.Outputs {
		info.Outputs = append(info.Outputs, m.Graph.Outputs[i].Name)
	}
	return info
}
