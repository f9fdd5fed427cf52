package engine

import (
	"fmt"

	"github.com/jshuadvd/hummingbird/internal/converters"
	"github.com/jshuadvd/hummingbird/internal/onnxml"
	"github.com/jshuadvd/hummingbird/internal/tensor"
)

const (
	assembledIRVersion      int64 = 6
	assembledProducer             = "hummingbird"
	assembledProducerVer          = "0.1.0"
	assembledDomain               = "ml.hummingbird"
)

// assemble re-expresses the lowered fragments as a model built from
// standard ONNX tensor operators. Fragment order is already topological, so
// nodes are emitted in place; value names from the source graph are reused
// for each fragment's declared outputs, which keeps the filtered graph
// outputs resolvable without a rename table.
func assemble(low []lowered, src *onnxml.Graph, inputName string, testData *tensor.RawTensor, name string, opset int64) (*onnxml.ModelProto, error) {
	g := &onnxml.GraphProto{Name: name}

	// The input declaration keeps the source element type when the source
	// model declared one; the dimensions come from the traced batch.
	elem, _, ok := src.InputType(inputName)
	if !ok || elem == onnxml.ElemTypeUndefined {
		elem = elemTypeFor(testData.DType())
	}
	rows := int64(testData.Shape()[0])
	g.Inputs = append(g.Inputs, valueInfo(inputName, elem, dimsOf(testData.Shape())))

	produced := make(map[string]onnxml.ValueInfoProto)
	for _, l := range low {
		if len(l.node.Inputs) == 0 || len(l.node.Outputs) == 0 {
			return nil, fmt.Errorf("node %s: assembly needs at least one input and output value", l.node.ID)
		}
		switch frag := l.frag.(type) {
		case *converters.LinearModel:
			if err := emitLinear(g, l.node.ID, l.node.Inputs[0], l.node.Outputs, frag, rows, produced); err != nil {
				return nil, err
			}
		case *converters.ScalerModel:
			emitScaler(g, l.node.ID, l.node.Inputs[0], l.node.Outputs[0], frag, rows, produced)
		default:
			return nil, fmt.Errorf("fragment %s (%T) has no standard-operator form", l.frag.OpType(), l.frag)
		}
	}

	for _, out := range src.GraphOutputs() {
		vi, ok := produced[out]
		if !ok {
			return nil, fmt.Errorf("declared output %q is not produced by any fragment", out)
		}
		g.Outputs = append(g.Outputs, vi)
	}

	return &onnxml.ModelProto{
		IRVersion:       assembledIRVersion,
		ProducerName:    assembledProducer,
		ProducerVersion: assembledProducerVer,
		Domain:          assembledDomain,
		Graph:           g,
		OpsetImport:     []onnxml.OperatorSetID{{Domain: onnxml.DomainONNX, Version: opset}},
	}, nil
}

// emitLinear expands one linear fragment into MatMul + Add plus the
// classifier head it was lowered with. Outputs follow the source operator's
// convention: labels first, scores second for classifiers, a single score
// value for regressors.
func emitLinear(g *onnxml.GraphProto, id, in string, outputs []string, m *converters.LinearModel, rows int64, produced map[string]onnxml.ValueInfoProto) error {
	coefName := id + ".coefficients"
	biasName := id + ".intercepts"
	g.Initializers = append(g.Initializers,
		floatInitializer(coefName, m.Coefficients),
		floatInitializer(biasName, m.Intercepts),
	)

	matmulOut := id + ".matmul"
	g.Nodes = append(g.Nodes, nodeProto(id+"_MatMul", "MatMul", []string{in, coefName}, []string{matmulOut}))

	cols := int64(m.Coefficients.Shape()[1])

	if m.Regression {
		out := outputs[0]
		g.Nodes = append(g.Nodes, nodeProto(id+"_Add", "Add", []string{matmulOut, biasName}, []string{out}))
		produced[out] = valueInfo(out, onnxml.ElemTypeFloat, []int64{rows, cols})
		return nil
	}

	decision := id + ".decision"
	g.Nodes = append(g.Nodes, nodeProto(id+"_Add", "Add", []string{matmulOut, biasName}, []string{decision}))

	scoresName := id + ".scores"
	if len(outputs) > 1 {
		scoresName = outputs[1]
	}

	// The head mirrors the fragment's runtime semantics: binary decisions
	// widen to two columns, multiclass decisions squash per MultiClass.
	switch {
	case cols == 1 && m.Probabilistic:
		proba := id + ".proba"
		g.Nodes = append(g.Nodes, nodeProto(id+"_Sigmoid", "Sigmoid", []string{decision}, []string{proba}))
		oneName := id + ".one"
		g.Initializers = append(g.Initializers, onesInitializer(oneName))
		notProba := id + ".proba_not"
		g.Nodes = append(g.Nodes, nodeProto(id+"_Sub", "Sub", []string{oneName, proba}, []string{notProba}))
		g.Nodes = append(g.Nodes, nodeProto(id+"_Concat", "Concat", []string{notProba, proba}, []string{scoresName},
			intAttr("axis", 1)))
		cols = 2
	case cols == 1:
		neg := id + ".neg"
		g.Nodes = append(g.Nodes, nodeProto(id+"_Neg", "Neg", []string{decision}, []string{neg}))
		g.Nodes = append(g.Nodes, nodeProto(id+"_Concat", "Concat", []string{neg, decision}, []string{scoresName},
			intAttr("axis", 1)))
		cols = 2
	case m.Probabilistic && m.MultiClass == "multinomial":
		g.Nodes = append(g.Nodes, nodeProto(id+"_Softmax", "Softmax", []string{decision}, []string{scoresName},
			intAttr("axis", 1)))
	case m.Probabilistic:
		g.Nodes = append(g.Nodes, nodeProto(id+"_Sigmoid", "Sigmoid", []string{decision}, []string{scoresName}))
	default:
		g.Nodes = append(g.Nodes, nodeProto(id+"_Scores", "Identity", []string{decision}, []string{scoresName}))
	}
	produced[scoresName] = valueInfo(scoresName, onnxml.ElemTypeFloat, []int64{rows, cols})

	argmaxOut := id + ".argmax"
	g.Nodes = append(g.Nodes, nodeProto(id+"_ArgMax", "ArgMax", []string{scoresName}, []string{argmaxOut},
		intAttr("axis", 1), intAttr("keepdims", 0)))

	classesName := id + ".classes"
	g.Initializers = append(g.Initializers, int64Initializer(classesName, m.Classes))

	labelOut := outputs[0]
	g.Nodes = append(g.Nodes, nodeProto(id+"_Gather", "Gather", []string{classesName, argmaxOut}, []string{labelOut}))
	produced[labelOut] = valueInfo(labelOut, onnxml.ElemTypeInt64, []int64{rows})
	return nil
}

// emitScaler expands one scaler fragment into Add + Mul over its negated
// mean and reciprocal scale rows.
func emitScaler(g *onnxml.GraphProto, id, in, out string, m *converters.ScalerModel, rows int64, produced map[string]onnxml.ValueInfoProto) {
	offName := id + ".offsets"
	facName := id + ".factors"
	g.Initializers = append(g.Initializers,
		floatInitializer(offName, m.Offsets),
		floatInitializer(facName, m.Factors),
	)

	shifted := id + ".shifted"
	g.Nodes = append(g.Nodes, nodeProto(id+"_Add", "Add", []string{in, offName}, []string{shifted}))
	g.Nodes = append(g.Nodes, nodeProto(id+"_Mul", "Mul", []string{shifted, facName}, []string{out}))
	produced[out] = valueInfo(out, onnxml.ElemTypeFloat, []int64{rows, int64(m.Factors.Shape()[1])})
}

func nodeProto(name, opType string, inputs, outputs []string, attrs ...onnxml.AttributeProto) onnxml.NodeProto {
	return onnxml.NodeProto{
		Name:       name,
		OpType:     opType,
		Inputs:     inputs,
		Outputs:    outputs,
		Attributes: attrs,
	}
}

func intAttr(name string, v int64) onnxml.AttributeProto {
	return onnxml.AttributeProto{Name: name, Type: onnxml.AttrTypeInt, I: v}
}

func floatInitializer(name string, t *tensor.RawTensor) onnxml.TensorProto {
	return onnxml.TensorProto{
		Name:      name,
		DataType:  onnxml.ElemTypeFloat,
		Dims:      dimsOf(t.Shape()),
		FloatData: append([]float32(nil), t.AsFloat32()...),
	}
}

func int64Initializer(name string, vals []int64) onnxml.TensorProto {
	return onnxml.TensorProto{
		Name:      name,
		DataType:  onnxml.ElemTypeInt64,
		Dims:      []int64{int64(len(vals))},
		Int64Data: append([]int64(nil), vals...),
	}
}

func onesInitializer(name string) onnxml.TensorProto {
	return onnxml.TensorProto{
		Name:      name,
		DataType:  onnxml.ElemTypeFloat,
		Dims:      []int64{1},
		FloatData: []float32{1},
	}
}

func valueInfo(name string, elemType int32, dims []int64) onnxml.ValueInfoProto {
	shape := &onnxml.TensorShapeProto{Dims: make([]onnxml.DimensionProto, 0, len(dims))}
	for _, d := range dims {
		shape.Dims = append(shape.Dims, onnxml.DimensionProto{DimValue: d})
	}
	return onnxml.ValueInfoProto{
		Name: name,
		Type: &onnxml.TypeProto{TensorType: &onnxml.TensorTypeProto{ElemType: elemType, Shape: shape}},
	}
}

func dimsOf(s tensor.Shape) []int64 {
	out := make([]int64, len(s))
	for i, d := range s {
		out[i] = int64(d)
	}
	return out
}

func elemTypeFor(dt tensor.DataType) int32 {
	switch dt {
	case tensor.Float32:
		return onnxml.ElemTypeFloat
	case tensor.Float64:
		return onnxml.ElemTypeDouble
	case tensor.Int32:
		return onnxml.ElemTypeInt32
	case tensor.Int64:
		return onnxml.ElemTypeInt64
	default:
		return onnxml.ElemTypeUndefined
	}
}
