// Package onnxml reads and writes serialized models carrying ONNX-ML
// operators.
//
// The package covers the model envelope and graph messages the conversion
// pipeline needs: parsing a serialized model into wire structs, summarizing
// it for inspection, and writing converted models back out. Fields outside
// that surface are skipped on decode.
//
// # Example Usage
//
//	import (
//	    "github.com/jshuadvd/hummingbird/convert"
//	    "github.com/jshuadvd/hummingbird/onnxml"
//	)
//
//	model, err := onnxml.ParseFile("logreg.onnx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	converted, err := convert.ONNXML(model, convert.ONNXMLOptions{
//	    InitialTypes: []onnxml.TensorType{
//	        {Name: "float_input", ElemType: onnxml.ElemTypeFloat, Dims: []int64{1, 4}},
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := converted.Save("logreg_tensor.onnx"); err != nil {
//	    log.Fatal(err)
//	}
package onnxml

import (
	"github.com/jshuadvd/hummingbird/internal/onnxml"
)

// ModelProto is the serialized model envelope.
type ModelProto = onnxml.ModelProto

// GraphProto is the operator graph inside a model.
type GraphProto = onnxml.GraphProto

// NodeProto is a single operator occurrence.
type NodeProto = onnxml.NodeProto

// TensorProto carries initializer data.
type TensorProto = onnxml.TensorProto

// ValueInfoProto declares a named value's type.
type ValueInfoProto = onnxml.ValueInfoProto

// TypeProto wraps a declared value's type variants; only tensor types occur
// in the models this package reads and writes.
type TypeProto = onnxml.TypeProto

// TensorTypeProto is an element type plus shape.
type TensorTypeProto = onnxml.TensorTypeProto

// TensorShapeProto lists a tensor type's dimensions.
type TensorShapeProto = onnxml.TensorShapeProto

// DimensionProto is one dimension: a static value or a symbolic name.
type DimensionProto = onnxml.DimensionProto

// AttributeProto is a node attribute in wire form.
type AttributeProto = onnxml.AttributeProto

// OperatorSetID pins one operator domain to a version.
type OperatorSetID = onnxml.OperatorSetID

// TensorType declares a model input for conversion: value name, element
// type and shape. A dimension of -1 marks a symbolic size.
type TensorType = onnxml.TensorType

// Info is a display summary of a parsed model.
type Info = onnxml.Info

// Operator set domains.
const (
	DomainONNX = onnxml.DomainONNX // default ai.onnx domain
	DomainML   = onnxml.DomainML   // classical-ML operator domain
)

// Element data types for tensors and input declarations.
const (
	ElemTypeFloat  = onnxml.ElemTypeFloat
	ElemTypeInt32  = onnxml.ElemTypeInt32
	ElemTypeInt64  = onnxml.ElemTypeInt64
	ElemTypeDouble = onnxml.ElemTypeDouble
	ElemTypeString = onnxml.ElemTypeString
)

// Attribute value types.
const (
	AttrTypeFloat   = onnxml.AttrTypeFloat
	AttrTypeInt     = onnxml.AttrTypeInt
	AttrTypeString  = onnxml.AttrTypeString
	AttrTypeFloats  = onnxml.AttrTypeFloats
	AttrTypeInts    = onnxml.AttrTypeInts
	AttrTypeStrings = onnxml.AttrTypeStrings
)

// Parse decodes a serialized model from protobuf wire bytes.
func Parse(data []byte) (*ModelProto, error) {
	return onnxml.Parse(data)
}

// ParseFile decodes a serialized model from a file.
func ParseFile(path string) (*ModelProto, error) {
	return onnxml.ParseFile(path)
}

// Marshal encodes a model to protobuf wire bytes.
func Marshal(m *ModelProto) ([]byte, error) {
	return onnxml.Marshal(m)
}

// WriteFile encodes a model and writes it to path.
func WriteFile(path string, m *ModelProto) error {
	return onnxml.WriteFile(path, m)
}

// Summarize collects display facts about a parsed model: opset versions,
// node and initializer counts, distinct operator tags and declared values.
func Summarize(m *ModelProto) Info {
	return onnxml.Summarize(m)
}
