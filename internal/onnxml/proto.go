package onnxml

// Hand-written ONNX protobuf messages, trimmed to the fields the ML
// operator path reads and writes. Unknown fields are skipped on decode.

// ModelProto is the serialized model envelope.
type ModelProto struct {
	IRVersion       int64
	ProducerName    string
	ProducerVersion string
	Domain          string
	ModelVersion    int64
	DocString       string
	Graph           *GraphProto
	OpsetImport     []OperatorSetID
	MetadataProps   []StringStringEntry
}

// GraphProto is the operator graph: nodes in declaration order plus declared
// inputs, outputs and weight initializers.
type GraphProto struct {
	Name         string
	Nodes        []NodeProto
	Initializers []TensorProto
	DocString    string
	Inputs       []ValueInfoProto
	Outputs      []ValueInfoProto
	ValueInfo    []ValueInfoProto
}

// NodeProto is a single operator occurrence.
type NodeProto struct {
	Name       string
	OpType     string
	Inputs     []string
	Outputs    []string
	Attributes []AttributeProto
	Domain     string
	DocString  string
}

// TensorProto carries initializer data.
type TensorProto struct {
	Name      string
	DataType  int32
	Dims      []int64
	RawData   []byte
	FloatData []float32
	Int32Data []int32
	Int64Data []int64
	DocString string
}

// ValueInfoProto declares a named value's type.
type ValueInfoProto struct {
	Name      string
	Type      *TypeProto
	DocString string
}

// TypeProto wraps the type variants; only tensor types occur here.
type TypeProto struct {
	TensorType *TensorTypeProto
}

// TensorTypeProto is an element type plus shape.
type TensorTypeProto struct {
	ElemType int32
	Shape    *TensorShapeProto
}

// TensorShapeProto lists dimensions.
type TensorShapeProto struct {
	Dims []DimensionProto
}

// DimensionProto is one dimension: a static value or a symbolic name.
type DimensionProto struct {
	DimValue int64
	DimParam string
}

// AttributeProto is a node attribute. The ML operators use the scalar and
// packed-array variants only; tensor/graph-valued attributes are skipped at
// decode time.
type AttributeProto struct {
	Name      string
	Type      int32
	F         float32
	I         int64
	S         []byte
	Floats    []float32
	Ints      []int64
	Strings   [][]byte
	DocString string
}

// OperatorSetID pins one operator domain to a version.
type OperatorSetID struct {
	Domain  string
	Version int64
}

// StringStringEntry is a key-value metadata pair.
type StringStringEntry struct {
	Key   string
	Value string
}

// Operator set domains.
const (
	DomainONNX = ""           // default ai.onnx domain
	DomainML   = "ai.onnx.ml" // classical-ML operator domain
)

// Element data types (TensorProto.DataType, TensorTypeProto.ElemType).
const (
	ElemTypeUndefined int32 = 0
	ElemTypeFloat     int32 = 1
	ElemTypeUint8     int32 = 2
	ElemTypeInt8      int32 = 3
	ElemTypeUint16    int32 = 4
	ElemTypeInt16     int32 = 5
	ElemTypeInt32     int32 = 6
	ElemTypeInt64     int32 = 7
	ElemTypeString    int32 = 8
	ElemTypeBool      int32 = 9
	ElemTypeFloat16   int32 = 10
	ElemTypeDouble    int32 = 11
	ElemTypeUint32    int32 = 12
	ElemTypeUint64    int32 = 13
)

// Attribute value types (AttributeProto.Type).
const (
	AttrTypeUndefined int32 = 0
	AttrTypeFloat     int32 = 1
	AttrTypeInt       int32 = 2
	AttrTypeString    int32 = 3
	AttrTypeTensor    int32 = 4
	AttrTypeGraph     int32 = 5
	AttrTypeFloats    int32 = 6
	AttrTypeInts      int32 = 7
	AttrTypeStrings   int32 = 8
)
