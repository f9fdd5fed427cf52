// Package tensor provides the tensor substrate for the Hummingbird conversion
// pipeline: shapes, element types, devices and the RawTensor buffer that
// converted model parameters are materialized into.
package tensor

// DataType identifies the element type of a RawTensor.
type DataType int

// Element types that converted models can carry.
const (
	Float32 DataType = iota
	Float64
	Int32
	Int64
)

// Size returns the element size in bytes.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	default:
		return "unknown"
	}
}
