package tensor

import (
	"fmt"
	"unsafe"
)

// RawTensor is the low-level tensor representation: an owned, contiguous
// row-major buffer plus shape and type metadata.
//
// Conversion never aliases model memory. Every constructor copies its input
// and Clone performs a deep copy, so two RawTensors never share a buffer.
type RawTensor struct {
	data   []byte
	shape  Shape
	stride []int
	dtype  DataType
	device Device
}

// NewRaw allocates a zero-filled RawTensor with the given shape and type.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	return &RawTensor{
		data:   make([]byte, shape.NumElements()*dtype.Size()),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		device: device,
	}, nil
}

// FromFloat32s builds a Float32 tensor by copying vals into a fresh buffer.
// len(vals) must match the shape's element count.
func FromFloat32s(vals []float32, shape Shape, device Device) (*RawTensor, error) {
	r, err := newSized(shape, Float32, device, len(vals))
	if err != nil {
		return nil, err
	}
	copy(r.AsFloat32(), vals)
	return r, nil
}

// FromFloat64s builds a Float64 tensor by copying vals into a fresh buffer.
func FromFloat64s(vals []float64, shape Shape, device Device) (*RawTensor, error) {
	r, err := newSized(shape, Float64, device, len(vals))
	if err != nil {
		return nil, err
	}
	copy(r.AsFloat64(), vals)
	return r, nil
}

// FromInt32s builds an Int32 tensor by copying vals into a fresh buffer.
func FromInt32s(vals []int32, shape Shape, device Device) (*RawTensor, error) {
	r, err := newSized(shape, Int32, device, len(vals))
	if err != nil {
		return nil, err
	}
	copy(r.AsInt32(), vals)
	return r, nil
}

// FromInt64s builds an Int64 tensor by copying vals into a fresh buffer.
func FromInt64s(vals []int64, shape Shape, device Device) (*RawTensor, error) {
	r, err := newSized(shape, Int64, device, len(vals))
	if err != nil {
		return nil, err
	}
	copy(r.AsInt64(), vals)
	return r, nil
}

func newSized(shape Shape, dtype DataType, device Device, n int) (*RawTensor, error) {
	if want := shape.NumElements(); n != want {
		return nil, fmt.Errorf("shape %v needs %d elements, got %d", shape, want, n)
	}
	return NewRaw(shape, dtype, device)
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's row-major memory strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// DType returns the tensor's element type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns the tensor's compute device.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the total buffer size in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// Data returns the raw byte buffer.
// WARNING: direct access to underlying memory. Use with caution.
func (r *RawTensor) Data() []byte {
	return r.data
}

// AsFloat32 interprets the buffer as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", r.dtype))
	}
	//nolint:gosec // zero-copy reinterpret, length bounded by NumElements
	return unsafe.Slice((*float32)(unsafe.Pointer(&r.data[0])), r.NumElements())
}

// AsFloat64 interprets the buffer as []float64.
// Panics if the tensor's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", r.dtype))
	}
	//nolint:gosec // zero-copy reinterpret, length bounded by NumElements
	return unsafe.Slice((*float64)(unsafe.Pointer(&r.data[0])), r.NumElements())
}

// AsInt32 interprets the buffer as []int32.
// Panics if the tensor's dtype is not Int32.
func (r *RawTensor) AsInt32() []int32 {
	if r.dtype != Int32 {
		panic(fmt.Sprintf("tensor dtype is %s, not int32", r.dtype))
	}
	//nolint:gosec // zero-copy reinterpret, length bounded by NumElements
	return unsafe.Slice((*int32)(unsafe.Pointer(&r.data[0])), r.NumElements())
}

// AsInt64 interprets the buffer as []int64.
// Panics if the tensor's dtype is not Int64.
func (r *RawTensor) AsInt64() []int64 {
	if r.dtype != Int64 {
		panic(fmt.Sprintf("tensor dtype is %s, not int64", r.dtype))
	}
	//nolint:gosec // zero-copy reinterpret, length bounded by NumElements
	return unsafe.Slice((*int64)(unsafe.Pointer(&r.data[0])), r.NumElements())
}

// Clone returns a deep copy with its own buffer.
func (r *RawTensor) Clone() *RawTensor {
	data := make([]byte, len(r.data))
	copy(data, r.data)
	return &RawTensor{
		data:   data,
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		dtype:  r.dtype,
		device: r.device,
	}
}

// WithShape returns a view-free reinterpretation of the tensor under a new
// shape with the same element count. The buffer is deep-copied.
func (r *RawTensor) WithShape(shape Shape) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if shape.NumElements() != r.NumElements() {
		return nil, fmt.Errorf("cannot reshape %v to %v: element counts differ", r.shape, shape)
	}
	out := r.Clone()
	out.shape = shape.Clone()
	out.stride = shape.ComputeStrides()
	return out, nil
}
