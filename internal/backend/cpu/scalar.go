package cpu

import (
	"fmt"

	"github.com/jshuadvd/hummingbird/internal/tensor"
)

// Scalar operations. The scalar's Go type must match the tensor's dtype.

// MulScalar multiplies each element of the tensor by a scalar value.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("mulScalar: failed to create result tensor: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		s := scalar.(float32)
		src, dst := x.AsFloat32(), result.AsFloat32()
		for i := range src {
			dst[i] = src[i] * s
		}
	case tensor.Float64:
		s := scalar.(float64)
		src, dst := x.AsFloat64(), result.AsFloat64()
		for i := range src {
			dst[i] = src[i] * s
		}
	default:
		panic(fmt.Sprintf("mulScalar: unsupported dtype %v", x.DType()))
	}

	return result
}

// AddScalar adds a scalar value to each element of the tensor.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("addScalar: failed to create result tensor: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		s := scalar.(float32)
		src, dst := x.AsFloat32(), result.AsFloat32()
		for i := range src {
			dst[i] = src[i] + s
		}
	case tensor.Float64:
		s := scalar.(float64)
		src, dst := x.AsFloat64(), result.AsFloat64()
		for i := range src {
			dst[i] = src[i] + s
		}
	default:
		panic(fmt.Sprintf("addScalar: unsupported dtype %v", x.DType()))
	}

	return result
}
