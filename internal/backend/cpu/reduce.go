package cpu

import (
	"fmt"

	"github.com/jshuadvd/hummingbird/internal/tensor"
)

// Argmax returns the index of the maximum value along the given dimension.
// The reduced dimension is removed from the output shape and the result is
// an Int32 tensor. Ties resolve to the lowest index.
func (cpu *CPUBackend) Argmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("argmax: dimension %d out of range for %dD tensor", dim, ndim))
	}

	outShape := make(tensor.Shape, 0, ndim-1)
	for i := 0; i < ndim; i++ {
		if i != dim {
			outShape = append(outShape, shape[i])
		}
	}

	result, err := tensor.NewRaw(outShape, tensor.Int32, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("argmax: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		argmaxFloat32(x.AsFloat32(), result.AsInt32(), shape, dim)
	case tensor.Float64:
		argmaxFloat64(x.AsFloat64(), result.AsInt32(), shape, dim)
	default:
		panic(fmt.Sprintf("argmax: unsupported dtype %s", x.DType()))
	}

	return result
}

func argmaxFloat32(data []float32, result []int32, shape tensor.Shape, dim int) {
	dimSize := shape[dim]
	dimStride := shape.ComputeStrides()[dim]

	resultIdx := 0
	reductionGroups(shape, dim, func(baseIdx int) {
		best := int32(0)
		bestVal := data[baseIdx]
		for i := 1; i < dimSize; i++ {
			if v := data[baseIdx+i*dimStride]; v > bestVal {
				bestVal = v
				best = int32(i) //nolint:gosec // dimension sizes fit int32
			}
		}
		result[resultIdx] = best
		resultIdx++
	})
}

func argmaxFloat64(data []float64, result []int32, shape tensor.Shape, dim int) {
	dimSize := shape[dim]
	dimStride := shape.ComputeStrides()[dim]

	resultIdx := 0
	reductionGroups(shape, dim, func(baseIdx int) {
		best := int32(0)
		bestVal := data[baseIdx]
		for i := 1; i < dimSize; i++ {
			if v := data[baseIdx+i*dimStride]; v > bestVal {
				bestVal = v
				best = int32(i) //nolint:gosec // dimension sizes fit int32
			}
		}
		result[resultIdx] = best
		resultIdx++
	})
}

// reductionGroups enumerates the lines of elements along dim in row-major
// order of the remaining dimensions, yielding each line's flat base index.
func reductionGroups(shape tensor.Shape, dim int, fn func(baseIdx int)) {
	strides := shape.ComputeStrides()

	numGroups := 1
	for i := range shape {
		if i != dim {
			numGroups *= shape[i]
		}
	}

	for group := 0; group < numGroups; group++ {
		baseIdx := 0
		remaining := group
		for i := len(shape) - 1; i >= 0; i-- {
			if i == dim {
				continue
			}
			coord := remaining % shape[i]
			remaining /= shape[i]
			baseIdx += coord * strides[i]
		}
		fn(baseIdx)
	}
}
