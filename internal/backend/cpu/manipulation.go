package cpu

import (
	"fmt"

	"github.com/jshuadvd/hummingbird/internal/tensor"
)

// Cat concatenates tensors along the specified dimension. All inputs must
// share dtype, rank and every dimension except the concat dimension.
// Supports negative dim indexing (-1 = last dimension).
func (cpu *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: at least one tensor required")
	}

	shape := tensors[0].Shape()
	ndim := len(shape)
	dtype := tensors[0].DType()

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("cat: dimension %d out of range for %dD tensor", dim, ndim))
	}

	totalDim := 0
	for i, t := range tensors {
		tShape := t.Shape()
		if len(tShape) != ndim {
			panic(fmt.Sprintf("cat: tensor %d has %d dimensions, expected %d", i, len(tShape), ndim))
		}
		if t.DType() != dtype {
			panic(fmt.Sprintf("cat: tensor %d has dtype %s, expected %s", i, t.DType(), dtype))
		}
		for d := 0; d < ndim; d++ {
			if d == dim {
				totalDim += tShape[d]
			} else if tShape[d] != shape[d] {
				panic(fmt.Sprintf("cat: tensor %d dimension %d is %d, expected %d", i, d, tShape[d], shape[d]))
			}
		}
	}

	outShape := shape.Clone()
	outShape[dim] = totalDim

	result, err := tensor.NewRaw(outShape, dtype, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("cat: %v", err))
	}

	catBytes(tensors, result, dim)
	return result
}

// catBytes copies contiguous row-major blocks. Splitting each input at the
// concat dimension yields outer blocks of inner*dimSize elements that land
// interleaved in the output.
func catBytes(tensors []*tensor.RawTensor, result *tensor.RawTensor, dim int) {
	shape := tensors[0].Shape()
	elemSize := tensors[0].DType().Size()

	outer := 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	inner := 1
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}

	dst := result.Data()
	dstOffset := 0
	for o := 0; o < outer; o++ {
		for _, t := range tensors {
			blockElems := t.Shape()[dim] * inner
			blockBytes := blockElems * elemSize
			src := t.Data()[o*blockBytes : (o+1)*blockBytes]
			copy(dst[dstOffset:dstOffset+blockBytes], src)
			dstOffset += blockBytes
		}
	}
}
