// Package cpu implements the pure Go CPU backend that converted model
// fragments execute on.
package cpu

import (
	"fmt"

	"github.com/jshuadvd/hummingbird/internal/parallel"
	"github.com/jshuadvd/hummingbird/internal/tensor"
)

// CPUBackend implements tensor.Backend on the host CPU. Row-parallel kernels
// fan out across goroutines for large inputs.
type CPUBackend struct {
	device tensor.Device
	par    parallel.Config
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
		par:    parallel.DefaultConfig(),
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	outShape, expanded, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("add: %v", err))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("add: dtype mismatch %s vs %s", a.DType(), b.DType()))
	}

	result, err := tensor.NewRaw(outShape, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("add: failed to create result tensor: %v", err))
	}

	if !expanded {
		switch a.DType() {
		case tensor.Float32:
			addFloat32(result.AsFloat32(), a.AsFloat32(), b.AsFloat32())
		case tensor.Float64:
			addFloat64(result.AsFloat64(), a.AsFloat64(), b.AsFloat64())
		default:
			panic(fmt.Sprintf("add: unsupported dtype %s", a.DType()))
		}
		return result
	}

	addWithBroadcast(result, a, b, outShape)
	return result
}

// Mul performs element-wise multiplication with NumPy-style broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	outShape, expanded, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("mul: %v", err))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("mul: dtype mismatch %s vs %s", a.DType(), b.DType()))
	}

	result, err := tensor.NewRaw(outShape, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("mul: failed to create result tensor: %v", err))
	}

	if !expanded {
		switch a.DType() {
		case tensor.Float32:
			mulFloat32(result.AsFloat32(), a.AsFloat32(), b.AsFloat32())
		case tensor.Float64:
			mulFloat64(result.AsFloat64(), a.AsFloat64(), b.AsFloat64())
		default:
			panic(fmt.Sprintf("mul: unsupported dtype %s", a.DType()))
		}
		return result
	}

	mulWithBroadcast(result, a, b, outShape)
	return result
}

func addFloat32(dst, a, b []float32) {
	for i := range a {
		dst[i] = a[i] + b[i]
	}
}

func addFloat64(dst, a, b []float64) {
	for i := range a {
		dst[i] = a[i] + b[i]
	}
}

func mulFloat32(dst, a, b []float32) {
	for i := range a {
		dst[i] = a[i] * b[i]
	}
}

func mulFloat64(dst, a, b []float64) {
	for i := range a {
		dst[i] = a[i] * b[i]
	}
}

func addWithBroadcast(result, a, b *tensor.RawTensor, outShape tensor.Shape) {
	outStrides := outShape.ComputeStrides()
	aStrides := broadcastStrides(a.Shape(), outShape)
	bStrides := broadcastStrides(b.Shape(), outShape)
	n := outShape.NumElements()

	switch a.DType() {
	case tensor.Float32:
		dst, av, bv := result.AsFloat32(), a.AsFloat32(), b.AsFloat32()
		for i := 0; i < n; i++ {
			dst[i] = av[flatIndex(i, outStrides, aStrides)] + bv[flatIndex(i, outStrides, bStrides)]
		}
	case tensor.Float64:
		dst, av, bv := result.AsFloat64(), a.AsFloat64(), b.AsFloat64()
		for i := 0; i < n; i++ {
			dst[i] = av[flatIndex(i, outStrides, aStrides)] + bv[flatIndex(i, outStrides, bStrides)]
		}
	default:
		panic(fmt.Sprintf("add: unsupported dtype %s", a.DType()))
	}
}

func mulWithBroadcast(result, a, b *tensor.RawTensor, outShape tensor.Shape) {
	outStrides := outShape.ComputeStrides()
	aStrides := broadcastStrides(a.Shape(), outShape)
	bStrides := broadcastStrides(b.Shape(), outShape)
	n := outShape.NumElements()

	switch a.DType() {
	case tensor.Float32:
		dst, av, bv := result.AsFloat32(), a.AsFloat32(), b.AsFloat32()
		for i := 0; i < n; i++ {
			dst[i] = av[flatIndex(i, outStrides, aStrides)] * bv[flatIndex(i, outStrides, bStrides)]
		}
	case tensor.Float64:
		dst, av, bv := result.AsFloat64(), a.AsFloat64(), b.AsFloat64()
		for i := 0; i < n; i++ {
			dst[i] = av[flatIndex(i, outStrides, aStrides)] * bv[flatIndex(i, outStrides, bStrides)]
		}
	default:
		panic(fmt.Sprintf("mul: unsupported dtype %s", a.DType()))
	}
}
