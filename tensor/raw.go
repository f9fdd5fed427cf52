// Copyright 2025 The Hummingbird Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/jshuadvd/hummingbird/internal/tensor"
)

// RawTensor is a dense, contiguous tensor buffer.
//
// RawTensor provides:
//   - Shape and type information via Shape(), DType(), Device()
//   - Type-safe data access via AsFloat32(), AsInt64(), etc.
//   - Deep copies via Clone()
//
// Conversion entry points accept RawTensor test batches and converted
// models return RawTensor predictions.
//
// Example:
//
//	raw, _ := tensor.FromFloat32s([]float32{5.1, 3.5}, tensor.Shape{1, 2}, tensor.CPU)
//	data := raw.AsFloat32()
type RawTensor = tensor.RawTensor

// NewRaw creates an uninitialized tensor with the given shape, element type
// and device.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// FromFloat32s creates a Float32 tensor holding a copy of vals.
func FromFloat32s(vals []float32, shape Shape, device Device) (*RawTensor, error) {
	return tensor.FromFloat32s(vals, shape, device)
}

// FromFloat64s creates a Float64 tensor holding a copy of vals.
func FromFloat64s(vals []float64, shape Shape, device Device) (*RawTensor, error) {
	return tensor.FromFloat64s(vals, shape, device)
}

// FromInt32s creates an Int32 tensor holding a copy of vals.
func FromInt32s(vals []int32, shape Shape, device Device) (*RawTensor, error) {
	return tensor.FromInt32s(vals, shape, device)
}

// FromInt64s creates an Int64 tensor holding a copy of vals.
func FromInt64s(vals []int64, shape Shape, device Device) (*RawTensor, error) {
	return tensor.FromInt64s(vals, shape, device)
}
