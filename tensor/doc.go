// Copyright 2025 The Hummingbird Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the tensor substrate for Hummingbird model
// conversion.
//
// # Overview
//
// Converted models carry their parameters as tensors and execute against a
// pluggable compute backend. This package provides:
//   - RawTensor: a dense, contiguous buffer with shape and element type
//   - Shape, DataType, Device: core type definitions
//   - Backend: the compute interface converted fragments run on
//   - NumPy-style broadcasting rules
//
// # Basic Usage
//
//	import (
//	    "github.com/jshuadvd/hummingbird/backend/cpu"
//	    "github.com/jshuadvd/hummingbird/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    x, _ := tensor.FromFloat32s([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, tensor.CPU)
//	    w, _ := tensor.FromFloat32s([]float32{1, 0, 0, 1}, tensor.Shape{2, 2}, tensor.CPU)
//
//	    y := backend.MatMul(x, w)
//	    _ = y.AsFloat32()
//	}
//
// # Supported Data Types
//
//   - float32, float64 (floating-point)
//   - int32, int64 (signed integers)
//
// Converted model parameters are materialized as float32; the integer types
// carry class labels and argmax indices.
//
// # Broadcasting
//
// Element-wise operations follow NumPy broadcasting rules: dimensions are
// compared right to left and a dimension of 1 stretches to match. A (1, k)
// intercept row therefore adds cleanly to an (n, k) score matrix.
//
// # Device Support
//
// Tensors are tagged with the device they were created for:
//   - CPU: pure Go implementation
//   - CUDA: planned; requesting it fails a conversion up front
package tensor
