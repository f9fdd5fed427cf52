// Copyright 2025 The Hummingbird Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements the compute backend converted models run on:
//   - Pure Go implementation (no CGO)
//   - Float32 and Float64 support
//   - NumPy-compatible broadcasting
//   - Worker-pool parallelism for large batches
//
// # Basic Usage
//
//	import (
//	    "github.com/jshuadvd/hummingbird/backend/cpu"
//	    "github.com/jshuadvd/hummingbird/convert"
//	    "github.com/jshuadvd/hummingbird/tensor"
//	)
//
//	func main() {
//	    // The conversion entry points pick this backend for tensor.CPU,
//	    // the default device. Direct use:
//	    backend := cpu.New()
//	    x, _ := tensor.FromFloat32s([]float32{1, 2}, tensor.Shape{1, 2}, tensor.CPU)
//	    y := backend.Sigmoid(x)
//	    _ = y
//	    _ = convert.SupportedOps()
//	}
//
// # Operator Set
//
// The backend covers exactly what lowered fragments need: Add, Mul, MatMul,
// Transpose, AddScalar, MulScalar, Sigmoid, Softmax, Argmax and Cat.
// Violating an operator's shape or dtype contract panics; conversion
// validates parameters before any backend call.
//
// # Thread Safety
//
// The CPU backend is safe for concurrent use. Operations share no mutable
// state; the worker pool partitions rows per call.
package cpu
