// Copyright 2025 The Hummingbird Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/jshuadvd/hummingbird/internal/tensor"

// Backend defines the interface compute backends implement. It covers
// exactly the operator set converted models lower to: affine transforms
// plus the classifier post-processing operators.
//
// Implementations:
//   - backend/cpu: pure Go implementation
//   - backend/cuda: NVIDIA GPU via CUDA (planned)
//
// Backends follow a panic-on-misuse contract: shape or dtype violations
// are programming errors and panic with a descriptive message. Converters
// validate shapes before any backend call, and the executable model
// container turns backend panics on foreign input into errors.
//
// Example:
//
//	import (
//	    "github.com/jshuadvd/hummingbird/backend/cpu"
//	    "github.com/jshuadvd/hummingbird/tensor"
//	)
//
//	backend := cpu.New()
//	y := backend.Sigmoid(x) // x is a *tensor.RawTensor
type Backend interface {
	// Element-wise binary operations with NumPy broadcasting.
	Add(a, b *RawTensor) *RawTensor // Element-wise addition.
	Mul(a, b *RawTensor) *RawTensor // Element-wise multiplication.

	// Matrix operations on 2-D tensors.
	MatMul(a, b *RawTensor) *RawTensor // Matrix multiplication.
	Transpose(t *RawTensor) *RawTensor // Swap the two dimensions.

	// Scalar operations (element-wise with scalar).
	AddScalar(x *RawTensor, scalar any) *RawTensor // Add scalar.
	MulScalar(x *RawTensor, scalar any) *RawTensor // Multiply by scalar.

	// Classifier heads.
	Sigmoid(x *RawTensor) *RawTensor          // Logistic squash.
	Softmax(x *RawTensor, dim int) *RawTensor // Softmax along dimension.
	Argmax(x *RawTensor, dim int) *RawTensor  // Index of maximum along dimension.

	// Manipulation operations.
	Cat(tensors []*RawTensor, dim int) *RawTensor // Concatenate along dimension.

	// Metadata.
	Name() string   // Backend name (e.g., "CPU").
	Device() Device // Device type.
}

// Compile-time check that internal Backend implements public Backend.
var _ Backend = tensor.Backend(nil)
