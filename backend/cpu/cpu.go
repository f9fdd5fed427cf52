// Copyright 2025 The Hummingbird Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/jshuadvd/hummingbird/internal/backend/cpu"
	"github.com/jshuadvd/hummingbird/tensor"
)

// Backend represents the CPU backend implementation.
//
// The CPU backend provides pure Go implementations of the operator set
// converted models lower to, with worker-pool parallelism on large rows.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/jshuadvd/hummingbird/backend/cpu"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    _ = backend
//	}
func New() *Backend {
	return internalcpu.New()
}
