// Package engine drives the conversion pipeline. It turns a source model
// into the intermediate graph, establishes a topological order, dispatches
// every node to its registered converter and collects the lowered fragments
// into an executable model container.
//
// The pipeline is strictly fail-fast: the first node whose converter is
// missing or whose parameters are malformed aborts the whole conversion,
// and no partially converted model is ever returned.
package engine

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/jshuadvd/hummingbird/internal/backend/cpu"
	"github.com/jshuadvd/hummingbird/internal/converters"
	"github.com/jshuadvd/hummingbird/internal/ir"
	"github.com/jshuadvd/hummingbird/internal/tensor"
)

var (
	registryOnce sync.Once
	registry     *converters.Registry
)

// defaultRegistry returns the shared built-in registry. It is constructed
// once, before the first conversion that needs it, and is read-only
// afterwards so concurrent conversions can dispatch on it without locking.
func defaultRegistry() *converters.Registry {
	registryOnce.Do(func() {
		registry = converters.NewRegistry()
	})
	return registry
}

// SupportedOps returns the operator tags the built-in registry covers, in
// lexical order.
func SupportedOps() []string {
	return defaultRegistry().SupportedOps()
}

// backendFor maps a device to its tensor runtime. Only the CPU runtime is
// compiled into this build; CUDA resolution is left to a future build tag.
func backendFor(device tensor.Device) (tensor.Backend, error) {
	switch device {
	case tensor.CPU:
		return cpu.New(), nil
	default:
		return nil, fmt.Errorf("device %s: %w", device, ErrUnsupportedBackend)
	}
}

// lowered pairs one sorted IR node with the fragment its converter emitted.
// The pair keeps the node's value names available to the assembler.
type lowered struct {
	node *ir.Node
	frag converters.Fragment
}

// lower runs the core pipeline on one source graph: build the IR, sort it,
// then look up and invoke a converter per node in topological order.
// Converter failures propagate unchanged so callers can match them with
// errors.Is.
func lower(reg *converters.Registry, src ir.SourceGraph, device tensor.Device, cfg converters.Config, logger *zap.Logger) ([]lowered, error) {
	graph, err := ir.Build(src)
	if err != nil {
		return nil, err
	}
	ordered, err := ir.Sort(graph)
	if err != nil {
		return nil, err
	}

	out := make([]lowered, 0, len(ordered))
	for _, node := range ordered {
		fn, err := reg.Lookup(node.OpType)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", node.ID, err)
		}
		frag, err := fn(node, device, cfg)
		if err != nil {
			return nil, err
		}
		logger.Debug("lowered operator",
			zap.String("node", node.ID),
			zap.String("op_type", node.OpType))
		out = append(out, lowered{node: node, frag: frag})
	}
	return out, nil
}
