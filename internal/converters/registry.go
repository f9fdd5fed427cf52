// Package converters maps operator tags to converter functions and holds the
// converter bodies for the built-in operator families. A converter takes one
// IR node and produces the target fragment implementing it.
package converters

import (
	"fmt"
	"sort"

	"github.com/jshuadvd/hummingbird/internal/ir"
	"github.com/jshuadvd/hummingbird/internal/tensor"
)

// ConverterFunc lowers a single IR node to a target fragment. device is the
// device parameter tensors are created for; cfg is the conversion's extra
// configuration.
type ConverterFunc func(node *ir.Node, device tensor.Device, cfg Config) (Fragment, error)

// Registry maps operator tags to converter functions. A registry is built
// once, before conversions start, and is read-only afterwards; concurrent
// lookups are safe.
type Registry struct {
	converters map[string]ConverterFunc
}

// NewRegistry creates a registry with every built-in operator family bound.
func NewRegistry() *Registry {
	r := &Registry{
		converters: make(map[string]ConverterFunc),
	}

	r.registerLinearOps()
	r.registerScalerOps()
	r.registerTreeOps()

	return r
}

// Register binds a converter to an operator tag. Binding a tag twice is an
// error; existing converters are never replaced.
func (r *Registry) Register(opType string, fn ConverterFunc) error {
	if opType == "" {
		return fmt.Errorf("empty operator tag")
	}
	if fn == nil {
		return fmt.Errorf("nil converter for operator %s", opType)
	}
	if _, exists := r.converters[opType]; exists {
		return fmt.Errorf("operator %s: %w", opType, ErrDuplicateRegistration)
	}
	r.converters[opType] = fn
	return nil
}

// mustRegister is the self-registration path for built-in families; a
// collision among built-ins is a programming error.
func (r *Registry) mustRegister(opType string, fn ConverterFunc) {
	if err := r.Register(opType, fn); err != nil {
		panic(err)
	}
}

// Lookup returns the converter bound to an operator tag.
func (r *Registry) Lookup(opType string) (ConverterFunc, error) {
	fn, ok := r.converters[opType]
	if !ok {
		return nil, fmt.Errorf("operator %s: %w", opType, ErrUnsupportedOperator)
	}
	return fn, nil
}

// Supports reports whether a converter is bound to the operator tag.
func (r *Registry) Supports(opType string) bool {
	_, ok := r.converters[opType]
	return ok
}

// SupportedOps returns all bound operator tags in sorted order.
func (r *Registry) SupportedOps() []string {
	ops := make([]string, 0, len(r.converters))
	for op := range r.converters {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// Clone returns a registry with the same bindings, for callers that need to
// extend the built-in set without affecting the shared registry.
func (r *Registry) Clone() *Registry {
	clone := &Registry{
		converters: make(map[string]ConverterFunc, len(r.converters)),
	}
	for op, fn := range r.converters {
		clone.converters[op] = fn
	}
	return clone
}
