package converters

import (
	"errors"
	"fmt"

	"github.com/jshuadvd/hummingbird/internal/ir"
)

// Errors surfaced by registry dispatch and converter bodies. Callers match
// with errors.Is; the wrapped message carries the operator tag and, for
// converter failures, the offending node.
var (
	// ErrDuplicateRegistration indicates an operator tag already has a
	// converter bound. Registration never silently replaces.
	ErrDuplicateRegistration = errors.New("converter already registered")

	// ErrUnsupportedOperator indicates no converter is registered for an
	// operator tag encountered during lowering.
	ErrUnsupportedOperator = errors.New("unsupported operator")

	// ErrMalformedOperator indicates a node's payload is structurally
	// invalid for its operator tag: missing attributes, impossible class
	// counts, out-of-range tree links.
	ErrMalformedOperator = errors.New("malformed operator")
)

// malformedf wraps ErrMalformedOperator with the offending node and reason.
func malformedf(node *ir.Node, format string, args ...any) error {
	return fmt.Errorf("%s node %s: %s: %w", node.OpType, node.ID, fmt.Sprintf(format, args...), ErrMalformedOperator)
}
