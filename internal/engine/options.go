package engine

import (
	"sort"

	"go.uber.org/zap"

	"github.com/jshuadvd/hummingbird/internal/converters"
	"github.com/jshuadvd/hummingbird/internal/tensor"
)

// Option adjusts a single conversion call.
type Option func(*options)

type options struct {
	device tensor.Device
	logger *zap.Logger
	custom map[string]converters.ConverterFunc
}

func newOptions(opts []Option) *options {
	o := &options{
		device: tensor.CPU,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithDevice selects the device converted parameter tensors are created on.
// The default is CPU.
func WithDevice(device tensor.Device) Option {
	return func(o *options) { o.device = device }
}

// WithLogger attaches a logger to the conversion. The default logger
// discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithConverter binds a converter function for the duration of one
// conversion call. The shared registry is never touched: the binding is
// applied to a private clone. Binding an operator tag the built-in registry
// already covers fails the conversion with ErrDuplicateRegistration.
func WithConverter(opType string, fn converters.ConverterFunc) Option {
	return func(o *options) {
		if o.custom == nil {
			o.custom = make(map[string]converters.ConverterFunc)
		}
		o.custom[opType] = fn
	}
}

// registry returns the registry this conversion dispatches on: the shared
// built-in registry, or a clone extended with the per-call converters.
func (o *options) registry() (*converters.Registry, error) {
	reg := defaultRegistry()
	if len(o.custom) == 0 {
		return reg, nil
	}

	tags := make([]string, 0, len(o.custom))
	for tag := range o.custom {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	reg = reg.Clone()
	for _, tag := range tags {
		if err := reg.Register(tag, o.custom[tag]); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
