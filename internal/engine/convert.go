package engine

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jshuadvd/hummingbird/internal/converters"
	"github.com/jshuadvd/hummingbird/internal/estimator"
	"github.com/jshuadvd/hummingbird/internal/ir"
	"github.com/jshuadvd/hummingbird/internal/onnxml"
	"github.com/jshuadvd/hummingbird/internal/tensor"
)

// defaultTargetOpset is the operator-set version produced models declare
// when the caller does not pick one.
const defaultTargetOpset int64 = 9

// ConvertEstimator lowers a fitted estimator (or pipeline of estimators)
// into an executable Model. testInput is optional; when present the
// converted model is traced with it once so shape mistakes surface at
// conversion time rather than at first prediction.
func ConvertEstimator(model estimator.Estimator, testInput *tensor.RawTensor, cfg converters.Config, opts ...Option) (*Model, error) {
	if model == nil {
		return nil, errors.New("nil model")
	}
	o := newOptions(opts)
	backend, err := backendFor(o.device)
	if err != nil {
		return nil, err
	}
	reg, err := o.registry()
	if err != nil {
		return nil, err
	}
	src, err := estimator.NewGraph(model)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := o.logger.With(zap.String("run_id", runID))

	low, err := lower(reg, src, o.device, cfg, logger)
	if err != nil {
		return nil, err
	}
	m := newModel(low, backend, runID)

	if testInput != nil {
		if _, err := m.Forward(testInput); err != nil {
			return nil, fmt.Errorf("trace converted model: %w", err)
		}
	}

	logger.Info("conversion complete",
		zap.String("model", model.OpType()),
		zap.Int("fragments", len(low)),
		zap.String("device", o.device.String()))
	return m, nil
}

// ConvertTreeEnsemble lowers a fitted tree-ensemble model. Ensembles that
// do not record their input width need it supplied through the
// configuration or inferred from a 2-D test input; with neither available
// the conversion fails before any IR is built.
func ConvertTreeEnsemble(model estimator.Estimator, testInput *tensor.RawTensor, cfg converters.Config, opts ...Option) (*Model, error) {
	if model == nil {
		return nil, errors.New("nil model")
	}
	resolved, err := resolveFeatureCount(model, testInput, cfg)
	if err != nil {
		return nil, err
	}
	return ConvertEstimator(model, testInput, resolved, opts...)
}

// resolveFeatureCount fixes the ensemble input width without mutating the
// caller's configuration: when the width comes from the test input it is
// written into a copy.
func resolveFeatureCount(model estimator.Estimator, testInput *tensor.RawTensor, cfg converters.Config) (converters.Config, error) {
	if model.NumFeatures() > 0 {
		return cfg, nil
	}
	if n, ok := cfg.IntValue(converters.KeyNFeatures); ok && n > 0 {
		return cfg, nil
	}
	if testInput != nil {
		if shape := testInput.Shape(); len(shape) == 2 {
			out := make(converters.Config, len(cfg)+1)
			for k, v := range cfg {
				out[k] = v
			}
			out[converters.KeyNFeatures] = shape[1]
			return out, nil
		}
	}
	return nil, fmt.Errorf("model does not report its input width and neither %q nor a 2-D test input was given: %w",
		converters.KeyNFeatures, ErrFeatureCountUnresolvable)
}

// ONNXMLOptions configures an ONNX-ML conversion.
type ONNXMLOptions struct {
	// OutputModelName names the produced graph. Empty means the source
	// graph's name is carried over.
	OutputModelName string

	// InitialTypes declares the model input's element type and 2-D shape.
	// When TestData is nil a random test batch is synthesized from the
	// single declared type.
	InitialTypes []onnxml.TensorType

	// InputNames restricts input resolution to a subset of the model's
	// declared inputs. Exactly one input must survive resolution.
	InputNames []string

	// OutputNames restricts the produced model to a subset of the source
	// model's declared outputs. Empty keeps them all.
	OutputNames []string

	// TestData traces the converted model once. Required unless
	// InitialTypes can synthesize it.
	TestData *tensor.RawTensor

	// TargetOpset is the operator-set version the produced model declares.
	// Zero means defaultTargetOpset.
	TargetOpset int64

	// Extra carries converter configuration, keyed the same way the
	// estimator path's Config is.
	Extra converters.Config
}

// ConvertONNXML lowers a model carrying ONNX-ML operators into an
// equivalent model expressed with standard ONNX tensor operators only.
func ConvertONNXML(model *onnxml.ModelProto, o ONNXMLOptions, opts ...Option) (*ONNXModel, error) {
	if model == nil {
		return nil, errors.New("nil model")
	}
	if o.TestData == nil && len(o.InitialTypes) == 0 {
		return nil, errors.New("cannot generate test data: pass TestData or InitialTypes")
	}
	opt := newOptions(opts)
	backend, err := backendFor(opt.device)
	if err != nil {
		return nil, err
	}
	reg, err := opt.registry()
	if err != nil {
		return nil, err
	}
	src, err := onnxml.NewGraph(model)
	if err != nil {
		return nil, err
	}

	inputName, err := resolveInput(src, o.InputNames)
	if err != nil {
		return nil, err
	}
	if err := src.FilterOutputs(o.OutputNames); err != nil {
		return nil, err
	}

	testData := o.TestData
	if testData == nil {
		if len(o.InitialTypes) != 1 {
			return nil, fmt.Errorf("%d initial types declared for a single model input: %w",
				len(o.InitialTypes), ir.ErrUnsupportedModelShape)
		}
		testData, err = synthesizeTestData(o.InitialTypes[0], opt.device)
		if err != nil {
			return nil, err
		}
	}

	runID := uuid.NewString()
	logger := opt.logger.With(zap.String("run_id", runID))

	low, err := lower(reg, src, opt.device, o.Extra, logger)
	if err != nil {
		return nil, err
	}
	m := newModel(low, backend, runID)

	trace, err := traceInput(testData)
	if err != nil {
		return nil, err
	}
	if _, err := m.Forward(trace); err != nil {
		return nil, fmt.Errorf("trace converted model: %w", err)
	}

	opset := o.TargetOpset
	if opset == 0 {
		opset = defaultTargetOpset
	}
	name := o.OutputModelName
	if name == "" && model.Graph != nil {
		name = model.Graph.Name
	}
	if name == "" {
		name = "hummingbird"
	}

	proto, err := assemble(low, src, inputName, testData, name, opset)
	if err != nil {
		return nil, err
	}

	logger.Info("conversion complete",
		zap.String("model", name),
		zap.Int("fragments", len(low)),
		zap.Int64("target_opset", opset),
		zap.String("device", opt.device.String()))
	return &ONNXModel{Model: *m, proto: proto}, nil
}

// resolveInput matches the requested input names against the model's real
// (non-initializer) inputs. The lowering pipeline feeds a single batch
// tensor, so exactly one input must resolve.
func resolveInput(src *onnxml.Graph, requested []string) (string, error) {
	candidates := src.ResolvedInputs()
	if len(requested) > 0 {
		keep := make(map[string]struct{}, len(requested))
		for _, name := range requested {
			keep[name] = struct{}{}
		}
		var matched []string
		for _, name := range candidates {
			if _, ok := keep[name]; ok {
				matched = append(matched, name)
			}
		}
		candidates = matched
	}

	switch len(candidates) {
	case 1:
		return candidates[0], nil
	case 0:
		return "", fmt.Errorf("no model input matches the requested names: %w", ir.ErrUnsupportedModelShape)
	default:
		return "", fmt.Errorf("%d model inputs resolved, conversion supports exactly 1: %w",
			len(candidates), ir.ErrUnsupportedModelShape)
	}
}

// synthesizeTestData builds a random batch matching a declared input type.
// Only rank-2 concrete shapes with float32 or int32 elements are supported.
func synthesizeTestData(tt onnxml.TensorType, device tensor.Device) (*tensor.RawTensor, error) {
	if len(tt.Dims) != 2 {
		return nil, fmt.Errorf("initial type %q has rank %d, test data synthesis needs rank 2: %w",
			tt.Name, len(tt.Dims), ir.ErrUnsupportedModelShape)
	}
	rows, cols := int(tt.Dims[0]), int(tt.Dims[1])
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("initial type %q has symbolic dimensions %v, test data synthesis needs concrete ones: %w",
			tt.Name, tt.Dims, ir.ErrUnsupportedModelShape)
	}

	switch tt.ElemType {
	case onnxml.ElemTypeFloat:
		vals := make([]float32, rows*cols)
		for i := range vals {
			vals[i] = rand.Float32() //nolint:gosec // G404: test batch synthesis, not security-critical
		}
		return tensor.FromFloat32s(vals, tensor.Shape{rows, cols}, device)
	case onnxml.ElemTypeInt32:
		vals := make([]int32, rows*cols)
		for i := range vals {
			vals[i] = rand.Int31n(100) //nolint:gosec // G404: test batch synthesis, not security-critical
		}
		return tensor.FromInt32s(vals, tensor.Shape{rows, cols}, device)
	default:
		return nil, fmt.Errorf("initial type %q element type %d: %w", tt.Name, tt.ElemType, ErrUnsupportedElementType)
	}
}

// traceInput widens integer test batches to float32 so the fragment chain,
// which computes in float32, can trace them. Declared input types in the
// assembled model are unaffected.
func traceInput(t *tensor.RawTensor) (*tensor.RawTensor, error) {
	switch t.DType() {
	case tensor.Float32:
		return t, nil
	case tensor.Int32:
		src := t.AsInt32()
		vals := make([]float32, len(src))
		for i, v := range src {
			vals[i] = float32(v)
		}
		return tensor.FromFloat32s(vals, t.Shape().Clone(), t.Device())
	case tensor.Int64:
		src := t.AsInt64()
		vals := make([]float32, len(src))
		for i, v := range src {
			vals[i] = float32(v)
		}
		return tensor.FromFloat32s(vals, t.Shape().Clone(), t.Device())
	case tensor.Float64:
		src := t.AsFloat64()
		vals := make([]float32, len(src))
		for i, v := range src {
			vals[i] = float32(v)
		}
		return tensor.FromFloat32s(vals, t.Shape().Clone(), t.Device())
	default:
		return nil, fmt.Errorf("test data element type %s: %w", t.DType(), ErrUnsupportedElementType)
	}
}
