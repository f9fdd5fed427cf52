// Package convert turns trained traditional-ML models into tensor
// computations.
//
// A fitted model — a logistic regression, a boosted-tree ensemble, a
// serialized graph carrying ONNX-ML operators — is rebuilt as a chain of
// standard tensor operations: matrix multiplies, element-wise arithmetic
// and the classifier head squashes. The converted model predicts through
// a tensor backend, and the ONNX-ML path additionally re-emits the model
// with standard ONNX operators only.
//
// # Supported Models
//
//   - LogisticRegression, LinearRegression, LinearSVC, SGDClassifier
//   - StandardScaler (and pipelines chaining it with a final model)
//   - DecisionTreeClassifier, GradientBoostingClassifier, GradientBoostingRegressor
//   - ONNX-ML LinearClassifier and LinearRegressor nodes
//
// Use [SupportedOps] for the full operator tag list.
//
// # Example Usage
//
//	import (
//	    "github.com/jshuadvd/hummingbird/convert"
//	    "github.com/jshuadvd/hummingbird/estimator"
//	    "github.com/jshuadvd/hummingbird/tensor"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	model := &estimator.LogisticRegression{
//	    Coef:      mat.NewDense(1, 2, []float64{0.8, -1.1}),
//	    Intercept: []float64{0.1},
//	    Classes:   []int64{0, 1},
//	}
//
//	converted, err := convert.Estimator(model, nil, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	x, _ := tensor.FromFloat32s([]float32{1.5, 0.5}, tensor.Shape{1, 2}, tensor.CPU)
//	labels, err := converted.Predict(x)
//
// # Conversion Pipeline
//
// Every entry point runs the same stages: the source model is parsed into
// an intermediate graph, the graph is topologically ordered, each node is
// dispatched to the converter registered for its operator tag, and the
// lowered fragments are assembled into an executable [Model]. The first
// missing converter or malformed operator aborts the conversion; no
// partially converted model is ever returned.
package convert

import (
	"go.uber.org/zap"

	"github.com/jshuadvd/hummingbird/estimator"
	"github.com/jshuadvd/hummingbird/internal/converters"
	"github.com/jshuadvd/hummingbird/internal/engine"
	"github.com/jshuadvd/hummingbird/onnxml"
	"github.com/jshuadvd/hummingbird/tensor"
)

// Model is an executable converted model: lowered fragments in topological
// order, bound to a tensor backend.
type Model = engine.Model

// ONNXModel is the result of an ONNX-ML conversion. It predicts like a
// [Model] and carries the re-emitted standard-operator model, available
// through Proto, Bytes and Save.
type ONNXModel = engine.ONNXModel

// ONNXMLOptions configures an ONNX-ML conversion.
type ONNXMLOptions = engine.ONNXMLOptions

// Config carries optional conversion settings into converter bodies.
type Config = converters.Config

// NFeatures is the Config key naming the input feature count for models
// that do not record it themselves.
const NFeatures = converters.KeyNFeatures

// Fragment is one lowered operator: the tensor parameters and forward
// computation a converter produced for a single source node.
type Fragment = converters.Fragment

// Output is a fragment's forward result: transformed features for
// intermediate stages, scores and labels for terminal ones.
type Output = converters.Output

// ConverterFunc lowers one source node into a fragment.
type ConverterFunc = converters.ConverterFunc

// Option adjusts a single conversion call.
type Option = engine.Option

// WithDevice selects the device converted parameter tensors are created
// on. The default is tensor.CPU.
func WithDevice(device tensor.Device) Option {
	return engine.WithDevice(device)
}

// WithLogger attaches a logger to the conversion. The default logger
// discards everything.
func WithLogger(logger *zap.Logger) Option {
	return engine.WithLogger(logger)
}

// WithConverter binds a converter function for one conversion call. The
// built-in registry is never modified; binding a tag it already covers
// fails the conversion with [ErrDuplicateRegistration].
func WithConverter(opType string, fn ConverterFunc) Option {
	return engine.WithConverter(opType, fn)
}

// Estimator converts a fitted model or pipeline into an executable
// [Model].
//
// testInput is optional. When present, the converted model is traced with
// it once so that shape mistakes surface at conversion time:
//
//	test, _ := tensor.FromFloat32s(batch, tensor.Shape{rows, features}, tensor.CPU)
//	converted, err := convert.Estimator(model, test, nil)
//
// cfg carries optional converter settings and may be nil.
func Estimator(model estimator.Estimator, testInput *tensor.RawTensor, cfg Config, opts ...Option) (*Model, error) {
	return engine.ConvertEstimator(model, testInput, cfg, opts...)
}

// TreeEnsemble converts a fitted tree-ensemble model into an executable
// [Model].
//
// Tree ensembles are the one model family whose input width cannot always
// be recovered from the parameters alone. When the model does not report
// it, supply it through cfg or a 2-D test input:
//
//	cfg := convert.Config{convert.NFeatures: 28}
//	converted, err := convert.TreeEnsemble(model, nil, cfg)
//
// With no width available the conversion fails with
// [ErrFeatureCountUnresolvable].
func TreeEnsemble(model estimator.Estimator, testInput *tensor.RawTensor, cfg Config, opts ...Option) (*Model, error) {
	return engine.ConvertTreeEnsemble(model, testInput, cfg, opts...)
}

// ONNXML converts a model carrying ONNX-ML operators into an [ONNXModel]
// expressed with standard ONNX tensor operators only.
//
// The source model must have exactly one resolvable input (initializers do
// not count; narrow with ONNXMLOptions.InputNames when there are several
// declarations). Tracing needs test data: pass ONNXMLOptions.TestData, or
// declare the input through ONNXMLOptions.InitialTypes and let the
// conversion synthesize a batch.
//
//	model, _ := onnxml.ParseFile("logreg.onnx")
//	converted, err := convert.ONNXML(model, convert.ONNXMLOptions{
//	    InitialTypes: []onnxml.TensorType{
//	        {Name: "float_input", ElemType: onnxml.ElemTypeFloat, Dims: []int64{1, 4}},
//	    },
//	})
func ONNXML(model *onnxml.ModelProto, o ONNXMLOptions, opts ...Option) (*ONNXModel, error) {
	return engine.ConvertONNXML(model, o, opts...)
}

// SupportedOps returns the operator tags the built-in converter registry
// covers, in lexical order.
//
// Example:
//
//	ops := convert.SupportedOps()
//	for _, op := range ops {
//	    fmt.Println(op)
//	}
func SupportedOps() []string {
	return engine.SupportedOps()
}
