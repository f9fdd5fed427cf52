package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/jshuadvd/hummingbird/internal/converters"
	"github.com/jshuadvd/hummingbird/internal/estimator"
	"github.com/jshuadvd/hummingbird/internal/ir"
	"github.com/jshuadvd/hummingbird/internal/tensor"
)

func f32(t *testing.T, vals []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.FromFloat32s(vals, shape, tensor.CPU)
	require.NoError(t, err)
	return r
}

func binaryLogReg() *estimator.LogisticRegression {
	return &estimator.LogisticRegression{
		Coef:       mat.NewDense(1, 2, []float64{1, -1}),
		Intercept:  []float64{0.5},
		Classes:    []int64{0, 1},
		MultiClass: "auto",
	}
}

// fakeEstimator carries an operator tag the built-in registry does not know.
type fakeEstimator struct{}

func (fakeEstimator) OpType() string   { return "SklearnFake" }
func (fakeEstimator) NumFeatures() int { return 2 }

// passthroughFragment is the lowered form the test converter emits for it.
type passthroughFragment struct{ op string }

func (f passthroughFragment) OpType() string { return f.op }

func (f passthroughFragment) Forward(b tensor.Backend, x *tensor.RawTensor) (*converters.Output, error) {
	return &converters.Output{Features: x}, nil
}

func TestConvertEstimatorBinaryLogisticRegression(t *testing.T) {
	m, err := ConvertEstimator(binaryLogReg(), nil, nil)
	require.NoError(t, err)
	require.Len(t, m.Fragments(), 1)
	assert.Equal(t, tensor.CPU, m.Device())
	assert.NotEmpty(t, m.RunID())

	x := f32(t, []float32{2, 0, 0, 2}, tensor.Shape{2, 2})

	labels, err := m.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 0}, labels.AsInt64())

	probs, err := m.PredictProba(x)
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{2, 2}, probs.Shape())
	p := probs.AsFloat32()
	// Row one: decision 2*1 + 0.5 = 2.5, sigmoid(2.5) ~ 0.9241.
	assert.InDelta(t, 0.9241, p[1], 1e-3)
	assert.InDelta(t, 1.0, p[0]+p[1], 1e-5)
	// Row two: decision -2 + 0.5 = -1.5, sigmoid(-1.5) ~ 0.1824.
	assert.InDelta(t, 0.1824, p[3], 1e-3)
}

func TestConvertEstimatorMulticlassLabelsMap(t *testing.T) {
	model := &estimator.LogisticRegression{
		Coef: mat.NewDense(3, 2, []float64{
			2, 0,
			0, 2,
			-2, -2,
		}),
		Intercept:  []float64{0, 0, 0},
		Classes:    []int64{3, 7, 9},
		MultiClass: "multinomial",
	}

	m, err := ConvertEstimator(model, nil, nil)
	require.NoError(t, err)

	x := f32(t, []float32{
		1, 0,
		0, 1,
		-1, -1,
	}, tensor.Shape{3, 2})

	labels, err := m.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 7, 9}, labels.AsInt64())

	probs, err := m.PredictProba(x)
	require.NoError(t, err)
	p := probs.AsFloat32()
	for row := 0; row < 3; row++ {
		sum := p[row*3] + p[row*3+1] + p[row*3+2]
		assert.InDelta(t, 1.0, sum, 1e-5, "softmax row %d must normalize", row)
	}
}

func TestConvertEstimatorPipelineOrder(t *testing.T) {
	pipe := &estimator.Pipeline{Steps: []estimator.Estimator{
		&estimator.StandardScaler{Mean: []float64{1, 1}, Scale: []float64{2, 2}},
		binaryLogReg(),
	}}

	test := f32(t, []float32{1, 1, 3, 3}, tensor.Shape{2, 2})
	m, err := ConvertEstimator(pipe, test, nil)
	require.NoError(t, err)

	frags := m.Fragments()
	require.Len(t, frags, 2)
	_, ok := frags[0].(*converters.ScalerModel)
	assert.True(t, ok, "first fragment comes from the pipeline's first stage")
	_, ok = frags[1].(*converters.LinearModel)
	assert.True(t, ok, "second fragment comes from the pipeline's last stage")

	// Standardized row one is (0, 0): decision 0.5, label 1.
	// Standardized row two is (1, 1): decision 1 - 1 + 0.5 = 0.5, label 1.
	labels, err := m.Predict(test)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 1}, labels.AsInt64())
}

func TestConvertEstimatorNilModel(t *testing.T) {
	_, err := ConvertEstimator(nil, nil, nil)
	require.Error(t, err)
}

func TestConvertEstimatorUnknownOperator(t *testing.T) {
	_, err := ConvertEstimator(fakeEstimator{}, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, converters.ErrUnsupportedOperator)
	assert.Contains(t, err.Error(), "SklearnFake")
}

func TestConvertEstimatorUnsupportedDevice(t *testing.T) {
	_, err := ConvertEstimator(binaryLogReg(), nil, nil, WithDevice(tensor.CUDA))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedBackend)
}

func TestConvertEstimatorTraceFailureSurfaces(t *testing.T) {
	// A one-column test input cannot multiply the (2, 1) coefficient
	// matrix; the trace pass must turn that into a conversion error.
	bad := f32(t, []float32{1, 2}, tensor.Shape{2, 1})
	_, err := ConvertEstimator(binaryLogReg(), bad, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trace")
}

func TestWithConverterCustomTag(t *testing.T) {
	custom := func(node *ir.Node, device tensor.Device, cfg converters.Config) (converters.Fragment, error) {
		if _, ok := node.Raw.(estimator.Estimator); !ok {
			return nil, errors.New("payload is not an estimator")
		}
		return passthroughFragment{op: node.OpType}, nil
	}

	m, err := ConvertEstimator(fakeEstimator{}, nil, nil, WithConverter("SklearnFake", custom))
	require.NoError(t, err)
	require.Len(t, m.Fragments(), 1)
	assert.Equal(t, "SklearnFake", m.Fragments()[0].OpType())

	// The binding is per call: the shared registry must not have grown.
	assert.NotContains(t, SupportedOps(), "SklearnFake")
	_, err = ConvertEstimator(fakeEstimator{}, nil, nil)
	assert.ErrorIs(t, err, converters.ErrUnsupportedOperator)
}

func TestWithConverterDuplicateTag(t *testing.T) {
	clash := func(node *ir.Node, device tensor.Device, cfg converters.Config) (converters.Fragment, error) {
		return nil, errors.New("never reached")
	}
	_, err := ConvertEstimator(binaryLogReg(), nil, nil, WithConverter("SklearnLogisticRegression", clash))
	require.Error(t, err)
	assert.ErrorIs(t, err, converters.ErrDuplicateRegistration)
}

func TestSupportedOpsCoversBuiltins(t *testing.T) {
	ops := SupportedOps()
	for _, tag := range []string{
		"ONNXMLLinearClassifier",
		"ONNXMLLinearRegressor",
		"SklearnGradientBoostingClassifier",
		"SklearnGradientBoostingRegressor",
		"SklearnLinearRegression",
		"SklearnLinearSVC",
		"SklearnLogisticRegression",
		"SklearnSGDClassifier",
		"SklearnScaler",
	} {
		assert.Contains(t, ops, tag)
	}
	assert.True(t, sortedStrings(ops), "supported ops are reported in lexical order")
}

func sortedStrings(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}

func boostedStump() *estimator.GradientBoostingClassifier {
	return &estimator.GradientBoostingClassifier{
		Trees: []estimator.Tree{{Nodes: []estimator.TreeNode{
			{Feature: 0, Threshold: 0.5, Left: 1, Right: 2},
			{Left: -1, Right: -1, Value: -1.2},
			{Left: -1, Right: -1, Value: 0.8},
		}}},
		Classes:      []int64{0, 1},
		LearningRate: 0.5,
		InitScores:   []float64{0},
	}
}

func TestConvertTreeEnsembleUnresolvableFeatureCount(t *testing.T) {
	_, err := ConvertTreeEnsemble(boostedStump(), nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFeatureCountUnresolvable)
}

func TestConvertTreeEnsembleFeatureCountFromConfig(t *testing.T) {
	cfg := converters.Config{converters.KeyNFeatures: 1}
	m, err := ConvertTreeEnsemble(boostedStump(), nil, cfg)
	require.NoError(t, err)

	x := f32(t, []float32{0, 1}, tensor.Shape{2, 1})
	labels, err := m.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 1}, labels.AsInt64())
}

func TestConvertTreeEnsembleFeatureCountFromTestInput(t *testing.T) {
	cfg := converters.Config{}
	test := f32(t, []float32{0, 1}, tensor.Shape{2, 1})

	m, err := ConvertTreeEnsemble(boostedStump(), test, cfg)
	require.NoError(t, err)
	require.Len(t, m.Fragments(), 1)

	// The resolved width goes into a copy, never the caller's map.
	_, ok := cfg[converters.KeyNFeatures]
	assert.False(t, ok)
}

func TestConvertTreeEnsembleRejectsFlatTestInput(t *testing.T) {
	flat := f32(t, []float32{0, 1}, tensor.Shape{2})
	_, err := ConvertTreeEnsemble(boostedStump(), flat, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFeatureCountUnresolvable)
}

func TestConvertTreeEnsembleModelReportsWidth(t *testing.T) {
	model := boostedStump()
	model.NFeat = 1
	m, err := ConvertTreeEnsemble(model, nil, nil, WithLogger(zap.NewNop()))
	require.NoError(t, err)

	probs, err := m.PredictProba(f32(t, []float32{1}, tensor.Shape{1, 1}))
	require.NoError(t, err)
	p := probs.AsFloat32()
	// Leaf 0.8 scaled by 0.5: sigmoid(0.4) ~ 0.5987 for the positive class.
	assert.InDelta(t, 0.5987, p[1], 1e-3)
}
