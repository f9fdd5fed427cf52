package converters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/jshuadvd/hummingbird/internal/backend/cpu"
	"github.com/jshuadvd/hummingbird/internal/estimator"
	"github.com/jshuadvd/hummingbird/internal/ir"
	"github.com/jshuadvd/hummingbird/internal/onnxml"
	"github.com/jshuadvd/hummingbird/internal/tensor"
)

func onnxNode(opType string, attrs ...onnxml.Attribute) *ir.Node {
	return &ir.Node{
		ID:     opType + "_0",
		OpType: opType,
		Raw: &onnxml.Node{
			Name:       opType + "_0",
			OpType:     opType,
			Attributes: attrs,
		},
		Inputs:  []string{"input"},
		Outputs: []string{"variable"},
	}
}

func floatsAttr(name string, vals ...float32) onnxml.Attribute {
	return onnxml.Attribute{Name: name, Floats: vals}
}

func intsAttr(name string, vals ...int64) onnxml.Attribute {
	return onnxml.Attribute{Name: name, Ints: vals}
}

func intAttr(name string, v int64) onnxml.Attribute {
	return onnxml.Attribute{Name: name, I: v}
}

func f32Tensor(t *testing.T, vals []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.FromFloat32s(vals, shape, tensor.CPU)
	require.NoError(t, err)
	return r
}

func TestONNXClassifierBinaryKeepsSecondHalf(t *testing.T) {
	node := onnxNode("ONNXMLLinearClassifier",
		floatsAttr("coefficients", 1, 2, -1, -2),
		floatsAttr("intercepts", 0.5, -0.5),
		intsAttr("classlabels_ints", 0, 1),
	)

	frag, err := convertONNXLinearClassifier(node, tensor.CPU, nil)
	require.NoError(t, err)

	model := frag.(*LinearModel)
	assert.Equal(t, tensor.Shape{2, 1}, model.Coefficients.Shape())
	assert.Equal(t, []float32{-1, -2}, model.Coefficients.AsFloat32())
	assert.Equal(t, tensor.Shape{1, 1}, model.Intercepts.Shape())
	assert.Equal(t, []float32{-0.5}, model.Intercepts.AsFloat32())
	assert.Equal(t, []int64{0, 1}, model.Classes)
	assert.Equal(t, "none", model.MultiClass)
	assert.True(t, model.Probabilistic)
	assert.False(t, model.Regression)
}

func TestONNXClassifierMulticlassTransposesBlocks(t *testing.T) {
	node := onnxNode("ONNXMLLinearClassifier",
		floatsAttr("coefficients", 1, 2, 3, 4, 5, 6, 7, 8, 9),
		floatsAttr("intercepts", 0.1, 0.2, 0.3),
		intsAttr("classlabels_ints", 0, 1, 2),
	)

	frag, err := convertONNXLinearClassifier(node, tensor.CPU, nil)
	require.NoError(t, err)

	model := frag.(*LinearModel)
	require.Equal(t, tensor.Shape{3, 3}, model.Coefficients.Shape())
	// Column j holds the j-th consecutive block of the flat array.
	assert.Equal(t, []float32{1, 4, 7, 2, 5, 8, 3, 6, 9}, model.Coefficients.AsFloat32())
	assert.Equal(t, tensor.Shape{1, 3}, model.Intercepts.Shape())
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, model.Intercepts.AsFloat32())
	assert.Equal(t, "ovr", model.MultiClass)
}

func TestONNXClassifierMultinomialFlag(t *testing.T) {
	node := onnxNode("ONNXMLLinearClassifier",
		floatsAttr("coefficients", 1, 2, -1, -2),
		floatsAttr("intercepts", 0.5, -0.5),
		intsAttr("classlabels_ints", 0, 1),
		intAttr("multi_class", 1),
	)

	frag, err := convertONNXLinearClassifier(node, tensor.CPU, nil)
	require.NoError(t, err)
	assert.Equal(t, "multinomial", frag.(*LinearModel).MultiClass)
}

func TestONNXClassifierMalformed(t *testing.T) {
	coef := floatsAttr("coefficients", 1, 2, -1, -2)
	bias := floatsAttr("intercepts", 0.5, -0.5)
	classes := intsAttr("classlabels_ints", 0, 1)

	tests := []struct {
		name  string
		attrs []onnxml.Attribute
	}{
		{"missing coefficients", []onnxml.Attribute{bias, classes}},
		{"missing intercepts", []onnxml.Attribute{coef, classes}},
		{"missing class labels", []onnxml.Attribute{coef, bias}},
		{"single class", []onnxml.Attribute{coef, bias, intsAttr("classlabels_ints", 0)}},
		{"empty classes", []onnxml.Attribute{coef, bias, intsAttr("classlabels_ints")}},
		{"indivisible multiclass", []onnxml.Attribute{
			floatsAttr("coefficients", 1, 2, 3, 4, 5, 6, 7, 8),
			floatsAttr("intercepts", 0.1, 0.2, 0.3),
			intsAttr("classlabels_ints", 0, 1, 2),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := onnxNode("ONNXMLLinearClassifier", tt.attrs...)
			_, err := convertONNXLinearClassifier(node, tensor.CPU, nil)
			assert.ErrorIs(t, err, ErrMalformedOperator)
		})
	}
}

func TestONNXClassifierWrongPayload(t *testing.T) {
	node := &ir.Node{ID: "x", OpType: "ONNXMLLinearClassifier", Raw: 42}
	_, err := convertONNXLinearClassifier(node, tensor.CPU, nil)
	assert.ErrorIs(t, err, ErrMalformedOperator)
}

func TestONNXRegressorSingleTarget(t *testing.T) {
	node := onnxNode("ONNXMLLinearRegressor",
		floatsAttr("coefficients", 1, 2, 3),
		floatsAttr("intercepts", 0.5),
	)

	frag, err := convertONNXLinearRegressor(node, tensor.CPU, nil)
	require.NoError(t, err)

	model := frag.(*LinearModel)
	assert.Equal(t, tensor.Shape{3, 1}, model.Coefficients.Shape())
	assert.Equal(t, []float32{1, 2, 3}, model.Coefficients.AsFloat32())
	assert.Equal(t, tensor.Shape{1, 1}, model.Intercepts.Shape())
	assert.True(t, model.Regression)
	assert.Nil(t, model.Classes)
}

func TestONNXRegressorMultiTarget(t *testing.T) {
	node := onnxNode("ONNXMLLinearRegressor",
		floatsAttr("coefficients", 1, 2, 3, 4),
		floatsAttr("intercepts", 0.1, 0.2),
		intAttr("targets", 2),
	)

	frag, err := convertONNXLinearRegressor(node, tensor.CPU, nil)
	require.NoError(t, err)

	model := frag.(*LinearModel)
	assert.Equal(t, tensor.Shape{2, 2}, model.Coefficients.Shape())
	assert.Equal(t, []float32{1, 3, 2, 4}, model.Coefficients.AsFloat32())
	assert.Equal(t, tensor.Shape{1, 2}, model.Intercepts.Shape())
}

func TestONNXRegressorMalformed(t *testing.T) {
	_, err := convertONNXLinearRegressor(onnxNode("ONNXMLLinearRegressor",
		floatsAttr("intercepts", 0.5),
	), tensor.CPU, nil)
	assert.ErrorIs(t, err, ErrMalformedOperator)

	_, err = convertONNXLinearRegressor(onnxNode("ONNXMLLinearRegressor",
		floatsAttr("coefficients", 1, 2, 3),
		floatsAttr("intercepts", 0.5),
		intAttr("targets", 2),
	), tensor.CPU, nil)
	assert.ErrorIs(t, err, ErrMalformedOperator)
}

func TestSklearnLogisticRegressionBinary(t *testing.T) {
	node := &ir.Node{ID: "lr_0", OpType: "SklearnLogisticRegression", Raw: &estimator.LogisticRegression{
		Coef:      mat.NewDense(1, 3, []float64{0.5, -0.25, 2}),
		Intercept: []float64{0.1},
		Classes:   []int64{0, 1},
	}}

	frag, err := convertSklearnLogisticRegression(node, tensor.CPU, nil)
	require.NoError(t, err)

	model := frag.(*LinearModel)
	assert.Equal(t, tensor.Shape{3, 1}, model.Coefficients.Shape())
	assert.Equal(t, []float32{0.5, -0.25, 2}, model.Coefficients.AsFloat32())
	assert.Equal(t, "none", model.MultiClass)
	assert.True(t, model.Probabilistic)
}

func TestSklearnLogisticRegressionMulticlassModes(t *testing.T) {
	build := func(mode string) *ir.Node {
		return &ir.Node{ID: "lr_0", OpType: "SklearnLogisticRegression", Raw: &estimator.LogisticRegression{
			Coef:       mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6}),
			Intercept:  []float64{0.1, 0.2, 0.3},
			Classes:    []int64{0, 1, 2},
			MultiClass: mode,
		}}
	}

	frag, err := convertSklearnLogisticRegression(build("auto"), tensor.CPU, nil)
	require.NoError(t, err)
	model := frag.(*LinearModel)
	require.Equal(t, tensor.Shape{2, 3}, model.Coefficients.Shape())
	// Fitted row j becomes output column j.
	assert.Equal(t, []float32{1, 3, 5, 2, 4, 6}, model.Coefficients.AsFloat32())
	assert.Equal(t, "multinomial", model.MultiClass)

	frag, err = convertSklearnLogisticRegression(build("ovr"), tensor.CPU, nil)
	require.NoError(t, err)
	assert.Equal(t, "ovr", frag.(*LinearModel).MultiClass)
}

func TestSklearnClassCountMismatch(t *testing.T) {
	node := &ir.Node{ID: "lr_0", OpType: "SklearnLogisticRegression", Raw: &estimator.LogisticRegression{
		Coef:      mat.NewDense(1, 2, []float64{1, 2}),
		Intercept: []float64{0},
		Classes:   []int64{0, 1, 2},
	}}
	_, err := convertSklearnLogisticRegression(node, tensor.CPU, nil)
	assert.ErrorIs(t, err, ErrMalformedOperator)
}

func TestSklearnInterceptCountMismatch(t *testing.T) {
	node := &ir.Node{ID: "lr_0", OpType: "SklearnLogisticRegression", Raw: &estimator.LogisticRegression{
		Coef:      mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6}),
		Intercept: []float64{0.1},
		Classes:   []int64{0, 1, 2},
	}}
	_, err := convertSklearnLogisticRegression(node, tensor.CPU, nil)
	assert.ErrorIs(t, err, ErrMalformedOperator)
}

func TestSklearnLinearSVCRawHead(t *testing.T) {
	node := &ir.Node{ID: "svc_0", OpType: "SklearnLinearSVC", Raw: &estimator.LinearSVC{
		Coef:      mat.NewDense(1, 2, []float64{1, -1}),
		Intercept: []float64{0},
		Classes:   []int64{0, 1},
	}}

	frag, err := convertSklearnLinearSVC(node, tensor.CPU, nil)
	require.NoError(t, err)
	assert.False(t, frag.(*LinearModel).Probabilistic)
}

func TestSklearnSGDClassifierLossSelectsHead(t *testing.T) {
	build := func(loss string) *ir.Node {
		return &ir.Node{ID: "sgd_0", OpType: "SklearnSGDClassifier", Raw: &estimator.SGDClassifier{
			Coef:      mat.NewDense(1, 2, []float64{1, -1}),
			Intercept: []float64{0},
			Classes:   []int64{0, 1},
			Loss:      loss,
		}}
	}

	for loss, probabilistic := range map[string]bool{
		"log_loss": true,
		"log":      true,
		"hinge":    false,
	} {
		frag, err := convertSklearnSGDClassifier(build(loss), tensor.CPU, nil)
		require.NoError(t, err)
		assert.Equal(t, probabilistic, frag.(*LinearModel).Probabilistic, "loss %q", loss)
	}
}

func TestLinearModelForwardBinaryProbabilities(t *testing.T) {
	model := &LinearModel{
		Coefficients:  f32Tensor(t, []float32{1, -1}, tensor.Shape{2, 1}),
		Intercepts:    f32Tensor(t, []float32{0}, tensor.Shape{1, 1}),
		Classes:       []int64{10, 20},
		MultiClass:    "none",
		Probabilistic: true,
		opType:        "ONNXMLLinearClassifier",
	}

	// Row margins are +1 and -3.
	x := f32Tensor(t, []float32{2, 1, 0, 3}, tensor.Shape{2, 2})

	out, err := model.Forward(cpu.New(), x)
	require.NoError(t, err)
	require.True(t, out.Terminal())

	require.Equal(t, tensor.Shape{2, 2}, out.Scores.Shape())
	probs := out.Scores.AsFloat32()
	assert.InDelta(t, 0.731059, probs[1], 1e-5)
	assert.InDelta(t, 0.268941, probs[0], 1e-5)
	assert.InDelta(t, 0.047426, probs[3], 1e-5)
	assert.InDelta(t, 0.952574, probs[2], 1e-5)
	assert.Equal(t, []int64{20, 10}, out.Labels.AsInt64())
}

func TestLinearModelForwardRawMargins(t *testing.T) {
	model := &LinearModel{
		Coefficients: f32Tensor(t, []float32{1, -1}, tensor.Shape{2, 1}),
		Intercepts:   f32Tensor(t, []float32{0}, tensor.Shape{1, 1}),
		Classes:      []int64{10, 20},
		MultiClass:   "none",
		opType:       "SklearnLinearSVC",
	}

	x := f32Tensor(t, []float32{2, 1, 0, 3}, tensor.Shape{2, 2})

	out, err := model.Forward(cpu.New(), x)
	require.NoError(t, err)

	// Mirrored margin columns, no squashing.
	assert.Equal(t, []float32{-1, 1, 3, -3}, out.Scores.AsFloat32())
	assert.Equal(t, []int64{20, 10}, out.Labels.AsInt64())
}

func TestLinearModelForwardMultinomial(t *testing.T) {
	model := &LinearModel{
		Coefficients:  f32Tensor(t, []float32{1, 0, 0, 0, 1, 0}, tensor.Shape{2, 3}),
		Intercepts:    f32Tensor(t, []float32{0, 0, 0}, tensor.Shape{1, 3}),
		Classes:       []int64{7, 8, 9},
		MultiClass:    "multinomial",
		Probabilistic: true,
		opType:        "SklearnLogisticRegression",
	}

	x := f32Tensor(t, []float32{0, 2}, tensor.Shape{1, 2})

	out, err := model.Forward(cpu.New(), x)
	require.NoError(t, err)

	probs := out.Scores.AsFloat32()
	var sum float32
	for _, p := range probs {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-5)
	assert.InDelta(t, 0.786986, probs[1], 1e-5)
	assert.Equal(t, []int64{8}, out.Labels.AsInt64())
}

func TestLinearModelForwardRegression(t *testing.T) {
	// y = 2*x0 + 3*x1 + 1
	model := &LinearModel{
		Coefficients: f32Tensor(t, []float32{2, 3}, tensor.Shape{2, 1}),
		Intercepts:   f32Tensor(t, []float32{1}, tensor.Shape{1, 1}),
		MultiClass:   "none",
		Regression:   true,
		opType:       "SklearnLinearRegression",
	}

	x := f32Tensor(t, []float32{1, 1, 0, 2}, tensor.Shape{2, 2})

	out, err := model.Forward(cpu.New(), x)
	require.NoError(t, err)

	assert.Equal(t, []float32{6, 7}, out.Scores.AsFloat32())
	assert.Nil(t, out.Labels)
}
