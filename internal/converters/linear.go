package converters

import (
	"gonum.org/v1/gonum/mat"

	"github.com/jshuadvd/hummingbird/internal/estimator"
	"github.com/jshuadvd/hummingbird/internal/ir"
	"github.com/jshuadvd/hummingbird/internal/onnxml"
	"github.com/jshuadvd/hummingbird/internal/tensor"
)

func (r *Registry) registerLinearOps() {
	r.mustRegister("ONNXMLLinearClassifier", convertONNXLinearClassifier)
	r.mustRegister("ONNXMLLinearRegressor", convertONNXLinearRegressor)
	r.mustRegister("SklearnLogisticRegression", convertSklearnLogisticRegression)
	r.mustRegister("SklearnLinearRegression", convertSklearnLinearRegression)
	r.mustRegister("SklearnLinearSVC", convertSklearnLinearSVC)
	r.mustRegister("SklearnSGDClassifier", convertSklearnSGDClassifier)
}

// LinearModel is the lowered form of every linear-family operator: a single
// affine transform followed by the classifier head selected at conversion
// time.
//
// Coefficients is (features, targets) and Intercepts (1, targets), both
// Float32, already transposed from whatever layout the source model used.
// For binary classifiers targets is 1 and the head mirrors the margin column
// into two class columns.
type LinearModel struct {
	Coefficients *tensor.RawTensor
	Intercepts   *tensor.RawTensor
	Classes      []int64
	MultiClass   string // "none", "ovr" or "multinomial"

	// Regression suppresses the classifier head entirely; Probabilistic
	// selects sigmoid/softmax scores over raw decision margins.
	Regression    bool
	Probabilistic bool

	opType string
}

// OpType returns the operator tag this fragment was lowered from.
func (m *LinearModel) OpType() string { return m.opType }

// Forward computes scores = x @ Coefficients + Intercepts and applies the
// configured head. x is a (rows, features) Float32 batch.
func (m *LinearModel) Forward(b tensor.Backend, x *tensor.RawTensor) (*Output, error) {
	scores := b.Add(b.MatMul(x, m.Coefficients), m.Intercepts)
	if m.Regression {
		return &Output{Scores: scores}, nil
	}
	return classifierHead(b, scores, m.Classes, m.Probabilistic, m.MultiClass == "multinomial")
}

// convertONNXLinearClassifier lowers the ONNX-ML LinearClassifier operator.
// The wire attributes carry flat class-major coefficient and intercept
// arrays plus the integer class labels.
func convertONNXLinearClassifier(node *ir.Node, device tensor.Device, cfg Config) (Fragment, error) {
	op, ok := node.Raw.(*onnxml.Node)
	if !ok {
		return nil, malformedf(node, "raw payload is %T, want *onnxml.Node", node.Raw)
	}

	coefficients, ok := op.FloatsAttr("coefficients")
	if !ok {
		return nil, malformedf(node, "missing coefficients attribute")
	}
	intercepts, ok := op.FloatsAttr("intercepts")
	if !ok {
		return nil, malformedf(node, "missing intercepts attribute")
	}
	classes, ok := op.IntsAttr("classlabels_ints")
	if !ok {
		return nil, malformedf(node, "missing classlabels_ints attribute")
	}

	multiClass := "none"
	switch {
	case op.IntAttr("multi_class", 0) != 0:
		multiClass = "multinomial"
	case len(classes) >= 3:
		multiClass = "ovr"
	}

	var (
		coef, bias *tensor.RawTensor
		err        error
	)
	switch {
	case len(classes) == 2:
		coef, bias, err = mirroredHalf(node, coefficients, intercepts, device)
	case len(classes) > 2:
		coef, bias, err = transposeBlocks(node, coefficients, intercepts, len(classes), device)
	default:
		return nil, malformedf(node, "%d class labels, want at least 2", len(classes))
	}
	if err != nil {
		return nil, err
	}

	return &LinearModel{
		Coefficients:  coef,
		Intercepts:    bias,
		Classes:       append([]int64(nil), classes...),
		MultiClass:    multiClass,
		Probabilistic: true,
		opType:        node.OpType,
	}, nil
}

// convertONNXLinearRegressor lowers the ONNX-ML LinearRegressor operator.
// Same flat layout as the classifier, with the targets attribute in place
// of class labels and no binary special case.
func convertONNXLinearRegressor(node *ir.Node, device tensor.Device, cfg Config) (Fragment, error) {
	op, ok := node.Raw.(*onnxml.Node)
	if !ok {
		return nil, malformedf(node, "raw payload is %T, want *onnxml.Node", node.Raw)
	}

	coefficients, ok := op.FloatsAttr("coefficients")
	if !ok {
		return nil, malformedf(node, "missing coefficients attribute")
	}
	intercepts, ok := op.FloatsAttr("intercepts")
	if !ok {
		return nil, malformedf(node, "missing intercepts attribute")
	}
	targets := int(op.IntAttr("targets", 1))
	if targets < 1 {
		return nil, malformedf(node, "targets = %d, want at least 1", targets)
	}

	coef, bias, err := transposeBlocks(node, coefficients, intercepts, targets, device)
	if err != nil {
		return nil, err
	}

	return &LinearModel{
		Coefficients: coef,
		Intercepts:   bias,
		MultiClass:   "none",
		Regression:   true,
		opType:       node.OpType,
	}, nil
}

// convertSklearnLogisticRegression lowers a fitted LogisticRegression.
func convertSklearnLogisticRegression(node *ir.Node, device tensor.Device, cfg Config) (Fragment, error) {
	model, ok := node.Raw.(*estimator.LogisticRegression)
	if !ok {
		return nil, malformedf(node, "raw payload is %T, want *estimator.LogisticRegression", node.Raw)
	}
	coef, bias, err := denseToColumns(node, model.Coef, model.Intercept, device)
	if err != nil {
		return nil, err
	}
	if err := checkClasses(node, model.Classes, bias.Shape()[1]); err != nil {
		return nil, err
	}

	// Binary problems always use the sigmoid head; for multiclass the
	// fitted solver decides, and everything except explicit "ovr" is a
	// softmax model.
	multiClass := "none"
	if len(model.Classes) > 2 {
		multiClass = "multinomial"
		if model.MultiClass == "ovr" {
			multiClass = "ovr"
		}
	}

	return &LinearModel{
		Coefficients:  coef,
		Intercepts:    bias,
		Classes:       append([]int64(nil), model.Classes...),
		MultiClass:    multiClass,
		Probabilistic: true,
		opType:        node.OpType,
	}, nil
}

// convertSklearnLinearRegression lowers a fitted LinearRegression.
func convertSklearnLinearRegression(node *ir.Node, device tensor.Device, cfg Config) (Fragment, error) {
	model, ok := node.Raw.(*estimator.LinearRegression)
	if !ok {
		return nil, malformedf(node, "raw payload is %T, want *estimator.LinearRegression", node.Raw)
	}
	coef, bias, err := denseToColumns(node, model.Coef, model.Intercept, device)
	if err != nil {
		return nil, err
	}
	return &LinearModel{
		Coefficients: coef,
		Intercepts:   bias,
		MultiClass:   "none",
		Regression:   true,
		opType:       node.OpType,
	}, nil
}

// convertSklearnLinearSVC lowers a fitted LinearSVC. SVC decision scores are
// uncalibrated, so the fragment reports raw margins rather than
// probabilities.
func convertSklearnLinearSVC(node *ir.Node, device tensor.Device, cfg Config) (Fragment, error) {
	model, ok := node.Raw.(*estimator.LinearSVC)
	if !ok {
		return nil, malformedf(node, "raw payload is %T, want *estimator.LinearSVC", node.Raw)
	}
	coef, bias, err := denseToColumns(node, model.Coef, model.Intercept, device)
	if err != nil {
		return nil, err
	}
	if err := checkClasses(node, model.Classes, bias.Shape()[1]); err != nil {
		return nil, err
	}

	multiClass := "none"
	if len(model.Classes) > 2 {
		multiClass = "ovr"
	}

	return &LinearModel{
		Coefficients: coef,
		Intercepts:   bias,
		Classes:      append([]int64(nil), model.Classes...),
		MultiClass:   multiClass,
		opType:       node.OpType,
	}, nil
}

// convertSklearnSGDClassifier lowers a fitted SGDClassifier. The fitted loss
// picks the head: log losses give a probabilistic model, every other loss
// behaves like a linear SVC.
func convertSklearnSGDClassifier(node *ir.Node, device tensor.Device, cfg Config) (Fragment, error) {
	model, ok := node.Raw.(*estimator.SGDClassifier)
	if !ok {
		return nil, malformedf(node, "raw payload is %T, want *estimator.SGDClassifier", node.Raw)
	}
	coef, bias, err := denseToColumns(node, model.Coef, model.Intercept, device)
	if err != nil {
		return nil, err
	}
	if err := checkClasses(node, model.Classes, bias.Shape()[1]); err != nil {
		return nil, err
	}

	multiClass := "none"
	if len(model.Classes) > 2 {
		multiClass = "ovr"
	}

	return &LinearModel{
		Coefficients:  coef,
		Intercepts:    bias,
		Classes:       append([]int64(nil), model.Classes...),
		MultiClass:    multiClass,
		Probabilistic: model.Loss == "log_loss" || model.Loss == "log",
		opType:        node.OpType,
	}, nil
}

// mirroredHalf implements the binary-classifier parameter layout: the flat
// arrays hold a sign-mirrored copy of the true parameters concatenated in
// front of them, so only the second half survives, one row per value.
func mirroredHalf(node *ir.Node, coefficients, intercepts []float32, device tensor.Device) (*tensor.RawTensor, *tensor.RawTensor, error) {
	if len(coefficients) < 2 {
		return nil, nil, malformedf(node, "binary classifier with %d coefficients", len(coefficients))
	}
	if len(intercepts) < 2 {
		return nil, nil, malformedf(node, "binary classifier with %d intercepts", len(intercepts))
	}

	half := coefficients[len(coefficients)/2:]
	coef, err := tensor.FromFloat32s(half, tensor.Shape{len(half), 1}, device)
	if err != nil {
		return nil, nil, malformedf(node, "coefficients: %v", err)
	}

	halfI := intercepts[len(intercepts)/2:]
	bias, err := tensor.FromFloat32s(halfI, tensor.Shape{len(halfI), 1}, device)
	if err != nil {
		return nil, nil, malformedf(node, "intercepts: %v", err)
	}
	return coef, bias, nil
}

// transposeBlocks reshapes a flat column-major coefficient array of cols
// consecutive blocks into (features, cols), so each output column is one
// block, and intercepts into a (1, len) row.
func transposeBlocks(node *ir.Node, coefficients, intercepts []float32, cols int, device tensor.Device) (*tensor.RawTensor, *tensor.RawTensor, error) {
	if len(coefficients) == 0 || len(coefficients)%cols != 0 {
		return nil, nil, malformedf(node, "%d coefficients not divisible into %d columns", len(coefficients), cols)
	}
	if len(intercepts) == 0 {
		return nil, nil, malformedf(node, "empty intercepts")
	}

	features := len(coefficients) / cols
	flat := make([]float32, len(coefficients))
	for j := 0; j < cols; j++ {
		for i := 0; i < features; i++ {
			flat[i*cols+j] = coefficients[j*features+i]
		}
	}
	coef, err := tensor.FromFloat32s(flat, tensor.Shape{features, cols}, device)
	if err != nil {
		return nil, nil, malformedf(node, "coefficients: %v", err)
	}

	bias, err := tensor.FromFloat32s(intercepts, tensor.Shape{1, len(intercepts)}, device)
	if err != nil {
		return nil, nil, malformedf(node, "intercepts: %v", err)
	}
	return coef, bias, nil
}

// denseToColumns converts a fitted (targets, features) coefficient matrix
// and its intercept vector into (features, targets) and (1, targets) Float32
// tensors.
func denseToColumns(node *ir.Node, coef *mat.Dense, intercept []float64, device tensor.Device) (*tensor.RawTensor, *tensor.RawTensor, error) {
	if coef == nil {
		return nil, nil, malformedf(node, "nil coefficient matrix")
	}
	rows, cols := coef.Dims()
	if rows == 0 || cols == 0 {
		return nil, nil, malformedf(node, "empty coefficient matrix")
	}
	if len(intercept) != rows {
		return nil, nil, malformedf(node, "%d intercepts for %d score columns", len(intercept), rows)
	}

	flat := make([]float32, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			flat[j*rows+i] = float32(coef.At(i, j))
		}
	}
	w, err := tensor.FromFloat32s(flat, tensor.Shape{cols, rows}, device)
	if err != nil {
		return nil, nil, malformedf(node, "coefficients: %v", err)
	}

	biasVals := make([]float32, len(intercept))
	for i, v := range intercept {
		biasVals[i] = float32(v)
	}
	bias, err := tensor.FromFloat32s(biasVals, tensor.Shape{1, len(biasVals)}, device)
	if err != nil {
		return nil, nil, malformedf(node, "intercepts: %v", err)
	}
	return w, bias, nil
}

// checkClasses validates the class-label list against the score width:
// single-column models are binary, wider models need one label per column.
func checkClasses(node *ir.Node, classes []int64, targets int) error {
	want := targets
	if targets == 1 {
		want = 2
	}
	if len(classes) != want {
		return malformedf(node, "%d class labels for %d score columns", len(classes), targets)
	}
	return nil
}
