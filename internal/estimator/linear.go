package estimator

import "gonum.org/v1/gonum/mat"

// LogisticRegression is a fitted logistic-regression classifier.
//
// Coef is laid out (targets, features): one row for binary problems, one row
// per class otherwise. Classes holds the label for each score column in
// ascending fit order.
type LogisticRegression struct {
	Coef       *mat.Dense
	Intercept  []float64
	Classes    []int64
	MultiClass string // "auto", "ovr" or "multinomial"
}

// OpType returns the operator tag for the converter registry.
func (m *LogisticRegression) OpType() string { return "SklearnLogisticRegression" }

// NumFeatures returns the fitted input width.
func (m *LogisticRegression) NumFeatures() int { return coefFeatures(m.Coef) }

// LinearRegression is a fitted least-squares regressor with a single target.
type LinearRegression struct {
	Coef      *mat.Dense // (1, features)
	Intercept []float64  // length 1
}

// OpType returns the operator tag for the converter registry.
func (m *LinearRegression) OpType() string { return "SklearnLinearRegression" }

// NumFeatures returns the fitted input width.
func (m *LinearRegression) NumFeatures() int { return coefFeatures(m.Coef) }

// LinearSVC is a fitted linear support vector classifier. It produces raw
// decision scores; no probability calibration is attached.
type LinearSVC struct {
	Coef      *mat.Dense
	Intercept []float64
	Classes   []int64
}

// OpType returns the operator tag for the converter registry.
func (m *LinearSVC) OpType() string { return "SklearnLinearSVC" }

// NumFeatures returns the fitted input width.
func (m *LinearSVC) NumFeatures() int { return coefFeatures(m.Coef) }

// SGDClassifier is a fitted linear classifier trained with stochastic
// gradient descent. Loss selects the prediction head: "log_loss" yields
// probabilities, anything else raw decision scores.
type SGDClassifier struct {
	Coef      *mat.Dense
	Intercept []float64
	Classes   []int64
	Loss      string
}

// OpType returns the operator tag for the converter registry.
func (m *SGDClassifier) OpType() string { return "SklearnSGDClassifier" }

// NumFeatures returns the fitted input width.
func (m *SGDClassifier) NumFeatures() int { return coefFeatures(m.Coef) }

func coefFeatures(coef *mat.Dense) int {
	if coef == nil {
		return 0
	}
	_, cols := coef.Dims()
	return cols
}
