// Package estimator defines the fitted-model structures the conversion
// pipeline accepts on its statistical-model path.
//
// The structures mirror how fitting libraries hand their parameters over:
// float64 coefficient matrices, intercept vectors and integer class labels.
// Populate them from your training pipeline's export (JSON, flat files, a
// feature store) and pass them to the convert package:
//
//	import (
//	    "github.com/jshuadvd/hummingbird/convert"
//	    "github.com/jshuadvd/hummingbird/estimator"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	model := &estimator.LogisticRegression{
//	    Coef:      mat.NewDense(1, 4, []float64{0.4, -1.2, 2.1, 0.9}),
//	    Intercept: []float64{0.2},
//	    Classes:   []int64{0, 1},
//	}
//	converted, err := convert.Estimator(model, nil, nil)
//
// Pipelines chain stages in order; nested pipelines flatten during
// conversion:
//
//	pipe := &estimator.Pipeline{Steps: []estimator.Estimator{
//	    &estimator.StandardScaler{Mean: mean, Scale: scale},
//	    model,
//	}}
package estimator

import (
	"github.com/jshuadvd/hummingbird/internal/estimator"
)

// Estimator is a fitted model the conversion pipeline can lower.
type Estimator = estimator.Estimator

// LogisticRegression is a fitted logistic-regression classifier.
type LogisticRegression = estimator.LogisticRegression

// LinearRegression is a fitted least-squares regressor.
type LinearRegression = estimator.LinearRegression

// LinearSVC is a fitted linear support vector classifier.
type LinearSVC = estimator.LinearSVC

// SGDClassifier is a fitted linear classifier trained with stochastic
// gradient descent.
type SGDClassifier = estimator.SGDClassifier

// StandardScaler is a fitted feature standardizer.
type StandardScaler = estimator.StandardScaler

// Tree is a single fitted regression tree in flat-array form.
type Tree = estimator.Tree

// TreeNode is one node of a fitted decision tree.
type TreeNode = estimator.TreeNode

// DecisionTreeClassifier is a single fitted classification tree.
type DecisionTreeClassifier = estimator.DecisionTreeClassifier

// GradientBoostingClassifier is a fitted boosted-tree classifier.
type GradientBoostingClassifier = estimator.GradientBoostingClassifier

// GradientBoostingRegressor is a fitted boosted-tree regressor.
type GradientBoostingRegressor = estimator.GradientBoostingRegressor

// Pipeline chains fitted stages; each stage consumes the previous stage's
// output.
type Pipeline = estimator.Pipeline
