package converters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jshuadvd/hummingbird/internal/backend/cpu"
	"github.com/jshuadvd/hummingbird/internal/estimator"
	"github.com/jshuadvd/hummingbird/internal/ir"
	"github.com/jshuadvd/hummingbird/internal/tensor"
)

// stump builds a depth-1 tree: x[feature] <= threshold routes to leftVal.
func stump(feature int, threshold, leftVal, rightVal float64) estimator.Tree {
	return estimator.Tree{Nodes: []estimator.TreeNode{
		{Feature: feature, Threshold: threshold, Left: 1, Right: 2},
		{Left: -1, Right: -1, Value: leftVal},
		{Left: -1, Right: -1, Value: rightVal},
	}}
}

func gbcNode(model *estimator.GradientBoostingClassifier) *ir.Node {
	return &ir.Node{ID: "gbc_0", OpType: "SklearnGradientBoostingClassifier", Raw: model}
}

func gbrNode(model *estimator.GradientBoostingRegressor) *ir.Node {
	return &ir.Node{ID: "gbr_0", OpType: "SklearnGradientBoostingRegressor", Raw: model}
}

func TestGBRegressorForward(t *testing.T) {
	node := gbrNode(&estimator.GradientBoostingRegressor{
		Trees:        []estimator.Tree{stump(0, 0.5, 1, 2), stump(1, 0.5, 3, 4)},
		LearningRate: 0.5,
		InitScore:    1,
		NFeat:        2,
	})

	frag, err := convertSklearnGBRegressor(node, tensor.CPU, nil)
	require.NoError(t, err)
	require.Equal(t, 2, frag.(*TreeEnsembleModel).NumTrees())

	x := f32Tensor(t, []float32{0, 0, 1, 1}, tensor.Shape{2, 2})
	out, err := frag.Forward(cpu.New(), x)
	require.NoError(t, err)

	// init + lr * (left/right leaf sums) per row.
	assert.Equal(t, tensor.Shape{2, 1}, out.Scores.Shape())
	assert.Equal(t, []float32{3, 4}, out.Scores.AsFloat32())
	assert.Nil(t, out.Labels)
}

func TestGBClassifierBinaryForward(t *testing.T) {
	node := gbcNode(&estimator.GradientBoostingClassifier{
		Trees:        []estimator.Tree{stump(0, 0.5, -2, 2), stump(0, 0.5, -2, 2)},
		Classes:      []int64{0, 1},
		LearningRate: 1,
		NFeat:        1,
	})

	frag, err := convertSklearnGBClassifier(node, tensor.CPU, nil)
	require.NoError(t, err)

	x := f32Tensor(t, []float32{0, 1}, tensor.Shape{2, 1})
	out, err := frag.Forward(cpu.New(), x)
	require.NoError(t, err)

	require.Equal(t, tensor.Shape{2, 2}, out.Scores.Shape())
	probs := out.Scores.AsFloat32()
	assert.InDelta(t, 0.017986, probs[1], 1e-5)
	assert.InDelta(t, 0.982014, probs[0], 1e-5)
	assert.InDelta(t, 0.982014, probs[3], 1e-5)
	assert.Equal(t, []int64{0, 1}, out.Labels.AsInt64())
}

func TestGBClassifierMulticlassForward(t *testing.T) {
	// One boosting round, one tree per class; x = 1 favors class column 1.
	node := gbcNode(&estimator.GradientBoostingClassifier{
		Trees: []estimator.Tree{
			stump(0, 0.5, 5, 0),
			stump(0, 0.5, 0, 5),
			stump(0, 2, 1, 0),
		},
		Classes:      []int64{3, 5, 7},
		LearningRate: 0.1,
		InitScores:   []float64{0.1, 0.1, 0.1},
		NFeat:        1,
	})

	frag, err := convertSklearnGBClassifier(node, tensor.CPU, nil)
	require.NoError(t, err)

	x := f32Tensor(t, []float32{1}, tensor.Shape{1, 1})
	out, err := frag.Forward(cpu.New(), x)
	require.NoError(t, err)

	probs := out.Scores.AsFloat32()
	var sum float32
	for _, p := range probs {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-5)
	assert.InDelta(t, 0.439204, probs[1], 1e-5)
	assert.Equal(t, []int64{5}, out.Labels.AsInt64())
}

func dtcNode(model *estimator.DecisionTreeClassifier) *ir.Node {
	return &ir.Node{ID: "dtc_0", OpType: "SklearnDecisionTreeClassifier", Raw: model}
}

func TestDecisionTreeForward(t *testing.T) {
	node := dtcNode(&estimator.DecisionTreeClassifier{
		Tree: stump(0, 0.5, 0, 0),
		LeafProbs: [][]float64{
			nil,
			{0.9, 0.1},
			{0.25, 0.75},
		},
		Classes: []int64{0, 1},
		NFeat:   1,
	})

	frag, err := convertSklearnDecisionTree(node, tensor.CPU, nil)
	require.NoError(t, err)

	x := f32Tensor(t, []float32{0, 1}, tensor.Shape{2, 1})
	out, err := frag.Forward(cpu.New(), x)
	require.NoError(t, err)

	require.Equal(t, tensor.Shape{2, 2}, out.Scores.Shape())
	assert.Equal(t, []float32{0.9, 0.1, 0.25, 0.75}, out.Scores.AsFloat32())
	assert.Equal(t, []int64{0, 1}, out.Labels.AsInt64())
}

func TestDecisionTreeMalformed(t *testing.T) {
	tests := []struct {
		name  string
		model *estimator.DecisionTreeClassifier
	}{
		{"too few classes", &estimator.DecisionTreeClassifier{
			Tree:      stump(0, 0, 0, 0),
			LeafProbs: [][]float64{nil, {1}, {1}},
			Classes:   []int64{1},
		}},
		{"distribution count mismatch", &estimator.DecisionTreeClassifier{
			Tree:      stump(0, 0, 0, 0),
			LeafProbs: [][]float64{{0.5, 0.5}},
			Classes:   []int64{0, 1},
		}},
		{"leaf width mismatch", &estimator.DecisionTreeClassifier{
			Tree:      stump(0, 0, 0, 0),
			LeafProbs: [][]float64{nil, {0.5, 0.5}, {1}},
			Classes:   []int64{0, 1},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := convertSklearnDecisionTree(dtcNode(tt.model), tensor.CPU, nil)
			assert.ErrorIs(t, err, ErrMalformedOperator)
		})
	}
}

func TestGBClassifierMalformed(t *testing.T) {
	tests := []struct {
		name  string
		model *estimator.GradientBoostingClassifier
	}{
		{"too few classes", &estimator.GradientBoostingClassifier{
			Trees:        []estimator.Tree{stump(0, 0, 1, 2)},
			Classes:      []int64{1},
			LearningRate: 0.1,
		}},
		{"tree count not divisible", &estimator.GradientBoostingClassifier{
			Trees:        []estimator.Tree{stump(0, 0, 1, 2), stump(0, 0, 1, 2), stump(0, 0, 1, 2), stump(0, 0, 1, 2)},
			Classes:      []int64{0, 1, 2},
			LearningRate: 0.1,
		}},
		{"zero learning rate", &estimator.GradientBoostingClassifier{
			Trees:   []estimator.Tree{stump(0, 0, 1, 2)},
			Classes: []int64{0, 1},
		}},
		{"init scores mismatch", &estimator.GradientBoostingClassifier{
			Trees:        []estimator.Tree{stump(0, 0, 1, 2)},
			Classes:      []int64{0, 1},
			LearningRate: 0.1,
			InitScores:   []float64{1, 2, 3},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := convertSklearnGBClassifier(gbcNode(tt.model), tensor.CPU, nil)
			assert.ErrorIs(t, err, ErrMalformedOperator)
		})
	}
}

func TestGBRegressorMalformed(t *testing.T) {
	_, err := convertSklearnGBRegressor(gbrNode(&estimator.GradientBoostingRegressor{
		LearningRate: 0.1,
	}), tensor.CPU, nil)
	assert.ErrorIs(t, err, ErrMalformedOperator)

	_, err = convertSklearnGBRegressor(gbrNode(&estimator.GradientBoostingRegressor{
		Trees: []estimator.Tree{stump(0, 0, 1, 2)},
	}), tensor.CPU, nil)
	assert.ErrorIs(t, err, ErrMalformedOperator)
}

func TestTreeLinkValidation(t *testing.T) {
	badTrees := map[string]estimator.Tree{
		"empty tree": {},
		"child out of range": {Nodes: []estimator.TreeNode{
			{Feature: 0, Threshold: 0, Left: 1, Right: 5},
			{Left: -1, Right: -1, Value: 1},
			{Left: -1, Right: -1, Value: 2},
		}},
		"backward child": {Nodes: []estimator.TreeNode{
			{Feature: 0, Threshold: 0, Left: 1, Right: 2},
			{Feature: 0, Threshold: 0, Left: 0, Right: 2},
			{Left: -1, Right: -1, Value: 2},
		}},
		"half leaf": {Nodes: []estimator.TreeNode{
			{Feature: 0, Threshold: 0, Left: -1, Right: 1},
			{Left: -1, Right: -1, Value: 1},
		}},
	}
	for name, tree := range badTrees {
		t.Run(name, func(t *testing.T) {
			_, err := convertSklearnGBRegressor(gbrNode(&estimator.GradientBoostingRegressor{
				Trees:        []estimator.Tree{tree},
				LearningRate: 0.1,
			}), tensor.CPU, nil)
			assert.ErrorIs(t, err, ErrMalformedOperator)
		})
	}
}

func TestTreeFeatureRangeChecks(t *testing.T) {
	badStump := stump(5, 0, 1, 2)

	// Range known from the fitted model.
	_, err := convertSklearnGBRegressor(gbrNode(&estimator.GradientBoostingRegressor{
		Trees:        []estimator.Tree{badStump},
		LearningRate: 0.1,
		NFeat:        2,
	}), tensor.CPU, nil)
	assert.ErrorIs(t, err, ErrMalformedOperator)

	// Range known from the threaded configuration.
	_, err = convertSklearnGBRegressor(gbrNode(&estimator.GradientBoostingRegressor{
		Trees:        []estimator.Tree{badStump},
		LearningRate: 0.1,
	}), tensor.CPU, Config{KeyNFeatures: 2})
	assert.ErrorIs(t, err, ErrMalformedOperator)

	// Unknown range cannot be checked at conversion time.
	_, err = convertSklearnGBRegressor(gbrNode(&estimator.GradientBoostingRegressor{
		Trees:        []estimator.Tree{badStump},
		LearningRate: 0.1,
	}), tensor.CPU, nil)
	assert.NoError(t, err)
}

func TestTreeEnsembleWrongPayload(t *testing.T) {
	node := &ir.Node{ID: "gbc_0", OpType: "SklearnGradientBoostingClassifier", Raw: 3.14}
	_, err := convertSklearnGBClassifier(node, tensor.CPU, nil)
	assert.ErrorIs(t, err, ErrMalformedOperator)
}
