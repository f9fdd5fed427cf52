package converters

import (
	"github.com/jshuadvd/hummingbird/internal/estimator"
	"github.com/jshuadvd/hummingbird/internal/ir"
	"github.com/jshuadvd/hummingbird/internal/tensor"
)

func (r *Registry) registerTreeOps() {
	r.mustRegister("SklearnDecisionTreeClassifier", convertSklearnDecisionTree)
	r.mustRegister("SklearnGradientBoostingClassifier", convertSklearnGBClassifier)
	r.mustRegister("SklearnGradientBoostingRegressor", convertSklearnGBRegressor)
}

// travTree is one regression tree flattened into parallel arrays for
// traversal. Internal nodes route row[feature] <= threshold to left,
// otherwise right; leaves are marked by left == -1.
type travTree struct {
	feature   []int32
	threshold []float32
	left      []int32
	right     []int32
	value     []float32
}

// leafIndex routes one input row to its leaf. The converter guarantees
// children point strictly forward, so the walk terminates.
func (t *travTree) leafIndex(row []float32) int32 {
	i := int32(0)
	for t.left[i] >= 0 {
		if row[t.feature[i]] <= t.threshold[i] {
			i = t.left[i]
		} else {
			i = t.right[i]
		}
	}
	return i
}

func (t *travTree) evaluate(row []float32) float32 {
	return t.value[t.leafIndex(row)]
}

// TreeEnsembleModel is the lowered form of a boosted tree ensemble. Trees
// are boosting-round major and class striped: with cols score columns, tree
// i contributes learningRate * leaf to column i % cols on top of the
// per-column init scores.
type TreeEnsembleModel struct {
	trees        []travTree
	classes      []int64
	learningRate float32
	initScores   []float32
	cols         int
	regression   bool

	opType string
}

// OpType returns the operator tag this fragment was lowered from.
func (m *TreeEnsembleModel) OpType() string { return m.opType }

// NumTrees returns the ensemble size.
func (m *TreeEnsembleModel) NumTrees() int { return len(m.trees) }

// Forward scores a (rows, features) Float32 batch.
func (m *TreeEnsembleModel) Forward(b tensor.Backend, x *tensor.RawTensor) (*Output, error) {
	shape := x.Shape()
	rows, features := shape[0], shape[1]
	xs := x.AsFloat32()

	scores := make([]float32, rows*m.cols)
	for i := 0; i < rows; i++ {
		copy(scores[i*m.cols:(i+1)*m.cols], m.initScores)
	}
	for t := range m.trees {
		tree := &m.trees[t]
		col := t % m.cols
		for i := 0; i < rows; i++ {
			scores[i*m.cols+col] += m.learningRate * tree.evaluate(xs[i*features:(i+1)*features])
		}
	}

	raw, err := tensor.FromFloat32s(scores, tensor.Shape{rows, m.cols}, b.Device())
	if err != nil {
		return nil, err
	}
	if m.regression {
		return &Output{Scores: raw}, nil
	}
	return classifierHead(b, raw, m.classes, true, m.cols > 1)
}

// DecisionTreeModel is the lowered form of a single classification tree.
// Routing arrays come from the fitted tree; probs holds one class
// distribution per tree node, row-major, read at the leaf a row lands on.
type DecisionTreeModel struct {
	tree    travTree
	probs   []float32
	classes []int64

	opType string
}

// OpType returns the operator tag this fragment was lowered from.
func (m *DecisionTreeModel) OpType() string { return m.opType }

// Forward scores a (rows, features) Float32 batch. Leaf distributions are
// already probabilities, so the head only picks labels.
func (m *DecisionTreeModel) Forward(b tensor.Backend, x *tensor.RawTensor) (*Output, error) {
	shape := x.Shape()
	rows, features := shape[0], shape[1]
	xs := x.AsFloat32()
	cols := len(m.classes)

	scores := make([]float32, rows*cols)
	for i := 0; i < rows; i++ {
		leaf := int(m.tree.leafIndex(xs[i*features : (i+1)*features]))
		copy(scores[i*cols:(i+1)*cols], m.probs[leaf*cols:(leaf+1)*cols])
	}

	raw, err := tensor.FromFloat32s(scores, tensor.Shape{rows, cols}, b.Device())
	if err != nil {
		return nil, err
	}
	return classifierHead(b, raw, m.classes, false, false)
}

// convertSklearnDecisionTree lowers a fitted DecisionTreeClassifier, the
// single-tree degenerate case of the ensemble family.
func convertSklearnDecisionTree(node *ir.Node, device tensor.Device, cfg Config) (Fragment, error) {
	model, ok := node.Raw.(*estimator.DecisionTreeClassifier)
	if !ok {
		return nil, malformedf(node, "raw payload is %T, want *estimator.DecisionTreeClassifier", node.Raw)
	}
	if len(model.Classes) < 2 {
		return nil, malformedf(node, "%d class labels, want at least 2", len(model.Classes))
	}
	n := len(model.Tree.Nodes)
	if len(model.LeafProbs) != n {
		return nil, malformedf(node, "%d leaf distributions for %d tree nodes", len(model.LeafProbs), n)
	}

	trees, err := buildTravTrees(node, []estimator.Tree{model.Tree}, resolveFeatures(model.NFeat, cfg))
	if err != nil {
		return nil, err
	}

	cols := len(model.Classes)
	probs := make([]float32, n*cols)
	for i, row := range model.LeafProbs {
		if !model.Tree.Leaf(i) {
			continue
		}
		if len(row) != cols {
			return nil, malformedf(node, "leaf %d has %d probabilities for %d classes", i, len(row), cols)
		}
		for j, p := range row {
			probs[i*cols+j] = float32(p)
		}
	}

	return &DecisionTreeModel{
		tree:    trees[0],
		probs:   probs,
		classes: append([]int64(nil), model.Classes...),
		opType:  node.OpType,
	}, nil
}

// convertSklearnGBClassifier lowers a fitted GradientBoostingClassifier.
// Binary ensembles carry one tree per round; multiclass ensembles carry one
// tree per class per round.
func convertSklearnGBClassifier(node *ir.Node, device tensor.Device, cfg Config) (Fragment, error) {
	model, ok := node.Raw.(*estimator.GradientBoostingClassifier)
	if !ok {
		return nil, malformedf(node, "raw payload is %T, want *estimator.GradientBoostingClassifier", node.Raw)
	}
	if len(model.Classes) < 2 {
		return nil, malformedf(node, "%d class labels, want at least 2", len(model.Classes))
	}

	cols := 1
	if len(model.Classes) > 2 {
		cols = len(model.Classes)
	}
	if len(model.Trees) == 0 || len(model.Trees)%cols != 0 {
		return nil, malformedf(node, "%d trees not divisible into %d score columns", len(model.Trees), cols)
	}
	if model.LearningRate <= 0 {
		return nil, malformedf(node, "learning rate %v, want positive", model.LearningRate)
	}

	initScores := make([]float32, cols)
	switch len(model.InitScores) {
	case 0:
	case cols:
		for i, v := range model.InitScores {
			initScores[i] = float32(v)
		}
	default:
		return nil, malformedf(node, "%d init scores for %d score columns", len(model.InitScores), cols)
	}

	trees, err := buildTravTrees(node, model.Trees, resolveFeatures(model.NFeat, cfg))
	if err != nil {
		return nil, err
	}

	return &TreeEnsembleModel{
		trees:        trees,
		classes:      append([]int64(nil), model.Classes...),
		learningRate: float32(model.LearningRate),
		initScores:   initScores,
		cols:         cols,
		opType:       node.OpType,
	}, nil
}

// convertSklearnGBRegressor lowers a fitted GradientBoostingRegressor.
func convertSklearnGBRegressor(node *ir.Node, device tensor.Device, cfg Config) (Fragment, error) {
	model, ok := node.Raw.(*estimator.GradientBoostingRegressor)
	if !ok {
		return nil, malformedf(node, "raw payload is %T, want *estimator.GradientBoostingRegressor", node.Raw)
	}
	if len(model.Trees) == 0 {
		return nil, malformedf(node, "empty tree ensemble")
	}
	if model.LearningRate <= 0 {
		return nil, malformedf(node, "learning rate %v, want positive", model.LearningRate)
	}

	trees, err := buildTravTrees(node, model.Trees, resolveFeatures(model.NFeat, cfg))
	if err != nil {
		return nil, err
	}

	return &TreeEnsembleModel{
		trees:        trees,
		learningRate: float32(model.LearningRate),
		initScores:   []float32{float32(model.InitScore)},
		cols:         1,
		regression:   true,
		opType:       node.OpType,
	}, nil
}

// resolveFeatures picks the feature count recorded on the model, falling
// back to the threaded configuration. Zero means unknown: traversal still
// works, but feature indices cannot be range-checked at conversion time.
func resolveFeatures(modelFeatures int, cfg Config) int {
	if modelFeatures > 0 {
		return modelFeatures
	}
	if n, ok := cfg.IntValue(KeyNFeatures); ok && n > 0 {
		return n
	}
	return 0
}

// buildTravTrees deep-copies fitted trees into traversal form, validating
// every link. Internal nodes need both children in range and strictly
// forward; leaves need both child slots negative.
func buildTravTrees(node *ir.Node, src []estimator.Tree, numFeatures int) ([]travTree, error) {
	trees := make([]travTree, len(src))
	for ti, tree := range src {
		n := len(tree.Nodes)
		if n == 0 {
			return nil, malformedf(node, "tree %d has no nodes", ti)
		}
		tt := travTree{
			feature:   make([]int32, n),
			threshold: make([]float32, n),
			left:      make([]int32, n),
			right:     make([]int32, n),
			value:     make([]float32, n),
		}
		for i, tn := range tree.Nodes {
			if tree.Leaf(i) {
				tt.left[i], tt.right[i] = -1, -1
				tt.value[i] = float32(tn.Value)
				continue
			}
			if tn.Left <= i || tn.Left >= n || tn.Right <= i || tn.Right >= n {
				return nil, malformedf(node, "tree %d node %d: children (%d, %d) out of range", ti, i, tn.Left, tn.Right)
			}
			if tn.Feature < 0 || (numFeatures > 0 && tn.Feature >= numFeatures) {
				return nil, malformedf(node, "tree %d node %d: feature index %d out of range", ti, i, tn.Feature)
			}
			tt.feature[i] = int32(tn.Feature)
			tt.threshold[i] = float32(tn.Threshold)
			tt.left[i] = int32(tn.Left)
			tt.right[i] = int32(tn.Right)
		}
		trees[ti] = tt
	}
	return trees, nil
}
