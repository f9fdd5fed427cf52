package estimator

// TreeNode is one node of a fitted decision tree in flat-array form.
// Internal nodes route x[Feature] <= Threshold to Left, otherwise Right.
// Leaves have Left == -1 and Right == -1 and contribute Value.
type TreeNode struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Value     float64
}

// Tree is a single fitted regression tree.
type Tree struct {
	Nodes []TreeNode
}

// Leaf reports whether node i is a leaf.
func (t Tree) Leaf(i int) bool {
	return t.Nodes[i].Left < 0 && t.Nodes[i].Right < 0
}

// DecisionTreeClassifier is a single fitted classification tree: the
// degenerate one-tree case of the ensemble family. Routing uses the tree's
// split nodes; the prediction comes from LeafProbs, which holds one class
// distribution per tree node (meaningful at leaves), indexed like
// Tree.Nodes.
type DecisionTreeClassifier struct {
	Tree      Tree
	LeafProbs [][]float64
	Classes   []int64
	NFeat     int
}

// OpType returns the operator tag for the converter registry.
func (m *DecisionTreeClassifier) OpType() string { return "SklearnDecisionTreeClassifier" }

// NumFeatures returns the fitted input width, or 0 when unknown.
func (m *DecisionTreeClassifier) NumFeatures() int { return m.NFeat }

// GradientBoostingClassifier is a fitted boosted-tree classifier.
//
// Trees are stored boosting-round major and class striped: for a problem
// with k score columns (1 for binary, len(Classes) otherwise), tree i
// contributes to score column i % k. InitScores seeds each column before
// the tree sum; LearningRate scales every tree's contribution.
type GradientBoostingClassifier struct {
	Trees        []Tree
	Classes      []int64
	LearningRate float64
	InitScores   []float64
	NFeat        int
}

// OpType returns the operator tag for the converter registry.
func (m *GradientBoostingClassifier) OpType() string { return "SklearnGradientBoostingClassifier" }

// NumFeatures returns the fitted input width, or 0 when the fitting library
// did not record it.
func (m *GradientBoostingClassifier) NumFeatures() int { return m.NFeat }

// GradientBoostingRegressor is a fitted boosted-tree regressor.
type GradientBoostingRegressor struct {
	Trees        []Tree
	LearningRate float64
	InitScore    float64
	NFeat        int
}

// OpType returns the operator tag for the converter registry.
func (m *GradientBoostingRegressor) OpType() string { return "SklearnGradientBoostingRegressor" }

// NumFeatures returns the fitted input width, or 0 when unknown.
func (m *GradientBoostingRegressor) NumFeatures() int { return m.NFeat }
