package estimator

// StandardScaler is a fitted feature standardizer: (x - Mean) / Scale per
// feature column. It is the usual leading stage of a fitted pipeline.
type StandardScaler struct {
	Mean  []float64
	Scale []float64
}

// OpType returns the operator tag for the converter registry.
func (m *StandardScaler) OpType() string { return "SklearnScaler" }

// NumFeatures returns the fitted input width.
func (m *StandardScaler) NumFeatures() int { return len(m.Mean) }
