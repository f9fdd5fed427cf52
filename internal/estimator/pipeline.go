package estimator

// Pipeline chains fitted stages: each stage consumes the previous stage's
// output. Nested pipelines are legal and flatten during graph construction.
type Pipeline struct {
	Steps []Estimator
}

// OpType returns the operator tag for the converter registry. A pipeline is
// never lowered directly; it unrolls into its stages first.
func (p *Pipeline) OpType() string { return "SklearnPipeline" }

// NumFeatures returns the input width of the first stage.
func (p *Pipeline) NumFeatures() int {
	flat := p.flatten()
	if len(flat) == 0 {
		return 0
	}
	return flat[0].NumFeatures()
}

// flatten expands nested pipelines into a flat stage list in order.
func (p *Pipeline) flatten() []Estimator {
	var out []Estimator
	for _, step := range p.Steps {
		if nested, ok := step.(*Pipeline); ok {
			out = append(out, nested.flatten()...)
			continue
		}
		out = append(out, step)
	}
	return out
}
