package engine

import (
	"errors"
	"fmt"

	"github.com/jshuadvd/hummingbird/internal/converters"
	"github.com/jshuadvd/hummingbird/internal/onnxml"
	"github.com/jshuadvd/hummingbird/internal/tensor"
)

// Model is the executable result of a conversion: the lowered fragments in
// topological order, bound to the backend they were converted for. The
// fragment order is part of the container's contract and Fragments exposes
// it unchanged.
type Model struct {
	fragments []converters.Fragment
	nodeIDs   []string
	backend   tensor.Backend
	runID     string
}

func newModel(low []lowered, backend tensor.Backend, runID string) *Model {
	m := &Model{
		fragments: make([]converters.Fragment, 0, len(low)),
		nodeIDs:   make([]string, 0, len(low)),
		backend:   backend,
		runID:     runID,
	}
	for _, l := range low {
		m.fragments = append(m.fragments, l.frag)
		m.nodeIDs = append(m.nodeIDs, l.node.ID)
	}
	return m
}

// Fragments returns the lowered fragments in topological order.
func (m *Model) Fragments() []converters.Fragment {
	out := make([]converters.Fragment, len(m.fragments))
	copy(out, m.fragments)
	return out
}

// RunID returns the identifier of the conversion run that produced this
// model, for correlating log lines.
func (m *Model) RunID() string { return m.runID }

// Device returns the device the model's parameter tensors live on.
func (m *Model) Device() tensor.Device { return m.backend.Device() }

// Forward pushes a (rows, features) float32 batch through the fragment
// chain and returns the final fragment's output. Intermediate fragments
// feed their transformed features forward; the terminal fragment's scores
// and labels are returned as produced.
//
// The backend panics on contract violations; Forward recovers those into
// errors so a mis-shaped batch fails a call instead of the process.
func (m *Model) Forward(x *tensor.RawTensor) (out *converters.Output, err error) {
	if len(m.fragments) == 0 {
		return nil, errors.New("model has no fragments")
	}
	if x == nil {
		return nil, errors.New("nil input")
	}
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("incompatible input %v: %v", x.Shape(), r)
		}
	}()

	cur := x
	for i, frag := range m.fragments {
		out, err = frag.Forward(m.backend, cur)
		if err != nil {
			return nil, fmt.Errorf("fragment %s: %w", m.nodeIDs[i], err)
		}
		if out.Features != nil {
			cur = out.Features
		} else {
			cur = out.Scores
		}
	}
	return out, nil
}

// Predict returns predicted class labels for classifier models and raw
// scores for regression models.
func (m *Model) Predict(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	out, err := m.Forward(x)
	if err != nil {
		return nil, err
	}
	if out.Labels != nil {
		return out.Labels, nil
	}
	if out.Scores != nil {
		return out.Scores, nil
	}
	return out.Features, nil
}

// PredictProba returns the terminal score matrix: per-class probabilities
// for probabilistic classifiers, decision margins otherwise.
func (m *Model) PredictProba(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	out, err := m.Forward(x)
	if err != nil {
		return nil, err
	}
	if out.Scores == nil {
		return nil, errors.New("model has no score output")
	}
	return out.Scores, nil
}

// ONNXModel is the result of an ONNX-ML conversion: the executable fragment
// chain plus the same model re-expressed with standard ONNX operators only.
type ONNXModel struct {
	Model
	proto *onnxml.ModelProto
}

// Proto returns the produced model. Callers own the returned proto and may
// mutate it freely; the fragment chain does not read it back.
func (m *ONNXModel) Proto() *onnxml.ModelProto { return m.proto }

// Bytes serializes the produced model to protobuf wire bytes.
func (m *ONNXModel) Bytes() ([]byte, error) {
	return onnxml.Marshal(m.proto)
}

// Save writes the produced model to path.
func (m *ONNXModel) Save(path string) error {
	return onnxml.WriteFile(path, m.proto)
}
