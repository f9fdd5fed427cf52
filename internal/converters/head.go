package converters

import (
	"github.com/jshuadvd/hummingbird/internal/tensor"
)

// classifierHead turns raw decision scores into the (scores, labels) pair a
// terminal classifier fragment returns. scores is (n, k); k == 1 is the
// binary case, where the single margin column is mirrored into two class
// columns so the output always has one column per class.
func classifierHead(b tensor.Backend, scores *tensor.RawTensor, classes []int64, probabilistic, multinomial bool) (*Output, error) {
	if scores.Shape()[1] == 1 {
		if probabilistic {
			p := b.Sigmoid(scores)
			notP := b.AddScalar(b.MulScalar(p, float32(-1)), float32(1))
			scores = b.Cat([]*tensor.RawTensor{notP, p}, 1)
		} else {
			neg := b.MulScalar(scores, float32(-1))
			scores = b.Cat([]*tensor.RawTensor{neg, scores}, 1)
		}
	} else if probabilistic {
		if multinomial {
			scores = b.Softmax(scores, 1)
		} else {
			scores = b.Sigmoid(scores)
		}
	}

	labels, err := mapClasses(b.Argmax(scores, 1), classes, b.Device())
	if err != nil {
		return nil, err
	}
	return &Output{Scores: scores, Labels: labels}, nil
}

// mapClasses maps argmax column indices onto the fitted class labels.
// Sigmoid, softmax and column mirroring are all monotone per row, so the
// argmax over post-processed scores picks the same column as the raw ones.
func mapClasses(indices *tensor.RawTensor, classes []int64, device tensor.Device) (*tensor.RawTensor, error) {
	idx := indices.AsInt32()
	labels := make([]int64, len(idx))
	for i, col := range idx {
		labels[i] = classes[col]
	}
	return tensor.FromInt64s(labels, tensor.Shape{len(labels)}, device)
}
