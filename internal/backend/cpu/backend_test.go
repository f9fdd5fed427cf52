package cpu

import (
	"math"
	"testing"

	"github.com/jshuadvd/hummingbird/internal/tensor"
)

func fromF32(t *testing.T, vals []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.FromFloat32s(vals, shape, tensor.CPU)
	if err != nil {
		t.Fatalf("FromFloat32s: %v", err)
	}
	return raw
}

func TestMatMul(t *testing.T) {
	backend := New()

	// (2,3) @ (3,2) -> (2,2)
	a := fromF32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := fromF32(t, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

	c := backend.MatMul(a, b)

	if !c.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("result shape = %v, want [2 2]", c.Shape())
	}

	want := []float32{58, 64, 139, 154}
	got := c.AsFloat32()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMatMulShapeMismatchPanics(t *testing.T) {
	backend := New()
	a := fromF32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := fromF32(t, []float32{1, 2, 3}, tensor.Shape{3, 1})

	defer func() {
		if r := recover(); r == nil {
			t.Error("MatMul with mismatched inner dims should panic")
		}
	}()
	backend.MatMul(a, b)
}

func TestAddSameShape(t *testing.T) {
	backend := New()
	a := fromF32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := fromF32(t, []float32{10, 20, 30, 40}, tensor.Shape{2, 2})

	c := backend.Add(a, b)

	want := []float32{11, 22, 33, 44}
	got := c.AsFloat32()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestAddBroadcastBias(t *testing.T) {
	backend := New()

	// (2,3) + (1,3): the row-vector bias is applied to every row.
	scores := fromF32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	bias := fromF32(t, []float32{10, 20, 30}, tensor.Shape{1, 3})

	c := backend.Add(scores, bias)

	if !c.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("result shape = %v, want [2 3]", c.Shape())
	}

	want := []float32{11, 22, 33, 14, 25, 36}
	got := c.AsFloat32()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMulSameShape(t *testing.T) {
	backend := New()

	a := fromF32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := fromF32(t, []float32{10, 0.5, -1, 2}, tensor.Shape{2, 2})

	c := backend.Mul(a, b)

	want := []float32{10, 1, -3, 8}
	got := c.AsFloat32()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMulBroadcastRow(t *testing.T) {
	backend := New()

	// (2,3) * (1,3): per-column scale factors.
	x := fromF32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	scale := fromF32(t, []float32{2, 10, 0.5}, tensor.Shape{1, 3})

	c := backend.Mul(x, scale)

	if !c.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("result shape = %v, want [2 3]", c.Shape())
	}

	want := []float32{2, 20, 1.5, 8, 50, 3}
	got := c.AsFloat32()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScalarOps(t *testing.T) {
	backend := New()
	x := fromF32(t, []float32{1, 2, 3}, tensor.Shape{3})

	doubled := backend.MulScalar(x, float32(2))
	for i, want := range []float32{2, 4, 6} {
		if doubled.AsFloat32()[i] != want {
			t.Errorf("MulScalar element %d = %v, want %v", i, doubled.AsFloat32()[i], want)
		}
	}

	shifted := backend.AddScalar(x, float32(1))
	for i, want := range []float32{2, 3, 4} {
		if shifted.AsFloat32()[i] != want {
			t.Errorf("AddScalar element %d = %v, want %v", i, shifted.AsFloat32()[i], want)
		}
	}
}

func TestSigmoid(t *testing.T) {
	backend := New()
	x := fromF32(t, []float32{0, 100, -100}, tensor.Shape{3})

	y := backend.Sigmoid(x).AsFloat32()

	if math.Abs(float64(y[0])-0.5) > 1e-6 {
		t.Errorf("sigmoid(0) = %v, want 0.5", y[0])
	}
	if y[1] < 0.999 {
		t.Errorf("sigmoid(100) = %v, want ~1", y[1])
	}
	if y[2] > 0.001 {
		t.Errorf("sigmoid(-100) = %v, want ~0", y[2])
	}
}

func TestSoftmaxRowsSumToOne(t *testing.T) {
	backend := New()
	x := fromF32(t, []float32{1, 2, 3, 1, 1, 1}, tensor.Shape{2, 3})

	y := backend.Softmax(x, 1)

	got := y.AsFloat32()
	for row := 0; row < 2; row++ {
		var sum float32
		for col := 0; col < 3; col++ {
			sum += got[row*3+col]
		}
		if math.Abs(float64(sum)-1) > 1e-5 {
			t.Errorf("row %d sums to %v, want 1", row, sum)
		}
	}

	// Uniform logits give uniform probabilities.
	for col := 0; col < 3; col++ {
		if math.Abs(float64(got[3+col])-1.0/3.0) > 1e-5 {
			t.Errorf("uniform row element %d = %v, want 1/3", col, got[3+col])
		}
	}

	// Softmax is monotone in its inputs.
	if !(got[0] < got[1] && got[1] < got[2]) {
		t.Errorf("softmax order not preserved: %v", got[:3])
	}
}

func TestArgmax(t *testing.T) {
	backend := New()
	x := fromF32(t, []float32{
		0.1, 0.7, 0.2,
		0.9, 0.05, 0.05,
	}, tensor.Shape{2, 3})

	idx := backend.Argmax(x, 1)

	if !idx.Shape().Equal(tensor.Shape{2}) {
		t.Fatalf("argmax shape = %v, want [2]", idx.Shape())
	}
	got := idx.AsInt32()
	if got[0] != 1 || got[1] != 0 {
		t.Errorf("argmax = %v, want [1 0]", got)
	}
}

func TestArgmaxTieResolvesToLowestIndex(t *testing.T) {
	backend := New()
	x := fromF32(t, []float32{0.5, 0.5}, tensor.Shape{1, 2})

	got := backend.Argmax(x, 1).AsInt32()
	if got[0] != 0 {
		t.Errorf("argmax tie = %d, want 0", got[0])
	}
}

func TestCatColumns(t *testing.T) {
	backend := New()
	a := fromF32(t, []float32{1, 3}, tensor.Shape{2, 1})
	b := fromF32(t, []float32{2, 4}, tensor.Shape{2, 1})

	c := backend.Cat([]*tensor.RawTensor{a, b}, 1)

	if !c.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("cat shape = %v, want [2 2]", c.Shape())
	}
	want := []float32{1, 2, 3, 4}
	got := c.AsFloat32()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTranspose(t *testing.T) {
	backend := New()
	x := fromF32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	y := backend.Transpose(x)

	if !y.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("transpose shape = %v, want [3 2]", y.Shape())
	}
	want := []float32{1, 4, 2, 5, 3, 6}
	got := y.AsFloat32()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBackendMetadata(t *testing.T) {
	backend := New()
	if backend.Name() != "CPU" {
		t.Errorf("Name = %q, want CPU", backend.Name())
	}
	if backend.Device() != tensor.CPU {
		t.Errorf("Device = %v, want CPU", backend.Device())
	}
}
