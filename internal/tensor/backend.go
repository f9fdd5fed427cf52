package tensor

// Backend defines the compute interface target fragments run on. It covers
// exactly the operator set converted models lower to: affine transforms plus
// the classifier post-processing ops (sigmoid, softmax, argmax, concat).
//
// Backends follow a panic-on-misuse contract: shape or dtype violations are
// programming errors, not runtime conditions, and panic with a descriptive
// message. Converters validate shapes before any backend call.
type Backend interface {
	// Element-wise with NumPy broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor

	// Matrix operations on 2-D tensors.
	MatMul(a, b *RawTensor) *RawTensor
	Transpose(t *RawTensor) *RawTensor

	// Element-wise with a scalar.
	AddScalar(x *RawTensor, scalar any) *RawTensor
	MulScalar(x *RawTensor, scalar any) *RawTensor

	// Classifier heads.
	Sigmoid(x *RawTensor) *RawTensor
	Softmax(x *RawTensor, dim int) *RawTensor
	Argmax(x *RawTensor, dim int) *RawTensor

	// Concatenate along a dimension.
	Cat(tensors []*RawTensor, dim int) *RawTensor

	// Metadata.
	Name() string
	Device() Device
}
