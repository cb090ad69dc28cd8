package tensor

// Backend is the boundary to the compute engine. The composition layer never
// touches tensor memory itself beyond bookkeeping; every numerical operation
// goes through this interface.
//
// Implementations:
//   - backend/cpu: pure Go reference engine
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Scalar operations.
	AddScalar(x *RawTensor, scalar float64) *RawTensor
	MulScalar(x *RawTensor, scalar float64) *RawTensor

	// Matrix multiplication for 2D tensors: (M, K) @ (K, N) -> (M, N).
	MatMul(a, b *RawTensor) *RawTensor

	// Element-wise math.
	Exp(x *RawTensor) *RawTensor
	Log(x *RawTensor) *RawTensor
	Sqrt(x *RawTensor) *RawTensor
	Tanh(x *RawTensor) *RawTensor
	Sigmoid(x *RawTensor) *RawTensor

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor
	Unsqueeze(x *RawTensor, dim int) *RawTensor
	Squeeze(x *RawTensor, dim int) *RawTensor

	// Manipulation and reduction.
	Cat(tensors []*RawTensor, dim int) *RawTensor
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor

	// Embedding looks up rows of weight [vocab, dim] by index. Indices may be
	// int32, int64, or float32 (graph inputs are float-typed; values are
	// truncated to row indices).
	Embedding(weight, indices *RawTensor) *RawTensor

	// Metadata.
	Name() string
	Device() Device
}
