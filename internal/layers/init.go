package layers

import (
	"math"
	"math/rand"

	"github.com/dynamite-ml/dynamite/internal/tensor"
)

// Xavier (Glorot) initialization for weights.
//
// Values are drawn from U(-sqrt(6/(fanIn+fanOut)), sqrt(6/(fanIn+fanOut))),
// which keeps activation variance roughly constant across layers. A nil rng
// draws from the shared math/rand source.
func Xavier[B tensor.Backend](rng *rand.Rand, fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	uniform := rand.Float64
	if rng != nil {
		uniform = rng.Float64
	}

	t, err := tensor.NewRaw(shape, tensor.Float32, backend.Device())
	if err != nil {
		panic(err)
	}

	data := t.AsFloat32()
	for i := range data {
		data[i] = float32((uniform()*2.0 - 1.0) * bound)
	}

	return tensor.New[float32](t, backend)
}

// Zeros creates a zero-filled tensor, the usual bias initialization.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Zeros[float32](shape, backend)
}

// Ones creates a tensor filled with ones.
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Ones[float32](shape, backend)
}

// Randn creates a tensor with values drawn from N(0, 1). A nil rng draws
// from the shared math/rand source.
func Randn[B tensor.Backend](rng *rand.Rand, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	norm := rand.NormFloat64
	if rng != nil {
		norm = rng.NormFloat64
	}

	t, err := tensor.NewRaw(shape, tensor.Float32, backend.Device())
	if err != nil {
		panic(err)
	}

	data := t.AsFloat32()
	for i := range data {
		data[i] = float32(norm())
	}

	return tensor.New[float32](t, backend)
}
