package layers_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynamite-ml/dynamite/internal/backend/cpu"
	"github.com/dynamite-ml/dynamite/internal/layers"
	"github.com/dynamite-ml/dynamite/internal/model"
	"github.com/dynamite-ml/dynamite/internal/tensor"
)

type Backend = *cpu.CPUBackend

func TestDense_Shapes(t *testing.T) {
	backend := cpu.New()
	m := layers.Dense(4, 3, nil, backend)

	assert.Equal(t, tensor.Shape{3, 4}, m.Parameter("W").Tensor().Shape())
	assert.Equal(t, tensor.Shape{3}, m.Parameter("b").Tensor().Shape())

	vec, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{4}, backend)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3}, m.Forward(vec).Shape())

	batch, err := tensor.FromSlice(make([]float32, 8), tensor.Shape{2, 4}, backend)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3}, m.Forward(batch).Shape())
}

func TestDense_Values(t *testing.T) {
	backend := cpu.New()
	m := layers.Dense(2, 2, nil, backend)

	// Overwrite the random init with known values: y = W x + b.
	copy(m.Parameter("W").Tensor().Data(), []float32{1, 0, 0, 1}) // identity
	copy(m.Parameter("b").Tensor().Data(), []float32{10, 20})

	x, err := tensor.FromSlice([]float32{3, 4}, tensor.Shape{2}, backend)
	require.NoError(t, err)

	out := m.Forward(x)
	assert.Equal(t, []float32{13, 24}, out.Data())
}

func TestDense_Activation(t *testing.T) {
	backend := cpu.New()
	tanh := func(x model.Value[Backend]) model.Value[Backend] { return x.Tanh() }
	m := layers.Dense(1, 1, tanh, backend)

	copy(m.Parameter("W").Tensor().Data(), []float32{1000}) // saturate
	copy(m.Parameter("b").Tensor().Data(), []float32{0})

	x, err := tensor.FromSlice([]float32{1}, tensor.Shape{1}, backend)
	require.NoError(t, err)

	out := m.Forward(x)
	assert.InDelta(t, 1.0, float64(out.Data()[0]), 1e-6)
}

func TestDense_BadInput(t *testing.T) {
	backend := cpu.New()
	m := layers.Dense(4, 3, nil, backend)

	wrong, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend)
	require.NoError(t, err)
	assert.Panics(t, func() { m.Forward(wrong) })
}

func TestEmbedding_Lookup(t *testing.T) {
	backend := cpu.New()
	m := layers.Embedding(5, 3, backend)

	table := m.Parameter("E").Tensor()
	assert.Equal(t, tensor.Shape{5, 3}, table.Shape())
	copy(table.Data(), []float32{
		0, 0, 0,
		1, 1, 1,
		2, 2, 2,
		3, 3, 3,
		4, 4, 4,
	})

	ids, err := tensor.FromSlice([]float32{3, 1}, tensor.Shape{2}, backend)
	require.NoError(t, err)

	out := m.Forward(ids)
	assert.Equal(t, tensor.Shape{2, 3}, out.Shape())
	assert.Equal(t, []float32{3, 3, 3, 1, 1, 1}, out.Data())
}

func TestSequential(t *testing.T) {
	backend := cpu.New()
	first := layers.Dense(2, 2, nil, backend)
	second := layers.Dense(2, 1, nil, backend)

	m := layers.Sequential(first, second)

	// Components are attached auto-numbered.
	assert.Same(t, first.Params(), m.Nested("[0]"))
	assert.Same(t, second.Params(), m.Nested("[1]"))

	x, err := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1}, m.Forward(x).Shape())
}

func TestActivationModels(t *testing.T) {
	backend := cpu.New()
	x, err := tensor.FromSlice([]float32{0}, tensor.Shape{1}, backend)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, float64(layers.Tanh[Backend]().Forward(x).Data()[0]), 1e-6)
	assert.InDelta(t, 0.5, float64(layers.Sigmoid[Backend]().Forward(x).Data()[0]), 1e-6)
	assert.Empty(t, layers.Tanh[Backend]().Parameters())
}

func TestXavier_Bounds(t *testing.T) {
	backend := cpu.New()
	w := layers.Xavier(nil, 100, 100, tensor.Shape{100, 100}, backend)

	bound := float32(0.1733) // sqrt(6/200) plus slack for rounding
	for _, v := range w.Data() {
		assert.LessOrEqual(t, v, bound)
		assert.GreaterOrEqual(t, v, -bound)
	}
}

func TestXavier_Seeded(t *testing.T) {
	backend := cpu.New()
	a := layers.Xavier(rand.New(rand.NewSource(42)), 4, 4, tensor.Shape{4, 4}, backend)
	b := layers.Xavier(rand.New(rand.NewSource(42)), 4, 4, tensor.Shape{4, 4}, backend)
	c := layers.Xavier(rand.New(rand.NewSource(7)), 4, 4, tensor.Shape{4, 4}, backend)

	assert.Equal(t, a.Data(), b.Data())
	assert.NotEqual(t, a.Data(), c.Data())
}

func TestDense_SeededInit(t *testing.T) {
	backend := cpu.New()
	first := layers.Dense(4, 3, nil, backend, layers.WithRand(rand.New(rand.NewSource(42))))
	second := layers.Dense(4, 3, nil, backend, layers.WithRand(rand.New(rand.NewSource(42))))

	assert.Equal(t,
		first.Parameter("W").Tensor().Data(),
		second.Parameter("W").Tensor().Data())
}

func TestEmbedding_SeededInit(t *testing.T) {
	backend := cpu.New()
	first := layers.Embedding(5, 3, backend, layers.WithRand(rand.New(rand.NewSource(42))))
	second := layers.Embedding(5, 3, backend, layers.WithRand(rand.New(rand.NewSource(42))))

	assert.Equal(t,
		first.Parameter("E").Tensor().Data(),
		second.Parameter("E").Tensor().Data())
}
