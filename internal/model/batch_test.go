package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynamite-ml/dynamite/internal/model"
)

func TestMap(t *testing.T) {
	m := model.Map(double())

	out := m.Forward([]model.Value[Backend]{value(t, 1), value(t, 2), value(t, 3)})
	require.Len(t, out, 3)
	assert.Equal(t, []float32{2}, out[0].Data())
	assert.Equal(t, []float32{4}, out[1].Data())
	assert.Equal(t, []float32{6}, out[2].Data())
}

func TestMap_Empty(t *testing.T) {
	m := model.Map(double())
	assert.Empty(t, m.Forward(nil))
}

func TestMap_RegistryNestsWrapped(t *testing.T) {
	scale := newParam(t, "scale", 2)
	inner := model.NewUnary(func(x model.Value[Backend]) model.Value[Backend] {
		return x.Mul(scale.Tensor())
	}, model.WithParameters(scale))

	m := model.Map(inner)
	assert.Same(t, inner.Params(), m.Nested("f"))
}

func TestMapPair(t *testing.T) {
	add := model.NewBinary(func(x, y model.Value[Backend]) model.Value[Backend] {
		return x.Add(y)
	})
	m := model.MapPair(add)

	out := m.Forward(
		[]model.Value[Backend]{value(t, 1), value(t, 2)},
		[]model.Value[Backend]{value(t, 10), value(t, 20)},
	)
	require.Len(t, out, 2)
	assert.Equal(t, []float32{11}, out[0].Data())
	assert.Equal(t, []float32{22}, out[1].Data())
}

func TestMapPair_LengthMismatch(t *testing.T) {
	add := model.NewBinary(func(x, y model.Value[Backend]) model.Value[Backend] {
		return x.Add(y)
	})
	m := model.MapPair(add)

	assert.Panics(t, func() {
		m.Forward(
			[]model.Value[Backend]{value(t, 1)},
			[]model.Value[Backend]{value(t, 1), value(t, 2)},
		)
	})
}

func TestMapPairIndexed(t *testing.T) {
	// f(x, y, i) = x + y + i, with the index passed explicitly.
	f := model.NewTernary(func(x, y, idx model.Value[Backend]) model.Value[Backend] {
		return x.Add(y).Add(idx)
	})
	m := model.MapPairIndexed(f, func(i int) model.Value[Backend] {
		return value(t, float32(i))
	})

	out := m.Forward(
		[]model.Value[Backend]{value(t, 1), value(t, 1)},
		[]model.Value[Backend]{value(t, 10), value(t, 10)},
	)
	require.Len(t, out, 2)
	assert.Equal(t, []float32{11}, out[0].Data())
	assert.Equal(t, []float32{12}, out[1].Data())
}

func TestMapBatch(t *testing.T) {
	reverse := model.NewUnarySeq(func(xs []model.Value[Backend]) []model.Value[Backend] {
		out := make([]model.Value[Backend], len(xs))
		for i, x := range xs {
			out[len(xs)-1-i] = x
		}
		return out
	})

	batched := model.MapBatch(reverse)
	out := batched([][]model.Value[Backend]{
		{value(t, 1), value(t, 2)},
		{value(t, 3)},
	})

	require.Len(t, out, 2)
	assert.Equal(t, []float32{2}, out[0][0].Data())
	assert.Equal(t, []float32{1}, out[0][1].Data())
	assert.Equal(t, []float32{3}, out[1][0].Data())
}

func TestSum(t *testing.T) {
	out := model.Sum([]model.Value[Backend]{
		value(t, 1, 2),
		value(t, 10, 20),
		value(t, 100, 200),
	})
	assert.Equal(t, []float32{111, 222}, out.Data())
}

func TestSum_SingleElement(t *testing.T) {
	x := value(t, 7)
	assert.Same(t, x, model.Sum([]model.Value[Backend]{x}))
}

func TestSum_Empty(t *testing.T) {
	assert.Panics(t, func() { model.Sum[Backend](nil) })
}

func TestSumSeqs(t *testing.T) {
	out := model.SumSeqs([][]model.Value[Backend]{
		{value(t, 1), value(t, 2)},
		{value(t, 3)},
	})
	assert.Equal(t, []float32{6}, out.Data())
}
