package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynamite-ml/dynamite/internal/backend/cpu"
	"github.com/dynamite-ml/dynamite/internal/model"
	"github.com/dynamite-ml/dynamite/internal/tensor"
)

func value(t *testing.T, values ...float32) model.Value[Backend] {
	t.Helper()
	backend := cpu.New()
	v, err := tensor.FromSlice(values, tensor.Shape{len(values)}, backend)
	require.NoError(t, err)
	return v
}

// double is a bare model with no parameters (construction mode a).
func double() *model.Unary[Backend] {
	return model.NewUnary(func(x model.Value[Backend]) model.Value[Backend] {
		return x.MulScalar(2)
	})
}

func TestUnary_BareCallable(t *testing.T) {
	m := double()

	out := m.Forward(value(t, 1, 2, 3))
	assert.Equal(t, []float32{2, 4, 6}, out.Data())
	assert.Empty(t, m.Parameters())
}

func TestUnary_WithParameters(t *testing.T) {
	scale := newParam(t, "scale", 3)

	m := model.NewUnary(func(x model.Value[Backend]) model.Value[Backend] {
		return x.Mul(scale.Tensor())
	}, model.WithParameters(scale))

	out := m.Forward(value(t, 5))
	assert.Equal(t, []float32{15}, out.Data())
	assert.Same(t, scale, m.Parameter("scale"))
	assert.Len(t, m.Parameters(), 1)
}

func TestUnary_WithNamedNested(t *testing.T) {
	inner := model.NewUnary(func(x model.Value[Backend]) model.Value[Backend] {
		return x
	}, model.WithParameters(newParam(t, "W", 1)))

	outer := model.NewUnary(func(x model.Value[Backend]) model.Value[Backend] {
		return inner.Forward(x)
	}, model.WithParameters(newParam(t, "b", 2)), model.WithNested[Backend]("inner", inner))

	assert.Same(t, inner.Params(), outer.Nested("inner"))
	assert.Len(t, outer.Parameters(), 2)
}

func TestUnary_WithModels_AutoNumbered(t *testing.T) {
	first := model.NewUnary(func(x model.Value[Backend]) model.Value[Backend] {
		return x
	}, model.WithParameters(newParam(t, "W", 1)))
	second := model.NewUnary(func(x model.Value[Backend]) model.Value[Backend] {
		return x
	}, model.WithParameters(newParam(t, "W", 2)))

	outer := model.NewUnary(func(x model.Value[Backend]) model.Value[Backend] {
		return second.Forward(first.Forward(x))
	}, model.WithModels[Backend](first, second))

	assert.Same(t, first.Params(), outer.Nested("[0]"))
	assert.Same(t, second.Params(), outer.Nested("[1]"))
}

func TestArities(t *testing.T) {
	add := model.NewBinary(func(x, y model.Value[Backend]) model.Value[Backend] {
		return x.Add(y)
	})
	assert.Equal(t, []float32{3}, add.Forward(value(t, 1), value(t, 2)).Data())

	add3 := model.NewTernary(func(x, y, z model.Value[Backend]) model.Value[Backend] {
		return x.Add(y).Add(z)
	})
	assert.Equal(t, []float32{6}, add3.Forward(value(t, 1), value(t, 2), value(t, 3)).Data())

	add4 := model.NewQuaternary(func(w, x, y, z model.Value[Backend]) model.Value[Backend] {
		return w.Add(x).Add(y).Add(z)
	})
	assert.Equal(t, []float32{10},
		add4.Forward(value(t, 1), value(t, 2), value(t, 3), value(t, 4)).Data())
}

func TestFolds(t *testing.T) {
	foldSum := model.NewUnaryFold(func(xs []model.Value[Backend]) model.Value[Backend] {
		return model.Sum(xs)
	})
	out := foldSum.Forward([]model.Value[Backend]{value(t, 1), value(t, 2), value(t, 3)})
	assert.Equal(t, []float32{6}, out.Data())

	foldDot := model.NewBinaryFold(func(xs, ys []model.Value[Backend]) model.Value[Backend] {
		products := make([]model.Value[Backend], len(xs))
		for i := range xs {
			products[i] = xs[i].Mul(ys[i])
		}
		return model.Sum(products)
	})
	dot := foldDot.Forward(
		[]model.Value[Backend]{value(t, 1), value(t, 2)},
		[]model.Value[Backend]{value(t, 10), value(t, 20)},
	)
	assert.Equal(t, []float32{50}, dot.Data())
}

func TestThen_Composition(t *testing.T) {
	plusOne := model.NewUnary(func(x model.Value[Backend]) model.Value[Backend] {
		return x.AddScalar(1)
	})
	timesTen := model.NewUnary(func(x model.Value[Backend]) model.Value[Backend] {
		return x.MulScalar(10)
	})

	m := plusOne.Then(timesTen)
	out := m.Forward(value(t, 4))
	assert.Equal(t, []float32{50}, out.Data())

	// The composite nests both operands as "f" and "g".
	assert.Same(t, plusOne.Params(), m.Nested("f"))
	assert.Same(t, timesTen.Params(), m.Nested("g"))
}

func TestBroadcast(t *testing.T) {
	m := model.Broadcast(double())

	single := m.Forward(value(t, 3))
	assert.Equal(t, []float32{6}, single.Data())

	seq := m.ForwardSeq([]model.Value[Backend]{value(t, 1), value(t, 2)})
	require.Len(t, seq, 2)
	assert.Equal(t, []float32{2}, seq[0].Data())
	assert.Equal(t, []float32{4}, seq[1].Data())
}

func TestBroadcast_Then(t *testing.T) {
	plusOne := model.Broadcast(model.NewUnary(func(x model.Value[Backend]) model.Value[Backend] {
		return x.AddScalar(1)
	}))
	timesTwo := model.Broadcast(double())

	m := plusOne.Then(timesTwo)
	seq := m.ForwardSeq([]model.Value[Backend]{value(t, 1), value(t, 4)})
	assert.Equal(t, []float32{4}, seq[0].Data())
	assert.Equal(t, []float32{10}, seq[1].Data())
}
