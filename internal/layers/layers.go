// Package layers provides ready-made model factories: each constructor
// initializes its parameters and returns a model carrying them in its
// registry, so composites built from these layers are introspectable and
// checkpointable out of the box.
package layers

import (
	"fmt"
	"math/rand"

	"github.com/dynamite-ml/dynamite/internal/model"
	"github.com/dynamite-ml/dynamite/internal/tensor"
)

// Option adjusts layer construction.
type Option func(*options)

type options struct {
	rng *rand.Rand
}

// WithRand sets the random source used to initialize parameters, so the
// run configuration's seed can be threaded in explicitly. The default is
// the shared math/rand source.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Dense builds a fully connected layer: y = activation(W x + b).
//
// The weight "W" has shape [out, in] (Xavier initialized) and the bias
// "b" has shape [out] (zeros). Input may be a vector [in] or a batch
// [batch, in]; the output shape follows the input. A nil activation
// means identity.
func Dense[B tensor.Backend](in, out int, activation func(model.Value[B]) model.Value[B], backend B, opts ...Option) *model.Unary[B] {
	o := buildOptions(opts)
	weight := model.NewParameter("W", Xavier(o.rng, in, out, tensor.Shape{out, in}, backend))
	bias := model.NewParameter("b", Zeros(tensor.Shape{out}, backend))

	fn := func(x model.Value[B]) model.Value[B] {
		shape := x.Shape()
		vector := len(shape) == 1
		if vector {
			if shape[0] != in {
				panic(fmt.Sprintf("Dense: expected input of %d features, got %d", in, shape[0]))
			}
			x = x.Reshape(1, in)
		} else if len(shape) != 2 || shape[1] != in {
			panic(fmt.Sprintf("Dense: expected input shape [batch, %d], got %v", in, shape))
		}

		y := x.MatMul(weight.Tensor().T()).Add(bias.Tensor().Reshape(1, out))
		if vector {
			y = y.Reshape(out)
		}
		if activation != nil {
			y = activation(y)
		}
		return y
	}

	return model.NewUnary(fn, model.WithParameters(weight, bias))
}

// Embedding builds a lookup layer mapping token ids to dense rows of the
// embedding matrix "E" [vocab, dim].
//
// The input is a float32 tensor of token ids (ids travel through the
// graph as ordinary values; they are truncated to integers for the
// lookup). Output shape is [n, dim] for n input ids.
func Embedding[B tensor.Backend](vocab, dim int, backend B, opts ...Option) *model.Unary[B] {
	o := buildOptions(opts)
	table := model.NewParameter("E", Xavier(o.rng, vocab, dim, tensor.Shape{vocab, dim}, backend))

	fn := func(x model.Value[B]) model.Value[B] {
		raw := backend.Embedding(table.Tensor().Raw(), x.Raw())
		return tensor.New[float32](raw, backend)
	}

	return model.NewUnary(fn, model.WithParameters(table))
}

// Sequential chains models in order, feeding each output into the next.
// The components' registries are attached auto-numbered "[0]", "[1]", ...
func Sequential[B tensor.Backend](models ...*model.Unary[B]) *model.Unary[B] {
	if len(models) == 0 {
		panic("Sequential: at least one model required")
	}

	fn := func(x model.Value[B]) model.Value[B] {
		for _, m := range models {
			x = m.Forward(x)
		}
		return x
	}

	subs := make([]model.Model[B], len(models))
	for i, m := range models {
		subs[i] = m
	}
	return model.NewUnary(fn, model.WithModels(subs...))
}

// Tanh is a stateless elementwise tanh model.
func Tanh[B tensor.Backend]() *model.Unary[B] {
	return model.NewUnary(func(x model.Value[B]) model.Value[B] { return x.Tanh() })
}

// Sigmoid is a stateless elementwise sigmoid model.
func Sigmoid[B tensor.Backend]() *model.Unary[B] {
	return model.NewUnary(func(x model.Value[B]) model.Value[B] { return x.Sigmoid() })
}
