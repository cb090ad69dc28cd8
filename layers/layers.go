// Copyright 2026 The Dynamite Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package layers provides ready-made model factories: Dense, Embedding,
// Sequential, and stateless activations.
//
// Example:
//
//	backend := cpu.New()
//	m := layers.Sequential(
//	    layers.Dense(784, 128, nil, backend),
//	    layers.Tanh[*cpu.Backend](),
//	    layers.Dense(128, 10, nil, backend),
//	)
package layers

import (
	"math/rand"

	"github.com/dynamite-ml/dynamite/internal/layers"
	"github.com/dynamite-ml/dynamite/model"
	"github.com/dynamite-ml/dynamite/tensor"
)

// Option adjusts layer construction.
type Option = layers.Option

// WithRand sets the random source used to initialize parameters, so the
// run configuration's seed can be threaded in explicitly. The default is
// the shared math/rand source.
func WithRand(rng *rand.Rand) Option {
	return layers.WithRand(rng)
}

// Dense builds a fully connected layer y = activation(W x + b) with
// Xavier-initialized weight "W" [out, in] and zero bias "b" [out]. A nil
// activation means identity.
func Dense[B tensor.Backend](in, out int, activation func(model.Value[B]) model.Value[B], backend B, opts ...Option) *model.Unary[B] {
	return layers.Dense(in, out, activation, backend, opts...)
}

// Embedding builds a lookup layer mapping token ids to rows of the
// embedding matrix "E" [vocab, dim].
func Embedding[B tensor.Backend](vocab, dim int, backend B, opts ...Option) *model.Unary[B] {
	return layers.Embedding(vocab, dim, backend, opts...)
}

// Sequential chains models in order, attaching their registries
// auto-numbered "[0]", "[1]", ...
func Sequential[B tensor.Backend](models ...*model.Unary[B]) *model.Unary[B] {
	return layers.Sequential(models...)
}

// Tanh is a stateless elementwise tanh model.
func Tanh[B tensor.Backend]() *model.Unary[B] {
	return layers.Tanh[B]()
}

// Sigmoid is a stateless elementwise sigmoid model.
func Sigmoid[B tensor.Backend]() *model.Unary[B] {
	return layers.Sigmoid[B]()
}

// Xavier initializes a tensor with the Glorot uniform distribution. A nil
// rng draws from the shared math/rand source.
func Xavier[B tensor.Backend](rng *rand.Rand, fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return layers.Xavier(rng, fanIn, fanOut, shape, backend)
}
