// Copyright 2026 The Dynamite Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package model provides the public API for Dynamite model composition:
// parameter registries, model wrappers of every arity, batch combinators,
// the broadcasting adapter, and checkpoint save/restore.
//
// Example:
//
//	backend := cpu.New()
//	embed := layers.Embedding(vocab, dim, backend)
//	head := layers.Dense(dim, classes, nil, backend)
//	m := embed.Then(head)
//
//	outputs := model.Map(m).Forward(batch)
//	pooled := model.Sum(outputs)
//	_ = m.Save("model.dynm")
package model

import (
	"github.com/dynamite-ml/dynamite/internal/model"
	"github.com/dynamite-ml/dynamite/tensor"
)

// Value is the node type flowing through models: a float32 tensor on
// backend B.
type Value[B tensor.Backend] = model.Value[B]

// Parameter is a named trainable tensor.
type Parameter[B tensor.Backend] = model.Parameter[B]

// Params is a registry of named parameters and named nested registries.
type Params[B tensor.Backend] = model.Params[B]

// Named pairs a nested registry with the name it is attached under.
type Named[B tensor.Backend] = model.Named[B]

// Model is anything that exposes a parameter registry.
type Model[B tensor.Backend] = model.Model[B]

// Option configures a model's registry at construction time.
type Option[B tensor.Backend] = model.Option[B]

// Model wrapper arity variants.
type (
	Unary[B tensor.Backend]      = model.Unary[B]
	Binary[B tensor.Backend]     = model.Binary[B]
	Ternary[B tensor.Backend]    = model.Ternary[B]
	Quaternary[B tensor.Backend] = model.Quaternary[B]
	UnarySeq[B tensor.Backend]   = model.UnarySeq[B]
	BinarySeq[B tensor.Backend]  = model.BinarySeq[B]
	UnaryFold[B tensor.Backend]  = model.UnaryFold[B]
	BinaryFold[B tensor.Backend] = model.BinaryFold[B]
)

// Broadcasting adapts a single-item model for single-or-sequence call
// sites.
type Broadcasting[B tensor.Backend] = model.Broadcasting[B]

// NewParameter creates a named parameter wrapping an initialized tensor.
func NewParameter[B tensor.Backend](name string, t Value[B]) *Parameter[B] {
	return model.NewParameter(name, t)
}

// NewParams builds a registry from parameters and nested registries.
func NewParams[B tensor.Backend](parameters []*Parameter[B], nested ...Named[B]) *Params[B] {
	return model.NewParams(parameters, nested...)
}

// WithParameters attaches directly held parameters.
func WithParameters[B tensor.Backend](parameters ...*Parameter[B]) Option[B] {
	return model.WithParameters(parameters...)
}

// WithNested attaches a component model's registry under an explicit name.
func WithNested[B tensor.Backend](name string, sub Model[B]) Option[B] {
	return model.WithNested[B](name, sub)
}

// WithModels attaches component models' registries auto-named "[0]",
// "[1]", ... in order.
func WithModels[B tensor.Backend](subs ...Model[B]) Option[B] {
	return model.WithModels(subs...)
}

// Model constructors for each arity.

func NewUnary[B tensor.Backend](fn func(Value[B]) Value[B], opts ...Option[B]) *Unary[B] {
	return model.NewUnary(fn, opts...)
}

func NewBinary[B tensor.Backend](fn func(Value[B], Value[B]) Value[B], opts ...Option[B]) *Binary[B] {
	return model.NewBinary(fn, opts...)
}

func NewTernary[B tensor.Backend](fn func(Value[B], Value[B], Value[B]) Value[B], opts ...Option[B]) *Ternary[B] {
	return model.NewTernary(fn, opts...)
}

func NewQuaternary[B tensor.Backend](fn func(Value[B], Value[B], Value[B], Value[B]) Value[B], opts ...Option[B]) *Quaternary[B] {
	return model.NewQuaternary(fn, opts...)
}

func NewUnarySeq[B tensor.Backend](fn func([]Value[B]) []Value[B], opts ...Option[B]) *UnarySeq[B] {
	return model.NewUnarySeq(fn, opts...)
}

func NewBinarySeq[B tensor.Backend](fn func([]Value[B], []Value[B]) []Value[B], opts ...Option[B]) *BinarySeq[B] {
	return model.NewBinarySeq(fn, opts...)
}

func NewUnaryFold[B tensor.Backend](fn func([]Value[B]) Value[B], opts ...Option[B]) *UnaryFold[B] {
	return model.NewUnaryFold(fn, opts...)
}

func NewBinaryFold[B tensor.Backend](fn func([]Value[B], []Value[B]) Value[B], opts ...Option[B]) *BinaryFold[B] {
	return model.NewBinaryFold(fn, opts...)
}

// Map lifts a single-item model over a sequence.
func Map[B tensor.Backend](f *Unary[B]) *UnarySeq[B] {
	return model.Map(f)
}

// MapPair lifts a two-item model elementwise over two equal-length
// sequences.
func MapPair[B tensor.Backend](f *Binary[B]) *BinarySeq[B] {
	return model.MapPair(f)
}

// MapPairIndexed is MapPair with the element index passed to f as an
// explicit third argument.
func MapPairIndexed[B tensor.Backend](f *Ternary[B], index func(i int) Value[B]) *BinarySeq[B] {
	return model.MapPairIndexed(f, index)
}

// MapBatch lifts a sequence model over a batch of sequences.
func MapBatch[B tensor.Backend](f *UnarySeq[B]) func(batch [][]Value[B]) [][]Value[B] {
	return model.MapBatch(f)
}

// Sum computes the elementwise sum of a non-empty sequence of same-shaped
// tensors as one batched operation.
func Sum[B tensor.Backend](xs []Value[B]) Value[B] {
	return model.Sum(xs)
}

// SumSeqs flattens a sequence of sequences and sums all elements.
func SumSeqs[B tensor.Backend](seqs [][]Value[B]) Value[B] {
	return model.SumSeqs(seqs)
}

// Broadcast wraps a unary model so one call site can serve both a single
// value and a sequence.
func Broadcast[B tensor.Backend](f *Unary[B]) *Broadcasting[B] {
	return model.Broadcast(f)
}

// Numbered wraps registries in bracketed positional names starting at the
// given offset.
func Numbered[B tensor.Backend](offset int, registries ...*Params[B]) []Named[B] {
	return model.Numbered(offset, registries...)
}
