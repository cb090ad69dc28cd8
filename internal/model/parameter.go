package model

import (
	"github.com/dynamite-ml/dynamite/internal/tensor"
)

// Value is the node type flowing through models: a float32 tensor on
// backend B.
type Value[B tensor.Backend] = *tensor.Tensor[float32, B]

// Parameter is a named trainable tensor. The name identifies the parameter
// within its registry; the fully qualified name (dotted registry path) is
// implanted by diagnostic logging and used as the checkpoint key.
//
// Parameter values are mutated by the training loop of the engine, not by
// this layer.
type Parameter[B tensor.Backend] struct {
	name      string
	qualified string
	tensor    Value[B]
}

// NewParameter creates a named parameter wrapping an initialized tensor.
func NewParameter[B tensor.Backend](name string, t Value[B]) *Parameter[B] {
	return &Parameter[B]{name: name, tensor: t}
}

// Name returns the parameter's name within its registry.
func (p *Parameter[B]) Name() string { return p.name }

// QualifiedName returns the dotted registry path of the parameter, if one
// has been implanted (by Params.Log or checkpointing); otherwise the plain
// name.
func (p *Parameter[B]) QualifiedName() string {
	if p.qualified != "" {
		return p.qualified
	}
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() Value[B] { return p.tensor }

// setQualified implants the full registry path for diagnostics.
func (p *Parameter[B]) setQualified(q string) { p.qualified = q }
