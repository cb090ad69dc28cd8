package model

import (
	"io"

	"github.com/dynamite-ml/dynamite/internal/tensor"
)

// Model is anything that exposes a parameter registry. Every arity variant
// in this package satisfies it, which is what lets combinators attach
// their components as nested registries.
type Model[B tensor.Backend] interface {
	Params() *Params[B]
}

// Option configures a model's registry at construction time.
type Option[B tensor.Backend] func(*builder[B])

type builder[B tensor.Backend] struct {
	parameters []*Parameter[B]
	nested     []Named[B]
	numbered   int
}

// WithParameters attaches directly held parameters.
func WithParameters[B tensor.Backend](parameters ...*Parameter[B]) Option[B] {
	return func(b *builder[B]) {
		b.parameters = append(b.parameters, parameters...)
	}
}

// WithNested attaches a component model's registry under an explicit name.
func WithNested[B tensor.Backend](name string, sub Model[B]) Option[B] {
	return func(b *builder[B]) {
		b.nested = append(b.nested, Named[B]{Name: name, Params: sub.Params()})
	}
}

// WithModels attaches component models' registries in order, auto-named
// "[0]", "[1]", ... continuing from any previously attached numbered
// entries.
func WithModels[B tensor.Backend](subs ...Model[B]) Option[B] {
	return func(b *builder[B]) {
		for _, sub := range subs {
			b.nested = append(b.nested, Named[B]{
				Name:   numberedName(b.numbered),
				Params: sub.Params(),
			})
			b.numbered++
		}
	}
}

func buildParams[B tensor.Backend](opts []Option[B]) *Params[B] {
	var b builder[B]
	for _, opt := range opts {
		opt(&b)
	}
	return NewParams(b.parameters, b.nested...)
}

// base carries the registry surface shared by every arity variant.
type base[B tensor.Backend] struct {
	params *Params[B]
}

// Params returns the model's parameter registry.
func (m *base[B]) Params() *Params[B] { return m.params }

// Parameter looks up a directly held parameter by name. Panics if absent.
func (m *base[B]) Parameter(name string) *Parameter[B] { return m.params.Get(name) }

// Nested looks up a nested registry by name. Panics if absent.
func (m *base[B]) Nested(name string) *Params[B] { return m.params.Nested(name) }

// Parameters returns every parameter reachable from the model, collected
// depth-first and de-duplicated by identity.
func (m *base[B]) Parameters() []*Parameter[B] { return m.params.Collect() }

// LogParameters dumps the registry tree to w and implants qualified names.
func (m *base[B]) LogParameters(w io.Writer) { m.params.Log(w) }

// Unary wraps a one-input forward computation.
type Unary[B tensor.Backend] struct {
	base[B]
	fn func(Value[B]) Value[B]
}

// NewUnary builds a unary model from a forward function. With no options
// the model carries an empty registry.
func NewUnary[B tensor.Backend](fn func(Value[B]) Value[B], opts ...Option[B]) *Unary[B] {
	return &Unary[B]{base[B]{buildParams(opts)}, fn}
}

// Forward applies the wrapped computation.
func (m *Unary[B]) Forward(x Value[B]) Value[B] { return m.fn(x) }

// Binary wraps a two-input forward computation.
type Binary[B tensor.Backend] struct {
	base[B]
	fn func(Value[B], Value[B]) Value[B]
}

func NewBinary[B tensor.Backend](fn func(Value[B], Value[B]) Value[B], opts ...Option[B]) *Binary[B] {
	return &Binary[B]{base[B]{buildParams(opts)}, fn}
}

func (m *Binary[B]) Forward(x, y Value[B]) Value[B] { return m.fn(x, y) }

// Ternary wraps a three-input forward computation.
type Ternary[B tensor.Backend] struct {
	base[B]
	fn func(Value[B], Value[B], Value[B]) Value[B]
}

func NewTernary[B tensor.Backend](fn func(Value[B], Value[B], Value[B]) Value[B], opts ...Option[B]) *Ternary[B] {
	return &Ternary[B]{base[B]{buildParams(opts)}, fn}
}

func (m *Ternary[B]) Forward(x, y, z Value[B]) Value[B] { return m.fn(x, y, z) }

// Quaternary wraps a four-input forward computation.
type Quaternary[B tensor.Backend] struct {
	base[B]
	fn func(Value[B], Value[B], Value[B], Value[B]) Value[B]
}

func NewQuaternary[B tensor.Backend](fn func(Value[B], Value[B], Value[B], Value[B]) Value[B], opts ...Option[B]) *Quaternary[B] {
	return &Quaternary[B]{base[B]{buildParams(opts)}, fn}
}

func (m *Quaternary[B]) Forward(w, x, y, z Value[B]) Value[B] { return m.fn(w, x, y, z) }

// UnarySeq wraps a sequence-to-sequence forward computation.
type UnarySeq[B tensor.Backend] struct {
	base[B]
	fn func([]Value[B]) []Value[B]
}

func NewUnarySeq[B tensor.Backend](fn func([]Value[B]) []Value[B], opts ...Option[B]) *UnarySeq[B] {
	return &UnarySeq[B]{base[B]{buildParams(opts)}, fn}
}

func (m *UnarySeq[B]) Forward(xs []Value[B]) []Value[B] { return m.fn(xs) }

// BinarySeq wraps a two-sequence forward computation.
type BinarySeq[B tensor.Backend] struct {
	base[B]
	fn func([]Value[B], []Value[B]) []Value[B]
}

func NewBinarySeq[B tensor.Backend](fn func([]Value[B], []Value[B]) []Value[B], opts ...Option[B]) *BinarySeq[B] {
	return &BinarySeq[B]{base[B]{buildParams(opts)}, fn}
}

func (m *BinarySeq[B]) Forward(xs, ys []Value[B]) []Value[B] { return m.fn(xs, ys) }

// UnaryFold wraps a computation reducing a sequence to a single value,
// such as the final state of a recurrence.
type UnaryFold[B tensor.Backend] struct {
	base[B]
	fn func([]Value[B]) Value[B]
}

func NewUnaryFold[B tensor.Backend](fn func([]Value[B]) Value[B], opts ...Option[B]) *UnaryFold[B] {
	return &UnaryFold[B]{base[B]{buildParams(opts)}, fn}
}

func (m *UnaryFold[B]) Forward(xs []Value[B]) Value[B] { return m.fn(xs) }

// BinaryFold wraps a computation reducing two sequences to a single value,
// such as an attention readout over a pair of sequences.
type BinaryFold[B tensor.Backend] struct {
	base[B]
	fn func([]Value[B], []Value[B]) Value[B]
}

func NewBinaryFold[B tensor.Backend](fn func([]Value[B], []Value[B]) Value[B], opts ...Option[B]) *BinaryFold[B] {
	return &BinaryFold[B]{base[B]{buildParams(opts)}, fn}
}

func (m *BinaryFold[B]) Forward(xs, ys []Value[B]) Value[B] { return m.fn(xs, ys) }
