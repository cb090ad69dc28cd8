package model

import "github.com/dynamite-ml/dynamite/internal/tensor"

// Broadcasting adapts a single-item model so one call site can serve both
// a single value and a whole sequence. The sequence form loops the wrapped
// model over the elements, exactly as Map would.
type Broadcasting[B tensor.Backend] struct {
	Unary[B]
}

// Broadcast wraps a unary model in the dual-invocation adapter. The
// adapter shares the wrapped model's registry.
func Broadcast[B tensor.Backend](f *Unary[B]) *Broadcasting[B] {
	return &Broadcasting[B]{Unary[B]{base[B]{f.Params()}, f.Forward}}
}

// ForwardSeq applies the wrapped model to each element of a sequence.
func (m *Broadcasting[B]) ForwardSeq(xs []Value[B]) []Value[B] {
	out := make([]Value[B], len(xs))
	for i, x := range xs {
		out[i] = m.Forward(x)
	}
	return out
}

// Then composes broadcasting models, keeping the result broadcastable.
func (m *Broadcasting[B]) Then(next *Broadcasting[B]) *Broadcasting[B] {
	return Broadcast(m.Unary.Then(&next.Unary))
}
