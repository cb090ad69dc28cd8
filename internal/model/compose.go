package model

// Then composes two unary models into one: the result applies m, then
// feeds its output into next. The composite's registry nests the operands
// under "f" (first) and "g" (second), so the full tree stays walkable.
func (m *Unary[B]) Then(next *Unary[B]) *Unary[B] {
	return NewUnary(func(x Value[B]) Value[B] {
		return next.Forward(m.Forward(x))
	}, WithNested[B]("f", m), WithNested[B]("g", next))
}
