package model

import (
	"fmt"

	"github.com/dynamite-ml/dynamite/internal/tensor"
)

// Map lifts a single-item model to a sequence model: the result applies f
// independently to each element, preserving order and length. The lifted
// model nests f's registry under "f".
func Map[B tensor.Backend](f *Unary[B]) *UnarySeq[B] {
	return NewUnarySeq(func(xs []Value[B]) []Value[B] {
		out := make([]Value[B], len(xs))
		for i, x := range xs {
			out[i] = f.Forward(x)
		}
		return out
	}, WithNested[B]("f", f))
}

// MapPair lifts a two-item model elementwise over two sequences. The
// sequences must have equal length; a mismatch panics before any element
// is computed.
func MapPair[B tensor.Backend](f *Binary[B]) *BinarySeq[B] {
	return NewBinarySeq(func(xs, ys []Value[B]) []Value[B] {
		if len(xs) != len(ys) {
			panic(fmt.Sprintf("model: MapPair length mismatch: %d vs %d", len(xs), len(ys)))
		}
		out := make([]Value[B], len(xs))
		for i := range xs {
			out[i] = f.Forward(xs[i], ys[i])
		}
		return out
	}, WithNested[B]("f", f))
}

// MapPairIndexed is MapPair for computations that need to know which
// element they are processing: f receives the in-progress index as an
// explicit argument rather than through any ambient state.
func MapPairIndexed[B tensor.Backend](f *Ternary[B], index func(i int) Value[B]) *BinarySeq[B] {
	return NewBinarySeq(func(xs, ys []Value[B]) []Value[B] {
		if len(xs) != len(ys) {
			panic(fmt.Sprintf("model: MapPairIndexed length mismatch: %d vs %d", len(xs), len(ys)))
		}
		out := make([]Value[B], len(xs))
		for i := range xs {
			out[i] = f.Forward(xs[i], ys[i], index(i))
		}
		return out
	}, WithNested[B]("f", f))
}

// MapBatch lifts a sequence-to-sequence model to operate on a batch of
// sequences, applying it independently to each batch item.
func MapBatch[B tensor.Backend](f *UnarySeq[B]) func(batch [][]Value[B]) [][]Value[B] {
	return func(batch [][]Value[B]) [][]Value[B] {
		out := make([][]Value[B], len(batch))
		for i, seq := range batch {
			out[i] = f.Forward(seq)
		}
		return out
	}
}

// Sum computes the elementwise sum of a non-empty sequence of same-shaped
// tensors as one batched operation: stack along a new trailing axis, then
// reduce it away. Panics on an empty sequence.
func Sum[B tensor.Backend](xs []Value[B]) Value[B] {
	if len(xs) == 0 {
		panic("model: Sum of empty sequence")
	}
	if len(xs) == 1 {
		return xs[0]
	}
	rank := len(xs[0].Shape())
	stacked := make([]Value[B], len(xs))
	for i, x := range xs {
		stacked[i] = x.Unsqueeze(rank)
	}
	return tensor.Cat(stacked, rank).SumDim(rank, false)
}

// SumSeqs flattens a sequence of sequences and sums all elements.
func SumSeqs[B tensor.Backend](seqs [][]Value[B]) Value[B] {
	var flat []Value[B]
	for _, seq := range seqs {
		flat = append(flat, seq...)
	}
	return Sum(flat)
}
