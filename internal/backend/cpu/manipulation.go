package cpu

import (
	"fmt"

	"github.com/dynamite-ml/dynamite/internal/tensor"
)

// Cat concatenates tensors along the specified dimension.
//
// All tensors must have the same shape except along the concatenation
// dimension. Supports negative dim indexing (-1 = last dimension).
func (c *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: at least one tensor required")
	}

	shape := tensors[0].Shape()
	ndim := len(shape)
	dtype := tensors[0].DType()

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("cat: dimension %d out of range for %dD tensor", dim, ndim))
	}

	totalDim := 0
	for i, t := range tensors {
		tShape := t.Shape()
		if len(tShape) != ndim {
			panic(fmt.Sprintf("cat: tensor %d has %d dimensions, expected %d", i, len(tShape), ndim))
		}
		if t.DType() != dtype {
			panic(fmt.Sprintf("cat: tensor %d has dtype %s, expected %s", i, t.DType(), dtype))
		}
		for d := 0; d < ndim; d++ {
			if d == dim {
				totalDim += tShape[d]
			} else if tShape[d] != shape[d] {
				panic(fmt.Sprintf("cat: tensor %d dimension %d is %d, expected %d", i, d, tShape[d], shape[d]))
			}
		}
	}

	outShape := shape.Clone()
	outShape[dim] = totalDim

	result, err := tensor.NewRaw(outShape, dtype, c.device)
	if err != nil {
		panic(fmt.Sprintf("cat: %v", err))
	}

	// Copy block-wise: each input contributes contiguous runs of
	// innerSize*dim bytes per outer slice.
	elemSize := dtype.Size()
	outerSize := 1
	for d := 0; d < dim; d++ {
		outerSize *= shape[d]
	}
	innerSize := elemSize
	for d := dim + 1; d < ndim; d++ {
		innerSize *= shape[d]
	}

	dst := result.Data()
	outRowBytes := totalDim * innerSize
	dstOff := 0
	for _, t := range tensors {
		rowBytes := t.Shape()[dim] * innerSize
		src := t.Data()
		for o := 0; o < outerSize; o++ {
			copy(dst[o*outRowBytes+dstOff:o*outRowBytes+dstOff+rowBytes], src[o*rowBytes:(o+1)*rowBytes])
		}
		dstOff += rowBytes
	}

	return result
}

// Embedding looks up rows of weight [vocab, dim] by index, producing a
// [len(indices), dim] tensor. Indices may be int32, int64, or float32.
func (c *CPUBackend) Embedding(weight, indices *tensor.RawTensor) *tensor.RawTensor {
	wShape := weight.Shape()
	if len(wShape) != 2 {
		panic(fmt.Sprintf("embedding: weight must be 2D [vocab, dim], got %v", wShape))
	}
	vocab, dim := wShape[0], wShape[1]

	n := indices.NumElements()
	rows := make([]int, n)
	switch indices.DType() {
	case tensor.Int32:
		for i, v := range indices.AsInt32() {
			rows[i] = int(v)
		}
	case tensor.Int64:
		for i, v := range indices.AsInt64() {
			rows[i] = int(v)
		}
	case tensor.Float32:
		for i, v := range indices.AsFloat32() {
			rows[i] = int(v)
		}
	default:
		panic(fmt.Sprintf("embedding: unsupported index dtype %s", indices.DType()))
	}

	result, err := tensor.NewRaw(tensor.Shape{n, dim}, weight.DType(), c.device)
	if err != nil {
		panic(fmt.Sprintf("embedding: %v", err))
	}

	rowBytes := dim * weight.DType().Size()
	src, dst := weight.Data(), result.Data()
	for i, row := range rows {
		if row < 0 || row >= vocab {
			panic(fmt.Sprintf("embedding: index %d out of range for vocab size %d", row, vocab))
		}
		copy(dst[i*rowBytes:(i+1)*rowBytes], src[row*rowBytes:(row+1)*rowBytes])
	}

	return result
}
