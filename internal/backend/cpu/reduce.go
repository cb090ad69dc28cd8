package cpu

import (
	"fmt"

	"github.com/dynamite-ml/dynamite/internal/tensor"
)

// SumDim sums tensor elements along the specified dimension.
//
// Supports negative dim indexing. With keepDim the reduced dimension stays
// with size 1; without it the dimension is removed.
func (c *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("sumdim: dimension %d out of range for %dD tensor", dim, ndim))
	}

	var outShape tensor.Shape
	if keepDim {
		outShape = shape.Clone()
		outShape[dim] = 1
	} else {
		outShape = make(tensor.Shape, 0, ndim-1)
		outShape = append(outShape, shape[:dim]...)
		outShape = append(outShape, shape[dim+1:]...)
	}

	result, err := tensor.NewRaw(outShape, x.DType(), c.device)
	if err != nil {
		panic(fmt.Sprintf("sumdim: %v", err))
	}

	// Collapse the tensor to [outer, reduced, inner] and accumulate.
	outer := 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	reduced := shape[dim]
	inner := 1
	for d := dim + 1; d < ndim; d++ {
		inner *= shape[d]
	}

	switch x.DType() {
	case tensor.Float32:
		src, dst := x.AsFloat32(), result.AsFloat32()
		for o := 0; o < outer; o++ {
			for r := 0; r < reduced; r++ {
				base := (o*reduced + r) * inner
				for i := 0; i < inner; i++ {
					dst[o*inner+i] += src[base+i]
				}
			}
		}
	case tensor.Float64:
		src, dst := x.AsFloat64(), result.AsFloat64()
		for o := 0; o < outer; o++ {
			for r := 0; r < reduced; r++ {
				base := (o*reduced + r) * inner
				for i := 0; i < inner; i++ {
					dst[o*inner+i] += src[base+i]
				}
			}
		}
	default:
		panic(fmt.Sprintf("sumdim: unsupported dtype %s (only float32/float64 supported)", x.DType()))
	}

	return result
}
