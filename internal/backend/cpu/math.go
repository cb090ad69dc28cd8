package cpu

import (
	"fmt"
	"math"

	"github.com/dynamite-ml/dynamite/internal/tensor"
)

// AddScalar adds a scalar to every element.
func (c *CPUBackend) AddScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return c.unary("addscalar", x, func(v float64) float64 { return v + scalar })
}

// MulScalar multiplies every element by a scalar.
func (c *CPUBackend) MulScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return c.unary("mulscalar", x, func(v float64) float64 { return v * scalar })
}

// Exp computes the element-wise exponential.
func (c *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unary("exp", x, math.Exp)
}

// Log computes the element-wise natural logarithm.
func (c *CPUBackend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unary("log", x, math.Log)
}

// Sqrt computes the element-wise square root.
func (c *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unary("sqrt", x, math.Sqrt)
}

// Tanh computes the element-wise hyperbolic tangent.
func (c *CPUBackend) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unary("tanh", x, math.Tanh)
}

// Sigmoid computes the element-wise logistic function.
func (c *CPUBackend) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unary("sigmoid", x, func(v float64) float64 { return 1.0 / (1.0 + math.Exp(-v)) })
}

// unary applies an element-wise unary op, computed in float64.
func (c *CPUBackend) unary(op string, x *tensor.RawTensor, f func(v float64) float64) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), c.device)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}

	switch x.DType() {
	case tensor.Float32:
		out, xs := result.AsFloat32(), x.AsFloat32()
		for i := range out {
			out[i] = float32(f(float64(xs[i])))
		}
	case tensor.Float64:
		out, xs := result.AsFloat64(), x.AsFloat64()
		for i := range out {
			out[i] = f(xs[i])
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, x.DType()))
	}

	return result
}
