// Package cpu implements the pure-Go reference backend.
package cpu

import (
	"fmt"

	"github.com/dynamite-ml/dynamite/internal/tensor"
)

// CPUBackend implements tensor operations on the CPU.
type CPUBackend struct {
	device tensor.Device
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{device: tensor.CPU}
}

// Name returns the backend name.
func (c *CPUBackend) Name() string { return "CPU" }

// Device returns the compute device.
func (c *CPUBackend) Device() tensor.Device { return c.device }

// Add performs element-wise addition with broadcasting.
func (c *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binary("add", a, b,
		func(x, y float32) float32 { return x + y },
		func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (c *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binary("sub", a, b,
		func(x, y float32) float32 { return x - y },
		func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (c *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binary("mul", a, b,
		func(x, y float32) float32 { return x * y },
		func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (c *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binary("div", a, b,
		func(x, y float32) float32 { return x / y },
		func(x, y float64) float64 { return x / y })
}

// binary applies an element-wise binary op with NumPy-style broadcasting.
func (c *CPUBackend) binary(op string, a, b *tensor.RawTensor,
	f32 func(x, y float32) float32, f64 func(x, y float64) float64) *tensor.RawTensor {

	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch: %s vs %s", op, a.DType(), b.DType()))
	}

	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}

	result, err := tensor.NewRaw(outShape, a.DType(), c.device)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}

	switch a.DType() {
	case tensor.Float32:
		out, xs, ys := result.AsFloat32(), a.AsFloat32(), b.AsFloat32()
		if !needsBroadcast {
			for i := range out {
				out[i] = f32(xs[i], ys[i])
			}
		} else {
			outStrides := outShape.ComputeStrides()
			for i := range out {
				xi := broadcastOffset(i, outShape, outStrides, a.Shape(), a.Strides())
				yi := broadcastOffset(i, outShape, outStrides, b.Shape(), b.Strides())
				out[i] = f32(xs[xi], ys[yi])
			}
		}
	case tensor.Float64:
		out, xs, ys := result.AsFloat64(), a.AsFloat64(), b.AsFloat64()
		if !needsBroadcast {
			for i := range out {
				out[i] = f64(xs[i], ys[i])
			}
		} else {
			outStrides := outShape.ComputeStrides()
			for i := range out {
				xi := broadcastOffset(i, outShape, outStrides, a.Shape(), a.Strides())
				yi := broadcastOffset(i, outShape, outStrides, b.Shape(), b.Strides())
				out[i] = f64(xs[xi], ys[yi])
			}
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, a.DType()))
	}

	return result
}

// broadcastOffset maps a flat index in the broadcast output to the flat index
// of an operand, treating size-1 operand dimensions as repeated.
func broadcastOffset(i int, outShape tensor.Shape, outStrides []int, opShape tensor.Shape, opStrides []int) int {
	off := 0
	shift := len(outShape) - len(opShape)
	for d := range outShape {
		od := d - shift
		if od < 0 || opShape[od] == 1 {
			continue
		}
		coord := i / outStrides[d] % outShape[d]
		off += coord * opStrides[od]
	}
	return off
}
