// Copyright 2026 The Dynamite Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/dynamite-ml/dynamite/internal/tensor"

// Backend is the interface to the compute engine that executes all
// tensor operations. Dynamite itself contains no numerical kernels:
// everything a model computes goes through a Backend.
//
// Implementations:
//   - backend/cpu: pure Go reference backend
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y := x.Tanh() // runs backend.Tanh
type Backend = tensor.Backend
