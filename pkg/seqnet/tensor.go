// Package seqnet implements a minimal sequential neural network: dense
// float32 tensors, a handful of layer types (Conv2D, MaxPool2D, Flatten,
// Dense, Dropout) with forward-pass inference, and a JSON checkpoint
// format whose weights are stored as named datasets in nested groups.
//
// The package is inference-only. There is no autograd, no training loop
// and no batching; inputs are single images in HWC layout.
package seqnet

import (
	"fmt"
	"math"
	"math/rand"
)

// Tensor is a dense float32 array with an explicit shape. Data is stored
// flat in row-major order (last dimension varies fastest).
type Tensor struct {
	Shape []int
	Data  []float32
}

// NewTensor allocates a zero-filled tensor with the given shape.
func NewTensor(shape ...int) *Tensor {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return &Tensor{
		Shape: append([]int(nil), shape...),
		Data:  make([]float32, n),
	}
}

// NewTensorFrom wraps existing data in a tensor, validating the element
// count against the shape.
func NewTensorFrom(data []float32, shape ...int) (*Tensor, error) {
	n := 1
	for _, d := range shape {
		n *= d
	}
	if len(data) != n {
		return nil, fmt.Errorf("seqnet: shape %v needs %d elements, got %d", shape, n, len(data))
	}
	return &Tensor{Shape: append([]int(nil), shape...), Data: data}, nil
}

// NumElems returns the total number of elements.
func (t *Tensor) NumElems() int {
	n := 1
	for _, d := range t.Shape {
		n *= d
	}
	return n
}

// NDim returns the number of dimensions.
func (t *Tensor) NDim() int { return len(t.Shape) }

// ShapeEquals reports whether the tensor has exactly the given shape.
func (t *Tensor) ShapeEquals(shape []int) bool {
	if len(t.Shape) != len(shape) {
		return false
	}
	for i, d := range shape {
		if t.Shape[i] != d {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	c := NewTensor(t.Shape...)
	copy(c.Data, t.Data)
	return c
}

// RandomTensor fills a new tensor with uniform values in [0, 1). Used for
// smoke-test inputs.
func RandomTensor(shape ...int) *Tensor {
	t := NewTensor(shape...)
	for i := range t.Data {
		t.Data[i] = rand.Float32()
	}
	return t
}

// glorotUniform fills the tensor with Glorot-uniform random values, the
// same initialization a freshly constructed Keras layer would get.
func glorotUniform(t *Tensor, fanIn, fanOut int) {
	limit := float32(math.Sqrt(6.0 / float64(fanIn+fanOut)))
	for i := range t.Data {
		t.Data[i] = (rand.Float32()*2 - 1) * limit
	}
}
