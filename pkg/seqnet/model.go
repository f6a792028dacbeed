package seqnet

import "fmt"

// Model is an ordered stack of layers with a fixed input shape (HWC).
type Model struct {
	InputShape []int
	Layers     []Layer
}

// NewModel creates an empty model for the given HWC input shape.
func NewModel(inputShape ...int) *Model {
	return &Model{InputShape: append([]int(nil), inputShape...)}
}

// Add appends a layer and returns the model for chaining.
func (m *Model) Add(l Layer) *Model {
	m.Layers = append(m.Layers, l)
	return m
}

// Forward runs the input through every layer in order.
func (m *Model) Forward(in *Tensor) (*Tensor, error) {
	if !in.ShapeEquals(m.InputShape) {
		return nil, fmt.Errorf("seqnet: model expects input shape %v, got %v", m.InputShape, in.Shape)
	}
	cur := in
	for _, l := range m.Layers {
		out, err := l.Forward(cur)
		if err != nil {
			return nil, fmt.Errorf("seqnet: layer %s: %w", l.Name(), err)
		}
		cur = out
	}
	return cur, nil
}

// Layer returns the layer with the given name, or nil.
func (m *Model) Layer(name string) Layer {
	for _, l := range m.Layers {
		if l.Name() == name {
			return l
		}
	}
	return nil
}

// WeightedLayers returns the layers that carry weights, in model order.
func (m *Model) WeightedLayers() []Layer {
	var out []Layer
	for _, l := range m.Layers {
		if len(l.Weights()) > 0 {
			out = append(out, l)
		}
	}
	return out
}

// OutputSize returns the width of the final Dense layer, or 0 when the
// model does not end in one.
func (m *Model) OutputSize() int {
	for i := len(m.Layers) - 1; i >= 0; i-- {
		if d, ok := m.Layers[i].(*Dense); ok {
			return d.Units
		}
	}
	return 0
}
