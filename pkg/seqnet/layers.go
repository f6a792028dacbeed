package seqnet

import (
	"fmt"
	"math"
)

// Layer is a single step of the forward pass. Layers that carry weights
// expose them through Weights/SetWeights; stateless layers return nil.
type Layer interface {
	Name() string
	Forward(in *Tensor) (*Tensor, error)
	// Weights returns the layer's weight tensors in a fixed order
	// (kernel first, bias second), or nil for stateless layers.
	Weights() []*Tensor
	// SetWeights replaces the layer's weights. The shapes must match the
	// existing tensors exactly.
	SetWeights(w []*Tensor) error
}

// Conv2D is a 2-D convolution with "same" padding, stride 1 and an
// optional ReLU activation. The kernel layout is (kh, kw, in, out).
type Conv2D struct {
	LayerName  string
	Filters    int
	KernelSize int
	InChannels int
	ReLU       bool

	Kernel *Tensor
	Bias   *Tensor
}

// NewConv2D creates a convolution layer with Glorot-initialized weights.
func NewConv2D(name string, filters, kernelSize, inChannels int, relu bool) *Conv2D {
	k := NewTensor(kernelSize, kernelSize, inChannels, filters)
	fan := kernelSize * kernelSize
	glorotUniform(k, fan*inChannels, fan*filters)
	return &Conv2D{
		LayerName:  name,
		Filters:    filters,
		KernelSize: kernelSize,
		InChannels: inChannels,
		ReLU:       relu,
		Kernel:     k,
		Bias:       NewTensor(filters),
	}
}

func (l *Conv2D) Name() string { return l.LayerName }

func (l *Conv2D) Forward(in *Tensor) (*Tensor, error) {
	if in.NDim() != 3 {
		return nil, fmt.Errorf("seqnet: %s expects HWC input, got shape %v", l.LayerName, in.Shape)
	}
	h, w, c := in.Shape[0], in.Shape[1], in.Shape[2]
	if c != l.InChannels {
		return nil, fmt.Errorf("seqnet: %s expects %d input channels, got %d", l.LayerName, l.InChannels, c)
	}

	out := NewTensor(h, w, l.Filters)
	ks := l.KernelSize
	pad := ks / 2

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for f := 0; f < l.Filters; f++ {
				sum := l.Bias.Data[f]
				for ky := 0; ky < ks; ky++ {
					sy := y + ky - pad
					if sy < 0 || sy >= h {
						continue
					}
					for kx := 0; kx < ks; kx++ {
						sx := x + kx - pad
						if sx < 0 || sx >= w {
							continue
						}
						for ci := 0; ci < c; ci++ {
							kIdx := ((ky*ks+kx)*c + ci) * l.Filters
							sum += in.Data[(sy*w+sx)*c+ci] * l.Kernel.Data[kIdx+f]
						}
					}
				}
				if l.ReLU && sum < 0 {
					sum = 0
				}
				out.Data[(y*w+x)*l.Filters+f] = sum
			}
		}
	}
	return out, nil
}

func (l *Conv2D) Weights() []*Tensor { return []*Tensor{l.Kernel, l.Bias} }

func (l *Conv2D) SetWeights(w []*Tensor) error {
	return assignWeights(l.LayerName, []*Tensor{l.Kernel, l.Bias}, w)
}

// MaxPool2D is a max-pooling layer with a square window and stride equal
// to the pool size. Trailing rows/columns that do not fill a window are
// dropped.
type MaxPool2D struct {
	LayerName string
	PoolSize  int
}

func NewMaxPool2D(name string, poolSize int) *MaxPool2D {
	return &MaxPool2D{LayerName: name, PoolSize: poolSize}
}

func (l *MaxPool2D) Name() string { return l.LayerName }

func (l *MaxPool2D) Forward(in *Tensor) (*Tensor, error) {
	if in.NDim() != 3 {
		return nil, fmt.Errorf("seqnet: %s expects HWC input, got shape %v", l.LayerName, in.Shape)
	}
	h, w, c := in.Shape[0], in.Shape[1], in.Shape[2]
	p := l.PoolSize
	oh, ow := h/p, w/p
	out := NewTensor(oh, ow, c)

	for y := 0; y < oh; y++ {
		for x := 0; x < ow; x++ {
			for ci := 0; ci < c; ci++ {
				best := float32(math.Inf(-1))
				for dy := 0; dy < p; dy++ {
					for dx := 0; dx < p; dx++ {
						v := in.Data[((y*p+dy)*w+(x*p+dx))*c+ci]
						if v > best {
							best = v
						}
					}
				}
				out.Data[(y*ow+x)*c+ci] = best
			}
		}
	}
	return out, nil
}

func (l *MaxPool2D) Weights() []*Tensor { return nil }
func (l *MaxPool2D) SetWeights(w []*Tensor) error { return nil }

// Flatten reshapes any input into a 1-D tensor.
type Flatten struct {
	LayerName string
}

func NewFlatten(name string) *Flatten { return &Flatten{LayerName: name} }

func (l *Flatten) Name() string { return l.LayerName }

func (l *Flatten) Forward(in *Tensor) (*Tensor, error) {
	out, err := NewTensorFrom(in.Data, in.NumElems())
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Flatten) Weights() []*Tensor { return nil }
func (l *Flatten) SetWeights(w []*Tensor) error { return nil }

// Activation names accepted by Dense.
const (
	ActivationReLU    = "relu"
	ActivationSoftmax = "softmax"
	ActivationLinear  = "linear"
)

// Dense is a fully connected layer. The kernel layout is (in, out).
type Dense struct {
	LayerName  string
	Units      int
	InFeatures int
	Activation string

	Kernel *Tensor
	Bias   *Tensor
}

func NewDense(name string, units, inFeatures int, activation string) *Dense {
	k := NewTensor(inFeatures, units)
	glorotUniform(k, inFeatures, units)
	return &Dense{
		LayerName:  name,
		Units:      units,
		InFeatures: inFeatures,
		Activation: activation,
		Kernel:     k,
		Bias:       NewTensor(units),
	}
}

func (l *Dense) Name() string { return l.LayerName }

func (l *Dense) Forward(in *Tensor) (*Tensor, error) {
	if in.NDim() != 1 || in.Shape[0] != l.InFeatures {
		return nil, fmt.Errorf("seqnet: %s expects %d input features, got shape %v", l.LayerName, l.InFeatures, in.Shape)
	}
	out := NewTensor(l.Units)
	for j := 0; j < l.Units; j++ {
		sum := l.Bias.Data[j]
		for i := 0; i < l.InFeatures; i++ {
			sum += in.Data[i] * l.Kernel.Data[i*l.Units+j]
		}
		out.Data[j] = sum
	}

	switch l.Activation {
	case ActivationReLU:
		for i, v := range out.Data {
			if v < 0 {
				out.Data[i] = 0
			}
		}
	case ActivationSoftmax:
		softmax(out.Data)
	}
	return out, nil
}

func (l *Dense) Weights() []*Tensor { return []*Tensor{l.Kernel, l.Bias} }

func (l *Dense) SetWeights(w []*Tensor) error {
	return assignWeights(l.LayerName, []*Tensor{l.Kernel, l.Bias}, w)
}

// Dropout is an identity at inference time; the rate is kept only so the
// architecture round-trips through checkpoints.
type Dropout struct {
	LayerName string
	Rate      float64
}

func NewDropout(name string, rate float64) *Dropout {
	return &Dropout{LayerName: name, Rate: rate}
}

func (l *Dropout) Name() string { return l.LayerName }
func (l *Dropout) Forward(in *Tensor) (*Tensor, error) { return in, nil }
func (l *Dropout) Weights() []*Tensor { return nil }
func (l *Dropout) SetWeights(w []*Tensor) error { return nil }

// assignWeights copies incoming tensors over the current ones, matching
// positionally. Fewer incoming tensors than slots is allowed (a kernel
// without a bias leaves the bias untouched); shape mismatches are errors.
func assignWeights(name string, dst, src []*Tensor) error {
	if len(src) > len(dst) {
		return fmt.Errorf("seqnet: %s has %d weight tensors, got %d", name, len(dst), len(src))
	}
	for i, s := range src {
		if s == nil {
			continue
		}
		if !dst[i].ShapeEquals(s.Shape) {
			return fmt.Errorf("seqnet: %s weight %d shape mismatch: have %v, got %v", name, i, dst[i].Shape, s.Shape)
		}
		copy(dst[i].Data, s.Data)
	}
	return nil
}

func softmax(v []float32) {
	maxV := v[0]
	for _, x := range v[1:] {
		if x > maxV {
			maxV = x
		}
	}
	var sum float64
	for i, x := range v {
		e := math.Exp(float64(x - maxV))
		v[i] = float32(e)
		sum += e
	}
	for i := range v {
		v[i] = float32(float64(v[i]) / sum)
	}
}
