package classifier

import (
	"fmt"

	"github.com/dermoscan/dermoscan/pkg/seqnet"
)

// Reference input dimensions for the lesion network. The convolutional
// stack was exported for 75x100 RGB crops; images are resized to this
// shape before inference when a model is loaded.
const (
	ModelInputHeight = 75
	ModelInputWidth  = 100
)

// LesionNet builds the lesion classification architecture: three
// Conv2D+MaxPool pairs (32, 64, 128 filters), a Flatten, Dense(256) with
// dropout 0.5, Dense(128) with dropout 0.3 and a softmax classification
// head one unit wide per label. All weights are freshly initialized.
func LesionNet(height, width, numClasses int) (*seqnet.Model, error) {
	if height < 8 || width < 8 {
		return nil, fmt.Errorf("classifier: input %dx%d too small for three pooling stages", height, width)
	}
	if numClasses < 2 {
		return nil, fmt.Errorf("classifier: need at least 2 classes, got %d", numClasses)
	}

	// spatial size after the three 2x2 pools
	h, w := height/2/2/2, width/2/2/2
	flat := h * w * 128

	m := seqnet.NewModel(height, width, 3)
	m.Add(seqnet.NewConv2D("conv2d_1", 32, 3, 3, true))
	m.Add(seqnet.NewMaxPool2D("max_pool_1", 2))
	m.Add(seqnet.NewConv2D("conv2d_2", 64, 3, 32, true))
	m.Add(seqnet.NewMaxPool2D("max_pool_2", 2))
	m.Add(seqnet.NewConv2D("conv2d_3", 128, 3, 64, true))
	m.Add(seqnet.NewMaxPool2D("max_pool_3", 2))
	m.Add(seqnet.NewFlatten("flatten"))
	m.Add(seqnet.NewDense("dense_1", 256, flat, seqnet.ActivationReLU))
	m.Add(seqnet.NewDropout("dropout_1", 0.5))
	m.Add(seqnet.NewDense("dense_2", 128, 256, seqnet.ActivationReLU))
	m.Add(seqnet.NewDropout("dropout_2", 0.3))
	m.Add(seqnet.NewDense("output", numClasses, 128, seqnet.ActivationSoftmax))
	return m, nil
}
