// Package classifier wraps the lesion model: it loads a checkpoint when
// one is available, runs inference, and formats probability distributions
// into ranked prediction results.
package classifier

import (
	"fmt"
	"math/rand"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/dermoscan/dermoscan/pkg/seqnet"
)

// Input dimensions used for the simulated path when no model is loaded.
const (
	DefaultInputHeight = 224
	DefaultInputWidth  = 224
)

// Classifier produces a probability distribution over the fixed label set
// for a preprocessed image tensor. The model reference is set once at
// construction and read-only afterwards.
type Classifier struct {
	model *seqnet.Model
}

// New loads the checkpoint at modelPath. A missing or unusable checkpoint
// is not fatal: the classifier falls back to simulated predictions, which
// are flagged as such in every result.
func New(modelPath string) *Classifier {
	c := &Classifier{}

	if modelPath == "" {
		log.Warn("[Classifier] No model path configured - predictions will be simulated")
		return c
	}
	if _, err := os.Stat(modelPath); err != nil {
		log.Warn("[Classifier] Model file not found at ", modelPath, " - predictions will be simulated")
		return c
	}

	model, err := seqnet.Load(modelPath)
	if err != nil {
		log.Warn("[Classifier] Couldn't load model: ", err.Error(), " - predictions will be simulated")
		return c
	}
	if model.OutputSize() != len(Labels) {
		log.Warnf("[Classifier] Model predicts %d classes but %d labels are defined - predictions will be simulated",
			model.OutputSize(), len(Labels))
		return c
	}

	c.model = model
	log.Info("[Classifier] Model loaded from ", modelPath)
	return c
}

// NewWithModel wraps an already constructed model. Used by tests and the
// bootstrap tool.
func NewWithModel(model *seqnet.Model) *Classifier {
	return &Classifier{model: model}
}

// ModelLoaded reports whether real inference is available.
func (c *Classifier) ModelLoaded() bool { return c.model != nil }

// InputSize returns the height and width the preprocessor should resize
// to: the loaded model's input shape, or the default demo size when
// running simulated.
func (c *Classifier) InputSize() (height, width int) {
	if c.model != nil {
		return c.model.InputShape[0], c.model.InputShape[1]
	}
	return DefaultInputHeight, DefaultInputWidth
}

// Classify returns a ranked prediction for the given input tensor. With
// no model loaded the distribution is uniformly random, normalized to sum
// to one, and marked Simulated - a placeholder, not a fallback inference.
func (c *Classifier) Classify(in *seqnet.Tensor) (*Prediction, error) {
	if c.model == nil {
		log.Warn("[Classifier] Using simulated prediction - model not loaded")
		return newPrediction(simulatedDistribution(), true), nil
	}

	out, err := c.model.Forward(in)
	if err != nil {
		return nil, fmt.Errorf("classifier: inference failed: %w", err)
	}

	probs := make([]float64, len(out.Data))
	for i, v := range out.Data {
		probs[i] = float64(v)
	}
	return newPrediction(probs, false), nil
}

func simulatedDistribution() []float64 {
	probs := make([]float64, len(Labels))
	var sum float64
	for i := range probs {
		probs[i] = rand.Float64()
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}
