package classifier

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dermoscan/dermoscan/pkg/seqnet"
)

func TestSimulatedDistributionSumsToOne(t *testing.T) {
	c := New("")
	require.False(t, c.ModelLoaded())

	pred, err := c.Classify(seqnet.RandomTensor(DefaultInputHeight, DefaultInputWidth, 3))
	require.NoError(t, err)

	assert.True(t, pred.Simulated)
	assert.Len(t, pred.Probabilities, len(Labels))

	var sum float64
	for _, s := range pred.Probabilities {
		assert.GreaterOrEqual(t, s.Probability, 0.0)
		sum += s.Probability
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestSimulatedPredictionCoversEveryLabelOnce(t *testing.T) {
	c := New("")
	pred, err := c.Classify(seqnet.RandomTensor(DefaultInputHeight, DefaultInputWidth, 3))
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, s := range pred.Probabilities {
		assert.True(t, IsLabel(s.Label), "unexpected label %q", s.Label)
		assert.False(t, seen[s.Label], "label %q listed twice", s.Label)
		seen[s.Label] = true
	}
	assert.Len(t, seen, len(Labels))
}

func TestClassifyHeadlineMatchesTopProbability(t *testing.T) {
	c := New("")
	pred, err := c.Classify(seqnet.RandomTensor(DefaultInputHeight, DefaultInputWidth, 3))
	require.NoError(t, err)

	assert.Equal(t, pred.Probabilities[0].Label, pred.Label)
	assert.Equal(t, pred.Probabilities[0].Probability, pred.Confidence)
	for i := 1; i < len(pred.Probabilities); i++ {
		assert.LessOrEqual(t, pred.Probabilities[i].Probability, pred.Probabilities[i-1].Probability)
	}
}

func TestConfidenceTiers(t *testing.T) {
	assert.Equal(t, TierLow, ConfidenceTier(0.1))
	assert.Equal(t, TierLow, ConfidenceTier(0.49))
	assert.Equal(t, TierMedium, ConfidenceTier(0.5))
	assert.Equal(t, TierMedium, ConfidenceTier(0.74))
	assert.Equal(t, TierHigh, ConfidenceTier(0.75))
	assert.Equal(t, TierHigh, ConfidenceTier(1.0))
}

func TestMissingModelFileFallsBackToSimulated(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "nope.json"))
	assert.False(t, c.ModelLoaded())

	h, w := c.InputSize()
	assert.Equal(t, DefaultInputHeight, h)
	assert.Equal(t, DefaultInputWidth, w)
}

func TestRealInferenceWithLoadedModel(t *testing.T) {
	model, err := LesionNet(16, 16, len(Labels))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, seqnet.Save(model, path))

	c := New(path)
	require.True(t, c.ModelLoaded())

	h, w := c.InputSize()
	assert.Equal(t, 16, h)
	assert.Equal(t, 16, w)

	pred, err := c.Classify(seqnet.RandomTensor(16, 16, 3))
	require.NoError(t, err)
	assert.False(t, pred.Simulated)
	assert.True(t, IsLabel(pred.Label))

	var sum float64
	for _, s := range pred.Probabilities {
		sum += s.Probability
	}
	assert.InDelta(t, 1.0, sum, 1e-5)
}

func TestLesionNetRejectsTinyInput(t *testing.T) {
	_, err := LesionNet(4, 4, len(Labels))
	assert.Error(t, err)
}

func TestLesionNetOutputWidth(t *testing.T) {
	model, err := LesionNet(ModelInputHeight, ModelInputWidth, len(Labels))
	require.NoError(t, err)
	assert.Equal(t, len(Labels), model.OutputSize())
}
