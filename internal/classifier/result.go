package classifier

import "sort"

// Confidence tiers derived from the top probability.
const (
	TierLow    = "low"
	TierMedium = "medium"
	TierHigh   = "high"
)

// LabelScore pairs a diagnostic label with its predicted probability.
type LabelScore struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

// Prediction is the formatted result of one classification: the headline
// label with its probability and tier, plus the full distribution sorted
// by descending probability.
type Prediction struct {
	Label         string       `json:"label"`
	Confidence    float64      `json:"confidence"`
	Tier          string       `json:"tier"`
	Simulated     bool         `json:"simulated"`
	Probabilities []LabelScore `json:"probabilities"`
}

// ConfidenceTier buckets a top probability into a qualitative tier.
func ConfidenceTier(p float64) string {
	switch {
	case p >= 0.75:
		return TierHigh
	case p >= 0.5:
		return TierMedium
	default:
		return TierLow
	}
}

// newPrediction labels a raw probability vector, ranks it and selects the
// arg-max headline result. probs must have one entry per label.
func newPrediction(probs []float64, simulated bool) *Prediction {
	scores := make([]LabelScore, len(probs))
	for i, p := range probs {
		scores[i] = LabelScore{Label: Labels[i], Probability: p}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Probability > scores[j].Probability
	})

	top := scores[0]
	return &Prediction{
		Label:         top.Label,
		Confidence:    top.Probability,
		Tier:          ConfidenceTier(top.Probability),
		Simulated:     simulated,
		Probabilities: scores,
	}
}
