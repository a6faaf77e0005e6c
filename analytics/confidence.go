package analytics

// maxConfidence is the hard ceiling every signal confidence is clamped to.
const maxConfidence = 0.95

// WeightedReading is one indicator contribution to a confidence score:
// a value normalized against its threshold, weighted by importance.
type WeightedReading struct {
	Value     float64
	Threshold float64
	Weight    float64
}

// WeightedConfidence combines indicator readings into a bounded confidence.
// Each value/threshold ratio is capped at 1 before weighting so a single
// runaway reading cannot dominate, and the weighted sum is clamped to
// [0, 0.95].
func WeightedConfidence(readings ...WeightedReading) float64 {
	var total float64
	for _, r := range readings {
		if r.Threshold <= 0 {
			continue
		}
		ratio := r.Value / r.Threshold
		if ratio > 1 {
			ratio = 1
		}
		if ratio < 0 {
			ratio = 0
		}
		total += ratio * r.Weight
	}
	return ClampConfidence(total)
}

// ClampConfidence bounds a raw confidence to [0, 0.95].
func ClampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > maxConfidence {
		return maxConfidence
	}
	return c
}

// strengthFor buckets a confidence using the standard bands
// (>0.8 HIGH, >0.6 MEDIUM, else LOW).
func strengthFor(confidence float64) Strength {
	return strengthWithHighCut(confidence, 0.8)
}

// strengthWithHighCut buckets a confidence with a detector-specific HIGH cut.
// The flow detectors use 0.8; the squeeze and unusual-activity detectors were
// calibrated with the looser 0.7 cut and keep it.
func strengthWithHighCut(confidence, highCut float64) Strength {
	switch {
	case confidence > highCut:
		return StrengthHigh
	case confidence > 0.6:
		return StrengthMedium
	default:
		return StrengthLow
	}
}
