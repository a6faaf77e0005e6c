package analytics

import "testing"

func TestWeightedConfidenceCapsEachRatio(t *testing.T) {
	// A 10x overshoot on one reading must not contribute more than its weight.
	got := WeightedConfidence(
		WeightedReading{Value: 100000, Threshold: 10000, Weight: 0.4},
		WeightedReading{Value: 0, Threshold: 10000, Weight: 0.6},
	)
	if got != 0.4 {
		t.Errorf("expected 0.4, got %v", got)
	}
}

func TestWeightedConfidenceClampsTotal(t *testing.T) {
	got := WeightedConfidence(
		WeightedReading{Value: 1, Threshold: 1, Weight: 0.5},
		WeightedReading{Value: 1, Threshold: 1, Weight: 0.5},
	)
	if got != 0.95 {
		t.Errorf("expected clamp at 0.95, got %v", got)
	}
}

func TestWeightedConfidenceIgnoresBadThreshold(t *testing.T) {
	got := WeightedConfidence(
		WeightedReading{Value: 5, Threshold: 0, Weight: 0.5},
		WeightedReading{Value: 5, Threshold: 10, Weight: 0.4},
	)
	if got != 0.2 {
		t.Errorf("expected 0.2, got %v", got)
	}
}

func TestClampConfidence(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"negative", -0.2, 0},
		{"in range", 0.5, 0.5},
		{"above cap", 1.2, 0.95},
		{"at cap", 0.95, 0.95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampConfidence(tt.in); got != tt.want {
				t.Errorf("ClampConfidence(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestStrengthBands(t *testing.T) {
	tests := []struct {
		name    string
		conf    float64
		highCut float64
		want    Strength
	}{
		{"high standard", 0.85, 0.8, StrengthHigh},
		{"medium standard", 0.7, 0.8, StrengthMedium},
		{"low standard", 0.5, 0.8, StrengthLow},
		{"boundary not high", 0.8, 0.8, StrengthMedium},
		{"boundary not medium", 0.6, 0.8, StrengthLow},
		{"loose cut high", 0.75, 0.7, StrengthHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := strengthWithHighCut(tt.conf, tt.highCut); got != tt.want {
				t.Errorf("strengthWithHighCut(%v, %v) = %s, want %s", tt.conf, tt.highCut, got, tt.want)
			}
		})
	}
}
