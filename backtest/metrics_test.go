package backtest

import (
	"math"
	"testing"
)

func TestSharpeRatioZeroVariance(t *testing.T) {
	if got := sharpeRatio([]float64{5, 5, 5}); got != 0 {
		t.Errorf("constant movements must yield 0, got %v", got)
	}
	if got := sharpeRatio(nil); got != 0 {
		t.Errorf("empty movements must yield 0, got %v", got)
	}
}

func TestSharpeRatioPopulationStdDev(t *testing.T) {
	// mean = 10, population stddev = sqrt(((−5)²+5²)/2) = 5
	got := sharpeRatio([]float64{5, 15})
	if math.Abs(got-2.0) > 1e-9 {
		t.Errorf("expected sharpe 2.0, got %v", got)
	}
}

func TestStdDevUsesPopulationFormula(t *testing.T) {
	// Sample stddev of {2, 4} would be sqrt(2); population is 1.
	if got := stdDev([]float64{2, 4}); got != 1 {
		t.Errorf("expected population stddev 1, got %v", got)
	}
}

func TestMean(t *testing.T) {
	if got := mean([]float64{1, 2, 3}); got != 2 {
		t.Errorf("expected 2, got %v", got)
	}
	if got := mean(nil); got != 0 {
		t.Errorf("expected 0 for empty, got %v", got)
	}
}
