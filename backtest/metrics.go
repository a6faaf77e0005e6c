package backtest

import "math"

// mean of a non-empty slice; 0 for empty input.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev is the population standard deviation, not the sample one: a run's
// movements are the whole population of interest, not a sample of a larger
// distribution.
func stdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// sharpeRatio over per-match movement percentages. No risk-free rate and no
// annualization: movements are already percentages over irregular windows,
// so the ratio is only comparable between runs of the same timeframe. A
// zero-variance series yields 0 rather than dividing by zero.
func sharpeRatio(movements []float64) float64 {
	sd := stdDev(movements)
	if sd == 0 {
		return 0
	}
	return mean(movements) / sd
}
