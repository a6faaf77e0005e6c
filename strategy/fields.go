package strategy

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNoRules      = errors.New("rule set has no rules")
	ErrTooManyRules = fmt.Errorf("rule set exceeds %d rules", MaxRulesPerSet)
	ErrInvalidLogic = errors.New("rule set logic must be AND or OR")
)

// Tolerances for the == and != operators. Live ticks carry more precision
// than stored historical rows, so the two paths compare at different widths.
const (
	LiveEpsilon     = 0.001
	BacktestEpsilon = 0.01
)

func validField(f RuleField) (RuleField, error) {
	switch f {
	case FieldOI, FieldOIChange, FieldLTP, FieldVolume, FieldPCR,
		FieldIV, FieldDelta, FieldGamma, FieldTheta, FieldVega:
		return f, nil
	}
	return "", fmt.Errorf("unknown rule field: %s", f)
}

func validOperator(op RuleOperator) (RuleOperator, error) {
	switch op {
	case OpGreater, OpLess, OpGreaterEqual, OpLessEqual, OpEqual, OpNotEqual:
		return op, nil
	}
	return "", fmt.Errorf("unknown rule operator: %s", op)
}

// ExtractFieldValue pulls the named field out of a data point. An unknown
// field is a hard error, never a silent zero: a typo in a stored strategy
// must surface at evaluation, not produce plausible-looking misses.
func ExtractFieldValue(point MarketDataPoint, field RuleField) (float64, error) {
	switch field {
	case FieldOI:
		return point.OpenInterest, nil
	case FieldOIChange:
		return point.OIChange, nil
	case FieldLTP:
		return point.LastPrice, nil
	case FieldVolume:
		return point.Volume, nil
	case FieldPCR:
		return point.PutCallRatio, nil
	case FieldIV:
		return point.ImpliedVol, nil
	case FieldDelta:
		return point.Delta, nil
	case FieldGamma:
		return point.Gamma, nil
	case FieldTheta:
		return point.Theta, nil
	case FieldVega:
		return point.Vega, nil
	}
	return 0, fmt.Errorf("ExtractFieldValue: unknown rule field: %s", field)
}

// CompareValues applies an operator with the given equality tolerance.
// Ordering operators are exact; only == and != honor epsilon.
func CompareValues(actual float64, op RuleOperator, expected, epsilon float64) (bool, error) {
	switch op {
	case OpGreater:
		return actual > expected, nil
	case OpLess:
		return actual < expected, nil
	case OpGreaterEqual:
		return actual >= expected, nil
	case OpLessEqual:
		return actual <= expected, nil
	case OpEqual:
		return math.Abs(actual-expected) < epsilon, nil
	case OpNotEqual:
		return math.Abs(actual-expected) >= epsilon, nil
	}
	return false, fmt.Errorf("CompareValues: unknown rule operator: %s", op)
}
