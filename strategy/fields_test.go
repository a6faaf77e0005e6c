package strategy

import "testing"

func TestExtractFieldValueCoversAllFields(t *testing.T) {
	point := MarketDataPoint{
		OpenInterest: 1,
		OIChange:     2,
		LastPrice:    3,
		Volume:       4,
		PutCallRatio: 5,
		ImpliedVol:   6,
		Delta:        7,
		Gamma:        8,
		Theta:        9,
		Vega:         10,
	}
	tests := []struct {
		field RuleField
		want  float64
	}{
		{FieldOI, 1},
		{FieldOIChange, 2},
		{FieldLTP, 3},
		{FieldVolume, 4},
		{FieldPCR, 5},
		{FieldIV, 6},
		{FieldDelta, 7},
		{FieldGamma, 8},
		{FieldTheta, 9},
		{FieldVega, 10},
	}
	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			got, err := ExtractFieldValue(point, tt.field)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractFieldValue(%s) = %v, want %v", tt.field, got, tt.want)
			}
		})
	}
}

func TestExtractFieldValueUnknownField(t *testing.T) {
	if _, err := ExtractFieldValue(MarketDataPoint{}, "MOMENTUM"); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestCompareValuesOperators(t *testing.T) {
	tests := []struct {
		name     string
		actual   float64
		op       RuleOperator
		expected float64
		epsilon  float64
		want     bool
	}{
		{"greater true", 5, OpGreater, 4, LiveEpsilon, true},
		{"greater false on equal", 5, OpGreater, 5, LiveEpsilon, false},
		{"less true", 3, OpLess, 4, LiveEpsilon, true},
		{"greater equal boundary", 5, OpGreaterEqual, 5, LiveEpsilon, true},
		{"less equal boundary", 5, OpLessEqual, 5, LiveEpsilon, true},
		{"equal within live epsilon", 1.0004, OpEqual, 1.0, LiveEpsilon, true},
		{"equal outside live epsilon", 1.005, OpEqual, 1.0, LiveEpsilon, false},
		{"equal within backtest epsilon", 1.005, OpEqual, 1.0, BacktestEpsilon, true},
		{"not equal outside epsilon", 1.5, OpNotEqual, 1.0, LiveEpsilon, true},
		{"not equal within epsilon", 1.0004, OpNotEqual, 1.0, LiveEpsilon, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CompareValues(tt.actual, tt.op, tt.expected, tt.epsilon)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CompareValues(%v %s %v, eps=%v) = %v, want %v",
					tt.actual, tt.op, tt.expected, tt.epsilon, got, tt.want)
			}
		})
	}
}

func TestCompareValuesUnknownOperator(t *testing.T) {
	if _, err := CompareValues(1, "~", 1, LiveEpsilon); err == nil {
		t.Fatal("expected error for unknown operator")
	}
}
