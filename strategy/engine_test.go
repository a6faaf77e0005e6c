package strategy

import (
	"testing"
	"time"
)

func testPoint(symbol string, oi, oiChange, ltp, volume float64) MarketDataPoint {
	return MarketDataPoint{
		Symbol:       symbol,
		Timestamp:    time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
		OpenInterest: oi,
		OIChange:     oiChange,
		LastPrice:    ltp,
		Volume:       volume,
	}
}

func TestEvaluateEmptyRuleSet(t *testing.T) {
	engine := NewEngine()
	result, err := engine.Evaluate(StrategyRuleSet{Name: "empty", Logic: LogicAnd}, []MarketDataPoint{
		testPoint("NIFTY", 100000, 5000, 150, 20000),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Matched {
		t.Error("empty rule set must not match")
	}
	if result.Confidence != 0 {
		t.Errorf("expected confidence 0, got %d", result.Confidence)
	}
}

func TestEvaluateAndPartialMatch(t *testing.T) {
	// Two rules, one matching: AND gates to false but confidence still
	// reports how close the set came.
	engine := NewEngine()
	ruleSet := StrategyRuleSet{
		Name:  "oi and volume",
		Logic: LogicAnd,
		Rules: []StrategyRule{
			{Field: FieldOI, Operator: OpGreater, Value: 50000},
			{Field: FieldVolume, Operator: OpGreater, Value: 100000},
		},
	}
	result, err := engine.Evaluate(ruleSet, []MarketDataPoint{
		testPoint("NIFTY", 100000, 5000, 150, 20000),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Matched {
		t.Error("AND set with a failed rule must not match")
	}
	if result.Confidence != 50 {
		t.Errorf("expected confidence 50, got %d", result.Confidence)
	}
	if len(result.MatchedRules) != 1 || len(result.FailedRules) != 1 {
		t.Errorf("expected 1 matched / 1 failed, got %d / %d",
			len(result.MatchedRules), len(result.FailedRules))
	}
}

func TestEvaluateOrSemantics(t *testing.T) {
	engine := NewEngine()
	ruleSet := StrategyRuleSet{
		Name:  "oi or volume",
		Logic: LogicOr,
		Rules: []StrategyRule{
			{Field: FieldOI, Operator: OpGreater, Value: 50000},
			{Field: FieldVolume, Operator: OpGreater, Value: 100000},
		},
	}
	result, err := engine.Evaluate(ruleSet, []MarketDataPoint{
		testPoint("NIFTY", 100000, 5000, 150, 20000),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Matched {
		t.Error("OR set with one matching rule must match")
	}
	if result.Confidence != 50 {
		t.Errorf("OR logic must not inflate confidence, expected 50, got %d", result.Confidence)
	}
}

func TestEvaluateFirstMatchingPointWins(t *testing.T) {
	engine := NewEngine()
	ruleSet := StrategyRuleSet{
		Name:  "first match",
		Logic: LogicAnd,
		Rules: []StrategyRule{
			{Field: FieldOI, Operator: OpGreater, Value: 50000},
		},
	}
	points := []MarketDataPoint{
		testPoint("NIFTY", 40000, 0, 150, 0),
		testPoint("NIFTY", 60000, 0, 155, 0),
		testPoint("NIFTY", 90000, 0, 160, 0),
	}
	result, err := engine.Evaluate(ruleSet, points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Matched {
		t.Fatal("expected match")
	}
	// Second point is the first to satisfy the rule; the scan must stop there.
	if got := result.RuleResults[0].ActualValue; got != 60000 {
		t.Errorf("expected actual value 60000 from first matching point, got %v", got)
	}
}

func TestEvaluateMissRecordsLastScannedValue(t *testing.T) {
	engine := NewEngine()
	ruleSet := StrategyRuleSet{
		Name:  "never matches",
		Logic: LogicAnd,
		Rules: []StrategyRule{
			{Field: FieldOI, Operator: OpGreater, Value: 999999},
		},
	}
	points := []MarketDataPoint{
		testPoint("NIFTY", 40000, 0, 150, 0),
		testPoint("NIFTY", 70000, 0, 155, 0),
	}
	result, err := engine.Evaluate(ruleSet, points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Matched {
		t.Fatal("expected no match")
	}
	if got := result.RuleResults[0].ActualValue; got != 70000 {
		t.Errorf("expected last scanned value 70000, got %v", got)
	}
}

func TestEvaluateInstrumentFilter(t *testing.T) {
	engine := NewEngine()
	ruleSet := StrategyRuleSet{
		Name:  "banknifty only",
		Logic: LogicAnd,
		Rules: []StrategyRule{
			{Field: FieldOI, Operator: OpGreater, Value: 50000, Instrument: "BANKNIFTY"},
		},
	}
	// NIFTY point satisfies the comparison but carries the wrong symbol.
	points := []MarketDataPoint{
		testPoint("NIFTY", 100000, 0, 150, 0),
		testPoint("BANKNIFTY", 30000, 0, 400, 0),
	}
	result, err := engine.Evaluate(ruleSet, points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Matched {
		t.Error("instrument filter must exclude other symbols from the scan")
	}
	if got := result.RuleResults[0].ActualValue; got != 30000 {
		t.Errorf("expected actual value from the filtered symbol, got %v", got)
	}
}

func TestEvaluateUnknownFieldIsFatal(t *testing.T) {
	engine := NewEngine()
	ruleSet := StrategyRuleSet{
		Name:  "typo",
		Logic: LogicAnd,
		Rules: []StrategyRule{
			{Field: "OPEN_INT", Operator: OpGreater, Value: 1},
		},
	}
	_, err := engine.Evaluate(ruleSet, []MarketDataPoint{testPoint("NIFTY", 1, 0, 1, 0)})
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestEvaluateEqualityUsesLiveTolerance(t *testing.T) {
	engine := NewEngine()
	tests := []struct {
		name string
		pcr  float64
		want bool
	}{
		{"inside tolerance", 1.0005, true},
		{"outside tolerance", 1.002, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ruleSet := StrategyRuleSet{
				Name:  "pcr equals one",
				Logic: LogicAnd,
				Rules: []StrategyRule{
					{Field: FieldPCR, Operator: OpEqual, Value: 1.0},
				},
			}
			point := testPoint("NIFTY", 0, 0, 0, 0)
			point.PutCallRatio = tt.pcr
			result, err := engine.Evaluate(ruleSet, []MarketDataPoint{point})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Matched != tt.want {
				t.Errorf("pcr=%v: matched = %v, want %v", tt.pcr, result.Matched, tt.want)
			}
		})
	}
}

func TestValidateRuleSet(t *testing.T) {
	tooMany := make([]StrategyRule, MaxRulesPerSet+1)
	for i := range tooMany {
		tooMany[i] = StrategyRule{Field: FieldOI, Operator: OpGreater, Value: 1}
	}
	tests := []struct {
		name    string
		ruleSet StrategyRuleSet
		wantErr bool
	}{
		{
			"valid",
			StrategyRuleSet{Logic: LogicAnd, Rules: []StrategyRule{{Field: FieldOI, Operator: OpGreater, Value: 1}}},
			false,
		},
		{"no rules", StrategyRuleSet{Logic: LogicAnd}, true},
		{"too many rules", StrategyRuleSet{Logic: LogicAnd, Rules: tooMany}, true},
		{
			"bad logic",
			StrategyRuleSet{Logic: "XOR", Rules: []StrategyRule{{Field: FieldOI, Operator: OpGreater, Value: 1}}},
			true,
		},
		{
			"bad operator",
			StrategyRuleSet{Logic: LogicOr, Rules: []StrategyRule{{Field: FieldOI, Operator: "~", Value: 1}}},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ruleSet.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
