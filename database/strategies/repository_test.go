package strategies

import (
	"testing"

	models "chainpulse/database/models_pkg"
	"chainpulse/strategy"
)

func TestDecodeRuleSet(t *testing.T) {
	record := models.StrategyDB{
		ID:    "strat-1",
		Name:  "oi spike",
		Rules: `[{"field":"OI_CHANGE","operator":">","value":5000}]`,
		Logic: "AND",
	}
	ruleSet, err := DecodeRuleSet(record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ruleSet.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(ruleSet.Rules))
	}
	rule := ruleSet.Rules[0]
	if rule.Field != strategy.FieldOIChange || rule.Operator != strategy.OpGreater || rule.Value != 5000 {
		t.Errorf("rule not decoded: %+v", rule)
	}
	if ruleSet.Logic != strategy.LogicAnd {
		t.Errorf("expected AND logic, got %s", ruleSet.Logic)
	}
}

func TestDecodeRuleSetRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name   string
		record models.StrategyDB
	}{
		{"malformed json", models.StrategyDB{ID: "a", Rules: `{not json`, Logic: "AND"}},
		{"empty rules", models.StrategyDB{ID: "b", Rules: `[]`, Logic: "AND"}},
		{"bad logic", models.StrategyDB{ID: "c", Rules: `[{"field":"OI","operator":">","value":1}]`, Logic: "NAND"}},
		{"unknown field", models.StrategyDB{ID: "d", Rules: `[{"field":"RSI","operator":">","value":1}]`, Logic: "OR"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeRuleSet(tt.record); err == nil {
				t.Error("expected decode error")
			}
		})
	}
}
