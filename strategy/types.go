// Package strategy implements user-defined rule sets and their evaluation
// against live market-data points. The backtest package reuses the same rule
// semantics point-by-point over historical series.
package strategy

import "time"

// RuleField names the data-point attribute a rule compares against.
type RuleField string

const (
	FieldOI       RuleField = "OI"
	FieldOIChange RuleField = "OI_CHANGE"
	FieldLTP      RuleField = "LTP"
	FieldVolume   RuleField = "VOLUME"
	FieldPCR      RuleField = "PCR"
	FieldIV       RuleField = "IV"
	FieldDelta    RuleField = "DELTA"
	FieldGamma    RuleField = "GAMMA"
	FieldTheta    RuleField = "THETA"
	FieldVega     RuleField = "VEGA"
)

// RuleOperator is the comparison a rule applies.
type RuleOperator string

const (
	OpGreater      RuleOperator = ">"
	OpLess         RuleOperator = "<"
	OpGreaterEqual RuleOperator = ">="
	OpLessEqual    RuleOperator = "<="
	OpEqual        RuleOperator = "=="
	OpNotEqual     RuleOperator = "!="
)

// RuleLogic combines rule verdicts at the rule-set level.
type RuleLogic string

const (
	LogicAnd RuleLogic = "AND"
	LogicOr  RuleLogic = "OR"
)

// MaxRulesPerSet bounds how many rules a rule set may carry.
const MaxRulesPerSet = 10

// StrategyRule is a single field/operator/value condition.
//
// LogicalOperator is display metadata carried for multi-rule UIs; the
// authoritative combinator is the rule-set level Logic. Instrument, when
// set, restricts which data points the rule is evaluated against.
type StrategyRule struct {
	Field           RuleField    `json:"field"`
	Operator        RuleOperator `json:"operator"`
	Value           float64      `json:"value"`
	LogicalOperator RuleLogic    `json:"logical_operator,omitempty"`
	Instrument      string       `json:"instrument,omitempty"`
}

// StrategyRuleSet is a named bundle of 1..10 rules with a combinator.
type StrategyRuleSet struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Rules       []StrategyRule `json:"rules"`
	Logic       RuleLogic      `json:"logic"`
}

// Validate checks rule-set shape before evaluation or persistence.
func (rs *StrategyRuleSet) Validate() error {
	if len(rs.Rules) == 0 {
		return ErrNoRules
	}
	if len(rs.Rules) > MaxRulesPerSet {
		return ErrTooManyRules
	}
	if rs.Logic != LogicAnd && rs.Logic != LogicOr {
		return ErrInvalidLogic
	}
	for _, r := range rs.Rules {
		if _, err := validField(r.Field); err != nil {
			return err
		}
		if _, err := validOperator(r.Operator); err != nil {
			return err
		}
	}
	return nil
}

// MarketDataPoint is the unit the rule engine evaluates against. Points
// sourced from an option-chain row carry the option-specific fields; index
// or futures points leave them zero.
type MarketDataPoint struct {
	Symbol       string    `json:"symbol"`
	Timestamp    time.Time `json:"timestamp"`
	OpenInterest float64   `json:"open_interest"`
	OIChange     float64   `json:"oi_change"`
	LastPrice    float64   `json:"last_price"`
	Volume       float64   `json:"volume"`
	PutCallRatio float64   `json:"put_call_ratio"`

	// Option-specific fields
	Strike     float64 `json:"strike,omitempty"`
	OptionType string  `json:"option_type,omitempty"` // CE or PE
	ImpliedVol float64 `json:"implied_volatility,omitempty"`
	Delta      float64 `json:"delta,omitempty"`
	Gamma      float64 `json:"gamma,omitempty"`
	Theta      float64 `json:"theta,omitempty"`
	Vega       float64 `json:"vega,omitempty"`
}

// RuleEvaluationResult records one rule's verdict and the value it saw.
// ActualValue comes from the point that matched, or from the last point
// scanned when nothing matched; the miss value is kept for debuggability.
type RuleEvaluationResult struct {
	Rule        StrategyRule `json:"rule"`
	Matched     bool         `json:"matched"`
	ActualValue float64      `json:"actual_value"`
}

// EvaluationResult is the verdict for a whole rule set against a window of
// data points.
//
// Confidence is the percentage of rules that matched, independent of the
// AND/OR combinator: an AND set can report matched=false with confidence 80.
// The gate and the confidence answer different questions.
type EvaluationResult struct {
	Matched      bool                   `json:"matched"`
	MatchedRules []StrategyRule         `json:"matched_rules"`
	FailedRules  []StrategyRule         `json:"failed_rules"`
	RuleResults  []RuleEvaluationResult `json:"rule_results"`
	Confidence   int                    `json:"confidence"`
}
