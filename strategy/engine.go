package strategy

import (
	"fmt"
	"log"
)

// Engine evaluates rule sets against windows of market data. The zero value
// is not usable; construct with NewEngine.
type Engine struct {
	epsilon float64
}

// NewEngine returns an engine tuned for live ticks (0.001 equality width).
func NewEngine() *Engine {
	return &Engine{epsilon: LiveEpsilon}
}

// NewBacktestEngine returns an engine tuned for stored historical rows
// (0.01 equality width).
func NewBacktestEngine() *Engine {
	return &Engine{epsilon: BacktestEpsilon}
}

// Evaluate runs every rule in the set against the data window and combines
// the verdicts with the set's AND/OR logic.
//
// Each rule scans the window in order and locks onto the first matching
// point. A rule with an Instrument filter only looks at points for that
// symbol. Confidence is always matched/total as a percentage, whatever the
// combinator decides.
//
// An empty rule set evaluates to no match with zero confidence and no
// error: a user saving a strategy before adding rules is not a fault.
func (e *Engine) Evaluate(ruleSet StrategyRuleSet, points []MarketDataPoint) (*EvaluationResult, error) {
	result := &EvaluationResult{
		MatchedRules: []StrategyRule{},
		FailedRules:  []StrategyRule{},
		RuleResults:  []RuleEvaluationResult{},
	}
	if len(ruleSet.Rules) == 0 {
		return result, nil
	}

	matched := 0
	for _, rule := range ruleSet.Rules {
		rr, err := e.evaluateRule(rule, points)
		if err != nil {
			return nil, fmt.Errorf("Evaluate %s: %w", ruleSet.Name, err)
		}
		result.RuleResults = append(result.RuleResults, rr)
		if rr.Matched {
			matched++
			result.MatchedRules = append(result.MatchedRules, rule)
		} else {
			result.FailedRules = append(result.FailedRules, rule)
		}
	}

	total := len(ruleSet.Rules)
	switch ruleSet.Logic {
	case LogicOr:
		result.Matched = matched > 0
	default:
		result.Matched = matched == total
	}
	result.Confidence = matched * 100 / total

	if result.Matched {
		log.Printf("✅ Strategy matched: %s (%d/%d rules, confidence %d%%)",
			ruleSet.Name, matched, total, result.Confidence)
	}
	return result, nil
}

// EvaluatePoint runs the rule set against a single data point. The backtest
// engine uses this to walk historical series row by row.
func (e *Engine) EvaluatePoint(ruleSet StrategyRuleSet, point MarketDataPoint) (*EvaluationResult, error) {
	return e.Evaluate(ruleSet, []MarketDataPoint{point})
}

// evaluateRule scans the window for the first point satisfying the rule.
// On a miss the last scanned value is recorded so callers can see how far
// off the data was.
func (e *Engine) evaluateRule(rule StrategyRule, points []MarketDataPoint) (RuleEvaluationResult, error) {
	rr := RuleEvaluationResult{Rule: rule}
	for _, point := range points {
		if rule.Instrument != "" && point.Symbol != rule.Instrument {
			continue
		}
		actual, err := ExtractFieldValue(point, rule.Field)
		if err != nil {
			return rr, err
		}
		ok, err := CompareValues(actual, rule.Operator, rule.Value, e.epsilon)
		if err != nil {
			return rr, err
		}
		rr.ActualValue = actual
		if ok {
			rr.Matched = true
			return rr, nil
		}
	}
	return rr, nil
}
