// Package backtest replays strategy rule sets over historical option-chain
// series and aggregates the price movements that followed each match.
package backtest

import (
	"time"

	"chainpulse/strategy"
)

// Status tracks a run through its lifecycle. CANCELLED is reserved for a
// future user-initiated abort; nothing sets it today.
type Status string

const (
	StatusRunning   Status = "RUNNING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusCancelled Status = "CANCELLED"
)

// LookaheadPoints caps how many same-contract points after a match are
// consulted for the exit price.
const LookaheadPoints = 10

// PriceMovement is what happened to a matched contract over the lookahead
// window. TimeToMove counts the lookahead points found; zero means no
// same-contract data followed the match, and the movement is excluded from
// every aggregate.
type PriceMovement struct {
	EntryPrice      float64 `json:"entry_price"`
	ExitPrice       float64 `json:"exit_price"`
	MovementPercent float64 `json:"movement_percent"`
	TimeToMove      int     `json:"time_to_move"`
}

// Match is one historical point where the rule set fired. RuleResults keeps
// every rule's verdict at that instant, passed or not, so a stored run can be
// debugged rule by rule.
type Match struct {
	Timestamp   time.Time                       `json:"timestamp"`
	Point       strategy.MarketDataPoint        `json:"point"`
	RuleResults []strategy.RuleEvaluationResult `json:"rule_results"`
	Confidence  int                             `json:"confidence"`
	Movement    PriceMovement                   `json:"movement"`
}

// ChartPoint is one step of the equity curve, recorded per aggregated match.
type ChartPoint struct {
	Timestamp        time.Time `json:"timestamp"`
	CumulativeReturn float64   `json:"cumulative_return"`
	Drawdown         float64   `json:"drawdown"`
}

// Result is the aggregate outcome of a completed run. AvgMovePostMatch is
// the mean of attributed movements only; matches with TimeToMove 0 never
// enter it.
type Result struct {
	TotalEvaluations  int          `json:"total_evaluations"`
	MatchesFound      int          `json:"matches_found"`
	SuccessfulMatches int          `json:"successful_matches"`
	SuccessRate       float64      `json:"success_rate"`
	CumulativeReturn  float64      `json:"cumulative_return"`
	AvgMovePostMatch  float64      `json:"avg_move_post_match"`
	MaxDrawdown       float64      `json:"max_drawdown"`
	SharpeRatio       float64      `json:"sharpe_ratio"`
	Matches           []Match      `json:"matches"`
	Chart             []ChartPoint `json:"chart"`
}

// RunRequest names what to replay and over which window. Name is an optional
// user-facing label for the run.
type RunRequest struct {
	StrategyID string    `json:"strategy_id"`
	Name       string    `json:"backtest_name,omitempty"`
	Symbol     string    `json:"symbol"`
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
	Timeframe  string    `json:"timeframe"`
}

// Run is the persisted record of a backtest execution.
type Run struct {
	ID              string    `json:"id"`
	StrategyID      string    `json:"strategy_id"`
	UserID          string    `json:"user_id"`
	Name            string    `json:"name,omitempty"`
	Symbol          string    `json:"symbol"`
	From            time.Time `json:"from"`
	To              time.Time `json:"to"`
	Timeframe       string    `json:"timeframe"`
	Status          Status    `json:"status"`
	Result          *Result   `json:"result,omitempty"`
	Error           string    `json:"error,omitempty"`
	ExecutionTimeMs int64     `json:"execution_time_ms"`
	CreatedAt       time.Time `json:"created_at"`
	CompletedAt     time.Time `json:"completed_at,omitempty"`
}
