package backtest

import (
	"context"
	"fmt"
	"log"
	"time"

	"chainpulse/strategy"
)

// StrategySource resolves a stored strategy into its rule set.
type StrategySource interface {
	RuleSetByID(ctx context.Context, strategyID string) (strategy.StrategyRuleSet, error)
}

// HistoricalSource streams stored market-data points for a symbol and window,
// ordered by timestamp ascending.
type HistoricalSource interface {
	Points(ctx context.Context, symbol, timeframe string, from, to time.Time) ([]strategy.MarketDataPoint, error)
}

// RunStore persists run records. Create writes the initial RUNNING row;
// Update overwrites it with the terminal state.
type RunStore interface {
	Create(ctx context.Context, run *Run) error
	Update(ctx context.Context, run *Run) error
}

// Engine executes backtest runs.
type Engine struct {
	strategies StrategySource
	history    HistoricalSource
	runs       RunStore
	rules      *strategy.Engine
}

func NewEngine(strategies StrategySource, history HistoricalSource, runs RunStore) *Engine {
	return &Engine{
		strategies: strategies,
		history:    history,
		runs:       runs,
		rules:      strategy.NewBacktestEngine(),
	}
}

// Run executes a backtest synchronously. The run record is persisted as
// RUNNING before any work starts, so a crash mid-run leaves an honest row
// behind. On failure the record is updated to FAILED with the error message
// and the error is still returned to the caller.
func (e *Engine) Run(ctx context.Context, req RunRequest, userID string) (*Run, error) {
	started := time.Now()
	run := &Run{
		ID:         fmt.Sprintf("bt-%s-%d", req.StrategyID, started.UnixNano()),
		StrategyID: req.StrategyID,
		UserID:     userID,
		Name:       req.Name,
		Symbol:     req.Symbol,
		From:       req.From,
		To:         req.To,
		Timeframe:  req.Timeframe,
		Status:     StatusRunning,
		CreatedAt:  started,
	}
	if err := e.runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("CreateRun: %w", err)
	}
	log.Printf("🚀 Backtest %s started: strategy=%s symbol=%s window=%s..%s",
		run.ID, req.StrategyID, req.Symbol,
		req.From.Format("2006-01-02"), req.To.Format("2006-01-02"))

	result, err := e.execute(ctx, req)
	run.ExecutionTimeMs = time.Since(started).Milliseconds()
	if err != nil {
		run.Status = StatusFailed
		run.Error = err.Error()
		run.CompletedAt = time.Now()
		if uerr := e.runs.Update(ctx, run); uerr != nil {
			log.Printf("⚠️ Failed to persist failed run %s: %v", run.ID, uerr)
		}
		return nil, fmt.Errorf("Backtest %s: %w", run.ID, err)
	}

	run.Status = StatusCompleted
	run.Result = result
	run.CompletedAt = time.Now()
	if err := e.runs.Update(ctx, run); err != nil {
		return nil, fmt.Errorf("UpdateRun: %w", err)
	}
	log.Printf("✅ Backtest %s completed: %d matches, success rate %.1f%%, cumulative %.2f%%",
		run.ID, result.MatchesFound, result.SuccessRate, result.CumulativeReturn)
	return run, nil
}

func (e *Engine) execute(ctx context.Context, req RunRequest) (*Result, error) {
	ruleSet, err := e.strategies.RuleSetByID(ctx, req.StrategyID)
	if err != nil {
		return nil, fmt.Errorf("LoadStrategy: %w", err)
	}
	points, err := e.history.Points(ctx, req.Symbol, req.Timeframe, req.From, req.To)
	if err != nil {
		return nil, fmt.Errorf("LoadHistory: %w", err)
	}

	result := &Result{Matches: []Match{}, Chart: []ChartPoint{}}
	movements := []float64{}
	maxReturn := 0.0

	for i, point := range points {
		eval, err := e.rules.EvaluatePoint(ruleSet, point)
		if err != nil {
			return nil, err
		}
		result.TotalEvaluations++
		if !eval.Matched {
			continue
		}

		movement := lookaheadMovement(points, i)
		match := Match{
			Timestamp:   point.Timestamp,
			Point:       point,
			RuleResults: eval.RuleResults,
			Confidence:  eval.Confidence,
			Movement:    movement,
		}
		result.Matches = append(result.Matches, match)
		result.MatchesFound++

		// No forward data for the contract: the match counts, its
		// movement does not.
		if movement.TimeToMove == 0 {
			continue
		}
		movements = append(movements, movement.MovementPercent)
		if movement.MovementPercent > 0 {
			result.SuccessfulMatches++
		}
		result.CumulativeReturn += movement.MovementPercent
		if result.CumulativeReturn > maxReturn {
			maxReturn = result.CumulativeReturn
		}
		drawdown := maxReturn - result.CumulativeReturn
		if drawdown > result.MaxDrawdown {
			result.MaxDrawdown = drawdown
		}
		result.Chart = append(result.Chart, ChartPoint{
			Timestamp:        point.Timestamp,
			CumulativeReturn: result.CumulativeReturn,
			Drawdown:         drawdown,
		})
	}

	if result.MatchesFound > 0 {
		result.SuccessRate = float64(result.SuccessfulMatches) / float64(result.MatchesFound) * 100
	}
	result.AvgMovePostMatch = mean(movements)
	result.SharpeRatio = sharpeRatio(movements)
	return result, nil
}

// lookaheadMovement walks forward from a match collecting up to
// LookaheadPoints points for the same strike and option type. The exit is
// the last one collected.
func lookaheadMovement(points []strategy.MarketDataPoint, idx int) PriceMovement {
	entry := points[idx]
	movement := PriceMovement{
		EntryPrice: entry.LastPrice,
		ExitPrice:  entry.LastPrice,
	}
	for j := idx + 1; j < len(points) && movement.TimeToMove < LookaheadPoints; j++ {
		p := points[j]
		if p.Strike != entry.Strike || p.OptionType != entry.OptionType {
			continue
		}
		movement.ExitPrice = p.LastPrice
		movement.TimeToMove++
	}
	if movement.TimeToMove > 0 && entry.LastPrice != 0 {
		movement.MovementPercent = (movement.ExitPrice - entry.LastPrice) / entry.LastPrice * 100
	}
	return movement
}
