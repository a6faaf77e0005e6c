package app

import (
	"context"
	"log"
	"time"

	"chainpulse/database/marketdata"
	"chainpulse/database/strategies"
	"chainpulse/realtime"
	"chainpulse/strategy"
)

// StrategyRunner periodically evaluates every active strategy against the
// most recent market data window and broadcasts matches.
type StrategyRunner struct {
	strategiesRepo *strategies.Repository
	marketRepo     *marketdata.Repository
	broker         *realtime.Broker
	engine         *strategy.Engine
	underlyings    []string
	interval       time.Duration
	window         time.Duration
	done           chan bool
}

// StrategyMatch is the broadcast payload for a live rule-set hit
type StrategyMatch struct {
	StrategyID string    `json:"strategy_id"`
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	Confidence int       `json:"confidence"`
	MatchedAt  time.Time `json:"matched_at"`
}

// NewStrategyRunner creates a new runner
func NewStrategyRunner(strategiesRepo *strategies.Repository, marketRepo *marketdata.Repository, broker *realtime.Broker, underlyings []string, interval time.Duration) *StrategyRunner {
	return &StrategyRunner{
		strategiesRepo: strategiesRepo,
		marketRepo:     marketRepo,
		broker:         broker,
		engine:         strategy.NewEngine(),
		underlyings:    underlyings,
		interval:       interval,
		window:         15 * time.Minute,
		done:           make(chan bool),
	}
}

// Start begins the evaluation loop
func (sr *StrategyRunner) Start() {
	log.Println("🎯 Strategy Runner started")

	ticker := time.NewTicker(sr.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sr.evaluateAll()
		case <-sr.done:
			log.Println("🎯 Strategy Runner stopped")
			return
		}
	}
}

// Stop stops the evaluation loop
func (sr *StrategyRunner) Stop() {
	sr.done <- true
}

// evaluateAll loads active strategies and runs each against the recent window
func (sr *StrategyRunner) evaluateAll() {
	records, err := sr.strategiesRepo.ListActive()
	if err != nil {
		log.Printf("⚠️ Failed to load active strategies: %v", err)
		return
	}
	if len(records) == 0 {
		return
	}

	points := sr.recentPoints()
	if len(points) == 0 {
		return
	}

	for _, record := range records {
		ruleSet, err := strategies.DecodeRuleSet(record)
		if err != nil {
			log.Printf("⚠️ Skipping strategy %s: %v", record.ID, err)
			continue
		}
		result, err := sr.engine.Evaluate(ruleSet, points)
		if err != nil {
			log.Printf("⚠️ Strategy %s evaluation failed: %v", record.ID, err)
			continue
		}
		if !result.Matched {
			continue
		}
		if sr.broker != nil {
			sr.broker.Broadcast(realtime.EventStrategyMatch, StrategyMatch{
				StrategyID: record.ID,
				UserID:     record.UserID,
				Name:       record.Name,
				Confidence: result.Confidence,
				MatchedAt:  time.Now(),
			})
		}
	}
}

// recentPoints collects the last window of points across all underlyings
func (sr *StrategyRunner) recentPoints() []strategy.MarketDataPoint {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now()
	var points []strategy.MarketDataPoint
	for _, underlying := range sr.underlyings {
		p, err := sr.marketRepo.Points(ctx, underlying, "5m", now.Add(-sr.window), now)
		if err != nil {
			log.Printf("⚠️ Failed to load points for %s: %v", underlying, err)
			continue
		}
		points = append(points, p...)
	}
	return points
}
