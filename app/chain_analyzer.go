package app

import (
	"context"
	"log"
	"sync"

	"chainpulse/analytics"
	"chainpulse/cache"
	"chainpulse/database/marketdata"
	"chainpulse/database/signals"
	"chainpulse/feed"
	"chainpulse/handlers"
	"chainpulse/realtime"
)

// ChainAnalyzer runs pattern detection over every stored chain snapshot and
// fans resulting signals out to persistence, cache, and realtime subscribers.
// Implements handlers.SnapshotAnalyzer.
type ChainAnalyzer struct {
	detector      *analytics.PatternDetector
	signalRepo    *signals.Repository
	signalCache   *cache.SignalCache
	broker        *realtime.Broker
	minConfidence float64
	timeframe     string

	prevSpots map[string]float64
	mu        sync.Mutex
}

// NewChainAnalyzer creates a new analyzer. Signals below minConfidence are
// still broadcast for observers but never persisted.
func NewChainAnalyzer(detector *analytics.PatternDetector, signalRepo *signals.Repository, signalCache *cache.SignalCache, broker *realtime.Broker, minConfidence float64) *ChainAnalyzer {
	return &ChainAnalyzer{
		detector:      detector,
		signalRepo:    signalRepo,
		signalCache:   signalCache,
		broker:        broker,
		minConfidence: minConfidence,
		timeframe:     "5m",
		prevSpots:     make(map[string]float64),
	}
}

// AnalyzeSnapshot runs the detector over one snapshot frame
func (ca *ChainAnalyzer) AnalyzeSnapshot(msg *feed.Message) {
	snapshot, spot := marketdata.BuildChain(handlers.RowsToTicks(msg))
	if spot == 0 {
		spot = msg.SpotPrice
	}

	marketCtx := analytics.MarketContext{
		UnderlyingSymbol: msg.Underlying,
		CurrentPrice:     spot,
		PreviousPrice:    ca.swapPrevSpot(msg.Underlying, spot),
		IsMarketOpen:     msg.MarketOpen,
		Timeframe:        ca.timeframe,
	}

	detected := ca.detector.Analyze(snapshot, marketCtx)
	if len(detected) == 0 {
		return
	}

	ctx := context.Background()
	persisted := 0
	for _, signal := range detected {
		if ca.broker != nil {
			ca.broker.Broadcast(realtime.EventSignal, signal)
		}
		if signal.Confidence < ca.minConfidence {
			continue
		}
		if ca.signalRepo != nil {
			if err := ca.signalRepo.SaveSignal(signal); err != nil {
				log.Printf("⚠️  Failed to save signal %s: %v", signal.ID, err)
				continue
			}
		}
		if ca.signalCache != nil {
			_ = ca.signalCache.PublishSignal(ctx, signal)
		}
		persisted++
		log.Printf("📣 %s %s %s @ %.0f (confidence %.2f, %s)",
			signal.Underlying, signal.PatternType, signal.Direction,
			signal.Strike, signal.Confidence, signal.Strength)
	}

	if ca.signalCache != nil {
		_ = ca.signalCache.StoreLatest(ctx, msg.Underlying, detected)
	}
	if persisted > 0 {
		log.Printf("✅ %s: %d/%d signals persisted", msg.Underlying, persisted, len(detected))
	}
}

// swapPrevSpot returns the previously seen spot for an underlying and
// records the current one. First sight returns 0, which disables the
// momentum detector for that snapshot.
func (ca *ChainAnalyzer) swapPrevSpot(underlying string, spot float64) float64 {
	ca.mu.Lock()
	defer ca.mu.Unlock()
	prev := ca.prevSpots[underlying]
	ca.prevSpots[underlying] = spot
	return prev
}
