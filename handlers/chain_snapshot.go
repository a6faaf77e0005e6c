package handlers

import (
	"fmt"
	"log"
	"time"

	"chainpulse/database/marketdata"
	models "chainpulse/database/models_pkg"
	"chainpulse/feed"
	"chainpulse/realtime"
)

// SnapshotAnalyzer receives each stored snapshot for pattern detection and
// live strategy evaluation. Implemented by the app-level chain analyzer.
type SnapshotAnalyzer interface {
	AnalyzeSnapshot(msg *feed.Message)
}

// ChainSnapshotHandler persists incoming chain snapshots and forwards them to
// the analyzer and realtime subscribers.
type ChainSnapshotHandler struct {
	marketRepo *marketdata.Repository
	broker     *realtime.Broker
	analyzer   SnapshotAnalyzer
}

// NewChainSnapshotHandler creates a new handler instance
func NewChainSnapshotHandler(marketRepo *marketdata.Repository, broker *realtime.Broker, analyzer SnapshotAnalyzer) *ChainSnapshotHandler {
	return &ChainSnapshotHandler{
		marketRepo: marketRepo,
		broker:     broker,
		analyzer:   analyzer,
	}
}

// Handle processes one feed frame
func (h *ChainSnapshotHandler) Handle(msg *feed.Message) error {
	if msg == nil {
		return fmt.Errorf("nil message")
	}

	switch msg.Type {
	case feed.MessageHeartbeat:
		// Keep-alive - silent

	case feed.MessageChainSnapshot:
		h.processSnapshot(msg)

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}

	return nil
}

func (h *ChainSnapshotHandler) processSnapshot(msg *feed.Message) {
	startTime := time.Now()

	if h.marketRepo != nil {
		ticks := RowsToTicks(msg)
		if err := h.marketRepo.SaveTicks(ticks); err != nil {
			log.Printf("⚠️  Failed to save chain snapshot for %s: %v", msg.Underlying, err)
		}
	}

	if h.broker != nil {
		h.broker.Broadcast(realtime.EventChainUpdate, map[string]interface{}{
			"underlying": msg.Underlying,
			"timestamp":  msg.Timestamp,
			"spot":       msg.SpotPrice,
			"strikes":    len(msg.Rows) / 2,
		})
	}

	if h.analyzer != nil {
		h.analyzer.AnalyzeSnapshot(msg)
	}

	log.Printf("⏱️ Snapshot %s processed in %v (%d rows)",
		msg.Underlying, time.Since(startTime), len(msg.Rows))
}

// GetMessageType returns the message type
func (h *ChainSnapshotHandler) GetMessageType() string {
	return feed.MessageChainSnapshot
}

// RowsToTicks flattens a snapshot frame into storable tick rows
func RowsToTicks(msg *feed.Message) []models.OptionChainTick {
	ticks := make([]models.OptionChainTick, 0, len(msg.Rows))
	for _, row := range msg.Rows {
		ticks = append(ticks, models.OptionChainTick{
			Timestamp:       msg.Timestamp,
			Underlying:      msg.Underlying,
			Expiry:          msg.Expiry,
			Strike:          row.Strike,
			OptionType:      row.OptionType,
			OpenInterest:    row.OpenInterest,
			OIChange:        row.OIChange,
			LastPrice:       row.LastPrice,
			LastPriceChange: row.LastPriceChange,
			Volume:          row.Volume,
			ImpliedVol:      row.ImpliedVol,
			Delta:           row.Delta,
			Gamma:           row.Gamma,
			Theta:           row.Theta,
			Vega:            row.Vega,
			SpotPrice:       msg.SpotPrice,
		})
	}
	return ticks
}
