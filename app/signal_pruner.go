package app

import (
	"log"
	"time"

	"chainpulse/database/signals"
)

// SignalPruner periodically removes signals past the retention window
type SignalPruner struct {
	repo      *signals.Repository
	retention time.Duration
	done      chan bool
}

// NewSignalPruner creates a new pruner
func NewSignalPruner(repo *signals.Repository, retention time.Duration) *SignalPruner {
	return &SignalPruner{
		repo:      repo,
		retention: retention,
		done:      make(chan bool),
	}
}

// Start begins the pruning loop
func (sp *SignalPruner) Start() {
	log.Println("🧹 Signal Pruner started")

	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	// Initial run
	sp.prune()

	for {
		select {
		case <-ticker.C:
			sp.prune()
		case <-sp.done:
			log.Println("🧹 Signal Pruner stopped")
			return
		}
	}
}

// Stop stops the pruning loop
func (sp *SignalPruner) Stop() {
	sp.done <- true
}

func (sp *SignalPruner) prune() {
	cutoff := time.Now().Add(-sp.retention)
	deleted, err := sp.repo.DeleteOlderThan(cutoff)
	if err != nil {
		log.Printf("⚠️ Signal pruning failed: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("🧹 Pruned %d signals older than %s", deleted, cutoff.Format("2006-01-02"))
	}
}
