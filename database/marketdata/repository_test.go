package marketdata

import (
	"testing"
	"time"

	models "chainpulse/database/models_pkg"
)

func tick(ts time.Time, strike float64, optType string, oi, ltp, volume, spot float64) models.OptionChainTick {
	return models.OptionChainTick{
		Timestamp:    ts,
		Underlying:   "NIFTY",
		Strike:       strike,
		OptionType:   optType,
		OpenInterest: oi,
		LastPrice:    ltp,
		Volume:       volume,
		SpotPrice:    spot,
	}
}

func TestBuildChainFoldsContractsPerStrike(t *testing.T) {
	ts := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	ticks := []models.OptionChainTick{
		tick(ts, 20000, "CE", 50000, 120, 9000, 20050),
		tick(ts, 20000, "PE", 60000, 95, 7000, 20050),
		tick(ts, 20100, "CE", 30000, 80, 4000, 20050),
	}
	snapshot, spot := BuildChain(ticks)
	if spot != 20050 {
		t.Errorf("expected spot 20050, got %v", spot)
	}
	if len(snapshot) != 2 {
		t.Fatalf("expected 2 strikes, got %d", len(snapshot))
	}
	atm := snapshot[0]
	if atm.Strike != 20000 || atm.CallOpenInterest != 50000 || atm.PutOpenInterest != 60000 {
		t.Errorf("call and put legs must fold into one strike row: %+v", atm)
	}
	if snapshot[1].PutOpenInterest != 0 {
		t.Errorf("missing leg must stay zero, got %+v", snapshot[1])
	}
}

func TestBuildChainEmpty(t *testing.T) {
	snapshot, spot := BuildChain(nil)
	if snapshot != nil || spot != 0 {
		t.Errorf("expected empty chain, got %v strikes spot %v", len(snapshot), spot)
	}
}

func TestTicksToPointsAttachesCaptureWidePCR(t *testing.T) {
	first := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	second := first.Add(5 * time.Minute)
	ticks := []models.OptionChainTick{
		tick(first, 20000, "CE", 100, 1, 0, 0),
		tick(first, 20000, "PE", 150, 1, 0, 0),
		tick(second, 20000, "CE", 100, 1, 0, 0),
		tick(second, 20000, "PE", 50, 1, 0, 0),
	}
	points := TicksToPoints(ticks)
	if len(points) != 4 {
		t.Fatalf("expected 4 points, got %d", len(points))
	}
	// First capture: PCR 150/100, stamped on both its rows.
	if points[0].PutCallRatio != 1.5 || points[1].PutCallRatio != 1.5 {
		t.Errorf("expected PCR 1.5 on first capture, got %v / %v",
			points[0].PutCallRatio, points[1].PutCallRatio)
	}
	if points[2].PutCallRatio != 0.5 {
		t.Errorf("expected PCR 0.5 on second capture, got %v", points[2].PutCallRatio)
	}
}

func TestTicksToPointsZeroCallOI(t *testing.T) {
	ts := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	points := TicksToPoints([]models.OptionChainTick{
		tick(ts, 20000, "PE", 150, 1, 0, 0),
	})
	if points[0].PutCallRatio != 0 {
		t.Errorf("capture without call OI must leave PCR zero, got %v", points[0].PutCallRatio)
	}
}
