package signals

import (
	"strings"
	"testing"
	"time"

	"chainpulse/analytics"
)

func TestToModel(t *testing.T) {
	ts := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	signal := analytics.Signal{
		ID:          "CALL_LONG_BUILDUP-NIFTY-20000.00-1",
		Timestamp:   ts,
		Underlying:  "NIFTY",
		Strike:      20000,
		PatternType: analytics.PatternCallLongBuildup,
		Direction:   analytics.DirectionBullish,
		Description: "Call long buildup at 20000",
		Confidence:  0.82,
		Strength:    analytics.StrengthHigh,
		Timeframe:   "5m",
		Indicators: []analytics.SignalIndicator{
			{Name: "OI_BUILDUP", Value: 15000, Threshold: 10000, Status: analytics.IndicatorTriggered},
		},
	}

	record := ToModel(signal)
	if record.ID != signal.ID || record.Underlying != "NIFTY" {
		t.Errorf("identity fields not carried over: %+v", record)
	}
	if record.PatternType != "CALL_LONG_BUILDUP" || record.Direction != "BULLISH" {
		t.Errorf("enum fields must persist as their wire strings, got %s/%s",
			record.PatternType, record.Direction)
	}
	if record.Confidence != 0.82 || record.Strength != "HIGH" {
		t.Errorf("confidence fields not carried over: %+v", record)
	}
	if !strings.Contains(record.Indicators, "OI_BUILDUP") {
		t.Errorf("indicators must be serialized, got %q", record.Indicators)
	}
}

func TestToModelEmptyIndicators(t *testing.T) {
	record := ToModel(analytics.Signal{ID: "x"})
	if record.Indicators != "" {
		t.Errorf("expected empty indicators document, got %q", record.Indicators)
	}
}
