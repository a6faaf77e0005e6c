package backtests

import (
	"testing"
	"time"

	"chainpulse/backtest"
)

func TestRunModelRoundTrip(t *testing.T) {
	completed := time.Date(2025, 1, 31, 15, 30, 0, 0, time.UTC)
	run := &backtest.Run{
		ID:         "bt-strat-1-42",
		StrategyID: "strat-1",
		UserID:     "user-1",
		Name:       "january oi sweep",
		Symbol:     "NIFTY",
		From:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		To:         time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		Timeframe:  "5m",
		Status:     backtest.StatusCompleted,
		Result: &backtest.Result{
			TotalEvaluations: 120,
			MatchesFound:     3,
			AvgMovePostMatch: 4.5,
			CumulativeReturn: 13.5,
		},
		ExecutionTimeMs: 250,
		CreatedAt:       time.Date(2025, 1, 31, 15, 29, 0, 0, time.UTC),
		CompletedAt:     completed,
	}

	record, err := toModel(run)
	if err != nil {
		t.Fatalf("toModel: %v", err)
	}
	if record.Name != "january oi sweep" {
		t.Errorf("name must be persisted, got %q", record.Name)
	}
	if record.ExecutionTimeMs != 250 {
		t.Errorf("execution time must be persisted, got %d", record.ExecutionTimeMs)
	}
	if record.CompletedAt == nil || !record.CompletedAt.Equal(completed) {
		t.Errorf("completed_at must be persisted, got %v", record.CompletedAt)
	}

	back, err := fromModel(record)
	if err != nil {
		t.Fatalf("fromModel: %v", err)
	}
	if back.Name != run.Name || back.ExecutionTimeMs != run.ExecutionTimeMs {
		t.Errorf("round trip lost fields: %+v", back)
	}
	if back.Result == nil {
		t.Fatal("round trip lost the result document")
	}
	if back.Result.TotalEvaluations != 120 || back.Result.AvgMovePostMatch != 4.5 {
		t.Errorf("round trip lost result metrics: %+v", back.Result)
	}
}

func TestRunModelWithoutResultOrCompletion(t *testing.T) {
	run := &backtest.Run{
		ID:         "bt-strat-1-43",
		StrategyID: "strat-1",
		UserID:     "user-1",
		Symbol:     "NIFTY",
		Status:     backtest.StatusRunning,
		CreatedAt:  time.Now(),
	}
	record, err := toModel(run)
	if err != nil {
		t.Fatalf("toModel: %v", err)
	}
	if record.CompletedAt != nil {
		t.Error("running record must leave completed_at unset")
	}
	if record.Result != "" {
		t.Errorf("running record must carry no result document, got %q", record.Result)
	}
	back, err := fromModel(record)
	if err != nil {
		t.Fatalf("fromModel: %v", err)
	}
	if back.Result != nil || !back.CompletedAt.IsZero() {
		t.Errorf("round trip invented terminal state: %+v", back)
	}
}
