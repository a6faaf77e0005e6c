// Package backtests persists backtest run records and their results.
package backtests

import (
	"context"
	"encoding/json"
	"fmt"

	"chainpulse/backtest"
	models "chainpulse/database/models_pkg"

	"gorm.io/gorm"
)

// Repository handles database operations for backtest runs. It implements
// the backtest engine's run store.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new backtests repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists the initial run record
func (r *Repository) Create(ctx context.Context, run *backtest.Run) error {
	record, err := toModel(run)
	if err != nil {
		return fmt.Errorf("CreateRun: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("CreateRun: %w", err)
	}
	return nil
}

// Update overwrites the run record with its current state
func (r *Repository) Update(ctx context.Context, run *backtest.Run) error {
	record, err := toModel(run)
	if err != nil {
		return fmt.Errorf("UpdateRun: %w", err)
	}
	if err := r.db.WithContext(ctx).Save(&record).Error; err != nil {
		return fmt.Errorf("UpdateRun: %w", err)
	}
	return nil
}

// GetRun retrieves a run scoped to its owner
func (r *Repository) GetRun(id, userID string) (*backtest.Run, error) {
	var record models.BacktestRunDB
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetRun: %w", err)
	}
	return fromModel(record)
}

// ListRuns retrieves a user's runs, newest first
func (r *Repository) ListRuns(userID string, limit int) ([]*backtest.Run, error) {
	var records []models.BacktestRunDB
	query := r.db.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("ListRuns: %w", err)
	}
	runs := make([]*backtest.Run, 0, len(records))
	for _, record := range records {
		run, err := fromModel(record)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func toModel(run *backtest.Run) (models.BacktestRunDB, error) {
	record := models.BacktestRunDB{
		ID:              run.ID,
		StrategyID:      run.StrategyID,
		UserID:          run.UserID,
		Name:            run.Name,
		Underlying:      run.Symbol,
		FromTime:        run.From,
		ToTime:          run.To,
		Timeframe:       run.Timeframe,
		Status:          string(run.Status),
		Error:           run.Error,
		ExecutionTimeMs: run.ExecutionTimeMs,
		CreatedAt:       run.CreatedAt,
	}
	if !run.CompletedAt.IsZero() {
		completed := run.CompletedAt
		record.CompletedAt = &completed
	}
	if run.Result != nil {
		data, err := json.Marshal(run.Result)
		if err != nil {
			return record, fmt.Errorf("marshal result: %w", err)
		}
		record.Result = string(data)
	}
	return record, nil
}

func fromModel(record models.BacktestRunDB) (*backtest.Run, error) {
	run := &backtest.Run{
		ID:              record.ID,
		StrategyID:      record.StrategyID,
		UserID:          record.UserID,
		Name:            record.Name,
		Symbol:          record.Underlying,
		From:            record.FromTime,
		To:              record.ToTime,
		Timeframe:       record.Timeframe,
		Status:          backtest.Status(record.Status),
		Error:           record.Error,
		ExecutionTimeMs: record.ExecutionTimeMs,
		CreatedAt:       record.CreatedAt,
	}
	if record.CompletedAt != nil {
		run.CompletedAt = *record.CompletedAt
	}
	if record.Result != "" {
		var result backtest.Result
		if err := json.Unmarshal([]byte(record.Result), &result); err != nil {
			return nil, fmt.Errorf("unmarshal result %s: %w", record.ID, err)
		}
		run.Result = &result
	}
	return run, nil
}
