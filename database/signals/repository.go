// Package signals persists pattern signals produced by the detector.
package signals

import (
	"encoding/json"
	"fmt"
	"time"

	"chainpulse/analytics"
	models "chainpulse/database/models_pkg"

	"gorm.io/gorm"
)

// Repository handles database operations for pattern signals
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new signals repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ToModel converts a detector signal into its persisted form. Indicators are
// stored as a JSON document; a marshal failure degrades to an empty document
// rather than losing the signal.
func ToModel(signal analytics.Signal) models.SignalDB {
	indicators := ""
	if len(signal.Indicators) > 0 {
		if data, err := json.Marshal(signal.Indicators); err == nil {
			indicators = string(data)
		}
	}
	return models.SignalDB{
		ID:          signal.ID,
		GeneratedAt: signal.Timestamp,
		Underlying:  signal.Underlying,
		Strike:      signal.Strike,
		PatternType: string(signal.PatternType),
		Direction:   string(signal.Direction),
		Description: signal.Description,
		Confidence:  signal.Confidence,
		Strength:    string(signal.Strength),
		Timeframe:   signal.Timeframe,
		Indicators:  indicators,
	}
}

// SaveSignal persists a detector signal to the database
func (r *Repository) SaveSignal(signal analytics.Signal) error {
	record := ToModel(signal)
	if err := r.db.Create(&record).Error; err != nil {
		return fmt.Errorf("SaveSignal: %w", err)
	}
	return nil
}

// GetSignals retrieves pattern signals with filters
func (r *Repository) GetSignals(underlying, patternType, direction string, startTime, endTime time.Time, limit int) ([]models.SignalDB, error) {
	var signals []models.SignalDB
	query := r.db.Order("generated_at DESC")

	if underlying != "" {
		query = query.Where("underlying = ?", underlying)
	}
	if patternType != "" {
		query = query.Where("pattern_type = ?", patternType)
	}
	if direction != "" {
		query = query.Where("direction = ?", direction)
	}
	if !startTime.IsZero() {
		query = query.Where("generated_at >= ?", startTime)
	}
	if !endTime.IsZero() {
		query = query.Where("generated_at <= ?", endTime)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&signals).Error; err != nil {
		return nil, fmt.Errorf("GetSignals: %w", err)
	}
	return signals, nil
}

// GetSignalByID retrieves a specific signal by ID
func (r *Repository) GetSignalByID(id string) (*models.SignalDB, error) {
	var signal models.SignalDB
	err := r.db.Where("id = ?", id).First(&signal).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetSignalByID: %w", err)
	}
	return &signal, nil
}

// GetSignalStats aggregates stored signals per underlying over a window
func (r *Repository) GetSignalStats(underlying string, since time.Time) (*models.SignalStats, error) {
	var stats models.SignalStats
	err := r.db.Model(&models.SignalDB{}).
		Select(`underlying,
			COUNT(*) as total_signals,
			COUNT(*) FILTER (WHERE direction = 'BULLISH') as bullish_count,
			COUNT(*) FILTER (WHERE direction = 'BEARISH') as bearish_count,
			AVG(confidence) as avg_confidence`).
		Where("underlying = ? AND generated_at >= ?", underlying, since).
		Group("underlying").
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("GetSignalStats: %w", err)
	}
	return &stats, nil
}

// DeleteOlderThan removes signals past the retention window
func (r *Repository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("generated_at < ?", cutoff).Delete(&models.SignalDB{})
	if result.Error != nil {
		return 0, fmt.Errorf("DeleteOlderThan: %w", result.Error)
	}
	return result.RowsAffected, nil
}
