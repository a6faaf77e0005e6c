// Package strategies persists user strategies and resolves them into rule
// sets for the live runner and the backtest engine.
package strategies

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	models "chainpulse/database/models_pkg"
	"chainpulse/strategy"

	"gorm.io/gorm"
)

// Repository handles database operations for stored strategies
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new strategies repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveStrategy validates and persists a rule set for a user
func (r *Repository) SaveStrategy(userID, id string, ruleSet strategy.StrategyRuleSet) error {
	if err := ruleSet.Validate(); err != nil {
		return fmt.Errorf("SaveStrategy: %w", err)
	}
	rules, err := json.Marshal(ruleSet.Rules)
	if err != nil {
		return fmt.Errorf("SaveStrategy: %w", err)
	}
	record := models.StrategyDB{
		ID:          id,
		UserID:      userID,
		Name:        ruleSet.Name,
		Description: ruleSet.Description,
		Rules:       string(rules),
		Logic:       string(ruleSet.Logic),
		IsActive:    true,
	}
	if err := r.db.Save(&record).Error; err != nil {
		return fmt.Errorf("SaveStrategy: %w", err)
	}
	return nil
}

// RuleSetByID loads a stored strategy and decodes its rule set. Implements
// the backtest engine's strategy source.
func (r *Repository) RuleSetByID(ctx context.Context, strategyID string) (strategy.StrategyRuleSet, error) {
	var record models.StrategyDB
	err := r.db.WithContext(ctx).Where("id = ?", strategyID).First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return strategy.StrategyRuleSet{}, fmt.Errorf("RuleSetByID: strategy not found: %s", strategyID)
	}
	if err != nil {
		return strategy.StrategyRuleSet{}, fmt.Errorf("RuleSetByID: %w", err)
	}
	return DecodeRuleSet(record)
}

// DecodeRuleSet turns a stored strategy row back into an evaluable rule set
func DecodeRuleSet(record models.StrategyDB) (strategy.StrategyRuleSet, error) {
	var rules []strategy.StrategyRule
	if err := json.Unmarshal([]byte(record.Rules), &rules); err != nil {
		return strategy.StrategyRuleSet{}, fmt.Errorf("DecodeRuleSet %s: %w", record.ID, err)
	}
	ruleSet := strategy.StrategyRuleSet{
		Name:        record.Name,
		Description: record.Description,
		Rules:       rules,
		Logic:       strategy.RuleLogic(record.Logic),
	}
	if err := ruleSet.Validate(); err != nil {
		return strategy.StrategyRuleSet{}, fmt.Errorf("DecodeRuleSet %s: %w", record.ID, err)
	}
	return ruleSet, nil
}

// ListStrategies retrieves a user's strategies, newest first
func (r *Repository) ListStrategies(userID string, activeOnly bool) ([]models.StrategyDB, error) {
	var records []models.StrategyDB
	query := r.db.Where("user_id = ?", userID).Order("updated_at DESC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("ListStrategies: %w", err)
	}
	return records, nil
}

// ListActive retrieves every active strategy across users, for the live runner
func (r *Repository) ListActive() ([]models.StrategyDB, error) {
	var records []models.StrategyDB
	if err := r.db.Where("is_active = ?", true).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("ListActive: %w", err)
	}
	return records, nil
}

// DeactivateStrategy soft-disables a strategy without losing its history
func (r *Repository) DeactivateStrategy(userID, id string) error {
	result := r.db.Model(&models.StrategyDB{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now()})
	if result.Error != nil {
		return fmt.Errorf("DeactivateStrategy: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("DeactivateStrategy: strategy not found: %s", id)
	}
	return nil
}
