package models

import "time"

// OptionChainTick represents a single option contract row captured from an
// intraday chain snapshot. Every strike appears twice per capture, once per
// option type.
//
// Key Fields:
//   - Timestamp: When the snapshot was captured (indexed for time-based queries)
//   - Underlying: The underlying symbol (indexed for symbol-based queries)
//   - Strike/OptionType: Contract identity within the chain (CE or PE)
//   - OpenInterest/OIChange: Outstanding contracts and delta vs previous capture
//   - LastPrice/LastPriceChange: Premium and its percentage move
//   - Volume: Contracts traded since the previous capture
//
// TimescaleDB Optimization:
//   - Stored in a hypertable partitioned by timestamp
//   - Indexed on timestamp and underlying for fast window queries
//   - Automatic chunking based on time intervals
type OptionChainTick struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamp       time.Time `gorm:"index;not null" json:"timestamp"`
	Underlying      string    `gorm:"size:20;index;not null" json:"underlying"`
	Expiry          time.Time `gorm:"index" json:"expiry"`
	Strike          float64   `gorm:"type:decimal(15,2);not null" json:"strike"`
	OptionType      string    `gorm:"size:2;not null" json:"option_type"` // CE, PE
	OpenInterest    float64   `gorm:"type:decimal(20,2)" json:"open_interest"`
	OIChange        float64   `gorm:"type:decimal(20,2)" json:"oi_change"`
	LastPrice       float64   `gorm:"type:decimal(15,2)" json:"last_price"`
	LastPriceChange float64   `gorm:"type:decimal(10,4)" json:"last_price_change"` // percent
	Volume          float64   `gorm:"type:decimal(20,2)" json:"volume"`
	ImpliedVol      *float64  `gorm:"type:decimal(10,4)" json:"implied_volatility,omitempty"`
	Delta           *float64  `gorm:"type:decimal(10,4)" json:"delta,omitempty"`
	Gamma           *float64  `gorm:"type:decimal(10,6)" json:"gamma,omitempty"`
	Theta           *float64  `gorm:"type:decimal(10,4)" json:"theta,omitempty"`
	Vega            *float64  `gorm:"type:decimal(10,4)" json:"vega,omitempty"`
	SpotPrice       float64   `gorm:"type:decimal(15,2)" json:"spot_price"`
}

// TableName specifies the table name for OptionChainTick
func (OptionChainTick) TableName() string {
	return "option_chain_ticks"
}

// OptionChainDaily represents end-of-day aggregates of option chain data.
// Daily rows are pre-computed from ticks in a continuous aggregate view and
// serve the daily-timeframe backtest path.
//
// Key Fields:
//   - Underlying/Bucket: Composite primary key (hypertable compatibility)
//   - Strike/OptionType: Contract identity
//   - CloseOI/CloseLastPrice: End-of-day open interest and premium
//   - TotalVolume: Contracts traded over the day
type OptionChainDaily struct {
	Underlying     string    `gorm:"size:20;not null;primaryKey" json:"underlying"`
	Bucket         time.Time `gorm:"not null;primaryKey" json:"time"`
	Strike         float64   `gorm:"type:decimal(15,2);not null;primaryKey" json:"strike"`
	OptionType     string    `gorm:"size:2;not null;primaryKey" json:"option_type"`
	CloseOI        float64   `gorm:"type:decimal(20,2)" json:"close_oi"`
	OIChange       float64   `gorm:"type:decimal(20,2)" json:"oi_change"`
	CloseLastPrice float64   `gorm:"type:decimal(15,2)" json:"close_last_price"`
	PriceChangePct float64   `gorm:"type:decimal(10,4)" json:"price_change_pct"`
	TotalVolume    float64   `gorm:"type:decimal(20,2)" json:"total_volume"`
	CloseSpot      float64   `gorm:"type:decimal(15,2)" json:"close_spot"`
}

// TableName specifies the table name for OptionChainDaily
func (OptionChainDaily) TableName() string {
	return "option_chain_daily"
}

// SignalDB represents a persisted pattern signal in the database.
// Signals are generated by the pattern detector over chain snapshots and
// stored for review and tracking.
//
// Key Fields:
//   - GeneratedAt: When the signal was generated (indexed)
//   - Underlying: The underlying symbol (indexed)
//   - PatternType: Detected pattern (CALL_LONG_BUILDUP, GAMMA_SQUEEZE, ...)
//   - Direction: BULLISH, BEARISH, or NEUTRAL
//   - Confidence: Detector confidence (0.0 to 0.95)
//   - Strength: HIGH, MEDIUM, or LOW band derived from confidence
//   - Indicators: Supporting readings, stored as JSON
type SignalDB struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	GeneratedAt time.Time `gorm:"primaryKey;index:idx_signal_time;not null" json:"generated_at"`
	Underlying  string    `gorm:"type:text;index;index:idx_symbol_pattern,priority:1;not null" json:"underlying"`
	Strike      float64   `gorm:"type:decimal(15,2)" json:"strike"`
	PatternType string    `gorm:"type:text;index:idx_symbol_pattern,priority:2;not null" json:"pattern_type"`
	Direction   string    `gorm:"type:text;not null" json:"direction"`
	Description string    `gorm:"type:text" json:"description"`
	Confidence  float64   `gorm:"type:decimal(5,4);not null" json:"confidence"`
	Strength    string    `gorm:"type:text;not null" json:"strength"`
	Timeframe   string    `gorm:"type:text" json:"timeframe"`
	Indicators  string    `gorm:"type:jsonb" json:"indicators,omitempty"`
}

// TableName specifies the table name for SignalDB
func (SignalDB) TableName() string {
	return "pattern_signals"
}

// StrategyDB represents a stored user strategy. The rule set is kept as a
// JSON document so rule shape can evolve without migrations.
//
// Key Fields:
//   - UserID: Owner (indexed; strategies are per-user)
//   - Rules: JSON-encoded rule array (1..10 rules)
//   - Logic: AND or OR combinator applied across rules
type StrategyDB struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"type:text;index;not null" json:"user_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Rules       string    `gorm:"type:jsonb;not null" json:"rules"`
	Logic       string    `gorm:"size:3;not null" json:"logic"` // AND, OR
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for StrategyDB
func (StrategyDB) TableName() string {
	return "strategies"
}

// BacktestRunDB represents a persisted backtest execution.
//
// Key Fields:
//   - Status: RUNNING, COMPLETED, FAILED (CANCELLED reserved)
//   - Result: JSON-encoded aggregate result, present once COMPLETED
//   - Error: Failure message, present once FAILED
type BacktestRunDB struct {
	ID              string     `gorm:"primaryKey" json:"id"`
	StrategyID      string     `gorm:"type:text;index;not null" json:"strategy_id"`
	UserID          string     `gorm:"type:text;index;not null" json:"user_id"`
	Name            string     `gorm:"size:100" json:"name,omitempty"`
	Underlying      string     `gorm:"size:20;not null" json:"underlying"`
	FromTime        time.Time  `gorm:"not null" json:"from_time"`
	ToTime          time.Time  `gorm:"not null" json:"to_time"`
	Timeframe       string     `gorm:"size:10" json:"timeframe"`
	Status          string     `gorm:"type:text;index;not null" json:"status"`
	Result          string     `gorm:"type:jsonb" json:"result,omitempty"`
	Error           string     `gorm:"type:text" json:"error,omitempty"`
	ExecutionTimeMs int64      `json:"execution_time_ms"`
	CreatedAt       time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// TableName specifies the table name for BacktestRunDB
func (BacktestRunDB) TableName() string {
	return "backtest_runs"
}

// SignalStats represents aggregated statistics for stored signals
type SignalStats struct {
	Underlying    string  `json:"underlying"`
	TotalSignals  int64   `json:"total_signals"`
	BullishCount  int64   `json:"bullish_count"`
	BearishCount  int64   `json:"bearish_count"`
	AvgConfidence float64 `json:"avg_confidence"`
}
