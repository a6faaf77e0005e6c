// Package analytics implements the options-chain analytics core: the
// rule-based pattern detector that scans option-chain snapshots for
// open-interest and premium patterns, and the max-pain calculator.
//
// The package is pure computation. It does not fetch data, persist results,
// or schedule itself. Callers feed it snapshots and own the lifetime of
// everything it returns.
package analytics

import "time"

// Direction indicates the market bias of a detected signal.
type Direction string

const (
	DirectionBullish Direction = "BULLISH"
	DirectionBearish Direction = "BEARISH"
	DirectionNeutral Direction = "NEUTRAL"
)

// Strength buckets a confidence value for display and filtering.
type Strength string

const (
	StrengthHigh   Strength = "HIGH"
	StrengthMedium Strength = "MEDIUM"
	StrengthLow    Strength = "LOW"
)

// PatternType identifies which detector produced a signal.
type PatternType string

const (
	PatternCallLongBuildup   PatternType = "CALL_LONG_BUILDUP"
	PatternPutLongBuildup    PatternType = "PUT_LONG_BUILDUP"
	PatternCallShortCover    PatternType = "CALL_SHORT_COVER"
	PatternPutShortCover     PatternType = "PUT_SHORT_COVER"
	PatternGammaSqueeze      PatternType = "GAMMA_SQUEEZE"
	PatternVolatilitySpike   PatternType = "VOLATILITY_SPIKE"
	PatternUnusualActivity   PatternType = "UNUSUAL_ACTIVITY"
	PatternSupportResistance PatternType = "SUPPORT_RESISTANCE"
	PatternMomentumShift     PatternType = "MOMENTUM_SHIFT"
	PatternMaxPain           PatternType = "MAX_PAIN"
)

// IndicatorStatus marks whether an indicator reading crossed its threshold.
type IndicatorStatus string

const (
	IndicatorTriggered IndicatorStatus = "TRIGGERED"
	IndicatorNormal    IndicatorStatus = "NORMAL"
)

// OptionChainPoint is one strike row of an option-chain snapshot.
// A snapshot is an ordered slice of points, unique by strike; points are
// immutable once produced.
//
// Key Fields:
//   - Strike: the strike price this row describes
//   - CallOIChange / PutOIChange: open-interest delta since the previous snapshot
//   - CallLastPriceChange / PutLastPriceChange: premium change in percent
//   - CallVolume / PutVolume: contracts traded in the snapshot window
type OptionChainPoint struct {
	Strike              float64 `json:"strike"`
	CallOpenInterest    float64 `json:"call_open_interest"`
	CallOIChange        float64 `json:"call_oi_change"`
	CallLastPrice       float64 `json:"call_last_price"`
	CallLastPriceChange float64 `json:"call_last_price_change"`
	CallVolume          float64 `json:"call_volume"`
	PutOpenInterest     float64 `json:"put_open_interest"`
	PutOIChange         float64 `json:"put_oi_change"`
	PutLastPrice        float64 `json:"put_last_price"`
	PutLastPriceChange  float64 `json:"put_last_price_change"`
	PutVolume           float64 `json:"put_volume"`
}

// MarketContext carries the per-invocation market state the detectors need.
// It is supplied by the caller on every analysis call and never persisted.
type MarketContext struct {
	UnderlyingSymbol string  `json:"underlying_symbol"`
	CurrentPrice     float64 `json:"current_price"`
	PreviousPrice    float64 `json:"previous_price"`
	ImpliedVolEst    float64 `json:"implied_vol_estimate"`
	IsMarketOpen     bool    `json:"is_market_open"`
	Timeframe        string  `json:"timeframe"`
}

// SignalIndicator is one named reading that contributed to a signal.
type SignalIndicator struct {
	Name      string          `json:"name"`
	Value     float64         `json:"value"`
	Threshold float64         `json:"threshold"`
	Status    IndicatorStatus `json:"status"`
}

// Signal is a classified pattern detection. Signals are created fresh per
// analysis call and never mutated; the caller owns persistence and lifetime.
// Confidence is always within [0, 0.95] and Strength is derived from it.
type Signal struct {
	ID          string            `json:"id"`
	Timestamp   time.Time         `json:"timestamp"`
	Underlying  string            `json:"underlying"`
	Strike      float64           `json:"strike"`
	PatternType PatternType       `json:"pattern_type"`
	Direction   Direction         `json:"direction"`
	Description string            `json:"description"`
	Confidence  float64           `json:"confidence"`
	Strength    Strength          `json:"strength"`
	Timeframe   string            `json:"timeframe"`
	Indicators  []SignalIndicator `json:"indicators"`
}
