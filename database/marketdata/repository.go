// Package marketdata stores option-chain captures and serves them back as
// chain snapshots for the detector and point series for the backtester.
package marketdata

import (
	"context"
	"fmt"
	"time"

	"chainpulse/analytics"
	models "chainpulse/database/models_pkg"
	"chainpulse/strategy"

	"gorm.io/gorm"
)

const insertBatchSize = 500

// Repository handles database operations for option-chain market data. It
// implements the backtest engine's historical source.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new market-data repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveTicks bulk-inserts one capture's chain rows
func (r *Repository) SaveTicks(ticks []models.OptionChainTick) error {
	if len(ticks) == 0 {
		return nil
	}
	if err := r.db.CreateInBatches(ticks, insertBatchSize).Error; err != nil {
		return fmt.Errorf("SaveTicks: %w", err)
	}
	return nil
}

// Points streams stored rows for a symbol and window, ordered by timestamp
// ascending. The daily timeframe reads the continuous aggregate; everything
// else reads raw ticks.
func (r *Repository) Points(ctx context.Context, symbol, timeframe string, from, to time.Time) ([]strategy.MarketDataPoint, error) {
	if timeframe == "1d" {
		return r.dailyPoints(ctx, symbol, from, to)
	}
	return r.tickPoints(ctx, symbol, from, to)
}

func (r *Repository) tickPoints(ctx context.Context, symbol string, from, to time.Time) ([]strategy.MarketDataPoint, error) {
	var ticks []models.OptionChainTick
	err := r.db.WithContext(ctx).
		Where("underlying = ? AND timestamp >= ? AND timestamp <= ?", symbol, from, to).
		Order("timestamp ASC, strike ASC, option_type ASC").
		Find(&ticks).Error
	if err != nil {
		return nil, fmt.Errorf("Points: %w", err)
	}
	return TicksToPoints(ticks), nil
}

func (r *Repository) dailyPoints(ctx context.Context, symbol string, from, to time.Time) ([]strategy.MarketDataPoint, error) {
	var rows []models.OptionChainDaily
	err := r.db.WithContext(ctx).
		Where("underlying = ? AND bucket >= ? AND bucket <= ?", symbol, from, to).
		Order("bucket ASC, strike ASC, option_type ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("Points: %w", err)
	}
	points := make([]strategy.MarketDataPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, strategy.MarketDataPoint{
			Symbol:       row.Underlying,
			Timestamp:    row.Bucket,
			OpenInterest: row.CloseOI,
			OIChange:     row.OIChange,
			LastPrice:    row.CloseLastPrice,
			Volume:       row.TotalVolume,
			Strike:       row.Strike,
			OptionType:   row.OptionType,
		})
	}
	attachPutCallRatios(points)
	return points, nil
}

// TicksToPoints maps stored ticks onto evaluable data points and attaches the
// capture-wide put/call ratio to every row of each capture.
func TicksToPoints(ticks []models.OptionChainTick) []strategy.MarketDataPoint {
	points := make([]strategy.MarketDataPoint, 0, len(ticks))
	for _, tick := range ticks {
		point := strategy.MarketDataPoint{
			Symbol:       tick.Underlying,
			Timestamp:    tick.Timestamp,
			OpenInterest: tick.OpenInterest,
			OIChange:     tick.OIChange,
			LastPrice:    tick.LastPrice,
			Volume:       tick.Volume,
			Strike:       tick.Strike,
			OptionType:   tick.OptionType,
		}
		if tick.ImpliedVol != nil {
			point.ImpliedVol = *tick.ImpliedVol
		}
		if tick.Delta != nil {
			point.Delta = *tick.Delta
		}
		if tick.Gamma != nil {
			point.Gamma = *tick.Gamma
		}
		if tick.Theta != nil {
			point.Theta = *tick.Theta
		}
		if tick.Vega != nil {
			point.Vega = *tick.Vega
		}
		points = append(points, point)
	}
	attachPutCallRatios(points)
	return points
}

// attachPutCallRatios computes put OI / call OI per capture timestamp and
// stamps the ratio on every point of that capture. A capture without call OI
// leaves the ratio at zero.
func attachPutCallRatios(points []strategy.MarketDataPoint) {
	type oiSums struct {
		call float64
		put  float64
	}
	sums := make(map[time.Time]*oiSums)
	for _, point := range points {
		s, ok := sums[point.Timestamp]
		if !ok {
			s = &oiSums{}
			sums[point.Timestamp] = s
		}
		switch point.OptionType {
		case "CE":
			s.call += point.OpenInterest
		case "PE":
			s.put += point.OpenInterest
		}
	}
	for i := range points {
		s := sums[points[i].Timestamp]
		if s != nil && s.call > 0 {
			points[i].PutCallRatio = s.put / s.call
		}
	}
}

// LatestChain loads the most recent capture for a symbol and folds its rows
// into per-strike chain points, plus the spot price recorded with the
// capture. Returns a nil snapshot when no data exists yet.
func (r *Repository) LatestChain(symbol string) ([]analytics.OptionChainPoint, float64, time.Time, error) {
	var latest *time.Time
	err := r.db.Model(&models.OptionChainTick{}).
		Where("underlying = ?", symbol).
		Select("MAX(timestamp)").
		Scan(&latest).Error
	if err != nil {
		return nil, 0, time.Time{}, fmt.Errorf("LatestChain: %w", err)
	}
	if latest == nil || latest.IsZero() {
		return nil, 0, time.Time{}, nil
	}

	var ticks []models.OptionChainTick
	err = r.db.
		Where("underlying = ? AND timestamp = ?", symbol, *latest).
		Order("strike ASC").
		Find(&ticks).Error
	if err != nil {
		return nil, 0, time.Time{}, fmt.Errorf("LatestChain: %w", err)
	}

	snapshot, spot := BuildChain(ticks)
	return snapshot, spot, *latest, nil
}

// BuildChain folds per-contract tick rows into per-strike chain points,
// preserving the strike order of the input. The spot price is taken from the
// first row carrying one.
func BuildChain(ticks []models.OptionChainTick) ([]analytics.OptionChainPoint, float64) {
	var snapshot []analytics.OptionChainPoint
	index := make(map[float64]int)
	spot := 0.0

	for _, tick := range ticks {
		if spot == 0 && tick.SpotPrice > 0 {
			spot = tick.SpotPrice
		}
		i, ok := index[tick.Strike]
		if !ok {
			snapshot = append(snapshot, analytics.OptionChainPoint{Strike: tick.Strike})
			i = len(snapshot) - 1
			index[tick.Strike] = i
		}
		switch tick.OptionType {
		case "CE":
			snapshot[i].CallOpenInterest = tick.OpenInterest
			snapshot[i].CallOIChange = tick.OIChange
			snapshot[i].CallLastPrice = tick.LastPrice
			snapshot[i].CallLastPriceChange = tick.LastPriceChange
			snapshot[i].CallVolume = tick.Volume
		case "PE":
			snapshot[i].PutOpenInterest = tick.OpenInterest
			snapshot[i].PutOIChange = tick.OIChange
			snapshot[i].PutLastPrice = tick.LastPrice
			snapshot[i].PutLastPriceChange = tick.LastPriceChange
			snapshot[i].PutVolume = tick.Volume
		}
	}
	return snapshot, spot
}
