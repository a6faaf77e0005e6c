package analytics

import (
	"fmt"
	"math"
	"time"
)

// PatternDetector runs a fixed battery of pattern rules over a single
// option-chain snapshot plus market context. It holds no state besides its
// thresholds: every Analyze call is independent and deterministic for
// identical inputs.
type PatternDetector struct {
	thresholds DetectionThresholds
}

// NewPatternDetector creates a detector with the given thresholds.
func NewPatternDetector(thresholds DetectionThresholds) *PatternDetector {
	return &PatternDetector{thresholds: thresholds}
}

// Analyze scans the snapshot with every detector and returns the signals
// found, possibly none. It never panics outward: an internal failure
// degrades to an empty result, which the caller may log at its discretion.
func (pd *PatternDetector) Analyze(snapshot []OptionChainPoint, ctx MarketContext) (signals []Signal) {
	defer func() {
		if r := recover(); r != nil {
			signals = nil
		}
	}()

	if len(snapshot) == 0 || ctx.CurrentPrice <= 0 {
		return nil
	}

	atm := atmStrike(snapshot, ctx.CurrentPrice)

	signals = append(signals, pd.detectLongBuildups(snapshot, ctx, atm)...)
	signals = append(signals, pd.detectShortCovers(snapshot, ctx)...)
	if s := pd.detectGammaSqueeze(snapshot, ctx, atm); s != nil {
		signals = append(signals, *s)
	}
	if s := pd.detectVolatilitySpike(snapshot, ctx, atm); s != nil {
		signals = append(signals, *s)
	}
	signals = append(signals, pd.detectUnusualActivity(snapshot, ctx)...)
	signals = append(signals, pd.detectSupportResistance(snapshot, ctx)...)
	if s := pd.detectMomentumShift(snapshot, ctx, atm); s != nil {
		signals = append(signals, *s)
	}
	if s := pd.detectMaxPain(snapshot, ctx); s != nil {
		signals = append(signals, *s)
	}

	return signals
}

// atmStrike returns the strike closest to the current price. On equal
// distance the first strike in snapshot order wins; the tie-break is stable,
// not numerically symmetric, and downstream behavior depends on it.
func atmStrike(snapshot []OptionChainPoint, price float64) float64 {
	best := snapshot[0].Strike
	bestDist := math.Abs(snapshot[0].Strike - price)
	for _, p := range snapshot[1:] {
		if d := math.Abs(p.Strike - price); d < bestDist {
			bestDist = d
			best = p.Strike
		}
	}
	return best
}

// detectLongBuildups finds fresh long positioning: rising OI with rising
// premium on calls at or above ATM (bullish) and on puts at or below ATM
// (bearish).
func (pd *PatternDetector) detectLongBuildups(snapshot []OptionChainPoint, ctx MarketContext, atm float64) []Signal {
	t := pd.thresholds
	var signals []Signal

	for _, p := range snapshot {
		if p.Strike >= atm && p.CallOIChange > t.OIBuildup && p.CallLastPriceChange > 0 {
			confidence := WeightedConfidence(
				WeightedReading{Value: p.CallOIChange, Threshold: t.OIBuildup, Weight: 0.4},
				WeightedReading{Value: p.CallLastPriceChange, Threshold: t.PremiumChange, Weight: 0.3},
				WeightedReading{Value: p.CallVolume, Threshold: t.Volume, Weight: 0.3},
			)
			s := pd.newSignal(ctx, p.Strike, PatternCallLongBuildup, DirectionBullish, confidence, strengthFor(confidence))
			s.Description = fmt.Sprintf("Call long buildup at %.2f: OI +%.0f with premium up %.2f%%", p.Strike, p.CallOIChange, p.CallLastPriceChange)
			s.Indicators = []SignalIndicator{
				indicator("call_oi_change", p.CallOIChange, t.OIBuildup, p.CallOIChange > t.OIBuildup),
				indicator("call_ltp_change", p.CallLastPriceChange, 0, p.CallLastPriceChange > 0),
				indicator("call_volume", p.CallVolume, t.Volume, p.CallVolume > t.Volume),
			}
			signals = append(signals, s)
		}

		if p.Strike <= atm && p.PutOIChange > t.OIBuildup && p.PutLastPriceChange > 0 {
			confidence := WeightedConfidence(
				WeightedReading{Value: p.PutOIChange, Threshold: t.OIBuildup, Weight: 0.4},
				WeightedReading{Value: p.PutLastPriceChange, Threshold: t.PremiumChange, Weight: 0.3},
				WeightedReading{Value: p.PutVolume, Threshold: t.Volume, Weight: 0.3},
			)
			s := pd.newSignal(ctx, p.Strike, PatternPutLongBuildup, DirectionBearish, confidence, strengthFor(confidence))
			s.Description = fmt.Sprintf("Put long buildup at %.2f: OI +%.0f with premium up %.2f%%", p.Strike, p.PutOIChange, p.PutLastPriceChange)
			s.Indicators = []SignalIndicator{
				indicator("put_oi_change", p.PutOIChange, t.OIBuildup, p.PutOIChange > t.OIBuildup),
				indicator("put_ltp_change", p.PutLastPriceChange, 0, p.PutLastPriceChange > 0),
				indicator("put_volume", p.PutVolume, t.Volume, p.PutVolume > t.Volume),
			}
			signals = append(signals, s)
		}
	}
	return signals
}

// detectShortCovers finds writers unwinding: falling OI with sharply rising
// premium on meaningful volume. Call-side covering is bullish, put-side
// covering is bearish.
func (pd *PatternDetector) detectShortCovers(snapshot []OptionChainPoint, ctx MarketContext) []Signal {
	t := pd.thresholds
	var signals []Signal

	for _, p := range snapshot {
		if p.CallOIChange < -t.OIChange && p.CallLastPriceChange > t.PremiumChange && p.CallVolume > t.Volume {
			confidence := WeightedConfidence(
				WeightedReading{Value: math.Abs(p.CallOIChange), Threshold: t.OIChange, Weight: 0.4},
				WeightedReading{Value: p.CallLastPriceChange, Threshold: t.PremiumChange, Weight: 0.4},
				WeightedReading{Value: p.CallVolume, Threshold: t.Volume, Weight: 0.2},
			)
			s := pd.newSignal(ctx, p.Strike, PatternCallShortCover, DirectionBullish, confidence, strengthFor(confidence))
			s.Description = fmt.Sprintf("Call short covering at %.2f: OI %.0f, premium up %.2f%%", p.Strike, p.CallOIChange, p.CallLastPriceChange)
			s.Indicators = []SignalIndicator{
				indicator("call_oi_change", p.CallOIChange, -t.OIChange, p.CallOIChange < -t.OIChange),
				indicator("call_ltp_change", p.CallLastPriceChange, t.PremiumChange, p.CallLastPriceChange > t.PremiumChange),
				indicator("call_volume", p.CallVolume, t.Volume, p.CallVolume > t.Volume),
			}
			signals = append(signals, s)
		}

		if p.PutOIChange < -t.OIChange && p.PutLastPriceChange > t.PremiumChange && p.PutVolume > t.Volume {
			confidence := WeightedConfidence(
				WeightedReading{Value: math.Abs(p.PutOIChange), Threshold: t.OIChange, Weight: 0.4},
				WeightedReading{Value: p.PutLastPriceChange, Threshold: t.PremiumChange, Weight: 0.4},
				WeightedReading{Value: p.PutVolume, Threshold: t.Volume, Weight: 0.2},
			)
			s := pd.newSignal(ctx, p.Strike, PatternPutShortCover, DirectionBearish, confidence, strengthFor(confidence))
			s.Description = fmt.Sprintf("Put short covering at %.2f: OI %.0f, premium up %.2f%%", p.Strike, p.PutOIChange, p.PutLastPriceChange)
			s.Indicators = []SignalIndicator{
				indicator("put_oi_change", p.PutOIChange, -t.OIChange, p.PutOIChange < -t.OIChange),
				indicator("put_ltp_change", p.PutLastPriceChange, t.PremiumChange, p.PutLastPriceChange > t.PremiumChange),
				indicator("put_volume", p.PutVolume, t.Volume, p.PutVolume > t.Volume),
			}
			signals = append(signals, s)
		}
	}
	return signals
}

// detectGammaSqueeze fires when open interest concentrated near ATM is large
// enough to force dealer hedging. Direction follows whichever side carries
// more OI inside the window.
func (pd *PatternDetector) detectGammaSqueeze(snapshot []OptionChainPoint, ctx MarketContext, atm float64) *Signal {
	t := pd.thresholds
	lower := atm * (1 - t.ATMWindowPct)
	upper := atm * (1 + t.ATMWindowPct)

	var callOI, putOI float64
	for _, p := range snapshot {
		if p.Strike >= lower && p.Strike <= upper {
			callOI += p.CallOpenInterest
			putOI += p.PutOpenInterest
		}
	}

	totalOI := callOI + putOI
	if totalOI <= t.GammaSqueezeOI {
		return nil
	}

	direction := DirectionNeutral
	if callOI > putOI {
		direction = DirectionBullish
	} else if putOI > callOI {
		direction = DirectionBearish
	}

	confidence := ClampConfidence(totalOI / t.GammaSqueezeScale)
	s := pd.newSignal(ctx, atm, PatternGammaSqueeze, direction, confidence, strengthWithHighCut(confidence, 0.7))
	s.Description = fmt.Sprintf("Gamma squeeze setup: %.0f OI within ±%.0f%% of ATM %.2f", totalOI, t.ATMWindowPct*100, atm)
	s.Indicators = []SignalIndicator{
		indicator("near_atm_oi", totalOI, t.GammaSqueezeOI, true),
		indicator("call_side_oi", callOI, 0, callOI > putOI),
		indicator("put_side_oi", putOI, 0, putOI > callOI),
	}
	return &s
}

// detectVolatilitySpike fires when the mean absolute premium change across
// every call and put leg exceeds the spike threshold. Direction is neutral:
// the move says premiums repriced, not which way the underlying goes.
func (pd *PatternDetector) detectVolatilitySpike(snapshot []OptionChainPoint, ctx MarketContext, atm float64) *Signal {
	t := pd.thresholds

	var sum float64
	var n int
	for _, p := range snapshot {
		sum += math.Abs(p.CallLastPriceChange)
		sum += math.Abs(p.PutLastPriceChange)
		n += 2
	}
	if n == 0 {
		return nil
	}

	spike := sum / float64(n)
	if spike <= t.PremiumSpike {
		return nil
	}

	confidence := ClampConfidence(spike / (2 * t.PremiumSpike))
	s := pd.newSignal(ctx, atm, PatternVolatilitySpike, DirectionNeutral, confidence, strengthFor(confidence))
	s.Description = fmt.Sprintf("Volatility spike: mean premium change %.2f%% across the chain", spike)
	s.Indicators = []SignalIndicator{
		indicator("mean_abs_ltp_change", spike, t.PremiumSpike, true),
	}
	return &s
}

// detectUnusualActivity flags strikes where traded volume overwhelms open
// interest, suggesting fresh positioning rather than position maintenance.
func (pd *PatternDetector) detectUnusualActivity(snapshot []OptionChainPoint, ctx MarketContext) []Signal {
	t := pd.thresholds
	var signals []Signal

	for _, p := range snapshot {
		totalOI := p.CallOpenInterest + p.PutOpenInterest
		totalVolume := p.CallVolume + p.PutVolume
		if totalOI <= 0 {
			continue
		}

		ratio := totalVolume / totalOI
		if ratio <= 0.5 || totalVolume <= 2*t.Volume {
			continue
		}

		direction := DirectionBearish
		if p.CallVolume > p.PutVolume {
			direction = DirectionBullish
		}

		confidence := ClampConfidence(math.Min(0.9, ratio))
		s := pd.newSignal(ctx, p.Strike, PatternUnusualActivity, direction, confidence, strengthWithHighCut(confidence, 0.7))
		s.Description = fmt.Sprintf("Unusual activity at %.2f: volume/OI ratio %.2f on %.0f contracts", p.Strike, ratio, totalVolume)
		s.Indicators = []SignalIndicator{
			indicator("volume_oi_ratio", ratio, 0.5, true),
			indicator("total_volume", totalVolume, 2*t.Volume, true),
		}
		signals = append(signals, s)
	}
	return signals
}

// detectSupportResistance marks heavy-OI strikes close to spot. Put walls
// below spot act as support, call walls above spot as resistance.
func (pd *PatternDetector) detectSupportResistance(snapshot []OptionChainPoint, ctx MarketContext) []Signal {
	t := pd.thresholds
	spot := ctx.CurrentPrice
	var signals []Signal

	for _, p := range snapshot {
		totalOI := p.CallOpenInterest + p.PutOpenInterest
		if math.Abs(p.Strike-spot)/spot > t.PriceProximityPct || totalOI <= t.OISupport {
			continue
		}

		confidence := ClampConfidence(math.Min(0.85, totalOI/(2*t.OISupport)))

		if p.Strike < spot && p.PutOpenInterest > p.CallOpenInterest {
			s := pd.newSignal(ctx, p.Strike, PatternSupportResistance, DirectionBullish, confidence, strengthFor(confidence))
			s.Description = fmt.Sprintf("Put wall at %.2f acting as support (%.0f OI)", p.Strike, totalOI)
			s.Indicators = []SignalIndicator{
				indicator("total_oi", totalOI, t.OISupport, true),
				indicator("put_oi", p.PutOpenInterest, p.CallOpenInterest, true),
			}
			signals = append(signals, s)
		} else if p.Strike > spot && p.CallOpenInterest > p.PutOpenInterest {
			s := pd.newSignal(ctx, p.Strike, PatternSupportResistance, DirectionBearish, confidence, strengthFor(confidence))
			s.Description = fmt.Sprintf("Call wall at %.2f acting as resistance (%.0f OI)", p.Strike, totalOI)
			s.Indicators = []SignalIndicator{
				indicator("total_oi", totalOI, t.OISupport, true),
				indicator("call_oi", p.CallOpenInterest, p.PutOpenInterest, true),
			}
			signals = append(signals, s)
		}
	}
	return signals
}

// detectMomentumShift fires when a >2% price move is backed by OI-change
// flow leaning the same way: call flow dominating on a rally, put flow
// dominating on a selloff.
func (pd *PatternDetector) detectMomentumShift(snapshot []OptionChainPoint, ctx MarketContext, atm float64) *Signal {
	if ctx.PreviousPrice <= 0 {
		return nil
	}

	changePct := (ctx.CurrentPrice - ctx.PreviousPrice) / ctx.PreviousPrice * 100
	if math.Abs(changePct) <= 2 {
		return nil
	}

	var callFlow, putFlow float64
	for _, p := range snapshot {
		callFlow += p.CallOIChange
		putFlow += p.PutOIChange
	}

	var direction Direction
	switch {
	case changePct > 0 && callFlow > putFlow:
		direction = DirectionBullish
	case changePct < 0 && putFlow > callFlow:
		direction = DirectionBearish
	default:
		return nil
	}

	confidence := ClampConfidence(math.Min(0.9, math.Abs(changePct)/5))
	s := pd.newSignal(ctx, atm, PatternMomentumShift, direction, confidence, strengthFor(confidence))
	s.Description = fmt.Sprintf("Momentum shift: price %+.2f%% with OI flow agreeing (calls %+.0f vs puts %+.0f)", changePct, callFlow, putFlow)
	s.Indicators = []SignalIndicator{
		indicator("price_change_pct", changePct, 2, true),
		indicator("call_oi_flow", callFlow, 0, callFlow > putFlow),
		indicator("put_oi_flow", putFlow, 0, putFlow > callFlow),
	}
	return &s
}

// detectMaxPain emits a reversion signal when spot has drifted more than the
// configured distance from the max-pain strike. Price tends to gravitate
// toward max pain into expiry, so the direction points back at it.
func (pd *PatternDetector) detectMaxPain(snapshot []OptionChainPoint, ctx MarketContext) *Signal {
	t := pd.thresholds
	maxPain := ComputeMaxPain(snapshot)
	if maxPain <= 0 {
		return nil
	}

	distance := (maxPain - ctx.CurrentPrice) / ctx.CurrentPrice
	if math.Abs(distance) <= t.MaxPainDistancePct {
		return nil
	}

	direction := DirectionBearish
	if maxPain > ctx.CurrentPrice {
		direction = DirectionBullish
	}

	confidence := ClampConfidence(math.Min(0.8, math.Abs(distance)*100/10))
	s := pd.newSignal(ctx, maxPain, PatternMaxPain, direction, confidence, strengthFor(confidence))
	s.Description = fmt.Sprintf("Max pain at %.2f, spot %.2f is %.2f%% away", maxPain, ctx.CurrentPrice, distance*100)
	s.Indicators = []SignalIndicator{
		indicator("max_pain_strike", maxPain, 0, true),
		indicator("distance_pct", math.Abs(distance)*100, t.MaxPainDistancePct*100, true),
	}
	return &s
}

// newSignal builds the common signal envelope. The ID embeds symbol, strike
// and timestamp so concurrently produced signals stay practically unique.
func (pd *PatternDetector) newSignal(ctx MarketContext, strike float64, pattern PatternType, direction Direction, confidence float64, strength Strength) Signal {
	now := time.Now()
	return Signal{
		ID:          fmt.Sprintf("%s-%s-%.2f-%d", pattern, ctx.UnderlyingSymbol, strike, now.UnixNano()),
		Timestamp:   now,
		Underlying:  ctx.UnderlyingSymbol,
		Strike:      strike,
		PatternType: pattern,
		Direction:   direction,
		Confidence:  confidence,
		Strength:    strength,
		Timeframe:   ctx.Timeframe,
	}
}

func indicator(name string, value, threshold float64, triggered bool) SignalIndicator {
	status := IndicatorNormal
	if triggered {
		status = IndicatorTriggered
	}
	return SignalIndicator{Name: name, Value: value, Threshold: threshold, Status: status}
}
