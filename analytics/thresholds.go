package analytics

// DetectionThresholds holds the tunable cutoffs for every pattern detector.
// Defaults match the values the detectors were calibrated with; callers that
// want different behavior pass their own struct to NewPatternDetector.
type DetectionThresholds struct {
	// Open interest
	OIChange  float64 // short-cover trigger, contracts
	OIBuildup float64 // long-buildup trigger, contracts
	OISupport float64 // support/resistance minimum total OI at a strike

	// Premium, in percent
	PremiumChange float64 // short-cover premium rise
	PremiumSpike  float64 // volatility-spike mean absolute premium change

	// Volume, contracts
	Volume float64

	// Price windows, as fractions of spot
	ATMWindowPct       float64 // gamma-squeeze strike window around ATM
	PriceProximityPct  float64 // support/resistance distance from spot
	MaxPainDistancePct float64 // minimum spot distance before MAX_PAIN fires

	// Gamma squeeze
	GammaSqueezeOI    float64 // minimum near-ATM total OI
	GammaSqueezeScale float64 // OI that maps to full confidence
}

// DefaultThresholds returns the calibrated defaults.
func DefaultThresholds() DetectionThresholds {
	return DetectionThresholds{
		OIChange:           5000,
		OIBuildup:          10000,
		OISupport:          50000,
		PremiumChange:      5,
		PremiumSpike:       15,
		Volume:             10000,
		ATMWindowPct:       0.05,
		PriceProximityPct:  0.02,
		MaxPainDistancePct: 0.02,
		GammaSqueezeOI:     100000,
		GammaSqueezeScale:  500000,
	}
}
