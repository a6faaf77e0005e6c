package database

import "time"

// Time interval constants for TimescaleDB operations
const (
	// Continuous aggregate refresh intervals
	RefreshInterval5Min  = 5 * time.Minute
	RefreshInterval1Hour = 1 * time.Hour
	RefreshInterval1Day  = 24 * time.Hour

	// Hypertable chunk intervals
	ChunkInterval1Day  = 1 * 24 * time.Hour
	ChunkInterval7Days = 7 * 24 * time.Hour

	// Data retention policies
	RetentionTicks3Months = 3 * 30 * 24 * time.Hour
	RetentionDaily2Years  = 2 * 365 * 24 * time.Hour
	RetentionSignals1Year = 365 * 24 * time.Hour
)

// Query limits
const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Timeframe identifiers accepted by the market-data repository
const (
	TimeframeIntraday = "5m"
	TimeframeDaily    = "1d"
)

// Signal retention and lookup constants
const (
	SignalLookbackHours   = 24
	LatestSignalsPerQuery = 50
)
