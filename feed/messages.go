// Package feed maintains the WebSocket connection to the option-chain data
// vendor and decodes its JSON frames.
package feed

import "time"

// Message types sent by the vendor
const (
	MessageChainSnapshot = "chain_snapshot"
	MessageHeartbeat     = "heartbeat"
	MessageError         = "error"
)

// ChainRow is one contract row inside a chain snapshot frame
type ChainRow struct {
	Strike          float64  `json:"strike"`
	OptionType      string   `json:"option_type"` // CE, PE
	OpenInterest    float64  `json:"open_interest"`
	OIChange        float64  `json:"oi_change"`
	LastPrice       float64  `json:"last_price"`
	LastPriceChange float64  `json:"last_price_change"`
	Volume          float64  `json:"volume"`
	ImpliedVol      *float64 `json:"implied_volatility,omitempty"`
	Delta           *float64 `json:"delta,omitempty"`
	Gamma           *float64 `json:"gamma,omitempty"`
	Theta           *float64 `json:"theta,omitempty"`
	Vega            *float64 `json:"vega,omitempty"`
}

// Message is the envelope for every vendor frame
type Message struct {
	Type         string     `json:"type"`
	Underlying   string     `json:"underlying,omitempty"`
	Timestamp    time.Time  `json:"timestamp,omitempty"`
	Expiry       time.Time  `json:"expiry,omitempty"`
	SpotPrice    float64    `json:"spot_price,omitempty"`
	PreviousSpot float64    `json:"previous_spot,omitempty"`
	MarketOpen   bool       `json:"market_open,omitempty"`
	Rows         []ChainRow `json:"rows,omitempty"`
	Error        string     `json:"error,omitempty"`
}

// subscribeRequest is the frame sent to select underlyings
type subscribeRequest struct {
	Action      string   `json:"action"`
	Underlyings []string `json:"underlyings"`
}
