package backend

import (
	"math"
	"time"
)

// Backend command endpoints (FastAPI side).
const (
	pathTradingMode      = "/api/trading_mode"
	pathLotSize          = "/api/lot_size"
	pathRiskDistances    = "/api/sl_tp"
	pathManualTrade      = "/api/manual_trade"
	pathFlatten          = "/api/flatten"
	pathBreakeven        = "/api/breakeven"
	pathTrailStop        = "/api/trail_stop"
	pathAddInstrument    = "/api/add_instrument"
	pathRemoveInstrument = "/api/remove_instrument"
)

const (
	maxRetries       = 10
	baseDelay        = 1 * time.Second
	maxDelay         = 60 * time.Second
	readTimeout      = 60 * time.Second
	handshakeTimeout = 10 * time.Second
)

// Wire payloads. Monetary values cross the boundary as plain JSON numbers;
// domain code keeps decimals and converts here.
type tradingModeRequest struct {
	Instrument string `json:"instrument"`
	Enabled    bool   `json:"enabled"`
}

type lotSizeRequest struct {
	Instrument string  `json:"instrument"`
	Volume     float64 `json:"volume"`
}

type riskDistancesRequest struct {
	Instrument string `json:"instrument"`
	SlPips     int    `json:"sl_pips"`
	TpPips     int    `json:"tp_pips"`
}

type manualTradeRequest struct {
	Instrument string  `json:"instrument"`
	Side       string  `json:"side"`
	Volume     float64 `json:"volume"`
}

type breakevenRequest struct {
	Instrument string `json:"instrument"`
	ExtraPips  int    `json:"extra_pips"`
}

type trailStopRequest struct {
	Instrument string `json:"instrument"`
	PipsToAdd  int    `json:"pips_to_add"`
}

type instrumentRequest struct {
	Instrument string `json:"instrument"`
}

type successResponse struct {
	Message string `json:"message"`
}

type rejectionResponse struct {
	Detail string `json:"detail"`
}

// calculateBackoff returns the reconnect delay for the given retry count,
// doubling from baseDelay up to maxDelay.
func calculateBackoff(retryCount int) time.Duration {
	// Cap retry count to prevent overflow (2^6 = 64 seconds > max 60s)
	if retryCount > 6 {
		return maxDelay
	}
	delay := baseDelay * time.Duration(math.Pow(2, float64(retryCount)))
	if delay > maxDelay {
		delay = maxDelay
	}
	return delay
}
