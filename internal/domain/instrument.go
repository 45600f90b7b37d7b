package domain

import "github.com/shopspring/decimal"

// Side is the direction of a trade or signal.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Valid reports whether the side is one of the two known directions.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// Position is the single open position for an instrument. Presence/absence on
// Instrument signals open/flat; the ticket is the backend-assigned identity.
type Position struct {
	Ticket     int64           `json:"ticket"`
	Side       Side            `json:"type"`
	Volume     decimal.Decimal `json:"volume"`
	EntryPrice decimal.Decimal `json:"price_open"`
	StopLoss   decimal.Decimal `json:"sl"`
	TakeProfit decimal.Decimal `json:"tp"`
	Profit     decimal.Decimal `json:"profit"`
}

// Instrument is the per-symbol market, position and configuration state pushed
// by the backend. The symbol is the map key on the wire and is filled in during
// snapshot parsing.
type Instrument struct {
	Symbol          string           `json:"-"`
	Bid             decimal.Decimal  `json:"bid"`
	Ask             decimal.Decimal  `json:"ask"`
	Signal          *Side            `json:"signal"` // non-nil only on the tick a signal fires
	LastSignal      *Side            `json:"-"`      // latched across snapshots by the store
	LastUpFractal   *decimal.Decimal `json:"last_up_fractal"`
	LastDownFractal *decimal.Decimal `json:"last_down_fractal"`
	Position        *Position        `json:"position"`
	AutoTrading     bool             `json:"auto_trading"`
	LotSize         decimal.Decimal  `json:"lot_size"`
	StopLossPips    int              `json:"sl_pips"`
	TakeProfitPips  int              `json:"tp_pips"`
}

// HasPosition reports whether the instrument currently has an open position.
func (i *Instrument) HasPosition() bool {
	return i.Position != nil
}
