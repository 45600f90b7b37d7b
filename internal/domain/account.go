package domain

import "github.com/shopspring/decimal"

// Account is the backend's account summary. It is replaced wholesale on every
// inbound snapshot; there are no partial updates.
type Account struct {
	Balance        decimal.Decimal `json:"balance"`
	Equity         decimal.Decimal `json:"equity"`
	FloatingProfit decimal.Decimal `json:"profit"`
}
