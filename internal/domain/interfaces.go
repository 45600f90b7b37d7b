package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// CommandBackend is the outbound command surface of the trading backend. Every
// call maps to exactly one request and one response; the returned string is
// the backend's human-readable acceptance message. Implementations must not
// retry: trading commands are never silently replayed.
type CommandBackend interface {
	SetTradingMode(ctx context.Context, instrument string, enabled bool) (string, error)
	SetLotSize(ctx context.Context, instrument string, volume decimal.Decimal) (string, error)
	SetRiskDistances(ctx context.Context, instrument string, slPips, tpPips int) (string, error)
	ManualTrade(ctx context.Context, instrument string, side Side, volume decimal.Decimal) (string, error)
	Flatten(ctx context.Context, instrument string) (string, error)
	Breakeven(ctx context.Context, instrument string, extraPips int) (string, error)
	TrailStop(ctx context.Context, instrument string, pipsToAdd int) (string, error)
	AddInstrument(ctx context.Context, instrument string) (string, error)
	RemoveInstrument(ctx context.Context, instrument string) (string, error)
}

// CommandJournal persists the audit trail of issued commands.
type CommandJournal interface {
	RecordCommand(rec *CommandRecord) error
}

// CommandHistory reads the journal back for display, newest first. The SQLite
// store implements it alongside CommandJournal.
type CommandHistory interface {
	RecentCommands(limit int) ([]CommandRecord, error)
	CommandsForInstrument(instrument string, limit int) ([]CommandRecord, error)
}
