package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"mt_console/internal/domain"
)

// Default pip magnitudes for the one-click position actions.
const (
	DefaultBreakevenPips = 1
	DefaultTrailPips     = 1
)

// Gateway executes discrete, non-idempotent trading actions under a
// per-instrument single-flight guard: while one action for a symbol is in
// flight, further actions for that symbol are rejected locally and never sent.
// The guard protects against duplicate submission from repeated clicks; it is
// not a substitute for backend idempotency.
type Gateway struct {
	store    *StateService
	backend  domain.CommandBackend
	notifier *Notifier
	journal  domain.CommandJournal
	logger   *slog.Logger

	mu   sync.Mutex
	busy map[string]bool
}

// NewGateway creates an action gateway. journal may be nil.
func NewGateway(store *StateService, backend domain.CommandBackend, notifier *Notifier, journal domain.CommandJournal) *Gateway {
	return &Gateway{
		store:    store,
		backend:  backend,
		notifier: notifier,
		journal:  journal,
		logger:   slog.Default().With("module", "gateway"),
		busy:     make(map[string]bool),
	}
}

// Busy reports whether an action for the symbol is currently in flight. The
// view uses this for button enablement.
func (g *Gateway) Busy(symbol string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.busy[symbol]
}

// ManualTrade submits a one-shot market order using the instrument's current
// lot size.
func (g *Gateway) ManualTrade(ctx context.Context, symbol string, side domain.Side) error {
	if !side.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidSide, side)
	}
	inst, ok := g.store.Instrument(symbol)
	if !ok {
		return domain.ErrUnknownInstrument
	}
	if !g.acquire(symbol) {
		return domain.ErrActionInFlight
	}
	defer g.release(symbol)

	msg, err := g.backend.ManualTrade(ctx, symbol, side, inst.LotSize)
	g.finish(symbol, "manual_trade", fmt.Sprintf("side=%s volume=%s", side, inst.LotSize), msg, err,
		"Network error executing manual order.")
	return err
}

// Flatten closes all open positions for the symbol. The view suppresses this
// when the instrument is flat; the backend's own rejection covers the rest.
func (g *Gateway) Flatten(ctx context.Context, symbol string) error {
	if !g.acquire(symbol) {
		return domain.ErrActionInFlight
	}
	defer g.release(symbol)

	msg, err := g.backend.Flatten(ctx, symbol)
	g.finish(symbol, "flatten", "", msg, err, "Network error closing positions.")
	return err
}

// Breakeven moves the open position's stop to entry plus extraPips. A
// non-positive extraPips selects the default (+1).
func (g *Gateway) Breakeven(ctx context.Context, symbol string, extraPips int) error {
	if extraPips <= 0 {
		extraPips = DefaultBreakevenPips
	}
	if !g.acquire(symbol) {
		return domain.ErrActionInFlight
	}
	defer g.release(symbol)

	msg, err := g.backend.Breakeven(ctx, symbol, extraPips)
	g.finish(symbol, "breakeven", fmt.Sprintf("extra_pips=%d", extraPips), msg, err,
		"Network error moving stop to breakeven.")
	return err
}

// TrailStop tightens the open position's stop by pipsToAdd. A non-positive
// pipsToAdd selects the default (+1).
func (g *Gateway) TrailStop(ctx context.Context, symbol string, pipsToAdd int) error {
	if pipsToAdd <= 0 {
		pipsToAdd = DefaultTrailPips
	}
	if !g.acquire(symbol) {
		return domain.ErrActionInFlight
	}
	defer g.release(symbol)

	msg, err := g.backend.TrailStop(ctx, symbol, pipsToAdd)
	g.finish(symbol, "trail_stop", fmt.Sprintf("pips_to_add=%d", pipsToAdd), msg, err,
		"Network error trailing stop.")
	return err
}

// acquire takes the busy flag for a symbol; release must follow on every exit
// path, which the callers guarantee via defer.
func (g *Gateway) acquire(symbol string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy[symbol] {
		return false
	}
	g.busy[symbol] = true
	return true
}

func (g *Gateway) release(symbol string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.busy, symbol)
}

// finish surfaces the action outcome: backend message on success, rejection
// detail verbatim on business errors, a generic localized message on transport
// failure. Actions are never retried.
func (g *Gateway) finish(symbol, command, payload, msg string, err error, networkMsg string) {
	recordOutcome(g.journal, g.logger, symbol, command, payload, msg, err)
	switch {
	case err == nil:
		g.notifier.Push(msg, domain.SeveritySuccess)
	default:
		g.notifier.Push(failureMessage(err, networkMsg), domain.SeverityError)
		g.logger.Warn("Action failed", slog.String("symbol", symbol), slog.String("command", command), slog.Any("error", err))
	}
}
