package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"mt_console/internal/domain"

	"github.com/shopspring/decimal"
)

// FieldEdits is the raw text of the operator's numeric edits for one
// instrument, exactly as typed. It stays readable even when unparseable so the
// view never fights the keyboard; valid values are what actually get sent.
type FieldEdits struct {
	LotSize    string
	StopLoss   string
	TakeProfit string
}

// Dispatcher turns user configuration edits into optimistic local state plus a
// single confirmation request. Only the boolean toggle is rolled back on
// failure; numeric fields are re-synced by the next authoritative snapshot.
type Dispatcher struct {
	store    *StateService
	backend  domain.CommandBackend
	notifier *Notifier
	journal  domain.CommandJournal
	logger   *slog.Logger

	mu    sync.Mutex
	edits map[string]*FieldEdits
}

// NewDispatcher creates a dispatcher. journal may be nil.
func NewDispatcher(store *StateService, backend domain.CommandBackend, notifier *Notifier, journal domain.CommandJournal) *Dispatcher {
	return &Dispatcher{
		store:    store,
		backend:  backend,
		notifier: notifier,
		journal:  journal,
		logger:   slog.Default().With("module", "dispatcher"),
		edits:    make(map[string]*FieldEdits),
	}
}

// Edits returns the recorded raw edit text for a symbol, if any. The view
// shows snapshot values until the operator starts typing.
func (d *Dispatcher) Edits(symbol string) (FieldEdits, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.edits[symbol]
	if !ok {
		return FieldEdits{}, false
	}
	return *e, true
}

// SetAutoTrading toggles automated trading for a symbol. The local state flips
// immediately; a failed confirmation flips it back and raises an error
// notification.
func (d *Dispatcher) SetAutoTrading(ctx context.Context, symbol string, enabled bool) error {
	prev, ok := d.store.SetAutoTrading(symbol, enabled)
	if !ok {
		return domain.ErrUnknownInstrument
	}

	msg, err := d.backend.SetTradingMode(ctx, symbol, enabled)
	recordOutcome(d.journal, d.logger, symbol, "trading_mode", fmt.Sprintf("enabled=%t", enabled), msg, err)
	if err != nil {
		d.store.SetAutoTrading(symbol, prev)
		d.notifier.Push(failureMessage(err, "Failed to change trading mode for "+symbol), domain.SeverityError)
		d.logger.Warn("Trading mode change failed", slog.String("symbol", symbol), slog.Any("error", err))
		return err
	}
	return nil
}

// SetLotSize records the typed lot size and, when it parses as a positive
// number, applies it locally and confirms with the backend. Invalid input is a
// silent no-op: no request, no notification.
func (d *Dispatcher) SetLotSize(ctx context.Context, symbol, raw string) error {
	d.setEdit(symbol, func(e *FieldEdits) { e.LotSize = raw })

	volume, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !volume.IsPositive() {
		return nil
	}
	if !d.store.SetLotSize(symbol, volume) {
		return domain.ErrUnknownInstrument
	}

	msg, err := d.backend.SetLotSize(ctx, symbol, volume)
	recordOutcome(d.journal, d.logger, symbol, "lot_size", "volume="+volume.String(), msg, err)
	if err != nil {
		// No rollback: the next snapshot re-syncs the numeric field anyway.
		d.notifier.Push(failureMessage(err, "Failed to update lot size for "+symbol), domain.SeverityError)
		d.logger.Warn("Lot size update failed", slog.String("symbol", symbol), slog.Any("error", err))
		return err
	}
	return nil
}

// SetRiskDistances records the typed stop/target distances and, when both
// parse as positive integers, sends them in one combined request so the two
// pip baselines can never diverge on the backend.
func (d *Dispatcher) SetRiskDistances(ctx context.Context, symbol, slRaw, tpRaw string) error {
	d.setEdit(symbol, func(e *FieldEdits) {
		e.StopLoss = slRaw
		e.TakeProfit = tpRaw
	})

	slPips, slErr := strconv.Atoi(strings.TrimSpace(slRaw))
	tpPips, tpErr := strconv.Atoi(strings.TrimSpace(tpRaw))
	if slErr != nil || tpErr != nil || slPips <= 0 || tpPips <= 0 {
		return nil
	}
	if !d.store.SetRiskDistances(symbol, slPips, tpPips) {
		return domain.ErrUnknownInstrument
	}

	msg, err := d.backend.SetRiskDistances(ctx, symbol, slPips, tpPips)
	recordOutcome(d.journal, d.logger, symbol, "sl_tp", fmt.Sprintf("sl_pips=%d tp_pips=%d", slPips, tpPips), msg, err)
	if err != nil {
		d.notifier.Push(failureMessage(err, "Failed to update SL/TP for "+symbol), domain.SeverityError)
		d.logger.Warn("Risk distance update failed", slog.String("symbol", symbol), slog.Any("error", err))
		return err
	}
	return nil
}

func (d *Dispatcher) setEdit(symbol string, apply func(*FieldEdits)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.edits[symbol]
	if !ok {
		e = &FieldEdits{}
		d.edits[symbol] = e
	}
	apply(e)
}
