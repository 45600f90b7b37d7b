package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"mt_console/internal/domain"
)

// ConfirmFunc asks the operator to approve a destructive action before any
// request is issued. Returning false aborts with no state change and no
// notification.
type ConfirmFunc func(symbol string) bool

// Registry manages the watched instrument set and the current selection. The
// watch list itself is derived from the latest snapshot's symbols: adding an
// instrument only asks the backend, and the new symbol appears once the next
// snapshot confirms it. That avoids ghost entries with no data behind them.
type Registry struct {
	store    *StateService
	backend  domain.CommandBackend
	notifier *Notifier
	journal  domain.CommandJournal
	confirm  ConfirmFunc
	logger   *slog.Logger

	mu       sync.Mutex
	selected string
	// removing holds symbols whose removal the backend accepted but a snapshot
	// has not evicted yet. They stay in the watch list until then and must not
	// win selection in the meantime.
	removing map[string]bool
}

// NewRegistry creates a registry. confirm and journal may be nil; a nil
// confirm treats every removal as approved.
func NewRegistry(store *StateService, backend domain.CommandBackend, notifier *Notifier, journal domain.CommandJournal, confirm ConfirmFunc) *Registry {
	return &Registry{
		store:    store,
		backend:  backend,
		notifier: notifier,
		journal:  journal,
		confirm:  confirm,
		logger:   slog.Default().With("module", "registry"),
		removing: make(map[string]bool),
	}
}

// Watched returns the current watch list, derived from the latest snapshot.
func (r *Registry) Watched() []string {
	return r.store.Symbols()
}

// Selected returns the active symbol, defaulting to the first watched symbol
// not pending removal when nothing valid is selected. Empty means nothing is
// left to select.
func (r *Registry) Selected() string {
	watched := r.store.Symbols()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneRemoving(watched)

	if r.selected != "" {
		for _, s := range watched {
			if s == r.selected {
				return r.selected
			}
		}
	}
	r.selected = ""
	for _, s := range watched {
		if !r.removing[s] {
			r.selected = s
			break
		}
	}
	return r.selected
}

// Select changes the active symbol. Purely local; it reports false without
// changing anything when the symbol is not currently watched or is pending
// removal.
func (r *Registry) Select(symbol string) bool {
	watched := r.store.Symbols()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneRemoving(watched)

	if r.removing[symbol] {
		return false
	}
	for _, s := range watched {
		if s == symbol {
			r.selected = symbol
			return true
		}
	}
	return false
}

// pruneRemoving clears pending removals once a snapshot no longer lists them.
// Callers hold r.mu.
func (r *Registry) pruneRemoving(watched []string) {
	for symbol := range r.removing {
		evicted := true
		for _, s := range watched {
			if s == symbol {
				evicted = false
				break
			}
		}
		if evicted {
			delete(r.removing, symbol)
		}
	}
}

// Add asks the backend to watch a new instrument. The symbol is normalized to
// canonical uppercase; an empty input is ignored. The watch list is not
// touched here: the symbol shows up with the next authoritative snapshot.
func (r *Registry) Add(ctx context.Context, raw string) error {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	if symbol == "" {
		return nil
	}

	msg, err := r.backend.AddInstrument(ctx, symbol)
	recordOutcome(r.journal, r.logger, symbol, "add_instrument", "", msg, err)
	if err != nil {
		r.notifier.Push(failureMessage(err, "Network error adding instrument."), domain.SeverityError)
		r.logger.Warn("Add instrument failed", slog.String("symbol", symbol), slog.Any("error", err))
		return err
	}

	r.notifier.Push(msg, domain.SeveritySuccess)
	return nil
}

// Remove asks the backend to drop an instrument, after operator confirmation.
// On success the symbol is marked pending removal so selection skips it until
// a snapshot evicts it; if it was selected, selection falls back to the first
// remaining watched symbol or to empty.
func (r *Registry) Remove(ctx context.Context, symbol string) error {
	if r.confirm != nil && !r.confirm(symbol) {
		return nil
	}

	msg, err := r.backend.RemoveInstrument(ctx, symbol)
	recordOutcome(r.journal, r.logger, symbol, "remove_instrument", "", msg, err)
	if err != nil {
		r.notifier.Push(failureMessage(err, "Network error removing instrument."), domain.SeverityError)
		r.logger.Warn("Remove instrument failed", slog.String("symbol", symbol), slog.Any("error", err))
		return err
	}

	r.notifier.Push(msg, domain.SeveritySuccess)

	r.mu.Lock()
	r.removing[symbol] = true
	if r.selected == symbol {
		r.selected = ""
	}
	r.mu.Unlock()
	return nil
}
