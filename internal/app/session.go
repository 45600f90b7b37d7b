package app

import (
	"context"
	"time"

	"mt_console/internal/domain"
	"mt_console/internal/infra"
	"mt_console/internal/infra/backend"
	"mt_console/internal/service"
)

// Session bundles the whole client-side engine for one backend connection:
// the state mirror, the notification queue, the three command surfaces and
// the stream lifecycle. The view layer reads state through Store/Notifier/
// Registry and issues commands through Dispatcher/Gateway/Registry.
type Session struct {
	Store      *service.StateService
	Notifier   *service.Notifier
	Dispatcher *service.Dispatcher
	Gateway    *service.Gateway
	Registry   *service.Registry
	Stream     *backend.StreamWorker

	history domain.CommandHistory
}

// NewSession wires the engine components. journal, confirm and onStatus may
// be nil.
func NewSession(cfg *infra.Config, journal domain.CommandJournal, confirm service.ConfirmFunc, onStatus backend.StatusFunc) *Session {
	store := service.NewStateService()
	notifier := service.NewNotifier(time.Duration(cfg.UI.NotificationTTLSec) * time.Second)
	client := backend.NewClient(cfg)

	s := &Session{
		Store:      store,
		Notifier:   notifier,
		Dispatcher: service.NewDispatcher(store, client, notifier, journal),
		Gateway:    service.NewGateway(store, client, notifier, journal),
		Registry:   service.NewRegistry(store, client, notifier, journal, confirm),
		Stream:     backend.NewStreamWorker(cfg.Backend.WSURL, store, onStatus),
	}
	if h, ok := journal.(domain.CommandHistory); ok {
		s.history = h
	}
	return s
}

// RecentHistory returns the newest journaled commands for display. It is empty
// when journaling is disabled.
func (s *Session) RecentHistory(limit int) ([]domain.CommandRecord, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.RecentCommands(limit)
}

// InstrumentHistory returns the newest journaled commands for one symbol.
func (s *Session) InstrumentHistory(symbol string, limit int) ([]domain.CommandRecord, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.CommandsForInstrument(symbol, limit)
}

// Start begins streaming snapshots into the store.
func (s *Session) Start(ctx context.Context) error {
	return s.Stream.Connect(ctx)
}

// Stop tears the session down. Outstanding command responses land against a
// closed notifier as no-ops.
func (s *Session) Stop() {
	s.Stream.Disconnect()
	s.Notifier.Close()
}
