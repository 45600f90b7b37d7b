package service

import (
	"log/slog"
	"sort"
	"sync"

	"mt_console/internal/domain"

	"github.com/shopspring/decimal"
)

// StateService is the authoritative mirror of backend state. Every well-formed
// snapshot replaces the account and instrument mapping in full; a malformed
// snapshot is logged and discarded with prior state untouched.
//
// The optimistic setters exist for the dispatcher: they make a local edit
// visible immediately, knowing the next snapshot re-syncs the field to server
// truth either way.
type StateService struct {
	mu          sync.RWMutex
	account     *domain.Account
	instruments map[string]*domain.Instrument
	logger      *slog.Logger
}

// NewStateService creates an empty state mirror.
func NewStateService() *StateService {
	return &StateService{
		instruments: make(map[string]*domain.Instrument),
		logger:      slog.Default().With("module", "state"),
	}
}

// ApplySnapshot parses one raw snapshot frame and, if well-formed, replaces
// the whole session state with it. Latest snapshot always wins, including over
// a just-confirmed optimistic edit.
func (s *StateService) ApplySnapshot(raw []byte) error {
	snap, err := domain.ParseSnapshot(raw)
	if err != nil {
		s.logger.Warn("Discarding malformed snapshot", slog.Any("error", err))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Latch the last non-null signal per surviving symbol; the wire field is
	// null on every tick where no new signal fired.
	for symbol, inst := range snap.Instruments {
		if inst.Signal != nil {
			sig := *inst.Signal
			inst.LastSignal = &sig
		} else if prev, ok := s.instruments[symbol]; ok {
			inst.LastSignal = prev.LastSignal
		}
	}

	account := snap.Account
	s.account = &account
	s.instruments = snap.Instruments
	return nil
}

// Account returns the latest account snapshot, false before the first one.
func (s *StateService) Account() (domain.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.account == nil {
		return domain.Account{}, false
	}
	return *s.account, true
}

// Instrument returns a copy of the state for one symbol.
func (s *StateService) Instrument(symbol string) (domain.Instrument, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.instruments[symbol]
	if !ok {
		return domain.Instrument{}, false
	}
	return cloneInstrument(inst), true
}

// Symbols returns all known symbols in sorted order for stable iteration.
func (s *StateService) Symbols() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	symbols := make([]string, 0, len(s.instruments))
	for symbol := range s.instruments {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// SetAutoTrading applies an optimistic toggle edit and returns the previous
// value so a failed confirmation can roll it back.
func (s *StateService) SetAutoTrading(symbol string, enabled bool) (prev bool, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, found := s.instruments[symbol]
	if !found {
		return false, false
	}
	prev = inst.AutoTrading
	inst.AutoTrading = enabled
	return prev, true
}

// SetLotSize applies an optimistic lot size edit.
func (s *StateService) SetLotSize(symbol string, volume decimal.Decimal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, found := s.instruments[symbol]
	if !found {
		return false
	}
	inst.LotSize = volume
	return true
}

// SetRiskDistances applies an optimistic stop/target distance edit. The two
// values are only ever set together.
func (s *StateService) SetRiskDistances(symbol string, slPips, tpPips int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, found := s.instruments[symbol]
	if !found {
		return false
	}
	inst.StopLossPips = slPips
	inst.TakeProfitPips = tpPips
	return true
}

func cloneInstrument(inst *domain.Instrument) domain.Instrument {
	cp := *inst
	if inst.Signal != nil {
		sig := *inst.Signal
		cp.Signal = &sig
	}
	if inst.LastSignal != nil {
		sig := *inst.LastSignal
		cp.LastSignal = &sig
	}
	if inst.LastUpFractal != nil {
		v := *inst.LastUpFractal
		cp.LastUpFractal = &v
	}
	if inst.LastDownFractal != nil {
		v := *inst.LastDownFractal
		cp.LastDownFractal = &v
	}
	if inst.Position != nil {
		pos := *inst.Position
		cp.Position = &pos
	}
	return cp
}
