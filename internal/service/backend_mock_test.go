package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"mt_console/internal/domain"

	"github.com/shopspring/decimal"
)

// call records one command received by the fake backend.
type call struct {
	command    string
	instrument string
	enabled    bool
	volume     decimal.Decimal
	side       domain.Side
	slPips     int
	tpPips     int
	pips       int
}

// fakeBackend implements domain.CommandBackend for tests. When block is set,
// every command waits until the channel is closed, which lets tests hold an
// action in flight.
type fakeBackend struct {
	mu    sync.Mutex
	calls []call
	err   error
	msg   string
	block chan struct{}
}

func (f *fakeBackend) record(c call) (string, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	if f.msg != "" {
		return f.msg, nil
	}
	return "ok", nil
}

func (f *fakeBackend) SetTradingMode(_ context.Context, instrument string, enabled bool) (string, error) {
	return f.record(call{command: "trading_mode", instrument: instrument, enabled: enabled})
}

func (f *fakeBackend) SetLotSize(_ context.Context, instrument string, volume decimal.Decimal) (string, error) {
	return f.record(call{command: "lot_size", instrument: instrument, volume: volume})
}

func (f *fakeBackend) SetRiskDistances(_ context.Context, instrument string, slPips, tpPips int) (string, error) {
	return f.record(call{command: "sl_tp", instrument: instrument, slPips: slPips, tpPips: tpPips})
}

func (f *fakeBackend) ManualTrade(_ context.Context, instrument string, side domain.Side, volume decimal.Decimal) (string, error) {
	return f.record(call{command: "manual_trade", instrument: instrument, side: side, volume: volume})
}

func (f *fakeBackend) Flatten(_ context.Context, instrument string) (string, error) {
	return f.record(call{command: "flatten", instrument: instrument})
}

func (f *fakeBackend) Breakeven(_ context.Context, instrument string, extraPips int) (string, error) {
	return f.record(call{command: "breakeven", instrument: instrument, pips: extraPips})
}

func (f *fakeBackend) TrailStop(_ context.Context, instrument string, pipsToAdd int) (string, error) {
	return f.record(call{command: "trail_stop", instrument: instrument, pips: pipsToAdd})
}

func (f *fakeBackend) AddInstrument(_ context.Context, instrument string) (string, error) {
	return f.record(call{command: "add_instrument", instrument: instrument})
}

func (f *fakeBackend) RemoveInstrument(_ context.Context, instrument string) (string, error) {
	return f.record(call{command: "remove_instrument", instrument: instrument})
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeBackend) lastCall() call {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return call{}
	}
	return f.calls[len(f.calls)-1]
}

// snapshotJSON builds a wire-shaped snapshot for the given symbols with
// default config values.
func snapshotJSON(t *testing.T, symbols ...string) []byte {
	t.Helper()
	m := map[string]interface{}{
		"account": map[string]interface{}{"balance": 10000.0, "equity": 10050.0, "profit": 50.0},
	}
	for _, s := range symbols {
		m[s] = map[string]interface{}{
			"bid": 1.08421, "ask": 1.08433,
			"signal": nil, "last_up_fractal": nil, "last_down_fractal": nil,
			"position": nil, "auto_trading": false,
			"lot_size": 0.01, "sl_pips": 10, "tp_pips": 30,
		}
	}
	raw, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	return raw
}

// seedStore returns a store primed with one snapshot for the given symbols.
func seedStore(t *testing.T, symbols ...string) *StateService {
	t.Helper()
	store := NewStateService()
	if err := store.ApplySnapshot(snapshotJSON(t, symbols...)); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}
	return store
}
