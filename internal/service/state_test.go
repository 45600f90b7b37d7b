package service

import (
	"reflect"
	"testing"

	"mt_console/internal/domain"

	"github.com/shopspring/decimal"
)

func TestStateService_ApplySnapshot(t *testing.T) {
	store := seedStore(t, "EURUSD")

	account, ok := store.Account()
	if !ok {
		t.Fatal("account should exist after first snapshot")
	}
	if !account.Balance.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("expected balance 10000, got %v", account.Balance)
	}

	inst, ok := store.Instrument("EURUSD")
	if !ok {
		t.Fatal("EURUSD should exist")
	}
	if !inst.Bid.Equal(decimal.NewFromFloat(1.08421)) {
		t.Errorf("expected bid 1.08421, got %v", inst.Bid)
	}
	if inst.Symbol != "EURUSD" {
		t.Errorf("expected symbol EURUSD, got %s", inst.Symbol)
	}
}

func TestStateService_SnapshotReplacesWholesale(t *testing.T) {
	store := seedStore(t, "EURUSD", "GBPUSD")

	// The next snapshot drops GBPUSD; nothing of it may linger.
	if err := store.ApplySnapshot(snapshotJSON(t, "EURUSD")); err != nil {
		t.Fatalf("ApplySnapshot failed: %v", err)
	}

	if got := store.Symbols(); !reflect.DeepEqual(got, []string{"EURUSD"}) {
		t.Errorf("expected [EURUSD], got %v", got)
	}
	if _, ok := store.Instrument("GBPUSD"); ok {
		t.Error("GBPUSD should be gone after full replacement")
	}
}

func TestStateService_MalformedSnapshotRetainsPrior(t *testing.T) {
	store := seedStore(t, "EURUSD")
	before, _ := store.Instrument("EURUSD")
	accountBefore, _ := store.Account()

	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{{{`},
		{"missing account", `{"EURUSD":{"bid":1.1,"ask":1.2,"auto_trading":true,"lot_size":0.01,"sl_pips":10,"tp_pips":30}}`},
		{"non-numeric price", `{"account":{"balance":1,"equity":1,"profit":0},"EURUSD":{"bid":"abc","ask":1.2}}`},
		{"bad position side", `{"account":{"balance":1,"equity":1,"profit":0},"EURUSD":{"bid":1.1,"ask":1.2,"position":{"ticket":1,"type":"HOLD","volume":0.1}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.ApplySnapshot([]byte(tt.raw)); err == nil {
				t.Fatal("expected error for malformed snapshot")
			}
			after, ok := store.Instrument("EURUSD")
			if !ok {
				t.Fatal("EURUSD should still exist")
			}
			if !reflect.DeepEqual(before, after) {
				t.Errorf("state changed after malformed snapshot: %+v != %+v", before, after)
			}
			accountAfter, _ := store.Account()
			if !reflect.DeepEqual(accountBefore, accountAfter) {
				t.Errorf("account changed after malformed snapshot")
			}
		})
	}
}

func TestStateService_SignalLatching(t *testing.T) {
	store := NewStateService()

	withSignal := `{"account":{"balance":1,"equity":1,"profit":0},"EURUSD":{"bid":1.1,"ask":1.2,"signal":"BUY","lot_size":0.01,"sl_pips":10,"tp_pips":30}}`
	if err := store.ApplySnapshot([]byte(withSignal)); err != nil {
		t.Fatalf("ApplySnapshot failed: %v", err)
	}

	inst, _ := store.Instrument("EURUSD")
	if inst.LastSignal == nil || *inst.LastSignal != domain.SideBuy {
		t.Fatalf("expected latched BUY signal, got %v", inst.LastSignal)
	}

	// Signal goes back to null on the wire; the latch must survive.
	if err := store.ApplySnapshot(snapshotJSON(t, "EURUSD")); err != nil {
		t.Fatalf("ApplySnapshot failed: %v", err)
	}
	inst, _ = store.Instrument("EURUSD")
	if inst.Signal != nil {
		t.Error("wire signal should be nil")
	}
	if inst.LastSignal == nil || *inst.LastSignal != domain.SideBuy {
		t.Errorf("latched signal lost, got %v", inst.LastSignal)
	}
}

func TestStateService_OptimisticSetters(t *testing.T) {
	store := seedStore(t, "EURUSD")

	prev, ok := store.SetAutoTrading("EURUSD", true)
	if !ok || prev != false {
		t.Errorf("expected prev=false ok=true, got prev=%t ok=%t", prev, ok)
	}
	inst, _ := store.Instrument("EURUSD")
	if !inst.AutoTrading {
		t.Error("auto trading should be enabled")
	}

	if _, ok := store.SetAutoTrading("XAUUSD", true); ok {
		t.Error("unknown symbol must not be settable")
	}

	if !store.SetRiskDistances("EURUSD", 20, 40) {
		t.Fatal("SetRiskDistances failed")
	}
	inst, _ = store.Instrument("EURUSD")
	if inst.StopLossPips != 20 || inst.TakeProfitPips != 40 {
		t.Errorf("expected 20/40, got %d/%d", inst.StopLossPips, inst.TakeProfitPips)
	}
}

func TestStateService_InstrumentReturnsCopy(t *testing.T) {
	store := seedStore(t, "EURUSD")

	inst, _ := store.Instrument("EURUSD")
	inst.LotSize = decimal.NewFromInt(99)

	again, _ := store.Instrument("EURUSD")
	if again.LotSize.Equal(decimal.NewFromInt(99)) {
		t.Error("mutating the returned copy must not touch the store")
	}
}

func TestStateService_SymbolsSorted(t *testing.T) {
	store := seedStore(t, "USDJPY", "EURUSD", "GBPUSD")
	want := []string{"EURUSD", "GBPUSD", "USDJPY"}
	if got := store.Symbols(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestStateService_PositionParsing(t *testing.T) {
	raw := `{"account":{"balance":1,"equity":1,"profit":0},"EURUSD":{"bid":1.1,"ask":1.2,"position":{"ticket":42,"type":"SELL","volume":0.5,"price_open":1.085,"sl":1.095,"tp":1.055,"profit":-12.5},"lot_size":0.01,"sl_pips":10,"tp_pips":30}}`
	store := NewStateService()
	if err := store.ApplySnapshot([]byte(raw)); err != nil {
		t.Fatalf("ApplySnapshot failed: %v", err)
	}

	inst, _ := store.Instrument("EURUSD")
	if !inst.HasPosition() {
		t.Fatal("position expected")
	}
	pos := inst.Position
	if pos.Ticket != 42 || pos.Side != domain.SideSell {
		t.Errorf("unexpected position identity: %+v", pos)
	}
	if !pos.Profit.Equal(decimal.NewFromFloat(-12.5)) {
		t.Errorf("expected profit -12.5, got %v", pos.Profit)
	}
}
