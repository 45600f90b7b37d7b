package app

import (
	"path/filepath"
	"testing"

	"mt_console/internal/domain"
	"mt_console/internal/infra"
	"mt_console/internal/infra/storage"
)

func testSessionConfig() *infra.Config {
	cfg := &infra.Config{}
	cfg.Backend.RestURL = "http://127.0.0.1:8000"
	cfg.Backend.WSURL = "ws://127.0.0.1:8000/ws/market_data"
	cfg.Backend.RequestTimeoutSec = 1
	cfg.UI.NotificationTTLSec = 3
	return cfg
}

func TestSession_HistoryReadsJournal(t *testing.T) {
	journal, err := storage.NewStorage(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}

	sess := NewSession(testSessionConfig(), journal, nil, nil)
	defer sess.Stop()

	for _, rec := range []*domain.CommandRecord{
		{Instrument: "EURUSD", Command: "flatten", Outcome: domain.OutcomeAccepted},
		{Instrument: "GBPUSD", Command: "breakeven", Outcome: domain.OutcomeRejected},
	} {
		if err := journal.RecordCommand(rec); err != nil {
			t.Fatalf("RecordCommand failed: %v", err)
		}
	}

	recent, err := sess.RecentHistory(10)
	if err != nil {
		t.Fatalf("RecentHistory failed: %v", err)
	}
	if len(recent) != 2 || recent[0].Command != "breakeven" {
		t.Errorf("expected newest-first history, got %+v", recent)
	}

	byInstrument, err := sess.InstrumentHistory("EURUSD", 10)
	if err != nil {
		t.Fatalf("InstrumentHistory failed: %v", err)
	}
	if len(byInstrument) != 1 || byInstrument[0].Command != "flatten" {
		t.Errorf("expected one EURUSD record, got %+v", byInstrument)
	}
}

func TestSession_HistoryWithoutJournal(t *testing.T) {
	sess := NewSession(testSessionConfig(), nil, nil, nil)
	defer sess.Stop()

	recs, err := sess.RecentHistory(5)
	if err != nil || len(recs) != 0 {
		t.Errorf("expected empty history without a journal, got %v, %v", recs, err)
	}
}
