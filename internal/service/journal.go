package service

import (
	"log/slog"

	"mt_console/internal/domain"
)

// recordOutcome appends one command result to the journal, if configured.
// Journal failures are logged and swallowed: the audit trail must never block
// or fail a trading operation.
func recordOutcome(journal domain.CommandJournal, logger *slog.Logger, instrument, command, payload, message string, err error) {
	if journal == nil {
		return
	}

	rec := &domain.CommandRecord{
		Instrument: instrument,
		Command:    command,
		Payload:    payload,
		Outcome:    domain.OutcomeAccepted,
		Message:    message,
	}
	if err != nil {
		if rej, ok := domain.AsRejection(err); ok {
			rec.Outcome = domain.OutcomeRejected
			rec.Message = rej.Detail
		} else {
			rec.Outcome = domain.OutcomeNetworkError
			rec.Message = err.Error()
		}
	}

	if jerr := journal.RecordCommand(rec); jerr != nil {
		logger.Warn("Failed to journal command", slog.String("command", command), slog.Any("error", jerr))
	}
}

// failureMessage prefers the backend's own rejection detail over the generic
// localized fallback used for transport failures.
func failureMessage(err error, generic string) string {
	if rej, ok := domain.AsRejection(err); ok && rej.Detail != "" {
		return rej.Detail
	}
	return generic
}
