package domain

import (
	"encoding/json"
	"fmt"
)

// accountKey is the one reserved key in the wire snapshot record; every other
// top-level key is an instrument symbol.
const accountKey = "account"

// Snapshot is one complete, self-contained state push from the backend. The
// wire format is a flat record mixing the account with instrument symbols;
// parsing turns it into this tagged shape so nothing downstream has to
// type-narrow map values.
type Snapshot struct {
	Account     Account
	Instruments map[string]*Instrument
}

// ParseSnapshot decodes and validates a raw snapshot frame. It returns an
// error without partial results on any structural problem (missing account,
// non-numeric price, unknown position side), so a failed parse can be
// discarded with prior state untouched.
func ParseSnapshot(raw []byte) (*Snapshot, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("snapshot decode: %w", err)
	}

	accRaw, ok := fields[accountKey]
	if !ok {
		return nil, ErrMissingAccount
	}

	snap := &Snapshot{Instruments: make(map[string]*Instrument, len(fields)-1)}
	if err := json.Unmarshal(accRaw, &snap.Account); err != nil {
		return nil, fmt.Errorf("snapshot account: %w", err)
	}

	for key, instRaw := range fields {
		if key == accountKey {
			continue
		}
		inst := &Instrument{}
		if err := json.Unmarshal(instRaw, inst); err != nil {
			return nil, fmt.Errorf("snapshot instrument %s: %w", key, err)
		}
		if inst.Signal != nil && !inst.Signal.Valid() {
			return nil, fmt.Errorf("snapshot instrument %s: %w: signal %q", key, ErrInvalidSide, *inst.Signal)
		}
		if inst.Position != nil && !inst.Position.Side.Valid() {
			return nil, fmt.Errorf("snapshot instrument %s: %w: position side %q", key, ErrInvalidSide, inst.Position.Side)
		}
		inst.Symbol = key
		snap.Instruments[key] = inst
	}

	return snap, nil
}
