package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

// NewID returns a fresh transaction identifier.
func NewID() string {
	return uuid.NewString()
}

// EnsureIDs returns a copy of ts where every record without an identifier
// has been given one, and the number of records that were filled in.
func EnsureIDs(ts Transactions) (Transactions, int) {
	out := make(Transactions, len(ts))
	filled := 0
	for i, tx := range ts {
		out[i] = tx
		if tx == nil || tx.Head().ID != "" {
			continue
		}
		id := NewID()
		if u, ok := tx.(Unrecognized); ok {
			u.Raw = patchRawID(u.Raw, id)
			tx = u
		}
		out[i] = WithID(tx, id)
		filled++
	}
	return out, filled
}

// IndexOf returns the position of the record with id, or -1.
func IndexOf(ts Transactions, id string) int {
	for i, tx := range ts {
		if tx != nil && tx.Head().ID == id {
			return i
		}
	}
	return -1
}

func patchRawID(raw []byte, id string) []byte {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return raw
	}
	encoded, err := json.Marshal(id)
	if err != nil {
		return raw
	}
	fields["id"] = encoded
	patched, err := json.Marshal(fields)
	if err != nil {
		return raw
	}
	return patched
}
