package core

import (
	"strconv"
	"time"
)

// EntryID is a client-assigned ledger entry identifier. New ids are Unix
// millisecond tokens, but the store also holds prefixed string ids written
// by older clients (e.g. "TRX-1699999999999"), so comparisons must degrade
// gracefully: numeric compare when both sides are numeric, otherwise
// not-greater.
type EntryID string

// NewEntryID returns a fresh millisecond-timestamp id.
func NewEntryID() EntryID {
	return EntryID(strconv.FormatInt(time.Now().UnixMilli(), 10))
}

func (id EntryID) String() string { return string(id) }

// Numeric returns the id as an integer when it is a plain numeric token.
func (id EntryID) Numeric() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// After reports whether id orders strictly after other. Non-numeric ids are
// never considered greater than a numeric one; two non-numeric ids fall back
// to string order so recency sorting stays deterministic.
func (id EntryID) After(other EntryID) bool {
	if other == "" {
		return id != ""
	}
	a, aok := id.Numeric()
	b, bok := other.Numeric()
	switch {
	case aok && bok:
		return a > b
	case aok != bok:
		return false
	default:
		return string(id) > string(other)
	}
}
