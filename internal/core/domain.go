package core

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleStudent   Role = "Student"
	RoleChaperone Role = "Chaperone"
)

// DefaultGroup is assumed for ledger entries that carry no group label.
const DefaultGroup = "Seniors"

// RegistrationComment marks an identity-only entry. Registration entries
// contribute their (zero) amount to totals but never show up in a
// participant's transaction history.
const RegistrationComment = "Registration"

type (
	Role string

	// LedgerEntry is one persisted record: either a registration or a payment.
	// Entries are immutable once written; the only lifecycle transitions are
	// the explicit delete mutations and a full reset.
	LedgerEntry struct {
		ID      EntryID
		Name    string
		Role    Role
		Group   string
		Amount  decimal.Decimal
		Comment string
		Date    time.Time
	}

	// Transaction is a payment entry as it appears in a participant's history.
	Transaction struct {
		ID      EntryID
		Comment string
		Amount  decimal.Decimal
		Date    time.Time
	}

	// Participant is derived from the ledger, never persisted.
	Participant struct {
		Name         string
		Role         Role
		Total        decimal.Decimal
		Transactions []Transaction
		LastID       EntryID
	}

	// GroupSummary carries the group-level totals shown above the cards.
	GroupSummary struct {
		Group            string
		RunningTotal     decimal.Decimal
		ParticipantCount int
	}
)

// GroupOrDefault returns the entry's group label, defaulting when absent.
func (e LedgerEntry) GroupOrDefault() string {
	if e.Group == "" {
		return DefaultGroup
	}
	return e.Group
}

// IsRegistration reports whether the entry is an identity-only record.
func (e LedgerEntry) IsRegistration() bool {
	return e.Comment == RegistrationComment
}
