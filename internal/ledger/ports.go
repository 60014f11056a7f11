// Package ledger defines the ports for the remote ledger store: a snapshot
// read of the entire record list and a fire-and-forget mutation write. The
// store offers no acknowledged-write signal; the only observable completion
// of an Apply is a later Snapshot showing the expected state.
package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/McPreacher/MissionTeamMoney/internal/core"
)

// Mutation actions. A mutation with no action is an ADD.
const (
	ActionAdd               Action = "ADD"
	ActionDelete            Action = "DELETE"
	ActionDeleteTransaction Action = "DELETE_TRANSACTION"
	ActionReset             Action = "RESET"
)

type Action string

// Mutation is one action submitted to the ledger store.
//
//   - ADD appends one entry (registration or payment, distinguished only by
//     a "Registration" comment with amount zero).
//   - DELETE removes every entry for Name within Group.
//   - DELETE_TRANSACTION removes the single entry identified by ID.
//   - RESET clears the entire store, all groups.
type Mutation struct {
	ID      core.EntryID    `json:"id"`
	Name    string          `json:"name"`
	Role    core.Role       `json:"role"`
	Group   string          `json:"group"`
	Amount  decimal.Decimal `json:"amount"`
	Comment string          `json:"comment"`
	Action  Action          `json:"action"`
}

// Normalize fills the defaults a submitting client would: a fresh
// millisecond id, the ADD action, and the Student role for additions.
func (m Mutation) Normalize() Mutation {
	if m.ID == "" {
		m.ID = core.NewEntryID()
	}
	if m.Action == "" {
		m.Action = ActionAdd
	}
	if m.Action == ActionAdd && m.Role == "" {
		m.Role = core.RoleStudent
	}
	return m
}

type (
	// SnapshotReader retrieves the full ledger. The snapshot is only ever
	// replaced wholesale, never patched incrementally.
	SnapshotReader interface {
		Snapshot(ctx context.Context) ([]core.LedgerEntry, error)
	}

	// MutationWriter applies one mutation. Implementations may be literal
	// fire-and-forget (the AMQP publisher); a nil error means the mutation
	// was handed off, not that the store holds it.
	MutationWriter interface {
		Apply(ctx context.Context, m Mutation) error
	}

	// Store combines both ports for backends that serve reads and writes.
	Store interface {
		SnapshotReader
		MutationWriter
	}
)
