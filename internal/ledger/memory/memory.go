// Package memory implements the ledger store in process memory. It backs
// local runs and doubles as the test fixture for everything that talks to
// the ledger ports.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/McPreacher/MissionTeamMoney/internal/core"
	"github.com/McPreacher/MissionTeamMoney/internal/ledger"
)

type Store struct {
	mu      sync.Mutex
	entries []core.LedgerEntry
}

var _ ledger.Store = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// Seed replaces the store contents, for tests and local fixtures.
func (s *Store) Seed(entries []core.LedgerEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append([]core.LedgerEntry(nil), entries...)
}

// Snapshot returns a copy of every entry in ledger order.
func (s *Store) Snapshot(_ context.Context) ([]core.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.LedgerEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// Apply executes one mutation with the same semantics as the remote store.
func (s *Store) Apply(_ context.Context, m ledger.Mutation) error {
	m = m.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	switch m.Action {
	case ledger.ActionAdd:
		s.entries = append(s.entries, core.LedgerEntry{
			ID:      m.ID,
			Name:    m.Name,
			Role:    m.Role,
			Group:   m.Group,
			Amount:  m.Amount,
			Comment: m.Comment,
			Date:    time.Now(),
		})
	case ledger.ActionDelete:
		group := m.Group
		if group == "" {
			group = core.DefaultGroup
		}
		kept := s.entries[:0]
		for _, e := range s.entries {
			if e.Name == m.Name && e.GroupOrDefault() == group {
				continue
			}
			kept = append(kept, e)
		}
		s.entries = kept
	case ledger.ActionDeleteTransaction:
		for i, e := range s.entries {
			if e.ID == m.ID {
				s.entries = append(s.entries[:i], s.entries[i+1:]...)
				break
			}
		}
	case ledger.ActionReset:
		s.entries = nil
	default:
		return fmt.Errorf("unknown ledger action %q", m.Action)
	}
	return nil
}
