package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Sort orders selectable for the card list. The name dropdown is always
// alphabetical regardless of this selection.
const (
	SortByName    SortOrder = "name"
	SortByRecent  SortOrder = "recent"
	SortByBalance SortOrder = "balance"
)

type SortOrder string

// Aggregation is the result of folding a full ledger snapshot for one group.
type Aggregation struct {
	Group        string
	Participants map[string]*Participant
	Summary      GroupSummary

	// firstSeen preserves ledger encounter order so that rebuilding the
	// card list is deterministic before any sort is applied.
	firstSeen []string
}

// Aggregate folds the snapshot into per-participant totals for the target
// group in a single pass. Entries whose group (or the default) differs are
// skipped. The participant record is seeded on first sight, which fixes the
// role: later entries for the same name never change it. Totals and the
// lastId watermark are commutative over entry order; the transaction list
// keeps ledger order.
func Aggregate(entries []LedgerEntry, group string) Aggregation {
	agg := Aggregation{
		Group:        group,
		Participants: make(map[string]*Participant),
	}

	for _, e := range entries {
		if e.GroupOrDefault() != group {
			continue
		}

		p, ok := agg.Participants[e.Name]
		if !ok {
			p = &Participant{Name: e.Name, Role: e.Role, Total: decimal.Zero}
			agg.Participants[e.Name] = p
			agg.firstSeen = append(agg.firstSeen, e.Name)
			agg.Summary.ParticipantCount++
		}

		// A missing Amount arrives as the zero decimal and is summed as 0.
		p.Total = p.Total.Add(e.Amount)
		agg.Summary.RunningTotal = agg.Summary.RunningTotal.Add(e.Amount)

		if e.ID.After(p.LastID) {
			p.LastID = e.ID
		}

		if e.Comment != "" && !e.IsRegistration() {
			p.Transactions = append(p.Transactions, Transaction{
				ID:      e.ID,
				Comment: e.Comment,
				Amount:  e.Amount,
				Date:    e.Date,
			})
		}
	}

	agg.Summary.Group = group
	return agg
}

// Names returns participant names in the requested order. Balance and recent
// sorts are stable under ties; an unknown order falls back to encounter order.
func (a Aggregation) Names(order SortOrder) []string {
	names := append([]string(nil), a.firstSeen...)
	switch order {
	case SortByName:
		sort.Strings(names)
	case SortByRecent:
		sort.SliceStable(names, func(i, j int) bool {
			return a.Participants[names[i]].LastID.After(a.Participants[names[j]].LastID)
		})
	case SortByBalance:
		sort.SliceStable(names, func(i, j int) bool {
			return a.Participants[names[i]].Total.GreaterThan(a.Participants[names[j]].Total)
		})
	}
	return names
}

// DropdownNames returns every participant name in alphabetical order.
func (a Aggregation) DropdownNames() []string {
	names := append([]string(nil), a.firstSeen...)
	sort.Strings(names)
	return names
}

// RoleOf reports the role recorded for a participant, if known. Payment
// submissions reuse the role seen at registration time.
func (a Aggregation) RoleOf(name string) (Role, bool) {
	p, ok := a.Participants[name]
	if !ok {
		return "", false
	}
	return p.Role, true
}

// Groups lists every distinct group label present in the snapshot, with the
// default group first and the remainder alphabetical.
func Groups(entries []LedgerEntry) []string {
	seen := map[string]bool{DefaultGroup: true}
	out := []string{DefaultGroup}
	for _, e := range entries {
		g := e.GroupOrDefault()
		if !seen[g] {
			seen[g] = true
			out = append(out, g)
		}
	}
	sort.Strings(out[1:])
	return out
}
