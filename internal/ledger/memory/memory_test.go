package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/McPreacher/MissionTeamMoney/internal/core"
	"github.com/McPreacher/MissionTeamMoney/internal/ledger"
)

func seedStore(t *testing.T) *Store {
	t.Helper()
	s := New()
	s.Seed([]core.LedgerEntry{
		{ID: "1", Name: "Alice", Role: core.RoleStudent, Group: "A", Comment: core.RegistrationComment},
		{ID: "2", Name: "Alice", Group: "A", Comment: "cash", Amount: decimal.NewFromInt(50)},
		{ID: "3", Name: "Alice", Group: "B", Comment: "cash", Amount: decimal.NewFromInt(10)},
		{ID: "4", Name: "Bob", Group: "A", Comment: "check", Amount: decimal.NewFromInt(20)},
	})
	return s
}

func TestApplyAdd(t *testing.T) {
	s := New()
	err := s.Apply(context.Background(), ledger.Mutation{
		Name:   "Carol",
		Group:  "A",
		Amount: decimal.NewFromInt(30),
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	entries, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Name != "Carol" || e.Role != core.RoleStudent {
		t.Errorf("entry = %+v, want Carol with defaulted Student role", e)
	}
	if e.ID == "" {
		t.Error("entry id not assigned")
	}
	if e.Date.IsZero() {
		t.Error("entry date not stamped")
	}
}

func TestApplyDeleteScopedToGroup(t *testing.T) {
	s := seedStore(t)
	err := s.Apply(context.Background(), ledger.Mutation{
		Action: ledger.ActionDelete,
		Name:   "Alice",
		Group:  "A",
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	entries, _ := s.Snapshot(context.Background())
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	for _, e := range entries {
		if e.Name == "Alice" && e.Group == "A" {
			t.Errorf("Alice/A entry %s survived delete", e.ID)
		}
	}
	// Alice's group B entry is untouched.
	if entries[0].ID != "3" || entries[1].ID != "4" {
		t.Errorf("surviving ids = %s, %s; want 3, 4", entries[0].ID, entries[1].ID)
	}
}

func TestApplyDeleteDefaultGroup(t *testing.T) {
	s := New()
	s.Seed([]core.LedgerEntry{
		{ID: "1", Name: "Dana", Comment: core.RegistrationComment},
	})
	err := s.Apply(context.Background(), ledger.Mutation{
		Action: ledger.ActionDelete,
		Name:   "Dana",
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	entries, _ := s.Snapshot(context.Background())
	if len(entries) != 0 {
		t.Errorf("entries = %d, want 0 (empty group matches default)", len(entries))
	}
}

func TestApplyDeleteTransaction(t *testing.T) {
	s := seedStore(t)
	err := s.Apply(context.Background(), ledger.Mutation{
		Action: ledger.ActionDeleteTransaction,
		ID:     "2",
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	entries, _ := s.Snapshot(context.Background())
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	for _, e := range entries {
		if e.ID == "2" {
			t.Error("entry 2 survived delete")
		}
	}
}

func TestApplyReset(t *testing.T) {
	s := seedStore(t)
	if err := s.Apply(context.Background(), ledger.Mutation{Action: ledger.ActionReset}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	entries, _ := s.Snapshot(context.Background())
	if len(entries) != 0 {
		t.Errorf("entries = %d after reset, want 0", len(entries))
	}
}

func TestApplyUnknownAction(t *testing.T) {
	s := New()
	if err := s.Apply(context.Background(), ledger.Mutation{Action: "UPSERT"}); err == nil {
		t.Error("expected error for unknown action")
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s := seedStore(t)
	entries, _ := s.Snapshot(context.Background())
	entries[0].Name = "mutated"
	again, _ := s.Snapshot(context.Background())
	if again[0].Name != "Alice" {
		t.Error("snapshot aliases store memory")
	}
}
