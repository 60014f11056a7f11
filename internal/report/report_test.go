package report

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/McPreacher/MissionTeamMoney/internal/core"
)

func renderReport(t *testing.T, entries []core.LedgerEntry, goal int64) string {
	t.Helper()
	g, err := NewGenerator()
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	var buf strings.Builder
	agg := core.Aggregate(entries, "A")
	if err := g.Write(&buf, agg, decimal.NewFromInt(goal)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return buf.String()
}

func TestWriteReport(t *testing.T) {
	paidOn := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	entries := []core.LedgerEntry{
		{ID: "1", Name: "Alice", Role: core.RoleStudent, Group: "A", Comment: core.RegistrationComment},
		{ID: "2", Name: "Alice", Group: "A", Comment: "cash", Amount: decimal.NewFromInt(100), Date: paidOn},
		{ID: "3", Name: "Bob", Role: core.RoleChaperone, Group: "A", Comment: core.RegistrationComment},
	}

	out := renderReport(t, entries, 100)

	for _, want := range []string{
		"Alice",
		"Bob",
		"PAID IN FULL",
		"BALANCE PENDING",
		"$100.00",
		"cash",
		"3/9/2024",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}

	// Alphabetical ordering: Alice's section precedes Bob's.
	if strings.Index(out, "Alice") > strings.Index(out, "Bob") {
		t.Error("sections not alphabetical")
	}
}

func TestWriteReportNoTransactions(t *testing.T) {
	entries := []core.LedgerEntry{
		{ID: "1", Name: "Carol", Role: core.RoleStudent, Group: "A", Comment: core.RegistrationComment},
	}
	out := renderReport(t, entries, 100)
	if !strings.Contains(out, "No transactions.") {
		t.Error("report missing empty-history row")
	}
}

func TestWriteReportZeroDate(t *testing.T) {
	entries := []core.LedgerEntry{
		{ID: "1", Name: "Dana", Group: "A", Comment: "cash", Amount: decimal.NewFromInt(10)},
	}
	out := renderReport(t, entries, 100)
	if !strings.Contains(out, "N/A") {
		t.Error("zero transaction date not rendered as N/A")
	}
}

func TestWriteReportGoalShown(t *testing.T) {
	entries := []core.LedgerEntry{
		{ID: "1", Name: "Eve", Group: "A", Comment: core.RegistrationComment},
	}
	out := renderReport(t, entries, 2300)
	if !strings.Contains(out, "$2300.00") {
		t.Error("goal amount not rendered")
	}
}
