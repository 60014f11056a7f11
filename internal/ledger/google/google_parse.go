package google

import (
	"fmt"
	"strings"
	"time"

	"github.com/McPreacher/MissionTeamMoney/internal/core"
	"github.com/McPreacher/MissionTeamMoney/internal/ledger"
)

// Column order on the sheet. The wire uses capitalized field names
// (Name, Role, Group, Amount, Comment, id, Date); the translation to the
// lowercase domain model happens here at the boundary.
var columnHeaders = []string{"Name", "Role", "Group", "Amount", "Comment", "id", "Date"}

// dateLayouts accepted when reading the Date column. Older rows carry
// locale dates, new rows RFC 3339.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006",
}

// parseEntries converts a values matrix (as returned by the Sheets API)
// into ledger entries. A leading header row is skipped when detected.
// Malformed fields are defaulted rather than rejected: a missing or
// unparsable amount becomes zero, a missing role stays empty.
func parseEntries(values [][]any) []core.LedgerEntry {
	var out []core.LedgerEntry
	for i, row := range values {
		cols := toStrings(row)
		if i == 0 && isHeaderRow(cols) {
			continue
		}
		name := colAt(cols, 0)
		if name == "" {
			continue
		}
		// ParseAmount yields zero on malformed input; the row is kept.
		amount, _ := core.ParseAmount(colAt(cols, 3))
		out = append(out, core.LedgerEntry{
			Name:    name,
			Role:    core.Role(colAt(cols, 1)),
			Group:   colAt(cols, 2),
			Amount:  amount,
			Comment: colAt(cols, 4),
			ID:      core.EntryID(colAt(cols, 5)),
			Date:    parseDate(colAt(cols, 6)),
		})
	}
	return out
}

// matchRows returns zero-based sheet row indices whose entry matches.
// The header row, when present, is never matched.
func matchRows(values [][]any, match func(core.LedgerEntry) bool) []int {
	var rows []int
	for i, row := range values {
		cols := toStrings(row)
		if i == 0 && isHeaderRow(cols) {
			continue
		}
		name := colAt(cols, 0)
		if name == "" {
			continue
		}
		amount, _ := core.ParseAmount(colAt(cols, 3))
		e := core.LedgerEntry{
			Name:    name,
			Role:    core.Role(colAt(cols, 1)),
			Group:   colAt(cols, 2),
			Amount:  amount,
			Comment: colAt(cols, 4),
			ID:      core.EntryID(colAt(cols, 5)),
		}
		if match(e) {
			rows = append(rows, i)
		}
	}
	return rows
}

// entryRow builds the sheet row for an ADD mutation. The amount goes out as
// its exact decimal string; USER_ENTERED input parses it as a number.
func entryRow(m ledger.Mutation) []any {
	return []any{
		m.Name,
		string(m.Role),
		m.Group,
		m.Amount.String(),
		m.Comment,
		m.ID.String(),
		time.Now().Format(time.RFC3339),
	}
}

func isHeaderRow(cols []string) bool {
	return len(cols) > 0 && strings.EqualFold(cols[0], columnHeaders[0])
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func colAt(cols []string, idx int) string {
	if idx < 0 || idx >= len(cols) {
		return ""
	}
	return cols[idx]
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
