// Package report renders the standalone printable trip report: one section
// per participant with paid-in-full status and transaction detail. It is a
// read-only projection and never touches the ledger store.
package report

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/McPreacher/MissionTeamMoney/internal/core"
	appweb "github.com/McPreacher/MissionTeamMoney/web"
)

const (
	statusPaid    = "PAID IN FULL"
	statusPending = "BALANCE PENDING"
)

type (
	line struct {
		Date    string
		Comment string
		Amount  string
	}

	section struct {
		Name    string
		Role    core.Role
		Total   string
		Status  string
		Paid    bool
		Lines   []line
	}

	reportData struct {
		Group    string
		Goal     string
		Date     string
		Sections []section
	}
)

// Generator renders reports from an aggregation and goal.
type Generator struct {
	tmpl *template.Template
}

func NewGenerator() (*Generator, error) {
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/report.html")
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return &Generator{tmpl: t}, nil
}

// Write renders the printable document for one group. Participants appear
// alphabetically; a participant meets the goal when their total is at or
// above it.
func (g *Generator) Write(w io.Writer, agg core.Aggregation, goal decimal.Decimal) error {
	data := reportData{
		Group: agg.Group,
		Goal:  core.FormatUSD(goal),
		Date:  time.Now().Format("1/2/2006"),
	}

	for _, name := range agg.DropdownNames() {
		p := agg.Participants[name]
		paid := p.Total.GreaterThanOrEqual(goal)
		sec := section{
			Name:  p.Name,
			Role:  p.Role,
			Total: core.FormatUSD(p.Total),
			Paid:  paid,
		}
		if paid {
			sec.Status = statusPaid
		} else {
			sec.Status = statusPending
		}
		for _, t := range p.Transactions {
			date := "N/A"
			if !t.Date.IsZero() {
				date = t.Date.Format("1/2/2006")
			}
			sec.Lines = append(sec.Lines, line{
				Date:    date,
				Comment: t.Comment,
				Amount:  core.FormatUSD(t.Amount),
			})
		}
		data.Sections = append(data.Sections, sec)
	}

	if err := g.tmpl.ExecuteTemplate(w, "report.html", data); err != nil {
		return fmt.Errorf("render report for %q: %w", agg.Group, err)
	}
	return nil
}
