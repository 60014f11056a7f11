// Package view is the pure projection from an aggregation to the display
// model: role-bucketed cards, the alphabetical name dropdown, and the group
// summary fields. It holds no business logic beyond the documented balance
// classification rule.
package view

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/McPreacher/MissionTeamMoney/internal/core"
)

// Balance classification against the goal. Three-way: below the goal warns,
// exactly at the goal is neutral, above is positive.
const (
	BalanceBelow BalanceStatus = "below"
	BalanceAt    BalanceStatus = "at"
	BalanceAbove BalanceStatus = "above"
)

type BalanceStatus string

// Classify applies the display rule. A zero goal degenerates to "above" for
// any non-negative total: the at-goal neutral state only exists for a
// positive goal.
func Classify(total, goal decimal.Decimal) BalanceStatus {
	switch {
	case total.Equal(goal) && goal.IsPositive():
		return BalanceAt
	case total.GreaterThanOrEqual(goal):
		return BalanceAbove
	default:
		return BalanceBelow
	}
}

type (
	// Card is one participant's display card.
	Card struct {
		Name         string
		Role         core.Role
		Total        decimal.Decimal
		Status       BalanceStatus
		Transactions []core.Transaction

		// Registered marks a participant with no recorded payments, shown
		// as "Registered" in place of a transaction history.
		Registered bool
	}

	// GroupView is everything a renderer needs for one group.
	GroupView struct {
		Group       string
		Goal        decimal.Decimal
		Sort        core.SortOrder
		Students    []Card
		Chaperones  []Card
		Dropdown    []string
		Total       decimal.Decimal
		Count       int
		LastUpdated time.Time
	}
)

// Build projects an aggregation into a GroupView. Only participants whose
// role is exactly Student land in the student bucket; anything else,
// including a missing role, renders with the chaperones.
func Build(agg core.Aggregation, goal decimal.Decimal, order core.SortOrder, lastUpdated time.Time) GroupView {
	gv := GroupView{
		Group:       agg.Group,
		Goal:        goal,
		Sort:        order,
		Dropdown:    agg.DropdownNames(),
		Total:       agg.Summary.RunningTotal,
		Count:       agg.Summary.ParticipantCount,
		LastUpdated: lastUpdated,
	}

	for _, name := range agg.Names(order) {
		p := agg.Participants[name]
		card := Card{
			Name:         p.Name,
			Role:         p.Role,
			Total:        p.Total,
			Status:       Classify(p.Total, goal),
			Transactions: p.Transactions,
			Registered:   len(p.Transactions) == 0,
		}
		if p.Role == core.RoleStudent {
			gv.Students = append(gv.Students, card)
		} else {
			gv.Chaperones = append(gv.Chaperones, card)
		}
	}
	return gv
}
