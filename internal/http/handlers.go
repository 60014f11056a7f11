package http

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/McPreacher/MissionTeamMoney/internal/core"
	"github.com/McPreacher/MissionTeamMoney/internal/ledger"
	"github.com/McPreacher/MissionTeamMoney/internal/view"
)

// Template data shapes. Amounts are pre-formatted strings; templates only
// place them.
type (
	trxData struct {
		ID      string
		Comment string
		Amount  string
	}

	cardData struct {
		Name         string
		Group        string
		Role         string
		Total        string
		Goal         string
		BalanceClass string
		Registered   bool
		Transactions []trxData
	}

	groupData struct {
		Group       string
		Groups      []string
		Goal        string
		GoalRaw     string
		Sort        string
		Total       string
		Count       int
		LastUpdated string
		Dropdown    []string
		Students    []cardData
		Chaperones  []cardData
	}
)

var balanceClasses = map[view.BalanceStatus]string{
	view.BalanceBelow: "balance-red",
	view.BalanceAt:    "balance-black",
	view.BalanceAbove: "balance-green",
}

func buildGroupData(gv view.GroupView, groups []string) groupData {
	data := groupData{
		Group:    gv.Group,
		Groups:   groups,
		Goal:     core.FormatUSD(gv.Goal),
		GoalRaw:  gv.Goal.String(),
		Sort:     string(gv.Sort),
		Total:    core.FormatUSD(gv.Total),
		Count:    gv.Count,
		Dropdown: gv.Dropdown,
	}
	if !gv.LastUpdated.IsZero() {
		data.LastUpdated = gv.LastUpdated.Format("3:04 PM")
	}
	data.Students = buildCards(gv.Students, gv)
	data.Chaperones = buildCards(gv.Chaperones, gv)
	return data
}

func buildCards(cards []view.Card, gv view.GroupView) []cardData {
	out := make([]cardData, 0, len(cards))
	for _, c := range cards {
		role := string(c.Role)
		if role == "" {
			role = string(core.RoleChaperone)
		}
		cd := cardData{
			Name:         c.Name,
			Group:        gv.Group,
			Role:         role,
			Total:        core.FormatUSD(c.Total),
			Goal:         core.FormatUSD(gv.Goal),
			BalanceClass: balanceClasses[c.Status],
			Registered:   c.Registered,
		}
		for _, t := range c.Transactions {
			cd.Transactions = append(cd.Transactions, trxData{
				ID:      t.ID.String(),
				Comment: t.Comment,
				Amount:  core.FormatUSD(t.Amount),
			})
		}
		out = append(out, cd)
	}
	return out
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	group := s.currentGroup(r)
	order := sortOrder(r)
	gv, err := s.groupView(r.Context(), group, order)
	if err != nil {
		slog.ErrorContext(r.Context(), "Group view error", "error", err, "group", group)
		http.Error(w, "failed to load group", http.StatusInternalServerError)
		return
	}

	entries, _ := s.controller.Snapshot()
	data := buildGroupData(gv, core.Groups(entries))
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleGroupView renders the cards-and-summary partial for one group.
func (s *Server) handleGroupView(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	group := s.currentGroup(r)
	order := sortOrder(r)
	gv, err := s.groupView(r.Context(), group, order)
	if err != nil {
		slog.ErrorContext(r.Context(), "Group view error", "error", err, "group", group)
		_, _ = w.Write([]byte(`<section id="group-view"><div class="placeholder">Error loading group</div></section>`))
		return
	}

	entries, _ := s.controller.Snapshot()
	data := buildGroupData(gv, core.Groups(entries))
	if err := s.templates.ExecuteTemplate(w, "group_view.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "group_view.html", "group", group)
		_, _ = w.Write([]byte(`<section id="group-view"><div class="placeholder">Error rendering group</div></section>`))
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	name := sanitizeInput(r.Form.Get("name"))
	role := core.Role(sanitizeInput(r.Form.Get("role")))
	group := s.currentGroup(r)

	if name == "" {
		writeError(w, http.StatusUnprocessableEntity, "Name is required")
		return
	}

	err := s.controller.Submit(r.Context(), ledger.Mutation{
		Name:    name,
		Role:    role,
		Group:   group,
		Comment: core.RegistrationComment,
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "Registration submit error", "error", err, "name", name, "group", group)
		writeError(w, http.StatusInternalServerError, "Registration could not be saved")
		return
	}
	writeSuccess(w, "Registered "+name)
}

func (s *Server) handlePayment(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	name := sanitizeInput(r.Form.Get("name"))
	comment := sanitizeInput(r.Form.Get("comment"))
	group := s.currentGroup(r)

	if name == "" {
		writeError(w, http.StatusUnprocessableEntity, "Select a person first")
		return
	}

	amount, err := core.ParseAmount(r.Form.Get("amount"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid amount")
		return
	}

	// Payments reuse the role recorded at registration time.
	entries, _ := s.controller.Snapshot()
	role, _ := core.Aggregate(entries, group).RoleOf(name)

	err = s.controller.Submit(r.Context(), ledger.Mutation{
		Name:    name,
		Role:    role,
		Group:   group,
		Amount:  amount,
		Comment: comment,
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "Payment submit error", "error", err, "name", name, "group", group)
		writeError(w, http.StatusInternalServerError, "Payment could not be saved")
		return
	}
	writeSuccess(w, "Posted "+core.FormatUSD(amount)+" for "+name)
}

func (s *Server) handleDeleteParticipant(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	name := sanitizeInput(r.Form.Get("name"))
	group := s.currentGroup(r)
	if name == "" {
		writeError(w, http.StatusUnprocessableEntity, "Name is required")
		return
	}

	err := s.controller.Submit(r.Context(), ledger.Mutation{
		Name:   name,
		Group:  group,
		Action: ledger.ActionDelete,
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "Delete participant submit error", "error", err, "name", name, "group", group)
		writeError(w, http.StatusInternalServerError, "Delete failed")
		return
	}
	writeSuccess(w, "Deleted all records for "+name)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	id := sanitizeInput(r.Form.Get("id"))
	if id == "" {
		writeError(w, http.StatusUnprocessableEntity, "Transaction id is required")
		return
	}

	err := s.controller.Submit(r.Context(), ledger.Mutation{
		ID:     core.EntryID(id),
		Action: ledger.ActionDeleteTransaction,
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "Delete transaction submit error", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "Delete failed")
		return
	}
	writeSuccess(w, "Transaction deleted")
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	err := s.controller.Submit(r.Context(), ledger.Mutation{Action: ledger.ActionReset})
	if err != nil {
		slog.ErrorContext(r.Context(), "Reset submit error", "error", err)
		writeError(w, http.StatusInternalServerError, "Reset failed")
		return
	}
	slog.WarnContext(r.Context(), "Full ledger reset submitted")
	writeSuccess(w, "System has been reset")
}

func (s *Server) handleGoalUpdate(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	group := s.currentGroup(r)
	goal, err := core.ParseAmount(r.Form.Get("goal"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid goal amount")
		return
	}

	if err := s.goals.SetGoal(r.Context(), group, goal); err != nil {
		slog.ErrorContext(r.Context(), "Goal update error", "error", err, "group", group)
		writeError(w, http.StatusInternalServerError, "Goal could not be saved")
		return
	}
	// Goal feeds balance classification, so cached views are stale now.
	s.viewCache.Purge()
	writeSuccess(w, "Goal updated for "+group)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	group := s.currentGroup(r)

	entries, _ := s.controller.Snapshot()
	goal, err := s.goals.Goal(r.Context(), group)
	if err != nil {
		slog.ErrorContext(r.Context(), "Report goal lookup error", "error", err, "group", group)
		http.Error(w, "failed to load goal", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	agg := core.Aggregate(entries, group)
	if err := s.reports.Write(w, agg, goal); err != nil {
		slog.ErrorContext(r.Context(), "Report render error", "error", err, "group", group)
		http.Error(w, "failed to render report", http.StatusInternalServerError)
	}
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return false
	}
	return true
}

func writeSuccess(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">` + template.HTMLEscapeString(msg) + `</div>`))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(msg) + `</div>`))
}
