package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/McPreacher/MissionTeamMoney/internal/cache"
	"github.com/McPreacher/MissionTeamMoney/internal/core"
	"github.com/McPreacher/MissionTeamMoney/internal/goals"
	"github.com/McPreacher/MissionTeamMoney/internal/ledger/memory"
	"github.com/McPreacher/MissionTeamMoney/internal/report"
	appsync "github.com/McPreacher/MissionTeamMoney/internal/sync"
	"github.com/McPreacher/MissionTeamMoney/internal/view"
)

type testHarness struct {
	server *Server
	store  *memory.Store
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()

	store := memory.New()
	goalStore, err := goals.Open(filepath.Join(t.TempDir(), "goals.db"), decimal.NewFromInt(2300))
	if err != nil {
		t.Fatalf("goals.Open: %v", err)
	}
	t.Cleanup(func() { goalStore.Close() })

	reports, err := report.NewGenerator()
	if err != nil {
		t.Fatalf("report.NewGenerator: %v", err)
	}

	viewCache := cache.NewLRUCache[view.GroupView](16, time.Minute)
	controller := appsync.New(store, store, appsync.Config{
		PollInterval: time.Hour,
		SettleDelay:  20 * time.Millisecond,
	}, func([]core.LedgerEntry) {
		viewCache.Purge()
	})

	s := NewServer(":0", controller, goalStore, reports, viewCache, "Seniors")
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		s.Shutdown(ctx)
	})
	return &testHarness{server: s, store: store}
}

func (h *testHarness) do(t *testing.T, method, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.server.Server.Handler.ServeHTTP(rec, req)
	return rec
}

// waitForBody polls the group partial until the predicate passes or a
// second elapses, covering the settle-delay reconcile.
func (h *testHarness) waitForBody(t *testing.T, path, substr string) string {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	var body string
	for {
		body = h.do(t, http.MethodGet, path, nil).Body.String()
		if strings.Contains(body, substr) {
			return body
		}
		if time.Now().After(deadline) {
			t.Fatalf("body never contained %q:\n%s", substr, body)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHandleIndex(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Seniors") {
		t.Error("index missing default group")
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
}

func TestHandleIndexNotFound(t *testing.T) {
	h := newHarness(t)
	if rec := h.do(t, http.MethodGet, "/nope", nil); rec.Code != http.StatusNotFound {
		t.Errorf("GET /nope = %d, want 404", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	h := newHarness(t)
	if rec := h.do(t, http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK {
		t.Errorf("GET /healthz = %d, want 200", rec.Code)
	}
	if rec := h.do(t, http.MethodGet, "/readyz", nil); rec.Code != http.StatusOK {
		t.Errorf("GET /readyz = %d, want 200", rec.Code)
	}
}

func TestRegisterFlow(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/participants", url.Values{
		"name":  {"Alice"},
		"role":  {"Student"},
		"group": {"Seniors"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /participants = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Registered Alice") {
		t.Errorf("body = %s", rec.Body.String())
	}

	// After the settle delay the reconciled snapshot renders the card.
	body := h.waitForBody(t, "/ui/group?group=Seniors", "Alice")
	if !strings.Contains(body, "Registered") {
		t.Error("new participant not shown as Registered")
	}
}

func TestRegisterRequiresName(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, http.MethodPost, "/participants", url.Values{"name": {"   "}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("POST /participants without name = %d, want 422", rec.Code)
	}
}

func TestRegisterRequiresPost(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, http.MethodGet, "/participants", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /participants = %d, want 405", rec.Code)
	}
}

func TestPaymentFlow(t *testing.T) {
	h := newHarness(t)

	h.do(t, http.MethodPost, "/participants", url.Values{
		"name": {"Bob"}, "role": {"Chaperone"}, "group": {"Seniors"},
	})
	h.waitForBody(t, "/ui/group?group=Seniors", "Bob")

	rec := h.do(t, http.MethodPost, "/payments", url.Values{
		"name":    {"Bob"},
		"amount":  {"25.50"},
		"comment": {"cash"},
		"group":   {"Seniors"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /payments = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "$25.50") {
		t.Errorf("body = %s", rec.Body.String())
	}

	body := h.waitForBody(t, "/ui/group?group=Seniors", "cash")
	if !strings.Contains(body, "$25.50") {
		t.Error("payment amount not rendered")
	}
}

func TestPaymentRejectsBadAmount(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, http.MethodPost, "/payments", url.Values{
		"name": {"Bob"}, "amount": {"lots"},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("POST /payments bad amount = %d, want 422", rec.Code)
	}
}

func TestDeleteParticipantFlow(t *testing.T) {
	h := newHarness(t)

	h.do(t, http.MethodPost, "/participants", url.Values{"name": {"Carol"}, "group": {"Seniors"}})
	h.waitForBody(t, "/ui/group?group=Seniors", "Carol")

	rec := h.do(t, http.MethodPost, "/participants/delete", url.Values{
		"name": {"Carol"}, "group": {"Seniors"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /participants/delete = %d", rec.Code)
	}

	deadline := time.Now().Add(time.Second)
	for {
		body := h.do(t, http.MethodGet, "/ui/group?group=Seniors", nil).Body.String()
		if !strings.Contains(body, "Carol") {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Carol still rendered after delete")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestDeleteTransactionRequiresID(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, http.MethodPost, "/transactions/delete", url.Values{})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("POST /transactions/delete without id = %d, want 422", rec.Code)
	}
}

func TestGoalUpdate(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/goal", url.Values{
		"group": {"Seniors"}, "goal": {"1500"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /goal = %d: %s", rec.Code, rec.Body.String())
	}

	body := h.do(t, http.MethodGet, "/ui/group?group=Seniors", nil).Body.String()
	if !strings.Contains(body, "$1500.00") {
		t.Errorf("updated goal not rendered:\n%s", body)
	}
}

func TestReportEndpoint(t *testing.T) {
	h := newHarness(t)
	h.store.Seed([]core.LedgerEntry{
		{ID: "1", Name: "Dana", Role: core.RoleStudent, Group: "Seniors", Comment: core.RegistrationComment},
		{ID: "2", Name: "Dana", Group: "Seniors", Comment: "check", Amount: decimal.NewFromInt(2300)},
	})
	if err := h.server.controller.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	rec := h.do(t, http.MethodGet, "/report?group=Seniors", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /report = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Dana") || !strings.Contains(body, "PAID IN FULL") {
		t.Errorf("report body missing expected content:\n%s", body)
	}
}

func TestRateLimitAppliesToPosts(t *testing.T) {
	h := newHarness(t)

	var last *httptest.ResponseRecorder
	for i := 0; i < 61; i++ {
		last = h.do(t, http.MethodPost, "/participants", url.Values{"name": {"Eve"}})
	}
	if last.Code != http.StatusTooManyRequests {
		t.Errorf("61st POST = %d, want 429", last.Code)
	}

	// Reads are never rate limited.
	if rec := h.do(t, http.MethodGet, "/ui/group", nil); rec.Code != http.StatusOK {
		t.Errorf("GET after limit = %d, want 200", rec.Code)
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Alice  ", "Alice"},
		{"Bob\x00\x07", "Bob"},
		{"line1\nline2", "line1\nline2"},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSortOrderDefaultsToName(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?sort=bogus", nil)
	if got := sortOrder(req); got != core.SortByName {
		t.Errorf("sortOrder = %q, want name", got)
	}
	req = httptest.NewRequest(http.MethodGet, "/?sort=balance", nil)
	if got := sortOrder(req); got != core.SortByBalance {
		t.Errorf("sortOrder = %q, want balance", got)
	}
}
