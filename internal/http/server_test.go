package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"tracker/internal/core"
	"tracker/internal/log"
	"tracker/internal/services"
	"tracker/internal/store/memory"
)

func newTestServer(t *testing.T, seed ...core.Transaction) *Server {
	t.Helper()
	return newTestServerWithLimit(t, 1000, seed...)
}

func newTestServerWithLimit(t *testing.T, limit int, seed ...core.Transaction) *Server {
	t.Helper()
	txs := services.NewTransactionService(memory.NewTransactions(seed...), nil, nil)
	accounts := services.NewAccountService(memory.NewUsers(), bcrypt.MinCost, nil)
	srv := NewServer(":0", Options{
		Transactions:       txs,
		Accounts:           accounts,
		RateLimitPerMinute: limit,
		SummaryCacheTTL:    time.Minute,
	})
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func do(t *testing.T, srv *Server, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func doJSON(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, srv, method, target, "application/json", body)
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func TestRootAndHealth(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/", "", "")
	if rr.Code != http.StatusOK || rr.Body.String() != rootMessage {
		t.Fatalf("root = %d %q", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("root content type = %q", ct)
	}

	rr = do(t, srv, http.MethodGet, "/api/health", "", "")
	if got := decode[map[string]string](t, rr); rr.Code != http.StatusOK || got["status"] != "Backend running healthy ✅" {
		t.Errorf("health = %d %v", rr.Code, got)
	}

	rr = do(t, srv, http.MethodGet, "/api/debug", "", "")
	got := decode[map[string]string](t, rr)
	if got["status"] != "API routes loaded successfully" {
		t.Errorf("debug status = %q", got["status"])
	}
	if _, err := time.Parse(time.RFC3339, got["time"]); err != nil {
		t.Errorf("debug time %q: %v", got["time"], err)
	}

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		rr := do(t, srv, http.MethodGet, path, "", "")
		if rr.Code != http.StatusOK {
			t.Errorf("%s status = %d body=%s", path, rr.Code, rr.Body.String())
		}
	}
	if rr := do(t, srv, http.MethodGet, "/healthz", "", ""); rr.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestNotFound(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name   string
		method string
		target string
	}{
		{"unknown path keeps query", http.MethodGet, "/nope?x=1"},
		{"wrong method", http.MethodPut, "/api/transactions"},
		{"post to health", http.MethodPost, "/api/health"},
		{"get on signup", http.MethodGet, "/api/signup"},
		{"get by id", http.MethodGet, "/api/transactions/1"},
		{"missing static file", http.MethodGet, "/static/missing.css"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, srv, tt.method, tt.target, "", "")
			if rr.Code != http.StatusNotFound {
				t.Fatalf("status = %d, want 404", rr.Code)
			}
			got := decode[map[string]string](t, rr)
			if got["error"] != "Route not found" || got["path"] != tt.target {
				t.Errorf("body = %v", got)
			}
		})
	}
}

func TestSignupAndLogin(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodPost, "/api/signup", `{"name":"Asha","email":"a@x.com","password":"secret"}`)
	if rr.Code != http.StatusOK || decode[messageResponse](t, rr).Message != "Signup successful" {
		t.Fatalf("signup = %d %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, srv, http.MethodPost, "/api/signup", `{"name":"Other","email":"a@x.com","password":"x"}`)
	if rr.Code != http.StatusBadRequest || decode[messageResponse](t, rr).Message != "User already exists" {
		t.Errorf("duplicate signup = %d %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, srv, http.MethodPost, "/api/signup", `{"name":"NoPass","email":"b@x.com"}`)
	if rr.Code != http.StatusBadRequest || decode[messageResponse](t, rr).Message != "All fields required" {
		t.Errorf("missing field signup = %d %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, srv, http.MethodPost, "/api/login", `{"email":"a@x.com","password":"secret"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("login = %d %s", rr.Code, rr.Body.String())
	}
	login := decode[loginResponse](t, rr)
	if login.Message != "Login successful" || login.User.Name != "Asha" || login.User.Email != "a@x.com" || login.User.ID == 0 {
		t.Errorf("login body = %+v", login)
	}
	if strings.Contains(rr.Body.String(), "secret") || strings.Contains(rr.Body.String(), "password") {
		t.Errorf("login leaks credentials: %s", rr.Body.String())
	}

	for _, body := range []string{
		`{"email":"a@x.com","password":"wrong"}`,
		`{"email":"nobody@x.com","password":"secret"}`,
		`{"email":"A@X.COM","password":"secret"}`,
	} {
		rr = doJSON(t, srv, http.MethodPost, "/api/login", body)
		if rr.Code != http.StatusUnauthorized || decode[messageResponse](t, rr).Message != "Invalid credentials" {
			t.Errorf("login %s = %d %s", body, rr.Code, rr.Body.String())
		}
	}
}

func TestSignupAcceptsForm(t *testing.T) {
	srv := newTestServer(t)
	form := url.Values{"name": {"Asha"}, "email": {"a@x.com"}, "password": {"pw"}}
	rr := do(t, srv, http.MethodPost, "/api/signup", "application/x-www-form-urlencoded", form.Encode())
	if rr.Code != http.StatusOK {
		t.Fatalf("form signup = %d %s", rr.Code, rr.Body.String())
	}
}

func TestCreateAndListTransactions(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodPost, "/api/transactions", `{"type":"income","amount":100,"category":"Salary"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", rr.Code, rr.Body.String())
	}
	created := decode[core.Transaction](t, rr)
	if created.ID == 0 || created.Type != core.Income || created.Amount != 100 || created.Category != "Salary" {
		t.Errorf("created = %+v", created)
	}

	form := url.Values{"type": {"expense"}, "amount": {"40"}, "category": {"Food"}, "note": {"lunch"}}
	rr = do(t, srv, http.MethodPost, "/api/transactions", "application/x-www-form-urlencoded", form.Encode())
	if rr.Code != http.StatusCreated {
		t.Fatalf("form create = %d %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, srv, http.MethodPost, "/api/transactions", `{"type":"expense","amount":"12.5","category":"Snacks"}`)
	if rr.Code != http.StatusCreated || decode[core.Transaction](t, rr).Amount != 12.5 {
		t.Errorf("string amount create = %d %s", rr.Code, rr.Body.String())
	}

	rr = do(t, srv, http.MethodGet, "/api/transactions", "", "")
	list := decode[[]core.Transaction](t, rr)
	if len(list) != 3 || list[0].Category != "Salary" || list[1].Note != "lunch" {
		t.Fatalf("list = %+v", list)
	}
	if list[0].ID >= list[1].ID || list[1].ID >= list[2].ID {
		t.Errorf("ids not increasing: %d %d %d", list[0].ID, list[1].ID, list[2].ID)
	}
}

func TestCreateKeepsTextFieldsAsSubmitted(t *testing.T) {
	srv := newTestServer(t)
	rr := doJSON(t, srv, http.MethodPost, "/api/transactions",
		`{"type":"expense","amount":5,"category":"  Food ","note":"  has foo in it  "}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", rr.Code, rr.Body.String())
	}
	list := decode[[]core.Transaction](t, do(t, srv, http.MethodGet, "/api/transactions", "", ""))
	if len(list) != 1 || list[0].Category != "  Food " || list[0].Note != "  has foo in it  " {
		t.Errorf("stored = %+v", list)
	}
}

func TestListEmptyIsArray(t *testing.T) {
	srv := newTestServer(t)
	rr := do(t, srv, http.MethodGet, "/api/transactions", "", "")
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Errorf("empty list body = %q", rr.Body.String())
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad type", `{"type":"gift","amount":1,"category":"c"}`, "invalid type"},
		{"missing amount", `{"type":"expense","category":"c"}`, "invalid amount"},
		{"null amount", `{"type":"expense","amount":null,"category":"c"}`, "invalid amount"},
		{"non numeric amount", `{"type":"expense","amount":"abc","category":"c"}`, "invalid amount"},
		{"negative amount", `{"type":"expense","amount":-5,"category":"c"}`, "invalid amount"},
		{"boolean amount", `{"type":"expense","amount":true,"category":"c"}`, "invalid amount"},
		{"missing category", `{"type":"income","amount":5}`, "invalid category"},
		{"blank category", `{"type":"expense","amount":5,"category":"   "}`, "invalid category"},
		{"broken json", `{"type":`, "invalid body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, srv, http.MethodPost, "/api/transactions", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (%s)", rr.Code, rr.Body.String())
			}
			if msg := decode[messageResponse](t, rr).Message; !strings.Contains(msg, tt.want) {
				t.Errorf("message = %q, want %q", msg, tt.want)
			}
		})
	}
	rr := do(t, srv, http.MethodGet, "/api/transactions", "", "")
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Errorf("rejected inputs were stored: %s", rr.Body.String())
	}
}

func TestDeleteAlwaysSucceeds(t *testing.T) {
	srv := newTestServer(t, core.Transaction{ID: 5, Type: core.Expense, Amount: 3, Category: "Food"})

	deleteOK := func(target string) {
		t.Helper()
		rr := do(t, srv, http.MethodDelete, target, "", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("DELETE %s = %d", target, rr.Code)
		}
		if got := decode[map[string]bool](t, rr); !got["success"] {
			t.Errorf("DELETE %s body = %s", target, rr.Body.String())
		}
	}

	deleteOK("/api/transactions/999")
	deleteOK("/api/transactions/abc")
	if list := decode[[]core.Transaction](t, do(t, srv, http.MethodGet, "/api/transactions", "", "")); len(list) != 1 || list[0].ID != 5 {
		t.Fatalf("store changed by unmatched deletes: %+v", list)
	}

	deleteOK("/api/transactions/5")
	deleteOK("/api/transactions/5")
	rr := do(t, srv, http.MethodGet, "/api/transactions", "", "")
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Errorf("list after delete = %s", rr.Body.String())
	}
}

type summaryBody struct {
	Transactions   []core.Transaction     `json:"transactions"`
	TotalIncome    float64                `json:"totalIncome"`
	TotalExpense   float64                `json:"totalExpense"`
	Balance        float64                `json:"balance"`
	CategoryTotals map[string]json.Number `json:"categoryTotals"`
}

func TestSummaryScenarios(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/api/transactions", `{"type":"income","amount":100,"category":"Salary"}`)
	doJSON(t, srv, http.MethodPost, "/api/transactions", `{"type":"expense","amount":40,"category":"Food"}`)

	rr := do(t, srv, http.MethodGet, "/api/summary", "", "")
	all := decode[summaryBody](t, rr)
	if all.TotalIncome != 100 || all.TotalExpense != 40 || all.Balance != 60 {
		t.Errorf("all totals = %+v", all)
	}
	if !strings.Contains(rr.Body.String(), `"categoryTotals":{"Food":40}`) {
		t.Errorf("category totals = %s", rr.Body.String())
	}

	rr = do(t, srv, http.MethodGet, "/api/summary?type=income", "", "")
	income := decode[summaryBody](t, rr)
	if income.TotalIncome != 100 || income.TotalExpense != 0 || len(income.CategoryTotals) != 0 {
		t.Errorf("income totals = %+v", income)
	}

	rr = do(t, srv, http.MethodGet, "/api/summary?type=bogus", "", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad type status = %d", rr.Code)
	}
}

func TestSummarySearch(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/api/transactions", `{"type":"expense","amount":5,"category":"Other","note":"has foo in it"}`)
	doJSON(t, srv, http.MethodPost, "/api/transactions", `{"type":"expense","amount":7,"category":"Rent","note":"monthly"}`)

	rr := do(t, srv, http.MethodGet, "/api/summary?search=FOO", "", "")
	got := decode[summaryBody](t, rr)
	if len(got.Transactions) != 1 || got.Transactions[0].Category != "Other" || got.TotalExpense != 5 {
		t.Errorf("search result = %+v", got)
	}
}

func TestSummaryCacheInvalidatedByMutations(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/api/transactions", `{"type":"income","amount":10,"category":"Gift"}`)

	first := decode[summaryBody](t, do(t, srv, http.MethodGet, "/api/summary", "", ""))
	again := decode[summaryBody](t, do(t, srv, http.MethodGet, "/api/summary", "", ""))
	if first.Balance != 10 || again.Balance != 10 {
		t.Fatalf("balances = %v, %v", first.Balance, again.Balance)
	}
	if stats := srv.summaries.Stats(); stats.Hits != 1 {
		t.Errorf("cache hits = %d, want 1", stats.Hits)
	}

	doJSON(t, srv, http.MethodPost, "/api/transactions", `{"type":"expense","amount":4,"category":"Food"}`)
	after := decode[summaryBody](t, do(t, srv, http.MethodGet, "/api/summary", "", ""))
	if after.Balance != 6 {
		t.Errorf("balance after insert = %v, want 6", after.Balance)
	}
}

func TestSummaryMalformedRecord(t *testing.T) {
	srv := newTestServer(t, core.Transaction{ID: 1, Type: core.Expense, Amount: 3})

	rr := do(t, srv, http.MethodGet, "/api/summary", "", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"categoryTotals":{"undefined":3}`) {
		t.Fatalf("summary without search = %d %s", rr.Code, rr.Body.String())
	}

	rr = do(t, srv, http.MethodGet, "/api/summary?search=food", "", "")
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rr.Code)
	}
	if msg := decode[messageResponse](t, rr).Message; !strings.Contains(msg, "missing category") {
		t.Errorf("message = %q", msg)
	}
}

func TestRateLimitMutations(t *testing.T) {
	srv := newTestServerWithLimit(t, 2)
	for i := 0; i < 2; i++ {
		rr := doJSON(t, srv, http.MethodPost, "/api/transactions", `{"type":"income","amount":1,"category":"c"}`)
		if rr.Code != http.StatusCreated {
			t.Fatalf("request %d status = %d", i, rr.Code)
		}
	}
	rr := doJSON(t, srv, http.MethodPost, "/api/transactions", `{"type":"income","amount":1,"category":"c"}`)
	if rr.Code != http.StatusTooManyRequests || rr.Header().Get("Retry-After") == "" {
		t.Fatalf("third request = %d, Retry-After=%q", rr.Code, rr.Header().Get("Retry-After"))
	}
	if rr := do(t, srv, http.MethodGet, "/api/transactions", "", ""); rr.Code != http.StatusOK {
		t.Errorf("reads are not limited, got %d", rr.Code)
	}
}

func TestSecurityAndCORSHeaders(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)

	if rr.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("missing CORS header")
	}
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing nosniff header")
	}
}

func TestDashboard(t *testing.T) {
	srv := newTestServer(t,
		core.Transaction{ID: 1, Type: core.Income, Amount: 100, Category: "Salary"},
		core.Transaction{ID: 2, Type: core.Expense, Amount: 40, Category: "Food", Note: "<b>lunch</b>"},
	)

	rr := do(t, srv, http.MethodGet, "/dashboard", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("dashboard = %d %s", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	for _, want := range []string{"₹60", "₹100", "₹40", "Salary", "&lt;b&gt;lunch&lt;/b&gt;", "<svg", "/dashboard/transactions/2/delete"} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
	if strings.Contains(body, "<b>lunch</b>") {
		t.Error("note not escaped")
	}

	rr = do(t, srv, http.MethodGet, "/dashboard?type=income", "", "")
	if body := rr.Body.String(); strings.Contains(body, "Food") && strings.Contains(body, "badge-expense\">") {
		t.Error("income filter shows expense rows")
	}

	rr = do(t, srv, http.MethodGet, "/dashboard?type=nope", "", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "invalid type") {
		t.Errorf("bad filter = %d", rr.Code)
	}
}

func TestDashboardPostRedirectGet(t *testing.T) {
	srv := newTestServer(t)

	form := url.Values{"type": {"expense"}, "amount": {"25"}, "category": {"Books"}}
	rr := do(t, srv, http.MethodPost, "/dashboard/transactions", "application/x-www-form-urlencoded", form.Encode())
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/dashboard" {
		t.Fatalf("create = %d location=%q", rr.Code, rr.Header().Get("Location"))
	}
	list := decode[[]core.Transaction](t, do(t, srv, http.MethodGet, "/api/transactions", "", ""))
	if len(list) != 1 || list[0].Category != "Books" {
		t.Fatalf("list = %+v", list)
	}

	bad := url.Values{"type": {"expense"}, "amount": {"25"}, "category": {""}}
	rr = do(t, srv, http.MethodPost, "/dashboard/transactions", "application/x-www-form-urlencoded", bad.Encode())
	if rr.Code != http.StatusBadRequest || !strings.Contains(rr.Body.String(), "invalid category") {
		t.Errorf("invalid create = %d", rr.Code)
	}

	target := "/dashboard/transactions/" + jsonID(list[0].ID) + "/delete"
	rr = do(t, srv, http.MethodPost, target, "", "")
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("delete = %d", rr.Code)
	}
	if got := strings.TrimSpace(do(t, srv, http.MethodGet, "/api/transactions", "", "").Body.String()); got != "[]" {
		t.Errorf("list after delete = %s", got)
	}
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestStaticAssets(t *testing.T) {
	srv := newTestServer(t)
	rr := do(t, srv, http.MethodGet, "/static/style.css", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("style.css = %d", rr.Code)
	}
	if cc := rr.Header().Get("Cache-Control"); !strings.Contains(cc, "max-age=3600") {
		t.Errorf("Cache-Control = %q", cc)
	}
}

func TestMetricsCountMutations(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/api/transactions", `{"type":"income","amount":1,"category":"c"}`)
	rr := do(t, srv, http.MethodGet, "/metrics", "", "")
	if !strings.Contains(rr.Body.String(), "transactions_created_total 1") {
		t.Errorf("metrics = %s", rr.Body.String())
	}
}

func TestCreateLogsOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Output: &buf, Format: "text"})
	srv := NewServer(":0", Options{
		Transactions:       services.NewTransactionService(memory.NewTransactions(), nil, logger),
		Accounts:           services.NewAccountService(memory.NewUsers(), bcrypt.MinCost, logger),
		Logger:             logger,
		RateLimitPerMinute: 1000,
	})
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	doJSON(t, srv, http.MethodPost, "/api/transactions", `{"type":"income","amount":1,"category":"c"}`)
	form := url.Values{"type": {"expense"}, "amount": {"2"}, "category": {"Food"}}
	do(t, srv, http.MethodPost, "/dashboard/transactions", "application/x-www-form-urlencoded", form.Encode())

	if n := strings.Count(buf.String(), "Transaction created"); n != 2 {
		t.Errorf("\"Transaction created\" logged %d times for 2 inserts:\n%s", n, buf.String())
	}
}
