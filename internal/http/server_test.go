package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracker/internal/service"
	"tracker/internal/storage"
)

func newTestServer() *Server {
	store := storage.NewMemoryStore()
	return NewServer(":0", Services{
		Expenses:   service.NewExpenseService(store, nil),
		Profile:    service.NewProfileService(store),
		Categories: service.NewCategoryService(store),
		Auth:       service.NewAuthService(store),
	}, time.Minute)
}

func doJSON(t *testing.T, s *Server, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(userIDHeader, userID)
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestCreateAndListExpenses(t *testing.T) {
	s := newTestServer()

	rec := doJSON(t, s, "POST", "/api/expenses", "u1",
		`{"title":"Groceries","amount":45.5,"category":"Food & Dining","date":"2025-02-10","description":"weekly shop"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[map[string]any](t, rec)
	assert.Len(t, created["id"], 9)
	assert.Equal(t, 45.5, created["amount"])
	assert.Equal(t, "2025-02-10", created["date"])

	rec = doJSON(t, s, "GET", "/api/expenses", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]map[string]any](t, rec)
	require.Len(t, list, 1)

	// Another namespace sees nothing.
	rec = doJSON(t, s, "GET", "/api/expenses", "u2", "")
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestCreateExpenseValidation(t *testing.T) {
	s := newTestServer()

	cases := []string{
		`{"amount":10,"category":"Food & Dining","date":"2025-01-01"}`, // no title
		`{"title":"x","category":"Food & Dining","date":"2025-01-01"}`, // no amount
		`{"title":"x","amount":10,"date":"2025-01-01"}`,                // no category
		`{"title":"x","amount":10,"category":"c"}`,                     // no date
		`{"title":"x","amount":-5,"category":"c","date":"2025-01-01"}`, // negative amount
		`{not json`,
	}
	for _, body := range cases {
		rec := doJSON(t, s, "POST", "/api/expenses", "u1", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestGetUpdateDeleteExpense(t *testing.T) {
	s := newTestServer()

	rec := doJSON(t, s, "POST", "/api/expenses", "u1",
		`{"title":"Coffee","amount":3,"category":"Food & Dining","date":"2025-03-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[map[string]any](t, rec)["id"].(string)

	rec = doJSON(t, s, "GET", "/api/expenses/"+id, "u1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, "PUT", "/api/expenses/"+id, "u1", `{"title":"Espresso"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[map[string]any](t, rec)
	assert.Equal(t, "Espresso", updated["title"])
	assert.Equal(t, float64(3), updated["amount"]) // unpatched field kept

	rec = doJSON(t, s, "GET", "/api/expenses/missing00", "u1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doJSON(t, s, "PUT", "/api/expenses/missing00", "u1", `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, s, "DELETE", "/api/expenses/"+id, "u1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, s, "DELETE", "/api/expenses/"+id, "u1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatsEndpointAndCacheInvalidation(t *testing.T) {
	s := newTestServer()

	rec := doJSON(t, s, "GET", "/api/stats", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[map[string]any](t, rec)
	assert.Equal(t, float64(0), stats["totalExpenses"])

	rec = doJSON(t, s, "POST", "/api/expenses", "u1",
		`{"title":"Rent","amount":"500","category":"Bills & Utilities","date":"2025-02-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// The cached zero-stats entry was invalidated by the write.
	rec = doJSON(t, s, "GET", "/api/stats", "u1", "")
	stats = decode[map[string]any](t, rec)
	assert.Equal(t, float64(500), stats["totalExpenses"])
	assert.Equal(t, float64(1), stats["transactionCount"])

	breakdown := stats["categoryBreakdown"].(map[string]any)
	assert.Equal(t, float64(500), breakdown["Bills & Utilities"])
}

func TestYearlyAndPieStats(t *testing.T) {
	s := newTestServer()

	doJSON(t, s, "PUT", "/api/profile/salary", "u1", `{"salary":2000}`)
	doJSON(t, s, "POST", "/api/expenses", "u1",
		`{"title":"Rent","amount":500,"category":"Bills & Utilities","date":"`+time.Now().Format("2006")+`-01-15"}`)

	rec := doJSON(t, s, "GET", "/api/stats/yearly", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decode[[]map[string]any](t, rec)
	require.Len(t, rows, 12)
	assert.Equal(t, "Jan", rows[0]["month"])
	assert.Equal(t, float64(500), rows[0]["expenses"])
	assert.Equal(t, float64(1500), rows[0]["remaining"])

	rec = doJSON(t, s, "GET", "/api/stats/pie", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	slices := decode[[]map[string]any](t, rec)
	require.Len(t, slices, 1)
	assert.Equal(t, "Bills & Utilities", slices[0]["category"])
	assert.Equal(t, float64(100), slices[0]["percentage"])

	// Empty namespace yields an empty list.
	rec = doJSON(t, s, "GET", "/api/stats/pie", "fresh", "")
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestProfileEndpoints(t *testing.T) {
	s := newTestServer()

	rec := doJSON(t, s, "GET", "/api/profile", "u1", "")
	profile := decode[map[string]any](t, rec)
	assert.Equal(t, float64(0), profile["salary"])
	assert.Equal(t, "USD", profile["currency"])

	rec = doJSON(t, s, "PUT", "/api/profile/salary", "u1", `{"salary":"3500.50"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	profile = decode[map[string]any](t, rec)
	assert.Equal(t, 3500.5, profile["salary"])

	// Negative and non-numeric salaries are rejected.
	rec = doJSON(t, s, "PUT", "/api/profile/salary", "u1", `{"salary":-100}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = doJSON(t, s, "PUT", "/api/profile/salary", "u1", `{"salary":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = doJSON(t, s, "PUT", "/api/profile/salary", "u1", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, "PUT", "/api/profile/currency", "u1", `{"currency":"EUR"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, s, "PUT", "/api/profile/currency", "u1", `{"currency":"XXX"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfilePartialUpdate(t *testing.T) {
	s := newTestServer()

	rec := doJSON(t, s, "PUT", "/api/profile", "u1", `{"salary":1000,"currency":"EUR"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	profile := decode[map[string]any](t, rec)
	assert.Equal(t, float64(1000), profile["salary"])
	assert.Equal(t, "EUR", profile["currency"])

	// A currency-only document keeps the stored salary.
	rec = doJSON(t, s, "PUT", "/api/profile", "u1", `{"currency":"GBP"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	profile = decode[map[string]any](t, rec)
	assert.Equal(t, float64(1000), profile["salary"])
	assert.Equal(t, "GBP", profile["currency"])

	rec = doJSON(t, s, "PUT", "/api/profile", "u1", `{"salary":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = doJSON(t, s, "PUT", "/api/profile", "u1", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = doJSON(t, s, "PUT", "/api/profile", "u1", `{"currency":"XXX"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCategoriesEndpoint(t *testing.T) {
	s := newTestServer()
	rec := doJSON(t, s, "GET", "/api/categories", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	categories := decode[[]map[string]any](t, rec)
	require.Len(t, categories, 8)
	assert.Equal(t, "Food & Dining", categories[0]["name"])
}

func TestAuthEndpoints(t *testing.T) {
	s := newTestServer()

	rec := doJSON(t, s, "POST", "/api/auth/register", "",
		`{"email":"a@b.c","name":"Alice","password":"secret"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	session := decode[map[string]any](t, rec)
	assert.Equal(t, "a@b.c", session["email"])

	// Duplicate email conflicts.
	rec = doJSON(t, s, "POST", "/api/auth/register", "",
		`{"email":"A@B.C","name":"Other","password":"pw"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, s, "GET", "/api/auth/me", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, "POST", "/api/auth/logout", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, s, "GET", "/api/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, s, "POST", "/api/auth/login", "", `{"email":"a@b.c","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = doJSON(t, s, "POST", "/api/auth/login", "", `{"email":"a@b.c","password":"secret"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExportCSVEndpoint(t *testing.T) {
	s := newTestServer()

	doJSON(t, s, "POST", "/api/expenses", "u1",
		`{"title":"Groceries","amount":45.5,"category":"Food & Dining","date":"2025-02-10"}`)
	doJSON(t, s, "POST", "/api/expenses", "u1",
		`{"title":"Cinema","amount":12,"category":"Entertainment","date":"2025-01-20"}`)

	rec := doJSON(t, s, "GET", "/api/export/csv", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "expenses_")
	assert.Contains(t, rec.Body.String(), "Date,Title,Category,Amount,Description")
	assert.Contains(t, rec.Body.String(), `"Groceries"`)

	// Category filter narrows the rows.
	rec = doJSON(t, s, "GET", "/api/export/csv?category=Entertainment", "u1", "")
	assert.NotContains(t, rec.Body.String(), "Groceries")
	assert.Contains(t, rec.Body.String(), "Cinema")

	// Bad filter parameters are client errors.
	rec = doJSON(t, s, "GET", "/api/export/csv?from=garbage", "u1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = doJSON(t, s, "GET", "/api/export/csv?min=abc", "u1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportReportEndpoint(t *testing.T) {
	s := newTestServer()
	doJSON(t, s, "POST", "/api/expenses", "u1",
		`{"title":"Groceries","amount":45.5,"category":"Food & Dining","date":"2025-02-10"}`)

	rec := doJSON(t, s, "GET", "/api/export/report", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Expense Report")
	assert.Contains(t, rec.Body.String(), "45.50")
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer()

	rec := doJSON(t, s, "GET", "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = doJSON(t, s, "GET", "/readyz", "", "")
	assert.Equal(t, "ready", rec.Body.String())

	doJSON(t, s, "GET", "/api/expenses", "u1", "")
	rec = doJSON(t, s, "GET", "/metrics", "", "")
	assert.Contains(t, rec.Body.String(), "tracker_http_requests_total")
}

func TestSecurityHeaders(t *testing.T) {
	s := newTestServer()
	rec := doJSON(t, s, "GET", "/api/expenses", "u1", "")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}
