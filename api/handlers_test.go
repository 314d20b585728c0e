package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagotrack/payment-engine/api"
	"github.com/pagotrack/payment-engine/ledger"
	"github.com/pagotrack/payment-engine/store/memory"
	"github.com/pagotrack/payment-engine/tracker"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) (*httptest.Server, *tracker.Tracker) {
	trk := tracker.New(memory.New())
	require.NoError(t, trk.Load(context.Background()))

	srv := httptest.NewServer(api.NewRouter(api.NewHandler(trk)))
	t.Cleanup(srv.Close)
	return srv, trk
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// testSettings pins the reconciliation window to Jan 2024.
func testSettings() api.SettingsDTO {
	return api.SettingsDTO{
		Name:             "Juan Pérez",
		WeeklyPaymentDay: 5,
		ExpectedAmount:   decimal.NewFromInt(2500),
		StartDate:        "2024-01-01",
		EndDate:          "2024-01-19",
	}
}

// =============================================================================
// SETTINGS
// =============================================================================

func TestSettings_PutAndGet(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/settings", testSettings())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	got := decode[api.SettingsDTO](t, doJSON(t, http.MethodGet, srv.URL+"/api/settings", nil))
	assert.Equal(t, "Juan Pérez", got.Name)
	assert.Equal(t, 5, got.WeeklyPaymentDay)
	assert.Equal(t, "2024-01-19", got.EndDate)
}

func TestSettings_PutInvalid(t *testing.T) {
	srv, _ := newTestServer(t)

	bad := testSettings()
	bad.WeeklyPaymentDay = 9
	resp := doJSON(t, http.MethodPut, srv.URL+"/api/settings", bad)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSettings_EndBeforeStartRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	bad := testSettings()
	bad.EndDate = "2023-12-01"
	resp := doJSON(t, http.MethodPut, srv.URL+"/api/settings", bad)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// PAYMENTS
// =============================================================================

func TestPayments_CreateListDelete(t *testing.T) {
	srv, _ := newTestServer(t)

	created := decode[api.PaymentDTO](t, doJSON(t, http.MethodPost, srv.URL+"/api/payments",
		api.UpsertPaymentRequest{Date: "2024-01-11", Amount: decimal.NewFromInt(2500), Note: "week 2"}))
	assert.NotEmpty(t, created.ID)

	list := decode[[]api.PaymentDTO](t, doJSON(t, http.MethodGet, srv.URL+"/api/payments", nil))
	require.Len(t, list, 1)
	assert.Equal(t, "2024-01-11", list[0].Date)

	resp := doJSON(t, http.MethodDelete, srv.URL+"/api/payments/"+created.ID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	list = decode[[]api.PaymentDTO](t, doJSON(t, http.MethodGet, srv.URL+"/api/payments", nil))
	assert.Empty(t, list)
}

func TestPayments_CreateNegativeAmount(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/payments",
		api.UpsertPaymentRequest{Date: "2024-01-11", Amount: decimal.NewFromInt(-5)})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPayments_EditKeepsID(t *testing.T) {
	srv, _ := newTestServer(t)

	created := decode[api.PaymentDTO](t, doJSON(t, http.MethodPost, srv.URL+"/api/payments",
		api.UpsertPaymentRequest{Date: "2024-01-05", Amount: decimal.NewFromInt(2500)}))

	edited := decode[api.PaymentDTO](t, doJSON(t, http.MethodPut, srv.URL+"/api/payments/"+created.ID,
		api.UpsertPaymentRequest{Date: "2024-01-11", Amount: decimal.NewFromInt(2500)}))

	assert.Equal(t, created.ID, edited.ID)
	assert.Equal(t, "2024-01-11", edited.Date)
}

func TestPayments_EditUnknownID(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/payments/ghost",
		api.UpsertPaymentRequest{Date: "2024-01-11", Amount: decimal.NewFromInt(2500)})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// RECONCILIATION
// =============================================================================

func TestLedgerEndpoint_Scenario(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/settings", testSettings())
	resp.Body.Close()
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/payments",
		api.UpsertPaymentRequest{Date: "2024-01-11", Amount: decimal.NewFromInt(2500)})
	resp.Body.Close()

	got := decode[api.LedgerDTO](t, doJSON(t, http.MethodGet, srv.URL+"/api/ledger", nil))

	require.Len(t, got.Slots, 3)
	assert.Equal(t, "missed", got.Slots[0].Status)
	assert.Equal(t, "paid", got.Slots[1].Status)
	assert.Equal(t, "2024-01-11", got.Slots[1].Anchor)
	require.NotNil(t, got.Slots[1].Payment)

	assert.Equal(t, 3, got.Debt.Weeks)
	assert.True(t, got.Debt.Debt.Equal(decimal.NewFromInt(5000)))
}

func TestDebtEndpoint_Formulas(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/settings", testSettings())
	resp.Body.Close()
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/payments",
		api.UpsertPaymentRequest{Date: "2024-01-11", Amount: decimal.NewFromInt(2000)})
	resp.Body.Close()

	canonical := decode[api.DebtSummaryDTO](t, doJSON(t, http.MethodGet, srv.URL+"/api/debt", nil))
	assert.Equal(t, "calendar_weeks", canonical.Formula)
	assert.Equal(t, 3, canonical.Weeks)

	byCount := decode[api.DebtSummaryDTO](t, doJSON(t, http.MethodGet, srv.URL+"/api/debt?formula=payment_count", nil))
	assert.Equal(t, 1, byCount.Weeks)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/debt?formula=bogus", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMissedEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/settings", testSettings())
	resp.Body.Close()

	missed := decode[[]string](t, doJSON(t, http.MethodGet, srv.URL+"/api/missed", nil))
	assert.Equal(t, []string{"2024-01-05", "2024-01-12", "2024-01-19"}, missed)
}

// =============================================================================
// BACKUP
// =============================================================================

func TestBackup_ExportImportOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/settings", testSettings())
	resp.Body.Close()
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/payments",
		api.UpsertPaymentRequest{Date: "2024-01-11", Amount: decimal.NewFromInt(2500)})
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/backup/export", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "pagotrack_backup_")

	var doc json.RawMessage
	doc = decode[json.RawMessage](t, resp)

	// Import into a second, empty server.
	other, _ := newTestServer(t)
	req, err := http.NewRequest(http.MethodPost, other.URL+"/api/backup/import", bytes.NewReader(doc))
	require.NoError(t, err)
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	list := decode[[]api.PaymentDTO](t, doJSON(t, http.MethodGet, other.URL+"/api/payments", nil))
	require.Len(t, list, 1)
	assert.Equal(t, "2024-01-11", list[0].Date)
}

func TestBackup_ImportRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/backup/import",
		bytes.NewReader([]byte(`{"version":1,"settings":[],"payments":{}}`)))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// RECEIPTS & ADMIN
// =============================================================================

type stubExtractor struct {
	sug ledger.Suggestion
}

func (s stubExtractor) Extract(context.Context, string) (ledger.Suggestion, error) {
	return s.sug, nil
}

func TestReceiptSuggest(t *testing.T) {
	amount := decimal.NewFromInt(1800)
	srv, trk := newTestServer(t)
	trk.WithExtractor(stubExtractor{sug: ledger.Suggestion{Amount: &amount, Date: "2024-01-11"}})

	got := decode[api.SuggestResponse](t, doJSON(t, http.MethodPost, srv.URL+"/api/receipts/suggest",
		api.SuggestRequest{Image: "data:image/jpeg;base64,abc"}))

	assert.Equal(t, "2024-01-11", got.Date)
	assert.True(t, got.Amount.Equal(amount))
}

func TestReceiptSuggest_MissingImage(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/receipts/suggest", api.SuggestRequest{})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestResetAndHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/payments",
		api.UpsertPaymentRequest{Date: "2024-01-11", Amount: decimal.NewFromInt(2500)})
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/reset", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	list := decode[[]api.PaymentDTO](t, doJSON(t, http.MethodGet, srv.URL+"/api/payments", nil))
	assert.Empty(t, list)

	health := decode[map[string]any](t, doJSON(t, http.MethodGet, srv.URL+"/api/health", nil))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, true, health["storage_healthy"])
}
