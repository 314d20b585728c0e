/*
handlers.go - HTTP handlers for the payment reconciliation engine

PURPOSE:
  Exposes the tracker over REST. Handles HTTP request/response, JSON
  serialization, and delegates everything else to the tracker.

ENDPOINTS:
  Settings:
    GET    /api/settings               Current reconciliation policy
    PUT    /api/settings               Replace the policy

  Payments:
    GET    /api/payments               List payments (date ascending)
    POST   /api/payments               Record payment (create mode)
    PUT    /api/payments/{id}          Edit payment (keeps id)
    DELETE /api/payments/{id}          Remove payment

  Reconciliation:
    GET    /api/ledger                 Timeline + canonical debt summary
    GET    /api/debt?formula=...       Debt under a named formula
    GET    /api/missed                 Aligned due dates of unpaid weeks

  Reports (renderer row contract):
    GET    /api/reports/total
    GET    /api/reports/monthly?year=&month=

  Backup:
    GET    /api/backup/export
    POST   /api/backup/import

  Receipts:
    POST   /api/receipts/suggest       Extraction suggestion -> draft

  Admin:
    POST   /api/reset                  Defaults + empty payments
    GET    /api/health

ERROR HANDLING:
  Domain errors map to HTTP statuses with errors.Is:
  - 400: validation and import format errors
  - 404: unknown payment id on edit
  - 500: everything else

SEE ALSO:
  - dto.go: wire shapes
  - server.go: router and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pagotrack/payment-engine/backup"
	"github.com/pagotrack/payment-engine/ledger"
	"github.com/pagotrack/payment-engine/tracker"
)

// maxImportSize bounds backup uploads; receipt images inline in the
// document can make it large, but not unbounded.
const maxImportSize = 32 << 20

// Handler holds the handlers' single dependency.
type Handler struct {
	Tracker *tracker.Tracker
}

func NewHandler(t *tracker.Tracker) *Handler {
	return &Handler{Tracker: t}
}

// =============================================================================
// SETTINGS
// =============================================================================

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, settingsDTO(h.Tracker.Settings()))
}

func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	var dto SettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return
	}

	settings, err := dto.toDomain()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.Tracker.UpdateSettings(r.Context(), settings); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsDTO(h.Tracker.Settings()))
}

// =============================================================================
// PAYMENTS
// =============================================================================

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments := h.Tracker.Payments()
	dtos := make([]PaymentDTO, 0, len(payments))
	for _, p := range payments {
		dtos = append(dtos, paymentDTO(p))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req UpsertPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return
	}

	p, err := req.toDomain()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	stored, err := h.Tracker.CreatePayment(r.Context(), p)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, paymentDTO(stored))
}

func (h *Handler) EditPayment(w http.ResponseWriter, r *http.Request) {
	id := ledger.PaymentID(chi.URLParam(r, "id"))

	var req UpsertPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return
	}

	p, err := req.toDomain()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	stored, err := h.Tracker.EditPayment(r.Context(), id, p)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, paymentDTO(stored))
}

func (h *Handler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	id := ledger.PaymentID(chi.URLParam(r, "id"))
	h.Tracker.DeletePayment(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// RECONCILIATION
// =============================================================================

func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	l := h.Tracker.Ledger()
	slots := make([]WeekSlotDTO, 0, len(l))
	for _, slot := range l {
		slots = append(slots, weekSlotDTO(slot))
	}
	writeJSON(w, http.StatusOK, LedgerDTO{
		Slots: slots,
		Debt:  debtSummaryDTO(string(tracker.FormulaCalendarWeeks), h.Tracker.Debt()),
	})
}

func (h *Handler) GetDebt(w http.ResponseWriter, r *http.Request) {
	formula := tracker.Formula(r.URL.Query().Get("formula"))
	if formula == "" {
		formula = tracker.FormulaCalendarWeeks
	}

	summary, err := h.Tracker.DebtWith(formula)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, debtSummaryDTO(string(formula), summary))
}

func (h *Handler) GetMissed(w http.ResponseWriter, r *http.Request) {
	missed := h.Tracker.MissedDueDates()
	dates := make([]string, 0, len(missed))
	for _, d := range missed {
		dates = append(dates, d.String())
	}
	writeJSON(w, http.StatusOK, dates)
}

// =============================================================================
// REPORTS
// =============================================================================

func (h *Handler) GetTotalReport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Tracker.TotalReport())
}

func (h *Handler) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year := now.Year()
	month := int(now.Month())

	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid year %q", v))
			return
		}
		year = n
	}
	if v := q.Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 12 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid month %q", v))
			return
		}
		month = n
	}

	writeJSON(w, http.StatusOK, h.Tracker.MonthlyReport(year, time.Month(month)))
}

// =============================================================================
// BACKUP
// =============================================================================

func (h *Handler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	data, err := h.Tracker.ExportBackup()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", backup.Filename(ledger.Today())))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("failed to read body: %w", err))
		return
	}
	if err := h.Tracker.ImportBackup(r.Context(), data); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "restored"})
}

// =============================================================================
// RECEIPTS
// =============================================================================

func (h *Handler) SuggestFromReceipt(w http.ResponseWriter, r *http.Request) {
	var req SuggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return
	}
	if req.Image == "" {
		writeError(w, http.StatusBadRequest, errors.New("image is required"))
		return
	}

	draft, err := h.Tracker.SuggestFromReceipt(r.Context(), req.Image)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuggestResponse{
		Date:         draft.Date.String(),
		Amount:       draft.Amount,
		ReceiptImage: draft.ReceiptImage,
	})
}

// =============================================================================
// ADMIN
// =============================================================================

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.Tracker.Reset(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:         "ok",
		StorageHealthy: h.Tracker.StorageHealthy(),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrPaymentNotFound):
		writeError(w, http.StatusNotFound, err)
	case ledger.IsClientError(err):
		writeError(w, http.StatusBadRequest, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}
