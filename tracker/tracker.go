/*
Package tracker owns the mutable application state.

PURPOSE:
  Tracker is the single mutation entry point for settings and payments.
  It wraps the pure ledger package with an explicit load/persist
  boundary: state is read from the persistence collaborator once at
  startup, and every successful mutation writes the affected value back
  WHOLE (replace-whole-value, no deltas). The reconciliation functions
  themselves never touch storage.

STORAGE DEGRADATION:
  When the collaborator cannot be written, the mutation still succeeds
  in memory and the tracker marks the session degraded. Reconciliation
  never depends on storage being available.

DERIVED STATE:
  Ledger, debt and reports are recomputed from current state on every
  call. Nothing derived is cached, so nothing derived can go stale.
*/
package tracker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pagotrack/payment-engine/backup"
	"github.com/pagotrack/payment-engine/extract"
	"github.com/pagotrack/payment-engine/ledger"
	"github.com/pagotrack/payment-engine/report"
	"github.com/pagotrack/payment-engine/store"
)

// =============================================================================
// TRACKER
// =============================================================================

type Tracker struct {
	mu        sync.Mutex
	snap      store.Snapshot
	extractor extract.Extractor

	settings ledger.Settings
	payments *ledger.PaymentSet
	degraded bool
}

// New creates a tracker over the given persistence collaborator.
func New(snap store.Snapshot) *Tracker {
	return &Tracker{
		snap:      snap,
		extractor: extract.Disabled{},
		settings:  DefaultSettings(),
		payments:  ledger.NewPaymentSet(nil),
	}
}

// WithExtractor sets the receipt extraction collaborator.
func (t *Tracker) WithExtractor(e extract.Extractor) *Tracker {
	t.extractor = e
	return t
}

// DefaultSettings is the seed used before anything has been configured:
// payment due Fridays from the start of the current year.
func DefaultSettings() ledger.Settings {
	return ledger.Settings{
		Name:           "Juan Pérez",
		PaymentWeekday: time.Friday,
		ExpectedAmount: decimal.NewFromInt(2500),
		StartDate:      ledger.NewDay(ledger.Today().Year(), time.January, 1),
	}
}

// Load reads persisted state. Called once at startup. A read failure
// degrades the session to memory-only instead of failing it.
func (t *Tracker) Load(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	settings, ok, err := t.snap.LoadSettings(ctx)
	if err != nil {
		t.degraded = true
		return fmt.Errorf("%w: %v", ledger.ErrStorageUnavailable, err)
	}
	if ok {
		t.settings = settings
	}

	payments, err := t.snap.LoadPayments(ctx)
	if err != nil {
		t.degraded = true
		return fmt.Errorf("%w: %v", ledger.ErrStorageUnavailable, err)
	}
	t.payments = ledger.NewPaymentSet(payments)
	return nil
}

// StorageHealthy reports whether the persistence collaborator has been
// working this session.
func (t *Tracker) StorageHealthy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.degraded
}

// =============================================================================
// SETTINGS
// =============================================================================

func (t *Tracker) Settings() ledger.Settings {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.settings
}

// UpdateSettings validates and replaces the reconciliation policy.
func (t *Tracker) UpdateSettings(ctx context.Context, s ledger.Settings) error {
	if err := ledger.ValidateSettings(s); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.settings = s
	t.persistSettings(ctx)
	return nil
}

// =============================================================================
// PAYMENTS - single mutation entry point
// =============================================================================

func (t *Tracker) Payments() []ledger.Payment {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.payments.All()
}

// CreatePayment records a new payment, evicting any record on the same
// date, and snapshots the collection.
func (t *Tracker) CreatePayment(ctx context.Context, p ledger.Payment) (ledger.Payment, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	stored, err := t.payments.Upsert(p)
	if err != nil {
		return ledger.Payment{}, err
	}
	t.persistPayments(ctx)
	return stored, nil
}

// EditPayment replaces the record with the given id, keeping its id even
// when the date changes.
func (t *Tracker) EditPayment(ctx context.Context, id ledger.PaymentID, p ledger.Payment) (ledger.Payment, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	stored, err := t.payments.UpsertWithID(id, p)
	if err != nil {
		return ledger.Payment{}, err
	}
	t.persistPayments(ctx)
	return stored, nil
}

// DeletePayment removes the record with the given id; unknown ids are a
// no-op that still answers success.
func (t *Tracker) DeletePayment(ctx context.Context, id ledger.PaymentID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.payments.Remove(id)
	t.persistPayments(ctx)
}

// Reset clears all payments and restores default settings.
func (t *Tracker) Reset(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.settings = DefaultSettings()
	t.payments = ledger.NewPaymentSet(nil)
	t.persistSettings(ctx)
	t.persistPayments(ctx)
}

// =============================================================================
// DERIVED VIEWS - recomputed on every call
// =============================================================================

// Ledger builds the current reconciliation timeline.
func (t *Tracker) Ledger() ledger.Ledger {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ledger.Build(t.settings, t.payments.All(), t.settings.Cutoff())
}

// MissedDueDates returns the aligned due dates of unpaid weeks.
func (t *Tracker) MissedDueDates() []ledger.Day {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ledger.MissedDueDates(t.settings, t.payments.All(), t.settings.Cutoff())
}

// Formula names a debt computation variant. The calendar-weeks formula
// is canonical; the others exist for legacy report compatibility and are
// only ever produced when asked for by name.
type Formula string

const (
	FormulaCalendarWeeks Formula = "calendar_weeks"
	FormulaPaymentCount  Formula = "payment_count"
	FormulaFlatMonthly   Formula = "flat_monthly"
)

// Debt computes the summary under the canonical formula.
func (t *Tracker) Debt() ledger.DebtSummary {
	summary, _ := t.DebtWith(FormulaCalendarWeeks)
	return summary
}

// DebtWith computes the summary under a named formula.
func (t *Tracker) DebtWith(f Formula) (ledger.DebtSummary, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	payments := t.payments.All()
	cutoff := t.settings.Cutoff()

	switch f {
	case FormulaCalendarWeeks, "":
		l := ledger.Build(t.settings, payments, cutoff)
		return ledger.Summarize(l, t.settings), nil
	case FormulaPaymentCount:
		return ledger.SummarizeByPaymentCount(payments, t.settings), nil
	case FormulaFlatMonthly:
		return ledger.SummarizeFlatMonthly(monthsElapsed(t.settings.StartDate, cutoff), payments, t.settings), nil
	default:
		return ledger.DebtSummary{}, &ledger.FieldError{Field: "formula", Reason: "unknown debt formula"}
	}
}

// monthsElapsed counts the calendar months touched by [start, cutoff].
func monthsElapsed(start, cutoff ledger.Day) int {
	if cutoff.Before(start) {
		return 0
	}
	return (cutoff.Year()*12 + int(cutoff.Month())) - (start.Year()*12 + int(start.Month())) + 1
}

// TotalReport assembles the full-timeline report for the renderer.
func (t *Tracker) TotalReport() report.Report {
	t.mu.Lock()
	defer t.mu.Unlock()

	l := ledger.Build(t.settings, t.payments.All(), t.settings.Cutoff())
	return report.Total(l, t.settings)
}

// MonthlyReport assembles the single-month report for the renderer.
func (t *Tracker) MonthlyReport(year int, month time.Month) report.Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	return report.Monthly(t.payments.All(), t.settings, year, month)
}

// =============================================================================
// BACKUP
// =============================================================================

// ExportBackup serializes current state into a backup document.
func (t *Tracker) ExportBackup() ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return backup.Export(t.settings, t.payments.All())
}

// ImportBackup replaces both collections wholesale from a backup
// document. A malformed document leaves current state untouched.
func (t *Tracker) ImportBackup(ctx context.Context, data []byte) error {
	settings, payments, err := backup.Import(data)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.settings = settings
	t.payments = ledger.NewPaymentSet(payments)
	t.persistSettings(ctx)
	t.persistPayments(ctx)
	return nil
}

// =============================================================================
// RECEIPT EXTRACTION
// =============================================================================

// SuggestFromReceipt asks the extraction collaborator for candidate
// values and validates them against an empty draft. The caller gets back
// a draft it can show for confirmation, never a stored payment.
func (t *Tracker) SuggestFromReceipt(ctx context.Context, imageData string) (ledger.Payment, error) {
	sug, err := t.extractor.Extract(ctx, imageData)
	if err != nil {
		return ledger.Payment{}, err
	}
	draft := ledger.Payment{Date: ledger.Today(), ReceiptImage: imageData}
	return ledger.ApplySuggestion(draft, sug)
}

// =============================================================================
// PERSISTENCE - full snapshots, degrade on failure
// =============================================================================

func (t *Tracker) persistSettings(ctx context.Context) {
	if err := t.snap.SaveSettings(ctx, t.settings); err != nil {
		t.degraded = true
		log.Printf("tracker: settings snapshot failed, continuing in memory: %v", err)
	}
}

func (t *Tracker) persistPayments(ctx context.Context) {
	if err := t.snap.ReplacePayments(ctx, t.payments.All()); err != nil {
		t.degraded = true
		log.Printf("tracker: payments snapshot failed, continuing in memory: %v", err)
	}
}
