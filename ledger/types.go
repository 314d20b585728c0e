/*
Package ledger implements the weekly reconciliation and debt accounting
engine.

PURPOSE:
  Tracks whether a recurring weekly obligation (a fixed payment due on a
  configured weekday) has been honored, and accumulates the running
  debt/credit between what was expected since a start date and what was
  actually recorded.

KEY CONCEPTS IN THIS FILE (types.go):
  - Payment:     A single recorded disbursement (one per calendar date)
  - Settings:    The reconciliation policy (weekday, amount, start/end)
  - WeekSlot:    One obligation week, classified Paid or Missed
  - Ledger:      The chronological sequence of WeekSlots
  - DebtSummary: expected/actual totals and their difference

DESIGN PRINCIPLES:
  1. Derived state is never cached: the ledger and debt are recomputed
     from Settings + payments on every request, so they cannot go stale.
  2. Precision: decimal.Decimal for all money, never float64.
  3. Optional fields have explicit absence (zero Day, empty string),
     never sentinel values with meaning.

SEE ALSO:
  - payments.go: the owned payment collection and its invariants
  - builder.go:  the week-walk that produces a Ledger
  - debt.go:     totals and formula variants
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PAYMENT - A single recorded disbursement
// =============================================================================

// PaymentID is the opaque identifier assigned when a payment is created.
type PaymentID string

// Payment is one recorded disbursement. The one-payment-per-date invariant
// is enforced by PaymentSet, not by the entity itself.
type Payment struct {
	ID           PaymentID
	Date         Day
	Amount       decimal.Decimal
	Note         string // optional
	ReceiptImage string // optional, opaque encoded attachment
}

// =============================================================================
// SETTINGS - The reconciliation policy
// =============================================================================

// Settings describes the weekly obligation being reconciled.
// EndDate is optional; when zero, reconciliation runs through today.
type Settings struct {
	Name           string
	PaymentWeekday time.Weekday
	ExpectedAmount decimal.Decimal
	StartDate      Day
	EndDate        Day
}

// Cutoff returns the last date reconciliation covers: EndDate when set,
// otherwise today at local midnight.
func (s Settings) Cutoff() Day {
	if !s.EndDate.IsZero() {
		return s.EndDate
	}
	return Today()
}

// =============================================================================
// WEEK SLOT & LEDGER - The reconciliation timeline
// =============================================================================

type SlotStatus string

const (
	StatusPaid   SlotStatus = "paid"
	StatusMissed SlotStatus = "missed"
)

// WeekSlot is one obligation week in the timeline. For Paid slots the
// anchor is the matching payment's actual date; for Missed slots it is
// the aligned due date itself.
type WeekSlot struct {
	Anchor  Day
	Status  SlotStatus
	Payment *Payment // set when Status == StatusPaid
}

// Ledger is the full ordered timeline of obligation weeks from the
// aligned start date through the cutoff. It is a pure projection of the
// current Settings and payment collection, recomputed on every request.
type Ledger []WeekSlot

// Weeks returns the number of matured obligation weeks.
func (l Ledger) Weeks() int { return len(l) }

// Missed returns the Missed slots in order.
func (l Ledger) Missed() []WeekSlot {
	var out []WeekSlot
	for _, slot := range l {
		if slot.Status == StatusMissed {
			out = append(out, slot)
		}
	}
	return out
}

// =============================================================================
// DEBT SUMMARY - Expected vs actual
// =============================================================================

// DebtSummary is the reduction of a ledger into totals.
// Debt > 0 means underpaid; zero or negative means caught up or ahead.
type DebtSummary struct {
	Weeks         int
	ExpectedTotal decimal.Decimal
	ActualTotal   decimal.Decimal
	Debt          decimal.Decimal
}
