/*
builder.go - Ledger construction

PURPOSE:
  Builds the reconciliation timeline: one WeekSlot per obligation week
  from the aligned start date through the cutoff.

ALGORITHM:
  1. firstDue = AlignToWeekday(settings.StartDate, settings.PaymentWeekday)
  2. Walk a cursor from firstDue in exact 7-day steps while cursor <= cutoff.
  3. Per step, look for a payment in the same Monday-keyed week as the
     cursor. Found: emit a Paid slot anchored at the PAYMENT's date (a
     Thursday payment for a Friday due date anchors Thursday). Not found:
     emit a Missed slot anchored at the cursor.

EDGE CASES:
  - firstDue > cutoff: empty ledger. Valid, not an error - no obligation
    has matured yet.
  - Payments outside [firstDue, cutoff] never match a slot, but still
    count in PaymentSet.Total(); callers choose which total they mean.
*/
package ledger

// Build computes the ledger for the given policy and payment collection.
// Pure: same inputs always produce the same ledger.
func Build(settings Settings, payments []Payment, cutoff Day) Ledger {
	firstDue := AlignToWeekday(settings.StartDate, settings.PaymentWeekday)

	var ledger Ledger
	for cursor := firstDue; cursor.BeforeOrEqual(cutoff); cursor = cursor.AddDays(7) {
		if match, ok := paymentInWeek(payments, cursor); ok {
			p := match
			ledger = append(ledger, WeekSlot{
				Anchor:  p.Date,
				Status:  StatusPaid,
				Payment: &p,
			})
			continue
		}
		ledger = append(ledger, WeekSlot{Anchor: cursor, Status: StatusMissed})
	}
	return ledger
}

// MissedDueDates returns the aligned due dates of every missed week.
// This feeds the calendar highlight in the UI collaborator, which wants
// the due date itself rather than a payment anchor.
func MissedDueDates(settings Settings, payments []Payment, cutoff Day) []Day {
	firstDue := AlignToWeekday(settings.StartDate, settings.PaymentWeekday)

	var missed []Day
	for cursor := firstDue; cursor.BeforeOrEqual(cutoff); cursor = cursor.AddDays(7) {
		if _, ok := paymentInWeek(payments, cursor); !ok {
			missed = append(missed, cursor)
		}
	}
	return missed
}

// paymentInWeek finds the first payment sharing the cursor's Monday-keyed
// week. The collection is date-sorted, so "first" is the earliest in the
// week, which is also the one the timeline anchors on.
func paymentInWeek(payments []Payment, cursor Day) (Payment, bool) {
	for _, p := range payments {
		if SameWeek(p.Date, cursor) {
			return p, true
		}
	}
	return Payment{}, false
}
