/*
debt.go - Expected/actual totals and the accumulated debt

PURPOSE:
  Reduces a ledger into a DebtSummary. Pure functions of their inputs;
  calling them twice with the same ledger yields identical results.

FORMULA VARIANTS:
  The canonical week count is calendar weeks elapsed (the ledger length).
  Two alternative counts exist for reports that historically used them;
  they are exposed as distinct named functions so a caller can never be
  handed a different formula than the one it asked for.
*/
package ledger

import "github.com/shopspring/decimal"

// =============================================================================
// CANONICAL FORMULA - calendar weeks elapsed
// =============================================================================

// Summarize reduces a ledger into expected/actual/debt totals.
// Expected = weeks * ExpectedAmount. Actual sums the linked payments of
// Paid slots only, so payments outside the reconciliation window never
// inflate it. Debt > 0 means underpaid.
func Summarize(l Ledger, settings Settings) DebtSummary {
	weeks := l.Weeks()
	expected := settings.ExpectedAmount.Mul(decimal.NewFromInt(int64(weeks)))

	actual := decimal.Zero
	for _, slot := range l {
		if slot.Status == StatusPaid && slot.Payment != nil {
			actual = actual.Add(slot.Payment.Amount)
		}
	}

	return DebtSummary{
		Weeks:         weeks,
		ExpectedTotal: expected,
		ActualTotal:   actual,
		Debt:          expected.Sub(actual),
	}
}

// =============================================================================
// ALTERNATIVE FORMULAS - report variants, never silently substituted
// =============================================================================

// SummarizeByPaymentCount counts weeks by the number of recorded payments
// instead of calendar weeks. Actual is the sum over the same payments.
func SummarizeByPaymentCount(payments []Payment, settings Settings) DebtSummary {
	weeks := len(payments)
	expected := settings.ExpectedAmount.Mul(decimal.NewFromInt(int64(weeks)))

	actual := decimal.Zero
	for _, p := range payments {
		actual = actual.Add(p.Amount)
	}

	return DebtSummary{
		Weeks:         weeks,
		ExpectedTotal: expected,
		ActualTotal:   actual,
		Debt:          expected.Sub(actual),
	}
}

// SummarizeFlatMonthly approximates the expectation as four weeks per
// elapsed month. Kept only for the legacy monthly estimate report.
func SummarizeFlatMonthly(months int, payments []Payment, settings Settings) DebtSummary {
	weeks := months * 4
	expected := settings.ExpectedAmount.Mul(decimal.NewFromInt(int64(weeks)))

	actual := decimal.Zero
	for _, p := range payments {
		actual = actual.Add(p.Amount)
	}

	return DebtSummary{
		Weeks:         weeks,
		ExpectedTotal: expected,
		ActualTotal:   actual,
		Debt:          expected.Sub(actual),
	}
}
