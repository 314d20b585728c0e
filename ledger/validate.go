package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// VALIDATION - Everything is checked before it enters the store
// =============================================================================

// ValidateSettings rejects malformed reconciliation policies.
func ValidateSettings(s Settings) error {
	if s.Name == "" {
		return &FieldError{Field: "name", Reason: "must not be empty"}
	}
	if s.PaymentWeekday < time.Sunday || s.PaymentWeekday > time.Saturday {
		return &FieldError{Field: "weekly_payment_day", Reason: "must be between 0 (Sunday) and 6 (Saturday)"}
	}
	if !s.ExpectedAmount.IsPositive() {
		return &FieldError{Field: "expected_amount", Reason: "must be positive"}
	}
	if s.StartDate.IsZero() {
		return &FieldError{Field: "start_date", Reason: "required"}
	}
	if !s.EndDate.IsZero() && s.EndDate.Before(s.StartDate) {
		return &FieldError{Field: "end_date", Reason: "must not precede start_date"}
	}
	return nil
}

// ValidatePayment rejects malformed payment records.
func ValidatePayment(p Payment) error {
	if p.Date.IsZero() {
		return &FieldError{Field: "date", Reason: "required"}
	}
	if p.Amount.IsNegative() {
		return &FieldError{Field: "amount", Reason: "must not be negative"}
	}
	return nil
}

// =============================================================================
// EXTRACTION SUGGESTIONS
// =============================================================================

// Suggestion carries candidate field values from the external receipt
// extraction collaborator. Both fields are optional. A Suggestion is
// untrusted input: it is merged into a draft and then validated exactly
// like manually typed values.
type Suggestion struct {
	Amount *decimal.Decimal
	Date   string // "YYYY-MM-DD" when present
}

// ApplySuggestion merges present suggestion fields into a draft payment.
// A malformed suggested date is a validation error, same as manual entry.
func ApplySuggestion(draft Payment, sug Suggestion) (Payment, error) {
	if sug.Amount != nil {
		draft.Amount = *sug.Amount
	}
	if sug.Date != "" {
		d, err := ParseDay(sug.Date)
		if err != nil {
			return Payment{}, &FieldError{Field: "date", Reason: "suggested date is not YYYY-MM-DD"}
		}
		draft.Date = d
	}
	if err := ValidatePayment(draft); err != nil {
		return Payment{}, err
	}
	return draft, nil
}
