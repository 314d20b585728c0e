package ledger_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagotrack/payment-engine/ledger"
)

// =============================================================================
// SETTINGS VALIDATION
// =============================================================================

func TestValidateSettings(t *testing.T) {
	valid := fridaySettings()

	tests := []struct {
		name    string
		mutate  func(*ledger.Settings)
		field   string
		wantErr bool
	}{
		{name: "valid", mutate: func(*ledger.Settings) {}},
		{name: "empty name", mutate: func(s *ledger.Settings) { s.Name = "" }, field: "name", wantErr: true},
		{name: "weekday too high", mutate: func(s *ledger.Settings) { s.PaymentWeekday = 7 }, field: "weekly_payment_day", wantErr: true},
		{name: "weekday negative", mutate: func(s *ledger.Settings) { s.PaymentWeekday = -1 }, field: "weekly_payment_day", wantErr: true},
		{name: "zero amount", mutate: func(s *ledger.Settings) { s.ExpectedAmount = decimal.Zero }, field: "expected_amount", wantErr: true},
		{name: "negative amount", mutate: func(s *ledger.Settings) { s.ExpectedAmount = decimal.NewFromInt(-5) }, field: "expected_amount", wantErr: true},
		{name: "missing start", mutate: func(s *ledger.Settings) { s.StartDate = ledger.Day{} }, field: "start_date", wantErr: true},
		{name: "end before start", mutate: func(s *ledger.Settings) { s.EndDate = s.StartDate.AddDays(-1) }, field: "end_date", wantErr: true},
		{name: "end equals start ok", mutate: func(s *ledger.Settings) { s.EndDate = s.StartDate }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			err := ledger.ValidateSettings(s)

			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ledger.ErrValidation)
			var fieldErr *ledger.FieldError
			require.True(t, errors.As(err, &fieldErr))
			assert.Equal(t, tt.field, fieldErr.Field)
		})
	}
}

func TestValidatePayment(t *testing.T) {
	assert.NoError(t, ledger.ValidatePayment(pay("2024-01-05", 0)), "zero amount is allowed")
	assert.ErrorIs(t, ledger.ValidatePayment(pay("2024-01-05", -1)), ledger.ErrValidation)
	assert.ErrorIs(t, ledger.ValidatePayment(ledger.Payment{Amount: decimal.NewFromInt(5)}), ledger.ErrValidation)
}

// =============================================================================
// EXTRACTION SUGGESTIONS - untrusted input, ordinary validation
// =============================================================================

func TestApplySuggestion_MergesPresentFields(t *testing.T) {
	amount := decimal.NewFromInt(1800)
	draft := ledger.Payment{Date: ledger.MustDay("2024-01-05")}

	merged, err := ledger.ApplySuggestion(draft, ledger.Suggestion{
		Amount: &amount,
		Date:   "2024-01-11",
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-01-11", merged.Date.String())
	assert.True(t, merged.Amount.Equal(amount))
}

func TestApplySuggestion_AbsentFieldsKeepDraft(t *testing.T) {
	draft := ledger.Payment{Date: ledger.MustDay("2024-01-05"), Amount: decimal.NewFromInt(100)}

	merged, err := ledger.ApplySuggestion(draft, ledger.Suggestion{})
	require.NoError(t, err)

	assert.Equal(t, "2024-01-05", merged.Date.String())
	assert.True(t, merged.Amount.Equal(decimal.NewFromInt(100)))
}

func TestApplySuggestion_MalformedDateRejected(t *testing.T) {
	draft := ledger.Payment{Date: ledger.MustDay("2024-01-05")}
	_, err := ledger.ApplySuggestion(draft, ledger.Suggestion{Date: "11/01/2024"})
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

func TestApplySuggestion_NegativeSuggestedAmountRejected(t *testing.T) {
	neg := decimal.NewFromInt(-50)
	draft := ledger.Payment{Date: ledger.MustDay("2024-01-05")}
	_, err := ledger.ApplySuggestion(draft, ledger.Suggestion{Amount: &neg})
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

func TestSettingsCutoff(t *testing.T) {
	s := fridaySettings()
	assert.False(t, s.Cutoff().IsZero(), "open-ended settings cut off at today")

	s.EndDate = ledger.MustDay("2024-06-30")
	assert.Equal(t, "2024-06-30", s.Cutoff().String())
	assert.Equal(t, time.Sunday, s.Cutoff().Weekday())
}
