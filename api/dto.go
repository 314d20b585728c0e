/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the wire contract
  from the domain types. Dates cross the wire as "YYYY-MM-DD" strings,
  weekdays as 0 (Sunday) through 6 (Saturday), amounts as JSON numbers
  (decimal-decoded, never float64 internally).

NAMING CONVENTION:
  - *DTO: response types returned to clients
  - *Request: request body types from clients

SEE ALSO:
  - handlers.go: uses these types
  - backup/backup.go: the backup file carries its own wire shapes
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pagotrack/payment-engine/ledger"
)

// =============================================================================
// SETTINGS
// =============================================================================

// SettingsDTO is the wire shape of the reconciliation policy.
type SettingsDTO struct {
	Name             string          `json:"name"`
	WeeklyPaymentDay int             `json:"weeklyPaymentDay"`
	ExpectedAmount   decimal.Decimal `json:"expectedAmount"`
	StartDate        string          `json:"startDate"`
	EndDate          string          `json:"endDate,omitempty"`
}

func settingsDTO(s ledger.Settings) SettingsDTO {
	dto := SettingsDTO{
		Name:             s.Name,
		WeeklyPaymentDay: int(s.PaymentWeekday),
		ExpectedAmount:   s.ExpectedAmount,
		StartDate:        s.StartDate.String(),
	}
	if !s.EndDate.IsZero() {
		dto.EndDate = s.EndDate.String()
	}
	return dto
}

func (dto SettingsDTO) toDomain() (ledger.Settings, error) {
	start, err := ledger.ParseDay(dto.StartDate)
	if err != nil {
		return ledger.Settings{}, &ledger.FieldError{Field: "startDate", Reason: "must be YYYY-MM-DD"}
	}
	s := ledger.Settings{
		Name:           dto.Name,
		PaymentWeekday: time.Weekday(dto.WeeklyPaymentDay),
		ExpectedAmount: dto.ExpectedAmount,
		StartDate:      start,
	}
	if dto.EndDate != "" {
		end, err := ledger.ParseDay(dto.EndDate)
		if err != nil {
			return ledger.Settings{}, &ledger.FieldError{Field: "endDate", Reason: "must be YYYY-MM-DD"}
		}
		s.EndDate = end
	}
	return s, nil
}

// =============================================================================
// PAYMENTS
// =============================================================================

// PaymentDTO is the wire shape of a recorded payment.
type PaymentDTO struct {
	ID           string          `json:"id"`
	Date         string          `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	Note         string          `json:"note,omitempty"`
	ReceiptImage string          `json:"receiptImage,omitempty"`
}

func paymentDTO(p ledger.Payment) PaymentDTO {
	return PaymentDTO{
		ID:           string(p.ID),
		Date:         p.Date.String(),
		Amount:       p.Amount,
		Note:         p.Note,
		ReceiptImage: p.ReceiptImage,
	}
}

// UpsertPaymentRequest is the body for creating or editing a payment.
// The id comes from the URL in edit mode, never from the body.
type UpsertPaymentRequest struct {
	Date         string          `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	Note         string          `json:"note,omitempty"`
	ReceiptImage string          `json:"receiptImage,omitempty"`
}

func (r UpsertPaymentRequest) toDomain() (ledger.Payment, error) {
	date, err := ledger.ParseDay(r.Date)
	if err != nil {
		return ledger.Payment{}, &ledger.FieldError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	return ledger.Payment{
		Date:         date,
		Amount:       r.Amount,
		Note:         r.Note,
		ReceiptImage: r.ReceiptImage,
	}, nil
}

// =============================================================================
// LEDGER & DEBT
// =============================================================================

// WeekSlotDTO is one obligation week in the reconciliation timeline.
type WeekSlotDTO struct {
	Anchor  string      `json:"anchor"`
	Status  string      `json:"status"`
	Payment *PaymentDTO `json:"payment,omitempty"`
}

// LedgerDTO is the timeline plus its debt summary.
type LedgerDTO struct {
	Slots []WeekSlotDTO  `json:"slots"`
	Debt  DebtSummaryDTO `json:"debt"`
}

// DebtSummaryDTO carries expected/actual/debt totals.
type DebtSummaryDTO struct {
	Formula       string          `json:"formula"`
	Weeks         int             `json:"weeks"`
	ExpectedTotal decimal.Decimal `json:"expectedTotal"`
	ActualTotal   decimal.Decimal `json:"actualTotal"`
	Debt          decimal.Decimal `json:"debt"`
}

func weekSlotDTO(slot ledger.WeekSlot) WeekSlotDTO {
	dto := WeekSlotDTO{
		Anchor: slot.Anchor.String(),
		Status: string(slot.Status),
	}
	if slot.Payment != nil {
		p := paymentDTO(*slot.Payment)
		dto.Payment = &p
	}
	return dto
}

func debtSummaryDTO(formula string, s ledger.DebtSummary) DebtSummaryDTO {
	return DebtSummaryDTO{
		Formula:       formula,
		Weeks:         s.Weeks,
		ExpectedTotal: s.ExpectedTotal,
		ActualTotal:   s.ActualTotal,
		Debt:          s.Debt,
	}
}

// =============================================================================
// RECEIPT SUGGESTIONS
// =============================================================================

// SuggestRequest carries the encoded receipt image to extract from.
type SuggestRequest struct {
	Image string `json:"image"`
}

// SuggestResponse is the validated draft built from extraction output.
type SuggestResponse struct {
	Date         string          `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	ReceiptImage string          `json:"receiptImage,omitempty"`
}

// =============================================================================
// MISC
// =============================================================================

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status         string `json:"status"`
	StorageHealthy bool   `json:"storage_healthy"`
}
