/*
Package backup implements export and import of the version-1 backup
document.

DOCUMENT SHAPE:
  {
    "version": 1,
    "timestamp": "<ISO-8601>",
    "settings": { name, weeklyPaymentDay, expectedAmount, startDate, endDate? },
    "payments": [ { id, date, amount, note?, receiptImage? }, ... ]
  }

IMPORT CONTRACT:
  All-or-nothing. The document is accepted only when "payments" is a JSON
  array and "settings" is a JSON object and every value inside decodes
  cleanly; anything else rejects the whole import with
  ledger.ErrImportFormat and leaves existing state untouched. There is no
  partial merge.
*/
package backup

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pagotrack/payment-engine/ledger"
)

// Version is the current backup document version.
const Version = 1

// =============================================================================
// WIRE SHAPES
// =============================================================================

// SettingsJSON is the persisted/exported settings shape.
type SettingsJSON struct {
	Name             string          `json:"name"`
	WeeklyPaymentDay int             `json:"weeklyPaymentDay"`
	ExpectedAmount   decimal.Decimal `json:"expectedAmount"`
	StartDate        string          `json:"startDate"`
	EndDate          string          `json:"endDate,omitempty"`
}

// PaymentJSON is the persisted/exported payment shape.
type PaymentJSON struct {
	ID           string          `json:"id"`
	Date         string          `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	Note         string          `json:"note,omitempty"`
	ReceiptImage string          `json:"receiptImage,omitempty"`
}

// Document is the full backup file.
type Document struct {
	Version   int           `json:"version"`
	Timestamp string        `json:"timestamp"`
	Settings  SettingsJSON  `json:"settings"`
	Payments  []PaymentJSON `json:"payments"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func settingsToJSON(s ledger.Settings) SettingsJSON {
	out := SettingsJSON{
		Name:             s.Name,
		WeeklyPaymentDay: int(s.PaymentWeekday),
		ExpectedAmount:   s.ExpectedAmount,
		StartDate:        s.StartDate.String(),
	}
	if !s.EndDate.IsZero() {
		out.EndDate = s.EndDate.String()
	}
	return out
}

func settingsFromJSON(j SettingsJSON) (ledger.Settings, error) {
	start, err := ledger.ParseDay(j.StartDate)
	if err != nil {
		return ledger.Settings{}, err
	}
	s := ledger.Settings{
		Name:           j.Name,
		PaymentWeekday: time.Weekday(j.WeeklyPaymentDay),
		ExpectedAmount: j.ExpectedAmount,
		StartDate:      start,
	}
	if j.EndDate != "" {
		end, err := ledger.ParseDay(j.EndDate)
		if err != nil {
			return ledger.Settings{}, err
		}
		s.EndDate = end
	}
	if err := ledger.ValidateSettings(s); err != nil {
		return ledger.Settings{}, err
	}
	return s, nil
}

func paymentToJSON(p ledger.Payment) PaymentJSON {
	return PaymentJSON{
		ID:           string(p.ID),
		Date:         p.Date.String(),
		Amount:       p.Amount,
		Note:         p.Note,
		ReceiptImage: p.ReceiptImage,
	}
}

func paymentFromJSON(j PaymentJSON) (ledger.Payment, error) {
	date, err := ledger.ParseDay(j.Date)
	if err != nil {
		return ledger.Payment{}, err
	}
	p := ledger.Payment{
		ID:           ledger.PaymentID(j.ID),
		Date:         date,
		Amount:       j.Amount,
		Note:         j.Note,
		ReceiptImage: j.ReceiptImage,
	}
	if err := ledger.ValidatePayment(p); err != nil {
		return ledger.Payment{}, err
	}
	return p, nil
}

// =============================================================================
// EXPORT / IMPORT
// =============================================================================

// Export serializes the current state into a backup document.
func Export(settings ledger.Settings, payments []ledger.Payment) ([]byte, error) {
	doc := Document{
		Version:   Version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Settings:  settingsToJSON(settings),
		Payments:  make([]PaymentJSON, 0, len(payments)),
	}
	for _, p := range payments {
		doc.Payments = append(doc.Payments, paymentToJSON(p))
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Filename returns the conventional export filename for the given date.
func Filename(d ledger.Day) string {
	return fmt.Sprintf("pagotrack_backup_%s.json", d)
}

// Import parses and validates a backup document. On any shape or value
// problem the whole import is rejected with ledger.ErrImportFormat.
func Import(data []byte) (ledger.Settings, []ledger.Payment, error) {
	// Shape check first: settings must be an object, payments an array.
	var shape struct {
		Settings json.RawMessage `json:"settings"`
		Payments json.RawMessage `json:"payments"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		return ledger.Settings{}, nil, fmt.Errorf("%w: %v", ledger.ErrImportFormat, err)
	}
	if !isObject(shape.Settings) {
		return ledger.Settings{}, nil, fmt.Errorf("%w: settings must be an object", ledger.ErrImportFormat)
	}
	if !isArray(shape.Payments) {
		return ledger.Settings{}, nil, fmt.Errorf("%w: payments must be an array", ledger.ErrImportFormat)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return ledger.Settings{}, nil, fmt.Errorf("%w: %v", ledger.ErrImportFormat, err)
	}

	settings, err := settingsFromJSON(doc.Settings)
	if err != nil {
		return ledger.Settings{}, nil, fmt.Errorf("%w: settings: %v", ledger.ErrImportFormat, err)
	}

	payments := make([]ledger.Payment, 0, len(doc.Payments))
	for i, pj := range doc.Payments {
		p, err := paymentFromJSON(pj)
		if err != nil {
			return ledger.Settings{}, nil, fmt.Errorf("%w: payments[%d]: %v", ledger.ErrImportFormat, i, err)
		}
		payments = append(payments, p)
	}
	return settings, payments, nil
}

func isObject(raw json.RawMessage) bool { return firstByte(raw) == '{' }
func isArray(raw json.RawMessage) bool  { return firstByte(raw) == '[' }

func firstByte(raw json.RawMessage) byte {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b
	}
	return 0
}
