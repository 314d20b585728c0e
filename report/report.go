/*
Package report assembles the generic row format consumed by the external
document renderer.

The renderer receives ONLY these rows and a few scalar totals - never
Payment or Settings entities, and never anything about page layout,
fonts, or file format. Two report variants exist, mirroring the two
documents the system produces:

  Total:   the full reconciliation timeline plus the debt summary
  Monthly: the payments of a single month plus the month total
*/
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pagotrack/payment-engine/ledger"
)

// =============================================================================
// RENDERER CONTRACT
// =============================================================================

// Row is one printable line. Attachment carries the opaque receipt
// reference when the row's payment has one.
type Row struct {
	Date       string          `json:"date"`
	Label      string          `json:"label"`
	Status     string          `json:"status"`
	Amount     decimal.Decimal `json:"amount"`
	Attachment string          `json:"attachment,omitempty"`
}

// Summary carries the scalar totals shown in the report's balance box.
type Summary struct {
	Title         string          `json:"title"`
	EmployeeName  string          `json:"employee_name"`
	Weeks         int             `json:"weeks"`
	ExpectedTotal decimal.Decimal `json:"expected_total"`
	ActualTotal   decimal.Decimal `json:"actual_total"`
	Debt          decimal.Decimal `json:"debt"`
}

// Report is the complete input handed to the document renderer.
type Report struct {
	Summary Summary `json:"summary"`
	Rows    []Row   `json:"rows"`
}

const (
	statusPaid   = "Paid"
	statusMissed = "Missed"
)

// =============================================================================
// TOTAL REPORT - full timeline + debt
// =============================================================================

// Total maps the ledger into renderer rows, one per obligation week,
// followed by a trailing summary row, and fills the summary box from the
// canonical debt formula.
func Total(l ledger.Ledger, settings ledger.Settings) Report {
	summary := ledger.Summarize(l, settings)

	rows := make([]Row, 0, len(l)+1)
	for _, slot := range l {
		rows = append(rows, slotRow(slot))
	}
	rows = append(rows, Row{
		Label:  "TOTAL",
		Amount: summary.ActualTotal,
	})

	return Report{
		Summary: Summary{
			Title:         "Total Report",
			EmployeeName:  settings.Name,
			Weeks:         summary.Weeks,
			ExpectedTotal: summary.ExpectedTotal,
			ActualTotal:   summary.ActualTotal,
			Debt:          summary.Debt,
		},
		Rows: rows,
	}
}

func slotRow(slot ledger.WeekSlot) Row {
	if slot.Status == ledger.StatusPaid && slot.Payment != nil {
		label := slot.Payment.Note
		if label == "" {
			label = "No note"
		}
		return Row{
			Date:       slot.Anchor.String(),
			Label:      label,
			Status:     statusPaid,
			Amount:     slot.Payment.Amount,
			Attachment: slot.Payment.ReceiptImage,
		}
	}
	return Row{
		Date:   slot.Anchor.String(),
		Label:  "Week not paid",
		Status: statusMissed,
	}
}

// =============================================================================
// MONTHLY REPORT - single month's payments
// =============================================================================

// Monthly lists the payments of one month with a trailing month total.
// An empty month yields a single placeholder row, so the renderer always
// has a body to print.
func Monthly(payments []ledger.Payment, settings ledger.Settings, year int, month time.Month) Report {
	total := decimal.Zero
	var rows []Row
	for _, p := range payments {
		if p.Date.Year() != year || p.Date.Month() != month {
			continue
		}
		label := p.Note
		if label == "" {
			label = "No note"
		}
		rows = append(rows, Row{
			Date:       p.Date.String(),
			Label:      label,
			Status:     statusPaid,
			Amount:     p.Amount,
			Attachment: p.ReceiptImage,
		})
		total = total.Add(p.Amount)
	}

	if len(rows) == 0 {
		rows = append(rows, Row{Date: "-", Label: "No activity this month", Status: "-"})
	} else {
		rows = append(rows, Row{Label: "MONTH TOTAL", Amount: total})
	}

	return Report{
		Summary: Summary{
			Title:        "Monthly Report",
			EmployeeName: settings.Name,
			ActualTotal:  total,
		},
		Rows: rows,
	}
}
