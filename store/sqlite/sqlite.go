/*
Package sqlite provides the SQLite-backed Snapshot implementation.

PURPOSE:
  Persists the settings object and the payment collection in a single
  database file. Writes follow the engine's replace-whole-value
  contract: SaveSettings rewrites the one settings row, ReplacePayments
  clears and rewrites the payments table inside one transaction.

KEY TABLES:
  settings:  single row (id = 1), the reconciliation policy
  payments:  one row per payment, date UNIQUE mirrors the in-memory
             one-payment-per-date invariant at the storage level

WAL MODE:
  The database is opened with WAL journaling for better crash recovery.

USAGE:
  snap, err := sqlite.Open("./paytrack.db")
  if err != nil { ... }          // caller degrades to store/memory
  defer snap.Close()

SEE ALSO:
  - store/store.go: the Snapshot contract
  - store/memory: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/pagotrack/payment-engine/ledger"
)

// Snapshot implements store.Snapshot on SQLite.
type Snapshot struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (or creates) the database at path and migrates the schema.
// Use ":memory:" for an in-memory database.
func Open(path string) (*Snapshot, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Snapshot{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Snapshot) Close() error {
	return s.db.Close()
}

func (s *Snapshot) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		name TEXT NOT NULL,
		payment_weekday INTEGER NOT NULL,
		expected_amount TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL UNIQUE,
		amount TEXT NOT NULL,
		note TEXT,
		receipt_image TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_payments_date ON payments(date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SETTINGS
// =============================================================================

func (s *Snapshot) LoadSettings(ctx context.Context) (ledger.Settings, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT name, payment_weekday, expected_amount, start_date, end_date FROM settings WHERE id = 1`)

	var (
		name     string
		weekday  int
		amount   string
		startStr string
		endStr   sql.NullString
	)
	if err := row.Scan(&name, &weekday, &amount, &startStr, &endStr); err != nil {
		if err == sql.ErrNoRows {
			return ledger.Settings{}, false, nil
		}
		return ledger.Settings{}, false, err
	}

	expected, err := decimal.NewFromString(amount)
	if err != nil {
		return ledger.Settings{}, false, fmt.Errorf("corrupt expected_amount %q: %w", amount, err)
	}
	start, err := ledger.ParseDay(startStr)
	if err != nil {
		return ledger.Settings{}, false, err
	}

	settings := ledger.Settings{
		Name:           name,
		PaymentWeekday: time.Weekday(weekday),
		ExpectedAmount: expected,
		StartDate:      start,
	}
	if endStr.Valid && endStr.String != "" {
		end, err := ledger.ParseDay(endStr.String)
		if err != nil {
			return ledger.Settings{}, false, err
		}
		settings.EndDate = end
	}
	return settings, true, nil
}

func (s *Snapshot) SaveSettings(ctx context.Context, settings ledger.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var end any
	if !settings.EndDate.IsZero() {
		end = settings.EndDate.String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (id, name, payment_weekday, expected_amount, start_date, end_date, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			payment_weekday = excluded.payment_weekday,
			expected_amount = excluded.expected_amount,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			updated_at = excluded.updated_at`,
		settings.Name,
		int(settings.PaymentWeekday),
		settings.ExpectedAmount.String(),
		settings.StartDate.String(),
		end,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// =============================================================================
// PAYMENTS
// =============================================================================

func (s *Snapshot) LoadPayments(ctx context.Context) ([]ledger.Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, amount, note, receipt_image FROM payments ORDER BY date ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []ledger.Payment
	for rows.Next() {
		var (
			id      string
			dateStr string
			amount  string
			note    sql.NullString
			receipt sql.NullString
		)
		if err := rows.Scan(&id, &dateStr, &amount, &note, &receipt); err != nil {
			return nil, err
		}

		date, err := ledger.ParseDay(dateStr)
		if err != nil {
			return nil, err
		}
		amt, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("corrupt amount %q for payment %s: %w", amount, id, err)
		}

		payments = append(payments, ledger.Payment{
			ID:           ledger.PaymentID(id),
			Date:         date,
			Amount:       amt,
			Note:         note.String,
			ReceiptImage: receipt.String,
		})
	}
	return payments, rows.Err()
}

// ReplacePayments rewrites the whole payments table in one transaction.
func (s *Snapshot) ReplacePayments(ctx context.Context, payments []ledger.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM payments`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO payments (id, date, amount, note, receipt_image) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range payments {
		var note, receipt any
		if p.Note != "" {
			note = p.Note
		}
		if p.ReceiptImage != "" {
			receipt = p.ReceiptImage
		}
		if _, err := stmt.ExecContext(ctx, string(p.ID), p.Date.String(), p.Amount.String(), note, receipt); err != nil {
			return err
		}
	}
	return tx.Commit()
}
