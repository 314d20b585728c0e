/*
Package store defines the persistence boundary of the engine.

PURPOSE:
  The engine persists two independent values - the settings object and
  the payment collection - and always writes them WHOLE. There is no
  partial or delta write: every successful mutation re-serializes the
  full value (replace-whole-value semantics), which keeps the stored
  state trivially consistent with memory.

CONTRACT:
  - LoadSettings/LoadPayments are read once at startup.
  - SaveSettings/ReplacePayments overwrite the stored value completely.
  - A missing value on load is (zero, false/empty, nil), not an error.

IMPLEMENTATIONS:
  - store/sqlite: production, single-file SQLite database
  - store/memory: tests and storage-unavailable degradation
*/
package store

import (
	"context"

	"github.com/pagotrack/payment-engine/ledger"
)

// Snapshot persists the two engine values with replace-whole semantics.
type Snapshot interface {
	// LoadSettings returns the stored settings. ok is false when nothing
	// has been stored yet.
	LoadSettings(ctx context.Context) (s ledger.Settings, ok bool, err error)

	// SaveSettings overwrites the stored settings.
	SaveSettings(ctx context.Context, s ledger.Settings) error

	// LoadPayments returns every stored payment, ascending by date.
	LoadPayments(ctx context.Context) ([]ledger.Payment, error)

	// ReplacePayments atomically replaces the whole stored collection.
	ReplacePayments(ctx context.Context, payments []ledger.Payment) error
}
