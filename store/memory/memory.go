// Package memory provides an in-memory Snapshot implementation.
// Used by tests and as the degraded mode when SQLite cannot be opened.
package memory

import (
	"context"
	"sync"

	"github.com/pagotrack/payment-engine/ledger"
)

type Snapshot struct {
	mu          sync.RWMutex
	settings    ledger.Settings
	hasSettings bool
	payments    []ledger.Payment
}

func New() *Snapshot {
	return &Snapshot{}
}

func (m *Snapshot) LoadSettings(_ context.Context) (ledger.Settings, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings, m.hasSettings, nil
}

func (m *Snapshot) SaveSettings(_ context.Context, s ledger.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = s
	m.hasSettings = true
	return nil
}

func (m *Snapshot) LoadPayments(_ context.Context) ([]ledger.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ledger.Payment, len(m.payments))
	copy(out, m.payments)
	return out, nil
}

func (m *Snapshot) ReplacePayments(_ context.Context, payments []ledger.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments = make([]ledger.Payment, len(payments))
	copy(m.payments, payments)
	return nil
}
