/*
payments.go - The owned payment collection

PURPOSE:
  PaymentSet is the single owner of the Payment collection. It keeps the
  records sorted ascending by date and enforces the one-payment-per-date
  invariant by EVICTION, not rejection: inserting on an occupied date
  silently replaces the occupant.

UPSERT MODES:
  Create (no identity): any record on the candidate's date is evicted,
  a fresh id is assigned, the candidate is inserted.
  Edit (identity given): the record with that id is removed first, then
  the candidate is inserted carrying the SAME id - even when the date
  changed, so the old date's week frees up and no duplicate appears.

PaymentSet does no I/O. Persistence is the caller's concern (see the
tracker package, which snapshots the whole collection after every
mutation).
*/
package ledger

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// PAYMENT SET
// =============================================================================

// PaymentSet is an ordered in-memory collection of payments with at most
// one record per calendar date.
type PaymentSet struct {
	records []Payment
}

// NewPaymentSet builds a set from existing records (e.g. loaded from
// storage). Later records win date collisions; the result is date-sorted.
func NewPaymentSet(records []Payment) *PaymentSet {
	set := &PaymentSet{}
	for _, p := range records {
		set.evictDate(p.Date)
		set.records = append(set.records, p)
	}
	set.sortByDate()
	return set
}

// Upsert inserts a validated payment in create mode: any record on the
// same date is evicted, a fresh id is assigned. Returns the stored record.
func (s *PaymentSet) Upsert(candidate Payment) (Payment, error) {
	if err := ValidatePayment(candidate); err != nil {
		return Payment{}, err
	}
	candidate.ID = PaymentID(uuid.NewString())
	s.evictDate(candidate.Date)
	s.records = append(s.records, candidate)
	s.sortByDate()
	return candidate, nil
}

// UpsertWithID replaces the record with the given id, keeping that id on
// the candidate regardless of whether the date changed.
func (s *PaymentSet) UpsertWithID(id PaymentID, candidate Payment) (Payment, error) {
	if err := ValidatePayment(candidate); err != nil {
		return Payment{}, err
	}
	if _, ok := s.byID(id); !ok {
		return Payment{}, ErrPaymentNotFound
	}
	s.evictID(id)
	// The identity moved; its old date is free now. The new date may
	// still collide with a different record, which gets evicted too.
	s.evictDate(candidate.Date)
	candidate.ID = id
	s.records = append(s.records, candidate)
	s.sortByDate()
	return candidate, nil
}

// Remove deletes the record with the given id. Removing an unknown id is
// a no-op, mirroring the delete semantics of the original collection.
func (s *PaymentSet) Remove(id PaymentID) {
	s.evictID(id)
}

// Get returns the record with the given id.
func (s *PaymentSet) Get(id PaymentID) (Payment, bool) {
	return s.byID(id)
}

// OnDate returns the record on the given date, if any.
func (s *PaymentSet) OnDate(d Day) (Payment, bool) {
	for _, p := range s.records {
		if p.Date.Equal(d) {
			return p, true
		}
	}
	return Payment{}, false
}

// All returns a copy of the records, ascending by date.
func (s *PaymentSet) All() []Payment {
	out := make([]Payment, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of stored payments.
func (s *PaymentSet) Len() int { return len(s.records) }

// Total sums every stored payment, regardless of the reconciliation
// window. Callers wanting the ledger-scoped total use DebtSummary.
func (s *PaymentSet) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.records {
		total = total.Add(p.Amount)
	}
	return total
}

// Replace swaps the whole collection, used by backup import. The incoming
// records go through the same collision handling as NewPaymentSet.
func (s *PaymentSet) Replace(records []Payment) {
	*s = *NewPaymentSet(records)
}

// =============================================================================
// INTERNALS
// =============================================================================

func (s *PaymentSet) byID(id PaymentID) (Payment, bool) {
	for _, p := range s.records {
		if p.ID == id {
			return p, true
		}
	}
	return Payment{}, false
}

func (s *PaymentSet) evictDate(d Day) {
	kept := s.records[:0]
	for _, p := range s.records {
		if !p.Date.Equal(d) {
			kept = append(kept, p)
		}
	}
	s.records = kept
}

func (s *PaymentSet) evictID(id PaymentID) {
	kept := s.records[:0]
	for _, p := range s.records {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.records = kept
}

func (s *PaymentSet) sortByDate() {
	sort.Slice(s.records, func(i, j int) bool {
		return s.records[i].Date.Before(s.records[j].Date)
	})
}
