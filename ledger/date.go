/*
date.go - Calendar-date arithmetic for weekly reconciliation

PURPOSE:
  Defines Day, a calendar date pinned to local midnight, and the three
  alignment primitives the reconciliation engine is built on:
    - StartOfWeek: the Monday on or before a date (canonical week key)
    - SameWeek:    Monday-keyed same-week test
    - AlignToWeekday: smallest date >= d with a given weekday

WEEK CONVENTION:
  Weeks are keyed to Monday, NOT to the configured payment weekday.
  A payment on Thursday satisfies a Friday obligation because both fall
  in the same Monday-keyed week. This convention is fixed here, once;
  every other package goes through SameWeek.

TIMEZONE:
  All Days are normalized to local midnight. Date-only strings are parsed
  in the local zone so that comparisons never shift across a day boundary.

SEE ALSO:
  - builder.go: walks the calendar with these primitives
  - types.go: Payment/Settings carry Day fields
*/
package ledger

import (
	"fmt"
	"time"
)

// DayFormat is the wire format for calendar dates.
const DayFormat = "2006-01-02"

// =============================================================================
// DAY - Calendar date at local midnight
// =============================================================================

// Day is a calendar date with no time-of-day component.
// The zero Day is "no date" (used for optional fields like Settings.EndDate).
type Day struct {
	t time.Time
}

// NewDay constructs a Day at local midnight.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.Local)}
}

// DayOf truncates an arbitrary time to its calendar date in local time.
func DayOf(t time.Time) Day {
	lt := t.Local()
	return NewDay(lt.Year(), lt.Month(), lt.Day())
}

// Today returns the current date at local midnight.
func Today() Day {
	return DayOf(time.Now())
}

// ParseDay parses a "YYYY-MM-DD" string into a Day at local midnight.
func ParseDay(s string) (Day, error) {
	t, err := time.ParseInLocation(DayFormat, s, time.Local)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Day{t: t}, nil
}

// MustDay is ParseDay for tests and fixtures; panics on malformed input.
func MustDay(s string) Day {
	d, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Comparison
func (d Day) Before(other Day) bool        { return d.t.Before(other.t) }
func (d Day) After(other Day) bool         { return d.t.After(other.t) }
func (d Day) Equal(other Day) bool         { return d.t.Equal(other.t) }
func (d Day) BeforeOrEqual(other Day) bool { return !d.t.After(other.t) }
func (d Day) AfterOrEqual(other Day) bool  { return !d.t.Before(other.t) }

// Arithmetic
func (d Day) AddDays(n int) Day { return Day{t: d.t.AddDate(0, 0, n)} }

// Properties
func (d Day) Weekday() time.Weekday { return d.t.Weekday() }
func (d Day) Year() int             { return d.t.Year() }
func (d Day) Month() time.Month     { return d.t.Month() }
func (d Day) IsZero() bool          { return d.t.IsZero() }
func (d Day) Time() time.Time       { return d.t }

func (d Day) String() string { return d.t.Format(DayFormat) }

// DaysBetween returns the whole days from a to b (negative when b < a).
// Calendar components are re-anchored in UTC so a DST transition inside
// the range cannot skew the count by an hour.
func DaysBetween(a, b Day) int {
	ua := time.Date(a.t.Year(), a.t.Month(), a.t.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.t.Year(), b.t.Month(), b.t.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// =============================================================================
// WEEK ALIGNMENT
// =============================================================================

// StartOfWeek returns the Monday on or before d, at local midnight.
// This is the canonical week key for the whole engine.
func StartOfWeek(d Day) Day {
	// time.Weekday is 0=Sunday; shift so Monday=0.
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// SameWeek reports whether a and b fall in the same Monday-keyed week.
func SameWeek(a, b Day) bool {
	return StartOfWeek(a).Equal(StartOfWeek(b))
}

// AlignToWeekday returns the smallest date >= d whose weekday equals target.
// The result is always within [d, d+6]; if d already lands on target it is
// returned unchanged.
func AlignToWeekday(d Day, target time.Weekday) Day {
	offset := (int(target) - int(d.Weekday()) + 7) % 7
	return d.AddDays(offset)
}
