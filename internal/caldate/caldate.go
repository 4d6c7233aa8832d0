// Package caldate provides a calendar date value with day granularity.
//
// Streak logic compares whole calendar days, so this type deliberately has no
// time-of-day component. Day arithmetic goes through time.Date normalization,
// which keeps "yesterday" correct across DST transitions.
package caldate

import (
	"encoding/json"
	"fmt"
	"time"
)

// Format is the ISO-8601 representation used everywhere a date is serialized.
const Format = "2006-01-02"

// Date represents a calendar day. The zero value means "no date recorded".
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Today returns the current date in the local timezone.
func Today() Date { return New(time.Now().Date()) }

// FromTime returns the calendar day of t in t's location.
func FromTime(t time.Time) Date { return New(t.Date()) }

// Parse parses an ISO-8601 date string.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Format, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", s, Format, err)
	}
	return New(t.Date()), nil
}

// MustParse is like Parse but panics on error. Intended for tests and fixtures.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// IsZero reports whether no date has been recorded.
func (d Date) IsZero() bool { return d == Date{} }

// Add returns the date i days after d (negative i goes backwards).
func (d Date) Add(i int) Date { return New(d.y, d.m, d.d+i) }

// DaysBetween returns the number of calendar days from d to x. Positive when x
// is after d.
func DaysBetween(d, x Date) int {
	return int(x.time().Sub(d.time()) / (24 * time.Hour))
}

// Before reports whether d is strictly before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether d is strictly after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// String formats the date as ISO-8601. The zero date formats as "".
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.time().Format(Format)
}

// MarshalJSON encodes the date as an ISO-8601 string, or "" for the zero date.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes an ISO-8601 string. An empty string yields the zero date.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
