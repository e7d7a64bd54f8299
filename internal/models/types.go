// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package models

import (
	"database/sql/driver"
	"fmt"
	"sort"
	"time"

	json "github.com/goccy/go-json"
)

// dateLayout is the canonical storage format for calendar dates.
const dateLayout = "2006-01-02"

// datetimeLayout is the canonical storage format for timestamps.
const datetimeLayout = time.RFC3339

// Date is a calendar day without wall-clock time, stored as TEXT
// "YYYY-MM-DD" in SQLite. All dates are UTC midnight internally so
// day arithmetic is exact.
type Date struct {
	time.Time
}

// NewDate constructs a Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time.Time to its UTC calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, m, d)
}

// Today returns the current UTC calendar day.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("failed to parse date %q: %w", s, err)
	}
	return Date{t}, nil
}

// String formats the date as "YYYY-MM-DD".
func (d Date) String() string {
	return d.Format(dateLayout)
}

// DaysSince returns the whole number of days from other to d.
// Negative when other is after d.
func (d Date) DaysSince(other Date) int {
	return int(d.Time.Sub(other.Time).Hours() / 24)
}

// AddDays returns the date n days after d (before, for negative n).
func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

// MarshalJSON encodes the date as a "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string or null.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to unmarshal date: %w", err)
	}
	if s == nil {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(*s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan implements sql.Scanner for TEXT, BLOB, and driver time values.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		parsed, err := ParseDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case time.Time:
		*d = DateOf(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

// Value implements driver.Valuer, storing the date as "YYYY-MM-DD".
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// DateTime is a timestamp stored as RFC 3339 TEXT in SQLite. Race
// created/updated timestamps use it; second resolution is sufficient
// for the intra-day ordering tiebreak.
type DateTime struct {
	time.Time
}

// NewDateTime wraps a time.Time, normalizing to UTC.
func NewDateTime(t time.Time) DateTime {
	return DateTime{t.UTC().Truncate(time.Second)}
}

// ParseDateTime parses an RFC 3339 string.
func ParseDateTime(s string) (DateTime, error) {
	t, err := time.Parse(datetimeLayout, s)
	if err != nil {
		return DateTime{}, fmt.Errorf("failed to parse datetime %q: %w", s, err)
	}
	return DateTime{t.UTC()}, nil
}

// String formats the timestamp as RFC 3339.
func (t DateTime) String() string {
	return t.Format(datetimeLayout)
}

// MarshalJSON encodes the timestamp as an RFC 3339 string.
func (t DateTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON decodes an RFC 3339 string or null.
func (t *DateTime) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to unmarshal datetime: %w", err)
	}
	if s == nil {
		*t = DateTime{}
		return nil
	}
	parsed, err := ParseDateTime(*s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Scan implements sql.Scanner for TEXT, BLOB, and driver time values.
func (t *DateTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = DateTime{}
		return nil
	case string:
		parsed, err := ParseDateTime(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case []byte:
		parsed, err := ParseDateTime(string(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case time.Time:
		*t = NewDateTime(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into DateTime", src)
	}
}

// Value implements driver.Valuer, storing the timestamp as RFC 3339 TEXT.
func (t DateTime) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.String(), nil
}

// IntList is an ordered list of small integers stored as a JSON array
// column. Race.Categories and Points.SumCategories use it.
type IntList []int

// Scan implements sql.Scanner for JSON TEXT/BLOB columns.
func (l *IntList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		return l.unmarshal([]byte(v))
	case []byte:
		return l.unmarshal(v)
	default:
		return fmt.Errorf("cannot scan %T into IntList", src)
	}
}

func (l *IntList) unmarshal(data []byte) error {
	if len(data) == 0 {
		*l = nil
		return nil
	}
	if err := json.Unmarshal(data, l); err != nil {
		return fmt.Errorf("failed to unmarshal int list: %w", err)
	}
	return nil
}

// Value implements driver.Valuer, storing the list as a JSON array.
// A nil list stores as "[]" so queries can test emptiness uniformly.
func (l IntList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal([]int(l))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal int list: %w", err)
	}
	return string(data), nil
}

// Contains reports whether v is present in the list.
func (l IntList) Contains(v int) bool {
	for _, e := range l {
		if e == v {
			return true
		}
	}
	return false
}

// Min returns the smallest element, or 0 for an empty list.
func (l IntList) Min() int {
	if len(l) == 0 {
		return 0
	}
	m := l[0]
	for _, e := range l[1:] {
		if e < m {
			m = e
		}
	}
	return m
}

// Max returns the largest element, or 0 for an empty list.
func (l IntList) Max() int {
	if len(l) == 0 {
		return 0
	}
	m := l[0]
	for _, e := range l[1:] {
		if e > m {
			m = e
		}
	}
	return m
}

// Sorted returns an ascending copy of the list.
func (l IntList) Sorted() IntList {
	out := make(IntList, len(l))
	copy(out, l)
	sort.Ints(out)
	return out
}

// Equal reports element-wise equality.
func (l IntList) Equal(other IntList) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if l[i] != other[i] {
			return false
		}
	}
	return true
}
