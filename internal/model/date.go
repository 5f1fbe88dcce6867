// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Date, a calendar day with no time-of-day or zone. All trip
// arithmetic (check-in, check-out, itinerary days) is done in whole days.
package model

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for dates in requests and packs.
const DateLayout = "2006-01-02"

// Date is a civil date. The zero value means "unset".
type Date struct {
	t time.Time
}

// NewDate returns the date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{t: t}, nil
}

// MustParseDate is ParseDate for constants and tests. It panics on bad input.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// DaysUntil returns the number of calendar days from d to other. It counts
// whole days, so it stays exact for spans beyond time.Duration's range.
func (d Date) DaysUntil(other Date) int {
	return int(dayNumber(other.t) - dayNumber(d.t))
}

func dayNumber(t time.Time) int64 {
	return t.Unix() / secondsPerDay
}

const secondsPerDay = 24 * 60 * 60

func (d Date) IsZero() bool           { return d.t.IsZero() }
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }

// Time returns the date as midnight UTC.
func (d Date) Time() time.Time { return d.t }

// Weekday reports the day of the week.
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }

// String formats the date as YYYY-MM-DD, or "" when unset.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// Human formats the date for letters and documents, e.g. "5 December 2025".
func (d Date) Human() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format("2 January 2006")
}

// MarshalText implements encoding.TextMarshaler. JSON and YAML both go through it.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty value leaves the
// date unset.
func (d *Date) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DatesBetween returns every date from start to end inclusive.
func DatesBetween(start, end Date) []Date {
	if end.Before(start) {
		return nil
	}
	n := start.DaysUntil(end)
	out := make([]Date, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, start.AddDays(i))
	}
	return out
}
