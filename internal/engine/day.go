package engine

import (
	"time"
)

// dayLayout is the canonical calendar-day format. Days in this format order
// lexicographically the same way they order chronologically, which the ledger
// and the slot search rely on.
const dayLayout = "2006-01-02"

// Day is a calendar day in "YYYY-MM-DD" form.
//
// A Day has no timezone: it represents the local calendar day the hosting
// application resolved via its clock collaborator. The zero value ("") means
// "no date".
type Day string

// DayOf truncates t to its calendar day.
func DayOf(t time.Time) Day {
	if t.IsZero() {
		return ""
	}
	return Day(t.Format(dayLayout))
}

// Today returns the current calendar day in loc (time.Local if loc is nil).
func Today(loc *time.Location) Day {
	if loc == nil {
		loc = time.Local
	}
	return DayOf(time.Now().In(loc))
}

func (d Day) IsZero() bool { return d == "" }

// Valid reports whether d parses as a calendar day.
func (d Day) Valid() bool {
	_, err := time.Parse(dayLayout, string(d))
	return err == nil
}

// Time returns the day at midnight UTC. Parsing in UTC keeps day arithmetic
// exact (no DST shifts). Invalid days return the zero time.
func (d Day) Time() time.Time {
	t, err := time.Parse(dayLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays returns the day n days after d (n may be negative).
// Invalid days are returned unchanged.
func (d Day) AddDays(n int) Day {
	t := d.Time()
	if t.IsZero() {
		return d
	}
	return DayOf(t.AddDate(0, 0, n))
}

// DaysUntil returns other - d in whole days. Either side being invalid
// yields 0.
func (d Day) DaysUntil(other Day) int {
	a := d.Time()
	b := other.Time()
	if a.IsZero() || b.IsZero() {
		return 0
	}
	return int(b.Sub(a) / (24 * time.Hour))
}

func (d Day) Weekday() time.Weekday { return d.Time().Weekday() }

// IsWeekend reports whether d falls on Saturday or Sunday.
func (d Day) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Before reports whether d is strictly earlier than other.
// Lexicographic comparison matches chronological order for valid days.
func (d Day) Before(other Day) bool { return d < other }
