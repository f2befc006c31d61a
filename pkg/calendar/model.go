// Package calendar holds the date arithmetic behind the month grid: the
// month/year cursor, the selected date, and the Monday-first layout of a
// month.
package calendar

import (
	"fmt"
	"time"
)

const layoutISO = "2006-01-02"

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Cursor is the month currently displayed. Month is zero based (0 = January).
type Cursor struct {
	Month int
	Year  int
}

// CursorOf returns the cursor for the month containing t.
func CursorOf(t time.Time) Cursor {
	return Cursor{Month: int(t.Month()) - 1, Year: t.Year()}
}

// Step moves the cursor by delta months, rolling the year over at the
// December/January boundary.
func (c Cursor) Step(delta int) Cursor {
	m := c.Month + delta
	y := c.Year
	for m > 11 {
		m -= 12
		y++
	}
	for m < 0 {
		m += 12
		y--
	}
	return Cursor{Month: m, Year: y}
}

// Contains reports whether d falls in the cursor's month.
func (c Cursor) Contains(d Date) bool {
	return d.Year == c.Year && d.Month == c.Month
}

// Title renders the cursor as "March 2024".
func (c Cursor) Title() string {
	return fmt.Sprintf("%s %d", monthNames[c.Month], c.Year)
}

// Grid returns the layout of the cursor's month.
func (c Cursor) Grid() Grid {
	return Layout(c.Year, c.Month)
}

// Date is a calendar day. Month is zero based (0 = January).
type Date struct {
	Year  int
	Month int
	Day   int
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: int(t.Month()) - 1, Day: t.Day()}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(layoutISO, s)
	if err != nil {
		return Date{}, fmt.Errorf("calendar: parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// IsZero reports whether d is unset.
func (d Date) IsZero() bool {
	return d == Date{}
}

// String renders d as YYYY-MM-DD, the form sent to the server.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month+1, d.Day)
}

// Path is the fragment endpoint for d: /calendar/yyyy/mm/dd/.
func (d Date) Path() string {
	return fmt.Sprintf("/calendar/%04d/%02d/%02d/", d.Year, d.Month+1, d.Day)
}

// Time returns midnight of d in loc.
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, time.Month(d.Month+1), d.Day, 0, 0, 0, 0, loc)
}

// Cursor returns the month d belongs to.
func (d Date) Cursor() Cursor {
	return Cursor{Month: d.Month, Year: d.Year}
}

// Grid describes how a month is laid out on a Monday-first week grid.
type Grid struct {
	// FirstWeekday is the weekday of the 1st, Sunday = 0.
	FirstWeekday int
	DaysInMonth  int
	// Offset is the number of leading blank cells, always within [0,6].
	Offset int
}

// Cells is the total number of cells rendered for the month.
func (g Grid) Cells() int {
	return g.Offset + g.DaysInMonth
}

// Rows is the number of week rows needed for the month.
func (g Grid) Rows() int {
	return (g.Cells() + 6) / 7
}

// Layout computes the grid for month (0-11) of year. Weeks start on Monday,
// so a month starting on Sunday gets six leading blanks.
func Layout(year, month int) Grid {
	first := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	weekday := int(first.Weekday())
	offset := weekday - 1
	if weekday == 0 {
		offset = 6
	}
	return Grid{
		FirstWeekday: weekday,
		DaysInMonth:  DaysIn(year, month),
		Offset:       offset,
	}
}

// DaysIn returns the number of days in month (0-11) of year.
func DaysIn(year, month int) int {
	return time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsToday reports whether d is the calendar day of now.
func IsToday(d Date, now time.Time) bool {
	return d == DateOf(now)
}
