package calendar

import (
	"testing"
	"time"
)

func TestLayoutMarch2024(t *testing.T) {
	g := Layout(2024, 2)
	if g.FirstWeekday != 5 {
		t.Fatalf("first weekday = %d, want 5 (Friday)", g.FirstWeekday)
	}
	if g.Offset != 4 {
		t.Fatalf("offset = %d, want 4", g.Offset)
	}
	if g.DaysInMonth != 31 {
		t.Fatalf("days = %d, want 31", g.DaysInMonth)
	}
	if g.Cells() != 35 || g.Rows() != 5 {
		t.Fatalf("cells/rows = %d/%d, want 35/5", g.Cells(), g.Rows())
	}
}

func TestLayoutSundayStartsLastColumn(t *testing.T) {
	// September 2024 begins on a Sunday.
	g := Layout(2024, 8)
	if g.FirstWeekday != 0 || g.Offset != 6 {
		t.Fatalf("got weekday %d offset %d, want 0 and 6", g.FirstWeekday, g.Offset)
	}
}

func TestLayoutOffsetRange(t *testing.T) {
	for year := 1999; year <= 2031; year++ {
		for month := 0; month < 12; month++ {
			g := Layout(year, month)
			if g.Offset < 0 || g.Offset > 6 {
				t.Fatalf("%d-%02d: offset %d out of range", year, month+1, g.Offset)
			}
			want := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
			if g.DaysInMonth != want {
				t.Fatalf("%d-%02d: days %d, want %d", year, month+1, g.DaysInMonth, want)
			}
			if g.Cells() != g.Offset+g.DaysInMonth {
				t.Fatalf("%d-%02d: cells mismatch", year, month+1)
			}
		}
	}
}

func TestDaysInLeapYears(t *testing.T) {
	tests := []struct {
		year, month, want int
	}{
		{2024, 1, 29},
		{2023, 1, 28},
		{1900, 1, 28},
		{2000, 1, 29},
		{2024, 11, 31},
		{2024, 3, 30},
	}
	for _, tt := range tests {
		if got := DaysIn(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysIn(%d, %d) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestCursorStep(t *testing.T) {
	tests := []struct {
		name  string
		start Cursor
		delta int
		want  Cursor
	}{
		{"forward", Cursor{Month: 2, Year: 2024}, 1, Cursor{Month: 3, Year: 2024}},
		{"december rolls into january", Cursor{Month: 11, Year: 2024}, 1, Cursor{Month: 0, Year: 2025}},
		{"january rolls into december", Cursor{Month: 0, Year: 2024}, -1, Cursor{Month: 11, Year: 2023}},
		{"back", Cursor{Month: 5, Year: 2024}, -1, Cursor{Month: 4, Year: 2024}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.start.Step(tt.delta); got != tt.want {
				t.Fatalf("Step(%d) = %+v, want %+v", tt.delta, got, tt.want)
			}
		})
	}
}

func TestDateFormatting(t *testing.T) {
	d := Date{Year: 2024, Month: 2, Day: 10}
	if got := d.String(); got != "2024-03-10" {
		t.Fatalf("String() = %q", got)
	}
	if got := d.Path(); got != "/calendar/2024/03/10/" {
		t.Fatalf("Path() = %q", got)
	}
	parsed, err := ParseDate("2024-03-10")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if parsed != d {
		t.Fatalf("ParseDate = %+v, want %+v", parsed, d)
	}
	if _, err := ParseDate("2024-13-01"); err == nil {
		t.Fatal("expected error for month 13")
	}
}

func TestIsToday(t *testing.T) {
	now := time.Date(2024, time.March, 10, 15, 4, 0, 0, time.UTC)
	if !IsToday(Date{Year: 2024, Month: 2, Day: 10}, now) {
		t.Fatal("expected 2024-03-10 to be today")
	}
	if IsToday(Date{Year: 2024, Month: 2, Day: 11}, now) {
		t.Fatal("2024-03-11 is not today")
	}
	if IsToday(Date{Year: 2023, Month: 2, Day: 10}, now) {
		t.Fatal("2023-03-10 is not today")
	}
}

func TestCursorTitle(t *testing.T) {
	if got := (Cursor{Month: 2, Year: 2024}).Title(); got != "March 2024" {
		t.Fatalf("Title() = %q", got)
	}
}
