// Package calendar renders the month grid produced by the date picker.
package calendar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/allergy/pkg/datepicker"
	"tableflip.dev/allergy/pkg/tui/theme"
)

// WeekHeader labels the Monday-first columns.
const WeekHeader = "Mo Tu We Th Fr Sa Su"

// Width is the printable width of one rendered week.
const Width = len(WeekHeader)

// Options controls calendar styling.
type Options struct {
	HeaderStyle   lipgloss.Style
	DayStyle      lipgloss.Style
	BlankStyle    lipgloss.Style
	TodayStyle    lipgloss.Style
	SelectedStyle lipgloss.Style
	FocusStyle    lipgloss.Style
	ShowHeader    bool
	// ShowFocus draws the focus ring, usually only while the grid has
	// keyboard focus.
	ShowFocus bool
}

// OptionsFrom builds Options from a theme.
func OptionsFrom(t theme.CalendarTheme) Options {
	return Options{
		HeaderStyle:   t.Header,
		DayStyle:      t.Day,
		BlankStyle:    t.Blank,
		TodayStyle:    t.Today,
		SelectedStyle: t.Selected,
		FocusStyle:    t.Focused,
		ShowHeader:    true,
	}
}

// Render produces a multi-line grid for cells. Cells are laid out in order,
// seven per row, with blanks first as the picker builds them.
func Render(cells []datepicker.Cell, focus int, opts Options) string {
	if len(cells) == 0 {
		return ""
	}

	var lines []string
	if opts.ShowHeader {
		lines = append(lines, opts.HeaderStyle.Render(WeekHeader))
	}

	for start := 0; start < len(cells); start += 7 {
		end := start + 7
		if end > len(cells) {
			end = len(cells)
		}
		row := make([]string, 0, 7)
		for _, c := range cells[start:end] {
			row = append(row, renderCell(c, focus, opts))
		}
		lines = append(lines, strings.Join(row, " "))
	}
	return strings.Join(lines, "\n")
}

func renderCell(c datepicker.Cell, focus int, opts Options) string {
	if c.Blank() {
		return opts.BlankStyle.Render("  ")
	}
	style := opts.DayStyle
	if c.Today {
		style = style.Inherit(opts.TodayStyle)
	}
	if c.Selected {
		style = opts.SelectedStyle.Inherit(style)
	}
	if opts.ShowFocus && c.Day == focus {
		style = opts.FocusStyle.Inherit(style)
	}
	return style.Render(fmt.Sprintf("%2d", c.Day))
}
