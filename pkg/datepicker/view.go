// Package datepicker is the controller behind the month grid. It renders the
// cells of the displayed month, owns the single selected date and announces
// every selection on the event bus.
package datepicker

import (
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/allergy/pkg/calendar"
	"tableflip.dev/allergy/pkg/events"
)

// Cell is one position of the month grid. Blank cells pad the first week and
// have Day == 0.
type Cell struct {
	Index    int
	Day      int
	Date     calendar.Date
	Target   string
	Today    bool
	Selected bool
}

// Blank reports whether the cell is padding.
func (c Cell) Blank() bool { return c.Day == 0 }

// Option configures a View.
type Option func(*View)

// WithClock overrides the clock used to find today.
func WithClock(now func() time.Time) Option {
	return func(v *View) {
		if now != nil {
			v.now = now
		}
	}
}

// WithCursor starts the view on a month other than the current one.
func WithCursor(c calendar.Cursor) Option {
	return func(v *View) {
		v.cursor = c
		v.cursorSet = true
	}
}

// View is the calendar controller. It is not safe for concurrent use; all
// calls are expected from the program loop.
type View struct {
	bus *events.Bus
	now func() time.Time

	cursor    calendar.Cursor
	cursorSet bool
	cells     []Cell
	grid      calendar.Grid

	selected    calendar.Date
	hasSelected bool
	// explicit is the date last chosen by the user. Re-renders select it
	// again when its month is displayed.
	explicit    calendar.Date
	hasExplicit bool

	focus int
}

// New builds a view on the current month. Nothing is rendered until Render.
func New(bus *events.Bus, opts ...Option) *View {
	v := &View{
		bus: bus,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	if !v.cursorSet {
		v.cursor = calendar.CursorOf(v.now())
	}
	return v
}

// Cursor returns the displayed month.
func (v *View) Cursor() calendar.Cursor { return v.cursor }

// Grid returns the layout of the displayed month.
func (v *View) Grid() calendar.Grid { return v.grid }

// Title renders the displayed month, e.g. "March 2024".
func (v *View) Title() string { return v.cursor.Title() }

// Cells returns a copy of the rendered cells, blanks first.
func (v *View) Cells() []Cell {
	out := make([]Cell, len(v.cells))
	copy(out, v.cells)
	return out
}

// Selected returns the selected date, if any.
func (v *View) Selected() (calendar.Date, bool) {
	return v.selected, v.hasSelected
}

// Render rebuilds the grid for the displayed month. While the cells are
// built, the user's last explicit choice is selected again if it is in this
// month; without an explicit choice, today is selected if it is in this
// month. Either way DateSelected is published for the selected cell.
func (v *View) Render() tea.Cmd {
	v.grid = v.cursor.Grid()
	v.cells = v.cells[:0]
	now := v.now()

	for i := 0; i < v.grid.Offset; i++ {
		v.cells = append(v.cells, Cell{Index: i})
	}

	var cmds []tea.Cmd
	for day := 1; day <= v.grid.DaysInMonth; day++ {
		date := calendar.Date{Year: v.cursor.Year, Month: v.cursor.Month, Day: day}
		v.cells = append(v.cells, Cell{
			Index:  len(v.cells),
			Day:    day,
			Date:   date,
			Target: date.Path(),
			Today:  calendar.IsToday(date, now),
		})
		idx := len(v.cells) - 1

		switch {
		case v.hasExplicit && v.explicit == date:
			cmds = append(cmds, v.mark(idx))
		case !v.hasExplicit && calendar.IsToday(date, now):
			cmds = append(cmds, v.mark(idx))
		}
	}

	if v.focus < 1 || v.focus > v.grid.DaysInMonth {
		v.focus = v.defaultFocus(now)
	}
	return batch(cmds)
}

// SelectDate selects day of the displayed month as the user's choice.
// Days outside the month are ignored.
func (v *View) SelectDate(day int) tea.Cmd {
	idx := v.cellIndex(day)
	if idx < 0 {
		return nil
	}
	v.explicit = v.cells[idx].Date
	v.hasExplicit = true
	v.focus = day
	return v.mark(idx)
}

// Navigate moves the displayed month by delta (-1 or +1) and re-renders.
// Navigation does not select anything by itself.
func (v *View) Navigate(delta int) tea.Cmd {
	if delta == 0 {
		return nil
	}
	v.cursor = v.cursor.Step(delta)
	v.focus = 0
	return v.Render()
}

// Focus returns the day that keyboard focus rests on.
func (v *View) Focus() int { return v.focus }

// MoveFocus shifts keyboard focus by delta days. Leaving the displayed month
// navigates to the neighbouring one and keeps the focus on the matching day.
// Moving focus never selects.
func (v *View) MoveFocus(delta int) tea.Cmd {
	if len(v.cells) == 0 {
		return nil
	}
	next := v.focus + delta
	if next >= 1 && next <= v.grid.DaysInMonth {
		v.focus = next
		return nil
	}
	target := calendar.Date{Year: v.cursor.Year, Month: v.cursor.Month, Day: 1}.
		Time(time.UTC).AddDate(0, 0, next-1)
	step := 1
	if next < 1 {
		step = -1
	}
	cmd := v.Navigate(step)
	v.focus = target.Day()
	return cmd
}

// SelectFocused selects the focused day.
func (v *View) SelectFocused() tea.Cmd {
	return v.SelectDate(v.focus)
}

// mark applies the single-selection rule to the cell at idx and announces it.
func (v *View) mark(idx int) tea.Cmd {
	for i := range v.cells {
		v.cells[i].Selected = false
	}
	v.cells[idx].Selected = true
	v.selected = v.cells[idx].Date
	v.hasSelected = true
	if v.bus == nil {
		return nil
	}
	return v.bus.DateSelected.Publish(events.DateSelected{Date: v.selected, Cell: idx})
}

func (v *View) cellIndex(day int) int {
	if day < 1 || day > v.grid.DaysInMonth || len(v.cells) == 0 {
		return -1
	}
	return v.grid.Offset + day - 1
}

func (v *View) defaultFocus(now time.Time) int {
	if v.hasSelected && v.cursor.Contains(v.selected) {
		return v.selected.Day
	}
	if today := calendar.DateOf(now); v.cursor.Contains(today) {
		return today.Day
	}
	return 1
}

func batch(cmds []tea.Cmd) tea.Cmd {
	var valid []tea.Cmd
	for _, c := range cmds {
		if c != nil {
			valid = append(valid, c)
		}
	}
	switch len(valid) {
	case 0:
		return nil
	case 1:
		return valid[0]
	default:
		return tea.Batch(valid...)
	}
}
