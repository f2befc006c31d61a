package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/allergy/pkg/calendar"
	"tableflip.dev/allergy/pkg/datepicker"
)

const width = len("11 12 13 14 15 16 17") // an example week

const weekHeader = "Mo Tu We Th Fr Sa Su"

// PrintMonth prints the Monday-first grid of c. Today is bold and underlined.
// selected, when it falls in c, is shown reversed.
func (pp *PrettyPrint) PrintMonth(c calendar.Cursor, now time.Time, selected calendar.Date) {
	v := datepicker.New(nil,
		datepicker.WithClock(func() time.Time { return now }),
		datepicker.WithCursor(c))
	v.Render()
	if c.Contains(selected) {
		v.SelectDate(selected.Day)
	}

	w := pp.out()
	tf := color.New(color.FgWhite, color.Italic)
	title := c.Title()
	mid := (width - len(title)) / 2
	_, _ = tf.Fprintf(w, "%s%s%s\n", strings.Repeat(" ", mid), title, strings.Repeat(" ", width-mid-len(title)))
	_, _ = color.New(color.Faint).Fprintln(w, weekHeader)

	plain := color.New(color.FgWhite)
	today := color.New(color.Bold, color.Underline, color.FgHiWhite)
	picked := color.New(color.ReverseVideo)

	for i, cell := range v.Cells() {
		sep := " "
		if i%7 == 6 {
			sep = "\n"
		}
		switch {
		case cell.Blank():
			_, _ = fmt.Fprint(w, "  ")
		case cell.Selected:
			_, _ = picked.Fprintf(w, "%2d", cell.Day)
		case cell.Today:
			_, _ = today.Fprintf(w, "%2d", cell.Day)
		default:
			_, _ = plain.Fprintf(w, "%2d", cell.Day)
		}
		_, _ = fmt.Fprint(w, sep)
	}
	if len(v.Cells())%7 != 0 {
		_, _ = fmt.Fprint(w, "\n")
	}
	_, _ = fmt.Fprint(w, "\n")
}
