// Package printers renders allergy data for the one-shot CLI commands.
package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/allergy/pkg/calendar"
	"tableflip.dev/allergy/pkg/symptom"
)

type PrettyPrint struct {
	// Out defaults to color.Output.
	Out io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out())
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " symptom")
	default:
		_, _ = c.Fprintln(pp.out(), " symptoms")
	}
}

// Selection prints the symptoms recorded for date as a table. A hidden
// selection means the server reported no records at all.
func (pp *PrettyPrint) Selection(date calendar.Date, sel *symptom.Selection) {
	pp.TitleWithCount(date.String(), sel.Len())

	if !sel.Visible() || sel.Len() == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	b := color.New(color.Bold)
	tbl.AddRow(b.Sprint("Symptom"), b.Sprint("Intensity"), "")
	for _, r := range sel.Records() {
		if !r.HasIntensity() {
			tbl.AddRow(r.Symptom.DisplayName(), "-", "")
			continue
		}
		tbl.AddRow(r.Symptom.DisplayName(), r.Intensity, Meter(r.Intensity))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Meter draws v as a bar colored by severity.
func Meter(v int) string {
	if !symptom.ValidIntensity(v) {
		return ""
	}
	c := color.New(color.FgGreen)
	switch {
	case v > 6:
		c = color.New(color.FgRed)
	case v > 3:
		c = color.New(color.FgYellow)
	}
	return c.Sprint(strings.Repeat("■", v)) + strings.Repeat("·", symptom.MaxIntensity-v)
}
