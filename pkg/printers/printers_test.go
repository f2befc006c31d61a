package printers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/allergy/pkg/calendar"
	"tableflip.dev/allergy/pkg/symptom"
)

func init() {
	color.NoColor = true
}

func TestPrintMonth(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	now := time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC)

	pp.PrintMonth(calendar.Cursor{Month: 2, Year: 2024}, now, calendar.Date{Year: 2024, Month: 2, Day: 15})

	lines := strings.Split(buf.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 7)
	assert.Equal(t, "March 2024", strings.TrimSpace(lines[0]))
	assert.Equal(t, weekHeader, lines[1])
	assert.Equal(t, "             1  2  3", lines[2])
	assert.Equal(t, " 4  5  6  7  8  9 10", lines[3])
	assert.Equal(t, "25 26 27 28 29 30 31", lines[6])
}

func TestPrintMonthSundayStart(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}

	pp.PrintMonth(calendar.Cursor{Month: 8, Year: 2024}, time.Now(), calendar.Date{})

	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "                   1", lines[2])
	assert.Equal(t, "30", strings.TrimSpace(lines[7]))
}

func TestSelection(t *testing.T) {
	sel := symptom.NewSelection()
	require.NoError(t, sel.Restore(symptom.Record{Symptom: symptom.Sneezing, Intensity: 6}))
	require.NoError(t, sel.Restore(symptom.Record{Symptom: symptom.Headache}))
	sel.SetVisible(true)

	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	pp.Selection(calendar.Date{Year: 2024, Month: 2, Day: 10}, sel)

	out := buf.String()
	assert.Contains(t, out, "2024-03-10 - 2 symptoms")
	assert.Contains(t, out, "Sneezing")
	assert.Contains(t, out, "■■■■■■····")
	assert.Regexp(t, `Headache\s+-`, out)
}

func TestSelectionEmpty(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	pp.Selection(calendar.Date{Year: 2024, Month: 2, Day: 11}, symptom.NewSelection())
	assert.Contains(t, buf.String(), "none")
}

func TestMeter(t *testing.T) {
	assert.Equal(t, "", Meter(0))
	assert.Equal(t, "■■■■■■■■■■", Meter(10))
	assert.Equal(t, "■·········", Meter(1))
}
