package options

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/allergy/pkg/calendar"
)

const (
	layoutISO      = "2006-1-2"
	layoutISOShort = "1/2"
	layoutMonth    = "2006-1"
)

// OnOptions selects the date a command works on.
type OnOptions struct {
	OnString string
	// Now defaults to time.Now.
	Now func() time.Time
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Specify a date, example: --on="2024-3-10" or --on="3/10". Defaults to today.`)
}

func (o *OnOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// GetOn parses --on. A short month/day date falls in the current year.
func (o *OnOptions) GetOn() (calendar.Date, error) {
	if o.OnString == "" {
		return calendar.DateOf(o.now()), nil
	}
	t, err := time.Parse(layoutISO, o.OnString)
	if err != nil {
		t, err = time.Parse(layoutISOShort, o.OnString)
		if err != nil {
			return calendar.Date{}, fmt.Errorf("invalid --on %q: want YYYY-M-D or M/D", o.OnString)
		}
		t = t.AddDate(o.now().Year(), 0, 0)
	}
	return calendar.DateOf(t), nil
}

// MonthOptions selects the month to print.
type MonthOptions struct {
	OnOptions
}

func AddMonthArgs(cmd *cobra.Command, o *MonthOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Specify a month or a day in it, example: --on="2024-3" or --on="2024-3-10". Defaults to this month.`)
}

// GetMonth returns the month of --on, and the day when one was given.
func (o *MonthOptions) GetMonth() (calendar.Cursor, calendar.Date, error) {
	if o.OnString != "" {
		if t, err := time.Parse(layoutMonth, o.OnString); err == nil {
			return calendar.CursorOf(t), calendar.Date{}, nil
		}
	}
	d, err := o.GetOn()
	if err != nil {
		return calendar.Cursor{}, calendar.Date{}, err
	}
	return d.Cursor(), d, nil
}
