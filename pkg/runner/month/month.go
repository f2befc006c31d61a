package month

import (
	"context"
	"io"
	"time"

	"tableflip.dev/allergy/pkg/calendar"
	"tableflip.dev/allergy/pkg/printers"
)

type Month struct {
	Cursor   calendar.Cursor
	Selected calendar.Date
	Now      func() time.Time
	Out      io.Writer
}

func (m *Month) Do(_ context.Context) error {
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	pp := printers.PrettyPrint{Out: m.Out}
	pp.PrintMonth(m.Cursor, now(), m.Selected)
	return nil
}
