package show

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/allergy/pkg/bridge"
	"tableflip.dev/allergy/pkg/calendar"
	"tableflip.dev/allergy/pkg/printers"
	"tableflip.dev/allergy/pkg/runner/session"
	"tableflip.dev/allergy/pkg/symptom"
)

// Result is the JSON form of a reconciled date.
type Result struct {
	Date     string           `json:"date"`
	Visible  bool             `json:"visible"`
	Symptoms []symptom.Record `json:"symptoms"`
}

// ResultOf captures the selection of s.
func ResultOf(s *session.Session) Result {
	sel := s.Selection()
	records := sel.Records()
	if records == nil {
		records = []symptom.Record{}
	}
	return Result{Date: s.CurrentDate().String(), Visible: sel.Visible(), Symptoms: records}
}

// Print writes the selection of s as a table, or as JSON.
func Print(w io.Writer, s *session.Session, asJSON bool) error {
	if w == nil {
		w = color.Output
	}
	if asJSON {
		b, err := json.Marshal(ResultOf(s))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}
	pp := printers.PrettyPrint{Out: w}
	pp.Selection(s.CurrentDate(), s.Selection())
	return nil
}

type Show struct {
	Client  bridge.Client
	Options bridge.Options
	Date    calendar.Date
	JSON    bool
	Out     io.Writer
}

func (s *Show) Do(ctx context.Context) error {
	s.Options.Context = ctx
	sess := session.Open(s.Client, s.Options)
	defer sess.Close()

	if err := sess.Load(s.Date); err != nil {
		return err
	}
	return Print(s.Out, sess, s.JSON)
}
