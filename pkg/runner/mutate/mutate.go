// Package mutate stores and removes symptom records through the same
// reconcile path the terminal UI uses.
package mutate

import (
	"context"
	"io"

	"tableflip.dev/allergy/pkg/bridge"
	"tableflip.dev/allergy/pkg/calendar"
	"tableflip.dev/allergy/pkg/runner/session"
	"tableflip.dev/allergy/pkg/runner/show"
	"tableflip.dev/allergy/pkg/symptom"
)

type Add struct {
	Client    bridge.Client
	Options   bridge.Options
	Date      calendar.Date
	Symptom   symptom.Symptom
	Intensity int
	JSON      bool
	Out       io.Writer
}

func (a *Add) Do(ctx context.Context) error {
	a.Options.Context = ctx
	sess := session.Open(a.Client, a.Options)
	defer sess.Close()

	if err := sess.Load(a.Date); err != nil {
		return err
	}
	if err := sess.Record(a.Symptom, a.Intensity); err != nil {
		return err
	}
	return show.Print(a.Out, sess, a.JSON)
}

type Delete struct {
	Client  bridge.Client
	Options bridge.Options
	Date    calendar.Date
	Symptom symptom.Symptom
	JSON    bool
	Out     io.Writer
}

func (d *Delete) Do(ctx context.Context) error {
	d.Options.Context = ctx
	sess := session.Open(d.Client, d.Options)
	defer sess.Close()

	if err := sess.Load(d.Date); err != nil {
		return err
	}
	if err := sess.Remove(d.Symptom); err != nil {
		return err
	}
	return show.Print(d.Out, sess, d.JSON)
}
