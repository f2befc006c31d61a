// Package session runs the sync bridge to completion for one-shot commands,
// where no Bubble Tea program drives the loop.
package session

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/allergy/pkg/bridge"
	"tableflip.dev/allergy/pkg/calendar"
	"tableflip.dev/allergy/pkg/events"
	"tableflip.dev/allergy/pkg/symptom"
)

// ErrNotRecorded is returned when deleting a symptom the date does not have.
var ErrNotRecorded = errors.New("symptom not recorded")

// Session owns a private bus and bridge.
type Session struct {
	*bridge.Bridge
	bus *events.Bus
}

// Open wires a bridge to a fresh bus. Close releases it.
func Open(c bridge.Client, opts bridge.Options) *Session {
	bus := events.NewBus(opts.Logger)
	return &Session{Bridge: bridge.New(c, bus, opts), bus: bus}
}

// Run drains cmd and reports the request failure it produced, if any.
func (s *Session) Run(cmd tea.Cmd) error {
	s.Drain(cmd, nil)
	return s.LastError()
}

// Load fetches date and reconciles the selection from it.
func (s *Session) Load(date calendar.Date) error {
	return s.Run(s.Bridge.Load(date))
}

// Record stores intensity for sym on the loaded date, selecting the symptom
// first when needed, and returns once the answer has been reconciled.
func (s *Session) Record(sym symptom.Symptom, intensity int) error {
	if !sym.Valid() {
		return fmt.Errorf("%w: %q", symptom.ErrUnknownSymptom, sym)
	}
	if !symptom.ValidIntensity(intensity) {
		return fmt.Errorf("%w: %d", symptom.ErrIntensityRange, intensity)
	}
	if !s.Selection().Has(sym) {
		if err := s.Run(s.ToggleSymptom(sym)); err != nil {
			return err
		}
	}
	return s.Run(s.PickIntensity(sym, intensity))
}

// Remove deselects sym on the loaded date, which deletes its record, then
// reloads the date.
func (s *Session) Remove(sym symptom.Symptom) error {
	if !s.Selection().Has(sym) {
		return fmt.Errorf("%w: %s on %s", ErrNotRecorded, sym, s.CurrentDate())
	}
	if err := s.Run(s.ToggleSymptom(sym)); err != nil {
		return err
	}
	return s.Load(s.CurrentDate())
}
