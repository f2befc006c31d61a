package events

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/allergy/pkg/calendar"
)

// TriggerSymptomsUpdated is the HX-Trigger event name the server attaches to
// date fragments. It is surfaced on the bus as SymptomsUpdated.
const TriggerSymptomsUpdated = "allergy_symptoms_updated"

// DateInfoTarget is the id of the display region date fragments are swapped
// into.
const DateInfoTarget = "date-info"

// DateSelected fires whenever the date picker's selected date changes, be it
// from a click, the initial render, or a re-render after navigation.
type DateSelected struct {
	Date calendar.Date
	// Cell is the index of the selected cell in the rendered grid, blanks
	// included.
	Cell int
}

// Describe renders the selection for logs.
func (m DateSelected) Describe() string {
	return fmt.Sprintf(`date:%q cell:%d`, m.Date.String(), m.Cell)
}

// SymptomsUpdated announces that the server changed the stored symptoms of
// the displayed date. It carries no payload.
type SymptomsUpdated struct{}

// Describe implements Signal.
func (SymptomsUpdated) Describe() string { return "symptoms updated" }

// SwapCompleted fires after a fragment replaced the content of a display
// region. Listeners use it only as a trigger and never read the content from
// it.
type SwapCompleted struct {
	Target string
}

// Describe renders the swap for logs.
func (m SwapCompleted) Describe() string {
	return fmt.Sprintf(`target:%q`, m.Target)
}

// SignalMsg wraps a signal into a tea.Msg so a UI can observe bus traffic in
// its event log.
type SignalMsg struct {
	Signal Signal
}

// Describe forwards to the wrapped signal.
func (m SignalMsg) Describe() string {
	if m.Signal == nil {
		return ""
	}
	return m.Signal.Describe()
}

// Observe subscribes to every topic of the bus and re-emits each signal as a
// SignalMsg command. The returned func unsubscribes all of them.
func Observe(b *Bus) func() {
	return ObserveWith(b, nil)
}

// ObserveWith is Observe with a callback invoked synchronously for every
// signal, in addition to the SignalMsg command.
func ObserveWith(b *Bus, fn func(Signal)) func() {
	wrap := func(sig Signal) tea.Cmd {
		if fn != nil {
			fn(sig)
		}
		return func() tea.Msg { return SignalMsg{Signal: sig} }
	}
	unsubs := []func(){
		b.DateSelected.Subscribe(func(s DateSelected) tea.Cmd { return wrap(s) }),
		b.SymptomsUpdated.Subscribe(func(s SymptomsUpdated) tea.Cmd { return wrap(s) }),
		b.SwapCompleted.Subscribe(func(s SwapCompleted) tea.Cmd { return wrap(s) }),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
