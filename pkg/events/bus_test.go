package events

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/allergy/pkg/calendar"
)

func runAll(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runAll(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestPublishIsSynchronousAndOrdered(t *testing.T) {
	bus := NewBus(nil)
	var order []string
	bus.DateSelected.Subscribe(func(DateSelected) tea.Cmd {
		order = append(order, "first")
		return nil
	})
	bus.DateSelected.Subscribe(func(DateSelected) tea.Cmd {
		order = append(order, "second")
		return nil
	})

	cmd := bus.DateSelected.Publish(DateSelected{Date: calendar.Date{Year: 2024, Month: 2, Day: 10}})
	assert.Nil(t, cmd)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestPublishBatchesHandlerCommands(t *testing.T) {
	bus := NewBus(nil)
	type done struct{ n int }
	bus.SwapCompleted.Subscribe(func(SwapCompleted) tea.Cmd {
		return func() tea.Msg { return done{1} }
	})
	bus.SwapCompleted.Subscribe(func(SwapCompleted) tea.Cmd { return nil })
	bus.SwapCompleted.Subscribe(func(SwapCompleted) tea.Cmd {
		return func() tea.Msg { return done{2} }
	})

	msgs := runAll(bus.SwapCompleted.Publish(SwapCompleted{Target: DateInfoTarget}))
	require.Len(t, msgs, 2)
	assert.ElementsMatch(t, []tea.Msg{done{1}, done{2}}, msgs)
}

func TestNoReplayForLateSubscribers(t *testing.T) {
	bus := NewBus(nil)
	bus.SymptomsUpdated.Publish(SymptomsUpdated{})

	calls := 0
	bus.SymptomsUpdated.Subscribe(func(SymptomsUpdated) tea.Cmd {
		calls++
		return nil
	})
	assert.Equal(t, 0, calls)

	bus.SymptomsUpdated.Publish(SymptomsUpdated{})
	assert.Equal(t, 1, calls)
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus(nil)
	calls := 0
	unsub := bus.SymptomsUpdated.Subscribe(func(SymptomsUpdated) tea.Cmd {
		calls++
		return nil
	})
	require.Equal(t, 1, bus.SymptomsUpdated.Len())

	unsub()
	unsub()
	assert.Equal(t, 0, bus.SymptomsUpdated.Len())

	bus.SymptomsUpdated.Publish(SymptomsUpdated{})
	assert.Equal(t, 0, calls)
}

func TestSubscribeDuringPublishWaitsForNextRound(t *testing.T) {
	bus := NewBus(nil)
	late := 0
	bus.SymptomsUpdated.Subscribe(func(SymptomsUpdated) tea.Cmd {
		bus.SymptomsUpdated.Subscribe(func(SymptomsUpdated) tea.Cmd {
			late++
			return nil
		})
		return nil
	})
	bus.SymptomsUpdated.Publish(SymptomsUpdated{})
	assert.Equal(t, 0, late)
}

func TestObserveWrapsSignals(t *testing.T) {
	bus := NewBus(nil)
	var seen []Signal
	stop := ObserveWith(bus, func(s Signal) { seen = append(seen, s) })

	date := calendar.Date{Year: 2024, Month: 2, Day: 10}
	msgs := runAll(bus.DateSelected.Publish(DateSelected{Date: date, Cell: 13}))
	require.Len(t, msgs, 1)
	sig, ok := msgs[0].(SignalMsg)
	require.True(t, ok)
	assert.Equal(t, `date:"2024-03-10" cell:13`, sig.Describe())
	assert.Len(t, seen, 1)

	stop()
	assert.Nil(t, bus.DateSelected.Publish(DateSelected{Date: date}))
}
