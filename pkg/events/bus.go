// Package events is the page-lifetime publish/subscribe channel that connects
// the date picker, the server sync bridge and the UI. Delivery is synchronous
// and in-process: Publish calls every current subscriber before returning and
// nothing is replayed for subscribers that arrive later.
package events

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea/v2"
	"go.uber.org/zap"
)

// Signal is implemented by every payload carried on the bus.
type Signal interface {
	// Describe renders the signal for logs.
	Describe() string
}

// Handler receives a signal. Any asynchronous follow-up work is returned as a
// tea.Cmd so that it resumes on the program loop.
type Handler[T Signal] func(T) tea.Cmd

type subscription[T Signal] struct {
	id      int
	handler Handler[T]
}

// Topic is a broadcast channel for one signal type. The zero value is ready
// to use.
type Topic[T Signal] struct {
	name   string
	logger *zap.Logger

	mu     sync.Mutex
	nextID int
	subs   []subscription[T]
}

// Subscribe registers h and returns a func that removes it again.
func (t *Topic[T]) Subscribe(h Handler[T]) func() {
	if h == nil {
		return func() {}
	}
	t.mu.Lock()
	t.nextID++
	id := t.nextID
	t.subs = append(t.subs, subscription[T]{id: id, handler: h})
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { t.remove(id) })
	}
}

func (t *Topic[T]) remove(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, s := range t.subs {
		if s.id == id {
			t.subs = append(t.subs[:i:i], t.subs[i+1:]...)
			return
		}
	}
}

// Len returns the number of current subscribers.
func (t *Topic[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs)
}

// Publish delivers sig to the subscribers registered at the time of the call,
// in subscription order, and batches the commands they return.
func (t *Topic[T]) Publish(sig T) tea.Cmd {
	t.mu.Lock()
	subs := make([]subscription[T], len(t.subs))
	copy(subs, t.subs)
	t.mu.Unlock()

	if t.logger != nil {
		t.logger.Debug("publish",
			zap.String("signal", t.name),
			zap.String("detail", sig.Describe()),
			zap.Int("subscribers", len(subs)))
	}

	var cmds []tea.Cmd
	for _, s := range subs {
		if cmd := s.handler(sig); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds...)
	}
}

// Bus groups the topics shared by the components of one session.
type Bus struct {
	DateSelected    Topic[DateSelected]
	SymptomsUpdated Topic[SymptomsUpdated]
	SwapCompleted   Topic[SwapCompleted]
}

// NewBus returns a bus that logs every publish at debug level. A nil logger
// disables logging.
func NewBus(logger *zap.Logger) *Bus {
	b := &Bus{}
	b.DateSelected.name = "DateSelected"
	b.SymptomsUpdated.name = "SymptomsUpdated"
	b.SwapCompleted.name = "SwapCompleted"
	if logger != nil {
		l := logger.Named("bus")
		b.DateSelected.logger = l
		b.SymptomsUpdated.logger = l
		b.SwapCompleted.logger = l
	}
	return b
}
