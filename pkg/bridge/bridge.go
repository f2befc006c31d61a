// Package bridge keeps the symptom selection of the displayed date in step
// with the server. It fetches date fragments when the date picker selects a
// day, persists symptom edits, and rebuilds the selection from every
// fragment swapped into the date-info region.
//
// All state lives on the program loop. Network calls run inside tea.Cmds and
// come back as messages handed to Update.
package bridge

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"go.uber.org/zap"

	"tableflip.dev/allergy/pkg/calendar"
	"tableflip.dev/allergy/pkg/client"
	"tableflip.dev/allergy/pkg/events"
	"tableflip.dev/allergy/pkg/fragment"
	"tableflip.dev/allergy/pkg/symptom"
)

// DefaultSettleDelay is how long reconciliation waits after a swap.
const DefaultSettleDelay = 50 * time.Millisecond

// Client is the subset of the service API the bridge needs.
type Client interface {
	DateInfo(ctx context.Context, date calendar.Date) (*client.Response, error)
	AddSymptom(ctx context.Context, s symptom.Symptom, intensity int, date calendar.Date) (*client.Response, error)
	DeleteSymptom(ctx context.Context, s symptom.Symptom, date calendar.Date) error
}

// Options tune a Bridge.
type Options struct {
	// SettleDelay is the wait between a swap into the date-info region and
	// the reconciliation that follows it. Zero reconciles on the next
	// message.
	SettleDelay time.Duration
	// DiscardStale drops fragment responses older than the newest one
	// already applied. Off by default, in which case responses are applied
	// in whatever order they complete.
	DiscardStale bool
	Logger       *zap.Logger
	// Context bounds every request. Defaults to context.Background.
	Context context.Context
	// Now is the clock used for the initial current date.
	Now func() time.Time
}

// Bridge is not safe for concurrent use. Call it from the program loop only.
type Bridge struct {
	client Client
	bus    *events.Bus
	opts   Options
	log    *zap.Logger

	region    *fragment.Region
	selection *symptom.Selection
	date      calendar.Date

	issued   uint64
	applied  uint64
	inFlight int
	lastErr  error

	unsubscribe []func()
}

// New wires a bridge to bus. It subscribes to DateSelected, SwapCompleted and
// SymptomsUpdated; Close removes the subscriptions.
func New(c Client, bus *events.Bus, opts Options) *Bridge {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SettleDelay < 0 {
		opts.SettleDelay = 0
	}
	b := &Bridge{
		client:    c,
		bus:       bus,
		opts:      opts,
		log:       opts.Logger.Named("bridge"),
		region:    fragment.NewRegion(events.DateInfoTarget),
		selection: symptom.NewSelection(),
		date:      calendar.DateOf(opts.Now()),
	}
	b.unsubscribe = []func(){
		bus.DateSelected.Subscribe(b.onDateSelected),
		bus.SwapCompleted.Subscribe(b.onSwapCompleted),
		bus.SymptomsUpdated.Subscribe(b.onSymptomsUpdated),
	}
	return b
}

// Close detaches the bridge from the bus.
func (b *Bridge) Close() {
	for _, u := range b.unsubscribe {
		u()
	}
	b.unsubscribe = nil
}

// CurrentDate is the date symptom edits are recorded against. It follows
// the date picker and starts out as today.
func (b *Bridge) CurrentDate() calendar.Date { return b.date }

// Selection exposes the symptom state for rendering. Mutate it through the
// bridge so edits are persisted.
func (b *Bridge) Selection() *symptom.Selection { return b.selection }

// Region is the date-info display region.
func (b *Bridge) Region() *fragment.Region { return b.region }

// InFlight counts requests issued but not yet answered.
func (b *Bridge) InFlight() int { return b.inFlight }

// LastError returns the most recent request failure, if any.
func (b *Bridge) LastError() error { return b.lastErr }

func (b *Bridge) onDateSelected(s events.DateSelected) tea.Cmd {
	b.date = s.Date
	return b.FetchDateFragment(s.Date)
}

func (b *Bridge) onSwapCompleted(s events.SwapCompleted) tea.Cmd {
	if s.Target != b.region.ID {
		return nil
	}
	swap := b.region.Swaps()
	if b.opts.SettleDelay == 0 {
		return func() tea.Msg { return settledMsg{swap: swap} }
	}
	return tea.Tick(b.opts.SettleDelay, func(time.Time) tea.Msg {
		return settledMsg{swap: swap}
	})
}

func (b *Bridge) onSymptomsUpdated(events.SymptomsUpdated) tea.Cmd {
	b.ReconcileFromFragment()
	return nil
}

func (b *Bridge) nextSeq() uint64 {
	b.issued++
	b.inFlight++
	return b.issued
}

// Load makes d the current date and fetches its fragment without going
// through the date picker.
func (b *Bridge) Load(d calendar.Date) tea.Cmd {
	b.date = d
	return b.FetchDateFragment(d)
}

// FetchDateFragment requests the fragment for date. The answer is swapped
// into the date-info region when its FragmentMsg reaches Update.
func (b *Bridge) FetchDateFragment(date calendar.Date) tea.Cmd {
	seq := b.nextSeq()
	ctx, c := b.opts.Context, b.client
	b.log.Debug("fetch", zap.String("date", date.String()), zap.Uint64("seq", seq))
	return func() tea.Msg {
		resp, err := c.DateInfo(ctx, date)
		if err != nil {
			return RequestFailedMsg{Op: OpFetch, Seq: seq, Date: date, Err: err}
		}
		return FragmentMsg{Seq: seq, Op: OpFetch, Date: date, Body: resp.Body, Triggers: resp.Triggers}
	}
}

// ToggleSymptom flips s for the current date. Selecting only opens an empty
// intensity panel; nothing is stored until an intensity is picked.
// Deselecting removes the panel at once and asks the server to delete the
// record without waiting for the answer.
func (b *Bridge) ToggleSymptom(s symptom.Symptom) tea.Cmd {
	t, err := b.selection.Toggle(s)
	if err != nil {
		b.log.Warn("toggle", zap.String("symptom", string(s)), zap.Error(err))
		return nil
	}
	if t.NowSelected {
		return nil
	}
	return b.deleteSymptom(s, b.date)
}

func (b *Bridge) deleteSymptom(s symptom.Symptom, date calendar.Date) tea.Cmd {
	seq := b.nextSeq()
	ctx, c := b.opts.Context, b.client
	b.log.Debug("delete", zap.String("symptom", string(s)), zap.String("date", date.String()))
	return func() tea.Msg {
		if err := c.DeleteSymptom(ctx, s, date); err != nil {
			return RequestFailedMsg{Op: OpDelete, Seq: seq, Date: date, Symptom: s, Err: err}
		}
		return DeletedMsg{Seq: seq, Date: date, Symptom: s}
	}
}

// PickIntensity highlights v on the panel of s and stores it. The server
// answers with a refreshed fragment that takes the same swap path as a
// fetch. A pick for an unselected symptom or out of range value is ignored.
func (b *Bridge) PickIntensity(s symptom.Symptom, v int) tea.Cmd {
	if err := b.selection.SetIntensity(s, v); err != nil {
		b.log.Warn("pick intensity", zap.String("symptom", string(s)), zap.Int("intensity", v), zap.Error(err))
		return nil
	}
	seq := b.nextSeq()
	date := b.date
	ctx, c := b.opts.Context, b.client
	b.log.Debug("add",
		zap.String("symptom", string(s)),
		zap.Int("intensity", v),
		zap.String("date", date.String()),
		zap.Uint64("seq", seq))
	return func() tea.Msg {
		resp, err := c.AddSymptom(ctx, s, v, date)
		if err != nil {
			return RequestFailedMsg{Op: OpAdd, Seq: seq, Date: date, Symptom: s, Err: err}
		}
		return FragmentMsg{Seq: seq, Op: OpAdd, Date: date, Body: resp.Body, Triggers: resp.Triggers}
	}
}

// ReconcileFromFragment rebuilds the selection from the date-info region.
// Stored markers are authoritative. Only when there are none is the free
// text of the fragment read by the legacy line parser.
func (b *Bridge) ReconcileFromFragment() {
	b.selection.Reset()

	doc, err := b.region.Doc()
	if err != nil {
		b.log.Warn("reconcile", zap.Error(err))
		return
	}

	if markers := fragment.StoredMarkers(doc); len(markers) > 0 {
		for _, m := range markers {
			s := symptom.Symptom(m.Symptom)
			if !s.Valid() {
				b.log.Debug("reconcile: unknown marker", zap.String("symptom", m.Symptom))
				continue
			}
			_ = b.selection.Restore(symptom.Record{Symptom: s, Intensity: m.Intensity})
		}
		b.selection.SetVisible(true)
		return
	}

	legacy := fragment.ParseLegacyLines(fragment.TextLines(doc))
	for _, r := range legacy.Records {
		_ = b.selection.Restore(r)
	}
	if legacy.Visible {
		b.selection.SetVisible(true)
	}
}

// Update applies a bridge message and returns any follow-up command.
// Messages that do not belong to the bridge are ignored.
func (b *Bridge) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case FragmentMsg:
		b.done()
		return b.applyFragment(m)

	case RequestFailedMsg:
		b.done()
		b.lastErr = m
		b.log.Warn("request failed",
			zap.String("op", m.Op),
			zap.String("date", m.Date.String()),
			zap.String("symptom", string(m.Symptom)),
			zap.Error(m.Err))

	case DeletedMsg:
		b.done()
		b.log.Debug("deleted", zap.String("symptom", string(m.Symptom)), zap.String("date", m.Date.String()))

	case settledMsg:
		b.ReconcileFromFragment()
	}
	return nil
}

func (b *Bridge) done() {
	if b.inFlight > 0 {
		b.inFlight--
	}
}

// applyFragment runs the swap sequence: client events from HX-Trigger fire
// first, then the region is replaced, then SwapCompleted is announced.
func (b *Bridge) applyFragment(m FragmentMsg) tea.Cmd {
	if b.opts.DiscardStale && m.Seq < b.applied {
		b.log.Debug("discard stale fragment", zap.Uint64("seq", m.Seq), zap.Uint64("applied", b.applied))
		return nil
	}
	if m.Seq > b.applied {
		b.applied = m.Seq
	}
	b.lastErr = nil

	var cmds []tea.Cmd
	for _, name := range m.Triggers {
		switch name {
		case events.TriggerSymptomsUpdated:
			cmds = append(cmds, b.bus.SymptomsUpdated.Publish(events.SymptomsUpdated{}))
		default:
			b.log.Debug("ignore client event", zap.String("event", name))
		}
	}

	b.region.Swap(m.Body)
	b.log.Debug("swap", zap.String("target", b.region.ID), zap.String("date", m.Date.String()), zap.Uint64("seq", m.Seq))
	cmds = append(cmds, b.bus.SwapCompleted.Publish(events.SwapCompleted{Target: b.region.ID}))
	return batch(cmds)
}

// Drain runs cmd and every command that follows from it to completion,
// feeding the resulting messages to Update. It is the loop used where no
// tea.Program runs, such as one-shot CLI commands. Messages the bridge does
// not handle are passed to other, if set.
func (b *Bridge) Drain(cmd tea.Cmd, other func(tea.Msg)) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case FragmentMsg, RequestFailedMsg, DeletedMsg, settledMsg:
			queue = append(queue, b.Update(msg))
		default:
			if other != nil {
				other(msg)
			}
		}
	}
}

func batch(cmds []tea.Cmd) tea.Cmd {
	var valid []tea.Cmd
	for _, c := range cmds {
		if c != nil {
			valid = append(valid, c)
		}
	}
	switch len(valid) {
	case 0:
		return nil
	case 1:
		return valid[0]
	default:
		return tea.Batch(valid...)
	}
}
