// Package tui is the interactive terminal front end: a month grid, the
// date-info pane fed by the server, and the symptom panel of the selected
// date.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/help"
	"github.com/charmbracelet/bubbles/v2/key"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"go.uber.org/zap"

	"tableflip.dev/allergy/pkg/bridge"
	"tableflip.dev/allergy/pkg/datepicker"
	"tableflip.dev/allergy/pkg/events"
	"tableflip.dev/allergy/pkg/fragment"
	"tableflip.dev/allergy/pkg/symptom"
	"tableflip.dev/allergy/pkg/tui/components/calendar"
	"tableflip.dev/allergy/pkg/tui/components/eventviewer"
	"tableflip.dev/allergy/pkg/tui/components/symptoms"
	"tableflip.dev/allergy/pkg/tui/theme"
)

const (
	// calendarRows is the body height shared by the calendar and info panes:
	// a title, the weekday header and six weeks.
	calendarRows = 8
	eventRows    = 8
	emptyInfo    = "Select a date to load its symptoms."
)

type pane int

const (
	paneCalendar pane = iota
	paneSymptoms
)

// Options configure the UI.
type Options struct {
	Client bridge.Client
	Bridge bridge.Options
	Logger *zap.Logger
	Now    func() time.Time
	// Theme overrides the palette picked from the terminal background.
	Theme *theme.Theme
	// Debug opens the event pane on start.
	Debug bool
}

// Model is the root Bubble Tea model.
type Model struct {
	log       *zap.Logger
	bus       *events.Bus
	bridge    *bridge.Bridge
	picker    *datepicker.View
	symptoms  *symptoms.Model
	events    *eventviewer.Model
	info      viewport.Model
	help      help.Model
	keys      keyMap
	theme     theme.Theme
	unobserve func()

	focus      pane
	showEvents bool
	width      int
	height     int
	infoWidth  int
	textWidth  int
	// renderedSwaps is the region swap count last rendered into info.
	renderedSwaps int
}

// New wires a bus, the sync bridge and the date picker into a model.
func New(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	var th theme.Theme
	if opts.Theme != nil {
		th = *opts.Theme
	} else {
		th = theme.Detect()
	}

	bopts := opts.Bridge
	if bopts.Logger == nil {
		bopts.Logger = logger
	}
	if bopts.Now == nil {
		bopts.Now = now
	}

	bus := events.NewBus(logger)
	m := &Model{
		log:           logger.Named("tui"),
		bus:           bus,
		bridge:        bridge.New(opts.Client, bus, bopts),
		picker:        datepicker.New(bus, datepicker.WithClock(now)),
		symptoms:      symptoms.New(th.Symptoms),
		events:        eventviewer.NewModel(400, now),
		info:          viewport.New(viewport.WithWidth(1), viewport.WithHeight(calendarRows-1)),
		help:          help.New(),
		keys:          defaultKeys(),
		theme:         th,
		showEvents:    opts.Debug,
		renderedSwaps: -1,
	}
	// Observe after the bridge so its handlers run first on every publish.
	m.unobserve = events.Observe(bus)
	return m
}

// Run starts the program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	if opts.Bridge.Context == nil {
		opts.Bridge.Context = ctx
	}
	m := New(opts)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Close detaches the model from its bus.
func (m *Model) Close() {
	if m.unobserve != nil {
		m.unobserve()
		m.unobserve = nil
	}
	m.bridge.Close()
}

// Bridge exposes the sync bridge, mostly for tests.
func (m *Model) Bridge() *bridge.Bridge { return m.bridge }

// Picker exposes the date picker.
func (m *Model) Picker() *datepicker.View { return m.picker }

// Events exposes the event log.
func (m *Model) Events() *eventviewer.Model { return m.events }

// Init renders the current month, which selects today.
func (m *Model) Init() tea.Cmd {
	return m.picker.Render()
}

// Update routes Bubble Tea messages to the picker, the bridge and the panes.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.events.Observe(msg)

	var cmd tea.Cmd
	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
		m.layout()
	case tea.KeyPressMsg:
		cmd = m.handleKey(v)
	case events.SignalMsg:
	default:
		cmd = m.bridge.Update(msg)
	}

	m.refreshInfo()
	return m, cmd
}

func (m *Model) handleKey(k tea.KeyPressMsg) tea.Cmd {
	switch {
	case key.Matches(k, m.keys.Quit):
		return tea.Quit
	case key.Matches(k, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	case key.Matches(k, m.keys.SwitchPane):
		if m.focus == paneCalendar {
			m.focus = paneSymptoms
		} else {
			m.focus = paneCalendar
		}
		return nil
	case key.Matches(k, m.keys.Reload):
		return m.bridge.Load(m.bridge.CurrentDate())
	case key.Matches(k, m.keys.ToggleDebug):
		m.showEvents = !m.showEvents
		m.layout()
		return nil
	case key.Matches(k, m.keys.PrevMonth):
		return m.picker.Navigate(-1)
	case key.Matches(k, m.keys.NextMonth):
		return m.picker.Navigate(1)
	}

	if m.focus == paneCalendar {
		return m.calendarKey(k)
	}
	return m.symptomKey(k)
}

func (m *Model) calendarKey(k tea.KeyPressMsg) tea.Cmd {
	switch {
	case key.Matches(k, m.keys.Left):
		return m.picker.MoveFocus(-1)
	case key.Matches(k, m.keys.Right):
		return m.picker.MoveFocus(1)
	case key.Matches(k, m.keys.Up):
		return m.picker.MoveFocus(-7)
	case key.Matches(k, m.keys.Down):
		return m.picker.MoveFocus(7)
	case key.Matches(k, m.keys.Select):
		return m.picker.SelectFocused()
	}
	return nil
}

func (m *Model) symptomKey(k tea.KeyPressMsg) tea.Cmd {
	sel := m.bridge.Selection()
	switch {
	case key.Matches(k, m.keys.Left):
		m.symptoms.Move(-1)
	case key.Matches(k, m.keys.Right):
		m.symptoms.Move(1)
	case key.Matches(k, m.keys.Select):
		return m.bridge.ToggleSymptom(m.symptoms.Focused())
	case key.Matches(k, m.keys.Up):
		if v, ok := m.symptoms.Step(sel, 1); ok {
			return m.bridge.PickIntensity(m.symptoms.Focused(), v)
		}
	case key.Matches(k, m.keys.Down):
		if v, ok := m.symptoms.Step(sel, -1); ok {
			return m.bridge.PickIntensity(m.symptoms.Focused(), v)
		}
	case key.Matches(k, m.keys.Intensity):
		v := int(k.String()[0] - '0')
		if v == 0 {
			v = symptom.MaxIntensity
		}
		return m.bridge.PickIntensity(m.symptoms.Focused(), v)
	}
	return nil
}

func (m *Model) layout() {
	calOuter := calendar.Width + m.theme.Panel.Frame.GetHorizontalFrameSize()
	m.infoWidth = max(20, m.width-calOuter-1)
	m.textWidth = max(1, m.infoWidth-m.theme.Panel.Frame.GetHorizontalFrameSize())
	m.info.SetWidth(m.textWidth)
	m.info.SetHeight(calendarRows - 1)
	m.events.SetSize(max(4, m.width), eventRows)
	m.renderedSwaps = -1
}

// refreshInfo re-renders the date-info pane after a swap or a resize.
func (m *Model) refreshInfo() {
	region := m.bridge.Region()
	if region.Swaps() == m.renderedSwaps {
		return
	}
	m.renderedSwaps = region.Swaps()

	if region.Empty() {
		m.info.SetContent(emptyInfo)
		return
	}
	doc, err := region.Doc()
	if err != nil {
		m.log.Warn("render date info", zap.Error(err))
		m.info.SetContent(region.HTML())
		return
	}
	m.info.SetContent(fragment.PlainText(doc, m.textWidth))
	m.info.SetYOffset(0)
}

// View renders the composed UI.
func (m *Model) View() (string, *tea.Cursor) {
	if m.width == 0 {
		return "initializing…", nil
	}
	pt := m.theme.Panel

	calFrame := pt.Frame
	if m.focus == paneCalendar {
		calFrame = pt.ActiveFrame
	}
	copts := calendar.OptionsFrom(m.theme.Calendar)
	copts.ShowFocus = m.focus == paneCalendar
	calBody := lipgloss.JoinVertical(lipgloss.Left,
		pt.Title.Render(m.picker.Title()),
		calendar.Render(m.picker.Cells(), m.picker.Focus(), copts),
	)
	calView := calFrame.Height(calendarRows + calFrame.GetVerticalFrameSize()).Render(calBody)

	infoBody := lipgloss.JoinVertical(lipgloss.Left,
		pt.Title.Render("Date info: "+m.bridge.CurrentDate().String()),
		pt.Body.Render(m.info.View()),
	)
	infoView := pt.Frame.Width(m.infoWidth).Height(calendarRows + pt.Frame.GetVerticalFrameSize()).Render(infoBody)

	symFrame := pt.Frame
	if m.focus == paneSymptoms {
		symFrame = pt.ActiveFrame
	}
	symView := symFrame.Width(max(1, m.width)).Render(
		m.symptoms.View(m.bridge.Selection(), m.focus == paneSymptoms),
	)

	parts := []string{
		lipgloss.JoinHorizontal(lipgloss.Top, calView, " ", infoView),
		symView,
	}
	if m.showEvents {
		parts = append(parts, m.events.View())
	}
	parts = append(parts, m.statusLine(), m.theme.Footer.Help.Render(m.help.View(m.keys)))
	return lipgloss.JoinVertical(lipgloss.Left, parts...), nil
}

func (m *Model) statusLine() string {
	ft := m.theme.Footer
	items := []string{m.bridge.CurrentDate().String()}
	if n := m.bridge.InFlight(); n > 0 {
		items = append(items, fmt.Sprintf("%d in flight", n))
	}
	line := ft.Status.Render(strings.Join(items, " · "))
	if err := m.bridge.LastError(); err != nil {
		line += " " + ft.Error.Render("error: "+err.Error())
	}
	return line
}
