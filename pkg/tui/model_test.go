package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/allergy/pkg/bridge"
	"tableflip.dev/allergy/pkg/calendar"
	"tableflip.dev/allergy/pkg/client"
	"tableflip.dev/allergy/pkg/events"
	"tableflip.dev/allergy/pkg/symptom"
	tuical "tableflip.dev/allergy/pkg/tui/components/calendar"
	"tableflip.dev/allergy/pkg/tui/theme"
)

var march10 = time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)

// fakeService stores records in memory and renders fragments the way the
// server does.
type fakeService struct {
	mu      sync.Mutex
	records map[string]map[symptom.Symptom]int
	fail    error

	fetched []string
	added   []string
	deleted []string
}

func newFakeService() *fakeService {
	return &fakeService{records: map[string]map[symptom.Symptom]int{
		"2024-03-10": {symptom.Sneezing: 6},
	}}
}

func (f *fakeService) render(date calendar.Date) string {
	recs := f.records[date.String()]
	var sb strings.Builder
	fmt.Fprintf(&sb, "<h3>Symptoms for %s</h3>", date.Time(time.UTC).Format("January 2, 2006"))
	if len(recs) == 0 {
		sb.WriteString("<p>No symptoms recorded for this date.</p>")
		return sb.String()
	}
	sb.WriteString(`<div id="stored-symptoms" class="hidden">`)
	for _, s := range symptom.Catalog() {
		if v, ok := recs[s]; ok {
			fmt.Fprintf(&sb, `<div data-symptom="%s" data-intensity="%d"></div>`, s, v)
		}
	}
	sb.WriteString("</div>")
	for _, s := range symptom.Catalog() {
		if v, ok := recs[s]; ok {
			fmt.Fprintf(&sb, "<p>%s: %d</p>", s.DisplayName(), v)
		}
	}
	return sb.String()
}

func (f *fakeService) DateInfo(_ context.Context, date calendar.Date) (*client.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, date.String())
	if f.fail != nil {
		return nil, f.fail
	}
	return &client.Response{Body: f.render(date), Status: 200}, nil
}

func (f *fakeService) AddSymptom(_ context.Context, s symptom.Symptom, v int, date calendar.Date) (*client.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, fmt.Sprintf("%s=%d@%s", s, v, date))
	if f.fail != nil {
		return nil, f.fail
	}
	if f.records[date.String()] == nil {
		f.records[date.String()] = map[symptom.Symptom]int{}
	}
	f.records[date.String()][s] = v
	return &client.Response{
		Body:     f.render(date),
		Status:   200,
		Triggers: []string{events.TriggerSymptomsUpdated},
	}, nil
}

func (f *fakeService) DeleteSymptom(_ context.Context, s symptom.Symptom, date calendar.Date) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, fmt.Sprintf("%s@%s", s, date))
	if f.fail != nil {
		return f.fail
	}
	delete(f.records[date.String()], s)
	return nil
}

func newTestModel(t *testing.T, svc *fakeService, debug bool) *Model {
	t.Helper()
	th := theme.Dark()
	m := New(Options{
		Client: svc,
		Now:    func() time.Time { return march10 },
		Theme:  &th,
		Debug:  debug,
	})
	t.Cleanup(m.Close)

	next, cmd := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = assertModel(t, next)
	m = drainCommands(t, m, cmd)
	return drainCommands(t, m, m.Init())
}

func press(t *testing.T, m *Model, keys ...tea.KeyPressMsg) *Model {
	t.Helper()
	for _, k := range keys {
		next, cmd := m.Update(k)
		m = assertModel(t, next)
		m = drainCommands(t, m, cmd)
	}
	return m
}

func text(s string) tea.KeyPressMsg {
	return tea.KeyPressMsg{Text: s, Code: rune(s[0])}
}

var (
	keyTab   = tea.KeyPressMsg{Code: tea.KeyTab}
	keyRight = tea.KeyPressMsg{Code: tea.KeyRight}
	keyUp    = tea.KeyPressMsg{Code: tea.KeyUp}
	keyEnter = tea.KeyPressMsg{Code: tea.KeyEnter}
	keySpace = tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
)

func TestInitLoadsToday(t *testing.T) {
	svc := newFakeService()
	m := newTestModel(t, svc, false)

	assert.Equal(t, []string{"2024-03-10"}, svc.fetched)
	sel := m.Bridge().Selection()
	require.True(t, sel.Visible())
	assert.Equal(t, []symptom.Record{{Symptom: symptom.Sneezing, Intensity: 6}}, sel.Records())

	view, cursor := m.View()
	assert.Nil(t, cursor)
	for _, want := range []string{"March 2024", tuical.WeekHeader, "Sneezing intensity:", "Symptoms for March 10, 2024"} {
		assert.Contains(t, view, want)
	}
}

func TestViewBeforeResize(t *testing.T) {
	th := theme.Dark()
	m := New(Options{Client: newFakeService(), Theme: &th})
	defer m.Close()
	view, _ := m.View()
	assert.Equal(t, "initializing…", view)
}

func TestCalendarKeysSelectDay(t *testing.T) {
	svc := newFakeService()
	m := newTestModel(t, svc, false)

	m = press(t, m, keyRight)
	assert.Len(t, svc.fetched, 1, "moving focus must not fetch")
	assert.Equal(t, 11, m.Picker().Focus())

	m = press(t, m, keyEnter)
	assert.Equal(t, []string{"2024-03-10", "2024-03-11"}, svc.fetched)
	assert.Equal(t, "2024-03-11", m.Bridge().CurrentDate().String())
	assert.Zero(t, m.Bridge().Selection().Len())

	view, _ := m.View()
	assert.Contains(t, view, "No symptoms recorded for this date.")
}

func TestSymptomPaneStoresIntensity(t *testing.T) {
	svc := newFakeService()
	m := newTestModel(t, svc, false)

	m = press(t, m, keyTab, keyRight, keyRight, keyRight)
	require.Equal(t, symptom.Headache, m.symptoms.Focused())

	m = press(t, m, keySpace)
	assert.Empty(t, svc.added, "selecting a symptom stores nothing")
	assert.True(t, m.Bridge().Selection().Has(symptom.Headache))

	m = press(t, m, text("7"))
	assert.Equal(t, []string{"HEADACHE=7@2024-03-10"}, svc.added)
	assert.Equal(t, []symptom.Record{
		{Symptom: symptom.Sneezing, Intensity: 6},
		{Symptom: symptom.Headache, Intensity: 7},
	}, m.Bridge().Selection().Records())

	m = press(t, m, keyUp)
	assert.Equal(t, "HEADACHE=8@2024-03-10", svc.added[len(svc.added)-1])

	m = press(t, m, text("0"))
	assert.Equal(t, "HEADACHE=10@2024-03-10", svc.added[len(svc.added)-1])

	m = press(t, m, keySpace)
	assert.Equal(t, []string{"HEADACHE@2024-03-10"}, svc.deleted)
	assert.False(t, m.Bridge().Selection().Has(symptom.Headache))
	assert.Zero(t, m.Bridge().InFlight())
}

func TestIntensityIgnoredForUnselectedSymptom(t *testing.T) {
	svc := newFakeService()
	m := newTestModel(t, svc, false)

	m = press(t, m, keyTab, keyRight, text("4"), keyUp)
	assert.Empty(t, svc.added)
	assert.False(t, m.Bridge().Selection().Has(symptom.RunnyNose))
}

func TestMonthNavigation(t *testing.T) {
	svc := newFakeService()
	m := newTestModel(t, svc, false)

	m = press(t, m, text("]"))
	assert.Equal(t, "April 2024", m.Picker().Title())
	assert.Len(t, svc.fetched, 1, "navigation alone does not fetch")

	m = press(t, m, text("["))
	assert.Equal(t, "March 2024", m.Picker().Title())
	assert.Equal(t, []string{"2024-03-10", "2024-03-10"}, svc.fetched, "today is selected again")
}

func TestReloadRefetches(t *testing.T) {
	svc := newFakeService()
	m := newTestModel(t, svc, false)

	svc.records["2024-03-10"][symptom.ItchyEyes] = 2
	m = press(t, m, text("r"))
	assert.Len(t, svc.fetched, 2)
	assert.True(t, m.Bridge().Selection().Has(symptom.ItchyEyes))
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel(t, newFakeService(), false)
	for _, k := range []tea.KeyPressMsg{text("q"), {Code: 'c', Mod: tea.ModCtrl}} {
		_, cmd := m.Update(k)
		require.NotNil(t, cmd)
		_, ok := cmd().(tea.QuitMsg)
		assert.True(t, ok, "key %q", k.String())
	}
}

func TestRequestFailureShownInStatus(t *testing.T) {
	svc := newFakeService()
	svc.fail = errors.New("connection refused")
	m := newTestModel(t, svc, false)

	require.Error(t, m.Bridge().LastError())
	view, _ := m.View()
	assert.Contains(t, view, "connection refused")
	assert.Contains(t, view, emptyInfo)
}

func TestEventPaneLogsSignals(t *testing.T) {
	m := newTestModel(t, newFakeService(), true)

	var summaries []string
	for _, e := range m.Events().Entries() {
		summaries = append(summaries, e.Summary)
	}
	assert.Contains(t, summaries, "DateSelected")
	assert.Contains(t, summaries, "SwapCompleted")
	assert.Contains(t, summaries, "fragment")

	view, _ := m.View()
	assert.Contains(t, view, "Events")

	m = press(t, m, text("e"))
	view, _ = m.View()
	assert.NotContains(t, view, "Events")
}

func TestSettleDelayReconcilesAfterTick(t *testing.T) {
	svc := newFakeService()
	th := theme.Dark()
	m := New(Options{
		Client: svc,
		Bridge: bridge.Options{SettleDelay: time.Millisecond},
		Now:    func() time.Time { return march10 },
		Theme:  &th,
	})
	defer m.Close()

	m = drainCommands(t, m, m.Init())
	assert.True(t, m.Bridge().Selection().Has(symptom.Sneezing))
}

func drainCommands(t *testing.T, m *Model, cmds ...tea.Cmd) *Model {
	t.Helper()
	queue := append([]tea.Cmd(nil), cmds...)
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 1000 {
			t.Fatal("commands did not settle")
		}
		cmd := queue[0]
		queue = queue[1:]
		if cmd == nil {
			continue
		}
		msg := cmd()
		switch v := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, []tea.Cmd(v)...)
		default:
			next, nextCmd := m.Update(v)
			m = assertModel(t, next)
			if nextCmd != nil {
				queue = append(queue, nextCmd)
			}
		}
	}
	return m
}

func assertModel(t *testing.T, model tea.Model) *Model {
	t.Helper()
	m, ok := model.(*Model)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}
	return m
}
