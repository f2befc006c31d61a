// Package symptoms renders the symptom buttons and the intensity panels of the
// selected symptoms.
package symptoms

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/allergy/pkg/symptom"
	"tableflip.dev/allergy/pkg/tui/theme"
)

// Model tracks keyboard focus over the symptom catalog. The selection itself
// belongs to the bridge and is passed to View.
type Model struct {
	catalog []symptom.Symptom
	focus   int
	styles  theme.SymptomTheme
}

// New returns a pane focused on the first symptom.
func New(styles theme.SymptomTheme) *Model {
	return &Model{catalog: symptom.Catalog(), styles: styles}
}

// Focused returns the symptom under keyboard focus.
func (m *Model) Focused() symptom.Symptom {
	return m.catalog[m.focus]
}

// Move shifts focus by delta, wrapping around the catalog.
func (m *Model) Move(delta int) {
	n := len(m.catalog)
	m.focus = ((m.focus+delta)%n + n) % n
}

// Step returns the intensity reached by moving delta from the focused
// symptom's current intensity, clamped to the valid range. A symptom without
// an intensity starts from the low end.
func (m *Model) Step(sel *symptom.Selection, delta int) (int, bool) {
	r, ok := sel.Get(m.Focused())
	if !ok {
		return 0, false
	}
	v := r.Intensity + delta
	if !r.HasIntensity() {
		v = symptom.MinIntensity
		if delta < 0 {
			v = symptom.MaxIntensity
		}
	}
	v = min(max(v, symptom.MinIntensity), symptom.MaxIntensity)
	return v, true
}

// View renders the button row and, when the container is visible, one
// intensity row per selected symptom.
func (m *Model) View(sel *symptom.Selection, active bool) string {
	buttons := make([]string, 0, len(m.catalog))
	for i, s := range m.catalog {
		style := m.styles.Button
		if sel.Has(s) {
			style = m.styles.ButtonSelected
		}
		if active && i == m.focus {
			style = m.styles.ButtonFocused.Inherit(style)
		}
		buttons = append(buttons, style.Render(s.DisplayName()))
	}
	lines := []string{strings.Join(buttons, " ")}

	if !sel.Visible() {
		return lines[0]
	}
	for _, p := range sel.Panels() {
		lines = append(lines, "", m.styles.PanelTitle.Render(p.Title()), m.renderPanel(p))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderPanel(p symptom.Panel) string {
	cells := make([]string, 0, symptom.MaxIntensity)
	for _, b := range p.Buttons() {
		text := fmt.Sprintf("%2d", b.Value)
		if b.Highlighted {
			cells = append(cells, m.styles.Heat[b.Value-1].Render(text))
			continue
		}
		cells = append(cells, m.styles.Intensity.Render(text))
	}
	return strings.Join(cells, " ")
}
