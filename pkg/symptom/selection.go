package symptom

import "fmt"

// Button is one intensity value of a panel.
type Button struct {
	Value       int
	Highlighted bool
}

// Panel is the intensity sub-panel shown for a selected symptom. Highlighted
// is the chosen intensity, or zero when none is highlighted.
type Panel struct {
	Symptom     Symptom
	Highlighted int
}

// Title is the heading rendered above the panel's buttons.
func (p Panel) Title() string {
	return fmt.Sprintf("%s intensity:", p.Symptom.DisplayName())
}

// Buttons returns the ten intensity buttons with at most one highlighted.
func (p Panel) Buttons() []Button {
	out := make([]Button, 0, MaxIntensity)
	for i := MinIntensity; i <= MaxIntensity; i++ {
		out = append(out, Button{Value: i, Highlighted: i == p.Highlighted})
	}
	return out
}

// Record returns the panel as a stored-symptom record.
func (p Panel) Record() Record {
	return Record{Symptom: p.Symptom, Intensity: p.Highlighted}
}

// Toggled is the outcome of Selection.Toggle.
type Toggled struct {
	Symptom     Symptom
	NowSelected bool
}

// Selection is the symptom panel state for the displayed date. A symptom is
// selected exactly when it has a panel: the ordered panel list is the
// membership, so the two cannot diverge.
//
// The zero value is an empty, hidden selection.
type Selection struct {
	panels  []Panel
	visible bool
}

// NewSelection returns an empty, hidden selection.
func NewSelection() *Selection {
	return &Selection{}
}

func (s *Selection) index(sym Symptom) int {
	for i, p := range s.panels {
		if p.Symptom == sym {
			return i
		}
	}
	return -1
}

// Toggle flips the membership of sym. Selecting adds a panel with nothing
// highlighted; deselecting removes the panel and its intensity. The intensity
// container is shown while anything is selected.
func (s *Selection) Toggle(sym Symptom) (Toggled, error) {
	if !sym.Valid() {
		return Toggled{}, fmt.Errorf("toggle: %w: %q", ErrUnknownSymptom, sym)
	}
	res := Toggled{Symptom: sym}
	if i := s.index(sym); i >= 0 {
		s.panels = append(s.panels[:i:i], s.panels[i+1:]...)
	} else {
		s.panels = append(s.panels, Panel{Symptom: sym})
		res.NowSelected = true
	}
	s.visible = len(s.panels) > 0
	return res, nil
}

// SetIntensity highlights v on sym's panel, clearing whatever value that
// panel had highlighted before. Other panels are untouched.
func (s *Selection) SetIntensity(sym Symptom, v int) error {
	if !ValidIntensity(v) {
		return fmt.Errorf("set intensity %d: %w", v, ErrIntensityRange)
	}
	i := s.index(sym)
	if i < 0 {
		return fmt.Errorf("set intensity for %s: %w", sym, ErrNotSelected)
	}
	s.panels[i].Highlighted = v
	return nil
}

// Restore selects the symptom of r with its stored intensity and shows the
// container. An out of range intensity leaves the panel without a highlight.
// Restoring a symptom that already has a panel replaces its highlight.
func (s *Selection) Restore(r Record) error {
	if !r.Symptom.Valid() {
		return fmt.Errorf("restore: %w: %q", ErrUnknownSymptom, r.Symptom)
	}
	p := Panel{Symptom: r.Symptom}
	if ValidIntensity(r.Intensity) {
		p.Highlighted = r.Intensity
	}
	if i := s.index(r.Symptom); i >= 0 {
		s.panels[i] = p
	} else {
		s.panels = append(s.panels, p)
	}
	s.visible = true
	return nil
}

// Reset clears every panel and hides the container.
func (s *Selection) Reset() {
	s.panels = nil
	s.visible = false
}

// SetVisible shows or hides the intensity container.
func (s *Selection) SetVisible(v bool) {
	s.visible = v
}

// Visible reports whether the intensity container is shown.
func (s *Selection) Visible() bool {
	return s.visible
}

// Has reports whether sym is selected.
func (s *Selection) Has(sym Symptom) bool {
	return s.index(sym) >= 0
}

// Get returns the record of sym if it is selected.
func (s *Selection) Get(sym Symptom) (Record, bool) {
	i := s.index(sym)
	if i < 0 {
		return Record{}, false
	}
	return s.panels[i].Record(), true
}

// Len returns the number of selected symptoms.
func (s *Selection) Len() int {
	return len(s.panels)
}

// Panels returns a copy of the panels in the order they were added.
func (s *Selection) Panels() []Panel {
	out := make([]Panel, len(s.panels))
	copy(out, s.panels)
	return out
}

// Records returns the selection as records, in panel order.
func (s *Selection) Records() []Record {
	out := make([]Record, 0, len(s.panels))
	for _, p := range s.panels {
		out = append(out, p.Record())
	}
	return out
}

// Map returns the selection keyed by symptom.
func (s *Selection) Map() map[Symptom]Record {
	out := make(map[Symptom]Record, len(s.panels))
	for _, p := range s.panels {
		out[p.Symptom] = p.Record()
	}
	return out
}
