package symptom

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func highlighted(p Panel) []int {
	var out []int
	for _, b := range p.Buttons() {
		if b.Highlighted {
			out = append(out, b.Value)
		}
	}
	return out
}

func TestToggleOnAddsEmptyPanel(t *testing.T) {
	s := NewSelection()
	res, err := s.Toggle(Sneezing)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !res.NowSelected {
		t.Fatal("expected sneezing to be selected")
	}
	panels := s.Panels()
	if len(panels) != 1 || panels[0].Symptom != Sneezing {
		t.Fatalf("panels = %+v", panels)
	}
	if got := len(panels[0].Buttons()); got != 10 {
		t.Fatalf("buttons = %d, want 10", got)
	}
	if h := highlighted(panels[0]); len(h) != 0 {
		t.Fatalf("expected no highlight, got %v", h)
	}
	rec, ok := s.Get(Sneezing)
	if !ok || rec.HasIntensity() {
		t.Fatalf("record = %+v, ok = %v", rec, ok)
	}
	if !s.Visible() {
		t.Fatal("container should be visible")
	}
}

func TestToggleOnOffRestoresContent(t *testing.T) {
	s := NewSelection()
	if err := s.Restore(Record{Symptom: Headache, Intensity: 3}); err != nil {
		t.Fatal(err)
	}
	before := s.Records()

	if _, err := s.Toggle(ItchyEyes); err != nil {
		t.Fatal(err)
	}
	res, err := s.Toggle(ItchyEyes)
	if err != nil {
		t.Fatal(err)
	}
	if res.NowSelected {
		t.Fatal("second toggle should deselect")
	}
	if diff := cmp.Diff(before, s.Records()); diff != "" {
		t.Fatalf("records changed (-before +after):\n%s", diff)
	}
}

func TestToggleOffLastHidesContainer(t *testing.T) {
	s := NewSelection()
	_, _ = s.Toggle(RunnyNose)
	_, _ = s.Toggle(RunnyNose)
	if s.Visible() || s.Len() != 0 {
		t.Fatalf("visible=%v len=%d", s.Visible(), s.Len())
	}
}

func TestSetIntensityReplacesHighlight(t *testing.T) {
	s := NewSelection()
	_, _ = s.Toggle(Sneezing)
	_, _ = s.Toggle(Headache)
	if err := s.SetIntensity(Headache, 2); err != nil {
		t.Fatal(err)
	}
	if err := s.SetIntensity(Sneezing, 4); err != nil {
		t.Fatal(err)
	}
	if err := s.SetIntensity(Sneezing, 9); err != nil {
		t.Fatal(err)
	}

	for _, p := range s.Panels() {
		h := highlighted(p)
		want := map[Symptom][]int{Sneezing: {9}, Headache: {2}}[p.Symptom]
		if diff := cmp.Diff(want, h); diff != "" {
			t.Errorf("%s highlight (-want +got):\n%s", p.Symptom, diff)
		}
	}
}

func TestSetIntensityErrors(t *testing.T) {
	s := NewSelection()
	if err := s.SetIntensity(Sneezing, 5); !errors.Is(err, ErrNotSelected) {
		t.Fatalf("err = %v, want ErrNotSelected", err)
	}
	_, _ = s.Toggle(Sneezing)
	for _, v := range []int{0, 11, -1} {
		if err := s.SetIntensity(Sneezing, v); !errors.Is(err, ErrIntensityRange) {
			t.Fatalf("SetIntensity(%d) err = %v", v, err)
		}
	}
}

func TestToggleUnknown(t *testing.T) {
	s := NewSelection()
	if _, err := s.Toggle(Symptom("COUGH")); !errors.Is(err, ErrUnknownSymptom) {
		t.Fatalf("err = %v", err)
	}
	if s.Len() != 0 {
		t.Fatal("unknown symptom must not be added")
	}
}

func TestRestoreAndReset(t *testing.T) {
	s := NewSelection()
	_ = s.Restore(Record{Symptom: Sneezing, Intensity: 6})
	_ = s.Restore(Record{Symptom: Headache, Intensity: 3})
	_ = s.Restore(Record{Symptom: RunnyNose, Intensity: 42})

	want := map[Symptom]Record{
		Sneezing:  {Symptom: Sneezing, Intensity: 6},
		Headache:  {Symptom: Headache, Intensity: 3},
		RunnyNose: {Symptom: RunnyNose},
	}
	if diff := cmp.Diff(want, s.Map()); diff != "" {
		t.Fatalf("map (-want +got):\n%s", diff)
	}

	_ = s.Restore(Record{Symptom: Sneezing, Intensity: 1})
	if s.Len() != 3 {
		t.Fatalf("restoring twice must not duplicate panels, len = %d", s.Len())
	}
	if rec, _ := s.Get(Sneezing); rec.Intensity != 1 {
		t.Fatalf("sneezing = %+v", rec)
	}

	s.Reset()
	if s.Len() != 0 || s.Visible() || len(s.Panels()) != 0 {
		t.Fatal("reset must clear panels and hide the container")
	}
}

func TestParse(t *testing.T) {
	for _, sym := range Catalog() {
		got, err := Parse(string(sym))
		if err != nil || got != sym {
			t.Fatalf("Parse(%q) = %q, %v", sym, got, err)
		}
	}
	if _, err := Parse("sneezing"); !errors.Is(err, ErrUnknownSymptom) {
		t.Fatalf("identifiers are case sensitive, err = %v", err)
	}
}
