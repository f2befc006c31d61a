package symptoms

import (
	"testing"

	"tableflip.dev/allergy/pkg/symptom"
	"tableflip.dev/allergy/pkg/tui/theme"
)

func TestMoveWraps(t *testing.T) {
	m := New(theme.Dark().Symptoms)
	m.Move(-1)
	if got := m.Focused(); got != symptom.Headache {
		t.Fatalf("Move(-1) from first = %s, want HEADACHE", got)
	}
	m.Move(2)
	if got := m.Focused(); got != symptom.RunnyNose {
		t.Fatalf("Move(2) = %s, want RUNNY_NOSE", got)
	}
}

func TestStep(t *testing.T) {
	m := New(theme.Dark().Symptoms)
	sel := symptom.NewSelection()

	if _, ok := m.Step(sel, 1); ok {
		t.Fatal("step on unselected symptom must fail")
	}

	if _, err := sel.Toggle(symptom.Sneezing); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name    string
		current int
		delta   int
		want    int
	}{
		{"unset up starts low", 0, 1, 1},
		{"unset down starts high", 0, -1, 10},
		{"up", 4, 1, 5},
		{"clamped high", 10, 1, 10},
		{"clamped low", 1, -1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.current > 0 {
				if err := sel.SetIntensity(symptom.Sneezing, tt.current); err != nil {
					t.Fatal(err)
				}
			} else {
				sel.Reset()
				if _, err := sel.Toggle(symptom.Sneezing); err != nil {
					t.Fatal(err)
				}
			}
			got, ok := m.Step(sel, tt.delta)
			if !ok || got != tt.want {
				t.Fatalf("Step(%d) = %d, %v; want %d", tt.delta, got, ok, tt.want)
			}
		})
	}
}
