// Package symptom defines the tracked allergy symptoms and the in-memory
// selection state of the symptom panel for the displayed date.
package symptom

import (
	"errors"
	"fmt"
	"strings"
)

// Symptom identifies a tracked symptom. The value is the identifier the
// server uses in forms and markers.
type Symptom string

const (
	Sneezing  Symptom = "SNEEZING"
	RunnyNose Symptom = "RUNNY_NOSE"
	ItchyEyes Symptom = "ITCHY_EYES"
	Headache  Symptom = "HEADACHE"
)

// Intensity bounds. Zero means no intensity has been chosen yet.
const (
	MinIntensity = 1
	MaxIntensity = 10
)

var (
	// ErrUnknownSymptom is returned for identifiers outside the catalog.
	ErrUnknownSymptom = errors.New("unknown symptom")
	// ErrNotSelected is returned when an intensity is set for a symptom that
	// has no panel.
	ErrNotSelected = errors.New("symptom not selected")
	// ErrIntensityRange is returned for intensities outside 1..10.
	ErrIntensityRange = errors.New("intensity out of range")
)

var displayNames = map[Symptom]string{
	Sneezing:  "Sneezing",
	RunnyNose: "Runny nose",
	ItchyEyes: "Itchy eyes",
	Headache:  "Headache",
}

// Catalog returns the symptom buttons in display order.
func Catalog() []Symptom {
	return []Symptom{Sneezing, RunnyNose, ItchyEyes, Headache}
}

// Parse validates a symptom identifier. Matching is exact, as it is for the
// data-symptom attribute of the buttons.
func Parse(id string) (Symptom, error) {
	s := Symptom(strings.TrimSpace(id))
	if _, ok := displayNames[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSymptom, id)
	}
	return s, nil
}

// Valid reports whether s is part of the catalog.
func (s Symptom) Valid() bool {
	_, ok := displayNames[s]
	return ok
}

// DisplayName returns the label shown on the symptom button.
func (s Symptom) DisplayName() string {
	if name, ok := displayNames[s]; ok {
		return name
	}
	return string(s)
}

// String implements fmt.Stringer.
func (s Symptom) String() string { return string(s) }

// ValidIntensity reports whether v is a selectable intensity.
func ValidIntensity(v int) bool {
	return v >= MinIntensity && v <= MaxIntensity
}

// Record is the cached copy of one stored symptom for the displayed date.
type Record struct {
	Symptom   Symptom `json:"symptom"`
	Intensity int     `json:"intensity,omitempty"`
}

// HasIntensity reports whether an intensity has been chosen.
func (r Record) HasIntensity() bool {
	return ValidIntensity(r.Intensity)
}
