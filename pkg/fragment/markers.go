package fragment

import (
	"golang.org/x/net/html"
)

// StoredSymptomsID is the id of the hidden container carrying one marker
// element per stored symptom record.
const StoredSymptomsID = "stored-symptoms"

// Marker is a stored symptom record as carried by the fragment:
// <div data-symptom="SNEEZING" data-intensity="6"></div>.
type Marker struct {
	// Symptom is the raw data-symptom value. It is not validated here.
	Symptom string
	// Intensity is the parsed data-intensity, or 0 when it is not a number.
	Intensity int
}

// StoredMarkers returns the direct div children of #stored-symptoms in
// document order. A missing container yields no markers.
func StoredMarkers(doc *html.Node) []Marker {
	container := ByID(doc, StoredSymptomsID)
	if container == nil {
		return nil
	}
	var out []Marker
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "div" {
			continue
		}
		m := Marker{Symptom: attr(c, "data-symptom")}
		if v, ok := ParseInt(attr(c, "data-intensity")); ok {
			m.Intensity = v
		}
		out = append(out, m)
	}
	return out
}

// ParseInt reads a base 10 integer the lenient way browsers do: leading
// whitespace and an optional sign are skipped, then as many digits as
// follow are taken. Anything after the digits is ignored. ok is false when
// no digit is found.
func ParseInt(s string) (v int, ok bool) {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		if v < 1<<30 {
			v = v*10 + int(s[i]-'0')
		}
		i++
	}
	if i == start {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
