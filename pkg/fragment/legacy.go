package fragment

import (
	"strings"

	"golang.org/x/net/html"

	"tableflip.dev/allergy/pkg/symptom"
)

// NoSymptomsText is the placeholder line the server renders for a date
// without records.
const NoSymptomsText = "No symptoms recorded"

// legacyNames maps lowercase display name fragments to symptoms. Order
// matters: the first substring match wins.
var legacyNames = []struct {
	name    string
	symptom symptom.Symptom
}{
	{"itchy eyes", symptom.ItchyEyes},
	{"runny nose", symptom.RunnyNose},
	{"sneezing", symptom.Sneezing},
	{"headache", symptom.Headache},
}

// TextLines returns the trimmed text content of every p element of the
// document, empty ones included.
func TextLines(doc *html.Node) []string {
	ps := Elements(doc, "p")
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, strings.TrimSpace(TextContent(p)))
	}
	return out
}

// LegacyResult is what the compatibility parser recovers from free text.
type LegacyResult struct {
	Records []symptom.Record
	// Visible is set as soon as any line looks like content, whether or not
	// a symptom could be read from it.
	Visible bool
}

// ParseLegacyLines reads "Display name: intensity" lines. It exists for
// fragments rendered without #stored-symptoms markers and deliberately keeps
// the loose matching those pages were read with:
//
//   - empty lines and the "No symptoms recorded" placeholder are ignored
//   - every other line makes the container visible
//   - a line must split on ':' into exactly two parts
//   - the name matches by case-insensitive substring, first match wins
//   - an intensity that is not a number leaves the panel unhighlighted
//
// Lines naming no known symptom are skipped.
func ParseLegacyLines(lines []string) LegacyResult {
	var res LegacyResult
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, NoSymptomsText) {
			continue
		}
		res.Visible = true

		parts := strings.Split(line, ":")
		if len(parts) != 2 {
			continue
		}
		s, ok := matchLegacyName(parts[0])
		if !ok {
			continue
		}
		rec := symptom.Record{Symptom: s}
		if v, ok := ParseInt(strings.TrimSpace(parts[1])); ok {
			rec.Intensity = v
		}
		res.Records = append(res.Records, rec)
	}
	return res
}

func matchLegacyName(name string) (symptom.Symptom, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, n := range legacyNames {
		if strings.Contains(name, n.name) {
			return n.symptom, true
		}
	}
	return "", false
}
