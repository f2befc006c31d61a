package theme

import (
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Footer   FooterTheme
	Panel    PanelTheme
	Calendar CalendarTheme
	Symptoms SymptomTheme
}

// FooterTheme groups styles used by the bottom status line.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
}

// PanelTheme styles framed panes and headings.
type PanelTheme struct {
	Frame       lipgloss.Style
	ActiveFrame lipgloss.Style
	Title       lipgloss.Style
	Body        lipgloss.Style
}

// CalendarTheme styles the month grid.
type CalendarTheme struct {
	Header   lipgloss.Style
	Day      lipgloss.Style
	Blank    lipgloss.Style
	Today    lipgloss.Style
	Selected lipgloss.Style
	Focused  lipgloss.Style
}

// SymptomTheme styles the symptom buttons and intensity rows.
type SymptomTheme struct {
	Button         lipgloss.Style
	ButtonSelected lipgloss.Style
	ButtonFocused  lipgloss.Style
	PanelTitle     lipgloss.Style
	Intensity      lipgloss.Style
	// Heat colors intensities 1 through 10.
	Heat [10]lipgloss.Style
}

// Detect picks the dark or light palette from the terminal background.
func Detect() Theme {
	if termenv.HasDarkBackground() {
		return Dark()
	}
	return Light()
}

// Dark returns the palette for dark terminals.
func Dark() Theme {
	return build(palette{
		accent: "63", muted: "241", text: "252", blank: "238", frame: "240",
		selectedFg: "0", buttonBg: "236", selectedBg: "39",
	})
}

// Light returns the palette for light terminals.
func Light() Theme {
	return build(palette{
		accent: "57", muted: "245", text: "235", blank: "252", frame: "250",
		selectedFg: "15", buttonBg: "254", selectedBg: "27",
	})
}

type palette struct {
	accent, muted, text, blank, frame string
	selectedFg, buttonBg, selectedBg  string
}

func build(p palette) Theme {
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(p.frame)).
		Padding(0, 1)

	button := lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.text)).
		Background(lipgloss.Color(p.buttonBg)).
		Padding(0, 1)

	return Theme{
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.muted)),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color(p.muted)),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
		},
		Panel: PanelTheme{
			Frame:       frame,
			ActiveFrame: frame.BorderForeground(lipgloss.Color(p.accent)),
			Title:       lipgloss.NewStyle().Bold(true),
			Body:        lipgloss.NewStyle().Foreground(lipgloss.Color(p.text)),
		},
		Calendar: CalendarTheme{
			Header:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.muted)).Bold(true),
			Day:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.text)),
			Blank:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.blank)),
			Today:    lipgloss.NewStyle().Underline(true).Bold(true),
			Selected: lipgloss.NewStyle().Background(lipgloss.Color(p.accent)).Foreground(lipgloss.Color(p.selectedFg)),
			Focused:  lipgloss.NewStyle().Reverse(true),
		},
		Symptoms: SymptomTheme{
			Button:         button,
			ButtonSelected: button.Background(lipgloss.Color(p.selectedBg)).Foreground(lipgloss.Color(p.selectedFg)),
			ButtonFocused:  lipgloss.NewStyle().Underline(true).Bold(true),
			PanelTitle:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.muted)),
			Intensity:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.muted)),
			Heat:           heat(p.selectedFg),
		},
	}
}

// heat blends green to red across the ten intensities.
func heat(fg string) [10]lipgloss.Style {
	from, _ := colorful.Hex("#4CAF50")
	mid, _ := colorful.Hex("#FFC107")
	to, _ := colorful.Hex("#F44336")

	var out [10]lipgloss.Style
	for i := range out {
		t := float64(i) / 9
		var c colorful.Color
		if t < 0.5 {
			c = from.BlendLab(mid, t*2)
		} else {
			c = mid.BlendLab(to, (t-0.5)*2)
		}
		out[i] = lipgloss.NewStyle().
			Background(lipgloss.Color(c.Clamped().Hex())).
			Foreground(lipgloss.Color(fg)).
			Bold(true)
	}
	return out
}
