package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var bannerGlyphs = map[rune][3]string{
	'A': {"▄▀█", "█▀█", "▀ ▀"},
	'B': {"█▀█", "█▀█", "▀▀▀"},
	'C': {"█▀▀", "█▄▄", "▀▀▀"},
	'D': {"█▀▄", "█ █", "▀▀ "},
	'E': {"█▀▀", "█▀▀", "▀▀▀"},
	'G': {"█▀▀", "█ █", "▀▀▀"},
	'H': {"█ █", "█▀█", "▀ ▀"},
	'R': {"█▀█", "█▀▄", "▀ ▀"},
	'S': {"█▀▀", "▀▀█", "▀▀▀"},
	'T': {"▀█▀", " █ ", " ▀ "},
	'U': {"█ █", "█▄█", "▀▀▀"},
	' ': {" ", " ", " "},
}

// renderBanner draws title in three-row block letters, alternating coral
// and sky per word. Runes without a glyph are dropped.
func renderBanner(title string) string {
	palette := []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("#F47A60")).Bold(true),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true),
	}
	lines := [3][]string{}
	word := 0
	for _, ch := range strings.ToUpper(title) {
		g, ok := bannerGlyphs[ch]
		if !ok {
			continue
		}
		if ch == ' ' {
			word++
		}
		style := palette[word%len(palette)]
		for i := range lines {
			lines[i] = append(lines[i], style.Render(g[i]))
		}
	}
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, strings.Join(l, " "))
	}
	return strings.Join(out, "\n")
}
