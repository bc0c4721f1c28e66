// Package theme maps a palette onto the colors and glyphs of the console.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"stepseq/tempo"
)

// Role is a palette position the console draws with
type Role float64

const (
	Dim       Role = 0.2
	Text      Role = 0.4
	Accent    Role = 0.5
	Cursor    Role = 0.6
	Hit       Role = 0.7
	Alert     Role = 0.8
	Highlight Role = 1.0
)

// Glyphs are the runes of the step grid, its ruler and the volume meter
type Glyphs struct {
	Off      rune // · empty step
	On       rune // ● hit
	Muted    rune // ○ hit on a muted channel
	Playhead rune // ▶ current step, empty

	CursorOff      rune // ○
	CursorOn       rune // ◉
	CursorPlayhead rune // ▷

	Measure rune // █ first step of a measure
	Beat    rune // ┃ first step of a beat
	Tick    rune // ╵

	Level rune // ■ filled meter cell
	Empty rune // · unfilled meter cell
}

type Theme struct {
	Palette *Palette
	Glyphs  Glyphs
}

// New builds a theme over palette, or Plasma when palette has no colors
func New(palette *Palette) *Theme {
	if palette == nil || len(palette.Colors) == 0 {
		palette = Plasma()
	}
	return &Theme{
		Palette: palette,
		Glyphs: Glyphs{
			Off:      '·',
			On:       '●',
			Muted:    '○',
			Playhead: '▶',

			CursorOff:      '○',
			CursorOn:       '◉',
			CursorPlayhead: '▷',

			Measure: '█',
			Beat:    '┃',
			Tick:    '╵',

			Level: '■',
			Empty: '·',
		},
	}
}

func (t *Theme) Color(r Role) lipgloss.Color {
	return t.Gradient(float64(r))
}

func (t *Theme) Style(r Role) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Color(r))
}

// Gradient is the color at v along the whole palette
func (t *Theme) Gradient(v float64) lipgloss.Color {
	return lipgloss.Color(t.Palette.At(v).Hex())
}

// State styles the transport label
func (t *Theme) State(s tempo.State) lipgloss.Style {
	switch s {
	case tempo.Playing:
		return t.Style(Highlight).Bold(true)
	case tempo.Paused:
		return t.Style(Alert)
	}
	return t.Style(Dim)
}
