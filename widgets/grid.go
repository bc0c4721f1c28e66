package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"stepseq/theme"
)

const (
	labelWidth = 8 // column reserved for channel labels
	meterWidth = 8
)

// GridRow is one channel line of the step grid
type GridRow struct {
	Label   string
	Steps   []bool
	Enabled bool
	Volume  float64
}

// Cursor marks the edit position; Row -1 hides it
type Cursor struct {
	Row  int
	Step int
}

// Layout is how steps group into beats and measures
type Layout struct {
	StepsPerBeat    int
	StepsPerMeasure int
}

func (l Layout) gap(step int) string {
	if step == 0 || l.StepsPerBeat <= 0 || step%l.StepsPerBeat != 0 {
		return ""
	}
	if l.StepsPerMeasure > 0 && step%l.StepsPerMeasure == 0 {
		return "  "
	}
	return " "
}

// RenderRuler renders the beat/measure ruler above the grid
func RenderRuler(th *theme.Theme, total int, layout Layout) string {
	dim := th.Style(theme.Dim)
	strong := th.Style(theme.Text)

	var out strings.Builder
	out.WriteString(strings.Repeat(" ", labelWidth+1))
	for step := 0; step < total; step++ {
		out.WriteString(layout.gap(step))
		switch {
		case layout.StepsPerMeasure > 0 && step%layout.StepsPerMeasure == 0:
			out.WriteString(strong.Render(string(th.Glyphs.Measure)))
		case layout.StepsPerBeat > 0 && step%layout.StepsPerBeat == 0:
			out.WriteString(strong.Render(string(th.Glyphs.Beat)))
		default:
			out.WriteString(dim.Render(string(th.Glyphs.Tick)))
		}
	}
	return out.String()
}

// RenderGrid renders one line per channel: label, steps, then a volume meter
func RenderGrid(th *theme.Theme, rows []GridRow, layout Layout, playhead int, cursor Cursor) string {
	labelStyle := th.Style(theme.Text).Width(labelWidth)
	mutedLabel := th.Style(theme.Dim).Width(labelWidth).Strikethrough(true)

	var lines []string
	for r, row := range rows {
		var line strings.Builder
		if row.Enabled {
			line.WriteString(labelStyle.Render(truncate(row.Label, labelWidth)))
		} else {
			line.WriteString(mutedLabel.Render(truncate(row.Label, labelWidth)))
		}
		line.WriteString(" ")

		for step, on := range row.Steps {
			line.WriteString(layout.gap(step))
			onCursor := cursor.Row == r && cursor.Step == step
			line.WriteString(renderStep(th, on, row.Enabled, step == playhead, onCursor))
		}

		line.WriteString("  ")
		line.WriteString(RenderMeter(th, row.Volume, meterWidth))
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

func renderStep(th *theme.Theme, on, enabled, playhead, cursor bool) string {
	g := th.Glyphs
	var (
		r    rune
		role theme.Role
	)
	switch {
	case cursor && on:
		r, role = g.CursorOn, theme.Cursor
	case cursor && playhead:
		r, role = g.CursorPlayhead, theme.Cursor
	case cursor:
		r, role = g.CursorOff, theme.Cursor
	case on && !enabled:
		r, role = g.Muted, theme.Dim
	case on && playhead:
		r, role = g.On, theme.Highlight
	case on:
		r, role = g.On, theme.Hit
	case playhead:
		r, role = g.Playhead, theme.Accent
	default:
		r, role = g.Off, theme.Dim
	}
	return th.Style(role).Render(string(r))
}

// RenderMeter renders a 0-1 level as width cells shaded along the palette
func RenderMeter(th *theme.Theme, v float64, width int) string {
	filled := int(v*float64(width) + 0.5)
	empty := th.Style(theme.Dim).Render(string(th.Glyphs.Empty))

	var out strings.Builder
	for i := 0; i < width; i++ {
		if i >= filled {
			out.WriteString(empty)
			continue
		}
		cell := lipgloss.NewStyle().Foreground(th.Gradient(float64(i) / float64(width)))
		out.WriteString(cell.Render(string(th.Glyphs.Level)))
	}
	return out.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
