// Package tui is the terminal transport console. It never touches the
// sequencer state directly: it renders published snapshots and raises
// ui.* events through the backend.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"stepseq/events"
	"stepseq/sequencer"
	"stepseq/theme"
	"stepseq/widgets"
)

// Backend is the part of the sequencer the console drives
type Backend interface {
	Dispatch(ev events.Event, onErr func(error)) bool
	Snapshot() sequencer.Snapshot
}

const (
	tempoStep  = 5
	volumeStep = 0.1
	newNote    = 36 // GM kick, used when a new channel names no note
)

type prompt int

const (
	promptNone prompt = iota
	promptAdd
	promptRename
)

type Model struct {
	Backend      Backend
	Theme        *theme.Theme
	updates      <-chan struct{}
	errs         chan error
	snap         sequencer.Snapshot
	cursor       widgets.Cursor
	help         help.Model
	input        textinput.Model
	prompt       prompt
	promptRow    events.ChannelID
	currentError error
	quitting     bool
}

type UpdateMsg struct{}

type errorMsg struct {
	err error
}

func NewModel(backend Backend, updates <-chan struct{}, th *theme.Theme) Model {
	h := help.New()
	h.Styles.ShortKey = th.Style(theme.Accent)
	h.Styles.ShortDesc = th.Style(theme.Dim)
	h.Styles.FullKey = h.Styles.ShortKey
	h.Styles.FullDesc = h.Styles.ShortDesc

	return Model{
		Backend: backend,
		Theme:   th,
		updates: updates,
		errs:    make(chan error, 8),
		snap:    backend.Snapshot(),
		help:    h,
		input:   newInput(),
	}
}

func newInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "label [note]"
	ti.CharLimit = 20
	ti.Width = 20
	return ti
}

func ListenForUpdates(updates <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-updates
		return UpdateMsg{}
	}
}

func ListenForErrors(errs <-chan error) tea.Cmd {
	return func() tea.Msg {
		return errorMsg{<-errs}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForUpdates(m.updates),
		ListenForErrors(m.errs),
	)
}

// dispatch raises ev on the sequencer loop. Listener errors come back as
// errorMsg; a full error buffer drops them.
func (m Model) dispatch(ev events.Event) {
	m.Backend.Dispatch(ev, func(err error) {
		select {
		case m.errs <- err:
		default:
		}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.currentError = nil
		if m.prompt != promptNone {
			return m.handlePrompt(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case UpdateMsg:
		m.snap = m.Backend.Snapshot()
		m.clampCursor()
		return m, ListenForUpdates(m.updates)

	case errorMsg:
		m.currentError = msg.err
		return m, ListenForErrors(m.errs)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.snap
	ts := snap.TimeSignature

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		m.dispatch(events.Stop{})
		return m, tea.Quit

	case key.Matches(msg, keys.PlayPause):
		if snap.Playing() {
			m.dispatch(events.Pause{})
		} else {
			m.dispatch(events.Play{})
		}
	case key.Matches(msg, keys.Stop):
		m.dispatch(events.Stop{})
	case key.Matches(msg, keys.TempoUp):
		m.dispatch(events.TempoChange{BPM: float64(snap.BPM + tempoStep)})
	case key.Matches(msg, keys.TempoDown):
		m.dispatch(events.TempoChange{BPM: float64(snap.BPM - tempoStep)})

	case key.Matches(msg, keys.BeatsUp):
		m.dispatch(events.TimeSignatureChange{BeatsPerMeasure: float64(ts.BeatsPerMeasure + 1), BeatLength: float64(ts.BeatLength)})
	case key.Matches(msg, keys.BeatsDown):
		m.dispatch(events.TimeSignatureChange{BeatsPerMeasure: float64(ts.BeatsPerMeasure - 1), BeatLength: float64(ts.BeatLength)})
	case key.Matches(msg, keys.LengthUp):
		m.dispatch(events.TimeSignatureChange{BeatsPerMeasure: float64(ts.BeatsPerMeasure), BeatLength: float64(ts.BeatLength * 2)})
	case key.Matches(msg, keys.LengthDown):
		m.dispatch(events.TimeSignatureChange{BeatsPerMeasure: float64(ts.BeatsPerMeasure), BeatLength: float64(ts.BeatLength / 2)})
	case key.Matches(msg, keys.MeasureUp):
		m.dispatch(events.MeasuresChange{Measures: float64(snap.Measures + 1)})
	case key.Matches(msg, keys.MeasureDown):
		m.dispatch(events.MeasuresChange{Measures: float64(snap.Measures - 1)})

	case key.Matches(msg, keys.Up):
		m.cursor.Row--
		m.clampCursor()
	case key.Matches(msg, keys.Down):
		m.cursor.Row++
		m.clampCursor()
	case key.Matches(msg, keys.Left):
		m.cursor.Step--
		m.clampCursor()
	case key.Matches(msg, keys.Right):
		m.cursor.Step++
		m.clampCursor()
	case key.Matches(msg, keys.Clear):
		m.dispatch(events.ClearPattern{})
	case key.Matches(msg, keys.Add):
		cmd := m.openPrompt(promptAdd, "", "")
		return m, cmd
	case key.Matches(msg, keys.Rename):
		row, ok := m.currentRow()
		if !ok {
			return m, nil
		}
		cmd := m.openPrompt(promptRename, row.ID, row.Label)
		return m, cmd
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	default:
		m.handleRowKey(msg)
	}

	return m, nil
}

// handleRowKey applies keys that act on the channel under the cursor
func (m Model) handleRowKey(msg tea.KeyMsg) {
	row, ok := m.currentRow()
	if !ok {
		return
	}

	switch {
	case key.Matches(msg, keys.Toggle):
		if m.cursor.Step < len(row.Steps) {
			m.dispatch(events.StepToggle{ChannelID: row.ID, Step: m.cursor.Step, On: !row.Steps[m.cursor.Step]})
		}
	case key.Matches(msg, keys.Mute):
		m.dispatch(events.TrackToggle{ChannelID: row.ID, On: !row.Enabled})
	case key.Matches(msg, keys.VolumeUp):
		m.dispatch(events.VolumeChange{ChannelID: row.ID, Volume: row.Volume + volumeStep})
	case key.Matches(msg, keys.VolumeDown):
		m.dispatch(events.VolumeChange{ChannelID: row.ID, Volume: row.Volume - volumeStep})
	case key.Matches(msg, keys.NoteUp):
		if row.Note < 127 {
			m.dispatch(events.NoteTry{ChannelID: row.ID, Note: row.Note + 1})
		}
	case key.Matches(msg, keys.NoteDown):
		if row.Note > 0 {
			m.dispatch(events.NoteTry{ChannelID: row.ID, Note: row.Note - 1})
		}
	case key.Matches(msg, keys.NoteKeep):
		if row.Auditioning {
			m.dispatch(events.NoteChange{ChannelID: row.ID, Note: row.Note})
		}
	case key.Matches(msg, keys.NoteReset):
		m.dispatch(events.NoteReset{ChannelID: row.ID})
	case key.Matches(msg, keys.Remove):
		m.dispatch(events.RemoveChannelRequest{ChannelID: row.ID})
	}
}

func (m *Model) openPrompt(p prompt, row events.ChannelID, value string) tea.Cmd {
	m.prompt = p
	m.promptRow = row
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) closePrompt() {
	m.prompt = promptNone
	m.promptRow = ""
	m.input.Reset()
	m.input.Blur()
}

// handlePrompt feeds keys to the text input until it is confirmed or cancelled
func (m Model) handlePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel):
		m.closePrompt()
		return m, nil
	case key.Matches(msg, keys.Confirm):
		value := strings.TrimSpace(m.input.Value())
		switch m.prompt {
		case promptAdd:
			if label, note, ok := parseNewChannel(value); ok {
				m.dispatch(events.AddChannelRequest{Label: label, Note: note})
			}
		case promptRename:
			if value != "" {
				m.dispatch(events.LabelUpdate{ChannelID: m.promptRow, Label: value})
			}
		}
		m.closePrompt()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// parseNewChannel reads "label [note]"
func parseNewChannel(value string) (string, uint8, bool) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return "", 0, false
	}
	note := uint8(newNote)
	if len(fields) > 1 {
		n, err := strconv.ParseUint(fields[len(fields)-1], 10, 7)
		if err == nil {
			note = uint8(n)
			fields = fields[:len(fields)-1]
		}
	}
	return strings.Join(fields, " "), note, true
}

func (m Model) currentRow() (sequencer.Row, bool) {
	if m.cursor.Row < 0 || m.cursor.Row >= len(m.snap.Rows) {
		return sequencer.Row{}, false
	}
	return m.snap.Rows[m.cursor.Row], true
}

func (m *Model) clampCursor() {
	m.cursor.Row = max(0, min(m.cursor.Row, len(m.snap.Rows)-1))
	m.cursor.Step = max(0, min(m.cursor.Step, m.snap.TotalSteps-1))
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.snap
	th := m.Theme

	headerStyle := th.Style(theme.Accent)
	dim := th.Style(theme.Dim)

	step := "--"
	if snap.Step >= 0 {
		step = fmt.Sprintf("%02d", snap.Step+1)
	}
	header := headerStyle.Render(fmt.Sprintf("stepseq  %3dbpm  %s  x%d  step:%s/%02d",
		snap.BPM, snap.TimeSignature, snap.Measures, step, snap.TotalSteps))

	layout := widgets.Layout{
		StepsPerBeat:    snap.TimeSignature.StepsPerBeat(),
		StepsPerMeasure: snap.TimeSignature.StepsPerBeat() * snap.TimeSignature.BeatsPerMeasure,
	}
	rows := make([]widgets.GridRow, len(snap.Rows))
	for i, r := range snap.Rows {
		rows[i] = widgets.GridRow{Label: r.Label, Steps: r.Steps, Enabled: r.Enabled, Volume: r.Volume}
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("  ")
	out.WriteString(th.State(snap.State).Render(strings.ToUpper(snap.State.String())))
	out.WriteString("\n\n")
	out.WriteString(widgets.RenderRuler(th, snap.TotalSteps, layout))
	out.WriteString("\n")
	if len(rows) == 0 {
		out.WriteString(dim.Render("  no channels"))
	} else {
		out.WriteString(widgets.RenderGrid(th, rows, layout, snap.Step, m.cursor))
	}
	out.WriteString("\n")

	switch row, ok := m.currentRow(); {
	case m.prompt == promptAdd:
		out.WriteString(headerStyle.Render("new channel: ") + m.input.View())
	case m.prompt == promptRename:
		out.WriteString(headerStyle.Render("rename: ") + m.input.View())
	case ok:
		info := fmt.Sprintf("%s  note %d  vol %.0f%%", row.Label, row.Note, row.Volume*100)
		if row.Auditioning {
			info += "  (trying)"
		}
		out.WriteString(dim.Render(info))
	}
	out.WriteString("\n")

	if m.currentError != nil {
		errStyle := th.Style(theme.Hit).Bold(true)
		out.WriteString(errStyle.Render("ERROR: " + errorText(m.currentError)))
	}
	out.WriteString("\n\n")
	out.WriteString(m.help.View(keys))

	return out.String()
}

func errorText(err error) string {
	if issue := fmsg.GetIssue(err); issue != "" {
		return issue
	}
	if chain := fault.Flatten(err); len(chain) > 0 && chain[0].Message != "" {
		return chain[0].Message
	}
	return err.Error()
}
