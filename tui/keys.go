package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

func Key(help string, keyboardKey ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keyboardKey...), key.WithHelp(keyboardKey[0], help))
}

type keyMap struct {
	PlayPause key.Binding
	Stop      key.Binding
	TempoUp   key.Binding
	TempoDown key.Binding

	BeatsUp     key.Binding
	BeatsDown   key.Binding
	LengthUp    key.Binding
	LengthDown  key.Binding
	MeasureUp   key.Binding
	MeasureDown key.Binding

	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Toggle key.Binding
	Clear  key.Binding

	Mute       key.Binding
	VolumeUp   key.Binding
	VolumeDown key.Binding
	NoteUp     key.Binding
	NoteDown   key.Binding
	NoteKeep   key.Binding
	NoteReset  key.Binding
	Remove     key.Binding
	Add        key.Binding
	Rename     key.Binding

	Confirm key.Binding
	Cancel  key.Binding

	Help key.Binding
	Quit key.Binding
}

var keys = keyMap{
	PlayPause: Key("play/pause", "p"),
	Stop:      Key("stop", "s"),
	TempoUp:   Key("tempo +5", "+", "="),
	TempoDown: Key("tempo -5", "-", "_"),

	BeatsUp:     Key("beats +1", "]"),
	BeatsDown:   Key("beats -1", "["),
	LengthUp:    Key("beat length x2", "}"),
	LengthDown:  Key("beat length /2", "{"),
	MeasureUp:   Key("measures +1", ")"),
	MeasureDown: Key("measures -1", "("),

	Up:     Key("up", "up", "k"),
	Down:   Key("down", "down", "j"),
	Left:   Key("left", "left", "h"),
	Right:  Key("right", "right", "l"),
	Toggle: key.NewBinding(key.WithKeys(" ", "space", "enter"), key.WithHelp("space", "toggle step")),
	Clear:  Key("clear pattern", "c"),

	Mute:       Key("mute", "m"),
	VolumeUp:   Key("volume +", "."),
	VolumeDown: Key("volume -", ","),
	NoteUp:     Key("try note +1", "a"),
	NoteDown:   Key("try note -1", "z"),
	NoteKeep:   Key("keep tried note", "w"),
	NoteReset:  Key("reset note", "r"),
	Remove:     Key("remove channel", "d"),
	Add:        Key("add channel", "n"),
	Rename:     Key("rename channel", "e"),

	Confirm: Key("confirm", "enter"),
	Cancel:  Key("cancel", "esc"),

	Help: Key("help", "?"),
	Quit: Key("quit", "q", "ctrl+c"),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Stop, k.TempoUp, k.TempoDown, k.Toggle, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.Stop, k.TempoUp, k.TempoDown},
		{k.BeatsUp, k.BeatsDown, k.LengthUp, k.LengthDown, k.MeasureUp, k.MeasureDown},
		{k.Up, k.Down, k.Left, k.Right, k.Toggle, k.Clear},
		{k.Mute, k.VolumeUp, k.VolumeDown, k.NoteUp, k.NoteDown, k.NoteKeep, k.NoteReset},
		{k.Add, k.Rename, k.Remove},
		{k.Help, k.Quit},
	}
}
