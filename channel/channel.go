// Package channel turns channel.triggered events into MIDI notes. Each
// channel is one drum voice with its own note and volume.
package channel

import (
	"errors"
	"fmt"
	"math"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"

	"stepseq/events"
	"stepseq/midi"
)

// DefaultVolume is the volume of a new channel
const DefaultVolume = 0.8

// ErrInvalidVolume is returned for volumes that are not finite numbers
var ErrInvalidVolume = errors.New("invalid volume")

// Channel is one drum voice. It is confined to the run loop.
type Channel struct {
	id          events.ChannelID
	label       string
	note        uint8
	tryNote     *uint8
	volume      float64
	enabled     bool
	midiChannel uint8
	out         midi.Output
}

func newChannel(id events.ChannelID, label string, note, midiChannel uint8, out midi.Output) *Channel {
	return &Channel{
		id:          id,
		label:       label,
		note:        min(note, 127),
		volume:      DefaultVolume,
		enabled:     true,
		midiChannel: midiChannel,
		out:         out,
	}
}

func (c *Channel) ID() events.ChannelID { return c.id }
func (c *Channel) Label() string        { return c.label }
func (c *Channel) Volume() float64      { return c.volume }
func (c *Channel) Enabled() bool        { return c.enabled }

// Note is the note the channel plays: the auditioned one if set
func (c *Channel) Note() uint8 {
	if c.tryNote != nil {
		return *c.tryNote
	}
	return c.note
}

// Auditioning reports whether TryNote is overriding the channel note
func (c *Channel) Auditioning() bool {
	return c.tryNote != nil
}

// SetVolume clamps v into [0, 1]
func (c *Channel) SetVolume(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fault.Wrap(ErrInvalidVolume,
			fmsg.WithDesc(fmt.Sprintf("SetVolume: %v is not a finite number", v), "volume must be a number"),
			ftag.With(ftag.InvalidArgument))
	}
	c.volume = math.Max(0, math.Min(v, 1))
	return nil
}

// SetNote replaces the channel note and ends any audition
func (c *Channel) SetNote(n uint8) {
	c.note = min(n, 127)
	c.tryNote = nil
}

// TryNote auditions n: it plays once now and on every trigger until
// ResetNote or SetNote.
func (c *Channel) TryNote(n uint8) error {
	n = min(n, 127)
	c.tryNote = &n
	return c.send()
}

// ResetNote ends an audition
func (c *Channel) ResetNote() {
	c.tryNote = nil
}

func (c *Channel) SetLabel(label string) {
	c.label = label
}

// Toggle mutes (false) or unmutes (true) the channel
func (c *Channel) Toggle(on bool) {
	c.enabled = on
}

// Trigger sounds the channel, or does nothing while it is muted
func (c *Channel) Trigger() error {
	if !c.enabled {
		return nil
	}
	return c.send()
}

func (c *Channel) send() error {
	hit := midi.Hit{Channel: c.midiChannel, Note: c.Note(), Velocity: midi.Velocity(c.volume)}
	if err := midi.SendHit(c.out, hit); err != nil {
		return fault.Wrap(err, fmsg.With(fmt.Sprintf("trigger channel %q", c.label)))
	}
	return nil
}
