package midi

import (
	"math"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Hit is one drum hit on a MIDI channel
type Hit struct {
	Channel  uint8 // 0-15
	Note     uint8
	Velocity uint8
}

// Messages returns the note on and its matching note off. Drum modules
// ignore note length, so the off follows immediately.
func (h Hit) Messages() []gomidi.Message {
	return []gomidi.Message{
		gomidi.NoteOn(h.Channel, h.Note, h.Velocity),
		gomidi.NoteOff(h.Channel, h.Note),
	}
}

// Velocity maps a 0..1 volume to a MIDI velocity
func Velocity(volume float64) uint8 {
	if math.IsNaN(volume) || volume <= 0 {
		return 0
	}
	if volume >= 1 {
		return 127
	}
	return uint8(math.Round(volume * 127))
}
