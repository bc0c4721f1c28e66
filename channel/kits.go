package channel

import "strings"

// Kit maps the 16 drum slots to the notes one drum machine listens on
type Kit struct {
	Name  string
	Notes [16]uint8
}

// SlotNames lists the drum slots in kit order
var SlotNames = [16]string{
	"kick", "snare", "closed_hh", "open_hh",
	"low_tom", "mid_tom", "high_tom", "crash",
	"ride", "clap", "rimshot", "cowbell",
	"clave", "maracas", "low_conga", "high_conga",
}

// DefaultKit is used when the configured kit is unknown
const DefaultKit = "gm"

var kits = map[string]Kit{
	"gm": {
		Name:  "General MIDI",
		Notes: [16]uint8{36, 38, 42, 46, 41, 43, 45, 49, 51, 39, 37, 56, 75, 70, 64, 63},
	},
	// RD-8 puts the snare on 40, not 38
	"rd8": {
		Name:  "Behringer RD-8",
		Notes: [16]uint8{36, 40, 42, 46, 45, 48, 50, 49, 51, 39, 37, 56, 75, 70, 64, 63},
	},
	"tr8s": {
		Name:  "Roland TR-8S",
		Notes: [16]uint8{36, 38, 42, 46, 41, 43, 45, 49, 51, 39, 37, 56, 75, 70, 62, 63},
	},
	// ER-1 only has ten parts; the last six slots are placeholders
	"er1": {
		Name:  "Korg ER-1",
		Notes: [16]uint8{36, 38, 42, 46, 40, 41, 43, 49, 45, 39, 37, 56, 75, 70, 64, 63},
	},
}

// KitNames returns the available kit names
func KitNames() []string {
	return []string{"gm", "rd8", "tr8s", "er1"}
}

// GetKit returns a kit by name, falling back to General MIDI
func GetKit(name string) Kit {
	if kit, ok := kits[strings.ToLower(name)]; ok {
		return kit
	}
	return kits[DefaultKit]
}

// Slot returns the note for a slot name such as "kick" or "open_hh"
func (k Kit) Slot(name string) (uint8, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, slot := range SlotNames {
		if slot == name {
			return k.Notes[i], true
		}
	}
	return 0, false
}
