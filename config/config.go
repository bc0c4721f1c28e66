package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

// TempoConfig is the tempo applied at startup. Values go through the same
// clamping as the transport controls.
type TempoConfig struct {
	BPM             float64 `json:"bpm"`
	BeatsPerMeasure float64 `json:"beatsPerMeasure"`
	BeatLength      float64 `json:"beatLength"`
	Measures        float64 `json:"measures"`
}

// OutputConfig selects the MIDI output
type OutputConfig struct {
	PortName string `json:"portName,omitempty"` // empty: no output
	Channel  int    `json:"channel"`            // 1-16
}

// ChannelConfig is one drum voice created at startup. Slot names a kit
// slot; Note is used when Slot is empty.
type ChannelConfig struct {
	Label  string  `json:"label"`
	Slot   string  `json:"slot,omitempty"`
	Note   int     `json:"note,omitempty"`
	Volume float64 `json:"volume,omitempty"`
	Muted  bool    `json:"muted,omitempty"`
}

// DebugConfig controls the debug log
type DebugConfig struct {
	Enabled   bool     `json:"enabled,omitempty"`
	LogEvents bool     `json:"logEvents,omitempty"`
	Quiet     []string `json:"quiet,omitempty"` // event names left out of the event trace
}

// Config is the main configuration structure
type Config struct {
	Tempo    TempoConfig     `json:"tempo"`
	Output   OutputConfig    `json:"output"`
	Kit      string          `json:"kit,omitempty"`
	Channels []ChannelConfig `json:"channels,omitempty"`
	Palette  string          `json:"palette,omitempty"` // .gpl file; empty uses the built-in palette
	Debug    DebugConfig     `json:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Tempo: TempoConfig{
			BPM:             140,
			BeatsPerMeasure: 4,
			BeatLength:      4,
			Measures:        1,
		},
		Output: OutputConfig{
			Channel: 10,
		},
		Kit: "gm",
		Channels: []ChannelConfig{
			{Label: "kick", Slot: "kick"},
			{Label: "clap", Slot: "clap"},
			{Label: "hat", Slot: "closed_hh"},
			{Label: "snare", Slot: "snare"},
		},
		Debug: DebugConfig{
			Quiet: []string{"tempo.step"},
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "stepseq"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. A missing file yields the defaults;
// fields absent from the file keep their default values.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fault.Wrap(err, fmsg.With("read config"))
	}

	// json merges array elements into existing ones, so decode channels fresh
	defaults := cfg.Channels
	cfg.Channels = nil
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fault.Wrap(err,
			fmsg.WithDesc("parse config", fmt.Sprintf("%s is not valid JSON", path)),
			ftag.With(ftag.InvalidArgument))
	}
	if cfg.Channels == nil {
		cfg.Channels = defaults
	}
	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to path, creating its directory
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fault.Wrap(err, fmsg.With("create config dir"))
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// FindChannel finds a channel config by label
func (c *Config) FindChannel(label string) *ChannelConfig {
	for i := range c.Channels {
		if c.Channels[i].Label == label {
			return &c.Channels[i]
		}
	}
	return nil
}

// AddChannel adds or updates a channel config
func (c *Config) AddChannel(ch ChannelConfig) {
	if existing := c.FindChannel(ch.Label); existing != nil {
		*existing = ch
		return
	}
	c.Channels = append(c.Channels, ch)
}

// MIDIChannel returns the 0-based output channel
func (c *Config) MIDIChannel() uint8 {
	return uint8(max(1, min(c.Output.Channel, 16)) - 1)
}

// ApplyEnv overlays STEPSEQ_* environment variables onto the config
func (c *Config) ApplyEnv() error {
	floats := []struct {
		key string
		dst *float64
	}{
		{"STEPSEQ_BPM", &c.Tempo.BPM},
		{"STEPSEQ_BEATS_PER_MEASURE", &c.Tempo.BeatsPerMeasure},
		{"STEPSEQ_BEAT_LENGTH", &c.Tempo.BeatLength},
		{"STEPSEQ_MEASURES", &c.Tempo.Measures},
	}
	for _, f := range floats {
		v, ok := lookup(f.key)
		if !ok {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return envError(f.key, v, err)
		}
		*f.dst = n
	}

	if v, ok := lookup("STEPSEQ_MIDI_PORT"); ok {
		c.Output.PortName = v
	}
	if v, ok := lookup("STEPSEQ_MIDI_CHANNEL"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envError("STEPSEQ_MIDI_CHANNEL", v, err)
		}
		c.Output.Channel = n
	}
	if v, ok := lookup("STEPSEQ_KIT"); ok {
		c.Kit = v
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"STEPSEQ_DEBUG", &c.Debug.Enabled},
		{"STEPSEQ_LOG_EVENTS", &c.Debug.LogEvents},
	}
	for _, b := range bools {
		v, ok := lookup(b.key)
		if !ok {
			continue
		}
		on, err := strconv.ParseBool(v)
		if err != nil {
			return envError(b.key, v, err)
		}
		*b.dst = on
	}

	return nil
}

// lookup treats blank values as unset
func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func envError(key, value string, err error) error {
	return fault.Wrap(err,
		fmsg.WithDesc(fmt.Sprintf("parse %s=%q", key, value), fmt.Sprintf("%s has an invalid value", key)),
		ftag.With(ftag.InvalidArgument))
}
