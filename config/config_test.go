package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Southclaws/fault/ftag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stepseq/config"
)

func TestLoadFrom_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "nope.json"))

	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := config.DefaultConfig()
	cfg.Tempo.BPM = 96
	cfg.Output.PortName = "IAC Driver Bus 1"
	cfg.AddChannel(config.ChannelConfig{Label: "rim", Note: 37, Volume: 0.5})

	require.NoError(t, cfg.SaveTo(path))
	loaded, err := config.LoadFrom(path)

	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFrom_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tempo":{"bpm":90}}`), 0644))

	cfg, err := config.LoadFrom(path)

	require.NoError(t, err)
	assert.Equal(t, 90.0, cfg.Tempo.BPM)
	assert.Equal(t, 4.0, cfg.Tempo.BeatLength)
	assert.Equal(t, "gm", cfg.Kit)
}

func TestLoadFrom_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{tempo`), 0644))

	_, err := config.LoadFrom(path)

	require.Error(t, err)
	assert.Equal(t, ftag.InvalidArgument, ftag.Get(err))
}

func TestAddChannel_Updates(t *testing.T) {
	cfg := config.DefaultConfig()
	n := len(cfg.Channels)

	cfg.AddChannel(config.ChannelConfig{Label: "kick", Slot: "low_tom"})

	assert.Len(t, cfg.Channels, n)
	assert.Equal(t, "low_tom", cfg.FindChannel("kick").Slot)
	assert.Nil(t, cfg.FindChannel("cowbell"))
}

func TestMIDIChannel(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.Equal(t, uint8(9), cfg.MIDIChannel())

	cfg.Output.Channel = 0
	assert.Equal(t, uint8(0), cfg.MIDIChannel())
	cfg.Output.Channel = 99
	assert.Equal(t, uint8(15), cfg.MIDIChannel())
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("STEPSEQ_BPM", "128.5")
	t.Setenv("STEPSEQ_BEATS_PER_MEASURE", "3")
	t.Setenv("STEPSEQ_BEAT_LENGTH", "8")
	t.Setenv("STEPSEQ_MEASURES", "2")
	t.Setenv("STEPSEQ_MIDI_PORT", "TR-8S")
	t.Setenv("STEPSEQ_MIDI_CHANNEL", "1")
	t.Setenv("STEPSEQ_KIT", "tr8s")
	t.Setenv("STEPSEQ_DEBUG", "true")
	t.Setenv("STEPSEQ_LOG_EVENTS", "1")

	cfg := config.DefaultConfig()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, config.TempoConfig{BPM: 128.5, BeatsPerMeasure: 3, BeatLength: 8, Measures: 2}, cfg.Tempo)
	assert.Equal(t, config.OutputConfig{PortName: "TR-8S", Channel: 1}, cfg.Output)
	assert.Equal(t, "tr8s", cfg.Kit)
	assert.True(t, cfg.Debug.Enabled)
	assert.True(t, cfg.Debug.LogEvents)
}

func TestApplyEnv_BlankIsUnset(t *testing.T) {
	t.Setenv("STEPSEQ_BPM", "  ")

	cfg := config.DefaultConfig()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, 140.0, cfg.Tempo.BPM)
}

func TestApplyEnv_Invalid(t *testing.T) {
	t.Setenv("STEPSEQ_MEASURES", "lots")

	err := config.DefaultConfig().ApplyEnv()

	require.Error(t, err)
	assert.Equal(t, ftag.InvalidArgument, ftag.Get(err))
}
