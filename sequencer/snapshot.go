package sequencer

import (
	"stepseq/events"
	"stepseq/tempo"
)

// Row is one channel and its steps as last published
type Row struct {
	ID          events.ChannelID
	Label       string
	Note        uint8
	Volume      float64
	Enabled     bool
	Auditioning bool
	Steps       []bool
}

// Snapshot is a read-only copy of the sequencer state for renderers
type Snapshot struct {
	State         tempo.State
	BPM           int
	TimeSignature tempo.TimeSignature
	Measures      int
	TotalSteps    int
	Step          int
	Rows          []Row
}

// Playing reports whether the tempo clock is running
func (s Snapshot) Playing() bool {
	return s.State == tempo.Playing
}

// Snapshot returns the state as of the last event the sequencer handled.
// Safe to call from any goroutine.
func (s *Sequencer) Snapshot() Snapshot {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()
	return s.snap
}

var refreshOn = []events.Name{
	events.TempoStep,
	events.TempoStarted,
	events.TempoPaused,
	events.TempoStopped,
	events.TempoUpdated,
	events.TempoBeatsPerMeasureChange,
	events.TempoBeatLengthChange,
	events.TempoTotalStepsChange,
	events.TempoMeasuresChange,
	events.ChannelAdded,
	events.ChannelRemoved,
	events.StepToggled,
	events.PatternClear,
	events.TrackToggled,
	events.VolumeChanged,
	events.SampleTry,
	events.SampleReset,
	events.SampleChanged,
	events.LabelUpdated,
}

func (s *Sequencer) subscribeRefresh() {
	s.refreshSubs = make(map[events.Name]events.SubscriptionID, len(refreshOn))
	for _, name := range refreshOn {
		s.refreshSubs[name] = s.bus.Subscribe(name, func(events.Event, any) error {
			s.refresh()
			return nil
		}, events.WithPriority(priorityRefresh))
	}
}

// refresh publishes a new snapshot and wakes the UI. Runs on the loop.
func (s *Sequencer) refresh() {
	snap := Snapshot{
		State:         s.tempo.State(),
		BPM:           s.tempo.BPM(),
		TimeSignature: s.tempo.TimeSignature(),
		Measures:      s.tempo.Measures(),
		TotalSteps:    s.tempo.TotalSteps(),
		Step:          s.tempo.CurrentStep(),
	}
	for _, ch := range s.channels.Channels() {
		snap.Rows = append(snap.Rows, Row{
			ID:          ch.ID(),
			Label:       ch.Label(),
			Note:        ch.Note(),
			Volume:      ch.Volume(),
			Enabled:     ch.Enabled(),
			Auditioning: ch.Auditioning(),
			Steps:       s.pattern.Steps(ch.ID()),
		})
	}

	s.snapMu.Lock()
	s.snap = snap
	s.snapMu.Unlock()

	// Non-blocking send - if channel full, UI will catch up
	select {
	case s.UpdateChan <- struct{}{}:
	default:
	}
}
