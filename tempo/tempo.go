// Package tempo owns playback tempo and the step clock. While playing it
// publishes tempo.step at a fixed interval derived from bpm and beat length.
//
// A Tempo is not safe for concurrent use. The sequencer confines it to the
// run loop, and its clock delivers ticks there too.
package tempo

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"stepseq/clock"
	"stepseq/debug"
	"stepseq/events"
)

const (
	MinBPM             = 40
	MaxBPM             = 600
	MinBeatsPerMeasure = 1
	MaxBeatsPerMeasure = 24
	StepsPerWholeNote  = 16 // shortest note we can sequence is a 16th
	MinMeasures        = 1
	MaxMeasures        = 16
)

// Defaults applied by New
const (
	DefaultBPM             = 140
	DefaultBeatsPerMeasure = 4
	DefaultBeatLength      = 4
	DefaultMeasures        = 1
)

// State is the playback state
type State int

const (
	Stopped State = iota
	Paused
	Playing
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Paused:
		return "paused"
	case Playing:
		return "playing"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// TimeSignature is beats per measure over beat length, e.g. 3/8
type TimeSignature struct {
	BeatsPerMeasure int
	BeatLength      int
}

func (ts TimeSignature) String() string {
	return fmt.Sprintf("%d/%d", ts.BeatsPerMeasure, ts.BeatLength)
}

// StepsPerBeat is how many 16th steps make one beat
func (ts TimeSignature) StepsPerBeat() int {
	return int(math.Round(float64(StepsPerWholeNote) / float64(ts.BeatLength)))
}

// Tempo is the step clock. Create it once per process with New.
type Tempo struct {
	bus   *events.Bus
	clock clock.Clock
	log   logrus.FieldLogger

	bpm             int
	beatsPerMeasure int
	beatLength      int
	measures        int
	totalSteps      int
	currentStep     int
	stepInterval    float64 // ms

	state State
	timer clock.Timer
	gen   uint64 // bumped on every cancel; stale callbacks compare against it

	subs map[events.Name]events.SubscriptionID
}

// Option configures a Tempo
type Option func(*Tempo)

// WithClock replaces the real-time clock
func WithClock(c clock.Clock) Option {
	return func(t *Tempo) {
		t.clock = c
	}
}

// WithLogger sets the logger for tick-time failures
func WithLogger(l logrus.FieldLogger) Option {
	return func(t *Tempo) {
		if l != nil {
			t.log = l
		}
	}
}

// New creates a stopped Tempo at 140 bpm, 4/4, one measure. It publishes
// nothing until a setter or transport method is called.
func New(bus *events.Bus, opts ...Option) *Tempo {
	t := &Tempo{
		bus:             bus,
		clock:           clock.Real(),
		log:             debug.Logger().WithField("category", "tempo"),
		bpm:             DefaultBPM,
		beatsPerMeasure: DefaultBeatsPerMeasure,
		beatLength:      DefaultBeatLength,
		measures:        DefaultMeasures,
		currentStep:     -1,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.updateStepInterval()
	t.updateTotalSteps()
	return t
}

// SetBPM rounds and clamps bpm into [MinBPM, MaxBPM] and publishes tempo.updated.
// The new interval applies from the tick after the one already scheduled.
func (t *Tempo) SetBPM(bpm float64) error {
	if err := checkNumber("SetBPM", "bpm", bpm); err != nil {
		return err
	}

	t.bpm = clamp(bpm, MinBPM, MaxBPM)
	t.updateStepInterval()

	return t.bus.Trigger(events.TempoChanged{BPM: t.bpm})
}

// SetTimeSignature sets beats per measure (clamped to [1, 24]) and beat
// length (clamped to [1, 16], then moved to the nearest divisor of 16).
// Both values and the derived interval and length are updated before
// anything is published.
func (t *Tempo) SetTimeSignature(beatsPerMeasure, beatLength float64) error {
	if err := checkNumber("SetTimeSignature", "beatsPerMeasure", beatsPerMeasure); err != nil {
		return err
	}
	if err := checkNumber("SetTimeSignature", "beatLength", beatLength); err != nil {
		return err
	}

	t.beatsPerMeasure = clamp(beatsPerMeasure, MinBeatsPerMeasure, MaxBeatsPerMeasure)
	t.beatLength = NearestIntResultDenominator(StepsPerWholeNote, clamp(beatLength, 1, StepsPerWholeNote))
	prev := t.totalSteps
	t.updateStepInterval()
	t.updateTotalSteps()

	evs := []events.Event{
		events.BeatsPerMeasureChanged{BeatsPerMeasure: t.beatsPerMeasure},
		events.BeatLengthChanged{BeatLength: t.beatLength},
	}
	if t.totalSteps != prev {
		evs = append(evs, events.TotalStepsChanged{TotalSteps: t.totalSteps})
	}
	return t.publish(evs...)
}

// SetMeasures clamps the measure count into [1, 16] and publishes
// tempo.measures.changed, then tempo.totalsteps.change if the length moved.
func (t *Tempo) SetMeasures(measures float64) error {
	if err := checkNumber("SetMeasures", "measures", measures); err != nil {
		return err
	}

	t.measures = clamp(measures, MinMeasures, MaxMeasures)
	prev := t.totalSteps
	t.updateTotalSteps()

	evs := []events.Event{events.MeasuresChanged{Measures: t.measures}}
	if t.totalSteps != prev {
		evs = append(evs, events.TotalStepsChanged{TotalSteps: t.totalSteps})
	}
	return t.publish(evs...)
}

// Play starts or resumes the clock. The first tick runs immediately and
// tempo.started follows it, even when a step listener failed.
func (t *Tempo) Play() error {
	if t.state == Playing {
		return nil
	}
	t.state = Playing
	err := t.tick()
	if startErr := t.bus.Trigger(events.Started{}); err == nil {
		err = startErr
	}
	return err
}

// Pause halts the clock and keeps the current step
func (t *Tempo) Pause() error {
	if t.state != Playing {
		return nil
	}
	t.state = Paused
	t.cancel()
	return t.bus.Trigger(events.Paused{})
}

// Stop halts the clock and rewinds to before the first step
func (t *Tempo) Stop() error {
	if t.state == Stopped {
		return nil
	}
	t.state = Stopped
	t.cancel()
	t.currentStep = -1
	return t.bus.Trigger(events.Stopped{})
}

// Getters

func (t *Tempo) BPM() int { return t.bpm }

func (t *Tempo) TimeSignature() TimeSignature {
	return TimeSignature{BeatsPerMeasure: t.beatsPerMeasure, BeatLength: t.beatLength}
}

func (t *Tempo) Measures() int    { return t.measures }
func (t *Tempo) TotalSteps() int  { return t.totalSteps }
func (t *Tempo) CurrentStep() int { return t.currentStep }
func (t *Tempo) State() State     { return t.state }
func (t *Tempo) IsPlaying() bool  { return t.state == Playing }

// StepIntervalMillis is the time between steps in milliseconds
func (t *Tempo) StepIntervalMillis() float64 { return t.stepInterval }

// StepInterval is the time between steps
func (t *Tempo) StepInterval() time.Duration {
	return time.Duration(t.stepInterval * float64(time.Millisecond))
}

// tick schedules the next tick at the current interval, advances the step
// and publishes it. There is no drift correction; a late timer delays every
// following step.
func (t *Tempo) tick() error {
	gen := t.gen
	t.timer = t.clock.AfterFunc(t.StepInterval(), func() {
		t.onTimer(gen)
	})

	t.currentStep++
	if t.currentStep > t.totalSteps-1 {
		t.currentStep = 0
	}
	debug.LogEvery(t.totalSteps, "tempo", "step %d/%d at %.1fms", t.currentStep, t.totalSteps, t.stepInterval)

	return t.bus.Trigger(events.Step{Step: t.currentStep})
}

func (t *Tempo) onTimer(gen uint64) {
	// A callback queued before Pause/Stop ran must not tick
	if gen != t.gen || t.state != Playing {
		return
	}
	if err := t.tick(); err != nil {
		t.log.WithError(err).WithField("step", t.currentStep).Warn("step listener failed")
	}
}

func (t *Tempo) cancel() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
}

func (t *Tempo) updateStepInterval() {
	t.stepInterval = (60 * 1000 / float64(t.bpm)) / (float64(StepsPerWholeNote) / float64(t.beatLength))
}

func (t *Tempo) updateTotalSteps() {
	t.totalSteps = t.measures * t.beatsPerMeasure * t.TimeSignature().StepsPerBeat()
}

// publish triggers every event in order. State is already consistent, so a
// failing listener does not hold back the rest; the first error is returned.
func (t *Tempo) publish(evs ...events.Event) error {
	var first error
	for _, ev := range evs {
		if err := t.bus.Trigger(ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func clamp(v float64, lo, hi int) int {
	r := math.Round(v)
	if r < float64(lo) {
		return lo
	}
	if r > float64(hi) {
		return hi
	}
	return int(r)
}
