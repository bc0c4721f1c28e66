// Package sequencer wires the bus, tempo, pattern and channels together and
// runs them on one loop. main creates a single Sequencer and closes it on
// exit; nothing else constructs these components.
package sequencer

import (
	"context"
	"sync"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/sirupsen/logrus"

	"stepseq/channel"
	"stepseq/clock"
	"stepseq/config"
	"stepseq/debug"
	"stepseq/events"
	"stepseq/loop"
	"stepseq/midi"
	"stepseq/pattern"
	"stepseq/tempo"
)

// priorityRefresh runs after every collaborator has handled the event
const priorityRefresh = -100

// Sequencer owns one instance of every component. Bus, Tempo, Pattern and
// Channels must only be touched from the loop, via Do or Dispatch.
type Sequencer struct {
	bus      *events.Bus
	loop     *loop.Loop
	tempo    *tempo.Tempo
	pattern  *pattern.Pattern
	channels *channel.Manager
	out      midi.Output
	log      logrus.FieldLogger

	refreshSubs map[events.Name]events.SubscriptionID

	snapMu sync.RWMutex
	snap   Snapshot

	closeOnce sync.Once

	// Notify TUI of updates
	UpdateChan chan struct{}
}

type options struct {
	clock     clock.Clock
	queueSize int
	log       logrus.FieldLogger
}

type Option func(*options)

// WithClock replaces the real-time clock driving the tempo
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithQueueSize sets how many posted functions the loop buffers
func WithQueueSize(n int) Option {
	return func(o *options) {
		o.queueSize = n
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		o.log = l
	}
}

// New builds and attaches every component, applies the configured tempo
// and creates the configured channels. out may be nil.
func New(cfg *config.Config, out midi.Output, opts ...Option) (*Sequencer, error) {
	o := options{
		clock:     clock.Real(),
		queueSize: 64,
		log:       debug.Logger().WithField("category", "sequencer"),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if out == nil {
		out = midi.NullOutput{}
	}

	s := &Sequencer{
		out:        out,
		log:        o.log,
		loop:       loop.New(o.queueSize),
		UpdateChan: make(chan struct{}, 1),
	}

	s.bus = events.NewBus(events.WithRoot(s), events.WithLogger(o.log.WithField("category", "events")))
	if cfg.Debug.LogEvents {
		s.bus.EnableLogging()
	}
	for _, name := range cfg.Debug.Quiet {
		s.bus.DontLog(events.Name(name))
	}

	s.tempo = tempo.New(s.bus,
		tempo.WithClock(s.loop.Clock(o.clock)),
		tempo.WithLogger(o.log.WithField("category", "tempo")))
	s.pattern = pattern.New(s.bus)
	s.channels = channel.NewManager(s.bus, out,
		channel.WithMIDIChannel(cfg.MIDIChannel()),
		channel.WithKit(cfg.Kit),
		channel.WithLogger(o.log.WithField("category", "channel")))

	s.tempo.Attach()
	s.pattern.Attach()
	s.channels.Attach()
	s.subscribeRefresh()

	if err := s.apply(cfg); err != nil {
		s.detach()
		return nil, err
	}

	s.refresh()
	return s, nil
}

func (s *Sequencer) apply(cfg *config.Config) error {
	if err := s.tempo.SetTimeSignature(cfg.Tempo.BeatsPerMeasure, cfg.Tempo.BeatLength); err != nil {
		return fault.Wrap(err, fmsg.With("apply time signature"))
	}
	if err := s.tempo.SetMeasures(cfg.Tempo.Measures); err != nil {
		return fault.Wrap(err, fmsg.With("apply measures"))
	}
	if err := s.tempo.SetBPM(cfg.Tempo.BPM); err != nil {
		return fault.Wrap(err, fmsg.With("apply bpm"))
	}

	for _, cc := range cfg.Channels {
		var (
			id  events.ChannelID
			err error
		)
		if cc.Slot != "" {
			id, err = s.channels.AddSlot(cc.Label, cc.Slot)
		} else {
			id, err = s.channels.AddChannel(cc.Label, uint8(max(0, min(cc.Note, 127))))
		}
		if err != nil {
			return fault.Wrap(err, fmsg.With("add channel "+cc.Label))
		}

		ch, _ := s.channels.Channel(id)
		if cc.Volume > 0 {
			if err := ch.SetVolume(cc.Volume); err != nil {
				return err
			}
		}
		ch.Toggle(!cc.Muted)
	}
	return nil
}

// Run processes posted work and tempo ticks until ctx is cancelled
func (s *Sequencer) Run(ctx context.Context) error {
	s.log.Info("sequencer running")
	return s.loop.Run(ctx)
}

// Dispatch triggers ev on the loop. onErr, if set, receives the listener
// error and is called on the loop goroutine. It reports false once the
// loop has stopped.
func (s *Sequencer) Dispatch(ev events.Event, onErr func(error)) bool {
	return s.loop.Post(func() {
		if err := s.bus.Trigger(ev); err != nil {
			s.log.WithError(err).WithField("event", ev.EventName()).Debug("dispatch failed")
			if onErr != nil {
				onErr(err)
			}
		}
	})
}

// Do runs f on the loop and waits for it
func (s *Sequencer) Do(ctx context.Context, f func() error) error {
	var ferr error
	if err := s.loop.Call(ctx, func() { ferr = f() }); err != nil {
		return err
	}
	return ferr
}

func (s *Sequencer) Bus() *events.Bus           { return s.bus }
func (s *Sequencer) Tempo() *tempo.Tempo        { return s.tempo }
func (s *Sequencer) Pattern() *pattern.Pattern  { return s.pattern }
func (s *Sequencer) Channels() *channel.Manager { return s.channels }

// Close stops playback, detaches every component and closes the output.
// Call it after Run has returned.
func (s *Sequencer) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if stopErr := s.tempo.Stop(); stopErr != nil {
			s.log.WithError(stopErr).Warn("stop listener failed")
		}
		s.detach()
		err = s.out.Close()
	})
	return err
}

func (s *Sequencer) detach() {
	for name, id := range s.refreshSubs {
		s.bus.Unsubscribe(name, id)
	}
	s.refreshSubs = nil
	s.channels.Detach()
	s.pattern.Detach()
	s.tempo.Detach()
}
