package channel

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"stepseq/debug"
	"stepseq/events"
	"stepseq/midi"
)

// Manager owns the channels, in the order they were added
type Manager struct {
	bus         *events.Bus
	out         midi.Output
	kit         Kit
	midiChannel uint8
	log         logrus.FieldLogger

	channels []*Channel
	byID     map[events.ChannelID]*Channel

	subs map[events.Name]events.SubscriptionID
}

type Option func(*Manager)

// WithMIDIChannel sets the 0-based MIDI channel new channels send on
func WithMIDIChannel(ch uint8) Option {
	return func(m *Manager) {
		m.midiChannel = min(ch, 15)
	}
}

// WithKit sets the kit used to resolve slot names
func WithKit(name string) Option {
	return func(m *Manager) {
		m.kit = GetKit(name)
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

func NewManager(bus *events.Bus, out midi.Output, opts ...Option) *Manager {
	if out == nil {
		out = midi.NullOutput{}
	}
	m := &Manager{
		bus:         bus,
		out:         out,
		kit:         GetKit(DefaultKit),
		midiChannel: 9, // GM percussion
		log:         debug.Logger().WithField("category", "channel"),
		byID:        make(map[events.ChannelID]*Channel),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Kit is the kit slot names resolve against
func (m *Manager) Kit() Kit {
	return m.kit
}

// AddChannel creates a channel and publishes channel.added
func (m *Manager) AddChannel(label string, note uint8) (events.ChannelID, error) {
	id := events.ChannelID(uuid.NewString())
	ch := newChannel(id, label, note, m.midiChannel, m.out)
	m.channels = append(m.channels, ch)
	m.byID[id] = ch

	m.log.WithFields(logrus.Fields{"id": id, "label": label, "note": ch.note}).Debug("channel added")
	return id, m.bus.Trigger(events.ChannelAdd{ChannelID: id})
}

// AddSlot creates a channel playing the kit's note for slot
func (m *Manager) AddSlot(label, slot string) (events.ChannelID, error) {
	note, ok := m.kit.Slot(slot)
	if !ok {
		note, _ = m.kit.Slot("kick")
		m.log.WithField("slot", slot).Warn("unknown kit slot, using kick")
	}
	return m.AddChannel(label, note)
}

// RemoveChannel deletes the channel and publishes channel.removed. Unknown
// IDs are ignored.
func (m *Manager) RemoveChannel(id events.ChannelID) error {
	if _, ok := m.byID[id]; !ok {
		return nil
	}
	delete(m.byID, id)
	for i, ch := range m.channels {
		if ch.id == id {
			m.channels = append(m.channels[:i], m.channels[i+1:]...)
			break
		}
	}

	m.log.WithField("id", id).Debug("channel removed")
	return m.bus.Trigger(events.ChannelRemove{ChannelID: id})
}

func (m *Manager) Channel(id events.ChannelID) (*Channel, bool) {
	ch, ok := m.byID[id]
	return ch, ok
}

// Channels returns the channels in insertion order
func (m *Manager) Channels() []*Channel {
	out := make([]*Channel, len(m.channels))
	copy(out, m.channels)
	return out
}

// Attach subscribes the manager to the channel editing events and to
// channel.triggered, ahead of any default-priority listener.
func (m *Manager) Attach() {
	if m.subs != nil {
		return
	}

	m.subs = m.bus.SubscribeMap(map[events.Name]events.Handler{
		events.TrackToggled: events.On(func(ev events.TrackToggle) error {
			return m.with(ev.ChannelID, func(ch *Channel) error {
				ch.Toggle(ev.On)
				return nil
			})
		}),
		events.VolumeChanged: events.On(func(ev events.VolumeChange) error {
			return m.with(ev.ChannelID, func(ch *Channel) error {
				return ch.SetVolume(ev.Volume)
			})
		}),
		events.SampleTry: events.On(func(ev events.NoteTry) error {
			return m.with(ev.ChannelID, func(ch *Channel) error {
				return ch.TryNote(ev.Note)
			})
		}),
		events.SampleReset: events.On(func(ev events.NoteReset) error {
			return m.with(ev.ChannelID, func(ch *Channel) error {
				ch.ResetNote()
				return nil
			})
		}),
		events.SampleChanged: events.On(func(ev events.NoteChange) error {
			return m.with(ev.ChannelID, func(ch *Channel) error {
				ch.SetNote(ev.Note)
				return nil
			})
		}),
		events.LabelUpdated: events.On(func(ev events.LabelUpdate) error {
			return m.with(ev.ChannelID, func(ch *Channel) error {
				ch.SetLabel(ev.Label)
				return nil
			})
		}),
		events.ChannelRemoveRequest: events.On(func(ev events.RemoveChannelRequest) error {
			return m.RemoveChannel(ev.ChannelID)
		}),
		events.ChannelAddRequest: events.On(func(ev events.AddChannelRequest) error {
			_, err := m.AddChannel(ev.Label, ev.Note)
			return err
		}),
	})

	m.subs[events.ChannelTriggered] = m.bus.Subscribe(events.ChannelTriggered,
		events.On(func(ev events.ChannelTrigger) error {
			return m.with(ev.ChannelID, (*Channel).Trigger)
		}),
		events.WithPriority(events.PriorityChannel))
}

// Detach removes the subscriptions made by Attach
func (m *Manager) Detach() {
	for name, id := range m.subs {
		m.bus.Unsubscribe(name, id)
	}
	m.subs = nil
}

// with runs fn on the channel, ignoring IDs that were removed since the
// event was raised
func (m *Manager) with(id events.ChannelID, fn func(*Channel) error) error {
	ch, ok := m.byID[id]
	if !ok {
		return nil
	}
	return fn(ch)
}
