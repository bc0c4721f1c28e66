package tempo

import (
	"stepseq/events"
)

// Attach subscribes the scheduler to the ui.transport.* events. Calling it
// twice is a no-op.
func (t *Tempo) Attach() {
	if t.subs != nil {
		return
	}

	t.subs = t.bus.SubscribeMap(map[events.Name]events.Handler{
		events.TransportPlay: events.On(func(events.Play) error {
			return t.Play()
		}),
		events.TransportPause: events.On(func(events.Pause) error {
			return t.Pause()
		}),
		events.TransportStop: events.On(func(events.Stop) error {
			return t.Stop()
		}),
		events.TransportTempoChange: events.On(func(ev events.TempoChange) error {
			return t.SetBPM(ev.BPM)
		}),
		events.TransportTimeSignatureChange: events.On(func(ev events.TimeSignatureChange) error {
			return t.SetTimeSignature(ev.BeatsPerMeasure, ev.BeatLength)
		}),
		events.TransportMeasuresChange: events.On(func(ev events.MeasuresChange) error {
			return t.SetMeasures(ev.Measures)
		}),
	})
}

// Detach removes the subscriptions made by Attach
func (t *Tempo) Detach() {
	for name, id := range t.subs {
		t.bus.Unsubscribe(name, id)
	}
	t.subs = nil
}
