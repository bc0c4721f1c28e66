package pattern

import (
	"stepseq/events"
)

// Attach subscribes the pattern to tempo, channel and editing events
func (p *Pattern) Attach() {
	if p.subs != nil {
		return
	}

	p.subs = p.bus.SubscribeMap(map[events.Name]events.Handler{
		events.TempoStep: events.On(func(ev events.Step) error {
			return p.Step(ev.Step)
		}),
		events.TempoTotalStepsChange: events.On(func(ev events.TotalStepsChanged) error {
			p.Resize(ev.TotalSteps)
			return nil
		}),
		events.ChannelAdded: events.On(func(ev events.ChannelAdd) error {
			p.AddChannel(ev.ChannelID)
			return nil
		}),
		events.ChannelRemoved: events.On(func(ev events.ChannelRemove) error {
			p.RemoveChannel(ev.ChannelID)
			return nil
		}),
		events.StepToggled: events.On(func(ev events.StepToggle) error {
			p.SetStep(ev.ChannelID, ev.Step, ev.On)
			return nil
		}),
		events.PatternClear: events.On(func(events.ClearPattern) error {
			p.Clear()
			return nil
		}),
	})
}

// Detach removes the subscriptions made by Attach
func (p *Pattern) Detach() {
	for name, id := range p.subs {
		p.bus.Unsubscribe(name, id)
	}
	p.subs = nil
}
