// Package pattern holds which steps are on for each channel and fires
// channel.triggered as the tempo clock walks through them.
package pattern

import (
	"slices"

	"stepseq/events"
)

// DefaultSteps is the pattern length before the first tempo.totalsteps.change
const DefaultSteps = 16

type row struct {
	channel events.ChannelID
	steps   []bool
}

// Pattern is confined to the run loop, like the tempo it follows
type Pattern struct {
	bus   *events.Bus
	rows  []row
	index map[events.ChannelID]int
	size  int

	subs map[events.Name]events.SubscriptionID
}

func New(bus *events.Bus) *Pattern {
	return &Pattern{
		bus:   bus,
		index: make(map[events.ChannelID]int),
		size:  DefaultSteps,
	}
}

// AddChannel appends a row for id with every step off. An existing row is
// cleared in place.
func (p *Pattern) AddChannel(id events.ChannelID) {
	if i, ok := p.index[id]; ok {
		clear(p.rows[i].steps)
		return
	}
	p.index[id] = len(p.rows)
	p.rows = append(p.rows, row{channel: id, steps: make([]bool, p.size)})
}

func (p *Pattern) RemoveChannel(id events.ChannelID) {
	i, ok := p.index[id]
	if !ok {
		return
	}
	p.rows = slices.Delete(p.rows, i, i+1)
	delete(p.index, id)
	for j := i; j < len(p.rows); j++ {
		p.index[p.rows[j].channel] = j
	}
}

// SetStep ignores unknown channels and steps outside the pattern
func (p *Pattern) SetStep(id events.ChannelID, step int, on bool) {
	i, ok := p.index[id]
	if !ok || step < 0 || step >= p.size {
		return
	}
	p.rows[i].steps[step] = on
}

// Clear turns every step off
func (p *Pattern) Clear() {
	for _, r := range p.rows {
		clear(r.steps)
	}
}

// Resize grows every row with off steps or truncates it
func (p *Pattern) Resize(n int) {
	if n < 0 {
		n = 0
	}
	for i := range p.rows {
		steps := p.rows[i].steps
		if n <= len(steps) {
			p.rows[i].steps = steps[:n:n]
			continue
		}
		p.rows[i].steps = append(steps, make([]bool, n-len(steps))...)
	}
	p.size = n
}

// Steps returns a copy of the channel's steps, or nil if it has no row
func (p *Pattern) Steps(id events.ChannelID) []bool {
	i, ok := p.index[id]
	if !ok {
		return nil
	}
	return slices.Clone(p.rows[i].steps)
}

// Channels returns the channel IDs in row order
func (p *Pattern) Channels() []events.ChannelID {
	ids := make([]events.ChannelID, len(p.rows))
	for i, r := range p.rows {
		ids[i] = r.channel
	}
	return ids
}

func (p *Pattern) StepCount() int { return p.size }

// Step publishes channel.triggered for each channel, top to bottom, whose
// step is on. The first listener error stops the walk.
func (p *Pattern) Step(step int) error {
	if step < 0 || step >= p.size {
		return nil
	}
	// channel.triggered listeners may remove rows, so walk a copy
	rows := slices.Clone(p.rows)
	for _, r := range rows {
		if step >= len(r.steps) || !r.steps[step] {
			continue
		}
		if err := p.bus.Trigger(events.ChannelTrigger{ChannelID: r.channel}); err != nil {
			return err
		}
	}
	return nil
}
