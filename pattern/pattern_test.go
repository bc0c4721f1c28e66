package pattern_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stepseq/events"
	"stepseq/pattern"
)

func triggered(bus *events.Bus) *[]events.ChannelID {
	var got []events.ChannelID
	bus.Subscribe(events.ChannelTriggered, events.On(func(ev events.ChannelTrigger) error {
		got = append(got, ev.ChannelID)
		return nil
	}))
	return &got
}

func TestPattern_AddAndSet(t *testing.T) {
	p := pattern.New(events.NewBus())

	p.AddChannel("kick")
	p.AddChannel("hat")
	p.SetStep("kick", 0, true)
	p.SetStep("kick", 4, true)

	assert.Equal(t, []events.ChannelID{"kick", "hat"}, p.Channels())
	assert.Equal(t, 16, p.StepCount())
	steps := p.Steps("kick")
	assert.True(t, steps[0])
	assert.True(t, steps[4])
	assert.False(t, steps[1])
	assert.Equal(t, make([]bool, 16), p.Steps("hat"))
	assert.Nil(t, p.Steps("snare"))
}

func TestPattern_AddExistingResets(t *testing.T) {
	p := pattern.New(events.NewBus())
	p.AddChannel("kick")
	p.SetStep("kick", 3, true)

	p.AddChannel("kick")

	assert.Len(t, p.Channels(), 1)
	assert.False(t, p.Steps("kick")[3])
}

func TestPattern_SetStepIgnoresBadInput(t *testing.T) {
	p := pattern.New(events.NewBus())
	p.AddChannel("kick")

	p.SetStep("kick", -1, true)
	p.SetStep("kick", 16, true)
	p.SetStep("nope", 0, true)

	assert.Equal(t, make([]bool, 16), p.Steps("kick"))
}

func TestPattern_StepsIsCopy(t *testing.T) {
	p := pattern.New(events.NewBus())
	p.AddChannel("kick")

	p.Steps("kick")[0] = true

	assert.False(t, p.Steps("kick")[0])
}

func TestPattern_Remove(t *testing.T) {
	p := pattern.New(events.NewBus())
	p.AddChannel("a")
	p.AddChannel("b")
	p.AddChannel("c")
	p.SetStep("c", 2, true)

	p.RemoveChannel("a")
	p.RemoveChannel("missing")

	assert.Equal(t, []events.ChannelID{"b", "c"}, p.Channels())
	assert.True(t, p.Steps("c")[2])
	p.SetStep("b", 1, true)
	assert.True(t, p.Steps("b")[1])
}

func TestPattern_Resize(t *testing.T) {
	p := pattern.New(events.NewBus())
	p.AddChannel("kick")
	p.SetStep("kick", 15, true)
	p.SetStep("kick", 2, true)

	p.Resize(6)
	assert.Equal(t, 6, p.StepCount())
	assert.Equal(t, []bool{false, false, true, false, false, false}, p.Steps("kick"))

	p.Resize(32)
	steps := p.Steps("kick")
	require.Len(t, steps, 32)
	assert.True(t, steps[2])
	assert.False(t, steps[15], "truncated steps come back off")

	p.AddChannel("hat")
	assert.Len(t, p.Steps("hat"), 32)
}

func TestPattern_Clear(t *testing.T) {
	p := pattern.New(events.NewBus())
	p.AddChannel("kick")
	p.SetStep("kick", 0, true)

	p.Clear()

	assert.Equal(t, make([]bool, 16), p.Steps("kick"))
}

func TestPattern_StepTriggersInRowOrder(t *testing.T) {
	bus := events.NewBus()
	got := triggered(bus)
	p := pattern.New(bus)
	p.AddChannel("kick")
	p.AddChannel("snare")
	p.AddChannel("hat")
	p.SetStep("hat", 4, true)
	p.SetStep("kick", 4, true)
	p.SetStep("snare", 5, true)

	require.NoError(t, p.Step(4))
	require.NoError(t, p.Step(99))

	assert.Equal(t, []events.ChannelID{"kick", "hat"}, *got)
}

func TestPattern_StepStopsOnListenerError(t *testing.T) {
	bus := events.NewBus()
	calls := 0
	bus.Subscribe(events.ChannelTriggered, func(events.Event, any) error {
		calls++
		return assert.AnError
	})
	p := pattern.New(bus)
	p.AddChannel("a")
	p.AddChannel("b")
	p.SetStep("a", 0, true)
	p.SetStep("b", 0, true)

	err := p.Step(0)

	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, calls)
}

func TestPattern_Attach(t *testing.T) {
	bus := events.NewBus()
	got := triggered(bus)
	p := pattern.New(bus)
	p.Attach()

	require.NoError(t, bus.Trigger(events.ChannelAdd{ChannelID: "kick"}))
	require.NoError(t, bus.Trigger(events.ChannelAdd{ChannelID: "snare"}))
	require.NoError(t, bus.Trigger(events.StepToggle{ChannelID: "kick", Step: 0, On: true}))
	require.NoError(t, bus.Trigger(events.StepToggle{ChannelID: "snare", Step: 0, On: true}))
	require.NoError(t, bus.Trigger(events.TotalStepsChanged{TotalSteps: 6}))
	require.NoError(t, bus.Trigger(events.ChannelRemove{ChannelID: "snare"}))
	require.NoError(t, bus.Trigger(events.Step{Step: 0}))

	assert.Equal(t, 6, p.StepCount())
	assert.Equal(t, []events.ChannelID{"kick"}, *got)

	require.NoError(t, bus.Trigger(events.ClearPattern{}))
	require.NoError(t, bus.Trigger(events.Step{Step: 0}))
	assert.Len(t, *got, 1)

	p.Detach()
	require.NoError(t, bus.Trigger(events.ChannelAdd{ChannelID: "hat"}))
	assert.Equal(t, []events.ChannelID{"kick"}, p.Channels())
}
