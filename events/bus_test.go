package events_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stepseq/events"
)

func TestBus_PriorityOrder(t *testing.T) {
	bus := events.NewBus()

	var order []string
	record := func(name string) events.Handler {
		return func(events.Event, any) error {
			order = append(order, name)
			return nil
		}
	}

	// B subscribes first but A has the higher priority
	bus.Subscribe(events.TempoStep, record("B"))
	bus.Subscribe(events.TempoStep, record("A"), events.WithPriority(10))

	require.NoError(t, bus.Trigger(events.Step{Step: 0}))
	assert.Equal(t, []string{"A", "B"}, order)
}

func TestBus_EqualPriorityKeepsInsertionOrder(t *testing.T) {
	bus := events.NewBus()

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		bus.Subscribe(events.TempoStarted, func(events.Event, any) error {
			order = append(order, i)
			return nil
		}, events.WithPriority(i%2))
	}

	require.NoError(t, bus.Trigger(events.Started{}))
	// priority 1: 1, 3 then priority 0: 0, 2, 4
	assert.Equal(t, []int{1, 3, 0, 2, 4}, order)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := events.NewBus()

	var gone, kept int
	id := bus.Subscribe(events.TempoStep, func(events.Event, any) error {
		gone++
		return nil
	})
	bus.Subscribe(events.TempoStep, func(events.Event, any) error {
		kept++
		return nil
	})

	require.NoError(t, bus.Trigger(events.Step{}))
	bus.Unsubscribe(events.TempoStep, id)
	require.NoError(t, bus.Trigger(events.Step{}))
	require.NoError(t, bus.Trigger(events.Step{}))

	assert.Equal(t, 1, gone)
	assert.Equal(t, 3, kept)
	assert.Equal(t, 1, bus.Subscribers(events.TempoStep))
}

func TestBus_UnsubscribeUnknownIsNoop(t *testing.T) {
	bus := events.NewBus()
	bus.Subscribe(events.TempoStep, func(events.Event, any) error { return nil })

	assert.NotPanics(t, func() {
		bus.Unsubscribe(events.TempoPaused, "nope")
		bus.Unsubscribe(events.TempoStep, "nope")
	})
	assert.Equal(t, 1, bus.Subscribers(events.TempoStep))
}

func TestBus_SameHandlerTwice(t *testing.T) {
	bus := events.NewBus()

	calls := 0
	h := func(events.Event, any) error {
		calls++
		return nil
	}
	first := bus.Subscribe(events.TempoStep, h)
	second := bus.Subscribe(events.TempoStep, h)
	assert.NotEqual(t, first, second)

	require.NoError(t, bus.Trigger(events.Step{}))
	assert.Equal(t, 2, calls)

	// Removing one entry leaves the other in place
	bus.Unsubscribe(events.TempoStep, first)
	require.NoError(t, bus.Trigger(events.Step{}))
	assert.Equal(t, 3, calls)
}

func TestBus_UnsubscribeAll(t *testing.T) {
	bus := events.NewBus()
	called := false
	bus.SubscribeMap(map[events.Name]events.Handler{
		events.TempoStarted: func(events.Event, any) error { called = true; return nil },
		events.TempoStopped: func(events.Event, any) error { called = true; return nil },
	})

	bus.UnsubscribeAll(events.TempoStarted)
	require.NoError(t, bus.Trigger(events.Started{}))
	assert.False(t, called)
	assert.Equal(t, 1, bus.Subscribers(events.TempoStopped))
}

func TestBus_TriggerWithoutSubscribers(t *testing.T) {
	bus := events.NewBus()
	assert.NoError(t, bus.Trigger(events.Paused{}))
}

func TestBus_ListenerFailureAbortsDelivery(t *testing.T) {
	bus := events.NewBus()
	boom := errors.New("boom")

	var ran []string
	bus.Subscribe(events.TempoStep, func(events.Event, any) error {
		ran = append(ran, "first")
		return boom
	}, events.WithPriority(5))
	bus.Subscribe(events.TempoStep, func(events.Event, any) error {
		ran = append(ran, "second")
		return nil
	})

	err := bus.Trigger(events.Step{Step: 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, events.ErrListenerFailure)
	assert.ErrorIs(t, err, boom)

	var le *events.ListenerError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, events.TempoStep, le.Name)
	assert.Equal(t, []string{"first"}, ran)
}

func TestBus_MutationDuringDispatchUsesSnapshot(t *testing.T) {
	bus := events.NewBus()

	var order []string
	var lateID events.SubscriptionID
	var secondID events.SubscriptionID

	bus.Subscribe(events.TempoStep, func(events.Event, any) error {
		order = append(order, "first")
		// Adding and removing mid-dispatch must not affect this delivery
		lateID = bus.Subscribe(events.TempoStep, func(events.Event, any) error {
			order = append(order, "late")
			return nil
		})
		bus.Unsubscribe(events.TempoStep, secondID)
		return nil
	}, events.WithPriority(1))
	secondID = bus.Subscribe(events.TempoStep, func(events.Event, any) error {
		order = append(order, "second")
		return nil
	})

	require.NoError(t, bus.Trigger(events.Step{}))
	assert.Equal(t, []string{"first", "second"}, order)

	order = nil
	bus.Unsubscribe(events.TempoStep, lateID)
	require.NoError(t, bus.Trigger(events.Step{}))
	// first re-adds a late listener, second is gone
	assert.Equal(t, []string{"first"}, order)
}

func TestBus_Source(t *testing.T) {
	type app struct{ name string }
	root := &app{name: "root"}
	bus := events.NewBus(events.WithRoot(root))

	var got []any
	bus.Subscribe(events.TempoStarted, func(_ events.Event, src any) error {
		got = append(got, src)
		return nil
	})

	other := &app{name: "transport"}
	require.NoError(t, bus.Trigger(events.Started{}))
	require.NoError(t, bus.Trigger(events.Started{}, events.WithSource(other)))

	assert.Same(t, root, got[0])
	assert.Same(t, other, got[1])
}

func TestOn_TypedPayload(t *testing.T) {
	bus := events.NewBus()

	var step int
	bus.Subscribe(events.TempoStep, events.On(func(ev events.Step) error {
		step = ev.Step
		return nil
	}))
	require.NoError(t, bus.Trigger(events.Step{Step: 7}))
	assert.Equal(t, 7, step)
}

func TestOn_PayloadMismatch(t *testing.T) {
	h := events.On(func(ev events.Step) error { return nil })
	err := h(events.Paused{}, nil)
	assert.ErrorIs(t, err, events.ErrPayloadMismatch)
}

func TestBus_LoggingDoesNotChangeDelivery(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(logrus.DebugLevel)

	bus := events.NewBus(events.WithLogger(l))

	calls := 0
	bus.Subscribe(events.TempoStep, func(events.Event, any) error {
		calls++
		return nil
	})
	bus.Subscribe(events.TempoStarted, func(events.Event, any) error {
		calls++
		return nil
	})

	require.NoError(t, bus.Trigger(events.Step{}))
	assert.Empty(t, buf.String())

	bus.EnableLogging()
	bus.DontLog(events.TempoStep)
	assert.False(t, bus.LogEnabled(events.TempoStep))
	assert.True(t, bus.LogEnabled(events.TempoStarted))

	require.NoError(t, bus.Trigger(events.Step{}))
	assert.NotContains(t, buf.String(), "tempo.step")

	require.NoError(t, bus.Trigger(events.Started{}))
	assert.Contains(t, buf.String(), "tempo.started")

	bus.DoLog(events.TempoStep)
	require.NoError(t, bus.Trigger(events.Step{}))
	assert.Contains(t, buf.String(), "tempo.step")

	bus.DisableLogging()
	assert.False(t, bus.LogEnabled(events.TempoStarted))
	assert.Equal(t, 4, calls)
}
