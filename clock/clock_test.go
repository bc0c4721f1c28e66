package clock_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stepseq/clock"
)

func TestReal_AfterFunc(t *testing.T) {
	fired := make(chan struct{})
	clock.Real().AfterFunc(time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
}

func TestFakeClock_StopPreventsCallback(t *testing.T) {
	fake := clockwork.NewFakeClock()
	var c clock.Clock = fake

	fired := make(chan struct{}, 1)
	timer := c.AfterFunc(10*time.Millisecond, func() { fired <- struct{}{} })
	require.NoError(t, fake.BlockUntilContext(context.Background(), 1))

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop(), "second stop reports nothing pending")

	fake.Advance(time.Second)
	assert.Never(t, func() bool { return len(fired) > 0 }, 20*time.Millisecond, time.Millisecond)
}
