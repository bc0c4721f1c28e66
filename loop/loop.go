// Package loop runs posted work on a single goroutine, one function at a
// time, so components confined to it never need locks.
package loop

import (
	"context"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"

	"stepseq/clock"
)

// ErrClosed is returned when work is posted to a loop that has finished running
var ErrClosed = fault.New("run loop closed")

// Loop executes posted functions in order on the goroutine that calls Run
type Loop struct {
	queue chan func()
	done  chan struct{}
}

// New creates a loop with room for size queued functions
func New(size int) *Loop {
	if size < 1 {
		size = 1
	}
	return &Loop{
		queue: make(chan func(), size),
		done:  make(chan struct{}),
	}
}

// Run executes posted work until ctx is cancelled. It must be called once.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return nil
		case f := <-l.queue:
			f()
		}
	}
}

// Post queues f. It blocks while the queue is full and reports false once
// the loop has stopped. Must not be called from the loop goroutine itself.
func (l *Loop) Post(f func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.queue <- f:
		return true
	case <-l.done:
		return false
	}
}

// Call posts f and waits for it to finish
func (l *Loop) Call(ctx context.Context, f func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		f()
	}) {
		return ErrClosed
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrClosed
	case <-ctx.Done():
		return fault.Wrap(ctx.Err(), fmsg.With("waiting for run loop"))
	}
}

// Clock wraps inner so that every callback runs on the loop
func (l *Loop) Clock(inner clock.Clock) clock.Clock {
	return loopClock{loop: l, inner: inner}
}

type loopClock struct {
	loop  *Loop
	inner clock.Clock
}

func (c loopClock) Now() time.Time {
	return c.inner.Now()
}

func (c loopClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	return c.inner.AfterFunc(d, func() {
		c.loop.Post(f)
	})
}
