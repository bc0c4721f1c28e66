package events

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"stepseq/debug"
)

// Handler receives an event and the source it was triggered with. Returning
// an error aborts delivery to the remaining handlers.
type Handler func(ev Event, src any) error

// SubscriptionID identifies one subscriber entry. Subscribing the same
// handler twice yields two IDs.
type SubscriptionID string

type entry struct {
	id       SubscriptionID
	handler  Handler
	priority int
}

// Bus delivers named events to subscribers, highest priority first.
// Dispatch is synchronous: Trigger returns after every handler has run.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[Name][]entry

	root any
	log  logrus.FieldLogger

	logMu      sync.RWMutex
	logEnabled bool
	quiet      map[Name]bool
}

// BusOption configures a Bus
type BusOption func(*Bus)

// WithRoot sets the source passed to handlers when Trigger has none
func WithRoot(root any) BusOption {
	return func(b *Bus) {
		b.root = root
	}
}

// WithLogger sets the logger used for diagnostic output
func WithLogger(l logrus.FieldLogger) BusOption {
	return func(b *Bus) {
		if l != nil {
			b.log = l
		}
	}
}

// NewBus creates an empty bus. Logging starts disabled.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		subscribers: make(map[Name][]entry),
		log:         debug.Logger().WithField("category", "events"),
		quiet:       make(map[Name]bool),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SubscribeOption configures a single subscription
type SubscribeOption func(*entry)

// WithPriority sets the delivery priority; higher runs first
func WithPriority(p int) SubscribeOption {
	return func(e *entry) {
		e.priority = p
	}
}

// Subscribe registers handler under name and returns its subscription ID.
func (b *Bus) Subscribe(name Name, handler Handler, opts ...SubscribeOption) SubscriptionID {
	e := entry{
		id:      SubscriptionID(uuid.NewString()),
		handler: handler,
	}
	for _, opt := range opts {
		opt(&e)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	list := append(b.subscribers[name], e)
	// Stable so equal priorities keep subscription order
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].priority > list[j].priority
	})
	b.subscribers[name] = list

	b.debugf("subscribed %s to %s with priority %d", e.id, name, e.priority)
	return e.id
}

// SubscribeMap registers one handler per event name, all with the same options.
func (b *Bus) SubscribeMap(handlers map[Name]Handler, opts ...SubscribeOption) map[Name]SubscriptionID {
	ids := make(map[Name]SubscriptionID, len(handlers))
	for name, h := range handlers {
		ids[name] = b.Subscribe(name, h, opts...)
	}
	return ids
}

// Unsubscribe removes the entry with the given ID. Unknown names or IDs are ignored.
func (b *Bus) Unsubscribe(name Name, id SubscriptionID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list, ok := b.subscribers[name]
	if !ok {
		return
	}
	for i, e := range list {
		if e.id != id {
			continue
		}
		b.subscribers[name] = append(list[:i], list[i+1:]...)
		b.debugf("unsubscribed %s from %s", id, name)
		return
	}
}

// UnsubscribeAll drops every subscriber of name
func (b *Bus) UnsubscribeAll(name Name) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subscribers, name)
}

// Subscribers returns how many entries are registered under name
func (b *Bus) Subscribers(name Name) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[name])
}

// TriggerOption configures a single Trigger call
type TriggerOption func(*trigger)

type trigger struct {
	source any
}

// WithSource sets the source handed to every handler for this trigger
func WithSource(src any) TriggerOption {
	return func(t *trigger) {
		t.source = src
	}
}

// Trigger delivers ev to every subscriber of its name, in priority order,
// over a snapshot taken before the first handler runs. The first handler
// error stops delivery and is returned as a *ListenerError. Panics are not
// recovered.
func (b *Bus) Trigger(ev Event, opts ...TriggerOption) error {
	t := trigger{source: b.root}
	for _, opt := range opts {
		opt(&t)
	}

	name := ev.EventName()

	b.mu.RLock()
	snapshot := make([]entry, len(b.subscribers[name]))
	copy(snapshot, b.subscribers[name])
	b.mu.RUnlock()

	if len(snapshot) == 0 {
		b.tracef(name, "trigger %s: no subscribers", name)
		return nil
	}
	b.tracef(name, "trigger %s %+v to %d subscribers", name, ev, len(snapshot))

	for _, e := range snapshot {
		if err := e.handler(ev, t.source); err != nil {
			return &ListenerError{Name: name, SubscriptionID: e.id, Err: err}
		}
	}
	return nil
}

// On adapts a typed function into a Handler
func On[E Event](fn func(E) error) Handler {
	return OnSource(func(ev E, _ any) error {
		return fn(ev)
	})
}

// OnSource adapts a typed function that also wants the trigger source
func OnSource[E Event](fn func(E, any) error) Handler {
	return func(ev Event, src any) error {
		typed, ok := ev.(E)
		if !ok {
			var want E
			return fault.Wrap(ErrPayloadMismatch,
				fmsg.With(fmt.Sprintf("%s: got %T, want %T", ev.EventName(), ev, want)))
		}
		return fn(typed, src)
	}
}

// Logging toggles. They affect diagnostic output only, never delivery.

func (b *Bus) EnableLogging() {
	b.logMu.Lock()
	b.logEnabled = true
	b.logMu.Unlock()
}

func (b *Bus) DisableLogging() {
	b.logMu.Lock()
	b.logEnabled = false
	b.logMu.Unlock()
}

// DontLog suppresses trigger logging for a noisy event such as tempo.step
func (b *Bus) DontLog(name Name) {
	b.logMu.Lock()
	b.quiet[name] = true
	b.logMu.Unlock()
}

// DoLog undoes DontLog
func (b *Bus) DoLog(name Name) {
	b.logMu.Lock()
	delete(b.quiet, name)
	b.logMu.Unlock()
}

// LogEnabled reports whether triggers of name would be logged
func (b *Bus) LogEnabled(name Name) bool {
	b.logMu.RLock()
	defer b.logMu.RUnlock()
	return b.logEnabled && !b.quiet[name]
}

func (b *Bus) tracef(name Name, format string, args ...any) {
	if !b.LogEnabled(name) {
		return
	}
	b.log.WithField("event", string(name)).Infof(format, args...)
}

func (b *Bus) debugf(format string, args ...any) {
	b.logMu.RLock()
	enabled := b.logEnabled
	b.logMu.RUnlock()
	if enabled {
		b.log.Debugf(format, args...)
	}
}
