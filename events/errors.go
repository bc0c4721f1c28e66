package events

import (
	"errors"
	"fmt"
)

var (
	// ErrListenerFailure matches any error returned by a listener during Trigger
	ErrListenerFailure = errors.New("listener failed")

	// ErrPayloadMismatch is returned by typed handlers given the wrong payload
	ErrPayloadMismatch = errors.New("event payload mismatch")
)

// ListenerError wraps the error a listener returned, aborting the dispatch
// it was part of.
type ListenerError struct {
	Name           Name
	SubscriptionID SubscriptionID
	Err            error
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("listener %s failed on %s: %v", e.SubscriptionID, e.Name, e.Err)
}

func (e *ListenerError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ListenerError against ErrListenerFailure.
func (e *ListenerError) Is(target error) bool {
	return target == ErrListenerFailure
}
