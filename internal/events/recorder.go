package events

import (
	"context"
	"sync"
)

// Recorder keeps published events in memory. Handy for tests and dry runs.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	// Err, when set, is returned from every Publish after recording.
	Err error
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.Err
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Close() error { return nil }
