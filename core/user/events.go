package user

import (
	"sync"
	"time"
)

type EventType string

// Session events.
const (
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
	EventRestored  EventType = "restored"
)

// Event is a change of session state. Profile is nil when signed out or when the profile could not be loaded.
type Event struct {
	Type    EventType `json:"type"`
	UserID  string    `json:"userId"`
	Profile *Profile  `json:"profile"`
	At      time.Time `json:"at"`
}

// Events fans session events out to subscribers.
type Events struct {
	mu   sync.RWMutex
	subs map[int]func(Event)
	next int
}

func NewEvents() *Events {
	return &Events{subs: make(map[int]func(Event))}
}

// Subscribe registers fn and returns the function that unregisters it.
// fn is called synchronously by Publish and must not block.
func (e *Events) Subscribe(fn func(Event)) (unsubscribe func()) {
	e.mu.Lock()
	id := e.next
	e.next++
	e.subs[id] = fn
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.subs, id)
			e.mu.Unlock()
		})
	}
}

func (e *Events) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	e.mu.RLock()
	fns := make([]func(Event), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	e.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Len returns the number of active subscribers.
func (e *Events) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.subs)
}
