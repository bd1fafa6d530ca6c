package user

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvents(t *testing.T) {
	events := NewEvents()

	var mu sync.Mutex
	var got1, got2 []EventType
	unsub1 := events.Subscribe(func(ev Event) {
		mu.Lock()
		got1 = append(got1, ev.Type)
		mu.Unlock()
	})
	unsub2 := events.Subscribe(func(ev Event) {
		mu.Lock()
		got2 = append(got2, ev.Type)
		mu.Unlock()
	})
	assert.Equal(t, 2, events.Len())

	events.Publish(Event{Type: EventSignedIn, UserID: "u1"})
	unsub1()
	unsub1() // idempotent
	events.Publish(Event{Type: EventSignedOut, UserID: "u1"})
	unsub2()
	events.Publish(Event{Type: EventRestored, UserID: "u1"})

	assert.Equal(t, []EventType{EventSignedIn}, got1)
	assert.Equal(t, []EventType{EventSignedIn, EventSignedOut}, got2)
	assert.Equal(t, 0, events.Len())
}

func TestEvents_PublishSetsTimestamp(t *testing.T) {
	events := NewEvents()
	var got Event
	defer events.Subscribe(func(ev Event) { got = ev })()

	events.Publish(Event{Type: EventSignedIn})
	assert.False(t, got.At.IsZero())
}
