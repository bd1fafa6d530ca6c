package user

import (
	"sync"
	"time"
)

type attempts struct {
	count int
	first time.Time
}

// loginThrottle locks an email out after too many failed sign-ins within a window.
type loginThrottle struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	now    func() time.Time
	failed map[string]*attempts
}

func newLoginThrottle(max int, window time.Duration) *loginThrottle {
	return &loginThrottle{max: max, window: window, now: time.Now, failed: make(map[string]*attempts)}
}

func (t *loginThrottle) locked(email string) bool {
	if t.max <= 0 {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	a, ok := t.failed[email]
	if !ok {
		return false
	}
	if t.now().Sub(a.first) > t.window {
		delete(t.failed, email)
		return false
	}
	return a.count >= t.max
}

func (t *loginThrottle) fail(email string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	a, ok := t.failed[email]
	if !ok || t.now().Sub(a.first) > t.window {
		t.failed[email] = &attempts{count: 1, first: t.now()}
		return
	}
	a.count++
}

func (t *loginThrottle) reset(email string) {
	t.mu.Lock()
	delete(t.failed, email)
	t.mu.Unlock()
}
