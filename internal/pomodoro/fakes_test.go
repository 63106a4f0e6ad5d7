package pomodoro

import (
	"errors"
	"time"
)

type memStore struct {
	data    map[string]string
	sets    int
	failGet bool
	failSet bool
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (m *memStore) Get(key string) (string, bool, error) {
	if m.failGet {
		return "", false, errors.New("disk on fire")
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) Set(key, value string) error {
	if m.failSet {
		return errors.New("read-only")
	}
	m.sets++
	m.data[key] = value
	return nil
}

type manualClock struct {
	armed    bool
	interval time.Duration
	fn       func()
	arms     int
	disarms  int
}

func (c *manualClock) Arm(interval time.Duration, fn func()) {
	c.armed = true
	c.interval = interval
	c.fn = fn
	c.arms++
}

func (c *manualClock) Disarm() {
	c.armed = false
	c.fn = nil
	c.disarms++
}

// advance fires n ticks, stopping early if the clock gets disarmed.
func (c *manualClock) advance(n int) {
	for i := 0; i < n && c.armed; i++ {
		c.fn()
	}
}

type countingNotifier struct {
	calls int
	err   error
}

func (n *countingNotifier) Notify() error {
	n.calls++
	return n.err
}
