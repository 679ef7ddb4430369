package channels

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Publisher provides the ability to publish messages to subjects.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Subject returns the broker subject carrying a channel's broadcasts.
func Subject(name string) string {
	return "channel." + name
}

// Status classifies the result of a bus operation. All are player-facing
// conditions, not errors.
type Status int

const (
	StatusOK Status = iota
	StatusNotFound
	StatusAlreadyJoined
	StatusNotJoined
)

// Bus is the named broadcast channel registry. Channel names are fixed at
// startup; the subscriber sets change as sessions join and leave. Delivery
// itself rides the broker: each subscribed session holds its own subscription
// on the channel's subject, so a broadcast is one publish regardless of
// subscriber count.
//
// Ordering is guaranteed only per sender: the broker preserves a single
// publisher's order, but sends from concurrent senders may interleave.
type Bus struct {
	mu       sync.RWMutex
	pub      Publisher
	channels map[string]map[string]struct{}
}

// NewBus creates a bus with the given channel names.
func NewBus(pub Publisher, names []string) *Bus {
	channels := make(map[string]map[string]struct{}, len(names))
	for _, n := range names {
		channels[n] = make(map[string]struct{})
	}
	return &Bus{
		pub:      pub,
		channels: channels,
	}
}

// Names returns all channel names, sorted.
func (b *Bus) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Sorted(maps.Keys(b.channels))
}

// Exists reports whether a channel with the given name is registered.
func (b *Bus) Exists(name string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.channels[name]
	return ok
}

// Join subscribes a session to a channel. Joining twice is a no-op reported
// as StatusAlreadyJoined.
func (b *Bus) Join(name, sessionId string) Status {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.channels[name]
	if !ok {
		return StatusNotFound
	}
	if _, joined := subs[sessionId]; joined {
		return StatusAlreadyJoined
	}
	subs[sessionId] = struct{}{}
	return StatusOK
}

// Leave removes a session's subscription. Leaving a channel the session never
// joined mutates nothing.
func (b *Bus) Leave(name, sessionId string) Status {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.channels[name]
	if !ok {
		return StatusNotFound
	}
	if _, joined := subs[sessionId]; !joined {
		return StatusNotJoined
	}
	delete(subs, sessionId)
	return StatusOK
}

// Send broadcasts a formatted message to a channel's subscribers. The sender
// must be subscribed; otherwise nothing is published.
func (b *Bus) Send(name, sessionId, sender, message string) (Status, error) {
	b.mu.RLock()
	subs, ok := b.channels[name]
	if !ok {
		b.mu.RUnlock()
		return StatusNotFound, nil
	}
	_, joined := subs[sessionId]
	b.mu.RUnlock()

	if !joined {
		return StatusNotJoined, nil
	}

	formatted := fmt.Sprintf("[%s] %s: %s", name, sender, message)
	if err := b.pub.Publish(Subject(name), []byte(formatted)); err != nil {
		return StatusOK, fmt.Errorf("broadcasting to %s: %w", name, err)
	}
	return StatusOK, nil
}

// Drop removes a session from every channel's subscriber set. Called on
// disconnect; the save's channel list is untouched so subscriptions survive
// reconnects.
func (b *Bus) Drop(sessionId string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, subs := range b.channels {
		delete(subs, sessionId)
	}
}

// Subscribers returns the size of a channel's subscriber set.
func (b *Bus) Subscribers(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.channels[name])
}
