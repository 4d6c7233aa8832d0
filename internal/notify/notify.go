// Package notify keeps the transient message feed: short-lived, styled
// messages that expire on their own.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Message styles.
const (
	StyleDefault = "default"
	StyleSuccess = "success"
	StyleDanger  = "danger"
)

// DefaultTTL is used when Push is given a non-positive ttl.
const DefaultTTL = 4 * time.Second

// Message is one transient notification.
type Message struct {
	ID        string
	Text      string
	Style     string
	ExpiresAt time.Time
}

// Listener observes the feed. Removed receives expired message ids.
type Listener struct {
	Added   func(Message)
	Removed func(id string)
}

// Emitter holds the ordered set of live messages. Each message owns its own
// expiry timer; there is no global sweep. Process lifetime only, nothing is
// persisted.
type Emitter struct {
	mu        sync.Mutex
	messages  []Message
	timers    map[string]*time.Timer
	listeners []Listener
}

func NewEmitter() *Emitter {
	return &Emitter{timers: map[string]*time.Timer{}}
}

// Subscribe registers a listener for message add/remove events.
func (e *Emitter) Subscribe(l Listener) {
	e.mu.Lock()
	e.listeners = append(e.listeners, l)
	e.mu.Unlock()
}

// Push adds a message that removes itself after ttl.
func (e *Emitter) Push(text string, ttl time.Duration, style string) Message {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if style == "" {
		style = StyleDefault
	}
	msg := Message{
		ID:        uuid.NewString(),
		Text:      text,
		Style:     style,
		ExpiresAt: time.Now().Add(ttl),
	}

	e.mu.Lock()
	e.messages = append(e.messages, msg)
	e.timers[msg.ID] = time.AfterFunc(ttl, func() { e.expire(msg.ID) })
	listeners := append([]Listener{}, e.listeners...)
	e.mu.Unlock()

	for _, l := range listeners {
		if l.Added != nil {
			l.Added(msg)
		}
	}
	return msg
}

// Active returns the live messages in push order.
func (e *Emitter) Active() []Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Message{}, e.messages...)
}

// Close stops all pending expiry timers.
func (e *Emitter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id, t := range e.timers {
		t.Stop()
		delete(e.timers, id)
	}
	e.messages = nil
}

func (e *Emitter) expire(id string) {
	e.mu.Lock()
	kept := e.messages[:0]
	removed := false
	for _, m := range e.messages {
		if m.ID == id {
			removed = true
			continue
		}
		kept = append(kept, m)
	}
	e.messages = kept
	delete(e.timers, id)
	listeners := append([]Listener{}, e.listeners...)
	e.mu.Unlock()

	if !removed {
		return
	}
	for _, l := range listeners {
		if l.Removed != nil {
			l.Removed(id)
		}
	}
}
