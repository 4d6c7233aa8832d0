package notify

import (
	"sync"
	"testing"
	"time"
)

func TestPushAndIndependentExpiry(t *testing.T) {
	e := NewEmitter()
	defer e.Close()

	var mu sync.Mutex
	removed := map[string]bool{}
	e.Subscribe(Listener{Removed: func(id string) {
		mu.Lock()
		removed[id] = true
		mu.Unlock()
	}})

	short := e.Push("gone first", 30*time.Millisecond, StyleDanger)
	long := e.Push("stays longer", 300*time.Millisecond, StyleSuccess)

	if got := len(e.Active()); got != 2 {
		t.Fatalf("active = %d, want 2", got)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		done := removed[short.ID]
		mu.Unlock()
		if done {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("short message never expired")
		}
		time.Sleep(5 * time.Millisecond)
	}

	active := e.Active()
	if len(active) != 1 || active[0].ID != long.ID {
		t.Fatalf("expected only the long message to remain, got %d", len(active))
	}
}

func TestPushDefaults(t *testing.T) {
	e := NewEmitter()
	defer e.Close()

	msg := e.Push("hello", 0, "")
	if msg.Style != StyleDefault {
		t.Fatalf("style = %q, want default", msg.Style)
	}
	if !msg.ExpiresAt.After(time.Now()) {
		t.Fatalf("ttl default not applied")
	}
}

func TestOrderPreserved(t *testing.T) {
	e := NewEmitter()
	defer e.Close()

	a := e.Push("a", time.Minute, StyleDefault)
	b := e.Push("b", time.Minute, StyleDefault)
	active := e.Active()
	if len(active) != 2 || active[0].ID != a.ID || active[1].ID != b.ID {
		t.Fatalf("push order not preserved")
	}
}
