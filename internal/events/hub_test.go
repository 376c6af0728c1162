package events

import (
	"encoding/json"
	"testing"
)

func TestHub_PublishToSubscribers(t *testing.T) {
	h := NewHub()
	a := h.Subscribe()
	b := h.Subscribe()

	h.Emit("req-1", TypeJobCreated, map[string]any{"id": 7})

	for _, ch := range []chan string{a, b} {
		msg := <-ch
		var e Event
		if err := json.Unmarshal([]byte(msg), &e); err != nil {
			t.Fatal(err)
		}
		if e.Type != TypeJobCreated || e.RequestID != "req-1" || e.Version != 1 {
			t.Errorf("event: got %+v", e)
		}
		if string(e.Data) != `{"id":7}` {
			t.Errorf("data: got %s", e.Data)
		}
	}

	h.Unsubscribe(a)
	h.Unsubscribe(a) // second unsubscribe is a no-op
	if h.Subscribers() != 1 {
		t.Errorf("Subscribers: got %d, want 1", h.Subscribers())
	}
}

func TestHub_DropsWhenSubscriberIsFull(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	for i := 0; i < cap(ch)+10; i++ {
		h.Publish("x")
	}
	if len(ch) != cap(ch) {
		t.Errorf("buffer: got %d, want %d", len(ch), cap(ch))
	}
}
