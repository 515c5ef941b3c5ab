package httpapi

import (
	"sync"
	"testing"
	"time"
)

func TestMonitorSubscribeReceives(t *testing.T) {
	h := NewMonitorHub()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	h.Broadcast(MonitorEvent{Type: "capture_started", ID: "x"})
	select {
	case ev := <-ch:
		if ev.Type != "capture_started" || ev.ID != "x" {
			t.Fatalf("event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatalf("no event delivered")
	}
}

func TestMonitorUnsubscribeStopsDelivery(t *testing.T) {
	h := NewMonitorHub()
	ch := h.Subscribe()
	h.Unsubscribe(ch)
	h.Broadcast(MonitorEvent{Type: "entry", ID: "x"})
	select {
	case ev := <-ch:
		t.Fatalf("event after unsubscribe: %+v", ev)
	default:
	}
}

func TestMonitorConcurrentBroadcastUnsubscribe(t *testing.T) {
	h := NewMonitorHub()
	done := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				h.Broadcast(MonitorEvent{Type: "entry", ID: "x"})
			}
		}
	}()

	// Subscribing and unsubscribing under broadcast pressure must never
	// panic, even when a broadcast snapshot still holds a removed channel.
	for i := 0; i < 500; i++ {
		ch := h.Subscribe()
		h.Unsubscribe(ch)
	}
	close(done)
	wg.Wait()
}
