package capture

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestHopClosesConnections(t *testing.T) {
	var open int64
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	srv.Config.ConnState = func(_ net.Conn, state http.ConnState) {
		switch state {
		case http.StateNew:
			atomic.AddInt64(&open, 1)
		case http.StateClosed, http.StateHijacked:
			atomic.AddInt64(&open, -1)
		}
	}
	srv.Start()
	defer srv.Close()

	if _, err := testEngine().CaptureURL(context.Background(), srv.URL); err != nil {
		t.Fatalf("capture: %v", err)
	}

	// Connection teardown is asynchronous on the server side.
	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt64(&open) != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("%d connections still open after the hop settled", atomic.LoadInt64(&open))
		}
		time.Sleep(10 * time.Millisecond)
	}
}
