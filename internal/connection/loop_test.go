package connection

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/botforge/forward-driver/internal/bot"
	"github.com/botforge/forward-driver/internal/request"
)

type testBot struct {
	selfID string
}

func (b *testBot) SelfID() string  { return b.selfID }
func (b *testBot) Adapter() string { return "test" }
func (b *testBot) HandleMessage(ctx context.Context, payload []byte) error {
	return nil
}

type countingSink struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (s *countingSink) Dispatch(b bot.Bot, payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, payload)
}

func (s *countingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payloads)
}

func (s *countingSink) payload(i int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payloads[i]
}

func wsRequestFor(server *httptest.Server) *request.WebSocketRequest {
	return &request.WebSocketRequest{
		Scheme: "ws",
		Host:   server.Listener.Addr().String(),
		Path:   "/",
	}
}

func TestLoop_DispatchesFramesInOrder(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte("one"))
		conn.WriteMessage(websocket.BinaryMessage, []byte("two"))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	sink := &countingSink{}
	loop := NewLoop(Config{ReconnectInterval: time.Hour},
		&testBot{selfID: "bot-1"}, wsRequestFor(server), sink, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for sink.count() < 2 {
		select {
		case <-deadline:
			t.Fatalf("dispatched %d frames, want 2", sink.count())
		case <-time.After(10 * time.Millisecond):
		}
	}

	if string(sink.payload(0)) != "one" || string(sink.payload(1)) != "two" {
		t.Errorf("payloads = %q, %q; want one, two", sink.payload(0), sink.payload(1))
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not exit after cancellation")
	}
}

func TestLoop_ReconnectsAfterStreamError(t *testing.T) {
	var dials atomic.Int32
	server := mockWSServer(t, func(conn *websocket.Conn) {
		dials.Add(1)
		conn.WriteMessage(websocket.TextMessage, []byte("frame"))
		conn.Close() // drop without a close handshake
	})
	defer server.Close()

	sink := &countingSink{}
	loop := NewLoop(Config{ReconnectInterval: 20 * time.Millisecond},
		&testBot{selfID: "bot-1"}, wsRequestFor(server), sink, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	deadline := time.After(3 * time.Second)
	for dials.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("dialed %d times, want at least 2", dials.Load())
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	<-done

	if sink.count() < 1 {
		t.Errorf("dispatched %d frames, want at least 1", sink.count())
	}
}

func TestLoop_RetriesFailedDial(t *testing.T) {
	var attempts atomic.Int32

	// Reject the upgrade to force dial failures.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.Error(w, "no", http.StatusForbidden)
	}))
	defer server.Close()

	sink := &countingSink{}
	loop := NewLoop(Config{ReconnectInterval: 20 * time.Millisecond},
		&testBot{selfID: "bot-1"}, wsRequestFor(server), sink, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	deadline := time.After(3 * time.Second)
	for attempts.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("attempted %d dials, want at least 3", attempts.Load())
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not exit after cancellation")
	}
}

func TestLoop_CancelExitsPromptly(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	sink := &countingSink{}
	loop := NewLoop(Config{ReconnectInterval: time.Hour},
		&testBot{selfID: "bot-1"}, wsRequestFor(server), sink, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not exit after cancellation")
	}
}
