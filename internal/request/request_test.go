package request

import (
	"net/http"
	"testing"
)

func TestHTTPRequest_URL(t *testing.T) {
	req := &HTTPRequest{
		Scheme:   "https",
		Host:     "api.example.com:8443",
		Path:     "/poll/events",
		RawQuery: "access_token=abc&limit=50",
	}

	got := req.URL().String()
	want := "https://api.example.com:8443/poll/events?access_token=abc&limit=50"
	if got != want {
		t.Errorf("URL() = %s, want %s", got, want)
	}
}

func TestHTTPRequest_URL_NoQuery(t *testing.T) {
	req := &HTTPRequest{
		Scheme: "http",
		Host:   "localhost:8080",
		Path:   "/events",
	}

	got := req.URL().String()
	want := "http://localhost:8080/events"
	if got != want {
		t.Errorf("URL() = %s, want %s", got, want)
	}
}

func TestWebSocketRequest_URL(t *testing.T) {
	req := &WebSocketRequest{
		Scheme:   "wss",
		Host:     "stream.example.com",
		Path:     "/ws",
		RawQuery: "v=11",
		Header:   http.Header{"Authorization": []string{"Bearer token"}},
	}

	got := req.URL().String()
	want := "wss://stream.example.com/ws?v=11"
	if got != want {
		t.Errorf("URL() = %s, want %s", got, want)
	}
}

func TestKinds(t *testing.T) {
	var r Request = &HTTPRequest{}
	if r.Kind() != KindHTTP {
		t.Errorf("Kind() = %s, want %s", r.Kind(), KindHTTP)
	}

	r = &WebSocketRequest{}
	if r.Kind() != KindWebSocket {
		t.Errorf("Kind() = %s, want %s", r.Kind(), KindWebSocket)
	}
}
