package request

import (
	"errors"
	"net/http"
	"net/url"
)

// ErrInvalidKind indicates a descriptor that is neither HTTP nor websocket.
var ErrInvalidKind = errors.New("unsupported request kind")

// Kind identifies the transport of a descriptor.
type Kind string

const (
	KindHTTP      Kind = "http"
	KindWebSocket Kind = "websocket"
)

// Request is the common interface of connection descriptors.
type Request interface {
	// Kind returns the transport kind.
	Kind() Kind

	// URL builds the target address from scheme, host, path and query.
	URL() *url.URL
}

// HTTPRequest describes a long-polling HTTP connection.
type HTTPRequest struct {
	Scheme   string // "http" or "https"
	Host     string // host (and optional port) of the remote platform
	Path     string
	RawQuery string
	Method   string // defaults to GET when empty
	Body     []byte // request body sent on every poll
	Header   http.Header
}

func (r *HTTPRequest) Kind() Kind { return KindHTTP }

func (r *HTTPRequest) URL() *url.URL {
	return &url.URL{
		Scheme:   r.Scheme,
		Host:     r.Host,
		Path:     r.Path,
		RawQuery: r.RawQuery,
	}
}

// WebSocketRequest describes a persistent websocket connection.
type WebSocketRequest struct {
	Scheme   string // "ws" or "wss"
	Host     string
	Path     string
	RawQuery string
	Header   http.Header
}

func (r *WebSocketRequest) Kind() Kind { return KindWebSocket }

func (r *WebSocketRequest) URL() *url.URL {
	return &url.URL{
		Scheme:   r.Scheme,
		Host:     r.Host,
		Path:     r.Path,
		RawQuery: r.RawQuery,
	}
}
