// Package request defines the connection setup descriptors.
//
// A descriptor describes one outbound connection the driver should
// establish and maintain:
//   - HTTPRequest: long-polling over HTTP on a fixed interval
//   - WebSocketRequest: a persistent websocket stream
//
// Descriptors are immutable once registered; the maintenance loops only
// read them.
package request
