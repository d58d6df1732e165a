// Package server defines the sentinel errors and small helpers shared by the
// client, hub and handler code.
package server

import (
	"errors"
	"strings"
)

var (
	// ErrClientClosed is returned by Client.Send once the connection is
	// shutting down.
	ErrClientClosed = errors.New("client closed")

	// ErrSendBufferFull is returned by Client.Send when the outgoing queue
	// is full. The message is dropped for that client only.
	ErrSendBufferFull = errors.New("client send buffer full")

	// ErrHubClosed is returned by Hub.Serve after Shutdown has begun.
	ErrHubClosed = errors.New("hub closed")
)

// isExpectedCloseError checks if an error is expected during connection closure.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "websocket: close sent") ||
		strings.Contains(errStr, "broken pipe") ||
		strings.Contains(errStr, "connection reset by peer")
}
