// Package testhelpers provides common utilities for testing the chat relay.
//
// It wraps the gorilla/websocket dialer and a few HTTP assertions so the
// server tests can focus on room behavior.
package testhelpers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// TestOrigin is the Origin header sent by ConnectWebSocket. It is in the
// default allow-list.
const TestOrigin = "http://localhost:8080"

// CreateTestServer creates a test HTTP server with the given handler.
// The server is closed when the test finishes.
func CreateTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

// ChatURL returns the WebSocket URL of room on the server at baseURL.
func ChatURL(baseURL, room string) string {
	return "ws" + strings.TrimPrefix(baseURL, "http") + "/chat/" + room
}

// AssertStatusCode checks if the HTTP response has the expected status code.
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("Expected status code %d, got %d", expected, resp.StatusCode)
	}
}

// AssertContentType checks if the HTTP response has the expected Content-Type header.
func AssertContentType(t *testing.T, resp *http.Response, expected string) {
	t.Helper()
	contentType := resp.Header.Get("Content-Type")
	if contentType != expected {
		t.Errorf("Expected content type %s, got %s", expected, contentType)
	}
}

// MakeRequest creates and executes an HTTP request with a 5-second timeout.
func MakeRequest(t *testing.T, method, url string) *http.Response {
	t.Helper()

	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	req, err := http.NewRequest(method, url, http.NoBody)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}

	return resp
}

// DialWebSocket dials url with the given headers and returns the
// connection together with the handshake response status (0 if none).
func DialWebSocket(url string, header http.Header) (*websocket.Conn, int, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}

	conn, resp, err := dialer.Dial(url, header)
	status := 0
	if resp != nil {
		status = resp.StatusCode
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
	}
	return conn, status, err
}

// ConnectWebSocket opens a connection to url with an allowed Origin and
// closes it when the test finishes.
func ConnectWebSocket(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	header := http.Header{}
	header.Set("Origin", TestOrigin)

	conn, _, err := DialWebSocket(url, header)
	if err != nil {
		t.Fatalf("Failed to connect to %s: %v", url, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// SendText sends a text frame.
func SendText(t *testing.T, conn *websocket.Conn, text string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		t.Fatalf("Failed to send %q: %v", text, err)
	}
}

// ReadText reads the next frame, waiting at most timeout.
func ReadText(conn *websocket.Conn, timeout time.Duration) (string, error) {
	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return "", err
	}
	_, data, err := conn.ReadMessage()
	return string(data), err
}

// ExpectText fails the test unless the next frame on conn is want.
func ExpectText(t *testing.T, conn *websocket.Conn, want string) {
	t.Helper()
	got, err := ReadText(conn, 2*time.Second)
	if err != nil {
		t.Fatalf("Expected %q, got error: %v", want, err)
	}
	if got != want {
		t.Fatalf("Expected %q, got %q", want, got)
	}
}

// ExpectNoMessage fails the test if a frame arrives within timeout. A timed
// out gorilla connection cannot be read again, so call this last.
func ExpectNoMessage(t *testing.T, conn *websocket.Conn, timeout time.Duration) {
	t.Helper()
	got, err := ReadText(conn, timeout)
	if err == nil {
		t.Fatalf("Expected no message, got %q", got)
	}
}

// CloseWebSocket sends a normal close frame and closes the connection.
func CloseWebSocket(conn *websocket.Conn) error {
	err := conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if err != nil {
		return err
	}
	return conn.Close()
}
