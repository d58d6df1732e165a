// Package server exposes the chat relay over HTTP and WebSocket.
//
// Each connection to /chat/{room} becomes a Client that joins the named
// room from the chat package, relays every text frame it reads to that room,
// and leaves the room when the connection ends. The Hub tracks live clients
// so the process can shut down cleanly.
package server
