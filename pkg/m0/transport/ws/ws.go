// Package ws dials websocket endpoints as M0 transports, for
// controllers exposed through a websocket-to-serial bridge.
package ws

import "golang.org/x/net/websocket"

// Dial connects a websocket endpoint. The returned conn is an
// io.ReadWriteCloser carrying the raw line stream.
func Dial(wsURL, origin string) (*websocket.Conn, error) {
	if origin == "" {
		origin = "http://localhost/"
	}
	return websocket.Dial(wsURL, "", origin)
}
