package main

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsIdlePingInterval = 30 * time.Second
	wsWriteTimeout     = 10 * time.Second
)

// writeWithHeartbeat drains the client's send queue onto the socket
// and keeps idle connections alive with an application-level ping.
// Returns when the queue closes or a write fails.
func writeWithHeartbeat(conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(wsIdlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()
	ping := []byte(`{"type":"ping"}`)

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return nil
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, ping); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}
