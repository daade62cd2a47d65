// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/drawroom/models"
)

const (
	sendQueueSize   = 256
	socketWriteWait = 10 * time.Second
	// matches the relay's read limit
	maxFrameSize = 512 << 10
)

// Socket is a live connection to the relay. Sends are queued and written
// by one goroutine; reads must come from a single goroutine.
type Socket struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}

	mu     sync.Mutex
	closed bool
}

// Dial opens the live connection. The token travels as a query
// parameter.
func Dial(ctx context.Context, wsURL, token string) (*Socket, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("parse live url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCouldNotConnect, err)
	}
	conn.SetReadLimit(maxFrameSize)

	s := &Socket{
		conn: conn,
		send: make(chan []byte, sendQueueSize),
		done: make(chan struct{}),
	}
	go s.writePump()
	return s, nil
}

// Join subscribes the connection to roomID
func (s *Socket) Join(roomID string) error {
	return s.sendFrame(models.ClientFrame{Type: models.FrameJoinRoom, RoomID: roomID})
}

func (s *Socket) Leave(roomID string) error {
	return s.sendFrame(models.ClientFrame{Type: models.FrameLeaveRoom, RoomID: roomID})
}

// Send queues a chat message for roomID without blocking
func (s *Socket) Send(roomID, message string) error {
	return s.sendFrame(models.ClientFrame{Type: models.FrameChat, RoomID: roomID, Message: message})
}

func (s *Socket) sendFrame(frame models.ClientFrame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSocketClosed
	}
	select {
	case s.send <- data:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// ReadFrame blocks for the next relay frame. Frames that are not JSON
// are returned as errors without closing the connection.
func (s *Socket) ReadFrame() (models.ServerFrame, error) {
	var frame models.ServerFrame
	_, data, err := s.conn.ReadMessage()
	if err != nil {
		return frame, err
	}
	if err := json.Unmarshal(data, &frame); err != nil {
		return frame, &FrameError{Err: err}
	}
	return frame, nil
}

// Close flushes queued frames, sends a close frame and closes the
// connection. Safe to call more than once.
func (s *Socket) Close() error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.send)
	}
	s.mu.Unlock()

	<-s.done
	return nil
}

func (s *Socket) writePump() {
	defer func() {
		s.conn.Close()
		close(s.done)
	}()

	for frame := range s.send {
		s.conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
		if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			s.conn.Close()
			s.drain()
			return
		}
	}
	s.conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
	s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// drain discards the queue after a write failure so Close does not block
func (s *Socket) drain() {
	for range s.send {
	}
}

// FrameError wraps a relay frame that could not be decoded.
type FrameError struct {
	Err error
}

func (e *FrameError) Error() string { return "decode relay frame: " + e.Err.Error() }
func (e *FrameError) Unwrap() error { return e.Err }
