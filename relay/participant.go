// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package relay

import (
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/danielhkuo/drawroom/models"
)

var (
	// ErrClosed is returned when sending to a participant whose
	// connection has already gone away.
	ErrClosed = errors.New("participant closed")
	// ErrSlowConsumer is returned when a participant's outbound queue is full.
	ErrSlowConsumer = errors.New("participant outbound queue full")
)

// Participant is one authenticated live connection.
type Participant struct {
	ID     string
	UserID string
	Name   string
	Photo  string

	conn      *websocket.Conn
	send      chan []byte
	createdAt time.Time

	mu     sync.Mutex
	rooms  map[string]struct{}
	closed bool

	bytesIn   atomic.Uint64
	bytesOut  atomic.Uint64
	framesIn  atomic.Uint64
	framesOut atomic.Uint64
}

func newParticipant(conn *websocket.Conn, user models.User, queueSize int) *Participant {
	return &Participant{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Name:      user.Name,
		Photo:     user.Photo,
		conn:      conn,
		send:      make(chan []byte, queueSize),
		createdAt: time.Now(),
		rooms:     make(map[string]struct{}),
	}
}

// Join adds roomID to the membership set. Joining twice is a no-op.
func (p *Participant) Join(roomID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rooms[roomID] = struct{}{}
}

// Leave removes roomID from the membership set. Leaving a room that was
// never joined is a no-op.
func (p *Participant) Leave(roomID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.rooms, roomID)
}

// InRoom reports whether the participant is a member of roomID
func (p *Participant) InRoom(roomID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.rooms[roomID]
	return ok
}

// Rooms returns the sorted membership set
func (p *Participant) Rooms() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	rooms := make([]string, 0, len(p.rooms))
	for id := range p.rooms {
		rooms = append(rooms, id)
	}
	sort.Strings(rooms)
	return rooms
}

// Send queues one encoded frame for the write pump. It never blocks.
func (p *Participant) Send(frame []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	select {
	case p.send <- frame:
		return nil
	default:
		return ErrSlowConsumer
	}
}

// Close stops the write pump, which then closes the connection.
// Safe to call more than once.
func (p *Participant) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	p.rooms = map[string]struct{}{}
	close(p.send)
}

// writePump drains the outbound queue in FIFO order and keeps the
// connection alive with pings. It is the only writer on the connection.
func (p *Participant) writePump(cfg timing) {
	ticker := time.NewTicker(cfg.pingPeriod)
	defer func() {
		ticker.Stop()
		p.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(cfg.writeWait))
			if !ok {
				p.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := p.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
			p.bytesOut.Add(uint64(len(frame)))
			p.framesOut.Add(1)

		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(cfg.writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
