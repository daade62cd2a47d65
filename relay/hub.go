// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/websocket"

	"github.com/danielhkuo/drawroom/models"
)

const (
	// MaxFrameSize is the largest inbound frame accepted before the
	// connection is closed.
	MaxFrameSize = 512 << 10

	defaultQueueSize  = 256
	defaultWriteWait  = 10 * time.Second
	defaultPongWait   = 60 * time.Second
	persistErrMessage = "message could not be saved"
)

// Store is the persistence the relay needs.
type Store interface {
	FindUser(ctx context.Context, id string) (models.User, error)
	AppendMessage(ctx context.Context, roomID, senderID, message string) (models.Message, error)
}

// Verifier resolves a bearer token to a user id.
type Verifier interface {
	Verify(token string) (string, error)
}

type timing struct {
	writeWait  time.Duration
	pongWait   time.Duration
	pingPeriod time.Duration
}

// Hub accepts live connections, tracks room membership, and persists and
// fans out chat messages.
type Hub struct {
	store     Store
	verifier  Verifier
	registry  Registry
	bus       Bus
	logger    *slog.Logger
	upgrader  websocket.Upgrader
	queueSize int
	timing    timing
}

type Option func(*Hub)

// WithRegistry replaces the in-memory registry
func WithRegistry(r Registry) Option {
	return func(h *Hub) { h.registry = r }
}

// WithBus replaces the local fan-out bus
func WithBus(b Bus) Option {
	return func(h *Hub) { h.bus = b }
}

func WithLogger(l *slog.Logger) Option {
	return func(h *Hub) { h.logger = l }
}

// WithQueueSize sets the per-participant outbound queue length
func WithQueueSize(n int) Option {
	return func(h *Hub) { h.queueSize = n }
}

// WithKeepalive sets how long a silent peer is tolerated. Pings are sent
// at 9/10 of pongWait.
func WithKeepalive(pongWait time.Duration) Option {
	return func(h *Hub) {
		h.timing.pongWait = pongWait
		h.timing.pingPeriod = pongWait * 9 / 10
	}
}

func NewHub(store Store, verifier Verifier, opts ...Option) *Hub {
	h := &Hub{
		store:     store,
		verifier:  verifier,
		logger:    slog.Default(),
		queueSize: defaultQueueSize,
		timing: timing{
			writeWait:  defaultWriteWait,
			pongWait:   defaultPongWait,
			pingPeriod: defaultPongWait * 9 / 10,
		},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Token auth, not origin, gates access
			},
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.registry == nil {
		h.registry = NewMemoryRegistry()
	}
	if h.bus == nil {
		h.bus = NewLocalBus(h.registry, h.logger)
	}
	return h
}

// Registry returns the participant registry
func (h *Hub) Registry() Registry {
	return h.registry
}

// ServeWS upgrades the request, authenticates it from the "token" query
// parameter and serves the connection until it closes. Authentication
// failures close the transport without sending anything.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error
		h.logger.Warn("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	ctx := r.Context()
	user, ok := h.authenticate(ctx, r.URL.Query().Get("token"))
	if !ok {
		conn.Close()
		return
	}

	p := newParticipant(conn, user, h.queueSize)
	h.registry.Add(p)
	h.logger.Info("participant connected",
		"participant", p.ID,
		"user_id", p.UserID,
		"remote", r.RemoteAddr,
		"connected", h.registry.Len(),
	)

	go p.writePump(h.timing)
	h.readLoop(ctx, p)

	// Deregister before closing so no fan-out reaches a dead participant
	h.registry.Remove(p.ID)
	p.Close()

	h.logger.Info("participant disconnected",
		"participant", p.ID,
		"user_id", p.UserID,
		"duration", time.Since(p.createdAt).Round(time.Millisecond).String(),
		"frames_in", humanize.Comma(int64(p.framesIn.Load())),
		"frames_out", humanize.Comma(int64(p.framesOut.Load())),
		"received", humanize.Bytes(p.bytesIn.Load()),
		"sent", humanize.Bytes(p.bytesOut.Load()),
	)
}

func (h *Hub) authenticate(ctx context.Context, token string) (models.User, bool) {
	userID, err := h.verifier.Verify(token)
	if err != nil {
		h.logger.Warn("live connection rejected", "reason", err)
		return models.User{}, false
	}
	user, err := h.store.FindUser(ctx, userID)
	if err != nil {
		h.logger.Warn("live connection rejected", "user_id", userID, "reason", err)
		return models.User{}, false
	}
	return user, true
}

// readLoop handles frames one at a time, so messages from one connection
// are persisted and published in the order they arrived.
func (h *Hub) readLoop(ctx context.Context, p *Participant) {
	p.conn.SetReadLimit(MaxFrameSize)
	p.conn.SetReadDeadline(time.Now().Add(h.timing.pongWait))
	p.conn.SetPongHandler(func(string) error {
		p.conn.SetReadDeadline(time.Now().Add(h.timing.pongWait))
		return nil
	})

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("read failed", "participant", p.ID, "error", err)
			}
			return
		}
		p.bytesIn.Add(uint64(len(data)))
		p.framesIn.Add(1)
		p.conn.SetReadDeadline(time.Now().Add(h.timing.pongWait))

		h.handleFrame(ctx, p, data)
	}
}

func (h *Hub) handleFrame(ctx context.Context, p *Participant, data []byte) {
	var frame models.ClientFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		h.logger.Warn("dropping malformed frame", "participant", p.ID, "error", err)
		return
	}

	switch frame.Type {
	case models.FrameJoinRoom:
		if frame.RoomID == "" {
			h.dropMalformed(p, frame.Type, "missing roomId")
			return
		}
		p.Join(frame.RoomID)
		h.logger.Debug("joined room", "participant", p.ID, "room_id", frame.RoomID)

	case models.FrameLeaveRoom:
		if frame.RoomID == "" {
			h.dropMalformed(p, frame.Type, "missing roomId")
			return
		}
		p.Leave(frame.RoomID)
		h.logger.Debug("left room", "participant", p.ID, "room_id", frame.RoomID)

	case models.FrameChat:
		if frame.RoomID == "" || frame.Message == "" {
			h.dropMalformed(p, frame.Type, "missing roomId or message")
			return
		}
		h.relayChat(ctx, p, frame)

	default:
		h.dropMalformed(p, frame.Type, "unknown frame type")
	}
}

func (h *Hub) dropMalformed(p *Participant, frameType, reason string) {
	h.logger.Warn("dropping malformed frame",
		"participant", p.ID,
		"type", frameType,
		"reason", reason,
	)
}

// relayChat persists the message and only then publishes it. A message
// that could not be recorded is never fanned out; the sender alone is
// told about the failure.
func (h *Hub) relayChat(ctx context.Context, p *Participant, frame models.ClientFrame) {
	if _, err := h.store.AppendMessage(ctx, frame.RoomID, p.UserID, frame.Message); err != nil {
		h.logger.Error("failed to persist message",
			"participant", p.ID,
			"room_id", frame.RoomID,
			"error", err,
		)
		h.notifyError(p, frame.RoomID)
		return
	}

	err := h.bus.Publish(ctx, models.ChatBroadcast{
		Type:    models.FrameChat,
		RoomID:  frame.RoomID,
		Message: frame.Message,
		UserID:  p.UserID,
		Name:    p.Name,
		Photo:   p.Photo,
	})
	if err != nil {
		h.logger.Error("failed to publish message", "room_id", frame.RoomID, "error", err)
	}
}

func (h *Hub) notifyError(p *Participant, roomID string) {
	data, err := json.Marshal(models.ErrorFrame{
		Type:    models.FrameError,
		RoomID:  roomID,
		Message: persistErrMessage,
	})
	if err != nil {
		return
	}
	if err := p.Send(data); err == ErrSlowConsumer {
		p.Close()
	}
}

// Close disconnects every participant. Hijacked connections are not
// closed by http.Server shutdown.
func (h *Hub) Close() {
	for _, p := range h.registry.Members() {
		p.Close()
	}
}
