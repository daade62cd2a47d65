// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/danielhkuo/drawroom/engine"
	"github.com/danielhkuo/drawroom/models"
	"github.com/danielhkuo/drawroom/shape"
)

const queueSize = 64

// Config locates the relay and the room to draw in.
type Config struct {
	// BaseURL is the HTTP API root, e.g. http://localhost:3318
	BaseURL string
	// WSURL is the live endpoint, e.g. ws://localhost:3318/ws
	WSURL string
	Token string
	Slug  string
}

// Session owns one engine bound to one room. Input events, Do calls and
// relay frames are applied to the engine from the goroutine running Run.
// Events and calls share one FIFO queue, so they reach the engine in the
// order they were submitted.
type Session struct {
	room   models.Room
	client *Client
	socket *Socket
	engine *engine.Engine
	logger *slog.Logger

	queue chan call
	stop  chan struct{}
	done   chan struct{}

	mu          sync.Mutex
	started     bool
	closed      bool
	stopOnce    sync.Once
	cleanupOnce sync.Once
}

// call is one unit of work for the event loop. done is nil for
// fire-and-forget input events.
type call struct {
	fn   func(*engine.Engine)
	done chan struct{}
}

type Option func(*sessionOptions)

type sessionOptions struct {
	logger     *slog.Logger
	httpClient *http.Client
	engineOpts []engine.Option
}

func WithLogger(l *slog.Logger) Option {
	return func(o *sessionOptions) { o.logger = l }
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *sessionOptions) { o.httpClient = c }
}

// WithEngineOptions passes options through to engine.New
func WithEngineOptions(opts ...engine.Option) Option {
	return func(o *sessionOptions) { o.engineOpts = append(o.engineOpts, opts...) }
}

// Open resolves the room, connects, joins, hydrates the drawing from the
// persisted log and builds the engine on surface. Rejected credentials
// yield ErrCouldNotConnect.
func Open(ctx context.Context, cfg Config, surface engine.Surface, opts ...Option) (*Session, error) {
	o := sessionOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	c := NewClient(cfg.BaseURL, cfg.Token, o.httpClient)
	room, err := c.ResolveSlug(ctx, cfg.Slug)
	if err != nil {
		if isAuthFailure(err) {
			return nil, fmt.Errorf("%w: %v", ErrCouldNotConnect, err)
		}
		return nil, err
	}

	socket, err := Dial(ctx, cfg.WSURL, cfg.Token)
	if err != nil {
		return nil, err
	}
	// Join before hydrating so nothing drawn in between is missed. The
	// engine drops the overlap by shape id.
	if err := socket.Join(room.ID); err != nil {
		socket.Close()
		return nil, fmt.Errorf("join room: %w", err)
	}

	msgs, err := c.Messages(ctx, room.ID)
	if err != nil {
		socket.Close()
		if isAuthFailure(err) {
			return nil, fmt.Errorf("%w: %v", ErrCouldNotConnect, err)
		}
		return nil, err
	}

	engineOpts := append([]engine.Option{engine.WithLogger(o.logger)}, o.engineOpts...)
	eng := engine.New(room.ID, surface, socket, engineOpts...)
	eng.Load(DecodeLog(msgs, o.logger))

	o.logger.Info("session opened", "room_id", room.ID, "slug", room.Slug, "shapes", len(msgs))
	return &Session{
		room:   room,
		client: c,
		socket: socket,
		engine: eng,
		logger: o.logger,
		queue:  make(chan call, queueSize),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}, nil
}

// DecodeLog turns persisted messages into shapes in log order. Rows that
// do not hold a shape envelope are skipped.
func DecodeLog(msgs []models.Message, logger *slog.Logger) []shape.Shape {
	shapes := make([]shape.Shape, 0, len(msgs))
	for _, m := range msgs {
		s, err := shape.DecodeEnvelope(m.Message)
		if err != nil {
			logger.Warn("skipping persisted message", "message_id", m.ID, "error", err)
			continue
		}
		shapes = append(shapes, s)
	}
	return shapes
}

func (s *Session) Room() models.Room { return s.room }

// Client returns the HTTP client the session was opened with
func (s *Session) Client() *Client { return s.client }

// Run applies input events and relay frames to the engine until ctx is
// cancelled, Close is called or the relay goes away. On every exit path
// the engine is destroyed and the live connection closed.
func (s *Session) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.closed || s.started {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.started = true
	s.mu.Unlock()

	defer close(s.done)
	defer s.cleanup()

	frames := make(chan models.ServerFrame)
	readErr := make(chan error, 1)
	go s.readLoop(frames, readErr)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.stop:
			return nil
		case c := <-s.queue:
			c.fn(s.engine)
			if c.done != nil {
				close(c.done)
			}
		case f := <-frames:
			s.handleFrame(f)
		case err := <-readErr:
			s.logger.Warn("live connection lost", "room_id", s.room.ID, "error", err)
			return fmt.Errorf("%w: %v", ErrSessionClosed, err)
		}
	}
}

func (s *Session) readLoop(frames chan<- models.ServerFrame, readErr chan<- error) {
	for {
		f, err := s.socket.ReadFrame()
		var fe *FrameError
		if errors.As(err, &fe) {
			s.logger.Warn("dropping relay frame", "error", err)
			continue
		}
		if err != nil {
			readErr <- err
			return
		}
		select {
		case frames <- f:
		case <-s.done:
			return
		}
	}
}

func (s *Session) handleFrame(f models.ServerFrame) {
	switch f.Type {
	case models.FrameChat:
		s.engine.Ingest(f.RoomID, f.Message)
	case models.FrameError:
		s.logger.Warn("relay rejected message", "room_id", f.RoomID, "message", f.Message)
	default:
		s.logger.Debug("ignoring relay frame", "type", f.Type)
	}
}

// Dispatch queues an input event for the engine
func (s *Session) Dispatch(ctx context.Context, ev engine.Event) error {
	return s.enqueue(ctx, call{fn: func(e *engine.Engine) { e.Handle(ev) }})
}

// Do runs fn against the engine on the event loop, after everything
// queued before it, and waits for it.
func (s *Session) Do(ctx context.Context, fn func(*engine.Engine)) error {
	c := call{fn: fn, done: make(chan struct{})}
	if err := s.enqueue(ctx, c); err != nil {
		return err
	}
	select {
	case <-c.done:
		return nil
	case <-s.done:
		// Run may have taken the call just before exiting
		select {
		case <-c.done:
			return nil
		default:
			return ErrSessionClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) enqueue(ctx context.Context, c call) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}
	select {
	case s.queue <- c:
		return nil
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops Run and waits for it, or releases everything directly if
// Run was never started. Safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	s.closed = true
	started := s.started
	s.mu.Unlock()

	s.stopOnce.Do(func() { close(s.stop) })
	if started {
		<-s.done
		return nil
	}
	s.cleanup()
	return nil
}

func (s *Session) cleanup() {
	s.cleanupOnce.Do(func() {
		s.engine.Destroy()
		s.socket.Close()
		s.logger.Info("session closed", "room_id", s.room.ID)
	})
}
