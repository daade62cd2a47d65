// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/danielhkuo/drawroom/models"
)

// Registry tracks the participants that are currently connected.
type Registry interface {
	Add(p *Participant)
	Remove(id string)
	// Members returns a snapshot of every connected participant
	Members() []*Participant
	Len() int
}

// MemoryRegistry is the single-process Registry.
type MemoryRegistry struct {
	mu           sync.RWMutex
	participants map[string]*Participant
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{participants: make(map[string]*Participant)}
}

func (r *MemoryRegistry) Add(p *Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.participants[p.ID] = p
}

func (r *MemoryRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.participants, id)
}

func (r *MemoryRegistry) Members() []*Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := make([]*Participant, 0, len(r.participants))
	for _, p := range r.participants {
		members = append(members, p)
	}
	return members
}

func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.participants)
}

// Bus delivers a persisted chat message to every member of its room.
// A multi-process deployment replaces LocalBus with a shared pub/sub bus.
type Bus interface {
	Publish(ctx context.Context, msg models.ChatBroadcast) error
}

// LocalBus fans out by scanning a Registry. Cost is O(connections) per
// message.
type LocalBus struct {
	registry Registry
	logger   *slog.Logger
}

func NewLocalBus(registry Registry, logger *slog.Logger) *LocalBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalBus{registry: registry, logger: logger}
}

func (b *LocalBus) Publish(ctx context.Context, msg models.ChatBroadcast) error {
	frame, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode broadcast: %w", err)
	}

	for _, p := range b.registry.Members() {
		if !p.InRoom(msg.RoomID) {
			continue
		}
		switch err := p.Send(frame); err {
		case nil, ErrClosed:
			// Closed participants are dropped silently
		case ErrSlowConsumer:
			b.logger.Warn("disconnecting slow participant",
				"participant", p.ID,
				"user_id", p.UserID,
				"room_id", msg.RoomID,
			)
			p.Close()
		}
	}
	return nil
}
