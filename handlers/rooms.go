// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/danielhkuo/drawroom/auth"
	"github.com/danielhkuo/drawroom/cliparse"
	"github.com/danielhkuo/drawroom/db"
	"github.com/danielhkuo/drawroom/middleware"
	"github.com/danielhkuo/drawroom/models"
)

const (
	minRoomName = 3
	maxRoomName = 20
)

// RoomStore is the persistence the room handlers need
type RoomStore interface {
	CreateRoom(ctx context.Context, r models.Room) (models.Room, error)
	FindRoomByID(ctx context.Context, id string) (models.Room, error)
	FindRoomBySlug(ctx context.Context, slug string) (models.Room, error)
	ListMessages(ctx context.Context, roomID string, limit int) ([]models.Message, error)
}

type RoomHandler struct {
	store RoomStore
	cfg   cliparse.Config
}

func NewRoomHandler(store RoomStore, cfg cliparse.Config) *RoomHandler {
	return &RoomHandler{store: store, cfg: cfg}
}

// CreateRoom handles POST /rooms
func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Missing token")
		return
	}

	var req models.CreateRoomRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// The room name doubles as its slug
	slug := strings.TrimSpace(req.Name)
	if n := utf8.RuneCountInString(slug); n < minRoomName || n > maxRoomName {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name must be 3-20 characters")
		return
	}

	roomID, err := auth.GenerateID(8)
	if err != nil {
		slog.Error("failed to generate room ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create room")
		return
	}

	room, err := h.store.CreateRoom(r.Context(), models.Room{
		ID:      roomID,
		Slug:    slug,
		AdminID: userID,
	})
	if errors.Is(err, db.ErrConflict) {
		middleware.ErrorResponse(w, http.StatusConflict, "Room already exists")
		return
	}
	if err != nil {
		slog.Error("failed to insert room", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create room")
		return
	}

	slog.Info("room created", "room_id", room.ID, "slug", room.Slug, "admin_id", userID)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateRoomResponse{RoomID: room.ID})
}

// GetRoomResource handles GET /rooms/{roomId}/{resource}. The two
// read routes share one pattern because ServeMux rejects
// /rooms/by-slug/{slug} next to /rooms/{roomId}/messages.
func (h *RoomHandler) GetRoomResource(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.PathValue("roomId") == "by-slug":
		h.getRoomBySlug(w, r, r.PathValue("resource"))
	case r.PathValue("resource") == "messages":
		h.getMessages(w, r, r.PathValue("roomId"))
	default:
		middleware.ErrorResponse(w, http.StatusNotFound, "Not found")
	}
}

// getRoomBySlug handles GET /rooms/by-slug/{slug}
func (h *RoomHandler) getRoomBySlug(w http.ResponseWriter, r *http.Request, slug string) {
	room, err := h.store.FindRoomBySlug(r.Context(), slug)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Room not found")
		return
	}
	if err != nil {
		slog.Error("failed to query room", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RoomResponse{Room: room})
}

// getMessages handles GET /rooms/{roomId}/messages
func (h *RoomHandler) getMessages(w http.ResponseWriter, r *http.Request, roomID string) {
	if _, err := h.store.FindRoomByID(r.Context(), roomID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Room not found")
			return
		}
		slog.Error("failed to query room", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	messages, err := h.store.ListMessages(r.Context(), roomID, h.cfg.HistoryLimit)
	if err != nil {
		slog.Error("failed to list messages", "room_id", roomID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MessagesResponse{Messages: messages})
}
