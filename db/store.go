// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/drawroom/models"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Store is the persistence gateway for users, rooms and the
// per-room message log.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying connection pool
func (s *Store) DB() *sql.DB {
	return s.db
}

// UpsertUser inserts a user or refreshes its name and photo
func (s *Store) UpsertUser(ctx context.Context, u models.User) (models.User, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_user (id, name, photo, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, photo = excluded.photo
	`, u.ID, u.Name, u.Photo, u.CreatedAt)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to upsert user: %w", err)
	}
	return s.FindUser(ctx, u.ID)
}

// FindUser returns ErrNotFound when no user has the given id
func (s *Store) FindUser(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, photo, created_at FROM app_user WHERE id = $1
	`, id).Scan(&u.ID, &u.Name, &u.Photo, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

// CreateRoom inserts a room. A duplicate slug yields ErrConflict.
func (s *Store) CreateRoom(ctx context.Context, r models.Room) (models.Room, error) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO room (id, slug, admin_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, r.ID, r.Slug, r.AdminID, r.CreatedAt)
	if isUniqueViolation(err) {
		return models.Room{}, ErrConflict
	}
	if err != nil {
		return models.Room{}, fmt.Errorf("failed to insert room: %w", err)
	}
	return r, nil
}

// FindRoomByID returns ErrNotFound when the room does not exist
func (s *Store) FindRoomByID(ctx context.Context, id string) (models.Room, error) {
	return s.findRoom(ctx, "id", id)
}

// FindRoomBySlug returns ErrNotFound when the room does not exist
func (s *Store) FindRoomBySlug(ctx context.Context, slug string) (models.Room, error) {
	return s.findRoom(ctx, "slug", slug)
}

func (s *Store) findRoom(ctx context.Context, column, value string) (models.Room, error) {
	var r models.Room
	// column is one of two constants above, never user input
	err := s.db.QueryRowContext(ctx,
		"SELECT id, slug, admin_id, created_at FROM room WHERE "+column+" = $1",
		value,
	).Scan(&r.ID, &r.Slug, &r.AdminID, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Room{}, ErrNotFound
	}
	if err != nil {
		return models.Room{}, fmt.Errorf("failed to query room: %w", err)
	}
	return r, nil
}

// AppendMessage durably records one relayed message and returns the
// stored row. The log is append-only.
func (s *Store) AppendMessage(ctx context.Context, roomID, senderID, message string) (models.Message, error) {
	m := models.Message{
		RoomID:    roomID,
		SenderID:  senderID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO chat (room_id, sender_id, message, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, roomID, senderID, message, m.CreatedAt).Scan(&m.ID)
	if err != nil {
		return models.Message{}, fmt.Errorf("failed to insert message: %w", err)
	}
	return m, nil
}

// ListMessages returns the most recent limit messages of a room in
// insertion order. limit <= 0 returns the whole log.
func (s *Store) ListMessages(ctx context.Context, roomID string, limit int) ([]models.Message, error) {
	query := `
		SELECT id, room_id, sender_id, message, created_at
		FROM chat WHERE room_id = $1
		ORDER BY id DESC`
	args := []any{roomID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.RoomID, &m.SenderID, &m.Message, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}

	// Newest first from the query; callers replay oldest first
	slices.Reverse(messages)
	return messages, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
