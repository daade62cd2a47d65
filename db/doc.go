// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections, schema creation and persistence.

# Connecting

Open selects the driver from the configured database type:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

Supported types are "postgres" (lib/pq) and "sqlite" (modernc.org/sqlite).
SQLite connections are limited to one so writes are serialized and
foreign keys are enforced.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - app_user: Users that may connect to the relay
  - room: Drawing rooms, addressable by id or slug
  - chat: Append-only log of relayed shape messages

# Relationships

	app_user 1──* room (admin)
	room 1──* chat
	app_user 1──* chat (sender)

Deleting a room cascades to its messages.

# Store

Store wraps the connection with the operations the relay and HTTP
handlers need:

	store := db.NewStore(conn)
	msg, err := store.AppendMessage(ctx, roomID, userID, envelope)
	history, err := store.ListMessages(ctx, roomID, 1000)

Lookups return ErrNotFound for missing rows; CreateRoom returns
ErrConflict for a duplicate slug. ListMessages always returns rows in
insertion order, which is the replay order for late joiners.
*/
package db
