// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dbType string) error {
	ddl, err := schemaFor(dbType)
	if err != nil {
		return err
	}

	// One statement per Exec; not every driver accepts batches
	for _, stmt := range strings.Split(ddl, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

func schemaFor(dbType string) (string, error) {
	switch dbType {
	case TypePostgres:
		return strings.ReplaceAll(schema, "{{serial}}", "BIGSERIAL PRIMARY KEY"), nil
	case TypeSQLite:
		return strings.ReplaceAll(schema, "{{serial}}", "INTEGER PRIMARY KEY AUTOINCREMENT"), nil
	default:
		return "", fmt.Errorf("unsupported database type %q", dbType)
	}
}

const schema = `
-- Users
CREATE TABLE IF NOT EXISTS app_user (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    photo TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Rooms
CREATE TABLE IF NOT EXISTS room (
    id TEXT PRIMARY KEY,
    slug TEXT NOT NULL UNIQUE,
    admin_id TEXT NOT NULL REFERENCES app_user(id),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_room_admin_id ON room(admin_id);

-- Append-only message log, one row per relayed shape
CREATE TABLE IF NOT EXISTS chat (
    id {{serial}},
    room_id TEXT NOT NULL REFERENCES room(id) ON DELETE CASCADE,
    sender_id TEXT NOT NULL REFERENCES app_user(id),
    message TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_chat_room_id ON chat(room_id, id);
`
