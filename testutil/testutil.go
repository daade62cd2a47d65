// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/drawroom/auth"
	"github.com/danielhkuo/drawroom/cliparse"
	"github.com/danielhkuo/drawroom/db"
	"github.com/danielhkuo/drawroom/models"
)

// TestDBURL is the connection string for the test database
const TestDBURL = ":memory:"

// SetupTestDB creates a fresh in-memory database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, db.TypeSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupTestStore wraps SetupTestDB in a Store
func SetupTestStore(t *testing.T) *db.Store {
	t.Helper()
	return db.NewStore(SetupTestDB(t))
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  TestDBURL,
		DatabaseType: db.TypeSQLite,
		JWTSecret:    "test-jwt-secret",
		TokenTTL:     time.Hour,
		HistoryLimit: 1000,
		RateLimit:    0,
	}
}

// NewTestSigner returns a signer for the test configuration
func NewTestSigner(cfg cliparse.Config) *auth.Signer {
	return auth.NewSigner(cfg.JWTSecret, cfg.TokenTTL)
}

// CreateTestUser inserts a user and returns it
func CreateTestUser(t *testing.T, store *db.Store, name string) models.User {
	t.Helper()

	id, _ := auth.GenerateID(8)
	user, err := store.UpsertUser(context.Background(), models.User{
		ID:    id,
		Name:  name,
		Photo: strings.ToLower(name) + ".png",
	})
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// CreateTestRoom inserts a room administered by adminID
func CreateTestRoom(t *testing.T, store *db.Store, adminID, slug string) models.Room {
	t.Helper()

	id, _ := auth.GenerateID(8)
	room, err := store.CreateRoom(context.Background(), models.Room{
		ID:      id,
		Slug:    slug,
		AdminID: adminID,
	})
	if err != nil {
		t.Fatalf("Failed to create test room: %v", err)
	}

	return room
}

// IssueTestToken signs a bearer token for userID
func IssueTestToken(t *testing.T, cfg cliparse.Config, userID string) string {
	t.Helper()

	token, err := NewTestSigner(cfg).Issue(userID)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}

	return token
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AuthHeader returns request headers carrying a bearer token
func AuthHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// DialWS opens a live connection to an httptest server
func DialWS(t *testing.T, serverURL, token string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(serverURL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

// SendFrame writes one JSON frame
func SendFrame(t *testing.T, conn *websocket.Conn, frame interface{}) {
	t.Helper()
	if err := conn.WriteJSON(frame); err != nil {
		t.Fatalf("Failed to send frame: %v", err)
	}
}

// ReadFrame reads one relay frame or fails after timeout
func ReadFrame(t *testing.T, conn *websocket.Conn, timeout time.Duration) models.ServerFrame {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(timeout))
	defer conn.SetReadDeadline(time.Time{})

	var frame models.ServerFrame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("Failed to read frame: %v", err)
	}
	return frame
}

// AssertNoFrame fails if a frame arrives within wait. A timed-out read
// leaves the connection unusable, so call it last.
func AssertNoFrame(t *testing.T, conn *websocket.Conn, wait time.Duration) {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(wait))
	var frame models.ServerFrame
	if err := conn.ReadJSON(&frame); err == nil {
		t.Errorf("Expected no frame, got %+v", frame)
	}
}
