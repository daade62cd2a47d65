// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/danielhkuo/drawroom/models"
)

const defaultHTTPTimeout = 10 * time.Second

// Client talks to the relay's HTTP API with a bearer token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient returns a client for baseURL. A nil httpClient gets a
// client with a 10 second timeout.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
	}
}

// CreateRoom creates a room named name and returns its id
func (c *Client) CreateRoom(ctx context.Context, name string) (string, error) {
	var resp models.CreateRoomResponse
	if err := c.do(ctx, http.MethodPost, "/rooms", models.CreateRoomRequest{Name: name}, &resp); err != nil {
		return "", fmt.Errorf("create room: %w", err)
	}
	return resp.RoomID, nil
}

// ResolveSlug looks up a room by its slug
func (c *Client) ResolveSlug(ctx context.Context, slug string) (models.Room, error) {
	var resp models.RoomResponse
	if err := c.do(ctx, http.MethodGet, "/rooms/by-slug/"+url.PathEscape(slug), nil, &resp); err != nil {
		return models.Room{}, fmt.Errorf("resolve room %q: %w", slug, err)
	}
	return resp.Room, nil
}

// Messages returns the room's persisted log, oldest first
func (c *Client) Messages(ctx context.Context, roomID string) ([]models.Message, error) {
	var resp models.MessagesResponse
	if err := c.do(ctx, http.MethodGet, "/rooms/"+url.PathEscape(roomID)+"/messages", nil, &resp); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return resp.Messages, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr models.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
