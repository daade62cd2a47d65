// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrCouldNotConnect covers every authentication and handshake
	// failure. Callers show it as a generic connection error.
	ErrCouldNotConnect = errors.New("could not connect")
	// ErrSessionClosed is returned once a session's event loop has ended.
	ErrSessionClosed = errors.New("session closed")
	// ErrSocketClosed is returned when sending on a closed live connection.
	ErrSocketClosed = errors.New("live connection closed")
	// ErrSendQueueFull is returned when the outbound queue cannot take
	// another frame.
	ErrSendQueueFull = errors.New("live connection send queue full")
)

// HTTPError is a non-2xx response from the relay's HTTP API.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an HTTPError with the given status
func IsStatus(err error, status int) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.StatusCode == status
}

// isAuthFailure reports whether err means the token was rejected
func isAuthFailure(err error) bool {
	return IsStatus(err, http.StatusUnauthorized) || IsStatus(err, http.StatusForbidden)
}
