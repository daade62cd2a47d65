// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
)

// LiveServer serves authenticated live connections
type LiveServer interface {
	ServeWS(w http.ResponseWriter, r *http.Request)
}

type LiveHandler struct {
	live LiveServer
}

func NewLiveHandler(live LiveServer) *LiveHandler {
	return &LiveHandler{live: live}
}

// Connect handles GET /ws?token=...
// The token is checked after the upgrade, so a bad token yields a
// connection that is closed immediately rather than an HTTP error.
func (h *LiveHandler) Connect(w http.ResponseWriter, r *http.Request) {
	h.live.ServeWS(w, r)
}
