// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/drawroom/cliparse"
	"github.com/danielhkuo/drawroom/handlers"
	"github.com/danielhkuo/drawroom/middleware"
)

func NewRouter(store handlers.RoomStore, live handlers.LiveServer, verifier middleware.TokenVerifier, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	roomHandler := handlers.NewRoomHandler(store, cfg)
	liveHandler := handlers.NewLiveHandler(live)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Rooms (bearer token required)
	mux.HandleFunc("POST /rooms", middleware.WithLogging(middleware.RequireAuth(verifier, roomHandler.CreateRoom)))
	// by-slug/{slug} and {roomId}/messages
	mux.HandleFunc("GET /rooms/{roomId}/{resource}", middleware.WithLogging(middleware.RequireAuth(verifier, roomHandler.GetRoomResource)))

	// Live connection (token in the query string)
	mux.HandleFunc("GET /ws", middleware.WithLogging(liveHandler.Connect))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("drawroom API v1"))
	})

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cliparse.RateWindow)
	return middleware.CORS(cfg.AllowedOrigins)(limiter.Middleware(mux))
}
