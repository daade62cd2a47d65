// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs completion with status, response size and duration_ms. The wrapper
forwards Hijack, so the live endpoint upgrades through it and is logged
once the connection closes.

# CORS Middleware

Enable cross-origin requests for browser clients:

	handler := middleware.CORS(cfg.AllowedOrigins)(mux)

An empty list reflects any origin. Preflights from unlisted origins get
403. Allows methods GET, POST, OPTIONS with headers Content-Type and
Authorization.

# Bearer Auth

Protect a route and read the caller's user id:

	mux.HandleFunc("POST /rooms", middleware.WithLogging(
		middleware.RequireAuth(signer, roomHandler.CreateRoom)))

	userID, _ := middleware.UserIDFromContext(r.Context())

The Authorization header may carry "Bearer <token>" or the bare token.

# Rate Limiting

Per-IP token buckets from golang.org/x/time/rate:

	limiter := middleware.NewRateLimiter(100, 10*time.Minute)
	handler := limiter.Middleware(mux)

Requests over budget get 429 with a Retry-After header. A limit of 0
disables limiting.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies (one value, at most MaxBodyBytes):

	var req models.CreateRoomRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used as the rate limiter key.
*/
package middleware
