// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - JWTSecret: Secret for signing bearer tokens (required)
  - TokenTTL: Lifetime of issued tokens (default: 24h)
  - HistoryLimit: Messages returned for canvas hydration (default: 1000)
  - RateLimit: HTTP requests per 10 minutes per IP (default: 100, 0 disables)
  - Advertise: Publish the relay over mDNS

# CLI Flags

	-p               Server port
	-d               Database URL
	-t               Database type
	--jwt-secret     Token signing secret
	--token-ttl      Token lifetime
	--history-limit  Hydration message limit
	--rate-limit     Per-IP request budget
	--origins        Comma-separated CORS origins (empty allows any)
	--mdns           Advertise over mDNS
	--env            .env file to load (default: .env)

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	JWT_SECRET     → --jwt-secret
	TOKEN_TTL      → --token-ttl
	HISTORY_LIMIT  → --history-limit
	RATE_LIMIT     → --rate-limit
	CORS_ORIGINS   → --origins
	MDNS_ADVERTISE → --mdns

CLI flags take precedence over environment variables. The .env file is loaded
with godotenv and never overrides variables that are already set; a missing
file is not an error.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - JWT_SECRET must be provided
  - DATABASE_TYPE must be sqlite or postgres
*/
package cliparse
