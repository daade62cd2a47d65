package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	JWTSecret    string
	TokenTTL     time.Duration
	HistoryLimit int
	RateLimit    int // requests per RateWindow per client IP; 0 disables

	// AllowedOrigins lists browser origins allowed by CORS; empty allows any
	AllowedOrigins []string

	Advertise bool
	EnvFile   string
}

// RateWindow is the period RateLimit is counted over.
const RateWindow = 10 * time.Minute

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("drawroom", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.BoolVar(&cfg.Advertise, "mdns", false, "Advertise the relay over mDNS")
	fs.StringVar(&cfg.EnvFile, "env", ".env", "Optional .env file")

	// Tuning
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", 0, "Lifetime of issued tokens")
	fs.IntVar(&cfg.HistoryLimit, "history-limit", 0, "Max messages returned for hydration")
	fs.IntVar(&cfg.RateLimit, "rate-limit", -1, "HTTP requests per 10 minutes per IP (0 disables)")
	origins := fs.String("origins", "", "Comma-separated CORS origins (empty allows any)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "Token signing secret (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Values already in the environment win over the file
	if err := loadEnvFile(cfg.EnvFile); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		port, err := envInt("PORT", 3318)
		if err != nil {
			return Config{}, err
		}
		cfg.Port = port
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.TokenTTL == 0 {
		if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
			d, err := time.ParseDuration(ttl)
			if err != nil {
				return Config{}, errors.New("invalid TOKEN_TTL env variable")
			}
			cfg.TokenTTL = d
		} else {
			cfg.TokenTTL = 24 * time.Hour
		}
	}

	if cfg.HistoryLimit == 0 {
		limit, err := envInt("HISTORY_LIMIT", 1000)
		if err != nil {
			return Config{}, err
		}
		cfg.HistoryLimit = limit
	}

	if cfg.RateLimit < 0 {
		limit, err := envInt("RATE_LIMIT", 100)
		if err != nil {
			return Config{}, err
		}
		cfg.RateLimit = limit
	}

	if *origins == "" {
		*origins = os.Getenv("CORS_ORIGINS")
	}
	cfg.AllowedOrigins = splitList(*origins)

	if !cfg.Advertise && os.Getenv("MDNS_ADVERTISE") == "true" {
		cfg.Advertise = true
	}

	// Secrets - MUST be provided
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}

	return cfg, nil
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
}
