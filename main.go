package main

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/danielhkuo/drawroom/auth"
	"github.com/danielhkuo/drawroom/cliparse"
	"github.com/danielhkuo/drawroom/db"
	"github.com/danielhkuo/drawroom/discovery"
	"github.com/danielhkuo/drawroom/relay"
	"github.com/danielhkuo/drawroom/router"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err, "type", cfg.DatabaseType)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn, cfg.DatabaseType); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	store := db.NewStore(dbConn)
	signer := auth.NewSigner(cfg.JWTSecret, cfg.TokenTTL)
	hub := relay.NewHub(store, signer)

	// Create server
	server := http.Server{
		Handler: router.NewRouter(store, hub, signer, cfg),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	if cfg.Advertise {
		adv, err := discovery.Advertise(cfg.Port, "")
		if err != nil {
			slog.Warn("mDNS advertisement failed", "error", err)
		} else {
			defer adv.Shutdown()
			slog.Info("Advertising over mDNS", "service", discovery.ServiceType)
		}
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
		// Hijacked live connections are not closed by server.Close
		hub.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
