// mktoken creates or updates a user and prints a signed bearer token for it.
//
//	mktoken -name Alice [-photo alice.png] [-id ID] [-room sketches] -- -d file:drawroom.db --jwt-secret ...
//
// Arguments after "--" are the relay's own configuration flags; the
// environment and .env file are read the same way the relay reads them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/danielhkuo/drawroom/auth"
	"github.com/danielhkuo/drawroom/cliparse"
	"github.com/danielhkuo/drawroom/db"
	"github.com/danielhkuo/drawroom/models"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		slog.Error("mktoken failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("mktoken", flag.ContinueOnError)
	name := fs.String("name", "", "Display name (required)")
	photo := fs.String("photo", "", "Photo URL")
	id := fs.String("id", "", "User id (generated when empty)")
	room := fs.String("room", "", "Also create a room with this name, owned by the user")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return errors.New("-name is required")
	}

	cfg, err := cliparse.ParseFlags(fs.Args())
	if err != nil {
		return err
	}

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		return err
	}
	store := db.NewStore(conn)

	userID := *id
	if userID == "" {
		if userID, err = auth.GenerateID(8); err != nil {
			return err
		}
	}
	user, err := store.UpsertUser(ctx, models.User{ID: userID, Name: *name, Photo: *photo})
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}

	if *room != "" {
		if err := createRoom(ctx, store, user.ID, *room); err != nil {
			return err
		}
	}

	token, err := auth.NewSigner(cfg.JWTSecret, cfg.TokenTTL).Issue(user.ID)
	if err != nil {
		return err
	}
	slog.Info("token issued", "user_id", user.ID, "name", user.Name, "ttl", cfg.TokenTTL)
	_, err = fmt.Fprintln(out, token)
	return err
}

func createRoom(ctx context.Context, store *db.Store, adminID, slug string) error {
	roomID, err := auth.GenerateID(8)
	if err != nil {
		return err
	}
	r, err := store.CreateRoom(ctx, models.Room{ID: roomID, Slug: slug, AdminID: adminID})
	if errors.Is(err, db.ErrConflict) {
		slog.Info("room already exists", "slug", slug)
		return nil
	}
	if err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	slog.Info("room created", "room_id", r.ID, "slug", r.Slug)
	return nil
}
