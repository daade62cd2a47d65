// drawbot joins a room as a headless participant, draws a scripted set of
// strokes and saves what it sees as a PNG.
//
//	drawbot -token $TOKEN -room sketches [-url http://localhost:3318] [-strokes 12] [-out room.png]
//
// Without -url the relay is found over mDNS.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/danielhkuo/drawroom/canvas"
	"github.com/danielhkuo/drawroom/client"
	"github.com/danielhkuo/drawroom/discovery"
	"github.com/danielhkuo/drawroom/engine"
)

type options struct {
	baseURL  string
	token    string
	room     string
	create   bool
	strokes  int
	interval time.Duration
	settle   time.Duration
	width    int
	height   int
	out      string
	seed     uint64
	browse   time.Duration
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, slog.Default()); err != nil {
		slog.Error("drawbot failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("drawbot", flag.ContinueOnError)
	fs.StringVar(&o.baseURL, "url", "", "Relay HTTP URL (browse mDNS when empty)")
	fs.StringVar(&o.token, "token", os.Getenv("DRAWROOM_TOKEN"), "Bearer token (or DRAWROOM_TOKEN env)")
	fs.StringVar(&o.room, "room", "", "Room slug")
	fs.BoolVar(&o.create, "create", false, "Create the room when it does not exist")
	fs.IntVar(&o.strokes, "strokes", 12, "Number of strokes to draw")
	fs.DurationVar(&o.interval, "interval", 250*time.Millisecond, "Pause between strokes")
	fs.DurationVar(&o.settle, "settle", time.Second, "Time to keep listening after the last stroke")
	fs.IntVar(&o.width, "width", 1280, "Canvas width")
	fs.IntVar(&o.height, "height", 720, "Canvas height")
	fs.StringVar(&o.out, "out", "", "Write the final canvas to this PNG file")
	fs.Uint64Var(&o.seed, "seed", uint64(time.Now().UnixNano()), "Random seed for stroke placement")
	fs.DurationVar(&o.browse, "browse", 3*time.Second, "mDNS browse timeout")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.token == "" {
		return o, errors.New("token required (use -token or DRAWROOM_TOKEN env)")
	}
	if o.room == "" {
		return o, errors.New("-room is required")
	}
	if o.strokes < 0 {
		return o, errors.New("-strokes must not be negative")
	}
	return o, nil
}

func run(ctx context.Context, o options, logger *slog.Logger) error {
	baseURL, wsURL, err := locateRelay(ctx, o.baseURL, o.browse)
	if err != nil {
		return err
	}

	surface, err := canvas.New(o.width, o.height, logger)
	if err != nil {
		return err
	}
	defer surface.Close()

	cfg := client.Config{BaseURL: baseURL, WSURL: wsURL, Token: o.token, Slug: o.room}
	s, err := client.Open(ctx, cfg, surface, client.WithLogger(logger))
	if client.IsStatus(err, http.StatusNotFound) && o.create {
		if _, cerr := client.NewClient(baseURL, o.token, nil).CreateRoom(ctx, o.room); cerr != nil {
			return cerr
		}
		logger.Info("room created", "slug", o.room)
		s, err = client.Open(ctx, cfg, surface, client.WithLogger(logger))
	}
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Run(runCtx) }()

	rng := rand.New(rand.NewPCG(o.seed, o.seed^0x9e3779b97f4a7c15))
	w, h := float64(o.width), float64(o.height)
	for i := range o.strokes {
		tool := engine.Tools[1+i%(len(engine.Tools)-1)]
		if err := s.Do(ctx, func(e *engine.Engine) { e.SetTool(tool) }); err != nil {
			return err
		}
		for _, ev := range gesture(tool, rng, w, h) {
			if err := s.Dispatch(ctx, ev); err != nil {
				return err
			}
		}
		logger.Debug("stroke drawn", "tool", tool, "n", i+1)
		if !sleep(ctx, o.interval) {
			break
		}
	}
	sleep(ctx, o.settle)

	var count int
	var saveErr error
	err = s.Do(ctx, func(e *engine.Engine) {
		count = len(e.Shapes())
		e.Render()
		if o.out != "" {
			saveErr = surface.SavePNG(o.out)
		}
	})
	if err != nil {
		return err
	}
	if saveErr != nil {
		return fmt.Errorf("save png: %w", saveErr)
	}
	logger.Info("drawbot finished", "room", o.room, "shapes", count, "out", o.out)

	cancel()
	return <-done
}

// locateRelay returns the HTTP and live URLs, browsing mDNS when baseURL
// is empty.
func locateRelay(ctx context.Context, baseURL string, browse time.Duration) (string, string, error) {
	if baseURL != "" {
		base := strings.TrimRight(baseURL, "/")
		return base, "ws" + strings.TrimPrefix(base, "http") + "/ws", nil
	}
	relays, err := discovery.Browse(ctx, browse)
	if err != nil {
		return "", "", err
	}
	if len(relays) == 0 {
		return "", "", errors.New("no relay found over mDNS; pass -url")
	}
	slog.Info("found relay", "instance", relays[0].Instance, "addr", relays[0].Addr())
	return relays[0].HTTPURL(), relays[0].WSURL(), nil
}

// gesture scripts one stroke for tool inside a w x h canvas
func gesture(tool engine.Tool, rng *rand.Rand, w, h float64) []engine.Event {
	x := 40 + rng.Float64()*(w-160)
	y := 40 + rng.Float64()*(h-160)
	dx := 20 + rng.Float64()*100
	dy := 20 + rng.Float64()*100

	switch tool {
	case engine.ToolText:
		evs := []engine.Event{engine.PointerDown{X: x, Y: y}, engine.PointerUp{X: x, Y: y}}
		for _, r := range "drawbot" {
			evs = append(evs, engine.Key{Key: string(r)})
		}
		return append(evs, engine.Key{Key: engine.KeyEnter})
	case engine.ToolPencil, engine.ToolEraser:
		evs := []engine.Event{engine.PointerDown{X: x, Y: y}}
		for i := 1; i <= 8; i++ {
			t := float64(i) / 8
			evs = append(evs, engine.PointerMove{X: x + dx*t, Y: y + dy*t*t})
		}
		return append(evs, engine.PointerUp{X: x + dx, Y: y + dy})
	}
	return []engine.Event{
		engine.PointerDown{X: x, Y: y},
		engine.PointerMove{X: x + dx/2, Y: y + dy/2},
		engine.PointerMove{X: x + dx, Y: y + dy},
		engine.PointerUp{X: x + dx, Y: y + dy},
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
