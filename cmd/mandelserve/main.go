// Command mandelserve serves the Mandelbrot viewer to web browsers.
//
// Frames are pushed as PNG over a WebSocket at /ws; the page at / shows
// them and sends wheel, mouse and key input back.
package main

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/backend/remote"
	"github.com/gogpu/fractal/surface"
)

//go:embed index.html
var indexHTML []byte

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "mandelserve:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		addr       = flag.String("addr", ":8080", "listen address")
		origins    = flag.String("origins", "", "comma-separated extra origin patterns allowed to connect")
		width      = flag.Int("width", 1000, "frame width")
		height     = flag.Int("height", 700, "frame height")
		profile    = flag.String("profile", "default", "initial viewport: default or classic")
		workers    = flag.Int("workers", 8, "render workers (0 = GOMAXPROCS)")
		partitions = flag.Int("partitions", 32, "column bands per frame")
		maxIter    = flag.Int("maxiter", fractal.MaxIterations, "iteration cap")
		palette    = flag.String("palette", "gray", "palette: gray or blue")
		pan        = flag.String("pan", "release", "drag panning: release or continuous")
		lang       = flag.String("lang", "en", "language for number formatting in the title")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	fractal.SetLogger(logger)

	vp, err := fractal.ViewportByName(*profile)
	if err != nil {
		return err
	}
	pal, err := fractal.PaletteByName(*palette)
	if err != nil {
		return err
	}
	policy, err := fractal.ParsePanPolicy(*pan)
	if err != nil {
		return err
	}
	tag, err := language.Parse(*lang)
	if err != nil {
		return fmt.Errorf("invalid -lang: %w", err)
	}

	var patterns []string
	if *origins != "" {
		patterns = strings.Split(*origins, ",")
	}
	stream := remote.NewStream(surface.DefaultOptions(*width, *height), patterns...)

	viewer, err := fractal.NewViewer(stream,
		fractal.WithDefaultViewport(vp),
		fractal.WithWorkers(*workers),
		fractal.WithPartitions(*partitions),
		fractal.WithMaxIterations(*maxIter),
		fractal.WithPalette(pal),
		fractal.WithPanPolicy(policy),
		fractal.WithLanguage(tag),
	)
	if err != nil {
		return err
	}
	defer viewer.Close()
	stream.Attach(viewer)

	mux := http.NewServeMux()
	mux.Handle("/ws", stream)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(indexHTML)
	})

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		err := viewer.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("viewer stopped", "err", err)
		}
		stop()
	}()

	go func() {
		<-ctx.Done()
		_ = stream.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", "addr", *addr)
	err = srv.ListenAndServe()
	stop()
	<-viewer.Done()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
