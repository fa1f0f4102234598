// Command mandel opens an interactive Mandelbrot viewer window.
//
// Mouse wheel zooms at the cursor, dragging with the left button pans,
// r resets, + and - zoom by ten at the cursor, w/a/s/d pan and Escape quits.
//
// The surface comes from the backend registry. With -backend auto the
// window is used when a display is present; otherwise the in-memory image
// backend renders the initial frame to -out and exits.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"golang.org/x/text/language"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/backend/ebiten"
	"github.com/gogpu/fractal/surface"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "mandel:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		backend    = flag.String("backend", "auto", "surface backend: auto, "+strings.Join(surface.Backends(), ", "))
		output     = flag.String("out", "mandel-%03d.png", "frame file pattern for the image backend")
		width      = flag.Int("width", 1000, "window width")
		height     = flag.Int("height", 700, "window height")
		profile    = flag.String("profile", "default", "initial viewport: default or classic")
		workers    = flag.Int("workers", 8, "render workers (0 = GOMAXPROCS)")
		partitions = flag.Int("partitions", 32, "column bands per frame")
		maxIter    = flag.Int("maxiter", fractal.MaxIterations, "iteration cap")
		palette    = flag.String("palette", "gray", "palette: gray or blue")
		pan        = flag.String("pan", "release", "drag panning: release or continuous")
		lang       = flag.String("lang", "en", "language for number formatting in the title")
		verbose    = flag.Bool("v", false, "debug logging")
		overlay    = flag.Bool("overlay", false, "print the status line over the frame")
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

	opts := surface.DefaultOptions(*width, *height)
	opts.Caption = *overlay
	opts.FramePattern = *output
	s, err := surface.Open(*backend, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	viewer, err := fractal.NewViewer(s,
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

	win, ok := s.(*ebiten.Window)
	if !ok {
		logger.Info("no window backend, rendering one frame", "backend", *backend, "out", fmt.Sprintf(*output, 0))
		viewer.Controller().Refresh()
		return nil
	}
	win.Attach(viewer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runErr := make(chan error, 1)
	go func() {
		runErr <- viewer.Run(ctx)
	}()

	// The window owns the main goroutine until it is closed or the viewer quits.
	if err := win.Run(); err != nil {
		logger.Error("window", "err", err)
	}
	_ = win.Close()
	viewer.Post(fractal.QuitEvent{})
	stop()

	if err := <-runErr; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
