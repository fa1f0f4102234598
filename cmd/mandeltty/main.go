// Command mandeltty shows the Mandelbrot viewer in a text terminal.
//
// Each character cell shows two pixels. The same keys as the window viewer
// apply; the mouse wheel and left-button drag work in terminals with mouse
// reporting. Ctrl-C or Escape quits.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/text/language"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/backend/terminal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "mandeltty:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		profile    = flag.String("profile", "default", "initial viewport: default or classic")
		workers    = flag.Int("workers", 8, "render workers (0 = GOMAXPROCS)")
		partitions = flag.Int("partitions", 32, "column bands per frame")
		maxIter    = flag.Int("maxiter", fractal.MaxIterations, "iteration cap")
		palette    = flag.String("palette", "gray", "palette: gray or blue")
		pan        = flag.String("pan", "continuous", "drag panning: release or continuous")
		lang       = flag.String("lang", "en", "language for number formatting in the status line")
		logPath    = flag.String("log", "", "write logs to this file (the terminal is in use)")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	fractal.SetLogger(slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level})))

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

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	term, err := terminal.New(screen)
	if err != nil {
		return err
	}
	defer term.Close()

	viewer, err := fractal.NewViewer(term,
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runErr := make(chan error, 1)
	go func() {
		runErr <- viewer.Run(ctx)
	}()

	term.Run(viewer)
	cancel()

	if err := <-runErr; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
