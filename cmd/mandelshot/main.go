// Command mandelshot renders Mandelbrot frames without a window.
//
// It replays a list of viewer commands against an in-memory surface and
// writes every presented frame as PNG:
//
//	mandelshot -out 'frame-%03d.png' zoom:500,350 zoom:500,350 key:r
//
// Commands come from the arguments, or one per line from -script.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/surface"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "mandelshot:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		width      = flag.Int("width", 1000, "image width")
		height     = flag.Int("height", 700, "image height")
		output     = flag.String("out", "frame-%03d.png", "frame file pattern (fmt verb for the frame index)")
		caption    = flag.Bool("caption", true, "draw the status line into each frame")
		script     = flag.String("script", "", "file with one command per line")
		profile    = flag.String("profile", "default", "initial viewport: default or classic")
		workers    = flag.Int("workers", 8, "render workers (0 = GOMAXPROCS)")
		partitions = flag.Int("partitions", 32, "column bands per frame")
		maxIter    = flag.Int("maxiter", fractal.MaxIterations, "iteration cap")
		palette    = flag.String("palette", "gray", "palette: gray or blue")
		lang       = flag.String("lang", "en", "language for number formatting")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	fractal.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	steps, err := loadSteps(*script, flag.Args())
	if err != nil {
		return err
	}

	vp, err := fractal.ViewportByName(*profile)
	if err != nil {
		return err
	}
	pal, err := fractal.PaletteByName(*palette)
	if err != nil {
		return err
	}
	tag, err := language.Parse(*lang)
	if err != nil {
		return fmt.Errorf("invalid -lang: %w", err)
	}

	opts := surface.DefaultOptions(*width, *height)
	opts.FramePattern = *output
	opts.Caption = *caption
	s, err := surface.Open("image", opts)
	if err != nil {
		return err
	}
	img := s.(*surface.ImageSurface)
	defer img.Close()

	viewer, err := fractal.NewViewer(img,
		fractal.WithDefaultViewport(vp),
		fractal.WithWorkers(*workers),
		fractal.WithPartitions(*partitions),
		fractal.WithMaxIterations(*maxIter),
		fractal.WithPalette(pal),
		fractal.WithLanguage(tag),
	)
	if err != nil {
		return err
	}
	defer viewer.Close()

	viewer.Controller().Refresh()
	for _, st := range steps {
		if err := st(viewer, img); err != nil {
			if errors.Is(err, fractal.ErrQuit) {
				break
			}
			return err
		}
	}

	fmt.Println(summary(message.NewPrinter(tag), img.Frames(), img.Width()*img.Height(),
		viewer.LastElapsed(), viewer.Controller().Viewport()))
	return nil
}

func loadSteps(path string, args []string) ([]step, error) {
	if path == "" {
		return parseScript(strings.NewReader(strings.Join(args, "\n")))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseScript(f)
}
