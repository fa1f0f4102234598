package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/surface"
)

// step is one scripted interaction applied to a headless viewer.
type step func(v *fractal.Viewer, s *surface.ImageSurface) error

// parseStep parses one command:
//
//	zoom:x,y          wheel notch up at pixel (x, y)
//	out:x,y           wheel notch down at pixel (x, y)
//	cursor:x,y        move the cursor (used by key:+ and key:-)
//	pan:dx,dy         pan by (dx, dy) in plane units
//	drag:x0,y0,x1,y1  left-button drag from (x0, y0) to (x1, y1)
//	key:c             press key c; key:esc presses Escape
func parseStep(text string) (step, error) {
	op, arg, ok := strings.Cut(strings.TrimSpace(text), ":")
	if !ok {
		return nil, fmt.Errorf("command %q: missing ':'", text)
	}

	switch op {
	case "zoom", "out":
		p, err := parseInts(arg, 2)
		if err != nil {
			return nil, fmt.Errorf("command %q: %w", text, err)
		}
		notches := -1
		if op == "out" {
			notches = 1
		}
		return handle(fractal.WheelEvent{Notches: notches, X: p[0], Y: p[1]}), nil

	case "cursor":
		p, err := parseInts(arg, 2)
		if err != nil {
			return nil, fmt.Errorf("command %q: %w", text, err)
		}
		return func(_ *fractal.Viewer, s *surface.ImageSurface) error {
			s.SetCursor(p[0], p[1])
			return nil
		}, nil

	case "pan":
		d, err := parseFloats(arg, 2)
		if err != nil {
			return nil, fmt.Errorf("command %q: %w", text, err)
		}
		return func(v *fractal.Viewer, _ *surface.ImageSurface) error {
			v.Controller().Pan(d[0], d[1])
			return nil
		}, nil

	case "drag":
		p, err := parseInts(arg, 4)
		if err != nil {
			return nil, fmt.Errorf("command %q: %w", text, err)
		}
		return drag(p[0], p[1], p[2], p[3]), nil

	case "key":
		key, err := parseKey(arg)
		if err != nil {
			return nil, fmt.Errorf("command %q: %w", text, err)
		}
		return handle(fractal.KeyEvent{Key: key}), nil
	}
	return nil, fmt.Errorf("command %q: unknown operation %q", text, op)
}

// parseScript reads one command per line. Blank lines and lines starting
// with '#' are skipped.
func parseScript(r io.Reader) ([]step, error) {
	var steps []step
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		st, err := parseStep(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		steps = append(steps, st)
	}
	return steps, sc.Err()
}

func handle(ev fractal.Event) step {
	return func(v *fractal.Viewer, _ *surface.ImageSurface) error {
		return v.Handle(ev)
	}
}

func drag(x0, y0, x1, y1 int) step {
	return func(v *fractal.Viewer, s *surface.ImageSurface) error {
		s.SetButton(surface.ButtonPrimary, true)
		events := []fractal.Event{
			fractal.PointerEvent{Kind: fractal.PointerPress, Button: surface.ButtonPrimary, X: x0, Y: y0},
			fractal.PointerEvent{Kind: fractal.PointerMove, X: x1, Y: y1},
		}
		for _, ev := range events {
			if err := v.Handle(ev); err != nil {
				return err
			}
		}
		s.SetButton(surface.ButtonPrimary, false)
		return v.Handle(fractal.PointerEvent{Kind: fractal.PointerRelease, Button: surface.ButtonPrimary, X: x1, Y: y1})
	}
}

func parseKey(arg string) (rune, error) {
	if arg == "esc" {
		return fractal.KeyEscape, nil
	}
	r := []rune(arg)
	if len(r) != 1 {
		return 0, fmt.Errorf("key %q: want one character or esc", arg)
	}
	return r[0], nil
}

func parseInts(arg string, n int) ([]int, error) {
	fields := strings.Split(arg, ",")
	if len(fields) != n {
		return nil, fmt.Errorf("want %d values, got %d", n, len(fields))
	}
	out := make([]int, n)
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parseFloats(arg string, n int) ([]float64, error) {
	fields := strings.Split(arg, ",")
	if len(fields) != n {
		return nil, fmt.Errorf("want %d values, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
