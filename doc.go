// Package fractal renders and navigates the Mandelbrot set.
//
// # Overview
//
// fractal computes an escape-time iteration count for every pixel of a
// viewport into the complex plane, maps the count to a color and presents
// the frame on a surface. Wheel, drag and key input change the viewport and
// trigger a new frame.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/fractal"
//	    "github.com/gogpu/fractal/surface"
//	)
//
//	s := surface.NewImageSurface(1000, 700)
//	v, err := fractal.NewViewer(s)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer v.Close()
//
//	go v.Run(ctx)
//	v.Post(fractal.WheelEvent{Notches: -1, X: 500, Y: 350}) // zoom in at the center
//
// # Architecture
//
//   - Viewport, Iterate, ColorOf: coordinate mapping, escape time, palette
//   - Renderer: splits the grid into column bands, runs them on a
//     long-lived worker pool (internal/parallel) and joins them
//   - Controller: pan, zoom anchored at the cursor, reset
//   - Viewer: single event loop that owns the Controller and presents frames
//   - surface: display surface interface, in-memory implementation
//   - backend/ebiten: interactive window
//   - backend/remote: frames over WebSocket for a browser page
//   - backend/terminal: half-block rendering in a text terminal
//
// # Coordinate System
//
// Pixel row 0 is the top of the screen. Row y is evaluated at
// Viewport.Y(y) and stored at row height-y-1, so the imaginary axis grows
// upwards on screen and Viewport.OriginY is the bottom edge.
//
// # Precision
//
// All arithmetic is float64. Zooming past roughly 1e-13 of the default
// extent shows quantization; there is no arbitrary-precision mode.
package fractal

// Version is the current version of the module.
const Version = "0.1.0"
