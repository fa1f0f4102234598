// Package ebiten provides a windowed surface for the fractal viewer
// using Ebitengine.
//
// The window polls the mouse wheel, cursor, buttons and typed keys on every
// tick and forwards them as fractal events to an attached Viewer. Frames
// presented by the viewer are uploaded to the window in Draw.
//
// Importing the package registers the "ebiten" surface backend:
//
//	import _ "github.com/gogpu/fractal/backend/ebiten"
//
// Typical use from a command:
//
//	w := ebiten.NewWindow(surface.DefaultOptions(1000, 700))
//	v, _ := fractal.NewViewer(w)
//	w.Attach(v)
//	go v.Run(ctx)
//	err := w.Run() // blocks on the main goroutine
package ebiten
