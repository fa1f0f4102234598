package ebiten

import (
	"os"
	"runtime"

	"github.com/gogpu/fractal/surface"
)

// BackendName is the registry name of the window backend.
const BackendName = "ebiten"

// init registers the window backend on package import.
func init() {
	surface.Register(BackendName, surface.PriorityWindow, func(opts surface.Options) (surface.Surface, error) {
		return NewWindow(opts), nil
	}, hasDisplay)
}

// hasDisplay reports whether a window can be opened. Only X11 and Wayland
// sessions are detected; other platforms always have a display.
func hasDisplay() bool {
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd", "netbsd":
		return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
	}
	return true
}
