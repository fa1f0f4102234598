package fractal

import (
	"fmt"

	"github.com/gogpu/fractal/surface"
)

// Event is an input event consumed by the Viewer.
type Event interface {
	isEvent()
}

// WheelEvent is a mouse wheel movement at pixel (X, Y).
// Notches < 0 means scrolled up (away from the user) and zooms in;
// Notches > 0 zooms out. Each notch is one zoom step.
type WheelEvent struct {
	Notches int
	X, Y    int
}

// PointerKind distinguishes pointer events.
type PointerKind uint8

const (
	PointerPress PointerKind = iota
	PointerMove
	PointerRelease
)

// String returns the kind name.
func (k PointerKind) String() string {
	switch k {
	case PointerPress:
		return "press"
	case PointerMove:
		return "move"
	case PointerRelease:
		return "release"
	}
	return fmt.Sprintf("PointerKind(%d)", uint8(k))
}

// PointerEvent is a button press, pointer move or button release at (X, Y).
type PointerEvent struct {
	Kind   PointerKind
	Button surface.Button
	X, Y   int
}

// KeyEvent is a key press. Printable keys carry their character;
// the escape key is KeyEscape.
type KeyEvent struct {
	Key rune
}

// KeyEscape is the Key of an escape key press.
const KeyEscape rune = 0x1b

// QuitEvent asks the Viewer to stop, e.g. when the window was closed.
type QuitEvent struct{}

func (WheelEvent) isEvent()   {}
func (PointerEvent) isEvent() {}
func (KeyEvent) isEvent()     {}
func (QuitEvent) isEvent()    {}

// Action is what a bound key does.
type Action uint8

const (
	ActionNone Action = iota
	ActionReset
	ActionZoomIn
	ActionZoomOut
	ActionPanUp
	ActionPanLeft
	ActionPanDown
	ActionPanRight
	ActionQuit
)

var actionNames = [...]string{
	ActionNone:     "none",
	ActionReset:    "reset",
	ActionZoomIn:   "zoom-in",
	ActionZoomOut:  "zoom-out",
	ActionPanUp:    "pan-up",
	ActionPanLeft:  "pan-left",
	ActionPanDown:  "pan-down",
	ActionPanRight: "pan-right",
	ActionQuit:     "quit",
}

// String returns the action name.
func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", uint8(a))
}

// Bindings maps keys to actions.
type Bindings map[rune]Action

// DefaultBindings returns r (reset), +/- (large zoom at the cursor),
// w/a/s/d (pan) and escape (quit).
func DefaultBindings() Bindings {
	return Bindings{
		'r':       ActionReset,
		'+':       ActionZoomIn,
		'-':       ActionZoomOut,
		'w':       ActionPanUp,
		'a':       ActionPanLeft,
		's':       ActionPanDown,
		'd':       ActionPanRight,
		KeyEscape: ActionQuit,
	}
}

// Lookup returns the action bound to key, or ActionNone.
func (b Bindings) Lookup(key rune) Action {
	return b[key]
}

// PanPolicy selects when a drag is applied.
type PanPolicy uint8

const (
	// PanOnRelease accumulates the drag from press to release and pans once.
	PanOnRelease PanPolicy = iota

	// PanContinuous pans on every pointer move while the button is held.
	PanContinuous
)

// ParsePanPolicy parses "release" or "continuous".
func ParsePanPolicy(s string) (PanPolicy, error) {
	switch s {
	case "", "release":
		return PanOnRelease, nil
	case "continuous":
		return PanContinuous, nil
	}
	return PanOnRelease, fmt.Errorf("fractal: unknown pan policy %q", s)
}

// String returns the policy name.
func (p PanPolicy) String() string {
	if p == PanContinuous {
		return "continuous"
	}
	return "release"
}

// heldMove is a pointer move stamped by Viewer.Post with the primary
// button state.
type heldMove struct {
	PointerEvent
	held bool
}

// dragTracker turns primary-button pointer events into pan distances.
type dragTracker struct {
	policy PanPolicy

	active bool
	startX int
	startY int
	lastX  int
	lastY  int
}

// press starts a drag at (x, y).
func (d *dragTracker) press(x, y int) {
	d.active = true
	d.startX, d.startY = x, y
	d.lastX, d.lastY = x, y
}

// move records a pointer move. It returns the pixel delta to pan by now,
// which is non-zero only for PanContinuous.
func (d *dragTracker) move(x, y int) (dx, dy int, ok bool) {
	if !d.active {
		return 0, 0, false
	}
	dx, dy = x-d.lastX, y-d.lastY
	d.lastX, d.lastY = x, y
	if d.policy != PanContinuous || (dx == 0 && dy == 0) {
		return 0, 0, false
	}
	return dx, dy, true
}

// release ends the drag. It returns the accumulated delta for PanOnRelease.
func (d *dragTracker) release(x, y int) (dx, dy int, ok bool) {
	if !d.active {
		return 0, 0, false
	}
	d.active = false
	if d.policy == PanContinuous {
		dx, dy = x-d.lastX, y-d.lastY
	} else {
		dx, dy = x-d.startX, y-d.startY
	}
	if dx == 0 && dy == 0 {
		return 0, 0, false
	}
	return dx, dy, true
}

// cancel drops a drag without panning.
func (d *dragTracker) cancel() {
	d.active = false
}
