package ebiten

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/surface"
)

// mouseButtons maps the polled ebiten buttons to surface buttons.
var mouseButtons = [...]struct {
	eb  ebiten.MouseButton
	btn surface.Button
}{
	{ebiten.MouseButtonLeft, surface.ButtonPrimary},
	{ebiten.MouseButtonRight, surface.ButtonSecondary},
	{ebiten.MouseButtonMiddle, surface.ButtonMiddle},
}

// wheelAccumulator turns fractional wheel offsets (trackpads report many
// small deltas) into whole notches.
type wheelAccumulator struct {
	acc float64
}

// add records a vertical wheel offset and returns the whole notches to emit.
// ebiten reports scrolling up as a positive offset; the returned value
// follows the WheelEvent convention where up is negative.
func (w *wheelAccumulator) add(yoff float64) int {
	w.acc += yoff
	n := int(w.acc)
	w.acc -= float64(n)
	return -n
}

// inputState is the pointer state seen on the previous tick.
type inputState struct {
	x, y  int
	down  [len(mouseButtons)]bool
	wheel wheelAccumulator
}

// pointerSnapshot is what one tick observed.
type pointerSnapshot struct {
	x, y         int
	down         [len(mouseButtons)]bool
	justPressed  [len(mouseButtons)]bool
	justReleased [len(mouseButtons)]bool
}

// poll reads the pointer state from ebiten.
func poll() pointerSnapshot {
	var s pointerSnapshot
	s.x, s.y = ebiten.CursorPosition()
	for i, mb := range mouseButtons {
		s.down[i] = ebiten.IsMouseButtonPressed(mb.eb)
		s.justPressed[i] = inpututil.IsMouseButtonJustPressed(mb.eb)
		s.justReleased[i] = inpututil.IsMouseButtonJustReleased(mb.eb)
	}
	return s
}

// pointerEvents translates one tick of pointer state into viewer events:
// presses first, then a move if the cursor moved while a button is held,
// then releases.
func (st *inputState) pointerEvents(s pointerSnapshot) []fractal.Event {
	var events []fractal.Event

	for i, mb := range mouseButtons {
		if s.justPressed[i] {
			events = append(events, fractal.PointerEvent{Kind: fractal.PointerPress, Button: mb.btn, X: s.x, Y: s.y})
		}
	}

	held := false
	for _, d := range s.down {
		held = held || d
	}
	if held && (s.x != st.x || s.y != st.y) {
		events = append(events, fractal.PointerEvent{Kind: fractal.PointerMove, X: s.x, Y: s.y})
	}

	for i, mb := range mouseButtons {
		if s.justReleased[i] {
			events = append(events, fractal.PointerEvent{Kind: fractal.PointerRelease, Button: mb.btn, X: s.x, Y: s.y})
		}
	}

	st.x, st.y = s.x, s.y
	st.down = s.down
	return events
}

// keyEvents converts typed characters to key events. The escape key has no
// character and is passed separately.
func keyEvents(chars []rune, escape bool) []fractal.Event {
	events := make([]fractal.Event, 0, len(chars)+1)
	for _, r := range chars {
		events = append(events, fractal.KeyEvent{Key: r})
	}
	if escape {
		events = append(events, fractal.KeyEvent{Key: fractal.KeyEscape})
	}
	return events
}
