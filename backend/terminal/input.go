package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/surface"
)

var pointerButtons = [...]surface.Button{
	surface.ButtonPrimary,
	surface.ButtonSecondary,
	surface.ButtonMiddle,
}

func buttonMask(b surface.Button) tcell.ButtonMask {
	switch b {
	case surface.ButtonPrimary:
		return tcell.Button1
	case surface.ButtonSecondary:
		return tcell.Button2
	case surface.ButtonMiddle:
		return tcell.Button3
	}
	return tcell.ButtonNone
}

// mouseState turns tcell's per-report button masks into press, move and
// release transitions.
type mouseState struct {
	x, y    int
	buttons tcell.ButtonMask
}

// translate records one mouse report at pixel (x, y) and returns the events
// it implies.
func (m *mouseState) translate(x, y int, mask tcell.ButtonMask) []fractal.Event {
	var events []fractal.Event

	switch {
	case mask&tcell.WheelUp != 0:
		events = append(events, fractal.WheelEvent{Notches: -1, X: x, Y: y})
	case mask&tcell.WheelDown != 0:
		events = append(events, fractal.WheelEvent{Notches: 1, X: x, Y: y})
	}

	held := mask & (tcell.Button1 | tcell.Button2 | tcell.Button3)
	for _, b := range pointerButtons {
		bm := buttonMask(b)
		if held&bm != 0 && m.buttons&bm == 0 {
			events = append(events, fractal.PointerEvent{Kind: fractal.PointerPress, Button: b, X: x, Y: y})
		}
	}
	if held != 0 && m.buttons&held != 0 && (x != m.x || y != m.y) {
		events = append(events, fractal.PointerEvent{Kind: fractal.PointerMove, X: x, Y: y})
	}
	for _, b := range pointerButtons {
		bm := buttonMask(b)
		if held&bm == 0 && m.buttons&bm != 0 {
			events = append(events, fractal.PointerEvent{Kind: fractal.PointerRelease, Button: b, X: x, Y: y})
		}
	}

	m.x, m.y = x, y
	m.buttons = held
	return events
}

// keyEvent converts a key press to a viewer event.
func keyEvent(ev *tcell.EventKey) (fractal.Event, bool) {
	switch ev.Key() {
	case tcell.KeyEscape:
		return fractal.KeyEvent{Key: fractal.KeyEscape}, true
	case tcell.KeyRune:
		return fractal.KeyEvent{Key: ev.Rune()}, true
	}
	return nil, false
}
