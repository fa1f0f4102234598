package remote

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/surface"
)

// ErrUnknownMessage is returned for input messages with an unknown type.
var ErrUnknownMessage = errors.New("remote: unknown message type")

// inputMessage is one client input event.
type inputMessage struct {
	Type    string `json:"type"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Notches int    `json:"notches,omitempty"`
	Button  int    `json:"button,omitempty"`
	Key     string `json:"key,omitempty"`
}

// statusMessage precedes every binary frame.
type statusMessage struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Frame  int    `json:"frame"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// domButtons maps MouseEvent.button to surface buttons.
var domButtons = map[int]surface.Button{
	0: surface.ButtonPrimary,
	1: surface.ButtonMiddle,
	2: surface.ButtonSecondary,
}

// event converts m to a viewer event.
func (m inputMessage) event() (fractal.Event, error) {
	switch m.Type {
	case "wheel":
		return fractal.WheelEvent{Notches: m.Notches, X: m.X, Y: m.Y}, nil
	case "press", "release":
		b, ok := domButtons[m.Button]
		if !ok {
			return nil, fmt.Errorf("remote: unknown button %d", m.Button)
		}
		kind := fractal.PointerPress
		if m.Type == "release" {
			kind = fractal.PointerRelease
		}
		return fractal.PointerEvent{Kind: kind, Button: b, X: m.X, Y: m.Y}, nil
	case "move":
		return fractal.PointerEvent{Kind: fractal.PointerMove, X: m.X, Y: m.Y}, nil
	case "key":
		if m.Key == "Escape" {
			return fractal.KeyEvent{Key: fractal.KeyEscape}, nil
		}
		r, size := utf8.DecodeRuneInString(m.Key)
		if r == utf8.RuneError || size != len(m.Key) {
			return nil, fmt.Errorf("remote: unsupported key %q", m.Key)
		}
		return fractal.KeyEvent{Key: r}, nil
	case "quit":
		return fractal.QuitEvent{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, m.Type)
}
