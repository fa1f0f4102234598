package terminal

import (
	"image"
	"image/color"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/surface"
)

// halfBlock draws the upper pixel as foreground over the lower as background.
const halfBlock = '▀'

// EventSink receives input events. *fractal.Viewer implements it.
type EventSink interface {
	Post(ev fractal.Event) bool
	Done() <-chan struct{}
}

// Terminal is a surface.Surface drawing into a tcell screen.
//
// The pixel grid is sized from the terminal at creation and keeps that size
// when the terminal is resized.
type Terminal struct {
	screen        tcell.Screen
	width, height int
	statusRow     int

	mu     sync.Mutex
	back   *image.RGBA
	title  string
	mouse  mouseState
	closed bool

	closeOnce sync.Once
}

// New initializes screen and creates a surface covering it.
func New(screen tcell.Screen) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()
	screen.HideCursor()

	cols, rows := screen.Size()
	w := max(cols, 1)
	h := 2 * max(rows-1, 1)
	return &Terminal{
		screen:    screen,
		width:     w,
		height:    h,
		statusRow: h / 2,
		back:      image.NewRGBA(image.Rect(0, 0, w, h)),
	}, nil
}

// Width returns the pixel width (terminal columns).
func (t *Terminal) Width() int {
	return t.width
}

// Height returns the pixel height (twice the rows above the status line).
func (t *Terminal) Height() int {
	return t.height
}

// SetPixel writes one pixel to the back buffer.
func (t *Terminal) SetPixel(x, y int, c color.Color) {
	t.mu.Lock()
	t.back.Set(x, y, c)
	t.mu.Unlock()
}

// WritePixels copies a whole RGBA frame into the back buffer.
func (t *Terminal) WritePixels(pix []byte) {
	t.mu.Lock()
	copy(t.back.Pix, pix)
	t.mu.Unlock()
}

// SetTitle sets the status line text.
func (t *Terminal) SetTitle(title string) {
	t.mu.Lock()
	t.title = title
	t.mu.Unlock()
}

// Present draws the back buffer and the status line and shows the screen.
func (t *Terminal) Present() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return surface.ErrClosed
	}

	for row := range t.height / 2 {
		for x := range t.width {
			top := t.back.RGBAAt(x, 2*row)
			bottom := t.back.RGBAAt(x, 2*row+1)
			style := tcell.StyleDefault.
				Foreground(rgb(top)).
				Background(rgb(bottom))
			t.screen.SetContent(x, row, halfBlock, nil, style)
		}
	}

	status := []rune(t.title)
	for x := range t.width {
		r := ' '
		if x < len(status) {
			r = status[x]
		}
		t.screen.SetContent(x, t.statusRow, r, nil, tcell.StyleDefault.Reverse(true))
	}

	t.screen.Show()
	return nil
}

// CursorPosition returns the last mouse position in pixels.
func (t *Terminal) CursorPosition() (x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mouse.x, t.mouse.y
}

// IsButtonDown reports whether b is held.
func (t *Terminal) IsButtonDown(b surface.Button) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mouse.buttons&buttonMask(b) != 0
}

// Close restores the terminal. Run returns after Close.
func (t *Terminal) Close() error {
	t.closeOnce.Do(func() {
		t.mu.Lock()
		t.closed = true
		t.mu.Unlock()
		t.screen.Fini()
	})
	return nil
}

// Run polls terminal events and posts them to sink until the sink is done,
// Ctrl-C is pressed or the terminal is closed.
func (t *Terminal) Run(sink EventSink) {
	go func() {
		<-sink.Done()
		_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	for {
		switch ev := t.screen.PollEvent().(type) {
		case nil, *tcell.EventInterrupt:
			return
		case *tcell.EventResize:
			t.screen.Sync()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC {
				sink.Post(fractal.QuitEvent{})
				return
			}
			if k, ok := keyEvent(ev); ok {
				sink.Post(k)
			}
		case *tcell.EventMouse:
			x, y := ev.Position()
			t.mu.Lock()
			events := t.mouse.translate(x, 2*y, ev.Buttons())
			t.mu.Unlock()
			for _, e := range events {
				sink.Post(e)
			}
		}
	}
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
