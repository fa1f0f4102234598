package ebiten

import (
	"errors"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/surface"
)

// ErrNotAttached is returned by Run when no event sink was attached.
var ErrNotAttached = errors.New("ebiten: no viewer attached")

// EventSink receives input events from the window. *fractal.Viewer
// implements it.
type EventSink interface {
	Post(ev fractal.Event) bool
	Done() <-chan struct{}
}

// Window is a fixed-size Ebitengine window implementing surface.Surface and
// surface.FrameWriter.
//
// Pixel writes and Present come from the viewer goroutine; Update and Draw
// run on the ebiten game loop. The two sides share the frame buffers and the
// pointer state under a mutex.
type Window struct {
	width, height int
	initialTitle  string
	overlay       bool

	mu         sync.Mutex
	back       []byte
	front      []byte
	dirty      bool
	title      string
	titleDirty bool
	cursorX    int
	cursorY    int
	buttons    [len(mouseButtons)]bool
	closed     bool

	// Game loop only.
	sink  EventSink
	img   *ebiten.Image
	input inputState
	chars []rune
}

// NewWindow creates a window surface. The window opens when Run is called.
func NewWindow(opts surface.Options) *Window {
	w := max(opts.Width, 1)
	h := max(opts.Height, 1)
	return &Window{
		width:        w,
		height:       h,
		initialTitle: opts.Title,
		overlay:      opts.Caption,
		back:         make([]byte, w*h*4),
		front:        make([]byte, w*h*4),
	}
}

// Attach sets the receiver of input events. It must be called before Run.
func (w *Window) Attach(sink EventSink) {
	w.sink = sink
}

// Run opens the window and runs the game loop until the attached sink is
// done or the window is closed. It must be called from the main goroutine.
func (w *Window) Run() error {
	if w.sink == nil {
		return ErrNotAttached
	}
	ebiten.SetWindowSize(w.width, w.height)
	ebiten.SetWindowTitle(w.initialTitle)
	return ebiten.RunGame(w)
}

// Width returns the window width in pixels.
func (w *Window) Width() int {
	return w.width
}

// Height returns the window height in pixels.
func (w *Window) Height() int {
	return w.height
}

// SetPixel writes one pixel to the back buffer.
func (w *Window) SetPixel(x, y int, c color.Color) {
	if x < 0 || x >= w.width || y < 0 || y >= w.height {
		return
	}
	r, g, b, a := c.RGBA()
	i := (y*w.width + x) * 4

	w.mu.Lock()
	w.back[i] = uint8(r >> 8)
	w.back[i+1] = uint8(g >> 8)
	w.back[i+2] = uint8(b >> 8)
	w.back[i+3] = uint8(a >> 8)
	w.mu.Unlock()
}

// WritePixels copies a whole RGBA frame into the back buffer.
func (w *Window) WritePixels(pix []byte) {
	w.mu.Lock()
	copy(w.back, pix)
	w.mu.Unlock()
}

// SetTitle sets the window title. It is applied on the next tick.
func (w *Window) SetTitle(title string) {
	w.mu.Lock()
	w.title = title
	w.titleDirty = true
	w.mu.Unlock()
}

// Present publishes the back buffer; Draw uploads it on the next frame.
func (w *Window) Present() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return surface.ErrClosed
	}
	copy(w.front, w.back)
	w.dirty = true
	return nil
}

// CursorPosition returns the cursor position seen on the last tick.
func (w *Window) CursorPosition() (x, y int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cursorX, w.cursorY
}

// IsButtonDown reports whether b was held on the last tick.
func (w *Window) IsButtonDown(b surface.Button) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, mb := range mouseButtons {
		if mb.btn == b {
			return w.buttons[i]
		}
	}
	return false
}

// Close marks the window closed. Later Present calls fail with
// surface.ErrClosed and the game loop stops on its next tick.
func (w *Window) Close() error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	return nil
}

// Update implements ebiten.Game. It forwards input to the sink.
func (w *Window) Update() error {
	if w.stopped() {
		return ebiten.Termination
	}

	snap := poll()
	w.mu.Lock()
	w.cursorX, w.cursorY = snap.x, snap.y
	w.buttons = snap.down
	title, titleDirty := w.title, w.titleDirty
	w.titleDirty = false
	w.mu.Unlock()

	if titleDirty {
		ebiten.SetWindowTitle(title)
	}

	if _, yoff := ebiten.Wheel(); yoff != 0 {
		if n := w.input.wheel.add(yoff); n != 0 {
			w.post(fractal.WheelEvent{Notches: n, X: snap.x, Y: snap.y})
		}
	}
	for _, ev := range w.input.pointerEvents(snap) {
		w.post(ev)
	}

	w.chars = ebiten.AppendInputChars(w.chars[:0])
	for _, ev := range keyEvents(w.chars, inpututil.IsKeyJustPressed(ebiten.KeyEscape)) {
		w.post(ev)
	}
	return nil
}

// Draw implements ebiten.Game. It uploads the last presented frame and,
// with Options.Caption set, prints the title over it.
func (w *Window) Draw(screen *ebiten.Image) {
	if w.img == nil {
		w.img = ebiten.NewImage(w.width, w.height)
	}

	w.mu.Lock()
	if w.dirty {
		w.img.WritePixels(w.front)
		w.dirty = false
	}
	title := w.title
	w.mu.Unlock()

	screen.DrawImage(w.img, nil)
	if w.overlay {
		ebitenutil.DebugPrint(screen, title)
	}
}

// Layout implements ebiten.Game. The logical screen keeps the pixel grid
// size; ebiten scales it when the window is resized.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.width, w.height
}

func (w *Window) post(ev fractal.Event) {
	if !w.sink.Post(ev) {
		fractal.Logger().Debug("window event not delivered", "event", ev)
	}
}

func (w *Window) stopped() bool {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return true
	}
	select {
	case <-w.sink.Done():
		return true
	default:
		return false
	}
}
