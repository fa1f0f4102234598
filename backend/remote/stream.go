package remote

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/surface"
)

// EventSink receives input events from clients. *fractal.Viewer
// implements it.
type EventSink interface {
	Post(ev fractal.Event) bool
}

// Stream is a surface.Surface and http.Handler that streams frames to
// WebSocket clients and forwards their input.
//
// Clients that fall behind skip frames: each client only ever receives the
// most recent presented frame.
type Stream struct {
	width, height int
	origins       []string

	mu      sync.Mutex
	back    *image.RGBA
	title   string
	frame   []byte
	seq     int
	cursorX int
	cursorY int
	buttons map[surface.Button]bool
	clients map[*client]struct{}
	sink    EventSink

	closeOnce sync.Once
	done      chan struct{}
}

// client is one connected WebSocket.
type client struct {
	notify chan struct{}
}

// NewStream creates a stream surface. originPatterns lists the hosts
// allowed to connect from a browser besides the serving host
// (see websocket.AcceptOptions).
func NewStream(opts surface.Options, originPatterns ...string) *Stream {
	w := max(opts.Width, 1)
	h := max(opts.Height, 1)
	return &Stream{
		width:   w,
		height:  h,
		origins: originPatterns,
		back:    image.NewRGBA(image.Rect(0, 0, w, h)),
		title:   opts.Title,
		buttons: make(map[surface.Button]bool),
		clients: make(map[*client]struct{}),
		done:    make(chan struct{}),
	}
}

// Attach sets the receiver of client input.
func (s *Stream) Attach(sink EventSink) {
	s.mu.Lock()
	s.sink = sink
	s.mu.Unlock()
}

// Width returns the frame width in pixels.
func (s *Stream) Width() int {
	return s.width
}

// Height returns the frame height in pixels.
func (s *Stream) Height() int {
	return s.height
}

// SetPixel writes one pixel to the back buffer.
func (s *Stream) SetPixel(x, y int, c color.Color) {
	s.mu.Lock()
	s.back.Set(x, y, c)
	s.mu.Unlock()
}

// WritePixels copies a whole RGBA frame into the back buffer.
func (s *Stream) WritePixels(pix []byte) {
	s.mu.Lock()
	copy(s.back.Pix, pix)
	s.mu.Unlock()
}

// SetTitle sets the title sent with the next frame.
func (s *Stream) SetTitle(title string) {
	s.mu.Lock()
	s.title = title
	s.mu.Unlock()
}

// Present encodes the back buffer and notifies every client.
func (s *Stream) Present() error {
	select {
	case <-s.done:
		return surface.ErrClosed
	default:
	}

	s.mu.Lock()
	img := &image.RGBA{
		Pix:    bytes.Clone(s.back.Pix),
		Stride: s.back.Stride,
		Rect:   s.back.Rect,
	}
	s.mu.Unlock()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}

	s.mu.Lock()
	s.frame = buf.Bytes()
	s.seq++
	for c := range s.clients {
		c.wake()
	}
	s.mu.Unlock()
	return nil
}

// Frames returns the number of presented frames.
func (s *Stream) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// CursorPosition returns the last pointer position reported by a client.
func (s *Stream) CursorPosition() (x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursorX, s.cursorY
}

// IsButtonDown reports whether a client holds b pressed.
func (s *Stream) IsButtonDown(b surface.Button) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buttons[b]
}

// Close disconnects all clients. Present fails afterwards.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return nil
}

// Clients returns the number of connected clients.
func (s *Stream) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// ServeHTTP upgrades the request to a WebSocket and streams frames until
// the client disconnects or the stream is closed.
func (s *Stream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.origins,
	})
	if err != nil {
		fractal.Logger().Warn("websocket accept failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.CloseNow()

	c := s.addClient()
	defer s.removeClient(c)
	fractal.Logger().Info("client connected", "remote", r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		defer cancel()
		s.readLoop(ctx, conn)
	}()

	err = s.writeLoop(ctx, conn, c)
	switch {
	case errors.Is(err, errStreamClosed):
		_ = conn.Close(websocket.StatusGoingAway, "stream closed")
	case err != nil && !errors.Is(err, context.Canceled):
		fractal.Logger().Debug("client write failed", "remote", r.RemoteAddr, "err", err)
	}
	fractal.Logger().Info("client disconnected", "remote", r.RemoteAddr)
}

var errStreamClosed = errors.New("remote: stream closed")

func (s *Stream) addClient() *client {
	c := &client{notify: make(chan struct{}, 1)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	if s.frame != nil {
		c.wake()
	}
	s.mu.Unlock()
	return c
}

func (s *Stream) removeClient(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
}

// wake marks a frame pending without blocking.
func (c *client) wake() {
	select {
	case c.notify <- struct{}{}:
	default:
	}
}

func (s *Stream) writeLoop(ctx context.Context, conn *websocket.Conn, c *client) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return errStreamClosed
		case <-c.notify:
		}

		s.mu.Lock()
		frame := s.frame
		status := statusMessage{
			Type:   "status",
			Title:  s.title,
			Frame:  s.seq,
			Width:  s.width,
			Height: s.height,
		}
		s.mu.Unlock()

		if err := wsjson.Write(ctx, conn, status); err != nil {
			return err
		}
		if err := conn.Write(ctx, websocket.MessageBinary, frame); err != nil {
			return err
		}
	}
}

func (s *Stream) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var m inputMessage
		if err := wsjson.Read(ctx, conn, &m); err != nil {
			return
		}
		ev, err := m.event()
		if err != nil {
			fractal.Logger().Debug("input message ignored", "err", err)
			continue
		}
		if !s.track(ev) {
			continue
		}

		s.mu.Lock()
		sink := s.sink
		s.mu.Unlock()
		if sink != nil {
			sink.Post(ev)
		}
	}
}

// track updates the cursor and button state seen by the viewer. It reports
// whether ev should be forwarded: hover moves only update the cursor.
func (s *Stream) track(ev fractal.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch e := ev.(type) {
	case fractal.WheelEvent:
		s.cursorX, s.cursorY = e.X, e.Y
	case fractal.PointerEvent:
		s.cursorX, s.cursorY = e.X, e.Y
		switch e.Kind {
		case fractal.PointerPress:
			s.buttons[e.Button] = true
		case fractal.PointerRelease:
			s.buttons[e.Button] = false
		case fractal.PointerMove:
			held := false
			for _, down := range s.buttons {
				held = held || down
			}
			return held
		}
	}
	return true
}
