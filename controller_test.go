package fractal

import (
	"math"
	"testing"
)

const tolerance = 1e-12

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= tolerance*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func viewportsClose(a, b Viewport) bool {
	return approxEqual(a.OriginX, b.OriginX) && approxEqual(a.OriginY, b.OriginY) &&
		approxEqual(a.ExtentX, b.ExtentX) && approxEqual(a.ExtentY, b.ExtentY)
}

func newTestController(renders *[]Viewport) *Controller {
	return NewController(1000, 700, DefaultViewport, func(vp Viewport) {
		*renders = append(*renders, vp)
	})
}

func TestController_StartsAtDefaults(t *testing.T) {
	c := NewController(1000, 700, ClassicViewport, nil)
	if c.Viewport() != ClassicViewport {
		t.Errorf("Viewport() = %v, want %v", c.Viewport(), ClassicViewport)
	}
	if c.Defaults() != ClassicViewport {
		t.Errorf("Defaults() = %v, want %v", c.Defaults(), ClassicViewport)
	}
}

func TestController_Pan(t *testing.T) {
	var renders []Viewport
	c := newTestController(&renders)

	c.Pan(0.5, -0.25)

	want := DefaultViewport
	want.OriginX += 0.5
	want.OriginY -= 0.25
	if c.Viewport() != want {
		t.Errorf("Viewport() = %v, want %v", c.Viewport(), want)
	}
	if len(renders) != 1 || renders[0] != want {
		t.Errorf("renders = %v, want one render of %v", renders, want)
	}
}

func TestController_PanFraction(t *testing.T) {
	c := NewController(1000, 700, DefaultViewport, nil)
	c.PanFraction(0.1, -0.1)

	got := c.Viewport()
	if !approxEqual(got.OriginX, DefaultViewport.OriginX+0.35) {
		t.Errorf("OriginX = %v, want %v", got.OriginX, DefaultViewport.OriginX+0.35)
	}
	if !approxEqual(got.OriginY, DefaultViewport.OriginY-0.245) {
		t.Errorf("OriginY = %v, want %v", got.OriginY, DefaultViewport.OriginY-0.245)
	}
	if got.ExtentX != DefaultViewport.ExtentX || got.ExtentY != DefaultViewport.ExtentY {
		t.Error("PanFraction changed the extent")
	}
}

// Dragging right moves the view left; dragging down moves it up.
func TestController_DragPan(t *testing.T) {
	c := NewController(1000, 700, DefaultViewport, nil)
	c.DragPan(100, 70)

	got := c.Viewport()
	if !approxEqual(got.OriginX, DefaultViewport.OriginX-0.35) {
		t.Errorf("OriginX = %v, want %v", got.OriginX, DefaultViewport.OriginX-0.35)
	}
	if !approxEqual(got.OriginY, DefaultViewport.OriginY+0.245) {
		t.Errorf("OriginY = %v, want %v", got.OriginY, DefaultViewport.OriginY+0.245)
	}
}

func TestController_ZoomAt_ScalesExtent(t *testing.T) {
	c := NewController(1000, 700, DefaultViewport, nil)
	c.ZoomAt(2, 500, 350)

	got := c.Viewport()
	if !approxEqual(got.ExtentX, DefaultViewport.ExtentX/2) || !approxEqual(got.ExtentY, DefaultViewport.ExtentY/2) {
		t.Errorf("extent = %gx%g, want half of default", got.ExtentX, got.ExtentY)
	}
}

// The plane point under the anchor stays under the anchor.
func TestController_ZoomAt_KeepsAnchorFixed(t *testing.T) {
	anchors := []struct{ x, y float64 }{
		{0, 0}, {500, 350}, {999, 699}, {123, 456}, {1000, 700},
	}
	for _, a := range anchors {
		for _, f := range []float64{1.5, 1 / 1.5, 10, 0.1} {
			c := NewController(1000, 700, DefaultViewport, nil)
			before := c.Viewport()
			c.ZoomAt(f, a.x, a.y)
			after := c.Viewport()

			bx := before.OriginX + before.ExtentX*a.x/1000
			ax := after.OriginX + after.ExtentX*a.x/1000
			by := before.OriginY + before.ExtentY*(1-a.y/700)
			ay := after.OriginY + after.ExtentY*(1-a.y/700)
			if !approxEqual(bx, ax) || !approxEqual(by, ay) {
				t.Errorf("ZoomAt(%v, %v, %v) moved anchor (%v, %v) to (%v, %v)", f, a.x, a.y, bx, by, ax, ay)
			}
		}
	}
}

func TestController_ZoomInverseRestores(t *testing.T) {
	tests := []struct {
		factor float64
		ax, ay float64
	}{
		{1.5, 500, 350},
		{1.5, 0, 0},
		{1 / 1.5, 250, 600},
		{10, 999, 1},
		{0.1, 321, 123},
	}
	for _, tt := range tests {
		c := NewController(1000, 700, DefaultViewport, nil)
		c.Pan(0.01, -0.02)
		start := c.Viewport()

		c.ZoomAt(tt.factor, tt.ax, tt.ay)
		c.ZoomAt(1/tt.factor, tt.ax, tt.ay)

		if !viewportsClose(c.Viewport(), start) {
			t.Errorf("zoom %v then %v at (%v, %v): got %v, want %v",
				tt.factor, 1/tt.factor, tt.ax, tt.ay, c.Viewport(), start)
		}
	}
}

func TestController_ResetAfterHistory(t *testing.T) {
	var renders []Viewport
	c := newTestController(&renders)

	c.Pan(1, 1)
	c.ZoomAt(1.5, 10, 20)
	c.ZoomAt(10, 600, 100)
	c.PanFraction(-0.1, 0.1)
	c.DragPan(-40, 13)
	c.Reset()

	if c.Viewport() != DefaultViewport {
		t.Errorf("Viewport() after Reset = %v, want exactly %v", c.Viewport(), DefaultViewport)
	}
	if len(renders) != 6 {
		t.Errorf("renders = %d, want one per operation (6)", len(renders))
	}
}

func TestController_ZoomOutThenReset(t *testing.T) {
	c := NewController(1000, 700, DefaultViewport, nil)
	c.ZoomAt(1/1.5, 500, 350)
	if c.Viewport() == DefaultViewport {
		t.Fatal("zoom out did not change the viewport")
	}
	c.Reset()
	if c.Viewport() != DefaultViewport {
		t.Errorf("Viewport() = %v, want bit-identical %v", c.Viewport(), DefaultViewport)
	}
}

func TestController_Refresh(t *testing.T) {
	var renders []Viewport
	c := newTestController(&renders)
	c.Refresh()
	if len(renders) != 1 || renders[0] != DefaultViewport {
		t.Errorf("Refresh rendered %v, want the default viewport once", renders)
	}
}
