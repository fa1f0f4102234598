package fractal

// Controller owns the current viewport and the navigation operations.
//
// Every mutating operation calls the render callback with the new viewport
// once the change has been applied. Controller is not safe for concurrent
// use; the Viewer drives it from its single event loop.
type Controller struct {
	vp       Viewport
	defaults Viewport
	width    int
	height   int
	render   func(Viewport)
}

// NewController creates a controller for a width x height grid, starting at
// defaults. render may be nil.
func NewController(width, height int, defaults Viewport, render func(Viewport)) *Controller {
	if render == nil {
		render = func(Viewport) {}
	}
	return &Controller{
		vp:       defaults,
		defaults: defaults,
		width:    width,
		height:   height,
		render:   render,
	}
}

// Viewport returns the current viewport.
func (c *Controller) Viewport() Viewport {
	return c.vp
}

// Defaults returns the viewport restored by Reset.
func (c *Controller) Defaults() Viewport {
	return c.defaults
}

// Pan moves the origin by (dx, dy) plane units.
func (c *Controller) Pan(dx, dy float64) {
	c.vp.OriginX += dx
	c.vp.OriginY += dy
	c.render(c.vp)
}

// PanFraction moves the origin by a fraction of the current extent.
// Positive fy moves the view up.
func (c *Controller) PanFraction(fx, fy float64) {
	c.Pan(c.vp.ExtentX*fx, c.vp.ExtentY*fy)
}

// DragPan pans so that the plane follows a pointer dragged by
// (dx, dy) pixels. Pixel y grows downwards, plane y grows upwards.
func (c *Controller) DragPan(dx, dy int) {
	xMove := -float64(dx) / float64(c.width) * c.vp.ExtentX
	yMove := float64(dy) / float64(c.height) * c.vp.ExtentY
	c.Pan(xMove, yMove)
}

// ZoomAt scales the viewport by factor (> 1 zooms in) keeping the plane
// point under pixel (ax, ay) fixed on screen. The anchor row is measured
// from the top, so the bottom-relative fraction 1 - ay/height is used.
func (c *Controller) ZoomAt(factor, ax, ay float64) {
	inv := 1.0 / factor
	leftFrac := ax / float64(c.width)
	botFrac := 1.0 - ay/float64(c.height)
	c.vp.OriginX -= (inv - 1.0) * c.vp.ExtentX * leftFrac
	c.vp.OriginY -= (inv - 1.0) * c.vp.ExtentY * botFrac
	c.vp.ExtentX *= inv
	c.vp.ExtentY *= inv
	c.render(c.vp)
}

// Reset restores the default viewport exactly.
func (c *Controller) Reset() {
	c.vp = c.defaults
	c.render(c.vp)
}

// Refresh re-renders the current viewport without changing it.
func (c *Controller) Refresh() {
	c.render(c.vp)
}
