package view

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-arrow/common"
)

// controllerImpl is the single implementation of Controller.
type controllerImpl struct {
	mu     *sync.Mutex
	screen Screen

	rotateSpeed float64 // radians per step
	zoomStep    float64 // zoom levels per step
	panStep     float64 // pixels per step
	tiltAngle   float64 // tilt applied when toggling into perspective
}

// Controller drives a Screen from discrete input steps, such as key presses.
type Controller interface {
	// Screen returns the controlled screen.
	//
	// Returns:
	//   - Screen: the controlled screen
	Screen() Screen

	// RotateLeft rotates the map counter-clockwise by one step.
	RotateLeft()

	// RotateRight rotates the map clockwise by one step.
	RotateRight()

	// ZoomIn increases the zoom level by one step.
	ZoomIn()

	// ZoomOut decreases the zoom level by one step.
	ZoomOut()

	// Pan moves the center by whole pan steps along the screen axes.
	//
	// Parameters:
	//   - dx: steps to the right
	//   - dy: steps down
	Pan(dx, dy int)

	// Drag moves the map with the cursor: the point under the cursor follows it.
	//
	// Parameters:
	//   - dx: cursor movement to the right in pixels
	//   - dy: cursor movement down in pixels
	Drag(dx, dy float64)

	// ToggleTilt switches between the flat screen and the configured tilt.
	//
	// Returns:
	//   - bool: true when the screen is tilted afterwards
	ToggleTilt() bool
}

var _ Controller = &controllerImpl{}

// NewController creates a controller for screen.
//
// Parameters:
//   - screen: the screen to drive
//   - options: functional options to configure the controller
//
// Returns:
//   - Controller: the newly created controller
func NewController(screen Screen, options ...ControllerOption) Controller {
	if screen == nil {
		panic("view: nil screen")
	}
	c := &controllerImpl{
		mu:          &sync.Mutex{},
		screen:      screen,
		rotateSpeed: math.Pi / 36,
		zoomStep:    0.25,
		panStep:     32,
		tiltAngle:   MaxTilt,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *controllerImpl) Screen() Screen {
	return c.screen
}

func (c *controllerImpl) RotateLeft() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.screen.SetAngle(c.screen.Angle() + c.rotateSpeed)
}

func (c *controllerImpl) RotateRight() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.screen.SetAngle(c.screen.Angle() - c.rotateSpeed)
}

func (c *controllerImpl) ZoomIn() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.screen.SetZoom(c.screen.ZoomLevel() + c.zoomStep)
}

func (c *controllerImpl) ZoomOut() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.screen.SetZoom(c.screen.ZoomLevel() - c.zoomStep)
}

func (c *controllerImpl) Pan(dx, dy int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	w, h := c.screen.PixelSize()
	target := common.PointD{
		X: w/2 + float64(dx)*c.panStep,
		Y: h/2 + float64(dy)*c.panStep,
	}
	c.screen.SetCenter(c.screen.PtoG(target))
}

func (c *controllerImpl) Drag(dx, dy float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	w, h := c.screen.PixelSize()
	c.screen.SetCenter(c.screen.PtoG(common.PointD{X: w/2 - dx, Y: h/2 - dy}))
}

func (c *controllerImpl) ToggleTilt() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.screen.Perspective() {
		c.screen.SetTilt(0)
		return false
	}
	c.screen.SetTilt(c.tiltAngle)
	return c.screen.Perspective()
}
