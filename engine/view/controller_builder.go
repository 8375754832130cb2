package view

// ControllerOption is a functional option applied to a controller during construction via NewController.
type ControllerOption func(*controllerImpl)

// WithRotateSpeed sets the rotation applied by one RotateLeft or RotateRight step.
//
// Parameters:
//   - speed: radians per step
//
// Returns:
//   - ControllerOption: a function that sets the rotate speed
func WithRotateSpeed(speed float64) ControllerOption {
	return func(c *controllerImpl) {
		c.rotateSpeed = speed
	}
}

// WithZoomStep sets the zoom change applied by one ZoomIn or ZoomOut step.
//
// Parameters:
//   - step: zoom levels per step
//
// Returns:
//   - ControllerOption: a function that sets the zoom step
func WithZoomStep(step float64) ControllerOption {
	return func(c *controllerImpl) {
		c.zoomStep = step
	}
}

// WithPanStep sets the distance one Pan step moves the center.
//
// Parameters:
//   - pixels: pixels per step
//
// Returns:
//   - ControllerOption: a function that sets the pan step
func WithPanStep(pixels float64) ControllerOption {
	return func(c *controllerImpl) {
		c.panStep = pixels
	}
}

// WithTiltAngle sets the tilt ToggleTilt switches to.
//
// Parameters:
//   - tilt: the tilt angle in radians
//
// Returns:
//   - ControllerOption: a function that sets the tilt angle
func WithTiltAngle(tilt float64) ControllerOption {
	return func(c *controllerImpl) {
		c.tiltAngle = tilt
	}
}
