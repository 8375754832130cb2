package view

import "github.com/Carmen-Shannon/oxy-arrow/common"

// ScreenBuilderOption is a functional option applied to a screen during construction via NewScreen.
type ScreenBuilderOption func(*screenImpl)

// WithViewport sets the viewport size in pixels. Non-positive sizes are ignored.
//
// Parameters:
//   - width, height: the viewport size
//
// Returns:
//   - ScreenBuilderOption: a function that sets the viewport size
func WithViewport(width, height int) ScreenBuilderOption {
	return func(s *screenImpl) {
		if width > 0 && height > 0 {
			s.width = width
			s.height = height
		}
	}
}

// WithCenter sets the map point shown at the middle of the viewport.
//
// Parameters:
//   - center: the center in mercator units
//
// Returns:
//   - ScreenBuilderOption: a function that sets the center
func WithCenter(center common.PointD) ScreenBuilderOption {
	return func(s *screenImpl) {
		s.center = center
	}
}

// WithZoom sets the zoom level, clamped to [1, common.UpperZoomLevel].
//
// Parameters:
//   - zoom: the fractional zoom level
//
// Returns:
//   - ScreenBuilderOption: a function that sets the zoom level
func WithZoom(zoom float64) ScreenBuilderOption {
	return func(s *screenImpl) {
		s.zoom = common.Clamp(zoom, 1, common.UpperZoomLevel)
	}
}

// WithAngle sets the map rotation in radians.
//
// Parameters:
//   - angle: the rotation angle
//
// Returns:
//   - ScreenBuilderOption: a function that sets the rotation
func WithAngle(angle float64) ScreenBuilderOption {
	return func(s *screenImpl) {
		s.angle = normalizeAngle(angle)
	}
}

// WithTilt makes the screen a perspective screen.
//
// Parameters:
//   - tilt: the tilt angle in radians, clamped to [0, MaxTilt]
//   - fov: the vertical field of view in radians; non-positive keeps DefaultFov
//
// Returns:
//   - ScreenBuilderOption: a function that sets the tilt and field of view
func WithTilt(tilt, fov float64) ScreenBuilderOption {
	return func(s *screenImpl) {
		s.tilt = common.Clamp(tilt, 0, MaxTilt)
		if fov > 0 {
			s.fov = fov
		}
	}
}

// WithDepthConvention selects the clip-space depth range Pto3d produces.
// It should match the graphics backend the screen is rendered with.
//
// Parameters:
//   - depth: the depth convention
//
// Returns:
//   - ScreenBuilderOption: a function that sets the depth convention
func WithDepthConvention(depth common.DepthConvention) ScreenBuilderOption {
	return func(s *screenImpl) {
		s.depth = depth
	}
}
