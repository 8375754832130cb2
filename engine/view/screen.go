package view

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-arrow/common"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultFov is the vertical field of view used by tilted screens, in radians.
	DefaultFov = math.Pi / 3
	// MaxTilt bounds the tilt angle of a screen, in radians.
	MaxTilt = math.Pi / 4
)

type screenImpl struct {
	mu *sync.Mutex

	width  int
	height int

	center common.PointD
	zoom   float64
	angle  float64

	tilt  float64
	fov   float64
	depth common.DepthConvention

	pto3d   mgl32.Mat4
	scale3d float64
}

// Screen is a 2D map viewport with an optional perspective tilt.
//
// Map points are expressed in mercator units with y pointing north; pixel points have their
// origin at the top-left corner of the viewport with y pointing down.
type Screen interface {
	// Width returns the viewport width in pixels.
	//
	// Returns:
	//   - int: viewport width
	Width() int

	// Height returns the viewport height in pixels.
	//
	// Returns:
	//   - int: viewport height
	Height() int

	// PixelSize returns the viewport size in pixels as floats.
	//
	// Returns:
	//   - w, h: viewport width and height
	PixelSize() (w, h float64)

	// Center returns the map point shown at the middle of the viewport.
	//
	// Returns:
	//   - common.PointD: the center in mercator units
	Center() common.PointD

	// ZoomLevel returns the fractional zoom level in [1, common.UpperZoomLevel].
	//
	// Returns:
	//   - float64: the zoom level
	ZoomLevel() float64

	// Scale returns the mercator units covered by one pixel at the current zoom.
	//
	// Returns:
	//   - float64: mercator units per pixel
	Scale() float64

	// Angle returns the map rotation in radians, counter-clockwise.
	//
	// Returns:
	//   - float64: the rotation angle
	Angle() float64

	// Tilt returns the perspective tilt in radians; zero for a flat screen.
	//
	// Returns:
	//   - float64: the tilt angle
	Tilt() float64

	// Fov returns the vertical field of view used when tilted, in radians.
	//
	// Returns:
	//   - float64: the field of view
	Fov() float64

	// Perspective reports whether the screen is tilted.
	//
	// Returns:
	//   - bool: true when Tilt is above zero
	Perspective() bool

	// Scale3d returns the ratio between the tilted plane and the flat viewport; 1 when flat.
	//
	// Returns:
	//   - float64: the 3D scale
	Scale3d() float64

	// Pto3d returns the transform from flat clip space to tilted clip space, in the depth
	// convention the screen was built with. Identity when flat.
	//
	// Returns:
	//   - mgl32.Mat4: the column-major transform
	Pto3d() mgl32.Mat4

	// GtoP converts a map point to a pixel point.
	//
	// Parameters:
	//   - p: the map point in mercator units
	//
	// Returns:
	//   - common.PointD: the pixel point
	GtoP(p common.PointD) common.PointD

	// PtoG converts a pixel point to a map point. It is the inverse of GtoP.
	//
	// Parameters:
	//   - p: the pixel point
	//
	// Returns:
	//   - common.PointD: the map point in mercator units
	PtoG(p common.PointD) common.PointD

	// SetViewport resizes the viewport. Non-positive sizes are ignored.
	//
	// Parameters:
	//   - width, height: the new size in pixels
	SetViewport(width, height int)

	// SetCenter moves the viewport.
	//
	// Parameters:
	//   - center: the new center in mercator units
	SetCenter(center common.PointD)

	// SetZoom sets the zoom level, clamped to [1, common.UpperZoomLevel].
	//
	// Parameters:
	//   - zoom: the fractional zoom level
	SetZoom(zoom float64)

	// SetAngle sets the map rotation, normalized to [0, 2π).
	//
	// Parameters:
	//   - angle: the rotation angle in radians
	SetAngle(angle float64)

	// SetTilt sets the perspective tilt, clamped to [0, MaxTilt].
	//
	// Parameters:
	//   - tilt: the tilt angle in radians
	SetTilt(tilt float64)
}

var _ Screen = &screenImpl{}

// NewScreen creates a flat screen of 1x1 pixels at zoom 1 centered on the origin.
// Use the builder options to configure it.
//
// Parameters:
//   - options: functional options to configure the screen
//
// Returns:
//   - Screen: the newly created screen
func NewScreen(options ...ScreenBuilderOption) Screen {
	s := &screenImpl{
		mu:      &sync.Mutex{},
		width:   1,
		height:  1,
		zoom:    1,
		fov:     DefaultFov,
		depth:   common.DepthNegativeOneToOne,
		pto3d:   mgl32.Ident4(),
		scale3d: 1,
	}
	for _, option := range options {
		option(s)
	}
	s.updatePerspective()
	return s
}

func (s *screenImpl) Width() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width
}

func (s *screenImpl) Height() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.height
}

func (s *screenImpl) PixelSize() (w, h float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return float64(s.width), float64(s.height)
}

func (s *screenImpl) Center() common.PointD {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.center
}

func (s *screenImpl) ZoomLevel() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.zoom
}

func (s *screenImpl) Scale() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return common.ScaleForZoom(s.zoom)
}

func (s *screenImpl) Angle() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.angle
}

func (s *screenImpl) Tilt() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tilt
}

func (s *screenImpl) Fov() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fov
}

func (s *screenImpl) Perspective() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tilt > 0
}

func (s *screenImpl) Scale3d() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scale3d
}

func (s *screenImpl) Pto3d() mgl32.Mat4 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pto3d
}

func (s *screenImpl) GtoP(p common.PointD) common.PointD {
	s.mu.Lock()
	defer s.mu.Unlock()

	scale := common.ScaleForZoom(s.zoom)
	sin, cos := math.Sincos(s.angle)
	dx := p.X - s.center.X
	dy := p.Y - s.center.Y
	return common.PointD{
		X: float64(s.width)/2 + (dx*cos-dy*sin)/scale,
		Y: float64(s.height)/2 - (dx*sin+dy*cos)/scale,
	}
}

func (s *screenImpl) PtoG(p common.PointD) common.PointD {
	s.mu.Lock()
	defer s.mu.Unlock()

	scale := common.ScaleForZoom(s.zoom)
	sin, cos := math.Sincos(s.angle)
	rx := (p.X - float64(s.width)/2) * scale
	ry := (float64(s.height)/2 - p.Y) * scale
	return common.PointD{
		X: s.center.X + rx*cos + ry*sin,
		Y: s.center.Y - rx*sin + ry*cos,
	}
}

func (s *screenImpl) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *screenImpl) SetCenter(center common.PointD) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.center = center
}

func (s *screenImpl) SetZoom(zoom float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zoom = common.Clamp(zoom, 1, common.UpperZoomLevel)
}

func (s *screenImpl) SetAngle(angle float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.angle = normalizeAngle(angle)
}

func (s *screenImpl) SetTilt(tilt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tilt = common.Clamp(tilt, 0, MaxTilt)
	s.updatePerspective()
}

// updatePerspective rebuilds Pto3d and Scale3d from tilt, fov and depth convention.
//
// The flat viewport is treated as the z=0 plane of a unit square. It is scaled by s, tilted
// about the X axis so its bottom edge leans toward the viewer, pushed back to the distance at
// which the field of view spans the square, and projected. s is chosen so the bottom edge of
// the viewport still lands on the bottom edge of clip space.
// Caller must hold the mutex.
func (s *screenImpl) updatePerspective() {
	if s.tilt <= 0 {
		s.pto3d = mgl32.Ident4()
		s.scale3d = 1
		return
	}

	cameraZ := 1 / math.Tan(s.fov/2)
	sin, cos := math.Sincos(s.tilt)
	s.scale3d = cameraZ / (cameraZ*cos + sin)

	near := math.Max(0.1, cameraZ-2)
	far := cameraZ + 2
	sc := float32(s.scale3d)

	m := mgl32.Perspective(float32(s.fov), 1, float32(near), float32(far)).
		Mul4(mgl32.Translate3D(0, 0, float32(-cameraZ))).
		Mul4(mgl32.HomogRotate3DX(float32(-s.tilt))).
		Mul4(mgl32.Scale3D(sc, sc, 1))

	if s.depth == common.DepthZeroToOne {
		// z' = (z + w) / 2
		remap := mgl32.Ident4()
		remap.Set(2, 2, 0.5)
		remap.Set(2, 3, 0.5)
		m = remap.Mul4(m)
	}
	s.pto3d = m
}

func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
