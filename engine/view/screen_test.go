package view

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-arrow/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func project(m mgl32.Mat4, x, y float32) mgl32.Vec3 {
	v := m.Mul4x1(mgl32.Vec4{x, y, 0, 1})
	return mgl32.Vec3{v[0] / v[3], v[1] / v[3], v[2] / v[3]}
}

func TestScreen_Defaults(t *testing.T) {
	s := NewScreen()
	assert.Equal(t, 1, s.Width())
	assert.Equal(t, 1.0, s.ZoomLevel())
	assert.False(t, s.Perspective())
	assert.Equal(t, 1.0, s.Scale3d())
	assert.Equal(t, mgl32.Ident4(), s.Pto3d())
	assert.Equal(t, DefaultFov, s.Fov())
}

func TestScreen_GtoP(t *testing.T) {
	s := NewScreen(WithViewport(800, 600), WithZoom(17), WithCenter(common.PointD{X: 10, Y: 20}))
	scale := s.Scale()
	require.InDelta(t, common.ScaleForZoom(17), scale, 1e-18)

	center := s.GtoP(common.PointD{X: 10, Y: 20})
	assert.InDelta(t, 400, center.X, 1e-9)
	assert.InDelta(t, 300, center.Y, 1e-9)

	north := s.GtoP(common.PointD{X: 10, Y: 20 + 50*scale})
	assert.InDelta(t, 400, north.X, 1e-6)
	assert.InDelta(t, 250, north.Y, 1e-6, "north is up on screen")

	s.SetAngle(math.Pi / 2)
	east := s.GtoP(common.PointD{X: 10 + 50*scale, Y: 20})
	assert.InDelta(t, 400, east.X, 1e-6)
	assert.InDelta(t, 250, east.Y, 1e-6, "a quarter turn counter-clockwise brings east to the top")
}

func TestScreen_PtoGRoundTrip(t *testing.T) {
	s := NewScreen(WithViewport(640, 480), WithZoom(15.5), WithAngle(0.7), WithCenter(common.PointD{X: -3, Y: 44}))
	for _, p := range []common.PointD{{X: -3, Y: 44}, {X: -2.99, Y: 44.01}, {X: -3.02, Y: 43.995}} {
		got := s.PtoG(s.GtoP(p))
		assert.InDelta(t, p.X, got.X, 1e-9)
		assert.InDelta(t, p.Y, got.Y, 1e-9)
	}
}

func TestScreen_Setters(t *testing.T) {
	s := NewScreen(WithViewport(100, 50))

	s.SetViewport(0, 10)
	assert.Equal(t, 100, s.Width())
	s.SetViewport(200, 80)
	w, h := s.PixelSize()
	assert.Equal(t, 200.0, w)
	assert.Equal(t, 80.0, h)

	s.SetZoom(30)
	assert.Equal(t, common.UpperZoomLevel, s.ZoomLevel())
	s.SetZoom(-1)
	assert.Equal(t, 1.0, s.ZoomLevel())

	s.SetAngle(-math.Pi / 2)
	assert.InDelta(t, 3*math.Pi/2, s.Angle(), 1e-12)

	s.SetTilt(math.Pi)
	assert.Equal(t, MaxTilt, s.Tilt())
	assert.True(t, s.Perspective())
	s.SetTilt(-1)
	assert.False(t, s.Perspective())
	assert.Equal(t, mgl32.Ident4(), s.Pto3d())
}

func TestScreen_Perspective(t *testing.T) {
	tests := []struct {
		name  string
		depth common.DepthConvention
		zMin  float32
	}{
		{"negative one to one", common.DepthNegativeOneToOne, -1},
		{"zero to one", common.DepthZeroToOne, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScreen(WithViewport(800, 600), WithTilt(math.Pi/6, 0), WithDepthConvention(tt.depth))
			require.True(t, s.Perspective())
			assert.Less(t, s.Scale3d(), 1.0)
			assert.Greater(t, s.Scale3d(), 0.0)

			m := s.Pto3d()
			bottom := project(m, 0, -1)
			assert.InDelta(t, -1, bottom[1], 1e-5, "bottom edge stays on the bottom of clip space")

			center := project(m, 0, 0)
			assert.InDelta(t, 0, center[0], 1e-6)
			assert.InDelta(t, 0, center[1], 1e-6)

			top := project(m, 0, 1)
			assert.Less(t, top[1], float32(1))
			assert.Greater(t, top[1], float32(0))

			for _, p := range []mgl32.Vec3{bottom, center, top} {
				assert.GreaterOrEqual(t, p[2], tt.zMin)
				assert.LessOrEqual(t, p[2], float32(1))
			}
			assert.Less(t, bottom[2], top[2], "the bottom edge leans toward the viewer")
		})
	}
}

func TestController(t *testing.T) {
	s := NewScreen(WithViewport(400, 400), WithZoom(16))
	c := NewController(s, WithRotateSpeed(0.5), WithZoomStep(1), WithPanStep(10), WithTiltAngle(0.3))
	assert.Same(t, s, c.Screen())

	c.RotateLeft()
	assert.InDelta(t, 0.5, s.Angle(), 1e-12)
	c.RotateRight()
	c.RotateRight()
	assert.InDelta(t, 2*math.Pi-0.5, s.Angle(), 1e-12)

	c.ZoomIn()
	assert.Equal(t, 17.0, s.ZoomLevel())
	c.ZoomOut()
	c.ZoomOut()
	assert.Equal(t, 15.0, s.ZoomLevel())

	assert.True(t, c.ToggleTilt())
	assert.InDelta(t, 0.3, s.Tilt(), 1e-12)
	assert.False(t, c.ToggleTilt())
	assert.False(t, s.Perspective())

	assert.Panics(t, func() { NewController(nil) })
}

func TestController_Pan(t *testing.T) {
	s := NewScreen(WithViewport(400, 400), WithZoom(16))
	c := NewController(s, WithPanStep(10))

	c.Pan(1, 0)
	assert.InDelta(t, 10*s.Scale(), s.Center().X, 1e-12)
	assert.InDelta(t, 0, s.Center().Y, 1e-12)

	c.Pan(0, 1)
	assert.InDelta(t, -10*s.Scale(), s.Center().Y, 1e-12, "panning down moves south")
}

func TestController_Drag(t *testing.T) {
	s := NewScreen(WithViewport(400, 400), WithZoom(16), WithAngle(0.3))
	c := NewController(s)

	grabbed := s.PtoG(common.PointD{X: 250, Y: 120})
	c.Drag(-30, 45)

	moved := s.GtoP(grabbed)
	assert.InDelta(t, 220, moved.X, 1e-6)
	assert.InDelta(t, 165, moved.Y, 1e-6)
}
