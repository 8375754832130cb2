package marker

import (
	"math"

	"github.com/Carmen-Shannon/oxy-arrow/common"
	"github.com/Carmen-Shannon/oxy-arrow/engine/view"
	"github.com/go-gl/mathgl/mgl32"
)

// flatDepthScale is the post-projection z scale of a flat screen.
const flatDepthScale = 0.1

// SizeMultiplier returns the perspective growth of the arrow at a zoom level:
// ScaleMin at or below MinZoom, rising linearly to ScaleMax at common.UpperZoomLevel.
//
// Parameters:
//   - zoom: the fractional zoom level
//
// Returns:
//   - float64: the size multiplier in [ScaleMin, ScaleMax]
func SizeMultiplier(zoom float64) float64 {
	t := common.NormalizedZoomLevel(zoom, MinZoom)
	return common.Lerp(ScaleMin, ScaleMax, t)
}

// CalculateTransform builds the model-to-clip matrix of one arrow draw.
//
// The arrow mesh is rotated, offset, scaled to its on-screen size, mapped from pixels to
// clip space and moved to the projected position of the arrow. Perspective screens then
// apply their 3D projection; flat screens on a zero-to-one depth backend get their z remapped.
// The result depends only on the arguments.
//
// Parameters:
//   - p: the arrow placement
//   - screen: the current view
//   - dz: the clip-space depth bias of the pass
//   - scaleFactor: the size multiplier of the pass
//   - depth: the depth convention of the graphics backend
//   - visualScale: the display density multiplier
//
// Returns:
//   - mgl32.Mat4: the column-major transform
func CalculateTransform(p Placement, screen view.Screen, dz, scaleFactor float64, depth common.DepthConvention, visualScale float64) mgl32.Mat4 {
	perspective := screen.Perspective()

	size := visualScale * ArrowSize * scaleFactor
	if perspective {
		size *= SizeMultiplier(screen.ZoomLevel())
	}

	qx := mgl32.QuatRotate(p.MeshEuler.X(), mgl32.Vec3{1, 0, 0})
	qy := mgl32.QuatRotate(p.MeshEuler.Y(), mgl32.Vec3{0, 1, 0})
	qz := mgl32.QuatRotate(float32(p.Azimuth+screen.Angle()+float64(p.MeshEuler.Z())), mgl32.Vec3{0, 0, -1})
	rotation := qz.Mul(qy).Mul(qx).Mat4()

	sizeZ := 1.0
	if perspective {
		sizeZ = size
	}
	scale := mgl32.Scale3D(
		float32(size)*p.MeshScale.X(),
		float32(size)*p.MeshScale.Y(),
		float32(sizeZ)*p.MeshScale.Z(),
	)

	translation := mgl32.Translate3D(p.MeshOffset.X(), p.MeshOffset.Y(), p.MeshOffset.Z())

	w, h := screen.PixelSize()
	postScaleX := 2 / w
	postScaleY := 2 / h
	postScaleZ := flatDepthScale
	if perspective {
		postScaleZ = math.Min(postScaleX, postScaleY) * screen.Scale3d()
	}
	postScale := mgl32.Scale3D(float32(postScaleX), float32(postScaleY), float32(postScaleZ))

	pos := screen.GtoP(p.Position)
	dX := 2*pos.X/w - 1
	dY := 2*pos.Y/h - 1
	postTranslation := mgl32.Translate3D(float32(dX), float32(-dY), float32(dz))

	model := postTranslation.Mul4(postScale).Mul4(scale).Mul4(translation).Mul4(rotation)

	if perspective {
		return screen.Pto3d().Mul4(model)
	}

	if depth == common.DepthZeroToOne {
		// z' = z*0.5 + 0.5
		model.Set(2, 3, model.At(2, 3)+0.5)
		model.Set(2, 2, model.At(2, 2)*0.5)
	}
	return model
}
