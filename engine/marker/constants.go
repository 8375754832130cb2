package marker

import "github.com/Carmen-Shannon/oxy-arrow/common"

const (
	// ArrowSize is the on-screen size of the arrow in density-independent pixels.
	ArrowSize = 12.0
	// ScaleMin and ScaleMax bound the perspective size multiplier.
	ScaleMin = 1.0
	ScaleMax = 2.2
	// MinZoom is the zoom level at which perspective growth starts.
	MinZoom = 16.0
	// OutlineScale enlarges the outline halo and the routing shadow.
	OutlineScale = 1.2
	// ShadowDepthBias lifts the shadow off the ground plane.
	ShadowDepthBias = 0.05
)

const (
	ColorShadow   common.ColorName = "Arrow3DShadow"
	ColorObsolete common.ColorName = "Arrow3DObsolete"
	ColorArrow    common.ColorName = "Arrow3D"
	ColorOutline  common.ColorName = "Arrow3DOutline"
)

const (
	componentsInVertex   = 3
	componentsInNormal   = 3
	componentsInTexCoord = 2

	verticesBuffer = 0
	normalsBuffer  = 1
	texCoordBuffer = 1
)

// MaxBottomSize returns the largest footprint the arrow can take on screen, in
// density-independent pixels. Callers reserve this much clearance below the arrow.
//
// Returns:
//   - float64: the maximum bottom size
func MaxBottomSize() float64 {
	const bottomSize = 1.0
	return bottomSize * ArrowSize * ScaleMax * OutlineScale
}

// DefaultPalette returns the colors of the light map style.
//
// Returns:
//   - common.Palette: a palette holding the four arrow colors
func DefaultPalette() common.Palette {
	return common.NewPalette(map[common.ColorName]common.Color{
		ColorShadow:   {R: 0, G: 0, B: 0, A: 72},
		ColorObsolete: {R: 30, G: 150, B: 240, A: 102},
		ColorArrow:    {R: 30, G: 150, B: 240, A: 255},
		ColorOutline:  {R: 255, G: 255, B: 255, A: 255},
	})
}
