package common

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrInvalidColor = errors.New("invalid color")
)

// PointD is a point on the 2D map plane, in mercator units or pixels depending on context.
type PointD struct {
	X float64
	Y float64
}

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Vec4 returns the color as normalized floats for GPU upload.
func (c Color) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{
		float32(c.R) / 255.0,
		float32(c.G) / 255.0,
		float32(c.B) / 255.0,
		float32(c.A) / 255.0,
	}
}

// String formats the color as #RRGGBBAA.
func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// ParseColor parses #RRGGBB or #RRGGBBAA (the leading # is optional).
// Colors without an alpha component are fully opaque.
//
// Parameters:
//   - s: hex color string
//
// Returns:
//   - Color: the parsed color
//   - error: ErrInvalidColor wrapped with the offending input
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	if len(hex) == 6 {
		hex += "FF"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Color{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// ColorName identifies an entry of a Palette.
type ColorName string

// Palette resolves named colors. Lookups of missing names fall back to Fallback.
type Palette struct {
	Colors   map[ColorName]Color
	Fallback Color
}

// NewPalette creates a palette from the provided entries with an opaque magenta fallback,
// which makes missing entries obvious on screen.
func NewPalette(colors map[ColorName]Color) Palette {
	p := Palette{
		Colors:   make(map[ColorName]Color, len(colors)),
		Fallback: Color{R: 255, G: 0, B: 255, A: 255},
	}
	for k, v := range colors {
		p.Colors[k] = v
	}
	return p
}

// Color returns the named color, or the fallback and false when the name is unknown.
func (p Palette) Color(name ColorName) (Color, bool) {
	c, ok := p.Colors[name]
	if !ok {
		return p.Fallback, false
	}
	return c, true
}

// DepthConvention is the clip-space z range a graphics backend rasterizes.
type DepthConvention int

const (
	// DepthNegativeOneToOne keeps clip z in [-w, w] (OpenGL).
	DepthNegativeOneToOne DepthConvention = iota
	// DepthZeroToOne keeps clip z in [0, w] (WebGPU, Metal, Vulkan).
	DepthZeroToOne
)

// String returns a readable name for logs.
func (d DepthConvention) String() string {
	switch d {
	case DepthNegativeOneToOne:
		return "[-1,1]"
	case DepthZeroToOne:
		return "[0,1]"
	default:
		return "unknown"
	}
}
