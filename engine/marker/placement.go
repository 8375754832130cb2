package marker

import (
	"github.com/Carmen-Shannon/oxy-arrow/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Placement is the mutable state that positions and orients an arrow.
type Placement struct {
	Position   common.PointD // mercator units
	Azimuth    float64       // radians, clockwise from north
	Obsolete   bool
	MeshOffset mgl32.Vec3
	MeshEuler  mgl32.Vec3 // radians around x, y, z
	MeshScale  mgl32.Vec3
}

// DefaultPlacement returns a placement at the origin with unit mesh scale.
func DefaultPlacement() Placement {
	return Placement{MeshScale: mgl32.Vec3{1, 1, 1}}
}
