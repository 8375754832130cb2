package common

import (
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// MercatorRangeX is the horizontal extent of the mercator plane in world units.
	MercatorRangeX = 360.0
	// TileSize is the pixel size of one map tile at integer zoom levels.
	TileSize = 256.0
	// UpperZoomLevel is the deepest zoom level the zoom model distinguishes.
	UpperZoomLevel = 20.0
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// Clamp limits v to the closed range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Lerp linearly interpolates between a and b by t.
// t is not clamped.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// ZoomLevel converts a screen scale, expressed in mercator units per pixel, into a
// fractional zoom level clamped to [1, UpperZoomLevel].
//
// Parameters:
//   - scale: mercator units covered by one pixel
//
// Returns:
//   - float64: the fractional zoom level
func ZoomLevel(scale float64) float64 {
	if scale <= 0 {
		return UpperZoomLevel
	}
	length := MercatorRangeX / TileSize / scale
	if length < 1 {
		return 1
	}
	return Clamp(math.Log2(length), 1, UpperZoomLevel)
}

// ScaleForZoom is the inverse of ZoomLevel for zoom levels inside [1, UpperZoomLevel].
//
// Parameters:
//   - zoom: fractional zoom level
//
// Returns:
//   - float64: mercator units per pixel at that zoom
func ScaleForZoom(zoom float64) float64 {
	return MercatorRangeX / TileSize / math.Exp2(zoom)
}

// NormalizedZoomLevel maps a zoom level into [0, 1] relative to minZoom, reaching 1 at
// UpperZoomLevel. Zoom levels at or below minZoom yield 0.
//
// Parameters:
//   - zoom: current fractional zoom level
//   - minZoom: zoom level mapped to 0
//
// Returns:
//   - float64: normalized zoom in [0, 1]
func NormalizedZoomLevel(zoom, minZoom float64) float64 {
	if minZoom >= UpperZoomLevel {
		return 0
	}
	return Clamp((zoom-minZoom)/(UpperZoomLevel-minZoom), 0, 1)
}

// GenerateNormalsForTriangles produces one flat normal per triangle vertex from a flat
// position list. Every three consecutive vertices form a triangle; the normal of each
// is the normalized cross product of its two edges and is repeated for all three corners.
// Degenerate triangles get a zero normal. Trailing vertices that do not complete a
// triangle are ignored.
//
// Parameters:
//   - positions: flat x,y,z positions, three floats per vertex
//
// Returns:
//   - []float32: flat x,y,z normals, nine floats per triangle
func GenerateNormalsForTriangles(positions []float32) []float32 {
	triangles := len(positions) / 9
	normals := make([]float32, 0, triangles*9)
	for t := 0; t < triangles; t++ {
		base := t * 9
		v0 := mgl32.Vec3{positions[base], positions[base+1], positions[base+2]}
		v1 := mgl32.Vec3{positions[base+3], positions[base+4], positions[base+5]}
		v2 := mgl32.Vec3{positions[base+6], positions[base+7], positions[base+8]}

		n := v1.Sub(v0).Cross(v2.Sub(v0))
		if n.Len() > 0 {
			n = n.Normalize()
		}
		for range 3 {
			normals = append(normals, n[0], n[1], n[2])
		}
	}
	return normals
}
