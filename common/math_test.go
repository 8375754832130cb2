package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNormalsForTriangles(t *testing.T) {
	positions := []float32{
		0, 0, 0, 1, 0, 0, 0, 1, 0, // counter-clockwise in XY, normal +Z
		0, 0, 0, 0, 0, 1, 1, 0, 0, // normal +Y
	}

	normals := GenerateNormalsForTriangles(positions)
	require.Len(t, normals, 9*2)

	for tri := 0; tri < 2; tri++ {
		b := tri * 9
		v0 := mgl32.Vec3{positions[b], positions[b+1], positions[b+2]}
		v1 := mgl32.Vec3{positions[b+3], positions[b+4], positions[b+5]}
		v2 := mgl32.Vec3{positions[b+6], positions[b+7], positions[b+8]}
		want := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
		for c := 0; c < 3; c++ {
			got := mgl32.Vec3{normals[b+c*3], normals[b+c*3+1], normals[b+c*3+2]}
			assert.True(t, got.ApproxEqual(want), "triangle %d corner %d: got %v want %v", tri, c, got, want)
		}
	}
	assert.Equal(t, []float32{0, 0, 1}, normals[0:3])
	assert.Equal(t, []float32{0, 1, 0}, normals[9:12])
}

func TestGenerateNormalsForTriangles_Degenerate(t *testing.T) {
	normals := GenerateNormalsForTriangles([]float32{1, 1, 1, 1, 1, 1, 1, 1, 1, 5, 5})
	require.Len(t, normals, 9)
	for _, v := range normals {
		assert.Zero(t, v)
	}
}

func TestNormalizedZoomLevel(t *testing.T) {
	tests := []struct {
		name string
		zoom float64
		want float64
	}{
		{"below threshold", 10, 0},
		{"at threshold", 16, 0},
		{"midway", 18, 0.5},
		{"upper", UpperZoomLevel, 1},
		{"beyond upper", 25, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NormalizedZoomLevel(tt.zoom, 16), 1e-12)
		})
	}
	assert.Zero(t, NormalizedZoomLevel(30, UpperZoomLevel))
}

func TestZoomLevelRoundTrip(t *testing.T) {
	for _, z := range []float64{1, 5.5, 16, 19.25} {
		assert.InDelta(t, z, ZoomLevel(ScaleForZoom(z)), 1e-9)
	}
	assert.Equal(t, 1.0, ZoomLevel(1e9))
	assert.Equal(t, UpperZoomLevel, ZoomLevel(0))
}

func TestLerpClamp(t *testing.T) {
	assert.Equal(t, 1.0, Lerp(1.0, 2.2, 0))
	assert.InDelta(t, 2.2, Lerp(1.0, 2.2, 1), 1e-15)
	assert.Equal(t, 0.0, Clamp(-1, 0, 1))
	assert.Equal(t, 1.0, Clamp(3, 0, 1))
	assert.Equal(t, 0.25, Clamp(0.25, 0, 1))
}
