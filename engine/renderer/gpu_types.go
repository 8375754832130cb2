package renderer

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// Arrow3dUniformSource is the canonical WGSL definition of the Arrow3dUniform struct.
// Programs pull it in with //@oxy:include arrow3d_uniform.
// Matches Arrow3dProgramParams layout exactly (80 bytes).
//
//go:embed assets/arrow3d_uniform.wgsl
var Arrow3dUniformSource string

// Arrow3dProgramParams is the per-draw uniform block shared by the arrow programs.
// Size: 80 bytes (mat4x4<f32> + vec4<f32>).
type Arrow3dProgramParams struct {
	Transform mgl32.Mat4 // offset 0: column-major model-to-clip transform (64 bytes)
	Color     mgl32.Vec4 // offset 64: RGBA color (16 bytes)
}

// Size returns the size of the Arrow3dProgramParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *Arrow3dProgramParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the Arrow3dProgramParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 80-byte buffer ready for GPU upload.
func (g *Arrow3dProgramParams) Marshal() []byte {
	buf := make([]byte, 80)
	for i, v := range g.Transform {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(v))
	}
	for i, v := range g.Color {
		binary.LittleEndian.PutUint32(buf[64+i*4:68+i*4], math.Float32bits(v))
	}
	return buf
}
