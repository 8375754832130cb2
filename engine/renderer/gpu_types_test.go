package renderer

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrow3dProgramParams_Marshal(t *testing.T) {
	p := Arrow3dProgramParams{
		Transform: mgl32.Translate3D(1, 2, 3),
		Color:     mgl32.Vec4{0.25, 0.5, 0.75, 1},
	}
	require.Equal(t, 80, p.Size())

	buf := p.Marshal()
	require.Len(t, buf, 80)

	at := func(i int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4 : i*4+4]))
	}
	// translation sits in the fourth column
	assert.Equal(t, float32(1), at(12))
	assert.Equal(t, float32(2), at(13))
	assert.Equal(t, float32(3), at(14))
	assert.Equal(t, float32(1), at(15))
	assert.Equal(t, float32(0.25), at(16))
	assert.Equal(t, float32(1), at(19))
}
