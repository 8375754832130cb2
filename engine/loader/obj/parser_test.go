package obj

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memFile struct {
	data   []byte
	pos    int
	closed *int
}

func (f *memFile) Read(dst []byte) int {
	n := copy(dst, f.data[f.pos:])
	f.pos += n
	return n
}

func (f *memFile) Size() uint64 { return uint64(len(f.data) - f.pos) }

func (f *memFile) Close() { *f.closed++ }

type memFS struct {
	files  map[string]string
	opened []string
	closed int
}

func (fs *memFS) Open(path string) (File, error) {
	fs.opened = append(fs.opened, path)
	s, ok := fs.files[path]
	if !ok {
		return nil, ErrNoFile
	}
	return &memFile{data: []byte(s), closed: &fs.closed}, nil
}

const quadOBJ = `# two triangles
mtllib quad.mtl
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vn 0 0 1
usemtl red
f 1/1/1 2/2/1 3/3/1
f -4/1/-1 -2/3/-1 -1/2/-1
`

func TestRead_Counts(t *testing.T) {
	fs := &memFS{files: map[string]string{"mesh.obj": quadOBJ}}

	m, err := Read("mesh.obj", fs)
	require.NoError(t, err)

	assert.Equal(t, 5, m.PositionCount())
	assert.Equal(t, 4, m.TexCoordCount())
	assert.Equal(t, 2, m.NormalCount())
	assert.Equal(t, 2, m.FaceCount())
	assert.Equal(t, 6, m.IndexCount())
	assert.Equal(t, []uint32{3, 3}, m.FaceVertices)

	assert.Equal(t, Index{P: 1, T: 1, N: 1}, m.Indices[0])
	assert.Equal(t, Index{P: 1, T: 1, N: 1}, m.Indices[3])
	assert.Equal(t, Index{P: 3, T: 3, N: 1}, m.Indices[4])
	assert.Equal(t, Index{P: 4, T: 2, N: 1}, m.Indices[5])

	require.Len(t, m.Objects, 1)
	assert.Equal(t, Group{Name: "quad", FaceCount: 2}, m.Objects[0])

	require.Len(t, m.Materials, 1)
	assert.Equal(t, "red", m.Materials[0].Name)
	assert.False(t, m.Materials[0].Fetched)
	assert.Equal(t, []string{"mesh.obj", "quad.mtl"}, fs.opened)
	assert.Equal(t, 1, fs.closed)
}

func TestRead_MaterialLibrary(t *testing.T) {
	fs := &memFS{files: map[string]string{
		"models/mesh.obj": quadOBJ,
		"models/quad.mtl": "newmtl red\nKd 1 0 0\nmap_Kd red.png\n",
	}}

	m, err := Read("models/mesh.obj", fs)
	require.NoError(t, err)
	require.Len(t, m.Materials, 1)
	assert.True(t, m.Materials[0].Fetched)
	assert.Equal(t, [3]float32{1, 0, 0}, m.Materials[0].Kd)
	assert.Equal(t, "red.png", m.Materials[0].MapKd)
	assert.Equal(t, []uint32{0, 0}, m.FaceMaterials)
	assert.Equal(t, 2, fs.closed)
}

func TestRead_ChunkBoundaries(t *testing.T) {
	fs := &memFS{files: map[string]string{"mesh.obj": quadOBJ}}
	want, err := read("mesh.obj", fs, defaultChunkSize)
	require.NoError(t, err)

	for _, chunk := range []int{1, 2, 7, 13, 64} {
		got, err := read("mesh.obj", fs, chunk)
		require.NoError(t, err, "chunk %d", chunk)
		assert.Equal(t, want, got, "chunk %d", chunk)
	}
}

func TestRead_NoTrailingNewlineAndCRLF(t *testing.T) {
	fs := &memFS{files: map[string]string{"m.obj": "v 0 0 0\r\nv 1 0 0\r\nv 0 1 0\r\nf 1 2 3"}}

	m, err := Read("m.obj", fs)
	require.NoError(t, err)
	assert.Equal(t, 4, m.PositionCount())
	assert.Equal(t, 1, m.TexCoordCount())
	assert.Equal(t, 1, m.NormalCount())
	assert.Equal(t, []Index{{P: 1}, {P: 2}, {P: 3}}, m.Indices)
}

func TestRead_Empty(t *testing.T) {
	fs := &memFS{files: map[string]string{"m.obj": ""}}

	m, err := Read("m.obj", fs)
	require.NoError(t, err)
	assert.Equal(t, 1, m.PositionCount())
	assert.Zero(t, m.IndexCount())
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"short vertex", "v 1 2\n", ErrMalformedVertex},
		{"bad float", "v 1 x 3\n", ErrMalformedVertex},
		{"two corners", "v 0 0 0\nf 1 1\n", ErrMalformedFace},
		{"zero index", "v 0 0 0\nf 0 1 1\n", ErrMalformedFace},
		{"garbage index", "v 0 0 0\nf a 1 1\n", ErrMalformedFace},
		{"forward reference", "v 0 0 0\nf 1 1 2\n", ErrIndexOutOfRange},
		{"relative underflow", "v 0 0 0\nf -2 1 1\n", ErrIndexOutOfRange},
		{"missing normal", "v 0 0 0\nf 1//1 1//1 1//1\n", ErrIndexOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := &memFS{files: map[string]string{"m.obj": tt.src}}
			_, err := Read("m.obj", fs)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read("nope.obj", &memFS{})
	assert.ErrorIs(t, err, ErrNoFile)
}
