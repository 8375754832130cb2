// Package obj parses Wavefront OBJ meshes through a pull-based file protocol.
//
// Every attribute array starts with one dummy entry so that OBJ's 1-based indices can be
// used directly and index 0 means "not specified". A channel whose count is 1 therefore
// carries no data.
package obj

import "errors"

var (
	ErrNoFile          = errors.New("no such file")
	ErrMalformedVertex = errors.New("malformed vertex attribute")
	ErrMalformedFace   = errors.New("malformed face")
	ErrIndexOutOfRange = errors.New("face index out of range")
)

// File is an open stream handed out by a FileSystem.
type File interface {
	// Read copies up to len(dst) bytes into dst.
	//
	// Parameters:
	//   - dst: destination buffer
	//
	// Returns:
	//   - int: the number of bytes copied, 0 at end of stream
	Read(dst []byte) int

	// Size reports the number of bytes that remain to be read.
	//
	// Returns:
	//   - uint64: remaining byte count
	Size() uint64

	// Close releases the stream. The parser calls it exactly once per successful Open.
	Close()
}

// FileSystem resolves paths for the parser, both the main mesh file and any material
// libraries it references.
type FileSystem interface {
	// Open opens the named file.
	//
	// Parameters:
	//   - path: the path as written by the caller or inside the mesh file
	//
	// Returns:
	//   - File: the open stream
	//   - error: ErrNoFile (possibly wrapped) when the path cannot be served
	Open(path string) (File, error)
}

// Index is one face corner. Each field indexes the matching attribute array of the Mesh;
// 0 refers to the dummy entry and means the corner does not use that channel.
type Index struct {
	P uint32
	T uint32
	N uint32
}

// Group is a named run of consecutive faces introduced by an `o` or `g` statement.
type Group struct {
	Name        string
	FaceCount   uint32
	FaceOffset  uint32
	IndexOffset uint32
}

// Material is the subset of an MTL material the parser understands.
type Material struct {
	Name    string
	Kd      [3]float32
	MapKd   string
	Fetched bool // false when the material was only named by usemtl and never defined
}

// Mesh is the parse result.
type Mesh struct {
	Positions []float32 // x,y,z triples, entry 0 is a dummy
	TexCoords []float32 // u,v pairs, entry 0 is a dummy
	Normals   []float32 // x,y,z triples, entry 0 is a dummy

	FaceVertices  []uint32 // corner count of every face
	FaceMaterials []uint32 // material index of every face
	Indices       []Index  // face corners in file order

	Materials []Material
	Objects   []Group
	Groups    []Group
}

// PositionCount returns the number of position entries including the dummy.
func (m *Mesh) PositionCount() int { return len(m.Positions) / 3 }

// TexCoordCount returns the number of texture coordinate entries including the dummy.
func (m *Mesh) TexCoordCount() int { return len(m.TexCoords) / 2 }

// NormalCount returns the number of normal entries including the dummy.
func (m *Mesh) NormalCount() int { return len(m.Normals) / 3 }

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int { return len(m.FaceVertices) }

// IndexCount returns the number of face corners.
func (m *Mesh) IndexCount() int { return len(m.Indices) }

func newMesh() *Mesh {
	return &Mesh{
		Positions: []float32{0, 0, 0},
		TexCoords: []float32{0, 0},
		Normals:   []float32{0, 0, 1},
	}
}
