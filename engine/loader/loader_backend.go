package loader

import (
	"github.com/Carmen-Shannon/oxy-arrow/engine/loader/obj"
)

// loaderBackend parses one mesh format through a file protocol.
// Concrete implementations (e.g., objLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Parse reads the mesh at path through fs.
	//
	// Parameters:
	//   - fs: the file system serving the mesh bytes
	//   - path: the path to open on fs
	//
	// Returns:
	//   - *obj.Mesh: the indexed mesh
	//   - error: error if opening or parsing fails
	Parse(fs obj.FileSystem, path string) (*obj.Mesh, error)
}

// objLoaderBackend is the loaderBackend for Wavefront OBJ files.
type objLoaderBackend struct{}

var _ loaderBackend = &objLoaderBackend{}

// newOBJLoaderBackend creates a new OBJ loader backend.
//
// Returns:
//   - loaderBackend: the loader backend for OBJ files
func newOBJLoaderBackend() loaderBackend {
	return &objLoaderBackend{}
}

func (b *objLoaderBackend) Parse(fs obj.FileSystem, path string) (*obj.Mesh, error) {
	return obj.Read(path, fs)
}
