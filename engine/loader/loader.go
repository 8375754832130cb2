package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-arrow/assets"
	"github.com/Carmen-Shannon/oxy-arrow/engine/loader/obj"

	"github.com/rs/zerolog"
)

// LoaderBackendType identifies the mesh file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeOBJ selects the Wavefront OBJ loader backend.
	BackendTypeOBJ LoaderBackendType = iota
)

// MeshResult is the outcome of loading one mesh. On success Err is nil and the three
// sequences hold one flat vertex per face corner; a sequence is empty when the source
// mesh has no data for that channel. On failure only Err is set.
type MeshResult struct {
	Positions []float32 // x,y,z per corner
	Normals   []float32 // x,y,z per corner
	TexCoords []float32 // u,v per corner
	Err       error
}

// OK reports whether the load succeeded.
func (r MeshResult) OK() bool {
	return r.Err == nil
}

// loader is the implementation of the Loader interface.
type loader struct {
	lookup  ResourceLookup
	backend loaderBackend
	logger  zerolog.Logger
	workers int
}

// Loader turns bundled mesh resources into flat, GPU-ready vertex sequences.
// Loading is synchronous; callbacks run on the calling goroutine before return.
type Loader interface {
	// Load opens, parses and flattens the named mesh.
	//
	// Parameters:
	//   - name: the logical resource name
	//
	// Returns:
	//   - MeshResult: the flattened sequences, or the failure
	Load(name string) MeshResult

	// LoadMesh loads the named mesh and reports the outcome through exactly one of the
	// callbacks. Resource errors never panic. Passing a nil callback panics.
	//
	// Parameters:
	//   - name: the logical resource name
	//   - onSuccess: receives positions, normals and texture coordinates
	//   - onFailure: receives a diagnostic message
	//
	// Returns:
	//   - bool: true if onSuccess was called
	LoadMesh(name string, onSuccess func(positions, normals, texCoords []float32), onFailure func(reason string)) bool

	// Validate parses every named mesh concurrently and reports its statistics.
	//
	// Parameters:
	//   - names: the logical resource names to check
	//
	// Returns:
	//   - []ValidationReport: one report per name, in input order
	Validate(names []string) []ValidationReport
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
// Without WithLookup, resources are served from the embedded asset bundle.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeOBJ)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		lookup:  NewFSLookup(assets.FS),
		logger:  zerolog.Nop(),
		workers: 4,
	}

	switch backendType {
	case BackendTypeOBJ:
		l.backend = newOBJLoaderBackend()
	default:
		l.backend = newOBJLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(name string) MeshResult {
	mesh, err := l.parse(name)
	if err != nil {
		l.logger.Debug().Str("mesh", name).Err(err).Msg("mesh load failed")
		return MeshResult{Err: err}
	}

	r := flatten(mesh)
	l.logger.Debug().
		Str("mesh", name).
		Int("corners", mesh.IndexCount()).
		Bool("normals", len(r.Normals) > 0).
		Bool("tex_coords", len(r.TexCoords) > 0).
		Msg("mesh loaded")
	return r
}

func (l *loader) LoadMesh(name string, onSuccess func(positions, normals, texCoords []float32), onFailure func(reason string)) bool {
	if onSuccess == nil || onFailure == nil {
		panic("loader: LoadMesh requires both callbacks")
	}

	r := l.Load(name)
	if !r.OK() {
		onFailure(r.Err.Error())
		return false
	}
	onSuccess(r.Positions, r.Normals, r.TexCoords)
	return true
}

// parse opens name and runs the backend over it through a StreamAdapter.
func (l *loader) parse(name string) (*obj.Mesh, error) {
	stream, err := l.lookup.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open mesh %s: %w", name, err)
	}
	adapter := NewStreamAdapter(stream)
	mesh, err := l.backend.Parse(adapter, MainFileID)
	if readErr := adapter.Err(); readErr != nil {
		err = readErr
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load mesh %s: %w", name, err)
	}
	return mesh, nil
}

// flatten emits one vertex per face corner for every channel the mesh carries.
// A channel is carried only when its count exceeds 1, since entry 0 is the parser's dummy.
func flatten(m *obj.Mesh) MeshResult {
	hasPositions := m.PositionCount() > 1
	hasNormals := m.NormalCount() > 1
	hasTexCoords := m.TexCoordCount() > 1

	var r MeshResult
	n := m.IndexCount()
	if hasPositions {
		r.Positions = make([]float32, 0, n*3)
	}
	if hasNormals {
		r.Normals = make([]float32, 0, n*3)
	}
	if hasTexCoords {
		r.TexCoords = make([]float32, 0, n*2)
	}

	for _, idx := range m.Indices {
		if hasPositions {
			r.Positions = append(r.Positions, m.Positions[idx.P*3:idx.P*3+3]...)
		}
		if hasNormals {
			r.Normals = append(r.Normals, m.Normals[idx.N*3:idx.N*3+3]...)
		}
		if hasTexCoords {
			r.TexCoords = append(r.TexCoords, m.TexCoords[idx.T*2:idx.T*2+2]...)
		}
	}
	return r
}
