package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-arrow/engine/renderer/bind_group_provider"
)

// MeshBuffer is one CPU-side vertex stream. Stride is measured in floats.
type MeshBuffer struct {
	Data   []float32
	Stride uint32
}

// MeshAttribute binds a named shader input to a window of a MeshBuffer.
// Offset and Components are measured in floats; Stride is copied from the buffer.
type MeshAttribute struct {
	Name        string
	BufferIndex int
	Offset      uint32
	Components  uint32
	Stride      uint32
}

// MeshBackend uploads and draws mesh objects. The Renderer implements it on the GPU.
type MeshBackend interface {
	// UploadMesh creates GPU vertex buffers for every buffer of a mesh and stores them on provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider that owns the created buffers
	//   - buffers: the CPU-side vertex streams, in buffer index order
	//   - vertexCount: the number of vertices drawn from the buffers
	//
	// Returns:
	//   - error: an error if buffer creation fails
	UploadMesh(provider bind_group_provider.BindGroupProvider, buffers []MeshBuffer, vertexCount uint32) error

	// DrawMesh encodes a draw of an uploaded mesh with the params last applied to program.
	//
	// Parameters:
	//   - program: the program to draw with
	//   - state: the fixed-function state of the draw
	//   - provider: the BindGroupProvider holding the uploaded buffers
	//   - attributes: the attributes the mesh declares
	//
	// Returns:
	//   - error: an error if the program is unknown or the attributes do not fit it
	DrawMesh(program Program, state RenderState, provider bind_group_provider.BindGroupProvider, attributes []MeshAttribute) error
}

// MeshObject is a drawable set of vertex buffers with named attributes.
// GPU resources are created lazily on the first Render and recreated after a buffer changes.
type MeshObject interface {
	// SetBuffer stores a vertex stream at the given buffer index, replacing any previous one.
	//
	// Parameters:
	//   - index: the buffer index
	//   - data: the vertex data, owned by the mesh object afterwards
	//   - stride: the number of floats per vertex in data
	SetBuffer(index int, data []float32, stride uint32)

	// SetAttribute declares a named attribute reading from a buffer set with SetBuffer.
	// Panics when the buffer is unknown or the attribute does not fit its stride.
	//
	// Parameters:
	//   - name: the shader input name
	//   - bufferIndex: the buffer the attribute reads from
	//   - offset: the offset of the attribute within one vertex, in floats
	//   - components: the number of floats in the attribute (1 to 4)
	SetAttribute(name string, bufferIndex int, offset, components uint32)

	// Buffer returns the data stored at index, or nil.
	//
	// Parameters:
	//   - index: the buffer index
	//
	// Returns:
	//   - []float32: the stored vertex data
	Buffer(index int) []float32

	// VertexCount returns the number of complete vertices every declared attribute can read.
	// A mesh with no attributes or no data has zero vertices.
	//
	// Returns:
	//   - uint32: the drawable vertex count
	VertexCount() uint32

	// Render applies params to program and draws the mesh. Rendering an empty mesh is a no-op.
	//
	// Parameters:
	//   - program: the program to draw with
	//   - state: the fixed-function state of the draw
	//   - setter: the setter that binds params to program
	//   - params: the per-draw uniform values
	//
	// Returns:
	//   - error: an error if upload or draw fails
	Render(program Program, state RenderState, setter ParamsSetter, params Arrow3dProgramParams) error

	// Release releases the GPU resources of the mesh. The CPU-side buffers are kept.
	Release()
}

type meshObject struct {
	label      string
	backend    MeshBackend
	provider   bind_group_provider.BindGroupProvider
	buffers    []MeshBuffer
	attributes []MeshAttribute
	uploaded   bool
}

var _ MeshObject = &meshObject{}

// NewMeshObject creates an empty mesh object that uploads and draws through backend.
//
// Parameters:
//   - label: a debug label for the GPU buffers of the mesh
//   - backend: the MeshBackend to upload and draw with
//
// Returns:
//   - MeshObject: a mesh object with no buffers
func NewMeshObject(label string, backend MeshBackend) MeshObject {
	if backend == nil {
		panic("renderer: nil mesh backend")
	}
	return &meshObject{
		label:    label,
		backend:  backend,
		provider: bind_group_provider.NewBindGroupProvider(label),
	}
}

func (m *meshObject) SetBuffer(index int, data []float32, stride uint32) {
	if index < 0 || stride == 0 {
		panic(fmt.Sprintf("renderer: invalid buffer %d with stride %d", index, stride))
	}
	for len(m.buffers) <= index {
		m.buffers = append(m.buffers, MeshBuffer{})
	}
	m.buffers[index] = MeshBuffer{Data: data, Stride: stride}
	for i := range m.attributes {
		if m.attributes[i].BufferIndex == index {
			m.attributes[i].Stride = stride
		}
	}
	m.invalidate()
}

func (m *meshObject) SetAttribute(name string, bufferIndex int, offset, components uint32) {
	if bufferIndex < 0 || bufferIndex >= len(m.buffers) || m.buffers[bufferIndex].Stride == 0 {
		panic(fmt.Sprintf("renderer: attribute %q reads unknown buffer %d", name, bufferIndex))
	}
	stride := m.buffers[bufferIndex].Stride
	if components == 0 || components > 4 || offset+components > stride {
		panic(fmt.Sprintf("renderer: attribute %q (offset %d, %d components) does not fit stride %d", name, offset, components, stride))
	}

	attr := MeshAttribute{Name: name, BufferIndex: bufferIndex, Offset: offset, Components: components, Stride: stride}
	for i := range m.attributes {
		if m.attributes[i].Name == name {
			m.attributes[i] = attr
			return
		}
	}
	m.attributes = append(m.attributes, attr)
}

func (m *meshObject) Buffer(index int) []float32 {
	if index < 0 || index >= len(m.buffers) {
		return nil
	}
	return m.buffers[index].Data
}

func (m *meshObject) VertexCount() uint32 {
	if len(m.attributes) == 0 {
		return 0
	}
	count := ^uint32(0)
	for _, a := range m.attributes {
		b := m.buffers[a.BufferIndex]
		n := uint32(len(b.Data)) / b.Stride
		if n < count {
			count = n
		}
	}
	return count
}

func (m *meshObject) Render(program Program, state RenderState, setter ParamsSetter, params Arrow3dProgramParams) error {
	count := m.VertexCount()
	if count == 0 || program == nil {
		return nil
	}

	if !m.uploaded {
		if err := m.backend.UploadMesh(m.provider, m.buffers, count); err != nil {
			return fmt.Errorf("upload mesh %q: %w", m.label, err)
		}
		m.uploaded = true
	}

	setter.Apply(program, params)
	if err := m.backend.DrawMesh(program, state, m.provider, m.attributes); err != nil {
		return fmt.Errorf("draw mesh %q: %w", m.label, err)
	}
	return nil
}

func (m *meshObject) Release() {
	m.invalidate()
}

func (m *meshObject) invalidate() {
	if m.uploaded {
		m.provider.Release()
		m.uploaded = false
	}
}
