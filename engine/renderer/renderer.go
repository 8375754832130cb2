package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-arrow/common"
	"github.com/Carmen-Shannon/oxy-arrow/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-arrow/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/rs/zerolog"
)

var (
	ErrProgramNotFound = errors.New("program not found")
	ErrNoParams        = errors.New("no program params applied for draw")
	ErrAttributeLayout = errors.New("mesh attribute does not match program layout")
	ErrNoFrame         = errors.New("no frame in progress")
	ErrBindingLayout   = errors.New("program bindings do not match the uniform layout")
)

// uniformSlotSize is the stride of one per-draw uniform slot. It equals the WebGPU
// default minUniformBufferOffsetAlignment so every slot is addressable with a dynamic offset.
const uniformSlotSize = 256

// defaultUniformSlots bounds the number of parameterized draws per frame.
const defaultUniformSlots = 64

// ProgramID identifies one of the programs the renderer knows how to build.
type ProgramID string

const (
	ProgramArrow3d        ProgramID = "arrow3d"
	ProgramArrow3dShadow  ProgramID = "arrow3d_shadow"
	ProgramArrow3dOutline ProgramID = "arrow3d_outline"
)

// Program is a compiled GPU program. pipeline.Pipeline satisfies it.
type Program interface {
	// PipelineKey returns the key the program is cached under.
	//
	// Returns:
	//   - string: the unique pipeline key
	PipelineKey() string
}

// ParamsSetter binds per-draw uniform values to a program.
type ParamsSetter interface {
	// Apply uploads params for the next draw issued with program.
	//
	// Parameters:
	//   - program: the program the params belong to
	//   - params: the transform and color of the draw
	Apply(program Program, params Arrow3dProgramParams)
}

// ProgramManager resolves programs by identifier.
type ProgramManager interface {
	// Program returns the program registered for id, or nil when it is unknown.
	//
	// Parameters:
	//   - id: the program identifier
	//
	// Returns:
	//   - Program: the registered program, or nil
	Program(id ProgramID) Program

	// ParamsSetter returns the setter used to bind per-draw params.
	//
	// Returns:
	//   - ParamsSetter: the params setter
	ParamsSetter() ParamsSetter
}

// Texture is an opaque GPU texture handle.
type Texture interface {
	// Label returns a debug name for the texture.
	//
	// Returns:
	//   - string: the texture label
	Label() string
}

// RenderState is the fixed-function state of a single draw.
type RenderState struct {
	DepthTest    bool
	ColorTexture Texture
}

// GraphicsContext exposes the properties of the active graphics backend a drawable needs
// to build its GPU resources.
type GraphicsContext interface {
	// DepthConvention reports the clip-space depth range the backend rasterizes.
	//
	// Returns:
	//   - common.DepthConvention: the backend depth convention
	DepthConvention() common.DepthConvention

	// NewMeshObject creates an empty mesh object bound to this context.
	//
	// Parameters:
	//   - label: a debug label for the GPU buffers of the mesh
	//
	// Returns:
	//   - MeshObject: a mesh object with no buffers
	NewMeshObject(label string) MeshObject
}

// Surface is the presentation target a Renderer draws into. window.Window satisfies it.
type Surface interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// Renderer defines the interface for the rendering system.
//
// The Renderer is the graphics context, program manager and params setter for drawables.
// It caches pipelines by key, owns a ring of per-draw uniform slots, and delegates
// GPU work to a backend implementation.
type Renderer interface {
	GraphicsContext
	ProgramManager
	ParamsSetter
	MeshBackend

	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines registers one or more pipelines by creating the corresponding GPU
	// render pipeline via the backend, then caching them by PipelineKey.
	// Pipelines whose keys are already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize configures the underlying backend to handle a new surface size.
	// This should be called when re-sizing the window or when the surface size should change.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	// A call to Resize is required after changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// BeginFrame acquires the swapchain texture, begins the main render pass and rewinds
	// the uniform ring. Must be paired with EndFrame.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// EndFrame ends the current render pass and submits the command buffer to the GPU.
	// Does not present the surface, call Present after EndFrame to display the frame.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	Present()

	// Release releases every pipeline, the uniform ring and the device.
	Release()
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend
	logger      zerolog.Logger

	// uniforms is the dynamic-offset uniform ring shared by every program.
	uniforms      bind_group_provider.BindGroupProvider
	uniformSlots  int
	nextSlot      int
	uniformOffset int // byte offset of the last applied params, -1 when consumed
	ringExhausted bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer instance with the specified backend type and presentation surface.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - surface: the presentation target, typically a window.Window
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, surface Surface, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		logger:        zerolog.Nop(),
		uniformSlots:  defaultUniformSlots,
		uniformOffset: -1,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	r.backend.ConfigureSurface(surface.Width(), surface.Height())

	r.uniforms = bind_group_provider.NewBindGroupProvider("Arrow3d Uniforms")
	if err := r.backend.InitUniformRing(r.uniforms, uniformSlotSize, r.uniformSlots); err != nil {
		panic(err)
	}

	r.logger.Info().
		Int("width", surface.Width()).
		Int("height", surface.Height()).
		Uint32("msaa", uint32(msaa)).
		Msg("renderer ready")
	return r
}

func (r *renderer) DepthConvention() common.DepthConvention {
	return r.backend.DepthConvention()
}

func (r *renderer) NewMeshObject(label string) MeshObject {
	return NewMeshObject(label, r)
}

func (r *renderer) Program(id ProgramID) Program {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pipelineCache[string(id)]
	if !ok {
		return nil
	}
	return p
}

func (r *renderer) ParamsSetter() ParamsSetter {
	return r
}

func (r *renderer) Apply(program Program, params Arrow3dProgramParams) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nextSlot >= r.uniformSlots {
		r.uniformOffset = -1
		if !r.ringExhausted {
			r.logger.Warn().Int("slots", r.uniformSlots).Msg("uniform ring exhausted, skipping draws until next frame")
			r.ringExhausted = true
		}
		return
	}

	offset := r.nextSlot * uniformSlotSize
	r.backend.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: r.uniforms,
		Binding:  0,
		Offset:   uint64(offset),
		Data:     params.Marshal(),
	}})
	r.nextSlot++
	r.uniformOffset = offset
}

func (r *renderer) UploadMesh(provider bind_group_provider.BindGroupProvider, buffers []MeshBuffer, vertexCount uint32) error {
	data := make([][]byte, len(buffers))
	for i, b := range buffers {
		data[i] = common.SliceToBytes(b.Data)
	}
	if err := r.backend.InitMeshBuffers(provider, data, vertexCount); err != nil {
		provider.Release()
		return err
	}
	return nil
}

func (r *renderer) DrawMesh(program Program, state RenderState, provider bind_group_provider.BindGroupProvider, attributes []MeshAttribute) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if program == nil {
		return ErrProgramNotFound
	}
	key := program.PipelineKey()
	if !state.DepthTest {
		key = NoDepthKey(key)
	}
	p, ok := r.pipelineCache[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrProgramNotFound, key)
	}

	offset := r.uniformOffset
	r.uniformOffset = -1
	if offset < 0 {
		return fmt.Errorf("%w: %q", ErrNoParams, key)
	}

	bindings, err := vertexBindings(p.VertexAttributes(), attributes)
	if err != nil {
		return fmt.Errorf("program %q: %w", key, err)
	}
	return r.backend.DrawCall(p, provider, bindings, r.uniforms, uint32(offset))
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p, []*wgpu.BindGroupLayout{r.uniforms.BindGroupLayout()}); err != nil {
			return fmt.Errorf("register pipeline %q: %w", key, err)
		}
		r.pipelineCache[key] = p
		r.logger.Debug().Str("pipeline", key).Msg("pipeline registered")
	}
	return nil
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) BeginFrame() error {
	r.mu.Lock()
	r.nextSlot = 0
	r.uniformOffset = -1
	r.ringExhausted = false
	r.mu.Unlock()
	return r.backend.BeginFrame()
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	if r.uniforms != nil {
		r.uniforms.Release()
	}
	r.backend.Release()
}

// vertexBinding selects the mesh buffer and byte offset bound to one vertex buffer slot.
type vertexBinding struct {
	Buffer int
	Offset uint64
}

// vertexBindings matches the attributes a program consumes, in slot order, against the
// attributes a mesh declares. Each program slot reads a tightly packed buffer, so the
// mesh buffer stride must equal the attribute's component count.
func vertexBindings(programAttrs []pipeline.VertexAttribute, meshAttrs []MeshAttribute) ([]vertexBinding, error) {
	bindings := make([]vertexBinding, len(programAttrs))
	for slot, want := range programAttrs {
		found := false
		for _, have := range meshAttrs {
			if have.Name != want.Name {
				continue
			}
			if have.Components != want.Components || have.Stride != want.Components {
				return nil, fmt.Errorf("%w: %s has %d components with stride %d, want %d packed",
					ErrAttributeLayout, have.Name, have.Components, have.Stride, want.Components)
			}
			bindings[slot] = vertexBinding{Buffer: have.BufferIndex, Offset: uint64(have.Offset) * 4}
			found = true
			break
		}
		if !found {
			return nil, fmt.Errorf("%w: missing %s", ErrAttributeLayout, want.Name)
		}
	}
	return bindings, nil
}
