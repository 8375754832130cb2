package renderer

import (
	"errors"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-arrow/common"
	"github.com/Carmen-Shannon/oxy-arrow/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-arrow/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type drawRecord struct {
	key      string
	bindings []vertexBinding
	offset   uint32
}

type fakeBackend struct {
	meshErr    error
	registered []string
	writes     []bind_group_provider.BufferWrite
	draws      []drawRecord
	frames     int
}

func (f *fakeBackend) DepthConvention() common.DepthConvention { return common.DepthZeroToOne }
func (f *fakeBackend) ConfigureSurface(width, height int)      {}
func (f *fakeBackend) SetPresentMode(mode PresentMode)         {}
func (f *fakeBackend) EndFrame()                               {}
func (f *fakeBackend) Present()                                {}
func (f *fakeBackend) Release()                                {}

func (f *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline, layouts []*wgpu.BindGroupLayout) error {
	f.registered = append(f.registered, p.PipelineKey())
	return nil
}

func (f *fakeBackend) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, buffers [][]byte, vertexCount uint32) error {
	if f.meshErr != nil {
		// the first buffer is created before the failure
		provider.SetVertexBuffer(0, nil)
		return f.meshErr
	}
	provider.SetVertexCount(vertexCount)
	return nil
}

func (f *fakeBackend) InitUniformRing(provider bind_group_provider.BindGroupProvider, slotSize uint64, slots int) error {
	return nil
}

func (f *fakeBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	f.writes = append(f.writes, writes...)
}

func (f *fakeBackend) BeginFrame() error {
	f.frames++
	return nil
}

func (f *fakeBackend) DrawCall(p pipeline.Pipeline, mesh bind_group_provider.BindGroupProvider, bindings []vertexBinding, uniforms bind_group_provider.BindGroupProvider, offset uint32) error {
	f.draws = append(f.draws, drawRecord{key: p.PipelineKey(), bindings: bindings, offset: offset})
	return nil
}

func newTestRenderer(t *testing.T, slots int) (*renderer, *fakeBackend) {
	t.Helper()
	b := &fakeBackend{}
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backend:       b,
		logger:        zerolog.Nop(),
		uniforms:      bind_group_provider.NewBindGroupProvider("test uniforms"),
		uniformSlots:  slots,
		uniformOffset: -1,
	}
	require.NoError(t, r.RegisterPipelines(ArrowPipelines()...))
	return r, b
}

func arrowMesh(r *renderer) MeshObject {
	m := r.NewMeshObject("arrow")
	m.SetBuffer(0, make([]float32, 9), 3)
	m.SetAttribute("a_pos", 0, 0, 3)
	m.SetBuffer(1, make([]float32, 9), 3)
	m.SetAttribute("a_normal", 1, 0, 3)
	return m
}

func TestRenderer_RegisterAndLookup(t *testing.T) {
	r, b := newTestRenderer(t, 4)
	assert.Len(t, b.registered, 6)

	require.NoError(t, r.RegisterPipelines(ArrowPipelines()...))
	assert.Len(t, b.registered, 6, "already registered keys are skipped")

	assert.NotNil(t, r.Program(ProgramArrow3d))
	assert.Nil(t, r.Program("missing"))
	assert.Same(t, r, r.ParamsSetter())
	assert.Equal(t, common.DepthZeroToOne, r.DepthConvention())
}

func TestRenderer_DrawUsesAppliedSlot(t *testing.T) {
	r, b := newTestRenderer(t, 4)
	m := arrowMesh(r)
	require.NoError(t, r.BeginFrame())

	prog := r.Program(ProgramArrow3d)
	params := Arrow3dProgramParams{Transform: mgl32.Ident4(), Color: mgl32.Vec4{1, 1, 1, 1}}
	require.NoError(t, m.Render(prog, RenderState{DepthTest: true}, r.ParamsSetter(), params))
	require.NoError(t, m.Render(prog, RenderState{DepthTest: false}, r.ParamsSetter(), params))

	require.Len(t, b.draws, 2)
	assert.Equal(t, "arrow3d", b.draws[0].key)
	assert.Equal(t, uint32(0), b.draws[0].offset)
	assert.Equal(t, NoDepthKey("arrow3d"), b.draws[1].key)
	assert.Equal(t, uint32(uniformSlotSize), b.draws[1].offset)
	assert.Equal(t, []vertexBinding{{Buffer: 0}, {Buffer: 1}}, b.draws[0].bindings)

	require.Len(t, b.writes, 2)
	assert.Equal(t, params.Marshal(), b.writes[0].Data)
	assert.Equal(t, uint64(uniformSlotSize), b.writes[1].Offset)

	// a new frame rewinds the ring
	require.NoError(t, r.BeginFrame())
	require.NoError(t, m.Render(prog, RenderState{DepthTest: true}, r.ParamsSetter(), params))
	assert.Equal(t, uint32(0), b.draws[2].offset)
}

func TestRenderer_RingExhaustion(t *testing.T) {
	r, b := newTestRenderer(t, 1)
	m := arrowMesh(r)
	require.NoError(t, r.BeginFrame())

	prog := r.Program(ProgramArrow3d)
	require.NoError(t, m.Render(prog, RenderState{DepthTest: true}, r, Arrow3dProgramParams{}))
	err := m.Render(prog, RenderState{DepthTest: true}, r, Arrow3dProgramParams{})
	assert.ErrorIs(t, err, ErrNoParams)
	assert.Len(t, b.draws, 1)
}

func TestRenderer_DrawErrors(t *testing.T) {
	r, _ := newTestRenderer(t, 4)

	err := r.DrawMesh(nil, RenderState{}, nil, nil)
	assert.ErrorIs(t, err, ErrProgramNotFound)

	err = r.DrawMesh(pipeline.NewPipeline("unknown"), RenderState{DepthTest: true}, nil, nil)
	assert.ErrorIs(t, err, ErrProgramNotFound)

	// position-only mesh cannot feed the shadow program's texcoords
	m := r.NewMeshObject("shadow")
	m.SetBuffer(0, make([]float32, 9), 3)
	m.SetAttribute("a_pos", 0, 0, 3)
	err = m.Render(r.Program(ProgramArrow3dShadow), RenderState{DepthTest: true}, r, Arrow3dProgramParams{})
	assert.ErrorIs(t, err, ErrAttributeLayout)
}

func TestRenderer_UploadFailureReleasesBuffers(t *testing.T) {
	r, b := newTestRenderer(t, 4)
	b.meshErr = errors.New("out of memory")
	provider := bind_group_provider.NewBindGroupProvider("arrow")

	buffers := []MeshBuffer{{Data: make([]float32, 9), Stride: 3}, {Data: make([]float32, 9), Stride: 3}}
	err := r.UploadMesh(provider, buffers, 3)
	assert.ErrorIs(t, err, b.meshErr)
	assert.False(t, provider.Initialized())
	assert.Zero(t, provider.VertexCount())

	b.meshErr = nil
	require.NoError(t, r.UploadMesh(provider, buffers, 3))
	assert.Equal(t, uint32(3), provider.VertexCount())
}

func TestRenderer_PipelineLookup(t *testing.T) {
	r, _ := newTestRenderer(t, 4)

	p := r.Pipeline(string(ProgramArrow3d))
	require.NotNil(t, p)
	assert.Equal(t, string(ProgramArrow3d), p.PipelineKey())
	assert.Same(t, r.Program(ProgramArrow3d), p)

	noDepth := r.Pipeline(NoDepthKey(string(ProgramArrow3d)))
	require.NotNil(t, noDepth)
	assert.NotSame(t, p, noDepth)

	assert.Nil(t, r.Pipeline("missing"))
}
