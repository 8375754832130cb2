package marker

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/Carmen-Shannon/oxy-arrow/common"
	"github.com/Carmen-Shannon/oxy-arrow/engine/loader"
	"github.com/Carmen-Shannon/oxy-arrow/engine/renderer"
	"github.com/Carmen-Shannon/oxy-arrow/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-arrow/engine/view"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quadOBJ = `v -1 -1 0
v 1 -1 0
v 1 1 0
v -1 1 0
f 1 2 3
f 1 3 4
`

const shadowOBJ = `v -1 -1 0
v 1 -1 0
v 1 1 0
v -1 1 0
vt 0 0
vt 1 0
vt 1 1
f 1/1 2/2 3/3
f 1/1 3/3 4/2
`

type draw struct {
	program string
	mesh    string
	state   renderer.RenderState
	params  renderer.Arrow3dProgramParams
}

// fakeGPU is a graphics context, program manager, params setter and mesh backend in one,
// recording every draw it receives.
type fakeGPU struct {
	depth   common.DepthConvention
	pending renderer.Arrow3dProgramParams
	draws   []draw
	uploads int
}

type fakeProgram string

func (p fakeProgram) PipelineKey() string { return string(p) }

func (g *fakeGPU) DepthConvention() common.DepthConvention { return g.depth }

func (g *fakeGPU) NewMeshObject(label string) renderer.MeshObject {
	return renderer.NewMeshObject(label, g)
}

func (g *fakeGPU) Program(id renderer.ProgramID) renderer.Program { return fakeProgram(id) }

func (g *fakeGPU) ParamsSetter() renderer.ParamsSetter { return g }

func (g *fakeGPU) Apply(program renderer.Program, params renderer.Arrow3dProgramParams) {
	g.pending = params
}

func (g *fakeGPU) UploadMesh(provider bind_group_provider.BindGroupProvider, buffers []renderer.MeshBuffer, vertexCount uint32) error {
	g.uploads++
	return nil
}

func (g *fakeGPU) DrawMesh(program renderer.Program, state renderer.RenderState, provider bind_group_provider.BindGroupProvider, attributes []renderer.MeshAttribute) error {
	g.draws = append(g.draws, draw{program: program.PipelineKey(), mesh: provider.Label(), state: state, params: g.pending})
	return nil
}

func (g *fakeGPU) programs() []string {
	out := make([]string, len(g.draws))
	for i, d := range g.draws {
		out[i] = d.program
	}
	return out
}

func newTestArrow(t *testing.T, files map[string]string, options ...ArrowBuilderOption) (Arrow, *fakeGPU) {
	t.Helper()
	fsys := fstest.MapFS{}
	for name, src := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(src)}
	}
	gpu := &fakeGPU{depth: common.DepthZeroToOne}
	l := loader.NewLoader(loader.BackendTypeOBJ, loader.WithLookup(loader.NewFSLookup(fsys)))
	a := NewArrow(gpu, append([]ArrowBuilderOption{WithLoader(l)}, options...)...)
	return a, gpu
}

func validArrow(t *testing.T, options ...ArrowBuilderOption) (Arrow, *fakeGPU) {
	return newTestArrow(t, map[string]string{"arrow.obj": quadOBJ, "arrow_shadow.obj": shadowOBJ}, options...)
}

func TestNewArrow_EndToEnd(t *testing.T) {
	a, _ := validArrow(t)

	arrowOK, shadowOK := a.Loaded()
	require.True(t, arrowOK)
	require.True(t, shadowOK)

	assert.Len(t, a.ArrowMesh().Buffer(verticesBuffer), 18)
	normals := a.ArrowMesh().Buffer(normalsBuffer)
	require.NotEmpty(t, normals, "normals are synthesized")
	assert.Len(t, normals, 18)
	assert.Equal(t, []float32{0, 0, 1}, normals[0:3])

	assert.Len(t, a.ShadowMesh().Buffer(verticesBuffer), 18)
	assert.Len(t, a.ShadowMesh().Buffer(texCoordBuffer), 12)

	assert.Equal(t, uint32(6), a.ArrowMesh().VertexCount())
	assert.Equal(t, uint32(6), a.ShadowMesh().VertexCount())
}

func TestNewArrow_EmbeddedAssets(t *testing.T) {
	gpu := &fakeGPU{}
	a := NewArrow(gpu)

	arrowOK, shadowOK := a.Loaded()
	assert.True(t, arrowOK)
	assert.True(t, shadowOK)
	assert.NotZero(t, a.ArrowMesh().VertexCount())
	assert.NotZero(t, a.ShadowMesh().VertexCount())
}

func TestNewArrow_LoadFailuresDegrade(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"missing", map[string]string{}},
		{"corrupt", map[string]string{"arrow.obj": "v 0 0 0\nf 1 2 9\n", "arrow_shadow.obj": "f x\n"}},
		{"empty", map[string]string{"arrow.obj": "", "arrow_shadow.obj": "# nothing\n"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, gpu := newTestArrow(t, tt.files)

			arrowOK, shadowOK := a.Loaded()
			assert.False(t, arrowOK)
			assert.False(t, shadowOK)

			assert.NotPanics(t, func() {
				a.Render(gpu, gpu, tiltedScreen(18), true)
			})
			assert.Empty(t, gpu.draws)
			assert.Zero(t, gpu.uploads)
		})
	}
}

type unreadableStream struct{ size uint64 }

func (s unreadableStream) Pos() uint64           { return 0 }
func (s unreadableStream) Size() uint64          { return s.size }
func (s unreadableStream) Read(dst []byte) error { return errors.New("device not ready") }

type unreadableLookup struct{}

func (unreadableLookup) Open(name string) (loader.ResourceStream, error) {
	return unreadableStream{size: 128}, nil
}

func TestNewArrow_StreamErrorsDegrade(t *testing.T) {
	gpu := &fakeGPU{depth: common.DepthZeroToOne}
	l := loader.NewLoader(loader.BackendTypeOBJ, loader.WithLookup(unreadableLookup{}))

	var a Arrow
	require.NotPanics(t, func() { a = NewArrow(gpu, WithLoader(l)) })

	arrowOK, shadowOK := a.Loaded()
	assert.False(t, arrowOK)
	assert.False(t, shadowOK)

	a.Render(gpu, gpu, tiltedScreen(18), true)
	assert.Empty(t, gpu.draws)
}

func TestNewArrow_ShadowWithoutTexCoords(t *testing.T) {
	a, gpu := newTestArrow(t, map[string]string{"arrow.obj": quadOBJ, "arrow_shadow.obj": quadOBJ})

	_, shadowOK := a.Loaded()
	assert.True(t, shadowOK)
	assert.Zero(t, a.ShadowMesh().VertexCount())

	a.Render(gpu, gpu, tiltedScreen(18), true)
	assert.Equal(t, []string{string(renderer.ProgramArrow3d)}, gpu.programs(), "shadow and outline are empty draws")
}

func TestNewArrow_Options(t *testing.T) {
	a, _ := newTestArrow(t,
		map[string]string{"custom.obj": quadOBJ, "custom_shadow.obj": shadowOBJ},
		WithMeshNames("custom.obj", "custom_shadow.obj"),
	)
	arrowOK, shadowOK := a.Loaded()
	assert.True(t, arrowOK)
	assert.True(t, shadowOK)

	assert.Panics(t, func() { NewArrow(nil) })
}

func TestRender_PassGating(t *testing.T) {
	tests := []struct {
		name        string
		perspective bool
		routing     bool
		programs    []renderer.ProgramID
		meshes      []string
	}{
		{"flat", false, false,
			[]renderer.ProgramID{renderer.ProgramArrow3d},
			[]string{"arrow3d"}},
		{"flat routing", false, true,
			[]renderer.ProgramID{renderer.ProgramArrow3dOutline, renderer.ProgramArrow3d},
			[]string{"arrow3d_shadow", "arrow3d"}},
		{"perspective", true, false,
			[]renderer.ProgramID{renderer.ProgramArrow3dShadow, renderer.ProgramArrow3d},
			[]string{"arrow3d_shadow", "arrow3d"}},
		{"perspective routing", true, true,
			[]renderer.ProgramID{renderer.ProgramArrow3dShadow, renderer.ProgramArrow3dOutline, renderer.ProgramArrow3d},
			[]string{"arrow3d_shadow", "arrow3d_shadow", "arrow3d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, gpu := validArrow(t)
			screen := flatScreen()
			if tt.perspective {
				screen = tiltedScreen(18)
			}

			a.Render(gpu, gpu, screen, tt.routing)

			require.Len(t, gpu.draws, len(tt.programs))
			for i, d := range gpu.draws {
				assert.Equal(t, string(tt.programs[i]), d.program, "draw %d", i)
				assert.Equal(t, tt.meshes[i], d.mesh, "draw %d", i)
				assert.True(t, d.state.DepthTest, "draw %d", i)
			}
		})
	}
}

func TestRender_PassParams(t *testing.T) {
	palette := DefaultPalette()
	a, gpu := validArrow(t, WithVisualScale(1.5), WithPalette(palette))
	a.SetPosition(common.PointD{X: 1e-5, Y: 2e-5})
	a.SetAzimuth(0.4)
	screen := tiltedScreen(19)

	a.Render(gpu, gpu, screen, true)
	require.Len(t, gpu.draws, 3)

	p := a.Placement()
	depth := common.DepthZeroToOne
	want := []struct {
		transform mgl32.Mat4
		color     common.ColorName
	}{
		{CalculateTransform(p, screen, ShadowDepthBias, OutlineScale, depth, 1.5), ColorShadow},
		{CalculateTransform(p, screen, 0, OutlineScale, depth, 1.5), ColorOutline},
		{CalculateTransform(p, screen, 0, 1, depth, 1.5), ColorArrow},
	}
	for i, w := range want {
		c, ok := palette.Color(w.color)
		require.True(t, ok)
		assert.Equal(t, w.transform, gpu.draws[i].params.Transform, "draw %d", i)
		assert.Equal(t, c.Vec4(), gpu.draws[i].params.Color, "draw %d", i)
	}

	// without routing the shadow keeps its natural size
	gpu.draws = nil
	a.Render(gpu, gpu, screen, false)
	require.Len(t, gpu.draws, 2)
	assert.Equal(t, CalculateTransform(p, screen, ShadowDepthBias, 1, depth, 1.5), gpu.draws[0].params.Transform)
}

func TestRender_ObsoleteColor(t *testing.T) {
	a, gpu := validArrow(t)
	a.SetPositionObsolete(true)
	a.Render(gpu, gpu, flatScreen(), false)

	require.Len(t, gpu.draws, 1)
	obsolete, _ := DefaultPalette().Color(ColorObsolete)
	regular, _ := DefaultPalette().Color(ColorArrow)
	require.NotEqual(t, obsolete, regular)
	assert.Equal(t, obsolete.Vec4(), gpu.draws[0].params.Color)

	a.SetPositionObsolete(false)
	a.Render(gpu, gpu, flatScreen(), false)
	assert.Equal(t, regular.Vec4(), gpu.draws[1].params.Color)
}

func TestRender_PaletteFallback(t *testing.T) {
	palette := common.NewPalette(nil)
	a, gpu := validArrow(t, WithPalette(palette))
	a.Render(gpu, gpu, flatScreen(), false)

	require.Len(t, gpu.draws, 1)
	assert.Equal(t, palette.Fallback.Vec4(), gpu.draws[0].params.Color)
}

type namedTexture string

func (n namedTexture) Label() string { return string(n) }

func TestSetters(t *testing.T) {
	a, gpu := validArrow(t)

	a.SetPosition(common.PointD{X: 1, Y: 2})
	a.SetAzimuth(3)
	a.SetPositionObsolete(true)
	a.SetMeshOffset(mgl32.Vec3{4, 5, 6})
	a.SetMeshRotation(mgl32.Vec3{0.1, 0.2, 0.3})
	a.SetMeshScale(mgl32.Vec3{2, 2, 2})
	a.SetTexture(namedTexture("symbols"))

	assert.Equal(t, Placement{
		Position:   common.PointD{X: 1, Y: 2},
		Azimuth:    3,
		Obsolete:   true,
		MeshOffset: mgl32.Vec3{4, 5, 6},
		MeshEuler:  mgl32.Vec3{0.1, 0.2, 0.3},
		MeshScale:  mgl32.Vec3{2, 2, 2},
	}, a.Placement())

	a.Render(gpu, gpu, view.NewScreen(view.WithViewport(100, 100)), false)
	require.Len(t, gpu.draws, 1)
	assert.Equal(t, namedTexture("symbols"), gpu.draws[0].state.ColorTexture)

	a.Release()
	a.Render(gpu, gpu, view.NewScreen(view.WithViewport(100, 100)), false)
	assert.Equal(t, 2, gpu.uploads, "released meshes upload again on the next draw")
}
