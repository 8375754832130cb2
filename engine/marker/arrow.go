package marker

import (
	"time"

	"github.com/Carmen-Shannon/oxy-arrow/assets"
	"github.com/Carmen-Shannon/oxy-arrow/common"
	"github.com/Carmen-Shannon/oxy-arrow/engine/loader"
	"github.com/Carmen-Shannon/oxy-arrow/engine/renderer"
	"github.com/Carmen-Shannon/oxy-arrow/engine/view"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
)

type arrow struct {
	arrowMesh  renderer.MeshObject
	shadowMesh renderer.MeshObject
	state      renderer.RenderState
	placement  Placement

	loader          loader.Loader
	palette         common.Palette
	visualScale     float64
	arrowMeshName   string
	shadowMeshName  string
	logger          zerolog.Logger
	frameLogger     zerolog.Logger // sampled, for errors raised every frame
	arrowLoaded     bool
	shadowLoaded    bool
	paletteWarnings map[common.ColorName]bool
}

// Arrow is the directional 3D marker that shows the user's position and heading on the map.
//
// The arrow owns two mesh objects: the arrow itself and a flat shadow that doubles as the
// outline silhouette while routing. Every method must be called from the render thread.
type Arrow interface {
	// SetPosition moves the arrow.
	//
	// Parameters:
	//   - position: the map position in mercator units
	SetPosition(position common.PointD)

	// SetAzimuth sets the heading of the arrow.
	//
	// Parameters:
	//   - azimuth: radians clockwise from north
	SetAzimuth(azimuth float64)

	// SetPositionObsolete switches between the regular and the obsolete arrow color.
	//
	// Parameters:
	//   - obsolete: true when the position fix is stale
	SetPositionObsolete(obsolete bool)

	// SetMeshOffset sets the offset applied to the mesh before scaling.
	//
	// Parameters:
	//   - offset: the offset in mesh units
	SetMeshOffset(offset mgl32.Vec3)

	// SetMeshRotation sets the mesh orientation override.
	//
	// Parameters:
	//   - eulerAngles: radians around x, y and z
	SetMeshRotation(eulerAngles mgl32.Vec3)

	// SetMeshScale sets the per-axis mesh scale override.
	//
	// Parameters:
	//   - scale: the scale factors
	SetMeshScale(scale mgl32.Vec3)

	// SetTexture sets the color texture bound while drawing.
	//
	// Parameters:
	//   - texture: the texture, or nil to unbind
	SetTexture(texture renderer.Texture)

	// Placement returns a copy of the current placement.
	//
	// Returns:
	//   - Placement: the placement
	Placement() Placement

	// Loaded reports which meshes loaded successfully at construction.
	//
	// Returns:
	//   - arrowMesh: true if the arrow mesh loaded
	//   - shadowMesh: true if the shadow mesh loaded
	Loaded() (arrowMesh, shadowMesh bool)

	// ArrowMesh returns the mesh object of the arrow.
	//
	// Returns:
	//   - renderer.MeshObject: the arrow mesh
	ArrowMesh() renderer.MeshObject

	// ShadowMesh returns the mesh object shared by the shadow and outline passes.
	//
	// Returns:
	//   - renderer.MeshObject: the shadow mesh
	ShadowMesh() renderer.MeshObject

	// Render draws the arrow: a shadow on tilted screens, an outline while routing, then
	// the arrow itself. Draw errors are logged.
	//
	// Parameters:
	//   - ctx: the graphics context of the frame
	//   - programs: the program manager of the frame
	//   - screen: the current view
	//   - routing: true while a route is followed
	Render(ctx renderer.GraphicsContext, programs renderer.ProgramManager, screen view.Screen, routing bool)

	// Release releases the GPU resources of both meshes.
	Release()
}

var _ Arrow = &arrow{}

// NewArrow creates an arrow and synchronously loads its meshes. Load failures are logged
// and leave the affected mesh empty, which renders as a no-op.
//
// Parameters:
//   - ctx: the graphics context the mesh objects are created on
//   - options: functional options to configure the arrow
//
// Returns:
//   - Arrow: the newly created arrow
func NewArrow(ctx renderer.GraphicsContext, options ...ArrowBuilderOption) Arrow {
	if ctx == nil {
		panic("marker: nil graphics context")
	}
	a := &arrow{
		placement:       DefaultPlacement(),
		state:           renderer.RenderState{DepthTest: true},
		palette:         DefaultPalette(),
		visualScale:     1,
		arrowMeshName:   assets.ArrowMesh,
		shadowMeshName:  assets.ArrowShadowMesh,
		logger:          zerolog.Nop(),
		paletteWarnings: make(map[common.ColorName]bool),
	}
	for _, option := range options {
		option(a)
	}
	if a.loader == nil {
		a.loader = loader.NewLoader(loader.BackendTypeOBJ, loader.WithLogger(a.logger))
	}
	a.frameLogger = a.logger.Sample(&zerolog.BurstSampler{Burst: 1, Period: time.Second})

	a.arrowMesh = ctx.NewMeshObject("arrow3d")
	a.shadowMesh = ctx.NewMeshObject("arrow3d_shadow")
	a.arrowLoaded = a.loadArrowMesh()
	a.shadowLoaded = a.loadShadowMesh()

	a.logger.Debug().
		Bool("arrow", a.arrowLoaded).
		Bool("shadow", a.shadowLoaded).
		Uint32("arrow_vertices", a.arrowMesh.VertexCount()).
		Uint32("shadow_vertices", a.shadowMesh.VertexCount()).
		Msg("arrow meshes loaded")
	return a
}

func (a *arrow) loadArrowMesh() bool {
	loaded := false
	a.loader.LoadMesh(a.arrowMeshName, func(positions, normals, _ []float32) {
		if len(positions) == 0 {
			a.logger.Error().Str("mesh", a.arrowMeshName).Msg("mesh has no positions")
			return
		}
		a.arrowMesh.SetBuffer(verticesBuffer, positions, componentsInVertex)
		a.arrowMesh.SetAttribute("a_pos", verticesBuffer, 0, componentsInVertex)

		if len(normals) == 0 {
			normals = common.GenerateNormalsForTriangles(positions)
		}
		a.arrowMesh.SetBuffer(normalsBuffer, normals, componentsInNormal)
		a.arrowMesh.SetAttribute("a_normal", normalsBuffer, 0, componentsInNormal)
		loaded = true
	}, func(reason string) {
		a.logger.Error().Str("mesh", a.arrowMeshName).Msg(reason)
	})
	return loaded
}

func (a *arrow) loadShadowMesh() bool {
	loaded := false
	a.loader.LoadMesh(a.shadowMeshName, func(positions, _, texCoords []float32) {
		if len(positions) == 0 {
			a.logger.Error().Str("mesh", a.shadowMeshName).Msg("mesh has no positions")
			return
		}
		a.shadowMesh.SetBuffer(verticesBuffer, positions, componentsInVertex)
		a.shadowMesh.SetAttribute("a_pos", verticesBuffer, 0, componentsInVertex)

		if len(texCoords) == 0 {
			a.logger.Warn().Str("mesh", a.shadowMeshName).Msg("mesh has no texture coordinates, shadow disabled")
		}
		a.shadowMesh.SetBuffer(texCoordBuffer, texCoords, componentsInTexCoord)
		a.shadowMesh.SetAttribute("a_texCoords", texCoordBuffer, 0, componentsInTexCoord)
		loaded = true
	}, func(reason string) {
		a.logger.Error().Str("mesh", a.shadowMeshName).Msg(reason)
	})
	return loaded
}

func (a *arrow) SetPosition(position common.PointD) {
	a.placement.Position = position
}

func (a *arrow) SetAzimuth(azimuth float64) {
	a.placement.Azimuth = azimuth
}

func (a *arrow) SetPositionObsolete(obsolete bool) {
	a.placement.Obsolete = obsolete
}

func (a *arrow) SetMeshOffset(offset mgl32.Vec3) {
	a.placement.MeshOffset = offset
}

func (a *arrow) SetMeshRotation(eulerAngles mgl32.Vec3) {
	a.placement.MeshEuler = eulerAngles
}

func (a *arrow) SetMeshScale(scale mgl32.Vec3) {
	a.placement.MeshScale = scale
}

func (a *arrow) SetTexture(texture renderer.Texture) {
	a.state.ColorTexture = texture
}

func (a *arrow) Placement() Placement {
	return a.placement
}

func (a *arrow) Loaded() (arrowMesh, shadowMesh bool) {
	return a.arrowLoaded, a.shadowLoaded
}

func (a *arrow) ArrowMesh() renderer.MeshObject {
	return a.arrowMesh
}

func (a *arrow) ShadowMesh() renderer.MeshObject {
	return a.shadowMesh
}

func (a *arrow) Render(ctx renderer.GraphicsContext, programs renderer.ProgramManager, screen view.Screen, routing bool) {
	depth := ctx.DepthConvention()
	setter := programs.ParamsSetter()

	for _, pass := range a.passes(screen.Perspective(), routing) {
		params := renderer.Arrow3dProgramParams{
			Transform: CalculateTransform(a.placement, screen, pass.dz, pass.scaleFactor, depth, a.visualScale),
			Color:     a.color(pass.color).Vec4(),
		}
		if err := pass.mesh.Render(programs.Program(pass.program), a.state, setter, params); err != nil {
			a.frameLogger.Error().Err(err).Str("program", string(pass.program)).Msg("arrow pass failed")
		}
	}
}

func (a *arrow) color(name common.ColorName) common.Color {
	c, ok := a.palette.Color(name)
	if !ok && !a.paletteWarnings[name] {
		a.logger.Warn().Str("color", string(name)).Stringer("fallback", c).Msg("palette has no entry")
		a.paletteWarnings[name] = true
	}
	return c
}

func (a *arrow) Release() {
	a.arrowMesh.Release()
	a.shadowMesh.Release()
}
