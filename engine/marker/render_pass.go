package marker

import (
	"github.com/Carmen-Shannon/oxy-arrow/common"
	"github.com/Carmen-Shannon/oxy-arrow/engine/renderer"
)

// renderPass is one draw of an arrow frame. Passes are built per Render call and never stored.
type renderPass struct {
	mesh        renderer.MeshObject
	program     renderer.ProgramID
	color       common.ColorName
	dz          float64
	scaleFactor float64
}

// passes lists the draws of one frame back to front: the shadow on tilted screens, the
// outline halo while routing, then the arrow itself.
func (a *arrow) passes(perspective, routing bool) []renderPass {
	passes := make([]renderPass, 0, 3)

	if perspective {
		scaleFactor := 1.0
		if routing {
			scaleFactor = OutlineScale
		}
		passes = append(passes, renderPass{
			mesh:        a.shadowMesh,
			program:     renderer.ProgramArrow3dShadow,
			color:       ColorShadow,
			dz:          ShadowDepthBias,
			scaleFactor: scaleFactor,
		})
	}

	if routing {
		passes = append(passes, renderPass{
			mesh:        a.shadowMesh,
			program:     renderer.ProgramArrow3dOutline,
			color:       ColorOutline,
			scaleFactor: OutlineScale,
		})
	}

	color := ColorArrow
	if a.placement.Obsolete {
		color = ColorObsolete
	}
	passes = append(passes, renderPass{
		mesh:        a.arrowMesh,
		program:     renderer.ProgramArrow3d,
		color:       color,
		scaleFactor: 1,
	})
	return passes
}
