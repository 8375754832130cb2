package renderer

import (
	_ "embed"
	"fmt"

	"github.com/Carmen-Shannon/oxy-arrow/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-arrow/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/arrow3d.wgsl
var arrow3dSource string

//go:embed assets/arrow3d_shadow.wgsl
var arrow3dShadowSource string

//go:embed assets/arrow3d_outline.wgsl
var arrow3dOutlineSource string

const noDepthSuffix = "_no_depth"

// annotationArgArrow3dUniform is the struct key of Arrow3dUniformSource in program sources.
const annotationArgArrow3dUniform shader.AnnotationArg = "arrow3d_uniform"

// processProgram expands the annotations of a program source and checks that it declares
// exactly the binding the uniform ring provides: a uniform at group 0, binding 0.
func processProgram(id ProgramID, source string) (string, error) {
	pp := shader.NewPreProcessor(map[shader.AnnotationArg]shader.Struct{
		annotationArgArrow3dUniform: {Source: Arrow3dUniformSource, Type: "Arrow3dUniform"},
	})
	out, err := pp.Process(source)
	if err != nil {
		return "", fmt.Errorf("program %s: %w", id, err)
	}

	decls := pp.Declarations()
	if len(decls) != 1 || *decls[0].Group != 0 || *decls[0].Binding != 0 || decls[0].Args[2] != annotationArgArrow3dUniform {
		return "", fmt.Errorf("program %s: %w: want one arrow3d_uniform binding at group 0 binding 0", id, ErrBindingLayout)
	}
	return out, nil
}

// NoDepthKey returns the key of the variant of a program that draws without depth testing.
//
// Parameters:
//   - key: the pipeline key of the depth-tested program
//
// Returns:
//   - string: the pipeline key of the variant
func NoDepthKey(key string) string {
	return key + noDepthSuffix
}

// ArrowPipelines builds the pipelines of the arrow programs, each with a depth-tested
// variant under its ProgramID and an untested variant under NoDepthKey.
// The returned pipelines are not yet registered with a Renderer. Panics if an embedded
// program source is malformed.
//
// Returns:
//   - []pipeline.Pipeline: the unregistered pipelines
func ArrowPipelines() []pipeline.Pipeline {
	pos := pipeline.VertexAttribute{Name: "a_pos", ShaderLocation: 0, Components: 3}
	normal := pipeline.VertexAttribute{Name: "a_normal", ShaderLocation: 1, Components: 3}
	texCoords := pipeline.VertexAttribute{Name: "a_texCoords", ShaderLocation: 1, Components: 2}

	programs := []struct {
		id         ProgramID
		source     string
		attrs      []pipeline.VertexAttribute
		depthWrite bool
	}{
		{ProgramArrow3d, arrow3dSource, []pipeline.VertexAttribute{pos, normal}, true},
		{ProgramArrow3dShadow, arrow3dShadowSource, []pipeline.VertexAttribute{pos, texCoords}, false},
		{ProgramArrow3dOutline, arrow3dOutlineSource, []pipeline.VertexAttribute{pos, texCoords}, false},
	}

	pipelines := make([]pipeline.Pipeline, 0, len(programs)*2)
	for _, prog := range programs {
		source, err := processProgram(prog.id, prog.source)
		if err != nil {
			panic(fmt.Sprintf("renderer: %v", err))
		}
		for _, depthTest := range []bool{true, false} {
			key := string(prog.id)
			if !depthTest {
				key = NoDepthKey(key)
			}
			pipelines = append(pipelines, pipeline.NewPipeline(key,
				pipeline.WithSource(source),
				pipeline.WithVertexAttributes(prog.attrs...),
				pipeline.WithDepthTestEnabled(depthTest),
				pipeline.WithDepthWriteEnabled(depthTest && prog.depthWrite),
				pipeline.WithDepthCompare(wgpu.CompareFunctionLessEqual),
				pipeline.WithBlendEnabled(true),
			))
		}
	}
	return pipelines
}
