// Package assets bundles the marker meshes into the binary.
package assets

import "embed"

// FS holds arrow.obj (the marker) and arrow_shadow.obj (the shadow and outline silhouette).
//
//go:embed *.obj
var FS embed.FS

const (
	ArrowMesh       = "arrow.obj"
	ArrowShadowMesh = "arrow_shadow.obj"
)
