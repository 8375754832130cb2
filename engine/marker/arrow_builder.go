package marker

import (
	"github.com/Carmen-Shannon/oxy-arrow/common"
	"github.com/Carmen-Shannon/oxy-arrow/engine/loader"
	"github.com/rs/zerolog"
)

// ArrowBuilderOption is a functional option applied to an arrow during construction via NewArrow.
type ArrowBuilderOption func(*arrow)

// WithLoader sets the mesh loader. Defaults to an OBJ loader over the embedded assets.
//
// Parameters:
//   - l: the loader to read meshes with
//
// Returns:
//   - ArrowBuilderOption: a function that sets the loader
func WithLoader(l loader.Loader) ArrowBuilderOption {
	return func(a *arrow) {
		a.loader = l
	}
}

// WithPalette sets the palette the pass colors are resolved from. Defaults to DefaultPalette.
//
// Parameters:
//   - palette: the palette
//
// Returns:
//   - ArrowBuilderOption: a function that sets the palette
func WithPalette(palette common.Palette) ArrowBuilderOption {
	return func(a *arrow) {
		a.palette = palette
	}
}

// WithVisualScale sets the display density multiplier. Non-positive values are ignored.
//
// Parameters:
//   - scale: the visual scale
//
// Returns:
//   - ArrowBuilderOption: a function that sets the visual scale
func WithVisualScale(scale float64) ArrowBuilderOption {
	return func(a *arrow) {
		if scale > 0 {
			a.visualScale = scale
		}
	}
}

// WithMeshNames overrides the resource names of the arrow and shadow meshes.
// Empty names keep the defaults.
//
// Parameters:
//   - arrowMesh: the arrow mesh resource name
//   - shadowMesh: the shadow mesh resource name
//
// Returns:
//   - ArrowBuilderOption: a function that sets the mesh names
func WithMeshNames(arrowMesh, shadowMesh string) ArrowBuilderOption {
	return func(a *arrow) {
		a.arrowMeshName = common.Coalesce(arrowMesh, a.arrowMeshName)
		a.shadowMeshName = common.Coalesce(shadowMesh, a.shadowMeshName)
	}
}

// WithLogger sets the logger for load failures and draw errors.
//
// Parameters:
//   - logger: the zerolog.Logger to use
//
// Returns:
//   - ArrowBuilderOption: a function that sets the logger
func WithLogger(logger zerolog.Logger) ArrowBuilderOption {
	return func(a *arrow) {
		a.logger = logger.With().Str("component", "arrow3d").Logger()
	}
}
