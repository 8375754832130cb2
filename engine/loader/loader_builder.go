package loader

import (
	"github.com/rs/zerolog"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithLookup is an option builder that sets where the Loader reads resources from.
//
// Parameters:
//   - lookup: the resource lookup
//
// Returns:
//   - LoaderBuilderOption: a function that applies the lookup option to a loader
func WithLookup(lookup ResourceLookup) LoaderBuilderOption {
	return func(l *loader) {
		if lookup != nil {
			l.lookup = lookup
		}
	}
}

// WithLogger is an option builder that sets the Loader's logger.
//
// Parameters:
//   - logger: the zerolog logger
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger zerolog.Logger) LoaderBuilderOption {
	return func(l *loader) {
		l.logger = logger.With().Str("component", "loader").Logger()
	}
}

// WithWorkers is an option builder that sets how many meshes Validate parses in parallel.
// Values <= 0 are ignored.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker option to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.workers = n
		}
	}
}
