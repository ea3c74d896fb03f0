package scan

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/legalscan/pkg/coordinate"
	"github.com/matzehuels/legalscan/pkg/errors"
	"github.com/matzehuels/legalscan/pkg/licenses"
	"github.com/matzehuels/legalscan/pkg/repository"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultMaxParentDepth bounds how many parent descriptors are followed
	// when looking for declared licenses.
	DefaultMaxParentDepth = 5

	// DefaultMaxEmbeddedSize caps the bytes buffered for one embedded
	// archive. Larger archives keep only their coordinate.
	DefaultMaxEmbeddedSize = 64 << 20
)

// =============================================================================
// Collaborators
// =============================================================================

// Index searches a package index by artifact name and version.
// [maven.Client] implements it.
type Index interface {
	Search(ctx context.Context, name, version, classifier string) ([]coordinate.Coordinate, error)
}

// TextFetcher retrieves the license text a descriptor points at.
// [integrations.TextFetcher] implements it.
type TextFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// Suggester names the SPDX license an unknown text resembles.
// [licenses.Suggester] implements it.
type Suggester interface {
	Suggest(text string) (name string, confidence float64, ok bool, err error)
}

// Options configures an [Aggregator].
type Options struct {
	// Registry is the known-license registry. It grows with ad-hoc
	// licenses during the run. Required.
	Registry *licenses.Registry

	// Resolver turns coordinates into local files. Nil disables
	// resolution of sources, parents and dependencies.
	Resolver repository.Resolver

	// Index is searched for archives without a descriptor. Nil means
	// offline: such archives go to manual review.
	Index Index

	// Fetcher retrieves license URLs declared by descriptors. Nil leaves
	// unmatched declared licenses unclassified.
	Fetcher TextFetcher

	// Suggester adds SPDX hints to unknown license texts. Optional.
	Suggester Suggester

	MaxParentDepth     int
	MaxEmbeddedSize    int64
	ClosestMaxDistance int

	Logger *log.Logger
}

// Validate checks required fields and fills in defaults.
func (o *Options) Validate() error {
	if o.Registry == nil {
		return errors.New(errors.ErrCodeInvalidInput, "license registry is required")
	}
	if o.MaxParentDepth <= 0 {
		o.MaxParentDepth = DefaultMaxParentDepth
	}
	if o.MaxEmbeddedSize <= 0 {
		o.MaxEmbeddedSize = DefaultMaxEmbeddedSize
	}
	if o.ClosestMaxDistance <= 0 {
		o.ClosestMaxDistance = licenses.DefaultMaxDistance
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}
