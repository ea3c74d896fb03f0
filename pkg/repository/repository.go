// Package repository resolves artifact coordinates to local files.
//
// Artifacts live in the Maven repository layout:
//
//	<root>/org/apache/commons/commons-lang3/3.12.0/commons-lang3-3.12.0-sources.jar
//
// [Local] reads an existing repository such as ~/.m2/repository, [Remote]
// downloads missing artifacts from one or more mirrors into a local
// root, and [Chain] tries resolvers in order.
package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/matzehuels/legalscan/pkg/coordinate"
)

// DefaultRemoteURL is Maven Central.
const DefaultRemoteURL = "https://repo1.maven.org/maven2"

// ErrNotFound is returned when no resolver has the artifact.
var ErrNotFound = errors.New("artifact not found")

// Resolver turns a coordinate into a path on the local filesystem.
type Resolver interface {
	Resolve(ctx context.Context, c coordinate.Coordinate) (string, error)
}

// Layout returns the slash-separated repository path of c. c must be
// valid and versioned.
func Layout(c coordinate.Coordinate) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	if !c.HasVersion() {
		return "", fmt.Errorf("%w: %s has no version", ErrNotFound, c.Name)
	}
	group := strings.ReplaceAll(c.Group, ".", "/")
	return path.Join(group, c.Name, c.Version, c.FileName()), nil
}

// DefaultLocalRoot returns ~/.m2/repository.
func DefaultLocalRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".m2", "repository")
	}
	return filepath.Join(home, ".m2", "repository")
}

// Local resolves coordinates inside an existing repository directory.
type Local struct {
	root string
}

// NewLocal returns a resolver over root.
func NewLocal(root string) *Local { return &Local{root: root} }

// Root returns the repository directory.
func (l *Local) Root() string { return l.root }

// Path returns where c lives under the root, whether or not it exists.
func (l *Local) Path(c coordinate.Coordinate) (string, error) {
	rel, err := Layout(c)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.root, filepath.FromSlash(rel)), nil
}

func (l *Local) Resolve(_ context.Context, c coordinate.Coordinate) (string, error) {
	p, err := l.Path(c)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(p)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, c)
	}
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrNotFound, p)
	}
	return p, nil
}

// Chain tries each resolver in turn and returns the first success.
// ErrNotFound from one resolver moves on to the next; any other error is
// remembered and returned if nothing succeeds.
type Chain []Resolver

func (ch Chain) Resolve(ctx context.Context, c coordinate.Coordinate) (string, error) {
	var errs []error
	for _, r := range ch {
		p, err := r.Resolve(ctx, c)
		if err == nil {
			return p, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !errors.Is(err, ErrNotFound) {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return "", errors.Join(errs...)
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, c)
}
