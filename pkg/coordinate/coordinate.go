// Package coordinate models artifact coordinates and the heuristics that
// derive them from bare archive file names.
//
// A [Coordinate] identifies a resolvable artifact by group, name, version,
// classifier and type. Coordinates come either from a parsed build
// descriptor or from [Infer], which guesses name, version and classifier
// from a file name such as "commons-io-2.4-sources".
//
// [ProjectKey] groups related archives under one upstream project name so
// that notices from "commons-io" and "commons-lang" land in one block.
package coordinate

import (
	"fmt"
	"strings"

	"github.com/package-url/packageurl-go"

	"github.com/matzehuels/legalscan/pkg/errors"
)

// Well-known classifiers and types.
const (
	ClassifierSources = "sources"
	ClassifierJavadoc = "javadoc"

	TypeJar = "jar"
	TypePOM = "pom"
)

// Coordinate identifies an artifact. The zero value is not resolvable.
type Coordinate struct {
	Group      string `json:"group,omitempty" yaml:"group,omitempty"`
	Name       string `json:"name" yaml:"name"`
	Version    string `json:"version,omitempty" yaml:"version,omitempty"`
	Classifier string `json:"classifier,omitempty" yaml:"classifier,omitempty"`
	Type       string `json:"type,omitempty" yaml:"type,omitempty"`
}

// New returns a jar coordinate without classifier.
func New(group, name, version string) Coordinate {
	return Coordinate{Group: group, Name: name, Version: version, Type: TypeJar}
}

// Parse reads a coordinate in one of the forms
// "group:name:version", "group:name:type:version" or
// "group:name:type:classifier:version".
func Parse(s string) (Coordinate, error) {
	parts := strings.Split(s, ":")
	var c Coordinate
	switch len(parts) {
	case 3:
		c = Coordinate{Group: parts[0], Name: parts[1], Version: parts[2], Type: TypeJar}
	case 4:
		c = Coordinate{Group: parts[0], Name: parts[1], Type: parts[2], Version: parts[3]}
	case 5:
		c = Coordinate{Group: parts[0], Name: parts[1], Type: parts[2], Classifier: parts[3], Version: parts[4]}
	default:
		return Coordinate{}, errors.New(errors.ErrCodeInvalidCoordinate,
			"invalid coordinate %q (expected group:name[:type[:classifier]]:version)", s)
	}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// String renders the coordinate as group:name:type[:classifier]:version.
func (c Coordinate) String() string {
	var b strings.Builder
	b.WriteString(c.Group)
	b.WriteByte(':')
	b.WriteString(c.Name)
	b.WriteByte(':')
	b.WriteString(c.typeOrJar())
	if c.Classifier != "" {
		b.WriteByte(':')
		b.WriteString(c.Classifier)
	}
	b.WriteByte(':')
	b.WriteString(c.Version)
	return b.String()
}

// FileName returns the repository file name, e.g. "guava-32.1.3-jre.jar".
func (c Coordinate) FileName() string {
	name := c.Name + "-" + c.Version
	if c.Classifier != "" {
		name += "-" + c.Classifier
	}
	return name + "." + c.typeOrJar()
}

// WithClassifier returns a copy of c using classifier.
func (c Coordinate) WithClassifier(classifier string) Coordinate {
	c.Classifier = classifier
	return c
}

// WithType returns a copy of c using type t and no classifier when t is a pom.
func (c Coordinate) WithType(t string) Coordinate {
	c.Type = t
	if t == TypePOM {
		c.Classifier = ""
	}
	return c
}

// IsSources reports whether c points at a sources archive.
func (c Coordinate) IsSources() bool { return c.Classifier == ClassifierSources }

// HasVersion reports whether c carries a version.
func (c Coordinate) HasVersion() bool { return c.Version != "" }

// Project returns the project grouping key for c's name.
func (c Coordinate) Project() string { return ProjectKey(c.Name) }

// PURL renders c as a package URL (pkg:maven/group/name@version).
func (c Coordinate) PURL() string {
	var q packageurl.Qualifiers
	if c.Classifier != "" {
		q = append(q, packageurl.Qualifier{Key: "classifier", Value: c.Classifier})
	}
	if t := c.typeOrJar(); t != TypeJar {
		q = append(q, packageurl.Qualifier{Key: "type", Value: t})
	}
	return packageurl.NewPackageURL(packageurl.TypeMaven, c.Group, c.Name, c.Version, q, "").ToString()
}

// Validate checks every segment is safe to use as a repository path component.
func (c Coordinate) Validate() error {
	if c.Name == "" {
		return errors.New(errors.ErrCodeInvalidCoordinate, "coordinate name cannot be empty")
	}
	for _, seg := range []struct{ field, value string }{
		{"group", c.Group},
		{"name", c.Name},
		{"version", c.Version},
		{"classifier", c.Classifier},
		{"type", c.Type},
	} {
		if seg.value == "" {
			continue
		}
		if err := errors.ValidateSegment(seg.value); err != nil {
			return fmt.Errorf("coordinate %s: %w", seg.field, err)
		}
	}
	return nil
}

func (c Coordinate) typeOrJar() string {
	if c.Type == "" {
		return TypeJar
	}
	return c.Type
}
