// Package descriptor parses Maven build descriptors (pom.xml).
//
// Only the parts needed to locate legal information are modelled: the
// project identity, its parent, declared licenses, SCM pointers and
// dependencies. Property references of the form ${name} are expanded
// from the descriptor's own properties and project/parent fields.
package descriptor

import (
	"encoding/xml"
	"os"
	"regexp"
	"strings"

	"github.com/matzehuels/legalscan/pkg/coordinate"
	"github.com/matzehuels/legalscan/pkg/errors"
)

// FileName is the name descriptors are stored under inside archives.
const FileName = "pom.xml"

// Descriptor is a parsed pom.xml.
type Descriptor struct {
	GroupID      string       `xml:"groupId"`
	ArtifactID   string       `xml:"artifactId"`
	Version      string       `xml:"version"`
	Packaging    string       `xml:"packaging"`
	Name         string       `xml:"name"`
	URL          string       `xml:"url"`
	Parent       *Parent      `xml:"parent"`
	Licenses     []License    `xml:"licenses>license"`
	SCM          *SCM         `xml:"scm"`
	Dependencies []Dependency `xml:"dependencies>dependency"`
	Properties   properties   `xml:"properties"`
}

// Parent references the descriptor this one inherits from.
type Parent struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
}

// License is a license declared by a descriptor.
type License struct {
	Name string `xml:"name"`
	URL  string `xml:"url"`
}

// SCM holds the source control pointers of a project.
type SCM struct {
	Connection          string `xml:"connection"`
	DeveloperConnection string `xml:"developerConnection"`
	URL                 string `xml:"url"`
}

// Dependency is one declared dependency.
type Dependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Type       string `xml:"type"`
	Classifier string `xml:"classifier"`
	Scope      string `xml:"scope"`
	Optional   string `xml:"optional"`
}

type properties struct {
	Entries []property `xml:",any"`
}

type property struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// Parse decodes a descriptor and expands property references.
func Parse(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := xml.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDescriptorParse, err, "parse %s", FileName)
	}
	d.trim()
	d.expand()
	return &d, nil
}

// ParseFile reads and parses the descriptor at path.
func ParseFile(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDescriptorParse, err, "read %s", path)
	}
	return Parse(data)
}

// EffectiveGroup returns the group id, inherited from the parent when the
// descriptor does not declare one.
func (d *Descriptor) EffectiveGroup() string {
	if d.GroupID == "" && d.Parent != nil {
		return d.Parent.GroupID
	}
	return d.GroupID
}

// EffectiveVersion returns the version, inherited from the parent when
// the descriptor does not declare one.
func (d *Descriptor) EffectiveVersion() string {
	if d.Version == "" && d.Parent != nil {
		return d.Parent.Version
	}
	return d.Version
}

// Coordinate returns the coordinate of the project's main artifact.
func (d *Descriptor) Coordinate() coordinate.Coordinate {
	typ := coordinate.TypeJar
	if d.Packaging == coordinate.TypePOM {
		typ = coordinate.TypePOM
	}
	return coordinate.New(d.EffectiveGroup(), d.ArtifactID, d.EffectiveVersion()).WithType(typ)
}

// ParentCoordinate returns the coordinate of the parent descriptor.
func (d *Descriptor) ParentCoordinate() (coordinate.Coordinate, bool) {
	if d.Parent == nil || d.Parent.ArtifactID == "" {
		return coordinate.Coordinate{}, false
	}
	c := coordinate.New(d.Parent.GroupID, d.Parent.ArtifactID, d.Parent.Version)
	return c.WithType(coordinate.TypePOM), true
}

// SCMConnection returns the developer connection, else the connection.
func (d *Descriptor) SCMConnection() string {
	if d.SCM == nil {
		return ""
	}
	if d.SCM.DeveloperConnection != "" {
		return d.SCM.DeveloperConnection
	}
	return d.SCM.Connection
}

// LookupDependency finds the first dependency with artifactID.
func (d *Descriptor) LookupDependency(artifactID string) (Dependency, bool) {
	for _, dep := range d.Dependencies {
		if dep.ArtifactID == artifactID {
			return dep, true
		}
	}
	return Dependency{}, false
}

// Coordinate returns the dependency as a coordinate with the given version.
// An empty version keeps the declared one.
func (dep Dependency) Coordinate(version string) coordinate.Coordinate {
	if version == "" {
		version = dep.Version
	}
	c := coordinate.New(dep.GroupID, dep.ArtifactID, version)
	if dep.Type != "" {
		c = c.WithType(dep.Type)
	}
	if dep.Classifier != "" {
		c = c.WithClassifier(dep.Classifier)
	}
	return c
}

func (d *Descriptor) trim() {
	for _, s := range []*string{&d.GroupID, &d.ArtifactID, &d.Version, &d.Packaging, &d.Name, &d.URL} {
		*s = strings.TrimSpace(*s)
	}
	if d.Parent != nil {
		d.Parent.GroupID = strings.TrimSpace(d.Parent.GroupID)
		d.Parent.ArtifactID = strings.TrimSpace(d.Parent.ArtifactID)
		d.Parent.Version = strings.TrimSpace(d.Parent.Version)
	}
	for i := range d.Licenses {
		d.Licenses[i].Name = strings.TrimSpace(d.Licenses[i].Name)
		d.Licenses[i].URL = strings.TrimSpace(d.Licenses[i].URL)
	}
	if d.SCM != nil {
		d.SCM.Connection = strings.TrimSpace(d.SCM.Connection)
		d.SCM.DeveloperConnection = strings.TrimSpace(d.SCM.DeveloperConnection)
		d.SCM.URL = strings.TrimSpace(d.SCM.URL)
	}
	for i := range d.Dependencies {
		dep := &d.Dependencies[i]
		for _, s := range []*string{&dep.GroupID, &dep.ArtifactID, &dep.Version, &dep.Type, &dep.Classifier, &dep.Scope, &dep.Optional} {
			*s = strings.TrimSpace(*s)
		}
	}
}

var propertyRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// expand resolves ${...} references. Unknown references are left as is.
// The project identity is expanded first so that project.* references
// elsewhere see the expanded values.
func (d *Descriptor) expand() {
	props := make(map[string]string, len(d.Properties.Entries)+6)
	for _, p := range d.Properties.Entries {
		props[p.XMLName.Local] = strings.TrimSpace(p.Value)
	}
	if d.Parent != nil {
		props["project.parent.groupId"] = d.Parent.GroupID
		props["project.parent.version"] = d.Parent.Version
		props["parent.groupId"] = d.Parent.GroupID
		props["parent.version"] = d.Parent.Version
	}

	sub := func(s string) string {
		// Two passes cover properties defined in terms of other properties.
		for range 2 {
			if !strings.Contains(s, "${") {
				return s
			}
			s = propertyRef.ReplaceAllStringFunc(s, func(ref string) string {
				if v, ok := props[ref[2:len(ref)-1]]; ok {
					return v
				}
				return ref
			})
		}
		return s
	}

	d.GroupID = sub(d.GroupID)
	d.ArtifactID = sub(d.ArtifactID)
	d.Version = sub(d.Version)
	props["project.groupId"] = d.EffectiveGroup()
	props["project.artifactId"] = d.ArtifactID
	props["project.version"] = d.EffectiveVersion()
	props["pom.version"] = d.EffectiveVersion()

	for i := range d.Licenses {
		d.Licenses[i].Name = sub(d.Licenses[i].Name)
		d.Licenses[i].URL = sub(d.Licenses[i].URL)
	}
	if d.SCM != nil {
		d.SCM.Connection = sub(d.SCM.Connection)
		d.SCM.DeveloperConnection = sub(d.SCM.DeveloperConnection)
		d.SCM.URL = sub(d.SCM.URL)
	}
	for i := range d.Dependencies {
		dep := &d.Dependencies[i]
		for _, s := range []*string{&dep.GroupID, &dep.ArtifactID, &dep.Version, &dep.Type, &dep.Classifier} {
			*s = sub(*s)
		}
	}
}

// Resolved reports whether s carries no unexpanded property reference.
func Resolved(s string) bool {
	return s != "" && !strings.Contains(s, "${")
}
