package report

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"regexp"
	"strings"
	"time"

	spdx_common "github.com/spdx/tools-golang/spdx/common"
	spdx "github.com/spdx/tools-golang/spdx/v2_2"

	"github.com/matzehuels/legalscan/pkg/integrations"
	"github.com/matzehuels/legalscan/pkg/scan"
)

const (
	noAssertion      = "NOASSERTION"
	spdxCreator      = "legalscan"
	spdxNamespace    = "https://spdx.org/spdxdocs/legalscan-"
	licenseRefPrefix = "LicenseRef-"
)

// SPDXOptions names the generated document.
type SPDXOptions struct {
	// Name is the document and root package name.
	Name string
	// RunID makes the document namespace unique.
	RunID string
	// Created defaults to the current time.
	Created time.Time
}

// BuildSPDX converts res into an SPDX 2.2 document. The document
// describes a root package that contains one package per archive.
// Licenses with an SPDX identifier are referenced by it; all others
// become LicenseRef- entries carrying their extracted text.
func BuildSPDX(res *scan.Result, opts SPDXOptions) *spdx.Document {
	if opts.Created.IsZero() {
		opts.Created = time.Now()
	}
	doc := &spdx.Document{
		SPDXVersion:       "SPDX-2.2",
		DataLicense:       "CC0-1.0",
		SPDXIdentifier:    "SPDXRef-DOCUMENT",
		DocumentName:      opts.Name,
		DocumentNamespace: spdxNamespace + opts.RunID,
		CreationInfo: &spdx.CreationInfo{
			Creators: []spdx_common.Creator{{Creator: spdxCreator, CreatorType: "Tool"}},
			Created:  opts.Created.UTC().Format(time.RFC3339),
		},
		Packages:      make([]*spdx.Package, 0, len(res.Archives)+1),
		Relationships: make([]*spdx.Relationship, 0, len(res.Archives)+1),
		OtherLicenses: make([]*spdx.OtherLicense, 0),
	}

	root := newPackage("SPDXRef-Package-root", opts.Name)
	doc.Packages = append(doc.Packages, root)
	doc.Relationships = append(doc.Relationships, &spdx.Relationship{
		RefA:         spdx_common.DocElementID{ElementRefID: doc.SPDXIdentifier},
		RefB:         spdx_common.DocElementID{ElementRefID: root.PackageSPDXIdentifier},
		Relationship: "DESCRIBES",
	})

	seen := make(map[string]bool)
	for _, a := range res.Archives {
		name := a.Coordinate.Name
		if name == "" {
			name = a.Path
		}
		p := newPackage(packageID(a.Path), name)
		p.PackageVersion = a.Coordinate.Version
		if scm := integrations.NormalizeSCM(a.SCM); scm != "" {
			p.PackageDownloadLocation = scm
		}
		if a.Coordinate.Group != "" && a.Coordinate.Version != "" {
			p.PackageExternalReferences = []*spdx.PackageExternalReference{{
				Category: "PACKAGE-MANAGER",
				RefType:  "purl",
				Locator:  a.Coordinate.PURL(),
			}}
		}

		var terms []string
		for _, id := range a.Licenses {
			ref, other := spdxLicense(res, id)
			terms = append(terms, ref)
			if other != nil && !seen[ref] {
				seen[ref] = true
				doc.OtherLicenses = append(doc.OtherLicenses, other)
			}
		}
		if len(terms) > 0 {
			p.PackageLicenseConcluded = strings.Join(terms, " AND ")
			p.PackageLicenseDeclared = p.PackageLicenseConcluded
		}

		doc.Packages = append(doc.Packages, p)
		doc.Relationships = append(doc.Relationships, &spdx.Relationship{
			RefA:         spdx_common.DocElementID{ElementRefID: root.PackageSPDXIdentifier},
			RefB:         spdx_common.DocElementID{ElementRefID: p.PackageSPDXIdentifier},
			Relationship: "CONTAINS",
		})
	}
	return doc
}

// WriteSPDX writes the SPDX document for res as indented JSON.
func WriteSPDX(w io.Writer, res *scan.Result, opts SPDXOptions) error {
	buf, err := json.MarshalIndent(BuildSPDX(res, opts), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal SPDX document: %w", err)
	}
	_, err = w.Write(append(buf, '\n'))
	return err
}

func newPackage(id, name string) *spdx.Package {
	return &spdx.Package{
		PackageName:             name,
		PackageSPDXIdentifier:   spdx_common.ElementID(id),
		PackageDownloadLocation: noAssertion,
		PackageLicenseConcluded: noAssertion,
		PackageLicenseDeclared:  noAssertion,
		PackageCopyrightText:    noAssertion,
		FilesAnalyzed:           false,
	}
}

func packageID(archivePath string) string {
	h := fnv.New128a()
	h.Write([]byte(archivePath))
	return fmt.Sprintf("SPDXRef-Package-%x", h.Sum(nil))
}

var unsafeRef = regexp.MustCompile(`[^A-Za-z0-9.-]+`)

// spdxLicense returns the license expression term for id and, for
// licenses without an SPDX identifier, the extracted license to declare.
func spdxLicense(res *scan.Result, id string) (string, *spdx.OtherLicense) {
	if l, ok := res.Registry.Get(id); ok && l.SPDX != "" {
		return l.SPDX, nil
	}
	ref := licenseRefPrefix + strings.Trim(unsafeRef.ReplaceAllString(id, "-"), "-")
	name, text := licenseText(res, id)
	if text == "" {
		text = noAssertion
	}
	return ref, &spdx.OtherLicense{
		LicenseIdentifier: ref,
		LicenseName:       name,
		ExtractedText:     text,
	}
}
