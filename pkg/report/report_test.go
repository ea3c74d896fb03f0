package report

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/zip"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/legalscan/pkg/coordinate"
	"github.com/matzehuels/legalscan/pkg/errors"
	"github.com/matzehuels/legalscan/pkg/legal"
	"github.com/matzehuels/legalscan/pkg/licenses"
	"github.com/matzehuels/legalscan/pkg/scan"
)

const adHocID = "b.jar" + licenses.AdditionalTermsSuffix

func testResult(t *testing.T) *scan.Result {
	t.Helper()
	reg, err := licenses.NewRegistry(
		&licenses.KnownLicense{ID: "mit", Name: "MIT License", SPDX: "MIT", Text: "MIT text\n"},
		&licenses.KnownLicense{ID: "bsd", Name: "BSD License"},
		licenses.NewAdditionalTerms("b.jar", "Extra terms."),
	)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	set := func(files ...*legal.LicenseFile) *legal.LicenseFileSet {
		var s legal.LicenseFileSet
		for _, f := range files {
			s.Add(f)
		}
		return &s
	}

	return &scan.Result{
		Notices: map[string][]*legal.Notice{
			"widget": {legal.NewNotice([]string{"Widget", "Copyright 2020 Widget Corp."})},
			"alpha":  {legal.NewNotice([]string{"Alpha"})},
		},
		Licenses: map[string]*legal.LicenseFileSet{
			"mit":   set(legal.NewLicenseFile("a.jar", "MIT from a\n")),
			adHocID: set(legal.NewLicenseFile("b.jar", "Extra terms.")),
		},
		Packages: map[string][]legal.PackageInfo{
			"a": {{ArchivePath: "a.jar", Package: "com.example.a", LicenseKey: "mit", Version: "1.0"}},
		},
		Archives: []scan.Archive{
			{
				Path:       "a.jar",
				Coordinate: coordinate.New("com.example", "a", "1.0"),
				SCM:        "scm:git:https://github.com/example/a.git",
				Licenses:   []string{"mit"},
				HasNotice:  true,
			},
			{Path: "b.jar", Coordinate: coordinate.Coordinate{Name: "b"}, Licenses: []string{adHocID}},
		},
		Registry: reg,
		Diagnostics: scan.Diagnostics{
			UniqueNotices:  2,
			MissingNotices: []string{"b.jar"},
			ManualReview:   []scan.Review{{Archive: "b.jar", Reason: "license text matched no known license"}},
		},
	}
}

func TestBanners(t *testing.T) {
	tests := []struct {
		title string
		start string
		end   string
	}{
		{"x", "---[ x ]" + strings.Repeat("-", 70), strings.Repeat("-", 70) + "[ x ]---"},
		{"Notice for commons", "---[ Notice for commons ]", "[ Notice for commons ]---"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			start, end := Title(tt.title), EndTitle(tt.title)
			if len(start) != Width || len(end) != Width {
				t.Errorf("banner widths = %d, %d, want %d", len(start), len(end), Width)
			}
			if !strings.HasPrefix(start, tt.start) {
				t.Errorf("Title() = %q, want prefix %q", start, tt.start)
			}
			if !strings.HasSuffix(end, tt.end) {
				t.Errorf("EndTitle() = %q, want suffix %q", end, tt.end)
			}
		})
	}

	long := strings.Repeat("y", 100)
	if got := Title(long); got != "---[ "+long+" ]" {
		t.Errorf("Title(long) = %q", got)
	}
}

func TestWriteNotices(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteNotices(&buf, testResult(t)); err != nil {
		t.Fatalf("WriteNotices: %v", err)
	}
	want := "\n" + Title("Notice for alpha") + "\n" +
		"Alpha\n" +
		EndTitle("End of notice for alpha") + "\n" +
		"\n" + Title("Notice for widget") + "\n" +
		"Widget\nCopyright 2020 Widget Corp.\n" +
		EndTitle("End of notice for widget") + "\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("WriteNotices mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteLicenses(t *testing.T) {
	res := testResult(t)
	var bsd legal.LicenseFileSet
	bsd.Add(legal.NewLicenseFile("c.jar", "BSD from c\n"))
	bsd.Add(legal.NewLicenseFile("d.jar", "BSD from d\n"))
	res.Licenses["bsd"] = &bsd

	var buf bytes.Buffer
	if err := WriteLicenses(&buf, res); err != nil {
		t.Fatalf("WriteLicenses: %v", err)
	}
	adHoc := "Additional license terms from b.jar"
	want := "License for:\n  b.jar\n" +
		Title(adHoc) + "\nExtra terms.\n" + EndTitle("End of "+adHoc) + "\n\n" +
		"License for:\n  c.jar\n  d.jar\n" +
		Title("BSD License") + "\nBSD from c\n" + EndTitle("End of BSD License") + "\n\n" +
		"License for:\n  a.jar\n" +
		Title("MIT License") + "\nMIT text\n" + EndTitle("End of MIT License") + "\n\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("WriteLicenses mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteLicensesDeclared(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("META-INF/maven/com.example/app/pom.xml")
	if err != nil {
		t.Fatal(err)
	}
	pom := `<project><groupId>com.example</groupId><artifactId>app</artifactId><version>1.0</version>
  <licenses><license><name>Custom Corp License</name><url>https://example.org/custom</url></license></licenses>
</project>`
	if _, err := f.Write([]byte(pom)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "app-1.0.jar"), buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	reg, err := licenses.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	agg, err := scan.New(scan.Options{Registry: reg})
	if err != nil {
		t.Fatal(err)
	}
	res, err := agg.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	id := "app-1.0.jar" + licenses.DeclaredSuffix + "-custom-corp-license"
	if diff := cmp.Diff([]string{id}, res.Archives[0].Licenses); diff != "" {
		t.Errorf("archive licenses mismatch (-want +got):\n%s", diff)
	}

	var out bytes.Buffer
	if err := WriteLicenses(&out, res); err != nil {
		t.Fatalf("WriteLicenses: %v", err)
	}
	name := "Custom Corp License (declared by app-1.0.jar)"
	want := "License for:\n  app-1.0.jar\n" +
		Title(name) + "\nCustom Corp License\nhttps://example.org/custom\n" + EndTitle("End of "+name) + "\n\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("WriteLicenses mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteInventory(t *testing.T) {
	res := testResult(t)
	tests := []struct {
		format    Format
		unmarshal func([]byte, any) error
	}{
		{FormatJSON, json.Unmarshal},
		{FormatYAML, yaml.Unmarshal},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteInventory(&buf, res, tt.format); err != nil {
				t.Fatalf("WriteInventory: %v", err)
			}
			var got map[string][]legal.PackageInfo
			if err := tt.unmarshal(buf.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v\n%s", err, buf.String())
			}
			if diff := cmp.Diff(res.Packages, got); diff != "" {
				t.Errorf("inventory mismatch (-want +got):\n%s", diff)
			}
		})
	}

	var buf bytes.Buffer
	if err := WriteInventory(&buf, res, "xml"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("WriteInventory(xml) err = %v, want INVALID_INPUT", err)
	}
}

func TestInventoryKeys(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteInventory(&buf, testResult(t), FormatJSON); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"jarPath"`, `"packageName"`, `"licenseKey"`, `"copyrightStartYear"`} {
		if !strings.Contains(buf.String(), key) {
			t.Errorf("inventory lacks %s:\n%s", key, buf.String())
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
			}
		})
	}
}

func TestBuildSPDX(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	doc := BuildSPDX(testResult(t), SPDXOptions{Name: "app", RunID: "run-1", Created: created})

	if doc.DocumentNamespace != spdxNamespace+"run-1" {
		t.Errorf("DocumentNamespace = %q", doc.DocumentNamespace)
	}
	if doc.CreationInfo.Created != "2024-01-02T03:04:05Z" {
		t.Errorf("Created = %q", doc.CreationInfo.Created)
	}
	if len(doc.Packages) != 3 {
		t.Fatalf("Packages = %d, want 3", len(doc.Packages))
	}

	var kinds []string
	for _, r := range doc.Relationships {
		kinds = append(kinds, r.Relationship)
	}
	if diff := cmp.Diff([]string{"DESCRIBES", "CONTAINS", "CONTAINS"}, kinds); diff != "" {
		t.Errorf("relationships mismatch (-want +got):\n%s", diff)
	}

	a, b := doc.Packages[1], doc.Packages[2]
	if a.PackageLicenseConcluded != "MIT" || a.PackageVersion != "1.0" {
		t.Errorf("package a = %q %q", a.PackageLicenseConcluded, a.PackageVersion)
	}
	if !strings.HasPrefix(a.PackageDownloadLocation, "https://github.com/example/a") {
		t.Errorf("PackageDownloadLocation = %q", a.PackageDownloadLocation)
	}
	if len(a.PackageExternalReferences) != 1 || a.PackageExternalReferences[0].Locator != "pkg:maven/com.example/a@1.0" {
		t.Errorf("external refs = %+v", a.PackageExternalReferences)
	}
	if b.PackageLicenseConcluded != "LicenseRef-"+adHocID || b.PackageDownloadLocation != noAssertion {
		t.Errorf("package b = %q %q", b.PackageLicenseConcluded, b.PackageDownloadLocation)
	}
	if len(b.PackageExternalReferences) != 0 {
		t.Errorf("package b has external refs %+v", b.PackageExternalReferences)
	}
	if a.PackageSPDXIdentifier == b.PackageSPDXIdentifier {
		t.Error("package identifiers collide")
	}

	if len(doc.OtherLicenses) != 1 {
		t.Fatalf("OtherLicenses = %d, want 1", len(doc.OtherLicenses))
	}
	if ol := doc.OtherLicenses[0]; ol.ExtractedText != "Extra terms." || ol.LicenseName != "Additional license terms from b.jar" {
		t.Errorf("OtherLicense = %+v", ol)
	}

	var buf bytes.Buffer
	if err := WriteSPDX(&buf, testResult(t), SPDXOptions{Name: "app", RunID: "run-1"}); err != nil {
		t.Fatalf("WriteSPDX: %v", err)
	}
	if !json.Valid(buf.Bytes()) {
		t.Error("WriteSPDX produced invalid JSON")
	}
}

func TestExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	paths, err := Export(context.Background(), testResult(t), Options{
		Dir:            dir,
		Format:         FormatYAML,
		SPDX:           true,
		UpdateRegistry: true,
		Diagnostics:    "diagnostics.json",
		RunID:          "run-42",
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	want := []string{
		filepath.Join(dir, NoticeFile),
		filepath.Join(dir, LicenseFile),
		filepath.Join(dir, "jar-packages.yaml"),
		filepath.Join(dir, SPDXFile),
		filepath.Join(dir, "diagnostics.json"),
		filepath.Join(dir, RegistryDir),
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
	for _, p := range want {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing output: %v", err)
		}
	}
	if _, err := licenses.LoadFile(filepath.Join(dir, RegistryDir, licenses.RegistryFileName)); err != nil {
		t.Errorf("saved registry does not load: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "diagnostics.json"))
	if err != nil {
		t.Fatal(err)
	}
	var diag struct {
		RunID          string   `json:"runId"`
		UniqueNotices  int      `json:"uniqueNotices"`
		MissingNotices []string `json:"missingNotices"`
	}
	if err := json.Unmarshal(data, &diag); err != nil {
		t.Fatalf("decode diagnostics: %v", err)
	}
	if diag.RunID != "run-42" || diag.UniqueNotices != 2 || len(diag.MissingNotices) != 1 {
		t.Errorf("diagnostics = %+v", diag)
	}
}

func TestExportDiagnosticsSubdir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	paths, err := Export(context.Background(), testResult(t), Options{
		Dir:         dir,
		Diagnostics: filepath.Join("reports", "diagnostics.json"),
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	want := filepath.Join(dir, "reports", "diagnostics.json")
	if got := paths[len(paths)-1]; got != want {
		t.Errorf("last path = %q, want %q", got, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("diagnostics not written: %v", err)
	}
}

func TestExportFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Export(context.Background(), testResult(t), Options{Dir: blocker})
	if !errors.Is(err, errors.ErrCodeOutputWrite) {
		t.Errorf("Export into a file: err = %v, want OUTPUT_WRITE", err)
	}
	if !errors.IsFatal(err) {
		t.Error("output failures must be fatal")
	}
}
