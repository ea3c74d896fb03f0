package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/zip"

	"github.com/matzehuels/legalscan/pkg/report"
)

func TestRootCommandTree(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	var got []string
	for _, sub := range root.Commands() {
		got = append(got, sub.Name())
	}
	sort.Strings(got)
	want := []string{"cache", "completion", "coordinate", "index", "licenses", "scan"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("subcommands mismatch (-want +got):\n%s", diff)
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("root should declare --config")
	}
}

func TestCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			root := New(&bytes.Buffer{}, LogInfo).RootCommand()
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetArgs([]string{"completion", shell})
			if err := root.Execute(); err != nil {
				t.Fatalf("completion %s: %v", shell, err)
			}
			if !strings.Contains(out.String(), appName) {
				t.Errorf("completion script does not mention %s", appName)
			}
		})
	}
}

func writeTestJar(t *testing.T, path string, files map[string]string) {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	names := make([]string, 0, len(files))
	for n := range files {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		f, err := w.Create(n)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write([]byte(files[n])); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanCommand(t *testing.T) {
	dir := isolate(t)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))

	in := filepath.Join(dir, "dist")
	out := filepath.Join(dir, "out")
	writeTestJar(t, filepath.Join(in, "app-1.0.jar"), map[string]string{
		"META-INF/NOTICE": "Widget App\nCopyright 2021 Widget Corp.\n",
		"META-INF/maven/org.example/app/pom.xml": `<project>
  <groupId>org.example</groupId>
  <artifactId>app</artifactId>
  <version>1.0</version>
  <licenses><license><name>Apache 2.0</name></license></licenses>
</project>`,
		"org/example/app/Main.class": "",
	})

	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{
		"scan", in,
		"-o", out,
		"--offline",
		"--no-cache",
		"--local-repository", filepath.Join(dir, "m2"),
		"--diagnostics", "diagnostics.json",
	})
	if err := root.Execute(); err != nil {
		t.Fatalf("scan: %v", err)
	}

	notice, err := os.ReadFile(filepath.Join(out, report.NoticeFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(notice), "Notice for app") || !strings.Contains(string(notice), "Copyright 2021 Widget Corp.") {
		t.Errorf("unexpected notice output:\n%s", notice)
	}

	license, err := os.ReadFile(filepath.Join(out, report.LicenseFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(license), "Apache License, Version 2.0") || !strings.Contains(string(license), "  app-1.0.jar") {
		t.Errorf("unexpected license output:\n%s", license)
	}

	raw, err := os.ReadFile(filepath.Join(out, "diagnostics.json"))
	if err != nil {
		t.Fatal(err)
	}
	var diag struct {
		RunID           string   `json:"runId"`
		UniqueNotices   int      `json:"uniqueNotices"`
		MissingLicenses []string `json:"missingLicenses"`
	}
	if err := json.Unmarshal(raw, &diag); err != nil {
		t.Fatalf("decode diagnostics: %v", err)
	}
	if diag.RunID == "" || diag.UniqueNotices != 1 || len(diag.MissingLicenses) != 0 {
		t.Errorf("diagnostics = %+v", diag)
	}

	if _, err := os.Stat(filepath.Join(out, report.InventoryFile(report.FormatJSON))); err != nil {
		t.Errorf("inventory missing: %v", err)
	}
}

func TestScanCommandBadFormat(t *testing.T) {
	dir := isolate(t)

	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"scan", dir, "--format", "xml", "--offline", "--no-cache"})
	if err := root.Execute(); err == nil {
		t.Fatal("scan with --format xml should fail")
	}
}
