package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"

	"github.com/matzehuels/legalscan/pkg/errors"
	"github.com/matzehuels/legalscan/pkg/repository"
	"github.com/matzehuels/legalscan/pkg/scan"
)

// isolate runs the test in an empty working directory with no user config.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	return dir
}

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func scanFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("scan", pflag.ContinueOnError)
	addScanFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return fs
}

func TestLoadConfigDefaults(t *testing.T) {
	isolate(t)

	cfg, err := loadConfig("", scanFlags(t))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	want := defaultConfig()
	if diff := cmp.Diff(&want, cfg, cmp.AllowUnexported(Config{})); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if cfg.Source() != "" {
		t.Errorf("Source() = %q, want none", cfg.Source())
	}
	if cfg.MaxParentDepth != scan.DefaultMaxParentDepth {
		t.Errorf("MaxParentDepth = %d, want %d", cfg.MaxParentDepth, scan.DefaultMaxParentDepth)
	}
	if diff := cmp.Diff([]string{repository.DefaultRemoteURL}, cfg.RemoteRepositories); diff != "" {
		t.Errorf("RemoteRepositories mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigLayers(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, filepath.Join(dir, "legalscan.toml"), `
output_dir = "out"
inventory_format = "yaml"
max_parent_depth = 3
remote_repositories = ["https://a.example/m2", "https://b.example/m2"]

[http]
read_timeout = "10s"

[cache]
disabled = true
`)

	tests := []struct {
		name  string
		env   map[string]string
		flags []string
		check func(t *testing.T, cfg *Config)
	}{
		{
			name: "file",
			check: func(t *testing.T, cfg *Config) {
				if cfg.OutputDir != "out" || cfg.InventoryFormat != "yaml" || cfg.MaxParentDepth != 3 {
					t.Errorf("file values not applied: %+v", cfg)
				}
				if cfg.HTTP.ReadTimeout != 10*time.Second {
					t.Errorf("HTTP.ReadTimeout = %v, want 10s", cfg.HTTP.ReadTimeout)
				}
				if !cfg.Cache.Disabled {
					t.Error("Cache.Disabled = false, want true")
				}
				want := []string{"https://a.example/m2", "https://b.example/m2"}
				if diff := cmp.Diff(want, cfg.RemoteRepositories); diff != "" {
					t.Errorf("RemoteRepositories mismatch (-want +got):\n%s", diff)
				}
				if !strings.HasSuffix(cfg.Source(), "legalscan.toml") {
					t.Errorf("Source() = %q, want legalscan.toml", cfg.Source())
				}
			},
		},
		{
			name: "env over file",
			env: map[string]string{
				"LEGALSCAN_OUTPUT_DIR":      "env-out",
				"LEGALSCAN_CACHE_REDIS_URL": "redis://localhost:6379/0",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.OutputDir != "env-out" {
					t.Errorf("OutputDir = %q, want env-out", cfg.OutputDir)
				}
				if cfg.Cache.RedisURL != "redis://localhost:6379/0" {
					t.Errorf("Cache.RedisURL = %q", cfg.Cache.RedisURL)
				}
				if cfg.InventoryFormat != "yaml" {
					t.Errorf("InventoryFormat = %q, want file value yaml", cfg.InventoryFormat)
				}
			},
		},
		{
			name:  "flags over env and file",
			env:   map[string]string{"LEGALSCAN_MAX_PARENT_DEPTH": "4"},
			flags: []string{"--max-parent-depth", "2", "--offline", "--read-timeout", "2s"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.MaxParentDepth != 2 {
					t.Errorf("MaxParentDepth = %d, want flag value 2", cfg.MaxParentDepth)
				}
				if !cfg.Offline {
					t.Error("Offline = false, want true")
				}
				if cfg.HTTP.ReadTimeout != 2*time.Second {
					t.Errorf("HTTP.ReadTimeout = %v, want 2s", cfg.HTTP.ReadTimeout)
				}
				if cfg.OutputDir != "out" {
					t.Errorf("OutputDir = %q, unset flag must not override the file", cfg.OutputDir)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := loadConfig("", scanFlags(t, tt.flags...))
			if err != nil {
				t.Fatalf("loadConfig: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoadConfigUserDir(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, filepath.Join(dir, "xdg", appName, "legalscan.toml"), `spdx = true`)

	cfg, err := loadConfig("", nil)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if !cfg.SPDX {
		t.Error("SPDX = false, want value from user config dir")
	}
}

func TestLoadConfigExplicitFile(t *testing.T) {
	dir := isolate(t)
	file := filepath.Join(dir, "custom.toml")
	writeConfig(t, file, `diagnostics = "diag.json"`)

	cfg, err := loadConfig(file, nil)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Diagnostics != "diag.json" {
		t.Errorf("Diagnostics = %q, want diag.json", cfg.Diagnostics)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := isolate(t)
	bad := filepath.Join(dir, "bad.toml")
	writeConfig(t, bad, "output_dir = [unterminated")

	tests := []struct {
		name string
		file string
	}{
		{"missing explicit file", filepath.Join(dir, "nope.toml")},
		{"invalid toml", bad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(tt.file, nil)
			if err == nil {
				t.Fatal("loadConfig() error = nil, want error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidInput)
			}
		})
	}
}
