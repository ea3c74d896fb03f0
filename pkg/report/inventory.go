package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/legalscan/pkg/errors"
	"github.com/matzehuels/legalscan/pkg/legal"
	"github.com/matzehuels/legalscan/pkg/scan"
)

// Format is an inventory encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" and "yml", in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown inventory format %q (expected json or yaml)", s)
}

// InventoryFile returns the inventory file name for f.
func InventoryFile(f Format) string { return "jar-packages." + string(f) }

// WriteInventory writes the package inventory, a map from archive file
// name to its package rows.
func WriteInventory(w io.Writer, res *scan.Result, f Format) error {
	doc := res.Packages
	if doc == nil {
		doc = map[string][]legal.PackageInfo{}
	}
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, "unknown inventory format %q", f)
}

type diagnosticsDoc struct {
	RunID string `json:"runId"`
	scan.Diagnostics
}

// WriteDiagnostics writes the diagnostics of res as JSON tagged with runID.
func WriteDiagnostics(w io.Writer, res *scan.Result, runID string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(diagnosticsDoc{RunID: runID, Diagnostics: res.Diagnostics}); err != nil {
		return fmt.Errorf("encode diagnostics: %w", err)
	}
	return nil
}
