package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/legalscan/pkg/integrations"
	"github.com/matzehuels/legalscan/pkg/licenses"
	"github.com/matzehuels/legalscan/pkg/observability"
	"github.com/matzehuels/legalscan/pkg/report"
	"github.com/matzehuels/legalscan/pkg/scan"
)

// scanCommand creates the scan command.
func (c *CLI) scanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Aggregate NOTICE and LICENSE files of every JAR under dir",
		Long: `Scan walks every *.jar under dir (default: the scan_dir setting) and writes
NOTICE-aggregated, LICENSE-aggregated and jar-packages.json into the output
directory. Archives without legal files are resolved through their
descriptors, parent descriptors, sources archives and the package index.

Diagnostics are printed to stderr when the run completes.`,
		Example: `  legalscan scan ./dist
  legalscan scan ./dist -o build/legal --format yaml --spdx
  legalscan scan ./dist --offline --registry ./known-licenses/known-licenses.toml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.ScanDir = args[0]
			}
			return c.runScan(cmd.Context(), cfg)
		},
	}
	addScanFlags(cmd.Flags())
	return cmd
}

// addScanFlags declares one flag per scan setting. Defaults shown in help
// mirror the built-in config defaults; unset flags never override the
// config file or environment.
func addScanFlags(fs *pflag.FlagSet) {
	d := defaultConfig()
	fs.StringP("output-dir", "o", d.OutputDir, "directory for the aggregated files")
	fs.String("registry", d.Registry, "known-license registry file (default: bundled registry)")
	fs.Bool("update-registry", d.UpdateRegistry, "write the registry, including licenses found in this run, to the output directory")
	fs.String("format", d.InventoryFormat, "package inventory format: json or yaml")
	fs.Bool("spdx", d.SPDX, "also write an SPDX 2.2 JSON document")
	fs.String("diagnostics", d.Diagnostics, "also write diagnostics as JSON to this file")
	fs.Bool("offline", d.Offline, "never contact remote repositories or the package index")
	fs.String("local-repository", d.LocalRepository, "local Maven repository")
	fs.StringSlice("remote-repository", d.RemoteRepositories, "remote Maven repositories, tried in order")
	fs.String("index-url", d.IndexURL, "package index search endpoint")
	fs.Int("max-parent-depth", d.MaxParentDepth, "parent descriptors followed for declared licenses")
	fs.Int64("max-embedded-size", d.MaxEmbeddedSize, "largest embedded archive read into memory, in bytes")
	fs.Int("closest-max-distance", d.ClosestMaxDistance, "edit distance cap for closest-license hints")
	fs.Float64("classifier-threshold", d.ClassifierThreshold, "confidence required for SPDX suggestions")
	fs.Duration("connect-timeout", d.HTTP.ConnectTimeout, "HTTP connect timeout")
	fs.Duration("read-timeout", d.HTTP.ReadTimeout, "HTTP response header timeout")
	fs.Bool("insecure-tls", d.HTTP.InsecureTLS, "skip TLS certificate verification")
	fs.Duration("cache-ttl", d.Cache.TTL, "lifetime of cached index and license responses")
	fs.String("redis-url", d.Cache.RedisURL, "share the response cache through Redis")
	fs.Bool("no-cache", d.Cache.Disabled, "disable the response cache")
}

// runScan performs one full run described by cfg.
func (c *CLI) runScan(ctx context.Context, cfg *Config) error {
	logger := loggerFromContext(ctx)

	format, err := report.ParseFormat(cfg.InventoryFormat)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		defer installDebugHooks(logger)()
	}

	reg, err := loadRegistry(cfg.Registry)
	if err != nil {
		return err
	}
	logger.Debug("registry loaded", "licenses", reg.Len())

	svc, err := c.newServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.close()

	opts := scan.Options{
		Registry:           reg,
		Resolver:           svc.resolver(cfg, logger),
		Suggester:          licenses.NewSuggester(cfg.ClassifierThreshold),
		MaxParentDepth:     cfg.MaxParentDepth,
		MaxEmbeddedSize:    cfg.MaxEmbeddedSize,
		ClosestMaxDistance: cfg.ClosestMaxDistance,
		Logger:             logger,
	}
	if idx := svc.index(cfg); idx != nil {
		opts.Index = idx
		opts.Fetcher = integrations.NewTextFetcher(svc.client, nil)
	}

	agg, err := scan.New(opts)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	var spinner *scanSpinner
	if !cfg.Verbose {
		spinner = newScanSpinner(ctx, os.Stderr, "Scanning "+cfg.ScanDir)
		observability.SetScanHooks(spinner)
		defer observability.Reset()
		spinner.Start()
	}
	res, err := agg.Run(ctx, cfg.ScanDir)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Scanned %d archives", len(res.Archives)))

	paths, err := report.Export(ctx, res, report.Options{
		Dir:            cfg.OutputDir,
		Format:         format,
		SPDX:           cfg.SPDX,
		UpdateRegistry: cfg.UpdateRegistry,
		Diagnostics:    cfg.Diagnostics,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	printSuccess("Aggregated legal files")
	printStats(len(res.Archives), res.Diagnostics.UniqueNotices, res.Diagnostics.UniqueLicenses)
	for _, p := range paths {
		printFile(p)
	}
	printNewline()
	printDiagnostics(os.Stderr, res.Diagnostics)

	if adhoc := res.Registry.AdHoc(); len(adhoc) > 0 && !cfg.UpdateRegistry {
		printNewline()
		printNextStep("Keep the licenses minted in this run", "legalscan scan --update-registry")
	}
	return nil
}
