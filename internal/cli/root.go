package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/legalscan/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
// Every subcommand receives the CLI logger through its context.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "legalscan aggregates NOTICE and LICENSE files from JAR archives",
		Long: `legalscan walks every JAR under a directory, including archives embedded
in other archives, and produces one aggregated NOTICE file, one aggregated
LICENSE file and a package inventory. Archives without legal files are
traced back to their descriptors, parent descriptors and sources archives.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default ./legalscan.toml, then $XDG_CONFIG_HOME/legalscan/legalscan.toml)")

	root.AddCommand(c.scanCommand())
	root.AddCommand(c.licensesCommand())
	root.AddCommand(c.coordinateCommand())
	root.AddCommand(c.indexCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config loads the configuration for cmd, binding its flags.
func (c *CLI) config(cmd *cobra.Command) (*Config, error) {
	cfg, err := loadConfig(c.configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if cfg.Verbose {
		c.SetLogLevel(LogDebug)
	}
	if src := cfg.Source(); src != "" {
		c.Logger.Debug("loaded config", "file", src)
	}
	return cfg, nil
}
