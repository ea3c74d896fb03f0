package cli

import (
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/legalscan/pkg/coordinate"
	"github.com/matzehuels/legalscan/pkg/errors"
	"github.com/matzehuels/legalscan/pkg/integrations"
	"github.com/matzehuels/legalscan/pkg/integrations/maven"
)

// indexCommand creates the package index command.
func (c *CLI) indexCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Query the package index",
	}
	cmd.PersistentFlags().String("index-url", "", "package index search endpoint")
	cmd.PersistentFlags().Bool("no-cache", false, "bypass the response cache")

	cmd.AddCommand(c.indexSearchCommand())
	cmd.AddCommand(c.indexPackageCommand())

	return cmd
}

// indexSearchCommand creates the "index search" subcommand.
func (c *CLI) indexSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "search <name> <version> [classifier]",
		Short:   "Find artifacts by artifact id and version",
		Example: `  legalscan index search commons-io 2.4 sources`,
		Args:    cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			classifier := ""
			if len(args) == 3 {
				classifier = args[2]
			}
			return c.withIndex(cmd, func(idx *maven.Client) error {
				results, err := idx.Search(cmd.Context(), args[0], args[1], classifier)
				if err != nil {
					return errors.Wrap(errors.ErrCodeNetwork, err, "search %s %s", args[0], args[1])
				}
				printResults(results)
				return nil
			})
		},
	}
}

// indexPackageCommand creates the "index package" subcommand.
func (c *CLI) indexPackageCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "package <java.package>",
		Short:   "Find artifacts containing a class or package",
		Example: `  legalscan index package org.apache.commons.io.IOUtils`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withIndex(cmd, func(idx *maven.Client) error {
				results, err := idx.FindPackage(cmd.Context(), args[0])
				if err != nil {
					return errors.Wrap(errors.ErrCodeNetwork, err, "find %s", args[0])
				}
				printResults(results)
				return nil
			})
		},
	}
}

// withIndex runs fn with an index client built from the config of cmd.
func (c *CLI) withIndex(cmd *cobra.Command, fn func(*maven.Client) error) error {
	cfg, err := c.config(cmd)
	if err != nil {
		return err
	}
	if cfg.Offline {
		return errors.New(errors.ErrCodeInvalidInput, "the package index is unavailable in offline mode")
	}
	svc, err := c.newServices(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer svc.close()
	return fn(svc.index(cfg))
}

// printResults prints search candidates, flagging whether a scan could
// use them unattended.
func printResults(results []coordinate.Coordinate) {
	unique, err := maven.Unique(results)
	switch {
	case err == nil:
		printSuccess("%s", StyleHighlight.Render(unique.String()))
		printDetail("%s", unique.PURL())
	case stderrors.Is(err, integrations.ErrNotFound):
		printWarning("No matching artifact")
	default:
		printWarning("%d candidates, a scan would send this archive to manual review", len(results))
		for _, r := range results {
			printFile(r.String())
		}
		printNewline()
		printDetail("%v", err)
	}
}
