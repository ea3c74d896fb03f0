package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/legalscan/pkg/errors"
	"github.com/matzehuels/legalscan/pkg/licenses"
)

// licensesCommand creates the registry inspection command.
func (c *CLI) licensesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "licenses",
		Short: "Inspect the known-license registry",
	}
	cmd.PersistentFlags().String("registry", "", "known-license registry file (default: bundled registry)")

	cmd.AddCommand(c.licensesListCommand())
	cmd.AddCommand(c.licensesShowCommand())
	cmd.AddCommand(c.licensesMatchCommand())
	cmd.AddCommand(c.licensesClosestCommand())

	return cmd
}

// registry loads the registry selected by the config and flags of cmd.
func (c *CLI) registry(cmd *cobra.Command) (*Config, *licenses.Registry, error) {
	cfg, err := c.config(cmd)
	if err != nil {
		return nil, nil, err
	}
	reg, err := loadRegistry(cfg.Registry)
	if err != nil {
		return nil, nil, err
	}
	return cfg, reg, nil
}

// licensesListCommand creates the "licenses list" subcommand.
func (c *CLI) licensesListCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List known licenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, reg, err := c.registry(cmd)
			if err != nil {
				return err
			}
			all := reg.Licenses()
			if len(all) == 0 {
				printInfo("Registry is empty")
				return nil
			}
			if !interactive {
				fmt.Println(renderLicenseTable(all, -1))
				printDetail("%d licenses", len(all))
				return nil
			}
			p := tea.NewProgram(newLicenseListModel(all), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse licenses interactively")
	return cmd
}

// licensesShowCommand creates the "licenses show" subcommand.
func (c *CLI) licensesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a known license and its canonical text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, reg, err := c.registry(cmd)
			if err != nil {
				return err
			}
			l, ok := reg.Get(args[0])
			if !ok {
				if l, ok = reg.ByName(args[0]); !ok {
					return errors.New(errors.ErrCodeNotFound, "no license %q", args[0])
				}
			}
			printLicense(l)
			return nil
		},
	}
}

// licensesMatchCommand creates the "licenses match" subcommand.
func (c *CLI) licensesMatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "match <file>",
		Short: "Classify a license file against the registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, reg, err := c.registry(cmd)
			if err != nil {
				return err
			}
			text, err := readText(args[0])
			if err != nil {
				return err
			}

			res := reg.Classify(text)
			if len(res.Matches) == 0 {
				printWarning("No known license matched")
			}
			for _, l := range res.Matches {
				printSuccess("%s %s", StyleHighlight.Render(l.ID), StyleDim.Render(l.Name))
			}
			if rest := strings.TrimSpace(res.Remainder); rest != "" {
				printDetail("%d characters left unmatched", len(rest))
				s := licenses.NewSuggester(cfg.ClassifierThreshold)
				if name, conf, ok, err := s.Suggest(rest); err != nil {
					c.Logger.Warn("suggestion failed", "error", err)
				} else if ok {
					printDetail("resembles %s (%.0f%% confidence)", name, conf*100)
				}
			}
			return nil
		},
	}
}

// licensesClosestCommand creates the "licenses closest" subcommand.
func (c *CLI) licensesClosestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "closest <file>",
		Short: "Find the known license nearest to a text by edit distance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, reg, err := c.registry(cmd)
			if err != nil {
				return err
			}
			text, err := readText(args[0])
			if err != nil {
				return err
			}
			l, dist, ok := reg.Closest(text, cfg.ClosestMaxDistance)
			if !ok {
				printWarning("No license within distance %d", cfg.ClosestMaxDistance)
				return nil
			}
			printSuccess("%s %s", StyleHighlight.Render(l.ID), StyleDim.Render(l.Name))
			printKeyValue("Distance", fmt.Sprint(dist))
			return nil
		},
	}
	cmd.Flags().Int("closest-max-distance", licenses.DefaultMaxDistance, "largest edit distance accepted")
	return cmd
}

// printLicense prints the fields of l followed by its canonical text.
func printLicense(l *licenses.KnownLicense) {
	fmt.Println(StyleTitle.Render(l.Name))
	printKeyValue("ID", l.ID)
	if l.Version != "" {
		printKeyValue("Version", l.Version)
	}
	if l.SPDX != "" {
		printKeyValue("SPDX", l.SPDX)
	}
	if len(l.Aliases) > 0 {
		printKeyValue("Aliases", strings.Join(l.Aliases, ", "))
	}
	printKeyValue("Viral", fmt.Sprint(l.Viral))
	printKeyValue("Variants", fmt.Sprint(len(l.Variants)))
	printNewline()
	fmt.Println(l.Text)
}

func readText(file string) (string, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", file)
	}
	return strings.ReplaceAll(string(b), "\r\n", "\n"), nil
}
