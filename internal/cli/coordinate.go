package cli

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/legalscan/pkg/coordinate"
)

// coordinateCommand creates the coordinate inference command.
func (c *CLI) coordinateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "coordinate <file>...",
		Short: "Show the coordinate and project key inferred from archive file names",
		Example: `  legalscan coordinate commons-io-2.4.jar
  legalscan coordinate lib/foo-bar-1.2.3-sources.jar widget`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for i, arg := range args {
				if i > 0 {
					printNewline()
				}
				printInference(arg)
			}
			return nil
		},
	}
}

// printInference prints what a walk would infer for the archive at p.
// Names without a .jar extension are taken as bare file names.
func printInference(p string) {
	base := path.Base(filepath.ToSlash(p))
	if strings.EqualFold(path.Ext(p), ".jar") {
		base = coordinate.BaseName(p)
	}
	fmt.Println(StyleTitle.Render(base))

	inferred, err := coordinate.Infer(base)
	printKeyValue("Name", inferred.Name)
	printKeyValue("Project", coordinate.ProjectKey(inferred.Name))
	if err != nil {
		printError("%v", err)
		return
	}
	printKeyValue("Version", inferred.Version)
	if inferred.Classifier != "" {
		printKeyValue("Classifier", inferred.Classifier)
	}
}
