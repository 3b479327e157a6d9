package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depinventory/pkg/manifest/ecosystems"
)

// ecosystemsCommand creates the command listing supported manifests.
func (c *CLI) ecosystemsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ecosystems",
		Short: "List the recognised manifest files",
		Long: `List every manifest pattern the scanner recognises, in lookup order.
The first pattern matching a file's base name decides its parser.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows [][]string
			for _, eco := range ecosystems.All(ecosystems.Options{NuGetPackages: []string{}}) {
				for _, m := range eco.Manifests {
					rows = append(rows, []string{eco.Name, m.Pattern, m.ID})
				}
			}
			fmt.Fprintln(out, renderTable([]string{"Ecosystem", "Pattern", "Parser"}, rows))
			return nil
		},
	}
}
