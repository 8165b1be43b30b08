package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/toolboxsearch/registry"
)

func newMatchCmd(root *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "match <query>",
		Short: "List blocks whose text contains the query",
		Long: `List the toolbox blocks whose text contains every word of the query.
The last word may be incomplete: "create li" finds "create list with".
Blocks are printed in toolbox order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			ctx := cmd.Context()
			reg, err := buildRegistry(ctx, root.cfg, root.logger)
			if err != nil {
				return err
			}
			defer func() { _ = reg.Close() }()

			matches, err := reg.Match(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			results := make([]registry.BlockResult, 0, len(matches))
			for _, info := range matches {
				results = append(results, registry.BlockResult{Type: info.Type})
			}
			return newPrinter(cmd.OutOrStdout()).blocks(results, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text, json")
	return cmd
}
