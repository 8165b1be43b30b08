package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/toolboxsearch/registry"
)

func newRankCmd(root *rootOptions) *cobra.Command {
	var (
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "rank <query>",
		Short: "List blocks matching the query, best first",
		Long: `Rank toolbox blocks against the query. Words match by prefix, and a
query equal to a block type (e.g. "lists_sort") puts that block first.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			if !cmd.Flags().Changed("limit") && root.cfg.Search.MaxResults > 0 {
				limit = root.cfg.Search.MaxResults
			}
			if limit < 1 {
				return fmt.Errorf("limit must be at least 1, got %d", limit)
			}

			ctx := cmd.Context()
			reg, err := buildRegistry(ctx, root.cfg, root.logger)
			if err != nil {
				return err
			}
			defer func() { _ = reg.Close() }()

			ranked, err := reg.Rank(ctx, strings.Join(args, " "), limit)
			if err != nil {
				return err
			}
			results := make([]registry.BlockResult, 0, len(ranked))
			for _, res := range ranked {
				results = append(results, registry.BlockResult{Type: res.Doc.Type, Score: res.Score})
			}
			return newPrinter(cmd.OutOrStdout()).blocks(results, format)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of results")
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text, json")
	return cmd
}
