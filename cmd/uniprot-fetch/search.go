package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "List identifiers of records matching a query",
	Long: `Search runs the query against the UniProt list endpoint and prints
one record identifier per line, in the service's result order. Large
result sets are paged transparently.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	ids, err := paginator.Search(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	logger.Info().Int("results", len(ids)).Msg("Search complete")

	for _, id := range ids {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}
