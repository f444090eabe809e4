package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/flixlens/flixlens/internal/service"
)

func newSearchCommand(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Full-text search over titles, people and descriptions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.close()

			query := strings.Join(args, " ")
			res, err := a.search.Search(ctx, service.SearchRequest{
				Query:  query,
				Filter: opts.filter(),
				Limit:  limit,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(res.Hits) == 0 {
				fmt.Fprintf(out, "No results found for query: %s\n", query)
				return nil
			}

			t := newTable(out, "Search Results")
			t.AppendHeader(table.Row{"#", "Title", "Type", "Year", "Rating", "Cast"})
			for i, hit := range res.Hits {
				t.AppendRow(table.Row{
					i + 1,
					truncate(hit.Title.Title, maxCellWidth),
					hit.Title.Type,
					hit.Title.ReleaseYear,
					hit.Title.Rating,
					truncate(hit.Title.Cast, maxCellWidth),
				})
			}
			t.AppendFooter(table.Row{"", "Total", res.Total, "", "", fmt.Sprintf("Query: %s", query)})
			t.Render()
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", service.DefaultSearchLimit, "Maximum results to show")

	return cmd
}
