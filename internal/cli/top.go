package cli

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/flixlens/flixlens/internal/service"
)

// topCharts maps the top subcommand argument to the chart it prints.
var topCharts = map[string]string{
	"countries": service.ChartTopCountries,
	"genres":    service.ChartTopGenres,
	"directors": service.ChartTopDirectors,
	"actors":    service.ChartTopActors,
	"ratings":   service.ChartRatings,
}

func newTopCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:       "top <countries|genres|directors|actors|ratings>",
		Short:     "Print a ranking of the view",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"countries", "genres", "directors", "actors", "ratings"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.close()

			c, err := a.dashboard.Chart(ctx, topCharts[args[0]], opts.filter())
			if err != nil {
				return err
			}

			t := newTable(cmd.OutOrStdout(), c.Title)
			t.AppendHeader(table.Row{"#", c.YAxis, c.XAxis})
			if c.IsEmpty() {
				t.AppendRow(table.Row{"", "no titles match the filter", ""})
				t.Render()
				return nil
			}

			points := c.Series[0].Points
			if args[0] == "ratings" {
				// The chart lists ratings ascending for a horizontal bar.
				slices.Reverse(points)
			}
			for i, p := range points {
				t.AppendRow(table.Row{i + 1, p.Label, strconv.FormatFloat(p.Value, 'f', -1, 64)})
			}
			t.AppendFooter(table.Row{"", "Shown", fmt.Sprint(len(points))})
			t.Render()
			return nil
		},
	}
}
