package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/flixlens/flixlens/internal/analytics"
)

func newSummaryCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print the headline metrics and runtime statistics of the view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.close()

			f := opts.filter()
			m, err := a.dashboard.Metrics(ctx, f)
			if err != nil {
				return err
			}
			durations, err := a.dashboard.Durations(ctx, f)
			if err != nil {
				return err
			}
			seasons, err := a.dashboard.Seasons(ctx, f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			t := newTable(out, "Catalog")
			t.AppendHeader(table.Row{"Metric", "Value"})
			t.AppendRow(table.Row{"Total Titles", m.Total})
			if m.Filtered {
				t.AppendRow(table.Row{"Change vs catalog", fmt.Sprintf("%+d", m.Delta)})
			}
			t.AppendRow(table.Row{"Movies", fmt.Sprintf("%d (%.1f%%)", m.Movies, m.MovieShare)})
			t.AppendRow(table.Row{"TV Shows", fmt.Sprintf("%d (%.1f%%)", m.Shows, m.ShowShare)})
			t.AppendRow(table.Row{"Countries", m.Countries})
			t.AppendRow(table.Row{"Genres", m.Genres})
			t.Render()

			s := newTable(out, "Runtime")
			s.AppendHeader(table.Row{"", "Count", "Mean", "Median", "Min", "Max"})
			s.AppendRow(summaryRow("Movie minutes", durations.Summary))
			s.AppendRow(summaryRow("TV seasons", seasons.Summary))
			s.Render()

			return nil
		},
	}
}

func summaryRow(label string, s analytics.Summary) table.Row {
	if s.Count == 0 {
		return table.Row{label, 0, "-", "-", "-", "-"}
	}
	return table.Row{
		label,
		s.Count,
		fmt.Sprintf("%.1f", s.Mean),
		fmt.Sprintf("%.1f", s.Median),
		fmt.Sprintf("%.0f", s.Min),
		fmt.Sprintf("%.0f", s.Max),
	}
}
