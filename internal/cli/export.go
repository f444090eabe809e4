package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExportCommand(opts *options) *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered view to a CSV or XLSX file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.close()

			res, err := a.export.Export(ctx, opts.filter(), format)
			if err != nil {
				return err
			}

			if out == "" {
				out = res.Filename
			}
			if err := os.WriteFile(out, res.Body, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", res.Rows, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "Output format (csv, xlsx)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default netflix_filtered_data.<format>)")

	return cmd
}
