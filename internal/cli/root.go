// Package cli implements flixctl, the terminal front end to the catalog
// views served by the dashboard.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/flixlens/flixlens/internal/domain"
)

// options holds the flags shared by every command.
type options struct {
	dataset  string
	envFile  string
	logLevel string

	types     []string
	yearFrom  int
	yearTo    int
	ratings   []string
	genres    []string
	countries []string
}

// filter builds the view filter from the flags.
func (o *options) filter() domain.Filter {
	f := domain.Filter{
		YearFrom:  o.yearFrom,
		YearTo:    o.yearTo,
		Ratings:   o.ratings,
		Genres:    o.genres,
		Countries: o.countries,
	}
	for _, t := range o.types {
		f.Types = append(f.Types, domain.ContentType(t))
	}
	return f
}

// NewRootCommand builds the flixctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "flixctl",
		Short: "Explore the Netflix catalog from the terminal",
		Long: `flixctl loads the catalog file and prints the same views the dashboard shows.

Every command accepts the dashboard filters:
  flixctl summary --type Movie --year-from 2010
  flixctl top genres --country "United States"
  flixctl export --format xlsx --out comedies.xlsx --genre Comedies`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// godotenv never overrides variables that are already set.
			_ = godotenv.Load(opts.envFile)
			if opts.dataset == "" {
				opts.dataset = os.Getenv("DATASET_PATH")
			}
			if opts.dataset == "" {
				return fmt.Errorf("no dataset: pass --dataset or set DATASET_PATH")
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.dataset, "dataset", "", "Path to the catalog CSV (env DATASET_PATH)")
	flags.StringVar(&opts.envFile, "env-file", ".env", "Path to .env file")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	flags.StringSliceVar(&opts.types, "type", nil, "Content types to include (Movie, TV Show)")
	flags.IntVar(&opts.yearFrom, "year-from", 0, "First release year")
	flags.IntVar(&opts.yearTo, "year-to", 0, "Last release year")
	flags.StringSliceVar(&opts.ratings, "rating", nil, "Ratings to include")
	flags.StringSliceVar(&opts.genres, "genre", nil, "Genres to include")
	flags.StringSliceVar(&opts.countries, "country", nil, "Countries to include")

	root.AddCommand(
		newSummaryCommand(opts),
		newTopCommand(opts),
		newExportCommand(opts),
		newSearchCommand(opts),
	)

	return root
}

// Execute runs flixctl with the process arguments.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
