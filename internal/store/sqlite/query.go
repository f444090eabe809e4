package sqlite

import (
	"strings"

	"github.com/flixlens/flixlens/internal/domain"
)

// buildWhere renders a filter as one conjunctive WHERE clause over titles
// aliased as t. Slice arguments are expanded by sqlx.In. Extra conditions
// are ANDed with the filter.
func buildWhere(f domain.Filter, extra ...string) (string, []any) {
	clauses := append([]string(nil), extra...)
	var args []any

	if len(f.Types) > 0 {
		types := make([]string, len(f.Types))
		for i, ct := range f.Types {
			types[i] = string(ct)
		}
		clauses = append(clauses, "t.type IN (?)")
		args = append(args, types)
	}
	if f.YearFrom > 0 {
		clauses = append(clauses, "t.release_year >= ?")
		args = append(args, f.YearFrom)
	}
	if f.YearTo > 0 {
		clauses = append(clauses, "t.release_year <= ?")
		args = append(args, f.YearTo)
	}
	if len(f.Ratings) > 0 {
		clauses = append(clauses, "t.rating IN (?)")
		args = append(args, f.Ratings)
	}
	if len(f.Genres) > 0 {
		clauses = append(clauses,
			"EXISTS (SELECT 1 FROM title_genres fg WHERE fg.row_num = t.row_num AND fg.slug IN (?))")
		args = append(args, f.Genres)
	}
	if len(f.Countries) > 0 {
		clauses = append(clauses,
			"EXISTS (SELECT 1 FROM title_countries fc WHERE fc.row_num = t.row_num AND fc.slug IN (?))")
		args = append(args, f.Countries)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
