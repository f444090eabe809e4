// Package catalog reads the Netflix catalog file into titles.
package catalog

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/flixlens/flixlens/internal/domain"
	domainerrors "github.com/flixlens/flixlens/internal/errors"
	"github.com/flixlens/flixlens/internal/normalize"
)

// Columns is the column order of the catalog file. Exports write the same order.
var Columns = []string{
	"show_id", "type", "title", "director", "cast", "country",
	"date_added", "release_year", "rating", "duration", "listed_in", "description",
}

// requiredColumns must be present in the header.
var requiredColumns = []string{"show_id", "type", "title", "release_year"}

// maxIssues bounds how many skipped-row reasons a report keeps.
const maxIssues = 50

// Issue describes a row that was skipped or repaired.
type Issue struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// LoadReport summarises a load.
type LoadReport struct {
	Rows     int     `json:"rows"`     // data rows read
	Loaded   int     `json:"loaded"`   // titles kept
	Skipped  int     `json:"skipped"`  // rows rejected
	Repaired int     `json:"repaired"` // rows with a shifted rating/duration
	Issues   []Issue `json:"issues,omitempty"`
}

func (r *LoadReport) skip(line int, reason string) {
	r.Skipped++
	if len(r.Issues) < maxIssues {
		r.Issues = append(r.Issues, Issue{Line: line, Reason: reason})
	}
}

// Dataset is a parsed catalog file.
type Dataset struct {
	Titles []domain.Title
	Report LoadReport
}

// LoadFile opens and parses the catalog at path.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path) //#nosec G304 -- dataset path comes from configuration
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domainerrors.Wrapf(err, domainerrors.CodeNotFound, "catalog file %s not found", path)
		}
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	ds, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return ds, nil
}

// Load parses a catalog from r. The first record is the header; columns are
// matched by name, so extra or reordered columns are accepted. Rows that
// cannot be interpreted are skipped and listed in the report.
func Load(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domainerrors.Validation("catalog file is empty")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	index, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{}
	seen := make(map[string]int)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			ds.Report.Rows++
			ds.Report.skip(parseErr.Line, parseErr.Err.Error())
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", ds.Report.Rows+1, err)
		}
		line, _ := reader.FieldPos(0)

		ds.Report.Rows++
		if len(record) != len(header) {
			ds.Report.skip(line, fmt.Sprintf("expected %d fields, got %d", len(header), len(record)))
			continue
		}

		title, repaired, reason := parseRecord(record, index)
		if reason != "" {
			ds.Report.skip(line, reason)
			continue
		}
		if prev, dup := seen[title.ShowID]; dup {
			ds.Report.skip(line, fmt.Sprintf("duplicate show_id %q (first seen on row %d)", title.ShowID, prev))
			continue
		}

		// Row is the data row's position in the file, skipped rows included.
		title.Row = ds.Report.Rows
		seen[title.ShowID] = title.Row
		if repaired {
			ds.Report.Repaired++
		}
		ds.Titles = append(ds.Titles, title)
	}

	ds.Report.Loaded = len(ds.Titles)
	return ds, nil
}

// headerIndex maps column names to positions.
func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, domainerrors.ValidationWithDetails(
			"catalog header is missing required columns",
			map[string]any{"missing": missing},
		)
	}
	return index, nil
}

// parseRecord converts one CSV record. It returns a non-empty reason when the
// row has to be skipped.
func parseRecord(record []string, index map[string]int) (t domain.Title, repaired bool, reason string) {
	get := func(col string) string {
		if i, ok := index[col]; ok {
			return normalize.Text(record[i])
		}
		return ""
	}

	t.ShowID = get("show_id")
	if t.ShowID == "" {
		return t, false, "missing show_id"
	}

	ct, err := domain.ParseContentType(get("type"))
	if err != nil {
		return t, false, err.Error()
	}
	t.Type = ct

	t.Title = get("title")
	if t.Title == "" {
		return t, false, "missing title"
	}

	year, err := strconv.Atoi(get("release_year"))
	if err != nil || year <= 0 {
		return t, false, fmt.Sprintf("invalid release_year %q", get("release_year"))
	}
	t.ReleaseYear = year

	t.Director = get("director")
	t.Cast = get("cast")
	t.Country = get("country")
	t.DateAdded = get("date_added")
	t.AddedOn = domain.ParseDateAdded(t.DateAdded)
	t.Duration = get("duration")
	t.ListedIn = get("listed_in")
	t.Description = get("description")

	// A handful of catalog rows carry the runtime in the rating column.
	rating := get("rating")
	if _, ok := domain.ParseMinutes(rating); ok && t.Duration == "" {
		t.Duration = rating
		rating = ""
		repaired = true
	}
	t.Rating = normalize.Rating(rating)

	return t, repaired, ""
}

// Record returns the title as a row in Columns order.
func Record(t *domain.Title) []string {
	return []string{
		t.ShowID,
		string(t.Type),
		t.Title,
		t.Director,
		t.Cast,
		t.Country,
		t.DateAdded,
		strconv.Itoa(t.ReleaseYear),
		t.Rating,
		t.Duration,
		t.ListedIn,
		t.Description,
	}
}
