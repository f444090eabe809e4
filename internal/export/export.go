// Package export writes catalog titles as downloadable files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/flixlens/flixlens/internal/catalog"
	"github.com/flixlens/flixlens/internal/domain"
	domainerrors "github.com/flixlens/flixlens/internal/errors"
)

// Format is a download file format.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Formats lists every supported format.
var Formats = []Format{FormatCSV, FormatXLSX}

// baseName is the download name without extension.
const baseName = "netflix_filtered_data"

// SheetName names the worksheet of an xlsx download.
const SheetName = "Titles"

// ParseFormat resolves a format name; empty means csv.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	default:
		return "", domainerrors.ValidationWithDetails(
			"validation failed",
			map[string]string{"format": "must be one of: csv xlsx"},
		)
	}
}

// Filename returns the download file name.
func (f Format) Filename() string {
	return baseName + "." + string(f)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Write encodes titles in the given format, header first, in catalog column
// order.
func Write(w io.Writer, format Format, titles []domain.Title) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, titles)
	case FormatXLSX:
		return WriteXLSX(w, titles)
	default:
		return domainerrors.Validationf("unsupported export format %q", format)
	}
}

// WriteCSV writes titles as RFC 4180 CSV.
func WriteCSV(w io.Writer, titles []domain.Title) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(catalog.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range titles {
		if err := cw.Write(catalog.Record(&titles[i])); err != nil {
			return fmt.Errorf("write row %d: %w", titles[i].Row, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes titles as a single-sheet workbook. Release years are
// numeric cells; everything else is text.
func WriteXLSX(w io.Writer, titles []domain.Title) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("open sheet writer: %w", err)
	}

	header := make([]any, len(catalog.Columns))
	for i, col := range catalog.Columns {
		header[i] = col
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range titles {
		record := catalog.Record(&titles[i])
		row := make([]any, len(record))
		for j, v := range record {
			row[j] = v
		}
		row[yearColumn] = titles[i].ReleaseYear

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write row %d: %w", titles[i].Row, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

var yearColumn = columnIndex("release_year")

func columnIndex(name string) int {
	for i, col := range catalog.Columns {
		if col == name {
			return i
		}
	}
	panic("export: unknown column " + name)
}
