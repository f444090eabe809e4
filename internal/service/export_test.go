package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/flixlens/flixlens/internal/catalog"
	"github.com/flixlens/flixlens/internal/domain"
	domainerrors "github.com/flixlens/flixlens/internal/errors"
	"github.com/flixlens/flixlens/internal/export"
)

func TestExportService_CSVMatchesView(t *testing.T) {
	svc := setupTestServices(t, true)
	ctx := context.Background()

	for name, f := range testFilters {
		t.Run(name, func(t *testing.T) {
			result, err := svc.export.Export(ctx, f, "csv")
			require.NoError(t, err)
			assert.Equal(t, "netflix_filtered_data.csv", result.Filename)
			assert.Equal(t, export.FormatCSV, result.Format)
			assert.True(t, strings.HasPrefix(result.ID, "exp-"))

			view := fixtureView(t, f)
			assert.Equal(t, len(view), result.Rows)

			var want bytes.Buffer
			require.NoError(t, export.WriteCSV(&want, view))
			assert.Equal(t, want.String(), string(result.Body))

			m, err := svc.dashboard.Metrics(ctx, f)
			require.NoError(t, err)
			assert.Equal(t, m.Total, result.Rows)
		})
	}
}

func TestExportService_RowsKeepFileOrder(t *testing.T) {
	svc := setupTestServices(t, true)

	result, err := svc.export.Export(context.Background(), domain.Filter{Types: []domain.ContentType{domain.TypeTVShow}}, "")
	require.NoError(t, err)

	ds, err := catalog.Load(bytes.NewReader(result.Body))
	require.NoError(t, err)
	showIDs := make([]string, len(ds.Titles))
	for i, title := range ds.Titles {
		showIDs[i] = title.ShowID
	}
	assert.Equal(t, []string{"s2", "s3", "s6", "s10", "s13"}, showIDs)
}

func TestExportService_EmptyView(t *testing.T) {
	svc := setupTestServices(t, true)

	result, err := svc.export.Export(context.Background(), domain.Filter{YearFrom: 1950, YearTo: 1960}, "csv")
	require.NoError(t, err)
	assert.Zero(t, result.Rows)
	assert.Equal(t, strings.Join(catalog.Columns, ",")+"\n", string(result.Body))
}

func TestExportService_XLSX(t *testing.T) {
	svc := setupTestServices(t, true)

	result, err := svc.export.Export(context.Background(), domain.Filter{Genres: []string{"comedies"}}, "xlsx")
	require.NoError(t, err)
	assert.Equal(t, "netflix_filtered_data.xlsx", result.Filename)
	assert.Equal(t, 3, result.Rows)

	f, err := excelize.OpenReader(bytes.NewReader(result.Body))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"s5", "s7", "s11"}, []string{rows[1][0], rows[2][0], rows[3][0]})

	assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.ExportsTotal.WithLabelValues("xlsx")))
}

func TestExportService_Errors(t *testing.T) {
	svc := setupTestServices(t, true)
	ctx := context.Background()

	_, err := svc.export.Export(ctx, domain.Filter{}, "pdf")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	_, err = svc.export.Export(ctx, domain.Filter{YearFrom: 1800}, "csv")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	empty := setupTestServices(t, false)
	_, err = empty.export.Export(ctx, domain.Filter{}, "csv")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnavailable))
}
