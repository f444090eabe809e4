package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for title documents.
//
//  1. Title and description use English stemming; title is stored and
//     carries term vectors for highlighting.
//  2. People and countries use the simple analyzer so names are not stemmed.
//  3. Type, rating and slugs are keywords for exact filters and facets.
//  4. Release year and row are numeric for ranges and stable ordering.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// --- Text fields ---

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = en.AnalyzerName
	titleFieldMapping.Store = true
	titleFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	descFieldMapping := bleve.NewTextFieldMapping()
	descFieldMapping.Analyzer = en.AnalyzerName
	descFieldMapping.Store = false
	descFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("description", descFieldMapping)

	for _, field := range []string{"cast", "director", "country"} {
		people := bleve.NewTextFieldMapping()
		people.Analyzer = simple.Name
		people.Store = true
		people.IncludeTermVectors = true
		docMapping.AddFieldMappingsAt(field, people)
	}

	genresFieldMapping := bleve.NewTextFieldMapping()
	genresFieldMapping.Analyzer = en.AnalyzerName
	genresFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("genres", genresFieldMapping)

	// --- Keyword fields ---

	for _, field := range []string{"id", "show_id", "type", "rating", "genre_slugs", "country_slugs"} {
		kw := bleve.NewTextFieldMapping()
		kw.Analyzer = keyword.Name
		kw.Store = true
		docMapping.AddFieldMappingsAt(field, kw)
	}

	// --- Numeric fields ---

	yearFieldMapping := bleve.NewNumericFieldMapping()
	yearFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("release_year", yearFieldMapping)

	rowFieldMapping := bleve.NewNumericFieldMapping()
	rowFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("row", rowFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
