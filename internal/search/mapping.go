package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for session documents.
//
// Coffee names and free-text notes use English stemming. Roasters, origins,
// and brew methods are proper nouns and only get the simple analyzer. Type,
// mode, and tags are keywords for exact filtering and faceting.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// --- Text fields ---

	coffeeNames := bleve.NewTextFieldMapping()
	coffeeNames.Analyzer = en.AnalyzerName
	coffeeNames.Store = true
	coffeeNames.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("coffee_names", coffeeNames)

	notes := bleve.NewTextFieldMapping()
	notes.Analyzer = en.AnalyzerName
	notes.Store = true
	notes.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("notes", notes)

	cupNotes := bleve.NewTextFieldMapping()
	cupNotes.Analyzer = en.AnalyzerName
	cupNotes.Store = false
	docMapping.AddFieldMappingsAt("cup_notes", cupNotes)

	for _, field := range []string{"roasters", "origins", "brew_methods"} {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = simple.Name
		fm.Store = true
		docMapping.AddFieldMappingsAt(field, fm)
	}

	// --- Keyword fields ---

	for _, field := range []string{"id", "session_type", "mode"} {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = keyword.Name
		fm.Store = true
		docMapping.AddFieldMappingsAt(field, fm)
	}

	// Tags are already slugs; keyword keeps compound tags like "natural-process" intact.
	tags := bleve.NewTextFieldMapping()
	tags.Analyzer = keyword.Name
	tags.Store = true
	tags.IncludeTermVectors = true // For faceting
	docMapping.AddFieldMappingsAt("tags", tags)

	// --- Numeric fields ---

	createdAt := bleve.NewNumericFieldMapping()
	createdAt.Store = true
	docMapping.AddFieldMappingsAt("created_at", createdAt)

	updatedAt := bleve.NewNumericFieldMapping()
	updatedAt.Store = true
	docMapping.AddFieldMappingsAt("updated_at", updatedAt)

	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}
