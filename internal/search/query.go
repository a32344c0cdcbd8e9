package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// SearchParams configures a search query.
type SearchParams struct {
	Query       string   // User's search query; empty matches every session
	SessionType string   // Filter by exact session type
	Tags        []string // Filter by tags, all must be present

	// Pagination
	Limit  int
	Offset int

	// Sorting
	SortBy    string // "relevance", "recent", "updated"
	SortOrder string // "asc", "desc"

	IncludeFacets bool // Include type and tag facet counts
	Highlight     bool // Include match highlighting
}

// DefaultSearchParams returns sensible defaults.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		Limit:         20,
		SortBy:        "relevance",
		SortOrder:     "desc",
		IncludeFacets: true,
		Highlight:     true,
	}
}

// SearchResult represents the search results.
type SearchResult struct {
	Query  string       `json:"query"`
	Total  uint64       `json:"total"`
	TookMs int64        `json:"took_ms"`
	Hits   []SearchHit  `json:"hits"`
	Facets SearchFacets `json:"facets,omitempty"`
}

// SearchHit is one matching session.
type SearchHit struct {
	SessionID   string            `json:"session_id"`
	Score       float64           `json:"score"`
	SessionType string            `json:"session_type"`
	CoffeeNames []string          `json:"coffee_names,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Highlights  map[string]string `json:"highlights,omitempty"`
}

// SearchFacets contains facet counts.
type SearchFacets struct {
	Types []FacetCount `json:"types,omitempty"`
	Tags  []FacetCount `json:"tags,omitempty"`
}

// FacetCount represents a facet value and its count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Search executes a search query.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := params.Limit
	if limit <= 0 {
		limit = DefaultSearchParams().Limit
	}
	searchRequest := bleve.NewSearchRequestOptions(buildSearchQuery(params), limit, params.Offset, false)
	addSorting(searchRequest, params)

	if params.IncludeFacets {
		searchRequest.AddFacet("session_type", bleve.NewFacetRequest("session_type", 10))
		searchRequest.AddFacet("tags", bleve.NewFacetRequest("tags", 20))
	}
	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("coffee_names")
		searchRequest.Highlight.AddField("notes")
	}
	searchRequest.Fields = []string{"session_type", "coffee_names", "tags"}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(searchResult.Hits)),
	}
	for _, hit := range searchResult.Hits {
		h := SearchHit{
			SessionID:   hit.ID,
			Score:       hit.Score,
			CoffeeNames: storedStrings(hit.Fields["coffee_names"]),
			Tags:        storedStrings(hit.Fields["tags"]),
		}
		if t, ok := hit.Fields["session_type"].(string); ok {
			h.SessionType = t
		}
		if len(hit.Fragments) > 0 {
			h.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					h.Highlights[field] = fragments[0]
				}
			}
		}
		result.Hits = append(result.Hits, h)
	}

	if params.IncludeFacets {
		result.Facets = extractFacets(searchResult)
	}
	return result, nil
}

// storedStrings reads a stored field that Bleve returns as a string for one
// value and as []any for several.
func storedStrings(v any) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// buildSearchQuery constructs the Bleve query from params.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	if q := strings.TrimSpace(params.Query); q != "" {
		textQueries := []query.Query{}

		// Coffee names are the most specific thing a user types.
		nameMatch := bleve.NewMatchQuery(q)
		nameMatch.SetField("coffee_names")
		nameMatch.SetBoost(3.0)
		textQueries = append(textQueries, nameMatch)

		for field, boost := range map[string]float64{
			"origins":      2.0,
			"roasters":     2.0,
			"notes":        1.5,
			"brew_methods": 1.0,
			"cup_notes":    1.0,
		} {
			m := bleve.NewMatchQuery(q)
			m.SetField(field)
			m.SetBoost(boost)
			textQueries = append(textQueries, m)
		}

		// Typo tolerance on coffee names
		fuzzyQuery := bleve.NewFuzzyQuery(strings.ToLower(q))
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("coffee_names")
		fuzzyQuery.SetBoost(0.8)
		textQueries = append(textQueries, fuzzyQuery)

		// Prefix query for autocomplete (minimum 2 chars)
		if len(q) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(q))
			prefixQuery.SetField("coffee_names")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if params.SessionType != "" {
		tq := bleve.NewTermQuery(params.SessionType)
		tq.SetField("session_type")
		queries = append(queries, tq)
	}

	// Every requested tag must be present
	for _, tag := range params.Tags {
		tq := bleve.NewTermQuery(tag)
		tq.SetField("tags")
		queries = append(queries, tq)
	}

	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

// addSorting configures sort order.
func addSorting(req *bleve.SearchRequest, params SearchParams) {
	field := ""
	switch params.SortBy {
	case "recent":
		field = "created_at"
	case "updated":
		field = "updated_at"
	default:
		// Relevance (score) is default
		req.SortBy([]string{"-_score", "_id"})
		return
	}
	if params.SortOrder == "asc" {
		req.SortBy([]string{field, "_id"})
	} else {
		req.SortBy([]string{"-" + field, "_id"})
	}
}

// extractFacets converts Bleve facets to our format.
func extractFacets(result *bleve.SearchResult) SearchFacets {
	facets := SearchFacets{}

	if typeFacet, ok := result.Facets["session_type"]; ok && typeFacet.Terms != nil {
		for _, term := range typeFacet.Terms.Terms() {
			facets.Types = append(facets.Types, FacetCount{Value: term.Term, Count: term.Count})
		}
	}
	if tagFacet, ok := result.Facets["tags"]; ok && tagFacet.Terms != nil {
		for _, term := range tagFacet.Terms.Terms() {
			facets.Tags = append(facets.Tags, FacetCount{Value: term.Term, Count: term.Count})
		}
	}
	return facets
}
