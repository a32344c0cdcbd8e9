package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cupnotes/cupnotes-server/internal/search"
	"github.com/cupnotes/cupnotes-server/internal/util"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchSessions",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search journal",
		Description: "Full-text search over session notes, tags, coffees, and cup notes",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// === DTOs ===

// SearchInput contains parameters for searching the journal.
type SearchInput struct {
	Query       string `query:"q" maxLength:"200" doc:"Search query; empty matches every session"`
	SessionType string `query:"type" enum:"single-coffee,multi-coffee,table-cupping" doc:"Only sessions of this type"`
	Tags        string `query:"tags" maxLength:"200" doc:"Comma-separated tags; all must match"`
	Sort        string `query:"sort" enum:"relevance,recent,updated" default:"relevance" doc:"Sort order basis"`
	Order       string `query:"order" enum:"asc,desc" default:"desc" doc:"Sort direction"`
	Limit       int    `query:"limit" minimum:"1" maximum:"100" default:"20" doc:"Max hits"`
	Offset      int    `query:"offset" minimum:"0" doc:"Hits to skip"`
	Facets      bool   `query:"facets" doc:"Include type and tag facets"`
}

// SearchOutput wraps the search result for Huma.
type SearchOutput struct {
	Body *search.SearchResult
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	params := search.DefaultSearchParams()
	params.Query = input.Query
	params.SessionType = input.SessionType
	params.Tags = util.NormalizeTags(splitCSV(input.Tags))
	params.SortBy = input.Sort
	params.SortOrder = input.Order
	params.Offset = input.Offset
	params.IncludeFacets = input.Facets
	if input.Limit > 0 {
		params.Limit = min(input.Limit, MaxPageSize)
	}

	s.logger.Debug("search request received",
		"query", input.Query,
		"type", input.SessionType,
		"limit", params.Limit,
	)

	result, err := s.services.Sessions.SearchSessions(ctx, params)
	if err != nil {
		return nil, err
	}
	return &SearchOutput{Body: result}, nil
}
