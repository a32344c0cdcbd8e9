package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/cupnotes/cupnotes-server/internal/errors"
	"github.com/cupnotes/cupnotes-server/internal/flavor"
)

func (s *Server) registerFlavorRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listFlavors",
		Method:      http.MethodGet,
		Path:        "/api/v1/flavors",
		Summary:     "List flavors",
		Description: "Returns the flavor catalog, optionally one category",
		Tags:        []string{"Flavors"},
	}, s.handleListFlavors)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchFlavors",
		Method:      http.MethodGet,
		Path:        "/api/v1/flavors/search",
		Summary:     "Search flavors",
		Description: "Case-insensitive substring search over names, then descriptions",
		Tags:        []string{"Flavors"},
	}, s.handleSearchFlavors)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFlavorCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/flavors/categories",
		Summary:     "List flavor categories",
		Description: "Returns every category with its color and flavor count",
		Tags:        []string{"Flavors"},
	}, s.handleFlavorCategories)

	huma.Register(s.api, huma.Operation{
		OperationID: "getFlavorLayout",
		Method:      http.MethodGet,
		Path:        "/api/v1/flavors/layout",
		Summary:     "Flavor wheel layout",
		Description: "Positions on concentric rings for drawing the flavor wheel",
		Tags:        []string{"Flavors"},
	}, s.handleFlavorLayout)

	huma.Register(s.api, huma.Operation{
		OperationID: "getFlavor",
		Method:      http.MethodGet,
		Path:        "/api/v1/flavors/{id}",
		Summary:     "Get flavor",
		Description: "Returns one catalog flavor",
		Tags:        []string{"Flavors"},
	}, s.handleGetFlavor)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRelatedFlavors",
		Method:      http.MethodGet,
		Path:        "/api/v1/flavors/{id}/related",
		Summary:     "Related flavors",
		Description: "Flavors often perceived together with this one",
		Tags:        []string{"Flavors"},
	}, s.handleRelatedFlavors)
}

// === DTOs ===

// ListFlavorsInput optionally narrows the catalog to one category.
type ListFlavorsInput struct {
	Category string `query:"category" doc:"Category name, e.g. FRUITY"`
}

// SearchFlavorsInput holds a catalog search query.
type SearchFlavorsInput struct {
	Query string `query:"q" required:"true" maxLength:"100" doc:"Search text"`
}

// FlavorIDInput identifies a catalog flavor.
type FlavorIDInput struct {
	ID int `path:"id" minimum:"1" doc:"Flavor ID"`
}

// FlavorLayoutInput sizes the wheel layout.
type FlavorLayoutInput struct {
	Count int `query:"count" minimum:"0" maximum:"1000" doc:"Items to place; 0 places the whole catalog"`
}

// FlavorsOutput wraps a list of catalog flavors for Huma.
type FlavorsOutput struct {
	CacheControl string `header:"Cache-Control"`
	Body         []flavor.Flavor
}

// FlavorOutput wraps one catalog flavor for Huma.
type FlavorOutput struct {
	CacheControl string `header:"Cache-Control"`
	Body         flavor.Flavor
}

// FlavorCategoriesOutput wraps the category summaries for Huma.
type FlavorCategoriesOutput struct {
	CacheControl string `header:"Cache-Control"`
	Body         []flavor.CategorySummary
}

// FlavorLayoutOutput wraps wheel positions for Huma.
type FlavorLayoutOutput struct {
	CacheControl string `header:"Cache-Control"`
	Body         []flavor.Position
}

// === Handlers ===

func (s *Server) handleListFlavors(_ context.Context, input *ListFlavorsInput) (*FlavorsOutput, error) {
	if input.Category == "" {
		return &FlavorsOutput{CacheControl: CacheOneDay, Body: s.services.Catalog.All()}, nil
	}

	cat := flavor.Category(input.Category)
	if !cat.Valid() {
		return nil, domainerrors.ValidationWithDetails("validation failed",
			map[string]string{"category": "unknown flavor category"})
	}
	return &FlavorsOutput{CacheControl: CacheOneDay, Body: s.services.Catalog.ByCategory(cat)}, nil
}

func (s *Server) handleSearchFlavors(_ context.Context, input *SearchFlavorsInput) (*FlavorsOutput, error) {
	return &FlavorsOutput{CacheControl: CacheOneDay, Body: s.services.Catalog.Search(input.Query)}, nil
}

func (s *Server) handleFlavorCategories(_ context.Context, _ *struct{}) (*FlavorCategoriesOutput, error) {
	return &FlavorCategoriesOutput{CacheControl: CacheOneDay, Body: s.services.Catalog.Categories()}, nil
}

func (s *Server) handleFlavorLayout(_ context.Context, input *FlavorLayoutInput) (*FlavorLayoutOutput, error) {
	count := input.Count
	if count == 0 {
		count = s.services.Catalog.Len()
	}
	return &FlavorLayoutOutput{CacheControl: CacheOneDay, Body: flavor.Layout(count, flavor.DefaultRings)}, nil
}

func (s *Server) handleGetFlavor(_ context.Context, input *FlavorIDInput) (*FlavorOutput, error) {
	f, ok := s.services.Catalog.ByID(input.ID)
	if !ok {
		return nil, domainerrors.NotFoundf("flavor %d not found", input.ID)
	}
	return &FlavorOutput{CacheControl: CacheOneDay, Body: f}, nil
}

func (s *Server) handleRelatedFlavors(_ context.Context, input *FlavorIDInput) (*FlavorsOutput, error) {
	if _, ok := s.services.Catalog.ByID(input.ID); !ok {
		return nil, domainerrors.NotFoundf("flavor %d not found", input.ID)
	}
	return &FlavorsOutput{CacheControl: CacheOneDay, Body: s.services.Catalog.Related(input.ID)}, nil
}
