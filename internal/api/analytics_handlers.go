package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cupnotes/cupnotes-server/internal/analytics"
	"github.com/cupnotes/cupnotes-server/internal/domain"
)

func (s *Server) registerAnalyticsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getSessionStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{id}/stats",
		Summary:     "Session statistics",
		Description: "Counts, average scores, top flavor categories, and duration of a session",
		Tags:        []string{"Analytics"},
	}, s.handleSessionStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUniformity",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{id}/uniformity",
		Summary:     "Cup uniformity",
		Description: "Scores how consistent each coffee's cups were (100 is perfectly uniform)",
		Tags:        []string{"Analytics"},
	}, s.handleUniformity)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCoffeeAverages",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{id}/averages",
		Summary:     "Coffee averages",
		Description: "Average rating per attribute and average cup total for each coffee",
		Tags:        []string{"Analytics"},
	}, s.handleCoffeeAverages)

	huma.Register(s.api, huma.Operation{
		OperationID: "compareCoffees",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{id}/compare",
		Summary:     "Compare coffees",
		Description: "Score deltas and shared or unique flavors for two coffees of a session",
		Tags:        []string{"Analytics"},
	}, s.handleCompareCoffees)

	huma.Register(s.api, huma.Operation{
		OperationID: "getFlavorFrequency",
		Method:      http.MethodGet,
		Path:        "/api/v1/analytics/flavors/frequency",
		Summary:     "Flavor frequency",
		Description: "How often each flavor was picked, across the journal or within one session",
		Tags:        []string{"Analytics"},
	}, s.handleFlavorFrequency)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTopFlavors",
		Method:      http.MethodGet,
		Path:        "/api/v1/analytics/flavors/top",
		Summary:     "Top flavors",
		Description: "The most picked flavors across the journal",
		Tags:        []string{"Analytics"},
	}, s.handleTopFlavors)
}

// === DTOs ===

// StatsOutput wraps session statistics for Huma.
type StatsOutput struct {
	Body *analytics.Stats
}

// UniformityOutput wraps per-coffee uniformity for Huma.
type UniformityOutput struct {
	Body []analytics.Uniformity
}

// CoffeeAveragesOutput wraps per-coffee averages for Huma.
type CoffeeAveragesOutput struct {
	Body []domain.CoffeeAverages
}

// CompareCoffeesInput names the session and the two coffees.
type CompareCoffeesInput struct {
	ID      string `path:"id" doc:"Session ID"`
	Coffee1 string `query:"coffee1" required:"true" doc:"First coffee ID"`
	Coffee2 string `query:"coffee2" required:"true" doc:"Second coffee ID"`
}

// ComparisonOutput wraps a coffee comparison for Huma.
type ComparisonOutput struct {
	Body *analytics.Comparison
}

// FlavorFrequencyInput scopes a frequency count.
type FlavorFrequencyInput struct {
	SessionID string `query:"session_id" doc:"Only count this session"`
	Limit     int    `query:"limit" minimum:"0" maximum:"100" doc:"Max flavors; 0 returns all"`
}

// TopFlavorsInput limits the top flavor list.
type TopFlavorsInput struct {
	Limit int `query:"limit" minimum:"1" maximum:"100" default:"10" doc:"Max flavors"`
}

// FlavorCountsOutput wraps flavor counts for Huma.
type FlavorCountsOutput struct {
	Body []domain.FlavorCount
}

// === Handlers ===

func (s *Server) handleSessionStats(ctx context.Context, input *SessionIDInput) (*StatsOutput, error) {
	stats, err := s.services.Analytics.SessionStats(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &StatsOutput{Body: stats}, nil
}

func (s *Server) handleUniformity(ctx context.Context, input *SessionIDInput) (*UniformityOutput, error) {
	scores, err := s.services.Analytics.UniformityScores(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &UniformityOutput{Body: scores}, nil
}

func (s *Server) handleCoffeeAverages(ctx context.Context, input *SessionIDInput) (*CoffeeAveragesOutput, error) {
	averages, err := s.services.Analytics.CoffeeAverages(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &CoffeeAveragesOutput{Body: averages}, nil
}

func (s *Server) handleCompareCoffees(ctx context.Context, input *CompareCoffeesInput) (*ComparisonOutput, error) {
	res, err := s.services.Analytics.CoffeeComparison(ctx, input.ID, input.Coffee1, input.Coffee2)
	if err != nil {
		return nil, err
	}
	return &ComparisonOutput{Body: res}, nil
}

func (s *Server) handleFlavorFrequency(ctx context.Context, input *FlavorFrequencyInput) (*FlavorCountsOutput, error) {
	counts, err := s.services.Analytics.FlavorFrequency(ctx, domain.FlavorFrequencyFilter{
		SessionID: input.SessionID,
		Limit:     input.Limit,
	})
	if err != nil {
		return nil, err
	}
	return &FlavorCountsOutput{Body: counts}, nil
}

func (s *Server) handleTopFlavors(ctx context.Context, input *TopFlavorsInput) (*FlavorCountsOutput, error) {
	counts, err := s.services.Analytics.TopFlavors(ctx, input.Limit)
	if err != nil {
		return nil, err
	}
	return &FlavorCountsOutput{Body: counts}, nil
}
