package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cupnotes/cupnotes-server/internal/domain"
)

func (s *Server) registerCupRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCup",
		Method:      http.MethodGet,
		Path:        "/api/v1/cups/{id}",
		Summary:     "Get cup",
		Description: "Returns one cup with its scores and flavors",
		Tags:        []string{"Cups"},
	}, s.handleGetCup)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCupScores",
		Method:      http.MethodPatch,
		Path:        "/api/v1/cups/{id}/scores",
		Summary:     "Update cup scores",
		Description: "Sets the given ratings (1-5). Omitted ratings keep their value; unset required ratings default to 3.",
		Tags:        []string{"Cups"},
	}, s.handleUpdateCupScores)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCupFlavors",
		Method:      http.MethodPut,
		Path:        "/api/v1/cups/{id}/flavors",
		Summary:     "Replace cup flavors",
		Description: "Replaces the cup's flavor selection. The last write wins.",
		Tags:        []string{"Cups"},
	}, s.handleUpdateCupFlavors)
}

// === DTOs ===

// CupIDInput identifies a cup in the path.
type CupIDInput struct {
	ID string `path:"id" doc:"Cup ID"`
}

// CupOutput wraps a cup for Huma.
type CupOutput struct {
	Body *domain.Cup
}

// UpdateCupScoresInput wraps a partial score change for Huma.
type UpdateCupScoresInput struct {
	ID   string `path:"id" doc:"Cup ID"`
	Body domain.ScoreUpdate
}

// FlavorSelection is one flavor picked for a cup.
type FlavorSelection struct {
	FlavorID  int  `json:"flavorId" doc:"Catalog flavor ID"`
	Intensity int  `json:"intensity" doc:"Intensity from 1 to 5"`
	Dominant  bool `json:"dominant,omitempty" doc:"Marks a dominant flavor"`
}

// UpdateCupFlavorsRequest is the full flavor selection for a cup.
type UpdateCupFlavorsRequest struct {
	Flavors []FlavorSelection `json:"flavors" maxItems:"50" doc:"Flavors to keep; an empty list clears the cup"`
}

// UpdateCupFlavorsInput wraps the flavor request for Huma.
type UpdateCupFlavorsInput struct {
	ID   string `path:"id" doc:"Cup ID"`
	Body UpdateCupFlavorsRequest
}

// === Handlers ===

func (s *Server) handleGetCup(ctx context.Context, input *CupIDInput) (*CupOutput, error) {
	cup, err := s.services.Sessions.GetCup(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &CupOutput{Body: cup}, nil
}

func (s *Server) handleUpdateCupScores(ctx context.Context, input *UpdateCupScoresInput) (*CupOutput, error) {
	cup, err := s.services.Sessions.UpdateCupScores(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &CupOutput{Body: cup}, nil
}

func (s *Server) handleUpdateCupFlavors(ctx context.Context, input *UpdateCupFlavorsInput) (*CupOutput, error) {
	flavors := make([]domain.SelectedFlavor, 0, len(input.Body.Flavors))
	for _, f := range input.Body.Flavors {
		flavors = append(flavors, domain.SelectedFlavor{
			FlavorID:  f.FlavorID,
			Intensity: f.Intensity,
			Dominant:  f.Dominant,
		})
	}

	cup, err := s.services.Sessions.UpdateCupFlavors(ctx, input.ID, flavors)
	if err != nil {
		return nil, err
	}
	return &CupOutput{Body: cup}, nil
}
