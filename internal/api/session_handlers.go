package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cupnotes/cupnotes-server/internal/domain"
	domainerrors "github.com/cupnotes/cupnotes-server/internal/errors"
	"github.com/cupnotes/cupnotes-server/internal/service"
)

func (s *Server) registerSessionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createSession",
		Method:        http.MethodPost,
		Path:          "/api/v1/sessions",
		Summary:       "Create session",
		Description:   "Starts a session with one coffee and the cups its type implies",
		Tags:          []string{"Sessions"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "listSessions",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions",
		Summary:     "List sessions",
		Description: "Lists sessions with optional type and date filters",
		Tags:        []string{"Sessions"},
	}, s.handleListSessions)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSession",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{id}",
		Summary:     "Get session",
		Description: "Returns a session with its coffees, cups, and flavors",
		Tags:        []string{"Sessions"},
	}, s.handleGetSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateSession",
		Method:      http.MethodPatch,
		Path:        "/api/v1/sessions/{id}",
		Summary:     "Update session",
		Description: "Updates session metadata, coffee details, and cup notes. Omitted fields keep their value.",
		Tags:        []string{"Sessions"},
	}, s.handleUpdateSession)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteSession",
		Method:        http.MethodDelete,
		Path:          "/api/v1/sessions/{id}",
		Summary:       "Delete session",
		Description:   "Permanently deletes a session and everything in it",
		Tags:          []string{"Sessions"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteSession)

	huma.Register(s.api, huma.Operation{
		OperationID:   "duplicateSession",
		Method:        http.MethodPost,
		Path:          "/api/v1/sessions/{id}/duplicate",
		Summary:       "Duplicate session",
		Description:   "Copies a session, its coffees, cups, and flavors under new ids",
		Tags:          []string{"Sessions"},
		DefaultStatus: http.StatusCreated,
	}, s.handleDuplicateSession)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addCoffee",
		Method:        http.MethodPost,
		Path:          "/api/v1/sessions/{id}/coffees",
		Summary:       "Add coffee",
		Description:   "Adds a coffee and its cups to a session",
		Tags:          []string{"Sessions"},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddCoffee)

	huma.Register(s.api, huma.Operation{
		OperationID:   "removeCoffee",
		Method:        http.MethodDelete,
		Path:          "/api/v1/sessions/{id}/coffees/{coffeeId}",
		Summary:       "Remove coffee",
		Description:   "Removes a coffee from a session. The last coffee cannot be removed.",
		Tags:          []string{"Sessions"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleRemoveCoffee)
}

// === DTOs ===

// CreateSessionRequest is the body for creating a session.
type CreateSessionRequest struct {
	SessionType string `json:"sessionType" enum:"single-coffee,multi-coffee,table-cupping" doc:"Session type, fixed at creation"`
}

// CreateSessionInput wraps the create request for Huma.
type CreateSessionInput struct {
	Body CreateSessionRequest
}

// SessionOutput wraps a session for Huma.
type SessionOutput struct {
	Body *domain.Session
}

// SessionIDInput identifies a session in the path.
type SessionIDInput struct {
	ID string `path:"id" doc:"Session ID"`
}

// ListSessionsInput contains filters for listing sessions.
type ListSessionsInput struct {
	Type          string `query:"type" enum:"single-coffee,multi-coffee,table-cupping" doc:"Only sessions of this type"`
	CreatedAfter  string `query:"created_after" doc:"RFC3339 or epoch ms, inclusive"`
	CreatedBefore string `query:"created_before" doc:"RFC3339 or epoch ms, inclusive"`
	Sort          string `query:"sort" enum:"created_at,updated_at" default:"created_at" doc:"Sort field"`
	Order         string `query:"order" enum:"asc,desc" default:"desc" doc:"Sort order"`
	Limit         int    `query:"limit" minimum:"1" maximum:"100" default:"20" doc:"Page size"`
	Offset        int    `query:"offset" minimum:"0" doc:"Sessions to skip"`
}

// SessionPageOutput wraps a page of sessions for Huma.
type SessionPageOutput struct {
	Body *service.SessionPage
}

// UpdateSessionRequest holds the fields to change. Nil fields are left alone.
type UpdateSessionRequest struct {
	Mode       string         `json:"mode,omitempty" enum:"taste,pro" doc:"Session mode"`
	Notes      *string        `json:"notes,omitempty" maxLength:"10000" doc:"Session notes"`
	Tags       []string       `json:"tags,omitempty" maxItems:"50" doc:"Replaces the tag set"`
	SyncStatus string         `json:"syncStatus,omitempty" enum:"local-only,synced,pending,conflict" doc:"Sync status"`
	Coffees    []CoffeeUpdate `json:"coffees,omitempty" doc:"Coffee changes, matched by id"`
}

// CoffeeUpdate changes one existing coffee.
type CoffeeUpdate struct {
	ID         string      `json:"id" doc:"Coffee ID"`
	Name       *string     `json:"name,omitempty" minLength:"1" maxLength:"200" doc:"Coffee name"`
	Roaster    *string     `json:"roaster,omitempty" maxLength:"200" doc:"Roaster"`
	Origin     *string     `json:"origin,omitempty" maxLength:"200" doc:"Origin"`
	BrewMethod *string     `json:"brewMethod,omitempty" maxLength:"100" doc:"Brew method"`
	RoastLevel *string     `json:"roastLevel,omitempty" doc:"light, medium-light, medium, medium-dark, dark; empty clears"`
	RoastDate  *string     `json:"roastDate,omitempty" doc:"YYYY-MM-DD; empty clears"`
	Cups       []CupUpdate `json:"cups,omitempty" doc:"Cup note changes, matched by id"`
}

// CupUpdate changes one existing cup's notes.
type CupUpdate struct {
	ID    string  `json:"id" doc:"Cup ID"`
	Notes *string `json:"notes,omitempty" maxLength:"5000" doc:"Cup notes"`
}

// UpdateSessionInput wraps the update request for Huma.
type UpdateSessionInput struct {
	ID   string `path:"id" doc:"Session ID"`
	Body UpdateSessionRequest
}

// AddCoffeeRequest describes a coffee to add.
type AddCoffeeRequest struct {
	Name       string `json:"name,omitempty" maxLength:"200" doc:"Coffee name (default: Untitled Coffee)"`
	Roaster    string `json:"roaster,omitempty" maxLength:"200" doc:"Roaster"`
	Origin     string `json:"origin,omitempty" maxLength:"200" doc:"Origin"`
	BrewMethod string `json:"brewMethod,omitempty" maxLength:"100" doc:"Brew method"`
	RoastLevel string `json:"roastLevel,omitempty" doc:"light, medium-light, medium, medium-dark, dark"`
	RoastDate  string `json:"roastDate,omitempty" doc:"YYYY-MM-DD"`
}

// AddCoffeeInput wraps the add coffee request for Huma.
type AddCoffeeInput struct {
	ID   string `path:"id" doc:"Session ID"`
	Body AddCoffeeRequest
}

// CoffeeOutput wraps a coffee for Huma.
type CoffeeOutput struct {
	Body *domain.CoffeeEntry
}

// RemoveCoffeeInput identifies a coffee within a session.
type RemoveCoffeeInput struct {
	ID       string `path:"id" doc:"Session ID"`
	CoffeeID string `path:"coffeeId" doc:"Coffee ID"`
}

// === Handlers ===

func (s *Server) handleCreateSession(ctx context.Context, input *CreateSessionInput) (*SessionOutput, error) {
	session, err := s.services.Sessions.CreateSession(ctx, domain.SessionType(input.Body.SessionType))
	if err != nil {
		return nil, err
	}
	return &SessionOutput{Body: session}, nil
}

func (s *Server) handleListSessions(ctx context.Context, input *ListSessionsInput) (*SessionPageOutput, error) {
	filter := domain.SessionFilter{
		SortBy: domain.SessionSortField(input.Sort),
		Order:  domain.SortOrder(input.Order),
		Limit:  input.Limit,
		Offset: input.Offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultPageSize
	}
	filter.Limit = min(filter.Limit, MaxPageSize)
	if input.Type != "" {
		t := domain.SessionType(input.Type)
		filter.Type = &t
	}

	var err error
	if filter.CreatedAfter, err = parseOptionalTime(input.CreatedAfter); err != nil {
		return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{"created_after": err.Error()})
	}
	if filter.CreatedBefore, err = parseOptionalTime(input.CreatedBefore); err != nil {
		return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{"created_before": err.Error()})
	}

	page, err := s.services.Sessions.ListSessions(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &SessionPageOutput{Body: page}, nil
}

func (s *Server) handleGetSession(ctx context.Context, input *SessionIDInput) (*SessionOutput, error) {
	session, err := s.services.Sessions.GetSession(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &SessionOutput{Body: session}, nil
}

func (s *Server) handleUpdateSession(ctx context.Context, input *UpdateSessionInput) (*SessionOutput, error) {
	session, err := s.services.Sessions.GetSession(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if err := applySessionUpdate(session, input.Body); err != nil {
		return nil, err
	}

	updated, err := s.services.Sessions.UpdateSession(ctx, session)
	if err != nil {
		return nil, err
	}
	return &SessionOutput{Body: updated}, nil
}

func (s *Server) handleDeleteSession(ctx context.Context, input *SessionIDInput) (*struct{}, error) {
	if err := s.services.Sessions.DeleteSession(ctx, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleDuplicateSession(ctx context.Context, input *SessionIDInput) (*SessionOutput, error) {
	dup, err := s.services.Sessions.DuplicateSession(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &SessionOutput{Body: dup}, nil
}

func (s *Server) handleAddCoffee(ctx context.Context, input *AddCoffeeInput) (*CoffeeOutput, error) {
	roastLevel, err := parseRoastLevel(input.Body.RoastLevel)
	if err != nil {
		return nil, err
	}
	roastDate, err := parseRoastDate(input.Body.RoastDate)
	if err != nil {
		return nil, err
	}

	coffee, err := s.services.Sessions.AddCoffee(ctx, input.ID, &domain.CoffeeEntry{
		Name:       input.Body.Name,
		Roaster:    input.Body.Roaster,
		Origin:     input.Body.Origin,
		BrewMethod: input.Body.BrewMethod,
		RoastLevel: roastLevel,
		RoastDate:  roastDate,
	})
	if err != nil {
		return nil, err
	}
	return &CoffeeOutput{Body: coffee}, nil
}

func (s *Server) handleRemoveCoffee(ctx context.Context, input *RemoveCoffeeInput) (*struct{}, error) {
	if err := s.services.Sessions.RemoveCoffee(ctx, input.ID, input.CoffeeID); err != nil {
		return nil, err
	}
	return nil, nil
}

// applySessionUpdate copies the set fields of req onto session.
func applySessionUpdate(session *domain.Session, req UpdateSessionRequest) error {
	if req.Mode != "" {
		session.Mode = domain.SessionMode(req.Mode)
	}
	if req.Notes != nil {
		session.Notes = *req.Notes
	}
	if req.Tags != nil {
		session.Tags = req.Tags
	}
	if req.SyncStatus != "" {
		session.SyncStatus = domain.SyncStatus(req.SyncStatus)
	}

	for _, cu := range req.Coffees {
		coffee := session.Coffee(cu.ID)
		if coffee == nil {
			return domainerrors.NotFoundf("coffee %s not found in session %s", cu.ID, session.ID)
		}
		if err := applyCoffeeUpdate(coffee, cu); err != nil {
			return err
		}
	}
	return nil
}

func applyCoffeeUpdate(coffee *domain.CoffeeEntry, cu CoffeeUpdate) error {
	if cu.Name != nil {
		coffee.Name = *cu.Name
	}
	if cu.Roaster != nil {
		coffee.Roaster = *cu.Roaster
	}
	if cu.Origin != nil {
		coffee.Origin = *cu.Origin
	}
	if cu.BrewMethod != nil {
		coffee.BrewMethod = *cu.BrewMethod
	}
	if cu.RoastLevel != nil {
		level, err := parseRoastLevel(*cu.RoastLevel)
		if err != nil {
			return err
		}
		coffee.RoastLevel = level
	}
	if cu.RoastDate != nil {
		date, err := parseRoastDate(*cu.RoastDate)
		if err != nil {
			return err
		}
		coffee.RoastDate = date
	}

	for _, cup := range cu.Cups {
		idx := -1
		for i := range coffee.Cups {
			if coffee.Cups[i].ID == cup.ID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return domainerrors.NotFoundf("cup %s not found in coffee %s", cup.ID, coffee.ID)
		}
		if cup.Notes != nil {
			coffee.Cups[idx].Notes = *cup.Notes
		}
	}
	return nil
}
