package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/linkstashapp/linkstash-server/internal/domain"
)

func (s *Server) registerLabelRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listLabels",
		Method:      http.MethodGet,
		Path:        "/api/v1/labels",
		Summary:     "List labels",
		Description: "Returns all labels for the current user",
		Tags:        []string{"Labels"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleListLabels)

	huma.Register(s.api, huma.Operation{
		OperationID: "createLabel",
		Method:      http.MethodPost,
		Path:        "/api/v1/labels",
		Summary:     "Create label",
		Description: "Creates a new label",
		Tags:        []string{"Labels"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleCreateLabel)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateLabel",
		Method:      http.MethodPut,
		Path:        "/api/v1/labels/{id}",
		Summary:     "Update label",
		Description: "Renames a label",
		Tags:        []string{"Labels"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleUpdateLabel)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteLabel",
		Method:      http.MethodDelete,
		Path:        "/api/v1/labels/{id}",
		Summary:     "Delete label",
		Description: "Deletes a label; bookmarks keep working without it",
		Tags:        []string{"Labels"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleDeleteLabel)
}

// === DTOs ===

// LabelResponse contains label data in API responses.
type LabelResponse struct {
	ID        string    `json:"id" doc:"Label ID"`
	Name      string    `json:"name" doc:"Label name"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

// ListLabelsResponse contains a list of labels.
type ListLabelsResponse struct {
	Labels []LabelResponse `json:"labels" doc:"List of labels"`
}

// ListLabelsOutput wraps the list labels response for Huma.
type ListLabelsOutput struct {
	Body ListLabelsResponse
}

// LabelRequest is the request body for creating or renaming a label.
type LabelRequest struct {
	Name string `json:"name,omitempty" validate:"required,min=1,max=100" doc:"Label name"`
}

// CreateLabelInput wraps the create label request for Huma.
type CreateLabelInput struct {
	SessionInput
	Body LabelRequest
}

// LabelOutput wraps a single label response for Huma.
type LabelOutput struct {
	Body LabelResponse
}

// UpdateLabelInput wraps the rename label request for Huma.
type UpdateLabelInput struct {
	SessionInput
	ID   string `path:"id" doc:"Label ID"`
	Body LabelRequest
}

// DeleteLabelInput contains parameters for deleting a label.
type DeleteLabelInput struct {
	SessionInput
	ID string `path:"id" doc:"Label ID"`
}

// === Handlers ===

func (s *Server) handleListLabels(ctx context.Context, input *SessionInput) (*ListLabelsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Session)
	if err != nil {
		return nil, err
	}

	labels, err := s.services.Labels.GetLabels(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]LabelResponse, len(labels))
	for i, l := range labels {
		resp[i] = mapLabelResponse(l)
	}

	return &ListLabelsOutput{Body: ListLabelsResponse{Labels: resp}}, nil
}

func (s *Server) handleCreateLabel(ctx context.Context, input *CreateLabelInput) (*LabelOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Session)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	l, err := s.services.Labels.CreateLabel(ctx, userID, input.Body.Name)
	if err != nil {
		return nil, err
	}

	return &LabelOutput{Body: mapLabelResponse(l)}, nil
}

func (s *Server) handleUpdateLabel(ctx context.Context, input *UpdateLabelInput) (*LabelOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Session)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	l, err := s.services.Labels.UpdateLabel(ctx, userID, input.ID, input.Body.Name)
	if err != nil {
		return nil, err
	}

	return &LabelOutput{Body: mapLabelResponse(l)}, nil
}

func (s *Server) handleDeleteLabel(ctx context.Context, input *DeleteLabelInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Session)
	if err != nil {
		return nil, err
	}

	if err := s.services.Labels.DeleteLabel(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "label deleted"}}, nil
}

// === Helpers ===

func mapLabelResponse(l *domain.Label) LabelResponse {
	return LabelResponse{
		ID:        l.ID,
		Name:      l.Name,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
