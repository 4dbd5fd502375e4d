package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/linkstashapp/linkstash-server/internal/domain"
	domainerrors "github.com/linkstashapp/linkstash-server/internal/errors"
	"github.com/linkstashapp/linkstash-server/internal/service"
)

func (s *Server) registerListRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listLists",
		Method:      http.MethodGet,
		Path:        "/api/v1/lists",
		Summary:     "List lists",
		Description: "Returns all lists for the current user",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleListLists)

	huma.Register(s.api, huma.Operation{
		OperationID: "createList",
		Method:      http.MethodPost,
		Path:        "/api/v1/lists",
		Summary:     "Create list",
		Description: "Creates a new list",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleCreateList)

	huma.Register(s.api, huma.Operation{
		OperationID: "getList",
		Method:      http.MethodGet,
		Path:        "/api/v1/lists/{id}",
		Summary:     "Get list",
		Description: "Returns a list by ID",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleGetList)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateList",
		Method:      http.MethodPut,
		Path:        "/api/v1/lists/{id}",
		Summary:     "Update list",
		Description: "Updates a list's name or description",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleUpdateList)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteList",
		Method:      http.MethodDelete,
		Path:        "/api/v1/lists/{id}",
		Summary:     "Delete list",
		Description: "Deletes a list and its memberships",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleDeleteList)

	huma.Register(s.api, huma.Operation{
		OperationID: "getListBookmarks",
		Method:      http.MethodGet,
		Path:        "/api/v1/lists/{id}/bookmarks",
		Summary:     "Get list bookmarks",
		Description: "Returns the bookmarks in a list",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleGetListBookmarks)

	huma.Register(s.api, huma.Operation{
		OperationID: "addBookmarkToList",
		Method:      http.MethodPost,
		Path:        "/api/v1/lists/{id}/bookmarks",
		Summary:     "Add bookmark to list",
		Description: "Puts a bookmark into a list",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleAddBookmarkToList)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeBookmarkFromList",
		Method:      http.MethodDelete,
		Path:        "/api/v1/lists/{id}/bookmarks/{bookmarkId}",
		Summary:     "Remove bookmark from list",
		Description: "Takes a bookmark out of a list",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleRemoveBookmarkFromList)
}

// === DTOs ===

// ListResponse contains list data in API responses.
type ListResponse struct {
	ID          string    `json:"id" doc:"List ID"`
	Name        string    `json:"name" doc:"List name"`
	Description string    `json:"description,omitempty" doc:"List description"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

// ListListsResponse contains the user's lists.
type ListListsResponse struct {
	Lists []ListResponse `json:"lists" doc:"List of lists"`
}

// ListListsOutput wraps the lists response for Huma.
type ListListsOutput struct {
	Body ListListsResponse
}

// CreateListRequest is the request body for creating a list.
type CreateListRequest struct {
	Name        string `json:"name,omitempty" validate:"required,min=1,max=100" doc:"List name"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500" doc:"List description"`
}

// CreateListInput wraps the create list request for Huma.
type CreateListInput struct {
	SessionInput
	Body CreateListRequest
}

// ListOutput wraps a single list response for Huma.
type ListOutput struct {
	Body ListResponse
}

// GetListInput contains parameters for fetching a list.
type GetListInput struct {
	SessionInput
	ID string `path:"id" doc:"List ID"`
}

// UpdateListRequest is the request body for updating a list.
// Absent fields are left unchanged.
type UpdateListRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100" doc:"New name"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500" doc:"New description"`
}

// UpdateListInput wraps the update list request for Huma.
type UpdateListInput struct {
	SessionInput
	ID   string `path:"id" doc:"List ID"`
	Body UpdateListRequest
}

// AddListBookmarkRequest is the request body for adding a bookmark to a list.
type AddListBookmarkRequest struct {
	BookmarkID string `json:"bookmarkId,omitempty" doc:"Bookmark ID to add"`
}

// AddListBookmarkInput wraps the add request for Huma.
type AddListBookmarkInput struct {
	SessionInput
	ID   string `path:"id" doc:"List ID"`
	Body AddListBookmarkRequest
}

// RemoveListBookmarkInput addresses a list/bookmark membership.
type RemoveListBookmarkInput struct {
	SessionInput
	ID         string `path:"id" doc:"List ID"`
	BookmarkID string `path:"bookmarkId" doc:"Bookmark ID to remove"`
}

// SuccessResponse is the bare acknowledgement used by membership writes.
type SuccessResponse struct {
	Success bool `json:"success" doc:"Whether the operation succeeded"`
}

// SuccessOutput wraps the acknowledgement for Huma.
type SuccessOutput struct {
	Body SuccessResponse
}

// === Handlers ===

func (s *Server) handleListLists(ctx context.Context, input *SessionInput) (*ListListsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Session)
	if err != nil {
		return nil, err
	}

	lists, err := s.services.Lists.GetLists(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]ListResponse, len(lists))
	for i, l := range lists {
		resp[i] = mapListResponse(l)
	}

	return &ListListsOutput{Body: ListListsResponse{Lists: resp}}, nil
}

func (s *Server) handleCreateList(ctx context.Context, input *CreateListInput) (*ListOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Session)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	l, err := s.services.Lists.CreateList(ctx, userID, input.Body.Name, input.Body.Description)
	if err != nil {
		return nil, err
	}

	return &ListOutput{Body: mapListResponse(l)}, nil
}

func (s *Server) handleGetList(ctx context.Context, input *GetListInput) (*ListOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Session)
	if err != nil {
		return nil, err
	}

	l, err := s.services.Lists.GetList(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &ListOutput{Body: mapListResponse(l)}, nil
}

func (s *Server) handleUpdateList(ctx context.Context, input *UpdateListInput) (*ListOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Session)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	l, err := s.services.Lists.UpdateList(ctx, userID, input.ID, service.ListPatch{
		Name:        input.Body.Name,
		Description: input.Body.Description,
	})
	if err != nil {
		return nil, err
	}

	return &ListOutput{Body: mapListResponse(l)}, nil
}

func (s *Server) handleDeleteList(ctx context.Context, input *GetListInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Session)
	if err != nil {
		return nil, err
	}

	if err := s.services.Lists.DeleteList(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "list deleted"}}, nil
}

func (s *Server) handleGetListBookmarks(ctx context.Context, input *GetListInput) (*ListBookmarksOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Session)
	if err != nil {
		return nil, err
	}

	bookmarks, err := s.services.Lists.GetBookmarks(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]BookmarkResponse, len(bookmarks))
	for i, b := range bookmarks {
		resp[i] = mapBookmarkResponse(b)
	}

	return &ListBookmarksOutput{Body: ListBookmarksResponse{Bookmarks: resp}}, nil
}

func (s *Server) handleAddBookmarkToList(ctx context.Context, input *AddListBookmarkInput) (*SuccessOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Session)
	if err != nil {
		return nil, err
	}
	if input.Body.BookmarkID == "" {
		return nil, domainerrors.Validation(domainerrors.CodeMissingParameters, "bookmarkId is required")
	}

	if err := s.services.Lists.AddBookmark(ctx, userID, input.ID, input.Body.BookmarkID); err != nil {
		return nil, err
	}

	return &SuccessOutput{Body: SuccessResponse{Success: true}}, nil
}

func (s *Server) handleRemoveBookmarkFromList(ctx context.Context, input *RemoveListBookmarkInput) (*SuccessOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Session)
	if err != nil {
		return nil, err
	}

	if err := s.services.Lists.RemoveBookmark(ctx, userID, input.ID, input.BookmarkID); err != nil {
		return nil, err
	}

	return &SuccessOutput{Body: SuccessResponse{Success: true}}, nil
}

// === Helpers ===

func mapListResponse(l *domain.List) ListResponse {
	return ListResponse{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}
