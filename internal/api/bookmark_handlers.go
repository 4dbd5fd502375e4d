package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/linkstashapp/linkstash-server/internal/domain"
	"github.com/linkstashapp/linkstash-server/internal/service"
)

func (s *Server) registerBookmarkRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBookmarks",
		Method:      http.MethodGet,
		Path:        "/api/v1/bookmarks",
		Summary:     "List bookmarks",
		Description: "Returns the user's bookmarks, optionally filtered by label",
		Tags:        []string{"Bookmarks"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleListBookmarks)

	huma.Register(s.api, huma.Operation{
		OperationID: "createBookmark",
		Method:      http.MethodPost,
		Path:        "/api/v1/bookmarks",
		Summary:     "Create bookmark",
		Description: "Saves a URL; missing metadata is fetched in the background",
		Tags:        []string{"Bookmarks"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleCreateBookmark)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBookmark",
		Method:      http.MethodPut,
		Path:        "/api/v1/bookmarks/{id}",
		Summary:     "Update bookmark",
		Description: "Applies a partial update to a bookmark",
		Tags:        []string{"Bookmarks"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleUpdateBookmark)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBookmark",
		Method:      http.MethodDelete,
		Path:        "/api/v1/bookmarks/{id}",
		Summary:     "Delete bookmark",
		Description: "Deletes a bookmark",
		Tags:        []string{"Bookmarks"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleDeleteBookmark)

	huma.Register(s.api, huma.Operation{
		OperationID: "attachLabel",
		Method:      http.MethodPost,
		Path:        "/api/v1/bookmarks/{id}/labels/{labelId}",
		Summary:     "Attach label",
		Description: "Attaches a label to a bookmark",
		Tags:        []string{"Bookmarks"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleAttachLabel)

	huma.Register(s.api, huma.Operation{
		OperationID: "detachLabel",
		Method:      http.MethodDelete,
		Path:        "/api/v1/bookmarks/{id}/labels/{labelId}",
		Summary:     "Detach label",
		Description: "Detaches a label from a bookmark",
		Tags:        []string{"Bookmarks"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleDetachLabel)
}

// === DTOs ===

// LabelRefResponse is the {id, name} label projection on bookmark reads.
type LabelRefResponse struct {
	ID   string `json:"id" doc:"Label ID"`
	Name string `json:"name" doc:"Label name"`
}

// BookmarkResponse contains bookmark data in API responses.
type BookmarkResponse struct {
	ID        string             `json:"id" doc:"Bookmark ID"`
	URL       string             `json:"url" doc:"Saved URL"`
	Title     string             `json:"title,omitempty" doc:"Page title"`
	Thumbnail string             `json:"thumbnail,omitempty" doc:"Thumbnail URL"`
	Labels    []LabelRefResponse `json:"labels" doc:"Attached labels"`
	CreatedAt time.Time          `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time          `json:"updated_at" doc:"Last update time"`
}

// ListBookmarksInput contains parameters for listing bookmarks.
type ListBookmarksInput struct {
	SessionInput
	LabelID string `query:"labelId" doc:"Only return bookmarks carrying this label"`
}

// ListBookmarksResponse contains a list of bookmarks.
type ListBookmarksResponse struct {
	Bookmarks []BookmarkResponse `json:"bookmarks" doc:"List of bookmarks"`
}

// ListBookmarksOutput wraps the list bookmarks response for Huma.
type ListBookmarksOutput struct {
	Body ListBookmarksResponse
}

// CreateBookmarkRequest is the request body for creating a bookmark.
type CreateBookmarkRequest struct {
	URL       string `json:"url,omitempty" validate:"required,url" doc:"URL to save"`
	Title     string `json:"title,omitempty" validate:"omitempty,max=500" doc:"Title override"`
	Thumbnail string `json:"thumbnail,omitempty" validate:"omitempty,url" doc:"Thumbnail override"`
}

// CreateBookmarkInput wraps the create bookmark request for Huma.
type CreateBookmarkInput struct {
	SessionInput
	Body CreateBookmarkRequest
}

// BookmarkOutput wraps a single bookmark response for Huma.
type BookmarkOutput struct {
	Body BookmarkResponse
}

// UpdateBookmarkRequest is the request body for updating a bookmark.
// Absent fields are left unchanged.
type UpdateBookmarkRequest struct {
	URL       *string `json:"url,omitempty" validate:"omitempty,url" doc:"New URL"`
	Title     *string `json:"title,omitempty" validate:"omitempty,max=500" doc:"New title"`
	Thumbnail *string `json:"thumbnail,omitempty" validate:"omitempty,url" doc:"New thumbnail"`
}

// UpdateBookmarkInput wraps the update bookmark request for Huma.
type UpdateBookmarkInput struct {
	SessionInput
	ID   string `path:"id" doc:"Bookmark ID"`
	Body UpdateBookmarkRequest
}

// DeleteBookmarkInput contains parameters for deleting a bookmark.
type DeleteBookmarkInput struct {
	SessionInput
	ID string `path:"id" doc:"Bookmark ID"`
}

// BookmarkLabelInput addresses a bookmark/label pair.
type BookmarkLabelInput struct {
	SessionInput
	ID      string `path:"id" doc:"Bookmark ID"`
	LabelID string `path:"labelId" doc:"Label ID"`
}

// === Handlers ===

func (s *Server) handleListBookmarks(ctx context.Context, input *ListBookmarksInput) (*ListBookmarksOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Session)
	if err != nil {
		return nil, err
	}

	bookmarks, err := s.services.Bookmarks.GetBookmarks(ctx, userID, input.LabelID)
	if err != nil {
		return nil, err
	}

	resp := make([]BookmarkResponse, len(bookmarks))
	for i, b := range bookmarks {
		resp[i] = mapBookmarkResponse(b)
	}

	return &ListBookmarksOutput{Body: ListBookmarksResponse{Bookmarks: resp}}, nil
}

func (s *Server) handleCreateBookmark(ctx context.Context, input *CreateBookmarkInput) (*BookmarkOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Session)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	b, err := s.services.Bookmarks.AddBookmark(ctx, userID, input.Body.URL, input.Body.Title, input.Body.Thumbnail)
	if err != nil {
		return nil, err
	}

	return &BookmarkOutput{Body: mapBookmarkResponse(b)}, nil
}

func (s *Server) handleUpdateBookmark(ctx context.Context, input *UpdateBookmarkInput) (*BookmarkOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Session)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	b, err := s.services.Bookmarks.UpdateBookmark(ctx, userID, input.ID, service.BookmarkPatch{
		URL:       input.Body.URL,
		Title:     input.Body.Title,
		Thumbnail: input.Body.Thumbnail,
	})
	if err != nil {
		return nil, err
	}

	return &BookmarkOutput{Body: mapBookmarkResponse(b)}, nil
}

func (s *Server) handleDeleteBookmark(ctx context.Context, input *DeleteBookmarkInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Session)
	if err != nil {
		return nil, err
	}

	if err := s.services.Bookmarks.DeleteBookmark(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "bookmark deleted"}}, nil
}

func (s *Server) handleAttachLabel(ctx context.Context, input *BookmarkLabelInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Session)
	if err != nil {
		return nil, err
	}

	if err := s.services.Bookmarks.AttachLabel(ctx, userID, input.ID, input.LabelID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "label attached"}}, nil
}

func (s *Server) handleDetachLabel(ctx context.Context, input *BookmarkLabelInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Session)
	if err != nil {
		return nil, err
	}

	if err := s.services.Bookmarks.DetachLabel(ctx, userID, input.ID, input.LabelID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "label detached"}}, nil
}

// === Helpers ===

func mapBookmarkResponse(b *domain.Bookmark) BookmarkResponse {
	labels := make([]LabelRefResponse, len(b.Labels))
	for i, l := range b.Labels {
		labels[i] = LabelRefResponse{ID: l.ID, Name: l.Name}
	}

	return BookmarkResponse{
		ID:        b.ID,
		URL:       b.URL,
		Title:     b.Title,
		Thumbnail: b.Thumbnail,
		Labels:    labels,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
