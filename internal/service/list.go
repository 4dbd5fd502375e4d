package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/linkstashapp/linkstash-server/internal/domain"
	"github.com/linkstashapp/linkstash-server/internal/errors"
	"github.com/linkstashapp/linkstash-server/internal/id"
	"github.com/linkstashapp/linkstash-server/internal/store"
)

// ListService orchestrates list CRUD and bookmark memberships.
type ListService struct {
	store  store.Store
	logger *slog.Logger
}

// NewListService creates a new list service.
func NewListService(store store.Store, logger *slog.Logger) *ListService {
	return &ListService{store: store, logger: logger}
}

// requireListOwner runs the ownership protocol for a list id.
// A syntactically malformed id is rejected as does-not-exist before it
// ever reaches the query layer.
func (s *ListService) requireListOwner(ctx context.Context, listID, userID string) error {
	if !id.Valid(listID) {
		return errors.ListDoesNotExistf("invalid list ID format: %s", listID)
	}

	owner, err := s.store.ListOwner(ctx, listID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.ListDoesNotExistf("the list with id: %s does not exist", listID)
		}
		return errors.ListError("an unexpected error occurred while retrieving the list").WithCause(err)
	}
	if owner != userID {
		return errors.Forbidden(errors.CodeForbiddenList, "you do not have access to this list")
	}
	return nil
}

func (s *ListService) requireBookmarkOwner(ctx context.Context, bookmarkID, userID string) error {
	owner, err := s.store.BookmarkOwner(ctx, bookmarkID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.BookmarkDoesNotExistf("the bookmark with id: %s does not exist", bookmarkID)
		}
		return errors.BookmarkError("an unexpected error occurred while retrieving the bookmark").WithCause(err)
	}
	if owner != userID {
		return errors.Forbidden(errors.CodeForbiddenBookmark, "you do not have access to this bookmark")
	}
	return nil
}

// GetLists returns all of the user's lists.
func (s *ListService) GetLists(ctx context.Context, userID string) ([]*domain.List, error) {
	lists, err := s.store.GetLists(ctx, userID)
	if err != nil {
		return nil, errors.ListError("there was an error retrieving the lists").WithCause(err)
	}
	return lists, nil
}

// GetList returns a single owned list.
func (s *ListService) GetList(ctx context.Context, userID, listID string) (*domain.List, error) {
	if err := s.requireListOwner(ctx, listID, userID); err != nil {
		return nil, err
	}

	l, err := s.store.GetList(ctx, listID)
	if err != nil {
		return nil, errors.ListError("there was an error retrieving the list").WithCause(err)
	}
	return l, nil
}

// CreateList creates a new list.
func (s *ListService) CreateList(ctx context.Context, userID, name, description string) (*domain.List, error) {
	now := time.Now()
	l := &domain.List{
		ID:          id.New(),
		Name:        name,
		Description: description,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateList(ctx, l); err != nil {
		return nil, errors.ListError("there was an error creating the list").WithCause(err)
	}

	s.logger.Info("list created", "list_id", l.ID, "user_id", userID)
	return l, nil
}

// ListPatch holds the partially-defined fields of a list update.
type ListPatch struct {
	Name        *string
	Description *string
}

// UpdateList applies a partial update to an owned list and returns the
// post-update row.
func (s *ListService) UpdateList(ctx context.Context, userID, listID string, patch ListPatch) (*domain.List, error) {
	if err := s.requireListOwner(ctx, listID, userID); err != nil {
		return nil, err
	}

	l, err := s.store.GetList(ctx, listID)
	if err != nil {
		return nil, errors.ListError("there was an error updating the list").WithCause(err)
	}

	if patch.Name != nil {
		l.Name = *patch.Name
	}
	if patch.Description != nil {
		l.Description = *patch.Description
	}
	l.Touch()

	if err := s.store.UpdateList(ctx, l); err != nil {
		return nil, errors.ListError("there was an error updating the list").WithCause(err)
	}
	return l, nil
}

// DeleteList removes an owned list; memberships cascade away with it.
func (s *ListService) DeleteList(ctx context.Context, userID, listID string) error {
	if err := s.requireListOwner(ctx, listID, userID); err != nil {
		return err
	}

	if err := s.store.DeleteList(ctx, listID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.ListDoesNotExistf("the list with id: %s does not exist", listID)
		}
		return errors.ListError("there was an error deleting the list").WithCause(err)
	}

	s.logger.Info("list deleted", "list_id", listID, "user_id", userID)
	return nil
}

// AddBookmark puts a bookmark into a list. Both entities must belong to
// the user; the list is checked first.
func (s *ListService) AddBookmark(ctx context.Context, userID, listID, bookmarkID string) error {
	if err := s.requireListOwner(ctx, listID, userID); err != nil {
		return err
	}
	if err := s.requireBookmarkOwner(ctx, bookmarkID, userID); err != nil {
		return err
	}

	if err := s.store.AddBookmarkToList(ctx, listID, bookmarkID); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return errors.ListAlreadyHasBookmarkf("the list with id: %s already contains the bookmark with id: %s", listID, bookmarkID)
		}
		return errors.ListError("there was an error adding the bookmark to the list").WithCause(err)
	}
	return nil
}

// RemoveBookmark takes a bookmark out of a list. Removing a bookmark that
// is not a member reports a specific membership error.
func (s *ListService) RemoveBookmark(ctx context.Context, userID, listID, bookmarkID string) error {
	if err := s.requireListOwner(ctx, listID, userID); err != nil {
		return err
	}
	if err := s.requireBookmarkOwner(ctx, bookmarkID, userID); err != nil {
		return err
	}

	if err := s.store.RemoveBookmarkFromList(ctx, listID, bookmarkID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.ListDoesNotContainBookmarkf("the list with id: %s does not contain the bookmark with id: %s", listID, bookmarkID)
		}
		return errors.ListError("there was an error removing the bookmark from the list").WithCause(err)
	}
	return nil
}

// GetBookmarks returns the member bookmarks of an owned list with their
// label projections.
func (s *ListService) GetBookmarks(ctx context.Context, userID, listID string) ([]*domain.Bookmark, error) {
	if err := s.requireListOwner(ctx, listID, userID); err != nil {
		return nil, err
	}

	bookmarks, err := s.store.GetBookmarksInList(ctx, listID)
	if err != nil {
		return nil, errors.ListError("there was an error retrieving bookmarks from the list").WithCause(err)
	}
	return bookmarks, nil
}
