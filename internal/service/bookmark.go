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

// Enricher accepts background metadata-fetch jobs for freshly created
// bookmarks. Enqueueing is fire-and-forget relative to the request path.
type Enricher interface {
	Enqueue(bookmarkID, url string) error
}

// NoopEnricher discards enrichment jobs. Used when enrichment is disabled.
type NoopEnricher struct{}

// Enqueue implements Enricher.
func (NoopEnricher) Enqueue(_, _ string) error { return nil }

// BookmarkPatch holds the partially-defined fields of a bookmark update.
// Nil means "leave unchanged".
type BookmarkPatch struct {
	URL       *string
	Title     *string
	Thumbnail *string
}

// BookmarkService orchestrates bookmark CRUD and label attachments.
// Every operation that references an entity by id runs the ownership
// protocol first: absent entity surfaces as does-not-exist, an entity
// owned by someone else as forbidden.
type BookmarkService struct {
	store    store.Store
	enricher Enricher
	logger   *slog.Logger
}

// NewBookmarkService creates a new bookmark service.
func NewBookmarkService(store store.Store, enricher Enricher, logger *slog.Logger) *BookmarkService {
	if enricher == nil {
		enricher = NoopEnricher{}
	}
	return &BookmarkService{
		store:    store,
		enricher: enricher,
		logger:   logger,
	}
}

// requireBookmarkOwner runs the ownership protocol for a bookmark id.
func (s *BookmarkService) requireBookmarkOwner(ctx context.Context, bookmarkID, userID string) error {
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

// requireLabelOwner runs the ownership protocol for a label id.
func (s *BookmarkService) requireLabelOwner(ctx context.Context, labelID, userID string) error {
	owner, err := s.store.LabelOwner(ctx, labelID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.LabelDoesNotExistf("a label with id: %s does not exist", labelID)
		}
		return errors.LabelError("an unexpected error occurred while retrieving the label").WithCause(err)
	}
	if owner != userID {
		return errors.Forbidden(errors.CodeForbiddenLabel, "you do not have access to this label")
	}
	return nil
}

// GetBookmarks returns the user's bookmarks with their label projections.
// When labelID is set the label must exist and belong to the user, and
// the result is filtered to bookmarks carrying it.
func (s *BookmarkService) GetBookmarks(ctx context.Context, userID, labelID string) ([]*domain.Bookmark, error) {
	if labelID != "" {
		if err := s.requireLabelOwner(ctx, labelID, userID); err != nil {
			return nil, err
		}
	}

	bookmarks, err := s.store.GetBookmarks(ctx, userID, labelID)
	if err != nil {
		return nil, errors.BookmarkError("there was an error retrieving the bookmarks").WithCause(err)
	}
	return bookmarks, nil
}

// AddBookmark creates a bookmark and, when title or thumbnail are missing,
// queues a background enrichment job to fill them in.
func (s *BookmarkService) AddBookmark(ctx context.Context, userID, url, title, thumbnail string) (*domain.Bookmark, error) {
	now := time.Now()
	b := &domain.Bookmark{
		ID:        id.New(),
		URL:       url,
		Title:     title,
		Thumbnail: thumbnail,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateBookmark(ctx, b); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.BookmarkAlreadyExists("this URL already exists")
		}
		return nil, errors.BookmarkError("there was an error saving the bookmark").WithCause(err)
	}

	if b.Title == "" || b.Thumbnail == "" {
		if err := s.enricher.Enqueue(b.ID, b.URL); err != nil {
			// Enrichment never fails the creating request.
			s.logger.Warn("enqueue enrichment failed", "bookmark_id", b.ID, "error", err)
		}
	}

	s.logger.Info("bookmark created", "bookmark_id", b.ID, "user_id", userID)
	return b, nil
}

// UpdateBookmark applies a partial update to an owned bookmark and returns
// the post-update row. Only defined patch fields overwrite; updated_at is
// always bumped.
func (s *BookmarkService) UpdateBookmark(ctx context.Context, userID, bookmarkID string, patch BookmarkPatch) (*domain.Bookmark, error) {
	if err := s.requireBookmarkOwner(ctx, bookmarkID, userID); err != nil {
		return nil, err
	}

	b, err := s.store.GetBookmark(ctx, bookmarkID)
	if err != nil {
		return nil, errors.BookmarkError("there was an error updating the bookmark").WithCause(err)
	}

	if patch.URL != nil {
		b.URL = *patch.URL
	}
	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.Thumbnail != nil {
		b.Thumbnail = *patch.Thumbnail
	}
	b.Touch()

	if err := s.store.UpdateBookmark(ctx, b); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.BookmarkAlreadyExists("this URL already exists")
		}
		return nil, errors.BookmarkError("there was an error updating the bookmark").WithCause(err)
	}
	return b, nil
}

// ApplyEnrichment fills in missing title/thumbnail from a background fetch.
// Fields the user has already set are never overwritten.
func (s *BookmarkService) ApplyEnrichment(ctx context.Context, bookmarkID, title, thumbnail string) error {
	b, err := s.store.GetBookmark(ctx, bookmarkID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Deleted while the job was queued; nothing to do.
			return nil
		}
		return err
	}

	changed := false
	if b.Title == "" && title != "" {
		b.Title = title
		changed = true
	}
	if b.Thumbnail == "" && thumbnail != "" {
		b.Thumbnail = thumbnail
		changed = true
	}
	if !changed {
		return nil
	}

	b.Touch()
	return s.store.UpdateBookmark(ctx, b)
}

// DeleteBookmark removes an owned bookmark.
func (s *BookmarkService) DeleteBookmark(ctx context.Context, userID, bookmarkID string) error {
	if err := s.requireBookmarkOwner(ctx, bookmarkID, userID); err != nil {
		return err
	}

	if err := s.store.DeleteBookmark(ctx, bookmarkID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.BookmarkDoesNotExistf("the bookmark with id: %s does not exist", bookmarkID)
		}
		return errors.BookmarkError("there was an error deleting the bookmark").WithCause(err)
	}

	s.logger.Info("bookmark deleted", "bookmark_id", bookmarkID, "user_id", userID)
	return nil
}

// AttachLabel adds a label to a bookmark. Both entities must belong to the
// user; the bookmark is checked first.
func (s *BookmarkService) AttachLabel(ctx context.Context, userID, bookmarkID, labelID string) error {
	if err := s.requireBookmarkOwner(ctx, bookmarkID, userID); err != nil {
		return err
	}
	if err := s.requireLabelOwner(ctx, labelID, userID); err != nil {
		return err
	}

	if err := s.store.AttachLabel(ctx, bookmarkID, labelID); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return errors.BookmarkAlreadyHasLabel("this bookmark already has the label provided")
		}
		return errors.BookmarkLabelError("there was an error adding the label to the bookmark").WithCause(err)
	}
	return nil
}

// DetachLabel removes a label from a bookmark. Both entities must belong
// to the user; the bookmark is checked first.
func (s *BookmarkService) DetachLabel(ctx context.Context, userID, bookmarkID, labelID string) error {
	if err := s.requireBookmarkOwner(ctx, bookmarkID, userID); err != nil {
		return err
	}
	if err := s.requireLabelOwner(ctx, labelID, userID); err != nil {
		return err
	}

	if err := s.store.DetachLabel(ctx, bookmarkID, labelID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.BookmarkDoesNotHaveLabelf("the bookmark with id: %s does not have a label with id: %s", bookmarkID, labelID)
		}
		return errors.BookmarkLabelError("there was an error removing the label from the bookmark").WithCause(err)
	}
	return nil
}
