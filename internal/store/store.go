// Package store defines the persistence contract for the LinkStash server.
package store

import (
	"context"
	"errors"

	"github.com/linkstashapp/linkstash-server/internal/domain"
)

// Sentinel errors returned by store implementations.
// The service layer translates these into per-entity domain errors.
var (
	// ErrNotFound indicates the requested row does not exist,
	// or a delete/update affected zero rows.
	ErrNotFound = errors.New("store: not found")

	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the full persistence surface used by the service layer.
type Store interface {
	UserStore
	BookmarkStore
	LabelStore
	ListStore

	Close() error
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// BookmarkStore persists bookmarks and their label attachments.
type BookmarkStore interface {
	CreateBookmark(ctx context.Context, b *domain.Bookmark) error
	GetBookmark(ctx context.Context, bookmarkID string) (*domain.Bookmark, error)
	// GetBookmarks returns all of userID's bookmarks with their label
	// projections. If labelID is non-empty only bookmarks carrying that
	// label are returned.
	GetBookmarks(ctx context.Context, userID, labelID string) ([]*domain.Bookmark, error)
	UpdateBookmark(ctx context.Context, b *domain.Bookmark) error
	DeleteBookmark(ctx context.Context, bookmarkID string) error
	// BookmarkOwner returns the owning user id, or ErrNotFound.
	BookmarkOwner(ctx context.Context, bookmarkID string) (string, error)

	AttachLabel(ctx context.Context, bookmarkID, labelID string) error
	DetachLabel(ctx context.Context, bookmarkID, labelID string) error
}

// LabelStore persists labels.
type LabelStore interface {
	CreateLabel(ctx context.Context, l *domain.Label) error
	GetLabel(ctx context.Context, labelID string) (*domain.Label, error)
	GetLabels(ctx context.Context, userID string) ([]*domain.Label, error)
	UpdateLabel(ctx context.Context, l *domain.Label) error
	DeleteLabel(ctx context.Context, labelID string) error
	LabelOwner(ctx context.Context, labelID string) (string, error)
}

// ListStore persists lists and their bookmark memberships.
type ListStore interface {
	CreateList(ctx context.Context, l *domain.List) error
	GetList(ctx context.Context, listID string) (*domain.List, error)
	GetLists(ctx context.Context, userID string) ([]*domain.List, error)
	UpdateList(ctx context.Context, l *domain.List) error
	DeleteList(ctx context.Context, listID string) error
	ListOwner(ctx context.Context, listID string) (string, error)

	AddBookmarkToList(ctx context.Context, listID, bookmarkID string) error
	RemoveBookmarkFromList(ctx context.Context, listID, bookmarkID string) error
	// GetBookmarksInList returns the member bookmarks with their label
	// projections, newest membership first.
	GetBookmarksInList(ctx context.Context, listID string) ([]*domain.Bookmark, error)
}
