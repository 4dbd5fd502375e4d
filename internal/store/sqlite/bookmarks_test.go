package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/linkstashapp/linkstash-server/internal/store"
)

func TestCreateAndGetBookmark(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := makeTestUser(t, s, "ada@example.com")
	b := makeTestBookmark(t, s, user.ID, "https://example.com/article")

	got, err := s.GetBookmark(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBookmark: %v", err)
	}
	if got.URL != b.URL {
		t.Errorf("URL: got %q, want %q", got.URL, b.URL)
	}
	if got.Title != "a page" {
		t.Errorf("Title: got %q, want %q", got.Title, "a page")
	}
	if got.UserID != user.ID {
		t.Errorf("UserID: got %q, want %q", got.UserID, user.ID)
	}
	if len(got.Labels) != 0 {
		t.Errorf("fresh bookmark should have no labels, got %d", len(got.Labels))
	}
}

func TestCreateBookmark_DuplicateURLIsGlobal(t *testing.T) {
	s := newTestStore(t)

	ada := makeTestUser(t, s, "ada@example.com")
	bob := makeTestUser(t, s, "bob@example.com")

	makeTestBookmark(t, s, ada.ID, "https://example.com/shared")

	// URL uniqueness is system-wide: a different user hits the same constraint.
	dup := makeTestBookmark(t, s, bob.ID, "https://example.com/other")
	dup.ID = "different-id"
	dup.URL = "https://example.com/shared"
	err := s.CreateBookmark(context.Background(), dup)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGetBookmarks_GroupsLabels(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := makeTestUser(t, s, "ada@example.com")
	b := makeTestBookmark(t, s, user.ID, "https://example.com/a")
	plain := makeTestBookmark(t, s, user.ID, "https://example.com/b")

	work := makeTestLabel(t, s, user.ID, "Work")
	reading := makeTestLabel(t, s, user.ID, "Reading")

	if err := s.AttachLabel(ctx, b.ID, work.ID); err != nil {
		t.Fatalf("AttachLabel: %v", err)
	}
	if err := s.AttachLabel(ctx, b.ID, reading.ID); err != nil {
		t.Fatalf("AttachLabel: %v", err)
	}

	all, err := s.GetBookmarks(ctx, user.ID, "")
	if err != nil {
		t.Fatalf("GetBookmarks: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 bookmarks, got %d", len(all))
	}

	// The labeled bookmark appears once with both labels.
	var labeled, unlabeled bool
	for _, got := range all {
		switch got.ID {
		case b.ID:
			labeled = true
			if len(got.Labels) != 2 {
				t.Errorf("expected 2 labels, got %d", len(got.Labels))
			}
		case plain.ID:
			unlabeled = true
			if len(got.Labels) != 0 {
				t.Errorf("expected no labels, got %d", len(got.Labels))
			}
		}
	}
	if !labeled || !unlabeled {
		t.Fatalf("missing bookmarks in result: labeled=%v unlabeled=%v", labeled, unlabeled)
	}
}

func TestGetBookmarks_LabelFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := makeTestUser(t, s, "ada@example.com")
	tagged := makeTestBookmark(t, s, user.ID, "https://example.com/a")
	makeTestBookmark(t, s, user.ID, "https://example.com/b")

	work := makeTestLabel(t, s, user.ID, "Work")
	if err := s.AttachLabel(ctx, tagged.ID, work.ID); err != nil {
		t.Fatalf("AttachLabel: %v", err)
	}

	filtered, err := s.GetBookmarks(ctx, user.ID, work.ID)
	if err != nil {
		t.Fatalf("GetBookmarks: %v", err)
	}
	if len(filtered) != 1 {
		t.Fatalf("expected 1 bookmark, got %d", len(filtered))
	}
	if filtered[0].ID != tagged.ID {
		t.Errorf("got %q, want %q", filtered[0].ID, tagged.ID)
	}

	// Filtering on an unknown label matches nothing.
	none, err := s.GetBookmarks(ctx, user.ID, "no-such-label")
	if err != nil {
		t.Fatalf("GetBookmarks: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected empty result, got %d", len(none))
	}
}

func TestGetBookmarks_ScopedToUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ada := makeTestUser(t, s, "ada@example.com")
	bob := makeTestUser(t, s, "bob@example.com")
	makeTestBookmark(t, s, ada.ID, "https://example.com/ada")
	makeTestBookmark(t, s, bob.ID, "https://example.com/bob")

	got, err := s.GetBookmarks(ctx, ada.ID, "")
	if err != nil {
		t.Fatalf("GetBookmarks: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 bookmark, got %d", len(got))
	}
	if got[0].URL != "https://example.com/ada" {
		t.Errorf("got %q", got[0].URL)
	}
}

func TestUpdateBookmark(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := makeTestUser(t, s, "ada@example.com")
	b := makeTestBookmark(t, s, user.ID, "https://example.com/a")

	b.Title = "new title"
	b.Thumbnail = "https://example.com/thumb.png"
	b.Touch()
	if err := s.UpdateBookmark(ctx, b); err != nil {
		t.Fatalf("UpdateBookmark: %v", err)
	}

	got, err := s.GetBookmark(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBookmark: %v", err)
	}
	if got.Title != "new title" {
		t.Errorf("Title: got %q", got.Title)
	}
	if got.Thumbnail != "https://example.com/thumb.png" {
		t.Errorf("Thumbnail: got %q", got.Thumbnail)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Errorf("UpdatedAt was not bumped: %v <= %v", got.UpdatedAt, got.CreatedAt)
	}
}

func TestUpdateBookmark_Missing(t *testing.T) {
	s := newTestStore(t)

	user := makeTestUser(t, s, "ada@example.com")
	b := makeTestBookmark(t, s, user.ID, "https://example.com/a")
	b.ID = "missing"

	err := s.UpdateBookmark(context.Background(), b)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteBookmark(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := makeTestUser(t, s, "ada@example.com")
	b := makeTestBookmark(t, s, user.ID, "https://example.com/a")

	if err := s.DeleteBookmark(ctx, b.ID); err != nil {
		t.Fatalf("DeleteBookmark: %v", err)
	}
	if _, err := s.GetBookmark(ctx, b.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again reports not found.
	if err := s.DeleteBookmark(ctx, b.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteBookmark_LeavesLabelRowsButCascadesListRows(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := makeTestUser(t, s, "ada@example.com")
	b := makeTestBookmark(t, s, user.ID, "https://example.com/a")
	label := makeTestLabel(t, s, user.ID, "Work")
	list := makeTestList(t, s, user.ID, "Inbox")

	if err := s.AttachLabel(ctx, b.ID, label.ID); err != nil {
		t.Fatalf("AttachLabel: %v", err)
	}
	if err := s.AddBookmarkToList(ctx, list.ID, b.ID); err != nil {
		t.Fatalf("AddBookmarkToList: %v", err)
	}

	if err := s.DeleteBookmark(ctx, b.ID); err != nil {
		t.Fatalf("DeleteBookmark: %v", err)
	}

	var labelRows int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM labels_bookmarks WHERE bookmark_id = ?`, b.ID).Scan(&labelRows); err != nil {
		t.Fatalf("count labels_bookmarks: %v", err)
	}
	if labelRows != 1 {
		t.Errorf("label attachment rows should be orphaned, got %d", labelRows)
	}

	var listRows int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM lists_bookmarks WHERE bookmark_id = ?`, b.ID).Scan(&listRows); err != nil {
		t.Fatalf("count lists_bookmarks: %v", err)
	}
	if listRows != 0 {
		t.Errorf("list membership rows should cascade, got %d", listRows)
	}
}

func TestBookmarkOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := makeTestUser(t, s, "ada@example.com")
	b := makeTestBookmark(t, s, user.ID, "https://example.com/a")

	owner, err := s.BookmarkOwner(ctx, b.ID)
	if err != nil {
		t.Fatalf("BookmarkOwner: %v", err)
	}
	if owner != user.ID {
		t.Errorf("owner: got %q, want %q", owner, user.ID)
	}

	if _, err := s.BookmarkOwner(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAttachLabel_Duplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := makeTestUser(t, s, "ada@example.com")
	b := makeTestBookmark(t, s, user.ID, "https://example.com/a")
	label := makeTestLabel(t, s, user.ID, "Work")

	if err := s.AttachLabel(ctx, b.ID, label.ID); err != nil {
		t.Fatalf("AttachLabel: %v", err)
	}
	if err := s.AttachLabel(ctx, b.ID, label.ID); !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	// Exactly one row survives for the pair.
	var rows int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM labels_bookmarks WHERE bookmark_id = ? AND label_id = ?`, b.ID, label.ID).Scan(&rows); err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 1 {
		t.Errorf("expected 1 attachment row, got %d", rows)
	}
}

func TestDetachLabel_NeverAttached(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := makeTestUser(t, s, "ada@example.com")
	b := makeTestBookmark(t, s, user.ID, "https://example.com/a")
	label := makeTestLabel(t, s, user.ID, "Work")

	if err := s.DetachLabel(ctx, b.ID, label.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
