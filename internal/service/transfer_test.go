package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkstashapp/linkstash-server/internal/errors"
)

func TestExport_ShapesDocument(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := signupTestUser(t, env, "ada@example.com")

	a, err := env.bookmarks.AddBookmark(ctx, user.ID, "https://example.com/a", "Article A", "")
	require.NoError(t, err)
	_, err = env.bookmarks.AddBookmark(ctx, user.ID, "https://example.com/b", "Article B", "")
	require.NoError(t, err)

	label, err := env.labels.CreateLabel(ctx, user.ID, "Work")
	require.NoError(t, err)
	require.NoError(t, env.bookmarks.AttachLabel(ctx, user.ID, a.ID, label.ID))

	list, err := env.lists.CreateList(ctx, user.ID, "Inbox", "")
	require.NoError(t, err)
	require.NoError(t, env.lists.AddBookmark(ctx, user.ID, list.ID, a.ID))

	doc, err := env.transfer.Export(ctx, user.ID)
	require.NoError(t, err)

	assert.Equal(t, "1.0", doc.Version)
	assert.False(t, doc.ExportDate.IsZero())
	require.Len(t, doc.Bookmarks, 2)
	require.Len(t, doc.Labels, 1)
	require.Len(t, doc.Lists, 1)

	// The label carries the reverse index of bookmarks that had it.
	assert.Equal(t, []BookmarkRef{{ID: a.ID}}, doc.Labels[0].Bookmarks)
	// Lists reduce members to {id} references.
	assert.Equal(t, []BookmarkRef{{ID: a.ID}}, doc.Lists[0].Bookmarks)
}

func TestImport_MissingVersion(t *testing.T) {
	env := newTestEnv(t)
	user := signupTestUser(t, env, "ada@example.com")

	_, err := env.transfer.Import(context.Background(), user.ID, &ExportDocument{})
	assert.ErrorIs(t, err, errors.ErrInvalidImportFormat)

	_, err = env.transfer.Import(context.Background(), user.ID, nil)
	assert.ErrorIs(t, err, errors.ErrInvalidImportFormat)
}

func TestExportImport_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := signupTestUser(t, env, "ada@example.com")

	a, err := env.bookmarks.AddBookmark(ctx, ada.ID, "https://example.com/a", "Article A", "")
	require.NoError(t, err)
	b, err := env.bookmarks.AddBookmark(ctx, ada.ID, "https://example.com/b", "Article B", "")
	require.NoError(t, err)

	label, err := env.labels.CreateLabel(ctx, ada.ID, "Work")
	require.NoError(t, err)
	require.NoError(t, env.bookmarks.AttachLabel(ctx, ada.ID, a.ID, label.ID))
	require.NoError(t, env.bookmarks.AttachLabel(ctx, ada.ID, b.ID, label.ID))

	list, err := env.lists.CreateList(ctx, ada.ID, "Inbox", "reading queue")
	require.NoError(t, err)
	require.NoError(t, env.lists.AddBookmark(ctx, ada.ID, list.ID, a.ID))

	doc, err := env.transfer.Export(ctx, ada.ID)
	require.NoError(t, err)

	// Import into a fresh environment (fresh global URL space) as a new user.
	dst := newTestEnv(t)
	bob := signupTestUser(t, dst, "bob@example.com")

	results, err := dst.transfer.Import(ctx, bob.ID, doc)
	require.NoError(t, err)

	assert.Equal(t, ImportCounter{Created: 2}, results.Bookmarks)
	assert.Equal(t, ImportCounter{Created: 1}, results.Labels)
	assert.Equal(t, ImportCounter{Created: 1}, results.Lists)
	assert.Equal(t, ImportCounter{Created: 2}, results.BookmarkLabels)
	assert.Equal(t, ImportCounter{Created: 1}, results.ListBookmarks)

	// Topology is preserved under fresh ids.
	bookmarks, err := dst.bookmarks.GetBookmarks(ctx, bob.ID, "")
	require.NoError(t, err)
	require.Len(t, bookmarks, 2)
	for _, got := range bookmarks {
		assert.NotEqual(t, a.ID, got.ID)
		assert.NotEqual(t, b.ID, got.ID)
		require.Len(t, got.Labels, 1)
		assert.Equal(t, "Work", got.Labels[0].Name)
	}

	lists, err := dst.lists.GetLists(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	members, err := dst.lists.GetBookmarks(ctx, bob.ID, lists[0].ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "https://example.com/a", members[0].URL)
}

func TestImport_URLCollisionCountsError(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := signupTestUser(t, env, "ada@example.com")
	bob := signupTestUser(t, env, "bob@example.com")

	// Bob already owns the URL; global uniqueness blocks Ada's import.
	_, err := env.bookmarks.AddBookmark(ctx, bob.ID, "https://example.com/a", "Bob's", "")
	require.NoError(t, err)

	doc := &ExportDocument{
		Version: "1.0",
		Bookmarks: []ExportBookmark{
			{ID: "old-1", URL: "https://example.com/a", Title: "Ada's"},
			{ID: "old-2", URL: "https://example.com/fresh", Title: "Fresh"},
		},
		Labels: []ExportLabel{
			{ID: "old-label", Name: "Work", Bookmarks: []BookmarkRef{{ID: "old-1"}, {ID: "old-2"}}},
		},
	}

	results, err := env.transfer.Import(ctx, ada.ID, doc)
	require.NoError(t, err)

	assert.Equal(t, ImportCounter{Created: 1, Errors: 1}, results.Bookmarks)
	// The collided bookmark is excluded from the relation step silently.
	assert.Equal(t, ImportCounter{Created: 1}, results.BookmarkLabels)
}
