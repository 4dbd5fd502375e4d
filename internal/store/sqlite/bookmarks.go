package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/linkstashapp/linkstash-server/internal/domain"
	"github.com/linkstashapp/linkstash-server/internal/id"
	"github.com/linkstashapp/linkstash-server/internal/store"
)

// bookmarkColumns is the ordered list of columns selected in bookmark queries.
// Must match the scan order in scanBookmark.
const bookmarkColumns = `id, url, title, thumbnail, user_id, created_at, updated_at`

// scanBookmark scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.Bookmark. Labels are left nil; read paths that need them join
// through labels_bookmarks separately.
func scanBookmark(scanner interface{ Scan(dest ...any) error }) (*domain.Bookmark, error) {
	var b domain.Bookmark

	var (
		title     sql.NullString
		thumbnail sql.NullString
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&b.ID,
		&b.URL,
		&title,
		&thumbnail,
		&b.UserID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Title = title.String
	b.Thumbnail = thumbnail.String

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// CreateBookmark inserts a new bookmark into the database.
// Returns store.ErrAlreadyExists if the URL is already saved.
func (s *Store) CreateBookmark(ctx context.Context, b *domain.Bookmark) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookmarks (id, url, title, thumbnail, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID,
		b.URL,
		nullString(b.Title),
		nullString(b.Thumbnail),
		b.UserID,
		formatTime(b.CreatedAt),
		formatTime(b.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetBookmark retrieves a single bookmark with its label projection.
// Returns store.ErrNotFound if the bookmark does not exist.
func (s *Store) GetBookmark(ctx context.Context, bookmarkID string) (*domain.Bookmark, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookmarkColumns+` FROM bookmarks WHERE id = ?`, bookmarkID)

	b, err := scanBookmark(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	b.Labels, err = s.bookmarkLabels(ctx, bookmarkID)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// bookmarkLabels returns the {id, name} label projection for one bookmark.
func (s *Store) bookmarkLabels(ctx context.Context, bookmarkID string) ([]domain.LabelRef, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.id, l.name
		FROM labels_bookmarks lb
		JOIN labels l ON l.id = lb.label_id
		WHERE lb.bookmark_id = ?
		ORDER BY lb.created_at ASC`, bookmarkID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []domain.LabelRef
	for rows.Next() {
		var ref domain.LabelRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, err
		}
		labels = append(labels, ref)
	}
	return labels, rows.Err()
}

// GetBookmarks returns all of userID's bookmarks with their label projections,
// newest first. A single left join is grouped in memory so each bookmark
// appears once regardless of how many labels it carries. If labelID is
// non-empty, the grouped result is filtered down to bookmarks carrying that
// label; bookmarks without labels never match a filter.
func (s *Store) GetBookmarks(ctx context.Context, userID, labelID string) ([]*domain.Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.url, b.title, b.thumbnail, b.user_id, b.created_at, b.updated_at,
		       l.id AS label_id, l.name AS label_name
		FROM bookmarks b
		LEFT JOIN labels_bookmarks lb ON lb.bookmark_id = b.id
		LEFT JOIN labels l ON l.id = lb.label_id
		WHERE b.user_id = ?
		ORDER BY b.created_at DESC, b.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		ordered []*domain.Bookmark
		byID    = make(map[string]*domain.Bookmark)
	)

	for rows.Next() {
		var (
			b         domain.Bookmark
			title     sql.NullString
			thumbnail sql.NullString
			createdAt string
			updatedAt string
			labelID   sql.NullString
			labelName sql.NullString
		)

		err := rows.Scan(
			&b.ID,
			&b.URL,
			&title,
			&thumbnail,
			&b.UserID,
			&createdAt,
			&updatedAt,
			&labelID,
			&labelName,
		)
		if err != nil {
			return nil, err
		}

		bookmark, seen := byID[b.ID]
		if !seen {
			b.Title = title.String
			b.Thumbnail = thumbnail.String
			if b.CreatedAt, err = parseTime(createdAt); err != nil {
				return nil, err
			}
			if b.UpdatedAt, err = parseTime(updatedAt); err != nil {
				return nil, err
			}
			bookmark = &b
			byID[b.ID] = bookmark
			ordered = append(ordered, bookmark)
		}

		if labelID.Valid {
			bookmark.Labels = append(bookmark.Labels, domain.LabelRef{
				ID:   labelID.String,
				Name: labelName.String,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if labelID == "" {
		if ordered == nil {
			ordered = []*domain.Bookmark{}
		}
		return ordered, nil
	}

	filtered := []*domain.Bookmark{}
	for _, b := range ordered {
		if b.HasLabel(labelID) {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

// UpdateBookmark writes the bookmark's url, title, thumbnail and updated_at.
// Returns store.ErrNotFound if the bookmark does not exist and
// store.ErrAlreadyExists if the new URL collides with another bookmark.
func (s *Store) UpdateBookmark(ctx context.Context, b *domain.Bookmark) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE bookmarks
		SET url = ?, title = ?, thumbnail = ?, updated_at = ?
		WHERE id = ?`,
		b.URL,
		nullString(b.Title),
		nullString(b.Thumbnail),
		formatTime(b.UpdatedAt),
		b.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteBookmark removes a bookmark. List memberships cascade away; label
// attachments are intentionally left behind (see schema.sql).
// Returns store.ErrNotFound if zero rows were deleted.
func (s *Store) DeleteBookmark(ctx context.Context, bookmarkID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, bookmarkID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// BookmarkOwner returns the owning user id for a bookmark.
// Returns store.ErrNotFound if the bookmark does not exist.
func (s *Store) BookmarkOwner(ctx context.Context, bookmarkID string) (string, error) {
	var userID string
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id FROM bookmarks WHERE id = ?`, bookmarkID).Scan(&userID)
	if err == sql.ErrNoRows {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

// AttachLabel creates a label attachment row.
// Returns store.ErrAlreadyExists if the bookmark already has the label.
func (s *Store) AttachLabel(ctx context.Context, bookmarkID, labelID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO labels_bookmarks (id, bookmark_id, label_id, created_at)
		VALUES (?, ?, ?, ?)`,
		id.New(),
		bookmarkID,
		labelID,
		formatTime(timeNow()),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// DetachLabel removes a label attachment row.
// Returns store.ErrNotFound if the bookmark did not have the label.
func (s *Store) DetachLabel(ctx context.Context, bookmarkID, labelID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM labels_bookmarks WHERE bookmark_id = ? AND label_id = ?`,
		bookmarkID, labelID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
