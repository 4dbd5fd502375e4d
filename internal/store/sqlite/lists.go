package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/linkstashapp/linkstash-server/internal/domain"
	"github.com/linkstashapp/linkstash-server/internal/id"
	"github.com/linkstashapp/linkstash-server/internal/store"
)

// listColumns is the ordered list of columns selected in list queries.
// Must match the scan order in scanList.
const listColumns = `id, name, description, user_id, created_at, updated_at`

// scanList scans a sql.Row (or sql.Rows via its Scan method) into a domain.List.
func scanList(scanner interface{ Scan(dest ...any) error }) (*domain.List, error) {
	var l domain.List

	var (
		description sql.NullString
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&l.ID,
		&l.Name,
		&description,
		&l.UserID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.Description = description.String

	l.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	l.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &l, nil
}

// CreateList inserts a new list into the database.
func (s *Store) CreateList(ctx context.Context, l *domain.List) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lists (id, name, description, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		l.ID,
		l.Name,
		nullString(l.Description),
		l.UserID,
		formatTime(l.CreatedAt),
		formatTime(l.UpdatedAt),
	)
	return err
}

// GetList retrieves a list by its ID.
// Returns store.ErrNotFound if the list does not exist.
func (s *Store) GetList(ctx context.Context, listID string) (*domain.List, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+listColumns+` FROM lists WHERE id = ?`, listID)

	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// GetLists returns all of userID's lists, newest first.
func (s *Store) GetLists(ctx context.Context, userID string) ([]*domain.List, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+listColumns+` FROM lists WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := []*domain.List{}
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return lists, nil
}

// UpdateList writes the list's name, description and updated_at.
// Returns store.ErrNotFound if the list does not exist.
func (s *Store) UpdateList(ctx context.Context, l *domain.List) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE lists SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
		l.Name,
		nullString(l.Description),
		formatTime(l.UpdatedAt),
		l.ID,
	)
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

// DeleteList removes a list. Membership rows cascade away with it.
// Returns store.ErrNotFound if zero rows were deleted.
func (s *Store) DeleteList(ctx context.Context, listID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM lists WHERE id = ?`, listID)
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

// ListOwner returns the owning user id for a list.
// Returns store.ErrNotFound if the list does not exist.
func (s *Store) ListOwner(ctx context.Context, listID string) (string, error) {
	var userID string
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id FROM lists WHERE id = ?`, listID).Scan(&userID)
	if err == sql.ErrNoRows {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

// AddBookmarkToList creates a membership row.
// Returns store.ErrAlreadyExists if the list already contains the bookmark.
func (s *Store) AddBookmarkToList(ctx context.Context, listID, bookmarkID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lists_bookmarks (id, list_id, bookmark_id, created_at)
		VALUES (?, ?, ?, ?)`,
		id.New(),
		listID,
		bookmarkID,
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

// RemoveBookmarkFromList removes a membership row.
// Returns store.ErrNotFound if the list did not contain the bookmark.
func (s *Store) RemoveBookmarkFromList(ctx context.Context, listID, bookmarkID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM lists_bookmarks WHERE list_id = ? AND bookmark_id = ?`,
		listID, bookmarkID)
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

// GetBookmarksInList returns the member bookmarks with their label
// projections, newest membership first.
func (s *Store) GetBookmarksInList(ctx context.Context, listID string) ([]*domain.Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.url, b.title, b.thumbnail, b.user_id, b.created_at, b.updated_at,
		       l.id AS label_id, l.name AS label_name
		FROM lists_bookmarks lsb
		JOIN bookmarks b ON b.id = lsb.bookmark_id
		LEFT JOIN labels_bookmarks lb ON lb.bookmark_id = b.id
		LEFT JOIN labels l ON l.id = lb.label_id
		WHERE lsb.list_id = ?
		ORDER BY lsb.created_at DESC, b.id`, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		ordered = []*domain.Bookmark{}
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

	return ordered, nil
}
