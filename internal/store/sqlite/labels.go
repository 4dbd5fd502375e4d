package sqlite

import (
	"context"
	"database/sql"

	"github.com/linkstashapp/linkstash-server/internal/domain"
	"github.com/linkstashapp/linkstash-server/internal/store"
)

// labelColumns is the ordered list of columns selected in label queries.
// Must match the scan order in scanLabel.
const labelColumns = `id, name, user_id, created_at, updated_at`

// scanLabel scans a sql.Row (or sql.Rows via its Scan method) into a domain.Label.
func scanLabel(scanner interface{ Scan(dest ...any) error }) (*domain.Label, error) {
	var l domain.Label

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&l.ID,
		&l.Name,
		&l.UserID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

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

// CreateLabel inserts a new label into the database.
// Label names are not unique; two labels may share a name.
func (s *Store) CreateLabel(ctx context.Context, l *domain.Label) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO labels (id, name, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		l.ID,
		l.Name,
		l.UserID,
		formatTime(l.CreatedAt),
		formatTime(l.UpdatedAt),
	)
	return err
}

// GetLabel retrieves a label by its ID.
// Returns store.ErrNotFound if the label does not exist.
func (s *Store) GetLabel(ctx context.Context, labelID string) (*domain.Label, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+labelColumns+` FROM labels WHERE id = ?`, labelID)

	l, err := scanLabel(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// GetLabels returns all of userID's labels, newest first.
func (s *Store) GetLabels(ctx context.Context, userID string) ([]*domain.Label, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+labelColumns+` FROM labels WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labels := []*domain.Label{}
	for rows.Next() {
		l, err := scanLabel(rows)
		if err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return labels, nil
}

// UpdateLabel writes the label's name and updated_at.
// Returns store.ErrNotFound if the label does not exist.
func (s *Store) UpdateLabel(ctx context.Context, l *domain.Label) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE labels SET name = ?, updated_at = ? WHERE id = ?`,
		l.Name,
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

// DeleteLabel removes a label. Attachment rows are intentionally left
// behind (see schema.sql); reads join through labels so they disappear
// from bookmark projections immediately.
// Returns store.ErrNotFound if zero rows were deleted.
func (s *Store) DeleteLabel(ctx context.Context, labelID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM labels WHERE id = ?`, labelID)
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

// LabelOwner returns the owning user id for a label.
// Returns store.ErrNotFound if the label does not exist.
func (s *Store) LabelOwner(ctx context.Context, labelID string) (string, error) {
	var userID string
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id FROM labels WHERE id = ?`, labelID).Scan(&userID)
	if err == sql.ErrNoRows {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}
