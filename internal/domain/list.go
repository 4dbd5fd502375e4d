package domain

import "time"

// List is an ordered, user-owned collection of bookmarks.
// Membership lives in the lists_bookmarks join table and cascades away
// when either parent row is deleted.
type List struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	UserID      string    `json:"user_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (l *List) Touch() {
	l.UpdatedAt = time.Now()
}
