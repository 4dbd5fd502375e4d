package domain

import "time"

// Label is a user-owned tag attachable to bookmarks.
// Names carry no uniqueness constraint; two labels may share a name.
type Label struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserID    string    `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (l *Label) Touch() {
	l.UpdatedAt = time.Now()
}
