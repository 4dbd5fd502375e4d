package domain

import "time"

// LabelRef is the {id, name} projection of a label embedded in bookmark reads.
type LabelRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Bookmark is a saved URL owned by a single user.
// URLs are unique system-wide, not per-owner (see DESIGN.md).
// Labels is populated only on read paths that join the label relation;
// it is never written directly.
type Bookmark struct {
	ID        string     `json:"id"`
	URL       string     `json:"url"`
	Title     string     `json:"title,omitempty"`
	Thumbnail string     `json:"thumbnail,omitempty"`
	UserID    string     `json:"user_id,omitempty"`
	Labels    []LabelRef `json:"labels,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// HasLabel reports whether the read-time label projection contains labelID.
func (b *Bookmark) HasLabel(labelID string) bool {
	for _, l := range b.Labels {
		if l.ID == labelID {
			return true
		}
	}
	return false
}

// Touch updates the UpdatedAt timestamp.
func (b *Bookmark) Touch() {
	b.UpdatedAt = time.Now()
}
