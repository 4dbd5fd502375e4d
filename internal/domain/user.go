// Package domain defines the core entity types persisted by the store.
package domain

import "time"

// User is an account holder. Created at signup and immutable afterwards;
// no exposed operation deletes a user.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	Salt           string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
