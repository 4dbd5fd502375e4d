// Package id generates and validates entity identifiers.
package id

import (
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// New returns a fresh UUIDv4 string.
// Every persisted entity row (user, bookmark, label, list, relation row)
// gets one of these as its primary key.
func New() string {
	return uuid.NewString()
}

// Valid reports whether s is a syntactically well-formed UUID.
// Used to reject malformed identifiers before they reach the query layer.
func Valid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// NewToken creates a prefixed unique token ID using NanoID
// Format: prefix-nanoid (e.g., "sess-V1StGXR8_Z5jdHi6B-myT")
//
// NanoIDs are URL-friendly, compact (21 characters vs UUID's 36),
// and use a larger alphabet for better entropy per character.
// Used for non-persisted identifiers such as session token IDs.
func NewToken(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}
