package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/linkstashapp/linkstash-server/internal/store"
)

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := makeTestUser(t, s, "ada@example.com")

	got, err := s.GetUserByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if got.Email != "ada@example.com" {
		t.Errorf("Email: got %q, want %q", got.Email, "ada@example.com")
	}
	if got.HashedPassword != "hash" || got.Salt != "salt" {
		t.Errorf("credentials did not round-trip: %q / %q", got.HashedPassword, got.Salt)
	}
	if got.CreatedAt.Unix() != u.CreatedAt.Unix() {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, u.CreatedAt)
	}

	byEmail, err := s.GetUserByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if byEmail.ID != u.ID {
		t.Errorf("ID: got %q, want %q", byEmail.ID, u.ID)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)

	first := makeTestUser(t, s, "ada@example.com")

	dup := *first
	dup.ID = "different-id"
	err := s.CreateUser(context.Background(), &dup)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetUserByID(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetUserByID: expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetUserByEmail: expected ErrNotFound, got %v", err)
	}
}
