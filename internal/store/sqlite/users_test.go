package sqlite

import (
	"context"
	"strings"
	"testing"

	apperrors "github.com/moviekeep/moviekeep-server/internal/errors"
)

func TestAddAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.AddUser(ctx, "  Alice  ")
	if err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	if u.Name != "Alice" {
		t.Errorf("Name: got %q, want %q", u.Name, "Alice")
	}
	if !strings.HasPrefix(u.ID, "usr-") {
		t.Errorf("ID: got %q, want usr- prefix", u.ID)
	}
	if u.CreatedAt.IsZero() {
		t.Error("CreatedAt: expected to be set")
	}

	got, err := s.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.ID != u.ID || got.Name != u.Name {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, u)
	}
}

func TestAddUser_EmptyName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"", "   ", "\t\n"} {
		if _, err := s.AddUser(ctx, name); !apperrors.Is(err, apperrors.ErrValidation) {
			t.Errorf("AddUser(%q): expected validation error, got %v", name, err)
		}
	}
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUser(context.Background(), "usr-nonexistent")
	if !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestListUsers_StableOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	names := []string{"Alice", "Bob", "Carol"}
	for _, name := range names {
		if _, err := s.AddUser(ctx, name); err != nil {
			t.Fatalf("AddUser(%q): %v", name, err)
		}
	}

	first, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(first) != len(names) {
		t.Fatalf("expected %d users, got %d", len(names), len(first))
	}

	// Order must be stable across calls absent writes.
	second, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("order changed at %d: %q vs %q", i, first[i].ID, second[i].ID)
		}
	}
}

func TestDeleteUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.AddUser(ctx, "Alice")
	if err != nil {
		t.Fatalf("AddUser: %v", err)
	}

	if err := s.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := s.GetUser(ctx, u.ID); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}

	// A second delete reports not found, never a crash.
	if err := s.DeleteUser(ctx, u.ID); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("second delete: expected not found, got %v", err)
	}
}

func TestDeleteUser_CascadesToMovies(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.AddUser(ctx, "Alice")
	if err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	for _, title := range []string{"Inception", "Memento", "Dunkirk"} {
		if _, err := s.AddMovie(ctx, u.ID, makeTestMovie(title)); err != nil {
			t.Fatalf("AddMovie(%q): %v", title, err)
		}
	}

	if err := s.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	// No rows may reference the deleted owner.
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM movies WHERE owner_id = ?`, u.ID).Scan(&count); err != nil {
		t.Fatalf("count movies: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 movies after cascade, got %d", count)
	}
}

func TestDeleteUser_CascadeZeroMovies(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.AddUser(ctx, "Bob")
	if err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	if err := s.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("DeleteUser with zero movies: %v", err)
	}
}
