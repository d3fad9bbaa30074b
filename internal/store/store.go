// Package store defines the persistence contract for users and their movies.
// It is the sole data-access interface the HTTP layer and services call;
// concrete backends live in subpackages.
package store

import (
	"context"

	"github.com/moviekeep/moviekeep-server/internal/domain"
)

// MovieUpdate carries a partial update for a movie. Only non-nil fields are
// applied (PATCH semantics). Note: omitempty is intentionally not used on the
// API DTO feeding this - we need to distinguish "field not provided" (nil)
// from "field set to empty" (pointer to zero value).
type MovieUpdate struct {
	UserTitle  *string
	UserRating *float64
	UserNotes  *string

	// Facts, when set, refreshes the canonical fields in the same
	// transaction as the user field changes.
	Facts *domain.MovieFacts
}

// Store is the persistence contract for users and their movie lists.
//
// All mutating operations are atomic: they either apply fully and durably or
// have no effect. Failure modes: operations referencing a missing user or
// movie (or a movie owned by a different user) return errors.ErrNotFound;
// constraint violations on caller input return errors.ErrValidation; backing
// store faults return errors.ErrStorage.
type Store interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	AddUser(ctx context.Context, name string) (*domain.User, error)
	// DeleteUser removes the user and, in the same transaction, every movie
	// it owns.
	DeleteUser(ctx context.Context, id string) error

	ListMovies(ctx context.Context, ownerID string) ([]*domain.Movie, error)
	GetMovie(ctx context.Context, ownerID, movieID string) (*domain.Movie, error)
	AddMovie(ctx context.Context, ownerID string, movie *domain.Movie) (*domain.Movie, error)
	UpdateMovie(ctx context.Context, ownerID, movieID string, update MovieUpdate) (*domain.Movie, error)
	DeleteMovie(ctx context.Context, ownerID, movieID string) error

	Close() error
}
