// Package service orchestrates the metadata fetch, merge, and storage flow
// behind the HTTP handlers.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/moviekeep/moviekeep-server/internal/domain"
	apperrors "github.com/moviekeep/moviekeep-server/internal/errors"
	"github.com/moviekeep/moviekeep-server/internal/metadata"
	"github.com/moviekeep/moviekeep-server/internal/metadata/omdb"
	"github.com/moviekeep/moviekeep-server/internal/store"
)

// MovieService orchestrates add/update/delete of movies, enriching them
// through the cached metadata fetcher.
type MovieService struct {
	store  store.Store
	cache  *metadata.Cache
	logger *slog.Logger
}

// NewMovieService creates a new movie service.
func NewMovieService(store store.Store, cache *metadata.Cache, logger *slog.Logger) *MovieService {
	return &MovieService{store: store, cache: cache, logger: logger}
}

// AddResult is the outcome of an add: the persisted movie plus, when the
// external lookup failed, the non-blocking warning describing why the record
// carries no canonical fields.
type AddResult struct {
	Movie   *domain.Movie
	Warning *apperrors.Error
}

// MovieUpdateParams carries a partial movie edit. Only non-nil fields change.
// Refresh additionally re-fetches the canonical fields from the external
// source.
type MovieUpdateParams struct {
	UserTitle  *string
	UserRating *float64
	UserNotes  *string
	Refresh    bool
}

// ListMovies returns all movies on the given user's list.
func (s *MovieService) ListMovies(ctx context.Context, ownerID string) ([]*domain.Movie, error) {
	return s.store.ListMovies(ctx, ownerID)
}

// GetMovie returns a single movie scoped to its owner.
func (s *MovieService) GetMovie(ctx context.Context, ownerID, movieID string) (*domain.Movie, error) {
	return s.store.GetMovie(ctx, ownerID, movieID)
}

// AddMovie looks the title up through the cache, merges the result with the
// caller-supplied title, and persists the movie for the owner.
//
// A failed lookup degrades rather than blocks: the movie is stored with the
// raw title and all canonical fields absent, and the lookup failure comes
// back as a warning on the result. Storage and validation failures still
// fail the operation.
func (s *MovieService) AddMovie(ctx context.Context, ownerID, title string, year int) (*AddResult, error) {
	result, lookupErr := s.cache.Lookup(ctx, title, year)
	if lookupErr != nil {
		if errors.Is(lookupErr, omdb.ErrInvalidQuery) {
			return nil, apperrors.Validation(lookupErr.Error())
		}
		s.logger.Warn("metadata lookup failed, adding without canonical fields",
			"title", title,
			"error", lookupErr,
		)
	}

	movie := domain.NewMovieFromLookup(title, result.Match)
	stored, err := s.store.AddMovie(ctx, ownerID, movie)
	if err != nil {
		return nil, err
	}

	res := &AddResult{Movie: stored}
	if lookupErr != nil {
		res.Warning = classifyLookupError(lookupErr)
	}
	return res, nil
}

// UpdateMovie applies a partial edit to the user override fields and,
// when requested, refreshes the canonical fields from the external source in
// the same transaction. Unlike AddMovie, a failed refresh propagates: the
// caller asked for fresh facts and did not get them.
func (s *MovieService) UpdateMovie(ctx context.Context, ownerID, movieID string, params MovieUpdateParams) (*domain.Movie, error) {
	if params.UserRating != nil && (*params.UserRating < 0 || *params.UserRating > 10) {
		return nil, apperrors.ValidationWithDetails("user_rating must be between 0 and 10",
			map[string]string{"user_rating": "out of range"})
	}

	update := store.MovieUpdate{
		UserTitle:  params.UserTitle,
		UserRating: params.UserRating,
		UserNotes:  params.UserNotes,
	}

	if params.Refresh {
		current, err := s.store.GetMovie(ctx, ownerID, movieID)
		if err != nil {
			return nil, err
		}

		s.cache.Invalidate(current.Name, 0)
		result, err := s.cache.Lookup(ctx, current.Name, 0)
		if err != nil {
			return nil, classifyLookupError(err)
		}
		// A no-match refresh keeps the stored facts; ApplyFacts treats a
		// nil record as a no-op.
		update.Facts = result.Match
	}

	return s.store.UpdateMovie(ctx, ownerID, movieID, update)
}

// DeleteMovie removes a movie from a user's list.
func (s *MovieService) DeleteMovie(ctx context.Context, ownerID, movieID string) error {
	return s.store.DeleteMovie(ctx, ownerID, movieID)
}

// classifyLookupError maps fetcher sentinels onto the domain error taxonomy.
func classifyLookupError(err error) *apperrors.Error {
	switch {
	case errors.Is(err, omdb.ErrInvalidQuery):
		return apperrors.Validation(err.Error())
	case errors.Is(err, omdb.ErrRateLimited):
		return apperrors.ExternalRateLimited("movie lookup rate limited")
	case errors.Is(err, omdb.ErrTimeout):
		return apperrors.ExternalTimeout("movie lookup timed out", err)
	default:
		return apperrors.ExternalUnavailable("movie lookup unavailable", err)
	}
}
