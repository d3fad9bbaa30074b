package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moviekeep/moviekeep-server/internal/domain"
	apperrors "github.com/moviekeep/moviekeep-server/internal/errors"
	"github.com/moviekeep/moviekeep-server/internal/metadata"
	"github.com/moviekeep/moviekeep-server/internal/metadata/omdb"
	"github.com/moviekeep/moviekeep-server/internal/store/sqlite"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
func strPtr(s string) *string     { return &s }

// stubFetcher returns a fixed result or error for every lookup.
type stubFetcher struct {
	result omdb.Result
	err    error
}

func (f *stubFetcher) Lookup(ctx context.Context, title string, year int) (omdb.Result, error) {
	return f.result, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newMovieService(t *testing.T, fetcher metadata.Fetcher) (*MovieService, *sqlite.Store) {
	t.Helper()
	logger := testLogger()
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	cache := metadata.NewCache(fetcher, time.Minute, time.Second, logger)
	return NewMovieService(s, cache, logger), s
}

func addOwner(t *testing.T, s *sqlite.Store) string {
	t.Helper()
	u, err := s.AddUser(context.Background(), "Alice")
	if err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	return u.ID
}

func inceptionFacts() *domain.MovieFacts {
	return &domain.MovieFacts{
		Title:        "Inception",
		Year:         intPtr(2010),
		Director:     "Christopher Nolan",
		Rating:       floatPtr(8.8),
		Poster:       "https://example.com/inception.jpg",
		ExternalID:   "tt1375666",
		ExternalLink: "https://www.imdb.com/title/tt1375666/",
	}
}

func TestAddMovie_Enriched(t *testing.T) {
	svc, s := newMovieService(t, &stubFetcher{result: omdb.Result{Match: inceptionFacts()}})
	owner := addOwner(t, s)

	res, err := svc.AddMovie(context.Background(), owner, "inception", 2010)
	if err != nil {
		t.Fatalf("AddMovie: %v", err)
	}
	if res.Warning != nil {
		t.Errorf("unexpected warning: %v", res.Warning)
	}

	m := res.Movie
	if m.Name != "Inception" {
		t.Errorf("Name: got %q, want canonical title", m.Name)
	}
	if m.Year == nil || *m.Year != 2010 {
		t.Errorf("Year: got %v", m.Year)
	}
	if m.Rating == nil || *m.Rating != 8.8 {
		t.Errorf("Rating: got %v", m.Rating)
	}

	// The record is durable, not just returned.
	movies, err := svc.ListMovies(context.Background(), owner)
	if err != nil {
		t.Fatalf("ListMovies: %v", err)
	}
	if len(movies) != 1 || movies[0].Director != "Christopher Nolan" {
		t.Errorf("persisted record mismatch: %+v", movies)
	}
}

func TestAddMovie_NoMatchUsesRawTitle(t *testing.T) {
	svc, s := newMovieService(t, &stubFetcher{result: omdb.Result{}})
	owner := addOwner(t, s)

	res, err := svc.AddMovie(context.Background(), owner, "My Home Video", 0)
	if err != nil {
		t.Fatalf("AddMovie: %v", err)
	}
	if res.Warning != nil {
		t.Errorf("no-match is not a failure, got warning %v", res.Warning)
	}
	if res.Movie.Name != "My Home Video" {
		t.Errorf("Name: got %q", res.Movie.Name)
	}
	if res.Movie.Year != nil || res.Movie.Director != "" || res.Movie.Rating != nil {
		t.Error("expected all canonical fields absent")
	}
}

func TestAddMovie_DegradesOnLookupFailure(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode apperrors.Code
	}{
		{"timeout", fmt.Errorf("lookup: %w", omdb.ErrTimeout), apperrors.CodeExternalTimeout},
		{"rate limited", fmt.Errorf("lookup: %w", omdb.ErrRateLimited), apperrors.CodeExternalRateLimited},
		{"server error", fmt.Errorf("lookup: %w", omdb.ErrServer), apperrors.CodeExternalUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, s := newMovieService(t, &stubFetcher{err: tt.err})
			owner := addOwner(t, s)

			res, err := svc.AddMovie(context.Background(), owner, "Inception", 0)
			if err != nil {
				t.Fatalf("degraded add must succeed, got %v", err)
			}
			if res.Movie.Name != "Inception" {
				t.Errorf("Name: got %q", res.Movie.Name)
			}
			if res.Movie.Year != nil || res.Movie.Director != "" || res.Movie.Rating != nil ||
				res.Movie.Poster != "" || res.Movie.ExternalLink != "" {
				t.Error("expected all canonical fields absent")
			}
			if res.Warning == nil {
				t.Fatal("expected a warning")
			}
			if res.Warning.Code != tt.wantCode {
				t.Errorf("warning code: got %s, want %s", res.Warning.Code, tt.wantCode)
			}
		})
	}
}

func TestAddMovie_EmptyTitleRejected(t *testing.T) {
	svc, s := newMovieService(t, &stubFetcher{err: omdb.ErrInvalidQuery})
	owner := addOwner(t, s)

	_, err := svc.AddMovie(context.Background(), owner, "   ", 0)
	if !apperrors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddMovie_OwnerMissing(t *testing.T) {
	svc, _ := newMovieService(t, &stubFetcher{result: omdb.Result{Match: inceptionFacts()}})

	_, err := svc.AddMovie(context.Background(), "usr-nonexistent", "Inception", 0)
	if !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateMovie_OverridesOnly(t *testing.T) {
	svc, s := newMovieService(t, &stubFetcher{result: omdb.Result{Match: inceptionFacts()}})
	owner := addOwner(t, s)

	res, err := svc.AddMovie(context.Background(), owner, "Inception", 0)
	if err != nil {
		t.Fatalf("AddMovie: %v", err)
	}

	updated, err := svc.UpdateMovie(context.Background(), owner, res.Movie.ID, MovieUpdateParams{
		UserRating: floatPtr(9.0),
		UserNotes:  strPtr("mind-bending"),
	})
	if err != nil {
		t.Fatalf("UpdateMovie: %v", err)
	}

	if updated.UserRating == nil || *updated.UserRating != 9.0 {
		t.Errorf("UserRating: got %v", updated.UserRating)
	}
	if got := updated.EffectiveRating(); got == nil || *got != 9.0 {
		t.Errorf("EffectiveRating: got %v, want override", got)
	}
	if updated.Rating == nil || *updated.Rating != 8.8 {
		t.Error("canonical rating must be kept alongside the override")
	}
}

func TestUpdateMovie_RatingOutOfRange(t *testing.T) {
	svc, s := newMovieService(t, &stubFetcher{result: omdb.Result{}})
	owner := addOwner(t, s)

	res, err := svc.AddMovie(context.Background(), owner, "Inception", 0)
	if err != nil {
		t.Fatalf("AddMovie: %v", err)
	}

	for _, rating := range []float64{-0.5, 10.5} {
		_, err := svc.UpdateMovie(context.Background(), owner, res.Movie.ID, MovieUpdateParams{
			UserRating: floatPtr(rating),
		})
		if !apperrors.Is(err, apperrors.ErrValidation) {
			t.Errorf("rating %v: expected validation error, got %v", rating, err)
		}
	}
}

func TestUpdateMovie_Refresh(t *testing.T) {
	fetcher := &stubFetcher{err: fmt.Errorf("lookup: %w", omdb.ErrTimeout)}
	svc, s := newMovieService(t, fetcher)
	owner := addOwner(t, s)

	// First add degrades: no canonical fields.
	res, err := svc.AddMovie(context.Background(), owner, "Inception", 0)
	if err != nil {
		t.Fatalf("AddMovie: %v", err)
	}
	if res.Warning == nil {
		t.Fatal("expected degraded add")
	}

	// Upstream recovers; refresh backfills the canonical fields.
	fetcher.err = nil
	fetcher.result = omdb.Result{Match: inceptionFacts()}

	updated, err := svc.UpdateMovie(context.Background(), owner, res.Movie.ID, MovieUpdateParams{Refresh: true})
	if err != nil {
		t.Fatalf("UpdateMovie refresh: %v", err)
	}
	if updated.Director != "Christopher Nolan" || updated.Year == nil || *updated.Year != 2010 {
		t.Errorf("refresh did not backfill facts: %+v", updated)
	}
}

func TestUpdateMovie_RefreshFailurePropagates(t *testing.T) {
	fetcher := &stubFetcher{result: omdb.Result{Match: inceptionFacts()}}
	svc, s := newMovieService(t, fetcher)
	owner := addOwner(t, s)

	res, err := svc.AddMovie(context.Background(), owner, "Inception", 0)
	if err != nil {
		t.Fatalf("AddMovie: %v", err)
	}

	fetcher.err = fmt.Errorf("lookup: %w", omdb.ErrRateLimited)
	// Invalidate happens inside UpdateMovie, so the stale cached success
	// cannot mask the failure.
	_, err = svc.UpdateMovie(context.Background(), owner, res.Movie.ID, MovieUpdateParams{Refresh: true})
	if !apperrors.Is(err, apperrors.ErrExternalRateLimited) {
		t.Fatalf("expected rate limited error, got %v", err)
	}
}

func TestDeleteMovie_ThenNotFound(t *testing.T) {
	svc, s := newMovieService(t, &stubFetcher{result: omdb.Result{}})
	owner := addOwner(t, s)

	res, err := svc.AddMovie(context.Background(), owner, "Inception", 0)
	if err != nil {
		t.Fatalf("AddMovie: %v", err)
	}

	if err := svc.DeleteMovie(context.Background(), owner, res.Movie.ID); err != nil {
		t.Fatalf("DeleteMovie: %v", err)
	}
	if err := svc.DeleteMovie(context.Background(), owner, res.Movie.ID); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("second delete: expected not found, got %v", err)
	}
}
