package api

import (
	json "github.com/go-json-experiment/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/moviekeep/moviekeep-server/internal/domain"
	"github.com/moviekeep/moviekeep-server/internal/http/response"
	"github.com/moviekeep/moviekeep-server/internal/service"
)

// AddMovieRequest is the payload for adding a movie to a user's list.
type AddMovieRequest struct {
	Title string `json:"title" validate:"required,min=1,max=512"`
	Year  int    `json:"year" validate:"omitempty,gte=1888,lte=2100"`
}

// MovieUpdateRequest contains fields that can be updated on a movie.
// Only non-nil fields are applied (true PATCH semantics).
// Note: omitempty is intentionally not used here - we need to distinguish between
// "field not provided" (nil pointer) and "field set to empty" (pointer to "").
type MovieUpdateRequest struct {
	UserTitle  *string  `json:"user_title"`
	UserRating *float64 `json:"user_rating" validate:"omitempty,gte=0,lte=10"`
	UserNotes  *string  `json:"user_notes"`
	Refresh    bool     `json:"refresh"`
}

// MovieResponse decorates a movie with its effective display fields, where
// the user's overrides win over the canonical metadata.
type MovieResponse struct {
	*domain.Movie
	EffectiveTitle  string   `json:"effective_title"`
	EffectiveRating *float64 `json:"effective_rating,omitempty"`
}

func newMovieResponse(m *domain.Movie) MovieResponse {
	return MovieResponse{
		Movie:           m,
		EffectiveTitle:  m.EffectiveTitle(),
		EffectiveRating: m.EffectiveRating(),
	}
}

func newMovieListResponse(movies []*domain.Movie) []MovieResponse {
	out := make([]MovieResponse, 0, len(movies))
	for _, m := range movies {
		out = append(out, newMovieResponse(m))
	}
	return out
}

// handleListMovies returns all movies on a user's list.
func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	movies, err := s.movieService.ListMovies(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, newMovieListResponse(movies), s.logger)
}

// handleGetMovie returns a single movie from a user's list.
func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	movieID := chi.URLParam(r, "movieID")

	movie, err := s.movieService.GetMovie(r.Context(), userID, movieID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, newMovieResponse(movie), s.logger)
}

// handleAddMovie adds a movie to a user's list, enriching it with external
// metadata. When the external lookup fails the movie is still stored and the
// response carries a warning describing the degradation.
func (s *Server) handleAddMovie(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req AddMovieRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	result, err := s.movieService.AddMovie(r.Context(), userID, req.Title, req.Year)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if result.Warning != nil {
		response.JSONWarning(w, http.StatusCreated, newMovieResponse(result.Movie), result.Warning.Message, s.logger)
		return
	}

	response.Created(w, newMovieResponse(result.Movie), s.logger)
}

// handleUpdateMovie updates a movie's user overrides (PATCH semantics) and
// optionally refreshes its canonical metadata from the external source.
func (s *Server) handleUpdateMovie(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	movieID := chi.URLParam(r, "movieID")

	var req MovieUpdateRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	movie, err := s.movieService.UpdateMovie(r.Context(), userID, movieID, service.MovieUpdateParams{
		UserTitle:  req.UserTitle,
		UserRating: req.UserRating,
		UserNotes:  req.UserNotes,
		Refresh:    req.Refresh,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, newMovieResponse(movie), s.logger)
}

// handleDeleteMovie removes a movie from a user's list.
func (s *Server) handleDeleteMovie(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	movieID := chi.URLParam(r, "movieID")

	if err := s.movieService.DeleteMovie(r.Context(), userID, movieID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
