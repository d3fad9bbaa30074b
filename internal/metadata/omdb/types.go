// Package omdb provides a rate-limited client for the OMDb movie lookup API.
package omdb

import "github.com/moviekeep/moviekeep-server/internal/domain"

// Result is the outcome of a successful lookup round trip.
// Match is nil when OMDb definitively reported no movie for the query;
// callers must treat that differently from a lookup error.
type Result struct {
	Match *domain.MovieFacts
}

// NoMatch reports whether the lookup completed without finding a movie.
func (r Result) NoMatch() bool {
	return r.Match == nil
}

// rawResponse is the OMDb API response. OMDb returns HTTP 200 for both hits
// and misses; Response carries "True"/"False" and Error the miss reason.
type rawResponse struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Director   string `json:"Director"`
	Poster     string `json:"Poster"`
	ImdbRating string `json:"imdbRating"`
	ImdbID     string `json:"imdbID"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}
