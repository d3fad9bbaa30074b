// Package domain defines the value types persisted by the store and the
// precedence rules that combine fetched movie facts with user overrides.
package domain

import (
	"strings"
	"time"
)

// MovieFacts is the canonical movie record produced by the metadata fetcher.
// Every field is optional: absent means the external source did not supply it.
type MovieFacts struct {
	Title        string   `json:"title"`
	Year         *int     `json:"year,omitempty"`
	Director     string   `json:"director,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
	Poster       string   `json:"poster,omitempty"`
	ExternalID   string   `json:"external_id,omitempty"`
	ExternalLink string   `json:"external_link,omitempty"`
}

// Movie represents a movie on a user's list. Canonical fields come from the
// metadata fetcher; the user_* fields are set only by explicit user edits.
type Movie struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`

	// Canonical fields, populated from MovieFacts (or the raw user-entered
	// title when the lookup produced no match).
	Name         string   `json:"name"`
	Year         *int     `json:"year,omitempty"`
	Director     string   `json:"director,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
	Poster       string   `json:"poster,omitempty"`
	ExternalID   string   `json:"external_id,omitempty"`
	ExternalLink string   `json:"external_link,omitempty"`

	// User overrides. Never written by the fetcher.
	UserTitle  string   `json:"user_title,omitempty"`
	UserRating *float64 `json:"user_rating,omitempty"`
	UserNotes  string   `json:"user_notes,omitempty"`

	AddedAt time.Time `json:"added_at"`
}

// NewMovieFromLookup builds the movie to persist from the caller-supplied raw
// title and the fetch result. A nil facts record (lookup failed or produced no
// match) falls back to the raw title with all canonical fields absent.
func NewMovieFromLookup(rawTitle string, facts *MovieFacts) *Movie {
	m := &Movie{Name: strings.TrimSpace(rawTitle)}
	m.ApplyFacts(facts)
	return m
}

// ApplyFacts overwrites the canonical fields from a fetch result, leaving the
// user_* fields untouched. A nil facts record is a no-op so a failed re-fetch
// never erases previously stored facts.
func (m *Movie) ApplyFacts(facts *MovieFacts) {
	if facts == nil {
		return
	}
	if facts.Title != "" {
		m.Name = facts.Title
	}
	m.Year = facts.Year
	m.Director = facts.Director
	m.Rating = facts.Rating
	m.Poster = facts.Poster
	m.ExternalID = facts.ExternalID
	m.ExternalLink = facts.ExternalLink
}

// EffectiveTitle returns the title to display: the user override when set,
// otherwise the canonical name.
func (m *Movie) EffectiveTitle() string {
	if m.UserTitle != "" {
		return m.UserTitle
	}
	return m.Name
}

// EffectiveRating returns the rating to display: the user override when set,
// otherwise the canonical rating. Nil means neither is available.
func (m *Movie) EffectiveRating() *float64 {
	if m.UserRating != nil {
		return m.UserRating
	}
	return m.Rating
}

// HasTitle reports whether the movie satisfies the invariant that at least
// one of name and user_title is non-empty.
func (m *Movie) HasTitle() bool {
	return strings.TrimSpace(m.Name) != "" || strings.TrimSpace(m.UserTitle) != ""
}
