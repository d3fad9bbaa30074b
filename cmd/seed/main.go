// Package main provides a tool to seed the database with demo data.
//
// It creates a few users and fills their lists with well-known movies,
// including canonical metadata, so the API has something to serve without
// an OMDb key.
//
// Usage:
//
//	DB_PATH=~/MovieKeep/moviekeep.db go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/moviekeep/moviekeep-server/internal/domain"
	"github.com/moviekeep/moviekeep-server/internal/store/sqlite"
)

type seedMovie struct {
	title    string
	year     int
	director string
	rating   float64
	imdbID   string
}

var catalog = []seedMovie{
	{"Heat", 1995, "Michael Mann", 8.3, "tt0113277"},
	{"The Godfather", 1972, "Francis Ford Coppola", 9.2, "tt0068646"},
	{"Spirited Away", 2001, "Hayao Miyazaki", 8.6, "tt0245429"},
	{"Alien", 1979, "Ridley Scott", 8.5, "tt0078748"},
	{"Parasite", 2019, "Bong Joon Ho", 8.5, "tt6751668"},
	{"The Thing", 1982, "John Carpenter", 8.2, "tt0084787"},
}

var seedUsers = []string{"alice", "bob", "carol"}

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		dbPath = filepath.Join(home, "MovieKeep", "moviekeep.db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := sqlite.Open(dbPath, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	for i, name := range seedUsers {
		user, err := s.AddUser(ctx, name)
		if err != nil {
			log.Fatalf("Failed to create user %s: %v", name, err)
		}
		fmt.Printf("Created user %s (%s)\n", user.Name, user.ID)

		// Stagger the catalog so each user gets a different slice.
		for j := 0; j < 3; j++ {
			sm := catalog[(i*2+j)%len(catalog)]

			year := sm.year
			rating := sm.rating
			movie := domain.NewMovieFromLookup(sm.title, &domain.MovieFacts{
				Title:        sm.title,
				Year:         &year,
				Director:     sm.director,
				Rating:       &rating,
				ExternalID:   sm.imdbID,
				ExternalLink: "https://www.imdb.com/title/" + sm.imdbID + "/",
			})

			if _, err := s.AddMovie(ctx, user.ID, movie); err != nil {
				log.Fatalf("Failed to add movie %q for %s: %v", sm.title, user.Name, err)
			}
			fmt.Printf("  Added %s (%d)\n", sm.title, sm.year)
		}
	}

	fmt.Println("Done.")
}
